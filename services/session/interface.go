package session

import (
	"context"
	"time"

	"medianote/models"
)

// Controller is the slice of the player control channel the session
// needs. *player.Player satisfies it; tests substitute a fake.
type Controller interface {
	LoadFile(path string, options []string) error
	WaitFileLoaded(timeout time.Duration) error

	Position() (float64, error)
	Duration() (float64, error)
	Paused() (bool, error)
	Speed() (float64, error)
	Seekable() (bool, error)
	SubText() (string, error)
	SubVisible() (bool, error)

	SetPause(pause bool) error
	SetSpeed(speed float64) error
	SetPercentPos(pct float64) error
	SetSubVisibility(visible bool) error
	Seek(seconds float64, absolute bool) error

	FrameStep() error
	FrameBackStep() error
	ChapterNext() error
	ChapterPrevious() error
	SubAdd(path string) error
	SubRemove() error
	ScreenshotToFile(path string) error

	Quit() error
}

// Downloader performs clipped downloads of remote media.
type Downloader interface {
	DownloadClip(ctx context.Context, url string, begin, end *float64, output string) error
}

// Transcoder clips/converts local media files.
type Transcoder interface {
	Clip(ctx context.Context, input string, begin, end *float64, output string) error
}

// Recognizer extracts text from a captured frame.
type Recognizer interface {
	Recognize(ctx context.Context, imagePath string) (string, error)
}

// Clipboard pushes text to the OS clipboard.
type Clipboard interface {
	CopyToClipboard(ctx context.Context, text string) error
}

// Service is the set of named session actions. Each action reads and
// updates the explicit per-session State; nothing is process-global.
type Service interface {
	Open(ctx context.Context, target string) (*State, error)
	OpenLink(ctx context.Context, body string, offset int) (*State, error)
	Refresh(state *State) error

	TogglePause(state *State) error
	StepFrame(state *State, forward bool) error
	SeekRelative(state *State, seconds float64) error
	JumpPercent(state *State, percent float64) error
	SetSpeed(state *State, speed float64) error
	AdjustSpeed(state *State, delta float64) error
	Chapter(state *State, forward bool) error

	MarkBegin(state *State) error
	ClearMark(state *State)

	SubtitleToggle(state *State) error
	LoadSubtitle(state *State, path string) error
	RemoveSubtitle(state *State) error
	CopySubtitle(ctx context.Context, state *State) error

	InsertLink(ctx context.Context, state *State, body string, offset int, description string) (string, error)
	Screenshot(ctx context.Context, state *State) (string, error)
	OCR(ctx context.Context, state *State) (string, error)
	Clip(ctx context.Context, state *State, output string) error
	CopyTimestamp(ctx context.Context, state *State) error

	RecentPlays(ctx context.Context, limit int) ([]models.PlayRecord, error)
	Favorites(ctx context.Context) ([]models.Favorite, error)
	AddFavorite(ctx context.Context, state *State) error

	Quit() error
}

// Config holds session-level settings.
type Config struct {
	ScreenshotDir string
	AttachDir     string
	SeekStep      float64
	SpeedStep     float64
	LoadTimeout   time.Duration
}
