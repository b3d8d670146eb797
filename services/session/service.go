// Package session implements the playback session: opening media through
// the extractor registry, the interactive seek actions, and the
// operations that feed results back into notes (links, screenshots, OCR
// text, clips). Session state is passed explicitly into and out of each
// action rather than held in a process-wide slot, so multiple sessions
// cannot trample each other's metadata.
package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"medianote/errors"
	"medianote/extractor"
	"medianote/logger"
	"medianote/medialink"
	"medianote/models"
	"medianote/notes"
	"medianote/repository"
	"medianote/validation"
)

// State is the explicit per-session state. Mark is the pending range
// start (the A point) for range links and clips.
type State struct {
	Path     string
	Position float64
	Paused   bool
	Speed    float64
	Mark     *float64
	Info     *models.MediaInfo
}

type Store = repository.Store

type service struct {
	ctrl       Controller
	registry   *extractor.Registry
	downloader Downloader
	transcoder Transcoder
	recognizer Recognizer
	clipboard  Clipboard
	store      Store
	config     Config
	log        *logrus.Entry
}

func NewService(
	ctrl Controller,
	registry *extractor.Registry,
	downloader Downloader,
	transcoder Transcoder,
	recognizer Recognizer,
	clipboard Clipboard,
	store Store,
	config Config,
) Service {
	if config.SeekStep <= 0 {
		config.SeekStep = 5
	}
	if config.SpeedStep <= 0 {
		config.SpeedStep = 0.1
	}
	if config.LoadTimeout <= 0 {
		config.LoadTimeout = 30 * time.Second
	}
	return &service{
		ctrl:       ctrl,
		registry:   registry,
		downloader: downloader,
		transcoder: transcoder,
		recognizer: recognizer,
		clipboard:  clipboard,
		store:      store,
		config:     config,
		log:        logger.WithComponent("session"),
	}
}

// Open starts a new playback session for target and returns its fresh
// state. The previous session's state is simply abandoned by the caller.
func (s *service) Open(ctx context.Context, target string) (*State, error) {
	const op = "SessionService.Open"

	if err := validation.ValidateTarget(target); err != nil {
		return nil, err
	}

	resolved, err := s.registry.Extract(ctx, target)
	if err != nil {
		return nil, err
	}

	if err := s.ctrl.LoadFile(resolved.URL, resolved.Options); err != nil {
		return nil, err
	}
	if err := s.ctrl.WaitFileLoaded(s.config.LoadTimeout); err != nil {
		return nil, err
	}

	title := ""
	if resolved.Info != nil {
		title = resolved.Info.Title
	}
	if err := s.store.RecordPlay(ctx, target, title); err != nil {
		// History is a convenience; playback already started.
		s.log.WithError(err).Warn("Failed to record play history")
	}

	state := &State{Path: target, Info: resolved.Info}
	if err := s.Refresh(state); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"op": op, "target": target}).Info("Playback started")
	return state, nil
}

// OpenLink opens the media link at offset in the note body, seeks to its
// begin time, and, for range links, leaves the mark at begin so the
// range can be re-inserted or clipped.
func (s *service) OpenLink(ctx context.Context, body string, offset int) (*State, error) {
	element, err := notes.LinkAt(body, offset)
	if err != nil {
		return nil, err
	}

	state, err := s.Open(ctx, element.Link.Path)
	if err != nil {
		return nil, err
	}

	if element.Link.Begin != nil {
		if err := s.ctrl.Seek(*element.Link.Begin, true); err != nil {
			return nil, err
		}
		if element.Link.End != nil {
			begin := *element.Link.Begin
			state.Mark = &begin
		}
		if err := s.Refresh(state); err != nil {
			return nil, err
		}
	}
	return state, nil
}

// Refresh re-reads position, pause flag and speed from the player.
func (s *service) Refresh(state *State) error {
	position, err := s.ctrl.Position()
	if err != nil {
		return err
	}
	paused, err := s.ctrl.Paused()
	if err != nil {
		return err
	}
	speed, err := s.ctrl.Speed()
	if err != nil {
		return err
	}

	state.Position = position
	state.Paused = paused
	state.Speed = speed
	return nil
}

func (s *service) TogglePause(state *State) error {
	if err := s.ctrl.SetPause(!state.Paused); err != nil {
		return err
	}
	return s.Refresh(state)
}

func (s *service) StepFrame(state *State, forward bool) error {
	var err error
	if forward {
		err = s.ctrl.FrameStep()
	} else {
		err = s.ctrl.FrameBackStep()
	}
	if err != nil {
		return err
	}
	return s.Refresh(state)
}

func (s *service) SeekRelative(state *State, seconds float64) error {
	if err := s.ctrl.Seek(seconds, false); err != nil {
		return err
	}
	return s.Refresh(state)
}

func (s *service) JumpPercent(state *State, percent float64) error {
	const op = "SessionService.JumpPercent"

	if percent < 0 || percent > 100 {
		return errors.Internal(op, nil, fmt.Sprintf("percent out of range: %v", percent))
	}
	seekable, err := s.ctrl.Seekable()
	if err != nil {
		return err
	}
	if !seekable {
		return errors.NotSeekable(op, nil, "current stream is not seekable")
	}
	if err := s.ctrl.SetPercentPos(percent); err != nil {
		return err
	}
	return s.Refresh(state)
}

func (s *service) SetSpeed(state *State, speed float64) error {
	const op = "SessionService.SetSpeed"

	if speed <= 0 {
		return errors.Internal(op, nil, fmt.Sprintf("speed must be positive: %v", speed))
	}
	if err := s.ctrl.SetSpeed(speed); err != nil {
		return err
	}
	return s.Refresh(state)
}

func (s *service) AdjustSpeed(state *State, delta float64) error {
	return s.SetSpeed(state, state.Speed+delta)
}

func (s *service) Chapter(state *State, forward bool) error {
	var err error
	if forward {
		err = s.ctrl.ChapterNext()
	} else {
		err = s.ctrl.ChapterPrevious()
	}
	if err != nil {
		return err
	}
	return s.Refresh(state)
}

// MarkBegin records the current position as the range start.
func (s *service) MarkBegin(state *State) error {
	if err := s.Refresh(state); err != nil {
		return err
	}
	position := state.Position
	state.Mark = &position
	return nil
}

func (s *service) ClearMark(state *State) {
	state.Mark = nil
}

// SubtitleToggle flips subtitle visibility for the current session.
func (s *service) SubtitleToggle(state *State) error {
	visible, err := s.ctrl.SubVisible()
	if err != nil {
		return err
	}
	return s.ctrl.SetSubVisibility(!visible)
}

// LoadSubtitle attaches an external subtitle file or URL to the session.
func (s *service) LoadSubtitle(state *State, path string) error {
	if err := validation.ValidateTarget(path); err != nil {
		return err
	}
	return s.ctrl.SubAdd(path)
}

func (s *service) RemoveSubtitle(state *State) error {
	return s.ctrl.SubRemove()
}

// CopySubtitle puts the subtitle line showing at the current position on
// the OS clipboard.
func (s *service) CopySubtitle(ctx context.Context, state *State) error {
	text, err := s.ctrl.SubText()
	if err != nil {
		return err
	}
	return s.clipboard.CopyToClipboard(ctx, text)
}

// InsertLink composes a link from the live player state and inserts it
// into the note body at offset. With a mark set the link covers
// mark..position and the mark is consumed; otherwise it is a plain
// timestamp link.
func (s *service) InsertLink(ctx context.Context, state *State, body string, offset int, description string) (string, error) {
	if err := s.Refresh(state); err != nil {
		return "", err
	}

	begin := state.Position
	var end *float64
	if state.Mark != nil {
		begin = *state.Mark
		position := state.Position
		end = &position
	}

	text := medialink.Encode(state.Path, begin, end, description)
	updated, err := notes.Insert(body, offset, text)
	if err != nil {
		return "", err
	}

	state.Mark = nil
	return updated, nil
}

// Screenshot captures the current frame, files it as an attachment, and
// returns the reference text to embed in the note.
func (s *service) Screenshot(ctx context.Context, state *State) (string, error) {
	shot, err := s.capture()
	if err != nil {
		return "", err
	}

	dest, err := notes.Attach(shot, s.config.AttachDir)
	if err != nil {
		return "", err
	}
	os.Remove(shot)

	return notes.ImageRef(dest), nil
}

// OCR captures the current frame and returns the text recognized in it.
// The capture is temporary and removed afterwards.
func (s *service) OCR(ctx context.Context, state *State) (string, error) {
	shot, err := s.capture()
	if err != nil {
		return "", err
	}
	defer os.Remove(shot)

	return s.recognizer.Recognize(ctx, shot)
}

func (s *service) capture() (string, error) {
	const op = "SessionService.capture"

	if err := os.MkdirAll(s.config.ScreenshotDir, 0755); err != nil {
		return "", errors.Internal(op, err, "failed to create screenshot directory")
	}

	shot := filepath.Join(s.config.ScreenshotDir, uuid.New().String()+".png")
	if err := s.ctrl.ScreenshotToFile(shot); err != nil {
		return "", err
	}
	return shot, nil
}

// Clip writes the marked range to output: remote media goes through the
// download tool, local files through the transcoder. The mark is
// consumed on success.
func (s *service) Clip(ctx context.Context, state *State, output string) error {
	const op = "SessionService.Clip"

	if state.Mark == nil {
		return errors.Internal(op, nil, "no range marked; set a begin mark first")
	}
	if err := validation.ValidateOutputPath(output); err != nil {
		return err
	}
	if err := s.Refresh(state); err != nil {
		return err
	}

	begin := *state.Mark
	end := state.Position
	if end <= begin {
		return errors.Internal(op, nil, "range end must be after its begin")
	}

	var err error
	if validation.IsRemote(state.Path) {
		err = s.downloader.DownloadClip(ctx, state.Path, &begin, &end, output)
	} else {
		err = s.transcoder.Clip(ctx, state.Path, &begin, &end, output)
	}
	if err != nil {
		return err
	}

	state.Mark = nil
	s.log.WithFields(logrus.Fields{"op": op, "output": output}).Info("Clip written")
	return nil
}

// CopyTimestamp puts the current position, in HMS form, on the OS
// clipboard.
func (s *service) CopyTimestamp(ctx context.Context, state *State) error {
	if err := s.Refresh(state); err != nil {
		return err
	}
	return s.clipboard.CopyToClipboard(ctx, medialink.SecondsToHMS(state.Position, false, true))
}

func (s *service) RecentPlays(ctx context.Context, limit int) ([]models.PlayRecord, error) {
	return s.store.RecentPlays(ctx, limit)
}

func (s *service) Favorites(ctx context.Context) ([]models.Favorite, error) {
	return s.store.Favorites(ctx)
}

func (s *service) AddFavorite(ctx context.Context, state *State) error {
	if err := s.Refresh(state); err != nil {
		return err
	}

	title := ""
	if state.Info != nil {
		title = state.Info.Title
	}
	return s.store.AddFavorite(ctx, models.Favorite{
		Path:     state.Path,
		Title:    title,
		Position: state.Position,
	})
}

func (s *service) Quit() error {
	return s.ctrl.Quit()
}
