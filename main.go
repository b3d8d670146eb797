package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"medianote/config"
	"medianote/extractor"
	"medianote/logger"
	"medianote/medialink"
	"medianote/notes"
	"medianote/player"
	"medianote/repository/sqlite"
	"medianote/services/session"
	"medianote/tools"
)

func main() {
	cfg := config.LoadConfig()
	if err := config.ValidateConfig(cfg); err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}

	if err := logger.Init(cfg.LogDir); err != nil {
		logrus.WithError(err).Fatal("Failed to initialize logging")
	}

	notePath := ""
	if len(os.Args) > 1 {
		notePath = os.Args[1]
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to open database")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logrus.WithError(err).Error("Failed to close database")
		}
	}()

	ctrl, err := player.Launch(player.LaunchConfig{
		MpvPath:        cfg.MpvPath,
		SocketPath:     cfg.SocketPath,
		ConnectTimeout: cfg.ConnectTimeout,
	})
	if err != nil {
		logrus.WithError(err).Fatal("Failed to start player")
	}
	defer ctrl.Quit()

	ctrl.OnFileLoaded(func() {
		logrus.Info("Player finished loading a file")
	})

	runner := tools.NewRunner(tools.Config{
		YtdlpPath:     cfg.YtdlpPath,
		FFmpegPath:    cfg.FFmpegPath,
		TesseractPath: cfg.TesseractPath,
		Timeout:       cfg.ToolTimeout,
		OCRLanguage:   cfg.OCRLanguage,
	})
	ytdlp := tools.NewYtdlp(runner)

	limiter := rate.NewLimiter(rate.Every(cfg.RateLimitInterval), cfg.RateLimit)
	registry := extractor.NewRegistry(extractor.NewRemote(ytdlp, limiter))

	svc := session.NewService(
		ctrl,
		registry,
		ytdlp,
		tools.NewFFmpeg(runner),
		tools.NewTesseract(runner),
		runner,
		store,
		session.Config{
			ScreenshotDir: cfg.ScreenshotDir,
			AttachDir:     cfg.AttachDir,
			SeekStep:      cfg.SeekStep,
			SpeedStep:     cfg.SpeedStep,
		},
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		logrus.Info("Shutting down")
		cancel()
		ctrl.Quit()
		if err := store.Close(); err != nil {
			logrus.WithError(err).Error("Failed to close database")
		}
		os.Exit(0)
	}()

	loop := &controlLoop{
		svc:      svc,
		cfg:      cfg,
		notePath: notePath,
		out:      os.Stdout,
	}
	loop.run(ctx, bufio.NewScanner(os.Stdin))
}

// controlLoop is the interactive state machine: it keeps the current
// session state and maps single-key commands to named session actions.
type controlLoop struct {
	svc      session.Service
	cfg      *config.Config
	notePath string
	state    *session.State
	out      *os.File
}

func (l *controlLoop) run(ctx context.Context, in *bufio.Scanner) {
	fmt.Fprintln(l.out, "medianote ready; ? for help")

	for {
		fmt.Fprint(l.out, l.prompt())
		if !in.Scan() {
			return
		}
		line := strings.TrimSpace(in.Text())
		if line == "" {
			continue
		}

		cmd, arg, _ := strings.Cut(line, " ")
		if cmd == "q" {
			l.svc.Quit()
			return
		}
		if err := l.dispatch(ctx, cmd, strings.TrimSpace(arg)); err != nil {
			fmt.Fprintln(l.out, "error:", err)
		}
	}
}

func (l *controlLoop) prompt() string {
	if l.state == nil {
		return "(no session)> "
	}
	flag := ""
	if l.state.Paused {
		flag = " [paused]"
	}
	return medialink.SecondsToHMS(l.state.Position, false, true) + flag + "> "
}

func (l *controlLoop) dispatch(ctx context.Context, cmd, arg string) error {
	// Commands below 'open' need a live session.
	switch cmd {
	case "?":
		l.printHelp()
		return nil
	case "o":
		state, err := l.svc.Open(ctx, arg)
		if err != nil {
			return err
		}
		l.state = state
		return nil
	case "O":
		body, err := l.readNote()
		if err != nil {
			return err
		}
		offset, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("usage: O <offset>")
		}
		state, err := l.svc.OpenLink(ctx, body, offset)
		if err != nil {
			return err
		}
		l.state = state
		return nil
	case "h":
		records, err := l.svc.RecentPlays(ctx, 20)
		if err != nil {
			return err
		}
		for _, record := range records {
			fmt.Fprintf(l.out, "%s  %s\n", record.PlayedAt.Format("2006-01-02 15:04"), record.Path)
		}
		return nil
	case "F":
		favorites, err := l.svc.Favorites(ctx)
		if err != nil {
			return err
		}
		for _, favorite := range favorites {
			fmt.Fprintf(l.out, "%s  %s\n", favorite.Path, favorite.Title)
		}
		return nil
	}

	if l.state == nil {
		return fmt.Errorf("no session; open media with: o <path-or-url>")
	}

	switch cmd {
	case "p":
		return l.svc.TogglePause(l.state)
	case "f":
		return l.svc.StepFrame(l.state, true)
	case "b":
		return l.svc.StepFrame(l.state, false)
	case "j":
		seconds, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			seconds = l.cfg.SeekStep
		}
		return l.svc.SeekRelative(l.state, seconds)
	case "k":
		seconds, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			seconds = l.cfg.SeekStep
		}
		return l.svc.SeekRelative(l.state, -seconds)
	case "%":
		percent, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return fmt.Errorf("usage: %% <0-100>")
		}
		return l.svc.JumpPercent(l.state, percent)
	case "s":
		speed, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return fmt.Errorf("usage: s <multiplier>")
		}
		return l.svc.SetSpeed(l.state, speed)
	case "]":
		return l.svc.AdjustSpeed(l.state, l.cfg.SpeedStep)
	case "[":
		return l.svc.AdjustSpeed(l.state, -l.cfg.SpeedStep)
	case "n":
		return l.svc.Chapter(l.state, true)
	case "N":
		return l.svc.Chapter(l.state, false)
	case "m":
		return l.svc.MarkBegin(l.state)
	case "M":
		l.svc.ClearMark(l.state)
		return nil
	case "i":
		return l.insertLink(ctx, arg)
	case "S":
		ref, err := l.svc.Screenshot(ctx, l.state)
		if err != nil {
			return err
		}
		fmt.Fprintln(l.out, ref)
		return l.appendToNote(ref)
	case "r":
		text, err := l.svc.OCR(ctx, l.state)
		if err != nil {
			return err
		}
		fmt.Fprintln(l.out, text)
		return nil
	case "c":
		if arg == "" {
			return fmt.Errorf("usage: c <output-file>")
		}
		return l.svc.Clip(ctx, l.state, arg)
	case "t":
		return l.svc.CopyTimestamp(ctx, l.state)
	case "v":
		return l.svc.SubtitleToggle(l.state)
	case "l":
		if arg == "" {
			return fmt.Errorf("usage: l <subtitle-file>")
		}
		return l.svc.LoadSubtitle(l.state, arg)
	case "L":
		return l.svc.RemoveSubtitle(l.state)
	case "T":
		return l.svc.CopySubtitle(ctx, l.state)
	case "a":
		return l.svc.AddFavorite(ctx, l.state)
	default:
		return fmt.Errorf("unknown command %q; ? for help", cmd)
	}
}

func (l *controlLoop) insertLink(ctx context.Context, description string) error {
	body, err := l.readNote()
	if err != nil {
		return err
	}

	offset := len(body)
	updated, err := l.svc.InsertLink(ctx, l.state, body, offset, description)
	if err != nil {
		return err
	}
	if offset > 0 && !strings.HasSuffix(body, "\n") {
		updated, err = notes.Replace(updated, offset, offset, "\n")
		if err != nil {
			return err
		}
	}
	return l.writeNote(updated + "\n")
}

func (l *controlLoop) appendToNote(text string) error {
	if l.notePath == "" {
		return nil
	}
	body, err := l.readNote()
	if err != nil {
		return err
	}
	updated, err := notes.Insert(body, len(body), text+"\n")
	if err != nil {
		return err
	}
	return l.writeNote(updated)
}

func (l *controlLoop) readNote() (string, error) {
	if l.notePath == "" {
		return "", fmt.Errorf("no note file; start with: medianote <note-file>")
	}
	data, err := os.ReadFile(l.notePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return string(data), nil
}

func (l *controlLoop) writeNote(body string) error {
	return os.WriteFile(l.notePath, []byte(body), 0644)
}

func (l *controlLoop) printHelp() {
	fmt.Fprint(l.out, `commands:
  o <path|url>   open media          O <offset>  open link at note offset
  p              toggle pause        f / b       frame step / back
  j / k [sec]    seek fwd / back     % <pct>     jump to percent
  s <speed>      set speed           ] / [       speed up / down
  n / N          chapter next/prev   m / M       set / clear range mark
  i [desc]       insert link         S           screenshot into note
  r              OCR current frame   c <file>    clip marked range
  t              copy timestamp      T           copy subtitle text
  v              toggle subtitles    l / L       load / remove subtitle
  a              add favorite
  h              history             F           favorites
  q              quit
`)
}
