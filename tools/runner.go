// Package tools wraps the external processes that do the real work:
// yt-dlp for metadata and clipped downloads, ffmpeg for local clipping and
// conversion, tesseract for OCR. Every call is a blocking subprocess
// invocation with captured output; failures surface immediately as typed
// errors and are never retried.
package tools

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"medianote/errors"
	"medianote/logger"
)

// Config holds the shared settings for tool invocations.
type Config struct {
	YtdlpPath     string
	FFmpegPath    string
	TesseractPath string
	Timeout       time.Duration
	OCRLanguage   string
}

// Runner executes external tools with a shared timeout and logging.
type Runner struct {
	config Config
	log    *logrus.Entry
}

func NewRunner(cfg Config) *Runner {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Minute
	}
	return &Runner{
		config: cfg,
		log:    logger.WithComponent("tools"),
	}
}

// resolve locates the executable, mapping an absent binary to the
// tool-missing error so the caller can report which dependency to install.
func (r *Runner) resolve(op, name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", errors.ExternalToolMissing(op, err, "required executable not found: "+name)
	}
	return path, nil
}

// run executes the tool and returns its stdout. A nonzero exit becomes a
// tool-failed error carrying the captured stderr, since that is usually
// the only diagnostic the user will get.
func (r *Runner) run(ctx context.Context, op, path string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	r.log.WithFields(logrus.Fields{
		"op":   op,
		"cmd":  path,
		"args": args,
	}).Debug("Executing external tool")

	cmd := exec.CommandContext(ctx, path, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		r.log.WithFields(logrus.Fields{
			"op":     op,
			"stderr": detail,
		}).Error("External tool failed")
		return nil, errors.ExternalToolFailed(op, err, detail)
	}

	return stdout.Bytes(), nil
}
