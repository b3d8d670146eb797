package tools

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"medianote/errors"
)

// FFmpeg clips and converts local media files.
type FFmpeg struct {
	runner *Runner
}

func NewFFmpeg(runner *Runner) *FFmpeg {
	return &FFmpeg{runner: runner}
}

// Clip writes the [begin, end] section of input to output. When the
// output container matches the input the streams are copied without
// re-encoding. An existing output file is a hard error.
func (f *FFmpeg) Clip(ctx context.Context, input string, begin, end *float64, output string) error {
	const op = "FFmpeg.Clip"

	if _, err := os.Stat(output); err == nil {
		return errors.OutputAlreadyExists(op, nil, "output file already exists: "+output)
	}

	path, err := f.runner.resolve(op, f.runner.config.FFmpegPath)
	if err != nil {
		return err
	}

	_, err = f.runner.run(ctx, op, path, clipArgs(input, begin, end, output)...)
	return err
}

func clipArgs(input string, begin, end *float64, output string) []string {
	args := []string{"-hide_banner", "-loglevel", "error", "-n"}

	if begin != nil {
		args = append(args, "-ss", formatSeconds(*begin))
	}
	args = append(args, "-i", input)
	if end != nil {
		start := 0.0
		if begin != nil {
			start = *begin
		}
		args = append(args, "-t", formatSeconds(*end-start))
	}

	// Same container: stream copy is lossless and fast. Anything else is
	// a conversion and needs a re-encode.
	if sameContainer(input, output) {
		args = append(args, "-c", "copy")
	}

	return append(args, output)
}

func sameContainer(input, output string) bool {
	return strings.EqualFold(filepath.Ext(input), filepath.Ext(output))
}

func formatSeconds(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', -1, 64)
}
