package tools

import (
	"context"
	"os/exec"
	"runtime"
	"strings"

	"medianote/errors"
)

// clipboardCommands in preference order; the first one on PATH wins.
var clipboardCommands = [][]string{
	{"pbcopy"},
	{"wl-copy"},
	{"xclip", "-selection", "clipboard"},
	{"xsel", "--clipboard", "--input"},
}

// CopyToClipboard pushes text to the OS clipboard through whichever
// clipboard tool is installed.
func (r *Runner) CopyToClipboard(ctx context.Context, text string) error {
	const op = "Runner.CopyToClipboard"

	for _, candidate := range clipboardCommands {
		path, err := exec.LookPath(candidate[0])
		if err != nil {
			continue
		}

		cmd := exec.CommandContext(ctx, path, candidate[1:]...)
		cmd.Stdin = strings.NewReader(text)
		if output, err := cmd.CombinedOutput(); err != nil {
			return errors.ExternalToolFailed(op, err, strings.TrimSpace(string(output)))
		}
		return nil
	}

	return errors.ExternalToolMissing(op, nil, "no clipboard tool found (pbcopy, wl-copy, xclip, xsel)")
}

// OpenWithDefault hands a path or URL to the OS default opener.
func (r *Runner) OpenWithDefault(ctx context.Context, target string) error {
	const op = "Runner.OpenWithDefault"

	opener := "xdg-open"
	if runtime.GOOS == "darwin" {
		opener = "open"
	}

	path, err := r.resolve(op, opener)
	if err != nil {
		return err
	}

	_, err = r.run(ctx, op, path, target)
	return err
}
