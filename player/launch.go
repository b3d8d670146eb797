package player

import (
	"os"
	"os/exec"
	"time"

	"medianote/errors"
	"medianote/logger"
)

// LaunchConfig controls how the player process is started.
type LaunchConfig struct {
	MpvPath        string
	SocketPath     string
	ConnectTimeout time.Duration
	ExtraArgs      []string
}

// Launch starts a fresh mpv process with the IPC server enabled and
// connects to it. The process idles until the first LoadFile, so a
// session can be prepared before any media is chosen.
func Launch(cfg LaunchConfig) (*Player, error) {
	const op = "player.Launch"

	binary, err := exec.LookPath(cfg.MpvPath)
	if err != nil {
		return nil, errors.ExternalToolMissing(op, err, "required executable not found: "+cfg.MpvPath)
	}

	// A stale socket from a crashed player would block the new instance.
	os.Remove(cfg.SocketPath)

	args := []string{
		"--input-ipc-server=" + cfg.SocketPath,
		"--idle=yes",
		"--no-terminal",
	}
	args = append(args, cfg.ExtraArgs...)

	cmd := exec.Command(binary, args...)
	if err := cmd.Start(); err != nil {
		return nil, errors.ExternalToolFailed(op, err, "failed to start player process")
	}
	// The player outlives individual operations; it is reaped on Quit or
	// when the user closes it.
	go cmd.Wait()

	log := logger.WithComponent("player")
	log.WithField("socket", cfg.SocketPath).Info("Player started, waiting for IPC socket")

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	deadline := time.Now().Add(timeout)
	for {
		p, err := Connect(cfg.SocketPath)
		if err == nil {
			return p, nil
		}
		if time.Now().After(deadline) {
			return nil, errors.NoLivePlayer(op, err, "player did not open its IPC socket")
		}
		time.Sleep(100 * time.Millisecond)
	}
}
