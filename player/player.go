// Package player is the control channel to a running mpv instance over
// its JSON IPC socket. The client is synchronous request/response: each
// call writes one command and reads until the matching reply arrives.
// Events encountered while reading are dispatched inline, so there is no
// background reader and no locking; all calls originate from a single
// interactive session.
package player

import (
	"bufio"
	"encoding/json"
	"net"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"medianote/errors"
	"medianote/logger"
)

type Player struct {
	conn         net.Conn
	reader       *bufio.Reader
	requestID    int64
	onFileLoaded func()
	log          *logrus.Entry
}

// Connect attaches to the IPC socket of an already-running player.
func Connect(socketPath string) (*Player, error) {
	const op = "Player.Connect"

	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, errors.NoLivePlayer(op, err, "no player listening on "+socketPath)
	}

	return &Player{
		conn:   conn,
		reader: bufio.NewReader(conn),
		log:    logger.WithComponent("player"),
	}, nil
}

// OnFileLoaded registers the startup callback, invoked whenever the
// player reports that a new file finished loading.
func (p *Player) OnFileLoaded(fn func()) {
	p.onFileLoaded = fn
}

func (p *Player) Close() error {
	if p.conn == nil {
		return nil
	}
	err := p.conn.Close()
	p.conn = nil
	return err
}

type request struct {
	Command   []interface{} `json:"command"`
	RequestID int64         `json:"request_id"`
}

type response struct {
	Error     string          `json:"error"`
	Data      json.RawMessage `json:"data"`
	RequestID int64           `json:"request_id"`
	Event     string          `json:"event"`
}

// roundTrip issues one command and reads until its reply arrives,
// dispatching any events seen on the way.
func (p *Player) roundTrip(op string, command ...interface{}) (json.RawMessage, error) {
	if p.conn == nil {
		return nil, errors.NoLivePlayer(op, nil, "player is not connected")
	}

	p.requestID++
	req := request{Command: command, RequestID: p.requestID}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Internal(op, err, "failed to encode player command")
	}
	payload = append(payload, '\n')

	if _, err := p.conn.Write(payload); err != nil {
		p.Close()
		return nil, errors.NoLivePlayer(op, err, "player connection lost")
	}

	for {
		line, err := p.reader.ReadBytes('\n')
		if err != nil {
			p.Close()
			return nil, errors.NoLivePlayer(op, err, "player connection lost")
		}

		var resp response
		if err := json.Unmarshal(line, &resp); err != nil {
			p.log.WithField("line", strings.TrimSpace(string(line))).
				Warn("Discarding unparseable player message")
			continue
		}

		if resp.Event != "" {
			p.dispatchEvent(resp.Event)
			continue
		}
		if resp.RequestID != p.requestID {
			continue
		}

		if resp.Error != "success" {
			return nil, errors.ExternalToolFailed(op, nil, "player rejected command: "+resp.Error)
		}
		return resp.Data, nil
	}
}

func (p *Player) dispatchEvent(name string) {
	p.log.WithField("event", name).Debug("Player event")
	if name == "file-loaded" && p.onFileLoaded != nil {
		p.onFileLoaded()
	}
}

// WaitFileLoaded blocks until the player reports a loaded file or the
// deadline passes. Used right after starting playback, before querying
// position or duration.
func (p *Player) WaitFileLoaded(timeout time.Duration) error {
	const op = "Player.WaitFileLoaded"

	if p.conn == nil {
		return errors.NoLivePlayer(op, nil, "player is not connected")
	}

	deadline := time.Now().Add(timeout)
	if err := p.conn.SetReadDeadline(deadline); err != nil {
		return errors.Internal(op, err, "failed to set read deadline")
	}
	defer p.conn.SetReadDeadline(time.Time{})

	for {
		line, err := p.reader.ReadBytes('\n')
		if err != nil {
			return errors.NoLivePlayer(op, err, "player did not load the file in time")
		}

		var resp response
		if err := json.Unmarshal(line, &resp); err != nil {
			continue
		}
		if resp.Event == "" {
			continue
		}
		p.dispatchEvent(resp.Event)
		if resp.Event == "file-loaded" {
			return nil
		}
	}
}

// GetProperty returns the raw JSON value of a named player property.
func (p *Player) GetProperty(name string) (json.RawMessage, error) {
	return p.roundTrip("Player.GetProperty", "get_property", name)
}

func (p *Player) SetProperty(name string, value interface{}) error {
	_, err := p.roundTrip("Player.SetProperty", "set_property", name, value)
	return err
}

// Command issues a named player command with positional arguments.
func (p *Player) Command(args ...interface{}) error {
	_, err := p.roundTrip("Player.Command", args...)
	return err
}

func (p *Player) getFloat(name string) (float64, error) {
	const op = "Player.GetProperty"

	data, err := p.GetProperty(name)
	if err != nil {
		return 0, err
	}
	var value float64
	if err := json.Unmarshal(data, &value); err != nil {
		return 0, errors.ExternalToolFailed(op, err, "unexpected value for property "+name)
	}
	return value, nil
}

func (p *Player) getBool(name string) (bool, error) {
	const op = "Player.GetProperty"

	data, err := p.GetProperty(name)
	if err != nil {
		return false, err
	}
	var value bool
	if err := json.Unmarshal(data, &value); err != nil {
		return false, errors.ExternalToolFailed(op, err, "unexpected value for property "+name)
	}
	return value, nil
}

func (p *Player) getString(name string) (string, error) {
	const op = "Player.GetProperty"

	data, err := p.GetProperty(name)
	if err != nil {
		return "", err
	}
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return "", errors.ExternalToolFailed(op, err, "unexpected value for property "+name)
	}
	return value, nil
}

func (p *Player) Position() (float64, error)   { return p.getFloat("time-pos") }
func (p *Player) Duration() (float64, error)   { return p.getFloat("duration") }
func (p *Player) PercentPos() (float64, error) { return p.getFloat("percent-pos") }
func (p *Player) Speed() (float64, error)      { return p.getFloat("speed") }
func (p *Player) Paused() (bool, error)        { return p.getBool("pause") }
func (p *Player) SubText() (string, error)     { return p.getString("sub-text") }
func (p *Player) Path() (string, error)        { return p.getString("path") }

func (p *Player) SubVisible() (bool, error) { return p.getBool("sub-visibility") }

func (p *Player) SetPause(pause bool) error           { return p.SetProperty("pause", pause) }
func (p *Player) SetSpeed(speed float64) error        { return p.SetProperty("speed", speed) }
func (p *Player) SetPercentPos(pct float64) error     { return p.SetProperty("percent-pos", pct) }
func (p *Player) SetSubVisibility(visible bool) error { return p.SetProperty("sub-visibility", visible) }

// Seekable reports whether the current file supports seeking.
func (p *Player) Seekable() (bool, error) {
	return p.getBool("seekable")
}

// Seek moves the playback position by seconds (relative) or to seconds
// (absolute). Streams that cannot seek fail with the not-seekable error.
func (p *Player) Seek(seconds float64, absolute bool) error {
	const op = "Player.Seek"

	seekable, err := p.Seekable()
	if err != nil {
		return err
	}
	if !seekable {
		return errors.NotSeekable(op, nil, "current stream is not seekable")
	}

	mode := "relative"
	if absolute {
		mode = "absolute"
	}
	return p.Command("seek", seconds, mode)
}

// LoadFile starts a new playback session, replacing the current one.
// Options are per-file mpv options like "start=90.5".
func (p *Player) LoadFile(path string, options []string) error {
	const op = "Player.LoadFile"

	args := []interface{}{"loadfile", path, "replace"}
	if len(options) > 0 {
		args = append(args, strings.Join(options, ","))
	}
	if _, err := p.roundTrip(op, args...); err != nil {
		return err
	}
	return nil
}

// ScreenshotToFile captures the current video frame to path, without the
// OSD overlay.
func (p *Player) ScreenshotToFile(path string) error {
	return p.Command("screenshot-to-file", path, "video")
}

func (p *Player) FrameStep() error     { return p.Command("frame-step") }
func (p *Player) FrameBackStep() error { return p.Command("frame-back-step") }

func (p *Player) ChapterNext() error     { return p.Command("add", "chapter", 1) }
func (p *Player) ChapterPrevious() error { return p.Command("add", "chapter", -1) }

func (p *Player) SubAdd(path string) error { return p.Command("sub-add", path) }
func (p *Player) SubRemove() error         { return p.Command("sub-remove") }

// Quit asks the player to exit and drops the connection. The player
// closes the socket without replying, so no response is awaited.
func (p *Player) Quit() error {
	if p.conn == nil {
		return nil
	}
	payload, err := json.Marshal(request{Command: []interface{}{"quit"}})
	if err == nil {
		p.conn.Write(append(payload, '\n'))
	}
	return p.Close()
}
