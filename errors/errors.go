package errors

import (
	"errors"
	"fmt"
)

// Kind classifies an AppError. Every failure in this program is terminal
// and user-facing; the kind tells the caller what went wrong, not whether
// to retry (nothing is retried).
type Kind string

const (
	KindInvalidLink         Kind = "invalid_link_format"
	KindInvalidTime         Kind = "invalid_time_format"
	KindNotSeekable         Kind = "not_seekable"
	KindNoLivePlayer        Kind = "no_live_player"
	KindToolMissing         Kind = "external_tool_missing"
	KindToolFailed          Kind = "external_tool_failed"
	KindOutputAlreadyExists Kind = "output_already_exists"
	KindInternal            Kind = "internal"
)

type AppError struct {
	Kind    Kind   `json:"-"`
	Message string `json:"error"`
	Op      string `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newError(kind Kind, op string, err error, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

func InvalidLinkFormat(op string, err error, message string) *AppError {
	return newError(KindInvalidLink, op, err, message)
}

func InvalidTimeFormat(op string, err error, message string) *AppError {
	return newError(KindInvalidTime, op, err, message)
}

func NotSeekable(op string, err error, message string) *AppError {
	return newError(KindNotSeekable, op, err, message)
}

func NoLivePlayer(op string, err error, message string) *AppError {
	return newError(KindNoLivePlayer, op, err, message)
}

func ExternalToolMissing(op string, err error, message string) *AppError {
	return newError(KindToolMissing, op, err, message)
}

func ExternalToolFailed(op string, err error, message string) *AppError {
	return newError(KindToolFailed, op, err, message)
}

func OutputAlreadyExists(op string, err error, message string) *AppError {
	return newError(KindOutputAlreadyExists, op, err, message)
}

func Internal(op string, err error, message string) *AppError {
	return newError(KindInternal, op, err, message)
}

// IsKind reports whether err is (or wraps) an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

func IsInvalidLinkFormat(err error) bool { return IsKind(err, KindInvalidLink) }
func IsInvalidTimeFormat(err error) bool { return IsKind(err, KindInvalidTime) }
func IsNotSeekable(err error) bool       { return IsKind(err, KindNotSeekable) }
func IsNoLivePlayer(err error) bool      { return IsKind(err, KindNoLivePlayer) }
func IsToolMissing(err error) bool       { return IsKind(err, KindToolMissing) }
func IsToolFailed(err error) bool        { return IsKind(err, KindToolFailed) }
func IsOutputExists(err error) bool      { return IsKind(err, KindOutputAlreadyExists) }
