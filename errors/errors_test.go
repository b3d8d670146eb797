package errors

import (
	"fmt"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	err := InvalidTimeFormat("medialink.TimeToSeconds", nil, "bad timestamp")

	if err.Error() != "bad timestamp" {
		t.Errorf("expected 'bad timestamp', got '%s'", err.Error())
	}
}

func TestErrorWithCause(t *testing.T) {
	cause := fmt.Errorf("strconv: parsing failed")
	err := InvalidTimeFormat("medialink.TimeToSeconds", cause, "bad timestamp")

	expected := "bad timestamp: strconv: parsing failed"
	if err.Error() != expected {
		t.Errorf("expected '%s', got '%s'", expected, err.Error())
	}
	if err.Unwrap() != cause {
		t.Errorf("Unwrap did not return the cause")
	}
}

func TestIsKind(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		check    func(error) bool
		expected bool
	}{
		{
			name:     "invalid link format",
			err:      InvalidLinkFormat("Parse", nil, "no path"),
			check:    IsInvalidLinkFormat,
			expected: true,
		},
		{
			name:     "wrapped tool failure",
			err:      fmt.Errorf("open: %w", ExternalToolFailed("Ytdlp.Describe", nil, "exit 1")),
			check:    IsToolFailed,
			expected: true,
		},
		{
			name:     "kind mismatch",
			err:      NoLivePlayer("Player.GetProperty", nil, "not connected"),
			check:    IsNotSeekable,
			expected: false,
		},
		{
			name:     "plain error",
			err:      fmt.Errorf("standard error"),
			check:    IsToolMissing,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.check(tt.err); got != tt.expected {
				t.Errorf("got %v, want %v", got, tt.expected)
			}
		})
	}
}
