package medialink

import (
	"math"
	"strings"
	"testing"

	"medianote/errors"
)

func f(v float64) *float64 { return &v }

func TestParse(t *testing.T) {
	tests := []struct {
		text  string
		path  string
		begin *float64
		end   *float64
	}{
		{"a.mp4", "a.mp4", nil, nil},
		{"a.mp4#", "a.mp4", nil, nil},
		{"a.mp4#10", "a.mp4", f(10), nil},
		{"a.mp4#10-", "a.mp4", f(10), nil},
		{"a.mp4#10-20", "a.mp4", f(10), f(20)},
		{"a.mp4#0:01:30.5-1:02:03", "a.mp4", f(90.5), f(3723)},
		{"/videos/lecture 3.mkv#125.25", "/videos/lecture 3.mkv", f(125.25), nil},
		{"https://example.com/watch?v=x#30-60", "https://example.com/watch?v=x", f(30), f(60)},
	}

	for _, tt := range tests {
		link, err := Parse(tt.text)
		if err != nil {
			t.Errorf("Parse(%q) unexpected error: %v", tt.text, err)
			continue
		}
		if link.Path != tt.path {
			t.Errorf("Parse(%q) path = %q, want %q", tt.text, link.Path, tt.path)
		}
		if !eqPtr(link.Begin, tt.begin) {
			t.Errorf("Parse(%q) begin = %v, want %v", tt.text, deref(link.Begin), deref(tt.begin))
		}
		if !eqPtr(link.End, tt.end) {
			t.Errorf("Parse(%q) end = %v, want %v", tt.text, deref(link.End), deref(tt.end))
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		text  string
		check func(error) bool
		kind  string
	}{
		{"", errors.IsInvalidLinkFormat, "invalid link"},
		{"#10-20", errors.IsInvalidLinkFormat, "invalid link"},
		{"a.mp4#-20", errors.IsInvalidLinkFormat, "invalid link"},
		{"a.mp4#bad-text", errors.IsInvalidTimeFormat, "invalid time"},
		{"a.mp4#10-text", errors.IsInvalidTimeFormat, "invalid time"},
	}

	for _, tt := range tests {
		link, err := Parse(tt.text)
		if err == nil {
			t.Errorf("Parse(%q) expected error, got %+v", tt.text, link)
			continue
		}
		if !tt.check(err) {
			t.Errorf("Parse(%q) error = %v, want %s", tt.text, err, tt.kind)
		}
		if link.Path != "" || link.Begin != nil || link.End != nil {
			t.Errorf("Parse(%q) returned partial result on error: %+v", tt.text, link)
		}
	}
}

func TestTimeToSeconds(t *testing.T) {
	tests := []struct {
		value string
		want  float64
	}{
		{"0", 0},
		{"90", 90},
		{"125.25", 125.25},
		{"1:02:03", 3723},
		{"0:01:30.5", 90.5},
		{"10:00:00", 36000},
		{"100:00:00", 360000}, // hours are unbounded
		{"1:30", 90},
		{"1:02:03.5", 3723.5},
	}

	for _, tt := range tests {
		got, err := TimeToSeconds(tt.value)
		if err != nil {
			t.Errorf("TimeToSeconds(%q) unexpected error: %v", tt.value, err)
			continue
		}
		if got != tt.want {
			t.Errorf("TimeToSeconds(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

// The fractional lookup scans the whole input for the first '.', so a dot
// before the colon section lands in the fraction. This mirrors links
// produced by earlier versions and must not be corrected silently.
func TestTimeToSecondsDotBeforeColons(t *testing.T) {
	got, err := TimeToSeconds("1.5:02:03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := float64(1*3600+2*60+3) + 0.5
	if got != want {
		t.Errorf("TimeToSeconds(\"1.5:02:03\") = %v, want %v", got, want)
	}
}

func TestTimeToSecondsErrors(t *testing.T) {
	for _, value := range []string{"bad", "text", "12a", "1.2.3", ""} {
		if _, err := TimeToSeconds(value); !errors.IsInvalidTimeFormat(err) {
			t.Errorf("TimeToSeconds(%q) error = %v, want invalid time format", value, err)
		}
	}
}

func TestSecondsToHMS(t *testing.T) {
	tests := []struct {
		seconds  float64
		full     bool
		truncate bool
		want     string
	}{
		{65, false, false, "1:05"},
		{65, true, false, "0:01:05"},
		{3665, false, true, "1:01:05"},
		{90.5, false, false, "1:30.5"},
		{90.5, false, true, "1:30"},
		{0, false, false, "0:00"},
		{3600, false, true, "1:00:00"},
		{125.25, true, false, "0:02:05.25"},
	}

	for _, tt := range tests {
		got := SecondsToHMS(tt.seconds, tt.full, tt.truncate)
		if got != tt.want {
			t.Errorf("SecondsToHMS(%v, %v, %v) = %q, want %q",
				tt.seconds, tt.full, tt.truncate, got, tt.want)
		}
	}
}

// Full truncated HMS output must parse back to the whole-second floor of
// the input.
func TestHMSRoundTrip(t *testing.T) {
	for _, s := range []float64{0, 1, 59, 60, 61, 3599, 3600, 3661, 86400, 90000.75, 123456.5} {
		hms := SecondsToHMS(s, true, true)
		got, err := TimeToSeconds(hms)
		if err != nil {
			t.Errorf("TimeToSeconds(%q) unexpected error: %v", hms, err)
			continue
		}
		if got != math.Floor(s) {
			t.Errorf("round trip of %v via %q = %v, want %v", s, hms, got, math.Floor(s))
		}
	}
}

func TestSecondsToDisplayString(t *testing.T) {
	tests := []struct {
		seconds float64
		grouped bool
		want    string
	}{
		{90, false, "90"},
		{90, true, "90"},
		{1234, true, "1,234"},
		{1234.567, false, "1234.56"},
		{1234.567, true, "1,234.56"},
		{1234567, true, "1,234,567"},
		{0.5, false, "0.5"},
		{1000000.999, true, "1,000,000.99"},
	}

	for _, tt := range tests {
		got := SecondsToDisplayString(tt.seconds, tt.grouped)
		if got != tt.want {
			t.Errorf("SecondsToDisplayString(%v, %v) = %q, want %q",
				tt.seconds, tt.grouped, got, tt.want)
		}
	}
}

func TestEncode(t *testing.T) {
	got := Encode("a.mp4", 10, f(20), "note")

	if !strings.Contains(got, "[[mpv:a.mp4#10-20][") {
		t.Errorf("Encode result %q missing link target", got)
	}
	if !strings.HasSuffix(got, " note") {
		t.Errorf("Encode result %q should end with description", got)
	}
	if !strings.Contains(got, "▶ 0:10 → 0:20") {
		t.Errorf("Encode result %q has wrong label", got)
	}
}

func TestEncodeNoEnd(t *testing.T) {
	got := Encode("a.mp4", 95.5, nil, "")

	if got != "[[mpv:a.mp4#95.5][▶ 1:35]]" {
		t.Errorf("Encode = %q", got)
	}
}

// The fragment embeds raw seconds, so re-parsing the target recovers the
// values Encode was given even though the label is truncated.
func TestEncodeParseRoundTrip(t *testing.T) {
	text := Encode("a.mp4", 10, f(20), "note")

	start := strings.Index(text, "mpv:") + len("mpv:")
	end := strings.Index(text, "][")
	link, err := Parse(text[start:end])
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if link.Path != "a.mp4" || deref(link.Begin) != 10 || deref(link.End) != 20 {
		t.Errorf("round trip produced %+v", link)
	}
}

func eqPtr(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func deref(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}
