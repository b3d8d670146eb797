// Package medialink implements the compact link format that anchors notes
// to moments in a video. A link target is a media path plus an optional
// time range fragment:
//
//	path['#'[begin]['-'[end]]]
//
// where begin and end are decimal seconds or colon-delimited H:MM:SS
// timestamps. Only the serialized text form persists, embedded in notes.
package medialink

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"medianote/errors"
)

// LinkType is the scheme used for links embedded in notes.
const LinkType = "mpv"

// MediaLink references a playable resource and an optional time range
// within it. End is never set without Begin; the format has no syntax for
// an end-only range. End >= Begin is not enforced here.
type MediaLink struct {
	Path  string
	Begin *float64
	End   *float64
}

var timePattern = regexp.MustCompile(`^-?[0-9:.]+$`)

// Parse converts the textual link target back into a MediaLink. The path
// is everything before the first '#'; the fragment, when present, holds
// the time range. Fragment pieces are validated by TimeToSeconds, so a
// non-numeric fragment fails with the time-format error rather than the
// link-format error.
func Parse(text string) (MediaLink, error) {
	const op = "medialink.Parse"

	var link MediaLink

	path, fragment, hasFragment := strings.Cut(text, "#")
	if path == "" {
		return link, errors.InvalidLinkFormat(op, nil, "link has no path: "+text)
	}
	link.Path = path

	if !hasFragment || fragment == "" {
		return link, nil
	}

	beginText, endText, hasDash := strings.Cut(fragment, "-")
	if beginText == "" {
		// "-end" has no matching begin group in the grammar.
		return MediaLink{}, errors.InvalidLinkFormat(op, nil, "time range has no begin: "+text)
	}

	begin, err := TimeToSeconds(beginText)
	if err != nil {
		return MediaLink{}, err
	}
	link.Begin = &begin

	if hasDash && endText != "" {
		end, err := TimeToSeconds(endText)
		if err != nil {
			return MediaLink{}, err
		}
		link.End = &end
	}

	return link, nil
}

// TimeToSeconds converts a timestamp string to elapsed seconds. Plain
// decimal strings parse directly. Colon-delimited strings fold their
// integer fields as H:MM:SS (hours unbounded), then add the fractional
// part found at the first '.' of the whole input. The fractional lookup
// deliberately scans the entire string, not just the part after the
// colons; a stray dot before the colon section therefore lands in the
// fraction. Known quirk, kept for compatibility with links in the wild.
func TimeToSeconds(value string) (float64, error) {
	const op = "medialink.TimeToSeconds"

	if !timePattern.MatchString(value) {
		return 0, errors.InvalidTimeFormat(op, nil, "invalid timestamp: "+value)
	}

	if !strings.Contains(value, ":") {
		seconds, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, errors.InvalidTimeFormat(op, err, "invalid timestamp: "+value)
		}
		return seconds, nil
	}

	negative := false
	hms := value
	if strings.HasPrefix(hms, "-") {
		negative = true
		hms = hms[1:]
	}

	var total int64
	for _, field := range strings.Split(hms, ":") {
		total = total*60 + leadingInt(field)
	}

	seconds := float64(total) + fractionalPart(hms)
	if negative {
		seconds = -seconds
	}
	return seconds, nil
}

// leadingInt parses the integer digit prefix of a colon field, so the
// seconds field of "1:02:03.5" contributes 3.
func leadingInt(field string) int64 {
	var n int64
	for _, c := range field {
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int64(c-'0')
	}
	return n
}

// fractionalPart returns the decimal value at the first '.' in value, or
// zero when there is none.
func fractionalPart(value string) float64 {
	i := strings.Index(value, ".")
	if i < 0 {
		return 0
	}
	digits := value[i+1:]
	end := 0
	for end < len(digits) && digits[end] >= '0' && digits[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	frac, err := strconv.ParseFloat("0."+digits[:end], 64)
	if err != nil {
		return 0
	}
	return frac
}

// SecondsToHMS formats elapsed seconds as H:MM:SS. With full=false the
// zero-hours prefix is dropped so sub-hour durations render as M:SS.
// With truncate=false the fractional suffix of the input, taken verbatim
// from its decimal representation, is appended.
func SecondsToHMS(seconds float64, full, truncate bool) string {
	if seconds < 0 {
		return "-" + SecondsToHMS(-seconds, full, truncate)
	}

	total := int64(math.Floor(seconds))
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60

	var out string
	if full || h > 0 {
		out = strconv.FormatInt(h, 10) + ":" + pad2(m) + ":" + pad2(s)
	} else {
		out = strconv.FormatInt(m, 10) + ":" + pad2(s)
	}

	if !truncate {
		repr := strconv.FormatFloat(seconds, 'f', -1, 64)
		if i := strings.Index(repr, "."); i >= 0 {
			out += repr[i:]
		}
	}
	return out
}

func pad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}

var groupPattern = regexp.MustCompile(`^(-?\d+)(\d{3})`)

// SecondsToDisplayString renders seconds for display. Integral values
// render as plain integers; fractional values are truncated (not rounded)
// to two decimal digits. With grouped=true the integer portion gets comma
// thousands separators, inserted right-to-left until no group of three
// digits remains unseparated.
func SecondsToDisplayString(seconds float64, grouped bool) string {
	var out string
	if seconds == math.Trunc(seconds) {
		out = strconv.FormatFloat(seconds, 'f', 0, 64)
	} else {
		truncated := math.Floor(seconds*100) / 100
		out = strconv.FormatFloat(truncated, 'f', -1, 64)
	}

	if !grouped {
		return out
	}

	intPart, fracPart, hasFrac := strings.Cut(out, ".")
	for {
		next := groupPattern.ReplaceAllString(intPart, "$1,$2")
		if next == intPart {
			break
		}
		intPart = next
	}
	if hasFrac {
		return intPart + "." + fracPart
	}
	return intPart
}

// Encode builds the link text embedded in a note. The fragment carries
// begin/end as raw seconds so re-parsing recovers full precision; the
// visible label uses the truncated HMS form. A non-empty description is
// appended after the link, separated by a space.
func Encode(path string, begin float64, end *float64, description string) string {
	fragment := formatSeconds(begin)
	label := "▶ " + SecondsToHMS(begin, false, true)
	if end != nil {
		fragment += "-" + formatSeconds(*end)
		label += " → " + SecondsToHMS(*end, false, true)
	}

	out := "[[" + LinkType + ":" + path + "#" + fragment + "][" + label + "]]"
	if description != "" {
		out += " " + description
	}
	return out
}

func formatSeconds(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', -1, 64)
}
