// Package notes implements the plain-text editing surface: locating a
// media link at a position in the note body, positional insert/replace,
// and attaching produced files (screenshots, clips) next to the note.
package notes

import (
	"io"
	"os"
	"path/filepath"
	"regexp"

	"github.com/google/uuid"

	"medianote/errors"
	"medianote/medialink"
)

// Element is a link-shaped element found in a note: the parsed link plus
// the textual span it occupies.
type Element struct {
	Link  medialink.MediaLink
	Label string
	Start int
	End   int
}

var linkPattern = regexp.MustCompile(`\[\[` + medialink.LinkType + `:([^\]]+)\]\[([^\]]*)\]\]`)

// LinkAt finds the media link covering offset in text. The offset may
// fall anywhere within the element, including its brackets.
func LinkAt(text string, offset int) (*Element, error) {
	const op = "notes.LinkAt"

	if offset < 0 || offset > len(text) {
		return nil, errors.Internal(op, nil, "position out of range")
	}

	for _, m := range linkPattern.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[0], m[1]
		if offset < start || offset >= end {
			continue
		}

		link, err := medialink.Parse(text[m[2]:m[3]])
		if err != nil {
			return nil, err
		}
		return &Element{
			Link:  link,
			Label: text[m[4]:m[5]],
			Start: start,
			End:   end,
		}, nil
	}

	return nil, errors.InvalidLinkFormat(op, nil, "no media link at position")
}

// Insert returns text with s inserted at offset.
func Insert(text string, offset int, s string) (string, error) {
	const op = "notes.Insert"

	if offset < 0 || offset > len(text) {
		return "", errors.Internal(op, nil, "position out of range")
	}
	return text[:offset] + s + text[offset:], nil
}

// Replace returns text with the span [start, end) replaced by s.
func Replace(text string, start, end int, s string) (string, error) {
	const op = "notes.Replace"

	if start < 0 || end < start || end > len(text) {
		return "", errors.Internal(op, nil, "span out of range")
	}
	return text[:start] + s + text[end:], nil
}

// FileRef is the reference text for an attached file, shown under label.
func FileRef(path, label string) string {
	return "[[file:" + path + "][" + label + "]]"
}

// ImageRef is the inline-image form of a file reference: with no label,
// editors render the image in place instead of a link.
func ImageRef(path string) string {
	return "[[file:" + path + "]]"
}

// Attach copies srcPath into attachDir under a unique name and returns
// the stored path. The destination is never overwritten.
func Attach(srcPath, attachDir string) (string, error) {
	const op = "notes.Attach"

	if err := os.MkdirAll(attachDir, 0755); err != nil {
		return "", errors.Internal(op, err, "failed to create attachment directory")
	}

	dest := filepath.Join(attachDir, uuid.New().String()[:8]+"-"+filepath.Base(srcPath))
	if _, err := os.Stat(dest); err == nil {
		return "", errors.OutputAlreadyExists(op, nil, "attachment already exists: "+dest)
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return "", errors.Internal(op, err, "failed to open source file")
	}
	defer src.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", errors.Internal(op, err, "failed to create attachment")
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		os.Remove(dest)
		return "", errors.Internal(op, err, "failed to copy attachment")
	}

	return dest, nil
}
