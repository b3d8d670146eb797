package notes

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"medianote/errors"
)

const noteBody = "Watched the lecture.\n" +
	"[[mpv:a.mp4#10-20][▶ 0:10 → 0:20]] key definition\n" +
	"Some trailing prose.\n"

func TestLinkAt(t *testing.T) {
	offset := strings.Index(noteBody, "[[mpv:")

	element, err := LinkAt(noteBody, offset+5)
	if err != nil {
		t.Fatalf("LinkAt failed: %v", err)
	}

	if element.Link.Path != "a.mp4" {
		t.Errorf("path = %q, want a.mp4", element.Link.Path)
	}
	if element.Link.Begin == nil || *element.Link.Begin != 10 {
		t.Errorf("begin = %v, want 10", element.Link.Begin)
	}
	if element.Link.End == nil || *element.Link.End != 20 {
		t.Errorf("end = %v, want 20", element.Link.End)
	}
	if element.Start != offset {
		t.Errorf("start = %d, want %d", element.Start, offset)
	}
	if got := noteBody[element.Start:element.End]; !strings.HasSuffix(got, "]]") {
		t.Errorf("span %q does not cover the whole element", got)
	}
	if element.Label != "▶ 0:10 → 0:20" {
		t.Errorf("label = %q", element.Label)
	}
}

func TestLinkAtOutsideElement(t *testing.T) {
	if _, err := LinkAt(noteBody, 0); !errors.IsInvalidLinkFormat(err) {
		t.Fatalf("expected invalid-link error on prose, got %v", err)
	}
}

func TestLinkAtBadFragment(t *testing.T) {
	body := "[[mpv:a.mp4#bad-text][label]]"
	if _, err := LinkAt(body, 3); !errors.IsInvalidTimeFormat(err) {
		t.Fatalf("expected invalid-time error, got %v", err)
	}
}

func TestInsertAndReplace(t *testing.T) {
	out, err := Insert("ab", 1, "X")
	if err != nil || out != "aXb" {
		t.Errorf("Insert = %q, %v", out, err)
	}

	out, err = Replace("abcdef", 2, 4, "XY")
	if err != nil || out != "abXYef" {
		t.Errorf("Replace = %q, %v", out, err)
	}

	if _, err := Insert("ab", 5, "X"); err == nil {
		t.Error("Insert out of range should fail")
	}
	if _, err := Replace("ab", 1, 0, "X"); err == nil {
		t.Error("Replace with inverted span should fail")
	}
}

func TestAttach(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "shot.png")
	if err := os.WriteFile(src, []byte("png bytes"), 0644); err != nil {
		t.Fatal(err)
	}

	attachDir := filepath.Join(dir, "attachments")
	dest, err := Attach(src, attachDir)
	if err != nil {
		t.Fatalf("Attach failed: %v", err)
	}

	if !strings.HasSuffix(dest, "-shot.png") {
		t.Errorf("dest = %q, want unique prefix with original name", dest)
	}
	data, err := os.ReadFile(dest)
	if err != nil || string(data) != "png bytes" {
		t.Errorf("attachment content = %q, %v", data, err)
	}

}

func TestFileReferences(t *testing.T) {
	if ref := ImageRef("shots/a.png"); ref != "[[file:shots/a.png]]" {
		t.Errorf("ImageRef = %q, want unlabeled inline form", ref)
	}
	if ref := FileRef("clips/a.mp4", "clip"); ref != "[[file:clips/a.mp4][clip]]" {
		t.Errorf("FileRef = %q", ref)
	}
}
