package validation

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"medianote/errors"
)

// ValidateTarget checks that a playback target is usable: remote targets
// must be well-formed http(s) URLs, local targets must exist on disk.
func ValidateTarget(target string) error {
	const op = "validation.ValidateTarget"

	if target == "" {
		return errors.InvalidLinkFormat(op, nil, "media path is required")
	}

	target = strings.TrimSpace(target)

	if IsRemote(target) {
		parsed, err := url.ParseRequestURI(target)
		if err != nil {
			return errors.InvalidLinkFormat(op, err, "invalid URL: "+target)
		}
		if parsed.Host == "" {
			return errors.InvalidLinkFormat(op, nil, "URL must have a host: "+target)
		}
		return nil
	}

	if _, err := os.Stat(target); err != nil {
		return errors.InvalidLinkFormat(op, err, "media file not found: "+target)
	}
	return nil
}

// IsRemote reports whether the target is a remote URL rather than a
// local path.
func IsRemote(target string) bool {
	return strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://")
}

// ValidateOutputPath checks that a file to be written does not already
// exist and that its directory does. Operations are single-shot side
// effects; an existing output is a hard error, never overwritten.
func ValidateOutputPath(path string) error {
	const op = "validation.ValidateOutputPath"

	if path == "" {
		return errors.Internal(op, nil, "output path is required")
	}
	if _, err := os.Stat(path); err == nil {
		return errors.OutputAlreadyExists(op, nil, "output file already exists: "+path)
	}
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return errors.Internal(op, err, "output directory does not exist: "+dir)
		}
	}
	return nil
}
