package tools

import (
	"context"
	"encoding/json"
	"os"

	"medianote/errors"
	"medianote/medialink"
	"medianote/models"
)

// Ytdlp drives the yt-dlp executable for remote metadata and clipped
// downloads.
type Ytdlp struct {
	runner *Runner
}

func NewYtdlp(runner *Runner) *Ytdlp {
	return &Ytdlp{runner: runner}
}

// describeResult mirrors the subset of `yt-dlp -J` output we consume.
// Flat playlist entries carry url/title only.
type describeResult struct {
	Type       string  `json:"_type"`
	Title      string  `json:"title"`
	Duration   float64 `json:"duration"`
	WebpageURL string  `json:"webpage_url"`
	Entries    []struct {
		URL   string `json:"url"`
		Title string `json:"title"`
	} `json:"entries"`
}

// Describe fetches a structured description of the URL: either flat
// playlist entries or a single-item description.
func (y *Ytdlp) Describe(ctx context.Context, url string) (*models.MediaInfo, error) {
	const op = "Ytdlp.Describe"

	path, err := y.runner.resolve(op, y.runner.config.YtdlpPath)
	if err != nil {
		return nil, err
	}

	output, err := y.runner.run(ctx, op, path,
		"--flat-playlist",
		"-J",
		"--no-warnings",
		url,
	)
	if err != nil {
		return nil, err
	}

	var result describeResult
	if err := json.Unmarshal(output, &result); err != nil {
		return nil, errors.ExternalToolFailed(op, err, "unexpected yt-dlp output")
	}

	return result.toMediaInfo(url), nil
}

func (d *describeResult) toMediaInfo(requested string) *models.MediaInfo {
	info := &models.MediaInfo{
		URL:      d.WebpageURL,
		Title:    d.Title,
		Duration: d.Duration,
	}
	if info.URL == "" {
		info.URL = requested
	}
	if d.Type == "playlist" {
		for _, entry := range d.Entries {
			if entry.URL == "" {
				continue
			}
			info.Entries = append(info.Entries, models.PlaylistEntry{
				URL:   entry.URL,
				Title: entry.Title,
			})
		}
	}
	return info
}

// DownloadClip downloads a section of the URL to output. Bounds are
// rendered as full HMS timestamps; a nil end means "to the end of the
// stream". An existing output file is a hard error, never overwritten.
func (y *Ytdlp) DownloadClip(ctx context.Context, url string, begin, end *float64, output string) error {
	const op = "Ytdlp.DownloadClip"

	if _, err := os.Stat(output); err == nil {
		return errors.OutputAlreadyExists(op, nil, "output file already exists: "+output)
	}

	path, err := y.runner.resolve(op, y.runner.config.YtdlpPath)
	if err != nil {
		return err
	}

	args := []string{"--no-warnings", "-o", output}
	if begin != nil || end != nil {
		args = append(args, "--download-sections", downloadSection(begin, end), "--force-keyframes-at-cuts")
	}
	args = append(args, url)

	_, err = y.runner.run(ctx, op, path, args...)
	return err
}

func downloadSection(begin, end *float64) string {
	section := "*"
	if begin != nil {
		section += medialink.SecondsToHMS(*begin, true, false)
	} else {
		section += "0:00:00"
	}
	section += "-"
	if end != nil {
		section += medialink.SecondsToHMS(*end, true, false)
	} else {
		section += "inf"
	}
	return section
}
