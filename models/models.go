package models

import (
	"time"
)

// PlayRecord is one entry in the play history. History is append-only and
// listed most recent first.
type PlayRecord struct {
	ID       string    `json:"id"`
	Path     string    `json:"path"`
	Title    string    `json:"title,omitempty"`
	PlayedAt time.Time `json:"played_at"`
}

// Favorite is a user-pinned media path, optionally with a resume position.
type Favorite struct {
	Path     string  `json:"path"`
	Title    string  `json:"title,omitempty"`
	Position float64 `json:"position,omitempty"`
}

// PlaylistEntry is a single item of a flat playlist: URL and title only,
// without the entry's own metadata resolved.
type PlaylistEntry struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// MediaInfo describes a playable resource as reported by the metadata
// tool. For playlists Entries is populated; for a single item it is empty
// and URL/Title/Duration describe the item itself.
type MediaInfo struct {
	URL      string          `json:"url"`
	Title    string          `json:"title"`
	Duration float64         `json:"duration,omitempty"`
	Entries  []PlaylistEntry `json:"entries,omitempty"`
}

// IsPlaylist reports whether the info describes a flat playlist rather
// than a single item.
func (m *MediaInfo) IsPlaylist() bool { return len(m.Entries) > 0 }
