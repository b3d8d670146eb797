package tools

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const flatPlaylistJSON = `{
	"_type": "playlist",
	"title": "Lecture series",
	"webpage_url": "https://example.com/playlist?list=abc",
	"entries": [
		{"url": "https://example.com/watch?v=1", "title": "Lecture 1"},
		{"url": "https://example.com/watch?v=2", "title": "Lecture 2"},
		{"url": "", "title": "removed video"}
	]
}`

const singleVideoJSON = `{
	"title": "Lecture 1",
	"duration": 3725.5,
	"webpage_url": "https://example.com/watch?v=1"
}`

func TestDescribeResultPlaylist(t *testing.T) {
	var result describeResult
	require.NoError(t, json.Unmarshal([]byte(flatPlaylistJSON), &result))

	info := result.toMediaInfo("https://example.com/playlist?list=abc")

	assert.True(t, info.IsPlaylist())
	assert.Equal(t, "Lecture series", info.Title)
	require.Len(t, info.Entries, 2, "entries without a URL are dropped")
	assert.Equal(t, "Lecture 1", info.Entries[0].Title)
	assert.Equal(t, "https://example.com/watch?v=2", info.Entries[1].URL)
}

func TestDescribeResultSingleItem(t *testing.T) {
	var result describeResult
	require.NoError(t, json.Unmarshal([]byte(singleVideoJSON), &result))

	info := result.toMediaInfo("https://example.com/watch?v=1")

	assert.False(t, info.IsPlaylist())
	assert.Equal(t, "Lecture 1", info.Title)
	assert.Equal(t, 3725.5, info.Duration)
}

func TestDescribeResultFallsBackToRequestedURL(t *testing.T) {
	var result describeResult
	require.NoError(t, json.Unmarshal([]byte(`{"title": "x"}`), &result))

	info := result.toMediaInfo("https://example.com/watch?v=9")
	assert.Equal(t, "https://example.com/watch?v=9", info.URL)
}

func TestDownloadSection(t *testing.T) {
	begin := 90.5
	end := 3723.0

	tests := []struct {
		name  string
		begin *float64
		end   *float64
		want  string
	}{
		{"both bounds", &begin, &end, "*0:01:30.5-1:02:03"},
		{"open end", &begin, nil, "*0:01:30.5-inf"},
		{"open begin", nil, &end, "*0:00:00-1:02:03"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, downloadSection(tt.begin, tt.end))
		})
	}
}
