package repository

import (
	"context"

	"medianote/models"
)

// Store persists the play history and the favorites list. History is
// append-only; favorites are user-managed and small.
type Store interface {
	RecordPlay(ctx context.Context, path, title string) error
	RecentPlays(ctx context.Context, limit int) ([]models.PlayRecord, error)

	AddFavorite(ctx context.Context, favorite models.Favorite) error
	RemoveFavorite(ctx context.Context, path string) error
	Favorites(ctx context.Context) ([]models.Favorite, error)

	Close() error
}
