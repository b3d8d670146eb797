// Package extractor maps a URL to the handler that knows how to resolve
// it into something the player can open. Host-specific handlers are
// registered explicitly; everything else falls through to a passthrough
// handler that hands the input to the player unchanged.
package extractor

import (
	"context"
	"net/url"

	"medianote/models"
)

// Resolved is the outcome of extraction: the URL to hand to the player,
// per-file player options, and whatever metadata the handler could
// gather (title, flat playlist entries).
type Resolved struct {
	URL     string
	Options []string
	Info    *models.MediaInfo
}

// Handler resolves URLs for the hosts it matches.
type Handler interface {
	Name() string
	Match(u *url.URL) bool
	Extract(ctx context.Context, rawURL string) (*Resolved, error)
}

// Registry holds handlers in registration order; the first match wins.
type Registry struct {
	handlers []Handler
	fallback Handler
}

func NewRegistry(handlers ...Handler) *Registry {
	return &Registry{
		handlers: handlers,
		fallback: passthrough{},
	}
}

func (r *Registry) Register(h Handler) {
	r.handlers = append(r.handlers, h)
}

// Lookup returns the handler for rawURL. Inputs that do not parse as a
// URL (typically local paths) get the passthrough handler.
func (r *Registry) Lookup(rawURL string) Handler {
	u, err := url.Parse(rawURL)
	if err != nil {
		return r.fallback
	}
	for _, h := range r.handlers {
		if h.Match(u) {
			return h
		}
	}
	return r.fallback
}

// Extract resolves rawURL with its matching handler.
func (r *Registry) Extract(ctx context.Context, rawURL string) (*Resolved, error) {
	return r.Lookup(rawURL).Extract(ctx, rawURL)
}

// passthrough is the default handler: no resolution, no options, no
// playlist.
type passthrough struct{}

func (passthrough) Name() string          { return "direct" }
func (passthrough) Match(u *url.URL) bool { return false }

func (passthrough) Extract(ctx context.Context, rawURL string) (*Resolved, error) {
	return &Resolved{URL: rawURL}, nil
}
