package extractor

import (
	"context"
	"net/url"

	"golang.org/x/time/rate"

	"medianote/errors"
	"medianote/tools"
)

// Remote resolves any http(s) URL through the metadata tool. Lookups hit
// the remote site, so they pass through a rate limiter.
type Remote struct {
	ytdlp   *tools.Ytdlp
	limiter *rate.Limiter
}

func NewRemote(ytdlp *tools.Ytdlp, limiter *rate.Limiter) *Remote {
	return &Remote{ytdlp: ytdlp, limiter: limiter}
}

func (r *Remote) Name() string { return "ytdlp" }

func (r *Remote) Match(u *url.URL) bool {
	return u.Scheme == "http" || u.Scheme == "https"
}

func (r *Remote) Extract(ctx context.Context, rawURL string) (*Resolved, error) {
	const op = "Remote.Extract"

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, errors.Internal(op, err, "cancelled while waiting for rate limit")
		}
	}

	info, err := r.ytdlp.Describe(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	return &Resolved{URL: info.URL, Info: info}, nil
}
