package drawing

import (
	"context"
	"fmt"
)

// Loader fetches and parses drawings. One attempt per call, no retries.
type Loader struct {
	Fetcher Fetcher
	Options Options
}

// NewLoader returns a loader over the given fetcher. A nil fetcher means
// NewSourceFetcher.
func NewLoader(f Fetcher, opts Options) *Loader {
	if f == nil {
		f = NewSourceFetcher()
	}
	return &Loader{Fetcher: f, Options: opts}
}

// Load returns the path records of the drawing at source.
func (l *Loader) Load(ctx context.Context, source string) ([]PathRecord, error) {
	data, err := l.Fetcher.Fetch(ctx, source)
	if err != nil {
		return nil, err
	}
	recs, err := Parse(data, l.Options)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	return recs, nil
}
