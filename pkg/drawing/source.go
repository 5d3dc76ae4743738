package drawing

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/afero"
)

// Fetcher retrieves the raw bytes of a drawing.
type Fetcher interface {
	Fetch(ctx context.Context, source string) ([]byte, error)
}

// DefaultMaxDrawingBytes caps the size of a drawing fetched by URL.
const DefaultMaxDrawingBytes int64 = 64 << 20

// SourceFetcher reads http and https sources over HTTP and every other
// source as a path on FS.
type SourceFetcher struct {
	FS     afero.Fs
	Client *http.Client
	// MaxBytes caps URL response bodies. Zero means DefaultMaxDrawingBytes.
	MaxBytes int64
}

// NewSourceFetcher returns a fetcher over the OS filesystem and the default
// HTTP client.
func NewSourceFetcher() *SourceFetcher {
	return &SourceFetcher{FS: afero.NewOsFs(), Client: http.DefaultClient}
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Fetch returns the drawing bytes. Errors wrap ErrLoad.
func (f *SourceFetcher) Fetch(ctx context.Context, source string) ([]byte, error) {
	if isURL(source) {
		return f.fetchURL(ctx, source)
	}
	fs := f.FS
	if fs == nil {
		fs = afero.NewOsFs()
	}
	data, err := afero.ReadFile(fs, source)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoad, source, err)
	}
	return data, nil
}

func (f *SourceFetcher) fetchURL(ctx context.Context, source string) ([]byte, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoad, source, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoad, source, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: status %s", ErrLoad, source, resp.Status)
	}
	limit := f.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxDrawingBytes
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoad, source, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: %s: drawing exceeds %d bytes", ErrLoad, source, limit)
	}
	return data, nil
}
