package httpds

import (
	"context"
	"fmt"
	"io"

	"steamload/internal/datasource"
	"steamload/internal/failure"
)

// Source streams a remote export. Compression is inferred from the URL path.
type Source struct {
	url    string
	client *Client
}

// NewSource returns a Source for url using client. A nil client gets
// NewClient(Config{MaxRetries: 3}).
func NewSource(url string, client *Client) *Source {
	if client == nil {
		client = NewClient(Config{MaxRetries: 3})
	}
	return &Source{url: url, client: client}
}

// Open issues the request and returns the (decompressed) body. Non-2xx
// responses and transport failures wrap failure.ErrIO.
func (s *Source) Open(ctx context.Context) (io.ReadCloser, error) {
	resp, err := s.client.Get(ctx, s.url)
	if err != nil {
		return nil, failure.IO("fetch "+s.url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, failure.IO("fetch "+s.url, fmt.Errorf("unexpected status %s", resp.Status))
	}

	rc, err := datasource.Decompress(resp.Body, datasource.DetectCompression(s.url))
	if err != nil {
		_ = resp.Body.Close()
		return nil, failure.IO("decompress "+s.url, err)
	}
	return rc, nil
}

var _ datasource.Source = (*Source)(nil)
