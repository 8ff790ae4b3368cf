package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"docchat/internal/bot"
)

// HTTPFetcher downloads attachment payloads from the URL in the attachment
// descriptor. Reads are capped at maxBytes+1 so an oversized payload is
// detected without buffering the whole thing.
type HTTPFetcher struct {
	client   *http.Client
	maxBytes int64
}

// NewHTTPFetcher builds a fetcher with a bounded request timeout.
func NewHTTPFetcher(timeout time.Duration, maxBytes int64) *HTTPFetcher {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &HTTPFetcher{
		client:   &http.Client{Timeout: timeout},
		maxBytes: maxBytes,
	}
}

var _ bot.Fetcher = &HTTPFetcher{}

// Fetch implements the bot.Fetcher interface.
func (f *HTTPFetcher) Fetch(ctx context.Context, att bot.Attachment) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, att.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("attachment download failed: %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
}
