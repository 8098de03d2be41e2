// Package fetcher downloads article pages.
package fetcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"golang.org/x/net/html/charset"
)

const (
	// MaxBodySize caps how much of a page is read.
	MaxBodySize = 5 << 20

	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	acceptHeader   = "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"
	acceptLanguage = "zh-CN,zh;q=0.9,en;q=0.8"
)

// ErrBodyTooLarge is returned when a page exceeds MaxBodySize.
var ErrBodyTooLarge = errors.New("response body too large")

// Fetcher retrieves a page as UTF-8 HTML.
type Fetcher struct {
	client  *http.Client
	maxBody int64
}

// New returns a Fetcher using client. The client carries the timeout and redirect policy.
func New(client *http.Client) *Fetcher {
	return &Fetcher{client: client, maxBody: MaxBodySize}
}

// Fetch GETs rawURL with browser-like headers and returns the body transcoded to UTF-8.
// Any non-200 status is an error.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Accept-Language", acceptLanguage)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > f.maxBody {
		return nil, fmt.Errorf("%w: exceeds %d bytes", ErrBodyTooLarge, f.maxBody)
	}

	// Content-Type と <meta charset> から文字コードを判定し、UTF-8に変換する
	r, err := charset.NewReader(bytes.NewReader(body), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("detect charset: %w", err)
	}
	utf8Body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("transcode body: %w", err)
	}

	slog.Debug("article fetched", "url", rawURL, "bytes", len(body))
	return utf8Body, nil
}
