package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	apperrors "go-land-inspector/internal/errors"
)

const defaultFetchAttempts = 3

// ErrTooLarge is returned when a remote image exceeds the fetcher's size limit.
var ErrTooLarge = errors.New("remote image exceeds size limit")

// RemoteImage is a downloaded image with the server-declared content type.
type RemoteImage struct {
	Data        []byte
	ContentType string
}

type ImageFetcher interface {
	FetchImage(ctx context.Context, imageURL string) (*RemoteImage, error)
}

// HTTPImageFetcher downloads images with bounded retries on transient failures
type HTTPImageFetcher struct {
	client   *http.Client
	maxBytes int64
	attempts int
	backoff  func(attempt int) time.Duration
}

// NewHTTPImageFetcher creates a fetcher that reads at most maxBytes per image
func NewHTTPImageFetcher(maxBytes int64) *HTTPImageFetcher {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		MaxResponseHeaderBytes: 4096,
	}

	return &HTTPImageFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
		maxBytes: maxBytes,
		attempts: defaultFetchAttempts,
		backoff: func(attempt int) time.Duration {
			return time.Duration(attempt) * time.Second
		},
	}
}

// WithBackoff replaces the delay before retry n (1-based).
func (h *HTTPImageFetcher) WithBackoff(backoff func(attempt int) time.Duration) *HTTPImageFetcher {
	h.backoff = backoff
	return h
}

// FetchImage downloads imageURL. Network errors and 5xx responses are retried
// up to three attempts in total; 4xx responses fail immediately.
func (h *HTTPImageFetcher) FetchImage(ctx context.Context, imageURL string) (*RemoteImage, error) {
	var lastErr error

	for attempt := 1; attempt <= h.attempts; attempt++ {
		img, retryable, err := h.fetchOnce(ctx, imageURL)
		if err == nil {
			return img, nil
		}
		lastErr = err
		if !retryable || attempt == h.attempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, fetchError("image fetch canceled", ctx.Err())
		case <-time.After(h.backoff(attempt)):
		}
	}

	return nil, fetchError(fmt.Sprintf("failed to fetch image after %d attempts", h.attempts), lastErr)
}

// fetchError classifies a fetch failure as a timeout when a deadline expired
// and as a network error otherwise.
func fetchError(message string, cause error) error {
	var netErr net.Error
	if errors.Is(cause, context.DeadlineExceeded) || (errors.As(cause, &netErr) && netErr.Timeout()) {
		return apperrors.NewTimeoutError(message, cause)
	}
	return apperrors.NewNetworkError(message, cause)
}

func (h *HTTPImageFetcher) fetchOnce(ctx context.Context, imageURL string) (*RemoteImage, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("invalid URL: %w", err)
	}
	req.Header.Set("Accept", "image/jpeg, image/png, image/webp, image/tiff, */*")
	req.Header.Set("User-Agent", "landscan/1.0")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("server error: status code %d", resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, false, fmt.Errorf("client error: status code %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, false, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	reader := io.Reader(resp.Body)
	if h.maxBytes > 0 {
		reader = io.LimitReader(resp.Body, h.maxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, true, fmt.Errorf("read body: %w", err)
	}
	if h.maxBytes > 0 && int64(len(data)) > h.maxBytes {
		return nil, false, ErrTooLarge
	}

	return &RemoteImage{Data: data, ContentType: resp.Header.Get("Content-Type")}, false, nil
}
