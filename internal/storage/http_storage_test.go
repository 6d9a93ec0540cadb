package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	apperrors "go-land-inspector/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Minimal 1x1 PNG.
var pngData = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
	0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1F, 0x15, 0xC4,
	0x89, 0x00, 0x00, 0x00, 0x0A, 0x49, 0x44, 0x41,
	0x54, 0x78, 0x9C, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0D, 0x0A, 0x2D, 0xB4, 0x00,
	0x00, 0x00, 0x00, 0x49, 0x45, 0x4E, 0x44, 0xAE,
	0x42, 0x60, 0x82,
}

func noBackoff(int) time.Duration { return 0 }

func TestHTTPImageFetcher_RetryLogic(t *testing.T) {
	tests := []struct {
		name          string
		responses     []int // Status codes to return in sequence
		expectCalls   int
		errorContains string
	}{
		{name: "success on first attempt", responses: []int{200}, expectCalls: 1},
		{name: "success after 5xx", responses: []int{500, 200}, expectCalls: 2},
		{name: "4xx is not retried", responses: []int{404}, expectCalls: 1, errorContains: "client error: status code 404"},
		{name: "4xx after 5xx stops", responses: []int{500, 404}, expectCalls: 2, errorContains: "client error: status code 404"},
		{name: "all 5xx", responses: []int{500, 502, 503}, expectCalls: 3, errorContains: "server error: status code 503"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := int(calls.Add(1)) - 1
				if n >= len(tt.responses) {
					w.WriteHeader(http.StatusInternalServerError)
					return
				}
				if status := tt.responses[n]; status != http.StatusOK {
					w.WriteHeader(status)
					_, _ = fmt.Fprintf(w, "Error %d", status)
					return
				}
				w.Header().Set("Content-Type", "image/png")
				_, _ = w.Write(pngData)
			}))
			defer server.Close()

			fetcher := NewHTTPImageFetcher(1 << 20).WithBackoff(noBackoff)
			img, err := fetcher.FetchImage(context.Background(), server.URL)

			assert.Equal(t, int32(tt.expectCalls), calls.Load())
			if tt.errorContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, pngData, img.Data)
			assert.Equal(t, "image/png", img.ContentType)
		})
	}
}

func TestHTTPImageFetcher_NetworkErrorRetry(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			// Drop the connection to simulate a network failure
			if hj, ok := w.(http.Hijacker); ok {
				conn, _, _ := hj.Hijack()
				conn.Close()
			}
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(pngData)
	}))
	defer server.Close()

	var delays []int
	fetcher := NewHTTPImageFetcher(1 << 20).WithBackoff(func(attempt int) time.Duration {
		delays = append(delays, attempt)
		return 0
	})

	_, err := fetcher.FetchImage(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, []int{1, 2}, delays)
}

func TestHTTPImageFetcher_SizeLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(make([]byte, 2048))
	}))
	defer server.Close()

	_, err := NewHTTPImageFetcher(1024).WithBackoff(noBackoff).FetchImage(context.Background(), server.URL)
	assert.True(t, errors.Is(err, ErrTooLarge))
}

func TestHTTPImageFetcher_ContextCanceledDuringBackoff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	fetcher := NewHTTPImageFetcher(1024).WithBackoff(func(int) time.Duration {
		cancel()
		return time.Hour
	})

	_, err := fetcher.FetchImage(ctx, server.URL)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNetwork))
}

func TestHTTPImageFetcher_ErrorTypes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewHTTPImageFetcher(1024).WithBackoff(noBackoff).FetchImage(context.Background(), server.URL)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNetwork))
	assert.Equal(t, http.StatusBadGateway, apperrors.GetStatusCode(err))

	release := make(chan struct{})
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer slow.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = NewHTTPImageFetcher(1024).WithBackoff(noBackoff).FetchImage(ctx, slow.URL)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeTimeout), "got %v", err)
	assert.Equal(t, http.StatusGatewayTimeout, apperrors.GetStatusCode(err))
}
