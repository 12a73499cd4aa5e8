package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// capturePNG encodes a small gray frame as PNG bytes.
func capturePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{128, 128, 128, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode fixture: %v", err)
	}
	return buf.Bytes()
}

func TestHTTPCaptureFetcher_RetryLogic(t *testing.T) {
	tests := []struct {
		name           string
		responses      []int
		expectRequests int
		expectError    bool
		errorContains  string
	}{
		{
			name:           "success on first attempt",
			responses:      []int{200},
			expectRequests: 1,
		},
		{
			name:           "success after one 5xx",
			responses:      []int{500, 200},
			expectRequests: 2,
		},
		{
			name:           "4xx is final",
			responses:      []int{404},
			expectRequests: 1,
			expectError:    true,
			errorContains:  "client error: status code 404",
		},
		{
			name:           "5xx then 4xx stops",
			responses:      []int{500, 404},
			expectRequests: 2,
			expectError:    true,
			errorContains:  "client error: status code 404",
		},
		{
			name:           "all 5xx exhausts retries",
			responses:      []int{500, 502, 503},
			expectRequests: 3,
			expectError:    true,
			errorContains:  "server error: status code 503",
		},
	}

	pngData := capturePNG(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requestCount := 0
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if requestCount >= len(tt.responses) {
					t.Errorf("unexpected request %d", requestCount+1)
					w.WriteHeader(500)
					return
				}
				statusCode := tt.responses[requestCount]
				requestCount++
				if statusCode == 200 {
					w.Header().Set("Content-Type", "image/png")
					w.Write(pngData)
					return
				}
				w.WriteHeader(statusCode)
				fmt.Fprintf(w, "error %d", statusCode)
			}))
			defer server.Close()

			fetcher := NewHTTPCaptureFetcher(0)
			_, err := fetcher.FetchCapture(context.Background(), server.URL)

			if requestCount != tt.expectRequests {
				t.Errorf("expected %d requests, got %d", tt.expectRequests, requestCount)
			}
			if tt.expectError {
				if err == nil {
					t.Error("expected an error, got none")
				} else if tt.errorContains != "" && !strings.Contains(err.Error(), tt.errorContains) {
					t.Errorf("expected error to contain %q, got: %s", tt.errorContains, err.Error())
				}
			} else if err != nil {
				t.Errorf("expected success, got: %s", err.Error())
			}
		})
	}
}

func TestHTTPCaptureFetcher_NetworkErrorRetry(t *testing.T) {
	requestCount := 0
	pngData := capturePNG(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount++
		if requestCount < 3 {
			if hj, ok := w.(http.Hijacker); ok {
				conn, _, _ := hj.Hijack()
				conn.Close()
			}
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(pngData)
	}))
	defer server.Close()

	fetcher := NewHTTPCaptureFetcher(0)

	start := time.Now()
	_, err := fetcher.FetchCapture(context.Background(), server.URL)
	duration := time.Since(start)

	if err != nil {
		t.Errorf("expected success after retries, got: %s", err.Error())
	}
	if requestCount != 3 {
		t.Errorf("expected 3 requests, got %d", requestCount)
	}
	// Linear backoff: 1s after the first failure, 2s after the second.
	if duration < 3*time.Second {
		t.Errorf("expected at least 3s of backoff, took %v", duration)
	}
}

func TestHTTPCaptureFetcher_HonorsConfiguredTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.WriteHeader(200)
	}))
	defer server.Close()

	fetcher := NewHTTPCaptureFetcher(50 * time.Millisecond)

	start := time.Now()
	_, err := fetcher.FetchCapture(context.Background(), server.URL)
	if err == nil {
		t.Fatal("expected the configured timeout to abort the slow download")
	}
	// Three ~50ms attempts plus 1s and 2s backoffs: just over 3s. The
	// default 30s client timeout would instead sit through the server's
	// full 500ms delay on every attempt.
	if elapsed := time.Since(start); elapsed >= 4*time.Second {
		t.Errorf("timeout not applied per attempt: took %v", elapsed)
	}
}

func TestHTTPCaptureFetcher_UndecodableBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("not an image"))
	}))
	defer server.Close()

	fetcher := NewHTTPCaptureFetcher(0)
	_, err := fetcher.FetchCapture(context.Background(), server.URL)

	if err == nil || !strings.Contains(err.Error(), "decode") {
		t.Errorf("expected a decode error, got: %v", err)
	}
}
