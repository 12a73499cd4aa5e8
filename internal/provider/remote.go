package provider

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"math"
	"net/http"
	"time"

	"pupilscreen/internal/detector"
	"pupilscreen/internal/errors"
)

// remoteCircle mirrors the cloud service's circle shape. Radii arrive as
// floats and are rounded into the integer pixel grid.
type remoteCircle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

type remoteRequest struct {
	Image string `json:"image"`
}

type remoteResponse struct {
	Pupil      *remoteCircle `json:"pupil"`
	Iris       *remoteCircle `json:"iris"`
	Confidence struct {
		Pupil float64 `json:"pupil"`
		Iris  float64 `json:"iris"`
	} `json:"confidence"`
	Ratio float64 `json:"ratio"`
}

// RemoteProvider delegates detection to the cloud service's base64
// endpoint. Any transport, status, or payload problem is an error; the
// chain falls through to the on-device pipeline.
type RemoteProvider struct {
	endpoint string
	client   *http.Client
}

// NewRemoteProvider creates a provider against the given detection
// endpoint, e.g. "https://host/detect/base64".
func NewRemoteProvider(endpoint string, timeout time.Duration) *RemoteProvider {
	return &RemoteProvider{
		endpoint: endpoint,
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:          10,
				MaxIdleConnsPerHost:   2,
				IdleConnTimeout:       30 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: timeout,
			},
			Timeout: timeout,
		},
	}
}

// Detect encodes the frame as base64 PNG, posts it, and maps the
// response into a detection result.
func (p *RemoteProvider) Detect(ctx context.Context, img image.Image) (detector.DetectionResult, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return detector.DetectionResult{}, errors.NewProcessingError("failed to encode frame", err)
	}
	payload, err := json.Marshal(remoteRequest{
		Image: base64.StdEncoding.EncodeToString(buf.Bytes()),
	})
	if err != nil {
		return detector.DetectionResult{}, errors.NewInternalError("failed to marshal detection request", err)
	}

	// Retry transient failures; 4xx responses are final.
	var resp *http.Response
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(payload))
		if reqErr != nil {
			return detector.DetectionResult{}, errors.NewValidationError("invalid detection endpoint", reqErr)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err = p.client.Do(req)
		if err == nil && resp.StatusCode == http.StatusOK {
			break
		}
		if err != nil {
			lastErr = err
			resp = nil
		} else {
			resp.Body.Close()
			lastErr = fmt.Errorf("detection service returned status %d", resp.StatusCode)
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				resp = nil
				break
			}
			resp = nil
		}
		if attempt < 2 {
			select {
			case <-ctx.Done():
				return detector.DetectionResult{}, errors.NewTimeoutError("detection cancelled", ctx.Err())
			case <-time.After(time.Duration(attempt+1) * time.Second):
			}
		}
	}
	if resp == nil {
		return detector.DetectionResult{}, errors.NewNetworkError("cloud detection failed", lastErr)
	}
	defer resp.Body.Close()

	var out remoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return detector.DetectionResult{}, errors.NewProcessingError("failed to decode detection response", err)
	}
	if out.Pupil == nil || out.Iris == nil {
		return detector.DetectionResult{}, errors.NewProcessingError("detection service found no eye", nil)
	}

	return detector.DetectionResult{
		Pupil:  roundCircle(*out.Pupil),
		Iris:   roundCircle(*out.Iris),
		Confidence: detector.Confidence{
			Pupil: out.Confidence.Pupil,
			Iris:  out.Confidence.Iris,
		},
		Method: detector.MethodCloud,
	}, nil
}

// GetProviderName returns the provider name.
func (p *RemoteProvider) GetProviderName() string {
	return "cloud"
}

func roundCircle(c remoteCircle) detector.Circle {
	return detector.Circle{
		X: int(math.Round(c.X)),
		Y: int(math.Round(c.Y)),
		R: int(math.Round(c.Radius)),
	}
}
