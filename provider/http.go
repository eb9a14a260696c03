package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"gaiaeye/analytics"
)

// HTTPProvider calls POST {base}/statistics on the processing service.
type HTTPProvider struct {
	base   string
	client *http.Client
}

// NewHTTPProvider builds a client for the statistics service at base.
func NewHTTPProvider(base string) *HTTPProvider {
	if base == "" {
		base = "http://127.0.0.1:8000"
	}
	return &HTTPProvider{
		base:   base,
		client: &http.Client{Timeout: 25 * time.Second},
	}
}

type statisticsReq struct {
	BBox
	Window
}

// ZonalStatistics requests the aggregate bag for one region and window.
// Any upstream failure is wrapped as ErrDataUnavailable.
func (p *HTTPProvider) ZonalStatistics(ctx context.Context, box BBox, window Window) (*Statistics, error) {
	body, err := json.Marshal(statisticsReq{BBox: box, Window: window})
	if err != nil {
		return nil, fmt.Errorf("marshal statistics req: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.base+"/statistics", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s: %s", ErrDataUnavailable, resp.Status, string(data))
	}

	var out Statistics
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrDataUnavailable, err)
	}
	if out.Indices == nil {
		out.Indices = analytics.ZonalStatistics{}
	}
	return &out, nil
}
