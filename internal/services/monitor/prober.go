package monitor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/NordCoder/ResultWatch/internal/domain/site"
)

const defaultRequestTimeout = 10 * time.Second

// ProbeResult is the outcome of one availability probe. Err is informational:
// every failure has already been folded into StatusDown.
type ProbeResult struct {
	Status  site.Status
	Code    int
	Latency time.Duration
	Err     error
}

type Prober interface {
	Probe(ctx context.Context, url string) ProbeResult
}

// HTTPProbe classifies the site as UP only on HTTP 200.
type HTTPProbe struct {
	Client  *http.Client
	Timeout time.Duration
}

func (p HTTPProbe) Probe(ctx context.Context, url string) ProbeResult {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ProbeResult{Status: site.StatusDown, Err: fmt.Errorf("build request: %w", err)}
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return ProbeResult{Status: site.StatusDown, Latency: time.Since(start), Err: err}
	}
	defer resp.Body.Close()
	// drain a little so the connection can be reused
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	res := ProbeResult{Status: site.StatusDown, Code: resp.StatusCode, Latency: time.Since(start)}
	if resp.StatusCode == http.StatusOK {
		res.Status = site.StatusUp
	}
	return res
}
