package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/NordCoder/ResultWatch/internal/domain/notification"
	"github.com/NordCoder/ResultWatch/internal/obs"
	"github.com/NordCoder/ResultWatch/internal/services/monitor/repo"
)

const defaultMaxBodyBytes = 10 << 20

var errBodyTooLarge = errors.New("result page exceeds max body size")

// Downloader fetches every result page concurrently and forwards the ones that
// came back as chat attachments.
type Downloader struct {
	Client       *http.Client
	Targets      []string
	Timeout      time.Duration
	MaxBodyBytes int64
	SiteURL      string

	Out    *Announcer
	Events repo.Events
	Clock  notification.Clock
	Log    *zap.Logger
}

// DownloadAll returns true when at least one page was delivered. A failing
// target never affects its siblings.
func (d *Downloader) DownloadAll(ctx context.Context) bool {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "downloader.batch",
		trace.WithAttributes(attribute.Int("batch.targets", len(d.Targets))),
	)
	defer span.End()

	results := make([]bool, len(d.Targets))
	var g errgroup.Group
	for i, target := range d.Targets {
		g.Go(func() error {
			results[i] = d.FetchOne(ctx, target)
			return nil
		})
	}
	_ = g.Wait()

	succeeded := 0
	for _, ok := range results {
		if ok {
			succeeded++
		}
	}
	total := len(d.Targets)

	mBatches.Inc()
	span.SetAttributes(attribute.Int("batch.succeeded", succeeded))
	obs.WithTrace(ctx, d.Log).Info("download batch finished",
		zap.Int("succeeded", succeeded),
		zap.Int("total", total),
	)

	d.Out.Say(ctx, notification.KindDownloadSummary, downloadSummaryText(succeeded, total))
	if err := d.Events.PublishDownloadBatch(ctx, d.SiteURL, succeeded, total, d.Clock.Now()); err != nil {
		d.Log.Warn("publish download batch", zap.Error(err))
	}
	return succeeded > 0
}

// FetchOne downloads one result page and sends it as result_<id>.html.
func (d *Downloader) FetchOne(ctx context.Context, target string) bool {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "downloader.fetch",
		trace.WithAttributes(attribute.String("target.url", target)),
	)
	defer span.End()
	log := obs.WithTrace(ctx, d.Log).With(zap.String("url", target))

	body, err := d.fetch(ctx, target)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, errBodyTooLarge) {
			mTargets.WithLabelValues("too_large").Inc()
			log.Warn("result page too large, not sent", zap.Int64("max_body_bytes", d.maxBodyBytes()))
			return false
		}
		mTargets.WithLabelValues("fetch_failed").Inc()
		log.Debug("fetch failed", zap.Error(err))
		return false
	}

	name := ResultFilename(target)
	if !d.Out.Attach(ctx, body, name) {
		mTargets.WithLabelValues("send_failed").Inc()
		return false
	}
	mTargets.WithLabelValues("sent").Inc()
	log.Info("result sent", zap.String("filename", name), zap.Int("bytes", len(body)))
	return true
}

func (d *Downloader) fetch(ctx context.Context, target string) ([]byte, error) {
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := d.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	// one byte past the limit tells a full page from a cut one
	limit := d.maxBodyBytes()
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("%w (%d bytes)", errBodyTooLarge, limit)
	}
	return body, nil
}

func (d *Downloader) maxBodyBytes() int64 {
	if d.MaxBodyBytes <= 0 {
		return defaultMaxBodyBytes
	}
	return d.MaxBodyBytes
}

// ResultFilename names the attachment after the trailing query value of the
// target, e.g. "...&RegNo=22156148040" becomes "result_22156148040.html".
func ResultFilename(target string) string {
	id := target
	if i := strings.LastIndex(target, "="); i >= 0 {
		id = target[i+1:]
	} else if u, err := url.Parse(target); err == nil && u.Path != "" {
		id = path.Base(u.Path)
	}
	return "result_" + id + ".html"
}
