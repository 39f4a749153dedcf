package monitor

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/NordCoder/ResultWatch/internal/domain/notification"
	"github.com/NordCoder/ResultWatch/internal/domain/run"
	"github.com/NordCoder/ResultWatch/internal/domain/site"
	"github.com/NordCoder/ResultWatch/internal/services/monitor/repo"
)

// minSecondsForDownload is the smallest window remainder that still justifies
// launching the in-window batch.
const minSecondsForDownload = 60

type BatchDownloader interface {
	DownloadAll(ctx context.Context) bool
}

type Settings struct {
	URL                string
	CheckInterval      time.Duration
	ScheduledInterval  time.Duration
	ContinuousDuration time.Duration
	ShutdownGrace      time.Duration
}

// Runner is the availability poll loop.
type Runner struct {
	Log    *zap.Logger
	Cfg    Settings
	Probe  Prober
	Out    *Announcer
	Batch  BatchDownloader
	Runs   repo.RunRepo
	Events repo.Events
	Clock  notification.Clock
	Tasks  *TaskGroup

	state State
}

func (r *Runner) reset() {
	r.state = NewState(r.Clock.Now())
}

// Run sends the start message and polls until ctx is cancelled. Detached tasks
// get ShutdownGrace to finish before Run returns.
func (r *Runner) Run(ctx context.Context) error {
	if r.Cfg.CheckInterval <= 0 {
		return errors.New("monitor: check interval must be positive")
	}
	r.reset()
	r.Log.Info("monitoring started",
		zap.String("url", r.Cfg.URL),
		zap.Duration("check_interval", r.Cfg.CheckInterval),
		zap.Duration("scheduled_interval", r.Cfg.ScheduledInterval),
		zap.Duration("continuous_duration", r.Cfg.ContinuousDuration),
	)
	r.Out.Say(ctx, notification.KindStarted, msgStarted)

	timer := time.NewTimer(r.Cfg.CheckInterval)
	defer timer.Stop()

	for {
		r.cycle(ctx)

		timer.Reset(r.Cfg.CheckInterval)
		select {
		case <-ctx.Done():
			r.Log.Info("stopping, waiting for detached tasks", zap.Duration("grace", r.Cfg.ShutdownGrace))
			r.Tasks.Shutdown(r.Cfg.ShutdownGrace)
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (r *Runner) cycle(ctx context.Context) {
	start := time.Now()
	defer func() { mCycleDur.Observe(time.Since(start).Seconds()) }()

	ctx, span := otel.Tracer(tracerName).Start(ctx, "monitor.cycle",
		trace.WithAttributes(attribute.String("site.url", r.Cfg.URL)),
	)
	defer span.End()

	res := r.probe(ctx)
	now := r.Clock.Now()
	current := res.Status
	prev := r.state.LastStatus
	changed := current != prev

	span.SetAttributes(
		attribute.String("site.status", current.String()),
		attribute.Bool("site.changed", changed),
	)
	r.journal(ctx, now, res)

	if changed {
		mChanges.Inc()
		r.Log.Info("status changed",
			zap.Stringer("from", prev),
			zap.Stringer("to", current),
			zap.Int("code", res.Code),
		)
		r.publishChange(prev, current, now)
	}

	switch {
	case changed && current.IsUp():
		r.state.ContinuousUntil = now.Add(r.Cfg.ContinuousDuration)
		r.state.DownloadTriggered = false
		r.Out.Say(ctx, notification.KindLive, liveText(r.Cfg.ContinuousDuration))
		r.spawnDownload("download_on_live")

	case changed:
		r.Out.Say(ctx, notification.KindDown, msgDown)
		r.state.DownloadTriggered = false

	case current.IsUp() && r.state.inWindow(now):
		left := r.state.secondsLeft(now)
		r.Out.Say(ctx, notification.KindStillLive, stillLiveText(left))
		if !r.state.DownloadTriggered && left > minSecondsForDownload {
			r.state.DownloadTriggered = true
			r.spawnDownload("download_in_window")
		}

	case now.Sub(r.state.LastScheduled) >= r.Cfg.ScheduledInterval && !r.state.inWindow(now):
		r.Out.Say(ctx, notification.KindHeartbeat, heartbeatText(current))
		r.state.LastScheduled = now
	}

	r.state.LastStatus = current
}

func (r *Runner) probe(ctx context.Context) ProbeResult {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "monitor.probe")
	defer span.End()

	res := r.Probe.Probe(ctx, r.Cfg.URL)
	mProbes.WithLabelValues(res.Status.String()).Inc()
	mProbeLatency.Observe(res.Latency.Seconds())
	span.SetAttributes(attribute.Int("http.status_code", res.Code))
	if res.Err != nil {
		span.RecordError(res.Err)
		r.Log.Debug("probe failed", zap.Error(res.Err))
	}
	return res
}

func (r *Runner) journal(ctx context.Context, now time.Time, res ProbeResult) {
	err := r.Runs.Insert(ctx, &run.Run{
		URL:       r.Cfg.URL,
		Timestamp: now.UTC(),
		Status:    res.Status.IsUp(),
		Code:      res.Code,
		Latency:   res.Latency.Milliseconds(),
	})
	if err != nil {
		r.Log.Debug("journal probe", zap.Error(err))
	}
}

func (r *Runner) spawnDownload(name string) {
	r.Log.Info("launching download batch", zap.String("trigger", name))
	r.Tasks.Go(name, func(ctx context.Context) {
		r.Batch.DownloadAll(ctx)
	})
}

func (r *Runner) publishChange(old, new site.Status, at time.Time) {
	if !r.Events.Enabled() {
		return
	}
	r.Tasks.Go("publish_status_changed", func(ctx context.Context) {
		if err := r.Events.PublishStatusChanged(ctx, r.Cfg.URL, old, new, at); err != nil {
			r.Log.Warn("publish status changed", zap.Error(err))
		}
	})
}
