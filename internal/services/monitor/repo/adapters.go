package repo

import (
	"context"
	"time"

	"github.com/NordCoder/ResultWatch/internal/domain/kafka"
	"github.com/NordCoder/ResultWatch/internal/domain/notification"
	"github.com/NordCoder/ResultWatch/internal/domain/run"
	"github.com/NordCoder/ResultWatch/internal/domain/site"
)

// The adapters are no-ops when the backing store or stream is not configured.

type RunRepo struct{ R run.Repo }
type NotificationRepo struct{ R notification.Repo }
type Events struct{ P kafka.MonitorEvents }

func (a RunRepo) Insert(ctx context.Context, r *run.Run) error {
	if a.R == nil {
		return nil
	}
	return a.R.Insert(ctx, r)
}

func (a NotificationRepo) Create(ctx context.Context, n *notification.Notification) error {
	if a.R == nil {
		return nil
	}
	return a.R.Create(ctx, n)
}

func (e Events) Enabled() bool { return e.P != nil }

func (e Events) PublishStatusChanged(ctx context.Context, siteURL string, old, new site.Status, at time.Time) error {
	if e.P == nil {
		return nil
	}
	return e.P.PublishStatusChanged(ctx, siteURL, old, new, at)
}

func (e Events) PublishDownloadBatch(ctx context.Context, siteURL string, succeeded, total int, at time.Time) error {
	if e.P == nil {
		return nil
	}
	return e.P.PublishDownloadBatch(ctx, siteURL, succeeded, total, at)
}
