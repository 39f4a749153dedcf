package kafka

import (
	"context"
	"time"

	"github.com/NordCoder/ResultWatch/internal/domain/site"
)

type MonitorEvents interface {
	PublishStatusChanged(ctx context.Context, siteURL string, old, new site.Status, at time.Time) error
	PublishDownloadBatch(ctx context.Context, siteURL string, succeeded, total int, at time.Time) error
}
