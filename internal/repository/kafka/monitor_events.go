package kafka

import (
	"context"
	"time"

	"github.com/NordCoder/ResultWatch/internal/domain/kafka"
	"github.com/NordCoder/ResultWatch/internal/domain/site"
	"github.com/NordCoder/ResultWatch/internal/obs/retry"
)

const (
	EventStatusChanged = "status_changed"
	EventDownloadBatch = "download_batch"
)

type StatusChangedEvent struct {
	Type string    `json:"type"`
	URL  string    `json:"url"`
	Old  string    `json:"old"`
	New  string    `json:"new"`
	At   time.Time `json:"at"`
}

type DownloadBatchEvent struct {
	Type      string    `json:"type"`
	URL       string    `json:"url"`
	Succeeded int       `json:"succeeded"`
	Total     int       `json:"total"`
	At        time.Time `json:"at"`
}

type jsonPublisher interface {
	PublishJSON(ctx context.Context, key []byte, v any) error
}

type MonitorEventsKafka struct {
	p   jsonPublisher
	pol retry.Policy
}

func NewMonitorEventsKafka(p *Producer, pol retry.Policy) *MonitorEventsKafka {
	return &MonitorEventsKafka{p: p, pol: pol}
}

var _ kafka.MonitorEvents = (*MonitorEventsKafka)(nil)

func (e *MonitorEventsKafka) PublishStatusChanged(ctx context.Context, siteURL string, old, new site.Status, at time.Time) error {
	ev := StatusChangedEvent{
		Type: EventStatusChanged,
		URL:  siteURL,
		Old:  old.String(),
		New:  new.String(),
		At:   at.UTC(),
	}
	return e.publish(ctx, siteURL, ev)
}

func (e *MonitorEventsKafka) PublishDownloadBatch(ctx context.Context, siteURL string, succeeded, total int, at time.Time) error {
	ev := DownloadBatchEvent{
		Type:      EventDownloadBatch,
		URL:       siteURL,
		Succeeded: succeeded,
		Total:     total,
		At:        at.UTC(),
	}
	return e.publish(ctx, siteURL, ev)
}

func (e *MonitorEventsKafka) publish(ctx context.Context, key string, v any) error {
	return retry.Do(ctx, func() error {
		return e.p.PublishJSON(ctx, []byte(key), v)
	}, e.pol)
}
