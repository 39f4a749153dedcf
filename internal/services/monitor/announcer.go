package monitor

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/NordCoder/ResultWatch/internal/domain/notification"
	"github.com/NordCoder/ResultWatch/internal/obs"
	"github.com/NordCoder/ResultWatch/internal/services/monitor/repo"
)

// Announcer is the only path from the monitor to the chat. Delivery is best
// effort: failures are logged and counted, never returned.
type Announcer struct {
	Out   notification.Sender
	Store repo.NotificationRepo
	Clock notification.Clock
	Pace  time.Duration
	Log   *zap.Logger
}

// Say sends text and, on success, pauses for Pace to stay under the chat's
// rate limit. It reports whether the message was delivered.
func (a *Announcer) Say(ctx context.Context, kind notification.Kind, text string) bool {
	log := obs.WithTrace(ctx, a.Log).With(zap.String("kind", string(kind)))
	if err := a.Out.Notify(ctx, text); err != nil {
		mNotifications.WithLabelValues(string(kind), "error").Inc()
		log.Warn("notify failed", zap.Error(err))
		return false
	}
	mNotifications.WithLabelValues(string(kind), "ok").Inc()
	log.Debug("notified", zap.String("text", text))

	a.journal(ctx, kind, text)
	a.pause(ctx)
	return true
}

// Attach sends data as a named file and maps the outcome to a boolean.
func (a *Announcer) Attach(ctx context.Context, data []byte, filename string) bool {
	log := obs.WithTrace(ctx, a.Log).With(zap.String("filename", filename))
	if err := a.Out.SendFile(ctx, data, filename); err != nil {
		mNotifications.WithLabelValues(string(notification.KindAttachment), "error").Inc()
		log.Warn("send file failed", zap.Error(err))
		return false
	}
	mNotifications.WithLabelValues(string(notification.KindAttachment), "ok").Inc()
	log.Debug("file sent", zap.Int("bytes", len(data)))

	a.journal(ctx, notification.KindAttachment, filename)
	return true
}

func (a *Announcer) journal(ctx context.Context, kind notification.Kind, payload string) {
	n := &notification.Notification{Kind: kind, Payload: payload, SentAt: a.Clock.Now().UTC()}
	if err := a.Store.Create(ctx, n); err != nil {
		a.Log.Debug("journal notification", zap.String("kind", string(kind)), zap.Error(err))
	}
}

func (a *Announcer) pause(ctx context.Context) {
	if a.Pace <= 0 {
		return
	}
	t := time.NewTimer(a.Pace)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
