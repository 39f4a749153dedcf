package notification

import (
	"context"
	"time"
)

type Kind string

const (
	KindStarted         Kind = "started"
	KindLive            Kind = "live"
	KindDown            Kind = "down"
	KindStillLive       Kind = "still_live"
	KindHeartbeat       Kind = "heartbeat"
	KindDownloadSummary Kind = "download_summary"
	KindAttachment      Kind = "attachment"
)

type Notification struct {
	ID      int64     `json:"id"`
	Kind    Kind      `json:"kind"`
	SentAt  time.Time `json:"sent_at"`
	Payload string    `json:"payload"` // message text or attachment name
}

// Sender delivers messages and files to the single configured chat.
type Sender interface {
	Notify(ctx context.Context, text string) error
	SendFile(ctx context.Context, data []byte, filename string) error
}

type Clock interface {
	Now() time.Time
}
