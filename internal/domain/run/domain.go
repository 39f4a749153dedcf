package run

import "time"

// Run is one probe of the watched site.
type Run struct {
	ID        int64     `json:"id"`
	URL       string    `json:"url"`
	Timestamp time.Time `json:"timestamp"`
	Status    bool      `json:"status"`
	Code      int       `json:"code"`
	Latency   int64     `json:"latency"`
}
