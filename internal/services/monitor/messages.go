package monitor

import (
	"fmt"
	"time"

	"github.com/NordCoder/ResultWatch/internal/domain/site"
)

const (
	msgStarted = "🔍 Monitoring started"
	msgDown    = "🔴 Website is DOWN"
)

func liveText(window time.Duration) string {
	return fmt.Sprintf("🎉 Website is LIVE! (%s continuous updates + downloading results)", windowLabel(window))
}

func windowLabel(d time.Duration) string {
	if d >= time.Minute && d%time.Minute == 0 {
		return fmt.Sprintf("%dmin", int(d/time.Minute))
	}
	return fmt.Sprintf("%ds", int(d/time.Second))
}

func stillLiveText(secondsLeft int) string {
	return fmt.Sprintf("✅ Still live (%ds left)", secondsLeft)
}

func heartbeatText(s site.Status) string {
	if s.IsUp() {
		return "📅 Scheduled: ✅ Live"
	}
	return "📅 Scheduled: 🔴 Down"
}

func downloadSummaryText(succeeded, total int) string {
	return fmt.Sprintf("📥 Downloaded %d/%d results", succeeded, total)
}
