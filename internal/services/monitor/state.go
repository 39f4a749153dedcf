package monitor

import (
	"time"

	"github.com/NordCoder/ResultWatch/internal/domain/site"
)

// State is owned by the poll loop alone and lives only as long as the process.
type State struct {
	LastStatus site.Status
	// LastScheduled is when the last heartbeat went out. It starts at process
	// start so the first heartbeat comes one scheduled interval later.
	LastScheduled time.Time
	// ContinuousUntil is the end of the follow-up window; zero when none.
	ContinuousUntil time.Time
	// DownloadTriggered is set once the in-window batch has been launched.
	DownloadTriggered bool
}

func NewState(now time.Time) State {
	return State{LastStatus: site.StatusUnknown, LastScheduled: now}
}

func (s State) inWindow(now time.Time) bool {
	return now.Before(s.ContinuousUntil)
}

// secondsLeft truncates toward zero.
func (s State) secondsLeft(now time.Time) int {
	return int(s.ContinuousUntil.Sub(now) / time.Second)
}
