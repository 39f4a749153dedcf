package monitor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/NordCoder/ResultWatch/internal/domain/notification"
	"github.com/NordCoder/ResultWatch/internal/domain/site"
	"github.com/NordCoder/ResultWatch/internal/services/monitor/repo"
)

var errSend = errors.New("telegram unavailable")

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type sentFile struct {
	name string
	data []byte
}

type fakeSender struct {
	mu         sync.Mutex
	texts      []string
	files      []sentFile
	failNotify bool
	failFiles  bool
}

func (s *fakeSender) Notify(_ context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNotify {
		return errSend
	}
	s.texts = append(s.texts, text)
	return nil
}

func (s *fakeSender) SendFile(_ context.Context, data []byte, filename string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFiles {
		return errSend
	}
	s.files = append(s.files, sentFile{name: filename, data: data})
	return nil
}

func (s *fakeSender) Texts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.texts...)
}

func (s *fakeSender) Files() []sentFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sentFile(nil), s.files...)
}

type fakeNotifications struct {
	mu   sync.Mutex
	kept []notification.Notification
}

func (r *fakeNotifications) Create(_ context.Context, n *notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kept = append(r.kept, *n)
	return nil
}

// scriptProber replays statuses in order and repeats the last one forever.
type scriptProber struct {
	mu       sync.Mutex
	statuses []site.Status
	i        int
}

func (p *scriptProber) Probe(context.Context, string) ProbeResult {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.statuses[p.i]
	if p.i < len(p.statuses)-1 {
		p.i++
	}
	res := ProbeResult{Status: s, Latency: 5 * time.Millisecond, Code: 503}
	if s.IsUp() {
		res.Code = 200
	}
	return res
}

func (p *scriptProber) Set(s site.Status) {
	p.mu.Lock()
	p.statuses = []site.Status{s}
	p.i = 0
	p.mu.Unlock()
}

type fakeBatch struct {
	calls atomic.Int32
}

func (b *fakeBatch) DownloadAll(context.Context) bool {
	b.calls.Add(1)
	return true
}

type testRunner struct {
	*Runner
	clock  *fakeClock
	sender *fakeSender
	prober *scriptProber
	batch  *fakeBatch
}

func newTestRunner(t *testing.T, statuses ...site.Status) *testRunner {
	t.Helper()
	clock := newFakeClock()
	sender := &fakeSender{}
	prober := &scriptProber{statuses: statuses}
	batch := &fakeBatch{}
	log := zap.NewNop()

	r := &Runner{
		Log: log,
		Cfg: Settings{
			URL:                "https://results.example.org/",
			CheckInterval:      2 * time.Second,
			ScheduledInterval:  7200 * time.Second,
			ContinuousDuration: 900 * time.Second,
			ShutdownGrace:      time.Second,
		},
		Probe:  prober,
		Out:    &Announcer{Out: sender, Clock: clock, Log: log},
		Batch:  batch,
		Runs:   repo.RunRepo{},
		Events: repo.Events{},
		Clock:  clock,
		Tasks:  NewTaskGroup(context.Background(), log),
	}
	r.reset()
	return &testRunner{Runner: r, clock: clock, sender: sender, prober: prober, batch: batch}
}
