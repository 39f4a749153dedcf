package monitor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/NordCoder/ResultWatch/internal/domain/notification"
	"github.com/NordCoder/ResultWatch/internal/services/monitor/repo"
)

func TestAnnouncer_SayJournalsDeliveredMessages(t *testing.T) {
	sender := &fakeSender{}
	store := &fakeNotifications{}
	clock := newFakeClock()
	a := &Announcer{Out: sender, Store: repo.NotificationRepo{R: store}, Clock: clock, Log: zap.NewNop()}

	ok := a.Say(context.Background(), notification.KindDown, msgDown)

	require.True(t, ok)
	assert.Equal(t, []string{msgDown}, sender.Texts())
	require.Len(t, store.kept, 1)
	assert.Equal(t, notification.KindDown, store.kept[0].Kind)
	assert.Equal(t, msgDown, store.kept[0].Payload)
	assert.Equal(t, clock.Now(), store.kept[0].SentAt)
}

func TestAnnouncer_SaySwallowsErrors(t *testing.T) {
	store := &fakeNotifications{}
	a := &Announcer{
		Out:   &fakeSender{failNotify: true},
		Store: repo.NotificationRepo{R: store},
		Clock: newFakeClock(),
		Pace:  time.Hour,
		Log:   zap.NewNop(),
	}

	start := time.Now()
	ok := a.Say(context.Background(), notification.KindLive, "hello")

	assert.False(t, ok)
	assert.Empty(t, store.kept)
	// no pacing pause after a failed send
	assert.Less(t, time.Since(start), time.Second)
}

func TestAnnouncer_PaceStopsOnCancel(t *testing.T) {
	a := &Announcer{Out: &fakeSender{}, Clock: newFakeClock(), Pace: time.Hour, Log: zap.NewNop()}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	assert.True(t, a.Say(ctx, notification.KindStarted, msgStarted))
	assert.Less(t, time.Since(start), time.Second)
}

func TestAnnouncer_PacesSuccessfulMessages(t *testing.T) {
	a := &Announcer{Out: &fakeSender{}, Clock: newFakeClock(), Pace: 30 * time.Millisecond, Log: zap.NewNop()}

	start := time.Now()
	a.Say(context.Background(), notification.KindStarted, msgStarted)
	a.Say(context.Background(), notification.KindDown, msgDown)

	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)
}

func TestAnnouncer_Attach(t *testing.T) {
	sender := &fakeSender{}
	a := &Announcer{Out: sender, Clock: newFakeClock(), Log: zap.NewNop()}

	assert.True(t, a.Attach(context.Background(), []byte("<html/>"), "result_1.html"))
	require.Len(t, sender.Files(), 1)
	assert.Equal(t, "result_1.html", sender.Files()[0].name)

	sender.failFiles = true
	assert.False(t, a.Attach(context.Background(), []byte("<html/>"), "result_2.html"))
}
