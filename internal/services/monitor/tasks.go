package monitor

import (
	"context"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
	"go.uber.org/zap"
)

// TaskGroup tracks fire-and-forget work started by the poll loop. Tasks run
// with a context that outlives the loop's cancellation so a shutdown can let
// them finish; Shutdown cancels whatever is left once the grace period ends.
type TaskGroup struct {
	log    *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
	wg     conc.WaitGroup
}

func NewTaskGroup(parent context.Context, log *zap.Logger) *TaskGroup {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.WithoutCancel(parent))
	return &TaskGroup{log: log, ctx: ctx, cancel: cancel}
}

func (g *TaskGroup) Go(name string, fn func(ctx context.Context)) {
	mTasksInFlight.Inc()
	g.wg.Go(func() {
		defer mTasksInFlight.Dec()

		var pc panics.Catcher
		pc.Try(func() { fn(g.ctx) })
		if r := pc.Recovered(); r != nil {
			g.log.Error("detached task panicked",
				zap.String("task", name),
				zap.String("panic", r.String()),
			)
		}
	})
}

// Wait blocks until every started task has returned.
func (g *TaskGroup) Wait() { g.wg.Wait() }

// Shutdown waits up to grace for running tasks, then cancels them and waits
// for them to return.
func (g *TaskGroup) Shutdown(grace time.Duration) {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()

	t := time.NewTimer(grace)
	defer t.Stop()
	select {
	case <-done:
	case <-t.C:
		g.log.Warn("detached tasks still running, cancelling", zap.Duration("grace", grace))
		g.cancel()
		<-done
	}
	g.cancel()
}
