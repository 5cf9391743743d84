package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeLinks struct {
	calls int
	n     int64
	err   error
}

func (f *fakeLinks) DeactivateExpired(context.Context) (int64, error) {
	f.calls++
	return f.n, f.err
}

type fakeEvents struct {
	calls int
	n     int64
	err   error
}

func (f *fakeEvents) CompleteEnded(context.Context) (int64, error) {
	f.calls++
	return f.n, f.err
}

func TestSweepRunsBothTasks(t *testing.T) {
	links := &fakeLinks{n: 3}
	events := &fakeEvents{n: 1}
	s := NewSweeper(links, events, time.Minute, nil)

	s.Sweep(context.Background())
	assert.Equal(t, 1, links.calls)
	assert.Equal(t, 1, events.calls)
}

func TestSweepContinuesAfterLinkFailure(t *testing.T) {
	links := &fakeLinks{err: errors.New("db down")}
	events := &fakeEvents{}
	s := NewSweeper(links, events, time.Minute, nil)

	s.Sweep(context.Background())
	assert.Equal(t, 1, events.calls)
}

func TestRunStopsOnCancel(t *testing.T) {
	links := &fakeLinks{}
	events := &fakeEvents{}
	s := NewSweeper(links, events, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	// Run sweeps once immediately, then waits on the ticker
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop on cancel")
	}
	assert.GreaterOrEqual(t, links.calls, 1)
	assert.GreaterOrEqual(t, events.calls, 1)
}
