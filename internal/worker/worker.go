package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// LinkSweeper deactivates registration links past their expiry.
type LinkSweeper interface {
	DeactivateExpired(ctx context.Context) (int64, error)
}

// EventCompleter transitions published events past their end date to completed.
type EventCompleter interface {
	CompleteEnded(ctx context.Context) (int64, error)
}

// Sweeper runs periodic maintenance: expiring registration links and closing
// out ended events.
type Sweeper struct {
	links    LinkSweeper
	events   EventCompleter
	interval time.Duration
	logger   *zap.Logger
}

// NewSweeper creates a maintenance sweeper.
func NewSweeper(links LinkSweeper, events EventCompleter, interval time.Duration, logger *zap.Logger) *Sweeper {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweeper{links: links, events: events, interval: interval, logger: logger}
}

// Run sweeps immediately, then on every tick until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.Sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweeper stopping")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs one maintenance pass.
func (s *Sweeper) Sweep(ctx context.Context) {
	expired, err := s.links.DeactivateExpired(ctx)
	if err != nil {
		s.logger.Error("deactivate expired links", zap.Error(err))
	} else if expired > 0 {
		s.logger.Info("deactivated expired registration links", zap.Int64("count", expired))
	}

	completed, err := s.events.CompleteEnded(ctx)
	if err != nil {
		s.logger.Error("complete ended events", zap.Error(err))
	} else if completed > 0 {
		s.logger.Info("completed ended events", zap.Int64("count", completed))
	}
}
