package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/taskdeck/taskdeck/internal/logger"
	"github.com/taskdeck/taskdeck/internal/model"
	"github.com/taskdeck/taskdeck/internal/store"
)

// Sweeper auto-closes overdue tasks. The sweep is a single guarded UPDATE,
// so it is idempotent: once a task is closed it no longer qualifies, and a
// second run right after the first returns 0.
type Sweeper struct {
	store store.Store
	now   func() time.Time
}

// NewSweeper builds a Sweeper.
func NewSweeper(st store.Store) *Sweeper {
	return &Sweeper{store: st, now: time.Now}
}

// Run closes every task whose deadline is before today and whose status is
// not done, returning the number of tasks affected.
func (s *Sweeper) Run(ctx context.Context) (int64, error) {
	runID := uuid.New().String()[:8]
	now := s.now().UTC()

	count, err := s.store.CloseOverdueTasks(ctx, model.DateOf(now), now)
	if err != nil {
		logger.Error("overdue sweep failed", logger.F("run_id", runID), logger.F("error", err))
		return 0, err
	}

	logger.Info("overdue sweep finished", logger.F("run_id", runID), logger.F("closed", count))
	return count, nil
}

// Schedule registers the sweep on a cron scheduler at the given interval and
// starts it. Stop the returned scheduler to halt sweeping.
func (s *Sweeper) Schedule(interval time.Duration) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc("@every "+interval.String(), func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := s.Run(ctx); err != nil {
			logger.Error("scheduled sweep failed", logger.F("error", err))
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
