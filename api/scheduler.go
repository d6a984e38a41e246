/*
scheduler.go - Automated year-end carryover scheduler

PURPOSE:
  Periodically carries each user's closing balance of last year into the
  current year's settings, so a new year starts where the old one ended
  without anyone pressing a button.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Always closes the previous calendar year
  - Skips users whose current-year settings already exist, so a
    carryover entered by hand is never replaced
  - Logs every processed user with logrus

CONFIGURATION:
  - CheckInterval: How often to check (default: 24 hours)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewCarryoverScheduler(store)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: TriggerRollover endpoints (manual rollover)
  - planner/rollover.go: RollOver
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/warp/hours-engine/calendar"
	"github.com/warp/hours-engine/planner"
)

// CarryoverScheduler handles automated year-end carryover.
type CarryoverScheduler struct {
	Store         planner.Store
	CheckInterval time.Duration
	Enabled       bool
	Log           logrus.FieldLogger

	// Today is the clock; tests replace it.
	Today func() calendar.Day

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewCarryoverScheduler creates a new scheduler.
func NewCarryoverScheduler(store planner.Store) *CarryoverScheduler {
	return &CarryoverScheduler{
		Store:         store,
		CheckInterval: 24 * time.Hour,
		Enabled:       true,
		Log:           logrus.WithField("component", "scheduler"),
		Today:         calendar.Today,
		stop:          make(chan struct{}),
	}
}

// Start begins the scheduler.
func (cs *CarryoverScheduler) Start() {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if !cs.Enabled {
		cs.Log.Info("disabled, not starting")
		return
	}
	if cs.ticker != nil {
		return
	}

	cs.ticker = time.NewTicker(cs.CheckInterval)
	cs.stop = make(chan struct{})
	cs.wg.Add(1)

	go cs.run()

	cs.Log.WithField("interval", cs.CheckInterval).Info("started")
}

// Stop stops the scheduler and waits for a running check to finish.
func (cs *CarryoverScheduler) Stop() {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.ticker != nil {
		cs.ticker.Stop()
		close(cs.stop)
		cs.wg.Wait()
		cs.ticker = nil
		cs.Log.Info("stopped")
	}
}

func (cs *CarryoverScheduler) run() {
	defer cs.wg.Done()

	// Run immediately on start
	cs.checkAndProcess()

	for {
		select {
		case <-cs.ticker.C:
			cs.checkAndProcess()
		case <-cs.stop:
			return
		}
	}
}

func (cs *CarryoverScheduler) checkAndProcess() []planner.RolloverResult {
	fromYear := cs.Today().Year() - 1
	results, err := rollOverAll(context.Background(), cs.Store, cs.Log, fromYear, false)
	if err != nil {
		cs.Log.WithError(err).Error("listing users")
	}
	return results
}

// RunNow triggers an immediate check (for testing/admin).
func (cs *CarryoverScheduler) RunNow() []planner.RolloverResult {
	return cs.checkAndProcess()
}

// GetNextRunTime returns when the next scheduled check will occur.
func (cs *CarryoverScheduler) GetNextRunTime() time.Time {
	return time.Now().Add(cs.CheckInterval)
}

// rollOverAll runs planner.RollOver for every user. A failing user is
// logged and skipped; only a failure to list users is returned.
func rollOverAll(ctx context.Context, store planner.Store, log logrus.FieldLogger, fromYear int, overwrite bool) ([]planner.RolloverResult, error) {
	users, err := store.UserIDs(ctx)
	if err != nil {
		return nil, err
	}

	results := []planner.RolloverResult{}
	processed, skipped := 0, 0
	for _, userID := range users {
		res, err := planner.RollOver(ctx, store, userID, fromYear, overwrite)
		if err != nil {
			log.WithError(err).WithField("user_id", userID).Error("rollover failed")
			continue
		}
		results = append(results, res)
		if res.Skipped {
			skipped++
			continue
		}
		processed++
		log.WithFields(logrus.Fields{
			"user_id":   userID,
			"from_year": res.FromYear,
			"carryover": res.CarryoverHours.StringFixed(2),
		}).Info("carried balance into next year")
	}

	if processed > 0 || skipped > 0 {
		log.WithFields(logrus.Fields{"processed": processed, "skipped": skipped}).Info("rollover completed")
	}
	return results, nil
}
