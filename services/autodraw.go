package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bellapacxx/bingo-caller/utils/logger"
	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

const DefaultDrawInterval = 6 * time.Second

// AutoDrawer calls numbers on a fixed interval, one gocron job per game.
// Each job is bound to the session epoch seen when it was started, so a claim,
// resume or end turns any pending tick into a discarded stale draw.
type AutoDrawer struct {
	registry  *Registry
	scheduler gocron.Scheduler
	interval  time.Duration

	mu   sync.Mutex
	jobs map[string]drawJob
}

type drawJob struct {
	id    uuid.UUID
	epoch uint64
}

func NewAutoDrawer(registry *Registry, interval time.Duration) (*AutoDrawer, error) {
	if interval <= 0 {
		interval = DefaultDrawInterval
	}
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	sched.Start()
	return &AutoDrawer{
		registry:  registry,
		scheduler: sched,
		interval:  interval,
		jobs:      make(map[string]drawJob),
	}, nil
}

// Start schedules draws for gameID, replacing any job already running for it.
func (a *AutoDrawer) Start(gameID string) error {
	s, err := a.registry.Session(gameID)
	if err != nil {
		return err
	}

	// a.mu before s.mu; ticks release s.mu before finish takes a.mu.
	a.mu.Lock()
	defer a.mu.Unlock()

	epoch := s.Epoch()
	a.stopLocked(gameID)
	job, err := a.scheduler.NewJob(
		gocron.DurationJob(a.interval),
		gocron.NewTask(a.tick, gameID, epoch),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags(gameID),
	)
	if err != nil {
		return fmt.Errorf("schedule draws for game %s: %w", gameID, err)
	}
	a.jobs[gameID] = drawJob{id: job.ID(), epoch: epoch}
	logger.Infof("[AutoDraw] game %s every %s (epoch %d)", gameID, a.interval, epoch)
	return nil
}

// Stop cancels the job for gameID and any tick of it already in flight.
// It reports whether a job was running.
func (a *AutoDrawer) Stop(gameID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.stopLocked(gameID) {
		return false
	}
	if s, err := a.registry.Session(gameID); err == nil {
		s.CancelScheduled()
	}
	return true
}

func (a *AutoDrawer) stopLocked(gameID string) bool {
	job, ok := a.jobs[gameID]
	if !ok {
		return false
	}
	delete(a.jobs, gameID)
	if err := a.scheduler.RemoveJob(job.id); err != nil && !errors.Is(err, gocron.ErrJobNotFound) {
		logger.Errorf("[AutoDraw] remove job for game %s: %v", gameID, err)
	}
	logger.Infof("[AutoDraw] game %s stopped", gameID)
	return true
}

func (a *AutoDrawer) Running(gameID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.jobs[gameID]
	return ok
}

func (a *AutoDrawer) Shutdown() error {
	return a.scheduler.Shutdown()
}

func (a *AutoDrawer) tick(gameID string, epoch uint64) {
	s, err := a.registry.Session(gameID)
	if err != nil {
		a.finish(gameID, epoch, err)
		return
	}
	res, err := s.DrawScheduled(context.Background(), epoch)
	if err != nil {
		a.finish(gameID, epoch, err)
		return
	}
	if res.Exhausted {
		a.finish(gameID, epoch, nil)
	}
}

// finish removes the job that ticked, unless a newer Start has already replaced it.
func (a *AutoDrawer) finish(gameID string, epoch uint64, cause error) {
	switch {
	case cause == nil:
		logger.Infof("[AutoDraw] game %s exhausted the pool", gameID)
	case errors.Is(cause, ErrStaleDraw):
		logger.Debugf("[AutoDraw] discarded draw for game %s: %v", gameID, cause)
	default:
		logger.Warnf("[AutoDraw] game %s draw failed: %v", gameID, cause)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if job, ok := a.jobs[gameID]; !ok || job.epoch != epoch {
		return
	}
	a.stopLocked(gameID)
}
