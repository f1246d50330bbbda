// Package scheduler runs detection passes in the background for users with
// recent data. It is the only caller of the engine that is not an HTTP request.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/blaisecz/insight-engine/internal/domain"
	"github.com/blaisecz/insight-engine/internal/logger"
	"github.com/blaisecz/insight-engine/internal/repository"
	"github.com/blaisecz/insight-engine/internal/service"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Settings controls the loop. Zero values fall back to the defaults below.
type Settings struct {
	Interval    time.Duration
	PassTimeout time.Duration
	Concurrency int
	// ActiveWindow is how recent a user's last data point must be for a pass to run.
	ActiveWindow time.Duration
	// RevalidateAfter is the age of last_validated at which a rule is revalidated.
	RevalidateAfter time.Duration
	// PurgeInterval spaces retention sweeps.
	PurgeInterval time.Duration
}

func (s Settings) withDefaults() Settings {
	if s.Interval <= 0 {
		s.Interval = 15 * time.Minute
	}
	if s.PassTimeout <= 0 {
		s.PassTimeout = 2 * time.Minute
	}
	if s.Concurrency <= 0 {
		s.Concurrency = 4
	}
	if s.ActiveWindow <= 0 {
		s.ActiveWindow = domain.DefaultAnalysisLookbackDays * 24 * time.Hour
	}
	if s.RevalidateAfter <= 0 {
		s.RevalidateAfter = domain.DefaultRevalidationDays * 24 * time.Hour
	}
	if s.PurgeInterval <= 0 {
		s.PurgeInterval = 24 * time.Hour
	}
	return s
}

// TickResult counts what one tick did.
type TickResult struct {
	Users        int
	Passes       int
	Failed       int
	Busy         int
	Revalidated  int
	Purged       int
	Expired      int64
	PurgedPoints int64
}

type Scheduler struct {
	engine   service.Engine
	points   repository.DataPointRepository
	rules    repository.RuleRepository
	insights repository.InsightRepository
	settings Settings
	log      *logger.Logger
	now      service.Clock

	mu         sync.Mutex
	running    bool
	stopCh     chan struct{}
	done       chan struct{}
	lastPurged time.Time
}

func New(
	engine service.Engine,
	points repository.DataPointRepository,
	rules repository.RuleRepository,
	insights repository.InsightRepository,
	settings Settings,
	log *logger.Logger,
	now service.Clock,
) *Scheduler {
	return &Scheduler{
		engine:   engine,
		points:   points,
		rules:    rules,
		insights: insights,
		settings: settings.withDefaults(),
		log:      log.With("component", "Scheduler"),
		now:      now,
	}
}

// Start launches the loop. The first tick runs immediately.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("scheduler is already running")
	}
	s.stopCh = make(chan struct{})
	s.done = make(chan struct{})
	s.running = true

	s.log.Info("Scheduler started",
		"interval", s.settings.Interval,
		"revalidate_after", s.settings.RevalidateAfter,
		"purge_interval", s.settings.PurgeInterval,
		"concurrency", s.settings.Concurrency,
	)
	go s.run(s.stopCh, s.done)
	return nil
}

// Stop signals the loop and waits for the current tick to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	done := s.done
	s.mu.Unlock()

	select {
	case <-done:
		s.log.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-stop:
			cancel()
		case <-ctx.Done():
		}
	}()

	ticker := time.NewTicker(s.settings.Interval)
	defer ticker.Stop()

	for {
		s.safeTick(ctx)
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
	}
}

// safeTick keeps the loop alive across a panicking tick.
func (s *Scheduler) safeTick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Scheduler tick panicked", "panic", fmt.Sprint(r))
		}
	}()
	if _, err := s.Tick(ctx); err != nil && ctx.Err() == nil {
		s.log.Error("Scheduler tick failed", "error", err)
	}
}

// Tick runs one round: the expiration sweep, a detection pass for every active
// user, revalidation for every user with rules due, and the retention sweep when
// it is due. Each stage runs regardless of how the others went; per-user
// failures are logged and retried on a later tick.
func (s *Scheduler) Tick(ctx context.Context) (*TickResult, error) {
	now := s.now()
	result := &TickResult{}

	expired, err := s.insights.ExpireStale(ctx, uuid.Nil, now)
	if err != nil {
		return result, err
	}
	result.Expired = expired

	users, err := s.points.ListActiveUsers(ctx, now.Add(-s.settings.ActiveWindow))
	if err != nil {
		return result, err
	}
	result.Users = len(users)
	s.forEach(ctx, users, func(ctx context.Context, userID uuid.UUID) {
		err := s.pass(ctx, userID)
		s.mu.Lock()
		defer s.mu.Unlock()
		switch {
		case err == nil:
			result.Passes++
		case errors.Is(err, domain.ErrPassInProgress):
			result.Busy++
		default:
			result.Failed++
		}
	})

	due, err := s.rules.ListUsersDueForRevalidation(ctx, now.Add(-s.settings.RevalidateAfter))
	if err != nil {
		return result, err
	}
	s.forEach(ctx, due, func(ctx context.Context, userID uuid.UUID) {
		if _, err := s.engine.Revalidate(ctx, userID); err != nil {
			s.log.Warn("Revalidation failed", "user_id", userID, "error", err)
			return
		}
		s.mu.Lock()
		result.Revalidated++
		s.mu.Unlock()
	})

	if s.purgeDue(now) {
		if err := s.purge(ctx, now, result); err != nil {
			return result, err
		}
	}

	s.log.Info("Scheduler tick finished",
		"users", result.Users,
		"passes", result.Passes,
		"failed", result.Failed,
		"busy", result.Busy,
		"expired", result.Expired,
		"revalidated", result.Revalidated,
		"purged_points", result.PurgedPoints,
	)
	return result, ctx.Err()
}

// forEach runs fn for every user, at most Concurrency at a time, each bounded by PassTimeout.
func (s *Scheduler) forEach(ctx context.Context, users []uuid.UUID, fn func(context.Context, uuid.UUID)) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.settings.Concurrency)
	for _, userID := range users {
		g.Go(func() error {
			userCtx, cancel := context.WithTimeout(gctx, s.settings.PassTimeout)
			defer cancel()
			fn(userCtx, userID)
			return nil
		})
	}
	_ = g.Wait()
}

func (s *Scheduler) pass(ctx context.Context, userID uuid.UUID) error {
	_, err := s.engine.RunDetectionPass(ctx, userID)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrPassInProgress):
		s.log.Debug("Detection pass skipped, user busy", "user_id", userID)
	default:
		s.log.Warn("Detection pass failed", "user_id", userID, "error", err)
	}
	return err
}

// purge sweeps every user holding data older than the shortest allowed
// retention, active or not. The engine applies each user's own window. The
// sweep is marked done only when no user failed.
func (s *Scheduler) purge(ctx context.Context, now time.Time, result *TickResult) error {
	users, err := s.points.ListUsersWithDataBefore(ctx, now.AddDate(0, 0, -domain.MinRetentionDays))
	if err != nil {
		return err
	}

	failed := false
	s.forEach(ctx, users, func(ctx context.Context, userID uuid.UUID) {
		deleted, err := s.engine.Purge(ctx, userID)
		s.mu.Lock()
		defer s.mu.Unlock()
		if err != nil {
			s.log.Warn("Retention purge failed", "user_id", userID, "error", err)
			failed = true
			return
		}
		result.Purged++
		result.PurgedPoints += deleted
	})

	if !failed {
		s.mu.Lock()
		s.lastPurged = now
		s.mu.Unlock()
	}
	return nil
}

func (s *Scheduler) purgeDue(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastPurged.IsZero() || !now.Before(s.lastPurged.Add(s.settings.PurgeInterval))
}
