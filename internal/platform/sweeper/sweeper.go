// Package sweeper runs the recurring hold-expiry sweep. It is the safety net
// behind the durable per-hold timers: any hold whose timer was lost still
// expires within one sweep interval of its TTL.
package sweeper

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// DefaultInterval is how often the sweep runs when not configured.
const DefaultInterval = time.Minute

// ExpireFunc expires every due hold and returns how many were expired.
type ExpireFunc func(ctx context.Context) (int, error)

// Sweeper owns the gocron scheduler driving the sweep.
type Sweeper struct {
	scheduler gocron.Scheduler
	expire    ExpireFunc
	interval  time.Duration
	logger    *slog.Logger
}

// Option customizes the sweeper.
type Option func(*Sweeper)

// WithInterval overrides the sweep interval.
func WithInterval(interval time.Duration) Option {
	return func(s *Sweeper) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sweeper) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New builds a sweeper around the expiry function.
func New(expire ExpireFunc, opts ...Option) (*Sweeper, error) {
	s := &Sweeper{
		expire:   expire,
		interval: DefaultInterval,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	s.scheduler = scheduler
	return s, nil
}

// Start registers the recurring job and begins sweeping.
func (s *Sweeper) Start(ctx context.Context) error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() { s.run(ctx) }),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}
	s.scheduler.Start()
	s.logger.Info("hold sweeper started", slog.Duration("interval", s.interval))
	return nil
}

// Stop shuts the scheduler down, waiting for a running sweep to finish.
func (s *Sweeper) Stop() error {
	return s.scheduler.Shutdown()
}

func (s *Sweeper) run(ctx context.Context) {
	expired, err := s.expire(ctx)
	if err != nil {
		s.logger.Warn("hold sweep finished with errors",
			slog.Int("expired", expired), slog.String("error", err.Error()))
		return
	}
	if expired > 0 {
		s.logger.Info("hold sweep expired holds", slog.Int("expired", expired))
	}
}
