package app

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"shift-scheduler/demo"
	"shift-scheduler/models"
	"shift-scheduler/parser"
	"shift-scheduler/scheduler"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate go run go.uber.org/mock/mockgen -source=app.go -destination=../mocks/app_mock.go -package=mocks

// RunStore persists finished runs.
type RunStore interface {
	SaveRun(ctx context.Context, run *models.Run) error
}

// Publisher announces a finished schedule.
type Publisher interface {
	Publish(ctx context.Context, schedule *models.WeeklySchedule) error
}

// Request describes one scheduling run.
type Request struct {
	// Input is a roster file; empty with Demo set uses the sample roster.
	Input  string
	Demo   bool
	Seed   uint64
	// Limits left at the zero value mean models.DefaultLimits.
	Limits models.Limits
}

// Runner resolves a roster, builds its schedule and hands the result to the
// optional store and publisher.
type Runner struct {
	store     RunStore
	publisher Publisher
	logger    *zap.Logger
	now       func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithStore saves every run.
func WithStore(store RunStore) Option {
	return func(r *Runner) { r.store = store }
}

// WithPublisher publishes every run.
func WithPublisher(publisher Publisher) Option {
	return func(r *Runner) { r.publisher = publisher }
}

// WithLogger sets the logger passed down to the scheduler.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithClock overrides the run timestamp source.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run builds one schedule. A publish failure is logged and does not fail
// the run; a store failure does.
func (r *Runner) Run(ctx context.Context, req Request) (*models.Run, error) {
	roster, err := r.roster(req)
	if err != nil {
		return nil, err
	}

	limits := req.Limits
	if limits == (models.Limits{}) {
		limits = models.DefaultLimits()
	}
	if err := validator.New().Struct(limits); err != nil {
		return nil, fmt.Errorf("invalid limits: %w", err)
	}

	seed := req.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	s := scheduler.New(scheduler.NewSource(seed),
		scheduler.WithLimits(limits),
		scheduler.WithLogger(r.logger),
	)
	schedule, err := s.Build(roster.Preferences, roster.PriorityOrders)
	if err != nil {
		return nil, err
	}

	run := &models.Run{
		ID:        uuid.NewString(),
		Seed:      seed,
		CreatedAt: r.now().UTC(),
		Schedule:  schedule,
	}
	logger := r.logger.With(zap.String("run_id", run.ID), zap.Uint64("seed", seed))

	if r.store != nil {
		if err := r.store.SaveRun(ctx, run); err != nil {
			return nil, fmt.Errorf("failed to save run: %w", err)
		}
		logger.Debug("run saved")
	}

	if r.publisher != nil {
		if err := r.publisher.Publish(ctx, schedule); err != nil {
			logger.Warn("failed to publish schedule", zap.Error(err))
		}
	}

	return run, nil
}

func (r *Runner) roster(req Request) (models.Roster, error) {
	if req.Input == "" {
		if !req.Demo {
			return models.Roster{}, fmt.Errorf("no roster input given")
		}
		r.logger.Info("using demo roster")
		return demo.Roster(), nil
	}

	roster, err := parser.ParseFile(req.Input)
	if err != nil {
		return models.Roster{}, fmt.Errorf("error parsing %s: %w", req.Input, err)
	}
	return roster, nil
}
