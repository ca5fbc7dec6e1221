// Package engine orchestrates a user request across the calculator, the
// history store, the footprint predictor, the trend forecaster and the
// recommendation engine.
package engine

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/rshade/ecofocus/internal/calculator"
	"github.com/rshade/ecofocus/internal/history"
	"github.com/rshade/ecofocus/internal/predictor"
	"github.com/rshade/ecofocus/internal/recommend"
	"github.com/rshade/ecofocus/internal/synth"
)

// HistoryStore is the persistence the engine needs. *history.Store
// implements it.
type HistoryStore interface {
	GetHistory(ctx context.Context, userID int64, days int) ([]calculator.DailyRecord, error)
	SaveDailyFootprint(ctx context.Context, userID int64, date time.Time, b calculator.Breakdown) error
	GetGoals(ctx context.Context, userID int64) ([]history.Goal, error)
}

// Engine defaults.
const (
	DefaultHistoryDays  = 30
	DefaultForecastDays = 7
	DefaultTrainingRows = 1000
)

// Config tunes the engine. Zero values select the defaults.
type Config struct {
	HistoryDays  int
	ForecastDays int
	PlanWeeks    int
	CarbonPrice  float64
	Variant      predictor.Variant
	TrainingRows int
	SynthSeed    uint64
	Train        predictor.TrainOptions
}

func (c Config) withDefaults() Config {
	if c.HistoryDays <= 0 {
		c.HistoryDays = DefaultHistoryDays
	}
	if c.ForecastDays <= 0 {
		c.ForecastDays = DefaultForecastDays
	}
	if c.PlanWeeks <= 0 {
		c.PlanWeeks = recommend.DefaultPlanWeeks
	}
	if c.CarbonPrice <= 0 {
		c.CarbonPrice = recommend.DefaultCarbonPrice
	}
	if c.Variant == "" {
		c.Variant = predictor.DefaultVariant
	}
	if c.TrainingRows <= 0 {
		c.TrainingRows = DefaultTrainingRows
	}
	if c.SynthSeed == 0 {
		c.SynthSeed = synth.DefaultSeed
	}
	return c
}

// Engine serves footprint requests for users of one history store.
type Engine struct {
	store  HistoryStore
	models *predictor.ModelStore
	rng    *rand.Rand
	cfg    Config
	now    func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand makes forecasts reproducible. Without it forecasts draw from a
// process-seeded generator.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New returns an engine. A nil models store gets a private one.
func New(store HistoryStore, models *predictor.ModelStore, cfg Config, opts ...Option) *Engine {
	if models == nil {
		models = predictor.NewModelStore()
	}
	e := &Engine{
		store:  store,
		models: models,
		cfg:    cfg.withDefaults(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the effective configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Models returns the model store shared by the engine.
func (e *Engine) Models() *predictor.ModelStore {
	return e.models
}
