package cli

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rshade/ecofocus/internal/config"
	"github.com/rshade/ecofocus/internal/engine"
	"github.com/rshade/ecofocus/internal/engine/cache"
	"github.com/rshade/ecofocus/internal/history"
	"github.com/rshade/ecofocus/internal/predictor"
)

// session is the per-command view of the history store and engine.
type session struct {
	store  *history.Store
	engine *engine.Engine
	cfg    *config.Config
	userID int64
}

// openSession opens the configured history database and builds an engine
// over it. forecastSeed overrides the configured forecast seed when non-zero.
// The caller must Close the session.
func openSession(cmd *cobra.Command, forecastSeed uint64) (*session, error) {
	ctx := cmd.Context()
	cfg := config.GetGlobalConfig()

	store, err := history.Open(ctx, cfg.Storage.Database)
	if err != nil {
		return nil, err
	}
	eng, err := newEngine(store, cfg, forecastSeed)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	userID, _ := cmd.Flags().GetInt64("user")

	logger.Debug().Ctx(ctx).
		Str("database", cfg.Storage.Database).
		Int64("user_id", userID).
		Msg("session opened")
	return &session{store: store, engine: eng, cfg: cfg, userID: userID}, nil
}

// Close releases the history database.
func (s *session) Close() error {
	return s.store.Close()
}

// requireUser fails with a hint when the session user does not exist.
func (s *session) requireUser(ctx context.Context) (history.User, error) {
	u, err := s.store.GetUser(ctx, s.userID)
	if errors.Is(err, history.ErrNotFound) {
		return history.User{}, fmt.Errorf(
			"user %d not found: create one with 'ecofocus user add' or 'ecofocus history seed-demo'", s.userID)
	}
	return u, err
}

// engineConfig maps the configuration file onto engine settings.
func engineConfig(cfg *config.Config) (engine.Config, error) {
	variant, err := predictor.ParseVariant(cfg.Model.Variant)
	if err != nil {
		return engine.Config{}, fmt.Errorf("model.variant: %w", err)
	}
	return engine.Config{
		HistoryDays:  cfg.Analysis.HistoryDays,
		ForecastDays: cfg.Forecast.Days,
		PlanWeeks:    cfg.Analysis.PlanWeeks,
		CarbonPrice:  cfg.Analysis.CarbonPrice,
		Variant:      variant,
		TrainingRows: cfg.Model.TrainingRows,
		SynthSeed:    cfg.Model.Seed,
		Train: predictor.TrainOptions{
			Seed:       cfg.Model.Seed,
			CVFolds:    cfg.Model.CVFolds,
			Estimators: cfg.Model.Estimators,
		},
	}, nil
}

// newEngine builds an engine for store. A zero forecast seed (flag and
// config) leaves forecasts stochastic.
func newEngine(store engine.HistoryStore, cfg *config.Config, forecastSeed uint64) (*engine.Engine, error) {
	ecfg, err := engineConfig(cfg)
	if err != nil {
		return nil, err
	}
	if forecastSeed == 0 {
		forecastSeed = cfg.Forecast.Seed
	}
	var opts []engine.Option
	if forecastSeed != 0 {
		opts = append(opts, engine.WithRand(rand.New(rand.NewPCG(forecastSeed, forecastSeed))))
	}
	return engine.New(store, newModelStore(cfg), ecfg, opts...), nil
}

// newModelStore returns a model store that reuses bundles saved in the cache
// directory. Without a usable cache directory models are trained per process.
func newModelStore(cfg *config.Config) *predictor.ModelStore {
	store, err := cache.NewFileStore(cfg.Storage.CacheDir, cfg.ReportTTL())
	if err != nil {
		logger.Warn().Err(err).Msg("model bundle cache disabled")
		return predictor.NewModelStore()
	}
	return predictor.NewModelStore(
		predictor.WithBundleCache(engine.NewFileBundleCache(store, bundleCacheKey(cfg))),
	)
}

// bundleCacheKey identifies a saved bundle by the settings that shape the
// fitted models.
func bundleCacheKey(cfg *config.Config) string {
	return cache.Key(
		"model-bundle",
		strconv.Itoa(predictor.SnapshotFormat),
		strconv.FormatUint(cfg.Model.Seed, 10),
		strconv.Itoa(cfg.Model.TrainingRows),
		strconv.Itoa(cfg.Model.Estimators),
	)
}
