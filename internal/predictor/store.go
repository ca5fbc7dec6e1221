package predictor

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/rshade/ecofocus/internal/logging"
)

// DatasetSource supplies training data on demand.
type DatasetSource func(ctx context.Context) (Dataset, error)

// BundleCache persists trained bundles between processes.
type BundleCache interface {
	// LoadBundle returns the saved bundle and its report, or an error when
	// nothing usable is saved.
	LoadBundle(ctx context.Context) (*Bundle, Report, error)
	SaveBundle(ctx context.Context, b *Bundle, r Report) error
}

// ModelStore owns the current Bundle. Readers never observe a partially
// trained bundle: Train builds a new one and swaps it in under the lock.
type ModelStore struct {
	mu      sync.RWMutex
	current *Bundle
	report  Report
	group   singleflight.Group
	cache   BundleCache
}

// StoreOption configures a ModelStore.
type StoreOption func(*ModelStore)

// WithBundleCache makes EnsureTrained reuse saved bundles and every
// training run save its result.
func WithBundleCache(c BundleCache) StoreOption {
	return func(s *ModelStore) { s.cache = c }
}

// NewModelStore returns an empty store.
func NewModelStore(opts ...StoreOption) *ModelStore {
	s := &ModelStore{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current returns the published bundle, or nil before the first training.
func (s *ModelStore) Current() *Bundle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Report returns the report of the published bundle.
func (s *ModelStore) Report() (Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report, s.current != nil
}

// Train fits a new bundle and publishes it. On error the current bundle stays.
// With a bundle cache the new bundle is saved as well; a failed save is
// logged and does not fail training.
func (s *ModelStore) Train(ctx context.Context, ds Dataset, opts TrainOptions) (*Bundle, Report, error) {
	b, r, err := Train(ctx, ds, opts)
	if err != nil {
		return nil, Report{}, err
	}
	s.publish(b, r)
	if s.cache != nil {
		if err = s.cache.SaveBundle(ctx, b, r); err != nil {
			logging.FromContext(ctx).Warn().
				Str("component", "predictor").
				Err(err).
				Msg("could not save model bundle")
		}
	}
	return b, r, nil
}

func (s *ModelStore) publish(b *Bundle, r Report) {
	s.mu.Lock()
	s.current, s.report = b, r
	s.mu.Unlock()
}

// EnsureTrained returns the current bundle. When none is published it loads
// the saved one from the bundle cache, or trains one from source.
// Concurrent callers share a single load or training run.
//
// Training here skips cross-validation, which only feeds the training report.
func (s *ModelStore) EnsureTrained(ctx context.Context, source DatasetSource, opts TrainOptions) (*Bundle, error) {
	if b := s.Current(); b != nil {
		return b, nil
	}
	v, err, shared := s.group.Do("train", func() (any, error) {
		if b := s.Current(); b != nil {
			return b, nil
		}
		if b, ok := s.loadCached(ctx); ok {
			return b, nil
		}
		ds, err := source(ctx)
		if err != nil {
			return nil, err
		}
		opts.CVFolds = -1
		b, _, err := s.Train(ctx, ds, opts)
		return b, err
	})
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Debug().
		Str("component", "predictor").
		Str("operation", "EnsureTrained").
		Bool("shared", shared).
		Msg("model bundle ready")
	return v.(*Bundle), nil
}

// loadCached publishes the bundle cache entry, if there is a usable one.
func (s *ModelStore) loadCached(ctx context.Context) (*Bundle, bool) {
	if s.cache == nil {
		return nil, false
	}
	logger := logging.FromContext(ctx).With().
		Str("component", "predictor").
		Str("operation", "EnsureTrained").
		Logger()
	b, r, err := s.cache.LoadBundle(ctx)
	if err != nil {
		logger.Debug().Err(err).Msg("model bundle cache miss")
		return nil, false
	}
	if !b.Ready() {
		logger.Debug().Msg("cached model bundle is incomplete")
		return nil, false
	}
	s.publish(b, r)
	logger.Debug().Str("bundle_id", b.ID.String()).Msg("model bundle loaded from cache")
	return b, true
}

// Predict runs the current bundle. It fails with ErrNotTrained before training.
func (s *ModelStore) Predict(f FeatureVector, v Variant) (float64, error) {
	return s.Current().Predict(f, v)
}

// FeatureImportance queries the current bundle.
func (s *ModelStore) FeatureImportance(v Variant) ([]FeatureImportance, error) {
	return s.Current().FeatureImportance(v)
}
