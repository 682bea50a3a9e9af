package dataset

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// LoadHook is called after every successful load
type LoadHook func(ctx context.Context, ds *Dataset, took time.Duration)

// Store caches the current dataset snapshot for the whole process.
// Readers get an immutable snapshot; loads are serialized and swapped in atomically.
type Store struct {
	path    string
	opts    Options
	logger  *zap.Logger
	current atomic.Pointer[Dataset]
	mu      sync.Mutex
	hooks   []LoadHook
}

// NewStore creates a store for the file at path. Nothing is read until the first Get.
func NewStore(path string, opts Options, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		path:   path,
		opts:   opts,
		logger: logger,
	}
}

// OnLoad registers a hook run after each successful load
func (s *Store) OnLoad(hook LoadHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, hook)
}

// Path returns the source file path
func (s *Store) Path() string {
	return s.path
}

// Current returns the loaded snapshot, or nil when nothing has loaded yet
func (s *Store) Current() *Dataset {
	return s.current.Load()
}

// Get returns the current snapshot, loading it on first use.
// A failed load is not cached; the next call tries again.
func (s *Store) Get(ctx context.Context) (*Dataset, error) {
	if ds := s.current.Load(); ds != nil {
		return ds, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// another caller may have loaded while we waited
	if ds := s.current.Load(); ds != nil {
		return ds, nil
	}
	return s.loadLocked(ctx)
}

// Reload reads the file again and swaps the snapshot in.
// On failure the previous snapshot stays in place.
func (s *Store) Reload(ctx context.Context) (*Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *Store) loadLocked(ctx context.Context) (*Dataset, error) {
	start := time.Now()
	ds, err := Load(ctx, s.path, s.opts)
	if err != nil {
		s.logger.Error("Failed to load dataset",
			zap.String("path", s.path),
			zap.Error(err),
		)
		return nil, &LoadError{Path: s.path, Err: err}
	}
	took := time.Since(start)

	s.current.Store(ds)
	s.logger.Info("Dataset loaded",
		zap.String("path", s.path),
		zap.Int("rows", ds.Len()),
		zap.Bool("has_coordinates", ds.HasCoordinates),
		zap.Duration("took", took),
	)

	for _, hook := range s.hooks {
		hook(ctx, ds, took)
	}
	return ds, nil
}
