package profile

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/maxiguillermo1/senior-project/internal/metrics"
	"github.com/maxiguillermo1/senior-project/internal/models"
	"github.com/maxiguillermo1/senior-project/internal/store"
)

// ErrUnauthenticated is returned when Start is called without a user id; no
// subscription is opened and the view model stays at its initial state.
var ErrUnauthenticated = errors.New("no authenticated user")

const (
	usersCollection       = "users"
	decorationsCollection = "avatar-decorations"

	decorationFetchTimeout = 5 * time.Second
)

// Synchronizer owns exactly one live subscription to a user document and
// republishes a consolidated ProfileViewModel on every change. Snapshots are
// processed in delivery order; the last-delivered snapshot's view model is
// authoritative and fully replaces the prior one. After Stop, a late
// callback racing the cancellation is discarded rather than applied.
type Synchronizer struct {
	store   store.DocumentStore
	builder *Builder
	logger  *zap.SugaredLogger

	mu      sync.Mutex
	watcher store.Watcher
	current *models.ProfileViewModel
	started bool
	stopped bool
	closed  bool

	updates chan *models.ProfileViewModel
	done    chan struct{}

	borderMu    sync.Mutex
	borderCache map[string]string
	borderBusy  map[string]bool
}

func NewSynchronizer(docs store.DocumentStore, logger *zap.SugaredLogger) *Synchronizer {
	return &Synchronizer{
		store:       docs,
		builder:     NewBuilder(logger),
		logger:      logger,
		updates:     make(chan *models.ProfileViewModel, 1),
		done:        make(chan struct{}),
		borderCache: make(map[string]string),
		borderBusy:  make(map[string]bool),
	}
}

// Start opens the document subscription for userID. It fails with
// ErrUnauthenticated when userID is empty.
func (s *Synchronizer) Start(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrUnauthenticated
	}

	s.mu.Lock()
	if s.started || s.stopped {
		s.mu.Unlock()
		return errors.New("synchronizer already used")
	}
	s.started = true
	s.mu.Unlock()

	w, err := s.store.Watch(ctx, usersCollection+"/"+userID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		w.Stop()
		return nil
	}
	s.watcher = w
	s.mu.Unlock()

	metrics.ActiveSubscriptions.Inc()
	go s.run(w)
	return nil
}

func (s *Synchronizer) run(w store.Watcher) {
	defer metrics.ActiveSubscriptions.Dec()
	defer close(s.done)
	defer func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		close(s.updates)
	}()

	for snap := range w.Snapshots() {
		vm := s.builder.Build(snap)
		s.decorate(vm)
		s.apply(vm)
	}

	if err := w.Err(); err != nil {
		// Transport failure: keep the last-known-good view model in place.
		s.logger.Errorw("profile subscription error", "error", err)
	}
}

// apply installs vm as the authoritative view model unless the subscription
// was cancelled while the snapshot was in flight.
func (s *Synchronizer) apply(vm *models.ProfileViewModel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.current = vm
	s.publishLocked(vm)
}

// publishLocked performs a latest-wins, non-blocking send. Caller holds s.mu.
func (s *Synchronizer) publishLocked(vm *models.ProfileViewModel) {
	if s.closed {
		return
	}
	for {
		select {
		case s.updates <- vm:
			return
		default:
		}
		select {
		case <-s.updates:
		default:
		}
	}
}

// Stop cancels the subscription. No view model is applied after Stop returns,
// even if a snapshot was already in flight.
func (s *Synchronizer) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	w := s.watcher
	s.mu.Unlock()

	if w != nil {
		w.Stop()
	}
}

// Current returns the latest applied view model, or nil before the first
// snapshot arrives.
func (s *Synchronizer) Current() *models.ProfileViewModel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Updates yields consolidated view models as they are rebuilt. The channel
// is closed once the subscription ends.
func (s *Synchronizer) Updates() <-chan *models.ProfileViewModel {
	return s.updates
}

// Done is closed when the subscription goroutine has fully exited.
func (s *Synchronizer) Done() <-chan struct{} {
	return s.done
}

// decorate resolves the AnimatedBorder asset key to its download URL. Cache
// hits are applied inline; a miss triggers a one-shot read off the snapshot
// path so the primary subscription stream is never blocked on it.
func (s *Synchronizer) decorate(vm *models.ProfileViewModel) {
	if vm == nil || vm.AnimatedBorder == "" {
		return
	}
	key := vm.AnimatedBorder

	s.borderMu.Lock()
	if url, ok := s.borderCache[key]; ok {
		s.borderMu.Unlock()
		vm.BorderAssetURL = url
		return
	}
	if s.borderBusy[key] {
		s.borderMu.Unlock()
		return
	}
	s.borderBusy[key] = true
	s.borderMu.Unlock()

	go s.fetchDecoration(key)
}

func (s *Synchronizer) fetchDecoration(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), decorationFetchTimeout)
	defer cancel()

	snap, err := s.store.Get(ctx, decorationsCollection+"/"+key)

	s.borderMu.Lock()
	delete(s.borderBusy, key)
	if err != nil {
		s.borderMu.Unlock()
		s.logger.Debugw("decoration asset lookup failed", "key", key, "error", err)
		return
	}
	url := snap.String("assetUrl")
	s.borderCache[key] = url
	s.borderMu.Unlock()

	// Re-publish only if the resolved key is still what the latest snapshot
	// asked for and the subscription is still live.
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || s.current == nil {
		return
	}
	if s.current.AnimatedBorder != key || s.current.BorderAssetURL != "" {
		return
	}
	decorated := *s.current
	decorated.BorderAssetURL = url
	s.current = &decorated
	s.publishLocked(&decorated)
}
