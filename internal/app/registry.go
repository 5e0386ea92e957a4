package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"trip_planner/internal/domain"
)

// Registry holds live sessions by ID. Drafts are mirrored to a DraftStore
// so an Idle session can be rebuilt after a restart or an eviction;
// itineraries are not.
type Registry struct {
	svc     domain.ItineraryService
	store   domain.DraftStore
	log     zerolog.Logger
	idleTTL time.Duration
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

type entry struct {
	s        *Session
	lastSeen time.Time
}

type RegistryOption func(*Registry)

// WithIdleTTL lets Sweep drop sessions untouched for longer than d.
// Zero keeps sessions until Delete.
func WithIdleTTL(d time.Duration) RegistryOption {
	return func(r *Registry) { r.idleTTL = d }
}

func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) { r.now = now }
}

func NewRegistry(svc domain.ItineraryService, store domain.DraftStore, log zerolog.Logger, opts ...RegistryOption) *Registry {
	if store == nil {
		store = NewMemoryDraftStore()
	}
	r := &Registry{svc: svc, store: store, log: log, now: time.Now, sessions: map[string]*entry{}}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Registry) newSession(id string, b *Builder) *Session {
	return NewSession(r.svc,
		WithBuilder(b),
		WithLogger(r.log.With().Str("session", id).Logger()),
	)
}

// Create starts a session with an empty draft and stores that draft.
func (r *Registry) Create(ctx context.Context) (string, *Session, error) {
	id := uuid.New().String()
	s := r.newSession(id, NewBuilder())

	r.mu.Lock()
	r.sessions[id] = &entry{s: s, lastSeen: r.now()}
	r.mu.Unlock()

	if err := r.store.Save(ctx, id, s.Builder().Draft()); err != nil {
		return id, s, fmt.Errorf("save draft %s: %w", id, err)
	}
	return id, s, nil
}

// Get returns the live session, or restores one from its stored draft.
func (r *Registry) Get(ctx context.Context, id string) (*Session, error) {
	r.mu.Lock()
	e, ok := r.sessions[id]
	if ok {
		e.lastSeen = r.now()
	}
	r.mu.Unlock()
	if ok {
		return e.s, nil
	}

	d, found, err := r.store.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load draft %s: %w", id, err)
	}
	if !found {
		return nil, domain.ErrSessionNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// another request may have restored it meanwhile
	if e, ok := r.sessions[id]; ok {
		e.lastSeen = r.now()
		return e.s, nil
	}
	s := r.newSession(id, NewBuilderFromDraft(d))
	r.sessions[id] = &entry{s: s, lastSeen: r.now()}
	r.log.Info().Str("session", id).Msg("session restored from draft")
	return s, nil
}

// Persist writes the session's current draft to the store.
func (r *Registry) Persist(ctx context.Context, id string) error {
	s, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	return r.store.Save(ctx, id, s.Builder().Draft())
}

func (r *Registry) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
	return r.store.Delete(ctx, id)
}

// History fetches trip history without needing a session.
func (r *Registry) History(ctx context.Context) ([]domain.Itinerary, error) {
	return r.svc.GetTripHistory(ctx)
}

// Trip fetches one stored itinerary by trip id, e.g. from a history entry.
func (r *Registry) Trip(ctx context.Context, tripID string) (domain.Itinerary, error) {
	return r.svc.GetTrip(ctx, tripID)
}

// Len is the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops sessions idle for longer than the idle TTL and returns how
// many went. Sessions with a call in flight stay. A dropped Idle session
// comes back from its stored draft on the next Get.
func (r *Registry) Sweep() int {
	if r.idleTTL <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.idleTTL)

	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, e := range r.sessions {
		if e.lastSeen.After(cutoff) || e.s.Loading() {
			continue
		}
		delete(r.sessions, id)
		n++
	}
	return n
}

// RunSweeper calls Sweep every interval until ctx is done.
func (r *Registry) RunSweeper(ctx context.Context, every time.Duration) {
	if r.idleTTL <= 0 || every <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := r.Sweep(); n > 0 {
				r.log.Debug().Int("evicted", n).Int("live", r.Len()).Msg("idle sessions swept")
			}
		}
	}
}

// MemoryDraftStore is the in-process DraftStore used without redis.
type MemoryDraftStore struct {
	mu     sync.Mutex
	drafts map[string]domain.Draft
}

func NewMemoryDraftStore() *MemoryDraftStore {
	return &MemoryDraftStore{drafts: map[string]domain.Draft{}}
}

func (m *MemoryDraftStore) Save(_ context.Context, id string, d domain.Draft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drafts[id] = copyDraft(d)
	return nil
}

func (m *MemoryDraftStore) Load(_ context.Context, id string) (domain.Draft, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drafts[id]
	if !ok {
		return domain.Draft{}, false, nil
	}
	return copyDraft(d), true, nil
}

func (m *MemoryDraftStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drafts, id)
	return nil
}
