package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"trip_planner/internal/domain"
)

type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSubmitting Phase = "submitting"
	PhaseViewing    Phase = "viewing"
)

// State is one of Idle, Submitting or Viewing.
type State interface {
	Phase() Phase
}

// Idle: no itinerary; the builder is the active view.
type Idle struct{}

// Submitting: a generate call for Snapshot is in flight.
type Submitting struct{ Snapshot domain.Submission }

// Viewing: an itinerary is held.
type Viewing struct{ Itinerary domain.Itinerary }

func (Idle) Phase() Phase       { return PhaseIdle }
func (Submitting) Phase() Phase { return PhaseSubmitting }
func (Viewing) Phase() Phase    { return PhaseViewing }

// Session coordinates builder output, the itinerary service and the held
// itinerary. At most one remote call is in flight per session.
type Session struct {
	svc     domain.ItineraryService
	builder *Builder
	log     zerolog.Logger

	mu        sync.Mutex
	state     State
	modifying bool
	lastErr   string
}

type SessionOption func(*Session)

func WithLogger(l zerolog.Logger) SessionOption {
	return func(s *Session) { s.log = l }
}

// WithBuilder starts the session from an existing builder, e.g. a restored draft.
func WithBuilder(b *Builder) SessionOption {
	return func(s *Session) { s.builder = b }
}

func NewSession(svc domain.ItineraryService, opts ...SessionOption) *Session {
	s := &Session{svc: svc, log: zerolog.Nop(), state: Idle{}}
	for _, o := range opts {
		o(s)
	}
	if s.builder == nil {
		s.builder = NewBuilder()
	}
	return s
}

// Builder is the draft editor; it stays usable in every state.
func (s *Session) Builder() *Builder { return s.builder }

// State returns the current state. A Viewing state carries a copy of the
// itinerary, like Itinerary.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.state.(Viewing); ok {
		return Viewing{Itinerary: v.Itinerary.Clone()}
	}
	return s.state
}

// Loading is true while a generate or modify call is in flight.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Phase() == PhaseSubmitting || s.modifying
}

// LastError is the message of the most recent failed call, "" after a success.
func (s *Session) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Itinerary returns a copy of the held itinerary, if any.
func (s *Session) Itinerary() (domain.Itinerary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.state.(Viewing); ok {
		return v.Itinerary.Clone(), true
	}
	return nil, false
}

func (s *Session) transition(to State) {
	s.log.Debug().Str("from", string(s.state.Phase())).Str("to", string(to.Phase())).Msg("session transition")
	s.state = to
}

// Submit snapshots the draft and asks the service for an itinerary.
// On failure the session returns to Idle with the draft untouched.
func (s *Session) Submit(ctx context.Context) (domain.Itinerary, error) {
	s.mu.Lock()
	switch s.state.(type) {
	case Submitting:
		s.mu.Unlock()
		return nil, domain.ErrSubmitInFlight
	case Viewing:
		s.mu.Unlock()
		return nil, domain.ErrInvalidTransition
	}
	snap := s.builder.BuildSubmission()
	s.transition(Submitting{Snapshot: snap})
	s.mu.Unlock()

	it, err := s.svc.GenerateItinerary(ctx, snap)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = err.Error()
		s.log.Debug().Err(err).Msg("generate failed")
		s.transition(Idle{})
		return nil, err
	}
	s.lastErr = ""
	s.transition(Viewing{Itinerary: it})
	return it, nil
}

// Modify applies a free-text change to the held itinerary.
func (s *Session) Modify(ctx context.Context, request string) (domain.Itinerary, error) {
	s.mu.Lock()
	v, ok := s.state.(Viewing)
	if !ok {
		s.mu.Unlock()
		return nil, domain.ErrInvalidTransition
	}
	if s.modifying {
		s.mu.Unlock()
		return nil, domain.ErrSubmitInFlight
	}
	tripID := v.Itinerary.TripID()
	if tripID == "" {
		s.mu.Unlock()
		return nil, domain.ErrNoTripID
	}
	s.modifying = true
	s.mu.Unlock()

	it, err := s.svc.ModifyItinerary(ctx, tripID, request)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.modifying = false
	if err != nil {
		s.lastErr = err.Error()
		return nil, err
	}
	// NewTrip is refused while modifying, so the state is still Viewing.
	s.lastErr = ""
	s.transition(Viewing{Itinerary: it})
	return it, nil
}

// NewTrip drops the held itinerary and starts a fresh draft.
func (s *Session) NewTrip() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.modifying {
		return domain.ErrSubmitInFlight
	}
	if _, ok := s.state.(Viewing); !ok {
		return domain.ErrInvalidTransition
	}
	s.builder.Reset()
	s.lastErr = ""
	s.transition(Idle{})
	return nil
}

// History is a pass-through to the service.
func (s *Session) History(ctx context.Context) ([]domain.Itinerary, error) {
	return s.svc.GetTripHistory(ctx)
}
