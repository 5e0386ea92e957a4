package app

import (
	"fmt"
	"sync"

	"trip_planner/internal/domain"
)

// Builder owns the mutable trip draft. Index and field arguments are
// trusted: an invalid one is a caller bug and panics.
type Builder struct {
	mu    sync.Mutex
	draft domain.Draft
}

func NewBuilder() *Builder {
	b := &Builder{}
	b.reset()
	return b
}

// NewBuilderFromDraft restores a builder from a saved draft.
func NewBuilderFromDraft(d domain.Draft) *Builder {
	b := &Builder{draft: copyDraft(d)}
	if len(b.draft.Travelers) == 0 {
		b.draft.Travelers = []domain.Traveler{blankTraveler()}
	}
	return b
}

func blankTraveler() domain.Traveler {
	return domain.Traveler{Interests: []string{}}
}

func (b *Builder) reset() {
	b.draft = domain.Draft{Travelers: []domain.Traveler{blankTraveler()}}
}

// Reset discards the draft and starts over with one blank traveler.
func (b *Builder) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reset()
}

func (b *Builder) AddTraveler() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.draft.Travelers = append(b.draft.Travelers, blankTraveler())
}

func (b *Builder) TravelerCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.draft.Travelers)
}

func (b *Builder) travelerAt(index int) (*domain.Traveler, bool) {
	if index < 0 || index >= len(b.draft.Travelers) {
		return nil, false
	}
	return &b.draft.Travelers[index], true
}

func (b *Builder) traveler(index int) *domain.Traveler {
	t, ok := b.travelerAt(index)
	if !ok {
		panic(fmt.Sprintf("app: traveler index %d out of range [0,%d)", index, len(b.draft.Travelers)))
	}
	return t
}

func setTravelerField(t *domain.Traveler, field domain.TravelerField, value string) {
	switch field {
	case domain.TravelerName:
		t.Name = value
	case domain.TravelerAge:
		t.Age = value
	default:
		panic(fmt.Sprintf("app: unknown traveler field %q", field))
	}
}

func toggle(t *domain.Traveler, label string) {
	for i, v := range t.Interests {
		if v == label {
			t.Interests = append(t.Interests[:i:i], t.Interests[i+1:]...)
			return
		}
	}
	t.Interests = append(t.Interests, label)
}

func (b *Builder) UpdateTravelerField(index int, field domain.TravelerField, value string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	setTravelerField(b.traveler(index), field, value)
}

// TryUpdateTravelerField is UpdateTravelerField for untrusted indexes:
// it reports false instead of panicking when no traveler is at index.
// The check and the write share one lock, so a concurrent Reset cannot
// slip between them.
func (b *Builder) TryUpdateTravelerField(index int, field domain.TravelerField, value string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.travelerAt(index)
	if !ok {
		return false
	}
	setTravelerField(t, field, value)
	return true
}

// SetInterests replaces the interest set of one traveler.
func (b *Builder) SetInterests(index int, labels []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.traveler(index).Interests = dedupe(labels)
}

// ToggleInterest removes label if present, adds it otherwise.
func (b *Builder) ToggleInterest(index int, label string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	toggle(b.traveler(index), label)
}

// TryToggleInterest reports false when no traveler is at index.
func (b *Builder) TryToggleInterest(index int, label string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.travelerAt(index)
	if !ok {
		return false
	}
	toggle(t, label)
	return true
}

func (b *Builder) UpdateTripField(field domain.TripField, value string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch field {
	case domain.TripDestination:
		b.draft.Destination = value
	case domain.TripDateOfArrival:
		b.draft.DateOfArrival = value
	case domain.TripDateOfDeparture:
		b.draft.DateOfDeparture = value
	case domain.TripBudget:
		b.draft.Budget = value
	default:
		panic(fmt.Sprintf("app: unknown trip field %q", field))
	}
}

// Draft returns a copy of the current draft.
func (b *Builder) Draft() domain.Draft {
	b.mu.Lock()
	defer b.mu.Unlock()
	return copyDraft(b.draft)
}

// BuildSubmission normalizes the draft into a snapshot that shares no
// memory with it. Nothing is validated here; the service is the authority.
func (b *Builder) BuildSubmission() domain.Submission {
	b.mu.Lock()
	defer b.mu.Unlock()
	return mapSubmission(b.draft)
}
