package domain

import "context"

type ItineraryService interface {
	GenerateItinerary(ctx context.Context, req Submission) (Itinerary, error)
	ModifyItinerary(ctx context.Context, tripID, modificationRequest string) (Itinerary, error)
	GetTripHistory(ctx context.Context) ([]Itinerary, error)
	GetTrip(ctx context.Context, tripID string) (Itinerary, error)
}

// DraftStore keeps in-progress drafts across process restarts.
type DraftStore interface {
	Save(ctx context.Context, sessionID string, d Draft) error
	Load(ctx context.Context, sessionID string) (Draft, bool, error)
	Delete(ctx context.Context, sessionID string) error
}
