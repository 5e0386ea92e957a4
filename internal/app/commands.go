package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"trip_planner/internal/domain"
)

// BatchService submits prepared drafts one session at a time.
type BatchService struct {
	svc domain.ItineraryService
	log zerolog.Logger
}

func NewBatchService(svc domain.ItineraryService, log zerolog.Logger) *BatchService {
	return &BatchService{svc: svc, log: log}
}

// DecodeDraft reads a draft document in the same shape the form produces.
func DecodeDraft(r io.Reader) (domain.Draft, error) {
	var d domain.Draft
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return domain.Draft{}, fmt.Errorf("decode draft: %w", err)
	}
	return d, nil
}

// SubmitDraft runs a draft through a fresh session and returns the
// generated itinerary. Failures carry the service message unchanged.
func (b *BatchService) SubmitDraft(ctx context.Context, name string, d domain.Draft) (domain.Itinerary, error) {
	s := NewSession(b.svc,
		WithBuilder(NewBuilderFromDraft(d)),
		WithLogger(b.log.With().Str("draft", name).Logger()),
	)
	it, err := s.Submit(ctx)
	if err != nil {
		return nil, err
	}
	return it, nil
}
