// internal/adapters/http_server/handlers.go
package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"trip_planner/internal/adapters/observability"
	"trip_planner/internal/app"
	"trip_planner/internal/domain"
	"trip_planner/internal/vocabulary"
)

type Handlers struct{ R *app.Registry }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type sessionView struct {
	ID        string           `json:"id"`
	Phase     app.Phase        `json:"phase"`
	Loading   bool             `json:"loading"`
	LastError string           `json:"last_error,omitempty"`
	Draft     domain.Draft     `json:"draft"`
	Itinerary domain.Itinerary `json:"itinerary,omitempty"`
}

type fieldUpdate struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/interests", h.listInterests)
	s.mux.Get("/v1/trip-history", h.tripHistory)
	s.mux.Get("/v1/trips/{tripId}", h.getTrip)

	s.mux.Route("/v1/sessions", func(r chi.Router) {
		r.Post("/", h.createSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getSession)
			r.Delete("/", h.deleteSession)
			r.Post("/travelers", h.addTraveler)
			r.Patch("/travelers/{index}", h.updateTraveler)
			r.Post("/travelers/{index}/interests", h.toggleInterest)
			r.Patch("/trip", h.updateTrip)
			r.Post("/submit", h.submit)
			r.Post("/modify", h.modify)
			r.Post("/new-trip", h.newTrip)
		})
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// writeErr maps session and service errors onto problem responses.
func writeErr(w http.ResponseWriter, err error) {
	var se *domain.ServiceError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "session not found")
	case errors.Is(err, domain.ErrSubmitInFlight):
		writeProblem(w, http.StatusConflict, "Busy", err.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		writeProblem(w, http.StatusConflict, "Invalid Transition", err.Error())
	case errors.Is(err, domain.ErrNoTripID):
		writeProblem(w, http.StatusUnprocessableEntity, "No Trip ID", err.Error())
	case errors.As(err, &se):
		writeProblem(w, http.StatusBadGateway, "Itinerary Service Error", se.Message)
	default:
		log.Error().Err(err).Msg("unexpected error")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return false
	}
	return true
}

func view(id string, s *app.Session) sessionView {
	v := sessionView{
		ID:        id,
		Phase:     s.State().Phase(),
		Loading:   s.Loading(),
		LastError: s.LastError(),
		Draft:     s.Builder().Draft(),
	}
	if it, ok := s.Itinerary(); ok {
		v.Itinerary = it
	}
	return v
}

func (h *Handlers) session(w http.ResponseWriter, r *http.Request) (string, *app.Session, bool) {
	id := chi.URLParam(r, "id")
	s, err := h.R.Get(r.Context(), id)
	if err != nil {
		writeErr(w, err)
		return id, nil, false
	}
	return id, s, true
}

func badIndex(w http.ResponseWriter) {
	writeProblem(w, http.StatusBadRequest, "Invalid Index", "no traveler at that index")
}

// travelerIndex parses {index}. Range is checked by the builder's Try
// methods, under the same lock as the edit.
func travelerIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || idx < 0 {
		badIndex(w)
		return 0, false
	}
	return idx, true
}

// persist mirrors the draft; failures are logged, not surfaced.
func (h *Handlers) persist(r *http.Request, id string) {
	if err := h.R.Persist(r.Context(), id); err != nil {
		log.Warn().Err(err).Str("session", id).Msg("persist draft failed")
	}
}

func (h *Handlers) listInterests(w http.ResponseWriter, r *http.Request) {
	type interest struct {
		Label string `json:"label"`
		Code  string `json:"code"`
	}
	labels, codes := vocabulary.Labels(), vocabulary.Codes()
	out := make([]interest, len(labels))
	for i := range labels {
		out[i] = interest{Label: labels[i], Code: codes[i]}
	}
	writeJSON(w, http.StatusOK, map[string]any{"interests": out})
}

func (h *Handlers) tripHistory(w http.ResponseWriter, r *http.Request) {
	trips, err := h.R.History(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"trips": trips})
}

func (h *Handlers) getTrip(w http.ResponseWriter, r *http.Request) {
	it, err := h.R.Trip(r.Context(), chi.URLParam(r, "tripId"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (h *Handlers) createSession(w http.ResponseWriter, r *http.Request) {
	id, s, err := h.R.Create(r.Context())
	if err != nil {
		// the session is live even if the draft could not be stored
		log.Warn().Err(err).Str("session", id).Msg("create session: draft not stored")
	}
	writeJSON(w, http.StatusCreated, view(id, s))
}

func (h *Handlers) getSession(w http.ResponseWriter, r *http.Request) {
	id, s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, view(id, s))
}

func (h *Handlers) deleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.R.Delete(r.Context(), id); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) addTraveler(w http.ResponseWriter, r *http.Request) {
	id, s, ok := h.session(w, r)
	if !ok {
		return
	}
	s.Builder().AddTraveler()
	h.persist(r, id)
	writeJSON(w, http.StatusOK, view(id, s))
}

func (h *Handlers) updateTraveler(w http.ResponseWriter, r *http.Request) {
	id, s, ok := h.session(w, r)
	if !ok {
		return
	}
	idx, ok := travelerIndex(w, r)
	if !ok {
		return
	}
	var in fieldUpdate
	if !decodeBody(w, r, &in) {
		return
	}
	field := domain.TravelerField(in.Field)
	if !field.Valid() {
		writeProblem(w, http.StatusBadRequest, "Invalid Field", "field must be name or age")
		return
	}
	if !s.Builder().TryUpdateTravelerField(idx, field, in.Value) {
		badIndex(w)
		return
	}
	h.persist(r, id)
	writeJSON(w, http.StatusOK, view(id, s))
}

func (h *Handlers) toggleInterest(w http.ResponseWriter, r *http.Request) {
	id, s, ok := h.session(w, r)
	if !ok {
		return
	}
	idx, ok := travelerIndex(w, r)
	if !ok {
		return
	}
	var in struct {
		Label string `json:"label"`
	}
	if !decodeBody(w, r, &in) {
		return
	}
	if in.Label == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid Label", "label is required")
		return
	}
	if !s.Builder().TryToggleInterest(idx, in.Label) {
		badIndex(w)
		return
	}
	h.persist(r, id)
	writeJSON(w, http.StatusOK, view(id, s))
}

func (h *Handlers) updateTrip(w http.ResponseWriter, r *http.Request) {
	id, s, ok := h.session(w, r)
	if !ok {
		return
	}
	var in fieldUpdate
	if !decodeBody(w, r, &in) {
		return
	}
	field := domain.TripField(in.Field)
	if !field.Valid() {
		writeProblem(w, http.StatusBadRequest, "Invalid Field",
			"field must be destination, date_of_arrival, date_of_departure or budget")
		return
	}
	s.Builder().UpdateTripField(field, in.Value)
	h.persist(r, id)
	writeJSON(w, http.StatusOK, view(id, s))
}

func (h *Handlers) submit(w http.ResponseWriter, r *http.Request) {
	id, s, ok := h.session(w, r)
	if !ok {
		return
	}
	if _, err := s.Submit(r.Context()); err != nil {
		var se *domain.ServiceError
		if errors.As(err, &se) {
			observability.ObserveSubmission("failed")
			log.Info().Str("session", id).Int("status", se.Status).Str("msg", se.Message).Msg("generate failed")
		} else {
			observability.ObserveSubmission("rejected")
		}
		writeErr(w, err)
		return
	}
	observability.ObserveSubmission("ok")
	writeJSON(w, http.StatusOK, view(id, s))
}

func (h *Handlers) modify(w http.ResponseWriter, r *http.Request) {
	id, s, ok := h.session(w, r)
	if !ok {
		return
	}
	var in struct {
		ModificationRequest string `json:"modification_request"`
	}
	if !decodeBody(w, r, &in) {
		return
	}
	if _, err := s.Modify(r.Context(), in.ModificationRequest); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view(id, s))
}

func (h *Handlers) newTrip(w http.ResponseWriter, r *http.Request) {
	id, s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.NewTrip(); err != nil {
		writeErr(w, err)
		return
	}
	h.persist(r, id)
	writeJSON(w, http.StatusOK, view(id, s))
}
