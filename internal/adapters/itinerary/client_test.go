package itinerary_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"trip_planner/internal/adapters/itinerary"
	"trip_planner/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func newClient(t *testing.T, h http.HandlerFunc) *itinerary.Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return itinerary.New(ts.URL, 0)
}

func ctx(t *testing.T) context.Context {
	c, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return c
}

func asServiceError(t *testing.T, err error) *domain.ServiceError {
	t.Helper()
	var se *domain.ServiceError
	if !errors.As(err, &se) {
		t.Fatalf("expected *domain.ServiceError, got %T: %v", err, err)
	}
	return se
}

func TestGenerateItinerary_SendsNormalizedRequest(t *testing.T) {
	var got map[string]any
	cl := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/generate-itinerary" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(map[string]any{"trip_id": "abc", "travel_plan": map[string]any{"city": "Lisbon"}})
	})

	sub := domain.Submission{
		Travelers:       []domain.SubmittedTraveler{{Name: "Ana", Age: ptr(30), Interests: []string{"art", "music"}}},
		Destination:     "Lisbon",
		DateOfArrival:   "2025-06-01",
		DateOfDeparture: "2025-06-10",
		Budget:          ptr(5000),
	}
	it, err := cl.GenerateItinerary(ctx(t), sub)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if it.TripID() != "abc" {
		t.Fatalf("unexpected itinerary: %v", it)
	}
	if got["budget"] != 5000.0 || got["destination"] != "Lisbon" || got["date_of_arrival"] != "2025-06-01" {
		t.Fatalf("unexpected request body: %v", got)
	}
	tr := got["travelers"].([]any)[0].(map[string]any)
	if tr["age"] != 30.0 || tr["interests"].([]any)[1] != "music" {
		t.Fatalf("unexpected traveler: %v", tr)
	}
}

func TestGenerateItinerary_UnparsedNumbersSentAsNull(t *testing.T) {
	var raw []byte
	cl := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Dados inválidos"}`))
	})
	_, err := cl.GenerateItinerary(ctx(t), domain.Submission{Travelers: []domain.SubmittedTraveler{{Name: "x"}}})
	if err == nil || err.Error() != "Dados inválidos" {
		t.Fatalf("err = %v", err)
	}
	var body struct {
		Budget    *int `json:"budget"`
		Travelers []struct {
			Age *int `json:"age"`
		} `json:"travelers"`
	}
	if e := json.Unmarshal(raw, &body); e != nil || body.Budget != nil || body.Travelers[0].Age != nil {
		t.Fatalf("expected null age/budget, got %s", raw)
	}
}

func TestGenerateItinerary_ErrorFieldIsTheMessage(t *testing.T) {
	var hits int32
	cl := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": "destination unknown"})
	})
	_, err := cl.GenerateItinerary(ctx(t), domain.Submission{})
	se := asServiceError(t, err)
	if err.Error() != "destination unknown" || se.Status != 500 || se.Op != "generate" {
		t.Fatalf("unexpected error: %+v", se)
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Fatalf("expected a single attempt, got %d", n)
	}
}

func TestFailures_WithoutErrorFieldUseDefaults(t *testing.T) {
	cl := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"detail":"nope"}`))
	})
	if _, err := cl.GenerateItinerary(ctx(t), domain.Submission{}); err == nil || err.Error() != "failed to generate itinerary" {
		t.Fatalf("generate err = %v", err)
	}
	if _, err := cl.ModifyItinerary(ctx(t), "t1", "x"); err == nil || err.Error() != "failed to modify itinerary" {
		t.Fatalf("modify err = %v", err)
	}
	if _, err := cl.GetTripHistory(ctx(t)); err == nil || err.Error() != "failed to fetch trip history" {
		t.Fatalf("history err = %v", err)
	}
}

func TestFailures_NonJSONOrEmptyErrorBody(t *testing.T) {
	for _, body := range []string{"", "<html>502</html>", `{"error":""}`, `{"error":42}`} {
		cl := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(body))
		})
		if _, err := cl.GenerateItinerary(ctx(t), domain.Submission{}); err == nil || err.Error() != "failed to generate itinerary" {
			t.Fatalf("body %q: err = %v", body, err)
		}
	}
}

func TestTransportFailure_IsNormalized(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close() // nothing listens any more

	_, err := itinerary.New(url, 0).GenerateItinerary(ctx(t), domain.Submission{})
	se := asServiceError(t, err)
	if se.Message != "failed to generate itinerary" || se.Status != 0 {
		t.Fatalf("unexpected error: %+v", se)
	}
	if errors.Unwrap(err) == nil {
		t.Fatalf("transport cause should be kept for logging")
	}
}

func TestFailedCallsReturnNoItinerary(t *testing.T) {
	// truncated success body
	cl := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"trip_id":"half","travel_plan":{`))
	})
	calls := map[string]func() (domain.Itinerary, error){
		"generate": func() (domain.Itinerary, error) { return cl.GenerateItinerary(ctx(t), domain.Submission{}) },
		"modify":   func() (domain.Itinerary, error) { return cl.ModifyItinerary(ctx(t), "half", "x") },
		"trip":     func() (domain.Itinerary, error) { return cl.GetTrip(ctx(t), "half") },
	}
	for op, call := range calls {
		it, err := call()
		if err == nil {
			t.Fatalf("%s: expected an error", op)
		}
		if it != nil {
			t.Fatalf("%s: itinerary %v returned with error", op, it)
		}
	}
}

func TestModifyItinerary_PathAndBody(t *testing.T) {
	cl := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.EscapedPath() != "/api/modify-itinerary/trip%2F1" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.EscapedPath())
		}
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		_ = json.NewEncoder(w).Encode(map[string]any{"trip_id": "trip/1", "modification_applied": in["modification_request"]})
	})
	it, err := cl.ModifyItinerary(ctx(t), "trip/1", "add a beach day")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if it["modification_applied"] != "add a beach day" {
		t.Fatalf("unexpected itinerary: %v", it)
	}
}

func TestGetTripHistory_Shapes(t *testing.T) {
	for name, body := range map[string]string{
		"array":   `[{"id":"a"},{"id":"b"}]`,
		"wrapped": `{"trips":[{"id":"a"},{"id":"b"}]}`,
	} {
		cl := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet || r.URL.Path != "/api/trip-history" {
				t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
			}
			_, _ = w.Write([]byte(body))
		})
		got, err := cl.GetTripHistory(ctx(t))
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if len(got) != 2 || got[0].TripID() != "a" || got[1].TripID() != "b" {
			t.Fatalf("%s: unexpected history %v", name, got)
		}
	}

	cl := newClient(t, func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`{"other":1}`)) })
	if _, err := cl.GetTripHistory(ctx(t)); err == nil || err.Error() != "failed to fetch trip history" {
		t.Fatalf("err = %v", err)
	}
}

func TestGetTripAndHealth(t *testing.T) {
	cl := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/trip/t9":
			_, _ = w.Write([]byte(`{"trip":{"id":"t9"}}`))
		case "/health":
			_, _ = w.Write([]byte(`{"status":"healthy"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"Viagem não encontrada"}`))
		}
	})
	it, err := cl.GetTrip(ctx(t), "t9")
	if err != nil || it["trip"] == nil {
		t.Fatalf("trip = %v, %v", it, err)
	}
	if _, err := cl.GetTrip(ctx(t), "missing"); err == nil || err.Error() != "Viagem não encontrada" {
		t.Fatalf("err = %v", err)
	}
	if err := cl.Health(ctx(t)); err != nil {
		t.Fatalf("health: %v", err)
	}
}

func TestNew_DefaultBaseURL(t *testing.T) {
	var seen string
	rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		seen = r.URL.String()
		return &http.Response{StatusCode: 200, Body: io.NopCloser(strings.NewReader(`[]`)), Header: http.Header{}}, nil
	})
	cl := itinerary.New("", 0).WithHTTPClient(&http.Client{Transport: rt})
	if _, err := cl.GetTripHistory(ctx(t)); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if seen != "http://localhost:5000/api/trip-history" {
		t.Fatalf("url = %q", seen)
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }
