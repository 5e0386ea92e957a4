// internal/adapters/itinerary/client.go
package itinerary

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"trip_planner/internal/adapters/observability"
	"trip_planner/internal/domain"
)

const DefaultBaseURL = "http://localhost:5000"

// default messages per operation, used when the body carries no "error"
var defaultMessages = map[string]string{
	"generate": "failed to generate itinerary",
	"modify":   "failed to modify itinerary",
	"history":  "failed to fetch trip history",
	"trip":     "failed to fetch trip",
	"health":   "itinerary service unavailable",
}

type Client struct {
	base string
	hc   *http.Client
	rl   *rate.Limiter
}

// New builds a client for base (DefaultBaseURL when empty). rps <= 0 means
// no client-side rate limit. Calls are single attempt with no timeout of
// their own; bound them with the context.
func New(base string, rps int) *Client {
	if base == "" {
		base = DefaultBaseURL
	}
	rl := rate.NewLimiter(rate.Inf, 0)
	if rps > 0 {
		rl = rate.NewLimiter(rate.Limit(rps), rps)
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{},
		rl:   rl,
	}
}

// WithHTTPClient swaps the transport, e.g. for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.hc = hc
	return c
}

// ---- Public API ----

func (c *Client) GenerateItinerary(ctx context.Context, req domain.Submission) (domain.Itinerary, error) {
	var out domain.Itinerary
	if err := c.do(ctx, "generate", http.MethodPost, "/api/generate-itinerary", req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ModifyItinerary(ctx context.Context, tripID, modificationRequest string) (domain.Itinerary, error) {
	body := struct {
		ModificationRequest string `json:"modification_request"`
	}{modificationRequest}
	var out domain.Itinerary
	if err := c.do(ctx, "modify", http.MethodPost, "/api/modify-itinerary/"+url.PathEscape(tripID), body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetTripHistory accepts either a bare array or {"trips": [...]}.
func (c *Client) GetTripHistory(ctx context.Context) ([]domain.Itinerary, error) {
	var raw json.RawMessage
	if err := c.do(ctx, "history", http.MethodGet, "/api/trip-history", nil, &raw); err != nil {
		return nil, err
	}
	out, err := decodeHistory(raw)
	if err != nil {
		return nil, domain.NewServiceError("history", http.StatusOK, defaultMessages["history"], err)
	}
	return out, nil
}

// GetTrip fetches one stored itinerary by its trip id.
func (c *Client) GetTrip(ctx context.Context, tripID string) (domain.Itinerary, error) {
	var out domain.Itinerary
	if err := c.do(ctx, "trip", http.MethodGet, "/api/trip/"+url.PathEscape(tripID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Health checks the service's /health endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, "health", http.MethodGet, "/health", nil, nil)
}

// ---- Internals ----

func decodeHistory(raw json.RawMessage) ([]domain.Itinerary, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []domain.Itinerary{}, nil
	}
	if trimmed[0] == '[' {
		var out []domain.Itinerary
		return out, json.Unmarshal(trimmed, &out)
	}
	var wrapped struct {
		Trips *[]domain.Itinerary `json:"trips"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, err
	}
	if wrapped.Trips == nil {
		return nil, errors.New("history body has no trips")
	}
	return *wrapped.Trips, nil
}

// do performs one request and decodes a 2xx body into out. Every failure
// becomes a *domain.ServiceError carrying the body's "error" or the
// operation default.
func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	fail := func(status int, msg string, cause error) error {
		if msg == "" {
			msg = defaultMessages[op]
		}
		return domain.NewServiceError(op, status, msg, cause)
	}

	if err := c.rl.Wait(ctx); err != nil {
		return fail(0, "", err)
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fail(0, "", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fail(0, "", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "trip-planner/1.0")

	done := observability.TrackExternal("itinerary", op)
	resp, err := c.hc.Do(req)
	if err != nil {
		done(0)
		return fail(0, "", err)
	}
	defer resp.Body.Close()
	done(resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return fail(resp.StatusCode, errorField(b), errors.New(http.StatusText(resp.StatusCode)))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fail(resp.StatusCode, "", err)
	}
	return nil
}

// errorField extracts a non-empty string "error" from a JSON body, or "".
func errorField(b []byte) string {
	var e struct {
		Error any `json:"error"`
	}
	if err := json.Unmarshal(b, &e); err != nil {
		return ""
	}
	s, _ := e.Error.(string)
	return s
}
