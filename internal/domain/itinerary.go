package domain

import "fmt"

// Itinerary is the uninterpreted document returned by the itinerary service.
type Itinerary map[string]any

// TripID returns the trip identifier carried by the itinerary
// ("trip_id", falling back to "id"), or "" when none is present.
func (it Itinerary) TripID() string {
	for _, k := range []string{"trip_id", "id"} {
		switch v := it[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return fmt.Sprintf("%.0f", v)
		}
	}
	return ""
}

// Clone returns a shallow copy so callers can't mutate the held value's keys.
func (it Itinerary) Clone() Itinerary {
	if it == nil {
		return nil
	}
	out := make(Itinerary, len(it))
	for k, v := range it {
		out[k] = v
	}
	return out
}
