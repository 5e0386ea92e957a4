package domain

// Traveler is one traveler slot of the draft form. Age is kept as typed by
// the user; interests hold display labels.
type Traveler struct {
	Name      string   `json:"name"`
	Age       string   `json:"age"`
	Interests []string `json:"interests"`
}

// Draft is the in-progress trip request owned by the builder.
type Draft struct {
	Travelers       []Traveler `json:"travelers"`
	Destination     string     `json:"destination"`
	DateOfArrival   string     `json:"date_of_arrival"`
	DateOfDeparture string     `json:"date_of_departure"`
	Budget          string     `json:"budget"`
}

// SubmittedTraveler is a traveler after normalization.
// A nil Age means the typed value did not parse and is sent as null.
type SubmittedTraveler struct {
	Name      string   `json:"name"`
	Age       *int     `json:"age"`
	Interests []string `json:"interests"`
}

// Submission is the normalized snapshot sent to the itinerary service.
type Submission struct {
	Travelers       []SubmittedTraveler `json:"travelers"`
	Destination     string              `json:"destination"`
	DateOfArrival   string              `json:"date_of_arrival"`
	DateOfDeparture string              `json:"date_of_departure"`
	Budget          *int                `json:"budget"`
}

// TravelerField names an editable scalar field of a Traveler.
type TravelerField string

const (
	TravelerName TravelerField = "name"
	TravelerAge  TravelerField = "age"
)

// Valid reports whether f is a known traveler field.
func (f TravelerField) Valid() bool {
	return f == TravelerName || f == TravelerAge
}

// TripField names an editable trip-level field of the Draft.
type TripField string

const (
	TripDestination     TripField = "destination"
	TripDateOfArrival   TripField = "date_of_arrival"
	TripDateOfDeparture TripField = "date_of_departure"
	TripBudget          TripField = "budget"
)

func (f TripField) Valid() bool {
	switch f {
	case TripDestination, TripDateOfArrival, TripDateOfDeparture, TripBudget:
		return true
	}
	return false
}
