package app

import (
	"strconv"
	"strings"

	"trip_planner/internal/domain"
	"trip_planner/internal/vocabulary"
)

/********** tiny helpers **********/

// leadingInt parses the leading integer of s the way a browser form does:
// optional whitespace, optional sign, then digits; anything after the
// digits is ignored. No digits yields nil, which is sent as null.
func leadingInt(s string) *int {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return nil
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		// overflow: still a failed parse as far as the service is concerned
		return nil
	}
	return &n
}

// dedupe keeps the first occurrence of each value.
func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func copyDraft(d domain.Draft) domain.Draft {
	out := d
	out.Travelers = make([]domain.Traveler, len(d.Travelers))
	for i, t := range d.Travelers {
		out.Travelers[i] = t
		out.Travelers[i].Interests = make([]string, len(t.Interests))
		copy(out.Travelers[i].Interests, t.Interests)
	}
	return out
}

/********** submission mapper **********/

func mapSubmission(d domain.Draft) domain.Submission {
	travelers := make([]domain.SubmittedTraveler, 0, len(d.Travelers))
	for _, t := range d.Travelers {
		travelers = append(travelers, domain.SubmittedTraveler{
			Name:      t.Name,
			Age:       leadingInt(t.Age),
			Interests: vocabulary.TranslateAll(t.Interests),
		})
	}
	return domain.Submission{
		Travelers:       travelers,
		Destination:     d.Destination,
		DateOfArrival:   d.DateOfArrival,
		DateOfDeparture: d.DateOfDeparture,
		Budget:          leadingInt(d.Budget),
	}
}
