// Package vocabulary maps the localized interest labels shown in the trip
// form to the canonical codes the itinerary service accepts.
package vocabulary

// single source of truth; order is display order
var interests = []struct{ label, code string }{
	{"arte", "art"},
	{"culinária", "cooking"},
	{"dança", "dancing"},
	{"fitness", "fitness"},
	{"trilha", "hiking"},
	{"música", "music"},
	{"fotografia", "photography"},
	{"leitura", "reading"},
	{"esportes", "sports"},
	{"tecnologia", "technology"},
}

var byLabel = func() map[string]string {
	m := make(map[string]string, len(interests))
	for _, it := range interests {
		m[it.label] = it.code
	}
	return m
}()

// Translate returns the canonical code for label, or label itself when it
// is not in the vocabulary (codes typed directly pass through).
func Translate(label string) string {
	if code, ok := byLabel[label]; ok {
		return code
	}
	return label
}

// TranslateAll translates every label, keeping order.
func TranslateAll(labels []string) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = Translate(l)
	}
	return out
}

// Labels returns the known labels in display order.
func Labels() []string {
	out := make([]string, len(interests))
	for i, it := range interests {
		out[i] = it.label
	}
	return out
}

// Codes returns the canonical codes in display order.
func Codes() []string {
	out := make([]string, len(interests))
	for i, it := range interests {
		out[i] = it.code
	}
	return out
}
