package matching

// Weights holds the relative contribution of each factor to the overall
// match score. The defaults sum to 1.0 so the weighted total maps directly
// onto a 0-100 score.
type Weights struct {
	Category float64
	Color    float64
	Location float64
	Date     float64
}

// DateBand maps a window of hours between the lost and found dates to a
// factor. Bands are evaluated in order, first hit wins.
type DateBand struct {
	MaxHours float64
	Factor   float64
}

// Config carries the tunables for the matcher. Campus deployments can
// override the synonym table and proximity groups without touching the
// scoring code.
type Config struct {
	Weights         Weights
	MinScore        int
	ColorSynonyms   map[string][]string
	ProximityGroups map[string][]string
	DateBands       []DateBand
}

// DefaultConfig returns the stock scoring configuration.
func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			Category: 0.40,
			Color:    0.25,
			Location: 0.20,
			Date:     0.15,
		},
		MinScore: 60,
		ColorSynonyms: map[string][]string{
			"black":  {"dark", "charcoal", "gray"},
			"white":  {"light", "cream", "ivory"},
			"blue":   {"navy", "azure", "sky blue"},
			"red":    {"maroon", "crimson", "scarlet"},
			"green":  {"olive", "lime", "emerald"},
			"yellow": {"golden", "amber"},
			"brown":  {"tan", "beige", "coffee"},
		},
		ProximityGroups: map[string][]string{
			"library":   {"library entrance", "reading room", "study hall", "library cafe"},
			"cafeteria": {"food court", "dining hall", "canteen"},
			"hostel":    {"hostel block a", "hostel block b", "hostel block c", "boys hostel", "girls hostel"},
			"classroom": {"academic block", "lecture hall", "lab", "computer lab"},
			"sports":    {"sports complex", "gymnasium", "playground", "stadium"},
			"parking":   {"parking lot", "bike stand", "vehicle parking"},
		},
		DateBands: []DateBand{
			{MaxHours: 24, Factor: 1.0},
			{MaxHours: 72, Factor: 0.7},
			{MaxHours: 168, Factor: 0.5},
			{MaxHours: 336, Factor: 0.3},
		},
	}
}
