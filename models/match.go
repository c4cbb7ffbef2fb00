package models

// MatchResult is one ranked candidate produced by the matching engine
type MatchResult struct {
	FoundItem  FoundItem      `json:"foundItem"`
	MatchScore int            `json:"matchScore"`
	Breakdown  MatchBreakdown `json:"breakdown"`
}

// MatchBreakdown exposes the per-factor scores so admins and claimants can
// see why a candidate ranked where it did
type MatchBreakdown struct {
	Category int `json:"category"`
	Color    int `json:"color"`
	Location int `json:"location"`
	Date     int `json:"date"`
}
