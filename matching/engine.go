package matching

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/campusfind/lost-and-found-api/models"
)

// Engine scores lost item reports against a pool of found items. It holds
// no state beyond its configuration and is safe for concurrent use.
type Engine struct {
	cfg Config
}

// New returns an engine using the supplied configuration.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// RankMatches scores every found item in the pool against the lost item
// report and returns the candidates at or above the minimum score, best
// first. Equal scores keep their pool order.
//
// The threshold is applied to the weighted total before rounding, so a
// total that would round up to the minimum is still excluded.
func (e *Engine) RankMatches(lost models.LostItemDetails, pool []models.FoundItem) []models.MatchResult {
	results := make([]models.MatchResult, 0, len(pool))

	for _, found := range pool {
		category := e.categoryFactor(lost.Category, found.Details.Category)
		color := e.colorFactor(lost.Color, found.Details.Color)
		location := e.locationFactor(lost.Location, found.Details.Location)
		date := e.dateFactor(lost.DateLost.Time(), found.Details.DateFound.Time())

		total := e.cfg.Weights.Category*category +
			e.cfg.Weights.Color*color +
			e.cfg.Weights.Location*location +
			e.cfg.Weights.Date*date

		if total*100 < float64(e.cfg.MinScore) {
			continue
		}

		results = append(results, models.MatchResult{
			FoundItem:  found,
			MatchScore: int(math.Round(total * 100)),
			Breakdown: models.MatchBreakdown{
				Category: int(math.Round(category * 100)),
				Color:    int(math.Round(color * 100)),
				Location: int(math.Round(location * 100)),
				Date:     int(math.Round(date * 100)),
			},
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchScore > results[j].MatchScore
	})

	return results
}

func (e *Engine) categoryFactor(lost, found string) float64 {
	if strings.EqualFold(strings.TrimSpace(lost), strings.TrimSpace(found)) {
		return 1
	}
	return 0
}

func (e *Engine) colorFactor(lost, found string) float64 {
	a := normalize(lost)
	b := normalize(found)

	if a == b {
		return 1
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 0.7
	}
	if e.isColorSynonym(a, b) || e.isColorSynonym(b, a) {
		return 0.5
	}
	return 0
}

// isColorSynonym reports whether base is a base color whose synonym list
// has an entry contained in other, so compound names like "dark gray"
// still get synonym credit against "black".
func (e *Engine) isColorSynonym(base, other string) bool {
	for _, syn := range e.cfg.ColorSynonyms[base] {
		if strings.Contains(other, syn) {
			return true
		}
	}
	return false
}

func (e *Engine) locationFactor(lost, found string) float64 {
	a := normalize(lost)
	b := normalize(found)

	if a == b {
		return 1
	}
	if e.sameProximityGroup(a, b) {
		return 0.7
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 0.5
	}
	return 0
}

func (e *Engine) sameProximityGroup(a, b string) bool {
	for _, members := range e.cfg.ProximityGroups {
		if inGroup(a, members) && inGroup(b, members) {
			return true
		}
	}
	return false
}

// inGroup reports whether the location contains one of the group's
// aliases. Containment runs one way only; a short location fragment
// cannot claim membership by sitting inside an alias.
func inGroup(location string, members []string) bool {
	for _, m := range members {
		if strings.Contains(location, m) {
			return true
		}
	}
	return false
}

func (e *Engine) dateFactor(lost, found time.Time) float64 {
	hours := math.Abs(lost.Sub(found).Hours())
	for _, band := range e.cfg.DateBands {
		if hours < band.MaxHours {
			return band.Factor
		}
	}
	return 0
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
