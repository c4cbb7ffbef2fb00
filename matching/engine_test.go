package matching_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/campusfind/lost-and-found-api/matching"
	"github.com/campusfind/lost-and-found-api/models"
)

func dateTime(year int, month time.Month, day, hour int) primitive.DateTime {
	return primitive.NewDateTimeFromTime(time.Date(year, month, day, hour, 0, 0, 0, time.UTC))
}

func foundItem(name, category, color, location string, dateFound primitive.DateTime) models.FoundItem {
	return models.FoundItem{
		ID: primitive.NewObjectID(),
		Details: models.FoundItemDetails{
			ItemName:  name,
			Category:  category,
			Color:     color,
			Location:  location,
			DateFound: dateFound,
			Status:    models.FoundItemAvailable,
		},
	}
}

func TestRankMatches_SameDayLibraryMatch(t *testing.T) {
	engine := matching.New(matching.DefaultConfig())

	lost := models.LostItemDetails{
		Category: "Electronics",
		Color:    "Black",
		Location: "Library Reading Room",
		DateLost: dateTime(2024, time.February, 5, 10),
	}
	pool := []models.FoundItem{
		foundItem("Headphones", "Electronics", "Black", "Library Entrance", dateTime(2024, time.February, 5, 14)),
	}

	results := engine.RankMatches(lost, pool)

	assert.Len(t, results, 1)
	assert.Equal(t, 94, results[0].MatchScore)
	assert.Equal(t, models.MatchBreakdown{Category: 100, Color: 100, Location: 70, Date: 100}, results[0].Breakdown)
}

func TestRankMatches_CategoryMismatchExcluded(t *testing.T) {
	engine := matching.New(matching.DefaultConfig())

	lost := models.LostItemDetails{
		Category: "Electronics",
		Color:    "Black",
		Location: "Library Reading Room",
		DateLost: dateTime(2024, time.February, 5, 10),
	}
	pool := []models.FoundItem{
		foundItem("Key bunch", "Keys", "Silver", "Sports Ground", dateTime(2024, time.February, 6, 10)),
	}

	results := engine.RankMatches(lost, pool)

	assert.Empty(t, results)
}

func TestRankMatches_CategoryMismatchIncludedWhenEverythingElseMaxesOut(t *testing.T) {
	// Color, location and date at full credit sum to exactly the minimum
	// score, so a wrong category alone does not exclude the candidate.
	engine := matching.New(matching.DefaultConfig())

	lost := models.LostItemDetails{
		Category: "Electronics",
		Color:    "Black",
		Location: "Library Entrance",
		DateLost: dateTime(2024, time.February, 5, 10),
	}
	pool := []models.FoundItem{
		foundItem("Key bunch", "Keys", "Black", "Library Entrance", dateTime(2024, time.February, 5, 12)),
	}

	results := engine.RankMatches(lost, pool)

	assert.Len(t, results, 1)
	assert.Equal(t, 60, results[0].MatchScore)
	assert.Equal(t, models.MatchBreakdown{Category: 0, Color: 100, Location: 100, Date: 100}, results[0].Breakdown)
}

func TestRankMatches_ThresholdAppliedBeforeRounding(t *testing.T) {
	// category=100, location=70, date=30 totals 58.5, which would round up
	// past nothing but still sits below 60 and must not appear.
	engine := matching.New(matching.DefaultConfig())

	lost := models.LostItemDetails{
		Category: "Electronics",
		Color:    "Black",
		Location: "Library Reading Room",
		DateLost: dateTime(2024, time.February, 5, 10),
	}
	pool := []models.FoundItem{
		foundItem("Charger", "Electronics", "Silver", "Library Entrance", dateTime(2024, time.February, 13, 10)),
	}

	results := engine.RankMatches(lost, pool)

	assert.Empty(t, results)
}

func TestRankMatches_SortedByScoreDescending(t *testing.T) {
	engine := matching.New(matching.DefaultConfig())

	lost := models.LostItemDetails{
		Category: "Electronics",
		Color:    "Black",
		Location: "Library Reading Room",
		DateLost: dateTime(2024, time.February, 5, 10),
	}

	weaker := foundItem("Mouse", "Electronics", "Charcoal", "Library Entrance", dateTime(2024, time.February, 6, 20))
	stronger := foundItem("Headphones", "Electronics", "Black", "Library Reading Room", dateTime(2024, time.February, 5, 12))

	results := engine.RankMatches(lost, []models.FoundItem{weaker, stronger})

	assert.Len(t, results, 2)
	assert.Equal(t, stronger.ID, results[0].FoundItem.ID)
	assert.Equal(t, weaker.ID, results[1].FoundItem.ID)
	assert.Greater(t, results[0].MatchScore, results[1].MatchScore)
}

func TestRankMatches_EqualScoresKeepPoolOrder(t *testing.T) {
	engine := matching.New(matching.DefaultConfig())

	lost := models.LostItemDetails{
		Category: "Electronics",
		Color:    "Black",
		Location: "Library Reading Room",
		DateLost: dateTime(2024, time.February, 5, 10),
	}

	first := foundItem("Headphones", "Electronics", "Black", "Library Reading Room", dateTime(2024, time.February, 5, 12))
	second := foundItem("Earbuds", "Electronics", "Black", "Library Reading Room", dateTime(2024, time.February, 5, 13))

	results := engine.RankMatches(lost, []models.FoundItem{first, second})

	assert.Len(t, results, 2)
	assert.Equal(t, results[0].MatchScore, results[1].MatchScore)
	assert.Equal(t, first.ID, results[0].FoundItem.ID)
	assert.Equal(t, second.ID, results[1].FoundItem.ID)
}

func TestRankMatches_ColorSynonyms(t *testing.T) {
	engine := matching.New(matching.DefaultConfig())

	lost := models.LostItemDetails{
		Category: "Accessories",
		Color:    "Black",
		Location: "Food Court",
		DateLost: dateTime(2024, time.March, 1, 9),
	}
	pool := []models.FoundItem{
		foundItem("Wallet", "Accessories", "Charcoal", "Food Court", dateTime(2024, time.March, 1, 11)),
	}

	results := engine.RankMatches(lost, pool)

	assert.Len(t, results, 1)
	assert.Equal(t, 50, results[0].Breakdown.Color)
	// 40 + 12.5 + 20 + 15 rounds to 88
	assert.Equal(t, 88, results[0].MatchScore)
}

func TestRankMatches_ColorSynonymInCompoundName(t *testing.T) {
	// the synonym only appears inside a compound color name, which still
	// earns synonym credit
	engine := matching.New(matching.DefaultConfig())

	lost := models.LostItemDetails{
		Category: "Clothing",
		Color:    "Black",
		Location: "Study Hall",
		DateLost: dateTime(2024, time.March, 1, 9),
	}
	pool := []models.FoundItem{
		foundItem("Jacket", "Clothing", "Dark Gray", "Study Hall", dateTime(2024, time.March, 1, 16)),
	}

	results := engine.RankMatches(lost, pool)

	assert.Len(t, results, 1)
	assert.Equal(t, 50, results[0].Breakdown.Color)
	assert.Equal(t, 88, results[0].MatchScore)
}

func TestRankMatches_ColorSynonymKeepsBorderlineCandidateIn(t *testing.T) {
	// category 40 + synonym color 12.5 + partial location 10 + stale date 0
	// totals 62.5, just above the threshold; a missed synonym here would
	// drop the candidate entirely
	engine := matching.New(matching.DefaultConfig())

	lost := models.LostItemDetails{
		Category: "Clothing",
		Color:    "Black",
		Location: "Main Auditorium",
		DateLost: dateTime(2024, time.March, 1, 9),
	}
	pool := []models.FoundItem{
		foundItem("Jacket", "Clothing", "Dark Gray", "Auditorium", dateTime(2024, time.April, 15, 9)),
	}

	results := engine.RankMatches(lost, pool)

	assert.Len(t, results, 1)
	assert.Equal(t, 63, results[0].MatchScore)
	assert.Equal(t, models.MatchBreakdown{Category: 100, Color: 50, Location: 50, Date: 0}, results[0].Breakdown)
}

func TestRankMatches_ColorSubstring(t *testing.T) {
	engine := matching.New(matching.DefaultConfig())

	lost := models.LostItemDetails{
		Category: "Bags",
		Color:    "Dark Blue",
		Location: "Canteen",
		DateLost: dateTime(2024, time.March, 1, 9),
	}
	pool := []models.FoundItem{
		foundItem("Backpack", "Bags", "Blue", "Canteen", dateTime(2024, time.March, 1, 10)),
	}

	results := engine.RankMatches(lost, pool)

	assert.Len(t, results, 1)
	assert.Equal(t, 70, results[0].Breakdown.Color)
}

func TestRankMatches_LocationProximityGroups(t *testing.T) {
	engine := matching.New(matching.DefaultConfig())

	tests := []struct {
		name          string
		lostLocation  string
		foundLocation string
		expected      int
	}{
		{"exact", "Hostel Block A", "Hostel Block A", 100},
		{"same group", "Hostel Block A", "Boys Hostel", 70},
		{"sports group", "Gymnasium", "Sports Complex", 70},
		{"parking group", "Bike Stand", "Parking Lot", 70},
		// the bare area name is not an alias; this pair only earns the
		// substring credit
		{"area name alone", "Hostel", "Boys Hostel", 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lost := models.LostItemDetails{
				Category: "Keys",
				Color:    "Silver",
				Location: tt.lostLocation,
				DateLost: dateTime(2024, time.March, 1, 9),
			}
			pool := []models.FoundItem{
				foundItem("Key bunch", "Keys", "Silver", tt.foundLocation, dateTime(2024, time.March, 1, 10)),
			}

			results := engine.RankMatches(lost, pool)

			assert.Len(t, results, 1)
			assert.Equal(t, tt.expected, results[0].Breakdown.Location)
		})
	}
}

func TestRankMatches_DateBands(t *testing.T) {
	engine := matching.New(matching.DefaultConfig())

	tests := []struct {
		name      string
		dateFound primitive.DateTime
		expected  int
	}{
		{"same day", dateTime(2024, time.March, 10, 18), 100},
		{"two days later", dateTime(2024, time.March, 12, 12), 70},
		{"five days later", dateTime(2024, time.March, 15, 12), 50},
		{"ten days later", dateTime(2024, time.March, 20, 12), 30},
		{"ten days earlier", dateTime(2024, time.February, 29, 12), 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lost := models.LostItemDetails{
				Category: "Books",
				Color:    "Red",
				Location: "Lecture Hall",
				DateLost: dateTime(2024, time.March, 10, 12),
			}
			pool := []models.FoundItem{
				foundItem("Notebook", "Books", "Red", "Lecture Hall", tt.dateFound),
			}

			results := engine.RankMatches(lost, pool)

			assert.Len(t, results, 1)
			assert.Equal(t, tt.expected, results[0].Breakdown.Date)
		})
	}
}

func TestRankMatches_StaleDateExcluded(t *testing.T) {
	engine := matching.New(matching.DefaultConfig())

	lost := models.LostItemDetails{
		Category: "Books",
		Color:    "Red",
		Location: "Lecture Hall",
		DateLost: dateTime(2024, time.March, 10, 12),
	}
	pool := []models.FoundItem{
		foundItem("Notebook", "Books", "Red", "Lecture Hall", dateTime(2024, time.April, 10, 12)),
	}

	results := engine.RankMatches(lost, pool)

	// 40 + 25 + 20 + 0 = 85, still included; the date factor alone is zero
	assert.Len(t, results, 1)
	assert.Equal(t, 0, results[0].Breakdown.Date)
	assert.Equal(t, 85, results[0].MatchScore)
}

func TestRankMatches_EmptyPool(t *testing.T) {
	engine := matching.New(matching.DefaultConfig())

	lost := models.LostItemDetails{
		Category: "Electronics",
		Color:    "Black",
		Location: "Library",
		DateLost: dateTime(2024, time.March, 10, 12),
	}

	results := engine.RankMatches(lost, nil)

	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestRankMatches_PureScorer(t *testing.T) {
	engine := matching.New(matching.DefaultConfig())

	lost := models.LostItemDetails{
		Category: "Electronics",
		Color:    "Black",
		Location: "Library Reading Room",
		DateLost: dateTime(2024, time.February, 5, 10),
	}
	pool := []models.FoundItem{
		foundItem("Headphones", "Electronics", "Black", "Library Entrance", dateTime(2024, time.February, 5, 14)),
	}

	first := engine.RankMatches(lost, pool)
	second := engine.RankMatches(lost, pool)

	assert.Equal(t, first, second)
	assert.Equal(t, models.FoundItemAvailable, pool[0].Details.Status)
}
