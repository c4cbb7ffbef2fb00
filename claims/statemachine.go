package claims

import "github.com/campusfind/lost-and-found-api/models"

// The transition tables below are the single source of truth for which
// status writes are legal. Handlers and the manager go through these
// instead of flipping status fields ad hoc.

var claimTransitions = map[models.ClaimStatus][]models.ClaimStatus{
	models.ClaimPending: {models.ClaimApproved, models.ClaimRejected},
}

var foundItemTransitions = map[models.FoundItemStatus][]models.FoundItemStatus{
	models.FoundItemAvailable: {models.FoundItemClaimed},
	models.FoundItemClaimed:   {models.FoundItemReturned, models.FoundItemAvailable},
}

var lostItemTransitions = map[models.LostItemStatus][]models.LostItemStatus{
	models.LostItemActive:  {models.LostItemClaimed, models.LostItemReturned, models.LostItemClosed},
	models.LostItemClaimed: {models.LostItemReturned, models.LostItemActive, models.LostItemClosed},
}

// CanTransitionClaim reports whether a claim may move from one status to
// another. Approved and rejected are terminal.
func CanTransitionClaim(from, to models.ClaimStatus) bool {
	for _, allowed := range claimTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// CanTransitionFoundItem reports whether a found item may move from one
// status to another. Returned is terminal.
func CanTransitionFoundItem(from, to models.FoundItemStatus) bool {
	for _, allowed := range foundItemTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// CanTransitionLostItem reports whether a lost item report may move from
// one status to another. Returned and closed are terminal.
func CanTransitionLostItem(from, to models.LostItemStatus) bool {
	for _, allowed := range lostItemTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
