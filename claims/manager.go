package claims

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/campusfind/lost-and-found-api/databases"
	"github.com/campusfind/lost-and-found-api/models"
)

const maxProofLength = 500

// Manager owns the claim lifecycle. All status writes on claims, lost
// items and found items triggered by claim events go through here so the
// transition rules live in one place.
type Manager struct {
	Claims     databases.ClaimDatabase
	LostItems  databases.LostItemDatabase
	FoundItems databases.FoundItemDatabase
}

// CreateClaimInput carries the request body for a new claim.
type CreateClaimInput struct {
	LostItemID          string
	FoundItemID         string
	VerificationAnswers []models.VerificationAnswer
	AdditionalProof     string
	ProofImages         []string
}

// CreateClaim files a pending claim for an available found item and marks
// the item claimed. The status flip is a conditional update keyed on the
// current status, so two racing claimants cannot both win: the loser's
// update matches nothing and the request fails with a conflict.
func (m *Manager) CreateClaim(ctx context.Context, ident models.Identity, in CreateClaimInput) (*models.Claim, error) {
	lostID, err := primitive.ObjectIDFromHex(in.LostItemID)
	if err != nil {
		return nil, NewValidation("lost item ID is invalid")
	}
	foundID, err := primitive.ObjectIDFromHex(in.FoundItemID)
	if err != nil {
		return nil, NewValidation("found item ID is invalid")
	}
	if len(in.VerificationAnswers) == 0 {
		return nil, NewValidation("verification answers are required")
	}
	if len(in.AdditionalProof) > maxProofLength {
		return nil, NewValidation("additional proof cannot be more than 500 characters")
	}

	if _, err := m.LostItems.FindOne(ctx, bson.M{"_id": lostID}); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NewNotFound("lost item not found")
		}
		return nil, NewInternal("failed to load lost item", err)
	}

	found, err := m.FoundItems.FindOne(ctx, bson.M{"_id": foundID})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NewNotFound("found item not found")
		}
		return nil, NewInternal("failed to load found item", err)
	}
	if !CanTransitionFoundItem(found.Details.Status, models.FoundItemClaimed) {
		return nil, NewConflict("this item has already been claimed")
	}

	pending, err := m.Claims.CountDocuments(ctx, bson.M{
		"claim.foundItem": foundID,
		"claim.claimant":  ident.UserID,
		"claim.status":    models.ClaimPending,
	})
	if err != nil {
		return nil, NewInternal("failed to check existing claims", err)
	}
	if pending > 0 {
		return nil, NewConflict("you already have a pending claim for this item")
	}

	now := primitive.NewDateTimeFromTime(time.Now().UTC())

	res, err := m.FoundItems.UpdateOne(ctx,
		bson.M{"_id": foundID, "foundItem.status": models.FoundItemAvailable},
		bson.M{"$set": bson.M{
			"foundItem.status":    models.FoundItemClaimed,
			"foundItem.updatedAt": now,
		}},
	)
	if err != nil {
		return nil, NewInternal("failed to reserve found item", err)
	}
	if res.MatchedCount() == 0 {
		return nil, NewConflict("this item has already been claimed")
	}

	claim := models.Claim{
		ID: primitive.NewObjectID(),
		Details: models.ClaimDetails{
			LostItemID:          lostID,
			FoundItemID:         foundID,
			ClaimantID:          ident.UserID,
			VerificationAnswers: in.VerificationAnswers,
			AdditionalProof:     in.AdditionalProof,
			ProofImages:         in.ProofImages,
			Status:              models.ClaimPending,
			CreatedAt:           now,
			UpdatedAt:           now,
		},
	}

	if _, err := m.Claims.InsertOne(ctx, claim); err != nil {
		// put the item back so a failed insert does not strand it in
		// claimed with no claim attached
		if _, revertErr := m.FoundItems.UpdateOne(ctx,
			bson.M{"_id": foundID, "foundItem.status": models.FoundItemClaimed},
			bson.M{"$set": bson.M{
				"foundItem.status":    models.FoundItemAvailable,
				"foundItem.updatedAt": primitive.NewDateTimeFromTime(time.Now().UTC()),
			}},
		); revertErr != nil {
			zap.S().Errorw("failed to release found item after claim insert error",
				"foundItemID", foundID.Hex(), "error", revertErr)
		}
		return nil, NewInternal("failed to create claim", err)
	}

	return &claim, nil
}

// ApproveClaim marks a pending claim approved, the found item returned to
// the claimant and the lost item returned. Only admins may review claims;
// a claim that is no longer pending cannot be approved again.
func (m *Manager) ApproveClaim(ctx context.Context, ident models.Identity, claimID, reviewNotes string) (*models.Claim, error) {
	if !ident.Admin {
		return nil, NewForbidden("not authorized to review claims")
	}
	id, err := primitive.ObjectIDFromHex(claimID)
	if err != nil {
		return nil, NewValidation("claim ID is invalid")
	}

	claim, err := m.Claims.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NewNotFound("claim not found")
		}
		return nil, NewInternal("failed to load claim", err)
	}
	if !CanTransitionClaim(claim.Details.Status, models.ClaimApproved) {
		return nil, NewConflict("claim has already been reviewed")
	}

	now := primitive.NewDateTimeFromTime(time.Now().UTC())

	res, err := m.Claims.UpdateOne(ctx,
		bson.M{"_id": id, "claim.status": models.ClaimPending},
		bson.M{"$set": bson.M{
			"claim.status":      models.ClaimApproved,
			"claim.reviewedBy":  ident.UserID,
			"claim.reviewDate":  now,
			"claim.reviewNotes": reviewNotes,
			"claim.updatedAt":   now,
		}},
	)
	if err != nil {
		return nil, NewInternal("failed to update claim", err)
	}
	if res.MatchedCount() == 0 {
		return nil, NewConflict("claim has already been reviewed")
	}

	if _, err := m.FoundItems.UpdateOne(ctx,
		bson.M{"_id": claim.Details.FoundItemID},
		bson.M{"$set": bson.M{
			"foundItem.status":    models.FoundItemReturned,
			"foundItem.claimedBy": claim.Details.ClaimantID,
			"foundItem.updatedAt": now,
		}},
	); err != nil {
		return nil, NewInternal("failed to update found item", err)
	}

	if _, err := m.LostItems.UpdateOne(ctx,
		bson.M{"_id": claim.Details.LostItemID},
		bson.M{"$set": bson.M{
			"lostItem.status":    models.LostItemReturned,
			"lostItem.updatedAt": now,
		}},
	); err != nil {
		return nil, NewInternal("failed to update lost item", err)
	}

	claim.Details.Status = models.ClaimApproved
	claim.Details.ReviewedBy = ident.UserID
	claim.Details.ReviewDate = now
	claim.Details.ReviewNotes = reviewNotes
	claim.Details.UpdatedAt = now

	return claim, nil
}

// RejectClaim marks a pending claim rejected and releases the found item
// back to available. A rejection reason is mandatory. The lost item report
// is left untouched so the owner can pursue other candidates.
func (m *Manager) RejectClaim(ctx context.Context, ident models.Identity, claimID, rejectionReason, reviewNotes string) (*models.Claim, error) {
	if !ident.Admin {
		return nil, NewForbidden("not authorized to review claims")
	}
	if rejectionReason == "" {
		return nil, NewValidation("rejection reason is required")
	}
	id, err := primitive.ObjectIDFromHex(claimID)
	if err != nil {
		return nil, NewValidation("claim ID is invalid")
	}

	claim, err := m.Claims.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NewNotFound("claim not found")
		}
		return nil, NewInternal("failed to load claim", err)
	}
	if !CanTransitionClaim(claim.Details.Status, models.ClaimRejected) {
		return nil, NewConflict("claim has already been reviewed")
	}

	now := primitive.NewDateTimeFromTime(time.Now().UTC())

	res, err := m.Claims.UpdateOne(ctx,
		bson.M{"_id": id, "claim.status": models.ClaimPending},
		bson.M{"$set": bson.M{
			"claim.status":          models.ClaimRejected,
			"claim.reviewedBy":      ident.UserID,
			"claim.reviewDate":      now,
			"claim.reviewNotes":     reviewNotes,
			"claim.rejectionReason": rejectionReason,
			"claim.updatedAt":       now,
		}},
	)
	if err != nil {
		return nil, NewInternal("failed to update claim", err)
	}
	if res.MatchedCount() == 0 {
		return nil, NewConflict("claim has already been reviewed")
	}

	if _, err := m.FoundItems.UpdateOne(ctx,
		bson.M{"_id": claim.Details.FoundItemID, "foundItem.status": models.FoundItemClaimed},
		bson.M{"$set": bson.M{
			"foundItem.status":    models.FoundItemAvailable,
			"foundItem.updatedAt": now,
		}},
	); err != nil {
		return nil, NewInternal("failed to release found item", err)
	}

	claim.Details.Status = models.ClaimRejected
	claim.Details.ReviewedBy = ident.UserID
	claim.Details.ReviewDate = now
	claim.Details.ReviewNotes = reviewNotes
	claim.Details.RejectionReason = rejectionReason
	claim.Details.UpdatedAt = now

	return claim, nil
}

// GetClaim loads a claim for the claimant, either item owner or an admin.
// Everyone else gets a forbidden error.
func (m *Manager) GetClaim(ctx context.Context, ident models.Identity, claimID string) (*models.Claim, error) {
	id, err := primitive.ObjectIDFromHex(claimID)
	if err != nil {
		return nil, NewValidation("claim ID is invalid")
	}

	claim, err := m.Claims.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NewNotFound("claim not found")
		}
		return nil, NewInternal("failed to load claim", err)
	}

	if !m.canViewClaim(ctx, ident, claim) {
		return nil, NewForbidden("not authorized to view this claim")
	}

	return claim, nil
}

func (m *Manager) canViewClaim(ctx context.Context, ident models.Identity, claim *models.Claim) bool {
	if ident.Admin || claim.Details.ClaimantID == ident.UserID {
		return true
	}

	if lost, err := m.LostItems.FindOne(ctx, bson.M{"_id": claim.Details.LostItemID}); err == nil {
		if lost.Details.UserID == ident.UserID {
			return true
		}
	}

	if found, err := m.FoundItems.FindOne(ctx, bson.M{"_id": claim.Details.FoundItemID}); err == nil {
		if ownerID, ok := found.Details.Reporter().OwnerID(); ok && ownerID == ident.UserID {
			return true
		}
	}

	return false
}
