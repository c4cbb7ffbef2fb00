package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// ClaimStatus is the lifecycle status of a claim
type ClaimStatus string

// Claim statuses. A claim transitions exactly once from pending to a
// terminal state and is immutable afterwards.
const (
	ClaimPending  ClaimStatus = "pending"
	ClaimApproved ClaimStatus = "approved"
	ClaimRejected ClaimStatus = "rejected"
)

// Claim holds the structure for the claims collection in MongoDB
type Claim struct {
	ID      primitive.ObjectID `json:"_id" bson:"_id"`
	Details ClaimDetails       `json:"claim" bson:"claim"`
	Version int32              `json:"__v" bson:"__v"`
}

// ClaimDetails holds the structure for the inner claim details
type ClaimDetails struct {
	LostItemID          primitive.ObjectID   `json:"lostItem" bson:"lostItem"`
	FoundItemID         primitive.ObjectID   `json:"foundItem" bson:"foundItem"`
	ClaimantID          string               `json:"claimant" bson:"claimant"`
	VerificationAnswers []VerificationAnswer `json:"verificationAnswers" bson:"verificationAnswers"`
	AdditionalProof     string               `json:"additionalProof,omitempty" bson:"additionalProof"`
	ProofImages         []string             `json:"proofImages" bson:"proofImages"`
	Status              ClaimStatus          `json:"status" bson:"status"`
	ReviewedBy          string               `json:"reviewedBy,omitempty" bson:"reviewedBy"`
	ReviewDate          primitive.DateTime   `json:"reviewDate,omitempty" bson:"reviewDate"`
	ReviewNotes         string               `json:"reviewNotes,omitempty" bson:"reviewNotes"`
	RejectionReason     string               `json:"rejectionReason,omitempty" bson:"rejectionReason"`
	CreatedAt           primitive.DateTime   `json:"createdAt" bson:"createdAt"`
	UpdatedAt           primitive.DateTime   `json:"updatedAt" bson:"updatedAt"`
}

// VerificationAnswer is a claimant's answer to one of the owner's
// verification questions
type VerificationAnswer struct {
	Question string `json:"question" bson:"question"`
	Answer   string `json:"answer" bson:"answer"`
}
