package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// LostItemStatus is the lifecycle status of a lost item report
type LostItemStatus string

// Lost item statuses. The token spellings are part of the API contract and
// must match what existing consumers store and send.
const (
	LostItemActive   LostItemStatus = "active"
	LostItemClaimed  LostItemStatus = "claimed"
	LostItemReturned LostItemStatus = "returned"
	LostItemClosed   LostItemStatus = "closed"
)

// LostItem holds the structure for the lostItems collection in MongoDB
type LostItem struct {
	ID      primitive.ObjectID `json:"_id" bson:"_id"`
	Details LostItemDetails    `json:"lostItem" bson:"lostItem"`
	Version int32              `json:"__v" bson:"__v"`
}

// LostItemDetails holds the structure for the inner lost item details
type LostItemDetails struct {
	UserID                string                 `json:"userID" bson:"userID"`
	Category              string                 `json:"category" bson:"category"`
	ItemName              string                 `json:"itemName" bson:"itemName"`
	Description           string                 `json:"description" bson:"description"`
	Color                 string                 `json:"color" bson:"color"`
	Location              string                 `json:"location" bson:"location"`
	DateLost              primitive.DateTime     `json:"dateLost" bson:"dateLost"`
	TimeLost              string                 `json:"timeLost" bson:"timeLost"`
	Images                []string               `json:"images" bson:"images"`
	VerificationQuestions []VerificationQuestion `json:"verificationQuestions,omitempty" bson:"verificationQuestions"`
	Status                LostItemStatus         `json:"status" bson:"status"`
	MatchedFoundItems     []MatchedFoundItem     `json:"matchedFoundItems" bson:"matchedFoundItems"`
	CreatedAt             primitive.DateTime     `json:"createdAt" bson:"createdAt"`
	UpdatedAt             primitive.DateTime     `json:"updatedAt" bson:"updatedAt"`
}

// VerificationQuestion is an owner-authored question/answer pair used to vet
// claimants. Answers must only ever be serialized for the owner or an admin.
type VerificationQuestion struct {
	Question string `json:"question" bson:"question"`
	Answer   string `json:"answer,omitempty" bson:"answer"`
}

// MatchedFoundItem is one entry of the stored match snapshot on a lost item
type MatchedFoundItem struct {
	FoundItemID primitive.ObjectID `json:"foundItem" bson:"foundItem"`
	MatchScore  int                `json:"matchScore" bson:"matchScore"`
}

// RedactQuestions strips the answers from the verification questions so the
// remainder is safe to show to claimants and other readers
func (d LostItemDetails) RedactQuestions() []VerificationQuestion {
	if len(d.VerificationQuestions) == 0 {
		return nil
	}
	redacted := make([]VerificationQuestion, len(d.VerificationQuestions))
	for i, q := range d.VerificationQuestions {
		redacted[i] = VerificationQuestion{Question: q.Question}
	}
	return redacted
}
