package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// FoundItemStatus is the lifecycle status of a found item report
type FoundItemStatus string

// Found item statuses, driven exclusively by claim events
const (
	FoundItemAvailable FoundItemStatus = "available"
	FoundItemClaimed   FoundItemStatus = "claimed"
	FoundItemReturned  FoundItemStatus = "returned"
)

// FoundItem holds the structure for the foundItems collection in MongoDB
type FoundItem struct {
	ID      primitive.ObjectID `json:"_id" bson:"_id"`
	Details FoundItemDetails   `json:"foundItem" bson:"foundItem"`
	Version int32              `json:"__v" bson:"__v"`
}

// FoundItemDetails holds the structure for the inner found item details
type FoundItemDetails struct {
	UserID           string             `json:"userID,omitempty" bson:"userID"`
	IsAnonymous      bool               `json:"isAnonymous" bson:"isAnonymous"`
	AnonymousContact string             `json:"anonymousContact,omitempty" bson:"anonymousContact"`
	Category         string             `json:"category" bson:"category"`
	ItemName         string             `json:"itemName" bson:"itemName"`
	Description      string             `json:"description" bson:"description"`
	Color            string             `json:"color" bson:"color"`
	Location         string             `json:"location" bson:"location"`
	DateFound        primitive.DateTime `json:"dateFound" bson:"dateFound"`
	TimeFound        string             `json:"timeFound" bson:"timeFound"`
	Images           []string           `json:"images" bson:"images"`
	CurrentLocation  string             `json:"currentLocation" bson:"currentLocation"`
	Status           FoundItemStatus    `json:"status" bson:"status"`
	ClaimedBy        string             `json:"claimedBy,omitempty" bson:"claimedBy"`
	CreatedAt        primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt        primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// Reporter identifies who reported a found item: either a registered user or
// an anonymous finder reachable through a contact string. Consumers must
// handle both arms; there is no nil case.
type Reporter struct {
	ownerID string
	contact string
}

// OwnedBy builds the reporter variant for a registered user
func OwnedBy(userID string) Reporter {
	return Reporter{ownerID: userID}
}

// AnonymousReporter builds the reporter variant for an anonymous finder
func AnonymousReporter(contact string) Reporter {
	return Reporter{contact: contact}
}

// OwnerID returns the reporting user's ID, false for anonymous reports
func (r Reporter) OwnerID() (string, bool) {
	if r.ownerID == "" {
		return "", false
	}
	return r.ownerID, true
}

// Contact returns the anonymous contact string, false for owned reports
func (r Reporter) Contact() (string, bool) {
	if r.ownerID != "" {
		return "", false
	}
	return r.contact, true
}

// Reporter returns the tagged reporter variant for this report
func (d FoundItemDetails) Reporter() Reporter {
	if d.IsAnonymous {
		return AnonymousReporter(d.AnonymousContact)
	}
	return OwnedBy(d.UserID)
}
