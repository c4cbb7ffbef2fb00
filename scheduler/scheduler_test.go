package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/campusfind/lost-and-found-api/databases/mocks"
	"github.com/campusfind/lost-and-found-api/matching"
	"github.com/campusfind/lost-and-found-api/models"
)

func updateResult(t *testing.T, matched int64) *mocks.UpdateResultHelper {
	ur := mocks.NewUpdateResultHelper(t)
	ur.On("MatchedCount").Return(matched).Maybe()
	ur.On("ModifiedCount").Return(matched).Maybe()
	return ur
}

func TestReconcileClaimedItems(t *testing.T) {
	strandedID := primitive.NewObjectID()
	backedID := primitive.NewObjectID()

	foundDB := mocks.NewFoundItemDatabase(t)
	claimDB := mocks.NewClaimDatabase(t)

	foundDB.On("Find", mock.Anything, bson.M{"foundItem.status": models.FoundItemClaimed}).
		Return([]models.FoundItem{
			{ID: strandedID, Details: models.FoundItemDetails{Status: models.FoundItemClaimed}},
			{ID: backedID, Details: models.FoundItemDetails{Status: models.FoundItemClaimed}},
		}, nil)

	claimDB.On("CountDocuments", mock.Anything, bson.M{
		"claim.foundItem": strandedID,
		"claim.status":    models.ClaimPending,
	}).Return(int64(0), nil)
	claimDB.On("CountDocuments", mock.Anything, bson.M{
		"claim.foundItem": backedID,
		"claim.status":    models.ClaimPending,
	}).Return(int64(1), nil)

	// only the stranded item is released, and only while still claimed
	foundDB.On("UpdateOne", mock.Anything,
		bson.M{"_id": strandedID, "foundItem.status": models.FoundItemClaimed},
		mock.MatchedBy(func(update bson.M) bool {
			set := update["$set"].(bson.M)
			return set["foundItem.status"] == models.FoundItemAvailable
		}),
	).Return(updateResult(t, 1), nil)

	s := &Scheduler{FoundItems: foundDB, Claims: claimDB}
	s.reconcileClaimedItems()
}

func TestRefreshMatchSnapshots(t *testing.T) {
	lostID := primitive.NewObjectID()
	foundID := primitive.NewObjectID()
	dateLost := primitive.NewDateTimeFromTime(time.Now().Add(-3 * time.Hour))

	lostDB := mocks.NewLostItemDatabase(t)
	foundDB := mocks.NewFoundItemDatabase(t)
	userDB := mocks.NewUserDatabase(t)

	lostDB.On("Find", mock.Anything, bson.M{"lostItem.status": models.LostItemActive}).
		Return([]models.LostItem{
			{ID: lostID, Details: models.LostItemDetails{
				UserID:   "owner-1",
				Category: "Electronics",
				ItemName: "iPhone 13",
				Color:    "Black",
				Location: "Library",
				DateLost: dateLost,
				Status:   models.LostItemActive,
			}},
		}, nil)
	foundDB.On("Find", mock.Anything, bson.M{"foundItem.status": models.FoundItemAvailable}).
		Return([]models.FoundItem{
			{ID: foundID, Details: models.FoundItemDetails{
				Category:  "Electronics",
				Color:     "Black",
				Location:  "Library",
				DateFound: dateLost,
				Status:    models.FoundItemAvailable,
			}},
		}, nil)

	lostDB.On("UpdateOne", mock.Anything, bson.M{"_id": lostID},
		mock.MatchedBy(func(update bson.M) bool {
			set := update["$set"].(bson.M)
			snapshot, ok := set["lostItem.matchedFoundItems"].([]models.MatchedFoundItem)
			return ok && len(snapshot) == 1 && snapshot[0].FoundItemID == foundID
		}),
	).Return(updateResult(t, 1), nil)

	// the owner lookup for the new-match notification must complete before
	// the job returns; an empty email short-circuits the actual send
	userDB.On("FindOne", mock.Anything, bson.M{"_id": "owner-1"}).
		Return(&models.User{ID: "owner-1"}, nil)

	s := &Scheduler{
		LostItems:  lostDB,
		FoundItems: foundDB,
		Users:      userDB,
		Engine:     matching.New(matching.DefaultConfig()),
	}
	s.refreshMatchSnapshots()

	assert.True(t, userDB.AssertCalled(t, "FindOne", mock.Anything, bson.M{"_id": "owner-1"}))
}
