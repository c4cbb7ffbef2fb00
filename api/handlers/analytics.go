package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/campusfind/lost-and-found-api/api"
	"github.com/campusfind/lost-and-found-api/config"
	"github.com/campusfind/lost-and-found-api/databases"
	"github.com/campusfind/lost-and-found-api/models"
)

// Analytics exported for testing purposes
type Analytics struct {
	LDB databases.LostItemDatabase
	FDB databases.FoundItemDatabase
	CDB databases.ClaimDatabase
}

type bucketCount struct {
	ID    string `json:"name" bson:"_id"`
	Count int64  `json:"count" bson:"count"`
}

// DashboardResponse is the admin dashboard rollup
type DashboardResponse struct {
	TotalLostItems    int64         `json:"totalLostItems"`
	ActiveLostItems   int64         `json:"activeLostItems"`
	ReturnedLostItems int64         `json:"returnedLostItems"`
	TotalFoundItems   int64         `json:"totalFoundItems"`
	AvailableItems    int64         `json:"availableItems"`
	TotalClaims       int64         `json:"totalClaims"`
	PendingClaims     int64         `json:"pendingClaims"`
	ApprovedClaims    int64         `json:"approvedClaims"`
	RejectedClaims    int64         `json:"rejectedClaims"`
	SuccessRate       float64       `json:"successRate"`
	RecentLostItems   int64         `json:"recentLostItems"`
	RecentFoundItems  int64         `json:"recentFoundItems"`
	TopCategories     []bucketCount `json:"topCategories"`
	TopLocations      []bucketCount `json:"topLocations"`
}

// DashboardHandler aggregates claim and report counts for the admin console
func (a Analytics) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	var resp DashboardResponse
	var err error

	if resp.TotalLostItems, err = a.LDB.CountDocuments(ctx, bson.M{}); err != nil {
		config.ErrorStatus("failed to count lost items", http.StatusInternalServerError, w, err)
		return
	}
	if resp.ActiveLostItems, err = a.LDB.CountDocuments(ctx, bson.M{"lostItem.status": models.LostItemActive}); err != nil {
		config.ErrorStatus("failed to count active lost items", http.StatusInternalServerError, w, err)
		return
	}
	if resp.ReturnedLostItems, err = a.LDB.CountDocuments(ctx, bson.M{"lostItem.status": models.LostItemReturned}); err != nil {
		config.ErrorStatus("failed to count returned lost items", http.StatusInternalServerError, w, err)
		return
	}
	if resp.TotalFoundItems, err = a.FDB.CountDocuments(ctx, bson.M{}); err != nil {
		config.ErrorStatus("failed to count found items", http.StatusInternalServerError, w, err)
		return
	}
	if resp.AvailableItems, err = a.FDB.CountDocuments(ctx, bson.M{"foundItem.status": models.FoundItemAvailable}); err != nil {
		config.ErrorStatus("failed to count available found items", http.StatusInternalServerError, w, err)
		return
	}
	if resp.TotalClaims, err = a.CDB.CountDocuments(ctx, bson.M{}); err != nil {
		config.ErrorStatus("failed to count claims", http.StatusInternalServerError, w, err)
		return
	}
	if resp.PendingClaims, err = a.CDB.CountDocuments(ctx, bson.M{"claim.status": models.ClaimPending}); err != nil {
		config.ErrorStatus("failed to count pending claims", http.StatusInternalServerError, w, err)
		return
	}
	if resp.ApprovedClaims, err = a.CDB.CountDocuments(ctx, bson.M{"claim.status": models.ClaimApproved}); err != nil {
		config.ErrorStatus("failed to count approved claims", http.StatusInternalServerError, w, err)
		return
	}
	if resp.RejectedClaims, err = a.CDB.CountDocuments(ctx, bson.M{"claim.status": models.ClaimRejected}); err != nil {
		config.ErrorStatus("failed to count rejected claims", http.StatusInternalServerError, w, err)
		return
	}

	// success is a lost report making it all the way to returned, not a
	// claim getting approved
	if resp.TotalLostItems > 0 {
		resp.SuccessRate = float64(resp.ReturnedLostItems) / float64(resp.TotalLostItems) * 100
	}

	since := primitive.NewDateTimeFromTime(time.Now().UTC().AddDate(0, 0, -30))
	if resp.RecentLostItems, err = a.LDB.CountDocuments(ctx, bson.M{"lostItem.createdAt": bson.M{"$gte": since}}); err != nil {
		config.ErrorStatus("failed to count recent lost items", http.StatusInternalServerError, w, err)
		return
	}
	if resp.RecentFoundItems, err = a.FDB.CountDocuments(ctx, bson.M{"foundItem.createdAt": bson.M{"$gte": since}}); err != nil {
		config.ErrorStatus("failed to count recent found items", http.StatusInternalServerError, w, err)
		return
	}

	if resp.TopCategories, err = a.topBuckets(ctx, "$lostItem.category"); err != nil {
		config.ErrorStatus("failed to aggregate categories", http.StatusInternalServerError, w, err)
		return
	}
	if resp.TopLocations, err = a.topBuckets(ctx, "$lostItem.location"); err != nil {
		config.ErrorStatus("failed to aggregate locations", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

func (a Analytics) topBuckets(ctx context.Context, field string) ([]bucketCount, error) {
	pipeline := []bson.M{
		{"$group": bson.M{"_id": field, "count": bson.M{"$sum": 1}}},
		{"$sort": bson.M{"count": -1}},
		{"$limit": 5},
	}

	cursor, err := a.LDB.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}

	var buckets []bucketCount
	if err := cursor.Decode(&buckets); err != nil {
		return nil, err
	}
	if buckets == nil {
		buckets = []bucketCount{}
	}
	return buckets, nil
}
