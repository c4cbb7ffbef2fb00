package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/campusfind/lost-and-found-api/api"
	"github.com/campusfind/lost-and-found-api/claims"
	"github.com/campusfind/lost-and-found-api/config"
	"github.com/campusfind/lost-and-found-api/databases"
	"github.com/campusfind/lost-and-found-api/matching"
	"github.com/campusfind/lost-and-found-api/models"
)

// LostItem exported for testing purposes
type LostItem struct {
	DB      databases.LostItemDatabase
	FoundDB databases.FoundItemDatabase
	Engine  *matching.Engine
}

// PaginatedLostItemsResponse holds the structure for paginated lost item lists
type PaginatedLostItemsResponse struct {
	Page       int               `json:"page"`
	TotalCount int64             `json:"totalCount"`
	Data       []models.LostItem `json:"data"`
}

// CreateLostItemResponse is returned by the create endpoint. Matches is the
// result of the synchronous matching run against the available pool.
type CreateLostItemResponse struct {
	Data    models.LostItem      `json:"data"`
	Matches []models.MatchResult `json:"matches"`
}

// CreateLostItemHandler files a lost item report, runs the matcher against
// every available found item and stores the match snapshot on the report
func (l LostItem) CreateLostItemHandler(w http.ResponseWriter, r *http.Request) {
	ident, ok := api.IdentityFromContext(r.Context())
	if !ok {
		config.ErrorStatus("not authenticated", http.StatusUnauthorized, w, nil)
		return
	}

	var details models.LostItemDetails
	if err := json.NewDecoder(r.Body).Decode(&details); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if err := validateLostItemDetails(details); err != nil {
		config.ErrorStatus(err.Error(), http.StatusBadRequest, w, nil)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	now := primitive.NewDateTimeFromTime(time.Now().UTC())
	details.UserID = ident.UserID
	details.Status = models.LostItemActive
	details.CreatedAt = now
	details.UpdatedAt = now

	pool, err := l.FoundDB.Find(ctx, bson.M{"foundItem.status": models.FoundItemAvailable})
	if err != nil {
		config.ErrorStatus("failed to load found items for matching", http.StatusInternalServerError, w, err)
		return
	}

	matches := l.Engine.RankMatches(details, pool)
	details.MatchedFoundItems = make([]models.MatchedFoundItem, 0, len(matches))
	for _, match := range matches {
		details.MatchedFoundItems = append(details.MatchedFoundItems, models.MatchedFoundItem{
			FoundItemID: match.FoundItem.ID,
			MatchScore:  match.MatchScore,
		})
	}

	lostItem := models.LostItem{
		ID:      primitive.NewObjectID(),
		Details: details,
	}
	if _, err := l.DB.InsertOne(ctx, lostItem); err != nil {
		config.ErrorStatus("failed to create lost item", http.StatusInternalServerError, w, err)
		return
	}

	zap.S().Infow("lost item reported",
		"lostItemID", lostItem.ID.Hex(),
		"userID", ident.UserID,
		"matches", len(matches))

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(CreateLostItemResponse{Data: lostItem, Matches: matches})
}

// LostItemsHandler lists lost item reports. Closed reports are excluded
// unless a status filter asks for them; verification questions are never
// included in list responses.
func (l LostItem) LostItemsHandler(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if category := r.URL.Query().Get("category"); category != "" {
		filter["lostItem.category"] = category
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["lostItem.status"] = status
	} else {
		filter["lostItem.status"] = bson.M{"$ne": models.LostItemClosed}
	}
	if location := r.URL.Query().Get("location"); location != "" {
		filter["lostItem.location"] = primitive.Regex{Pattern: location, Options: "i"}
	}
	if userID := r.URL.Query().Get("userId"); userID != "" {
		filter["lostItem.userID"] = userID
	}

	Limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || Limit <= 0 {
		Limit = 10
	}
	Page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		Page = 0
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	totalCount, err := l.DB.CountDocuments(ctx, filter)
	if err != nil {
		config.ErrorStatus("failed to get total count of lost items", http.StatusInternalServerError, w, err)
		return
	}

	dbResp, err := l.DB.Find(ctx, filter, databases.PaginateOptions(Limit, Page))
	if err != nil {
		config.ErrorStatus("failed to get lost items", http.StatusNotFound, w, err)
		return
	}

	if len(dbResp) == 0 {
		dbResp = []models.LostItem{}
	}
	for i := range dbResp {
		dbResp[i].Details.VerificationQuestions = nil
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(PaginatedLostItemsResponse{
		Page:       Page,
		TotalCount: totalCount,
		Data:       dbResp,
	})
}

// LostItemByIDHandler retrieves a lost item report by its ID. Verification
// answers are stripped unless the caller owns the report or is an admin.
func (l LostItem) LostItemByIDHandler(w http.ResponseWriter, r *http.Request) {
	lostItemID := mux.Vars(r)["lost_item_id"]

	lID, err := primitive.ObjectIDFromHex(lostItemID)
	if err != nil {
		config.ErrorStatus("invalid lost item ID", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	lostItem, err := l.DB.FindOne(ctx, bson.M{"_id": lID})
	if err != nil {
		config.ErrorStatus("failed to find lost item", http.StatusNotFound, w, err)
		return
	}

	ident, ok := api.IdentityFromContext(r.Context())
	if !ok || (lostItem.Details.UserID != ident.UserID && !ident.Admin) {
		lostItem.Details.VerificationQuestions = lostItem.Details.RedactQuestions()
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(lostItem)
}

// LostItemMatchesHandler re-runs the matcher for a lost item against the
// current pool of available found items
func (l LostItem) LostItemMatchesHandler(w http.ResponseWriter, r *http.Request) {
	lostItemID := mux.Vars(r)["lost_item_id"]

	lID, err := primitive.ObjectIDFromHex(lostItemID)
	if err != nil {
		config.ErrorStatus("invalid lost item ID", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	lostItem, err := l.DB.FindOne(ctx, bson.M{"_id": lID})
	if err != nil {
		config.ErrorStatus("failed to find lost item", http.StatusNotFound, w, err)
		return
	}

	pool, err := l.FoundDB.Find(ctx, bson.M{"foundItem.status": models.FoundItemAvailable})
	if err != nil {
		config.ErrorStatus("failed to load found items for matching", http.StatusInternalServerError, w, err)
		return
	}

	matches := l.Engine.RankMatches(lostItem.Details, pool)

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"count": len(matches),
		"data":  matches,
	})
}

// MyLostItemsHandler returns the authenticated user's lost item reports
func (l LostItem) MyLostItemsHandler(w http.ResponseWriter, r *http.Request) {
	ident, ok := api.IdentityFromContext(r.Context())
	if !ok {
		config.ErrorStatus("not authenticated", http.StatusUnauthorized, w, nil)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := l.DB.Find(ctx, bson.M{"lostItem.userID": ident.UserID})
	if err != nil {
		config.ErrorStatus("failed to get lost items", http.StatusNotFound, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.LostItem{}
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(dbResp)
}

// UpdateLostItemHandler updates a lost item report. Only the owner or an
// admin may update; status changes must follow the allowed transitions,
// which is also how a report gets closed.
func (l LostItem) UpdateLostItemHandler(w http.ResponseWriter, r *http.Request) {
	lostItemID := mux.Vars(r)["lost_item_id"]

	lID, err := primitive.ObjectIDFromHex(lostItemID)
	if err != nil {
		config.ErrorStatus("invalid lost item ID", http.StatusBadRequest, w, err)
		return
	}

	ident, ok := api.IdentityFromContext(r.Context())
	if !ok {
		config.ErrorStatus("not authenticated", http.StatusUnauthorized, w, nil)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	lostItem, err := l.DB.FindOne(ctx, bson.M{"_id": lID})
	if err != nil {
		config.ErrorStatus("failed to find lost item", http.StatusNotFound, w, err)
		return
	}

	if lostItem.Details.UserID != ident.UserID && !ident.Admin {
		config.ErrorStatus("not authorized to update this item", http.StatusForbidden, w, nil)
		return
	}

	var update models.LostItemDetails
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	set := bson.M{"lostItem.updatedAt": primitive.NewDateTimeFromTime(time.Now().UTC())}
	if update.ItemName != "" {
		set["lostItem.itemName"] = update.ItemName
	}
	if update.Description != "" {
		set["lostItem.description"] = update.Description
	}
	if update.Category != "" {
		if !models.IsValidCategory(update.Category) {
			config.ErrorStatus("invalid category", http.StatusBadRequest, w, nil)
			return
		}
		set["lostItem.category"] = update.Category
	}
	if update.Color != "" {
		set["lostItem.color"] = update.Color
	}
	if update.Location != "" {
		set["lostItem.location"] = update.Location
	}
	if update.TimeLost != "" {
		set["lostItem.timeLost"] = update.TimeLost
	}
	if len(update.Images) > 0 {
		set["lostItem.images"] = append(lostItem.Details.Images, update.Images...)
	}
	if len(update.VerificationQuestions) > 0 {
		set["lostItem.verificationQuestions"] = update.VerificationQuestions
	}
	if update.Status != "" && update.Status != lostItem.Details.Status {
		if !claims.CanTransitionLostItem(lostItem.Details.Status, update.Status) {
			config.ErrorStatus("invalid status transition", http.StatusConflict, w, nil)
			return
		}
		set["lostItem.status"] = update.Status
	}

	if _, err := l.DB.UpdateOne(ctx, bson.M{"_id": lID}, bson.M{"$set": set}); err != nil {
		config.ErrorStatus("failed to update lost item", http.StatusInternalServerError, w, err)
		return
	}

	updated, err := l.DB.FindOne(ctx, bson.M{"_id": lID})
	if err != nil {
		config.ErrorStatus("failed to find lost item", http.StatusNotFound, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(updated)
}

// DeleteLostItemHandler deletes a lost item report. Owner or admin only.
func (l LostItem) DeleteLostItemHandler(w http.ResponseWriter, r *http.Request) {
	lostItemID := mux.Vars(r)["lost_item_id"]

	lID, err := primitive.ObjectIDFromHex(lostItemID)
	if err != nil {
		config.ErrorStatus("invalid lost item ID", http.StatusBadRequest, w, err)
		return
	}

	ident, ok := api.IdentityFromContext(r.Context())
	if !ok {
		config.ErrorStatus("not authenticated", http.StatusUnauthorized, w, nil)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	lostItem, err := l.DB.FindOne(ctx, bson.M{"_id": lID})
	if err != nil {
		config.ErrorStatus("failed to find lost item", http.StatusNotFound, w, err)
		return
	}

	if lostItem.Details.UserID != ident.UserID && !ident.Admin {
		config.ErrorStatus("not authorized to delete this item", http.StatusForbidden, w, nil)
		return
	}

	if err := l.DB.DeleteOne(ctx, bson.M{"_id": lID}); err != nil {
		config.ErrorStatus("failed to delete lost item", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "lost item deleted successfully"})
}

func validateLostItemDetails(details models.LostItemDetails) error {
	switch {
	case details.Category == "":
		return errRequired("category")
	case !models.IsValidCategory(details.Category):
		return errInvalid("category")
	case details.ItemName == "":
		return errRequired("itemName")
	case details.Description == "":
		return errRequired("description")
	case details.Color == "":
		return errRequired("color")
	case details.Location == "":
		return errRequired("location")
	case details.DateLost == 0:
		return errRequired("dateLost")
	case details.DateLost.Time().After(time.Now().Add(time.Minute)):
		return errFuture("dateLost")
	}
	return nil
}
