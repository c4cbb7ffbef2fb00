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
	"github.com/campusfind/lost-and-found-api/config"
	"github.com/campusfind/lost-and-found-api/databases"
	"github.com/campusfind/lost-and-found-api/models"
)

// FoundItem exported for testing purposes
type FoundItem struct {
	DB databases.FoundItemDatabase
}

// PaginatedFoundItemsResponse holds the structure for paginated found item lists
type PaginatedFoundItemsResponse struct {
	Page       int                `json:"page"`
	TotalCount int64              `json:"totalCount"`
	Data       []models.FoundItem `json:"data"`
}

// CreateFoundItemHandler registers a found item. Anonymous drop-offs are
// allowed when a contact string is supplied; otherwise the finder must be
// logged in.
func (f FoundItem) CreateFoundItemHandler(w http.ResponseWriter, r *http.Request) {
	var details models.FoundItemDetails
	if err := json.NewDecoder(r.Body).Decode(&details); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ident, authed := api.IdentityFromContext(r.Context())
	if details.IsAnonymous {
		if details.AnonymousContact == "" {
			config.ErrorStatus("anonymousContact is required for anonymous reports", http.StatusBadRequest, w, nil)
			return
		}
		details.UserID = ""
	} else {
		if !authed {
			config.ErrorStatus("please login or report anonymously", http.StatusUnauthorized, w, nil)
			return
		}
		details.UserID = ident.UserID
		details.AnonymousContact = ""
	}

	if err := validateFoundItemDetails(details); err != nil {
		config.ErrorStatus(err.Error(), http.StatusBadRequest, w, nil)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	now := primitive.NewDateTimeFromTime(time.Now().UTC())
	details.Status = models.FoundItemAvailable
	details.ClaimedBy = ""
	details.CreatedAt = now
	details.UpdatedAt = now

	foundItem := models.FoundItem{
		ID:      primitive.NewObjectID(),
		Details: details,
	}
	if _, err := f.DB.InsertOne(ctx, foundItem); err != nil {
		config.ErrorStatus("failed to create found item", http.StatusInternalServerError, w, err)
		return
	}

	zap.S().Infow("found item reported",
		"foundItemID", foundItem.ID.Hex(),
		"anonymous", details.IsAnonymous)

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(foundItem)
}

// FoundItemsHandler lists found item reports. Only available items are
// returned unless a status filter says otherwise.
func (f FoundItem) FoundItemsHandler(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if category := r.URL.Query().Get("category"); category != "" {
		filter["foundItem.category"] = category
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["foundItem.status"] = status
	} else {
		filter["foundItem.status"] = models.FoundItemAvailable
	}
	if location := r.URL.Query().Get("location"); location != "" {
		filter["foundItem.location"] = primitive.Regex{Pattern: location, Options: "i"}
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

	totalCount, err := f.DB.CountDocuments(ctx, filter)
	if err != nil {
		config.ErrorStatus("failed to get total count of found items", http.StatusInternalServerError, w, err)
		return
	}

	dbResp, err := f.DB.Find(ctx, filter, databases.PaginateOptions(Limit, Page))
	if err != nil {
		config.ErrorStatus("failed to get found items", http.StatusNotFound, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.FoundItem{}
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(PaginatedFoundItemsResponse{
		Page:       Page,
		TotalCount: totalCount,
		Data:       dbResp,
	})
}

// FoundItemByIDHandler retrieves a found item report by its ID
func (f FoundItem) FoundItemByIDHandler(w http.ResponseWriter, r *http.Request) {
	foundItemID := mux.Vars(r)["found_item_id"]

	fID, err := primitive.ObjectIDFromHex(foundItemID)
	if err != nil {
		config.ErrorStatus("invalid found item ID", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	foundItem, err := f.DB.FindOne(ctx, bson.M{"_id": fID})
	if err != nil {
		config.ErrorStatus("failed to find found item", http.StatusNotFound, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(foundItem)
}

// MyFoundItemsHandler returns the authenticated user's found item reports
func (f FoundItem) MyFoundItemsHandler(w http.ResponseWriter, r *http.Request) {
	ident, ok := api.IdentityFromContext(r.Context())
	if !ok {
		config.ErrorStatus("not authenticated", http.StatusUnauthorized, w, nil)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := f.DB.Find(ctx, bson.M{"foundItem.userID": ident.UserID})
	if err != nil {
		config.ErrorStatus("failed to get found items", http.StatusNotFound, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.FoundItem{}
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(dbResp)
}

// UpdateFoundItemHandler updates a found item report. The reporting user or
// an admin may update; anonymous reports can only be edited by an admin.
// Status is owned by the claim lifecycle and cannot be set here.
func (f FoundItem) UpdateFoundItemHandler(w http.ResponseWriter, r *http.Request) {
	foundItemID := mux.Vars(r)["found_item_id"]

	fID, err := primitive.ObjectIDFromHex(foundItemID)
	if err != nil {
		config.ErrorStatus("invalid found item ID", http.StatusBadRequest, w, err)
		return
	}

	ident, ok := api.IdentityFromContext(r.Context())
	if !ok {
		config.ErrorStatus("not authenticated", http.StatusUnauthorized, w, nil)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	foundItem, err := f.DB.FindOne(ctx, bson.M{"_id": fID})
	if err != nil {
		config.ErrorStatus("failed to find found item", http.StatusNotFound, w, err)
		return
	}

	if !canManageFoundItem(foundItem.Details, ident) {
		config.ErrorStatus("not authorized to update this item", http.StatusForbidden, w, nil)
		return
	}

	var update models.FoundItemDetails
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	set := bson.M{"foundItem.updatedAt": primitive.NewDateTimeFromTime(time.Now().UTC())}
	if update.ItemName != "" {
		set["foundItem.itemName"] = update.ItemName
	}
	if update.Description != "" {
		set["foundItem.description"] = update.Description
	}
	if update.Category != "" {
		if !models.IsValidCategory(update.Category) {
			config.ErrorStatus("invalid category", http.StatusBadRequest, w, nil)
			return
		}
		set["foundItem.category"] = update.Category
	}
	if update.Color != "" {
		set["foundItem.color"] = update.Color
	}
	if update.Location != "" {
		set["foundItem.location"] = update.Location
	}
	if update.TimeFound != "" {
		set["foundItem.timeFound"] = update.TimeFound
	}
	if update.CurrentLocation != "" {
		set["foundItem.currentLocation"] = update.CurrentLocation
	}
	if len(update.Images) > 0 {
		set["foundItem.images"] = append(foundItem.Details.Images, update.Images...)
	}

	if _, err := f.DB.UpdateOne(ctx, bson.M{"_id": fID}, bson.M{"$set": set}); err != nil {
		config.ErrorStatus("failed to update found item", http.StatusInternalServerError, w, err)
		return
	}

	updated, err := f.DB.FindOne(ctx, bson.M{"_id": fID})
	if err != nil {
		config.ErrorStatus("failed to find found item", http.StatusNotFound, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(updated)
}

// DeleteFoundItemHandler deletes a found item report. Reporting user or
// admin only; anonymous reports require an admin.
func (f FoundItem) DeleteFoundItemHandler(w http.ResponseWriter, r *http.Request) {
	foundItemID := mux.Vars(r)["found_item_id"]

	fID, err := primitive.ObjectIDFromHex(foundItemID)
	if err != nil {
		config.ErrorStatus("invalid found item ID", http.StatusBadRequest, w, err)
		return
	}

	ident, ok := api.IdentityFromContext(r.Context())
	if !ok {
		config.ErrorStatus("not authenticated", http.StatusUnauthorized, w, nil)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	foundItem, err := f.DB.FindOne(ctx, bson.M{"_id": fID})
	if err != nil {
		config.ErrorStatus("failed to find found item", http.StatusNotFound, w, err)
		return
	}

	if !canManageFoundItem(foundItem.Details, ident) {
		config.ErrorStatus("not authorized to delete this item", http.StatusForbidden, w, nil)
		return
	}

	if err := f.DB.DeleteOne(ctx, bson.M{"_id": fID}); err != nil {
		config.ErrorStatus("failed to delete found item", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "found item deleted successfully"})
}

func canManageFoundItem(details models.FoundItemDetails, ident models.Identity) bool {
	if ident.Admin {
		return true
	}
	ownerID, ok := details.Reporter().OwnerID()
	return ok && ownerID == ident.UserID
}

func validateFoundItemDetails(details models.FoundItemDetails) error {
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
	case details.DateFound == 0:
		return errRequired("dateFound")
	case details.DateFound.Time().After(time.Now().Add(time.Minute)):
		return errFuture("dateFound")
	case details.CurrentLocation == "":
		return errRequired("currentLocation")
	}
	return nil
}
