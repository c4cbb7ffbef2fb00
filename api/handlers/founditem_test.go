package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/campusfind/lost-and-found-api/databases/mocks"
	"github.com/campusfind/lost-and-found-api/models"
)

func validFoundDetails() models.FoundItemDetails {
	return models.FoundItemDetails{
		Category:        "Accessories",
		ItemName:        "Blue Umbrella",
		Description:     "Compact umbrella with wooden handle",
		Color:           "Blue",
		Location:        "Cafeteria",
		DateFound:       primitive.NewDateTimeFromTime(time.Now().Add(-time.Hour)),
		CurrentLocation: "Security Office",
	}
}

func TestCreateFoundItemHandler(t *testing.T) {
	foundDB := mocks.NewFoundItemDatabase(t)
	foundDB.On("InsertOne", mock.Anything, mock.AnythingOfType("models.FoundItem")).Return(nil, nil)

	handler := FoundItem{DB: foundDB}

	body, _ := json.Marshal(validFoundDetails())

	w := httptest.NewRecorder()
	handler.CreateFoundItemHandler(w, authedRequest("POST", "/api/v1/found-items", body, models.Identity{UserID: "finder-1"}))

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp models.FoundItem
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "finder-1", resp.Details.UserID)
	assert.Equal(t, models.FoundItemAvailable, resp.Details.Status)
	assert.Empty(t, resp.Details.ClaimedBy)
}

func TestCreateFoundItemHandlerAnonymous(t *testing.T) {
	foundDB := mocks.NewFoundItemDatabase(t)
	foundDB.On("InsertOne", mock.Anything, mock.AnythingOfType("models.FoundItem")).Return(nil, nil)

	handler := FoundItem{DB: foundDB}

	details := validFoundDetails()
	details.IsAnonymous = true
	details.AnonymousContact = "front desk, ext 4410"
	body, _ := json.Marshal(details)

	req := httptest.NewRequest("POST", "/api/v1/found-items", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	handler.CreateFoundItemHandler(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp models.FoundItem
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Empty(t, resp.Details.UserID)
	assert.True(t, resp.Details.IsAnonymous)
	contact, ok := resp.Details.Reporter().Contact()
	assert.True(t, ok)
	assert.Equal(t, "front desk, ext 4410", contact)
}

func TestCreateFoundItemHandlerAnonymousMissingContact(t *testing.T) {
	handler := FoundItem{}

	details := validFoundDetails()
	details.IsAnonymous = true
	body, _ := json.Marshal(details)

	req := httptest.NewRequest("POST", "/api/v1/found-items", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	handler.CreateFoundItemHandler(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateFoundItemHandlerUnauthenticated(t *testing.T) {
	handler := FoundItem{}

	body, _ := json.Marshal(validFoundDetails())

	req := httptest.NewRequest("POST", "/api/v1/found-items", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	handler.CreateFoundItemHandler(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateFoundItemHandlerMissingCurrentLocation(t *testing.T) {
	handler := FoundItem{}

	details := validFoundDetails()
	details.CurrentLocation = ""
	body, _ := json.Marshal(details)

	w := httptest.NewRecorder()
	handler.CreateFoundItemHandler(w, authedRequest("POST", "/api/v1/found-items", body, models.Identity{UserID: "finder-1"}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateFoundItemHandlerAnonymousReportAdminOnly(t *testing.T) {
	foundID := primitive.NewObjectID()

	foundDB := mocks.NewFoundItemDatabase(t)
	foundDB.On("FindOne", mock.Anything, mock.Anything).
		Return(&models.FoundItem{ID: foundID, Details: models.FoundItemDetails{
			IsAnonymous:      true,
			AnonymousContact: "front desk",
			Status:           models.FoundItemAvailable,
		}}, nil)

	handler := FoundItem{DB: foundDB}

	body, _ := json.Marshal(models.FoundItemDetails{Description: "updated"})
	req := authedRequest("PUT", "/api/v1/found-items/"+foundID.Hex(), body, models.Identity{UserID: "finder-1"})
	req = mux.SetURLVars(req, map[string]string{"found_item_id": foundID.Hex()})

	w := httptest.NewRecorder()
	handler.UpdateFoundItemHandler(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteFoundItemHandlerByReporter(t *testing.T) {
	foundID := primitive.NewObjectID()

	foundDB := mocks.NewFoundItemDatabase(t)
	foundDB.On("FindOne", mock.Anything, mock.Anything).
		Return(&models.FoundItem{ID: foundID, Details: models.FoundItemDetails{
			UserID: "finder-1",
			Status: models.FoundItemAvailable,
		}}, nil)
	foundDB.On("DeleteOne", mock.Anything, mock.Anything).Return(nil)

	handler := FoundItem{DB: foundDB}

	req := authedRequest("DELETE", "/api/v1/found-items/"+foundID.Hex(), nil, models.Identity{UserID: "finder-1"})
	req = mux.SetURLVars(req, map[string]string{"found_item_id": foundID.Hex()})

	w := httptest.NewRecorder()
	handler.DeleteFoundItemHandler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
