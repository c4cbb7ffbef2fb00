package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/campusfind/lost-and-found-api/api"
	"github.com/campusfind/lost-and-found-api/claims"
	"github.com/campusfind/lost-and-found-api/databases/mocks"
	"github.com/campusfind/lost-and-found-api/models"
)

func authedRequest(method, target string, body []byte, ident models.Identity) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewBuffer(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(api.WithIdentity(context.Background(), ident))
}

func matchedUpdate(t *testing.T, matched int64) *mocks.UpdateResultHelper {
	res := mocks.NewUpdateResultHelper(t)
	res.On("MatchedCount").Return(matched).Maybe()
	res.On("ModifiedCount").Return(matched).Maybe()
	return res
}

func TestCreateClaimHandler(t *testing.T) {
	lostID := primitive.NewObjectID()
	foundID := primitive.NewObjectID()
	claimant := models.Identity{UserID: "user-1"}

	claimDB := mocks.NewClaimDatabase(t)
	lostDB := mocks.NewLostItemDatabase(t)
	foundDB := mocks.NewFoundItemDatabase(t)

	lostDB.On("FindOne", mock.Anything, mock.Anything).
		Return(&models.LostItem{ID: lostID, Details: models.LostItemDetails{UserID: "user-1", Status: models.LostItemActive}}, nil)
	foundDB.On("FindOne", mock.Anything, mock.Anything).
		Return(&models.FoundItem{ID: foundID, Details: models.FoundItemDetails{Status: models.FoundItemAvailable}}, nil)
	claimDB.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(0), nil)
	foundDB.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(matchedUpdate(t, 1), nil)
	claimDB.On("InsertOne", mock.Anything, mock.AnythingOfType("models.Claim")).Return(nil, nil)

	handler := Claim{
		Manager: &claims.Manager{Claims: claimDB, LostItems: lostDB, FoundItems: foundDB},
		DB:      claimDB,
	}

	body, _ := json.Marshal(CreateClaimRequest{
		LostItemID:  lostID.Hex(),
		FoundItemID: foundID.Hex(),
		VerificationAnswers: []models.VerificationAnswer{
			{Question: "What is the phone case color?", Answer: "Red"},
		},
	})

	w := httptest.NewRecorder()
	handler.CreateClaimHandler(w, authedRequest("POST", "/api/v1/claims", body, claimant))

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp models.Claim
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, models.ClaimPending, resp.Details.Status)
	assert.Equal(t, "user-1", resp.Details.ClaimantID)
}

func TestCreateClaimHandlerItemAlreadyClaimed(t *testing.T) {
	lostID := primitive.NewObjectID()
	foundID := primitive.NewObjectID()

	claimDB := mocks.NewClaimDatabase(t)
	lostDB := mocks.NewLostItemDatabase(t)
	foundDB := mocks.NewFoundItemDatabase(t)

	lostDB.On("FindOne", mock.Anything, mock.Anything).
		Return(&models.LostItem{ID: lostID, Details: models.LostItemDetails{Status: models.LostItemActive}}, nil)
	foundDB.On("FindOne", mock.Anything, mock.Anything).
		Return(&models.FoundItem{ID: foundID, Details: models.FoundItemDetails{Status: models.FoundItemClaimed}}, nil)

	handler := Claim{
		Manager: &claims.Manager{Claims: claimDB, LostItems: lostDB, FoundItems: foundDB},
	}

	body, _ := json.Marshal(CreateClaimRequest{
		LostItemID:  lostID.Hex(),
		FoundItemID: foundID.Hex(),
		VerificationAnswers: []models.VerificationAnswer{
			{Question: "q", Answer: "a"},
		},
	})

	w := httptest.NewRecorder()
	handler.CreateClaimHandler(w, authedRequest("POST", "/api/v1/claims", body, models.Identity{UserID: "user-2"}))

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateClaimHandlerMissingAnswers(t *testing.T) {
	handler := Claim{
		Manager: &claims.Manager{
			Claims:     mocks.NewClaimDatabase(t),
			LostItems:  mocks.NewLostItemDatabase(t),
			FoundItems: mocks.NewFoundItemDatabase(t),
		},
	}

	body, _ := json.Marshal(CreateClaimRequest{
		LostItemID:  primitive.NewObjectID().Hex(),
		FoundItemID: primitive.NewObjectID().Hex(),
	})

	w := httptest.NewRecorder()
	handler.CreateClaimHandler(w, authedRequest("POST", "/api/v1/claims", body, models.Identity{UserID: "user-1"}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApproveClaimHandler(t *testing.T) {
	claimID := primitive.NewObjectID()
	lostID := primitive.NewObjectID()
	foundID := primitive.NewObjectID()
	admin := models.Identity{UserID: "admin-1", Admin: true}

	claimDB := mocks.NewClaimDatabase(t)
	lostDB := mocks.NewLostItemDatabase(t)
	foundDB := mocks.NewFoundItemDatabase(t)

	claimDB.On("FindOne", mock.Anything, mock.Anything).
		Return(&models.Claim{ID: claimID, Details: models.ClaimDetails{
			LostItemID:  lostID,
			FoundItemID: foundID,
			ClaimantID:  "user-1",
			Status:      models.ClaimPending,
		}}, nil)
	claimDB.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(matchedUpdate(t, 1), nil)
	foundDB.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(matchedUpdate(t, 1), nil)
	lostDB.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(matchedUpdate(t, 1), nil)

	handler := Claim{
		Manager: &claims.Manager{Claims: claimDB, LostItems: lostDB, FoundItems: foundDB},
	}

	body, _ := json.Marshal(ReviewClaimRequest{ReviewNotes: "verified in person"})
	req := authedRequest("PUT", "/api/v1/claims/"+claimID.Hex()+"/approve", body, admin)
	req = mux.SetURLVars(req, map[string]string{"claim_id": claimID.Hex()})

	w := httptest.NewRecorder()
	handler.ApproveClaimHandler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.Claim
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, models.ClaimApproved, resp.Details.Status)
	assert.Equal(t, "admin-1", resp.Details.ReviewedBy)
}

func TestApproveClaimHandlerNonAdminForbidden(t *testing.T) {
	claimID := primitive.NewObjectID()

	handler := Claim{
		Manager: &claims.Manager{
			Claims:     mocks.NewClaimDatabase(t),
			LostItems:  mocks.NewLostItemDatabase(t),
			FoundItems: mocks.NewFoundItemDatabase(t),
		},
	}

	req := authedRequest("PUT", "/api/v1/claims/"+claimID.Hex()+"/approve", nil, models.Identity{UserID: "user-1"})
	req = mux.SetURLVars(req, map[string]string{"claim_id": claimID.Hex()})

	w := httptest.NewRecorder()
	handler.ApproveClaimHandler(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRejectClaimHandler(t *testing.T) {
	claimID := primitive.NewObjectID()
	foundID := primitive.NewObjectID()
	admin := models.Identity{UserID: "admin-1", Admin: true}

	claimDB := mocks.NewClaimDatabase(t)
	lostDB := mocks.NewLostItemDatabase(t)
	foundDB := mocks.NewFoundItemDatabase(t)

	claimDB.On("FindOne", mock.Anything, mock.Anything).
		Return(&models.Claim{ID: claimID, Details: models.ClaimDetails{
			LostItemID:  primitive.NewObjectID(),
			FoundItemID: foundID,
			ClaimantID:  "user-1",
			Status:      models.ClaimPending,
		}}, nil)
	claimDB.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(matchedUpdate(t, 1), nil)
	foundDB.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(matchedUpdate(t, 1), nil)

	handler := Claim{
		Manager: &claims.Manager{Claims: claimDB, LostItems: lostDB, FoundItems: foundDB},
	}

	body, _ := json.Marshal(ReviewClaimRequest{RejectionReason: "answers did not match"})
	req := authedRequest("PUT", "/api/v1/claims/"+claimID.Hex()+"/reject", body, admin)
	req = mux.SetURLVars(req, map[string]string{"claim_id": claimID.Hex()})

	w := httptest.NewRecorder()
	handler.RejectClaimHandler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.Claim
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, models.ClaimRejected, resp.Details.Status)
	assert.Equal(t, "answers did not match", resp.Details.RejectionReason)
}

func TestRejectClaimHandlerMissingReason(t *testing.T) {
	claimID := primitive.NewObjectID()

	handler := Claim{
		Manager: &claims.Manager{
			Claims:     mocks.NewClaimDatabase(t),
			LostItems:  mocks.NewLostItemDatabase(t),
			FoundItems: mocks.NewFoundItemDatabase(t),
		},
	}

	body, _ := json.Marshal(ReviewClaimRequest{ReviewNotes: "no reason given"})
	req := authedRequest("PUT", "/api/v1/claims/"+claimID.Hex()+"/reject", body, models.Identity{UserID: "admin-1", Admin: true})
	req = mux.SetURLVars(req, map[string]string{"claim_id": claimID.Hex()})

	w := httptest.NewRecorder()
	handler.RejectClaimHandler(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClaimByIDHandlerNotFound(t *testing.T) {
	claimID := primitive.NewObjectID()

	claimDB := mocks.NewClaimDatabase(t)
	claimDB.On("FindOne", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)

	handler := Claim{
		Manager: &claims.Manager{
			Claims:     claimDB,
			LostItems:  mocks.NewLostItemDatabase(t),
			FoundItems: mocks.NewFoundItemDatabase(t),
		},
	}

	req := authedRequest("GET", "/api/v1/claims/"+claimID.Hex(), nil, models.Identity{UserID: "user-1"})
	req = mux.SetURLVars(req, map[string]string{"claim_id": claimID.Hex()})

	w := httptest.NewRecorder()
	handler.ClaimByIDHandler(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMyClaimsHandler(t *testing.T) {
	claimDB := mocks.NewClaimDatabase(t)
	claimDB.On("Find", mock.Anything, mock.Anything, mock.Anything).
		Return([]models.Claim{
			{ID: primitive.NewObjectID(), Details: models.ClaimDetails{ClaimantID: "user-1", Status: models.ClaimPending}},
		}, nil)

	handler := Claim{DB: claimDB}

	w := httptest.NewRecorder()
	handler.MyClaimsHandler(w, authedRequest("GET", "/api/v1/claims/my-claims", nil, models.Identity{UserID: "user-1"}))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp []models.Claim
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Len(t, resp, 1)
}
