package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campusfind/lost-and-found-api/api"
	"github.com/campusfind/lost-and-found-api/claims"
	"github.com/campusfind/lost-and-found-api/config"
	"github.com/campusfind/lost-and-found-api/databases"
	"github.com/campusfind/lost-and-found-api/models"
)

// Claim exported for testing purposes
type Claim struct {
	Manager *claims.Manager
	DB      databases.ClaimDatabase
}

// CreateClaimRequest is the request body for filing a claim
type CreateClaimRequest struct {
	LostItemID          string                      `json:"lostItem"`
	FoundItemID         string                      `json:"foundItem"`
	VerificationAnswers []models.VerificationAnswer `json:"verificationAnswers"`
	AdditionalProof     string                      `json:"additionalProof"`
	ProofImages         []string                    `json:"proofImages"`
}

// ReviewClaimRequest is the request body for approving or rejecting a claim
type ReviewClaimRequest struct {
	RejectionReason string `json:"rejectionReason"`
	ReviewNotes     string `json:"reviewNotes"`
}

// CreateClaimHandler files a claim on behalf of the authenticated user
func (c Claim) CreateClaimHandler(w http.ResponseWriter, r *http.Request) {
	ident, ok := api.IdentityFromContext(r.Context())
	if !ok {
		config.ErrorStatus("not authenticated", http.StatusUnauthorized, w, nil)
		return
	}

	var req CreateClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	claim, err := c.Manager.CreateClaim(ctx, ident, claims.CreateClaimInput{
		LostItemID:          req.LostItemID,
		FoundItemID:         req.FoundItemID,
		VerificationAnswers: req.VerificationAnswers,
		AdditionalProof:     req.AdditionalProof,
		ProofImages:         req.ProofImages,
	})
	if err != nil {
		writeClaimError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(claim)
}

// ClaimsHandler lists claims for review, newest first. Admin only.
func (c Claim) ClaimsHandler(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["claim.status"] = status
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	sort := bson.D{{Key: "claim.createdAt", Value: -1}}
	dbResp, err := c.DB.Find(ctx, filter, &options.FindOptions{Sort: sort})
	if err != nil {
		config.ErrorStatus("failed to get claims", http.StatusNotFound, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.Claim{}
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"count": len(dbResp),
		"data":  dbResp,
	})
}

// MyClaimsHandler returns the authenticated user's claims, newest first
func (c Claim) MyClaimsHandler(w http.ResponseWriter, r *http.Request) {
	ident, ok := api.IdentityFromContext(r.Context())
	if !ok {
		config.ErrorStatus("not authenticated", http.StatusUnauthorized, w, nil)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	sort := bson.D{{Key: "claim.createdAt", Value: -1}}
	dbResp, err := c.DB.Find(ctx, bson.M{"claim.claimant": ident.UserID}, &options.FindOptions{Sort: sort})
	if err != nil {
		config.ErrorStatus("failed to get claims", http.StatusNotFound, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.Claim{}
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(dbResp)
}

// ClaimByIDHandler retrieves a single claim, subject to the claim manager's
// visibility rules
func (c Claim) ClaimByIDHandler(w http.ResponseWriter, r *http.Request) {
	ident, ok := api.IdentityFromContext(r.Context())
	if !ok {
		config.ErrorStatus("not authenticated", http.StatusUnauthorized, w, nil)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	claim, err := c.Manager.GetClaim(ctx, ident, mux.Vars(r)["claim_id"])
	if err != nil {
		writeClaimError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(claim)
}

// ApproveClaimHandler approves a pending claim. Admin only.
func (c Claim) ApproveClaimHandler(w http.ResponseWriter, r *http.Request) {
	ident, ok := api.IdentityFromContext(r.Context())
	if !ok {
		config.ErrorStatus("not authenticated", http.StatusUnauthorized, w, nil)
		return
	}

	// an empty body is fine for approvals, review notes are optional
	var req ReviewClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	claim, err := c.Manager.ApproveClaim(ctx, ident, mux.Vars(r)["claim_id"], req.ReviewNotes)
	if err != nil {
		writeClaimError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(claim)
}

// RejectClaimHandler rejects a pending claim. Admin only; the rejection
// reason in the body is mandatory.
func (c Claim) RejectClaimHandler(w http.ResponseWriter, r *http.Request) {
	ident, ok := api.IdentityFromContext(r.Context())
	if !ok {
		config.ErrorStatus("not authenticated", http.StatusUnauthorized, w, nil)
		return
	}

	var req ReviewClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	claim, err := c.Manager.RejectClaim(ctx, ident, mux.Vars(r)["claim_id"], req.RejectionReason, req.ReviewNotes)
	if err != nil {
		writeClaimError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(claim)
}

// writeClaimError maps a claim workflow error onto an HTTP status
func writeClaimError(w http.ResponseWriter, err error) {
	var code int
	switch claims.KindOf(err) {
	case claims.KindValidation:
		code = http.StatusBadRequest
	case claims.KindNotFound:
		code = http.StatusNotFound
	case claims.KindConflict:
		code = http.StatusConflict
	case claims.KindForbidden:
		code = http.StatusForbidden
	default:
		code = http.StatusInternalServerError
	}
	config.ErrorStatus(err.Error(), code, w, err)
}
