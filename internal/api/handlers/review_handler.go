package handlers

import (
	"net/http"

	"marketplace/internal/models"
	"marketplace/internal/repository"
)

type ReviewHandler struct {
	reviews repository.ReviewRepository
	users   repository.UserRepository
}

func NewReviewHandler(reviews repository.ReviewRepository, users repository.UserRepository) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, users: users}
}

type reviewView struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	UserName   string `json:"user_name"`
	VendorID   string `json:"vendor_id"`
	VendorName string `json:"vendor_name"`
	ReviewNote string `json:"review_note"`
}

type createReviewRequest struct {
	UserID     string `json:"user_id" validate:"required,len=24,hexadecimal"`
	VendorID   string `json:"vendor_id" validate:"required,len=24,hexadecimal"`
	ReviewNote string `json:"review_note" validate:"required,min=1,max=2000"`
}

type updateReviewRequest struct {
	ReviewNote string `json:"review_note" validate:"required,min=1,max=2000"`
}

func (h *ReviewHandler) view(r *http.Request, review *models.Review) reviewView {
	v := reviewView{
		ID:         review.ID.Hex(),
		UserID:     review.UserID.Hex(),
		VendorID:   review.VendorID.Hex(),
		ReviewNote: review.ReviewNote,
	}
	if user, err := h.users.GetByID(r.Context(), review.UserID); err == nil {
		v.UserName = user.Name
	}
	if vendor, err := h.users.GetByID(r.Context(), review.VendorID); err == nil {
		v.VendorName = vendor.Name
	}
	return v
}

func (h *ReviewHandler) views(r *http.Request, reviews []models.Review) []reviewView {
	views := make([]reviewView, 0, len(reviews))
	for i := range reviews {
		views = append(views, h.view(r, &reviews[i]))
	}
	return views
}

func (h *ReviewHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews.GetAll(r.Context())
	if err != nil {
		writeRepoError(w, err, "get reviews")
		return
	}
	writeJSON(w, http.StatusOK, h.views(r, reviews))
}

func (h *ReviewHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	review, err := h.reviews.GetByID(r.Context(), id)
	if err != nil {
		writeRepoError(w, err, "review")
		return
	}
	writeJSON(w, http.StatusOK, h.view(r, review))
}

func (h *ReviewHandler) GetByVendor(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	reviews, err := h.reviews.GetByVendor(r.Context(), vendorID)
	if err != nil {
		writeRepoError(w, err, "get reviews")
		return
	}
	writeJSON(w, http.StatusOK, h.views(r, reviews))
}

func (h *ReviewHandler) GetByUserAndVendor(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseID(w, r, "userId")
	if !ok {
		return
	}
	vendorID, ok := parseID(w, r, "vendorId")
	if !ok {
		return
	}

	review, err := h.reviews.GetByUserAndVendor(r.Context(), userID, vendorID)
	if err != nil {
		writeRepoError(w, err, "review")
		return
	}
	writeJSON(w, http.StatusOK, h.view(r, review))
}

func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	userID, ok := parseBodyID(w, "user_id", req.UserID)
	if !ok {
		return
	}
	vendorID, ok := parseBodyID(w, "vendor_id", req.VendorID)
	if !ok {
		return
	}

	review := &models.Review{
		UserID:     userID,
		VendorID:   vendorID,
		ReviewNote: req.ReviewNote,
	}
	if err := h.reviews.Create(r.Context(), review); err != nil {
		writeRepoError(w, err, "create review")
		return
	}

	w.Header().Set("Location", "/api/reviews/"+review.ID.Hex())
	writeJSON(w, http.StatusCreated, review)
}

func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var req updateReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.reviews.UpdateNote(r.Context(), id, req.ReviewNote); err != nil {
		writeRepoError(w, err, "review")
		return
	}
	writeMessage(w, http.StatusOK, "Review updated")
}
