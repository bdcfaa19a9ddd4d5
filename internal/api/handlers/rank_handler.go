package handlers

import (
	"net/http"

	"marketplace/internal/models"
	"marketplace/internal/repository"
)

type RankHandler struct {
	ranks repository.RankRepository
	users repository.UserRepository
}

func NewRankHandler(ranks repository.RankRepository, users repository.UserRepository) *RankHandler {
	return &RankHandler{ranks: ranks, users: users}
}

type rankView struct {
	ID         string  `json:"id"`
	UserID     string  `json:"user_id"`
	UserName   string  `json:"user_name"`
	VendorID   string  `json:"vendor_id"`
	VendorName string  `json:"vendor_name"`
	Rank       float64 `json:"rank"`
}

type createRankRequest struct {
	UserID   string  `json:"user_id" validate:"required,len=24,hexadecimal"`
	VendorID string  `json:"vendor_id" validate:"required,len=24,hexadecimal"`
	Rank     float64 `json:"rank" validate:"gte=0,lte=5"`
}

func (h *RankHandler) view(r *http.Request, rank *models.Ranking) rankView {
	v := rankView{
		ID:       rank.ID.Hex(),
		UserID:   rank.UserID.Hex(),
		VendorID: rank.VendorID.Hex(),
		Rank:     rank.Rank,
	}
	if user, err := h.users.GetByID(r.Context(), rank.UserID); err == nil {
		v.UserName = user.Name
	}
	if vendor, err := h.users.GetByID(r.Context(), rank.VendorID); err == nil {
		v.VendorName = vendor.Name
	}
	return v
}

func (h *RankHandler) views(r *http.Request, ranks []models.Ranking) []rankView {
	views := make([]rankView, 0, len(ranks))
	for i := range ranks {
		views = append(views, h.view(r, &ranks[i]))
	}
	return views
}

func (h *RankHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	ranks, err := h.ranks.GetAll(r.Context())
	if err != nil {
		writeRepoError(w, err, "get rankings")
		return
	}
	writeJSON(w, http.StatusOK, h.views(r, ranks))
}

func (h *RankHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	rank, err := h.ranks.GetByID(r.Context(), id)
	if err != nil {
		writeRepoError(w, err, "ranking")
		return
	}
	writeJSON(w, http.StatusOK, h.view(r, rank))
}

func (h *RankHandler) GetByVendor(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	ranks, err := h.ranks.GetByVendor(r.Context(), vendorID)
	if err != nil {
		writeRepoError(w, err, "get rankings")
		return
	}
	writeJSON(w, http.StatusOK, h.views(r, ranks))
}

func (h *RankHandler) GetVendorAverage(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	average, err := h.ranks.AverageByVendor(r.Context(), vendorID)
	if err != nil {
		writeRepoError(w, err, "vendor ranking")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"vendor_id":    vendorID.Hex(),
		"average_rank": average,
	})
}

func (h *RankHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRankRequest
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

	rank := &models.Ranking{
		UserID:   userID,
		VendorID: vendorID,
		Rank:     req.Rank,
	}
	if err := h.ranks.Create(r.Context(), rank); err != nil {
		writeRepoError(w, err, "create ranking")
		return
	}

	w.Header().Set("Location", "/api/ranks/"+rank.ID.Hex())
	writeJSON(w, http.StatusCreated, rank)
}
