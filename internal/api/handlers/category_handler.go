package handlers

import (
	"net/http"

	"marketplace/internal/models"
	"marketplace/internal/repository"
)

type CategoryHandler struct {
	repo repository.CategoryRepository
}

func NewCategoryHandler(repo repository.CategoryRepository) *CategoryHandler {
	return &CategoryHandler{repo: repo}
}

type categoryRequest struct {
	CategoryName string `json:"category_name" validate:"required,min=1,max=100"`
}

func (h *CategoryHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	categories, err := h.repo.GetAll(r.Context())
	if err != nil {
		writeRepoError(w, err, "get categories")
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	category, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		writeRepoError(w, err, "category")
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	category := &models.Category{
		CategoryName: req.CategoryName,
		ActiveStatus: true,
	}
	if err := h.repo.Create(r.Context(), category); err != nil {
		writeRepoError(w, err, "create category")
		return
	}

	w.Header().Set("Location", "/api/categories/"+category.ID.Hex())
	writeJSON(w, http.StatusCreated, category)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var req categoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	category, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		writeRepoError(w, err, "category")
		return
	}

	category.CategoryName = req.CategoryName
	if err := h.repo.Update(r.Context(), category); err != nil {
		writeRepoError(w, err, "update category")
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		writeRepoError(w, err, "category")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CategoryHandler) Enable(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

func (h *CategoryHandler) Disable(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

func (h *CategoryHandler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := h.repo.SetActive(r.Context(), id, active); err != nil {
		writeRepoError(w, err, "category")
		return
	}

	if active {
		writeMessage(w, http.StatusOK, "Category enabled")
	} else {
		writeMessage(w, http.StatusOK, "Category disabled")
	}
}
