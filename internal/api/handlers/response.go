package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"marketplace/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validate = validator.New()

type apiError struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if v == nil {
		return
	}

	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func writeError(w http.ResponseWriter, status int, code, message string, details interface{}) {
	writeJSON(w, status, apiError{
		Error:   code,
		Message: message,
		Details: details,
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid json body", map[string]any{"error": err.Error()})
		return false
	}

	if err := dec.Decode(&struct{}{}); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid json body", map[string]any{"error": "extra data after json"})
		return false
	}

	if err := validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "request validation failed", map[string]any{"error": err.Error()})
		return false
	}

	return true
}

// parseID reads a 24-character hex object ID from the URL. A malformed ID is
// a 400, not a 404: the route matched, the identifier didn't parse.
func parseID(w http.ResponseWriter, r *http.Request, param string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, param))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "invalid "+param, nil)
		return primitive.NilObjectID, false
	}
	return id, true
}

func parseBodyID(w http.ResponseWriter, field, value string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(value)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "invalid "+field, nil)
		return primitive.NilObjectID, false
	}
	return id, true
}

// writeRepoError maps the repository sentinels onto HTTP statuses. Business
// rule violations surface as 400 with the repository's reason text.
func writeRepoError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", fallback+" not found", nil)
	case errors.Is(err, repository.ErrNotEnough):
		writeError(w, http.StatusBadRequest, "insufficient_stock", err.Error(), nil)
	case errors.Is(err, repository.ErrNotEditable):
		writeError(w, http.StatusBadRequest, "not_editable", err.Error(), nil)
	case errors.Is(err, repository.ErrDuplicate):
		writeError(w, http.StatusBadRequest, "duplicate", err.Error(), nil)
	case errors.Is(err, repository.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to "+fallback, nil)
	}
}
