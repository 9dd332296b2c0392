// Package response writes the API's JSON envelopes.
package response

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/ramonehamilton/chaos-zero-companion/internal/catalog"
	"github.com/ramonehamilton/chaos-zero-companion/internal/deck"
	"github.com/ramonehamilton/chaos-zero-companion/internal/session"
)

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
	Reason  string `json:"reason,omitempty"` // machine-readable domain code
}

// SuccessResponse represents a successful API response with data.
type SuccessResponse struct {
	Data interface{} `json:"data"`
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("Warning: failed to encode response: %v", err)
		}
	}
}

// Success writes a successful JSON response.
func Success(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, SuccessResponse{Data: data})
}

// Created writes a 201 Created response.
func Created(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusCreated, SuccessResponse{Data: data})
}

// NoContent writes a 204 No Content response.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error writes an error response with the given status code.
func Error(w http.ResponseWriter, status int, err error) {
	writeError(w, status, "", err)
}

func writeError(w http.ResponseWriter, status int, reason string, err error) {
	JSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: err.Error(),
		Code:    status,
		Reason:  reason,
	})
}

// BadRequest writes a 400 Bad Request response.
func BadRequest(w http.ResponseWriter, err error) {
	Error(w, http.StatusBadRequest, err)
}

// NotFound writes a 404 Not Found response.
func NotFound(w http.ResponseWriter, err error) {
	Error(w, http.StatusNotFound, err)
}

// InternalError writes a 500 Internal Server Error response.
func InternalError(w http.ResponseWriter, err error) {
	Error(w, http.StatusInternalServerError, err)
}

// TooManyRequests writes a 429 Too Many Requests response.
func TooManyRequests(w http.ResponseWriter, err error) {
	Error(w, http.StatusTooManyRequests, err)
}

// errorMapping ties a domain error to its HTTP status and reason code.
type errorMapping struct {
	target error
	status int
	reason string
}

var errorMappings = []errorMapping{
	{deck.ErrInvalidTier, http.StatusBadRequest, string(deck.CodeInvalidTier)},
	{deck.ErrEntryNotFound, http.StatusNotFound, string(deck.CodeEntryNotFound)},
	{session.ErrSessionNotFound, http.StatusNotFound, "SESSION_NOT_FOUND"},
	{session.ErrCardUnavailable, http.StatusUnprocessableEntity, "CARD_UNAVAILABLE"},
	{catalog.ErrCharacterNotFound, http.StatusNotFound, "CHARACTER_NOT_FOUND"},
	{catalog.ErrCardNotFound, http.StatusNotFound, "CARD_NOT_FOUND"},
	{catalog.ErrInvalidInput, http.StatusBadRequest, "INVALID_INPUT"},
}

// FromError writes the response for a service error, mapping known domain
// errors to their status and reason. Anything else is a 500.
func FromError(w http.ResponseWriter, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			writeError(w, m.status, m.reason, err)
			return
		}
	}
	log.Printf("Warning: unhandled API error: %v", err)
	InternalError(w, err)
}
