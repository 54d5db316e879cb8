package handlers

import (
	"Inkwell/internal/core/content"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
)

// ErrorResponse is the JSON body of every error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// WriteError writes a standardized JSON error response
func WriteError(w http.ResponseWriter, statusCode int, errorType, message string) {
	writeErrorResponse(w, statusCode, ErrorResponse{Error: errorType, Message: message})
}

func writeErrorResponse(w http.ResponseWriter, statusCode int, body ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to encode error response: %v", err)
	}
}

// WriteJSON writes v as a JSON response with the given status
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// HandleServiceError maps content service errors to HTTP responses
func HandleServiceError(w http.ResponseWriter, err error) {
	field := content.FieldOf(err)

	switch {
	case content.IsNotFound(err):
		writeErrorResponse(w, http.StatusNotFound, ErrorResponse{Error: "NotFound", Message: err.Error()})

	case content.IsPermissionDenied(err):
		writeErrorResponse(w, http.StatusForbidden, ErrorResponse{
			Error: "NotAuthorized", Message: "You are not allowed to modify this resource",
		})

	case content.IsCapacityExceeded(err):
		writeErrorResponse(w, http.StatusConflict, ErrorResponse{Error: "CapacityExceeded", Message: err.Error(), Field: field})

	case content.IsAllocationFailed(err):
		writeErrorResponse(w, http.StatusBadRequest, ErrorResponse{Error: "AllocationFailed", Message: err.Error(), Field: field})

	case content.IsValidationError(err):
		writeErrorResponse(w, http.StatusBadRequest, ErrorResponse{Error: "InvalidRequest", Message: err.Error(), Field: field})

	case content.IsStoreUnavailable(err), errors.Is(err, context.DeadlineExceeded):
		log.Printf("Store unavailable: %v", err)
		WriteError(w, http.StatusServiceUnavailable, "StoreUnavailable", "The content store is unavailable, try again later")

	case errors.Is(err, context.Canceled):
		// Client went away; nothing useful to send
		WriteError(w, http.StatusServiceUnavailable, "RequestCanceled", "Request canceled")

	default:
		log.Printf("Internal error: %v", err)
		WriteError(w, http.StatusInternalServerError, "InternalServerError", "An internal error occurred")
	}
}

// maxBodyBytes bounds request bodies; post descriptions are the largest payloads
const maxBodyBytes = 1 * 1024 * 1024

// DecodeJSON decodes the request body into v, writing a 400 or 413 on failure.
// Returns false when a response has already been written.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, http.StatusRequestEntityTooLarge, "RequestTooLarge", "Request body too large (max 1MB)")
			return false
		}
		WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return false
	}
	return true
}
