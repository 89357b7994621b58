package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/krzysztofcal/chipledger/internal/adapter/http/dto"
	"github.com/krzysztofcal/chipledger/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response with the stable code of err.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFromError(err), dto.ErrorResponse{
		Code:    domain.Code(err),
		Message: err.Error(),
	})
}

// writeErrorCode writes an error response with an explicit code.
func writeErrorCode(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{Code: code, Message: message})
}

// decodeBody decodes the request body into v, reporting malformed payloads
// as invalid_state. It returns false when a response was already written.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeErrorCode(w, http.StatusBadRequest, domain.Code(domain.ErrInvalidState), err.Error())
		return false
	}
	return true
}

// statusFromError maps coded domain errors to HTTP status codes.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrTransactionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrBalanceGuardFailed):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrInvalidTableID),
		errors.Is(err, domain.ErrInvalidBotUserID),
		errors.Is(err, domain.ErrInvalidActorUserID):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}
