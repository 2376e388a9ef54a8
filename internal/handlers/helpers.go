package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"billingBack/internal/billing"
	"billingBack/internal/models"
)

const requestTimeout = 15 * time.Second

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type listResponse[T any] struct {
	Success bool `json:"success"`
	Data    []T  `json:"data"`
}

// writeList sends items as {"success":true,"data":[...]}, never as null.
func writeList[T any](w http.ResponseWriter, items []T) {
	if items == nil {
		items = []T{}
	}
	writeJSON(w, http.StatusOK, listResponse[T]{Success: true, Data: items})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Success: false, Error: message})
}

func contextWithTimeout(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), requestTimeout)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(dst); err != nil {
		return billing.Invalid("invalid request body")
	}
	return nil
}

// StatusFor maps a domain error onto an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, billing.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, billing.ErrDuplicateReference):
		return http.StatusConflict
	case errors.Is(err, billing.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, billing.ErrInvalidInput),
		errors.Is(err, billing.ErrAmountExceedsOutstanding),
		errors.Is(err, billing.ErrReferentialIntegrity):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as a JSON failure. Unexpected errors are logged and
// hidden from the client.
func respondError(w http.ResponseWriter, errorLog *log.Logger, err error) {
	status := StatusFor(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		if errorLog != nil {
			errorLog.Output(2, err.Error())
		}
		msg = http.StatusText(status)
	}
	writeError(w, status, msg)
}
