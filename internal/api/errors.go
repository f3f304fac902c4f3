package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"devmap/internal/apperr"
)

// ErrorResponse is the JSON body of every error reply
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError maps a coded error onto its HTTP status and writes the JSON
// error body
func WriteError(w http.ResponseWriter, err error) {
	code := apperr.Internal
	var coded *apperr.Error
	if errors.As(err, &coded) {
		code = coded.Code
	}

	WriteJSON(w, ErrorResponse{
		Error: err.Error(),
		Code:  string(code),
	}, statusFor(code))
}

// statusFor maps error codes to HTTP status codes
func statusFor(code apperr.Code) int {
	switch code {
	case apperr.InvalidInput:
		return http.StatusBadRequest
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.BackendFailure, apperr.StoreFailure, apperr.Internal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func writeBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, apperr.New(apperr.InvalidInput, message))
}

func writeInternalError(w http.ResponseWriter, err error) {
	WriteError(w, apperr.Wrap(apperr.Internal, "internal server error", err))
}
