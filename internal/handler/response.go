package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

const (
	msgNotFound = "Subscription not found"
	msgDeleted  = "Subscription deleted"
)

// MessageResponse is the body of 404 and delete responses.
type MessageResponse struct {
	Message string `json:"message" example:"Subscription not found"`
}

// ErrorResponse is the body of 400 and 500 responses.
type ErrorResponse struct {
	Error string `json:"error" example:"validation failed: name is required"`
}

func SendJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Ошибка при отправке JSON")
	}
}

func sendError(w http.ResponseWriter, r *http.Request, status int, message string) {
	SendJSON(w, r, status, ErrorResponse{Error: message})
}

func sendNotFound(w http.ResponseWriter, r *http.Request) {
	SendJSON(w, r, http.StatusNotFound, MessageResponse{Message: msgNotFound})
}
