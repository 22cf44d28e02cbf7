package rest

import (
	"encoding/json"
	"net/http"

	"github.com/collo670/NAPANGA-APP/internal/contextkeys"
)

// ErrorResponse - стандартная структура для ответа с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSONError - хелпер для отправки JSON-ошибок
func WriteJSONError(w http.ResponseWriter, r *http.Request, statusCode int, message string) {
	logger := contextkeys.LoggerFromContext(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: message}); err != nil {
		logger.Error("Failed to write JSON error response", err, nil)
	}
}

// RespondWithJSON - хелпер для отправки успешных JSON-ответов
func RespondWithJSON(w http.ResponseWriter, r *http.Request, statusCode int, payload interface{}) {
	logger := contextkeys.LoggerFromContext(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			logger.Error("Failed to write JSON response", err, nil)
		}
	}
}
