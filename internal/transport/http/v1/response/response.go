package response

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mashson/order-app/internal/service/models/apperror"
)

type envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// JSON writes data wrapped in the success envelope.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(envelope{Success: true, Data: data}); err != nil {
		slog.Error("Error writing response", "error", err)
	}
}

// Error writes the structured error envelope for err, resolving the stable
// code and HTTP status through the apperror taxonomy.
func Error(w http.ResponseWriter, err error) {
	appErr := apperror.From(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.HTTPStatus)

	body := envelope{
		Success: false,
		Error: &errorBody{
			Code:    appErr.Code,
			Message: appErr.Message,
		},
	}
	if encodeErr := json.NewEncoder(w).Encode(body); encodeErr != nil {
		slog.Error("Error writing error response", "error", encodeErr)
	}
}
