package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// APIResponse describes the standard envelope returned by the API.
type APIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse is the envelope for failed requests. Error carries internal
// detail only in development; LLMText is set for the not-found outcome.
type ErrorResponse struct {
	Status    string  `json:"status"`
	Message   string  `json:"message"`
	Error     string  `json:"error,omitempty"`
	RequestID string  `json:"request_id,omitempty"`
	LLMText   *string `json:"llm_text,omitempty"`
}

// Success sends a successful response using the shared envelope format.
func Success(c echo.Context, status int, message string, data any) error {
	if status == 0 {
		status = http.StatusOK
	}

	payload := APIResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	}
	return c.JSON(status, payload)
}

// Error sends an error response using the shared envelope format.
func Error(c echo.Context, status int, message string) error {
	return ErrorWithDetail(c, status, ErrorResponse{Message: message})
}

// ErrorWithDetail sends payload with the error status filled in.
func ErrorWithDetail(c echo.Context, status int, payload ErrorResponse) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	payload.Status = "error"
	return c.JSON(status, payload)
}
