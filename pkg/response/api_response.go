package response

import (
	"encoding/json"
	"net/http"
	"time"

	"housebroker/pkg/middleware"
	"housebroker/pkg/result"
)

// ApiResponse represents a standardized API response structure
type ApiResponse struct {
	RequestID string      `json:"request_id"`
	Success   bool        `json:"success"`
	Error     *ApiError   `json:"error,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// ApiError represents error details in the API response
type ApiError struct {
	Code        string              `json:"code"`
	Message     string              `json:"message"`
	FieldErrors map[string][]string `json:"field_errors,omitempty"`
}

// statusOf maps a result type to its transport status code.
func statusOf(t result.Type) int {
	switch t {
	case result.TypeSuccess:
		return http.StatusOK
	case result.TypeValidationError:
		return http.StatusBadRequest
	case result.TypeUnauthorized:
		return http.StatusUnauthorized
	case result.TypeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusUnprocessableEntity
	}
}

func codeOf(t result.Type) string {
	switch t {
	case result.TypeValidationError:
		return "VALIDATION_ERROR"
	case result.TypeUnauthorized:
		return "UNAUTHORIZED"
	case result.TypeNotFound:
		return "NOT_FOUND"
	default:
		return "ERROR"
	}
}

// SendResult writes a use-case result envelope as an API response.
func SendResult[T any](w http.ResponseWriter, r *http.Request, res result.Result[T]) {
	if res.IsSuccess {
		write(w, http.StatusOK, ApiResponse{
			RequestID: middleware.GetRequestID(r.Context()),
			Success:   true,
			Data: map[string]interface{}{
				"message": res.Message,
				"data":    res.Data,
			},
			Timestamp: time.Now().UTC(),
		})
		return
	}

	write(w, statusOf(res.Type), ApiResponse{
		RequestID: middleware.GetRequestID(r.Context()),
		Success:   false,
		Error: &ApiError{
			Code:        codeOf(res.Type),
			Message:     res.Message,
			FieldErrors: res.FieldErrors,
		},
		Timestamp: time.Now().UTC(),
	})
}

// SendSuccess sends a successful API response
func SendSuccess(w http.ResponseWriter, r *http.Request, data interface{}) {
	SendSuccessWithStatus(w, r, http.StatusOK, data)
}

// SendSuccessWithStatus sends a successful API response with custom status code
func SendSuccessWithStatus(w http.ResponseWriter, r *http.Request, statusCode int, data interface{}) {
	write(w, statusCode, ApiResponse{
		RequestID: middleware.GetRequestID(r.Context()),
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
}

// SendCreated sends a 201 Created response
func SendCreated(w http.ResponseWriter, r *http.Request, data interface{}) {
	SendSuccessWithStatus(w, r, http.StatusCreated, data)
}

// SendError sends an error API response
func SendError(w http.ResponseWriter, r *http.Request, statusCode int, code, message string) {
	write(w, statusCode, ApiResponse{
		RequestID: middleware.GetRequestID(r.Context()),
		Success:   false,
		Error: &ApiError{
			Code:    code,
			Message: message,
		},
		Timestamp: time.Now().UTC(),
	})
}

// SendBadRequest sends a 400 Bad Request response
func SendBadRequest(w http.ResponseWriter, r *http.Request, message string) {
	SendError(w, r, http.StatusBadRequest, "BAD_REQUEST", message)
}

// SendUnauthorized sends a 401 Unauthorized response
func SendUnauthorized(w http.ResponseWriter, r *http.Request, message string) {
	SendError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

// SendNotFound sends a 404 Not Found response
func SendNotFound(w http.ResponseWriter, r *http.Request, message string) {
	SendError(w, r, http.StatusNotFound, "NOT_FOUND", message)
}

// SendInternalError sends a 500 Internal Server Error response
func SendInternalError(w http.ResponseWriter, r *http.Request, message string) {
	SendError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", message)
}

func write(w http.ResponseWriter, statusCode int, response ApiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}
