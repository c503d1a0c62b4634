package result

// Type classifies the outcome of a use case. The transport layer maps it
// deterministically to a status code.
type Type string

const (
	TypeSuccess         Type = "Success"
	TypeValidationError Type = "ValidationError"
	TypeError           Type = "Error"
	TypeUnauthorized    Type = "Unauthorized"
	TypeNotFound        Type = "NotFound"
)

// Result is the envelope every application service operation returns.
type Result[T any] struct {
	IsSuccess   bool                `json:"is_success"`
	Type        Type                `json:"result_type"`
	Message     string              `json:"message,omitempty"`
	Data        T                   `json:"data,omitempty"`
	FieldErrors map[string][]string `json:"field_errors,omitempty"`
}

// Success wraps a successful payload.
func Success[T any](message string, data T) Result[T] {
	return Result[T]{IsSuccess: true, Type: TypeSuccess, Message: message, Data: data}
}

// Failure reports a domain rule violation or persistence failure.
func Failure[T any](message string) Result[T] {
	return Result[T]{Type: TypeError, Message: message}
}

// Unauthorized reports a missing or insufficient identity.
func Unauthorized[T any](message string) Result[T] {
	return Result[T]{Type: TypeUnauthorized, Message: message}
}

// NotFound reports a missing entity.
func NotFound[T any]() Result[T] {
	return Result[T]{Type: TypeNotFound, Message: "resource not found"}
}

// ValidationError reports malformed input with per-field messages.
func ValidationError[T any](fieldErrors map[string][]string) Result[T] {
	return Result[T]{
		Type:        TypeValidationError,
		Message:     "validation failed",
		FieldErrors: fieldErrors,
	}
}
