// Package apierror holds the JSON envelopes of every 4xx/5xx response, so
// clients see one shape and internal details (DB errors, stack traces) never
// leak.
package apierror

// APIError is the error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail    string `json:"detail"`
	RequestID string `json:"request_id,omitempty"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// Internal is the generic 500 body. The request id lets support find the
// logged cause.
func Internal(requestID string) *APIError {
	return &APIError{Detail: "Error interno del servidor", RequestID: requestID}
}

// ValidationError lists the invalid fields as field → message.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}
