package response

import "github.com/condopay/billing/pkg/apperr"

// Envelope is the success body returned by HTTP APIs: {message, data, status}.
// Use OKT / ErrorT helpers to construct instances.
type Envelope[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data"`
	Status  int    `json:"status"`
}

// APIError is the failure body: {error, message}. The HTTP status carries the
// error class; no further detail (stack traces, causes) is exposed.
type APIError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// OKT returns a successful envelope with data.
func OKT[T any](status int, message string, data T) *Envelope[T] {
	return &Envelope[T]{Message: message, Data: data, Status: status}
}

// ErrorT maps err to its HTTP status and error body, converting unknown
// errors to internal ones.
func ErrorT(err error) (int, *APIError) {
	e := apperr.From(err)
	return e.Status, &APIError{Error: e.Title, Message: e.Message}
}
