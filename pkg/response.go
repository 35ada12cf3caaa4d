// Package pkg provides shared types and utilities for the easel API.
package pkg

// Notification severities understood by the editor's toast sink.
const (
	SeverityInfo        = "info"
	SeverityDestructive = "destructive"
)

// Notification is the toast payload forwarded verbatim to the editor client.
type Notification struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
}

// Notify creates a notification payload.
func Notify(title, description, severity string) *Notification {
	return &Notification{Title: title, Description: description, Severity: severity}
}

// ErrorBody is the error block of the standard error envelope.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ErrorResponse is the standard API error envelope. FieldErrors carries the
// per-field validation outcome of a form submit; Notification is set whenever
// the client should surface a toast.
type ErrorResponse struct {
	Error        ErrorBody         `json:"error"`
	FieldErrors  map[string]string `json:"fieldErrors,omitempty"`
	Notification *Notification     `json:"notification,omitempty"`
}

// NewErrorResponse creates an error envelope with the given code and message.
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorBody{Code: code, Message: message}}
}

// WithDetails returns a copy of the envelope with details attached.
func (r ErrorResponse) WithDetails(details string) ErrorResponse {
	r.Error.Details = details
	return r
}

// WithFieldErrors returns a copy of the envelope with field errors attached.
func (r ErrorResponse) WithFieldErrors(fe map[string]string) ErrorResponse {
	r.FieldErrors = fe
	return r
}

// WithNotification returns a copy of the envelope with a notification attached.
func (r ErrorResponse) WithNotification(n *Notification) ErrorResponse {
	r.Notification = n
	return r
}

// Response represents a standard API response.
type Response struct {
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
}

// NewResponse creates a new Response with the given code, data, and message.
func NewResponse(code int, data interface{}, message string) Response {
	return Response{
		Code:    code,
		Data:    data,
		Message: message,
	}
}
