// Package dojo talks to the DefectDojo REST API (v2): it executes
// outbound requests and normalizes every outcome, remote errors included,
// into a single Result shape. Callers never see a raw remote error
// envelope outside Result.Detail.
package dojo

import "encoding/json"

// StatusKind classifies the outcome of one remote call.
type StatusKind string

const (
	KindOK              StatusKind = "ok"
	KindNotFound        StatusKind = "not_found"
	KindValidationError StatusKind = "validation_error"
	KindAuthError       StatusKind = "auth_error"
	KindRateLimited     StatusKind = "rate_limited"
	KindServerError     StatusKind = "server_error"
	KindTransportError  StatusKind = "transport_error"
)

// Result is the uniform shape every tool handler returns. Exactly one of
// Payload and Detail is set: Payload when Kind is KindOK, Detail otherwise.
type Result struct {
	Kind    StatusKind
	Payload json.RawMessage
	Detail  *ErrorDetail
}

// ErrorDetail carries enough structure for a calling agent to decide
// whether retrying with corrected arguments can help.
type ErrorDetail struct {
	// Message is a short human-readable summary. It never contains the
	// API token.
	Message string
	// RemoteStatus is the HTTP status of the remote response, 0 when the
	// failure happened before a response arrived.
	RemoteStatus int
	// RetryAfterSeconds is the remote's Retry-After value on 429, when
	// present and parseable.
	RetryAfterSeconds int
	// Fields maps argument names to messages for dispatcher-side
	// validation failures, one entry per offending field.
	Fields map[string]string
	// Remote preserves the remote error body verbatim when it was JSON
	// (DefectDojo returns field-level messages that way), or as a JSON
	// string of flattened text otherwise.
	Remote json.RawMessage
}

// Ok wraps a successful payload.
func Ok(payload json.RawMessage) *Result {
	return &Result{Kind: KindOK, Payload: payload}
}

// Invalid reports a dispatcher-side validation failure before any network
// call: unknown tools, unknown or missing arguments, type and enum
// mismatches.
func Invalid(message string, fields map[string]string) *Result {
	return &Result{
		Kind:   KindValidationError,
		Detail: &ErrorDetail{Message: message, Fields: fields},
	}
}
