// Package httpproblem implements the error model shared by every core
// component: a small set of typed error kinds, and their RFC 9457
// application/problem+json rendering for the HTTP façade: a
// {type, status, title, detail, extensions} envelope instead of a flat
// status/code/message triple.
package httpproblem

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Kind is one of the error kinds every fallible core operation returns.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not-found"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindConflict     Kind = "conflict"
	KindUpstream     Kind = "upstream"
	KindInternal     Kind = "internal"
)

// typeURIs maps each kind (and a few specialised sub-cases) to the stable
// machine-readable "type" URI carried in the problem document.
var typeURIs = map[string]string{
	"validation":              "https://kz-league.example/problems/validation",
	"not-found":               "https://kz-league.example/problems/not-found",
	"unauthorized":            "https://kz-league.example/problems/unauthorized",
	"forbidden":               "https://kz-league.example/problems/forbidden",
	"insufficient-permissions": "https://kz-league.example/problems/insufficient-permissions",
	"conflict":                "https://kz-league.example/problems/conflict",
	"upstream":                "https://kz-league.example/problems/upstream",
	"internal":                "https://kz-league.example/problems/internal",
}

var statusByKind = map[Kind]int{
	KindValidation:   http.StatusBadRequest,
	KindNotFound:     http.StatusNotFound,
	KindUnauthorized: http.StatusUnauthorized,
	KindForbidden:    http.StatusForbidden,
	KindConflict:     http.StatusConflict,
	KindUpstream:     http.StatusBadGateway,
	KindInternal:     http.StatusInternalServerError,
}

// Error is the typed error every core service operation returns. The HTTP
// façade is the only layer that knows how to render it as problem+json; the
// WS dispatcher renders it as an error frame instead (see internal/ws).
type Error struct {
	Kind       Kind
	ProblemKey string // optional override of the default type URI for Kind, e.g. "insufficient-permissions"
	Title      string
	Detail     string
	Extensions map[string]any
	cause      error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Kind, e.Detail, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error { return e.cause }

// Status returns the HTTP status this error maps to.
func (e *Error) Status() int {
	if s, ok := statusByKind[e.Kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// TypeURI returns the stable machine-readable problem type.
func (e *Error) TypeURI() string {
	key := e.ProblemKey
	if key == "" {
		key = string(e.Kind)
	}
	if uri, ok := typeURIs[key]; ok {
		return uri
	}
	return typeURIs["internal"]
}

// Document is the JSON shape serialised onto the wire as
// application/problem+json.
type Document struct {
	Type       string         `json:"type"`
	Status     int            `json:"status"`
	Title      string         `json:"title"`
	Detail     string         `json:"detail,omitempty"`
	Instance   string         `json:"instance,omitempty"`
	Extensions map[string]any `json:"-"`
}

// MarshalJSON flattens Extensions into the top-level object, per RFC 9457's
// "extension members" convention.
func (d Document) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"type":   d.Type,
		"status": d.Status,
		"title":  d.Title,
	}
	if d.Detail != "" {
		out["detail"] = d.Detail
	}
	if d.Instance != "" {
		out["instance"] = d.Instance
	}
	for k, v := range d.Extensions {
		out[k] = v
	}
	return json.Marshal(out)
}

// ToDocument renders e as a Document for the given request path (used as
// "instance").
func (e *Error) ToDocument(instance string) Document {
	return Document{
		Type:       e.TypeURI(),
		Status:     e.Status(),
		Title:      e.Title,
		Detail:     e.Detail,
		Instance:   instance,
		Extensions: e.Extensions,
	}
}

// Constructors below are the BadRequest/Unauthorized/... convenience
// functions.

func Validation(detail string) *Error {
	return &Error{Kind: KindValidation, Title: "validation failed", Detail: detail}
}

func NotFound(detail string) *Error {
	return &Error{Kind: KindNotFound, Title: "not found", Detail: detail}
}

func Unauthorized(detail string) *Error {
	return &Error{Kind: KindUnauthorized, Title: "unauthorized", Detail: detail}
}

func Forbidden(detail string, required, actual []string) *Error {
	return &Error{
		Kind:       KindForbidden,
		ProblemKey: "insufficient-permissions",
		Title:      "insufficient permissions",
		Detail:     detail,
		Extensions: map[string]any{
			"required_permissions": required,
			"actual_permissions":   actual,
		},
	}
}

func Conflict(detail string) *Error {
	return &Error{Kind: KindConflict, Title: "conflict", Detail: detail}
}

func Upstream(detail string, cause error) *Error {
	return &Error{Kind: KindUpstream, Title: "upstream service error", Detail: detail, cause: cause}
}

func Internal(detail string, cause error) *Error {
	return &Error{Kind: KindInternal, Title: "internal error", Detail: detail, cause: cause}
}
