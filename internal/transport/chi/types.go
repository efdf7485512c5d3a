package chi

import (
	"time"

	"github.com/foliodocs/folio/internal/domain/search/query"
)

// ErrorCode identifies an API error class.
type ErrorCode string

// API error codes.
const (
	ErrorCodeBadRequest    ErrorCode = "bad_request"
	ErrorCodeUnauthorized  ErrorCode = "unauthorized"
	ErrorCodeAccessDenied  ErrorCode = "access_denied"
	ErrorCodeNotFound      ErrorCode = "not_found"
	ErrorCodeQueryRejected ErrorCode = "query_rejected"
	ErrorCodeInternalError ErrorCode = "internal_error"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// TermPayload is a kind/value pair in a search request.
type TermPayload struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// SearchRequest is the POST /api/v1/search body.
type SearchRequest struct {
	Text       string        `json:"text,omitempty"`
	Fields     []TermPayload `json:"fields,omitempty"`
	Projects   []string      `json:"projects,omitempty"`
	Attributes []TermPayload `json:"attributes,omitempty"`
}

// DocumentView is one result document with its enrichment.
type DocumentView struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Source       string    `json:"source,omitempty"`
	Description  string    `json:"description,omitempty"`
	Access       string    `json:"access"`
	Language     string    `json:"language"`
	PageCount    int       `json:"page_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Organization *string   `json:"organization,omitempty"`
	Highlight    *string   `json:"highlight,omitempty"`
	NoteCount    *int      `json:"note_count,omitempty"`
}

// SearchResponse is the POST /api/v1/search reply: the echoed query summary
// and the result documents.
type SearchResponse struct {
	Query     query.Summary  `json:"query"`
	Documents []DocumentView `json:"documents"`
}

// HealthResponse is the GET /health reply.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
