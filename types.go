package folio

import (
	"fmt"
	"time"
)

// Term is a kind/value pair in a search request or query summary.
type Term struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// SearchRequest is the wire form of a search query. Page is sent as a query
// parameter; nil means unpaginated (the full match set).
type SearchRequest struct {
	Text       string   `json:"text,omitempty"`
	Fields     []Term   `json:"fields,omitempty"`
	Projects   []string `json:"projects,omitempty"`
	Attributes []Term   `json:"attributes,omitempty"`
	Page       *int     `json:"-"`
}

// QuerySummary echoes the executed query. Window bounds and the total match
// count appear only on paginated queries.
type QuerySummary struct {
	Text       string   `json:"text,omitempty"`
	Page       *int     `json:"page,omitempty"`
	From       *int     `json:"from,omitempty"`
	To         *int     `json:"to,omitempty"`
	Total      *int     `json:"total,omitempty"`
	Fields     []Term   `json:"fields,omitempty"`
	Projects   []string `json:"projects,omitempty"`
	Attributes []Term   `json:"attributes,omitempty"`
}

// Document is one result document. Organization, Highlight and NoteCount are
// enrichment fields: nil when the server had nothing to attach.
type Document struct {
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

// SearchResult is a search reply: the echoed query and its documents.
type SearchResult struct {
	Query     QuerySummary `json:"query"`
	Documents []Document   `json:"documents"`
}

// Health is the service health report.
type Health struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// APIError is a non-2xx reply decoded from the error envelope.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("folio: %s: %s (status %d, request %s)", e.Code, e.Message, e.StatusCode, e.RequestID)
	}
	return fmt.Sprintf("folio: %s: %s (status %d)", e.Code, e.Message, e.StatusCode)
}
