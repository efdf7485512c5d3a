package query

import (
	"fmt"

	"github.com/foliodocs/folio/internal/domain/search/term"
)

// Search parameter limits.
const (
	// PageSize is the fixed number of documents per result page.
	PageSize = 10
	// MaxTextLength is the maximum allowed free-text length.
	MaxTextLength = 4096
	MaxTerms      = 32
)

// Query is a validated, immutable search request. A query is built once from
// the parser's output, run once, and discarded; pagination bounds are derived
// from the page index and never set independently.
type Query struct {
	text       string
	fields     []term.Field
	projects   []string
	attributes []term.Attribute
	page       *int
	from       int
	to         int
}

// New validates and creates a Query. Empty term lists mean "no filter for
// that category", never "match nothing".
func New(text string, fields []term.Field, projects []string, attributes []term.Attribute) (Query, error) {
	if len(text) > MaxTextLength {
		return Query{}, fmt.Errorf("search text too long (max %d chars)", MaxTextLength)
	}
	if len(fields) > MaxTerms {
		return Query{}, fmt.Errorf("too many field terms (max %d)", MaxTerms)
	}
	if len(attributes) > MaxTerms {
		return Query{}, fmt.Errorf("too many attribute terms (max %d)", MaxTerms)
	}
	if len(projects) > MaxTerms {
		return Query{}, fmt.Errorf("too many project titles (max %d)", MaxTerms)
	}
	for _, p := range projects {
		if p == "" {
			return Query{}, fmt.Errorf("project title cannot be empty")
		}
	}

	return Query{
		text:       text,
		fields:     cloneFields(fields),
		projects:   cloneStrings(projects),
		attributes: cloneAttributes(attributes),
	}, nil
}

// WithPage returns a copy paginated at the given zero-based page index.
// The window bounds are always recomputed together with the page.
func (q Query) WithPage(page int) (Query, error) {
	if page < 0 {
		return Query{}, fmt.Errorf("page cannot be negative")
	}
	q.page = &page
	q.from = page * PageSize
	q.to = q.from + PageSize
	return q, nil
}

// Text returns the free-text portion of the query.
func (q Query) Text() string { return q.text }

// Fields returns the fielded metadata terms.
func (q Query) Fields() []term.Field { return q.fields }

// Projects returns the project title filters.
func (q Query) Projects() []string { return q.projects }

// Attributes returns the attribute filter terms.
func (q Query) Attributes() []term.Attribute { return q.attributes }

// Paginated reports whether a page index was set.
func (q Query) Paginated() bool { return q.page != nil }

// Page returns the zero-based page index (0 when unpaginated; check
// Paginated to tell them apart).
func (q Query) Page() int {
	if q.page == nil {
		return 0
	}
	return *q.page
}

// From returns the window lower bound (inclusive).
func (q Query) From() int { return q.from }

// To returns the window upper bound (exclusive).
func (q Query) To() int { return q.to }

func cloneFields(in []term.Field) []term.Field {
	if len(in) == 0 {
		return nil
	}
	out := make([]term.Field, len(in))
	copy(out, in)
	return out
}

func cloneAttributes(in []term.Attribute) []term.Attribute {
	if len(in) == 0 {
		return nil
	}
	out := make([]term.Attribute, len(in))
	copy(out, in)
	return out
}

func cloneStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
