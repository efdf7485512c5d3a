package result

import "github.com/foliodocs/folio/internal/domain/document"

// Page is one fetched result set: either a bounded page of a paginated run
// (with the overall match count) or the full match set of an unpaginated run.
type Page struct {
	documents []document.Document
	total     int
	paginated bool
}

// NewPage creates the result of an unpaginated run.
func NewPage(documents []document.Document) Page {
	return Page{documents: documents}
}

// NewPaginatedPage creates one page of a paginated run together with the
// match count across the whole set.
func NewPaginatedPage(documents []document.Document, total int) Page {
	return Page{documents: documents, total: total, paginated: true}
}

// Documents returns the fetched documents, most recent first.
func (p Page) Documents() []document.Document { return p.documents }

// Total returns the overall match count (meaningful only when paginated).
func (p Page) Total() int { return p.total }

// IsPaginated reports whether this page came from a paginated run.
func (p Page) IsPaginated() bool { return p.paginated }

// Len returns the number of fetched documents.
func (p Page) Len() int { return len(p.documents) }

// Overlay carries per-document enrichment produced after the fetch. It is
// keyed by document id (organization names by organization id) and composed
// with the base results only at the presentation boundary; the documents
// themselves are never decorated in place.
type Overlay struct {
	highlights map[int64]string
	noteCounts map[int64]int
	orgNames   map[int64]string
}

// NewOverlay assembles an enrichment overlay. Missing keys mean "no
// decoration for this document"; nil maps are fine.
func NewOverlay(highlights map[int64]string, noteCounts map[int64]int, orgNames map[int64]string) Overlay {
	return Overlay{highlights: highlights, noteCounts: noteCounts, orgNames: orgNames}
}

// Highlight returns the highlight excerpt for a document.
func (o Overlay) Highlight(documentID int64) (string, bool) {
	h, ok := o.highlights[documentID]
	return h, ok
}

// NoteCount returns the visible annotation count for a document.
func (o Overlay) NoteCount(documentID int64) (int, bool) {
	n, ok := o.noteCounts[documentID]
	return n, ok
}

// OrganizationName returns the display name for an organization.
func (o Overlay) OrganizationName(organizationID int64) (string, bool) {
	n, ok := o.orgNames[organizationID]
	return n, ok
}
