package folio

import "context"

// QueryBuilder is a fluent builder for search queries.
type QueryBuilder struct {
	client *Client
	req    SearchRequest
}

// Query starts a new search query against this client.
func (c *Client) Query() *QueryBuilder {
	return &QueryBuilder{client: c}
}

// Text sets the free-text term, matched against titles and page texts.
func (b *QueryBuilder) Text(text string) *QueryBuilder {
	b.req.Text = text
	return b
}

// Field adds a metadata field term: match documents carrying a metadata
// entry of this kind whose value matches the given text.
func (b *QueryBuilder) Field(kind, value string) *QueryBuilder {
	b.req.Fields = append(b.req.Fields, Term{Kind: kind, Value: value})
	return b
}

// Project restricts results to documents filed under the caller's project
// with the given title. Repeat for several projects.
func (b *QueryBuilder) Project(title string) *QueryBuilder {
	b.req.Projects = append(b.req.Projects, title)
	return b
}

// OwnerAccount restricts results to documents owned by the account with the
// given email.
func (b *QueryBuilder) OwnerAccount(email string) *QueryBuilder {
	b.req.Attributes = append(b.req.Attributes, Term{Kind: "account", Value: email})
	return b
}

// Organization restricts results to documents belonging to the organization
// with the given slug.
func (b *QueryBuilder) Organization(slug string) *QueryBuilder {
	b.req.Attributes = append(b.req.Attributes, Term{Kind: "organization", Value: slug})
	return b
}

// Vector adds an attribute term matched against one of the document's text
// vectors ("title", "source" or "description").
func (b *QueryBuilder) Vector(kind, text string) *QueryBuilder {
	b.req.Attributes = append(b.req.Attributes, Term{Kind: kind, Value: text})
	return b
}

// Page requests one ten-document window of the match set (zero-based) and
// turns on the total count. Without it the full match set comes back.
func (b *QueryBuilder) Page(n int) *QueryBuilder {
	page := n
	b.req.Page = &page
	return b
}

// Request returns the wire request built so far.
func (b *QueryBuilder) Request() SearchRequest {
	return b.req
}

// Do executes the query.
func (b *QueryBuilder) Do(ctx context.Context) (*SearchResult, error) {
	return b.client.Search(ctx, b.req)
}
