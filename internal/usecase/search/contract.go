package search

import (
	"context"

	"github.com/foliodocs/folio/internal/domain"
	domdoc "github.com/foliodocs/folio/internal/domain/document"
	"github.com/foliodocs/folio/internal/domain/search/condition"
)

// Collection is a set of documents the caller is allowed to see,
// narrowed further by a compiled condition set.
type Collection interface {
	Count(ctx context.Context, cond condition.Set) (int, error)
	FetchPage(ctx context.Context, cond condition.Set, offset, limit int) ([]domdoc.Document, error)
	FetchAll(ctx context.Context, cond condition.Set) ([]domdoc.Document, error)
}

// Scope resolves the caller's identity into its visible document collection.
type Scope interface {
	For(ctx context.Context, identity domain.Identity) (Collection, error)
}

// ScopeFunc adapts a function to the Scope contract.
type ScopeFunc func(ctx context.Context, identity domain.Identity) (Collection, error)

// For calls f.
func (f ScopeFunc) For(ctx context.Context, identity domain.Identity) (Collection, error) {
	return f(ctx, identity)
}

// Resolver maps account emails and organization slugs to ids during compilation.
type Resolver interface {
	AccountIDByEmail(ctx context.Context, email string) (int64, error)
	OrganizationIDBySlug(ctx context.Context, slug string) (int64, error)
}

// Projects resolves project titles into member document ids.
type Projects interface {
	DocumentIDs(ctx context.Context, accountID int64, titles []string) ([]int64, error)
}

// Annotations counts annotations visible to the caller per document.
type Annotations interface {
	CountForDocuments(ctx context.Context, identity domain.Identity, ids []int64) (map[int64]int, error)
}

// Highlighter produces match excerpts for documents against the query text.
type Highlighter interface {
	Highlight(ctx context.Context, ids []int64, text string) (map[int64]string, error)
}

// OrganizationDirectory resolves organization ids to display names.
type OrganizationDirectory interface {
	OrganizationNames(ctx context.Context, ids []int64) (map[int64]string, error)
}
