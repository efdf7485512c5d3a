package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/foliodocs/folio/internal/domain"
	"github.com/foliodocs/folio/internal/domain/search/query"
	"github.com/foliodocs/folio/internal/domain/search/result"
	"github.com/foliodocs/folio/internal/metrics"
)

// Service executes archive searches: it compiles the query, resolves the
// caller's visibility scope, runs count and fetch against it, and enriches
// the returned page.
type Service struct {
	compiler     *Compiler
	scope        Scope
	annotations  Annotations
	highlighter  Highlighter
	orgs         OrganizationDirectory
	highlighting bool
}

// New creates a search service. Highlighting is off until enabled with
// WithHighlighting.
func New(
	compiler *Compiler,
	scope Scope,
	annotations Annotations,
	highlighter Highlighter,
	orgs OrganizationDirectory,
) *Service {
	return &Service{
		compiler:    compiler,
		scope:       scope,
		annotations: annotations,
		highlighter: highlighter,
		orgs:        orgs,
	}
}

// WithHighlighting toggles excerpt generation for matching pages.
func (s *Service) WithHighlighting(enabled bool) *Service {
	s.highlighting = enabled
	return s
}

// Run executes a query for the given caller and returns the result page with
// its enrichment overlay. Paginated queries count the full match set and
// fetch one window; unpaginated queries fetch every match. The count and the
// fetch are separate statements, so a concurrent write may skew total against
// the window contents. That is accepted: pages must stay cheap, and the skew
// heals on the next request.
func (s *Service) Run(
	ctx context.Context, identity domain.Identity, q query.Query,
) (result.Page, result.Overlay, error) {
	cond, err := s.compiler.Compile(ctx, identity, q)
	if err != nil {
		metrics.SearchesTotal.WithLabelValues(outcomeFor(err)).Inc()
		return result.Page{}, result.Overlay{}, err
	}

	coll, err := s.scope.For(ctx, identity)
	if err != nil {
		metrics.SearchesTotal.WithLabelValues(outcomeFor(err)).Inc()
		return result.Page{}, result.Overlay{}, fmt.Errorf("resolve scope: %w", err)
	}

	var page result.Page
	if q.Paginated() {
		total, err := coll.Count(ctx, cond)
		if err != nil {
			metrics.SearchesTotal.WithLabelValues(metrics.OutcomeError).Inc()
			return result.Page{}, result.Overlay{}, fmt.Errorf("count documents: %w", err)
		}
		docs, err := coll.FetchPage(ctx, cond, q.From(), query.PageSize)
		if err != nil {
			metrics.SearchesTotal.WithLabelValues(metrics.OutcomeError).Inc()
			return result.Page{}, result.Overlay{}, fmt.Errorf("fetch page: %w", err)
		}
		page = result.NewPaginatedPage(docs, total)
	} else {
		docs, err := coll.FetchAll(ctx, cond)
		if err != nil {
			metrics.SearchesTotal.WithLabelValues(metrics.OutcomeError).Inc()
			return result.Page{}, result.Overlay{}, fmt.Errorf("fetch documents: %w", err)
		}
		page = result.NewPage(docs)
	}

	overlay, err := s.enrich(ctx, identity, q, page)
	if err != nil {
		metrics.SearchesTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return result.Page{}, result.Overlay{}, err
	}

	metrics.SearchesTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	metrics.SearchResults.Observe(float64(page.Len()))
	return page, overlay, nil
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrCompilation):
		return metrics.OutcomeRejected
	case errors.Is(err, domain.ErrAccessDenied):
		return metrics.OutcomeDenied
	default:
		return metrics.OutcomeError
	}
}
