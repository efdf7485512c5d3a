package search

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/foliodocs/folio/internal/domain"
	domdoc "github.com/foliodocs/folio/internal/domain/document"
	"github.com/foliodocs/folio/internal/domain/search/query"
	"github.com/foliodocs/folio/internal/domain/search/result"
)

// enrich runs the overlay passes for a result page. Highlighting needs the
// feature flag and query text, annotation counts need an authenticated
// caller, and organization names always run. The passes are independent, so
// they fan out concurrently; each goroutine owns its own map and error slot
// and the WaitGroup is the only synchronization.
func (s *Service) enrich(
	ctx context.Context, identity domain.Identity, q query.Query, page result.Page,
) (result.Overlay, error) {
	docs := page.Documents()
	if len(docs) == 0 {
		return result.NewOverlay(nil, nil, nil), nil
	}

	ids := documentIDs(docs)

	var (
		wg sync.WaitGroup

		highlights   map[int64]string
		highlightErr error

		counts   map[int64]int
		countErr error

		names   map[int64]string
		nameErr error
	)

	if s.highlighting && strings.TrimSpace(q.Text()) != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			highlights, highlightErr = s.highlighter.Highlight(ctx, ids, q.Text())
		}()
	}

	if !identity.IsAnonymous() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			counts, countErr = s.annotations.CountForDocuments(ctx, identity, ids)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		names, nameErr = s.orgs.OrganizationNames(ctx, organizationIDs(docs))
	}()

	wg.Wait()

	if highlightErr != nil {
		return result.Overlay{}, fmt.Errorf("highlight matches: %w", highlightErr)
	}
	if countErr != nil {
		return result.Overlay{}, fmt.Errorf("count annotations: %w", countErr)
	}
	if nameErr != nil {
		return result.Overlay{}, fmt.Errorf("resolve organization names: %w", nameErr)
	}

	return result.NewOverlay(highlights, counts, names), nil
}

func documentIDs(docs []domdoc.Document) []int64 {
	ids := make([]int64, 0, len(docs))
	for i := range docs {
		ids = append(ids, docs[i].ID())
	}
	return ids
}

func organizationIDs(docs []domdoc.Document) []int64 {
	seen := make(map[int64]struct{}, len(docs))
	ids := make([]int64, 0, len(docs))
	for i := range docs {
		id := docs[i].OrganizationID()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
