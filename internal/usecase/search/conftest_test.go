package search

import (
	"context"
	"testing"
	"time"

	"github.com/foliodocs/folio/internal/domain"
	domdoc "github.com/foliodocs/folio/internal/domain/document"
	"github.com/foliodocs/folio/internal/domain/search/condition"
	"github.com/foliodocs/folio/internal/domain/search/query"
	"github.com/foliodocs/folio/internal/domain/search/term"
)

type mockCollection struct {
	countFn     func(ctx context.Context, cond condition.Set) (int, error)
	fetchPageFn func(ctx context.Context, cond condition.Set, offset, limit int) ([]domdoc.Document, error)
	fetchAllFn  func(ctx context.Context, cond condition.Set) ([]domdoc.Document, error)

	countCalls     int
	fetchPageCalls int
	fetchAllCalls  int
	lastOffset     int
	lastLimit      int
}

func (m *mockCollection) Count(ctx context.Context, cond condition.Set) (int, error) {
	m.countCalls++
	if m.countFn != nil {
		return m.countFn(ctx, cond)
	}
	return 0, nil
}

func (m *mockCollection) FetchPage(
	ctx context.Context, cond condition.Set, offset, limit int,
) ([]domdoc.Document, error) {
	m.fetchPageCalls++
	m.lastOffset, m.lastLimit = offset, limit
	if m.fetchPageFn != nil {
		return m.fetchPageFn(ctx, cond, offset, limit)
	}
	return nil, nil
}

func (m *mockCollection) FetchAll(
	ctx context.Context, cond condition.Set,
) ([]domdoc.Document, error) {
	m.fetchAllCalls++
	if m.fetchAllFn != nil {
		return m.fetchAllFn(ctx, cond)
	}
	return nil, nil
}

type mockScope struct {
	forFn func(ctx context.Context, identity domain.Identity) (Collection, error)
	calls int
}

func (m *mockScope) For(ctx context.Context, identity domain.Identity) (Collection, error) {
	m.calls++
	if m.forFn != nil {
		return m.forFn(ctx, identity)
	}
	return &mockCollection{}, nil
}

type mockResolver struct {
	accountFn func(ctx context.Context, email string) (int64, error)
	orgFn     func(ctx context.Context, slug string) (int64, error)

	accountCalls int
	orgCalls     int
}

func (m *mockResolver) AccountIDByEmail(ctx context.Context, email string) (int64, error) {
	m.accountCalls++
	if m.accountFn != nil {
		return m.accountFn(ctx, email)
	}
	return 0, domain.ErrNotFound
}

func (m *mockResolver) OrganizationIDBySlug(ctx context.Context, slug string) (int64, error) {
	m.orgCalls++
	if m.orgFn != nil {
		return m.orgFn(ctx, slug)
	}
	return 0, domain.ErrNotFound
}

type mockProjects struct {
	idsFn func(ctx context.Context, accountID int64, titles []string) ([]int64, error)

	calls         int
	lastAccountID int64
	lastTitles    []string
}

func (m *mockProjects) DocumentIDs(
	ctx context.Context, accountID int64, titles []string,
) ([]int64, error) {
	m.calls++
	m.lastAccountID, m.lastTitles = accountID, titles
	if m.idsFn != nil {
		return m.idsFn(ctx, accountID, titles)
	}
	return nil, nil
}

type mockAnnotations struct {
	countFn func(ctx context.Context, identity domain.Identity, ids []int64) (map[int64]int, error)

	calls        int
	lastIdentity domain.Identity
	lastIDs      []int64
}

func (m *mockAnnotations) CountForDocuments(
	ctx context.Context, identity domain.Identity, ids []int64,
) (map[int64]int, error) {
	m.calls++
	m.lastIdentity, m.lastIDs = identity, ids
	if m.countFn != nil {
		return m.countFn(ctx, identity, ids)
	}
	return map[int64]int{}, nil
}

type mockHighlighter struct {
	highlightFn func(ctx context.Context, ids []int64, text string) (map[int64]string, error)

	calls    int
	lastIDs  []int64
	lastText string
}

func (m *mockHighlighter) Highlight(
	ctx context.Context, ids []int64, text string,
) (map[int64]string, error) {
	m.calls++
	m.lastIDs, m.lastText = ids, text
	if m.highlightFn != nil {
		return m.highlightFn(ctx, ids, text)
	}
	return map[int64]string{}, nil
}

type mockOrgs struct {
	namesFn func(ctx context.Context, ids []int64) (map[int64]string, error)

	calls   int
	lastIDs []int64
}

func (m *mockOrgs) OrganizationNames(
	ctx context.Context, ids []int64,
) (map[int64]string, error) {
	m.calls++
	m.lastIDs = ids
	if m.namesFn != nil {
		return m.namesFn(ctx, ids)
	}
	return map[int64]string{}, nil
}

func archivedDoc(id, orgID int64) domdoc.Document {
	return domdoc.Reconstruct(
		id, 7, orgID, domdoc.AccessPublic,
		"Quarterly Report", "quarterly-report", "finance", "Numbers for Q3", "en", 12,
		time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
	)
}

func member(t *testing.T) domain.Identity {
	t.Helper()
	id, err := domain.NewIdentity(7, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return id
}

func mustQuery(
	t *testing.T, text string, fields []term.Field, projects []string, attrs []term.Attribute,
) query.Query {
	t.Helper()
	q, err := query.New(text, fields, projects, attrs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return q
}

func mustPaged(t *testing.T, q query.Query, page int) query.Query {
	t.Helper()
	paged, err := q.WithPage(page)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return paged
}

func mustField(t *testing.T, kind, value string) term.Field {
	t.Helper()
	f, err := term.NewField(kind, value)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return f
}

func mustAttribute(t *testing.T, kind, value string) term.Attribute {
	t.Helper()
	a, err := term.ParseAttribute(kind, value)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return a
}
