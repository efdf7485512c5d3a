package chi

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/foliodocs/folio/internal/domain"
	domdoc "github.com/foliodocs/folio/internal/domain/document"
	"github.com/foliodocs/folio/internal/domain/search/condition"
	healthuc "github.com/foliodocs/folio/internal/usecase/health"
	searchuc "github.com/foliodocs/folio/internal/usecase/search"
)

type fakeCollection struct {
	docs  []domdoc.Document
	total int
	err   error
}

func (f *fakeCollection) Count(_ context.Context, _ condition.Set) (int, error) {
	return f.total, f.err
}

func (f *fakeCollection) FetchPage(
	_ context.Context, _ condition.Set, _, _ int,
) ([]domdoc.Document, error) {
	return f.docs, f.err
}

func (f *fakeCollection) FetchAll(_ context.Context, _ condition.Set) ([]domdoc.Document, error) {
	return f.docs, f.err
}

type fakeScope struct {
	coll searchuc.Collection
	err  error

	lastIdentity domain.Identity
	calls        int
}

func (f *fakeScope) For(_ context.Context, identity domain.Identity) (searchuc.Collection, error) {
	f.calls++
	f.lastIdentity = identity
	if f.err != nil {
		return nil, f.err
	}
	return f.coll, nil
}

type fakeResolver struct{}

func (fakeResolver) AccountIDByEmail(_ context.Context, _ string) (int64, error) {
	return 0, domain.ErrNotFound
}

func (fakeResolver) OrganizationIDBySlug(_ context.Context, _ string) (int64, error) {
	return 0, domain.ErrNotFound
}

type fakeProjects struct{}

func (fakeProjects) DocumentIDs(_ context.Context, _ int64, _ []string) ([]int64, error) {
	return nil, nil
}

type fakeAnnotations struct {
	counts map[int64]int
}

func (f *fakeAnnotations) CountForDocuments(
	_ context.Context, _ domain.Identity, _ []int64,
) (map[int64]int, error) {
	return f.counts, nil
}

type fakeHighlighter struct {
	highlights map[int64]string
}

func (f *fakeHighlighter) Highlight(
	_ context.Context, _ []int64, _ string,
) (map[int64]string, error) {
	return f.highlights, nil
}

type fakeOrgs struct {
	names map[int64]string
}

func (f *fakeOrgs) OrganizationNames(_ context.Context, _ []int64) (map[int64]string, error) {
	return f.names, nil
}

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(_ context.Context) error { return f.err }

type fixture struct {
	scope       *fakeScope
	annotations *fakeAnnotations
	highlighter *fakeHighlighter
	orgs        *fakeOrgs
	archive     *fakePinger
	cache       *fakePinger
}

func newFixture() *fixture {
	return &fixture{
		scope:       &fakeScope{coll: &fakeCollection{}},
		annotations: &fakeAnnotations{counts: map[int64]int{}},
		highlighter: &fakeHighlighter{highlights: map[int64]string{}},
		orgs:        &fakeOrgs{names: map[int64]string{}},
		archive:     &fakePinger{},
		cache:       &fakePinger{},
	}
}

func (f *fixture) server(highlighting bool) *Server {
	svc := searchuc.New(
		searchuc.NewCompiler(fakeResolver{}, fakeProjects{}),
		f.scope, f.annotations, f.highlighter, f.orgs,
	).WithHighlighting(highlighting)
	return NewServer(svc, healthuc.New(f.archive, f.cache), zap.NewNop())
}

func testDoc(id, orgID int64, title string) domdoc.Document {
	return domdoc.Reconstruct(
		id, 7, orgID, domdoc.AccessPublic,
		title, "doc-slug", "registry", "a short description", "en", 4,
		time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC),
	)
}
