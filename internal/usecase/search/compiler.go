package search

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/foliodocs/folio/internal/domain"
	"github.com/foliodocs/folio/internal/domain/search/condition"
	"github.com/foliodocs/folio/internal/domain/search/query"
	"github.com/foliodocs/folio/internal/domain/search/term"
	"github.com/foliodocs/folio/internal/logger"
)

// matchNoneID is bound in place of an account or organization id when the
// referenced entity does not exist. Serial ids start at 1, so no row matches
// and the query still runs with every other predicate intact.
const matchNoneID int64 = -1

// phrasePattern captures double-quoted runs inside the query text.
var phrasePattern = regexp.MustCompile(`"([^"]*)"`)

// likeEscaper guards LIKE wildcards in user-provided phrases.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// vectorColumns is the closed set of attribute kinds that match against a
// document text vector. Values are column names, never user input.
var vectorColumns = map[string]string{
	"title":       "title_vector",
	"source":      "source_vector",
	"description": "description_vector",
}

// Compiler translates parsed queries into SQL condition sets. Reserved
// attributes and project filters are resolved against the directory before
// the condition is assembled, so the produced set is self-contained.
type Compiler struct {
	resolver Resolver
	projects Projects
}

// NewCompiler creates a query compiler.
func NewCompiler(resolver Resolver, projects Projects) *Compiler {
	return &Compiler{resolver: resolver, projects: projects}
}

// Compile turns a query into a condition set. Predicates are appended in a
// fixed order (text, fields, projects, attributes) so placeholder numbering
// is deterministic for a given query. The first failure aborts compilation.
func (c *Compiler) Compile(
	ctx context.Context, identity domain.Identity, q query.Query,
) (condition.Set, error) {
	var b condition.Builder

	compileText(&b, q.Text())
	compileFields(&b, q.Fields())

	if err := c.compileProjects(ctx, &b, identity, q.Projects()); err != nil {
		return condition.Set{}, err
	}
	if err := c.compileAttributes(ctx, &b, q.Attributes()); err != nil {
		return condition.Set{}, err
	}

	return b.Build(), nil
}

// compileText adds the full-text predicate: the whole text (quotes stripped)
// is matched lexically against titles and page bodies, and each quoted phrase
// additionally requires a literal page match.
func compileText(b *condition.Builder, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}

	plain := strings.TrimSpace(strings.ReplaceAll(text, `"`, " "))
	if plain != "" {
		p := b.Bind(plain)
		b.Join(fmt.Sprintf(
			"JOIN (SELECT id FROM documents"+
				" WHERE title_vector @@ plainto_tsquery('english', %s)"+
				" UNION SELECT document_id FROM page_texts"+
				" WHERE body_vector @@ plainto_tsquery('english', %s))"+
				" AS matched ON matched.id = documents.id",
			p, p,
		))
	}

	for _, m := range phrasePattern.FindAllStringSubmatch(text, -1) {
		phrase := strings.TrimSpace(m[1])
		if phrase == "" {
			continue
		}
		p := b.Bind("%" + likeEscaper.Replace(phrase) + "%")
		b.Where(fmt.Sprintf(
			"EXISTS (SELECT 1 FROM page_texts pt"+
				" WHERE pt.document_id = documents.id AND pt.body ILIKE %s)",
			p,
		))
	}
}

// compileFields adds one metadata predicate per field term. Terms are
// conjunctive: every field must match for a document to qualify.
func compileFields(b *condition.Builder, fields []term.Field) {
	for _, f := range fields {
		kind := b.Bind(f.Kind())
		value := b.Bind(f.Value())
		b.Where(fmt.Sprintf(
			"EXISTS (SELECT 1 FROM metadata"+
				" WHERE metadata.document_id = documents.id"+
				" AND metadata.kind = %s"+
				" AND metadata.value_vector @@ plainto_tsquery('english', %s))",
			kind, value,
		))
	}
}

// compileProjects restricts results to documents in the caller's named
// projects. Projects are personal, so the filter is skipped for anonymous
// callers. An empty resolved id set still applies and matches nothing.
func (c *Compiler) compileProjects(
	ctx context.Context, b *condition.Builder, identity domain.Identity, titles []string,
) error {
	if len(titles) == 0 {
		return nil
	}
	if identity.IsAnonymous() {
		logger.FromContext(ctx).Debug("project filter skipped for anonymous caller",
			zap.Strings("projects", titles))
		return nil
	}

	ids, err := c.projects.DocumentIDs(ctx, identity.AccountID(), titles)
	if err != nil {
		return fmt.Errorf("resolve projects: %w", err)
	}
	if ids == nil {
		ids = []int64{}
	}

	b.Where("documents.id = ANY(" + b.Bind(ids) + ")")
	return nil
}

// compileAttributes adds one predicate per attribute term. Reserved kinds
// resolve through the directory to an id equality; all remaining kinds match
// a document text vector.
func (c *Compiler) compileAttributes(
	ctx context.Context, b *condition.Builder, attrs []term.Attribute,
) error {
	for _, a := range attrs {
		switch {
		case a.IsOwnerAccount():
			id, err := c.resolveID(ctx, a,
				func() (int64, error) { return c.resolver.AccountIDByEmail(ctx, a.Value()) })
			if err != nil {
				return err
			}
			b.Where("documents.account_id = " + b.Bind(id))

		case a.IsOrganization():
			id, err := c.resolveID(ctx, a,
				func() (int64, error) { return c.resolver.OrganizationIDBySlug(ctx, a.Value()) })
			if err != nil {
				return err
			}
			b.Where("documents.organization_id = " + b.Bind(id))

		default:
			column, ok := vectorColumns[a.Kind()]
			if !ok {
				return domain.NewCompilationError("unknown attribute kind %q", a.Kind())
			}
			b.Where(fmt.Sprintf(
				"documents.%s @@ plainto_tsquery('english', %s)",
				column, b.Bind(a.Value()),
			))
		}
	}
	return nil
}

// resolveID looks up the id behind a reserved attribute. A missing entity is
// not an error: the attribute degrades to a predicate that matches no rows.
func (c *Compiler) resolveID(
	ctx context.Context, a term.Attribute, lookup func() (int64, error),
) (int64, error) {
	id, err := lookup()
	if errors.Is(err, domain.ErrNotFound) {
		logger.FromContext(ctx).Debug("attribute resolved to no entity",
			zap.String("kind", a.Kind()), zap.String("value", a.Value()))
		return matchNoneID, nil
	}
	if err != nil {
		return 0, fmt.Errorf("resolve %s attribute: %w", a.Kind(), err)
	}
	return id, nil
}
