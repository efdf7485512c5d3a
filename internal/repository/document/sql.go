package document

import (
	"fmt"
	"strings"

	"github.com/foliodocs/folio/internal/domain"
	domdoc "github.com/foliodocs/folio/internal/domain/document"
	"github.com/foliodocs/folio/internal/domain/search/condition"
)

const documentColumns = "documents.id, documents.account_id, documents.organization_id, " +
	"documents.access, documents.title, documents.slug, documents.source, " +
	"documents.description, documents.language, documents.page_count, " +
	"documents.created_at, documents.updated_at"

// chronologicalOrder is the fixed result order: most recent first, id as a
// deterministic tie-break. Callers never choose another order.
const chronologicalOrder = "documents.created_at DESC, documents.id DESC"

// buildCountSQL assembles the match-count statement. Compiled placeholders
// occupy $1..$N; the access scope binds from $N+1.
func buildCountSQL(cond condition.Set, identity domain.Identity) (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT COUNT(*) FROM documents")
	writeJoins(&sb, cond)

	args := cond.Params()
	scope, args := scopeClause(identity, args)
	writeWhere(&sb, cond, scope)
	return sb.String(), args
}

// buildFetchSQL assembles the page-fetch statement. A negative limit means
// "no window" (full chronological match set).
func buildFetchSQL(cond condition.Set, identity domain.Identity, offset, limit int) (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(documentColumns)
	sb.WriteString(" FROM documents")
	writeJoins(&sb, cond)

	args := cond.Params()
	scope, args := scopeClause(identity, args)
	writeWhere(&sb, cond, scope)

	sb.WriteString(" ORDER BY ")
	sb.WriteString(chronologicalOrder)

	if limit >= 0 {
		args = append(args, limit)
		sb.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
		args = append(args, offset)
		sb.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))
	}
	return sb.String(), args
}

// scopeClause restricts the base collection to what the identity may see:
// public documents for anonymous callers; public, organization-shared within
// the caller's organization, and the caller's own private documents otherwise.
func scopeClause(identity domain.Identity, args []any) (string, []any) {
	if identity.IsAnonymous() {
		args = append(args, int16(domdoc.AccessPublic))
		return fmt.Sprintf("documents.access = $%d", len(args)), args
	}

	args = append(args, int16(domdoc.AccessPublic))
	public := len(args)
	args = append(args, int16(domdoc.AccessOrganization), identity.OrganizationID())
	orgAccess, org := len(args)-1, len(args)
	args = append(args, int16(domdoc.AccessPrivate), identity.AccountID())
	privAccess, acct := len(args)-1, len(args)

	clause := fmt.Sprintf(
		"(documents.access = $%d OR (documents.access = $%d AND documents.organization_id = $%d) OR (documents.access = $%d AND documents.account_id = $%d))",
		public, orgAccess, org, privAccess, acct,
	)
	return clause, args
}

func writeJoins(sb *strings.Builder, cond condition.Set) {
	for _, j := range cond.Joins() {
		sb.WriteString(" ")
		sb.WriteString(j)
	}
}

func writeWhere(sb *strings.Builder, cond condition.Set, scope string) {
	where := cond.Where()
	where = append(where, scope)
	sb.WriteString(" WHERE ")
	sb.WriteString(strings.Join(where, " AND "))
}
