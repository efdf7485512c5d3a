// Package annotation counts the notes attached to documents, restricted to
// what the acting identity may see.
package annotation

import (
	"context"

	"github.com/foliodocs/folio/internal/db"
	"github.com/foliodocs/folio/internal/domain"
	"github.com/foliodocs/folio/internal/domain/document"
)

// Repo implements annotation lookups against the relational store.
type Repo struct {
	store db.SQL
}

// New creates an annotation repository.
func New(store db.SQL) *Repo {
	return &Repo{store: store}
}

// CountForDocuments returns per-document counts of the annotations visible to
// the identity: public notes, the caller's own, and organization-shared notes
// within the caller's organization. Documents without visible notes are
// absent from the result.
func (r *Repo) CountForDocuments(ctx context.Context, identity domain.Identity, ids []int64) (map[int64]int, error) {
	if len(ids) == 0 {
		return map[int64]int{}, nil
	}

	rows, err := r.store.Query(ctx,
		`SELECT document_id, COUNT(*)
		   FROM annotations
		  WHERE document_id = ANY($1)
		    AND (access = $2
		         OR account_id = $3
		         OR (access = $4 AND organization_id = $5))
		  GROUP BY document_id`,
		ids,
		int16(document.AccessPublic),
		identity.AccountID(),
		int16(document.AccessOrganization),
		identity.OrganizationID(),
	)
	if err != nil {
		return nil, &db.Error{Op: "annotations.count", Err: err}
	}
	defer rows.Close()

	counts := make(map[int64]int, len(ids))
	for rows.Next() {
		var (
			id int64
			n  int
		)
		if err := rows.Scan(&id, &n); err != nil {
			return nil, &db.Error{Op: "annotations.count", Err: err}
		}
		counts[id] = n
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: "annotations.count", Err: err}
	}
	return counts, nil
}
