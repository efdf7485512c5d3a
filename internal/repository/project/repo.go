// Package project resolves project-title filters to document ids.
package project

import (
	"context"

	"github.com/foliodocs/folio/internal/db"
)

// Repo implements project lookups against the relational store.
type Repo struct {
	store db.SQL
}

// New creates a project repository.
func New(store db.SQL) *Repo {
	return &Repo{store: store}
}

// DocumentIDs returns the ids of all documents in the account's projects
// whose titles match any of the given titles. Unknown titles contribute
// nothing; an account with no matching projects yields an empty set.
func (r *Repo) DocumentIDs(ctx context.Context, accountID int64, titles []string) ([]int64, error) {
	if len(titles) == 0 {
		return nil, nil
	}

	rows, err := r.store.Query(ctx,
		`SELECT pd.document_id
		   FROM projects p
		   JOIN project_documents pd ON pd.project_id = p.id
		  WHERE p.account_id = $1 AND p.title = ANY($2)`,
		accountID, titles,
	)
	if err != nil {
		return nil, &db.Error{Op: "projects.document_ids", Err: err}
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, &db.Error{Op: "projects.document_ids", Err: err}
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: "projects.document_ids", Err: err}
	}
	return ids, nil
}
