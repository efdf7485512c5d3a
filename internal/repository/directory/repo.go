// Package directory resolves account and organization identifiers used by
// attribute filters, and organization display names used by enrichment.
package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/foliodocs/folio/internal/db"
	"github.com/foliodocs/folio/internal/domain"
)

// Repo implements directory lookups against the relational store.
type Repo struct {
	store db.SQL
}

// New creates a directory repository.
func New(store db.SQL) *Repo {
	return &Repo{store: store}
}

// AccountIDByEmail resolves an account email to its id.
// Returns domain.ErrNotFound when no account carries the email.
func (r *Repo) AccountIDByEmail(ctx context.Context, email string) (int64, error) {
	var id int64
	err := r.store.QueryRow(ctx,
		"SELECT id FROM accounts WHERE lower(email) = lower($1)",
		email,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%w: account %q", domain.ErrNotFound, email)
		}
		return 0, &db.Error{Op: "accounts.by_email", Err: err}
	}
	return id, nil
}

// OrganizationIDBySlug resolves an organization slug to its id.
// Returns domain.ErrNotFound when no organization carries the slug.
func (r *Repo) OrganizationIDBySlug(ctx context.Context, slug string) (int64, error) {
	var id int64
	err := r.store.QueryRow(ctx,
		"SELECT id FROM organizations WHERE slug = $1",
		slug,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%w: organization %q", domain.ErrNotFound, slug)
		}
		return 0, &db.Error{Op: "organizations.by_slug", Err: err}
	}
	return id, nil
}

// OrganizationNames returns display names for the given organization ids.
// Unknown ids are simply absent from the result.
func (r *Repo) OrganizationNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	if len(ids) == 0 {
		return map[int64]string{}, nil
	}

	rows, err := r.store.Query(ctx,
		"SELECT id, name FROM organizations WHERE id = ANY($1)",
		ids,
	)
	if err != nil {
		return nil, &db.Error{Op: "organizations.names", Err: err}
	}
	defer rows.Close()

	names := make(map[int64]string, len(ids))
	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, &db.Error{Op: "organizations.names", Err: err}
		}
		names[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: "organizations.names", Err: err}
	}
	return names, nil
}
