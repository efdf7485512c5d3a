package document

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/foliodocs/folio/internal/db"
	"github.com/foliodocs/folio/internal/domain"
	domdoc "github.com/foliodocs/folio/internal/domain/document"
	"github.com/foliodocs/folio/internal/domain/search/condition"
)

// Repo resolves caller identities into access-scoped document collections.
type Repo struct {
	store db.SQL
}

// New creates a document repository.
func New(store db.SQL) *Repo {
	return &Repo{store: store}
}

// For resolves the base collection the identity may search. Authenticated
// callers must present an account that exists and belongs to the claimed
// organization; anything else is an access denial, not a lookup miss.
func (r *Repo) For(ctx context.Context, identity domain.Identity) (*Collection, error) {
	if identity.IsAnonymous() {
		return &Collection{store: r.store, identity: identity}, nil
	}

	var organizationID int64
	err := r.store.QueryRow(ctx,
		"SELECT organization_id FROM accounts WHERE id = $1",
		identity.AccountID(),
	).Scan(&organizationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: unknown account %d", domain.ErrAccessDenied, identity.AccountID())
		}
		return nil, &db.Error{Op: "accounts.lookup", Err: err}
	}
	if organizationID != identity.OrganizationID() {
		return nil, fmt.Errorf("%w: account %d is not in organization %d",
			domain.ErrAccessDenied, identity.AccountID(), identity.OrganizationID())
	}

	return &Collection{store: r.store, identity: identity}, nil
}

// Collection is the access-scoped document set for one identity. Count and
// fetch are independent reads of the same condition set; a write landing
// between them may skew the total slightly, which pagination tolerates.
type Collection struct {
	store    db.SQL
	identity domain.Identity
}

// Count returns the number of documents matching the compiled conditions.
func (c *Collection) Count(ctx context.Context, cond condition.Set) (int, error) {
	sql, args := buildCountSQL(cond, c.identity)

	var total int
	if err := c.store.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, &db.Error{Op: "documents.count", Err: err}
	}
	return total, nil
}

// FetchPage returns one chronologically ordered window of the match set.
func (c *Collection) FetchPage(ctx context.Context, cond condition.Set, offset, limit int) ([]domdoc.Document, error) {
	sql, args := buildFetchSQL(cond, c.identity, offset, limit)
	return c.fetch(ctx, sql, args)
}

// FetchAll returns the full chronologically ordered match set.
func (c *Collection) FetchAll(ctx context.Context, cond condition.Set) ([]domdoc.Document, error) {
	sql, args := buildFetchSQL(cond, c.identity, 0, -1)
	return c.fetch(ctx, sql, args)
}

func (c *Collection) fetch(ctx context.Context, sql string, args []any) ([]domdoc.Document, error) {
	rows, err := c.store.Query(ctx, sql, args...)
	if err != nil {
		return nil, &db.Error{Op: "documents.fetch", Err: err}
	}
	defer rows.Close()

	docs, err := scanDocuments(rows)
	if err != nil {
		return nil, &db.Error{Op: "documents.fetch", Err: err}
	}
	return docs, nil
}

func scanDocuments(rows pgx.Rows) ([]domdoc.Document, error) {
	var docs []domdoc.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

func scanDocument(row pgx.Row) (domdoc.Document, error) {
	var (
		id, accountID, organizationID int64
		access                        int16
		title, slug, source           string
		description, language         string
		pageCount                     int
		createdAt, updatedAt          time.Time
	)
	err := row.Scan(
		&id, &accountID, &organizationID, &access, &title, &slug, &source,
		&description, &language, &pageCount, &createdAt, &updatedAt,
	)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("scan document: %w", err)
	}
	return domdoc.Reconstruct(
		id, accountID, organizationID, domdoc.Access(access),
		title, slug, source, description, language, pageCount,
		createdAt, updatedAt,
	), nil
}
