// Package highlight generates text excerpts showing where the search text
// matched inside a document's page texts.
package highlight

import (
	"context"

	"github.com/foliodocs/folio/internal/db"
)

// headlineOptions shapes the excerpt: up to two fragments wrapped in <em>.
const headlineOptions = "StartSel=<em>, StopSel=</em>, MaxFragments=2, MinWords=4, MaxWords=24"

// Repo implements highlight generation against the relational store.
type Repo struct {
	store db.SQL
}

// New creates a highlight repository.
func New(store db.SQL) *Repo {
	return &Repo{store: store}
}

// Highlight returns one excerpt per document whose page text lexically
// matches the search text. Documents that matched only on title carry no
// excerpt and are absent from the result.
func (r *Repo) Highlight(ctx context.Context, ids []int64, text string) (map[int64]string, error) {
	if len(ids) == 0 || text == "" {
		return map[int64]string{}, nil
	}

	rows, err := r.store.Query(ctx,
		`SELECT DISTINCT ON (document_id) document_id,
		        ts_headline('english', body, plainto_tsquery('english', $1), $2)
		   FROM page_texts
		  WHERE document_id = ANY($3)
		    AND body_vector @@ plainto_tsquery('english', $1)
		  ORDER BY document_id, page_number`,
		text, headlineOptions, ids,
	)
	if err != nil {
		return nil, &db.Error{Op: "page_texts.headline", Err: err}
	}
	defer rows.Close()

	excerpts := make(map[int64]string, len(ids))
	for rows.Next() {
		var (
			id      int64
			excerpt string
		)
		if err := rows.Scan(&id, &excerpt); err != nil {
			return nil, &db.Error{Op: "page_texts.headline", Err: err}
		}
		excerpts[id] = excerpt
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: "page_texts.headline", Err: err}
	}
	return excerpts, nil
}
