// Record types for the folio archive import pipeline.
package main

import (
	"fmt"
	"time"

	domdoc "github.com/foliodocs/folio/internal/domain/document"
)

// archiveRecord is one NDJSON line: a document together with its owner,
// page texts and metadata.
type archiveRecord struct {
	Organization organizationRecord `json:"organization"`
	Account      accountRecord      `json:"account"`
	Document     documentRecord     `json:"document"`
	Pages        []pageRecord       `json:"pages"`
	Metadata     []metadataRecord   `json:"metadata"`
}

type organizationRecord struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

type accountRecord struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type documentRecord struct {
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Source      string     `json:"source"`
	Description string     `json:"description"`
	Access      string     `json:"access"`
	Language    string     `json:"language"`
	CreatedAt   *time.Time `json:"created_at"`
}

type pageRecord struct {
	Number int    `json:"number"`
	Body   string `json:"body"`
}

type metadataRecord struct {
	Kind      string  `json:"kind"`
	Value     string  `json:"value"`
	Relevance float64 `json:"relevance"`
}

// validate checks the fields the schema cannot default.
func (r *archiveRecord) validate() error {
	if r.Organization.Slug == "" {
		return fmt.Errorf("organization slug is required")
	}
	if r.Account.Email == "" {
		return fmt.Errorf("account email is required")
	}
	if r.Document.Title == "" {
		return fmt.Errorf("document title is required")
	}
	if _, err := accessLevel(r.Document.Access); err != nil {
		return err
	}
	return nil
}

// accessLevel maps the textual access value to its stored level.
// Empty means private.
func accessLevel(s string) (int16, error) {
	switch s {
	case "", "private":
		return int16(domdoc.AccessPrivate), nil
	case "organization":
		return int16(domdoc.AccessOrganization), nil
	case "public":
		return int16(domdoc.AccessPublic), nil
	default:
		return 0, fmt.Errorf("unknown access %q", s)
	}
}
