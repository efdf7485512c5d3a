package document

import (
	"fmt"
	"time"
)

// Access is the visibility level of a document.
type Access uint8

// Access levels, ordered from widest to narrowest audience.
const (
	AccessPublic       Access = 1
	AccessOrganization Access = 2
	AccessPrivate      Access = 3
)

// IsValid checks if the access level is one of the supported values.
func (a Access) IsValid() bool {
	return a == AccessPublic || a == AccessOrganization || a == AccessPrivate
}

// String returns the access level name.
func (a Access) String() string {
	switch a {
	case AccessPublic:
		return "public"
	case AccessOrganization:
		return "organization"
	case AccessPrivate:
		return "private"
	default:
		return fmt.Sprintf("access(%d)", uint8(a))
	}
}

// ParseAccess maps an access level name to its value.
func ParseAccess(s string) (Access, error) {
	switch s {
	case "public":
		return AccessPublic, nil
	case "organization":
		return AccessOrganization, nil
	case "private":
		return AccessPrivate, nil
	default:
		return 0, fmt.Errorf("invalid access level: %q", s)
	}
}

// MaxTitleLength is the maximum document title length.
const MaxTitleLength = 1000

// Document is an archived document (immutable value object).
type Document struct {
	id             int64
	accountID      int64
	organizationID int64
	access         Access
	title          string
	slug           string
	source         string
	description    string
	language       string
	pageCount      int
	createdAt      time.Time
	updatedAt      time.Time
}

// New validates and creates a Document for ingestion.
// Title: non-empty, max 1000 chars. Owner account and organization are required.
func New(
	accountID, organizationID int64, access Access,
	title, slug, source, description, language string, pageCount int,
) (Document, error) {
	if accountID <= 0 {
		return Document{}, fmt.Errorf("owner account is required")
	}
	if organizationID <= 0 {
		return Document{}, fmt.Errorf("organization is required")
	}
	if !access.IsValid() {
		return Document{}, fmt.Errorf("invalid access level: %d", access)
	}
	if title == "" {
		return Document{}, fmt.Errorf("title is required")
	}
	if len(title) > MaxTitleLength {
		return Document{}, fmt.Errorf("title too long (max %d)", MaxTitleLength)
	}
	if slug == "" {
		return Document{}, fmt.Errorf("slug is required")
	}
	if language == "" {
		language = "en"
	}
	if pageCount < 0 {
		return Document{}, fmt.Errorf("page count cannot be negative")
	}

	return Document{
		accountID:      accountID,
		organizationID: organizationID,
		access:         access,
		title:          title,
		slug:           slug,
		source:         source,
		description:    description,
		language:       language,
		pageCount:      pageCount,
	}, nil
}

// Reconstruct creates a Document without validation (storage hydration).
func Reconstruct(
	id, accountID, organizationID int64, access Access,
	title, slug, source, description, language string, pageCount int,
	createdAt, updatedAt time.Time,
) Document {
	return Document{
		id:             id,
		accountID:      accountID,
		organizationID: organizationID,
		access:         access,
		title:          title,
		slug:           slug,
		source:         source,
		description:    description,
		language:       language,
		pageCount:      pageCount,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// ID returns the document identifier.
func (d *Document) ID() int64 { return d.id }

// AccountID returns the owning account id.
func (d *Document) AccountID() int64 { return d.accountID }

// OrganizationID returns the owning organization id.
func (d *Document) OrganizationID() int64 { return d.organizationID }

// Access returns the visibility level.
func (d *Document) Access() Access { return d.access }

// Title returns the document title.
func (d *Document) Title() string { return d.title }

// Slug returns the URL slug.
func (d *Document) Slug() string { return d.slug }

// Source returns the attributed source.
func (d *Document) Source() string { return d.source }

// Description returns the document description.
func (d *Document) Description() string { return d.description }

// Language returns the document language code.
func (d *Document) Language() string { return d.language }

// PageCount returns the number of pages.
func (d *Document) PageCount() int { return d.pageCount }

// CreatedAt returns the creation timestamp.
func (d *Document) CreatedAt() time.Time { return d.createdAt }

// UpdatedAt returns the last modification timestamp.
func (d *Document) UpdatedAt() time.Time { return d.updatedAt }
