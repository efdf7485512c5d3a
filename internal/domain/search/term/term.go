package term

import (
	"fmt"
	"strings"
)

// MaxValueLength is the maximum length of a single term value.
const MaxValueLength = 1024

// Field is a fielded metadata search term: match documents carrying a
// metadata entry of this kind whose value lexically matches the given text.
type Field struct {
	kind  string
	value string
}

// NewField validates and creates a fielded search term.
func NewField(kind, value string) (Field, error) {
	kind = normalizeKind(kind)
	if kind == "" {
		return Field{}, fmt.Errorf("field kind is required")
	}
	if value == "" {
		return Field{}, fmt.Errorf("field value is required for kind %q", kind)
	}
	if len(value) > MaxValueLength {
		return Field{}, fmt.Errorf("field value too long (max %d chars)", MaxValueLength)
	}
	return Field{kind: kind, value: value}, nil
}

// Kind returns the metadata kind.
func (f Field) Kind() string { return f.kind }

// Value returns the search text.
func (f Field) Value() string { return f.value }

// Reserved attribute kinds. Owner kinds take an account email as value,
// organization kinds take an organization slug.
var (
	ownerKinds        = map[string]bool{"account": true, "email": true}
	organizationKinds = map[string]bool{"group": true, "organization": true}
)

type class uint8

const (
	classOwnerAccount class = iota + 1
	classOrganization
	classVector
)

// Attribute is a single attribute filter. It is a closed variant: an owner
// account match, an organization match, or a lexical match against one of the
// document's per-kind search vectors. The variant is fixed at construction and
// never re-derived from the kind string.
type Attribute struct {
	class class
	kind  string
	value string
}

// ParseAttribute maps a raw (kind, value) pair to its attribute variant.
func ParseAttribute(kind, value string) (Attribute, error) {
	kind = normalizeKind(kind)
	switch {
	case ownerKinds[kind]:
		return NewOwnerAccount(value)
	case organizationKinds[kind]:
		return NewOrganization(value)
	default:
		return NewVector(kind, value)
	}
}

// NewOwnerAccount creates an attribute matching documents owned by the
// account with the given email.
func NewOwnerAccount(email string) (Attribute, error) {
	if email == "" {
		return Attribute{}, fmt.Errorf("account email is required")
	}
	return Attribute{class: classOwnerAccount, value: email}, nil
}

// NewOrganization creates an attribute matching documents belonging to the
// organization with the given slug.
func NewOrganization(slug string) (Attribute, error) {
	if slug == "" {
		return Attribute{}, fmt.Errorf("organization slug is required")
	}
	return Attribute{class: classOrganization, value: slug}, nil
}

// NewVector creates an attribute matching the named per-document search
// vector. Which vector kinds exist is decided at compile time, not here.
func NewVector(kind, value string) (Attribute, error) {
	kind = normalizeKind(kind)
	if kind == "" {
		return Attribute{}, fmt.Errorf("attribute kind is required")
	}
	if value == "" {
		return Attribute{}, fmt.Errorf("attribute value is required for kind %q", kind)
	}
	if len(value) > MaxValueLength {
		return Attribute{}, fmt.Errorf("attribute value too long (max %d chars)", MaxValueLength)
	}
	return Attribute{class: classVector, kind: kind, value: value}, nil
}

// IsOwnerAccount reports whether this attribute matches on the owner account.
func (a Attribute) IsOwnerAccount() bool { return a.class == classOwnerAccount }

// IsOrganization reports whether this attribute matches on the organization.
func (a Attribute) IsOrganization() bool { return a.class == classOrganization }

// IsVector reports whether this attribute matches a per-kind document vector.
func (a Attribute) IsVector() bool { return a.class == classVector }

// Kind returns the attribute kind as rendered externally: "account",
// "organization", or the vector kind.
func (a Attribute) Kind() string {
	switch a.class {
	case classOwnerAccount:
		return "account"
	case classOrganization:
		return "organization"
	default:
		return a.kind
	}
}

// Value returns the attribute value (email, slug, or vector search text).
func (a Attribute) Value() string { return a.value }

func normalizeKind(kind string) string {
	return strings.ToLower(strings.TrimSpace(kind))
}
