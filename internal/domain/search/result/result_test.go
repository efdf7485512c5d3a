package result

import (
	"testing"
	"time"

	"github.com/foliodocs/folio/internal/domain/document"
)

func doc(id int64) document.Document {
	return document.Reconstruct(id, 7, 3, document.AccessPublic, "t", "t", "", "", "en", 1, time.Time{}, time.Time{})
}

func TestNewPage(t *testing.T) {
	p := NewPage([]document.Document{})
	if p.IsPaginated() {
		t.Error("IsPaginated() = true for unpaginated page")
	}
	if p.Total() != 0 || p.Len() != 0 {
		t.Errorf("Total() = %d, Len() = %d", p.Total(), p.Len())
	}
}

func TestNewPaginatedPage(t *testing.T) {
	p := NewPaginatedPage([]document.Document{doc(1), doc(2)}, 57)
	if !p.IsPaginated() {
		t.Error("IsPaginated() = false")
	}
	if p.Total() != 57 {
		t.Errorf("Total() = %d", p.Total())
	}
	if p.Len() != 2 {
		t.Errorf("Len() = %d", p.Len())
	}
	if p.Documents()[0].ID() != 1 || p.Documents()[1].ID() != 2 {
		t.Error("Documents() order changed")
	}
}

func TestOverlay(t *testing.T) {
	o := NewOverlay(
		map[int64]string{1: "…<em>budget</em>…"},
		map[int64]int{1: 4},
		map[int64]string{3: "The Herald"},
	)

	if h, ok := o.Highlight(1); !ok || h != "…<em>budget</em>…" {
		t.Errorf("Highlight(1) = %q, %v", h, ok)
	}
	if _, ok := o.Highlight(2); ok {
		t.Error("Highlight(2) = ok for missing key")
	}
	if n, ok := o.NoteCount(1); !ok || n != 4 {
		t.Errorf("NoteCount(1) = %d, %v", n, ok)
	}
	if name, ok := o.OrganizationName(3); !ok || name != "The Herald" {
		t.Errorf("OrganizationName(3) = %q, %v", name, ok)
	}
}

func TestOverlay_NilMaps(t *testing.T) {
	o := NewOverlay(nil, nil, nil)
	if _, ok := o.Highlight(1); ok {
		t.Error("nil highlights returned ok")
	}
	if _, ok := o.NoteCount(1); ok {
		t.Error("nil counts returned ok")
	}
	if _, ok := o.OrganizationName(1); ok {
		t.Error("nil names returned ok")
	}
}
