package folio

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestQueryBuilder_BuildsRequest(t *testing.T) {
	c, err := New("http://folio.internal")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := c.Query().
		Text("annual budget").
		Field("author", "melville").
		Project("finance").
		Project("archive 2025").
		OwnerAccount("kate@example.com").
		Organization("acme").
		Vector("title", "quarterly").
		Page(3).
		Request()

	if req.Text != "annual budget" {
		t.Errorf("text = %q, want annual budget", req.Text)
	}
	wantFields := []Term{{Kind: "author", Value: "melville"}}
	if !reflect.DeepEqual(req.Fields, wantFields) {
		t.Errorf("fields = %+v, want %+v", req.Fields, wantFields)
	}
	wantProjects := []string{"finance", "archive 2025"}
	if !reflect.DeepEqual(req.Projects, wantProjects) {
		t.Errorf("projects = %+v, want %+v", req.Projects, wantProjects)
	}
	wantAttributes := []Term{
		{Kind: "account", Value: "kate@example.com"},
		{Kind: "organization", Value: "acme"},
		{Kind: "title", Value: "quarterly"},
	}
	if !reflect.DeepEqual(req.Attributes, wantAttributes) {
		t.Errorf("attributes = %+v, want %+v", req.Attributes, wantAttributes)
	}
	if req.Page == nil || *req.Page != 3 {
		t.Errorf("page = %v, want 3", req.Page)
	}
}

func TestQueryBuilder_UnpaginatedByDefault(t *testing.T) {
	c, err := New("http://folio.internal")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := c.Query().Text("budget").Request()
	if req.Page != nil {
		t.Errorf("page = %v, want nil without Page()", req.Page)
	}
}

func TestQueryBuilder_Do(t *testing.T) {
	var gotBody SearchRequest
	var gotPage string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPage = r.URL.Query().Get("page")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(SearchResult{
			Documents: []Document{{ID: 11}, {ID: 12}},
		})
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := c.Query().
		Text("budget").
		Organization("acme").
		Page(0).
		Do(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPage != "0" {
		t.Errorf("page param = %q, want 0", gotPage)
	}
	if len(gotBody.Attributes) != 1 || gotBody.Attributes[0].Kind != "organization" {
		t.Errorf("attributes = %+v, want one organization term", gotBody.Attributes)
	}
	if len(result.Documents) != 2 {
		t.Errorf("documents = %d, want 2", len(result.Documents))
	}
}
