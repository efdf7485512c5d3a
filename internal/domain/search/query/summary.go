package query

// SummaryTerm is a kind/value pair in external form.
type SummaryTerm struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// Summary is the externally visible representation of a query: the contract
// any presentation layer consumes. Results and per-document enrichment travel
// beside it, never inside it.
type Summary struct {
	Text       string        `json:"text,omitempty"`
	Page       *int          `json:"page,omitempty"`
	From       *int          `json:"from,omitempty"`
	To         *int          `json:"to,omitempty"`
	Total      *int          `json:"total,omitempty"`
	Fields     []SummaryTerm `json:"fields,omitempty"`
	Projects   []string      `json:"projects,omitempty"`
	Attributes []SummaryTerm `json:"attributes,omitempty"`
}

// Summary renders the query's external form. Window bounds appear only on
// paginated queries; the total is attached separately via WithTotal once the
// run has counted the match set.
func (q Query) Summary() Summary {
	s := Summary{
		Text:     q.text,
		Projects: cloneStrings(q.projects),
	}
	if q.page != nil {
		page, from, to := *q.page, q.from, q.to
		s.Page = &page
		s.From = &from
		s.To = &to
	}
	for _, f := range q.fields {
		s.Fields = append(s.Fields, SummaryTerm{Kind: f.Kind(), Value: f.Value()})
	}
	for _, a := range q.attributes {
		s.Attributes = append(s.Attributes, SummaryTerm{Kind: a.Kind(), Value: a.Value()})
	}
	return s
}

// WithTotal returns a copy of the summary carrying the overall match count.
func (s Summary) WithTotal(total int) Summary {
	s.Total = &total
	return s
}
