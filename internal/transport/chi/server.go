package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/foliodocs/folio/internal/domain"
	domdoc "github.com/foliodocs/folio/internal/domain/document"
	"github.com/foliodocs/folio/internal/domain/search/query"
	"github.com/foliodocs/folio/internal/domain/search/result"
	"github.com/foliodocs/folio/internal/domain/search/term"
	healthuc "github.com/foliodocs/folio/internal/usecase/health"
	searchuc "github.com/foliodocs/folio/internal/usecase/search"
)

// Identity headers. Both must be present or both absent; the upstream
// gateway sets them after authenticating the end user.
const (
	HeaderAccount      = "X-Folio-Account"
	HeaderOrganization = "X-Folio-Organization"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the search API over HTTP.
type Server struct {
	search        *searchuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search *searchuc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	s := &Server{
		search: search,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		compilationHandler,
		sentinelHandler(domain.ErrAccessDenied, http.StatusForbidden, ErrorCodeAccessDenied),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeNotFound),
		sentinelHandler(domain.ErrInvalidIdentity, http.StatusBadRequest, ErrorCodeBadRequest),
	}
	return s
}

// Register mounts the API routes on the given router.
func (s *Server) Register(r chi.Router) {
	r.Post("/api/v1/search", s.Search)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Search handles POST /api/v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}

	var page *int
	if err := runtime.BindQueryParameter("form", true, false, "page", r.URL.Query(), &page); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "invalid page parameter: "+err.Error())
		return
	}

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	q, err := queryFromRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeQueryRejected, err.Error())
		return
	}
	if page != nil {
		if q, err = q.WithPage(*page); err != nil {
			writeError(w, http.StatusBadRequest, ErrorCodeQueryRejected, err.Error())
			return
		}
	}

	resultPage, overlay, err := s.search.Run(r.Context(), identity, q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponseFrom(q, resultPage, overlay))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// identityFromRequest reads the identity headers. No headers means an
// anonymous caller; a single header is a malformed request.
func identityFromRequest(r *http.Request) (domain.Identity, error) {
	account := r.Header.Get(HeaderAccount)
	organization := r.Header.Get(HeaderOrganization)

	if account == "" && organization == "" {
		return domain.Anonymous(), nil
	}
	if account == "" || organization == "" {
		return domain.Identity{}, fmt.Errorf(
			"%s and %s must be sent together", HeaderAccount, HeaderOrganization)
	}

	accountID, err := strconv.ParseInt(account, 10, 64)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("invalid %s header: %w", HeaderAccount, err)
	}
	organizationID, err := strconv.ParseInt(organization, 10, 64)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("invalid %s header: %w", HeaderOrganization, err)
	}

	identity, err := domain.NewIdentity(accountID, organizationID)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("build identity: %w", err)
	}
	return identity, nil
}

func queryFromRequest(req SearchRequest) (query.Query, error) {
	fields := make([]term.Field, 0, len(req.Fields))
	for _, p := range req.Fields {
		f, err := term.NewField(p.Kind, p.Value)
		if err != nil {
			return query.Query{}, fmt.Errorf("field %q: %w", p.Kind, err)
		}
		fields = append(fields, f)
	}

	attributes := make([]term.Attribute, 0, len(req.Attributes))
	for _, p := range req.Attributes {
		a, err := term.ParseAttribute(p.Kind, p.Value)
		if err != nil {
			return query.Query{}, fmt.Errorf("attribute %q: %w", p.Kind, err)
		}
		attributes = append(attributes, a)
	}

	q, err := query.New(req.Text, fields, req.Projects, attributes)
	if err != nil {
		return query.Query{}, fmt.Errorf("build query: %w", err)
	}
	return q, nil
}

func searchResponseFrom(q query.Query, page result.Page, overlay result.Overlay) SearchResponse {
	summary := q.Summary()
	if page.IsPaginated() {
		summary = summary.WithTotal(page.Total())
	}

	docs := page.Documents()
	views := make([]DocumentView, len(docs))
	for i := range docs {
		views[i] = documentViewFrom(&docs[i], overlay)
	}

	return SearchResponse{Query: summary, Documents: views}
}

func documentViewFrom(d *domdoc.Document, overlay result.Overlay) DocumentView {
	view := DocumentView{
		ID:          d.ID(),
		Title:       d.Title(),
		Slug:        d.Slug(),
		Source:      d.Source(),
		Description: d.Description(),
		Access:      d.Access().String(),
		Language:    d.Language(),
		PageCount:   d.PageCount(),
		CreatedAt:   d.CreatedAt(),
		UpdatedAt:   d.UpdatedAt(),
	}

	if name, ok := overlay.OrganizationName(d.OrganizationID()); ok {
		view.Organization = &name
	}
	if excerpt, ok := overlay.Highlight(d.ID()); ok {
		view.Highlight = &excerpt
	}
	if count, ok := overlay.NoteCount(d.ID()); ok {
		view.NoteCount = &count
	}

	return view
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrAccessDenied,
		domain.ErrInvalidIdentity,
		domain.ErrCompilation,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// compilationHandler rejects uncompilable queries with the compiler's own
// message. The detail is built from the caller's input, so echoing it is safe.
func compilationHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrCompilation) {
		return false
	}
	var ce *domain.CompilationError
	if errors.As(err, &ce) {
		msg = ce.Error()
	}
	writeError(w, http.StatusBadRequest, ErrorCodeQueryRejected, msg)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
