package web

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"hoteladmin/internal/adapters/http/middleware"
	auditStore "hoteladmin/internal/adapters/storage/audit"
	"hoteladmin/internal/domain/audit"
)

const (
	defaultAuditLimit = 100
	maxAuditLimit     = 1000
)

// recordAudit appends an event for the signed-in actor. A failed write is logged, never surfaced.
func (s *Server) recordAudit(r *http.Request, category audit.Category, action audit.Action, resourceID, description string) {
	if s.stores.AuditStore == nil {
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())
	s.saveAudit(r, audit.NewEvent(s.genID(), s.now(), category, action).
		WithActor(sess.AccountID, sess.Email).
		WithResource(resourceID).
		WithDescription(description))
}

func (s *Server) saveAudit(r *http.Request, e audit.Event) {
	if s.stores.AuditStore == nil {
		return
	}
	e = e.WithIP(middleware.ClientIP(r))
	if err := e.Validate(); err != nil {
		slog.Error("audit_event_invalid", "error", err, "category", e.Category, "action", e.Action)
		return
	}
	if err := s.stores.AuditStore.Save(r.Context(), e); err != nil {
		slog.Error("audit_event_failed", "error", err, "category", e.Category, "action", e.Action)
	}
}

// parseAuditFilter reads category, action, actor_id, resource_id, severity, from, to and limit.
// Dates are YYYY-MM-DD; to is inclusive of the whole day.
func parseAuditFilter(r *http.Request) (auditStore.Filter, int, error) {
	q := r.URL.Query()
	f := auditStore.Filter{
		Category:   audit.Category(q.Get("category")),
		Action:     audit.Action(q.Get("action")),
		ActorID:    q.Get("actor_id"),
		ResourceID: q.Get("resource_id"),
		Severity:   audit.Severity(q.Get("severity")),
	}
	if f.Category != "" && !audit.ValidCategory(f.Category) {
		return f, 0, audit.ErrInvalidCategory
	}
	if v := q.Get("from"); v != "" {
		t, err := time.Parse(time.DateOnly, v)
		if err != nil {
			return f, 0, err
		}
		f.From = t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse(time.DateOnly, v)
		if err != nil {
			return f, 0, err
		}
		f.To = t.Add(24*time.Hour - time.Nanosecond)
	}

	limit := defaultAuditLimit
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		limit = min(v, maxAuditLimit)
	}
	return f, limit, nil
}

// handleAdminAudit handles GET /api/admin/audit
func (s *Server) handleAdminAudit(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		methodNotAllowed(w)
		return
	}
	if s.stores.AuditStore == nil {
		http.Error(w, "audit trail not configured", http.StatusServiceUnavailable)
		return
	}
	filter, limit, err := parseAuditFilter(r)
	if err != nil {
		writeError(w, err)
		return
	}
	events, err := s.stores.AuditStore.List(r.Context(), filter, limit)
	if err != nil {
		internalError(w, err)
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}
