package web

import (
	"log/slog"
	"net/http"
	"path"
	"strconv"
	"time"

	"hoteladmin/internal/adapters/http/middleware"
	accountStore "hoteladmin/internal/adapters/storage/account"
	"hoteladmin/internal/application/orchestrators"
	"hoteladmin/internal/application/projections"
	"hoteladmin/internal/domain/account"
	"hoteladmin/internal/domain/audit"
	"hoteladmin/internal/domain/outbox"
)

// perfWindow is how far back /api/admin/perf aggregates.
const perfWindow = time.Hour

// handleAdminOutbox handles GET /api/admin/outbox?status=&limit=
func (s *Server) handleAdminOutbox(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		methodNotAllowed(w)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	items, err := projections.QueryOutbox(r.Context(), projections.OutboxQuery{
		Status: r.URL.Query().Get("status"),
		Limit:  limit,
	}, projections.OutboxDeps{OutboxStore: s.stores.OutboxStore})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// handleAdminOutboxAction handles POST /api/admin/outbox/retry?id= and /api/admin/outbox/abandon?id=
func (s *Server) handleAdminOutboxAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		methodNotAllowed(w)
		return
	}
	id, ok := requireID(w, r)
	if !ok {
		return
	}
	if s.outbox == nil {
		http.Error(w, "outbox worker not configured", http.StatusServiceUnavailable)
		return
	}

	var (
		entry outbox.Entry
		err   error
	)
	action := path.Base(r.URL.Path)
	switch action {
	case "retry":
		entry, err = s.outbox.ProcessSingle(r.Context(), id)
	case "abandon":
		entry, err = s.outbox.AbandonEntry(r.Context(), id)
	default:
		http.NotFound(w, r)
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())
	slog.Info("admin_event", "event", "outbox_"+action, "entry_id", id, "account_id", sess.AccountID)
	s.recordAudit(r, audit.CategoryOutbox, audit.Action(action), id, "status "+entry.Status)
	writeJSON(w, http.StatusOK, entry)
}

// handleAdminPerf handles GET /api/admin/perf
func (s *Server) handleAdminPerf(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		methodNotAllowed(w)
		return
	}
	if s.perf == nil {
		http.Error(w, "performance collector not configured", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, s.perf.Snapshot(s.now().Add(-perfWindow), 10))
}

// accountView is an account without its credentials.
type accountView struct {
	ID        string
	Email     string
	Role      string
	CreatedAt time.Time
	Locked    bool
}

// handleAdminAccounts handles GET (list) and POST (create) for /api/admin/accounts
func (s *Server) handleAdminAccounts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		list, err := s.stores.AccountStore.List(r.Context(), accountStore.ListFilter{
			Role: r.URL.Query().Get("role"),
		})
		if err != nil {
			internalError(w, err)
			return
		}
		now := s.now()
		out := make([]accountView, 0, len(list))
		for i := range list {
			a := &list[i]
			out = append(out, accountView{
				ID:        a.ID,
				Email:     a.Email,
				Role:      a.Role,
				CreatedAt: a.CreatedAt,
				Locked:    a.IsLocked(now),
			})
		}
		writeJSON(w, http.StatusOK, out)

	case "POST":
		var input orchestrators.CreateAccountInput
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		if input.Role == "" {
			input.Role = account.RoleStaff
		}
		id, err := orchestrators.ExecuteCreateAccount(r.Context(), input, orchestrators.CreateAccountDeps{
			AccountStore: s.stores.AccountStore,
			GenerateID:   s.genID,
			Now:          s.now,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		s.recordAudit(r, audit.CategoryAccount, audit.ActionCreate, id, input.Email+" ("+input.Role+")")
		writeJSON(w, http.StatusCreated, map[string]string{"ID": id})

	default:
		methodNotAllowed(w)
	}
}
