package web

import (
	"errors"
	"net/http"

	"hoteladmin/internal/adapters/http/middleware"
	"hoteladmin/internal/application/orchestrators"
	"hoteladmin/internal/domain/audit"
)

// passwordRequest is the JSON body of a self-service password change.
type passwordRequest struct {
	CurrentPassword string
	NewPassword     string
}

// handleAccountPassword handles POST /api/account/password for the signed-in user.
func (s *Server) handleAccountPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		methodNotAllowed(w)
		return
	}
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var req passwordRequest
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	err := orchestrators.ExecuteChangePassword(r.Context(), orchestrators.ChangePasswordInput{
		AccountID:       sess.AccountID,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	}, orchestrators.ChangePasswordDeps{AccountStore: s.stores.AccountStore})
	if err != nil {
		if errors.Is(err, orchestrators.ErrCurrentPasswordWrong) {
			s.recordAudit(r, audit.CategorySecurity, audit.ActionUpdate, sess.AccountID, "password change refused")
		}
		writeError(w, err)
		return
	}
	s.recordAudit(r, audit.CategorySecurity, audit.ActionUpdate, sess.AccountID, "password changed")
	w.WriteHeader(http.StatusNoContent)
}
