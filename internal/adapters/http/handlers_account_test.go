package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"hoteladmin/internal/adapters/http/middleware"
	"hoteladmin/internal/application/orchestrators"
	"hoteladmin/internal/domain/audit"
)

func TestHandleAccountPassword(t *testing.T) {
	s := newTestServer(t)
	id, err := orchestrators.ExecuteCreateAccount(context.Background(), orchestrators.CreateAccountInput{
		Email: "recepce@hotel.test", Password: "correct horse battery", Role: "staff",
	}, orchestrators.CreateAccountDeps{AccountStore: s.stores.AccountStore, GenerateID: s.genID, Now: s.now})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	sess := middleware.Session{AccountID: id, Email: "recepce@hotel.test", Role: "staff"}

	tests := []struct {
		name   string
		method string
		body   string
		sess   middleware.Session
		want   int
	}{
		{"wrong method", "GET", "", sess, http.StatusMethodNotAllowed},
		{"bad json", "POST", `{"Current":"x"}`, sess, http.StatusBadRequest},
		{"wrong current", "POST", `{"CurrentPassword":"not it at all","NewPassword":"battery staple horse"}`, sess, http.StatusBadRequest},
		{"same password", "POST", `{"CurrentPassword":"correct horse battery","NewPassword":"correct horse battery"}`, sess, http.StatusBadRequest},
		{"too short", "POST", `{"CurrentPassword":"correct horse battery","NewPassword":"short"}`, sess, http.StatusBadRequest},
		{"deleted account", "POST", `{"CurrentPassword":"a","NewPassword":"battery staple horse"}`, staffSession, http.StatusNotFound},
		{"changed", "POST", `{"CurrentPassword":"correct horse battery","NewPassword":"battery staple horse"}`, sess, http.StatusNoContent},
		{"old password now wrong", "POST", `{"CurrentPassword":"correct horse battery","NewPassword":"another long password"}`, sess, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.handleAccountPassword(rec, authRequest(tt.method, "/api/account/password", tt.body, tt.sess))
			if rec.Code != tt.want {
				t.Errorf("got %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}

	events := listAudit(t, s, "?category=security&actor_id="+id)
	var changed, refused int
	for _, e := range events {
		if e.Action != audit.ActionUpdate {
			continue
		}
		switch e.Description {
		case "password changed":
			changed++
		case "password change refused":
			refused++
		}
	}
	if changed != 1 || refused != 2 {
		t.Errorf("audit: %d changed, %d refused; want 1 and 2", changed, refused)
	}
}
