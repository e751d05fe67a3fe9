package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"hoteladmin/internal/adapters/http/middleware"
	"hoteladmin/internal/application/orchestrators"
	"hoteladmin/internal/domain/audit"
)

//go:embed templates/*.html
var templateFS embed.FS

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// renderMarkdown converts markdown to HTML with mdRenderer.
func renderMarkdown(md string) (string, error) {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func methodNotAllowed(w http.ResponseWriter) {
	http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
}

func requireID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return "", false
	}
	return id, true
}

func (s *Server) renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	s.renderTemplateStatus(w, r, http.StatusOK, templateName, data)
}

func (s *Server) renderTemplateStatus(w http.ResponseWriter, r *http.Request, status int, templateName string, data any) {
	sess, loggedIn := middleware.GetSessionFromContext(r.Context())

	funcMap := template.FuncMap{
		"currentEmail": func() string { return sess.Email },
		"isLoggedIn":   func() bool { return loggedIn },
		"isAdmin":      func() bool { return loggedIn && sess.IsAdmin() },
		"csrfField":    func() template.HTML { return csrf.TemplateField(r) },
		"paletteCSS":   func() template.CSS { return paletteCSS(s.palette) },
		"blanks":       func(n int) []struct{} { return make([]struct{}, n) },
		"renderMarkdown": func(md string) template.HTML {
			out, err := renderMarkdown(md)
			if err != nil {
				return template.HTML(template.HTMLEscapeString(md))
			}
			return template.HTML(out)
		},
	}

	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(templateFS, "templates/layout.html", "templates/"+templateName)
	if err != nil {
		internalError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// handleRoot sends signed-in staff to the reservation calendar.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/reservations", http.StatusSeeOther)
}

// handleHealthz reports liveness.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

// handleLogin handles GET (form) and POST (authenticate) for /login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
			http.Redirect(w, r, "/reservations", http.StatusSeeOther)
			return
		}
		s.renderTemplate(w, r, "login.html", map[string]any{"Error": "", "Email": ""})

	case "POST":
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		email := r.FormValue("email")
		result, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
			Email:    email,
			Password: r.FormValue("password"),
		}, orchestrators.LoginDeps{
			AccountStore: s.stores.AccountStore,
			Now:          s.now,
		})
		if err != nil {
			if !isLoginFailure(err) {
				internalError(w, err)
				return
			}
			s.saveAudit(r, audit.NewEvent(s.genID(), s.now(), audit.CategorySecurity, audit.ActionLogin).
				WithActor("", email).
				WithSeverity(audit.SeverityWarning).
				WithDescription(err.Error()))
			s.renderTemplateStatus(w, r, http.StatusUnauthorized, "login.html", map[string]any{"Error": err.Error(), "Email": email})
			return
		}

		token, err := s.sessions.Create(result.AccountID, result.Email, result.Role)
		if err != nil {
			internalError(w, err)
			return
		}
		middleware.SetSessionCookie(w, token)
		slog.Info("auth_event", "event", "login", "account_id", result.AccountID)
		s.saveAudit(r, audit.NewEvent(s.genID(), s.now(), audit.CategorySecurity, audit.ActionLogin).
			WithActor(result.AccountID, result.Email))
		http.Redirect(w, r, "/reservations", http.StatusSeeOther)

	default:
		methodNotAllowed(w)
	}
}

// handleLogout handles POST /logout
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		methodNotAllowed(w)
		return
	}
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		s.sessions.Delete(cookie.Value)
	}
	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func isLoginFailure(err error) bool {
	return errors.Is(err, orchestrators.ErrInvalidCredentials) || errors.Is(err, orchestrators.ErrAccountLocked)
}
