package web

import (
	"net/http"
	"time"

	"hoteladmin/internal/application/orchestrators"
	"hoteladmin/internal/domain/audit"
	"hoteladmin/internal/domain/content"
)

// contentSummary is a list row; the variants are fetched per document.
type contentSummary struct {
	ID         string
	Name       string
	Path       string
	LastEdited time.Time
}

type contentRequest struct {
	CS string
	EN string
}

// handleContent handles GET /api/content
func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		methodNotAllowed(w)
		return
	}
	docs, err := s.stores.ContentStore.List(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	out := make([]contentSummary, 0, len(docs))
	for _, d := range docs {
		out = append(out, contentSummary{ID: d.ID, Name: d.Name, Path: d.Path, LastEdited: d.LastEdited})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleContentDetail handles GET and PUT for /api/content/detail?id=
// GET with lang=cs|en answers the bare JSON document of that variant.
func (s *Server) handleContentDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case "GET":
		doc, err := s.stores.ContentStore.GetByID(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		if lang := r.URL.Query().Get("lang"); lang != "" {
			if lang != content.LangCS && lang != content.LangEN {
				http.Error(w, "lang must be cs or en", http.StatusBadRequest)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(doc.Variant(lang)))
			return
		}
		writeJSON(w, http.StatusOK, doc)

	case "PUT":
		var req contentRequest
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		doc, err := orchestrators.ExecuteSaveContent(r.Context(), orchestrators.SaveContentInput{
			ID: id,
			CS: req.CS,
			EN: req.EN,
		}, orchestrators.ContentDeps{
			ContentStore: s.stores.ContentStore,
			Now:          s.now,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		s.recordAudit(r, audit.CategoryContent, audit.ActionUpdate, id, doc.Name)
		writeJSON(w, http.StatusOK, doc)

	default:
		methodNotAllowed(w)
	}
}
