package web

import (
	"log/slog"
	"net/http"

	"hoteladmin/internal/application/listutil"
	"hoteladmin/internal/application/orchestrators"
	"hoteladmin/internal/application/projections"
	"hoteladmin/internal/domain/audit"
	"hoteladmin/internal/domain/inquiry"
)

func (s *Server) inquiryDeps() orchestrators.InquiryDeps {
	return orchestrators.InquiryDeps{
		InquiryStore: s.stores.InquiryStore,
		GenerateID:   s.genID,
		Now:          s.now,
	}
}

// handleInquiries handles GET (paged list) and DELETE (?id=) for /api/inquiries
// Query: q, type, sort (created_at|email|type), dir, page, per_page
func (s *Server) handleInquiries(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		params := listutil.ParseListParams(r.URL.Query(), projections.InquirySortColumns, projections.InquiryFilterKeys)
		res, err := projections.QueryInquiryList(r.Context(), params, projections.InquiryListDeps{
			InquiryStore: s.stores.InquiryStore,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		if res.Inquiries == nil {
			res.Inquiries = []inquiry.Inquiry{}
		}
		writeJSON(w, http.StatusOK, res)

	case "DELETE":
		id, ok := requireID(w, r)
		if !ok {
			return
		}
		if err := orchestrators.ExecuteDeleteInquiry(r.Context(), id, s.inquiryDeps()); err != nil {
			writeError(w, err)
			return
		}
		s.recordAudit(r, audit.CategoryInquiry, audit.ActionDelete, id, "")
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w)
	}
}

// handleInquiryDetail handles GET /api/inquiries/detail?id=, marking the inquiry read.
func (s *Server) handleInquiryDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		methodNotAllowed(w)
		return
	}
	id, ok := requireID(w, r)
	if !ok {
		return
	}
	q, err := orchestrators.ExecuteOpenInquiry(r.Context(), id, s.inquiryDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// handleInquiryReply handles POST /api/inquiries/reply with {ID, Body}.
// The reply is queued in the outbox; 202 carries the queued entry.
func (s *Server) handleInquiryReply(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		methodNotAllowed(w)
		return
	}
	var input orchestrators.ReplyInquiryInput
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	entry, err := orchestrators.ExecuteReplyInquiry(r.Context(), input, orchestrators.ReplyInquiryDeps{
		InquiryStore:   s.stores.InquiryStore,
		OutboxStore:    s.stores.OutboxStore,
		RenderMarkdown: renderMarkdown,
		GenerateID:     s.genID,
		Now:            s.now,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	s.recordAudit(r, audit.CategoryInquiry, audit.ActionReply, input.ID, "reply queued as "+entry.ID)
	writeJSON(w, http.StatusAccepted, entry)
}

// handlePublicInquiry handles POST /api/public/inquiries from the website contact form.
func (s *Server) handlePublicInquiry(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		methodNotAllowed(w)
		return
	}
	var input orchestrators.SubmitInquiryInput
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	q, err := orchestrators.ExecuteSubmitInquiry(r.Context(), input, s.inquiryDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	slog.Info("inquiry_received", "inquiry_id", q.ID, "type", q.Type)
	writeJSON(w, http.StatusCreated, map[string]string{"ID": q.ID})
}
