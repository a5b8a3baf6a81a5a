package handler

import (
	"net/http"

	"github.com/Dan9191/control-center/internal/middleware"
	"github.com/Dan9191/control-center/internal/models"
	"github.com/Dan9191/control-center/internal/repository"
)

func legalFilter(r *http.Request) repository.LegalMatterFilter {
	q := r.URL.Query()
	// stakeholder matches attorneys and related parties
	f := repository.LegalMatterFilter{
		Query:         q.Get("q"),
		StakeholderID: idParam(r, "stakeholder"),
		PropertyID:    idParam(r, "property"),
		Limit:         intParam(r, "limit", 0),
		Offset:        intParam(r, "offset", 0),
	}
	for _, v := range q["status"] {
		if s := models.MatterStatus(v); s.Valid() {
			f.Statuses = append(f.Statuses, s)
		}
	}
	return f
}

func (h *Handler) ListLegalMatters(w http.ResponseWriter, r *http.Request) {
	matters, err := h.svc.ListLegalMatters(r.Context(), legalFilter(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, matters)
}

func (h *Handler) CreateLegalMatter(w http.ResponseWriter, r *http.Request) {
	var m models.LegalMatter
	if !h.decode(w, r, &m) {
		return
	}
	if err := h.svc.CreateLegalMatter(r.Context(), &m); err != nil {
		h.writeError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, m)
}

func (h *Handler) GetLegalMatter(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.GetLegalMatter(r.Context(), pathID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, m)
}

func (h *Handler) UpdateLegalMatter(w http.ResponseWriter, r *http.Request) {
	var m models.LegalMatter
	if !h.decode(w, r, &m) {
		return
	}
	m.ID = pathID(r)
	if err := h.svc.UpdateLegalMatter(r.Context(), &m); err != nil {
		h.writeError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, m)
}

func (h *Handler) DeleteLegalMatter(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteLegalMatter(r.Context(), pathID(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ExportLegalMatters(w http.ResponseWriter, r *http.Request) {
	f := legalFilter(r)
	f.Limit, f.Offset = 0, 0
	matters, err := h.svc.ListLegalMatters(r.Context(), f)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeCSV(w, h.log, "legal_matters", legalColumns, matters)
}

func noteFilter(r *http.Request) repository.NoteFilter {
	q := r.URL.Query()
	return repository.NoteFilter{
		Query:         q.Get("q"),
		NoteType:      models.NoteType(q.Get("type")),
		StakeholderID: idParam(r, "stakeholder"),
		LegalMatterID: idParam(r, "legal_matter"),
		TaskID:        idParam(r, "task"),
		PropertyID:    idParam(r, "property"),
		Limit:         intParam(r, "limit", 0),
		Offset:        intParam(r, "offset", 0),
	}
}

func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.svc.ListNotes(r.Context(), noteFilter(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, notes)
}

func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var n models.Note
	if !h.decode(w, r, &n) {
		return
	}
	if err := h.svc.CreateNote(r.Context(), &n); err != nil {
		h.writeError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, n)
}

func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.GetNote(r.Context(), pathID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, n)
}

func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	var n models.Note
	if !h.decode(w, r, &n) {
		return
	}
	n.ID = pathID(r)
	if err := h.svc.UpdateNote(r.Context(), &n); err != nil {
		h.writeError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, n)
}

func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteNote(r.Context(), pathID(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ExportNotes(w http.ResponseWriter, r *http.Request) {
	f := noteFilter(r)
	f.Limit, f.Offset = 0, 0
	notes, err := h.svc.ListNotes(r.Context(), f)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeCSV(w, h.log, "notes", noteColumns, notes)
}
