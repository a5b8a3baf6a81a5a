package handler

import (
	"net/http"

	"github.com/Dan9191/control-center/internal/middleware"
	"github.com/Dan9191/control-center/internal/models"
	"github.com/Dan9191/control-center/internal/repository"
)

func loanFilter(r *http.Request) repository.LoanFilter {
	q := r.URL.Query()
	return repository.LoanFilter{
		Query:  q.Get("q"),
		Status: models.LoanStatus(q.Get("status")),
		Limit:  intParam(r, "limit", 0),
		Offset: intParam(r, "offset", 0),
	}
}

func (h *Handler) ListLoans(w http.ResponseWriter, r *http.Request) {
	loans, err := h.svc.ListLoans(r.Context(), loanFilter(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, loans)
}

func (h *Handler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var l models.Loan
	if !h.decode(w, r, &l) {
		return
	}
	if err := h.svc.CreateLoan(r.Context(), &l); err != nil {
		h.writeError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, l)
}

func (h *Handler) GetLoan(w http.ResponseWriter, r *http.Request) {
	l, err := h.svc.GetLoan(r.Context(), pathID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, l)
}

func (h *Handler) UpdateLoan(w http.ResponseWriter, r *http.Request) {
	var l models.Loan
	if !h.decode(w, r, &l) {
		return
	}
	l.ID = pathID(r)
	if err := h.svc.UpdateLoan(r.Context(), &l); err != nil {
		h.writeError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, l)
}

func (h *Handler) DeleteLoan(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteLoan(r.Context(), pathID(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ExportLoans(w http.ResponseWriter, r *http.Request) {
	f := loanFilter(r)
	f.Limit, f.Offset = 0, 0
	loans, err := h.svc.ListLoans(r.Context(), f)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeCSV(w, h.log, "loans", loanColumns, loans)
}

// cashFlowFilter reads q, type (repeatable), projected, date_from, date_to,
// sort and dir. Unknown values are ignored.
func cashFlowFilter(r *http.Request) models.CashFlowFilter {
	q := r.URL.Query()
	f := models.CashFlowFilter{
		Query:  q.Get("q"),
		From:   dateParam(r, "date_from"),
		To:     dateParam(r, "date_to"),
		Limit:  intParam(r, "limit", 0),
		Offset: intParam(r, "offset", 0),
	}
	f.Sort, f.Desc = sortParams(r)
	for _, v := range q["type"] {
		if t := models.EntryType(v); t.Valid() {
			f.EntryTypes = append(f.EntryTypes, t)
		}
	}
	switch q.Get("projected") {
	case "actual":
		projected := false
		f.Projected = &projected
	case "projected":
		projected := true
		f.Projected = &projected
	}
	return f
}

// ListCashFlow handles GET /api/cashflow and includes totals for the filter
func (h *Handler) ListCashFlow(w http.ResponseWriter, r *http.Request) {
	listing, err := h.svc.ListCashFlow(r.Context(), cashFlowFilter(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, listing)
}

func (h *Handler) CreateCashFlowEntry(w http.ResponseWriter, r *http.Request) {
	var e models.CashFlowEntry
	if !h.decode(w, r, &e) {
		return
	}
	if err := h.svc.CreateCashFlowEntry(r.Context(), &e); err != nil {
		h.writeError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, e)
}

func (h *Handler) GetCashFlowEntry(w http.ResponseWriter, r *http.Request) {
	e, err := h.svc.GetCashFlowEntry(r.Context(), pathID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) UpdateCashFlowEntry(w http.ResponseWriter, r *http.Request) {
	var e models.CashFlowEntry
	if !h.decode(w, r, &e) {
		return
	}
	e.ID = pathID(r)
	if err := h.svc.UpdateCashFlowEntry(r.Context(), &e); err != nil {
		h.writeError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) DeleteCashFlowEntry(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteCashFlowEntry(r.Context(), pathID(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportCashFlow handles GET /api/cashflow/export with the list filters
func (h *Handler) ExportCashFlow(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.ExportCashFlow(r.Context(), cashFlowFilter(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeCSV(w, h.log, "cashflow", cashFlowColumns, entries)
}

// BulkExportCashFlow exports only the entries named by ?selected=. With no
// selection the file has a header and no rows.
func (h *Handler) BulkExportCashFlow(w http.ResponseWriter, r *http.Request) {
	ids := idsParam(r, "selected")
	entries := []models.CashFlowEntry{}
	if len(ids) > 0 {
		var err error
		entries, err = h.svc.ExportCashFlow(r.Context(), models.CashFlowFilter{IDs: ids})
		if err != nil {
			h.writeError(w, r, err)
			return
		}
	}
	writeCSV(w, h.log, "cashflow_selected", cashFlowColumns, entries)
}

func (h *Handler) BulkDeleteCashFlow(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.decodeIDs(w, r)
	if !ok {
		return
	}
	n, err := h.svc.BulkDeleteCashFlow(r.Context(), ids)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeCount(w, n)
}
