package handler

import (
	"net/http"

	"github.com/Dan9191/control-center/internal/middleware"
	"github.com/Dan9191/control-center/internal/models"
	"github.com/Dan9191/control-center/internal/repository"
)

// realEstateFilter reads q, status (repeatable), date_from, date_to,
// stakeholder, sort and dir
func realEstateFilter(r *http.Request) repository.RealEstateFilter {
	q := r.URL.Query()
	f := repository.RealEstateFilter{
		Query:         q.Get("q"),
		From:          dateParam(r, "date_from"),
		To:            dateParam(r, "date_to"),
		StakeholderID: idParam(r, "stakeholder"),
		Limit:         intParam(r, "limit", 0),
		Offset:        intParam(r, "offset", 0),
	}
	f.Sort, f.Desc = sortParams(r)
	for _, v := range q["status"] {
		if s := models.PropertyStatus(v); s.Valid() {
			f.Statuses = append(f.Statuses, s)
		}
	}
	return f
}

func (h *Handler) ListRealEstate(w http.ResponseWriter, r *http.Request) {
	properties, err := h.svc.ListRealEstate(r.Context(), realEstateFilter(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, properties)
}

func (h *Handler) CreateRealEstate(w http.ResponseWriter, r *http.Request) {
	var p models.RealEstate
	if !h.decode(w, r, &p) {
		return
	}
	if err := h.svc.CreateRealEstate(r.Context(), &p); err != nil {
		h.writeError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, p)
}

// GetRealEstate returns a property with its legal matters, tasks, notes and cash flow
func (h *Handler) GetRealEstate(w http.ResponseWriter, r *http.Request) {
	detail, err := h.svc.RealEstateDetail(r.Context(), pathID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, detail)
}

func (h *Handler) UpdateRealEstate(w http.ResponseWriter, r *http.Request) {
	var p models.RealEstate
	if !h.decode(w, r, &p) {
		return
	}
	p.ID = pathID(r)
	if err := h.svc.UpdateRealEstate(r.Context(), &p); err != nil {
		h.writeError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) DeleteRealEstate(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteRealEstate(r.Context(), pathID(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ExportRealEstate(w http.ResponseWriter, r *http.Request) {
	f := realEstateFilter(r)
	f.Limit, f.Offset = 0, 0
	properties, err := h.svc.ListRealEstate(r.Context(), f)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeCSV(w, h.log, "realestate", realEstateColumns, properties)
}

// BulkExportRealEstate exports only the properties named by ?selected=
func (h *Handler) BulkExportRealEstate(w http.ResponseWriter, r *http.Request) {
	ids := idsParam(r, "selected")
	properties := []models.RealEstate{}
	if len(ids) > 0 {
		var err error
		properties, err = h.svc.ListRealEstate(r.Context(), repository.RealEstateFilter{IDs: ids})
		if err != nil {
			h.writeError(w, r, err)
			return
		}
	}
	writeCSV(w, h.log, "realestate_selected", realEstateColumns, properties)
}

func (h *Handler) BulkDeleteRealEstate(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.decodeIDs(w, r)
	if !ok {
		return
	}
	n, err := h.svc.BulkDeleteRealEstate(r.Context(), ids)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeCount(w, n)
}

func investmentFilter(r *http.Request) repository.InvestmentFilter {
	f := repository.InvestmentFilter{
		Query:         r.URL.Query().Get("q"),
		StakeholderID: idParam(r, "stakeholder"),
		Limit:         intParam(r, "limit", 0),
		Offset:        intParam(r, "offset", 0),
	}
	f.Sort, f.Desc = sortParams(r)
	return f
}

func (h *Handler) ListInvestments(w http.ResponseWriter, r *http.Request) {
	investments, err := h.svc.ListInvestments(r.Context(), investmentFilter(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, investments)
}

func (h *Handler) CreateInvestment(w http.ResponseWriter, r *http.Request) {
	var inv models.Investment
	if !h.decode(w, r, &inv) {
		return
	}
	if err := h.svc.CreateInvestment(r.Context(), &inv); err != nil {
		h.writeError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, inv)
}

func (h *Handler) GetInvestment(w http.ResponseWriter, r *http.Request) {
	inv, err := h.svc.GetInvestment(r.Context(), pathID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, inv)
}

func (h *Handler) UpdateInvestment(w http.ResponseWriter, r *http.Request) {
	var inv models.Investment
	if !h.decode(w, r, &inv) {
		return
	}
	inv.ID = pathID(r)
	if err := h.svc.UpdateInvestment(r.Context(), &inv); err != nil {
		h.writeError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, inv)
}

func (h *Handler) DeleteInvestment(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteInvestment(r.Context(), pathID(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ExportInvestments(w http.ResponseWriter, r *http.Request) {
	f := investmentFilter(r)
	f.Limit, f.Offset = 0, 0
	investments, err := h.svc.ListInvestments(r.Context(), f)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeCSV(w, h.log, "investments", investmentColumns, investments)
}

// BulkExportInvestments exports only the investments named by ?selected=
func (h *Handler) BulkExportInvestments(w http.ResponseWriter, r *http.Request) {
	ids := idsParam(r, "selected")
	investments := []models.Investment{}
	if len(ids) > 0 {
		var err error
		investments, err = h.svc.ListInvestments(r.Context(), repository.InvestmentFilter{IDs: ids})
		if err != nil {
			h.writeError(w, r, err)
			return
		}
	}
	writeCSV(w, h.log, "investments_selected", investmentColumns, investments)
}

func (h *Handler) BulkDeleteInvestments(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.decodeIDs(w, r)
	if !ok {
		return
	}
	n, err := h.svc.BulkDeleteInvestments(r.Context(), ids)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeCount(w, n)
}
