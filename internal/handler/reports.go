package handler

import (
	"net/http"

	"github.com/Dan9191/control-center/internal/middleware"
)

const defaultTimelineLimit = 50

// Dashboard handles GET /api/dashboard
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Dashboard(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, d)
}

// Alerts handles GET /api/alerts
func (h *Handler) Alerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.svc.LiquidityAlerts(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, alerts)
}

// Timeline handles GET /api/timeline?limit=
func (h *Handler) Timeline(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Timeline(r.Context(), intParam(r, "limit", defaultTimelineLimit))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, items)
}

// Calendar handles GET /api/calendar?start=&end= in the FullCalendar event format
func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.CalendarEvents(r.Context(), dateParam(r, "start"), dateParam(r, "end"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, events)
}

// ChartData handles GET /api/cashflow/chart
func (h *Handler) ChartData(w http.ResponseWriter, r *http.Request) {
	chart, err := h.svc.ChartData(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, chart)
}

// Search handles GET /api/search?q=
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, res)
}
