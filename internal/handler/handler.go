package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/control-center/internal/config"
	"github.com/Dan9191/control-center/internal/middleware"
	"github.com/Dan9191/control-center/internal/models"
	"github.com/Dan9191/control-center/internal/repository"
	"github.com/Dan9191/control-center/internal/service"
)

// Handler serves the JSON API
type Handler struct {
	svc *service.Service
	cfg *config.Config
	log *logrus.Logger
}

// NewHandler creates a new handler
func NewHandler(svc *service.Service, cfg *config.Config, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, cfg: cfg, log: log}
}

// RegisterRoutes mounts the JSON API under /api
func (h *Handler) RegisterRoutes(r *mux.Router) {
	api := r.PathPrefix("/api").Subrouter()

	// Public routes
	api.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	api.HandleFunc("/login", h.Login).Methods(http.MethodPost)

	// Protected routes
	p := api.NewRoute().Subrouter()
	p.Use(middleware.AuthMiddleware(h.cfg))

	p.HandleFunc("/stakeholders", h.ListStakeholders).Methods(http.MethodGet)
	p.HandleFunc("/stakeholders", h.CreateStakeholder).Methods(http.MethodPost)
	p.HandleFunc("/stakeholders/export", h.ExportStakeholders).Methods(http.MethodGet)
	p.HandleFunc("/stakeholders/{id:[0-9]+}", h.GetStakeholder).Methods(http.MethodGet)
	p.HandleFunc("/stakeholders/{id:[0-9]+}", h.UpdateStakeholder).Methods(http.MethodPut)
	p.HandleFunc("/stakeholders/{id:[0-9]+}", h.DeleteStakeholder).Methods(http.MethodDelete)
	p.HandleFunc("/stakeholders/{id:[0-9]+}/graph", h.StakeholderGraph).Methods(http.MethodGet)
	p.HandleFunc("/stakeholders/{id:[0-9]+}/graph.graphml", h.StakeholderGraphML).Methods(http.MethodGet)
	p.HandleFunc("/stakeholders/{id:[0-9]+}/contacts", h.ListContactLogs).Methods(http.MethodGet)
	p.HandleFunc("/stakeholders/{id:[0-9]+}/contacts", h.CreateContactLog).Methods(http.MethodPost)
	p.HandleFunc("/contacts/{id:[0-9]+}", h.DeleteContactLog).Methods(http.MethodDelete)
	p.HandleFunc("/relationships", h.CreateRelationship).Methods(http.MethodPost)
	p.HandleFunc("/relationships/{id:[0-9]+}", h.DeleteRelationship).Methods(http.MethodDelete)

	p.HandleFunc("/loans", h.ListLoans).Methods(http.MethodGet)
	p.HandleFunc("/loans", h.CreateLoan).Methods(http.MethodPost)
	p.HandleFunc("/loans/export", h.ExportLoans).Methods(http.MethodGet)
	p.HandleFunc("/loans/{id:[0-9]+}", h.GetLoan).Methods(http.MethodGet)
	p.HandleFunc("/loans/{id:[0-9]+}", h.UpdateLoan).Methods(http.MethodPut)
	p.HandleFunc("/loans/{id:[0-9]+}", h.DeleteLoan).Methods(http.MethodDelete)

	p.HandleFunc("/cashflow", h.ListCashFlow).Methods(http.MethodGet)
	p.HandleFunc("/cashflow", h.CreateCashFlowEntry).Methods(http.MethodPost)
	p.HandleFunc("/cashflow/export", h.ExportCashFlow).Methods(http.MethodGet)
	p.HandleFunc("/cashflow/bulk-export", h.BulkExportCashFlow).Methods(http.MethodGet)
	p.HandleFunc("/cashflow/bulk-delete", h.BulkDeleteCashFlow).Methods(http.MethodPost)
	p.HandleFunc("/cashflow/chart", h.ChartData).Methods(http.MethodGet)
	p.HandleFunc("/cashflow/{id:[0-9]+}", h.GetCashFlowEntry).Methods(http.MethodGet)
	p.HandleFunc("/cashflow/{id:[0-9]+}", h.UpdateCashFlowEntry).Methods(http.MethodPut)
	p.HandleFunc("/cashflow/{id:[0-9]+}", h.DeleteCashFlowEntry).Methods(http.MethodDelete)

	p.HandleFunc("/tasks", h.ListTasks).Methods(http.MethodGet)
	p.HandleFunc("/tasks", h.CreateTask).Methods(http.MethodPost)
	p.HandleFunc("/tasks/export", h.ExportTasks).Methods(http.MethodGet)
	p.HandleFunc("/tasks/bulk-complete", h.BulkCompleteTasks).Methods(http.MethodPost)
	p.HandleFunc("/tasks/bulk-delete", h.BulkDeleteTasks).Methods(http.MethodPost)
	p.HandleFunc("/tasks/{id:[0-9]+}", h.GetTask).Methods(http.MethodGet)
	p.HandleFunc("/tasks/{id:[0-9]+}", h.UpdateTask).Methods(http.MethodPut)
	p.HandleFunc("/tasks/{id:[0-9]+}", h.DeleteTask).Methods(http.MethodDelete)
	p.HandleFunc("/tasks/{id:[0-9]+}/toggle", h.ToggleTask).Methods(http.MethodPost)
	p.HandleFunc("/tasks/{id:[0-9]+}/followups", h.ListFollowUps).Methods(http.MethodGet)
	p.HandleFunc("/tasks/{id:[0-9]+}/followups", h.CreateFollowUp).Methods(http.MethodPost)
	p.HandleFunc("/followups/{id:[0-9]+}/respond", h.MarkFollowUpResponded).Methods(http.MethodPost)
	p.HandleFunc("/followups/{id:[0-9]+}", h.DeleteFollowUp).Methods(http.MethodDelete)

	p.HandleFunc("/legal", h.ListLegalMatters).Methods(http.MethodGet)
	p.HandleFunc("/legal", h.CreateLegalMatter).Methods(http.MethodPost)
	p.HandleFunc("/legal/export", h.ExportLegalMatters).Methods(http.MethodGet)
	p.HandleFunc("/legal/{id:[0-9]+}", h.GetLegalMatter).Methods(http.MethodGet)
	p.HandleFunc("/legal/{id:[0-9]+}", h.UpdateLegalMatter).Methods(http.MethodPut)
	p.HandleFunc("/legal/{id:[0-9]+}", h.DeleteLegalMatter).Methods(http.MethodDelete)

	p.HandleFunc("/notes", h.ListNotes).Methods(http.MethodGet)
	p.HandleFunc("/notes", h.CreateNote).Methods(http.MethodPost)
	p.HandleFunc("/notes/export", h.ExportNotes).Methods(http.MethodGet)
	p.HandleFunc("/notes/{id:[0-9]+}", h.GetNote).Methods(http.MethodGet)
	p.HandleFunc("/notes/{id:[0-9]+}", h.UpdateNote).Methods(http.MethodPut)
	p.HandleFunc("/notes/{id:[0-9]+}", h.DeleteNote).Methods(http.MethodDelete)

	p.HandleFunc("/realestate", h.ListRealEstate).Methods(http.MethodGet)
	p.HandleFunc("/realestate", h.CreateRealEstate).Methods(http.MethodPost)
	p.HandleFunc("/realestate/export", h.ExportRealEstate).Methods(http.MethodGet)
	p.HandleFunc("/realestate/bulk-export", h.BulkExportRealEstate).Methods(http.MethodGet)
	p.HandleFunc("/realestate/bulk-delete", h.BulkDeleteRealEstate).Methods(http.MethodPost)
	p.HandleFunc("/realestate/{id:[0-9]+}", h.GetRealEstate).Methods(http.MethodGet)
	p.HandleFunc("/realestate/{id:[0-9]+}", h.UpdateRealEstate).Methods(http.MethodPut)
	p.HandleFunc("/realestate/{id:[0-9]+}", h.DeleteRealEstate).Methods(http.MethodDelete)

	p.HandleFunc("/investments", h.ListInvestments).Methods(http.MethodGet)
	p.HandleFunc("/investments", h.CreateInvestment).Methods(http.MethodPost)
	p.HandleFunc("/investments/export", h.ExportInvestments).Methods(http.MethodGet)
	p.HandleFunc("/investments/bulk-export", h.BulkExportInvestments).Methods(http.MethodGet)
	p.HandleFunc("/investments/bulk-delete", h.BulkDeleteInvestments).Methods(http.MethodPost)
	p.HandleFunc("/investments/{id:[0-9]+}", h.GetInvestment).Methods(http.MethodGet)
	p.HandleFunc("/investments/{id:[0-9]+}", h.UpdateInvestment).Methods(http.MethodPut)
	p.HandleFunc("/investments/{id:[0-9]+}", h.DeleteInvestment).Methods(http.MethodDelete)

	p.HandleFunc("/dashboard", h.Dashboard).Methods(http.MethodGet)
	p.HandleFunc("/alerts", h.Alerts).Methods(http.MethodGet)
	p.HandleFunc("/timeline", h.Timeline).Methods(http.MethodGet)
	p.HandleFunc("/calendar", h.Calendar).Methods(http.MethodGet)
	p.HandleFunc("/search", h.Search).Methods(http.MethodGet)

	p.HandleFunc("/settings/email", h.GetEmailSettings).Methods(http.MethodGet)
	p.HandleFunc("/settings/email", h.SaveEmailSettings).Methods(http.MethodPut)
	p.HandleFunc("/settings/email/test", h.SendTestEmail).Methods(http.MethodPost)
	p.HandleFunc("/notifications/logs", h.ListNotificationLogs).Methods(http.MethodGet)
	p.HandleFunc("/notifications/{job}/run", h.RunNotification).Methods(http.MethodPost)
}

// Health reports that the server is up
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Login exchanges the admin password for a token
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	token, err := h.svc.Login(req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"token": token})
}

// writeError maps service and repository errors to HTTP statuses
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		middleware.WriteError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, repository.ErrNotFound):
		middleware.WriteError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, repository.ErrConflict):
		middleware.WriteError(w, http.StatusConflict, "Record already exists")
	case errors.Is(err, repository.ErrInvalidReference):
		middleware.WriteError(w, http.StatusBadRequest, "Referenced record does not exist")
	case errors.Is(err, service.ErrInvalidCredentials):
		middleware.WriteError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, service.ErrAuthDisabled):
		middleware.WriteError(w, http.StatusNotFound, "Authentication is not enabled")
	default:
		h.log.WithFields(logrus.Fields{
			"path":       r.URL.Path,
			"request_id": middleware.GetRequestID(r.Context()),
		}).WithError(err).Error("Request failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func pathID(r *http.Request) int64 {
	// the route pattern only matches digits
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

// dateParam reads an optional date. Malformed values are treated as absent.
// FullCalendar sends full timestamps, so only the date part is used.
func dateParam(r *http.Request, key string) *models.Date {
	v := r.URL.Query().Get(key)
	if len(v) > len(models.DateLayout) {
		v = v[:len(models.DateLayout)]
	}
	if v == "" {
		return nil
	}
	d, err := models.ParseDate(v)
	if err != nil {
		return nil
	}
	return &d
}

// idParam reads an optional record id; zero means absent
func idParam(r *http.Request, key string) int64 {
	id, err := strconv.ParseInt(r.URL.Query().Get(key), 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

func intParam(r *http.Request, key string, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n < 0 {
		return def
	}
	return n
}

// sortParams returns the requested sort key; direction is descending unless dir=asc
func sortParams(r *http.Request) (string, bool) {
	q := r.URL.Query()
	return q.Get("sort"), q.Get("dir") != "asc"
}

func idsParam(r *http.Request, key string) []int64 {
	var ids []int64
	for _, raw := range r.URL.Query()[key] {
		for _, part := range strings.Split(raw, ",") {
			if id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64); err == nil {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

type idsRequest struct {
	IDs []int64 `json:"ids"`
}

func (h *Handler) decodeIDs(w http.ResponseWriter, r *http.Request) ([]int64, bool) {
	var req idsRequest
	if !h.decode(w, r, &req) {
		return nil, false
	}
	return req.IDs, true
}

func writeCount(w http.ResponseWriter, n int64) {
	middleware.WriteJSON(w, http.StatusOK, map[string]int64{"count": n})
}
