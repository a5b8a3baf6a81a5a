package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Dan9191/control-center/internal/middleware"
	"github.com/Dan9191/control-center/internal/models"
)

func (h *Handler) GetEmailSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.svc.GetEmailSettings(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, settings)
}

// SaveEmailSettings handles PUT /api/settings/email. An empty password keeps the stored one.
func (h *Handler) SaveEmailSettings(w http.ResponseWriter, r *http.Request) {
	var settings models.EmailSettings
	if !h.decode(w, r, &settings) {
		return
	}
	saved, err := h.svc.SaveEmailSettings(r.Context(), settings)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, saved)
}

// SendTestEmail reports SMTP failures in the body rather than as a server error
func (h *Handler) SendTestEmail(w http.ResponseWriter, r *http.Request) {
	msg, err := h.svc.SendTestEmail(r.Context())
	if err != nil {
		h.log.WithError(err).Warn("Test email failed")
		middleware.WriteJSON(w, http.StatusBadGateway, map[string]any{"success": false, "message": err.Error()})
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "message": msg})
}

// RunNotification handles POST /api/notifications/{job}/run
func (h *Handler) RunNotification(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.RunNotification(r.Context(), mux.Vars(r)["job"])
	if err != nil && res.Status != models.NotificationFailed {
		h.writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if res.Status == models.NotificationFailed {
		status = http.StatusBadGateway
	}
	middleware.WriteJSON(w, status, res)
}

func (h *Handler) ListNotificationLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.svc.ListNotificationLogs(r.Context(), r.URL.Query().Get("job"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, logs)
}
