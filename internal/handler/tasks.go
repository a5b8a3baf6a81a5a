package handler

import (
	"net/http"

	"github.com/Dan9191/control-center/internal/middleware"
	"github.com/Dan9191/control-center/internal/models"
)

// taskFilter reads q, status (repeatable), priority, date_from, date_to, sort and dir
func taskFilter(r *http.Request) models.TaskFilter {
	q := r.URL.Query()
	f := models.TaskFilter{
		Query:  q.Get("q"),
		From:   dateParam(r, "date_from"),
		To:     dateParam(r, "date_to"),
		Limit:  intParam(r, "limit", 0),
		Offset: intParam(r, "offset", 0),
	}
	f.Sort, f.Desc = sortParams(r)
	for _, v := range q["status"] {
		if s := models.TaskStatus(v); s.Valid() {
			f.Statuses = append(f.Statuses, s)
		}
	}
	if p := models.Priority(q.Get("priority")); p.Valid() {
		f.Priority = p
	}
	return f
}

func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.svc.ListTasks(r.Context(), taskFilter(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, tasks)
}

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var t models.Task
	if !h.decode(w, r, &t) {
		return
	}
	if err := h.svc.CreateTask(r.Context(), &t); err != nil {
		h.writeError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, t)
}

func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.GetTask(r.Context(), pathID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var t models.Task
	if !h.decode(w, r, &t) {
		return
	}
	t.ID = pathID(r)
	if err := h.svc.UpdateTask(r.Context(), &t); err != nil {
		h.writeError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteTask(r.Context(), pathID(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleTask handles POST /api/tasks/{id}/toggle
func (h *Handler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.ToggleTaskComplete(r.Context(), pathID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) BulkCompleteTasks(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.decodeIDs(w, r)
	if !ok {
		return
	}
	n, err := h.svc.BulkCompleteTasks(r.Context(), ids)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeCount(w, n)
}

func (h *Handler) BulkDeleteTasks(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.decodeIDs(w, r)
	if !ok {
		return
	}
	n, err := h.svc.BulkDeleteTasks(r.Context(), ids)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeCount(w, n)
}

func (h *Handler) ExportTasks(w http.ResponseWriter, r *http.Request) {
	f := taskFilter(r)
	f.Limit, f.Offset = 0, 0
	tasks, err := h.svc.ListTasks(r.Context(), f)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeCSV(w, h.log, "tasks", taskColumns, tasks)
}

func (h *Handler) ListFollowUps(w http.ResponseWriter, r *http.Request) {
	followUps, err := h.svc.ListFollowUps(r.Context(), pathID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, followUps)
}

// CreateFollowUp handles POST /api/tasks/{id}/followups
func (h *Handler) CreateFollowUp(w http.ResponseWriter, r *http.Request) {
	var f models.FollowUp
	if !h.decode(w, r, &f) {
		return
	}
	f.TaskID = pathID(r)
	if err := h.svc.CreateFollowUp(r.Context(), &f); err != nil {
		h.writeError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, f)
}

func (h *Handler) MarkFollowUpResponded(w http.ResponseWriter, r *http.Request) {
	f, err := h.svc.MarkFollowUpResponded(r.Context(), pathID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, f)
}

func (h *Handler) DeleteFollowUp(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteFollowUp(r.Context(), pathID(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
