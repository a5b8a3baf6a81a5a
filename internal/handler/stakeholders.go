package handler

import (
	"fmt"
	"net/http"

	"github.com/Dan9191/control-center/internal/graph"
	"github.com/Dan9191/control-center/internal/middleware"
	"github.com/Dan9191/control-center/internal/models"
	"github.com/Dan9191/control-center/internal/repository"
)

func stakeholderFilter(r *http.Request) repository.StakeholderFilter {
	q := r.URL.Query()
	return repository.StakeholderFilter{
		Query:      q.Get("q"),
		EntityType: models.EntityType(q.Get("type")),
		Limit:      intParam(r, "limit", 0),
		Offset:     intParam(r, "offset", 0),
	}
}

// ListStakeholders handles GET /api/stakeholders
func (h *Handler) ListStakeholders(w http.ResponseWriter, r *http.Request) {
	stakeholders, err := h.svc.ListStakeholders(r.Context(), stakeholderFilter(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, stakeholders)
}

// CreateStakeholder handles POST /api/stakeholders
func (h *Handler) CreateStakeholder(w http.ResponseWriter, r *http.Request) {
	var st models.Stakeholder
	if !h.decode(w, r, &st) {
		return
	}
	if err := h.svc.CreateStakeholder(r.Context(), &st); err != nil {
		h.writeError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, st)
}

// GetStakeholder returns a stakeholder with its linked records
func (h *Handler) GetStakeholder(w http.ResponseWriter, r *http.Request) {
	detail, err := h.svc.StakeholderDetail(r.Context(), pathID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, detail)
}

func (h *Handler) UpdateStakeholder(w http.ResponseWriter, r *http.Request) {
	var st models.Stakeholder
	if !h.decode(w, r, &st) {
		return
	}
	st.ID = pathID(r)
	if err := h.svc.UpdateStakeholder(r.Context(), &st); err != nil {
		h.writeError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, st)
}

func (h *Handler) DeleteStakeholder(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteStakeholder(r.Context(), pathID(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StakeholderGraph returns the relationship graph as nodes and edges
func (h *Handler) StakeholderGraph(w http.ResponseWriter, r *http.Request) {
	g, err := h.svc.RelationshipGraph(r.Context(), pathID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, g)
}

// StakeholderGraphML returns the relationship graph as a GraphML download
func (h *Handler) StakeholderGraphML(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	g, err := h.svc.RelationshipGraph(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/graphml+xml")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="stakeholder-%d.graphml"`, id))
	if err := graph.WriteGraphML(w, g); err != nil {
		h.log.WithError(err).Error("Failed to write GraphML")
	}
}

func (h *Handler) ListContactLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.svc.ListContactLogs(r.Context(), pathID(r), intParam(r, "limit", 0))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, logs)
}

// CreateContactLog handles POST /api/stakeholders/{id}/contacts
func (h *Handler) CreateContactLog(w http.ResponseWriter, r *http.Request) {
	var c models.ContactLog
	if !h.decode(w, r, &c) {
		return
	}
	c.StakeholderID = pathID(r)
	if err := h.svc.CreateContactLog(r.Context(), &c); err != nil {
		h.writeError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) DeleteContactLog(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteContactLog(r.Context(), pathID(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateRelationship handles POST /api/relationships
func (h *Handler) CreateRelationship(w http.ResponseWriter, r *http.Request) {
	var rel models.Relationship
	if !h.decode(w, r, &rel) {
		return
	}
	if err := h.svc.CreateRelationship(r.Context(), &rel); err != nil {
		h.writeError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, rel)
}

func (h *Handler) DeleteRelationship(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteRelationship(r.Context(), pathID(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportStakeholders handles GET /api/stakeholders/export
func (h *Handler) ExportStakeholders(w http.ResponseWriter, r *http.Request) {
	f := stakeholderFilter(r)
	f.Limit, f.Offset = 0, 0
	stakeholders, err := h.svc.ListStakeholders(r.Context(), f)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeCSV(w, h.log, "stakeholders", stakeholderColumns, stakeholders)
}
