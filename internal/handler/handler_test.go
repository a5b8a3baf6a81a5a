package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Dan9191/control-center/internal/config"
	"github.com/Dan9191/control-center/internal/database"
	"github.com/Dan9191/control-center/internal/models"
	"github.com/Dan9191/control-center/internal/notifications"
	"github.com/Dan9191/control-center/internal/repository"
	"github.com/Dan9191/control-center/internal/service"
)

var testNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

type nopMailer struct{}

func (nopMailer) Send(models.EmailSettings, string, string) error { return nil }

func newServer(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	ctx := context.Background()
	db, err := database.Open(ctx, database.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(ctx, db, database.DriverSQLite))

	if cfg.Timezone == "" {
		cfg.Timezone = "UTC"
	}
	clock := func() time.Time { return testNow }
	log := logrus.New()
	log.SetOutput(io.Discard)

	repo := repository.NewRepository(db).WithClock(clock)
	notifier := notifications.NewNotifier(repo, nopMailer{}, log, time.UTC).WithClock(clock)
	svc := service.NewService(repo, log, cfg, notifier).WithClock(clock)

	r := mux.NewRouter()
	NewHandler(svc, cfg, log).RegisterRoutes(r)
	return r
}

func do(t *testing.T, srv http.Handler, method, path string, body any, token ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if len(token) > 0 {
		req.Header.Set("Authorization", "Bearer "+token[0])
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func createStakeholder(t *testing.T, srv http.Handler, name string) models.Stakeholder {
	t.Helper()
	rec := do(t, srv, http.MethodPost, "/api/stakeholders", map[string]any{"name": name, "entity_type": "attorney"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[models.Stakeholder](t, rec)
}

func TestStakeholderEndpoints(t *testing.T) {
	srv := newServer(t, &config.Config{})

	rec := do(t, srv, http.MethodPost, "/api/stakeholders", map[string]any{"name": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "name")

	rec = do(t, srv, http.MethodPost, "/api/stakeholders", map[string]any{"name": "X", "trust_rating": 9})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	a := createStakeholder(t, srv, "Alice Law")
	b := createStakeholder(t, srv, "Bob Bank")

	rec = do(t, srv, http.MethodGet, "/api/stakeholders?q=alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody[[]models.Stakeholder](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].ID)

	rel := map[string]any{"from_stakeholder_id": a.ID, "to_stakeholder_id": b.ID, "relationship_type": "counsel"}
	rec = do(t, srv, http.MethodPost, "/api/relationships", rel)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = do(t, srv, http.MethodPost, "/api/relationships", rel)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/stakeholders/999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/stakeholders/"+itoa(a.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decodeBody[service.StakeholderDetail](t, rec)
	assert.Len(t, detail.Relationships, 1)

	rec = do(t, srv, http.MethodDelete, "/api/stakeholders/"+itoa(b.ID), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, srv, http.MethodDelete, "/api/stakeholders/"+itoa(b.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGraphEndpoints(t *testing.T) {
	srv := newServer(t, &config.Config{})
	a := createStakeholder(t, srv, "Alice")
	b := createStakeholder(t, srv, "Bob")
	rec := do(t, srv, http.MethodPost, "/api/relationships",
		map[string]any{"from_stakeholder_id": a.ID, "to_stakeholder_id": b.ID, "relationship_type": "colleague"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/stakeholders/"+itoa(a.ID)+"/graph", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var g struct {
		Nodes []map[string]any `json:"nodes"`
		Edges []map[string]any `json:"edges"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &g))
	require.Len(t, g.Nodes, 2)
	assert.Equal(t, itoa(a.ID), g.Nodes[0]["id"])
	assert.Equal(t, true, g.Nodes[0]["is_center"])
	assert.Equal(t, "Attorney", g.Nodes[0]["type_label"])
	require.Len(t, g.Edges, 1)
	assert.Equal(t, "colleague", g.Edges[0]["label"])

	rec = do(t, srv, http.MethodGet, "/api/stakeholders/"+itoa(a.ID)+"/graph.graphml", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/graphml+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<graphml")

	rec = do(t, srv, http.MethodGet, "/api/stakeholders/404/graph", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSelfRelationshipAccepted(t *testing.T) {
	srv := newServer(t, &config.Config{})
	a := createStakeholder(t, srv, "Alice")

	rec := do(t, srv, http.MethodPost, "/api/relationships",
		map[string]any{"from_stakeholder_id": a.ID, "to_stakeholder_id": a.ID, "relationship_type": "trustee"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rel := decodeBody[models.Relationship](t, rec)
	assert.Equal(t, a.ID, rel.To.ID)

	rec = do(t, srv, http.MethodGet, "/api/stakeholders/"+itoa(a.ID)+"/graph", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var g struct {
		Nodes []map[string]any `json:"nodes"`
		Edges []map[string]any `json:"edges"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &g))
	assert.Len(t, g.Nodes, 1)
	assert.Len(t, g.Edges, 2)
}

func TestCashFlowEndpoints(t *testing.T) {
	srv := newServer(t, &config.Config{})
	entries := []map[string]any{
		{"description": "Rent", "amount": "1500", "entry_type": "inflow", "date": "2026-03-01"},
		{"description": "Counsel", "amount": "400.50", "entry_type": "outflow", "date": "2026-03-05"},
		{"description": "Forecast", "amount": "900", "entry_type": "outflow", "date": "2026-04-01", "is_projected": true},
	}
	var ids []int64
	for _, e := range entries {
		rec := do(t, srv, http.MethodPost, "/api/cashflow", e)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		ids = append(ids, decodeBody[models.CashFlowEntry](t, rec).ID)
	}

	rec := do(t, srv, http.MethodPost, "/api/cashflow", map[string]any{"description": "Bad", "amount": "1",
		"entry_type": "sideways", "date": "2026-03-01"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/cashflow?projected=actual&date_from=not-a-date", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	listing := decodeBody[models.CashFlowListing](t, rec)
	assert.Len(t, listing.Entries, 2)
	assert.Equal(t, "1500", listing.TotalInflows.String())
	assert.Equal(t, "400.5", listing.TotalOutflows.String())
	assert.Equal(t, "1099.5", listing.NetFlow.String())

	rec = do(t, srv, http.MethodGet, "/api/cashflow?type=outflow&sort=amount&dir=asc", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	listing = decodeBody[models.CashFlowListing](t, rec)
	require.Len(t, listing.Entries, 2)
	assert.Equal(t, "Counsel", listing.Entries[0].Description)

	rec = do(t, srv, http.MethodGet, "/api/cashflow/bulk-export?selected="+itoa(ids[0]), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Date,Description,Type,Category,Amount,Projected\n2026-03-01,Rent,inflow,,1500.00,false\n",
		rec.Body.String())

	rec = do(t, srv, http.MethodGet, "/api/cashflow/bulk-export", nil)
	assert.Equal(t, "Date,Description,Type,Category,Amount,Projected\n", rec.Body.String())

	rec = do(t, srv, http.MethodPost, "/api/cashflow/bulk-delete", map[string]any{"ids": ids[:2]})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":2}`, rec.Body.String())
}

func TestTaskEndpoints(t *testing.T) {
	srv := newServer(t, &config.Config{})

	rec := do(t, srv, http.MethodPost, "/api/tasks", map[string]any{"title": "Review lease", "due_date": "2026-03-20",
		"priority": "critical"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	task := decodeBody[models.Task](t, rec)
	assert.Equal(t, models.TaskNotStarted, task.Status)

	rec = do(t, srv, http.MethodPost, "/api/tasks/"+itoa(task.ID)+"/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	task = decodeBody[models.Task](t, rec)
	assert.Equal(t, models.TaskComplete, task.Status)
	require.NotNil(t, task.CompletedAt)

	rec = do(t, srv, http.MethodGet, "/api/tasks?status=complete&status=bogus", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]models.Task](t, rec), 1)

	rec = do(t, srv, http.MethodGet, "/api/tasks?status=not_started", nil)
	assert.Empty(t, decodeBody[[]models.Task](t, rec))

	rec = do(t, srv, http.MethodGet, "/api/tasks/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Title,Status,Priority,Due Date,Stakeholder,Description\n"))

	rec = do(t, srv, http.MethodPost, "/api/tasks/bulk-complete", map[string]any{"ids": []int64{task.ID}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":0}`, rec.Body.String())

	rec = do(t, srv, http.MethodPost, "/api/tasks/bulk-complete", "not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCalendarAcceptsTimestamps(t *testing.T) {
	srv := newServer(t, &config.Config{})
	rec := do(t, srv, http.MethodPost, "/api/tasks", map[string]any{"title": "Deposition", "due_date": "2026-03-20",
		"priority": "critical"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/calendar?start=2026-03-01T00:00:00-06:00&end=2026-04-12T00:00:00-05:00", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	events := decodeBody[[]models.CalendarEvent](t, rec)
	require.Len(t, events, 1)
	assert.Equal(t, "#ef4444", events[0].Color)
	assert.Equal(t, "task", events[0].ExtendedProps["type"])

	rec = do(t, srv, http.MethodGet, "/api/calendar?start=garbage", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]models.CalendarEvent](t, rec), 1)
}

func TestReportEndpoints(t *testing.T) {
	srv := newServer(t, &config.Config{})
	rec := do(t, srv, http.MethodPost, "/api/cashflow", map[string]any{"description": "Payroll", "amount": "800",
		"entry_type": "outflow", "date": "2026-03-02"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/alerts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Negative Net Cash Flow")

	for _, path := range []string{"/api/dashboard", "/api/timeline?limit=5", "/api/cashflow/chart", "/api/search?q=pay"} {
		rec = do(t, srv, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
	assert.Contains(t, rec.Body.String(), `"has_results":true`)
}

func TestRealEstateEndpoints(t *testing.T) {
	srv := newServer(t, &config.Config{})
	owner := createStakeholder(t, srv, "Holding Trust")

	rec := do(t, srv, http.MethodPost, "/api/realestate", map[string]any{"name": "Lake house"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "address")

	rec = do(t, srv, http.MethodPost, "/api/realestate", map[string]any{"name": "Lake house", "address": "1 Shore Rd",
		"property_type": "residential", "estimated_value": "850000", "acquisition_date": "2024-05-01",
		"stakeholder_id": owner.ID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	lake := decodeBody[models.RealEstate](t, rec)
	assert.Equal(t, models.PropertyOwned, lake.Status)

	rec = do(t, srv, http.MethodPost, "/api/realestate", map[string]any{"name": "Warehouse", "address": "4 Dock St",
		"estimated_value": "120000", "status": "in_dispute"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	warehouse := decodeBody[models.RealEstate](t, rec)

	rec = do(t, srv, http.MethodPost, "/api/realestate", map[string]any{"name": "Ghost", "address": "0 Nowhere",
		"stakeholder_id": 999})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/realestate?sort=estimated_value&dir=asc", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody[[]models.RealEstate](t, rec)
	require.Len(t, list, 2)
	assert.Equal(t, warehouse.ID, list[0].ID)

	rec = do(t, srv, http.MethodGet, "/api/realestate?status=in_dispute&status=bogus", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list = decodeBody[[]models.RealEstate](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, "Warehouse", list[0].Name)

	rec = do(t, srv, http.MethodPost, "/api/legal", map[string]any{"title": "Easement", "property_ids": []int64{lake.ID}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = do(t, srv, http.MethodGet, "/api/realestate/"+itoa(lake.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decodeBody[service.RealEstateDetail](t, rec)
	assert.Equal(t, "Lake house", detail.Property.Name)
	assert.Len(t, detail.LegalMatters, 1)
	assert.NotNil(t, detail.CashFlowEntries)

	rec = do(t, srv, http.MethodGet, "/api/stakeholders/"+itoa(owner.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[service.StakeholderDetail](t, rec).Properties, 1)

	rec = do(t, srv, http.MethodGet, "/api/realestate/bulk-export?selected="+itoa(lake.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Name,Address,Type,Estimated Value,Status,Acquisition Date\n"+
		"Lake house,1 Shore Rd,residential,850000,owned,2024-05-01\n", rec.Body.String())
	rec = do(t, srv, http.MethodGet, "/api/realestate/bulk-export", nil)
	assert.Equal(t, "Name,Address,Type,Estimated Value,Status,Acquisition Date\n", rec.Body.String())

	rec = do(t, srv, http.MethodGet, "/api/realestate/export?q=dock", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Warehouse,4 Dock St")
	assert.NotContains(t, rec.Body.String(), "Lake house")

	rec = do(t, srv, http.MethodPut, "/api/realestate/"+itoa(warehouse.ID), map[string]any{"name": "Warehouse",
		"address": "4 Dock St", "status": "sold"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, models.PropertySold, decodeBody[models.RealEstate](t, rec).Status)

	rec = do(t, srv, http.MethodPost, "/api/realestate/bulk-delete", map[string]any{"ids": []int64{lake.ID, warehouse.ID}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":2}`, rec.Body.String())
	rec = do(t, srv, http.MethodGet, "/api/realestate/"+itoa(lake.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInvestmentEndpoints(t *testing.T) {
	srv := newServer(t, &config.Config{})

	rec := do(t, srv, http.MethodPost, "/api/investments", map[string]any{"name": "Fund", "current_value": "-1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var ids []int64
	for _, body := range []map[string]any{
		{"name": "Index fund", "investment_type": "etf", "institution": "Vanguard", "current_value": "250000"},
		{"name": "Angel round", "investment_type": "private", "current_value": "40000"},
	} {
		rec = do(t, srv, http.MethodPost, "/api/investments", body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		ids = append(ids, decodeBody[models.Investment](t, rec).ID)
	}

	rec = do(t, srv, http.MethodGet, "/api/investments?sort=current_value", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody[[]models.Investment](t, rec)
	require.Len(t, list, 2)
	assert.Equal(t, "Index fund", list[0].Name)

	rec = do(t, srv, http.MethodGet, "/api/investments/"+itoa(ids[1]), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Angel round", decodeBody[models.Investment](t, rec).Name)

	rec = do(t, srv, http.MethodGet, "/api/investments/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Name,Type,Institution,Current Value\nAngel round,private,,40000\nIndex fund,etf,Vanguard,250000\n",
		rec.Body.String())

	rec = do(t, srv, http.MethodGet, "/api/investments/bulk-export?selected="+itoa(ids[0]), nil)
	assert.Equal(t, "Name,Type,Institution,Current Value\nIndex fund,etf,Vanguard,250000\n", rec.Body.String())

	rec = do(t, srv, http.MethodDelete, "/api/investments/"+itoa(ids[0]), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, srv, http.MethodPost, "/api/investments/bulk-delete", map[string]any{"ids": ids})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":1}`, rec.Body.String())
}

func TestNoteLinkEndpoints(t *testing.T) {
	srv := newServer(t, &config.Config{})
	counsel := createStakeholder(t, srv, "Counsel")
	client := createStakeholder(t, srv, "Client")

	rec := do(t, srv, http.MethodPost, "/api/legal", map[string]any{"title": "Probate",
		"attorney_ids": []int64{counsel.ID}, "stakeholder_ids": []int64{client.ID}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	matter := decodeBody[models.LegalMatter](t, rec)
	assert.Equal(t, []int64{counsel.ID}, matter.AttorneyIDs)
	assert.Equal(t, []int64{}, matter.PropertyIDs)

	rec = do(t, srv, http.MethodPost, "/api/tasks", map[string]any{"title": "File inventory"})
	require.Equal(t, http.StatusCreated, rec.Code)
	task := decodeBody[models.Task](t, rec)

	rec = do(t, srv, http.MethodPost, "/api/notes", map[string]any{"title": "Kickoff", "content": "Scope agreed",
		"participant_ids": []int64{counsel.ID}, "legal_matter_ids": []int64{matter.ID}, "task_ids": []int64{task.ID}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	note := decodeBody[models.Note](t, rec)
	assert.Equal(t, []int64{task.ID}, note.TaskIDs)

	rec = do(t, srv, http.MethodPost, "/api/notes", map[string]any{"title": "Other", "content": "Unrelated"})
	require.Equal(t, http.StatusCreated, rec.Code)

	for _, path := range []string{
		"/api/notes?stakeholder=" + itoa(counsel.ID),
		"/api/notes?legal_matter=" + itoa(matter.ID),
		"/api/notes?task=" + itoa(task.ID),
	} {
		rec = do(t, srv, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, rec.Code, path)
		notes := decodeBody[[]models.Note](t, rec)
		require.Len(t, notes, 1, path)
		assert.Equal(t, note.ID, notes[0].ID, path)
	}

	rec = do(t, srv, http.MethodGet, "/api/legal?stakeholder="+itoa(client.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]models.LegalMatter](t, rec), 1)

	rec = do(t, srv, http.MethodPut, "/api/notes/"+itoa(note.ID), map[string]any{"title": "Kickoff",
		"content": "Scope agreed", "task_ids": []int64{404}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodDelete, "/api/legal/"+itoa(matter.ID), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, srv, http.MethodGet, "/api/notes/"+itoa(note.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	note = decodeBody[models.Note](t, rec)
	assert.Equal(t, []int64{}, note.LegalMatterIDs)
	assert.Equal(t, []int64{counsel.ID}, note.ParticipantIDs)
}

func TestSettingsAndNotifications(t *testing.T) {
	srv := newServer(t, &config.Config{})

	rec := do(t, srv, http.MethodPut, "/api/settings/email", map[string]any{"smtp_host": "smtp.example.com",
		"smtp_port": 465, "use_tls": true, "use_ssl": true})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodPut, "/api/settings/email", map[string]any{"smtp_host": "smtp.example.com",
		"smtp_port": 587, "use_tls": true, "password": "pw", "from_email": "cc@example.com",
		"admin_email": "me@example.com", "notifications_enabled": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "pw")

	rec = do(t, srv, http.MethodPost, "/api/settings/email/test", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"Test email sent to me@example.com."}`, rec.Body.String())

	rec = do(t, srv, http.MethodPost, "/api/notifications/bogus/run", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/tasks", map[string]any{"title": "Late filing", "due_date": "2026-03-01"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = do(t, srv, http.MethodPost, "/api/notifications/overdue_tasks/run", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decodeBody[notifications.Result](t, rec)
	assert.Equal(t, models.NotificationSent, res.Status)
	assert.Equal(t, 1, res.Count)

	rec = do(t, srv, http.MethodGet, "/api/notifications/logs?job=overdue_tasks", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]models.NotificationLog](t, rec), 1)
}

func TestAuthentication(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("letmein"), bcrypt.MinCost)
	require.NoError(t, err)
	srv := newServer(t, &config.Config{AuthPasswordHash: string(hash), AuthSecret: "secret"})

	rec := do(t, srv, http.MethodGet, "/api/stakeholders", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/login", map[string]string{"password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/login", map[string]string{"password": "letmein"})
	require.Equal(t, http.StatusOK, rec.Code)
	token := decodeBody[map[string]string](t, rec)["token"]
	require.NotEmpty(t, token)

	rec = do(t, srv, http.MethodGet, "/api/stakeholders", nil, token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
