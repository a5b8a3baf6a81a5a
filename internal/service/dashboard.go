package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Dan9191/control-center/internal/alerts"
	"github.com/Dan9191/control-center/internal/models"
	"github.com/Dan9191/control-center/internal/repository"
	"github.com/Dan9191/control-center/internal/utils"
)

const (
	upcomingTaskDays  = 14
	staleFollowUpDays = 3
	dashboardListSize = 10
	searchLimit       = 10
	chartMonths       = 6
	chartCategories   = 8
	timelineSummary   = 120
)

// Dashboard is the landing page summary for one day
type Dashboard struct {
	Today              models.Date            `json:"today"`
	OverdueTasks       []models.Task          `json:"overdue_tasks"`
	UpcomingTasks      []models.Task          `json:"upcoming_tasks"`
	ActiveLegalMatters []models.LegalMatter   `json:"active_legal_matters"`
	StaleFollowUps     []models.FollowUp      `json:"stale_followups"`
	RecentNotes        []models.Note          `json:"recent_notes"`
	MonthlyCashFlow    models.MonthlyCashFlow `json:"monthly_cashflow"`
	LiquidityAlerts    []alerts.Alert         `json:"liquidity_alerts"`
	RecentActivity     []models.ActivityItem  `json:"recent_activity"`
}

// Dashboard collects everything shown on the landing page
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	today := s.Today()
	d := &Dashboard{Today: today}

	var err error
	if d.OverdueTasks, err = s.repo.ListOverdueTasks(ctx, today); err != nil {
		return nil, err
	}
	horizon := today.AddDays(upcomingTaskDays)
	if d.UpcomingTasks, err = s.repo.ListTasksDueBetween(ctx, &today, &horizon); err != nil {
		return nil, err
	}
	d.ActiveLegalMatters, err = s.repo.ListLegalMatters(ctx, repository.LegalMatterFilter{
		Statuses: []models.MatterStatus{models.MatterActive, models.MatterPending},
	})
	if err != nil {
		return nil, err
	}
	cutoff := models.NewTimestamp(s.now().AddDate(0, 0, -staleFollowUpDays))
	if d.StaleFollowUps, err = s.repo.ListStaleFollowUps(ctx, cutoff); err != nil {
		return nil, err
	}
	if d.RecentNotes, err = s.repo.ListNotes(ctx, repository.NoteFilter{Limit: dashboardListSize}); err != nil {
		return nil, err
	}
	if d.MonthlyCashFlow, err = s.monthlyCashFlow(ctx, today); err != nil {
		return nil, err
	}
	if d.LiquidityAlerts, err = alerts.Evaluate(ctx, s.repo, today); err != nil {
		return nil, err
	}
	if d.RecentActivity, err = s.Timeline(ctx, dashboardListSize); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) monthlyCashFlow(ctx context.Context, today models.Date) (models.MonthlyCashFlow, error) {
	from, to := today.FirstOfMonth(), today.LastOfMonth()
	entries, err := s.repo.ListCashFlowEntries(ctx, models.CashFlowFilter{From: &from, To: &to})
	if err != nil {
		return models.MonthlyCashFlow{}, err
	}
	var actual, projected models.FlowTotals
	for _, e := range entries {
		if e.IsProjected {
			projected = projected.Add(e)
		} else {
			actual = actual.Add(e)
		}
	}
	return models.MonthlyCashFlow{
		ActualInflows:     actual.Inflows,
		ActualOutflows:    actual.Outflows,
		ProjectedInflows:  projected.Inflows,
		ProjectedOutflows: projected.Outflows,
	}, nil
}

// Timeline merges recent contact logs, notes, tasks, follow-ups and cash
// flow entries into one feed, newest first
func (s *Service) Timeline(ctx context.Context, limit int) ([]models.ActivityItem, error) {
	if limit <= 0 {
		limit = dashboardListSize
	}
	items := []models.ActivityItem{}

	logs, err := s.repo.ListContactLogs(ctx, 0, limit)
	if err != nil {
		return nil, err
	}
	for _, c := range logs {
		items = append(items, models.ActivityItem{
			Date:    c.Date.Time,
			Type:    "contact",
			Color:   "blue",
			Icon:    "phone",
			Title:   fmt.Sprintf("%s with %s", c.Method.Label(), c.Stakeholder.Name),
			Summary: utils.Truncate(c.Summary, timelineSummary),
			URL:     fmt.Sprintf("/api/stakeholders/%d", c.StakeholderID),
		})
	}

	notes, err := s.repo.ListNotes(ctx, repository.NoteFilter{Limit: limit})
	if err != nil {
		return nil, err
	}
	for _, n := range notes {
		items = append(items, models.ActivityItem{
			Date:    n.Date.Time,
			Type:    "note",
			Color:   "indigo",
			Icon:    "pencil",
			Title:   n.Title,
			Summary: utils.Truncate(n.Content, timelineSummary),
			URL:     fmt.Sprintf("/api/notes/%d", n.ID),
		})
	}

	tasks, err := s.repo.ListRecentTasks(ctx, limit)
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		items = append(items, models.ActivityItem{
			Date:    t.CreatedAt.Time,
			Type:    "task",
			Color:   "yellow",
			Icon:    "clipboard",
			Title:   t.Title,
			Summary: t.Status.Label() + " / " + t.Priority.Label(),
			URL:     fmt.Sprintf("/api/tasks/%d", t.ID),
		})
	}

	followUps, err := s.repo.ListRecentFollowUps(ctx, limit)
	if err != nil {
		return nil, err
	}
	for _, f := range followUps {
		summary := f.NotesText
		if summary == "" {
			summary = "Re: " + f.TaskTitle
		}
		items = append(items, models.ActivityItem{
			Date:    f.OutreachDate.Time,
			Type:    "followup",
			Color:   "amber",
			Icon:    "arrow-path",
			Title:   "Follow-up: " + f.Stakeholder.Name,
			Summary: utils.Truncate(summary, timelineSummary),
			URL:     fmt.Sprintf("/api/tasks/%d", f.TaskID),
		})
	}

	entries, err := s.repo.ListCashFlowEntries(ctx, models.CashFlowFilter{Limit: limit})
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		color, sign := "green", "+"
		if e.EntryType == models.Outflow {
			color, sign = "red", "-"
		}
		items = append(items, models.ActivityItem{
			Date:    e.Date.Time,
			Type:    "cashflow",
			Color:   color,
			Icon:    "currency-dollar",
			Title:   e.Description,
			Summary: sign + utils.FormatCurrency(e.Amount),
			URL:     fmt.Sprintf("/api/cashflow/%d", e.ID),
		})
	}

	slices.SortStableFunc(items, func(a, b models.ActivityItem) int {
		return b.Date.Compare(a.Date)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

var priorityColors = map[models.Priority]string{
	models.PriorityCritical: "#ef4444",
	models.PriorityHigh:     "#f97316",
	models.PriorityMedium:   "#eab308",
	models.PriorityLow:      "#9ca3af",
}

const (
	paymentColor         = "#dc2626"
	followUpColor        = "#f59e0b"
	legalColor           = "#a855f7"
	contactFollowUpColor = "#3b82f6"
)

// CalendarEvents returns open tasks, loan payments, open follow-ups, legal
// filings and contact follow-ups between start and end. Nil bounds are open.
func (s *Service) CalendarEvents(ctx context.Context, start, end *models.Date) ([]models.CalendarEvent, error) {
	events := []models.CalendarEvent{}

	tasks, err := s.repo.ListTasksDueBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		color, ok := priorityColors[t.Priority]
		if !ok {
			color = priorityColors[models.PriorityMedium]
		}
		events = append(events, models.CalendarEvent{
			Title:         t.Title,
			Start:         t.DueDate.String(),
			URL:           fmt.Sprintf("/api/tasks/%d", t.ID),
			Color:         color,
			ExtendedProps: map[string]string{"type": "task", "priority": string(t.Priority)},
		})
	}

	loans, err := s.repo.ListLoanPayments(ctx, start, end)
	if err != nil {
		return nil, err
	}
	for _, l := range loans {
		props := map[string]string{"type": "payment"}
		if l.MonthlyPayment.Valid {
			props["amount"] = l.MonthlyPayment.Decimal.StringFixed(2)
		}
		events = append(events, models.CalendarEvent{
			Title:         "Payment: " + l.Name,
			Start:         l.NextPaymentDate.String(),
			URL:           fmt.Sprintf("/api/loans/%d", l.ID),
			Color:         paymentColor,
			ExtendedProps: props,
		})
	}

	followUps, err := s.repo.ListOpenFollowUps(ctx)
	if err != nil {
		return nil, err
	}
	for _, f := range followUps {
		day := f.OutreachDate.DateIn(s.loc)
		if !inRange(day, start, end) {
			continue
		}
		events = append(events, models.CalendarEvent{
			Title:         "Follow-up: " + f.Stakeholder.Name,
			Start:         day.String(),
			URL:           fmt.Sprintf("/api/tasks/%d", f.TaskID),
			Color:         followUpColor,
			ExtendedProps: map[string]string{"type": "followup", "task": f.TaskTitle},
		})
	}

	filings, err := s.repo.ListFilings(ctx, start, end)
	if err != nil {
		return nil, err
	}
	for _, m := range filings {
		events = append(events, models.CalendarEvent{
			Title:         "Legal: " + m.Title,
			Start:         m.FilingDate.String(),
			URL:           fmt.Sprintf("/api/legal/%d", m.ID),
			Color:         legalColor,
			ExtendedProps: map[string]string{"type": "legal", "status": string(m.Status)},
		})
	}

	contacts, err := s.repo.ListContactFollowUps(ctx, start, end)
	if err != nil {
		return nil, err
	}
	for _, c := range contacts {
		events = append(events, models.CalendarEvent{
			Title:         "Contact: " + c.Stakeholder.Name,
			Start:         c.FollowUpDate.String(),
			URL:           fmt.Sprintf("/api/stakeholders/%d", c.StakeholderID),
			Color:         contactFollowUpColor,
			ExtendedProps: map[string]string{"type": "contact", "method": string(c.Method)},
		})
	}
	return events, nil
}

func inRange(d models.Date, start, end *models.Date) bool {
	if start != nil && d.Before(start.Time) {
		return false
	}
	if end != nil && d.After(end.Time) {
		return false
	}
	return true
}

// ChartData returns monthly actual inflow/outflow totals since the start of
// the month five months back, and the largest actual categories
func (s *Service) ChartData(ctx context.Context) (*models.CashFlowChart, error) {
	since := s.Today().FirstOfMonth().AddMonths(-(chartMonths - 1))
	actual := false
	entries, err := s.repo.ListCashFlowEntries(ctx, models.CashFlowFilter{From: &since, Projected: &actual})
	if err != nil {
		return nil, err
	}

	months := map[models.Date]models.FlowTotals{}
	for _, e := range entries {
		key := e.Date.FirstOfMonth()
		months[key] = months[key].Add(e)
	}
	keys := make([]models.Date, 0, len(months))
	for k := range months {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b models.Date) int { return a.Compare(b.Time) })

	chart := &models.CashFlowChart{
		Monthly: models.MonthlySeries{
			Labels:   make([]string, 0, len(keys)),
			Inflows:  make([]float64, 0, len(keys)),
			Outflows: make([]float64, 0, len(keys)),
		},
	}
	for _, k := range keys {
		chart.Monthly.Labels = append(chart.Monthly.Labels, k.Format("Jan 2006"))
		chart.Monthly.Inflows = append(chart.Monthly.Inflows, months[k].Inflows.InexactFloat64())
		chart.Monthly.Outflows = append(chart.Monthly.Outflows, months[k].Outflows.InexactFloat64())
	}

	chart.Categories, err = s.categorySeries(ctx)
	if err != nil {
		return nil, err
	}
	return chart, nil
}

func (s *Service) categorySeries(ctx context.Context) (models.CategorySeries, error) {
	actual := false
	entries, err := s.repo.ListCashFlowEntries(ctx, models.CashFlowFilter{Projected: &actual})
	if err != nil {
		return models.CategorySeries{}, err
	}

	type category struct {
		name  string
		total decimal.Decimal
	}
	totals := map[string]decimal.Decimal{}
	for _, e := range entries {
		if e.Category == "" {
			continue
		}
		totals[e.Category] = totals[e.Category].Add(e.Amount)
	}
	ranked := make([]category, 0, len(totals))
	for name, total := range totals {
		ranked = append(ranked, category{name, total})
	}
	slices.SortFunc(ranked, func(a, b category) int {
		if c := b.total.Cmp(a.total); c != 0 {
			return c
		}
		return cmp.Compare(a.name, b.name)
	})
	if len(ranked) > chartCategories {
		ranked = ranked[:chartCategories]
	}

	series := models.CategorySeries{
		Labels: make([]string, 0, len(ranked)),
		Values: make([]float64, 0, len(ranked)),
	}
	for _, c := range ranked {
		series.Labels = append(series.Labels, c.name)
		series.Values = append(series.Values, c.total.InexactFloat64())
	}
	return series, nil
}

// Search looks for q across every record kind
func (s *Service) Search(ctx context.Context, q string) (*models.SearchResults, error) {
	q = strings.TrimSpace(q)
	res := &models.SearchResults{
		Query:           q,
		Stakeholders:    []models.Stakeholder{},
		Tasks:           []models.Task{},
		Notes:           []models.Note{},
		LegalMatters:    []models.LegalMatter{},
		Loans:           []models.Loan{},
		CashFlowEntries: []models.CashFlowEntry{},
		Properties:      []models.RealEstate{},
		Investments:     []models.Investment{},
	}
	if q == "" {
		return res, nil
	}

	var err error
	if res.Stakeholders, err = s.repo.SearchStakeholders(ctx, q, searchLimit); err != nil {
		return nil, err
	}
	if res.Tasks, err = s.repo.ListTasks(ctx, models.TaskFilter{Query: q, Limit: searchLimit}); err != nil {
		return nil, err
	}
	if res.Notes, err = s.repo.ListNotes(ctx, repository.NoteFilter{Query: q, Limit: searchLimit}); err != nil {
		return nil, err
	}
	res.LegalMatters, err = s.repo.ListLegalMatters(ctx, repository.LegalMatterFilter{Query: q, Limit: searchLimit})
	if err != nil {
		return nil, err
	}
	if res.Loans, err = s.repo.ListLoans(ctx, repository.LoanFilter{Query: q, Limit: searchLimit}); err != nil {
		return nil, err
	}
	res.CashFlowEntries, err = s.repo.ListCashFlowEntries(ctx, models.CashFlowFilter{Query: q, Limit: searchLimit})
	if err != nil {
		return nil, err
	}
	if res.Properties, err = s.repo.ListRealEstate(ctx, repository.RealEstateFilter{Query: q, Limit: searchLimit}); err != nil {
		return nil, err
	}
	if res.Investments, err = s.repo.ListInvestments(ctx, repository.InvestmentFilter{Query: q, Limit: searchLimit}); err != nil {
		return nil, err
	}

	res.HasResults = len(res.Stakeholders)+len(res.Tasks)+len(res.Notes)+len(res.LegalMatters)+
		len(res.Loans)+len(res.CashFlowEntries)+len(res.Properties)+len(res.Investments) > 0
	return res, nil
}
