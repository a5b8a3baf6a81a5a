package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dan9191/control-center/internal/database"
	"github.com/Dan9191/control-center/internal/models"
)

var testNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	ctx := context.Background()
	db, err := database.Open(ctx, database.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(ctx, db, database.DriverSQLite))
	return NewRepository(db).WithClock(func() time.Time { return testNow })
}

func mustStakeholder(t *testing.T, r *Repository, name string, typ models.EntityType) *models.Stakeholder {
	t.Helper()
	s := &models.Stakeholder{Name: name, EntityType: typ}
	require.NoError(t, r.CreateStakeholder(context.Background(), s))
	return s
}

func datePtr(y int, m time.Month, d int) *models.Date {
	date := models.NewDate(y, m, d)
	return &date
}

func TestStakeholderCRUD(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	rating := 4
	s := &models.Stakeholder{Name: "Marcus Reed", EntityType: models.EntityBusinessPartner,
		Organization: "Reed Holdings", TrustRating: &rating}
	require.NoError(t, r.CreateStakeholder(ctx, s))
	assert.NotZero(t, s.ID)
	assert.Equal(t, testNow, s.CreatedAt.Time)

	got, err := r.GetStakeholder(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Marcus Reed", got.Name)
	assert.Equal(t, models.EntityBusinessPartner, got.EntityType)
	require.NotNil(t, got.TrustRating)
	assert.Equal(t, 4, *got.TrustRating)
	assert.Nil(t, got.RiskRating)
	assert.Equal(t, testNow, got.CreatedAt.Time)

	got.Phone = "555-0100"
	require.NoError(t, r.UpdateStakeholder(ctx, got))
	got, err = r.GetStakeholder(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "555-0100", got.Phone)

	mustStakeholder(t, r, "Alice Banks", models.EntityLender)
	list, err := r.ListStakeholders(ctx, StakeholderFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Alice Banks", list[0].Name)

	list, err = r.ListStakeholders(ctx, StakeholderFilter{Query: "REED"})
	require.NoError(t, err)
	require.Len(t, list, 1)

	found, err := r.SearchStakeholders(ctx, "holdings", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, s.ID, found[0].ID)

	require.NoError(t, r.DeleteStakeholder(ctx, s.ID))
	_, err = r.GetStakeholder(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, r.DeleteStakeholder(ctx, s.ID), ErrNotFound)
}

func TestRelationships(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	a := mustStakeholder(t, r, "A", models.EntityContact)
	b := mustStakeholder(t, r, "B", models.EntityContact)
	c := mustStakeholder(t, r, "C", models.EntityContact)

	ab := &models.Relationship{FromStakeholderID: a.ID, ToStakeholderID: b.ID, RelationshipType: "partner"}
	require.NoError(t, r.CreateRelationship(ctx, ab))
	bc := &models.Relationship{FromStakeholderID: b.ID, ToStakeholderID: c.ID, RelationshipType: "advisor"}
	require.NoError(t, r.CreateRelationship(ctx, bc))

	t.Run("duplicate triple conflicts", func(t *testing.T) {
		dup := &models.Relationship{FromStakeholderID: a.ID, ToStakeholderID: b.ID, RelationshipType: "partner"}
		assert.ErrorIs(t, r.CreateRelationship(ctx, dup), ErrConflict)
	})

	t.Run("missing endpoint", func(t *testing.T) {
		bad := &models.Relationship{FromStakeholderID: a.ID, ToStakeholderID: 999, RelationshipType: "x"}
		assert.ErrorIs(t, r.CreateRelationship(ctx, bad), ErrInvalidReference)
	})

	t.Run("get joins both endpoints", func(t *testing.T) {
		got, err := r.GetRelationship(ctx, ab.ID)
		require.NoError(t, err)
		assert.Equal(t, "A", got.From.Name)
		assert.Equal(t, "B", got.To.Name)
	})

	t.Run("touching", func(t *testing.T) {
		edges, err := r.ListEdgesTouching(ctx, []int64{a.ID})
		require.NoError(t, err)
		require.Len(t, edges, 1)
		assert.Equal(t, ab.ID, edges[0].ID)

		edges, err = r.ListEdgesTouching(ctx, []int64{b.ID})
		require.NoError(t, err)
		assert.Len(t, edges, 2)
	})

	t.Run("within", func(t *testing.T) {
		edges, err := r.ListEdgesWithin(ctx, []int64{a.ID, b.ID})
		require.NoError(t, err)
		require.Len(t, edges, 1)
		assert.Equal(t, ab.ID, edges[0].ID)

		edges, err = r.ListEdgesWithin(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, edges)
	})

	t.Run("deleting a stakeholder cascades", func(t *testing.T) {
		require.NoError(t, r.DeleteStakeholder(ctx, c.ID))
		_, err := r.GetRelationship(ctx, bc.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestContactLogs(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	s := mustStakeholder(t, r, "Dana", models.EntityAttorney)

	older := &models.ContactLog{StakeholderID: s.ID, Date: models.NewTimestamp(testNow.Add(-48 * time.Hour)),
		Method: models.MethodCall, Summary: "Intro call"}
	newer := &models.ContactLog{StakeholderID: s.ID, Date: models.NewTimestamp(testNow),
		Method: models.MethodEmail, Summary: "Sent docs", FollowUpNeeded: true,
		FollowUpDate: datePtr(2026, time.March, 20)}
	require.NoError(t, r.CreateContactLog(ctx, older))
	require.NoError(t, r.CreateContactLog(ctx, newer))

	logs, err := r.ListContactLogs(ctx, s.ID, 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, newer.ID, logs[0].ID)
	assert.Equal(t, "Dana", logs[0].Stakeholder.Name)

	due, err := r.ListContactFollowUps(ctx, datePtr(2026, time.March, 1), datePtr(2026, time.March, 31))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "2026-03-20", due[0].FollowUpDate.String())
}

func TestCashFlowEntries(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	add := func(desc, amount string, typ models.EntryType, date models.Date, projected bool) *models.CashFlowEntry {
		e := &models.CashFlowEntry{Description: desc, Amount: decimal.RequireFromString(amount), EntryType: typ,
			Category: "General", Date: date, IsProjected: projected}
		require.NoError(t, r.CreateCashFlowEntry(ctx, e))
		return e
	}
	rent := add("Rent", "2500.50", models.Outflow, models.NewDate(2026, time.March, 1), false)
	add("Dividend", "1000", models.Inflow, models.NewDate(2026, time.March, 10), false)
	add("Tax bill", "7000", models.Outflow, models.NewDate(2026, time.April, 1), true)

	got, err := r.GetCashFlowEntry(ctx, rent.ID)
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("2500.50")), got.Amount.String())
	assert.Equal(t, "2026-03-01", got.Date.String())

	all, err := r.ListCashFlowEntries(ctx, models.CashFlowFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Tax bill", all[0].Description)

	actual := false
	march, err := r.ListCashFlowEntries(ctx, models.CashFlowFilter{
		From:      datePtr(2026, time.March, 1),
		To:        datePtr(2026, time.March, 31),
		Projected: &actual,
	})
	require.NoError(t, err)
	assert.Len(t, march, 2)

	outflows, err := r.ListCashFlowEntries(ctx, models.CashFlowFilter{
		EntryTypes: []models.EntryType{models.Outflow}, Sort: "amount", Desc: true,
	})
	require.NoError(t, err)
	require.Len(t, outflows, 2)
	assert.Equal(t, "Tax bill", outflows[0].Description)

	byText, err := r.ListCashFlowEntries(ctx, models.CashFlowFilter{Query: "divi"})
	require.NoError(t, err)
	require.Len(t, byText, 1)

	t.Run("negative amount rejected", func(t *testing.T) {
		e := &models.CashFlowEntry{Description: "bad", Amount: decimal.NewFromInt(-1), EntryType: models.Inflow,
			Date: models.NewDate(2026, time.March, 1)}
		assert.Error(t, r.CreateCashFlowEntry(ctx, e))
	})

	n, err := r.DeleteCashFlowEntries(ctx, []int64{rent.ID, 999})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	_, err = r.GetCashFlowEntry(ctx, rent.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListActiveLoans(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	lender := mustStakeholder(t, r, "First Bank", models.EntityLender)

	add := func(name string, status models.LoanStatus, next *models.Date) {
		l := &models.Loan{Name: name, LenderID: &lender.ID, Status: status, NextPaymentDate: next,
			MonthlyPayment: decimal.NewNullDecimal(decimal.NewFromInt(1200))}
		require.NoError(t, r.CreateLoan(ctx, l))
	}
	add("Soon", models.LoanActive, datePtr(2026, time.March, 20))
	add("Later", models.LoanActive, datePtr(2026, time.June, 1))
	add("Paid", models.LoanPaidOff, datePtr(2026, time.March, 18))
	add("Undated", models.LoanActive, nil)

	loans, err := r.ListActiveLoans(ctx, datePtr(2026, time.April, 14))
	require.NoError(t, err)
	require.Len(t, loans, 1)
	assert.Equal(t, "Soon", loans[0].Name)
	assert.True(t, loans[0].MonthlyPayment.Valid)
	assert.False(t, loans[0].CurrentBalance.Valid)

	loans, err = r.ListActiveLoans(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, loans, 3)

	byLender, err := r.ListLoansByLender(ctx, lender.ID)
	require.NoError(t, err)
	assert.Len(t, byLender, 4)

	require.NoError(t, r.DeleteStakeholder(ctx, lender.ID))
	loans, err = r.ListLoans(ctx, LoanFilter{Query: "soon"})
	require.NoError(t, err)
	require.Len(t, loans, 1)
	assert.Nil(t, loans[0].LenderID)
}

func TestTasks(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	s := mustStakeholder(t, r, "Eve", models.EntityAdvisor)
	today := models.DateOf(testNow)

	add := func(title string, due *models.Date, status models.TaskStatus) *models.Task {
		task := &models.Task{Title: title, DueDate: due, Status: status, Priority: models.PriorityMedium,
			TaskType: models.TaskOneTime, RelatedStakeholderID: &s.ID}
		require.NoError(t, r.CreateTask(ctx, task))
		return task
	}
	late := add("Late", datePtr(2026, time.March, 10), models.TaskNotStarted)
	add("Done late", datePtr(2026, time.March, 9), models.TaskComplete)
	soon := add("Soon", datePtr(2026, time.March, 20), models.TaskInProgress)
	undated := add("Someday", nil, models.TaskWaiting)

	overdue, err := r.ListOverdueTasks(ctx, today)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, late.ID, overdue[0].ID)
	require.NotNil(t, overdue[0].Stakeholder)
	assert.Equal(t, "Eve", overdue[0].Stakeholder.Name)

	upcoming, err := r.ListTasksDueBetween(ctx, &today, datePtr(2026, time.March, 29))
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, soon.ID, upcoming[0].ID)

	all, err := r.ListTasks(ctx, models.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, undated.ID, all[3].ID, "undated tasks sort last")

	open, err := r.ListTasks(ctx, models.TaskFilter{
		Statuses: []models.TaskStatus{models.TaskNotStarted, models.TaskInProgress},
	})
	require.NoError(t, err)
	assert.Len(t, open, 2)

	n, err := r.CompleteTasks(ctx, []int64{late.ID, soon.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	got, err := r.GetTask(ctx, late.ID)
	require.NoError(t, err)
	assert.True(t, got.IsComplete())
	require.NotNil(t, got.CompletedAt)
	assert.Equal(t, testNow, got.CompletedAt.Time)

	n, err = r.DeleteTasks(ctx, []int64{late.ID, soon.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestTaskReminders(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	remind := func(title string, at time.Time, status models.TaskStatus) {
		ts := models.NewTimestamp(at)
		task := &models.Task{Title: title, ReminderDate: &ts, Status: status, Priority: models.PriorityHigh,
			TaskType: models.TaskOneTime}
		require.NoError(t, r.CreateTask(ctx, task))
	}
	remind("In window", testNow.Add(3*time.Hour), models.TaskNotStarted)
	remind("Complete", testNow.Add(2*time.Hour), models.TaskComplete)
	remind("Too late", testNow.Add(30*time.Hour), models.TaskNotStarted)
	remind("Past", testNow.Add(-time.Hour), models.TaskNotStarted)

	tasks, err := r.ListTasksWithReminderBetween(ctx, models.NewTimestamp(testNow),
		models.NewTimestamp(testNow.Add(24*time.Hour)))
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "In window", tasks[0].Title)
	assert.Nil(t, tasks[0].Stakeholder)
}

func TestStaleFollowUps(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	s := mustStakeholder(t, r, "Frank", models.EntityProfessional)
	task := &models.Task{Title: "Collect K-1", Status: models.TaskWaiting, Priority: models.PriorityLow,
		TaskType: models.TaskOneTime}
	require.NoError(t, r.CreateTask(ctx, task))

	add := func(age time.Duration, responded bool) *models.FollowUp {
		f := &models.FollowUp{TaskID: task.ID, StakeholderID: s.ID, Method: models.MethodEmail,
			OutreachDate: models.NewTimestamp(testNow.Add(-age)), ResponseReceived: responded}
		require.NoError(t, r.CreateFollowUp(ctx, f))
		return f
	}
	stale := add(5*24*time.Hour, false)
	add(5*24*time.Hour, true)
	add(24*time.Hour, false)

	cutoff := models.NewTimestamp(testNow.Add(-3 * 24 * time.Hour))
	found, err := r.ListStaleFollowUps(ctx, cutoff)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, stale.ID, found[0].ID)
	assert.Equal(t, "Collect K-1", found[0].TaskTitle)
	assert.Equal(t, "Frank", found[0].Stakeholder.Name)

	require.NoError(t, r.MarkFollowUpResponded(ctx, stale.ID, models.NewTimestamp(testNow)))
	found, err = r.ListStaleFollowUps(ctx, cutoff)
	require.NoError(t, err)
	assert.Empty(t, found)

	require.NoError(t, r.DeleteTask(ctx, task.ID))
	recent, err := r.ListRecentFollowUps(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestLegalMattersAndNotes(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	m := &models.LegalMatter{Title: "Reed v. Holdings", CaseNumber: "CV-2026-001", MatterType: models.MatterLitigation,
		Status: models.MatterActive, FilingDate: datePtr(2026, time.April, 2),
		SettlementAmount: decimal.NewNullDecimal(decimal.NewFromInt(250000))}
	require.NoError(t, r.CreateLegalMatter(ctx, m))
	closed := &models.LegalMatter{Title: "Old dispute", MatterType: models.MatterOther, Status: models.MatterResolved,
		FilingDate: datePtr(2026, time.April, 3)}
	require.NoError(t, r.CreateLegalMatter(ctx, closed))

	filings, err := r.ListFilings(ctx, datePtr(2026, time.April, 1), datePtr(2026, time.April, 30))
	require.NoError(t, err)
	require.Len(t, filings, 1)
	assert.Equal(t, m.ID, filings[0].ID)
	assert.True(t, filings[0].SettlementAmount.Decimal.Equal(decimal.NewFromInt(250000)))

	byCase, err := r.ListLegalMatters(ctx, LegalMatterFilter{Query: "cv-2026"})
	require.NoError(t, err)
	require.Len(t, byCase, 1)

	active, err := r.ListLegalMatters(ctx, LegalMatterFilter{
		Statuses: []models.MatterStatus{models.MatterActive, models.MatterPending},
	})
	require.NoError(t, err)
	assert.Len(t, active, 1)

	n := &models.Note{Title: "Call recap", Content: "Discussed the settlement range", NoteType: models.NoteCall,
		Date: models.NewTimestamp(testNow)}
	require.NoError(t, r.CreateNote(ctx, n))
	notes, err := r.ListNotes(ctx, NoteFilter{Query: "SETTLEMENT"})
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, n.ID, notes[0].ID)

	n.Title = "Call recap (edited)"
	require.NoError(t, r.UpdateNote(ctx, n))
	got, err := r.GetNote(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "Call recap (edited)", got.Title)
}

func TestLegalMatterLinks(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	counsel := mustStakeholder(t, r, "Dana Counsel", models.EntityAttorney)
	partner := mustStakeholder(t, r, "Marcus Reed", models.EntityBusinessPartner)
	lake := &models.RealEstate{Name: "Lake House", Address: "1 Shore Rd", Status: models.PropertyOwned}
	require.NoError(t, r.CreateRealEstate(ctx, lake))

	m := &models.LegalMatter{Title: "Reed v. Holdings", MatterType: models.MatterLitigation, Status: models.MatterActive,
		AttorneyIDs: []int64{counsel.ID}, StakeholderIDs: []int64{partner.ID, partner.ID}, PropertyIDs: []int64{lake.ID}}
	require.NoError(t, r.CreateLegalMatter(ctx, m))
	other := &models.LegalMatter{Title: "Zoning review", MatterType: models.MatterCompliance, Status: models.MatterActive}
	require.NoError(t, r.CreateLegalMatter(ctx, other))

	got, err := r.GetLegalMatter(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{counsel.ID}, got.AttorneyIDs)
	assert.Equal(t, []int64{partner.ID}, got.StakeholderIDs)
	assert.Equal(t, []int64{lake.ID}, got.PropertyIDs)

	// attorneys and related parties both count as involvement
	for _, id := range []int64{counsel.ID, partner.ID} {
		matters, err := r.ListLegalMatters(ctx, LegalMatterFilter{StakeholderID: id})
		require.NoError(t, err)
		require.Len(t, matters, 1)
		assert.Equal(t, m.ID, matters[0].ID)
	}
	byProperty, err := r.ListLegalMatters(ctx, LegalMatterFilter{PropertyID: lake.ID})
	require.NoError(t, err)
	require.Len(t, byProperty, 1)

	all, err := r.ListLegalMatters(ctx, LegalMatterFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, matter := range all {
		if matter.ID == other.ID {
			assert.NotNil(t, matter.AttorneyIDs)
			assert.Empty(t, matter.AttorneyIDs)
		}
	}

	got.AttorneyIDs = []int64{partner.ID}
	got.StakeholderIDs = nil
	require.NoError(t, r.UpdateLegalMatter(ctx, got))
	got, err = r.GetLegalMatter(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{partner.ID}, got.AttorneyIDs)
	assert.Empty(t, got.StakeholderIDs)

	bad := &models.LegalMatter{Title: "Ghost", MatterType: models.MatterOther, Status: models.MatterActive,
		AttorneyIDs: []int64{9999}}
	assert.ErrorIs(t, r.CreateLegalMatter(ctx, bad), ErrInvalidReference)
	assert.Zero(t, bad.ID)
	all, err = r.ListLegalMatters(ctx, LegalMatterFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// deleting a linked record drops the link, not the matter
	require.NoError(t, r.DeleteStakeholder(ctx, partner.ID))
	require.NoError(t, r.DeleteRealEstate(ctx, lake.ID))
	got, err = r.GetLegalMatter(ctx, m.ID)
	require.NoError(t, err)
	assert.Empty(t, got.AttorneyIDs)
	assert.Empty(t, got.PropertyIDs)
}

func TestNoteLinks(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	alice := mustStakeholder(t, r, "Alice Banks", models.EntityLender)
	bob := mustStakeholder(t, r, "Bob Stone", models.EntityAdvisor)
	matter := &models.LegalMatter{Title: "Reed v. Holdings", MatterType: models.MatterLitigation, Status: models.MatterActive}
	require.NoError(t, r.CreateLegalMatter(ctx, matter))
	task := &models.Task{Title: "Call lender", Status: models.TaskNotStarted, Priority: models.PriorityHigh,
		TaskType: models.TaskOneTime}
	require.NoError(t, r.CreateTask(ctx, task))
	lake := &models.RealEstate{Name: "Lake House", Address: "1 Shore Rd", Status: models.PropertyOwned}
	require.NoError(t, r.CreateRealEstate(ctx, lake))

	n := &models.Note{Title: "Refinance call", Content: "Rates discussed", NoteType: models.NoteCall,
		Date: models.NewTimestamp(testNow), ParticipantIDs: []int64{alice.ID}, StakeholderIDs: []int64{bob.ID},
		LegalMatterIDs: []int64{matter.ID}, TaskIDs: []int64{task.ID}, PropertyIDs: []int64{lake.ID}}
	require.NoError(t, r.CreateNote(ctx, n))
	unlinked := &models.Note{Title: "Loose thought", Content: "Nothing linked", NoteType: models.NoteGeneral,
		Date: models.NewTimestamp(testNow.Add(-time.Hour))}
	require.NoError(t, r.CreateNote(ctx, unlinked))

	got, err := r.GetNote(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{alice.ID}, got.ParticipantIDs)
	assert.Equal(t, []int64{bob.ID}, got.StakeholderIDs)
	assert.Equal(t, []int64{matter.ID}, got.LegalMatterIDs)
	assert.Equal(t, []int64{task.ID}, got.TaskIDs)
	assert.Equal(t, []int64{lake.ID}, got.PropertyIDs)

	filters := []NoteFilter{
		{StakeholderID: alice.ID},
		{StakeholderID: bob.ID},
		{LegalMatterID: matter.ID},
		{TaskID: task.ID},
		{PropertyID: lake.ID},
	}
	for _, f := range filters {
		notes, err := r.ListNotes(ctx, f)
		require.NoError(t, err)
		require.Len(t, notes, 1, "%+v", f)
		assert.Equal(t, n.ID, notes[0].ID)
	}

	got.TaskIDs = nil
	got.ParticipantIDs = []int64{alice.ID, bob.ID}
	require.NoError(t, r.UpdateNote(ctx, got))
	got, err = r.GetNote(ctx, n.ID)
	require.NoError(t, err)
	assert.Empty(t, got.TaskIDs)
	assert.Equal(t, []int64{alice.ID, bob.ID}, got.ParticipantIDs)

	got.LegalMatterIDs = []int64{9999}
	assert.ErrorIs(t, r.UpdateNote(ctx, got), ErrInvalidReference)
	got, err = r.GetNote(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{matter.ID}, got.LegalMatterIDs, "failed update is rolled back")

	require.NoError(t, r.DeleteLegalMatter(ctx, matter.ID))
	got, err = r.GetNote(ctx, n.ID)
	require.NoError(t, err)
	assert.Empty(t, got.LegalMatterIDs)

	require.NoError(t, r.DeleteNote(ctx, n.ID))
	notes, err := r.ListNotes(ctx, NoteFilter{StakeholderID: alice.ID})
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestRealEstate(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	owner := mustStakeholder(t, r, "Reed Holdings LLC", models.EntityBusinessPartner)
	lake := &models.RealEstate{Name: "Lake House", Address: "1 Shore Rd", PropertyType: "residential",
		EstimatedValue: decimal.NewNullDecimal(decimal.NewFromInt(850000)), AcquisitionDate: datePtr(2019, time.June, 1),
		Status: models.PropertyOwned, StakeholderID: &owner.ID}
	require.NoError(t, r.CreateRealEstate(ctx, lake))
	assert.NotZero(t, lake.ID)
	lot := &models.RealEstate{Name: "Main St Lot", Address: "200 Main St", Status: models.PropertyInDispute,
		AcquisitionDate: datePtr(2024, time.January, 10)}
	require.NoError(t, r.CreateRealEstate(ctx, lot))

	got, err := r.GetRealEstate(ctx, lake.ID)
	require.NoError(t, err)
	assert.True(t, got.EstimatedValue.Decimal.Equal(decimal.NewFromInt(850000)))
	assert.Equal(t, "2019-06-01", got.AcquisitionDate.String())

	list, err := r.ListRealEstate(ctx, RealEstateFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Lake House", list[0].Name)

	byAddress, err := r.ListRealEstate(ctx, RealEstateFilter{Query: "main st"})
	require.NoError(t, err)
	require.Len(t, byAddress, 1)
	assert.Equal(t, lot.ID, byAddress[0].ID)

	disputed, err := r.ListRealEstate(ctx, RealEstateFilter{Statuses: []models.PropertyStatus{models.PropertyInDispute}})
	require.NoError(t, err)
	require.Len(t, disputed, 1)

	recent, err := r.ListRealEstate(ctx, RealEstateFilter{From: datePtr(2020, time.January, 1)})
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, lot.ID, recent[0].ID)

	sorted, err := r.ListRealEstate(ctx, RealEstateFilter{Sort: "acquisition_date", Desc: true})
	require.NoError(t, err)
	assert.Equal(t, lot.ID, sorted[0].ID)

	owned, err := r.ListRealEstate(ctx, RealEstateFilter{StakeholderID: owner.ID})
	require.NoError(t, err)
	require.Len(t, owned, 1)

	task := &models.Task{Title: "Renew insurance", Status: models.TaskNotStarted, Priority: models.PriorityMedium,
		TaskType: models.TaskOneTime, RelatedPropertyID: &lake.ID}
	require.NoError(t, r.CreateTask(ctx, task))
	open, err := r.ListOpenTasksForProperty(ctx, lake.ID, 10)
	require.NoError(t, err)
	require.Len(t, open, 1)
	entry := &models.CashFlowEntry{Description: "Property tax", Amount: decimal.NewFromInt(4200),
		EntryType: models.Outflow, Date: models.NewDate(2026, time.March, 1), RelatedPropertyID: &lake.ID}
	require.NoError(t, r.CreateCashFlowEntry(ctx, entry))
	entries, err := r.ListCashFlowEntries(ctx, models.CashFlowFilter{PropertyID: lake.ID})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	// the owner going away clears the reference
	require.NoError(t, r.DeleteStakeholder(ctx, owner.ID))
	got, err = r.GetRealEstate(ctx, lake.ID)
	require.NoError(t, err)
	assert.Nil(t, got.StakeholderID)

	got.Status = models.PropertySold
	require.NoError(t, r.UpdateRealEstate(ctx, got))

	require.NoError(t, r.DeleteRealEstate(ctx, lake.ID))
	reloaded, err := r.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.RelatedPropertyID)
	reloadedEntry, err := r.GetCashFlowEntry(ctx, entry.ID)
	require.NoError(t, err)
	assert.Nil(t, reloadedEntry.RelatedPropertyID)

	n, err := r.DeleteRealEstates(ctx, []int64{lot.ID, 9999})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	_, err = r.GetRealEstate(ctx, lot.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInvestments(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	advisor := mustStakeholder(t, r, "Bob Stone", models.EntityAdvisor)
	fund := &models.Investment{Name: "Index Fund", InvestmentType: "brokerage", Institution: "Vanguard",
		CurrentValue: decimal.NewNullDecimal(decimal.NewFromInt(120000)), StakeholderID: &advisor.ID}
	require.NoError(t, r.CreateInvestment(ctx, fund))
	bonds := &models.Investment{Name: "Bond Ladder", InvestmentType: "fixed_income",
		CurrentValue: decimal.NewNullDecimal(decimal.NewFromInt(300000))}
	require.NoError(t, r.CreateInvestment(ctx, bonds))

	list, err := r.ListInvestments(ctx, InvestmentFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Bond Ladder", list[0].Name)

	byValue, err := r.ListInvestments(ctx, InvestmentFilter{Sort: "current_value", Desc: true})
	require.NoError(t, err)
	assert.Equal(t, bonds.ID, byValue[0].ID)

	found, err := r.ListInvestments(ctx, InvestmentFilter{Query: "INDEX"})
	require.NoError(t, err)
	require.Len(t, found, 1)

	advised, err := r.ListInvestments(ctx, InvestmentFilter{StakeholderID: advisor.ID})
	require.NoError(t, err)
	require.Len(t, advised, 1)
	assert.Equal(t, fund.ID, advised[0].ID)

	fund.Institution = "Fidelity"
	require.NoError(t, r.UpdateInvestment(ctx, fund))
	got, err := r.GetInvestment(ctx, fund.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fidelity", got.Institution)

	require.NoError(t, r.DeleteInvestment(ctx, fund.ID))
	assert.ErrorIs(t, r.DeleteInvestment(ctx, fund.ID), ErrNotFound)
	n, err := r.DeleteInvestments(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestEmailSettings(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	s, err := r.LoadEmailSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultEmailSettings(), s)

	s.SMTPHost = "smtp.example.com"
	s.NotificationsEnabled = true
	require.NoError(t, r.SaveEmailSettings(ctx, s))

	s.SMTPPort = 465
	s.UseSSL = true
	require.NoError(t, r.SaveEmailSettings(ctx, s))

	loaded, err := r.LoadEmailSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)
	assert.True(t, loaded.CanNotify())
}

func TestNotificationLogs(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	require.NoError(t, r.CreateNotificationLog(ctx, &models.NotificationLog{Job: "overdue_tasks",
		Status: models.NotificationSkipped}))
	sent := &models.NotificationLog{Job: "stale_followups", Subject: "[Control Center] 1 Stale Follow-up(s)",
		Recipient: "admin@blaine.local", ItemCount: 1, Status: models.NotificationSent}
	require.NoError(t, r.CreateNotificationLog(ctx, sent))

	logs, err := r.ListNotificationLogs(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, sent.ID, logs[0].ID)

	logs, err = r.ListNotificationLogs(ctx, "overdue_tasks", 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.NotificationSkipped, logs[0].Status)
}
