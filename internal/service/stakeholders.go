package service

import (
	"context"
	"strings"

	"github.com/Dan9191/control-center/internal/graph"
	"github.com/Dan9191/control-center/internal/models"
	"github.com/Dan9191/control-center/internal/repository"
)

// StakeholderDetail is a stakeholder with everything linked to it
type StakeholderDetail struct {
	Stakeholder   *models.Stakeholder   `json:"stakeholder"`
	Relationships []models.Relationship `json:"relationships"`
	ContactLogs   []models.ContactLog   `json:"contact_logs"`
	OpenTasks     []models.Task         `json:"open_tasks"`
	Loans         []models.Loan         `json:"loans"`
	Notes         []models.Note         `json:"notes"`
	LegalMatters  []models.LegalMatter  `json:"legal_matters"`
	Properties    []models.RealEstate   `json:"properties"`
	Investments   []models.Investment   `json:"investments"`
}

func validateStakeholder(st *models.Stakeholder) error {
	st.Name = strings.TrimSpace(st.Name)
	if st.Name == "" {
		return invalid("name", "is required")
	}
	if st.EntityType == "" {
		st.EntityType = models.EntityContact
	}
	if !st.EntityType.Valid() {
		return invalid("entity_type", "unknown type %q", st.EntityType)
	}
	for field, rating := range map[string]*int{"trust_rating": st.TrustRating, "risk_rating": st.RiskRating} {
		if rating != nil && (*rating < 1 || *rating > 5) {
			return invalid(field, "must be between 1 and 5")
		}
	}
	return nil
}

// CreateStakeholder validates and stores a stakeholder
func (s *Service) CreateStakeholder(ctx context.Context, st *models.Stakeholder) error {
	if err := validateStakeholder(st); err != nil {
		return err
	}
	if err := s.repo.CreateStakeholder(ctx, st); err != nil {
		return err
	}
	s.log.Infof("Stakeholder created: %d %s", st.ID, st.Name)
	return nil
}

// UpdateStakeholder validates and saves a stakeholder
func (s *Service) UpdateStakeholder(ctx context.Context, st *models.Stakeholder) error {
	if err := validateStakeholder(st); err != nil {
		return err
	}
	return s.repo.UpdateStakeholder(ctx, st)
}

func (s *Service) GetStakeholder(ctx context.Context, id int64) (*models.Stakeholder, error) {
	return s.repo.GetStakeholder(ctx, id)
}

func (s *Service) ListStakeholders(ctx context.Context, f repository.StakeholderFilter) ([]models.Stakeholder, error) {
	return s.repo.ListStakeholders(ctx, f)
}

func (s *Service) DeleteStakeholder(ctx context.Context, id int64) error {
	if err := s.repo.DeleteStakeholder(ctx, id); err != nil {
		return err
	}
	s.log.Infof("Stakeholder deleted: %d", id)
	return nil
}

// StakeholderDetail loads a stakeholder with everything that references it:
// relationships, recent contacts, open tasks, loans, notes, legal matters and holdings
func (s *Service) StakeholderDetail(ctx context.Context, id int64) (*StakeholderDetail, error) {
	st, err := s.repo.GetStakeholder(ctx, id)
	if err != nil {
		return nil, err
	}
	d := &StakeholderDetail{Stakeholder: st}
	if d.Relationships, err = s.repo.ListEdgesTouching(ctx, []int64{id}); err != nil {
		return nil, err
	}
	if d.ContactLogs, err = s.repo.ListContactLogs(ctx, id, 20); err != nil {
		return nil, err
	}
	if d.OpenTasks, err = s.repo.ListOpenTasksForStakeholder(ctx, id, 20); err != nil {
		return nil, err
	}
	if d.Loans, err = s.repo.ListLoansByLender(ctx, id); err != nil {
		return nil, err
	}
	if d.Notes, err = s.repo.ListNotes(ctx, repository.NoteFilter{StakeholderID: id, Limit: 20}); err != nil {
		return nil, err
	}
	if d.LegalMatters, err = s.repo.ListLegalMatters(ctx, repository.LegalMatterFilter{StakeholderID: id, Limit: 20}); err != nil {
		return nil, err
	}
	if d.Properties, err = s.repo.ListRealEstate(ctx, repository.RealEstateFilter{StakeholderID: id}); err != nil {
		return nil, err
	}
	if d.Investments, err = s.repo.ListInvestments(ctx, repository.InvestmentFilter{StakeholderID: id}); err != nil {
		return nil, err
	}
	return d, nil
}

// CreateRelationship links two stakeholders. A stakeholder may be linked to itself.
func (s *Service) CreateRelationship(ctx context.Context, rel *models.Relationship) error {
	rel.RelationshipType = strings.TrimSpace(rel.RelationshipType)
	if rel.RelationshipType == "" {
		return invalid("relationship_type", "is required")
	}
	if rel.FromStakeholderID == 0 || rel.ToStakeholderID == 0 {
		return invalid("stakeholder", "both ends are required")
	}
	if err := s.repo.CreateRelationship(ctx, rel); err != nil {
		return err
	}
	created, err := s.repo.GetRelationship(ctx, rel.ID)
	if err != nil {
		return err
	}
	*rel = *created
	return nil
}

func (s *Service) DeleteRelationship(ctx context.Context, id int64) error {
	return s.repo.DeleteRelationship(ctx, id)
}

// RelationshipGraph returns the two-hop graph around a stakeholder
func (s *Service) RelationshipGraph(ctx context.Context, id int64) (graph.Graph, error) {
	return graph.Build(ctx, s.repo, id)
}

// CreateContactLog records an interaction; the date defaults to now
func (s *Service) CreateContactLog(ctx context.Context, c *models.ContactLog) error {
	c.Summary = strings.TrimSpace(c.Summary)
	if c.StakeholderID == 0 {
		return invalid("stakeholder_id", "is required")
	}
	if c.Summary == "" {
		return invalid("summary", "is required")
	}
	if !c.Method.Valid() {
		return invalid("method", "unknown method %q", c.Method)
	}
	if c.Date.IsZero() {
		c.Date = s.timestamp()
	}
	if !c.FollowUpNeeded {
		c.FollowUpDate = nil
	}
	if err := s.repo.CreateContactLog(ctx, c); err != nil {
		return err
	}
	created, err := s.repo.GetContactLog(ctx, c.ID)
	if err != nil {
		return err
	}
	*c = *created
	return nil
}

func (s *Service) ListContactLogs(ctx context.Context, stakeholderID int64, limit int) ([]models.ContactLog, error) {
	return s.repo.ListContactLogs(ctx, stakeholderID, limit)
}

func (s *Service) DeleteContactLog(ctx context.Context, id int64) error {
	return s.repo.DeleteContactLog(ctx, id)
}
