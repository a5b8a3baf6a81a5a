package service

import (
	"context"
	"strings"

	"github.com/Dan9191/control-center/internal/models"
	"github.com/Dan9191/control-center/internal/repository"
)

// RealEstateDetail is a property with the records that reference it
type RealEstateDetail struct {
	Property        *models.RealEstate     `json:"property"`
	LegalMatters    []models.LegalMatter   `json:"legal_matters"`
	OpenTasks       []models.Task          `json:"open_tasks"`
	Notes           []models.Note          `json:"notes"`
	CashFlowEntries []models.CashFlowEntry `json:"cashflow_entries"`
}

func validateRealEstate(p *models.RealEstate) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Address = strings.TrimSpace(p.Address)
	if p.Name == "" {
		return invalid("name", "is required")
	}
	if p.Address == "" {
		return invalid("address", "is required")
	}
	if p.Status == "" {
		p.Status = models.PropertyOwned
	}
	if !p.Status.Valid() {
		return invalid("status", "unknown status %q", p.Status)
	}
	return nonNegative("estimated_value", p.EstimatedValue)
}

// CreateRealEstate validates and stores a property
func (s *Service) CreateRealEstate(ctx context.Context, p *models.RealEstate) error {
	if err := validateRealEstate(p); err != nil {
		return err
	}
	if err := s.repo.CreateRealEstate(ctx, p); err != nil {
		return err
	}
	s.log.Infof("Property created: %d %s", p.ID, p.Name)
	return nil
}

// UpdateRealEstate validates and saves a property
func (s *Service) UpdateRealEstate(ctx context.Context, p *models.RealEstate) error {
	if err := validateRealEstate(p); err != nil {
		return err
	}
	return s.repo.UpdateRealEstate(ctx, p)
}

func (s *Service) GetRealEstate(ctx context.Context, id int64) (*models.RealEstate, error) {
	return s.repo.GetRealEstate(ctx, id)
}

func (s *Service) ListRealEstate(ctx context.Context, f repository.RealEstateFilter) ([]models.RealEstate, error) {
	return s.repo.ListRealEstate(ctx, f)
}

func (s *Service) DeleteRealEstate(ctx context.Context, id int64) error {
	if err := s.repo.DeleteRealEstate(ctx, id); err != nil {
		return err
	}
	s.log.Infof("Property deleted: %d", id)
	return nil
}

// BulkDeleteRealEstate removes the selected properties
func (s *Service) BulkDeleteRealEstate(ctx context.Context, ids []int64) (int64, error) {
	n, err := s.repo.DeleteRealEstates(ctx, ids)
	if err != nil {
		return 0, err
	}
	s.log.Infof("%d properties deleted", n)
	return n, nil
}

// RealEstateDetail loads a property with its legal matters, open tasks,
// notes and recent cash flow
func (s *Service) RealEstateDetail(ctx context.Context, id int64) (*RealEstateDetail, error) {
	p, err := s.repo.GetRealEstate(ctx, id)
	if err != nil {
		return nil, err
	}
	d := &RealEstateDetail{Property: p}
	if d.LegalMatters, err = s.repo.ListLegalMatters(ctx, repository.LegalMatterFilter{PropertyID: id}); err != nil {
		return nil, err
	}
	if d.OpenTasks, err = s.repo.ListOpenTasksForProperty(ctx, id, 20); err != nil {
		return nil, err
	}
	if d.Notes, err = s.repo.ListNotes(ctx, repository.NoteFilter{PropertyID: id, Limit: 20}); err != nil {
		return nil, err
	}
	d.CashFlowEntries, err = s.repo.ListCashFlowEntries(ctx, models.CashFlowFilter{PropertyID: id, Limit: 10})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func validateInvestment(inv *models.Investment) error {
	inv.Name = strings.TrimSpace(inv.Name)
	if inv.Name == "" {
		return invalid("name", "is required")
	}
	return nonNegative("current_value", inv.CurrentValue)
}

// CreateInvestment validates and stores an investment
func (s *Service) CreateInvestment(ctx context.Context, inv *models.Investment) error {
	if err := validateInvestment(inv); err != nil {
		return err
	}
	if err := s.repo.CreateInvestment(ctx, inv); err != nil {
		return err
	}
	s.log.Infof("Investment created: %d %s", inv.ID, inv.Name)
	return nil
}

// UpdateInvestment validates and saves an investment
func (s *Service) UpdateInvestment(ctx context.Context, inv *models.Investment) error {
	if err := validateInvestment(inv); err != nil {
		return err
	}
	return s.repo.UpdateInvestment(ctx, inv)
}

func (s *Service) GetInvestment(ctx context.Context, id int64) (*models.Investment, error) {
	return s.repo.GetInvestment(ctx, id)
}

func (s *Service) ListInvestments(ctx context.Context, f repository.InvestmentFilter) ([]models.Investment, error) {
	return s.repo.ListInvestments(ctx, f)
}

func (s *Service) DeleteInvestment(ctx context.Context, id int64) error {
	return s.repo.DeleteInvestment(ctx, id)
}

// BulkDeleteInvestments removes the selected investments
func (s *Service) BulkDeleteInvestments(ctx context.Context, ids []int64) (int64, error) {
	n, err := s.repo.DeleteInvestments(ctx, ids)
	if err != nil {
		return 0, err
	}
	s.log.Infof("%d investments deleted", n)
	return n, nil
}
