package service

import (
	"context"
	"strings"

	"github.com/Dan9191/control-center/internal/models"
	"github.com/Dan9191/control-center/internal/repository"
)

func validateLegalMatter(m *models.LegalMatter) error {
	m.Title = strings.TrimSpace(m.Title)
	if m.Title == "" {
		return invalid("title", "is required")
	}
	if m.MatterType == "" {
		m.MatterType = models.MatterOther
	}
	if m.Status == "" {
		m.Status = models.MatterActive
	}
	if !m.MatterType.Valid() {
		return invalid("matter_type", "unknown type %q", m.MatterType)
	}
	if !m.Status.Valid() {
		return invalid("status", "unknown status %q", m.Status)
	}
	if err := nonNegative("settlement_amount", m.SettlementAmount); err != nil {
		return err
	}
	return nonNegative("judgment_amount", m.JudgmentAmount)
}

// CreateLegalMatter validates and stores a legal matter
func (s *Service) CreateLegalMatter(ctx context.Context, m *models.LegalMatter) error {
	if err := validateLegalMatter(m); err != nil {
		return err
	}
	if err := s.repo.CreateLegalMatter(ctx, m); err != nil {
		return err
	}
	s.log.Infof("Legal matter created: %d %s", m.ID, m.Title)
	return s.reloadLegalMatter(ctx, m)
}

// UpdateLegalMatter validates and saves a legal matter with its links
func (s *Service) UpdateLegalMatter(ctx context.Context, m *models.LegalMatter) error {
	if err := validateLegalMatter(m); err != nil {
		return err
	}
	if err := s.repo.UpdateLegalMatter(ctx, m); err != nil {
		return err
	}
	return s.reloadLegalMatter(ctx, m)
}

// reloadLegalMatter replaces m with the stored row so link ids come back sorted and de-duplicated
func (s *Service) reloadLegalMatter(ctx context.Context, m *models.LegalMatter) error {
	stored, err := s.repo.GetLegalMatter(ctx, m.ID)
	if err != nil {
		return err
	}
	*m = *stored
	return nil
}

func (s *Service) GetLegalMatter(ctx context.Context, id int64) (*models.LegalMatter, error) {
	return s.repo.GetLegalMatter(ctx, id)
}

func (s *Service) ListLegalMatters(ctx context.Context, f repository.LegalMatterFilter) ([]models.LegalMatter, error) {
	return s.repo.ListLegalMatters(ctx, f)
}

func (s *Service) DeleteLegalMatter(ctx context.Context, id int64) error {
	return s.repo.DeleteLegalMatter(ctx, id)
}

func (s *Service) validateNote(n *models.Note) error {
	n.Title = strings.TrimSpace(n.Title)
	if n.Title == "" {
		return invalid("title", "is required")
	}
	if strings.TrimSpace(n.Content) == "" {
		return invalid("content", "is required")
	}
	if n.NoteType == "" {
		n.NoteType = models.NoteGeneral
	}
	if !n.NoteType.Valid() {
		return invalid("note_type", "unknown type %q", n.NoteType)
	}
	if n.Date.IsZero() {
		n.Date = s.timestamp()
	}
	return nil
}

// CreateNote validates and stores a note; the date defaults to now
func (s *Service) CreateNote(ctx context.Context, n *models.Note) error {
	if err := s.validateNote(n); err != nil {
		return err
	}
	if err := s.repo.CreateNote(ctx, n); err != nil {
		return err
	}
	return s.reloadNote(ctx, n)
}

// UpdateNote validates and saves a note
func (s *Service) UpdateNote(ctx context.Context, n *models.Note) error {
	if err := s.validateNote(n); err != nil {
		return err
	}
	if err := s.repo.UpdateNote(ctx, n); err != nil {
		return err
	}
	return s.reloadNote(ctx, n)
}

func (s *Service) reloadNote(ctx context.Context, n *models.Note) error {
	stored, err := s.repo.GetNote(ctx, n.ID)
	if err != nil {
		return err
	}
	*n = *stored
	return nil
}

func (s *Service) GetNote(ctx context.Context, id int64) (*models.Note, error) {
	return s.repo.GetNote(ctx, id)
}

func (s *Service) ListNotes(ctx context.Context, f repository.NoteFilter) ([]models.Note, error) {
	return s.repo.ListNotes(ctx, f)
}

func (s *Service) DeleteNote(ctx context.Context, id int64) error {
	return s.repo.DeleteNote(ctx, id)
}
