package condition

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Service struct {
	repo     Repository
	validate *validator.Validate
	logger   zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	v := validator.New()
	v.RegisterStructValidation(validateCondition, Condition{})
	return &Service{
		repo:     repo,
		validate: v,
		logger:   logger.With().Str("component", "condition").Logger(),
	}
}

// validateCondition covers the rules that span fields: exactly one of coded
// or free text, and an end date no earlier than the onset.
func validateCondition(sl validator.StructLevel) {
	c := sl.Current().Interface().(Condition)
	if c.Condition.IsEmpty() {
		sl.ReportError(c.Condition, "Condition", "Condition", "required", "")
	}
	if c.Condition.Coded != nil && c.Condition.NonCoded != "" {
		sl.ReportError(c.Condition, "Condition", "Condition", "coded_xor_noncoded", "")
	}
	if c.OnsetDate != nil && c.EndDate != nil && c.EndDate.Before(*c.OnsetDate) {
		sl.ReportError(c.EndDate, "EndDate", "EndDate", "gtefield", "OnsetDate")
	}
}

// SaveCondition inserts a new condition or updates an existing one.
func (s *Service) SaveCondition(ctx context.Context, c *Condition) error {
	if c.ClinicalStatus == "" {
		c.ClinicalStatus = StatusActive
	}
	if err := s.validate.Struct(c); err != nil {
		return fmt.Errorf("invalid condition: %w", err)
	}
	if c.ID == uuid.Nil {
		if err := s.repo.Create(ctx, c); err != nil {
			return err
		}
		s.logger.Debug().Str("condition_id", c.ID.String()).Str("form_path", c.FormNamespaceAndPath).Msg("condition created")
		return nil
	}
	return s.repo.Update(ctx, c)
}

func (s *Service) GetCondition(ctx context.Context, id uuid.UUID) (*Condition, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Condition, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) ListByEncounter(ctx context.Context, encounterID uuid.UUID) ([]*Condition, error) {
	return s.repo.ListByEncounter(ctx, encounterID)
}
