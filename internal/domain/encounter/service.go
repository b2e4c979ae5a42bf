package encounter

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ehr/formentry/internal/domain/condition"
)

// ConditionStore is the part of the condition service encounters depend on.
type ConditionStore interface {
	SaveCondition(ctx context.Context, c *condition.Condition) error
	ListByEncounter(ctx context.Context, encounterID uuid.UUID) ([]*condition.Condition, error)
}

// TxRunner runs fn in a single database transaction.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

type Service struct {
	repo       Repository
	conditions ConditionStore
	withTx     TxRunner
	logger     zerolog.Logger
}

func NewService(repo Repository, conditions ConditionStore, withTx TxRunner, logger zerolog.Logger) *Service {
	if withTx == nil {
		withTx = func(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }
	}
	return &Service{
		repo:       repo,
		conditions: conditions,
		withTx:     withTx,
		logger:     logger.With().Str("component", "encounter").Logger(),
	}
}

// SaveEncounter persists enc and every attached condition atomically.
func (s *Service) SaveEncounter(ctx context.Context, enc *Encounter) error {
	if enc.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if enc.EncounterDatetime.IsZero() {
		enc.EncounterDatetime = time.Now().UTC()
	}

	err := s.withTx(ctx, func(ctx context.Context) error {
		if enc.ID == uuid.Nil {
			if err := s.repo.Create(ctx, enc); err != nil {
				return err
			}
		} else if err := s.repo.Update(ctx, enc); err != nil {
			return err
		}

		for _, c := range enc.Conditions() {
			c.EncounterID = &enc.ID
			if c.PatientID == uuid.Nil {
				c.PatientID = enc.PatientID
			}
			if err := s.conditions.SaveCondition(ctx, c); err != nil {
				return fmt.Errorf("save condition %q: %w", c.FormNamespaceAndPath, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info().
		Str("encounter_id", enc.ID.String()).
		Int("conditions", len(enc.ActiveConditions())).
		Msg("encounter saved")
	return nil
}

// GetEncounter loads the encounter with its conditions, voided ones included.
func (s *Service) GetEncounter(ctx context.Context, id uuid.UUID) (*Encounter, error) {
	enc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	conds, err := s.conditions.ListByEncounter(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load encounter conditions: %w", err)
	}
	for _, c := range conds {
		enc.AddCondition(c)
	}
	return enc, nil
}
