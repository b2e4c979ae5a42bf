package htmlform

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ehr/formentry/internal/domain/encounter"
	"github.com/ehr/formentry/internal/domain/form"
)

type FormStore interface {
	GetForm(ctx context.Context, id uuid.UUID) (*form.Form, error)
}

type EncounterStore interface {
	GetEncounter(ctx context.Context, id uuid.UUID) (*encounter.Encounter, error)
	SaveEncounter(ctx context.Context, enc *encounter.Encounter) error
}

// Processor drives a form through rendering and submission.
type Processor struct {
	forms      FormStore
	encounters EncounterStore
	generator  *Generator
	logger     zerolog.Logger
}

func NewProcessor(forms FormStore, encounters EncounterStore, generator *Generator, logger zerolog.Logger) *Processor {
	return &Processor{
		forms:      forms,
		encounters: encounters,
		generator:  generator,
		logger:     logger.With().Str("component", "htmlform").Logger(),
	}
}

// Target is what a request operates on: a form, and the encounter it was
// used for when editing or viewing.
type Target struct {
	Form      *form.Form
	Encounter *encounter.Encounter
	PatientID uuid.UUID
}

// LoadForm prepares a new entry of formID for a patient.
func (p *Processor) LoadForm(ctx context.Context, formID, patientID uuid.UUID) (*Target, error) {
	if patientID == uuid.Nil {
		return nil, fmt.Errorf("patient_id is required")
	}
	f, err := p.forms.GetForm(ctx, formID)
	if err != nil {
		return nil, err
	}
	return &Target{Form: f, PatientID: patientID}, nil
}

// LoadEncounter prepares an existing encounter together with the form that produced it.
func (p *Processor) LoadEncounter(ctx context.Context, encounterID uuid.UUID) (*Target, error) {
	enc, err := p.encounters.GetEncounter(ctx, encounterID)
	if err != nil {
		return nil, err
	}
	if enc.FormID == nil {
		return nil, fmt.Errorf("encounter %s was not entered through a form", enc.ID)
	}
	f, err := p.forms.GetForm(ctx, *enc.FormID)
	if err != nil {
		return nil, err
	}
	return &Target{Form: f, Encounter: enc, PatientID: enc.PatientID}, nil
}

func (p *Processor) session(ctx context.Context, mode Mode, t *Target) (*FormEntrySession, string, error) {
	session := NewFormEntrySession(mode, t.Form, t.PatientID, t.Encounter)
	out, err := p.generator.Generate(ctx, session)
	if err != nil {
		return nil, "", err
	}
	return session, out, nil
}

// Render returns the form HTML for mode.
func (p *Processor) Render(ctx context.Context, mode Mode, t *Target) (string, error) {
	_, out, err := p.session(ctx, mode, t)
	if err != nil {
		p.logger.Error().Err(err).Str("form", t.Form.Name).Str("mode", mode.String()).Msg("form render failed")
		return "", err
	}
	return out, nil
}

// Submit regenerates the form so field names line up with the rendered page,
// validates the request and, when it is clean, saves the resulting encounter.
// Validation problems are returned as values, not as an error.
func (p *Processor) Submit(ctx context.Context, mode Mode, t *Target, r *http.Request) (*encounter.Encounter, []FormSubmissionError, error) {
	if mode == ModeView {
		return nil, nil, ErrReadOnly
	}
	session, _, err := p.session(ctx, mode, t)
	if err != nil {
		return nil, nil, err
	}

	controller := session.SubmissionController()
	if errs := controller.ValidateSubmission(session.Context(), r); len(errs) > 0 {
		p.logger.Debug().Int("errors", len(errs)).Str("form", t.Form.Name).Msg("submission rejected")
		return nil, errs, nil
	}
	if err := controller.HandleFormSubmission(session, r); err != nil {
		return nil, nil, err
	}

	enc := session.Encounter()
	if err := p.encounters.SaveEncounter(ctx, enc); err != nil {
		return nil, nil, fmt.Errorf("save encounter: %w", err)
	}
	p.logger.Info().
		Str("encounter_id", enc.ID.String()).
		Str("form", t.Form.Name+"."+t.Form.Version).
		Str("mode", mode.String()).
		Msg("form submitted")
	return enc, nil, nil
}
