package htmlform

import (
	"github.com/google/uuid"

	"github.com/ehr/formentry/internal/domain/encounter"
	"github.com/ehr/formentry/internal/domain/form"
)

// FormNamespace prefixes the provenance of every record created by a form.
const FormNamespace = "HtmlFormEntry"

// FormEntrySession is one interaction with a form: rendering it and, on
// submission, building the encounter.
type FormEntrySession struct {
	form       *form.Form
	context    *FormEntryContext
	encounter  *encounter.Encounter
	patientID  uuid.UUID
	controller *FormSubmissionController
}

// NewFormEntrySession starts a session. existing is required in edit and view
// mode and becomes the session encounter; in enter mode a new encounter is created.
func NewFormEntrySession(mode Mode, f *form.Form, patientID uuid.UUID, existing *encounter.Encounter) *FormEntrySession {
	enc := existing
	if mode == ModeEnter || enc == nil {
		enc = &encounter.Encounter{PatientID: patientID, FormID: &f.ID}
		existing = nil
	}
	if patientID == uuid.Nil {
		patientID = enc.PatientID
	}
	return &FormEntrySession{
		form:       f,
		context:    NewFormEntryContext(mode, f, existing),
		encounter:  enc,
		patientID:  patientID,
		controller: &FormSubmissionController{},
	}
}

func (s *FormEntrySession) Form() *form.Form { return s.form }
func (s *FormEntrySession) Context() *FormEntryContext { return s.context }
func (s *FormEntrySession) Encounter() *encounter.Encounter { return s.encounter }
func (s *FormEntrySession) PatientID() uuid.UUID { return s.patientID }
func (s *FormEntrySession) SubmissionController() *FormSubmissionController { return s.controller }

// GenerateControlFormPath returns "<form>.<version>/<controlID>-<index>".
func (s *FormEntrySession) GenerateControlFormPath(controlID string, index int) string {
	return s.context.ControlFormPath(controlID, index)
}
