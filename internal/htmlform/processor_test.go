package htmlform

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ehr/formentry/internal/domain/encounter"
	"github.com/ehr/formentry/internal/domain/form"
)

const conditionFormTemplate = `<htmlform>
	<h3>Problem list</h3>
	<condition controlId="my_condition_tag" required="true"/>
	<condition controlId="secondary"/>
</htmlform>`

type processorEnv struct {
	*testEnv
	proc       *Processor
	forms      *fakeForms
	encounters *fakeEncounters
	form       *form.Form
}

func newProcessorEnv(t *testing.T) *processorEnv {
	t.Helper()
	env := newTestEnv(t)
	f := newTestForm(conditionFormTemplate)
	forms := &fakeForms{forms: map[uuid.UUID]*form.Form{f.ID: f}}
	encounters := newFakeEncounters()
	g := NewGenerator()
	g.Register("condition", NewConditionTagHandler(env.svc))
	return &processorEnv{
		testEnv:    env,
		proc:       NewProcessor(forms, encounters, g, zerolog.Nop()),
		forms:      forms,
		encounters: encounters,
		form:       f,
	}
}

// Field names of the first condition follow registration order: search w1,
// its error w2, status w3, status error w4, onset w5, onset error w6, end w7,
// end error w8. The second condition starts at w9.
func TestProcessor_Submit_SavesEncounter(t *testing.T) {
	env := newProcessorEnv(t)
	patient := uuid.New()
	target, err := env.proc.LoadForm(context.Background(), env.form.ID, patient)
	if err != nil {
		t.Fatalf("LoadForm: %v", err)
	}

	req := postForm(url.Values{
		"w1_hid": {"1519"},
		"w3":     {"inactive"},
		"w5":     {"2014-02-11"},
		"w7":     {"2018-12-01"},
		"w9":     {"Typed in non-coded value"},
	})
	enc, errs, err := env.proc.Submit(context.Background(), ModeEnter, target, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(errs) != 0 {
		t.Fatalf("unexpected validation errors %v", errs)
	}
	if env.encounters.saves != 1 {
		t.Errorf("expected one save, got %d", env.encounters.saves)
	}

	conds := enc.Conditions()
	if len(conds) != 2 {
		t.Fatalf("expected 2 conditions, got %d", len(conds))
	}
	if conds[0].FormNamespaceAndPath != "HtmlFormEntry^MyForm.1.0/my_condition_tag-0" {
		t.Errorf("unexpected path %q", conds[0].FormNamespaceAndPath)
	}
	if conds[1].FormNamespaceAndPath != "HtmlFormEntry^MyForm.1.0/secondary-0" || conds[1].Condition.NonCoded == "" {
		t.Errorf("unexpected second condition %+v", conds[1])
	}
	if enc.PatientID != patient || *enc.FormID != env.form.ID {
		t.Error("expected encounter to reference the patient and form")
	}
}

func TestProcessor_Submit_ValidationErrorsSkipSave(t *testing.T) {
	env := newProcessorEnv(t)
	target, _ := env.proc.LoadForm(context.Background(), env.form.ID, uuid.New())

	enc, errs, err := env.proc.Submit(context.Background(), ModeEnter, target, postForm(url.Values{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if enc != nil {
		t.Error("expected no encounter")
	}
	if len(errs) != 1 || errs[0].FieldName != "w2" || errs[0].Error != "A condition is required" {
		t.Errorf("unexpected errors %v", errs)
	}
	if env.encounters.saves != 0 {
		t.Errorf("expected no save, got %d", env.encounters.saves)
	}
}

func TestProcessor_Submit_BlankOptionalConditionNotSaved(t *testing.T) {
	env := newProcessorEnv(t)
	target, _ := env.proc.LoadForm(context.Background(), env.form.ID, uuid.New())

	enc, _, err := env.proc.Submit(context.Background(), ModeEnter, target, postForm(url.Values{"w1_hid": {"1519"}}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := len(enc.Conditions()); n != 1 {
		t.Errorf("expected only the required condition, got %d", n)
	}
}

func TestProcessor_EditRoundTrip(t *testing.T) {
	env := newProcessorEnv(t)
	target, _ := env.proc.LoadForm(context.Background(), env.form.ID, uuid.New())
	enc, _, _ := env.proc.Submit(context.Background(), ModeEnter, target, postForm(url.Values{
		"w1_hid": {"1519"},
		"w9":     {"Cough"},
	}))

	edit, err := env.proc.LoadEncounter(context.Background(), enc.ID)
	if err != nil {
		t.Fatalf("LoadEncounter: %v", err)
	}
	if _, err := env.proc.Render(context.Background(), ModeEdit, edit); err != nil {
		t.Fatalf("Render: %v", err)
	}

	updated, errs, err := env.proc.Submit(context.Background(), ModeEdit, edit, postForm(url.Values{
		"w1_hid": {"1520"},
		"w3":     {"active"},
	}))
	if err != nil || len(errs) != 0 {
		t.Fatalf("unexpected result: %v %v", err, errs)
	}
	if updated.ID != enc.ID {
		t.Error("expected the same encounter to be updated")
	}
	active := updated.ActiveConditions()
	if len(active) != 1 || active[0].Condition.Coded.ID != 1520 {
		t.Errorf("expected only the updated coded condition to stay active, got %+v", active)
	}
	if n := len(updated.Conditions()); n != 2 {
		t.Errorf("expected the cleared condition to remain attached as voided, got %d", n)
	}
}

func TestProcessor_Render_MissingFormPath(t *testing.T) {
	env := newProcessorEnv(t)
	enc, _ := existingEncounter("")
	enc.FormID = &env.form.ID
	env.encounters.store[enc.ID] = enc

	target, err := env.proc.LoadEncounter(context.Background(), enc.ID)
	if err != nil {
		t.Fatalf("LoadEncounter: %v", err)
	}
	if _, err := env.proc.Render(context.Background(), ModeView, target); !errors.Is(err, ErrMissingFormPath) {
		t.Errorf("expected ErrMissingFormPath, got %v", err)
	}
}

func TestProcessor_Submit_ViewModeRejected(t *testing.T) {
	env := newProcessorEnv(t)
	target := &Target{Form: env.form, Encounter: &encounter.Encounter{ID: uuid.New()}}
	if _, _, err := env.proc.Submit(context.Background(), ModeView, target, postForm(nil)); !errors.Is(err, ErrReadOnly) {
		t.Errorf("expected ErrReadOnly, got %v", err)
	}
	if env.encounters.saves != 0 {
		t.Error("view mode must never save")
	}
}

func TestProcessor_Submit_SaveFailure(t *testing.T) {
	env := newProcessorEnv(t)
	env.encounters.failErr = errBoom
	target, _ := env.proc.LoadForm(context.Background(), env.form.ID, uuid.New())

	_, _, err := env.proc.Submit(context.Background(), ModeEnter, target, postForm(url.Values{"w1_hid": {"1519"}}))
	if !errors.Is(err, errBoom) {
		t.Errorf("expected wrapped save error, got %v", err)
	}
}

func TestProcessor_LoadForm_Errors(t *testing.T) {
	env := newProcessorEnv(t)
	if _, err := env.proc.LoadForm(context.Background(), env.form.ID, uuid.Nil); err == nil {
		t.Error("expected error without patient")
	}
	if _, err := env.proc.LoadForm(context.Background(), uuid.New(), uuid.New()); !errors.Is(err, form.ErrNotFound) {
		t.Errorf("expected form.ErrNotFound, got %v", err)
	}
	if _, err := env.proc.LoadEncounter(context.Background(), uuid.New()); !errors.Is(err, encounter.ErrNotFound) {
		t.Errorf("expected encounter.ErrNotFound, got %v", err)
	}
}
