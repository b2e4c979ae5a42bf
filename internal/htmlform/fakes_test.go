package htmlform

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ehr/formentry/internal/domain/concept"
	"github.com/ehr/formentry/internal/domain/encounter"
	"github.com/ehr/formentry/internal/domain/form"
	"github.com/ehr/formentry/internal/platform/i18n"
)

// =========== Fakes ===========

const missingConceptID = 404

type fakeConcepts struct {
	classes map[string]bool
}

func (f *fakeConcepts) GetConcept(_ context.Context, id int) (*concept.Concept, error) {
	if id == missingConceptID {
		return nil, concept.ErrNotFound
	}
	return &concept.Concept{ID: id, UUID: fmt.Sprintf("c-%d", id), Name: fmt.Sprintf("Concept %d", id), ClassName: "Diagnosis"}, nil
}

func (f *fakeConcepts) GetConceptClassByName(_ context.Context, name string) (*concept.ConceptClass, error) {
	if f.classes != nil && !f.classes[name] {
		return nil, concept.ErrNotFound
	}
	return &concept.ConceptClass{Name: name}, nil
}

type fakeProperties struct {
	values map[string]string
	err    error
}

func (f *fakeProperties) GetGlobalProperty(_ context.Context, property string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.values[property], nil
}

type fakeForms struct {
	forms map[uuid.UUID]*form.Form
}

func (f *fakeForms) GetForm(_ context.Context, id uuid.UUID) (*form.Form, error) {
	fm, ok := f.forms[id]
	if !ok {
		return nil, form.ErrNotFound
	}
	return fm, nil
}

type fakeEncounters struct {
	store   map[uuid.UUID]*encounter.Encounter
	saves   int
	failErr error
}

func newFakeEncounters() *fakeEncounters {
	return &fakeEncounters{store: make(map[uuid.UUID]*encounter.Encounter)}
}

func (f *fakeEncounters) GetEncounter(_ context.Context, id uuid.UUID) (*encounter.Encounter, error) {
	enc, ok := f.store[id]
	if !ok {
		return nil, encounter.ErrNotFound
	}
	return enc, nil
}

func (f *fakeEncounters) SaveEncounter(_ context.Context, enc *encounter.Encounter) error {
	if f.failErr != nil {
		return f.failErr
	}
	f.saves++
	if enc.ID == uuid.Nil {
		enc.ID = uuid.New()
	}
	for _, c := range enc.Conditions() {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		c.EncounterID = &enc.ID
	}
	f.store[enc.ID] = enc
	return nil
}

// =========== Helpers ===========

type testEnv struct {
	svc      Services
	concepts *fakeConcepts
	props    *fakeProperties
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	messages, err := i18n.NewMessageSource("en")
	if err != nil {
		t.Fatalf("NewMessageSource: %v", err)
	}
	concepts := &fakeConcepts{}
	props := &fakeProperties{values: map[string]string{}}
	return &testEnv{
		svc:      Services{Concepts: concepts, Properties: props, Messages: messages, Logger: zerolog.Nop()},
		concepts: concepts,
		props:    props,
	}
}

func newTestForm(template string) *form.Form {
	return &form.Form{ID: uuid.New(), Name: "MyForm", Version: "1.0", Template: template}
}

// newElement builds a condition element on a fresh session.
func (env *testEnv) newElement(t *testing.T, mode Mode, existing *encounter.Encounter, p ConditionParams) (*ConditionElement, *FormEntrySession) {
	t.Helper()
	patient := uuid.New()
	if existing != nil {
		patient = existing.PatientID
	}
	session := NewFormEntrySession(mode, newTestForm("<htmlform/>"), patient, existing)
	el, err := NewConditionElement(context.Background(), session.Context(), env.svc, p)
	if err != nil {
		t.Fatalf("NewConditionElement: %v", err)
	}
	return el, session
}

func postForm(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// submission collects request values by widget.
type submission struct {
	fec    *FormEntryContext
	values url.Values
}

func newSubmission(fec *FormEntryContext) *submission {
	return &submission{fec: fec, values: url.Values{}}
}

func (s *submission) set(w Widget, v string) *submission {
	s.values.Set(s.fec.FieldName(w), v)
	return s
}

func (s *submission) concept(w *ConceptSearchAutocompleteWidget, id string) *submission {
	s.values.Set(s.fec.FieldName(w)+"_hid", id)
	return s
}

func (s *submission) request() *http.Request {
	return postForm(s.values)
}

var errBoom = errors.New("boom")
