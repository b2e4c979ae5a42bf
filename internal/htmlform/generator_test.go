package htmlform

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
)

type staticElement struct{ html string }

func (e staticElement) GenerateHTML(context.Context, *FormEntryContext) (string, error) {
	return e.html, nil
}

type countingAction struct {
	staticElement
	validated, handled int
}

func (a *countingAction) ValidateSubmission(*FormEntryContext, *http.Request) []FormSubmissionError {
	a.validated++
	return nil
}

func (a *countingAction) HandleSubmission(*FormEntrySession, *http.Request) error {
	a.handled++
	return nil
}

func TestGenerator_CopiesMarkupAndExpandsTags(t *testing.T) {
	g := NewGenerator()
	var gotAttrs map[string]string
	g.Register("greeting", TagHandlerFunc(func(_ context.Context, _ *FormEntrySession, attrs map[string]string) (HTMLGeneratorElement, error) {
		gotAttrs = attrs
		return staticElement{html: "<b>hello " + attrs["name"] + "</b>"}, nil
	}))

	tpl := `<htmlform><h2 class="title">Visit &amp; notes</h2><greeting name="Ada"><ignored/></greeting><br/><!-- gone --></htmlform>`
	session := NewFormEntrySession(ModeEnter, newTestForm(tpl), uuid.New(), nil)

	out, err := g.Generate(context.Background(), session)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<div class="htmlform"><h2 class="title">Visit &amp; notes</h2><b>hello Ada</b><br/></div>`
	if out != want {
		t.Errorf("unexpected output\n got: %s\nwant: %s", out, want)
	}
	if gotAttrs["name"] != "Ada" {
		t.Errorf("expected attributes to reach the handler, got %v", gotAttrs)
	}
}

func TestGenerator_RegistersActionsInOrder(t *testing.T) {
	g := NewGenerator()
	var actions []*countingAction
	g.Register("field", TagHandlerFunc(func(context.Context, *FormEntrySession, map[string]string) (HTMLGeneratorElement, error) {
		a := &countingAction{}
		actions = append(actions, a)
		return a, nil
	}))
	g.Register("text", TagHandlerFunc(func(context.Context, *FormEntrySession, map[string]string) (HTMLGeneratorElement, error) {
		return staticElement{html: "x"}, nil
	}))

	session := NewFormEntrySession(ModeEnter, newTestForm(`<htmlform><field/><text/><field/></htmlform>`), uuid.New(), nil)
	if _, err := g.Generate(context.Background(), session); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	registered := session.SubmissionController().Actions()
	if len(registered) != 2 || registered[0] != actions[0] || registered[1] != actions[1] {
		t.Fatalf("expected the two field actions in document order, got %v", registered)
	}

	req := postForm(nil)
	if errs := session.SubmissionController().ValidateSubmission(session.Context(), req); errs == nil || len(errs) != 0 {
		t.Errorf("expected empty non-nil error list, got %#v", errs)
	}
	session.SubmissionController().HandleFormSubmission(session, req)
	if actions[0].validated != 1 || actions[1].handled != 1 {
		t.Error("expected every action to be validated and handled once")
	}
}

func TestGenerator_MalformedTemplate(t *testing.T) {
	g := NewGenerator()
	session := NewFormEntrySession(ModeEnter, newTestForm(`<htmlform><p></htmlform>`), uuid.New(), nil)
	if _, err := g.Generate(context.Background(), session); err == nil {
		t.Error("expected error for malformed template")
	}
}

func TestGenerator_HandlerError(t *testing.T) {
	env := newTestEnv(t)
	g := NewGenerator()
	g.Register("condition", NewConditionTagHandler(env.svc))
	session := NewFormEntrySession(ModeEnter, newTestForm(`<htmlform><condition conceptId="abc"/></htmlform>`), uuid.New(), nil)

	_, err := g.Generate(context.Background(), session)
	if err == nil || !strings.Contains(err.Error(), "<condition>") {
		t.Errorf("expected tag-scoped error, got %v", err)
	}
}

func TestConditionTagHandler_Attributes(t *testing.T) {
	env := newTestEnv(t)
	h := NewConditionTagHandler(env.svc)
	session := NewFormEntrySession(ModeEnter, newTestForm("<htmlform/>"), uuid.New(), nil)

	el, err := h.Build(context.Background(), session, map[string]string{
		"controlId":            "dx",
		"required":             "true",
		"conceptId":            "5089",
		"showAdditionalDetail": "TRUE",
		"label":                "Diabetes",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ce := el.(*ConditionElement)
	if ce.ControlID() != "dx" || !ce.required || !ce.showAdditionalDetail || ce.label != "Diabetes" {
		t.Errorf("unexpected element %+v", ce)
	}
	if ce.presetConcept == nil || ce.presetConcept.ID != 5089 {
		t.Error("expected preset concept 5089")
	}
}
