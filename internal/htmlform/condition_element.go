package htmlform

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/ehr/formentry/internal/domain/concept"
	"github.com/ehr/formentry/internal/domain/condition"
	"github.com/ehr/formentry/internal/platform/i18n"
)

const (
	// GPConditionListClasses lists the concept classes offered by the condition search.
	GPConditionListClasses = "coreapps.conditionListClasses"

	defaultConditionClass  = "Diagnosis"
	additionalDetailMaxLen = 1024
)

// ConditionParams are the attributes of a <condition> tag.
type ConditionParams struct {
	ControlID            string
	Required             bool
	ConceptID            int
	ShowAdditionalDetail bool
	Label                string
}

// ConditionElement records one patient condition: what it is, whether it is
// still active, and when it started and ended.
type ConditionElement struct {
	svc Services

	controlID            string
	required             bool
	presetConcept        *concept.Concept
	showAdditionalDetail bool
	label                string

	conditionSearchWidget        *ConceptSearchAutocompleteWidget
	conditionSearchErrorWidget   *ErrorWidget
	conditionStatusesWidget      *RadioButtonsWidget
	conditionStatusesErrorWidget *ErrorWidget
	onsetDateWidget              *DateWidget
	onsetDateErrorWidget         *ErrorWidget
	endDateWidget                *DateWidget
	endDateErrorWidget           *ErrorWidget
	additionalDetailWidget       *TextFieldWidget
}

// NewConditionElement builds the element and registers its widgets on fec.
func NewConditionElement(ctx context.Context, fec *FormEntryContext, svc Services, p ConditionParams) (*ConditionElement, error) {
	e := &ConditionElement{
		svc:                  svc,
		controlID:            strings.TrimSpace(p.ControlID),
		required:             p.Required,
		showAdditionalDetail: p.ShowAdditionalDetail,
		label:                p.Label,
	}
	if e.controlID == "" {
		e.controlID = fec.NextControlID("condition")
	}
	if p.ConceptID > 0 {
		c, err := svc.Concepts.GetConcept(ctx, p.ConceptID)
		if err != nil {
			return nil, fmt.Errorf("condition %s: preset concept %d: %w", e.controlID, p.ConceptID, err)
		}
		e.presetConcept = c
	}

	msg := svc.Messages
	e.conditionSearchWidget = NewConceptSearchAutocompleteWidget(msg.GetMessage(ctx, i18n.KeySearchPlaceholder))
	e.conditionSearchErrorWidget = NewErrorWidget()
	e.conditionStatusesWidget = NewRadioButtonsWidget(
		Option{Label: msg.GetMessage(ctx, i18n.KeyStatusActive), Value: "active"},
		Option{Label: msg.GetMessage(ctx, i18n.KeyStatusInactive), Value: "inactive"},
	)
	e.conditionStatusesErrorWidget = NewErrorWidget()
	e.onsetDateWidget = NewDateWidget()
	e.onsetDateErrorWidget = NewErrorWidget()
	e.endDateWidget = NewDateWidget()
	e.endDateErrorWidget = NewErrorWidget()

	fec.RegisterWidget(e.conditionSearchWidget)
	fec.RegisterErrorWidget(e.conditionSearchWidget, e.conditionSearchErrorWidget)
	fec.RegisterWidget(e.conditionStatusesWidget)
	fec.RegisterErrorWidget(e.conditionStatusesWidget, e.conditionStatusesErrorWidget)
	fec.RegisterWidget(e.onsetDateWidget)
	fec.RegisterErrorWidget(e.onsetDateWidget, e.onsetDateErrorWidget)
	fec.RegisterWidget(e.endDateWidget)
	fec.RegisterErrorWidget(e.endDateWidget, e.endDateErrorWidget)
	if e.showAdditionalDetail {
		e.additionalDetailWidget = NewTextFieldWidget(additionalDetailMaxLen)
		fec.RegisterWidget(e.additionalDetailWidget)
	}
	return e, nil
}

func (e *ConditionElement) ControlID() string { return e.controlID }

// codedOrFreeText reads the condition value of a submission. The preset
// concept wins, then a selected concept, then typed text.
func (e *ConditionElement) codedOrFreeText(fec *FormEntryContext, r *http.Request) (condition.CodedOrFreeText, error) {
	if e.presetConcept != nil {
		return condition.CodedOrFreeText{Coded: e.presetConcept}, nil
	}
	if raw := e.conditionSearchWidget.Value(fec, r); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return condition.CodedOrFreeText{}, fmt.Errorf("condition %s: concept id %q: %w", e.controlID, raw, concept.ErrNotFound)
		}
		c, err := e.svc.Concepts.GetConcept(r.Context(), id)
		if err != nil {
			return condition.CodedOrFreeText{}, fmt.Errorf("condition %s: %w", e.controlID, err)
		}
		return condition.CodedOrFreeText{Coded: c}, nil
	}
	return condition.CodedOrFreeText{NonCoded: e.conditionSearchWidget.TypedText(fec, r)}, nil
}

func (e *ConditionElement) hasValue(fec *FormEntryContext, r *http.Request) bool {
	return e.presetConcept != nil ||
		e.conditionSearchWidget.Value(fec, r) != "" ||
		e.conditionSearchWidget.TypedText(fec, r) != ""
}

// existingCondition finds the condition this control recorded in the
// encounter being edited or viewed. Every condition on that encounter must
// carry a form path.
func (e *ConditionElement) existingCondition(fec *FormEntryContext) (*condition.Condition, error) {
	enc := fec.ExistingEncounter()
	if enc == nil || fec.Mode() == ModeEnter {
		return nil, nil
	}
	suffix := "/" + e.controlID + "-0"
	var match *condition.Condition
	for _, c := range enc.ActiveConditions() {
		if c.FormNamespaceAndPath == "" {
			return nil, fmt.Errorf("%w: condition %s on encounter %s", ErrMissingFormPath, c.ID, enc.ID)
		}
		if match == nil && strings.HasSuffix(c.FormNamespaceAndPath, suffix) {
			match = c
		}
	}
	return match, nil
}

// HandleSubmission turns the submitted values into a condition on the
// session encounter. Nothing is persisted here.
func (e *ConditionElement) HandleSubmission(session *FormEntrySession, r *http.Request) error {
	fec := session.Context()
	if fec.Mode() == ModeView {
		return nil
	}

	existing, err := e.existingCondition(fec)
	if err != nil {
		return err
	}

	value, err := e.codedOrFreeText(fec, r)
	if err != nil {
		return err
	}
	if value.IsEmpty() {
		if existing != nil {
			session.Encounter().RemoveCondition(existing)
		}
		return nil
	}

	cond := existing
	if cond == nil {
		cond = &condition.Condition{}
	}
	cond.Condition = value

	status, ok := condition.ParseClinicalStatus(e.conditionStatusesWidget.Value(fec, r))
	if !ok {
		status = condition.StatusActive
	}
	cond.ClinicalStatus = status

	cond.OnsetDate, _ = e.onsetDateWidget.Value(fec, r)
	cond.EndDate = nil
	if status == condition.StatusInactive {
		cond.EndDate, _ = e.endDateWidget.Value(fec, r)
	}

	if e.additionalDetailWidget != nil {
		cond.AdditionalDetail = e.additionalDetailWidget.Value(fec, r)
	}

	cond.PatientID = session.PatientID()
	cond.SetFormField(FormNamespace, session.GenerateControlFormPath(e.controlID, 0))
	session.Encounter().AddCondition(cond)
	return nil
}

// ValidateSubmission reports every problem with the submitted values. It
// returns an empty, non-nil slice when there are none.
func (e *ConditionElement) ValidateSubmission(fec *FormEntryContext, r *http.Request) []FormSubmissionError {
	errs := []FormSubmissionError{}
	if fec.Mode() == ModeView {
		return errs
	}
	ctx := r.Context()
	msg := e.svc.Messages
	addError := func(w Widget, key string) {
		errs = append(errs, FormSubmissionError{FieldName: fec.ErrorFieldName(w), Error: msg.GetMessage(ctx, key)})
	}

	if e.required && !e.hasValue(fec, r) {
		addError(e.conditionSearchWidget, i18n.KeyConditionRequired)
	}

	if raw := e.conditionStatusesWidget.Value(fec, r); raw != "" {
		if _, ok := condition.ParseClinicalStatus(raw); !ok {
			addError(e.conditionStatusesWidget, i18n.KeyStatusInvalid)
		}
	}

	onset, err := e.onsetDateWidget.Value(fec, r)
	if err != nil {
		addError(e.onsetDateWidget, i18n.KeyInvalidDate)
	}
	end, err := e.endDateWidget.Value(fec, r)
	if err != nil {
		addError(e.endDateWidget, i18n.KeyInvalidDate)
	}
	if onset != nil && end != nil && end.Before(*onset) {
		addError(e.endDateWidget, i18n.KeyEndDateBeforeOnset)
	}
	return errs
}

// conditionClasses resolves the class names configured for the search. Names
// the dictionary does not know are dropped.
func (e *ConditionElement) conditionClasses(ctx context.Context) []string {
	raw, err := e.svc.Properties.GetGlobalProperty(ctx, GPConditionListClasses)
	if err != nil {
		e.svc.Logger.Warn().Err(err).Str("property", GPConditionListClasses).Msg("falling back to default condition class")
		raw = ""
	}

	var classes []string
	for _, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		cc, err := e.svc.Concepts.GetConceptClassByName(ctx, name)
		if err != nil {
			e.svc.Logger.Warn().Err(err).Str("class", name).Msg("ignoring unknown concept class")
			continue
		}
		classes = append(classes, cc.Name)
	}
	if len(classes) == 0 {
		classes = []string{defaultConditionClass}
	}
	return classes
}

// HTMLForConditionSearchWidget renders the concept search restricted to the
// configured condition classes.
func (e *ConditionElement) HTMLForConditionSearchWidget(ctx context.Context, fec *FormEntryContext) string {
	e.conditionSearchWidget.SetClassNames(e.conditionClasses(ctx))
	return e.conditionSearchWidget.GenerateHTML(fec) + e.conditionSearchErrorWidget.GenerateHTML(fec)
}

// GenerateHTML renders the element, pre-filled from the matching condition
// when an encounter is being edited or viewed.
func (e *ConditionElement) GenerateHTML(ctx context.Context, fec *FormEntryContext) (string, error) {
	existing, err := e.existingCondition(fec)
	if err != nil {
		return "", err
	}
	if existing != nil {
		if existing.Condition.Coded != nil {
			e.conditionSearchWidget.SetInitialValue(existing.Condition.Coded)
		} else {
			e.conditionSearchWidget.SetInitialValue(existing.Condition.NonCoded)
		}
		e.conditionStatusesWidget.SetInitialValue(strings.ToLower(string(existing.ClinicalStatus)))
		e.onsetDateWidget.SetInitialValue(existing.OnsetDate)
		e.endDateWidget.SetInitialValue(existing.EndDate)
		if e.additionalDetailWidget != nil {
			e.additionalDetailWidget.SetInitialValue(existing.AdditionalDetail)
		}
	}

	msg := e.svc.Messages
	label := e.label
	if label == "" {
		label = msg.GetMessage(ctx, i18n.KeyConditionLabel)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<div id="%s" class="condition-element">`, escape(e.controlID))

	b.WriteString(`<div class="condition-name">`)
	fmt.Fprintf(&b, `<label>%s</label>`, escape(label))
	if e.presetConcept != nil {
		b.WriteString(viewValue(e.presetConcept.Name))
	} else {
		b.WriteString(e.HTMLForConditionSearchWidget(ctx, fec))
	}
	b.WriteString(`</div>`)

	b.WriteString(`<div class="condition-status">`)
	fmt.Fprintf(&b, `<label>%s</label>`, escape(msg.GetMessage(ctx, i18n.KeyStatusLabel)))
	b.WriteString(e.conditionStatusesWidget.GenerateHTML(fec))
	b.WriteString(e.conditionStatusesErrorWidget.GenerateHTML(fec))
	b.WriteString(`</div>`)

	b.WriteString(`<div class="condition-onset-date">`)
	fmt.Fprintf(&b, `<label>%s</label>`, escape(msg.GetMessage(ctx, i18n.KeyOnsetDateLabel)))
	b.WriteString(e.onsetDateWidget.GenerateHTML(fec))
	b.WriteString(e.onsetDateErrorWidget.GenerateHTML(fec))
	b.WriteString(`</div>`)

	b.WriteString(`<div class="condition-end-date">`)
	fmt.Fprintf(&b, `<label>%s</label>`, escape(msg.GetMessage(ctx, i18n.KeyEndDateLabel)))
	b.WriteString(e.endDateWidget.GenerateHTML(fec))
	b.WriteString(e.endDateErrorWidget.GenerateHTML(fec))
	b.WriteString(`</div>`)

	if e.additionalDetailWidget != nil {
		b.WriteString(`<div class="condition-additional-detail">`)
		fmt.Fprintf(&b, `<label>%s</label>`, escape(msg.GetMessage(ctx, i18n.KeyAdditionalDetailLabel)))
		b.WriteString(e.additionalDetailWidget.GenerateHTML(fec))
		b.WriteString(`</div>`)
	}

	b.WriteString(`</div>`)
	return b.String(), nil
}
