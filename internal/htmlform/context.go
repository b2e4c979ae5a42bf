// Package htmlform renders HTML form templates and turns their submissions
// into encounter data.
package htmlform

import (
	"fmt"

	"github.com/ehr/formentry/internal/domain/encounter"
	"github.com/ehr/formentry/internal/domain/form"
)

// FormEntryContext is the request-scoped state of a form being rendered or
// submitted. Widgets get field names in registration order, so regenerating
// the same template yields the same names.
type FormEntryContext struct {
	mode     Mode
	form     *form.Form
	existing *encounter.Encounter

	fieldNames   map[Widget]string
	errorWidgets map[Widget]*ErrorWidget
	widgetSeq    int
	controlSeq   map[string]int
}

func NewFormEntryContext(mode Mode, f *form.Form, existing *encounter.Encounter) *FormEntryContext {
	return &FormEntryContext{
		mode:         mode,
		form:         f,
		existing:     existing,
		fieldNames:   make(map[Widget]string),
		errorWidgets: make(map[Widget]*ErrorWidget),
		controlSeq:   make(map[string]int),
	}
}

func (c *FormEntryContext) Mode() Mode { return c.mode }
func (c *FormEntryContext) Form() *form.Form { return c.form }
func (c *FormEntryContext) ExistingEncounter() *encounter.Encounter { return c.existing }

// RegisterWidget assigns w the next field name. Registering twice is a no-op.
func (c *FormEntryContext) RegisterWidget(w Widget) string {
	if name, ok := c.fieldNames[w]; ok {
		return name
	}
	c.widgetSeq++
	name := fmt.Sprintf("w%d", c.widgetSeq)
	c.fieldNames[w] = name
	return name
}

// RegisterErrorWidget registers ew and associates it with w.
func (c *FormEntryContext) RegisterErrorWidget(w Widget, ew *ErrorWidget) string {
	c.errorWidgets[w] = ew
	return c.RegisterWidget(ew)
}

// FieldName returns the request parameter name of w, or "" if w was never registered.
func (c *FormEntryContext) FieldName(w Widget) string {
	return c.fieldNames[w]
}

// ErrorFieldName returns the field name of the error widget attached to w.
func (c *FormEntryContext) ErrorFieldName(w Widget) string {
	ew, ok := c.errorWidgets[w]
	if !ok {
		return c.FieldName(w)
	}
	return c.FieldName(ew)
}

// NextControlID returns prefix_1, prefix_2, ... for controls declared without an id.
func (c *FormEntryContext) NextControlID(prefix string) string {
	c.controlSeq[prefix]++
	return fmt.Sprintf("%s_%d", prefix, c.controlSeq[prefix])
}

// ControlFormPath identifies a control within this form version.
func (c *FormEntryContext) ControlFormPath(controlID string, index int) string {
	return fmt.Sprintf("%s.%s/%s-%d", c.form.Name, c.form.Version, controlID, index)
}
