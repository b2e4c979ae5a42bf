package htmlform

import (
	"fmt"
	"html"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ehr/formentry/internal/domain/concept"
)

// DateLayout is the wire format of date inputs.
const DateLayout = "2006-01-02"

// Widget is one input control. Field names come from the FormEntryContext.
type Widget interface {
	SetInitialValue(v interface{})
	GenerateHTML(fec *FormEntryContext) string
}

func escape(s string) string {
	return html.EscapeString(s)
}

func viewValue(s string) string {
	return `<span class="value">` + escape(s) + `</span>`
}

// nullOr renders an autocomplete argument: the joined list, or null when empty.
func nullOr(items []string) string {
	if len(items) == 0 {
		return "null"
	}
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = escape(s)
	}
	return strings.Join(out, ",")
}

// ---------------------------------------------------------------------------
// Concept search
// ---------------------------------------------------------------------------

// ConceptSearchAutocompleteWidget is a text box backed by the concept search
// endpoint. The chosen concept id travels in a hidden <name>_hid input; the
// text box itself carries whatever the user typed.
type ConceptSearchAutocompleteWidget struct {
	allowedConceptIDs []string
	classNames        []string
	answerSetIDs      []string
	placeholder       string

	initialConcept *concept.Concept
	initialText    string
}

func NewConceptSearchAutocompleteWidget(placeholder string) *ConceptSearchAutocompleteWidget {
	return &ConceptSearchAutocompleteWidget{placeholder: placeholder}
}

// SetClassNames restricts suggestions to the given concept classes.
func (w *ConceptSearchAutocompleteWidget) SetClassNames(names []string) {
	w.classNames = names
}

func (w *ConceptSearchAutocompleteWidget) ClassNames() []string {
	return w.classNames
}

// SetInitialValue accepts a *concept.Concept or free text.
func (w *ConceptSearchAutocompleteWidget) SetInitialValue(v interface{}) {
	switch val := v.(type) {
	case *concept.Concept:
		w.initialConcept = val
	case string:
		w.initialText = val
	}
}

func (w *ConceptSearchAutocompleteWidget) display() (text, id string) {
	if w.initialConcept != nil {
		return w.initialConcept.Name, strconv.Itoa(w.initialConcept.ID)
	}
	return w.initialText, ""
}

func (w *ConceptSearchAutocompleteWidget) GenerateHTML(fec *FormEntryContext) string {
	text, id := w.display()
	if fec.Mode() == ModeView {
		return viewValue(text)
	}
	name := fec.FieldName(w)
	setup := fmt.Sprintf("setupAutocomplete(this, 'conceptSearch.form','%s','%s','%s')",
		nullOr(w.allowedConceptIDs), nullOr(w.classNames), nullOr(w.answerSetIDs))

	var b strings.Builder
	fmt.Fprintf(&b, `<input type="text" id="%s" name="%s" value="%s" placeholder="%s" onfocus="%s;"/>`,
		name, name, escape(text), escape(w.placeholder), setup)
	fmt.Fprintf(&b, `<input type="hidden" id="%s_hid" name="%s_hid" value="%s"/>`, name, name, id)
	return b.String()
}

// Value returns the selected concept id as submitted, possibly blank.
func (w *ConceptSearchAutocompleteWidget) Value(fec *FormEntryContext, r *http.Request) string {
	return strings.TrimSpace(r.FormValue(fec.FieldName(w) + "_hid"))
}

// TypedText returns the visible text box content, the free-text fallback.
func (w *ConceptSearchAutocompleteWidget) TypedText(fec *FormEntryContext, r *http.Request) string {
	return strings.TrimSpace(r.FormValue(fec.FieldName(w)))
}

// ---------------------------------------------------------------------------
// Radio buttons
// ---------------------------------------------------------------------------

type Option struct {
	Label string
	Value string
}

type RadioButtonsWidget struct {
	options []Option
	initial string
}

func NewRadioButtonsWidget(options ...Option) *RadioButtonsWidget {
	return &RadioButtonsWidget{options: options}
}

func (w *RadioButtonsWidget) AddOption(o Option) {
	w.options = append(w.options, o)
}

func (w *RadioButtonsWidget) SetInitialValue(v interface{}) {
	if s, ok := v.(string); ok {
		w.initial = s
	}
}

func (w *RadioButtonsWidget) GenerateHTML(fec *FormEntryContext) string {
	if fec.Mode() == ModeView {
		for _, o := range w.options {
			if o.Value == w.initial {
				return viewValue(o.Label)
			}
		}
		return viewValue("")
	}
	name := fec.FieldName(w)
	var b strings.Builder
	for i, o := range w.options {
		checked := ""
		if o.Value == w.initial {
			checked = ` checked="true"`
		}
		fmt.Fprintf(&b, `<input type="radio" id="%s_%d" name="%s" value="%s"%s/><label for="%s_%d">%s</label>`,
			name, i, name, escape(o.Value), checked, name, i, escape(o.Label))
	}
	return b.String()
}

func (w *RadioButtonsWidget) Value(fec *FormEntryContext, r *http.Request) string {
	return strings.TrimSpace(r.FormValue(fec.FieldName(w)))
}

// ---------------------------------------------------------------------------
// Date
// ---------------------------------------------------------------------------

type DateWidget struct {
	initial *time.Time
}

func NewDateWidget() *DateWidget { return &DateWidget{} }

func (w *DateWidget) SetInitialValue(v interface{}) {
	switch val := v.(type) {
	case *time.Time:
		w.initial = val
	case time.Time:
		w.initial = &val
	}
}

func (w *DateWidget) GenerateHTML(fec *FormEntryContext) string {
	value := ""
	if w.initial != nil {
		value = w.initial.Format(DateLayout)
	}
	if fec.Mode() == ModeView {
		return viewValue(value)
	}
	name := fec.FieldName(w)
	return fmt.Sprintf(`<input type="date" id="%s" name="%s" value="%s"/>`, name, name, value)
}

// Value parses the submitted date. A blank field yields nil and no error.
func (w *DateWidget) Value(fec *FormEntryContext, r *http.Request) (*time.Time, error) {
	raw := strings.TrimSpace(r.FormValue(fec.FieldName(w)))
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("parse date %q: %w", raw, err)
	}
	return &t, nil
}

// ---------------------------------------------------------------------------
// Text
// ---------------------------------------------------------------------------

type TextFieldWidget struct {
	maxLength int
	initial   string
}

func NewTextFieldWidget(maxLength int) *TextFieldWidget {
	return &TextFieldWidget{maxLength: maxLength}
}

func (w *TextFieldWidget) SetInitialValue(v interface{}) {
	if s, ok := v.(string); ok {
		w.initial = s
	}
}

func (w *TextFieldWidget) GenerateHTML(fec *FormEntryContext) string {
	if fec.Mode() == ModeView {
		return viewValue(w.initial)
	}
	name := fec.FieldName(w)
	return fmt.Sprintf(`<input type="text" id="%s" name="%s" value="%s" maxlength="%d"/>`,
		name, name, escape(w.initial), w.maxLength)
}

func (w *TextFieldWidget) Value(fec *FormEntryContext, r *http.Request) string {
	v := strings.TrimSpace(r.FormValue(fec.FieldName(w)))
	if runes := []rune(v); w.maxLength > 0 && len(runes) > w.maxLength {
		v = string(runes[:w.maxLength])
	}
	return v
}

// ---------------------------------------------------------------------------
// Error
// ---------------------------------------------------------------------------

// ErrorWidget is the placeholder the client fills with a field's error
// message. A message set as initial value is rendered visible.
type ErrorWidget struct {
	message string
}

func NewErrorWidget() *ErrorWidget { return &ErrorWidget{} }

func (w *ErrorWidget) SetInitialValue(v interface{}) {
	if s, ok := v.(string); ok {
		w.message = s
	}
}

func (w *ErrorWidget) GenerateHTML(fec *FormEntryContext) string {
	if fec.Mode() == ModeView {
		return ""
	}
	if w.message != "" {
		return fmt.Sprintf(`<span class="error field-error" id="%s">%s</span>`, fec.FieldName(w), escape(w.message))
	}
	return fmt.Sprintf(`<span class="error field-error" id="%s" style="display: none"></span>`, fec.FieldName(w))
}
