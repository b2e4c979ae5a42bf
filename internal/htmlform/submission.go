package htmlform

import (
	"context"
	"net/http"
)

// HTMLGeneratorElement renders one template tag.
type HTMLGeneratorElement interface {
	GenerateHTML(ctx context.Context, fec *FormEntryContext) (string, error)
}

// FormSubmissionControllerAction is an element that reads submitted values.
// ValidateSubmission must not mutate anything; HandleSubmission may assume
// validation passed.
type FormSubmissionControllerAction interface {
	ValidateSubmission(fec *FormEntryContext, r *http.Request) []FormSubmissionError
	HandleSubmission(session *FormEntrySession, r *http.Request) error
}

// FormSubmissionController runs the actions registered while a form was generated.
type FormSubmissionController struct {
	actions []FormSubmissionControllerAction
}

func (c *FormSubmissionController) AddAction(a FormSubmissionControllerAction) {
	c.actions = append(c.actions, a)
}

func (c *FormSubmissionController) Actions() []FormSubmissionControllerAction {
	return c.actions
}

// ValidateSubmission collects the errors of every action, in order.
func (c *FormSubmissionController) ValidateSubmission(fec *FormEntryContext, r *http.Request) []FormSubmissionError {
	errs := []FormSubmissionError{}
	for _, a := range c.actions {
		errs = append(errs, a.ValidateSubmission(fec, r)...)
	}
	return errs
}

// HandleFormSubmission applies every action to the session; the first error stops it.
func (c *FormSubmissionController) HandleFormSubmission(session *FormEntrySession, r *http.Request) error {
	for _, a := range c.actions {
		if err := a.HandleSubmission(session, r); err != nil {
			return err
		}
	}
	return nil
}
