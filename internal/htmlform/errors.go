package htmlform

import "errors"

// ErrMissingFormPath means a stored condition cannot be matched back to a form
// control. It indicates corrupt data, not bad user input.
var ErrMissingFormPath = errors.New("condition has no form namespace and path")

// ErrReadOnly is returned when a submission is attempted in view mode.
var ErrReadOnly = errors.New("form is open in view mode")

// FormSubmissionError is a localized problem with one field of a submission.
type FormSubmissionError struct {
	FieldName string `json:"field"`
	Error     string `json:"error"`
}
