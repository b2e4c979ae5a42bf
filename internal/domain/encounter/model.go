package encounter

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ehr/formentry/internal/domain/condition"
)

var ErrNotFound = errors.New("encounter not found")

// Encounter is the container a form submission produces. Conditions added
// to it are persisted together with it.
type Encounter struct {
	ID                uuid.UUID  `db:"encounter_id" json:"id"`
	PatientID         uuid.UUID  `db:"patient_id" json:"patient_id"`
	FormID            *uuid.UUID `db:"form_id" json:"form_id,omitempty"`
	EncounterDatetime time.Time  `db:"encounter_datetime" json:"encounter_datetime"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`

	conditions []*condition.Condition
}

// AddCondition attaches c unless it is already attached.
func (e *Encounter) AddCondition(c *condition.Condition) {
	if c == nil {
		return
	}
	for _, have := range e.conditions {
		if have == c || (c.ID != uuid.Nil && have.ID == c.ID) {
			return
		}
	}
	e.conditions = append(e.conditions, c)
}

// RemoveCondition voids c. The record stays attached so the void is saved.
func (e *Encounter) RemoveCondition(c *condition.Condition) {
	for _, have := range e.conditions {
		if have == c || (c.ID != uuid.Nil && have.ID == c.ID) {
			have.Voided = true
		}
	}
}

// Conditions returns every attached condition, voided ones included.
func (e *Encounter) Conditions() []*condition.Condition {
	out := make([]*condition.Condition, len(e.conditions))
	copy(out, e.conditions)
	return out
}

func (e *Encounter) ActiveConditions() []*condition.Condition {
	var out []*condition.Condition
	for _, c := range e.conditions {
		if !c.Voided {
			out = append(out, c)
		}
	}
	return out
}

func (e *Encounter) MarshalJSON() ([]byte, error) {
	type alias Encounter
	conds := e.ActiveConditions()
	if conds == nil {
		conds = []*condition.Condition{}
	}
	return json.Marshal(struct {
		*alias
		Conditions []*condition.Condition `json:"conditions"`
	}{alias: (*alias)(e), Conditions: conds})
}
