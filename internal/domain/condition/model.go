package condition

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ehr/formentry/internal/domain/concept"
	fhir "github.com/ehr/formentry/pkg/fhirmodels"
)

var ErrNotFound = errors.New("condition not found")

// ClinicalStatus is the recorded state of a condition.
type ClinicalStatus string

const (
	StatusActive   ClinicalStatus = "ACTIVE"
	StatusInactive ClinicalStatus = "INACTIVE"
)

// ParseClinicalStatus accepts the form values "active" and "inactive" in any case.
func ParseClinicalStatus(s string) (ClinicalStatus, bool) {
	switch ClinicalStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusActive:
		return StatusActive, true
	case StatusInactive:
		return StatusInactive, true
	}
	return "", false
}

// CodedOrFreeText holds either a dictionary concept or free text, never both.
type CodedOrFreeText struct {
	Coded    *concept.Concept `json:"coded,omitempty"`
	NonCoded string           `json:"non_coded,omitempty"`
}

func (v CodedOrFreeText) IsEmpty() bool {
	return v.Coded == nil && strings.TrimSpace(v.NonCoded) == ""
}

// Display returns the concept name or the free text.
func (v CodedOrFreeText) Display() string {
	if v.Coded != nil {
		return v.Coded.Name
	}
	return v.NonCoded
}

// Condition maps to the condition table.
type Condition struct {
	ID                   uuid.UUID       `db:"condition_id" json:"id"`
	PatientID            uuid.UUID       `db:"patient_id" json:"patient_id" validate:"required"`
	EncounterID          *uuid.UUID      `db:"encounter_id" json:"encounter_id,omitempty"`
	Condition            CodedOrFreeText `json:"condition"`
	ClinicalStatus       ClinicalStatus  `db:"clinical_status" json:"clinical_status" validate:"oneof=ACTIVE INACTIVE"`
	OnsetDate            *time.Time      `db:"onset_date" json:"onset_date,omitempty"`
	EndDate              *time.Time      `db:"end_date" json:"end_date,omitempty"`
	AdditionalDetail     string          `db:"additional_detail" json:"additional_detail,omitempty" validate:"max=1024"`
	FormNamespaceAndPath string          `db:"form_namespace_and_path" json:"form_namespace_and_path,omitempty" validate:"max=255"`
	Voided               bool            `db:"voided" json:"voided"`
	CreatedAt            time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time       `db:"updated_at" json:"updated_at"`
}

const formFieldSeparator = "^"

// SetFormField records which form control produced the condition.
func (c *Condition) SetFormField(namespace, path string) {
	c.FormNamespaceAndPath = namespace + formFieldSeparator + path
}

// FormField splits the stored provenance back into namespace and path.
func (c *Condition) FormField() (namespace, path string) {
	ns, p, ok := strings.Cut(c.FormNamespaceAndPath, formFieldSeparator)
	if !ok {
		return "", c.FormNamespaceAndPath
	}
	return ns, p
}

func (c *Condition) ToFHIR() map[string]interface{} {
	code := fhir.CodeableConcept{Text: c.Condition.Display()}
	if cc := c.Condition.Coded; cc != nil {
		code.Coding = append(code.Coding, fhir.Coding{
			System:  fhir.SystemLocalConcept,
			Code:    cc.UUID,
			Display: cc.Name,
		})
		if cc.Code != nil {
			code.Coding = append(code.Coding, fhir.Coding{
				System:  strVal(cc.CodeSystem),
				Code:    *cc.Code,
				Display: cc.Name,
			})
		}
	}

	status := fhir.ConditionActive
	if c.ClinicalStatus == StatusInactive {
		status = fhir.ConditionInactive
	}

	result := map[string]interface{}{
		"resourceType": "Condition",
		"id":           c.ID.String(),
		"clinicalStatus": fhir.CodeableConcept{
			Coding: []fhir.Coding{{System: fhir.SystemConditionClinical, Code: status}},
		},
		"code":    code,
		"subject": fhir.Reference{Reference: fhir.FormatReference("Patient", c.PatientID.String())},
		"meta":    fhir.Meta{LastUpdated: c.UpdatedAt, Source: c.FormNamespaceAndPath},
	}
	if c.EncounterID != nil {
		result["encounter"] = fhir.Reference{Reference: fhir.FormatReference("Encounter", c.EncounterID.String())}
	}
	if c.OnsetDate != nil {
		result["onsetDateTime"] = c.OnsetDate.Format("2006-01-02")
	}
	if c.EndDate != nil {
		result["abatementDateTime"] = c.EndDate.Format("2006-01-02")
	}
	if c.AdditionalDetail != "" {
		result["note"] = []map[string]string{{"text": c.AdditionalDetail}}
	}
	return result
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
