package fhirmodels

import (
	"fmt"
	"time"
)

// Value sets referenced when condition records are rendered as FHIR.
const (
	SystemConditionClinical = "http://terminology.hl7.org/CodeSystem/condition-clinical"
	SystemLocalConcept      = "urn:formentry:concept"
)

// ConditionClinicalStatus codes. The form engine only records the first two.
const (
	ConditionActive     = "active"
	ConditionInactive   = "inactive"
	ConditionRecurrence = "recurrence"
	ConditionResolved   = "resolved"
)

type Meta struct {
	VersionID   string    `json:"versionId,omitempty"`
	LastUpdated time.Time `json:"lastUpdated,omitempty"`
	Source      string    `json:"source,omitempty"`
}

type Coding struct {
	System  string `json:"system,omitempty"`
	Code    string `json:"code,omitempty"`
	Display string `json:"display,omitempty"`
}

type CodeableConcept struct {
	Coding []Coding `json:"coding,omitempty"`
	Text   string   `json:"text,omitempty"`
}

type Reference struct {
	Reference string `json:"reference,omitempty"`
	Display   string `json:"display,omitempty"`
}

// FormatReference builds a relative literal reference such as "Patient/123".
func FormatReference(resourceType, id string) string {
	return fmt.Sprintf("%s/%s", resourceType, id)
}
