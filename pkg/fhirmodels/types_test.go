package fhirmodels

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestFormatReference(t *testing.T) {
	if got := FormatReference("Patient", "42"); got != "Patient/42" {
		t.Errorf("expected Patient/42, got %s", got)
	}
}

func TestCodeableConcept_OmitsEmpty(t *testing.T) {
	b, _ := json.Marshal(CodeableConcept{Text: "Headache"})
	if strings.Contains(string(b), "coding") {
		t.Errorf("expected coding to be omitted, got %s", b)
	}
}
