package concept

import "errors"

// ErrNotFound is returned when a concept or concept class does not exist.
var ErrNotFound = errors.New("concept not found")

// Concept is a coded clinical term from the concept dictionary.
type Concept struct {
	ID         int     `db:"concept_id" json:"id"`
	UUID       string  `db:"uuid" json:"uuid"`
	Name       string  `db:"name" json:"name"`
	ClassName  string  `db:"class_name" json:"class"`
	CodeSystem *string `db:"code_system" json:"code_system,omitempty"`
	Code       *string `db:"code" json:"code,omitempty"`
	Retired    bool    `db:"retired" json:"retired"`
}

// ConceptClass groups concepts, e.g. "Diagnosis" or "Finding".
type ConceptClass struct {
	ID          int    `db:"concept_class_id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description,omitempty"`
}

// SearchHit is one autocomplete suggestion.
type SearchHit struct {
	Value int    `json:"value"`
	Label string `json:"label"`
	Class string `json:"class"`
}
