package admin

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("global property not found")

// GlobalProperty is a named runtime setting editable by administrators.
type GlobalProperty struct {
	Property    string    `db:"property" json:"property"`
	Value       string    `db:"property_value" json:"value"`
	Description string    `db:"description" json:"description,omitempty"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
