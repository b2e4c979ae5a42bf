package form

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("form not found")

// Form is a versioned HTML form definition. Template holds the <htmlform> markup.
type Form struct {
	ID          uuid.UUID `db:"form_id" json:"id"`
	Name        string    `db:"name" json:"name" validate:"required,max=255"`
	Version     string    `db:"version" json:"version" validate:"required,max=50"`
	Description string    `db:"description" json:"description,omitempty"`
	Template    string    `db:"template" json:"template" validate:"required"`
	Published   bool      `db:"published" json:"published"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
