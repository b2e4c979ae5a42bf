package htmlform

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ehr/formentry/internal/domain/concept"
)

// ConceptService resolves dictionary entries referenced by a form.
type ConceptService interface {
	GetConcept(ctx context.Context, id int) (*concept.Concept, error)
	GetConceptClassByName(ctx context.Context, name string) (*concept.ConceptClass, error)
}

// GlobalProperties reads runtime settings. An unset property reads as "".
type GlobalProperties interface {
	GetGlobalProperty(ctx context.Context, property string) (string, error)
}

// MessageSource localizes message keys for the locale on ctx.
type MessageSource interface {
	GetMessage(ctx context.Context, key string, args ...interface{}) string
}

// Services are the collaborators form elements are built with.
type Services struct {
	Concepts   ConceptService
	Properties GlobalProperties
	Messages   MessageSource
	Logger     zerolog.Logger
}
