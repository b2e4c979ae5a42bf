package concept

import "context"

type Repository interface {
	GetByID(ctx context.Context, id int) (*Concept, error)
	GetClassByName(ctx context.Context, name string) (*ConceptClass, error)
	Search(ctx context.Context, query string, classNames []string, limit int) ([]*Concept, error)
}
