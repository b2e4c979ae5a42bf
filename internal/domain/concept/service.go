package concept

import (
	"context"
	"fmt"
	"strings"
)

const defaultSearchLimit = 20

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetConcept returns the concept with the given dictionary id.
func (s *Service) GetConcept(ctx context.Context, id int) (*Concept, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid concept id %d: %w", id, ErrNotFound)
	}
	return s.repo.GetByID(ctx, id)
}

// GetConceptClassByName resolves a class name case-insensitively.
func (s *Service) GetConceptClassByName(ctx context.Context, name string) (*ConceptClass, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("empty concept class name: %w", ErrNotFound)
	}
	return s.repo.GetClassByName(ctx, name)
}

// Search returns autocomplete hits whose name contains query, restricted to
// classNames when given.
func (s *Service) Search(ctx context.Context, query string, classNames []string, limit int) ([]SearchHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []SearchHit{}, nil
	}
	if limit <= 0 || limit > 100 {
		limit = defaultSearchLimit
	}
	concepts, err := s.repo.Search(ctx, query, classNames, limit)
	if err != nil {
		return nil, err
	}
	hits := make([]SearchHit, 0, len(concepts))
	for _, c := range concepts {
		hits = append(hits, SearchHit{Value: c.ID, Label: c.Name, Class: c.ClassName})
	}
	return hits, nil
}
