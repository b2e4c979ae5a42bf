package form

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

// CreateForm validates the definition and stores it. The template must be
// well-formed XML with an <htmlform> root.
func (s *Service) CreateForm(ctx context.Context, f *Form) error {
	f.Name = strings.TrimSpace(f.Name)
	f.Version = strings.TrimSpace(f.Version)
	if err := s.validate.Struct(f); err != nil {
		return fmt.Errorf("invalid form: %w", err)
	}
	if err := checkTemplate(f.Template); err != nil {
		return err
	}
	return s.repo.Create(ctx, f)
}

func (s *Service) GetForm(ctx context.Context, id uuid.UUID) (*Form, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListForms(ctx context.Context, limit, offset int) ([]*Form, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func checkTemplate(tpl string) error {
	dec := xml.NewDecoder(strings.NewReader(tpl))
	root := ""
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("template is not well-formed: %w", err)
		}
		if se, ok := tok.(xml.StartElement); ok && root == "" {
			root = se.Name.Local
		}
	}
	if root != "htmlform" {
		return fmt.Errorf("template root must be <htmlform>, got <%s>", root)
	}
	return nil
}
