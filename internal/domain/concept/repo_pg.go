package concept

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ehr/formentry/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const conceptCols = `c.concept_id, c.uuid, c.name, cc.name, c.code_system, c.code, c.retired`

const conceptFrom = ` FROM concept c JOIN concept_class cc ON cc.concept_class_id = c.class_id`

func scanConcept(row pgx.Row) (*Concept, error) {
	var c Concept
	err := row.Scan(&c.ID, &c.UUID, &c.Name, &c.ClassName, &c.CodeSystem, &c.Code, &c.Retired)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &c, err
}

func (r *repoPG) GetByID(ctx context.Context, id int) (*Concept, error) {
	return scanConcept(db.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+conceptCols+conceptFrom+` WHERE c.concept_id = $1`, id))
}

func (r *repoPG) GetClassByName(ctx context.Context, name string) (*ConceptClass, error) {
	var cc ConceptClass
	err := db.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT concept_class_id, name, COALESCE(description,'') FROM concept_class WHERE lower(name) = lower($1)`, name).
		Scan(&cc.ID, &cc.Name, &cc.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("concept class lookup: %w", err)
	}
	return &cc, nil
}

func (r *repoPG) Search(ctx context.Context, query string, classNames []string, limit int) ([]*Concept, error) {
	sql := `SELECT ` + conceptCols + conceptFrom + ` WHERE NOT c.retired AND c.name ILIKE $1`
	args := []interface{}{"%" + query + "%"}
	if len(classNames) > 0 {
		sql += ` AND cc.name = ANY($2)`
		args = append(args, classNames)
	}
	sql += fmt.Sprintf(` ORDER BY c.name LIMIT %d`, limit)

	rows, err := db.Conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("concept search: %w", err)
	}
	defer rows.Close()

	var out []*Concept
	for rows.Next() {
		c, err := scanConcept(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
