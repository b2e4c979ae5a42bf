package admin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ehr/formentry/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) Get(ctx context.Context, property string) (*GlobalProperty, error) {
	var gp GlobalProperty
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		SELECT property, COALESCE(property_value, ''), COALESCE(description, ''), updated_at
		FROM global_property WHERE property = $1`, property).
		Scan(&gp.Property, &gp.Value, &gp.Description, &gp.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get global property: %w", err)
	}
	return &gp, nil
}

func (r *repoPG) Upsert(ctx context.Context, gp *GlobalProperty) error {
	gp.UpdatedAt = time.Now().UTC()
	_, err := db.Conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO global_property (property, property_value, description, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4)
		ON CONFLICT (property) DO UPDATE
		SET property_value = EXCLUDED.property_value,
			description = COALESCE(EXCLUDED.description, global_property.description),
			updated_at = EXCLUDED.updated_at`,
		gp.Property, gp.Value, gp.Description, gp.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save global property: %w", err)
	}
	return nil
}
