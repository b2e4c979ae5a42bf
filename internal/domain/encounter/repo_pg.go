package encounter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
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

func (r *repoPG) conn(ctx context.Context) db.Queryable {
	return db.Conn(ctx, r.pool)
}

const encCols = `encounter_id, patient_id, form_id, encounter_datetime, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, enc *Encounter) error {
	enc.ID = uuid.New()
	now := time.Now().UTC()
	enc.CreatedAt, enc.UpdatedAt = now, now
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO encounter (`+encCols+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		enc.ID, enc.PatientID, enc.FormID, enc.EncounterDatetime, enc.CreatedAt, enc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert encounter: %w", err)
	}
	return nil
}

func (r *repoPG) Update(ctx context.Context, enc *Encounter) error {
	enc.UpdatedAt = time.Now().UTC()
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE encounter SET encounter_datetime = $2, updated_at = $3 WHERE encounter_id = $1`,
		enc.ID, enc.EncounterDatetime, enc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update encounter: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Encounter, error) {
	var enc Encounter
	err := r.conn(ctx).QueryRow(ctx, `SELECT `+encCols+` FROM encounter WHERE encounter_id = $1`, id).
		Scan(&enc.ID, &enc.PatientID, &enc.FormID, &enc.EncounterDatetime, &enc.CreatedAt, &enc.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &enc, nil
}
