package condition

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ehr/formentry/internal/domain/concept"
	"github.com/ehr/formentry/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const condCols = `cd.condition_id, cd.patient_id, cd.encounter_id, cd.condition_non_coded,
	cd.clinical_status, cd.onset_date, cd.end_date, cd.additional_detail,
	cd.form_namespace_and_path, cd.voided, cd.created_at, cd.updated_at,
	c.concept_id, c.uuid, c.name, cc.name, c.code_system, c.code`

const condFrom = ` FROM condition cd
	LEFT JOIN concept c ON c.concept_id = cd.concept_id
	LEFT JOIN concept_class cc ON cc.concept_class_id = c.class_id`

func scanCondition(row pgx.Row) (*Condition, error) {
	var (
		cd                            Condition
		nonCoded, detail, formPath    *string
		cid                           *int
		conceptUUID, conceptName, cls *string
		codeSystem, code              *string
	)
	err := row.Scan(&cd.ID, &cd.PatientID, &cd.EncounterID, &nonCoded,
		&cd.ClinicalStatus, &cd.OnsetDate, &cd.EndDate, &detail,
		&formPath, &cd.Voided, &cd.CreatedAt, &cd.UpdatedAt,
		&cid, &conceptUUID, &conceptName, &cls, &codeSystem, &code)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	cd.Condition.NonCoded = strVal(nonCoded)
	cd.AdditionalDetail = strVal(detail)
	cd.FormNamespaceAndPath = strVal(formPath)
	if cid != nil {
		cd.Condition.Coded = &concept.Concept{
			ID:         *cid,
			UUID:       strVal(conceptUUID),
			Name:       strVal(conceptName),
			ClassName:  strVal(cls),
			CodeSystem: codeSystem,
			Code:       code,
		}
	}
	return &cd, nil
}

func conceptID(c *Condition) *int {
	if c.Condition.Coded == nil {
		return nil
	}
	return &c.Condition.Coded.ID
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *repoPG) Create(ctx context.Context, c *Condition) error {
	c.ID = uuid.New()
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	_, err := db.Conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO condition (condition_id, patient_id, encounter_id, concept_id, condition_non_coded,
			clinical_status, onset_date, end_date, additional_detail, form_namespace_and_path,
			voided, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		c.ID, c.PatientID, c.EncounterID, conceptID(c), nullable(c.Condition.NonCoded),
		c.ClinicalStatus, c.OnsetDate, c.EndDate, nullable(c.AdditionalDetail), nullable(c.FormNamespaceAndPath),
		c.Voided, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert condition: %w", err)
	}
	return nil
}

func (r *repoPG) Update(ctx context.Context, c *Condition) error {
	c.UpdatedAt = time.Now().UTC()
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `
		UPDATE condition SET encounter_id=$2, concept_id=$3, condition_non_coded=$4, clinical_status=$5,
			onset_date=$6, end_date=$7, additional_detail=$8, form_namespace_and_path=$9,
			voided=$10, updated_at=$11
		WHERE condition_id = $1`,
		c.ID, c.EncounterID, conceptID(c), nullable(c.Condition.NonCoded), c.ClinicalStatus,
		c.OnsetDate, c.EndDate, nullable(c.AdditionalDetail), nullable(c.FormNamespaceAndPath),
		c.Voided, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update condition: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Condition, error) {
	return scanCondition(db.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+condCols+condFrom+` WHERE cd.condition_id = $1`, id))
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Condition, int, error) {
	q := db.Conn(ctx, r.pool)
	var total int
	if err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM condition WHERE patient_id = $1 AND NOT voided`, patientID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count conditions: %w", err)
	}
	rows, err := q.Query(ctx, `SELECT `+condCols+condFrom+`
		WHERE cd.patient_id = $1 AND NOT cd.voided
		ORDER BY cd.created_at DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list conditions: %w", err)
	}
	items, err := collect(rows)
	return items, total, err
}

func (r *repoPG) ListByEncounter(ctx context.Context, encounterID uuid.UUID) ([]*Condition, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `SELECT `+condCols+condFrom+`
		WHERE cd.encounter_id = $1 ORDER BY cd.created_at`, encounterID)
	if err != nil {
		return nil, fmt.Errorf("list encounter conditions: %w", err)
	}
	return collect(rows)
}

func collect(rows pgx.Rows) ([]*Condition, error) {
	defer rows.Close()
	var out []*Condition
	for rows.Next() {
		c, err := scanCondition(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
