package consent

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hms/hms/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (r *repoPG) conn(ctx context.Context) querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const formCols = `id, patient_id, form_type, is_completed, completed_at,
	signature, stamp, sign_date, sign_time, witness_name, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, f *Form) error {
	f.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO consent_form (
			id, patient_id, form_type, is_completed, completed_at,
			signature, stamp, sign_date, sign_time, witness_name
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		f.ID, f.PatientID, f.FormType, f.IsCompleted, f.CompletedAt,
		f.Signature, f.Stamp, f.SignDate, f.SignTime, f.WitnessName,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Form, error) {
	return scanForm(r.conn(ctx).QueryRow(ctx, `SELECT `+formCols+` FROM consent_form WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, f *Form) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE consent_form SET
			form_type=$2, is_completed=$3, completed_at=$4, signature=$5, stamp=$6,
			sign_date=$7, sign_time=$8, witness_name=$9, updated_at=NOW()
		WHERE id = $1`,
		f.ID, f.FormType, f.IsCompleted, f.CompletedAt, f.Signature, f.Stamp,
		f.SignDate, f.SignTime, f.WitnessName,
	)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM consent_form WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Form, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+formCols+` FROM consent_form
		WHERE patient_id = $1
		ORDER BY created_at`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var forms []*Form
	for rows.Next() {
		f, err := scanForm(rows)
		if err != nil {
			return nil, err
		}
		forms = append(forms, f)
	}
	return forms, rows.Err()
}

func (r *repoPG) CompletedFormTypes(ctx context.Context, patientID uuid.UUID) ([]string, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT DISTINCT form_type FROM consent_form
		WHERE patient_id = $1 AND is_completed = TRUE`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

func scanForm(row pgx.Row) (*Form, error) {
	var f Form
	err := row.Scan(
		&f.ID, &f.PatientID, &f.FormType, &f.IsCompleted, &f.CompletedAt,
		&f.Signature, &f.Stamp, &f.SignDate, &f.SignTime, &f.WitnessName,
		&f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
