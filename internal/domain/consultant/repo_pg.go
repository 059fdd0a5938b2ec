package consultant

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

const roundCols = `id, patient_id, consultant_name, instructions, round_date,
	acknowledged, acknowledged_by, acknowledged_at, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, rd *Round) error {
	rd.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO consultant_round (
			id, patient_id, consultant_name, instructions, round_date,
			acknowledged, acknowledged_by, acknowledged_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		rd.ID, rd.PatientID, rd.ConsultantName, rd.Instructions, rd.RoundDate,
		rd.Acknowledged, rd.AcknowledgedBy, rd.AcknowledgedAt,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Round, error) {
	return scanRound(r.conn(ctx).QueryRow(ctx, `SELECT `+roundCols+` FROM consultant_round WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, rd *Round) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE consultant_round SET
			consultant_name=$2, instructions=$3, round_date=$4,
			acknowledged=$5, acknowledged_by=$6, acknowledged_at=$7, updated_at=NOW()
		WHERE id = $1`,
		rd.ID, rd.ConsultantName, rd.Instructions, rd.RoundDate,
		rd.Acknowledged, rd.AcknowledgedBy, rd.AcknowledgedAt,
	)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM consultant_round WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Round, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+roundCols+` FROM consultant_round
		WHERE patient_id = $1
		ORDER BY round_date DESC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rounds []*Round
	for rows.Next() {
		rd, err := scanRound(rows)
		if err != nil {
			return nil, err
		}
		rounds = append(rounds, rd)
	}
	return rounds, rows.Err()
}

func (r *repoPG) CountUnacknowledged(ctx context.Context, patientID uuid.UUID) (int, error) {
	var count int
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*) FROM consultant_round
		WHERE patient_id = $1 AND acknowledged = FALSE`, patientID).Scan(&count)
	return count, err
}

func scanRound(row pgx.Row) (*Round, error) {
	var rd Round
	err := row.Scan(
		&rd.ID, &rd.PatientID, &rd.ConsultantName, &rd.Instructions, &rd.RoundDate,
		&rd.Acknowledged, &rd.AcknowledgedBy, &rd.AcknowledgedAt, &rd.CreatedAt, &rd.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rd, nil
}
