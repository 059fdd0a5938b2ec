package progressnote

import (
	"context"
	"time"

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

const noteCols = `id, patient_id, note_date, note, vitals, author, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, n *Note) error {
	n.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO daily_progress_note (id, patient_id, note_date, note, vitals, author)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		n.ID, n.PatientID, n.NoteDate, n.Note, n.Vitals, n.Author,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Note, error) {
	return scanNote(r.conn(ctx).QueryRow(ctx, `SELECT `+noteCols+` FROM daily_progress_note WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, n *Note) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE daily_progress_note SET note_date=$2, note=$3, vitals=$4, author=$5, updated_at=NOW()
		WHERE id = $1`,
		n.ID, n.NoteDate, n.Note, n.Vitals, n.Author,
	)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM daily_progress_note WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Note, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+noteCols+` FROM daily_progress_note
		WHERE patient_id = $1
		ORDER BY note_date DESC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []*Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (r *repoPG) ExistsOnDate(ctx context.Context, patientID uuid.UUID, day time.Time) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM daily_progress_note
			WHERE patient_id = $1 AND note_date = $2
		)`, patientID, DayOf(day)).Scan(&exists)
	return exists, err
}

func (r *repoPG) LatestOnOrBefore(ctx context.Context, patientID uuid.UUID, day time.Time) (*Note, error) {
	return scanNote(r.conn(ctx).QueryRow(ctx, `
		SELECT `+noteCols+` FROM daily_progress_note
		WHERE patient_id = $1 AND note_date <= $2
		ORDER BY note_date DESC
		LIMIT 1`, patientID, DayOf(day)))
}

func scanNote(row pgx.Row) (*Note, error) {
	var n Note
	err := row.Scan(&n.ID, &n.PatientID, &n.NoteDate, &n.Note, &n.Vitals, &n.Author, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
