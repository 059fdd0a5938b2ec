package patient

import (
	"context"
	"errors"
	"fmt"
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

const patientCols = `id, mr_number, first_name, last_name, guardian_name, gender, birth_date,
	phone_mobile, address, admission_type, admission_location, admission_date,
	status, attending_id, diagnosis, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO patient (
			id, mr_number, first_name, last_name, guardian_name, gender, birth_date,
			phone_mobile, address, admission_type, admission_location, admission_date,
			status, attending_id, diagnosis
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		p.ID, p.MRNumber, p.FirstName, p.LastName, p.GuardianName, p.Gender, p.BirthDate,
		p.PhoneMobile, p.Address, p.AdmissionType, p.AdmissionLocation, p.AdmissionDate,
		p.Status, p.AttendingID, p.Diagnosis,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return scanPatient(r.conn(ctx).QueryRow(ctx, `SELECT `+patientCols+` FROM patient WHERE id = $1`, id))
}

func (r *repoPG) GetByMRNumber(ctx context.Context, mrNumber string) (*Patient, error) {
	return scanPatient(r.conn(ctx).QueryRow(ctx, `SELECT `+patientCols+` FROM patient WHERE mr_number = $1`, mrNumber))
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	// mr_number is deliberately absent: it is immutable after registration.
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE patient SET
			first_name=$2, last_name=$3, guardian_name=$4, gender=$5, birth_date=$6,
			phone_mobile=$7, address=$8, admission_type=$9, admission_location=$10,
			admission_date=$11, status=$12, attending_id=$13, diagnosis=$14, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.FirstName, p.LastName, p.GuardianName, p.Gender, p.BirthDate,
		p.PhoneMobile, p.Address, p.AdmissionType, p.AdmissionLocation,
		p.AdmissionDate, p.Status, p.AttendingID, p.Diagnosis,
	)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM patient WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patient`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+patientCols+` FROM patient ORDER BY admission_date DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectPatients(rows, total)
}

func (r *repoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Patient, int, error) {
	where := ""
	args := []interface{}{}
	add := func(clause string, val interface{}) {
		args = append(args, val)
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += fmt.Sprintf(clause, len(args))
	}

	if name := params["name"]; name != "" {
		add(`(first_name ILIKE '%%' || $%d || '%%' OR last_name ILIKE '%%' || $%[1]d || '%%')`, name)
	}
	if status := params["status"]; status != "" {
		add(`status = $%d`, status)
	}
	if at := params["admission_type"]; at != "" {
		add(`admission_type = $%d`, at)
	}
	if loc := params["admission_location"]; loc != "" {
		add(`admission_location = $%d`, loc)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patient`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx,
		fmt.Sprintf(`SELECT %s FROM patient%s ORDER BY admission_date DESC LIMIT $%d OFFSET $%d`,
			patientCols, where, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectPatients(rows, total)
}

func (r *repoPG) AddStatusHistory(ctx context.Context, sh *StatusHistory) error {
	sh.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO patient_status_history (id, patient_id, status, changed_by)
		VALUES ($1,$2,$3,$4)`,
		sh.ID, sh.PatientID, sh.Status, sh.ChangedBy,
	)
	return err
}

func (r *repoPG) GetStatusHistory(ctx context.Context, patientID uuid.UUID) ([]*StatusHistory, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, patient_id, status, changed_by, changed_at
		FROM patient_status_history WHERE patient_id = $1 ORDER BY changed_at`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []*StatusHistory
	for rows.Next() {
		var sh StatusHistory
		if err := rows.Scan(&sh.ID, &sh.PatientID, &sh.Status, &sh.ChangedBy, &sh.ChangedAt); err != nil {
			return nil, err
		}
		history = append(history, &sh)
	}
	return history, nil
}

// NextSequence increments the per-year MR counter in a single statement.
// The seed only matters on the first allocation of a year: an existing
// counter row wins over whatever the caller recovered.
func (r *repoPG) NextSequence(ctx context.Context, year string, seed int) (int, error) {
	var value int
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO mr_sequence (year, value) VALUES ($1, $2 + 1)
		ON CONFLICT (year) DO UPDATE SET value = mr_sequence.value + 1
		RETURNING value`,
		year, seed,
	).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("next mr sequence for %s: %w", year, err)
	}
	return value, nil
}

func (r *repoPG) LatestAdmittedSince(ctx context.Context, since time.Time) (*Patient, error) {
	p, err := scanPatient(r.conn(ctx).QueryRow(ctx,
		`SELECT `+patientCols+` FROM patient WHERE admission_date >= $1 ORDER BY admission_date DESC LIMIT 1`,
		since))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(
		&p.ID, &p.MRNumber, &p.FirstName, &p.LastName, &p.GuardianName, &p.Gender, &p.BirthDate,
		&p.PhoneMobile, &p.Address, &p.AdmissionType, &p.AdmissionLocation, &p.AdmissionDate,
		&p.Status, &p.AttendingID, &p.Diagnosis, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func collectPatients(rows pgx.Rows, total int) ([]*Patient, int, error) {
	var patients []*Patient
	for rows.Next() {
		var p Patient
		err := rows.Scan(
			&p.ID, &p.MRNumber, &p.FirstName, &p.LastName, &p.GuardianName, &p.Gender, &p.BirthDate,
			&p.PhoneMobile, &p.Address, &p.AdmissionType, &p.AdmissionLocation, &p.AdmissionDate,
			&p.Status, &p.AttendingID, &p.Diagnosis, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		patients = append(patients, &p)
	}
	return patients, total, nil
}
