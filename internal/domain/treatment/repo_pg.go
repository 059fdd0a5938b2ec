package treatment

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

const orderCols = `id, patient_id, medication, dose, route, frequency, status,
	ordered_by, start_date, end_date, created_at, updated_at`

const adminCols = `id, order_id, patient_id, scheduled_at, status,
	administered_at, administered_by, notes, created_at, updated_at`

func (r *repoPG) CreateOrder(ctx context.Context, o *Order) error {
	o.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO treatment_order (
			id, patient_id, medication, dose, route, frequency, status,
			ordered_by, start_date, end_date
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		o.ID, o.PatientID, o.Medication, o.Dose, o.Route, o.Frequency, o.Status,
		o.OrderedBy, o.StartDate, o.EndDate,
	)
	return err
}

func (r *repoPG) GetOrder(ctx context.Context, id uuid.UUID) (*Order, error) {
	return scanOrder(r.conn(ctx).QueryRow(ctx, `SELECT `+orderCols+` FROM treatment_order WHERE id = $1`, id))
}

func (r *repoPG) UpdateOrder(ctx context.Context, o *Order) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE treatment_order SET
			medication=$2, dose=$3, route=$4, frequency=$5, status=$6,
			ordered_by=$7, start_date=$8, end_date=$9, updated_at=NOW()
		WHERE id = $1`,
		o.ID, o.Medication, o.Dose, o.Route, o.Frequency, o.Status,
		o.OrderedBy, o.StartDate, o.EndDate,
	)
	return err
}

func (r *repoPG) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM treatment_order WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListOrdersByPatient(ctx context.Context, patientID uuid.UUID) ([]*Order, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+orderCols+` FROM treatment_order
		WHERE patient_id = $1
		ORDER BY created_at DESC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *repoPG) CreateAdministration(ctx context.Context, a *Administration) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO treatment_administration (
			id, order_id, patient_id, scheduled_at, status,
			administered_at, administered_by, notes
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		a.ID, a.OrderID, a.PatientID, a.ScheduledAt, a.Status,
		a.AdministeredAt, a.AdministeredBy, a.Notes,
	)
	return err
}

func (r *repoPG) GetAdministration(ctx context.Context, id uuid.UUID) (*Administration, error) {
	return scanAdministration(r.conn(ctx).QueryRow(ctx, `SELECT `+adminCols+` FROM treatment_administration WHERE id = $1`, id))
}

func (r *repoPG) UpdateAdministration(ctx context.Context, a *Administration) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE treatment_administration SET
			scheduled_at=$2, status=$3, administered_at=$4, administered_by=$5,
			notes=$6, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.ScheduledAt, a.Status, a.AdministeredAt, a.AdministeredBy, a.Notes,
	)
	return err
}

func (r *repoPG) ListAdministrationsByOrder(ctx context.Context, orderID uuid.UUID) ([]*Administration, error) {
	return r.listAdministrations(ctx, `order_id`, orderID)
}

func (r *repoPG) ListAdministrationsByPatient(ctx context.Context, patientID uuid.UUID) ([]*Administration, error) {
	return r.listAdministrations(ctx, `patient_id`, patientID)
}

func (r *repoPG) listAdministrations(ctx context.Context, column string, id uuid.UUID) ([]*Administration, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+adminCols+` FROM treatment_administration
		WHERE `+column+` = $1
		ORDER BY scheduled_at`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var admins []*Administration
	for rows.Next() {
		a, err := scanAdministration(rows)
		if err != nil {
			return nil, err
		}
		admins = append(admins, a)
	}
	return admins, rows.Err()
}

func (r *repoPG) CountOverduePending(ctx context.Context, patientID uuid.UUID, asOf time.Time) (int, error) {
	var count int
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*)
		FROM treatment_administration a
		JOIN treatment_order o ON o.id = a.order_id
		WHERE a.patient_id = $1
		  AND a.status = 'PENDING'
		  AND a.scheduled_at < $2
		  AND o.status = 'ACTIVE'`, patientID, asOf).Scan(&count)
	return count, err
}

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.PatientID, &o.Medication, &o.Dose, &o.Route, &o.Frequency,
		&o.Status, &o.OrderedBy, &o.StartDate, &o.EndDate, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func scanAdministration(row pgx.Row) (*Administration, error) {
	var a Administration
	err := row.Scan(
		&a.ID, &a.OrderID, &a.PatientID, &a.ScheduledAt, &a.Status,
		&a.AdministeredAt, &a.AdministeredBy, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
