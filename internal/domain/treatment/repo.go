package treatment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	// Orders
	CreateOrder(ctx context.Context, o *Order) error
	GetOrder(ctx context.Context, id uuid.UUID) (*Order, error)
	UpdateOrder(ctx context.Context, o *Order) error
	DeleteOrder(ctx context.Context, id uuid.UUID) error
	ListOrdersByPatient(ctx context.Context, patientID uuid.UUID) ([]*Order, error)

	// Administrations
	CreateAdministration(ctx context.Context, a *Administration) error
	GetAdministration(ctx context.Context, id uuid.UUID) (*Administration, error)
	UpdateAdministration(ctx context.Context, a *Administration) error
	ListAdministrationsByOrder(ctx context.Context, orderID uuid.UUID) ([]*Administration, error)
	ListAdministrationsByPatient(ctx context.Context, patientID uuid.UUID) ([]*Administration, error)

	// CountOverduePending counts doses for the patient's active orders
	// that are still PENDING with a scheduled time before asOf.
	CountOverduePending(ctx context.Context, patientID uuid.UUID, asOf time.Time) (int, error)
}
