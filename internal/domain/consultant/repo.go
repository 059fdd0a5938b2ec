package consultant

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, r *Round) error
	GetByID(ctx context.Context, id uuid.UUID) (*Round, error)
	Update(ctx context.Context, r *Round) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Round, error)
	// CountUnacknowledged counts rounds whose instructions have not yet
	// been acknowledged.
	CountUnacknowledged(ctx context.Context, patientID uuid.UUID) (int, error)
}
