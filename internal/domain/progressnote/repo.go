package progressnote

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, n *Note) error
	GetByID(ctx context.Context, id uuid.UUID) (*Note, error)
	Update(ctx context.Context, n *Note) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Note, error)
	// LatestOnOrBefore returns the most recent note dated on or before
	// the given calendar day, or pgx.ErrNoRows when none exists.
	LatestOnOrBefore(ctx context.Context, patientID uuid.UUID, day time.Time) (*Note, error)
	// ExistsOnDate reports whether the patient has a note for the given
	// calendar day.
	ExistsOnDate(ctx context.Context, patientID uuid.UUID, day time.Time) (bool, error)
}
