package patient

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	GetByMRNumber(ctx context.Context, mrNumber string) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Patient, int, error)
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Patient, int, error)

	// Status history
	AddStatusHistory(ctx context.Context, sh *StatusHistory) error
	GetStatusHistory(ctx context.Context, patientID uuid.UUID) ([]*StatusHistory, error)

	// MR sequence. NextSequence atomically increments the per-year counter,
	// seeding it from seed+1 when no counter row exists yet.
	NextSequence(ctx context.Context, year string, seed int) (int, error)
	// LatestAdmittedSince returns the most recently admitted patient with
	// admission_date >= since, or nil when there is none.
	LatestAdmittedSince(ctx context.Context, since time.Time) (*Patient, error)
}
