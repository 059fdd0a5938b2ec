package consent

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, f *Form) error
	GetByID(ctx context.Context, id uuid.UUID) (*Form, error)
	Update(ctx context.Context, f *Form) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Form, error)
	// CompletedFormTypes returns the distinct form types completed for
	// a patient.
	CompletedFormTypes(ctx context.Context, patientID uuid.UUID) ([]string, error)
}
