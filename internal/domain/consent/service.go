package consent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateForm(ctx context.Context, f *Form) error {
	if f.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if !validFormTypes[f.FormType] {
		return fmt.Errorf("invalid form_type: %s", f.FormType)
	}
	// Forms start incomplete; completion requires a signing block.
	f.IsCompleted = false
	f.CompletedAt = nil
	return s.repo.Create(ctx, f)
}

func (s *Service) GetForm(ctx context.Context, id uuid.UUID) (*Form, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Form, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

func (s *Service) UpdateForm(ctx context.Context, f *Form) error {
	existing, err := s.repo.GetByID(ctx, f.ID)
	if err != nil {
		return fmt.Errorf("consent form not found: %w", err)
	}
	if f.FormType == "" {
		f.FormType = existing.FormType
	}
	if !validFormTypes[f.FormType] {
		return fmt.Errorf("invalid form_type: %s", f.FormType)
	}
	// Completion state only changes through CompleteForm.
	f.IsCompleted = existing.IsCompleted
	f.CompletedAt = existing.CompletedAt
	return s.repo.Update(ctx, f)
}

func (s *Service) DeleteForm(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// CompleteForm finalizes a consent form. The signing block must be
// complete; otherwise the form stays open and the missing fields are
// reported.
func (s *Service) CompleteForm(ctx context.Context, id uuid.UUID, sig SignaturePayload) (*Form, error) {
	result := ValidateSignature(sig)
	if !result.Valid {
		return nil, fmt.Errorf("incomplete signature: missing %s", strings.Join(result.Missing, ", "))
	}

	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("consent form not found: %w", err)
	}

	now := time.Now().UTC()
	f.IsCompleted = true
	f.CompletedAt = &now
	f.Signature = &sig.Signature
	f.Stamp = &sig.Stamp
	f.SignDate = &sig.Date
	f.SignTime = &sig.Time
	if err := s.repo.Update(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// CompletedFormTypes reports which form types a patient has completed.
func (s *Service) CompletedFormTypes(ctx context.Context, patientID uuid.UUID) ([]string, error) {
	return s.repo.CompletedFormTypes(ctx, patientID)
}
