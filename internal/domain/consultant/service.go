package consultant

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateRound(ctx context.Context, r *Round) error {
	if r.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if r.ConsultantName == "" {
		return fmt.Errorf("consultant_name is required")
	}
	if r.Instructions == "" {
		return fmt.Errorf("instructions are required")
	}
	if r.RoundDate.IsZero() {
		r.RoundDate = time.Now().UTC()
	}
	// Acknowledgement happens through Acknowledge, never at creation.
	r.Acknowledged = false
	r.AcknowledgedBy = nil
	r.AcknowledgedAt = nil
	return s.repo.Create(ctx, r)
}

func (s *Service) GetRound(ctx context.Context, id uuid.UUID) (*Round, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Round, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

func (s *Service) UpdateRound(ctx context.Context, r *Round) error {
	existing, err := s.repo.GetByID(ctx, r.ID)
	if err != nil {
		return fmt.Errorf("consultant round not found: %w", err)
	}
	if r.ConsultantName == "" || r.Instructions == "" {
		return fmt.Errorf("consultant_name and instructions are required")
	}
	r.PatientID = existing.PatientID
	r.Acknowledged = existing.Acknowledged
	r.AcknowledgedBy = existing.AcknowledgedBy
	r.AcknowledgedAt = existing.AcknowledgedAt
	return s.repo.Update(ctx, r)
}

func (s *Service) DeleteRound(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// Acknowledge marks a round's instructions as seen and accepted.
func (s *Service) Acknowledge(ctx context.Context, id uuid.UUID, ackBy string) (*Round, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("consultant round not found: %w", err)
	}
	if r.Acknowledged {
		return nil, fmt.Errorf("round already acknowledged")
	}

	now := time.Now().UTC()
	r.Acknowledged = true
	r.AcknowledgedAt = &now
	if ackBy != "" {
		r.AcknowledgedBy = &ackBy
	}
	if err := s.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// CountUnacknowledged reports how many rounds still await a Medical
// Officer's acknowledgement.
func (s *Service) CountUnacknowledged(ctx context.Context, patientID uuid.UUID) (int, error) {
	return s.repo.CountUnacknowledged(ctx, patientID)
}
