package treatment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AdministrationGate is the blocking evaluator as seen from this
// package. It decides whether a new dose may be scheduled for the
// patient on the given day.
type AdministrationGate interface {
	CheckAdministration(ctx context.Context, patientID uuid.UUID, forDate time.Time) (blocked bool, reasons []string, err error)
}

// BlockedError is returned when scheduling a dose is rejected.
type BlockedError struct {
	Reasons []string
}

func (e *BlockedError) Error() string {
	return "administration blocked: " + strings.Join(e.Reasons, "; ")
}

type Service struct {
	repo Repository
	gate AdministrationGate
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SetAdministrationGate attaches the blocking evaluator consulted
// before a new dose is scheduled.
func (s *Service) SetAdministrationGate(gate AdministrationGate) {
	s.gate = gate
}

// -- Orders --

func (s *Service) CreateOrder(ctx context.Context, o *Order) error {
	if o.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if o.Medication == "" {
		return fmt.Errorf("medication is required")
	}
	if o.Status == "" {
		o.Status = OrderActive
	}
	if !validOrderStatuses[o.Status] {
		return fmt.Errorf("invalid status: %s", o.Status)
	}
	if o.StartDate.IsZero() {
		o.StartDate = time.Now().UTC()
	}
	return s.repo.CreateOrder(ctx, o)
}

func (s *Service) GetOrder(ctx context.Context, id uuid.UUID) (*Order, error) {
	return s.repo.GetOrder(ctx, id)
}

func (s *Service) ListOrdersByPatient(ctx context.Context, patientID uuid.UUID) ([]*Order, error) {
	return s.repo.ListOrdersByPatient(ctx, patientID)
}

func (s *Service) UpdateOrder(ctx context.Context, o *Order) error {
	existing, err := s.repo.GetOrder(ctx, o.ID)
	if err != nil {
		return fmt.Errorf("treatment order not found: %w", err)
	}
	o.PatientID = existing.PatientID
	if o.Medication == "" {
		return fmt.Errorf("medication is required")
	}
	if o.Status == "" {
		o.Status = existing.Status
	}
	if !validOrderStatuses[o.Status] {
		return fmt.Errorf("invalid status: %s", o.Status)
	}
	return s.repo.UpdateOrder(ctx, o)
}

func (s *Service) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteOrder(ctx, id)
}

// DiscontinueOrder closes an order; its pending doses stop counting
// against the overdue check.
func (s *Service) DiscontinueOrder(ctx context.Context, id uuid.UUID) error {
	o, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return fmt.Errorf("treatment order not found: %w", err)
	}
	o.Status = OrderDiscontinued
	now := time.Now().UTC()
	o.EndDate = &now
	return s.repo.UpdateOrder(ctx, o)
}

// -- Administrations --

// ScheduleAdministration creates a PENDING dose for an order. The
// blocking evaluator runs first; a store failure rejects the request
// rather than letting the dose through unchecked.
func (s *Service) ScheduleAdministration(ctx context.Context, a *Administration) error {
	if a.OrderID == uuid.Nil {
		return fmt.Errorf("order_id is required")
	}
	order, err := s.repo.GetOrder(ctx, a.OrderID)
	if err != nil {
		return fmt.Errorf("treatment order not found: %w", err)
	}
	if order.Status != OrderActive {
		return fmt.Errorf("order is %s, only ACTIVE orders accept doses", order.Status)
	}
	a.PatientID = order.PatientID
	if a.ScheduledAt.IsZero() {
		return fmt.Errorf("scheduled_at is required")
	}

	if s.gate != nil {
		blocked, reasons, err := s.gate.CheckAdministration(ctx, a.PatientID, a.ScheduledAt)
		if err != nil {
			return fmt.Errorf("administration check: %w", err)
		}
		if blocked {
			return &BlockedError{Reasons: reasons}
		}
	}

	a.Status = AdminPending
	a.AdministeredAt = nil
	return s.repo.CreateAdministration(ctx, a)
}

// RecordAdministration resolves a pending dose to ADMINISTERED, MISSED
// or REFUSED.
func (s *Service) RecordAdministration(ctx context.Context, id uuid.UUID, status, recordedBy string, notes *string) (*Administration, error) {
	if !recordedStatuses[status] {
		return nil, fmt.Errorf("invalid administration status: %s", status)
	}
	a, err := s.repo.GetAdministration(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("administration not found: %w", err)
	}
	if a.Status != AdminPending {
		return nil, fmt.Errorf("administration already recorded as %s", a.Status)
	}

	now := time.Now().UTC()
	a.Status = status
	a.AdministeredAt = &now
	if recordedBy != "" {
		a.AdministeredBy = &recordedBy
	}
	if notes != nil {
		a.Notes = notes
	}
	if err := s.repo.UpdateAdministration(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) ListAdministrationsByOrder(ctx context.Context, orderID uuid.UUID) ([]*Administration, error) {
	return s.repo.ListAdministrationsByOrder(ctx, orderID)
}

func (s *Service) ListAdministrationsByPatient(ctx context.Context, patientID uuid.UUID) ([]*Administration, error) {
	return s.repo.ListAdministrationsByPatient(ctx, patientID)
}

// CountOverduePending reports pending doses for active orders past
// their scheduled time.
func (s *Service) CountOverduePending(ctx context.Context, patientID uuid.UUID, asOf time.Time) (int, error) {
	return s.repo.CountOverduePending(ctx, patientID, asOf)
}
