package patient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hms/hms/internal/platform/db"
)

// DischargeGate is the blocking evaluator as seen from this package.
// A store failure surfaces as err, never as a permissive result.
type DischargeGate interface {
	CheckDischarge(ctx context.Context, patientID uuid.UUID) (blocked bool, reasons []string, err error)
}

// BlockedError is returned when a gated transition is rejected.
type BlockedError struct {
	Reasons []string
}

func (e *BlockedError) Error() string {
	return "action blocked: " + strings.Join(e.Reasons, "; ")
}

// ValidationError reports a rejected request payload, as opposed to a
// store failure.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func validationErrorf(format string, args ...interface{}) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

type Service struct {
	repo  Repository
	alloc *MRNAllocator
	pool  *pgxpool.Pool
	gate  DischargeGate
}

func NewService(repo Repository, alloc *MRNAllocator) *Service {
	return &Service{repo: repo, alloc: alloc}
}

// SetPool attaches the connection pool so registration and status
// transitions run their multi-statement writes inside one transaction.
func (s *Service) SetPool(pool *pgxpool.Pool) {
	s.pool = pool
}

// SetDischargeGate attaches the blocking evaluator used to gate
// discharge-class status transitions.
func (s *Service) SetDischargeGate(gate DischargeGate) {
	s.gate = gate
}

// Register creates a patient and assigns its MR number. The number is
// allocated and the row inserted in a single transaction when a pool is
// attached, so a failed insert never burns a visible sequence gap
// mid-registration.
func (s *Service) Register(ctx context.Context, p *Patient) error {
	if p.FirstName == "" || p.LastName == "" {
		return validationErrorf("first_name and last_name are required")
	}
	if !validAdmissionTypes[p.AdmissionType] {
		return validationErrorf("invalid admission_type: %s", p.AdmissionType)
	}
	if !validLocations[p.AdmissionLocation] {
		return validationErrorf("invalid admission_location: %s", p.AdmissionLocation)
	}
	if p.Status == "" {
		p.Status = StatusAdmitted
	}
	if !validStatuses[p.Status] {
		return validationErrorf("invalid status: %s", p.Status)
	}
	if p.AdmissionDate.IsZero() {
		p.AdmissionDate = time.Now().UTC()
	}

	register := func(ctx context.Context) error {
		number, err := s.alloc.Allocate(ctx, p.AdmissionType, p.AdmissionLocation)
		if err != nil {
			return fmt.Errorf("allocate mr number: %w", err)
		}
		p.MRNumber = number
		return s.repo.Create(ctx, p)
	}

	if s.pool != nil {
		return db.WithTx(ctx, s.pool, register)
	}
	return register(ctx)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByMRNumber(ctx context.Context, mrNumber string) (*Patient, error) {
	return s.repo.GetByMRNumber(ctx, mrNumber)
}

// Update modifies patient demographics. The MR number never changes,
// whatever the caller sends.
func (s *Service) Update(ctx context.Context, p *Patient) error {
	if p.FirstName == "" || p.LastName == "" {
		return validationErrorf("first_name and last_name are required")
	}
	existing, err := s.repo.GetByID(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("patient not found: %w", err)
	}
	p.MRNumber = existing.MRNumber
	if p.Status == "" {
		p.Status = existing.Status
	}
	if !validStatuses[p.Status] {
		return validationErrorf("invalid status: %s", p.Status)
	}
	return s.repo.Update(ctx, p)
}

// UpdateStatus transitions a patient to a new status, archiving the old
// one. Discharge-class transitions consult the blocking evaluator first
// and are rejected with a BlockedError while any applicable rule blocks.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, newStatus, changedBy string) error {
	if !validStatuses[newStatus] {
		return validationErrorf("invalid status: %s", newStatus)
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("patient not found: %w", err)
	}

	if dischargeStatuses[newStatus] && s.gate != nil {
		blocked, reasons, err := s.gate.CheckDischarge(ctx, id)
		if err != nil {
			return fmt.Errorf("discharge check: %w", err)
		}
		if blocked {
			return &BlockedError{Reasons: reasons}
		}
	}

	history := &StatusHistory{
		PatientID: id,
		Status:    p.Status,
	}
	if changedBy != "" {
		history.ChangedBy = &changedBy
	}

	// The update and the audit row land together or not at all.
	transition := func(ctx context.Context) error {
		p.Status = newStatus
		if err := s.repo.Update(ctx, p); err != nil {
			return fmt.Errorf("update status: %w", err)
		}
		if err := s.repo.AddStatusHistory(ctx, history); err != nil {
			return fmt.Errorf("add status history: %w", err)
		}
		return nil
	}

	if s.pool != nil {
		return db.WithTx(ctx, s.pool, transition)
	}
	return transition(ctx)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Patient, int, error) {
	return s.repo.Search(ctx, params, limit, offset)
}

func (s *Service) GetStatusHistory(ctx context.Context, patientID uuid.UUID) ([]*StatusHistory, error) {
	return s.repo.GetStatusHistory(ctx, patientID)
}
