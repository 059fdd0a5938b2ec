package progressnote

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) CreateNote(ctx context.Context, n *Note) error {
	if n.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if n.Note == "" {
		return fmt.Errorf("note text is required")
	}
	if n.NoteDate.IsZero() {
		n.NoteDate = DayOf(s.now())
	} else {
		n.NoteDate = DayOf(n.NoteDate)
	}

	// One note per patient per day; later entries amend the existing one.
	exists, err := s.repo.ExistsOnDate(ctx, n.PatientID, n.NoteDate)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("a progress note for %s already exists", n.NoteDate.Format("2006-01-02"))
	}
	return s.repo.Create(ctx, n)
}

func (s *Service) GetNote(ctx context.Context, id uuid.UUID) (*Note, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Note, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

func (s *Service) UpdateNote(ctx context.Context, n *Note) error {
	existing, err := s.repo.GetByID(ctx, n.ID)
	if err != nil {
		return fmt.Errorf("progress note not found: %w", err)
	}
	if n.Note == "" {
		return fmt.Errorf("note text is required")
	}
	// The clinical day a note covers does not move after the fact.
	n.PatientID = existing.PatientID
	n.NoteDate = existing.NoteDate
	return s.repo.Update(ctx, n)
}

func (s *Service) DeleteNote(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// HasNoteOn reports whether the patient has a note covering the given
// calendar day.
func (s *Service) HasNoteOn(ctx context.Context, patientID uuid.UUID, day time.Time) (bool, error) {
	return s.repo.ExistsOnDate(ctx, patientID, day)
}

// LatestOnOrBefore returns the most recent note dated on or before the
// given day.
func (s *Service) LatestOnOrBefore(ctx context.Context, patientID uuid.UUID, day time.Time) (*Note, error) {
	return s.repo.LatestOnOrBefore(ctx, patientID, day)
}
