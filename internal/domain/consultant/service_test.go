package consultant

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

// -- Mock Repository --

type mockRepo struct {
	rounds map[uuid.UUID]*Round
}

func newMockRepo() *mockRepo {
	return &mockRepo{rounds: make(map[uuid.UUID]*Round)}
}

func (m *mockRepo) Create(_ context.Context, r *Round) error {
	r.ID = uuid.New()
	r.CreatedAt = time.Now()
	r.UpdatedAt = time.Now()
	m.rounds[r.ID] = r
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Round, error) {
	r, ok := m.rounds[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return r, nil
}

func (m *mockRepo) Update(_ context.Context, r *Round) error {
	m.rounds[r.ID] = r
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.rounds, id)
	return nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*Round, error) {
	var result []*Round
	for _, r := range m.rounds {
		if r.PatientID == patientID {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *mockRepo) CountUnacknowledged(_ context.Context, patientID uuid.UUID) (int, error) {
	count := 0
	for _, r := range m.rounds {
		if r.PatientID == patientID && !r.Acknowledged {
			count++
		}
	}
	return count, nil
}

func newTestService() *Service {
	return NewService(newMockRepo())
}

func sampleRound() *Round {
	return &Round{
		PatientID:      uuid.New(),
		ConsultantName: "Dr. Mehmood",
		Instructions:   "Start IV antibiotics, repeat CBC in the morning.",
	}
}

// -- Tests --

func TestCreateRound(t *testing.T) {
	svc := newTestService()

	r := sampleRound()
	if err := svc.CreateRound(context.Background(), r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Acknowledged {
		t.Error("new rounds must start unacknowledged")
	}
	if r.RoundDate.IsZero() {
		t.Error("expected round_date to be set")
	}
}

func TestCreateRound_InstructionsRequired(t *testing.T) {
	svc := newTestService()

	r := sampleRound()
	r.Instructions = ""
	if err := svc.CreateRound(context.Background(), r); err == nil {
		t.Error("expected error for missing instructions")
	}
}

func TestCreateRound_IgnoresSubmittedAcknowledgement(t *testing.T) {
	svc := newTestService()

	ackBy := "mo-1"
	now := time.Now()
	r := sampleRound()
	r.Acknowledged = true
	r.AcknowledgedBy = &ackBy
	r.AcknowledgedAt = &now
	if err := svc.CreateRound(context.Background(), r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Acknowledged || r.AcknowledgedBy != nil || r.AcknowledgedAt != nil {
		t.Error("acknowledgement must not be settable at creation")
	}
}

func TestAcknowledge(t *testing.T) {
	svc := newTestService()

	r := sampleRound()
	svc.CreateRound(context.Background(), r)

	got, err := svc.Acknowledge(context.Background(), r.ID, "mo-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Acknowledged {
		t.Error("expected round to be acknowledged")
	}
	if got.AcknowledgedBy == nil || *got.AcknowledgedBy != "mo-1" {
		t.Error("expected acknowledged_by to be recorded")
	}
	if got.AcknowledgedAt == nil {
		t.Error("expected acknowledged_at to be set")
	}
}

func TestAcknowledge_Twice(t *testing.T) {
	svc := newTestService()

	r := sampleRound()
	svc.CreateRound(context.Background(), r)
	svc.Acknowledge(context.Background(), r.ID, "mo-1")

	if _, err := svc.Acknowledge(context.Background(), r.ID, "mo-2"); err == nil {
		t.Error("expected error for double acknowledgement")
	}
}

func TestUpdateRound_PreservesAcknowledgement(t *testing.T) {
	svc := newTestService()

	r := sampleRound()
	svc.CreateRound(context.Background(), r)
	svc.Acknowledge(context.Background(), r.ID, "mo-1")

	update := &Round{ID: r.ID, ConsultantName: r.ConsultantName, Instructions: "Revised plan."}
	if err := svc.UpdateRound(context.Background(), update); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _ := svc.GetRound(context.Background(), r.ID)
	if !got.Acknowledged {
		t.Error("update must not clear acknowledgement")
	}
	if got.Instructions != "Revised plan." {
		t.Errorf("expected revised instructions, got %q", got.Instructions)
	}
}

func TestCountUnacknowledged(t *testing.T) {
	svc := newTestService()
	patientID := uuid.New()

	for i := 0; i < 3; i++ {
		r := sampleRound()
		r.PatientID = patientID
		svc.CreateRound(context.Background(), r)
		if i == 0 {
			svc.Acknowledge(context.Background(), r.ID, "mo-1")
		}
	}

	count, err := svc.CountUnacknowledged(context.Background(), patientID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 unacknowledged rounds, got %d", count)
	}
}
