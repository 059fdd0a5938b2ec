package treatment

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

// -- Mock Repository --

type mockRepo struct {
	orders map[uuid.UUID]*Order
	admins map[uuid.UUID]*Administration
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		orders: make(map[uuid.UUID]*Order),
		admins: make(map[uuid.UUID]*Administration),
	}
}

func (m *mockRepo) CreateOrder(_ context.Context, o *Order) error {
	o.ID = uuid.New()
	o.CreatedAt = time.Now()
	o.UpdatedAt = time.Now()
	m.orders[o.ID] = o
	return nil
}

func (m *mockRepo) GetOrder(_ context.Context, id uuid.UUID) (*Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return o, nil
}

func (m *mockRepo) UpdateOrder(_ context.Context, o *Order) error {
	m.orders[o.ID] = o
	return nil
}

func (m *mockRepo) DeleteOrder(_ context.Context, id uuid.UUID) error {
	delete(m.orders, id)
	return nil
}

func (m *mockRepo) ListOrdersByPatient(_ context.Context, patientID uuid.UUID) ([]*Order, error) {
	var result []*Order
	for _, o := range m.orders {
		if o.PatientID == patientID {
			result = append(result, o)
		}
	}
	return result, nil
}

func (m *mockRepo) CreateAdministration(_ context.Context, a *Administration) error {
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()
	m.admins[a.ID] = a
	return nil
}

func (m *mockRepo) GetAdministration(_ context.Context, id uuid.UUID) (*Administration, error) {
	a, ok := m.admins[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return a, nil
}

func (m *mockRepo) UpdateAdministration(_ context.Context, a *Administration) error {
	m.admins[a.ID] = a
	return nil
}

func (m *mockRepo) ListAdministrationsByOrder(_ context.Context, orderID uuid.UUID) ([]*Administration, error) {
	var result []*Administration
	for _, a := range m.admins {
		if a.OrderID == orderID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *mockRepo) ListAdministrationsByPatient(_ context.Context, patientID uuid.UUID) ([]*Administration, error) {
	var result []*Administration
	for _, a := range m.admins {
		if a.PatientID == patientID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *mockRepo) CountOverduePending(_ context.Context, patientID uuid.UUID, asOf time.Time) (int, error) {
	count := 0
	for _, a := range m.admins {
		if a.PatientID != patientID || a.Status != AdminPending || !a.ScheduledAt.Before(asOf) {
			continue
		}
		if o, ok := m.orders[a.OrderID]; ok && o.Status == OrderActive {
			count++
		}
	}
	return count, nil
}

// -- Helpers --

func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	return NewService(repo), repo
}

func activeOrder(svc *Service, t *testing.T) *Order {
	t.Helper()
	o := &Order{PatientID: uuid.New(), Medication: "Ceftriaxone 1g"}
	if err := svc.CreateOrder(context.Background(), o); err != nil {
		t.Fatalf("create order: %v", err)
	}
	return o
}

// -- Order tests --

func TestCreateOrder(t *testing.T) {
	svc, _ := newTestService()

	o := &Order{PatientID: uuid.New(), Medication: "Paracetamol 500mg"}
	if err := svc.CreateOrder(context.Background(), o); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.Status != OrderActive {
		t.Errorf("expected default status ACTIVE, got %s", o.Status)
	}
	if o.StartDate.IsZero() {
		t.Error("expected start_date to be set")
	}
}

func TestCreateOrder_MedicationRequired(t *testing.T) {
	svc, _ := newTestService()

	o := &Order{PatientID: uuid.New()}
	if err := svc.CreateOrder(context.Background(), o); err == nil {
		t.Error("expected error for missing medication")
	}
}

func TestCreateOrder_InvalidStatus(t *testing.T) {
	svc, _ := newTestService()

	o := &Order{PatientID: uuid.New(), Medication: "X", Status: "PAUSED"}
	if err := svc.CreateOrder(context.Background(), o); err == nil {
		t.Error("expected error for invalid status")
	}
}

func TestDiscontinueOrder(t *testing.T) {
	svc, _ := newTestService()

	o := activeOrder(svc, t)
	if err := svc.DiscontinueOrder(context.Background(), o.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := svc.GetOrder(context.Background(), o.ID)
	if got.Status != OrderDiscontinued {
		t.Errorf("expected DISCONTINUED, got %s", got.Status)
	}
	if got.EndDate == nil {
		t.Error("expected end_date to be set")
	}
}

// -- Administration tests --

func TestScheduleAdministration(t *testing.T) {
	svc, _ := newTestService()
	o := activeOrder(svc, t)

	a := &Administration{OrderID: o.ID, ScheduledAt: time.Now().Add(time.Hour)}
	if err := svc.ScheduleAdministration(context.Background(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Status != AdminPending {
		t.Errorf("expected PENDING, got %s", a.Status)
	}
	if a.PatientID != o.PatientID {
		t.Error("expected patient_id copied from the order")
	}
}

func TestScheduleAdministration_InactiveOrder(t *testing.T) {
	svc, _ := newTestService()
	o := activeOrder(svc, t)
	svc.DiscontinueOrder(context.Background(), o.ID)

	a := &Administration{OrderID: o.ID, ScheduledAt: time.Now()}
	if err := svc.ScheduleAdministration(context.Background(), a); err == nil {
		t.Error("expected error for discontinued order")
	}
}

func TestScheduleAdministration_ScheduledAtRequired(t *testing.T) {
	svc, _ := newTestService()
	o := activeOrder(svc, t)

	a := &Administration{OrderID: o.ID}
	if err := svc.ScheduleAdministration(context.Background(), a); err == nil {
		t.Error("expected error for missing scheduled_at")
	}
}

func TestRecordAdministration(t *testing.T) {
	svc, _ := newTestService()
	o := activeOrder(svc, t)

	a := &Administration{OrderID: o.ID, ScheduledAt: time.Now()}
	svc.ScheduleAdministration(context.Background(), a)

	got, err := svc.RecordAdministration(context.Background(), a.ID, AdminAdministered, "nurse-1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != AdminAdministered {
		t.Errorf("expected ADMINISTERED, got %s", got.Status)
	}
	if got.AdministeredAt == nil {
		t.Error("expected administered_at to be set")
	}
	if got.AdministeredBy == nil || *got.AdministeredBy != "nurse-1" {
		t.Error("expected administered_by to be recorded")
	}
}

func TestRecordAdministration_AlreadyRecorded(t *testing.T) {
	svc, _ := newTestService()
	o := activeOrder(svc, t)

	a := &Administration{OrderID: o.ID, ScheduledAt: time.Now()}
	svc.ScheduleAdministration(context.Background(), a)
	svc.RecordAdministration(context.Background(), a.ID, AdminRefused, "nurse-1", nil)

	if _, err := svc.RecordAdministration(context.Background(), a.ID, AdminAdministered, "nurse-2", nil); err == nil {
		t.Error("expected error for already recorded dose")
	}
}

func TestRecordAdministration_InvalidStatus(t *testing.T) {
	svc, _ := newTestService()
	o := activeOrder(svc, t)

	a := &Administration{OrderID: o.ID, ScheduledAt: time.Now()}
	svc.ScheduleAdministration(context.Background(), a)

	if _, err := svc.RecordAdministration(context.Background(), a.ID, AdminPending, "nurse-1", nil); err == nil {
		t.Error("expected error for PENDING as a recorded status")
	}
}

// -- Gating --

type stubGate struct {
	blocked bool
	reasons []string
	err     error
}

func (g *stubGate) CheckAdministration(_ context.Context, _ uuid.UUID, _ time.Time) (bool, []string, error) {
	return g.blocked, g.reasons, g.err
}

func TestScheduleAdministration_Blocked(t *testing.T) {
	svc, repo := newTestService()
	svc.SetAdministrationGate(&stubGate{blocked: true, reasons: []string{"previous dose still pending"}})
	o := activeOrder(svc, t)

	a := &Administration{OrderID: o.ID, ScheduledAt: time.Now()}
	err := svc.ScheduleAdministration(context.Background(), a)
	var blocked *BlockedError
	if !errors.As(err, &blocked) {
		t.Fatalf("expected BlockedError, got %v", err)
	}
	if len(repo.admins) != 0 {
		t.Error("no dose row should exist when blocked")
	}
}

func TestScheduleAdministration_GateError_FailsClosed(t *testing.T) {
	svc, repo := newTestService()
	svc.SetAdministrationGate(&stubGate{err: errors.New("store unavailable")})
	o := activeOrder(svc, t)

	a := &Administration{OrderID: o.ID, ScheduledAt: time.Now()}
	err := svc.ScheduleAdministration(context.Background(), a)
	if err == nil {
		t.Fatal("expected error when gate check fails")
	}
	var blocked *BlockedError
	if errors.As(err, &blocked) {
		t.Error("gate failure should surface as a plain error, not a block")
	}
	if len(repo.admins) != 0 {
		t.Error("no dose row should exist on gate failure")
	}
}

// -- Overdue counting --

func TestCountOverduePending(t *testing.T) {
	svc, repo := newTestService()
	o := activeOrder(svc, t)

	past := &Administration{OrderID: o.ID, ScheduledAt: time.Now().Add(-2 * time.Hour)}
	future := &Administration{OrderID: o.ID, ScheduledAt: time.Now().Add(2 * time.Hour)}
	svc.ScheduleAdministration(context.Background(), past)
	svc.ScheduleAdministration(context.Background(), future)

	count, err := repo.CountOverduePending(context.Background(), o.PatientID, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 overdue pending dose, got %d", count)
	}

	// Recording the overdue dose clears the count.
	svc.RecordAdministration(context.Background(), past.ID, AdminAdministered, "nurse-1", nil)
	count, _ = repo.CountOverduePending(context.Background(), o.PatientID, time.Now())
	if count != 0 {
		t.Errorf("expected 0 after recording, got %d", count)
	}
}

func TestCountOverduePending_IgnoresDiscontinuedOrders(t *testing.T) {
	svc, repo := newTestService()
	o := activeOrder(svc, t)

	past := &Administration{OrderID: o.ID, ScheduledAt: time.Now().Add(-2 * time.Hour)}
	svc.ScheduleAdministration(context.Background(), past)
	svc.DiscontinueOrder(context.Background(), o.ID)

	count, _ := repo.CountOverduePending(context.Background(), o.PatientID, time.Now())
	if count != 0 {
		t.Errorf("expected 0 for discontinued order, got %d", count)
	}
}
