package consent

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

// -- Mock Repository --

type mockRepo struct {
	forms map[uuid.UUID]*Form
}

func newMockRepo() *mockRepo {
	return &mockRepo{forms: make(map[uuid.UUID]*Form)}
}

func (m *mockRepo) Create(_ context.Context, f *Form) error {
	f.ID = uuid.New()
	f.CreatedAt = time.Now()
	f.UpdatedAt = time.Now()
	m.forms[f.ID] = f
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Form, error) {
	f, ok := m.forms[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return f, nil
}

func (m *mockRepo) Update(_ context.Context, f *Form) error {
	m.forms[f.ID] = f
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.forms, id)
	return nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*Form, error) {
	var result []*Form
	for _, f := range m.forms {
		if f.PatientID == patientID {
			result = append(result, f)
		}
	}
	return result, nil
}

func (m *mockRepo) CompletedFormTypes(_ context.Context, patientID uuid.UUID) ([]string, error) {
	seen := make(map[string]bool)
	var types []string
	for _, f := range m.forms {
		if f.PatientID == patientID && f.IsCompleted && !seen[f.FormType] {
			seen[f.FormType] = true
			types = append(types, f.FormType)
		}
	}
	return types, nil
}

func newTestService() *Service {
	return NewService(newMockRepo())
}

func fullSignature() SignaturePayload {
	return SignaturePayload{
		Signature: "sig-data",
		Stamp:     "stamp-data",
		Date:      "2026-02-10",
		Time:      "14:30",
	}
}

// -- Tests --

func TestCreateForm(t *testing.T) {
	svc := newTestService()

	f := &Form{PatientID: uuid.New(), FormType: FormGeneralAdmission}
	if err := svc.CreateForm(context.Background(), f); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.ID == uuid.Nil {
		t.Error("expected ID to be set")
	}
	if f.IsCompleted {
		t.Error("new forms must start incomplete")
	}
}

func TestCreateForm_InvalidType(t *testing.T) {
	svc := newTestService()

	f := &Form{PatientID: uuid.New(), FormType: "VERBAL_AGREEMENT"}
	if err := svc.CreateForm(context.Background(), f); err == nil {
		t.Error("expected error for invalid form_type")
	}
}

func TestCreateForm_PatientRequired(t *testing.T) {
	svc := newTestService()

	f := &Form{FormType: FormGeneralAdmission}
	if err := svc.CreateForm(context.Background(), f); err == nil {
		t.Error("expected error for missing patient_id")
	}
}

func TestCreateForm_IgnoresSubmittedCompletion(t *testing.T) {
	svc := newTestService()

	now := time.Now()
	f := &Form{PatientID: uuid.New(), FormType: FormHighRisk, IsCompleted: true, CompletedAt: &now}
	if err := svc.CreateForm(context.Background(), f); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.IsCompleted || f.CompletedAt != nil {
		t.Error("completion state must not be settable at creation")
	}
}

func TestCompleteForm(t *testing.T) {
	svc := newTestService()

	f := &Form{PatientID: uuid.New(), FormType: FormOperationUrdu}
	svc.CreateForm(context.Background(), f)

	completed, err := svc.CompleteForm(context.Background(), f.ID, fullSignature())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !completed.IsCompleted {
		t.Error("expected form to be completed")
	}
	if completed.CompletedAt == nil {
		t.Error("expected completed_at to be set")
	}
	if completed.Signature == nil || *completed.Signature != "sig-data" {
		t.Error("expected signature to be stored")
	}
}

func TestCompleteForm_MissingTime(t *testing.T) {
	svc := newTestService()

	f := &Form{PatientID: uuid.New(), FormType: FormOperationUrdu}
	svc.CreateForm(context.Background(), f)

	sig := fullSignature()
	sig.Time = ""
	if _, err := svc.CompleteForm(context.Background(), f.ID, sig); err == nil {
		t.Error("expected error for incomplete signature")
	}

	got, _ := svc.GetForm(context.Background(), f.ID)
	if got.IsCompleted {
		t.Error("form must stay open when signature is incomplete")
	}
}

func TestCompleteForm_NotFound(t *testing.T) {
	svc := newTestService()

	if _, err := svc.CompleteForm(context.Background(), uuid.New(), fullSignature()); err == nil {
		t.Error("expected error for unknown form")
	}
}

func TestUpdateForm_PreservesCompletion(t *testing.T) {
	svc := newTestService()

	f := &Form{PatientID: uuid.New(), FormType: FormAnesthesiaUrdu}
	svc.CreateForm(context.Background(), f)
	svc.CompleteForm(context.Background(), f.ID, fullSignature())

	witness := "Dr. Siddiqui"
	update := &Form{ID: f.ID, PatientID: f.PatientID, FormType: FormAnesthesiaUrdu, WitnessName: &witness}
	if err := svc.UpdateForm(context.Background(), update); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _ := svc.GetForm(context.Background(), f.ID)
	if !got.IsCompleted {
		t.Error("update must not reopen a completed form")
	}
	if got.WitnessName == nil || *got.WitnessName != witness {
		t.Error("expected witness name to be updated")
	}
}

func TestCompletedFormTypes(t *testing.T) {
	svc := newTestService()
	patientID := uuid.New()

	for _, ft := range []string{FormGeneralAdmission, FormOperationUrdu} {
		f := &Form{PatientID: patientID, FormType: ft}
		svc.CreateForm(context.Background(), f)
		svc.CompleteForm(context.Background(), f.ID, fullSignature())
	}
	open := &Form{PatientID: patientID, FormType: FormAnesthesiaUrdu}
	svc.CreateForm(context.Background(), open)

	types, err := svc.CompletedFormTypes(context.Background(), patientID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(types) != 2 {
		t.Errorf("expected 2 completed types, got %v", types)
	}
}

// -- Signature validation --

func TestValidateSignature_Complete(t *testing.T) {
	result := ValidateSignature(fullSignature())
	if !result.Valid {
		t.Errorf("expected valid, missing %v", result.Missing)
	}
	if len(result.Missing) != 0 {
		t.Errorf("expected no missing fields, got %v", result.Missing)
	}
}

func TestValidateSignature_MissingTime(t *testing.T) {
	sig := fullSignature()
	sig.Time = ""
	result := ValidateSignature(sig)
	if result.Valid {
		t.Error("expected invalid")
	}
	if len(result.Missing) != 1 || result.Missing[0] != "time" {
		t.Errorf("expected missing [time], got %v", result.Missing)
	}
}

func TestValidateSignature_AllMissing(t *testing.T) {
	result := ValidateSignature(SignaturePayload{})
	if result.Valid {
		t.Error("expected invalid")
	}
	if len(result.Missing) != 4 {
		t.Errorf("expected 4 missing fields, got %v", result.Missing)
	}
}
