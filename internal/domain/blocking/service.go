package blocking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hms/hms/internal/domain/consent"
)

// Action categories a caller can ask about.
const (
	ActionTreatment    = "TREATMENT"
	ActionSurgery      = "SURGERY"
	ActionDischarge    = "DISCHARGE"
	ActionProgressNote = "PROGRESS_NOTE"
)

// ErrUnknownAction is returned for an unrecognized action category.
var ErrUnknownAction = errors.New("unknown action")

// Sources are the record stores the rules read. Each is a narrow view
// of a domain service; the concrete wiring happens at startup.
type ConsentSource interface {
	CompletedFormTypes(ctx context.Context, patientID uuid.UUID) ([]string, error)
}

type TreatmentSource interface {
	CountOverduePending(ctx context.Context, patientID uuid.UUID, asOf time.Time) (int, error)
}

type ProgressNoteSource interface {
	HasNoteOn(ctx context.Context, patientID uuid.UUID, day time.Time) (bool, error)
}

type ConsultantSource interface {
	CountUnacknowledged(ctx context.Context, patientID uuid.UUID) (int, error)
}

// ConsentResult is the outcome of the consent completeness rule.
type ConsentResult struct {
	Blocked      bool     `json:"blocked"`
	MissingForms []string `json:"missing_forms"`
	Message      string   `json:"message"`
}

// Result is the outcome of a single-predicate rule.
type Result struct {
	Blocked bool   `json:"blocked"`
	Message string `json:"message"`
}

// AggregateResult is the outcome of evaluating every rule relevant to
// an action.
type AggregateResult struct {
	Blocked bool     `json:"blocked"`
	Reasons []string `json:"reasons"`
}

// Service evaluates the blocking rules. Every rule is a stateless
// predicate over current data; nothing is cached between calls, since
// clinical state can change between requests. A source failure is
// returned as an error, never as a permissive result.
type Service struct {
	consents ConsentSource
	doses    TreatmentSource
	notes    ProgressNoteSource
	rounds   ConsultantSource
	required []string
	now      func() time.Time
}

func NewService(consents ConsentSource, doses TreatmentSource, notes ProgressNoteSource, rounds ConsultantSource) *Service {
	return &Service{
		consents: consents,
		doses:    doses,
		notes:    notes,
		rounds:   rounds,
		required: consent.RequiredFormTypes,
		now:      time.Now,
	}
}

// CheckConsent reports whether any required consent form is missing or
// incomplete. A patient with no forms at all is blocked with every
// required type listed; absence is valid business state, not an error.
func (s *Service) CheckConsent(ctx context.Context, patientID uuid.UUID) (ConsentResult, error) {
	completed, err := s.consents.CompletedFormTypes(ctx, patientID)
	if err != nil {
		return ConsentResult{}, fmt.Errorf("consent check: %w", err)
	}

	have := make(map[string]bool, len(completed))
	for _, t := range completed {
		have[t] = true
	}

	missing := []string{}
	for _, t := range s.required {
		if !have[t] {
			missing = append(missing, t)
		}
	}
	if len(missing) == 0 {
		return ConsentResult{Blocked: false, MissingForms: missing, Message: "all required consent forms are completed"}, nil
	}
	return ConsentResult{
		Blocked:      true,
		MissingForms: missing,
		Message:      "required consent forms incomplete: " + strings.Join(missing, ", "),
	}, nil
}

// CheckTreatmentAdministration reports whether a scheduled dose for an
// active order is still pending past its time.
func (s *Service) CheckTreatmentAdministration(ctx context.Context, patientID uuid.UUID, forDate time.Time) (Result, error) {
	if forDate.IsZero() {
		forDate = s.now().UTC()
	}
	count, err := s.doses.CountOverduePending(ctx, patientID, forDate)
	if err != nil {
		return Result{}, fmt.Errorf("treatment administration check: %w", err)
	}
	if count > 0 {
		return Result{
			Blocked: true,
			Message: fmt.Sprintf("%d scheduled dose(s) still pending past their time", count),
		}, nil
	}
	return Result{Blocked: false, Message: "no overdue pending doses"}, nil
}

// CheckDailyProgressNote reports whether the previous calendar day's
// progress note is missing.
func (s *Service) CheckDailyProgressNote(ctx context.Context, patientID uuid.UUID, forDate time.Time) (Result, error) {
	if forDate.IsZero() {
		forDate = s.now().UTC()
	}
	previousDay := forDate.UTC().AddDate(0, 0, -1)
	has, err := s.notes.HasNoteOn(ctx, patientID, previousDay)
	if err != nil {
		return Result{}, fmt.Errorf("progress note check: %w", err)
	}
	if !has {
		return Result{
			Blocked: true,
			Message: "no progress note recorded for " + previousDay.Format("2006-01-02"),
		}, nil
	}
	return Result{Blocked: false, Message: "previous day's progress note is present"}, nil
}

// CheckConsultantAcknowledgement reports whether any consultant
// instruction still awaits a Medical Officer's acknowledgement.
func (s *Service) CheckConsultantAcknowledgement(ctx context.Context, patientID uuid.UUID) (Result, error) {
	count, err := s.rounds.CountUnacknowledged(ctx, patientID)
	if err != nil {
		return Result{}, fmt.Errorf("consultant acknowledgement check: %w", err)
	}
	if count > 0 {
		return Result{
			Blocked: true,
			Message: fmt.Sprintf("%d consultant instruction(s) not yet acknowledged", count),
		}, nil
	}
	return Result{Blocked: false, Message: "all consultant instructions acknowledged"}, nil
}

// CheckAll evaluates the subset of rules relevant to an action and
// aggregates the outcome. Blocked is true iff any applicable rule
// blocks; the first source failure aborts the evaluation.
func (s *Service) CheckAll(ctx context.Context, patientID uuid.UUID, action string) (AggregateResult, error) {
	return s.checkAll(ctx, patientID, action, s.now().UTC())
}

func (s *Service) checkAll(ctx context.Context, patientID uuid.UUID, action string, asOf time.Time) (AggregateResult, error) {
	var needConsent, needDoses, needNote, needAck bool
	switch action {
	case ActionTreatment:
		needConsent, needDoses, needNote, needAck = true, true, true, true
	case ActionSurgery:
		needConsent, needAck = true, true
	case ActionDischarge:
		needConsent, needDoses, needAck = true, true, true
	case ActionProgressNote:
		needAck = true
	default:
		return AggregateResult{}, fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}

	reasons := []string{}

	if needConsent {
		res, err := s.CheckConsent(ctx, patientID)
		if err != nil {
			return AggregateResult{}, err
		}
		if res.Blocked {
			reasons = append(reasons, res.Message)
		}
	}
	if needDoses {
		res, err := s.CheckTreatmentAdministration(ctx, patientID, asOf)
		if err != nil {
			return AggregateResult{}, err
		}
		if res.Blocked {
			reasons = append(reasons, res.Message)
		}
	}
	if needNote {
		res, err := s.CheckDailyProgressNote(ctx, patientID, asOf)
		if err != nil {
			return AggregateResult{}, err
		}
		if res.Blocked {
			reasons = append(reasons, res.Message)
		}
	}
	if needAck {
		res, err := s.CheckConsultantAcknowledgement(ctx, patientID)
		if err != nil {
			return AggregateResult{}, err
		}
		if res.Blocked {
			reasons = append(reasons, res.Message)
		}
	}

	return AggregateResult{Blocked: len(reasons) > 0, Reasons: reasons}, nil
}

// CheckDischarge implements the patient package's discharge gate.
func (s *Service) CheckDischarge(ctx context.Context, patientID uuid.UUID) (bool, []string, error) {
	res, err := s.CheckAll(ctx, patientID, ActionDischarge)
	if err != nil {
		return false, nil, err
	}
	return res.Blocked, res.Reasons, nil
}

// CheckAdministration implements the treatment package's scheduling
// gate, evaluated as of the dose's scheduled time.
func (s *Service) CheckAdministration(ctx context.Context, patientID uuid.UUID, forDate time.Time) (bool, []string, error) {
	res, err := s.checkAll(ctx, patientID, ActionTreatment, forDate)
	if err != nil {
		return false, nil, err
	}
	return res.Blocked, res.Reasons, nil
}
