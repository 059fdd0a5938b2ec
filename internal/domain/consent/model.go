package consent

import (
	"time"

	"github.com/google/uuid"
)

// Form types.
const (
	FormGeneralAdmission = "GENERAL_ADMISSION"
	FormOperationUrdu    = "OPERATION_URDU"
	FormAnesthesiaUrdu   = "ANESTHESIA_URDU"
	FormBloodTransfusion = "BLOOD_TRANSFUSION"
	FormHighRisk         = "HIGH_RISK"
)

// RequiredFormTypes must all be completed before consent-gated actions
// are permitted.
var RequiredFormTypes = []string{
	FormGeneralAdmission,
	FormOperationUrdu,
	FormAnesthesiaUrdu,
}

// Form maps to the consent_form table.
type Form struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	PatientID   uuid.UUID  `db:"patient_id" json:"patient_id"`
	FormType    string     `db:"form_type" json:"form_type"`
	IsCompleted bool       `db:"is_completed" json:"is_completed"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	Signature   *string    `db:"signature" json:"signature,omitempty"`
	Stamp       *string    `db:"stamp" json:"stamp,omitempty"`
	SignDate    *string    `db:"sign_date" json:"sign_date,omitempty"`
	SignTime    *string    `db:"sign_time" json:"sign_time,omitempty"`
	WitnessName *string    `db:"witness_name" json:"witness_name,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

var validFormTypes = map[string]bool{
	FormGeneralAdmission: true,
	FormOperationUrdu:    true,
	FormAnesthesiaUrdu:   true,
	FormBloodTransfusion: true,
	FormHighRisk:         true,
}
