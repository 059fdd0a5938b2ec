package patient

import (
	"time"

	"github.com/google/uuid"
)

// Admission types.
const (
	AdmissionEmergency = "EMERGENCY"
	AdmissionPlanned   = "PLANNED"
	AdmissionOPD       = "OPD"
)

// Admission locations.
const (
	LocationWard        = "WARD"
	LocationPrivateRoom = "PRIVATE_ROOM"
	LocationNursery     = "NURSERY"
	LocationICU         = "ICU"
)

// Patient statuses.
const (
	StatusAdmitted    = "ADMITTED"
	StatusDischarged  = "DISCHARGED"
	StatusLAMA        = "LAMA"
	StatusDOR         = "DOR"
	StatusTransferred = "TRANSFERRED"
)

// Patient maps to the patient table. MRNumber is assigned once at
// registration and never regenerated.
type Patient struct {
	ID                uuid.UUID  `db:"id" json:"id"`
	MRNumber          string     `db:"mr_number" json:"mr_number"`
	FirstName         string     `db:"first_name" json:"first_name"`
	LastName          string     `db:"last_name" json:"last_name"`
	GuardianName      *string    `db:"guardian_name" json:"guardian_name,omitempty"`
	Gender            *string    `db:"gender" json:"gender,omitempty"`
	BirthDate         *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	PhoneMobile       *string    `db:"phone_mobile" json:"phone_mobile,omitempty"`
	Address           *string    `db:"address" json:"address,omitempty"`
	AdmissionType     string     `db:"admission_type" json:"admission_type"`
	AdmissionLocation string     `db:"admission_location" json:"admission_location"`
	AdmissionDate     time.Time  `db:"admission_date" json:"admission_date"`
	Status            string     `db:"status" json:"status"`
	AttendingID       *uuid.UUID `db:"attending_id" json:"attending_id,omitempty"`
	Diagnosis         *string    `db:"diagnosis" json:"diagnosis,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

// StatusHistory maps to the patient_status_history table. A row records
// the status a patient left, not the one entered.
type StatusHistory struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
	Status    string    `db:"status" json:"status"`
	ChangedBy *string   `db:"changed_by" json:"changed_by,omitempty"`
	ChangedAt time.Time `db:"changed_at" json:"changed_at"`
}

var validAdmissionTypes = map[string]bool{
	AdmissionEmergency: true,
	AdmissionPlanned:   true,
	AdmissionOPD:       true,
}

var validLocations = map[string]bool{
	LocationWard:        true,
	LocationPrivateRoom: true,
	LocationNursery:     true,
	LocationICU:         true,
}

var validStatuses = map[string]bool{
	StatusAdmitted:    true,
	StatusDischarged:  true,
	StatusLAMA:        true,
	StatusDOR:         true,
	StatusTransferred: true,
}

// dischargeStatuses are the terminal transitions gated by the blocking rules.
var dischargeStatuses = map[string]bool{
	StatusDischarged:  true,
	StatusLAMA:        true,
	StatusDOR:         true,
	StatusTransferred: true,
}
