package treatment

import (
	"time"

	"github.com/google/uuid"
)

// Order statuses.
const (
	OrderActive       = "ACTIVE"
	OrderCompleted    = "COMPLETED"
	OrderDiscontinued = "DISCONTINUED"
)

// Administration statuses.
const (
	AdminPending      = "PENDING"
	AdminAdministered = "ADMINISTERED"
	AdminMissed       = "MISSED"
	AdminRefused      = "REFUSED"
)

// Order maps to the treatment_order table.
type Order struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	PatientID  uuid.UUID  `db:"patient_id" json:"patient_id"`
	Medication string     `db:"medication" json:"medication"`
	Dose       *string    `db:"dose" json:"dose,omitempty"`
	Route      *string    `db:"route" json:"route,omitempty"`
	Frequency  *string    `db:"frequency" json:"frequency,omitempty"`
	Status     string     `db:"status" json:"status"`
	OrderedBy  *string    `db:"ordered_by" json:"ordered_by,omitempty"`
	StartDate  time.Time  `db:"start_date" json:"start_date"`
	EndDate    *time.Time `db:"end_date" json:"end_date,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// Administration maps to the treatment_administration table. A row is
// a scheduled dose; recording moves it out of PENDING.
type Administration struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	OrderID        uuid.UUID  `db:"order_id" json:"order_id"`
	PatientID      uuid.UUID  `db:"patient_id" json:"patient_id"`
	ScheduledAt    time.Time  `db:"scheduled_at" json:"scheduled_at"`
	Status         string     `db:"status" json:"status"`
	AdministeredAt *time.Time `db:"administered_at" json:"administered_at,omitempty"`
	AdministeredBy *string    `db:"administered_by" json:"administered_by,omitempty"`
	Notes          *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

var validOrderStatuses = map[string]bool{
	OrderActive:       true,
	OrderCompleted:    true,
	OrderDiscontinued: true,
}

var validAdminStatuses = map[string]bool{
	AdminPending:      true,
	AdminAdministered: true,
	AdminMissed:       true,
	AdminRefused:      true,
}

// recordedStatuses are the outcomes a pending dose can be moved to.
var recordedStatuses = map[string]bool{
	AdminAdministered: true,
	AdminMissed:       true,
	AdminRefused:      true,
}
