package consultant

import (
	"time"

	"github.com/google/uuid"
)

// Round maps to the consultant_round table. A round carries the
// consultant's instructions; a Medical Officer acknowledges them before
// dependent orders proceed.
type Round struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	PatientID      uuid.UUID  `db:"patient_id" json:"patient_id"`
	ConsultantName string     `db:"consultant_name" json:"consultant_name"`
	Instructions   string     `db:"instructions" json:"instructions"`
	RoundDate      time.Time  `db:"round_date" json:"round_date"`
	Acknowledged   bool       `db:"acknowledged" json:"acknowledged"`
	AcknowledgedBy *string    `db:"acknowledged_by" json:"acknowledged_by,omitempty"`
	AcknowledgedAt *time.Time `db:"acknowledged_at" json:"acknowledged_at,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}
