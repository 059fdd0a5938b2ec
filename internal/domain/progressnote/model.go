package progressnote

import (
	"time"

	"github.com/google/uuid"
)

// Note maps to the daily_progress_note table. NoteDate is the clinical
// day the note covers, stored at day precision.
type Note struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
	NoteDate  time.Time `db:"note_date" json:"note_date"`
	Note      string    `db:"note" json:"note"`
	Vitals    *string   `db:"vitals" json:"vitals,omitempty"`
	Author    *string   `db:"author" json:"author,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// DayOf truncates a timestamp to its UTC calendar day.
func DayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
