package model

import (
	"time"

	"github.com/templui/medtrack/internal/datefmt"
)

type Medication struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`
	Name      string    `db:"name" json:"name"`
	Dosage    string    `db:"dosage" json:"dosage"`
	Frequency string    `db:"frequency" json:"frequency"`
	StartDate string    `db:"start_date" json:"startDate"`
	EndDate   *string   `db:"end_date" json:"endDate"` // Nullable: still being taken
	Notes     string    `db:"notes" json:"notes"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// ActiveDuring reports whether the medication was being taken at any point
// in the inclusive window [start, end]. Dates are YYYY-MM-DD strings.
func (m *Medication) ActiveDuring(start, end string) bool {
	var stop string
	if m.EndDate != nil {
		stop = *m.EndDate
	}
	return datefmt.Overlaps(m.StartDate, stop, start, end)
}
