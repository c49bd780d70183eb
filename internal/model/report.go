package model

import (
	"time"

	"github.com/templui/medtrack/internal/numsafe"
)

type Report struct {
	ID           numsafe.ID `db:"id" json:"id"`
	UserID       string     `db:"user_id" json:"userId"`
	Title        string     `db:"title" json:"title"`
	StartDate    string     `db:"start_date" json:"startDate"`
	EndDate      string     `db:"end_date" json:"endDate"`
	ArtifactPath *string    `db:"artifact_path" json:"-"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`

	// Computed fields (not in database)
	ArtifactURL string `db:"-" json:"artifactUrl,omitempty"`
}

// ReportData is a report together with the records that fall inside its window.
type ReportData struct {
	Report      *Report         `json:"report"`
	Medications []*Medication   `json:"medications"`
	SideEffects []*SideEffect   `json:"sideEffects"`
	Checkins    []*DailyCheckin `json:"checkins"`
}
