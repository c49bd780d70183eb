package model

import (
	"time"
)

const (
	TimeOfDayMorning   = "morning"
	TimeOfDayAfternoon = "afternoon"
	TimeOfDayEvening   = "evening"
	TimeOfDayNight     = "night"
)

var TimesOfDay = []string{TimeOfDayMorning, TimeOfDayAfternoon, TimeOfDayEvening, TimeOfDayNight}

type SideEffect struct {
	ID           string    `db:"id" json:"id"`
	UserID       string    `db:"user_id" json:"userId"`
	MedicationID string    `db:"medication_id" json:"medicationId"`
	Symptom      string    `db:"symptom" json:"symptom"`
	Severity     int       `db:"severity" json:"severity"`
	TimeOfDay    string    `db:"time_of_day" json:"timeOfDay"`
	Date         string    `db:"date" json:"date"`
	Notes        string    `db:"notes" json:"notes"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`

	// Joined from medications (empty when the medication was deleted)
	MedicationName string `db:"medication_name" json:"medicationName"`
}
