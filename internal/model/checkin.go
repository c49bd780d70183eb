package model

import (
	"time"
)

const (
	MoodGreat    = "great"
	MoodGood     = "good"
	MoodOkay     = "okay"
	MoodBad      = "bad"
	MoodTerrible = "terrible"
)

var Moods = []string{MoodGreat, MoodGood, MoodOkay, MoodBad, MoodTerrible}

// DailyCheckin is unique per (UserID, Date).
type DailyCheckin struct {
	ID            string    `db:"id" json:"id"`
	UserID        string    `db:"user_id" json:"userId"`
	Date          string    `db:"date" json:"date"`
	OverallRating int       `db:"overall_rating" json:"overallRating"`
	SleepQuality  int       `db:"sleep_quality" json:"sleepQuality"`
	EnergyLevel   int       `db:"energy_level" json:"energyLevel"`
	Mood          string    `db:"mood" json:"mood"`
	Notes         string    `db:"notes" json:"notes"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}
