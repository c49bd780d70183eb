package model

import "testing"

func TestMedicationActiveDuring(t *testing.T) {
	endJan5 := "2023-01-05"
	endFeb20 := "2023-02-20"

	tests := []struct {
		name string
		med  Medication
		want bool
	}{
		{name: "no end date", med: Medication{StartDate: "2023-01-10"}, want: true},
		{name: "ended before window", med: Medication{StartDate: "2023-01-01", EndDate: &endJan5}, want: false},
		{name: "inside window", med: Medication{StartDate: "2023-02-15", EndDate: &endFeb20}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.med.ActiveDuring("2023-02-01", "2023-02-28"); got != tt.want {
				t.Fatalf("ActiveDuring() = %v, want %v", got, tt.want)
			}
		})
	}
}
