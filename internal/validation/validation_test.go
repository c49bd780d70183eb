package validation

import (
	"strings"
	"testing"
)

func TestValidateRating(t *testing.T) {
	tests := []struct {
		name    string
		value   int
		wantErr bool
	}{
		{name: "lower bound", value: 1},
		{name: "upper bound", value: 10},
		{name: "zero", value: 0, wantErr: true},
		{name: "too high", value: 11, wantErr: true},
		{name: "negative", value: -3, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRating("severity", tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateRating(%d) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDateRange(t *testing.T) {
	tests := []struct {
		start, end string
		wantErr    bool
	}{
		{"2023-01-01", "2023-01-31", false},
		{"2023-01-01", "2023-01-01", false},
		{"2023-01-01", "", false},
		{"2023-02-01", "2023-01-31", true},
	}

	for _, tt := range tests {
		err := ValidateDateRange(tt.start, tt.end)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ValidateDateRange(%q, %q) error = %v, wantErr %v", tt.start, tt.end, err, tt.wantErr)
		}
	}
}

func TestValidateChoice(t *testing.T) {
	allowed := []string{"morning", "night"}

	if err := ValidateChoice("time of day", "night", allowed, false); err != nil {
		t.Fatalf("ValidateChoice(night) = %v, want nil", err)
	}
	if err := ValidateChoice("time of day", "", allowed, true); err != nil {
		t.Fatalf("ValidateChoice(empty, optional) = %v, want nil", err)
	}
	if err := ValidateChoice("time of day", "", allowed, false); err == nil {
		t.Fatal("ValidateChoice(empty, required) = nil, want error")
	}

	err := ValidateChoice("time of day", "noon", allowed, true)
	if err == nil || !strings.Contains(err.Error(), "morning, night") {
		t.Fatalf("ValidateChoice(noon) = %v, want list of allowed values", err)
	}
}

func TestValidateRequired(t *testing.T) {
	if err := ValidateRequired("name", "  ", 10); err == nil {
		t.Fatal("ValidateRequired(blank) = nil, want error")
	}
	if err := ValidateRequired("name", strings.Repeat("a", 11), 10); err == nil {
		t.Fatal("ValidateRequired(too long) = nil, want error")
	}
	if err := ValidateRequired("name", "Lisinopril", 10); err != nil {
		t.Fatalf("ValidateRequired(Lisinopril) = %v, want nil", err)
	}
}

func TestValidateEmail(t *testing.T) {
	if err := ValidateEmail("patient@example.com"); err != nil {
		t.Fatalf("ValidateEmail(valid) = %v, want nil", err)
	}
	for _, bad := range []string{"", "not-an-email", "Alice <alice@example.com>", strings.Repeat("a", 250) + "@x.io"} {
		if err := ValidateEmail(bad); err == nil {
			t.Fatalf("ValidateEmail(%q) = nil, want error", bad)
		}
	}
}
