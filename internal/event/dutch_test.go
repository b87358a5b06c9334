package event

import (
	"testing"
	"time"
)

func TestMonthNumber(t *testing.T) {
	tests := []struct {
		token  string
		want   time.Month
		wantOK bool
	}{
		{"februari", time.February, true},
		{"feb", time.February, true},
		{"mrt", time.March, true},
		{"maart", time.March, true},
		{"Sept", time.September, true},
		{" OKT ", time.October, true},
		{"oct", time.October, true},
		{"december", time.December, true},
		{"smarch", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, ok := MonthNumber(tt.token)
			if ok != tt.wantOK {
				t.Fatalf("MonthNumber(%q) ok = %v, expected %v", tt.token, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("MonthNumber(%q) = %v, expected %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestMakeDate(t *testing.T) {
	tests := []struct {
		name   string
		year   int
		month  time.Month
		day    int
		wantOK bool
	}{
		{"regular date", 2026, time.February, 7, true},
		{"leap day in leap year", 2024, time.February, 29, true},
		{"leap day outside leap year", 2026, time.February, 29, false},
		{"30 februari does not exist", 2026, time.February, 30, false},
		{"31 april does not exist", 2026, time.April, 31, false},
		{"day zero", 2026, time.May, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MakeDate(tt.year, tt.month, tt.day)
			if ok != tt.wantOK {
				t.Fatalf("MakeDate(%d, %v, %d) ok = %v, expected %v", tt.year, tt.month, tt.day, ok, tt.wantOK)
			}
			if !ok {
				if !got.IsZero() {
					t.Errorf("rejected date should be zero, got %v", got)
				}
				return
			}
			if got.Year() != tt.year || got.Month() != tt.month || got.Day() != tt.day {
				t.Errorf("MakeDate(%d, %v, %d) = %v", tt.year, tt.month, tt.day, got)
			}
		})
	}
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"TEMSE", "Temse"},
		{"grote rommelmarkt temse", "Grote Rommelmarkt Temse"},
		{"binnenrommelmarkt", "Binnenrommelmarkt"},
		{"SINT-NIKLAAS", "Sint-Niklaas"},
	}

	for _, tt := range tests {
		if got := TitleCase(tt.in); got != tt.want {
			t.Errorf("TitleCase(%q) = %q, expected %q", tt.in, got, tt.want)
		}
	}
}
