package services

import (
	"testing"
	"time"

	"cuentas/internal/core"
)

func TestNextOccurrence(t *testing.T) {
	tests := []struct {
		name      string
		targetDay int
		reference time.Time
		want      time.Time
		wantOK    bool
	}{
		{
			name:      "not configured",
			targetDay: 0,
			reference: core.NewDate(2024, 1, 10),
			wantOK:    false,
		},
		{
			name:      "out of range",
			targetDay: 32,
			reference: core.NewDate(2024, 1, 10),
			wantOK:    false,
		},
		{
			name:      "later this month",
			targetDay: 15,
			reference: core.NewDate(2024, 1, 10),
			want:      core.NewDate(2024, 1, 15),
			wantOK:    true,
		},
		{
			name:      "today counts as upcoming",
			targetDay: 10,
			reference: core.NewDate(2024, 1, 10),
			want:      core.NewDate(2024, 1, 10),
			wantOK:    true,
		},
		{
			name:      "already elapsed rolls to next month",
			targetDay: 5,
			reference: core.NewDate(2024, 1, 10),
			want:      core.NewDate(2024, 2, 5),
			wantOK:    true,
		},
		{
			name:      "day 31 clamps in leap february",
			targetDay: 31,
			reference: core.NewDate(2024, 2, 10),
			want:      core.NewDate(2024, 2, 29),
			wantOK:    true,
		},
		{
			name:      "day 31 clamps in non-leap february",
			targetDay: 31,
			reference: core.NewDate(2023, 2, 10),
			want:      core.NewDate(2023, 2, 28),
			wantOK:    true,
		},
		{
			name:      "december rolls into january",
			targetDay: 5,
			reference: core.NewDate(2024, 12, 20),
			want:      core.NewDate(2025, 1, 5),
			wantOK:    true,
		},
		{
			name:      "elapsed clamp re-clamps in next month",
			targetDay: 30,
			reference: core.NewDate(2024, 1, 31),
			want:      core.NewDate(2024, 2, 29),
			wantOK:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NextOccurrence(tt.targetDay, tt.reference)
			if ok != tt.wantOK {
				t.Fatalf("NextOccurrence() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("NextOccurrence() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextOccurrence_Properties(t *testing.T) {
	// For every target day and a spread of reference dates the result is
	// never in the past and lands on min(targetDay, daysInMonth).
	refs := []time.Time{
		core.NewDate(2024, 1, 1),
		core.NewDate(2024, 1, 31),
		core.NewDate(2024, 2, 29),
		core.NewDate(2024, 6, 15),
		core.NewDate(2024, 12, 31),
	}
	for day := 1; day <= 31; day++ {
		for _, ref := range refs {
			got, ok := NextOccurrence(day, ref)
			if !ok {
				t.Fatalf("NextOccurrence(%d, %v) not ok", day, ref)
			}
			if got.Before(ref) {
				t.Errorf("NextOccurrence(%d, %v) = %v is in the past", day, ref, got)
			}
			wantDay := day
			if last := core.DaysInMonth(got.Year(), got.Month()); wantDay > last {
				wantDay = last
			}
			if got.Day() != wantDay {
				t.Errorf("NextOccurrence(%d, %v) = %v, want day %d", day, ref, got, wantDay)
			}
		}
	}
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name   string
		date   time.Time
		months int
		want   time.Time
	}{
		{"plain shift", core.NewDate(2024, 1, 20), 1, core.NewDate(2024, 2, 20)},
		{"jan 31 clamps to feb 29", core.NewDate(2024, 1, 31), 1, core.NewDate(2024, 2, 29)},
		{"clamp does not stick", core.NewDate(2024, 1, 31), 2, core.NewDate(2024, 3, 31)},
		{"year wrap", core.NewDate(2024, 11, 15), 3, core.NewDate(2025, 2, 15)},
		{"zero months", core.NewDate(2024, 5, 10), 0, core.NewDate(2024, 5, 10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := addMonths(tt.date, tt.months); !got.Equal(tt.want) {
				t.Errorf("addMonths(%v, %d) = %v, want %v", tt.date, tt.months, got, tt.want)
			}
		})
	}
}
