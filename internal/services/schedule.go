// Package services implements the installment and debt-projection engine:
// due-date resolution, installment expansion, obligation balances and the
// payment calendar. Everything here is pure and side-effect free; store
// access happens in the adapters.
package services

import (
	"time"

	"cuentas/internal/core"
)

// NextOccurrence returns the next calendar date a monthly due day falls on,
// at or after reference. Target days beyond the month's length clamp to the
// month's last day (a due day of 31 means "end of month"). A target day of 0
// means the cycle is not configured and ok is false.
func NextOccurrence(targetDay int, reference time.Time) (time.Time, bool) {
	if targetDay < 1 || targetDay > 31 {
		return time.Time{}, false
	}

	ref := core.NewDate(reference.Year(), int(reference.Month()), reference.Day())
	year, month := ref.Year(), ref.Month()

	candidate := buildClamped(year, month, targetDay)
	if candidate.Before(ref) {
		month++
		if month > time.December {
			month = time.January
			year++
		}
		candidate = buildClamped(year, month, targetDay)
	}
	return candidate, true
}

func buildClamped(year int, month time.Month, day int) time.Time {
	if last := core.DaysInMonth(year, month); day > last {
		day = last
	}
	return core.NewDate(year, int(month), day)
}

// addMonths shifts a date forward by whole calendar months, keeping the
// original day-of-month and clamping to shorter months. Jan 31 + 1 month is
// Feb 28/29, not Mar 2; each step clamps independently of the previous one,
// so Jan 31 + 2 months is Mar 31.
func addMonths(d time.Time, months int) time.Time {
	year, month, day := d.Year(), d.Month(), d.Day()
	total := int(month) - 1 + months
	year += total / 12
	month = time.Month(total%12 + 1)
	return buildClamped(year, month, day)
}
