package services

import (
	"fmt"
	"sort"
	"time"

	"cuentas/internal/core"
)

const (
	// alertWindowDays is the lead-time window: events due within this many
	// days of the reference date raise a proactive alert.
	alertWindowDays = 5
	// highSeverityDays marks the urgent part of the window.
	highSeverityDays = 3
	// balanceEpsilon filters obligations whose residual balance is noise
	// (interest rounding, sub-unit drift) from the calendar.
	balanceEpsilon = 1.0
)

// BuildCalendar produces the upcoming due events for every active obligation
// and the near-term alert list.
//
// Each active obligation with a configured due day and a balance above the
// epsilon gets a due event; revolving lines with a configured cut day also
// get a zero-amount statement-cut marker. Alerts fire for events falling
// within [0, 5] days of the reference date; anything past due stays in the
// calendar (the debt is still visible) but raises no proactive alert.
//
// Events come back sorted ascending by due date; ties keep obligation order.
func BuildCalendar(obs []core.Obligation, txs []core.Transaction, reference time.Time) ([]core.CalendarEvent, []core.Alert) {
	var events []core.CalendarEvent

	for _, ob := range obs {
		if EffectiveStatus(ob) != core.Active {
			continue
		}

		balance := Balance(ob, txs)

		if due, ok := NextOccurrence(ob.DueDay, reference); ok && balance > balanceEpsilon {
			ev := core.CalendarEvent{
				DueDate: due,
				Label:   ob.Name,
			}
			if ob.Category == core.RevolvingCredit {
				ev.Amount = balance
				ev.SourceKind = core.RevolvingPayment
			} else {
				ev.Amount = SuggestedPayment(ob, balance)
				ev.SourceKind = core.LoanInstallment
			}
			events = append(events, ev)
		}

		if ob.Category == core.RevolvingCredit {
			if cut, ok := NextOccurrence(ob.CutDay, reference); ok {
				events = append(events, core.CalendarEvent{
					DueDate:    cut,
					Label:      fmt.Sprintf("Corte %s", ob.Name),
					Amount:     0,
					SourceKind: core.StatementCut,
				})
			}
		}
	}

	sort.SliceStable(events, func(a, b int) bool {
		return events[a].DueDate.Before(events[b].DueDate)
	})

	ref := core.NewDate(reference.Year(), int(reference.Month()), reference.Day())
	var alerts []core.Alert
	for _, ev := range events {
		days := int(ev.DueDate.Sub(ref).Hours() / 24)
		if days < 0 || days > alertWindowDays {
			continue
		}
		severity := core.SeverityNormal
		if days <= highSeverityDays {
			severity = core.SeverityHigh
		}
		alerts = append(alerts, core.Alert{
			Event:    ev,
			DaysLeft: days,
			Severity: severity,
			Message:  alertMessage(ev, days),
		})
	}

	return events, alerts
}

func alertMessage(ev core.CalendarEvent, days int) string {
	when := "hoy"
	switch {
	case days == 1:
		when = "mañana"
	case days > 1:
		when = fmt.Sprintf("en %d días", days)
	}
	if ev.SourceKind == core.StatementCut {
		return fmt.Sprintf("✂️ %s %s", ev.Label, when)
	}
	return fmt.Sprintf("⚠️ %s vence %s ($%.2f)", ev.Label, when, ev.Amount)
}
