package core

import (
	"fmt"
	"time"
)

const (
	Weekly   Period = "weekly"
	Monthly  Period = "monthly"
	Annually Period = "annually"
)

// Period selects how a reporting window is derived from a reference date.
type Period string

func (p Period) IsValid() bool {
	switch p {
	case Weekly, Monthly, Annually:
		return true
	}
	return false
}

// Window is a resolved reporting range. Start is inclusive and End is
// exclusive (UTC midnight of the day after the last calendar day), so a
// transaction dated exactly on the last day of a month stays inside that
// month's window whatever the server's local offset.
type Window struct {
	Period Period
	Start  time.Time
	End    time.Time
}

// ResolveWindow translates a period descriptor and a reference date into a
// concrete range. The reference date is read through its own calendar
// fields, never through zone-sensitive arithmetic:
//
//   - weekly: the Sunday-through-Saturday span containing ref
//   - monthly: the calendar month containing ref
//   - annually: the calendar year containing ref
//
// An unrecognized period is a programming error and panics; callers
// validate user input with Period.IsValid first.
func ResolveWindow(p Period, ref time.Time) Window {
	day := DateOf(ref)
	switch p {
	case Weekly:
		start := day.AddDate(0, 0, -int(day.Weekday()))
		return Window{Period: p, Start: start, End: start.AddDate(0, 0, 7)}
	case Monthly:
		start := NewDate(day.Year(), day.Month(), 1)
		return Window{Period: p, Start: start, End: start.AddDate(0, 1, 0)}
	case Annually:
		start := NewDate(day.Year(), time.January, 1)
		return Window{Period: p, Start: start, End: start.AddDate(1, 0, 0)}
	}
	panic(fmt.Sprintf("core: unknown period %q", p))
}

// MonthWindow resolves the window for a specific month and year.
func MonthWindow(year int, month time.Month) Window {
	return ResolveWindow(Monthly, NewDate(year, month, 1))
}

// Contains reports whether an instant falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// LastDay returns the last calendar day of the window at UTC midnight.
func (w Window) LastDay() time.Time {
	return w.End.AddDate(0, 0, -1)
}

// Label renders the range the way the statistics view titles it.
func (w Window) Label() string {
	switch w.Period {
	case Weekly:
		return w.Start.Format("Jan 2") + " - " + w.LastDay().Format("Jan 2, 2006")
	case Monthly:
		return w.Start.Format("January 2006")
	case Annually:
		return w.Start.Format("2006")
	}
	return w.Start.Format("Jan 2, 2006") + " - " + w.LastDay().Format("Jan 2, 2006")
}
