package core

import (
	"testing"
	"time"
)

func TestResolveWindowMonthly(t *testing.T) {
	w := ResolveWindow(Monthly, NewDate(2024, time.March, 15))
	if !w.Start.Equal(NewDate(2024, time.March, 1)) {
		t.Fatalf("start = %v", w.Start)
	}
	if !w.End.Equal(NewDate(2024, time.April, 1)) {
		t.Fatalf("end = %v", w.End)
	}
	if !w.Contains(NewDate(2024, time.March, 31)) {
		t.Fatalf("last day of month must fall inside the window")
	}
	if w.Contains(NewDate(2024, time.April, 1)) {
		t.Fatalf("first day of next month must fall outside the window")
	}
}

func TestResolveWindowMonthlyFebruaryLeapYear(t *testing.T) {
	w := MonthWindow(2024, time.February)
	if !w.LastDay().Equal(NewDate(2024, time.February, 29)) {
		t.Fatalf("last day = %v, want Feb 29", w.LastDay())
	}
	if !MonthWindow(2023, time.February).LastDay().Equal(NewDate(2023, time.February, 28)) {
		t.Fatalf("non-leap February must end on the 28th")
	}
}

func TestResolveWindowWeeklyStartsOnSunday(t *testing.T) {
	// 2024-03-13 is a Wednesday; the containing week runs Sun Mar 10
	// through Sat Mar 16.
	w := ResolveWindow(Weekly, NewDate(2024, time.March, 13))
	if !w.Start.Equal(NewDate(2024, time.March, 10)) {
		t.Fatalf("start = %v, want Mar 10", w.Start)
	}
	if !w.LastDay().Equal(NewDate(2024, time.March, 16)) {
		t.Fatalf("last day = %v, want Mar 16", w.LastDay())
	}
	// A Sunday reference starts its own week.
	w = ResolveWindow(Weekly, NewDate(2024, time.March, 10))
	if !w.Start.Equal(NewDate(2024, time.March, 10)) {
		t.Fatalf("sunday start = %v", w.Start)
	}
}

func TestResolveWindowWeeklyCrossesMonthBoundary(t *testing.T) {
	// 2024-04-01 is a Monday; its week starts Sunday Mar 31.
	w := ResolveWindow(Weekly, NewDate(2024, time.April, 1))
	if !w.Start.Equal(NewDate(2024, time.March, 31)) {
		t.Fatalf("start = %v, want Mar 31", w.Start)
	}
}

func TestResolveWindowAnnually(t *testing.T) {
	w := ResolveWindow(Annually, NewDate(2024, time.June, 10))
	if !w.Start.Equal(NewDate(2024, time.January, 1)) {
		t.Fatalf("start = %v", w.Start)
	}
	if !w.Contains(NewDate(2024, time.December, 31)) {
		t.Fatalf("Dec 31 must fall inside the annual window")
	}
	if w.Contains(NewDate(2025, time.January, 1)) {
		t.Fatalf("next Jan 1 must fall outside the annual window")
	}
}

func TestResolveWindowOffsetReferenceDate(t *testing.T) {
	// A reference instant late in the local day must not slip the window
	// into the next month.
	zone := time.FixedZone("UTC+13", 13*3600)
	ref := time.Date(2024, time.October, 31, 23, 0, 0, 0, zone)
	w := ResolveWindow(Monthly, ref)
	if !w.Start.Equal(NewDate(2024, time.October, 1)) {
		t.Fatalf("start = %v, want Oct 1", w.Start)
	}
}

func TestResolveWindowUnknownPeriodPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for unknown period")
		}
	}()
	ResolveWindow(Period("quarterly"), NewDate(2024, time.March, 1))
}

func TestWindowLabel(t *testing.T) {
	cases := []struct {
		w    Window
		want string
	}{
		{MonthWindow(2024, time.March), "March 2024"},
		{ResolveWindow(Annually, NewDate(2024, time.March, 1)), "2024"},
		{ResolveWindow(Weekly, NewDate(2024, time.March, 13)), "Mar 10 - Mar 16, 2024"},
	}
	for _, tc := range cases {
		if got := tc.w.Label(); got != tc.want {
			t.Errorf("Label() = %q, want %q", got, tc.want)
		}
	}
}

func TestPeriodIsValid(t *testing.T) {
	for _, p := range []Period{Weekly, Monthly, Annually} {
		if !p.IsValid() {
			t.Errorf("%q should be valid", p)
		}
	}
	if Period("daily").IsValid() {
		t.Errorf("daily should be invalid")
	}
}
