package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"tracker/internal/core"
)

// handleSummary returns overall totals, or one window's totals when a
// period query parameter is present.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	periodParam := strings.TrimSpace(r.URL.Query().Get("period"))
	if periodParam == "" {
		writeJSON(w, http.StatusOK, s.ledger.GetSummary(r.Context()))
		return
	}

	window, ok := s.resolveWindow(w, r, periodParam)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.ledger.GetSummaryForWindow(r.Context(), window))
}

// handleStats returns the category statistics view for a window.
// period defaults to monthly; month/year default to the current date.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	periodParam := strings.TrimSpace(r.URL.Query().Get("period"))
	if periodParam == "" {
		periodParam = string(core.Monthly)
	}

	window, ok := s.resolveWindow(w, r, periodParam)
	if !ok {
		return
	}

	key := statsCacheKey(window)
	if report, found := s.statsCache.Get(key); found {
		writeJSON(w, http.StatusOK, report)
		return
	}

	report := s.ledger.GetStats(r.Context(), window)
	s.statsCache.Set(key, report)
	writeJSON(w, http.StatusOK, report)
}

// handleCalendar returns one month's per-day buckets keyed by YYYY-MM-DD.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	year, month := parseYearMonth(r)

	key := fmt.Sprintf("%d-%02d", year, month)
	if days, found := s.calendarCache.Get(key); found {
		writeJSON(w, http.StatusOK, days)
		return
	}

	days := s.ledger.GetCalendarData(r.Context(), year, month)
	s.calendarCache.Set(key, days)
	writeJSON(w, http.StatusOK, days)
}

// handleCategories returns the suggested category sets per kind.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{
		"income":  core.IncomeCategories,
		"expense": core.ExpenseCategories,
	})
}

// resolveWindow validates the period parameter and resolves the window for
// the requested month/year. On a bad period it writes the 400 itself and
// returns ok=false.
func (s *Server) resolveWindow(w http.ResponseWriter, r *http.Request, periodParam string) (core.Window, bool) {
	period := core.Period(periodParam)
	if !period.IsValid() {
		writeJSON(w, http.StatusBadRequest, writeResult{
			Success: false,
			Error:   fmt.Sprintf("invalid period %q: must be weekly, monthly or annually", periodParam),
		})
		return core.Window{}, false
	}

	year, month := parseYearMonth(r)
	ref := core.NewDate(year, month, 1)
	if period == core.Weekly {
		// A weekly window needs a full reference date, not just a month.
		if v := strings.TrimSpace(r.URL.Query().Get("date")); v != "" {
			if d, err := parseDate(v); err == nil {
				ref = d
			}
		} else {
			ref = core.DateOf(time.Now())
		}
	}
	return core.ResolveWindow(period, ref), true
}

func statsCacheKey(w core.Window) string {
	return string(w.Period) + ":" + core.DateKey(w.Start)
}
