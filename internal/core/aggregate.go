package core

import "sort"

type (
	// Summary reduces a set of transactions to totals per kind.
	Summary struct {
		TotalIncome   Money `json:"totalIncome"`
		TotalExpenses Money `json:"totalExpenses"`
		Balance       Money `json:"balance"`
	}

	// CategoryStats is one slice of the per-category breakdown for a kind.
	CategoryStats struct {
		Category   string  `json:"category"`
		Amount     Money   `json:"amount"`
		Percentage float64 `json:"percentage"`
		Count      int     `json:"count"`
	}

	// DayData is the calendar bucket for one local calendar day.
	DayData struct {
		Date         string        `json:"date"`
		Income       Money         `json:"income"`
		Expense      Money         `json:"expense"`
		Balance      Money         `json:"balance"`
		Transactions []Transaction `json:"transactions"`
	}

	// StatsReport is the statistics view for a resolved window.
	StatsReport struct {
		TotalIncome        Money           `json:"totalIncome"`
		TotalExpenses      Money           `json:"totalExpenses"`
		IncomeByCategory   []CategoryStats `json:"incomeByCategory"`
		ExpensesByCategory []CategoryStats `json:"expensesByCategory"`
		DateRange          string          `json:"dateRange"`
	}
)

// Summarize computes the income/expense totals over a transaction set.
// Empty input yields zeros.
func Summarize(transactions []Transaction) Summary {
	var s Summary
	for _, t := range transactions {
		switch t.Kind {
		case Income:
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
		case Expense:
			s.TotalExpenses = s.TotalExpenses.Add(t.Amount)
		}
	}
	s.Balance = s.TotalIncome.Sub(s.TotalExpenses)
	return s
}

// GroupByCategory builds the descending-by-amount category breakdown for
// one kind. Categories are compared for exact string equality. Percentage
// is relative to total and defined as 0 when the total is 0. Ties break
// by category name so repeated runs stay deterministic.
func GroupByCategory(transactions []Transaction, kind Kind, total Money) []CategoryStats {
	type group struct {
		amount Money
		count  int
	}
	groups := make(map[string]*group)
	for _, t := range transactions {
		if t.Kind != kind {
			continue
		}
		g, ok := groups[t.Category]
		if !ok {
			g = &group{}
			groups[t.Category] = g
		}
		g.amount = g.amount.Add(t.Amount)
		g.count++
	}

	stats := make([]CategoryStats, 0, len(groups))
	for category, g := range groups {
		pct := 0.0
		if total.Cents > 0 {
			pct = float64(g.amount.Cents) / float64(total.Cents) * 100
		}
		stats = append(stats, CategoryStats{
			Category:   category,
			Amount:     g.amount,
			Percentage: pct,
			Count:      g.count,
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Amount.Cents != stats[j].Amount.Cents {
			return stats[i].Amount.Cents > stats[j].Amount.Cents
		}
		return stats[i].Category < stats[j].Category
	})
	return stats
}

// BucketByDay groups transactions into per-calendar-day buckets keyed by
// YYYY-MM-DD. The bucket balance is recomputed after every append so a
// partially filled bucket is still internally consistent.
func BucketByDay(transactions []Transaction) map[string]*DayData {
	buckets := make(map[string]*DayData)
	for _, t := range transactions {
		key := DateKey(DateOf(t.OccurredAt))
		b, ok := buckets[key]
		if !ok {
			b = &DayData{Date: key}
			buckets[key] = b
		}
		b.Transactions = append(b.Transactions, t)
		switch t.Kind {
		case Income:
			b.Income = b.Income.Add(t.Amount)
		case Expense:
			b.Expense = b.Expense.Add(t.Amount)
		}
		b.Balance = b.Income.Sub(b.Expense)
	}
	return buckets
}

// BuildStatsReport assembles the full statistics view for a window from
// the transactions already fetched for it.
func BuildStatsReport(transactions []Transaction, w Window) StatsReport {
	summary := Summarize(transactions)
	return StatsReport{
		TotalIncome:        summary.TotalIncome,
		TotalExpenses:      summary.TotalExpenses,
		IncomeByCategory:   GroupByCategory(transactions, Income, summary.TotalIncome),
		ExpensesByCategory: GroupByCategory(transactions, Expense, summary.TotalExpenses),
		DateRange:          w.Label(),
	}
}
