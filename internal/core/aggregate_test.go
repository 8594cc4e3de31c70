package core

import (
	"math"
	"testing"
	"time"
)

func tx(kind Kind, cents int64, category string, year int, month time.Month, day int) Transaction {
	return Transaction{
		Kind:       kind,
		Amount:     Money{Cents: cents},
		Category:   category,
		OccurredAt: NewDate(year, month, day),
	}
}

func TestSummarize(t *testing.T) {
	ts := []Transaction{
		tx(Income, 10000, "Salary", 2024, time.March, 1),
		tx(Expense, 3000, "Food & Dining", 2024, time.March, 1),
		tx(Expense, 2000, "Food & Dining", 2024, time.March, 15),
	}
	s := Summarize(ts)
	if s.TotalIncome.Cents != 10000 || s.TotalExpenses.Cents != 5000 {
		t.Fatalf("totals = %+v", s)
	}
	if s.Balance.Cents != 5000 {
		t.Fatalf("balance = %d, want 5000", s.Balance.Cents)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.TotalIncome.Cents != 0 || s.TotalExpenses.Cents != 0 || s.Balance.Cents != 0 {
		t.Fatalf("expected zeros, got %+v", s)
	}
}

func TestSummarizeBalanceMatchesTotals(t *testing.T) {
	ts := []Transaction{
		tx(Income, 123, "Salary", 2024, time.January, 2),
		tx(Income, 77, "Gift", 2024, time.January, 3),
		tx(Expense, 450, "Travel", 2024, time.January, 4),
	}
	s := Summarize(ts)
	if s.Balance.Cents != s.TotalIncome.Cents-s.TotalExpenses.Cents {
		t.Fatalf("balance does not match totals: %+v", s)
	}
}

func TestGroupByCategory(t *testing.T) {
	ts := []Transaction{
		tx(Expense, 3000, "Food & Dining", 2024, time.March, 1),
		tx(Expense, 2000, "Food & Dining", 2024, time.March, 15),
		tx(Expense, 5000, "Travel", 2024, time.March, 20),
		tx(Income, 10000, "Salary", 2024, time.March, 1), // other kind, ignored
	}
	stats := GroupByCategory(ts, Expense, Money{Cents: 10000})

	if len(stats) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(stats))
	}
	// Descending by amount; Travel (5000) first.
	if stats[0].Category != "Travel" || stats[0].Amount.Cents != 5000 {
		t.Fatalf("first group = %+v", stats[0])
	}
	if stats[1].Category != "Food & Dining" || stats[1].Amount.Cents != 5000 {
		t.Fatalf("second group = %+v", stats[1])
	}
	if stats[1].Count != 2 {
		t.Fatalf("count = %d, want 2", stats[1].Count)
	}

	// Amounts sum to the total and percentages to ~100.
	var amountSum int64
	var pctSum float64
	for _, s := range stats {
		amountSum += s.Amount.Cents
		pctSum += s.Percentage
	}
	if amountSum != 10000 {
		t.Fatalf("amount sum = %d, want 10000", amountSum)
	}
	if math.Abs(pctSum-100) > 1e-9 {
		t.Fatalf("percentage sum = %f, want 100", pctSum)
	}
}

func TestGroupByCategoryZeroTotal(t *testing.T) {
	ts := []Transaction{tx(Expense, 100, "Travel", 2024, time.March, 1)}
	stats := GroupByCategory(ts, Expense, Money{})
	if len(stats) != 1 || stats[0].Percentage != 0 {
		t.Fatalf("expected zero percentage for zero total, got %+v", stats)
	}
}

func TestGroupByCategoryDeterministicTies(t *testing.T) {
	ts := []Transaction{
		tx(Expense, 100, "Travel", 2024, time.March, 1),
		tx(Expense, 100, "Education", 2024, time.March, 2),
	}
	for i := 0; i < 10; i++ {
		stats := GroupByCategory(ts, Expense, Money{Cents: 200})
		if stats[0].Category != "Education" || stats[1].Category != "Travel" {
			t.Fatalf("run %d: unexpected tie order %+v", i, stats)
		}
	}
}

func TestGroupByCategoryEmpty(t *testing.T) {
	stats := GroupByCategory(nil, Expense, Money{})
	if stats == nil || len(stats) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", stats)
	}
}

func TestBucketByDay(t *testing.T) {
	ts := []Transaction{
		tx(Income, 10000, "Salary", 2024, time.March, 1),
		tx(Expense, 3000, "Food & Dining", 2024, time.March, 1),
		tx(Expense, 2000, "Food & Dining", 2024, time.March, 15),
	}
	buckets := BucketByDay(ts)
	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(buckets))
	}

	first := buckets["2024-03-01"]
	if first == nil {
		t.Fatalf("missing bucket for 2024-03-01")
	}
	if first.Income.Cents != 10000 || first.Expense.Cents != 3000 || first.Balance.Cents != 7000 {
		t.Fatalf("first bucket = %+v", first)
	}
	if len(first.Transactions) != 2 {
		t.Fatalf("first bucket holds %d transactions, want 2", len(first.Transactions))
	}

	second := buckets["2024-03-15"]
	if second == nil || second.Income.Cents != 0 || second.Expense.Cents != 2000 || second.Balance.Cents != -2000 {
		t.Fatalf("second bucket = %+v", second)
	}
}

func TestBucketByDayTotalsConsistent(t *testing.T) {
	ts := []Transaction{
		tx(Income, 500, "Gift", 2024, time.May, 2),
		tx(Expense, 300, "Shopping", 2024, time.May, 2),
		tx(Income, 100, "Gift", 2024, time.May, 2),
		tx(Expense, 900, "Travel", 2024, time.May, 9),
	}
	buckets := BucketByDay(ts)
	total := 0
	for key, b := range buckets {
		if b.Date != key {
			t.Errorf("bucket key %q carries date %q", key, b.Date)
		}
		if b.Balance.Cents != b.Income.Cents-b.Expense.Cents {
			t.Errorf("bucket %s: balance does not match totals: %+v", key, b)
		}
		var income, expense int64
		for _, btx := range b.Transactions {
			if got := DateKey(DateOf(btx.OccurredAt)); got != key {
				t.Errorf("transaction dated %s landed in bucket %s", got, key)
			}
			if btx.Kind == Income {
				income += btx.Amount.Cents
			} else {
				expense += btx.Amount.Cents
			}
		}
		if income != b.Income.Cents || expense != b.Expense.Cents {
			t.Errorf("bucket %s: transaction sums %d/%d != totals %d/%d",
				key, income, expense, b.Income.Cents, b.Expense.Cents)
		}
		total += len(b.Transactions)
	}
	if total != len(ts) {
		t.Fatalf("every transaction must land in exactly one bucket: %d != %d", total, len(ts))
	}
}

func TestBuildStatsReportScenario(t *testing.T) {
	ts := []Transaction{
		tx(Income, 10000, "Salary", 2024, time.March, 1),
		tx(Expense, 3000, "Food & Dining", 2024, time.March, 1),
		tx(Expense, 2000, "Food & Dining", 2024, time.March, 15),
	}
	report := BuildStatsReport(ts, MonthWindow(2024, time.March))

	if report.TotalIncome.Cents != 10000 || report.TotalExpenses.Cents != 5000 {
		t.Fatalf("totals = %+v", report)
	}
	if len(report.ExpensesByCategory) != 1 {
		t.Fatalf("expense groups = %+v", report.ExpensesByCategory)
	}
	food := report.ExpensesByCategory[0]
	if food.Category != "Food & Dining" || food.Amount.Cents != 5000 || food.Count != 2 {
		t.Fatalf("food group = %+v", food)
	}
	if math.Abs(food.Percentage-100) > 1e-9 {
		t.Fatalf("food percentage = %f, want 100", food.Percentage)
	}
	if report.DateRange != "March 2024" {
		t.Fatalf("date range = %q", report.DateRange)
	}
}

func TestBuildStatsReportEmpty(t *testing.T) {
	report := BuildStatsReport(nil, MonthWindow(2024, time.March))
	if report.TotalIncome.Cents != 0 || report.TotalExpenses.Cents != 0 {
		t.Fatalf("totals = %+v", report)
	}
	if len(report.IncomeByCategory) != 0 || len(report.ExpensesByCategory) != 0 {
		t.Fatalf("expected empty breakdowns, got %+v", report)
	}
}

func TestBuildStatsReportIdempotent(t *testing.T) {
	ts := []Transaction{
		tx(Income, 10000, "Salary", 2024, time.March, 1),
		tx(Expense, 3000, "Travel", 2024, time.March, 2),
		tx(Expense, 3000, "Shopping", 2024, time.March, 3),
	}
	w := MonthWindow(2024, time.March)
	a := BuildStatsReport(ts, w)
	b := BuildStatsReport(ts, w)
	if a.DateRange != b.DateRange || len(a.ExpensesByCategory) != len(b.ExpensesByCategory) {
		t.Fatalf("reports differ: %+v vs %+v", a, b)
	}
	for i := range a.ExpensesByCategory {
		if a.ExpensesByCategory[i] != b.ExpensesByCategory[i] {
			t.Fatalf("group %d differs: %+v vs %+v", i, a.ExpensesByCategory[i], b.ExpensesByCategory[i])
		}
	}
}
