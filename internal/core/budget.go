package core

import "sort"

type (
	// BudgetEntry is one category line of a plan. When IsPercentage is set,
	// Value is a percentage of the plan's expected income; otherwise it is a
	// decimal amount. Switching mode reinterprets against the currently
	// stored income, it does not preserve the original figure.
	BudgetEntry struct {
		Value        float64 `json:"value"`
		IsPercentage bool    `json:"isPercentage"`
	}

	// BudgetPlan is a month-scoped declaration of expected income and
	// per-category targets, persisted externally keyed by "YYYY-MM".
	BudgetPlan struct {
		ExpectedIncome Money                  `json:"expectedIncome"`
		Categories     map[string]BudgetEntry `json:"categories"`
	}

	// CategoryComparison pairs a category's budgeted and actual spend.
	CategoryComparison struct {
		Category string `json:"category"`
		Expected Money  `json:"expected"`
		Actual   Money  `json:"actual"`
	}

	// BudgetReport compares a plan against actuals for one month. Saved
	// figures may be negative; rendering that distinctly is the caller's
	// concern.
	BudgetReport struct {
		MonthKey       string               `json:"monthKey"`
		ExpectedIncome Money                `json:"expectedIncome"`
		ExpectedSpent  Money                `json:"expectedSpent"`
		ActualSpent    Money                `json:"actualSpent"`
		ActualIncome   Money                `json:"actualIncome"`
		ExpectedSaved  Money                `json:"expectedSaved"`
		ActualSaved    Money                `json:"actualSaved"`
		PerCategory    []CategoryComparison `json:"perCategory"`
	}
)

// ExpectedAmount resolves the entry against the plan's expected income:
// percentage entries as income*value/100, absolute entries as the value
// itself converted to cents.
func (e BudgetEntry) ExpectedAmount(income Money) Money {
	if e.IsPercentage {
		return Money{Cents: CentsFromFloat(income.Float() * e.Value / 100)}
	}
	return Money{Cents: CentsFromFloat(e.Value)}
}

// EvaluateBudget merges a plan with actual spend for monthKey ("YYYY-MM").
// A zero-value plan yields zeroed expected figures so callers can render a
// "no budget set" state; it never fails. The category set is the union of
// plan categories and categories seen in expense transactions in any month,
// with actuals restricted to monthKey.
func EvaluateBudget(plan BudgetPlan, monthKey string, txns []Transaction) BudgetReport {
	report := BudgetReport{
		MonthKey:       monthKey,
		ExpectedIncome: plan.ExpectedIncome,
	}

	actualByCategory := make(map[string]Money)
	observed := make(map[string]struct{})
	for _, t := range txns {
		inMonth := !t.Date.IsZero() && t.Date.MonthKey() == monthKey
		switch t.Type {
		case Income:
			if inMonth {
				report.ActualIncome = report.ActualIncome.Add(t.Amount)
			}
		case Expense:
			observed[t.Category] = struct{}{}
			if inMonth {
				report.ActualSpent = report.ActualSpent.Add(t.Amount)
				actualByCategory[t.Category] = actualByCategory[t.Category].Add(t.Amount)
			}
		}
	}

	names := make([]string, 0, len(plan.Categories)+len(observed))
	for name := range plan.Categories {
		names = append(names, name)
	}
	for name := range observed {
		if _, ok := plan.Categories[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		expected := Money{}
		if entry, ok := plan.Categories[name]; ok {
			expected = entry.ExpectedAmount(plan.ExpectedIncome)
			report.ExpectedSpent = report.ExpectedSpent.Add(expected)
		}
		report.PerCategory = append(report.PerCategory, CategoryComparison{
			Category: name,
			Expected: expected,
			Actual:   actualByCategory[name],
		})
	}

	report.ExpectedSaved = report.ExpectedIncome.Sub(report.ExpectedSpent)
	report.ActualSaved = report.ActualIncome.Sub(report.ActualSpent)
	return report
}
