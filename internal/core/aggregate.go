package core

// MonthBucket accumulates one "January 2024" slice of an account or of the
// whole ledger. Transactions keep encounter order.
type MonthBucket struct {
	Spent        Money         `json:"spent"`
	Saved        Money         `json:"saved"`
	Transactions []Transaction `json:"transactions"`
}

// Summary is the full fold over a transaction list. It is recomputed from
// scratch whenever the underlying list changes; nothing here is updated
// incrementally.
type Summary struct {
	TotalBalance  Money                  `json:"totalBalance"`
	TotalIncome   Money                  `json:"totalIncome"`
	TotalExpenses Money                  `json:"totalExpenses"`
	ByCategory    map[string]Money       `json:"byCategory"`
	ByYear        map[int]Money          `json:"byYear"`
	ByMonthYear   map[string]MonthBucket `json:"byMonthYear"`
}

// AccountSummary is the account-scoped fold used by the account detail view.
type AccountSummary struct {
	Name            string                 `json:"name"`
	Balance         Money                  `json:"balance"`
	MonthlyExpenses Money                  `json:"monthlyExpenses"`
	MonthlySavings  Money                  `json:"monthlySavings"`
	Months          map[string]MonthBucket `json:"months"`
}

// Aggregate folds normalized transactions into totals, category sums, yearly
// nets, and month buckets. It is a pure function of its input: running it
// twice on the same list yields identical output. Transfers are excluded from
// every sum; ByCategory sums expenses only, unrestricted by year (use
// CategoryTotalsForYear for the dashboard's current-year scope).
func Aggregate(txns []Transaction) Summary {
	s := Summary{
		ByCategory:  make(map[string]Money),
		ByYear:      make(map[int]Money),
		ByMonthYear: make(map[string]MonthBucket),
	}
	for _, t := range txns {
		switch t.Type {
		case Income:
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
		case Expense:
			s.TotalExpenses = s.TotalExpenses.Add(t.Amount)
			s.ByCategory[t.Category] = s.ByCategory[t.Category].Add(t.Amount)
		default:
			continue
		}

		if t.Date.IsZero() {
			// Records with unparsable dates still count toward totals but
			// have no year or month bucket to land in.
			continue
		}

		year := t.Date.Year()
		key := t.Date.MonthYear()
		bucket := s.ByMonthYear[key]
		bucket.Transactions = append(bucket.Transactions, t)
		if t.Type == Income {
			s.ByYear[year] = s.ByYear[year].Add(t.Amount)
			bucket.Saved = bucket.Saved.Add(t.Amount)
		} else {
			s.ByYear[year] = s.ByYear[year].Sub(t.Amount)
			bucket.Spent = bucket.Spent.Add(t.Amount)
		}
		s.ByMonthYear[key] = bucket
	}
	s.TotalBalance = s.TotalIncome.Sub(s.TotalExpenses)
	return s
}

// CategoryTotalsForYear sums expense amounts per category for one calendar
// year, the scope the dashboard pie uses.
func CategoryTotalsForYear(txns []Transaction, year int) map[string]Money {
	out := make(map[string]Money)
	for _, t := range txns {
		if t.Type != Expense || t.Date.IsZero() || t.Date.Year() != year {
			continue
		}
		out[t.Category] = out[t.Category].Add(t.Amount)
	}
	return out
}

// HasNegativeYear reports whether any year nets below zero; callers draw a
// zero reference line on the yearly chart when it does.
func (s Summary) HasNegativeYear() bool {
	for _, net := range s.ByYear {
		if net.Cents < 0 {
			return true
		}
	}
	return false
}

// AggregateByAccount filters by case-insensitive account match and applies
// the same fold, keeping the per-month buckets for the detail view.
func AggregateByAccount(txns []Transaction, account string) AccountSummary {
	sum := AccountSummary{
		Name:   Capitalize(account),
		Months: make(map[string]MonthBucket),
	}
	for _, t := range txns {
		if !t.SameAccount(account) {
			continue
		}
		switch t.Type {
		case Income:
			sum.Balance = sum.Balance.Add(t.Amount)
			sum.MonthlySavings = sum.MonthlySavings.Add(t.Amount)
		case Expense:
			sum.Balance = sum.Balance.Sub(t.Amount)
			sum.MonthlyExpenses = sum.MonthlyExpenses.Add(t.Amount)
		default:
			continue
		}
		if t.Date.IsZero() {
			continue
		}
		key := t.Date.MonthYear()
		bucket := sum.Months[key]
		bucket.Transactions = append(bucket.Transactions, t)
		if t.Type == Income {
			bucket.Saved = bucket.Saved.Add(t.Amount)
		} else {
			bucket.Spent = bucket.Spent.Add(t.Amount)
		}
		sum.Months[key] = bucket
	}
	return sum
}

// AccountNames returns the distinct display names of every account seen in
// the list, first-seen order.
func AccountNames(txns []Transaction) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, t := range txns {
		name := Capitalize(t.Account)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
