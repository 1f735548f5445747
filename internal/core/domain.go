package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income   TransactionType = "income"
	Expense  TransactionType = "expense"
	Transfer TransactionType = "transfer"
)

// Uncategorized is the category assigned to transactions without one.
const Uncategorized = "Uncategorized"

type (
	TransactionType string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64 `json:"cents"`
	}

	// Transaction is a single dated financial movement. Amount is always a
	// non-negative magnitude; direction comes from Type. Transfers carry no
	// direction and are excluded from balance and category math.
	Transaction struct {
		ID       string          `json:"id"`
		Date     Date            `json:"date"`
		Title    string          `json:"title"`
		Amount   Money           `json:"amount"`
		Type     TransactionType `json:"type"`
		Account  string          `json:"account"`
		Category string          `json:"category"`
		Notes    string          `json:"notes,omitempty"`
	}

	// RawTransaction is a transaction record as received from imports or the
	// API, before any coercion. All fields are strings on purpose: the
	// normalizer owns the conversion rules.
	RawTransaction struct {
		ID       string `json:"id,omitempty"`
		Date     string `json:"date"`
		Title    string `json:"title"`
		Amount   string `json:"amount"`
		Type     string `json:"type"`
		Account  string `json:"account"`
		Category string `json:"category"`
		Notes    string `json:"notes,omitempty"`
	}

	// PlanStep is one entry of a goal's action plan.
	PlanStep struct {
		Step        int    `json:"step" yaml:"step"`
		Action      string `json:"action" yaml:"action"`
		Timeframe   string `json:"timeframe" yaml:"timeframe"`
		Description string `json:"description" yaml:"description"`
	}

	// Goal is a user-declared financial objective with its canned plan. The
	// plan is computed once when the goal is created and never revisited;
	// completion is a one-way transition.
	Goal struct {
		ID          string     `json:"id"`
		Text        string     `json:"text"`
		Steps       []PlanStep `json:"steps"`
		Timeframe   string     `json:"timeframe"`
		Completed   bool       `json:"completed"`
		CreatedAt   Date       `json:"createdAt"`
		CompletedAt Date       `json:"completedAt,omitempty"`
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidType   = errors.New("invalid transaction type")
	ErrEmptyAccount  = errors.New("empty account")
	ErrEmptyText     = errors.New("empty goal text")
)

func (t TransactionType) Valid() bool {
	switch t {
	case Income, Expense, Transfer:
		return true
	}
	return false
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// MarshalJSON renders the date as "YYYY-MM-DD", or null when unset.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format("2006-01-02") + `"`), nil
}

// UnmarshalJSON accepts "YYYY-MM-DD", an empty string, or null.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return err
	}
	*d = Date{Time: t}
	return nil
}

// MonthKey returns the "YYYY-MM" key used for budget plans.
func (d Date) MonthKey() string {
	return d.Format("2006-01")
}

// MonthYear returns the "January 2024" bucket label used by account views.
func (d Date) MonthYear() string {
	return d.Format("January 2006")
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (m Money) Add(o Money) Money { return Money{Cents: m.Cents + o.Cents} }

func (m Money) Sub(o Money) Money { return Money{Cents: m.Cents - o.Cents} }

func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Account) == "" {
		return ErrEmptyAccount
	}
	return nil
}

// SameAccount reports whether the transaction belongs to the named account,
// compared case-insensitively as required for grouping.
func (t Transaction) SameAccount(name string) bool {
	return strings.EqualFold(strings.TrimSpace(t.Account), strings.TrimSpace(name))
}

// Capitalize upper-cases the first letter and lower-cases the remainder,
// matching the display form used for account labels.
func Capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
