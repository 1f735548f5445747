package core

import (
	"strings"
	"time"
)

// dateLayouts are the accepted import date formats, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"2/1/2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// NormalizeReport counts the fields that degraded to defaults during
// normalization. Records are never dropped; a bad amount contributes 0 and a
// bad date leaves the record outside every month bucket.
type NormalizeReport struct {
	BadAmounts int
	BadDates   int
}

// Degraded reports whether any field was substituted.
func (r NormalizeReport) Degraded() bool {
	return r.BadAmounts > 0 || r.BadDates > 0
}

// Normalize coerces raw records into transactions. It is total over its input:
// malformed fields degrade to defaults instead of failing the batch.
func Normalize(raw []RawTransaction) ([]Transaction, NormalizeReport) {
	var report NormalizeReport
	out := make([]Transaction, 0, len(raw))
	for _, r := range raw {
		t, rec := normalizeOne(r)
		report.BadAmounts += rec.BadAmounts
		report.BadDates += rec.BadDates
		out = append(out, t)
	}
	return out, report
}

func normalizeOne(r RawTransaction) (Transaction, NormalizeReport) {
	var report NormalizeReport

	cents, ok := LenientCents(r.Amount)
	if !ok {
		report.BadAmounts++
	}

	date, ok := ParseDate(r.Date)
	if !ok && strings.TrimSpace(r.Date) != "" {
		report.BadDates++
	}

	category := strings.TrimSpace(r.Category)
	if category == "" {
		category = Uncategorized
	}

	return Transaction{
		ID:       strings.TrimSpace(r.ID),
		Date:     date,
		Title:    strings.TrimSpace(r.Title),
		Amount:   Money{Cents: cents},
		Type:     normalizeType(r.Type),
		Account:  Capitalize(r.Account),
		Category: category,
		Notes:    strings.TrimSpace(r.Notes),
	}, report
}

// ParseDate parses a calendar date, trying each accepted layout.
func ParseDate(s string) (Date, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{Time: t}, true
		}
	}
	return Date{}, false
}

// normalizeType folds the type label; anything unrecognized becomes an
// expense so the record still shows up somewhere rather than vanishing.
func normalizeType(s string) TransactionType {
	switch TransactionType(strings.ToLower(strings.TrimSpace(s))) {
	case Income:
		return Income
	case Transfer:
		return Transfer
	default:
		return Expense
	}
}
