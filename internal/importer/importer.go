// Package importer reads transaction batches from CSV or JSON and turns
// them into normalized transactions, reporting what it had to repair.
package importer

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/agnivade/levenshtein"

	"finbook/internal/core"
)

var ErrMissingHeader = errors.New("missing required header")

// requiredHeaders must be present in a CSV file; the rest are optional
// and default through normalization.
var requiredHeaders = []string{"amount", "type", "account"}

// maxSuggestionDistance bounds how far a category may be from a known one
// before we stop suggesting a correction.
const maxSuggestionDistance = 2

// Report describes the outcome of an import: how many rows made it in,
// what was repaired, and which categories look like typos of existing ones.
type Report struct {
	Imported    int               `json:"imported"`
	BadAmounts  int               `json:"bad_amounts"`
	BadDates    int               `json:"bad_dates"`
	BadAccounts int               `json:"bad_accounts"`
	Suggestions map[string]string `json:"suggestions,omitempty"`
}

// ParseCSV reads raw transactions from CSV. Headers are matched
// case-insensitively and may appear in any order.
func ParseCSV(r io.Reader) ([]core.RawTransaction, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty CSV input")
	}
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range requiredHeaders {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingHeader, required)
		}
	}

	field := func(record []string, name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var out []core.RawTransaction
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV record: %w", err)
		}
		out = append(out, core.RawTransaction{
			Date:     field(record, "date"),
			Amount:   field(record, "amount"),
			Title:    field(record, "title"),
			Category: field(record, "category"),
			Type:     field(record, "type"),
			Account:  field(record, "account"),
			Notes:    field(record, "notes"),
		})
	}
	return out, nil
}

// ParseJSON reads raw transactions from a JSON array.
func ParseJSON(r io.Reader) ([]core.RawTransaction, error) {
	var out []core.RawTransaction
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode JSON transactions: %w", err)
	}
	return out, nil
}

// Import normalizes raw rows and builds the report, suggesting category
// corrections against the categories already in use. Rows that cannot form
// a valid transaction are dropped and counted; one bad row never aborts
// the batch.
func Import(raw []core.RawTransaction, knownCategories []string) ([]core.Transaction, Report) {
	normalized, nr := core.Normalize(raw)
	report := Report{
		BadAmounts: nr.BadAmounts,
		BadDates:   nr.BadDates,
	}
	txns := make([]core.Transaction, 0, len(normalized))
	for _, t := range normalized {
		// Normalization coerces amounts and types, so the only way a row
		// fails validation here is a missing account.
		if err := t.Validate(); err != nil {
			report.BadAccounts++
			continue
		}
		txns = append(txns, t)
	}
	report.Imported = len(txns)
	report.Suggestions = SuggestCategories(txns, knownCategories)
	return txns, report
}

// SuggestCategories maps imported category names to close matches among
// the known ones. Exact matches (case-insensitive) are not flagged.
func SuggestCategories(txns []core.Transaction, known []string) map[string]string {
	if len(known) == 0 {
		return nil
	}
	suggestions := make(map[string]string)
	seen := make(map[string]bool)
	for _, t := range txns {
		cat := t.Category
		if cat == "" || cat == core.Uncategorized || seen[cat] {
			continue
		}
		seen[cat] = true
		best, bestDist := "", maxSuggestionDistance+1
		for _, k := range known {
			if strings.EqualFold(cat, k) {
				best = ""
				break
			}
			if d := levenshtein.ComputeDistance(strings.ToLower(cat), strings.ToLower(k)); d < bestDist {
				best, bestDist = k, d
			}
		}
		if best != "" {
			suggestions[cat] = best
		}
	}
	if len(suggestions) == 0 {
		return nil
	}
	return suggestions
}

// WriteCSV writes transactions with the same headers the importer accepts.
func WriteCSV(w io.Writer, txns []core.Transaction) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"Date", "Amount", "Title", "Category", "Type", "Account", "Notes"}); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}
	for _, t := range txns {
		date := ""
		if !t.Date.IsZero() {
			date = t.Date.Format("2006-01-02")
		}
		record := []string{
			date,
			t.Amount.String(),
			t.Title,
			t.Category,
			string(t.Type),
			t.Account,
			t.Notes,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write CSV record: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteJSON writes transactions as a JSON array.
func WriteJSON(w io.Writer, txns []core.Transaction) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(txns); err != nil {
		return fmt.Errorf("encode JSON transactions: %w", err)
	}
	return nil
}
