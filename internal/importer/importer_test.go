package importer

import (
	"bytes"
	"strings"
	"testing"

	"finbook/internal/core"
)

func TestParseCSV(t *testing.T) {
	input := `Date,Amount,Title,Category,Type,Account,Notes
2024-01-15,42.50,Groceries,Food,expense,Checking,weekly run
2024-01-31,2500.00,Salary,Income,income,Checking,
`
	raw, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(raw) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(raw))
	}
	if raw[0].Amount != "42.50" || raw[0].Account != "Checking" {
		t.Errorf("unexpected first row: %+v", raw[0])
	}
	if raw[1].Type != "income" {
		t.Errorf("expected income type, got %q", raw[1].Type)
	}
}

func TestParseCSVHeaderOrderAndCase(t *testing.T) {
	input := `account,TYPE,amount
Savings,expense,10.00
`
	raw, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(raw) != 1 {
		t.Fatalf("expected 1 row, got %d", len(raw))
	}
	if raw[0].Account != "Savings" || raw[0].Amount != "10.00" {
		t.Errorf("unexpected row: %+v", raw[0])
	}
}

func TestParseCSVMissingRequiredHeader(t *testing.T) {
	input := `Date,Amount,Title
2024-01-15,42.50,Groceries
`
	if _, err := ParseCSV(strings.NewReader(input)); err == nil {
		t.Error("expected error for missing type and account headers")
	}
}

func TestParseCSVEmpty(t *testing.T) {
	if _, err := ParseCSV(strings.NewReader("")); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestParseJSON(t *testing.T) {
	input := `[{"date":"2024-01-15","amount":"42.50","type":"expense","account":"checking","category":"Food"}]`
	raw, err := ParseJSON(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if len(raw) != 1 || raw[0].Amount != "42.50" {
		t.Fatalf("unexpected rows: %+v", raw)
	}
}

func TestImportReportsRepairs(t *testing.T) {
	raw := []core.RawTransaction{
		{Date: "2024-01-15", Amount: "42.50", Type: "expense", Account: "checking", Category: "Food"},
		{Date: "not-a-date", Amount: "oops", Type: "expense", Account: "checking", Category: "Food"},
	}
	txns, report := Import(raw, nil)
	if len(txns) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txns))
	}
	if report.Imported != 2 {
		t.Errorf("expected imported 2, got %d", report.Imported)
	}
	if report.BadAmounts != 1 {
		t.Errorf("expected 1 bad amount, got %d", report.BadAmounts)
	}
	if report.BadDates != 1 {
		t.Errorf("expected 1 bad date, got %d", report.BadDates)
	}
}

func TestImportDropsRowsWithoutAccount(t *testing.T) {
	raw := []core.RawTransaction{
		{Date: "2024-01-15", Amount: "42.50", Type: "expense", Account: "checking", Category: "Food"},
		{Date: "2024-01-16", Amount: "10.00", Type: "expense", Account: "", Category: "Food"},
		{Date: "2024-01-17", Amount: "5.00", Type: "expense", Account: "checking", Category: "Food"},
	}
	txns, report := Import(raw, nil)
	if len(txns) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txns))
	}
	if report.Imported != 2 {
		t.Errorf("expected imported 2, got %d", report.Imported)
	}
	if report.BadAccounts != 1 {
		t.Errorf("expected 1 bad account, got %d", report.BadAccounts)
	}
	for _, tx := range txns {
		if tx.Account == "" {
			t.Error("transaction without account survived import")
		}
	}
}

func TestSuggestCategories(t *testing.T) {
	txns := []core.Transaction{
		{Category: "Grocerys"},
		{Category: "Rent"},
		{Category: "Nowhere Close"},
	}
	known := []string{"Groceries", "Rent", "Utilities"}
	got := SuggestCategories(txns, known)
	if got["Grocerys"] != "Groceries" {
		t.Errorf("expected Grocerys -> Groceries, got %q", got["Grocerys"])
	}
	if _, ok := got["Rent"]; ok {
		t.Error("exact match should not be suggested")
	}
	if _, ok := got["Nowhere Close"]; ok {
		t.Error("distant category should not be suggested")
	}
}

func TestCSVRoundTrip(t *testing.T) {
	d, _ := core.ParseDate("2024-01-15")
	txns := []core.Transaction{
		{ID: "1", Date: d, Title: "Groceries", Amount: core.Money{Cents: 4250}, Type: core.Expense, Account: "Checking", Category: "Food"},
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, txns); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	raw, err := ParseCSV(&buf)
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	back, report := Import(raw, nil)
	if report.BadAmounts != 0 || report.BadDates != 0 {
		t.Fatalf("unexpected repairs: %+v", report)
	}
	if len(back) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(back))
	}
	if back[0].Amount.Cents != 4250 || back[0].Category != "Food" {
		t.Errorf("round trip mismatch: %+v", back[0])
	}
}
