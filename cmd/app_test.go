package cmd

import (
	"strings"
	"testing"

	"github.com/etnz/savings"
)

func TestParseMoney(t *testing.T) {
	testCases := []struct {
		amount   string
		currency string
		wantErr  bool
		want     savings.Money
	}{
		{"1000", "USD", false, savings.M(1000, savings.USD)},
		{"99.99", "USD", false, savings.M(99.99, savings.USD)},
		{"500000", "INR", false, savings.M(500000, savings.INR)},
		{"1000", "EUR", true, savings.Money{}},
		{"abc", "USD", true, savings.Money{}},
	}
	for _, tc := range testCases {
		got, err := parseMoney(tc.amount, tc.currency)
		if tc.wantErr {
			if err == nil {
				t.Errorf("parseMoney(%q, %q) should fail", tc.amount, tc.currency)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseMoney(%q, %q): %v", tc.amount, tc.currency, err)
			continue
		}
		if !got.Equal(tc.want) || got.Currency() != tc.want.Currency() {
			t.Errorf("parseMoney(%q, %q) = %v, want %v", tc.amount, tc.currency, got, tc.want)
		}
	}
}

func TestParseMoney_lowercaseCurrency(t *testing.T) {
	// ParseCurrency accepts lowercase codes
	got, err := parseMoney("10", "inr")
	if err != nil {
		t.Fatalf("lowercase currency code rejected: %v", err)
	}
	if got.Currency() != savings.INR {
		t.Errorf("currency = %v, want INR", got.Currency())
	}
}

func TestFindGoal(t *testing.T) {
	l := savings.NewLedger()
	fund, err := l.AddGoal("Emergency Fund", savings.M(1000, savings.USD))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := l.AddGoal("Emirates Trip", savings.M(2000, savings.USD)); err != nil {
		t.Fatal(err)
	}

	// by id
	if got, err := findGoal(l, fund.ID); err != nil || got.ID != fund.ID {
		t.Errorf("findGoal by id = %v, %v", got.Title, err)
	}
	// by exact title, case insensitive
	if got, err := findGoal(l, "emergency fund"); err != nil || got.ID != fund.ID {
		t.Errorf("findGoal by title = %v, %v", got.Title, err)
	}
	// by unique prefix
	if got, err := findGoal(l, "Emerg"); err != nil || got.ID != fund.ID {
		t.Errorf("findGoal by prefix = %v, %v", got.Title, err)
	}
	// ambiguous prefix
	if _, err := findGoal(l, "Em"); err == nil || !strings.Contains(err.Error(), "ambiguous") {
		t.Errorf("ambiguous prefix should fail, got %v", err)
	}
	// no match
	if _, err := findGoal(l, "Car"); err == nil {
		t.Error("unknown reference should fail")
	}
}

func TestOpenLedger_roundTrip(t *testing.T) {
	old := *dataDir
	*dataDir = t.TempDir()
	defer func() { *dataDir = old }()

	ledger, bridge, err := openLedger()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ledger.AddGoal("Bike", savings.M(500, savings.USD)); err != nil {
		t.Fatal(err)
	}
	bridge.Close()

	ledger, bridge, err = openLedger()
	if err != nil {
		t.Fatal(err)
	}
	defer bridge.Close()
	goals := ledger.Goals()
	if len(goals) != 1 || goals[0].Title != "Bike" {
		t.Errorf("state not restored from the data folder: %+v", goals)
	}
}
