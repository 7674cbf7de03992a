package savings

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// newTestLedger returns a ledger with a deterministic 1 USD = 80 INR rate.
func newTestLedger() *Ledger {
	l := NewLedger()
	l.ApplySyncedRates(NewExchangeRates(decimal.RequireFromString("80"), time.Now()))
	return l
}

func TestLedger_AddGoal(t *testing.T) {
	l := newTestLedger()

	goal, err := l.AddGoal("  Emergency Fund  ", M(1000, USD))
	if err != nil {
		t.Fatalf("AddGoal() returned error: %v", err)
	}
	if goal.Title != "Emergency Fund" {
		t.Errorf("title not trimmed: %q", goal.Title)
	}
	if goal.ID == "" {
		t.Error("goal id was not assigned")
	}
	if !goal.Saved.IsZero() {
		t.Errorf("new goal saved amount = %v, want 0", goal.Saved)
	}
	if len(goal.Contributions) != 0 {
		t.Errorf("new goal has %d contributions, want 0", len(goal.Contributions))
	}
	if goal.CreatedAt.IsZero() {
		t.Error("createdAt was not set")
	}
}

func TestLedger_AddGoal_rejections(t *testing.T) {
	l := newTestLedger()
	if _, err := l.AddGoal("Bike", M(500, USD)); err != nil {
		t.Fatalf("seed goal: %v", err)
	}

	testCases := []struct {
		name   string
		title  string
		amount Money
	}{
		{"empty title", "   ", M(100, USD)},
		{"title too long", "this title is way too long to be a goal name", M(100, USD)},
		{"duplicate title", "Bike", M(100, USD)},
		{"zero amount", "Car", M(0, USD)},
		{"negative amount", "Car", M(-10, USD)},
		{"amount above ceiling", "Car", M(decimal.RequireFromString("1000000001"), USD)},
		{"unsupported currency", "Car", M(100, Currency("EUR"))},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := l.AddGoal(tc.title, tc.amount); err == nil {
				t.Errorf("AddGoal(%q, %v) should have been rejected", tc.title, tc.amount)
			}
		})
	}

	if got := len(l.Goals()); got != 1 {
		t.Errorf("rejected goals leaked into the ledger: %d goals, want 1", got)
	}
}

func TestLedger_RemoveGoal(t *testing.T) {
	l := newTestLedger()
	goal, _ := l.AddGoal("Bike", M(500, USD))

	if err := l.RemoveGoal(goal.ID); err != nil {
		t.Fatalf("RemoveGoal() returned error: %v", err)
	}
	if got := len(l.Goals()); got != 0 {
		t.Errorf("goal not removed, %d goals left", got)
	}
	if err := l.RemoveGoal(goal.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("removing a removed goal: got %v, want ErrNotFound", err)
	}
}

// TestLedger_emergencyFundScenario follows the canonical walkthrough:
// contribute, clamp on overshoot, then reject a target below the saved
// amount.
func TestLedger_emergencyFundScenario(t *testing.T) {
	l := newTestLedger()

	goal, err := l.AddGoal("Emergency Fund", M(1000, USD))
	if err != nil {
		t.Fatalf("AddGoal: %v", err)
	}

	if _, err := l.AddContribution(goal.ID, M(400, USD), "", time.Time{}); err != nil {
		t.Fatalf("first contribution: %v", err)
	}
	got, _ := l.Goal(goal.ID)
	if !got.Saved.Equal(M(400, USD)) {
		t.Fatalf("saved = %v, want $400.00", got.Saved)
	}
	if !got.Progress().Equal(40) {
		t.Errorf("progress = %v, want 40%%", got.Progress())
	}

	// Overshooting contribution clamps to exactly complete the goal.
	c, err := l.AddContribution(goal.ID, M(700, USD), "", time.Time{})
	if err != nil {
		t.Fatalf("second contribution: %v", err)
	}
	if !c.Amount.Equal(M(600, USD)) {
		t.Errorf("stored contribution = %v, want clamped $600.00", c.Amount)
	}
	got, _ = l.Goal(goal.ID)
	if !got.Saved.Equal(M(1000, USD)) {
		t.Errorf("saved = %v, want exactly $1,000.00", got.Saved)
	}
	if !got.Progress().Equal(100) {
		t.Errorf("progress = %v, want 100%%", got.Progress())
	}
	if !got.IsComplete() {
		t.Error("goal should be complete")
	}

	// Lowering the target below the saved amount is rejected.
	if _, err := l.UpdateGoalAmount(goal.ID, M(500, USD)); err == nil {
		t.Error("UpdateGoalAmount(500) below saved=1000 should have been rejected")
	}

	// Raising it reopens the goal.
	updated, err := l.UpdateGoalAmount(goal.ID, M(2000, USD))
	if err != nil {
		t.Fatalf("UpdateGoalAmount(2000): %v", err)
	}
	if updated.IsComplete() {
		t.Error("goal should be active again after raising the target")
	}
	if !updated.Saved.Equal(M(1000, USD)) {
		t.Errorf("target edit touched saved amount: %v", updated.Saved)
	}
	if len(updated.Contributions) != 2 {
		t.Errorf("target edit touched contributions: %d", len(updated.Contributions))
	}
}

func TestLedger_AddContribution_rejections(t *testing.T) {
	l := newTestLedger()
	goal, _ := l.AddGoal("Trip", M(100, USD))

	future := time.Now().Add(24 * time.Hour)
	longNote := make([]byte, maxNoteLen+1)
	for i := range longNote {
		longNote[i] = 'x'
	}

	if _, err := l.AddContribution("no-such-id", M(10, USD), "", time.Time{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown goal: got %v, want ErrNotFound", err)
	}
	if _, err := l.AddContribution(goal.ID, M(0, USD), "", time.Time{}); err == nil {
		t.Error("zero amount should be rejected")
	}
	if _, err := l.AddContribution(goal.ID, M(-5, USD), "", time.Time{}); err == nil {
		t.Error("negative amount should be rejected")
	}
	if _, err := l.AddContribution(goal.ID, M(10, USD), "", future); err == nil {
		t.Error("future date should be rejected")
	}
	if _, err := l.AddContribution(goal.ID, M(10, USD), string(longNote), time.Time{}); err == nil {
		t.Error("over-long note should be rejected")
	}

	// backdating is fine
	if _, err := l.AddContribution(goal.ID, M(10, USD), "", time.Now().Add(-48*time.Hour)); err != nil {
		t.Errorf("backdated contribution rejected: %v", err)
	}

	// a completed goal takes no further contributions
	if _, err := l.AddContribution(goal.ID, M(1000, USD), "", time.Time{}); err != nil {
		t.Fatalf("completing contribution: %v", err)
	}
	if _, err := l.AddContribution(goal.ID, M(1, USD), "", time.Time{}); err == nil {
		t.Error("contributing to a completed goal should be rejected")
	}
}

func TestLedger_AddContribution_convertsIntoGoalCurrency(t *testing.T) {
	l := newTestLedger() // 1 USD = 80 INR
	goal, _ := l.AddGoal("Wedding", M(100000, INR))

	c, err := l.AddContribution(goal.ID, M(100, USD), "", time.Time{})
	if err != nil {
		t.Fatalf("AddContribution: %v", err)
	}
	if c.Amount.Currency() != INR {
		t.Errorf("stored currency = %v, want INR", c.Amount.Currency())
	}
	if !c.Amount.Equal(M(8000, INR)) {
		t.Errorf("stored amount = %v, want ₹8,000.00", c.Amount)
	}
}

// The saved amount invariant: after any sequence of contributions,
// saved == min(target, sum of stored contributions) and saved <= target.
func TestLedger_savedAmountInvariant(t *testing.T) {
	l := newTestLedger()
	goal, _ := l.AddGoal("Laptop", M(1000, USD))

	for _, amount := range []float64{100, 250, 400, 900} {
		// overshoots are clamped, not rejected, while room remains
		if _, err := l.AddContribution(goal.ID, M(amount, USD), "", time.Time{}); err != nil {
			t.Fatalf("AddContribution(%v): %v", amount, err)
		}
		got, _ := l.Goal(goal.ID)
		sum := M(0, USD)
		for _, c := range got.Contributions {
			sum = sum.Add(c.Amount)
		}
		if !got.Saved.Equal(sum) {
			t.Fatalf("saved %v != sum of stored contributions %v", got.Saved, sum)
		}
		if got.Saved.GreaterThan(got.Amount) {
			t.Fatalf("saved %v exceeds target %v", got.Saved, got.Amount)
		}
	}
}

func TestLedger_totalsAcrossCurrencies(t *testing.T) {
	l := newTestLedger() // 1 USD = 80 INR

	g1, _ := l.AddGoal("US goal", M(100, USD))
	g2, _ := l.AddGoal("IN goal", M(8000, INR))
	l.AddContribution(g1.ID, M(50, USD), "", time.Time{})
	l.AddContribution(g2.ID, M(4000, INR), "", time.Time{})

	target, err := l.TotalTarget(USD)
	if err != nil {
		t.Fatalf("TotalTarget: %v", err)
	}
	if !target.Equal(M(200, USD)) {
		t.Errorf("TotalTarget(USD) = %v, want $200.00", target)
	}

	saved, err := l.TotalSaved(INR)
	if err != nil {
		t.Fatalf("TotalSaved: %v", err)
	}
	if !saved.Equal(M(8000, INR)) {
		t.Errorf("TotalSaved(INR) = %v, want ₹8,000.00", saved)
	}

	if got := l.OverallProgress(); !got.Equal(50) {
		t.Errorf("OverallProgress() = %v, want 50%%", got)
	}

	if _, err := l.TotalSaved(Currency("EUR")); err == nil {
		t.Error("TotalSaved(EUR) should fail")
	}
}

func TestLedger_OverallProgress_zeroGoals(t *testing.T) {
	l := newTestLedger()
	if got := l.OverallProgress(); got != 0 {
		t.Errorf("OverallProgress() with no goals = %v, want 0", got)
	}
}

func TestLedger_Goals_displayOrder(t *testing.T) {
	l := newTestLedger()

	// Insert with controlled creation dates to check the derived order.
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l.ApplySyncedGoals([]Goal{
		{ID: "a", Title: "Oldest", Amount: M(1, USD), Saved: M(0, USD), CreatedAt: base},
		{ID: "b", Title: "Newest", Amount: M(1, USD), Saved: M(0, USD), CreatedAt: base.Add(2 * time.Hour)},
		{ID: "c", Title: "Tie low id", Amount: M(1, USD), Saved: M(0, USD), CreatedAt: base.Add(time.Hour)},
		{ID: "d", Title: "Tie high id", Amount: M(1, USD), Saved: M(0, USD), CreatedAt: base.Add(time.Hour)},
	})

	var got []string
	for _, g := range l.Goals() {
		got = append(got, g.ID)
	}
	want := []string{"b", "d", "c", "a"} // newest first, ties by id reverse lexical
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("display order = %v, want %v", got, want)
		}
	}
}

func TestLedger_UpdateGoalAmount_currencyMismatch(t *testing.T) {
	l := newTestLedger()
	goal, _ := l.AddGoal("Trip", M(100, USD))
	if _, err := l.UpdateGoalAmount(goal.ID, M(5000, INR)); err == nil {
		t.Error("changing the target currency should be rejected")
	}
	if _, err := l.UpdateGoalAmount("no-such-id", M(50, USD)); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown goal: got %v, want ErrNotFound", err)
	}
}
