package savings

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Validation rules shared by every entry point that introduces goals or
// contributions into the ledger: direct mutations, startup restore, imports
// and cross-process sync. There is exactly one authoritative validator per
// entity so the invariants hold regardless of the caller.

const maxTitleLen = 30
const maxNoteLen = 100

// maxAmount is the ceiling applied to goal targets and contributions.
var maxAmount = decimal.NewFromInt(1_000_000_000)

// ValidateTitle trims the title and checks its length. It returns the
// trimmed value to be stored.
func ValidateTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", errValidation("title", "must not be empty")
	}
	if utf8.RuneCountInString(trimmed) > maxTitleLen {
		return "", errValidation("title", "must be at most %d characters", maxTitleLen)
	}
	return trimmed, nil
}

// ValidateAmount checks that a monetary amount is positive, below the
// ceiling, and denominated in a supported currency.
func ValidateAmount(m Money) error {
	if err := ValidateCurrency(m.Currency()); err != nil {
		return errValidation("currency", "%v", err)
	}
	if !m.IsPositive() {
		return errValidation("amount", "must be greater than 0")
	}
	if m.Amount().GreaterThan(maxAmount) {
		return errValidation("amount", "cannot exceed %s", maxAmount)
	}
	return nil
}

// ValidateDate rejects future-dated timestamps. Backdating is allowed.
func ValidateDate(t, now time.Time) error {
	if t.After(now) {
		return errValidation("date", "cannot be in the future")
	}
	return nil
}

// ValidateNote checks the optional contribution note.
func ValidateNote(note string) error {
	if utf8.RuneCountInString(note) > maxNoteLen {
		return errValidation("note", "must be at most %d characters", maxNoteLen)
	}
	return nil
}

// Validate checks a contribution restored from storage or an import.
func (c Contribution) Validate(goalCurrency Currency) error {
	if c.ID == "" {
		return errValidation("contribution id", "must not be empty")
	}
	if !c.Amount.IsPositive() {
		return errValidation("contribution amount", "must be greater than 0")
	}
	if c.Amount.Currency() != goalCurrency {
		return errValidation("contribution currency", "%q does not match the goal currency %q", c.Amount.Currency(), goalCurrency)
	}
	if c.Date.IsZero() {
		return errValidation("contribution date", "must not be empty")
	}
	return ValidateNote(c.Note)
}

// Validate checks a goal restored from storage or an import against the Goal
// shape: required fields present, supported currency, consistent amounts.
func (g Goal) Validate() error {
	if g.ID == "" {
		return errValidation("id", "must not be empty")
	}
	if _, err := ValidateTitle(g.Title); err != nil {
		return err
	}
	if err := ValidateAmount(g.Amount); err != nil {
		return err
	}
	if g.Saved.IsNegative() {
		return errValidation("savedAmount", "must not be negative")
	}
	if g.Saved.Currency() != g.Amount.Currency() {
		return errValidation("savedAmount", "currency %q does not match the goal currency %q", g.Saved.Currency(), g.Amount.Currency())
	}
	if g.Saved.GreaterThan(g.Amount) {
		return errValidation("savedAmount", "%s exceeds the target %s", g.Saved, g.Amount)
	}
	sum := M(0, g.Currency())
	for _, c := range g.Contributions {
		if err := c.Validate(g.Currency()); err != nil {
			return fmt.Errorf("contribution %q: %w", c.ID, err)
		}
		sum = sum.Add(c.Amount)
	}
	// contributions are stored already clamped, so the sum is exact
	if !g.Saved.Equal(sum) {
		return errValidation("savedAmount", "%s does not equal the sum of contributions %s", g.Saved, sum)
	}
	return nil
}

// ValidateGoals checks a whole goal collection, as loaded from storage, an
// import, or a sync notification. The collection is accepted or rejected as
// a whole: ids and titles must also be unique across the collection.
func ValidateGoals(goals []Goal) error {
	ids := make(map[string]struct{}, len(goals))
	titles := make(map[string]struct{}, len(goals))
	for _, g := range goals {
		if err := g.Validate(); err != nil {
			return fmt.Errorf("goal %q: %w", g.ID, err)
		}
		if _, dup := ids[g.ID]; dup {
			return fmt.Errorf("goal %q: duplicate id", g.ID)
		}
		if _, dup := titles[g.Title]; dup {
			return fmt.Errorf("goal %q: duplicate title %q", g.ID, g.Title)
		}
		ids[g.ID] = struct{}{}
		titles[g.Title] = struct{}{}
	}
	return nil
}
