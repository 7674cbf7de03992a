package savings

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Contribution is a single deposit applied toward a goal's saved amount.
// It is immutable once created; the only way to remove one is to delete the
// owning goal. The amount is always denominated in the goal's own currency,
// conversion happens before the contribution is stored.
type Contribution struct {
	ID     string
	Amount Money
	Date   time.Time
	Note   string
}

// Goal is a named savings target with a currency-denominated amount and the
// contributions accumulated toward it.
type Goal struct {
	ID            string
	Title         string
	Amount        Money // target, always positive
	Saved         Money // sum of stored contributions, never above Amount
	Contributions []Contribution
	CreatedAt     time.Time
}

// Currency returns the currency the goal (and all its contributions) is
// denominated in.
func (g Goal) Currency() Currency { return g.Amount.Currency() }

// Progress returns the goal completion percentage, clamped to [0, 100].
func (g Goal) Progress() Percent { return Progress(g.Saved, g.Amount) }

// Remaining returns the amount still to save, floored at zero.
func (g Goal) Remaining() Money { return Remaining(g.Amount, g.Saved) }

// IsComplete reports whether the goal reached its target.
func (g Goal) IsComplete() bool { return IsComplete(g.Saved, g.Amount) }

// SortedContributions returns the contributions in display order, most
// recent first. The stored order is insertion order and is preserved.
func (g Goal) SortedContributions() []Contribution {
	sorted := slices.Clone(g.Contributions)
	slices.SortStableFunc(sorted, func(a, b Contribution) int {
		return b.Date.Compare(a.Date)
	})
	return sorted
}

// clone returns a copy of the goal that shares nothing mutable with the
// original, so snapshots handed to callers stay stable.
func (g Goal) clone() Goal {
	g.Contributions = slices.Clone(g.Contributions)
	return g
}

// sortGoals orders goals for display: newest first by creation date, ties
// broken by id in reverse lexical order as a deterministic fallback.
func sortGoals(goals []Goal) {
	slices.SortStableFunc(goals, func(a, b Goal) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
}

// jcontribution is the object read from storage using the json parser.
// The currency is not repeated per contribution, it is the goal's.
type jcontribution struct {
	ID     string          `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date"`
	Note   string          `json:"note,omitempty"`
}

// jgoal is the object read from storage using the json parser, in the key
// names the historical storage format uses.
type jgoal struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	SavedAmount   decimal.Decimal `json:"savedAmount"`
	Contributions []jcontribution `json:"contributions"`
	CreatedAt     string          `json:"createdAt"`
}

func (c Contribution) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", c.ID)
	w.Append("amount", c.Amount.Amount())
	w.Append("date", c.Date.Format(time.RFC3339))
	w.Optional("note", c.Note)
	return w.MarshalJSON()
}

func (g Goal) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", g.ID)
	w.Append("title", g.Title)
	w.Append("amount", g.Amount.Amount())
	w.Append("currency", g.Currency())
	w.Append("savedAmount", g.Saved.Amount())
	// contributions are persisted even when empty: the field is required.
	contributions := g.Contributions
	if contributions == nil {
		contributions = []Contribution{}
	}
	w.Append("contributions", contributions)
	w.Append("createdAt", g.CreatedAt.Format(time.RFC3339))
	return w.MarshalJSON()
}

func (g *Goal) UnmarshalJSON(data []byte) error {
	var j jgoal
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	currency, err := ParseCurrency(j.Currency)
	if err != nil {
		return err
	}
	created, err := time.Parse(time.RFC3339, j.CreatedAt)
	if err != nil {
		return fmt.Errorf("invalid createdAt %q: %w", j.CreatedAt, err)
	}
	contributions := make([]Contribution, 0, len(j.Contributions))
	for _, jc := range j.Contributions {
		date, err := time.Parse(time.RFC3339, jc.Date)
		if err != nil {
			return fmt.Errorf("invalid contribution date %q: %w", jc.Date, err)
		}
		contributions = append(contributions, Contribution{
			ID:     jc.ID,
			Amount: M(jc.Amount, currency),
			Date:   date,
			Note:   jc.Note,
		})
	}
	*g = Goal{
		ID:            j.ID,
		Title:         j.Title,
		Amount:        M(j.Amount, currency),
		Saved:         M(j.SavedAmount, currency),
		Contributions: contributions,
		CreatedAt:     created,
	}
	return nil
}
