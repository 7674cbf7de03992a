// Package cmd implements the CLI application to track savings goals.
package cmd

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/savings"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&addCmd{}, "goals")
	c.Register(&contributeCmd{}, "goals")
	c.Register(&removeCmd{}, "goals")
	c.Register(&setTargetCmd{}, "goals")

	c.Register(&listCmd{}, "reports")
	c.Register(&showCmd{}, "reports")
	c.Register(&summaryCmd{}, "reports")
	c.Register(&ratesCmd{}, "reports")

	c.Register(&exportCmd{}, "backup")
	c.Register(&importCmd{}, "backup")

	c.Register(&watchCmd{}, "sync")
	c.Register(&topicCmd{}, "documentation")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var dataDir = flag.String("data-dir", defaultDataDir(), "Path to the folder holding the tracker state")

func defaultDataDir() string {
	if dir := os.Getenv("SAVINGS_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".savings"
	}
	return filepath.Join(home, ".savings")
}

// openLedger opens the data folder and restores the tracker state from it.
// The returned bridge mirrors every subsequent change back to the folder.
func openLedger() (*savings.Ledger, *savings.Bridge, error) {
	store, err := savings.OpenStore(*dataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open data folder %q: %w", *dataDir, err)
	}
	ledger := savings.NewLedger()
	ledger.SetRateCache(savings.NewRateCache(store))
	bridge := savings.NewBridge(store, ledger)
	if err := bridge.Restore(); err != nil {
		return nil, nil, fmt.Errorf("cannot restore state from %q: %w", *dataDir, err)
	}
	return ledger, bridge, nil
}

// parseMoney combines a positional amount with the value of a -c currency flag.
func parseMoney(amount, currency string) (savings.Money, error) {
	cur, err := savings.ParseCurrency(currency)
	if err != nil {
		return savings.Money{}, err
	}
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return savings.Money{}, fmt.Errorf("invalid amount %q: %v", amount, err)
	}
	return savings.M(value, cur), nil
}

// findGoal resolves a goal reference given on the command line: an exact id
// first, then an exact title, then a unique title prefix.
func findGoal(l *savings.Ledger, ref string) (savings.Goal, error) {
	if goal, ok := l.Goal(ref); ok {
		return goal, nil
	}
	goals := l.Goals()
	for _, g := range goals {
		if strings.EqualFold(g.Title, ref) {
			return g, nil
		}
	}
	var matches []savings.Goal
	for _, g := range goals {
		if strings.HasPrefix(strings.ToLower(g.Title), strings.ToLower(ref)) {
			matches = append(matches, g)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return savings.Goal{}, fmt.Errorf("no goal matches %q", ref)
	default:
		var titles []string
		for _, g := range matches {
			titles = append(titles, g.Title)
		}
		return savings.Goal{}, fmt.Errorf("%q is ambiguous, it matches: %s", ref, strings.Join(titles, ", "))
	}
}
