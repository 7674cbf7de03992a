package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"
)

type contributeCmd struct {
	currency string
	note     string
	date     string
}

func (*contributeCmd) Name() string     { return "contribute" }
func (*contributeCmd) Synopsis() string { return "add money to a goal" }
func (*contributeCmd) Usage() string {
	return `sgt contribute [-c <currency>] [-n <note>] [-d <date>] <goal> <amount>

  Records a contribution to a goal. The goal may be referenced by title or id.
  An amount in the other currency is converted at the current exchange rate
  before it is stored. A contribution beyond the target is trimmed to exactly
  complete the goal.

Usage Examples:
# Put $50 towards the emergency fund.
$ sgt contribute "Emergency Fund" 50

# A backdated rupee contribution with a note.
$ sgt contribute -c INR -n "Diwali bonus" -d 2026-08-15 "Wedding" 20000
`
}

func (p *contributeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.currency, "c", "USD", "Currency of the contributed amount (USD or INR).")
	f.StringVar(&p.note, "n", "", "Optional note attached to the contribution.")
	f.StringVar(&p.date, "d", "", "Contribution date (YYYY-MM-DD). Defaults to today.")
}

func (p *contributeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Error: expected a goal and an amount.")
		return subcommands.ExitUsageError
	}
	amount, err := parseMoney(f.Arg(1), p.currency)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	var date time.Time
	if p.date != "" {
		date, err = time.ParseInLocation("2006-01-02", p.date, time.Local)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	ledger, bridge, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer bridge.Close()

	goal, err := findGoal(ledger, f.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	contribution, err := ledger.AddContribution(goal.ID, amount, p.note, date)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	goal, _ = ledger.Goal(goal.ID)
	fmt.Printf("Added %s to %q: %s saved of %s (%s).\n",
		contribution.Amount, goal.Title, goal.Saved, goal.Amount, goal.Progress())
	if goal.IsComplete() {
		fmt.Printf("🎉 %q is complete!\n", goal.Title)
	}
	return subcommands.ExitSuccess
}
