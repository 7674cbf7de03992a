package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type setTargetCmd struct {
	currency string
}

func (*setTargetCmd) Name() string     { return "set-target" }
func (*setTargetCmd) Synopsis() string { return "change the target amount of a goal" }
func (*setTargetCmd) Usage() string {
	return `sgt set-target [-c <currency>] <goal> <amount>

  Changes the target amount of a goal. The saved amount and the contribution
  history are untouched. The new target must stay in the goal's currency and
  above what is already saved; raising the target of a completed goal reopens
  it.
`
}

func (p *setTargetCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.currency, "c", "USD", "Currency of the new target (must match the goal's).")
}

func (p *setTargetCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Error: expected a goal and an amount.")
		return subcommands.ExitUsageError
	}
	amount, err := parseMoney(f.Arg(1), p.currency)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
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
	goal, err = ledger.UpdateGoalAmount(goal.ID, amount)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Target of %q is now %s (%s saved, %s).\n",
		goal.Title, goal.Amount, goal.Saved, goal.Progress())
	return subcommands.ExitSuccess
}
