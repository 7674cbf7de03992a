package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type addCmd struct {
	currency string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "create a new savings goal" }
func (*addCmd) Usage() string {
	return `sgt add [-c <currency>] <title> <amount>

  Creates a new goal with the given title and target amount. The goal starts
  with nothing saved. Titles are unique.

Usage Examples:
# A $1000 emergency fund.
$ sgt add "Emergency Fund" 1000

# A wedding budget in rupees.
$ sgt add -c INR "Wedding" 500000
`
}

func (p *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.currency, "c", "USD", "Currency of the target amount (USD or INR).")
}

func (p *addCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Error: expected a title and an amount.")
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

	goal, err := ledger.AddGoal(f.Arg(0), amount)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Created goal %q with a target of %s.\n", goal.Title, goal.Amount)
	return subcommands.ExitSuccess
}
