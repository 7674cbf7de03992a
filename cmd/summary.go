package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/savings/renderer"
	"github.com/google/subcommands"
)

type summaryCmd struct {
	refresh bool
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "cross-currency totals and overall progress" }
func (*summaryCmd) Usage() string {
	return `sgt summary [-r]

  Shows the total saved and total target across all goals, in both USD and
  INR, with the overall progress and the per-goal table. Amounts are converted
  at the current exchange rate.
`
}

func (p *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.refresh, "r", false, "Refresh the exchange rates before reporting.")
}

func (p *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, bridge, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer bridge.Close()

	if p.refresh {
		ledger.RefreshRates(ctx, false)
	}
	printMarkdown(renderer.Summary(ledger))
	return subcommands.ExitSuccess
}
