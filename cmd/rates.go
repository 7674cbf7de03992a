package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/savings/renderer"
	"github.com/google/subcommands"
)

type ratesCmd struct {
	force bool
}

func (*ratesCmd) Name() string     { return "rates" }
func (*ratesCmd) Synopsis() string { return "show or refresh the USD/INR exchange rates" }
func (*ratesCmd) Usage() string {
	return `sgt rates [-f]

  Fetches the current USD/INR exchange rates and shows them. Recent enough
  rates are reused without a remote call; -f forces a fetch. When no provider
  is reachable the last known rates are shown instead, with a warning.

  Set EXCHANGE_API_KEY (or -exchange-api-key) to use the keyed provider.
`
}

func (p *ratesCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.force, "f", false, "Force a remote fetch even when the rates are recent.")
}

func (p *ratesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, bridge, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer bridge.Close()

	rates := ledger.RefreshRates(ctx, p.force)
	printMarkdown(renderer.Rates(rates, ledger.Err()))
	return subcommands.ExitSuccess
}
