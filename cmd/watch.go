package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/subcommands"
)

type watchCmd struct{}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "keep the tracker synced and the rates fresh" }
func (*watchCmd) Usage() string {
	return `sgt watch

  Runs until interrupted, keeping the exchange rates refreshed on a schedule
  and applying changes other sgt processes write to the same data folder.
  Useful next to another terminal running sgt commands.
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {}

func (c *watchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, bridge, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer bridge.Close()

	if err := bridge.Watch(); err != nil {
		fmt.Fprintln(os.Stderr, "Error: cannot watch the data folder:", err)
		return subcommands.ExitFailure
	}
	ledger.RefreshRates(ctx, false)
	ledger.StartAutoRefresh()
	defer ledger.StopAutoRefresh()

	fmt.Printf("Watching %s, refreshing rates periodically. Ctrl-C to stop.\n", *dataDir)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case <-stop:
	case <-ctx.Done():
	}
	fmt.Println("Stopped.")
	return subcommands.ExitSuccess
}
