package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type importCmd struct{}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "replace the tracker state with a JSON backup" }
func (*importCmd) Usage() string {
	return `sgt import [<file>]

  Reads a backup produced by 'sgt export', from a file or from stdin, and
  replaces the current goals wholesale. The backup is fully validated first:
  an invalid backup is rejected and the current state is left untouched.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "Error: expected at most one backup file.")
		return subcommands.ExitUsageError
	}
	in := os.Stdin
	if f.NArg() == 1 {
		var err error
		in, err = os.Open(f.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening %q: %v\n", f.Arg(0), err)
			return subcommands.ExitFailure
		}
		defer in.Close()
	}

	ledger, bridge, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer bridge.Close()

	if err := ledger.ImportBackup(in); err != nil {
		fmt.Fprintln(os.Stderr, "Error: backup rejected, nothing imported:", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Imported %d goals.\n", len(ledger.Goals()))
	return subcommands.ExitSuccess
}
