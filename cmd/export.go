package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/savings"
	"github.com/google/subcommands"
)

type exportCmd struct {
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export all goals and rates as a JSON backup" }
func (*exportCmd) Usage() string {
	return `sgt export [-o <file>]

  Writes the whole tracker state (goals, contributions, exchange rates) as a
  single JSON document, to stdout or to a file. The document can be fed back
  to 'sgt import' on any machine.

Usage Examples:
$ sgt export -o savings-backup.json
`
}

func (p *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.output, "o", "", "Write the backup to this file instead of stdout.")
}

func (p *exportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, bridge, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer bridge.Close()

	out := os.Stdout
	if p.output != "" {
		out, err = os.Create(p.output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", p.output, err)
			return subcommands.ExitFailure
		}
		defer out.Close()
	}
	if err := savings.ExportBackup(out, ledger); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	if p.output != "" {
		fmt.Printf("Exported %d goals to %s.\n", len(ledger.Goals()), p.output)
	}
	return subcommands.ExitSuccess
}
