package cmd

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
)

type removeCmd struct {
	force bool
}

func (*removeCmd) Name() string     { return "remove" }
func (*removeCmd) Synopsis() string { return "delete a goal and its contribution history" }
func (*removeCmd) Usage() string {
	return `sgt remove [-f] <goal>

  Deletes a goal and all its contributions. This cannot be undone, so the
  command asks for confirmation unless -f is given.
`
}

func (p *removeCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.force, "f", false, "Delete without asking for confirmation.")
}

func (p *removeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected a goal.")
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

	if !p.force {
		fmt.Printf("Delete %q (%s saved over %d contributions)? [y/N] ",
			goal.Title, goal.Saved, len(goal.Contributions))
		answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if !strings.EqualFold(strings.TrimSpace(answer), "y") {
			fmt.Println("Aborted.")
			return subcommands.ExitSuccess
		}
	}

	if err := ledger.RemoveGoal(goal.ID); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Removed goal %q.\n", goal.Title)
	return subcommands.ExitSuccess
}
