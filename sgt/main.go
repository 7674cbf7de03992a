package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/savings/cmd"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// optional configuration (EXCHANGE_API_KEY, SAVINGS_DIR) from a local
	// .env file; a missing file is fine.
	godotenv.Load()

	// handles shell completion requests and exits, a no-op otherwise.
	completion().Complete("sgt")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion describes the command line for shell completion.
func completion() *complete.Command {
	currency := predict.Set{"USD", "INR"}
	backups := predict.Files("*.json")
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"data-dir": predict.Dirs("*"),
		},
		Sub: map[string]*complete.Command{
			"add":        {Flags: map[string]complete.Predictor{"c": currency}},
			"contribute": {Flags: map[string]complete.Predictor{"c": currency, "n": predict.Something, "d": predict.Something}},
			"remove":     {},
			"set-target": {Flags: map[string]complete.Predictor{"c": currency}},
			"list":       {},
			"show":       {},
			"summary":    {},
			"rates":      {},
			"export":     {Flags: map[string]complete.Predictor{"o": backups}},
			"import":     {Args: backups},
			"watch":      {},
			"topic":      {},
		},
	}
}
