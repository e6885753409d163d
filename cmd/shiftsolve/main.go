// Command shiftsolve is the CLI surface spec.md §6 describes: a single
// entry point with subcommands for running a solve, serving the HTTP
// admin/API surface, and generating API keys — replacing the teacher's
// flag-free cmd/server and standalone cmd/keygen with one Cobra root,
// grounded on jakec-github-ilford-drop-in/v2/cmd/cli's command-per-file
// layout.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "shiftsolve",
		Short: "Shift-assignment solver: constructive builder + parallel simulated annealing",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load(".env")
			return nil
		},
	}

	root.AddCommand(newSolveCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newKeygenCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(3)
	}
}
