// Command formguard serves the demo pages and validates HTML forms from the
// terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

// errRejected signals a rejected form without printing an extra error line.
var errRejected = errors.New("form rejected")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errRejected) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

type globalFlags struct {
	configPath string
	verbose    bool
}

func rootCmd() *cobra.Command {
	flags := &globalFlags{}
	cmd := &cobra.Command{
		Use:   "formguard",
		Short: "Server-side validation for HTML forms",
		Long: `formguard validates submitted HTML forms against per-field rules.

Commands:
  serve   run the demo pages behind the validation middleware
  check   validate a page's form against a set of values
  prompt  fill a page's form interactively in the terminal
  rules   list the field names that have rules`,
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "config file (default: ./formguard.yaml when present)")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		serveCmd(flags),
		checkCmd(flags),
		promptCmd(flags),
		rulesCmd(flags),
	)
	return cmd
}
