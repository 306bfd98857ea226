// Package cli implements the shopper terminal client.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "unknown"
)

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "shopper",
		Short: "Search, chat with the shopping assistant, and manage orders",
		Long: `A terminal client for the storefront.

Quick Start:
  shopper login                  # sign in with email and password
  shopper chat "gaming laptop"   # start an assistant chat
  shopper orders list            # show your orders`,
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.Context())
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	root.AddCommand(
		newSignupCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newProfileCmd(a),
		newSearchCmd(a),
		newProductCmd(a),
		newChatCmd(a),
		newSessionsCmd(a),
		newOrdersCmd(a),
		newPayCmd(a),
	)
	closeAfterRun(root, a)

	return root
}

// closeAfterRun releases the stores once a command finishes. cobra skips
// post-run hooks when RunE fails, so the close is deferred inside RunE.
func closeAfterRun(cmd *cobra.Command, a *app) {
	for _, sub := range cmd.Commands() {
		closeAfterRun(sub, a)
	}
	run := cmd.RunE
	if run == nil {
		return
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		defer a.close()
		return run(cmd, args)
	}
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
