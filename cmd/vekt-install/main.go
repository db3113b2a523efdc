package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Version will be set at build time via -ldflags
var Version = "dev"

func main() {
	runMain(os.Args, os.Stdout, os.Stderr, os.Exit)
}

// runMain executes the CLI and exits with status 1 on any fatal error.
func runMain(args []string, stdout, stderr io.Writer, exit func(int)) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx, args, stdout, stderr); err != nil {
		printError(stderr, err)
		stop()
		exit(1)
	}
}

// execute runs the root command with the provided args and output writers.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cmd := newRootCmd()
	if len(args) > 1 {
		cmd.SetArgs(args[1:])
	} else {
		cmd.SetArgs([]string{})
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vekt-install",
		Short: "Install the latest vekt release for this machine",
		Long: `Detects the operating system and CPU architecture, downloads the matching
vekt release and installs it.

  Linux, macOS   /usr/local/bin/vekt (sudo is used when the directory is not writable)
  Windows        %LOCALAPPDATA%\vekt\vekt.exe, added to the user PATH

Settings are read from ~/.config/vekt/install.lua and VEKT_INSTALL_* variables.`,
		Args:          cobra.NoArgs,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInstall(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), defaultDeps)
		},
	}
}

// printError writes err and any attached hints.
func printError(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "%s %v\n", color.RedString("Error:"), err)

	for _, hint := range errors.GetAllHints(err) {
		for _, line := range strings.Split(hint, "\n") {
			_, _ = fmt.Fprintf(w, "  %s %s\n", color.YellowString("hint:"), line)
		}
	}
}
