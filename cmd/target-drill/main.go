package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/target-drill/internal/cli"
	"github.com/CodexForgeBR/target-drill/internal/config"
	"github.com/CodexForgeBR/target-drill/internal/exitcode"
	"github.com/CodexForgeBR/target-drill/internal/sensor/serialport"
)

// version vars injected via ldflags at build time
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// listPorts is replaced in tests.
var listPorts = serialport.ListPorts

func main() {
	code := exitcode.Success
	rootCmd := newRootCmd(&code, stdStreams())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitcode.Error)
	}
	os.Exit(code)
}

// newRootCmd builds the CLI. The session's exit code is stored in code.
func newRootCmd(code *int, std streams) *cobra.Command {
	cfg := config.NewDefaultConfig()

	rootCmd := &cobra.Command{
		Use:     "target-drill",
		Short:   "Randomized reaction-time drill for a center-out target board",
		Long:    "target-drill lights the targets of a center-out board in a random order and times every movement to a target and back to center.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Validate flags after parsing
			if err := cli.ValidateFlags(cmd, cfg); err != nil {
				return err
			}
			var err error
			*code, err = runDrill(cmd, cfg, std)
			return err
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Bind all CLI flags to the config
	cli.BindFlags(rootCmd, cfg)

	// Set custom help template
	cli.SetCustomHelp(rootCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "ports",
		Short: "List serial ports that may host the target controller",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ports, err := listPorts()
			if err != nil {
				return err
			}
			printPorts(cmd.OutOrStdout(), ports)
			return nil
		},
	})

	rootCmd.SetIn(std.in)
	rootCmd.SetOut(std.out)
	rootCmd.SetErr(std.errOut)
	return rootCmd
}
