// Package main provides the entry point for the avcp CLI.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/gorewood/avcp/internal/logging"
	"github.com/gorewood/avcp/internal/output"
)

// Build info set via ldflags at build time.
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123 -X main.date=2024-01-01"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app carries the process-wide dependencies handed to every command.
type app struct {
	logs *logging.Provider
}

// isJSONMode reads the --json persistent flag from the command hierarchy.
func isJSONMode(cmd *cobra.Command) bool {
	flag := cmd.Flags().Lookup("json")
	if flag == nil {
		flag = cmd.Root().PersistentFlags().Lookup("json")
	}
	return flag != nil && flag.Value.String() == "true"
}

// useColor resolves the --color flag against TTY detection on stdout.
func useColor(cmd *cobra.Command) bool {
	mode, _ := cmd.Flags().GetString("color")
	return output.ResolveColorMode(mode, output.IsTTY(cmd.OutOrStdout()))
}

// newPrinter creates the result printer for a command.
func newPrinter(cmd *cobra.Command) *output.Printer {
	return output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd)).
		WithStderr(cmd.ErrOrStderr())
}

// buildVersion returns the full version string including commit and date.
func buildVersion() string {
	if commit == "none" && date == "unknown" {
		return version
	}
	shortCommit := commit
	if len(commit) > 7 {
		shortCommit = commit[:7]
	}
	return fmt.Sprintf("%s (%s, %s)", version, shortCommit, date)
}

func main() {
	code := run()
	os.Exit(code)
}

func run() int {
	cmd := newRootCmd()
	err := fang.Execute(context.Background(), cmd,
		fang.WithVersion(buildVersion()),
		fang.WithErrorHandler(errorHandler(cmd)),
	)
	return output.GetExitCode(err)
}

// errorHandler prints command errors once through the result printer. JSON
// mode writes the error object to stdout; human mode writes to w. Quiet
// errors were already logged by the command.
func errorHandler(root *cobra.Command) fang.ErrorHandler {
	return func(w io.Writer, _ fang.Styles, err error) {
		if isJSONMode(root) {
			output.NewPrinter(root.OutOrStdout(), true, false).Error(err)
			return
		}
		mode, _ := root.PersistentFlags().GetString("color")
		output.NewPrinter(w, false, output.ResolveColorMode(mode, output.IsTTY(w))).Error(err)
	}
}

// newRootCmd creates the root command for the avcp CLI.
func newRootCmd() *cobra.Command {
	a := &app{logs: logging.Discard()}

	cmd := &cobra.Command{
		Use:   "avcp",
		Short: "Keep project docs and visualization exports in sync",
		Long: `avcp - maintenance tooling for analysis projects.

  readme     regenerate the README block between the AVCP markers from project.yaml
  changelog  add an entry to the Unreleased section of the dev log
  export     write a table for the visualization layer with a JSON sidecar
  serve      expose the README and changelog transformations over MCP

All commands support --json for structured output.`,
		Version:       buildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if isJSONMode(cmd) {
				return output.NewUserError("no command specified. Run 'avcp --help' for usage")
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		logs, err := newLogProvider(cmd)
		if err != nil {
			return err
		}
		a.logs = logs
		return nil
	}

	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().String("color", output.ColorAuto, "Colorize output: auto, always or never")
	cmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")

	lipgloss.SetHasDarkBackground(true)

	addCommandGroups(cmd)
	addCommands(cmd, a)

	return cmd
}

// newLogProvider builds the single logging provider for the process from the
// persistent flags. Logs go to stderr so stdout stays parseable.
func newLogProvider(cmd *cobra.Command) (*logging.Provider, error) {
	mode, _ := cmd.Flags().GetString("color")
	if err := output.ValidateColorMode(mode); err != nil {
		return nil, err
	}

	levelFlag, _ := cmd.Flags().GetString("log-level")
	level, err := logging.ParseLevel(levelFlag)
	if err != nil {
		return nil, output.NewUserErrorWithCause(fmt.Sprintf("invalid --log-level %q", levelFlag), err)
	}
	return logging.NewProvider(cmd.ErrOrStderr(), logging.WithLevel(level)), nil
}

// addCommandGroups defines the command groups for help output.
func addCommandGroups(cmd *cobra.Command) {
	cmd.AddGroup(&cobra.Group{ID: "docs", Title: "Documentation Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "data", Title: "Data Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "agent", Title: "Agent Commands:"})
}

// addCommands adds all subcommands with their group assignments.
func addCommands(cmd *cobra.Command, a *app) {
	addGroupedCommand(cmd, newReadmeCmd(a), "docs")
	addGroupedCommand(cmd, newChangelogCmd(a), "docs")
	addGroupedCommand(cmd, newExportCmd(a), "data")
	addGroupedCommand(cmd, newServeCmd(), "agent")
}

// addGroupedCommand adds a subcommand with a group assignment.
func addGroupedCommand(parent *cobra.Command, child *cobra.Command, groupID string) {
	child.GroupID = groupID
	parent.AddCommand(child)
}
