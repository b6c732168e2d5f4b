package main

import (
	"github.com/spf13/cobra"

	"github.com/gorewood/avcp/internal/changelog"
)

// newChangelogCmd creates the changelog command.
func newChangelogCmd(a *app) *cobra.Command {
	var entry string
	var file string

	cmd := &cobra.Command{
		Use:   "changelog",
		Short: "Add an entry to the Unreleased section of the dev log",
		Long: `Append a bullet to the "## Unreleased" section of the changelog, creating the
file and headings if needed. An entry already present anywhere in the file is
not added again.

Examples:
  avcp changelog --entry "feat: add export bridge"
  avcp changelog --entry "- fix: README check" --file CHANGELOG.md`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runChangelog(cmd, a, file, entry)
		},
	}

	cmd.Flags().StringVar(&entry, "entry", "", "Bullet text to add (required)")
	cmd.Flags().StringVar(&file, "file", changelog.DefaultFile, "Changelog file")
	_ = cmd.MarkFlagRequired("entry")

	return cmd
}

// runChangelog executes the changelog command.
func runChangelog(cmd *cobra.Command, a *app, file, entry string) error {
	printer := newPrinter(cmd)

	result, err := changelog.NewUpdater(a.logs).Update(file, entry)
	if err != nil {
		return toExitError(err)
	}

	message := "Added " + result.Entry + " to " + result.Path
	if !result.Changed {
		printer.Warn("entry %q already present in %s; not added", result.Entry, result.Path)
		message = "No changes to " + result.Path
	}
	return printer.Success(map[string]any{
		"message": message,
		"path":    result.Path,
		"entry":   result.Entry,
		"changed": result.Changed,
		"created": result.Created,
	})
}
