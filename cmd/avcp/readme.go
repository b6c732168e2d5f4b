package main

import (
	"github.com/spf13/cobra"

	"github.com/gorewood/avcp/internal/readme"
)

// newReadmeCmd creates the readme command.
func newReadmeCmd(a *app) *cobra.Command {
	var opts readme.Options

	cmd := &cobra.Command{
		Use:   "readme",
		Short: "Regenerate the README block from project metadata",
		Long: `Render the README template with project metadata and place the result
between the AVCP markers in the README. Without markers, the block is inserted
after the first level-1 heading.

With --check nothing is written; the command exits 1 if the README is stale.

Examples:
  avcp readme                 # Update README.md in place
  avcp readme --check         # Fail if README.md is out of date (CI)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReadme(cmd, a, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Check, "check", false, "Verify only; exit nonzero if the README is stale")
	cmd.Flags().StringVar(&opts.ProjectFile, "project-file", readme.DefaultProjectFile, "Project metadata YAML")
	cmd.Flags().StringVar(&opts.TemplateFile, "template-file", readme.DefaultTemplateFile, "README template")
	cmd.Flags().StringVar(&opts.ReadmeFile, "readme-file", readme.DefaultReadmeFile, "README to update")

	return cmd
}

// runReadme executes the readme command.
func runReadme(cmd *cobra.Command, a *app, opts readme.Options) error {
	printer := newPrinter(cmd)

	result, err := readme.NewGenerator(a.logs).Run(opts)
	if err != nil {
		return toExitError(err)
	}

	message := "Updated README markers in " + result.Path
	if opts.Check {
		message = "README is up to date"
	}
	if result.Created {
		printer.Warn("%s did not exist; created it", result.Path)
	}
	return printer.Success(map[string]any{
		"message": message,
		"path":    result.Path,
		"changed": result.Changed,
		"check":   opts.Check,
		"created": result.Created,
	})
}
