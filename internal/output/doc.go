// Package output provides structured output handling for the avcp CLI.
//
// Command results go through a Printer, which switches between
// human-readable and JSON output based on the --json flag:
//
//	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), output.IsTTY(cmd.OutOrStdout()))
//	printer.Success(map[string]any{"message": "README is up to date"})
//	printer.Error(err)
//
// Diagnostic log lines do not go through the Printer; they are written by
// loggers from the logging package.
//
// # Exit Codes
//
//	output.ExitSuccess     // 0: Success
//	output.ExitUserError   // 1: Missing input, malformed metadata, contract violation, stale README
//	output.ExitSystemError // 2: I/O or git failure
//
// # Error Types
//
//	output.NewUserError("missing required flag: --entry")
//	output.NewSystemErrorWithCause("failed to write README", err)
//	output.NewStaleError("README is out of date", err)
//
// Stale errors are quiet: the command has already logged them, so neither the
// Printer (in human mode) nor the root error handler prints them again.
package output
