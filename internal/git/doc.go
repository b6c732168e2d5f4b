// Package git runs the few git commands avcp needs by shelling out to the
// git executable.
//
// Export provenance records the commit a table was produced from, and the
// export command can anchor relative output paths at the repository root:
//
//	git.IsRepo()               // Check if current directory is a git repository
//	git.RepoRoot()             // Get the root directory of the repository
//	git.HEAD()                 // Get the current HEAD commit SHA
//	git.HeadCommitOr("unknown") // HEAD, or the fallback outside a repository
//
// For other commands, use Run or RunContext:
//
//	out, err := git.Run("status", "--short")
//
// # Error Handling
//
// Failures are returned as *output.ExitError with ExitSystemError (2).
package git
