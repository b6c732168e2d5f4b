// Package mcp provides a Model Context Protocol server for avcp.
// It exposes the pure document transformations as MCP tools so an agent can
// preview README and changelog edits without touching the filesystem.
package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer creates an MCP server with all avcp tools registered.
func NewServer(version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "avcp",
		Version: version,
	}, nil)
	registerTools(server)
	return server
}

// boolPtr returns a pointer to a bool value.
func boolPtr(b bool) *bool {
	return &b
}

// readOnlyAnnotations returns annotations for read-only tools.
func readOnlyAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:   true,
		IdempotentHint: true,
		OpenWorldHint:  boolPtr(false),
	}
}

// registerTools adds all avcp tools to the server.
func registerTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "merge_readme_block",
		Description: "Replace the generated region between the AVCP README markers with block, or insert it after the first level-1 heading when the markers are absent. Returns the updated document.",
		Annotations: readOnlyAnnotations(),
	}, handleMergeReadme)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "insert_changelog_entry",
		Description: "Add a bullet entry to the Unreleased section of a changelog, creating the headings if needed. Duplicate entries leave the changelog unchanged.",
		Annotations: readOnlyAnnotations(),
	}, handleInsertChangelog)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "render_readme_block",
		Description: "Render a README template against YAML project metadata. Templates use Go text/template syntax, e.g. {{ .title }}; undefined keys are an error.",
		Annotations: readOnlyAnnotations(),
	}, handleRenderReadme)
}
