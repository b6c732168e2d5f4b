package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/avcp/internal/changelog"
	"github.com/gorewood/avcp/internal/metadata"
	"github.com/gorewood/avcp/internal/readme"
	"github.com/gorewood/avcp/internal/render"
)

// --- Merge README tool ---

// MergeReadmeInput is the input for the merge_readme_block tool.
type MergeReadmeInput struct {
	Document string `json:"document" jsonschema:"current README text (may be empty)"`
	Block    string `json:"block"    jsonschema:"rendered block to place between the markers"`
}

// MergeReadmeOutput is the output for the merge_readme_block tool.
type MergeReadmeOutput struct {
	Document string `json:"document" jsonschema:"updated README text"`
	Changed  bool   `json:"changed"  jsonschema:"whether the document differs from the input"`
}

func handleMergeReadme(_ context.Context, _ *mcp.CallToolRequest, in MergeReadmeInput) (*mcp.CallToolResult, MergeReadmeOutput, error) {
	merged := readme.Merge(in.Document, in.Block)
	return nil, MergeReadmeOutput{
		Document: merged,
		Changed:  merged != in.Document,
	}, nil
}

// --- Insert changelog tool ---

// InsertChangelogInput is the input for the insert_changelog_entry tool.
type InsertChangelogInput struct {
	Changelog string `json:"changelog" jsonschema:"current changelog text (may be empty)"`
	Entry     string `json:"entry"     jsonschema:"entry text; a '- ' bullet is added if missing"`
}

// InsertChangelogOutput is the output for the insert_changelog_entry tool.
type InsertChangelogOutput struct {
	Changelog string `json:"changelog" jsonschema:"updated changelog text"`
	Entry     string `json:"entry"     jsonschema:"normalized entry line"`
	Changed   bool   `json:"changed"   jsonschema:"whether the changelog differs from the input"`
}

func handleInsertChangelog(_ context.Context, _ *mcp.CallToolRequest, in InsertChangelogInput) (*mcp.CallToolResult, InsertChangelogOutput, error) {
	if strings.TrimSpace(in.Entry) == "" {
		return nil, InsertChangelogOutput{}, changelog.ErrEmptyEntry
	}
	entry := changelog.NormalizeEntry(in.Entry)

	updated, err := changelog.Insert(in.Changelog, entry)
	if err != nil {
		return nil, InsertChangelogOutput{}, fmt.Errorf("inserting entry: %w", err)
	}
	return nil, InsertChangelogOutput{
		Changelog: updated,
		Entry:     entry,
		Changed:   updated != in.Changelog,
	}, nil
}

// --- Render README tool ---

// RenderReadmeInput is the input for the render_readme_block tool.
type RenderReadmeInput struct {
	Template string `json:"template" jsonschema:"README template in Go text/template syntax"`
	Metadata string `json:"metadata" jsonschema:"project metadata as a YAML mapping"`
}

// RenderReadmeOutput is the output for the render_readme_block tool.
type RenderReadmeOutput struct {
	Block string `json:"block" jsonschema:"rendered block, suitable for merge_readme_block"`
}

func handleRenderReadme(_ context.Context, _ *mcp.CallToolRequest, in RenderReadmeInput) (*mcp.CallToolResult, RenderReadmeOutput, error) {
	project, err := metadata.Parse([]byte(in.Metadata), "metadata")
	if err != nil {
		return nil, RenderReadmeOutput{}, err
	}

	block, err := render.String("template", in.Template, project)
	if err != nil {
		return nil, RenderReadmeOutput{}, err
	}
	return nil, RenderReadmeOutput{Block: block}, nil
}
