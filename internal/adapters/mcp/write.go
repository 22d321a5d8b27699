package mcp

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"kbstudio/internal/adapters/clipboard"
	"kbstudio/internal/application/commands"
	"kbstudio/internal/domain"
	"kbstudio/internal/logging"
	"kbstudio/internal/ports"
)

// WriteDeps are the collaborators of the write tools
type WriteDeps struct {
	Store          ports.WorkflowStore
	Validator      ports.DocumentValidator
	RewriteOptions []domain.RewriteOption
}

// RegisterWriteTools adds all workflow-mutating tools to the MCP server.
func RegisterWriteTools(s *server.MCPServer, deps WriteDeps) {
	s.AddTool(pasteTool(), pasteHandler(deps))
	s.AddTool(duplicateTool(), duplicateHandler(deps))
	s.AddTool(dedupeTool(), dedupeHandler(deps))
	s.AddTool(importTool(), importHandler(deps))
	s.AddTool(renameTool(), renameHandler(deps))
	s.AddTool(deleteTool(), deleteHandler(deps))
}

// WithLogger attaches logger to the context of every tool call
func WithLogger(logger zerolog.Logger) server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			ctx = logging.WithLogger(ctx, logger.With().Str("tool", req.Params.Name).Logger())
			return next(ctx, req)
		}
	}
}

// --- paste_workflow ---

func pasteTool() mcp.Tool {
	return mcp.NewTool("paste_workflow",
		mcp.WithDescription("Paste a workflow document into a stored workflow. Node IDs already used in the target are replaced with fresh 6-digit IDs, and edges and block-output references follow."),
		mcp.WithString("workflow_id",
			mcp.Description("Target workflow ID"),
			mcp.Required(),
		),
		mcp.WithString("document",
			mcp.Description("Workflow JSON with nodes and edges"),
			mcp.Required(),
		),
	)
}

func pasteHandler(deps WriteDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		workflowID := req.GetString("workflow_id", "")
		document := req.GetString("document", "")

		cmd := commands.NewPasteWorkflowCommand(deps.Store, clipboard.NewBuffer(document), deps.Validator, workflowID)
		cmd.RewriteOptions = deps.RewriteOptions
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message + formatRenamed(result.Renamed)), nil
	}
}

// --- duplicate_nodes ---

func duplicateTool() mcp.Tool {
	return mcp.NewTool("duplicate_nodes",
		mcp.WithDescription("Duplicate nodes inside their workflow under fresh IDs, keeping the edges between them."),
		mcp.WithString("workflow_id",
			mcp.Description("Workflow ID"),
			mcp.Required(),
		),
		mcp.WithArray("node_ids",
			mcp.Description("Top-level node IDs to duplicate"),
			mcp.WithStringItems(),
			mcp.Required(),
		),
	)
}

func duplicateHandler(deps WriteDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewDuplicateNodesCommand(deps.Store,
			req.GetString("workflow_id", ""),
			req.GetStringSlice("node_ids", nil),
		)
		cmd.RewriteOptions = deps.RewriteOptions
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message + formatRenamed(result.Renamed)), nil
	}
}

// --- dedupe_workflow ---

func dedupeTool() mcp.Tool {
	return mcp.NewTool("dedupe_workflow",
		mcp.WithDescription("Rewrite a workflow document so its node IDs are free in a stored workflow, without saving it. Returns the rewritten JSON."),
		mcp.WithString("workflow_id",
			mcp.Description("Workflow whose node IDs must be avoided"),
			mcp.Required(),
		),
		mcp.WithString("document",
			mcp.Description("Workflow JSON to rewrite"),
			mcp.Required(),
		),
		mcp.WithBoolean("diff",
			mcp.Description("Return a line diff instead of the rewritten document"),
		),
	)
}

func dedupeHandler(deps WriteDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewDedupeCommand(deps.Store, deps.Validator,
			req.GetString("workflow_id", ""),
			[]byte(req.GetString("document", "")),
		)
		cmd.WithDiff = req.GetBool("diff", false)
		cmd.RewriteOptions = deps.RewriteOptions
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if cmd.WithDiff {
			return mcp.NewToolResultText(result.Message + "\n" + result.Diff), nil
		}
		return mcp.NewToolResultText(string(result.JSON)), nil
	}
}

// --- import_workflow ---

func importTool() mcp.Tool {
	return mcp.NewTool("import_workflow",
		mcp.WithDescription("Store a workflow document as a new workflow."),
		mcp.WithString("name",
			mcp.Description("Display name"),
			mcp.Required(),
		),
		mcp.WithString("document",
			mcp.Description("Workflow JSON with nodes and edges"),
			mcp.Required(),
		),
	)
}

func importHandler(deps WriteDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := commands.NewImportWorkflowCommand(deps.Store, deps.Validator,
			req.GetString("name", ""),
			[]byte(req.GetString("document", "")),
		).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- rename_workflow ---

func renameTool() mcp.Tool {
	return mcp.NewTool("rename_workflow",
		mcp.WithDescription("Change the display name of a workflow."),
		mcp.WithString("workflow_id",
			mcp.Description("Workflow ID"),
			mcp.Required(),
		),
		mcp.WithString("name",
			mcp.Description("New name"),
			mcp.Required(),
		),
	)
}

func renameHandler(deps WriteDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := commands.NewRenameWorkflowCommand(deps.Store,
			req.GetString("workflow_id", ""),
			req.GetString("name", ""),
		).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- delete_workflow ---

func deleteTool() mcp.Tool {
	return mcp.NewTool("delete_workflow",
		mcp.WithDescription("Delete a workflow permanently."),
		mcp.WithString("workflow_id",
			mcp.Description("Workflow ID"),
			mcp.Required(),
		),
	)
}

func deleteHandler(deps WriteDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := commands.NewDeleteWorkflowCommand(deps.Store, req.GetString("workflow_id", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// formatRenamed lists old -> new pairs, sorted by old ID
func formatRenamed(renamed map[string]string) string {
	if len(renamed) == 0 {
		return ""
	}
	olds := make([]string, 0, len(renamed))
	for old := range renamed {
		olds = append(olds, old)
	}
	sort.Strings(olds)

	var sb strings.Builder
	for _, old := range olds {
		fmt.Fprintf(&sb, "\n%s -> %s", old, renamed[old])
	}
	return sb.String()
}
