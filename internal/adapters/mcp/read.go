package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"kbstudio/internal/application/commands"
	"kbstudio/internal/domain"
	"kbstudio/internal/ports"
)

// RegisterReadTools adds all read-only workflow tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, store ports.WorkflowStore) {
	s.AddTool(listWorkflowsTool(), listWorkflowsHandler(store))
	s.AddTool(showWorkflowTool(), showWorkflowHandler(store))
	s.AddTool(inspectPathsTool(), inspectPathsHandler())
	s.AddTool(searchNodesTool(), searchNodesHandler(store))
}

// --- list_workflows ---

func listWorkflowsTool() mcp.Tool {
	return mcp.NewTool("list_workflows",
		mcp.WithDescription("List stored workflows with their node and edge counts."),
	)
}

func listWorkflowsHandler(store ports.WorkflowStore) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		summaries, err := commands.NewListWorkflowsCommand(store).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return formatEntities(summaries, formatSummary)
	}
}

// --- show_workflow ---

func showWorkflowTool() mcp.Tool {
	return mcp.NewTool("show_workflow",
		mcp.WithDescription("Show a workflow. Returns the JSON document, or the node outline when outline is true."),
		mcp.WithString("workflow_id",
			mcp.Description("Workflow ID as returned by list_workflows"),
			mcp.Required(),
		),
		mcp.WithBoolean("outline",
			mcp.Description("Return the id/type tree of nodes instead of the full document"),
		),
	)
}

func showWorkflowHandler(store ports.WorkflowStore) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		workflowID := req.GetString("workflow_id", "")
		if workflowID == "" {
			return toolError(fmt.Errorf("workflow_id is required"))
		}

		result, err := commands.NewExportWorkflowCommand(store, workflowID).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		if !req.GetBool("outline", false) {
			return mcp.NewToolResultText(string(result.JSON)), nil
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "%s  %s\n", result.Workflow.ID, result.Workflow.Name)
		renderOutline(&sb, domain.Outline(result.Workflow.Document), "  ")
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func renderOutline(sb *strings.Builder, nodes []*domain.NodeOutline, prefix string) {
	for _, n := range nodes {
		fmt.Fprintf(sb, "%s%s  %s\n", prefix, n.ID, n.Type)
		renderOutline(sb, n.Children, prefix+"  ")
	}
}

// --- inspect_paths ---

func inspectPathsTool() mcp.Tool {
	return mcp.NewTool("inspect_paths",
		mcp.WithDescription("Walk a JSON document and list the path of every visited value, deepest first."),
		mcp.WithString("document",
			mcp.Description("JSON document to walk"),
			mcp.Required(),
		),
		mcp.WithBoolean("strict",
			mcp.Description("Keep array index 0 and empty keys in paths"),
		),
	)
}

func inspectPathsHandler() server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		document := req.GetString("document", "")
		if document == "" {
			return toolError(fmt.Errorf("document is required"))
		}

		result, err := commands.NewInspectCommand([]byte(document), req.GetBool("strict", false)).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return formatEntities(result.Entries, formatPathEntry)
	}
}

// --- search_nodes ---

func searchNodesTool() mcp.Tool {
	return mcp.NewTool("search_nodes",
		mcp.WithDescription("Search nodes of all workflows by ID or type."),
		mcp.WithString("query",
			mcp.Description("Search query, at least two characters"),
			mcp.Required(),
		),
	)
}

func searchNodesHandler(store ports.WorkflowStore) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := req.GetString("query", "")
		if query == "" {
			return toolError(fmt.Errorf("query is required"))
		}

		matches, err := commands.NewSearchNodesCommand(store, query).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if len(matches) == 0 {
			return mcp.NewToolResultText("No results found."), nil
		}
		return formatEntities(matches, formatMatch)
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func formatEntities[T any](entities []T, format func(T) string) (*mcp.CallToolResult, error) {
	if len(entities) == 0 {
		return mcp.NewToolResultText("No results."), nil
	}
	var sb strings.Builder
	for _, e := range entities {
		sb.WriteString(format(e))
		sb.WriteByte('\n')
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func formatSummary(s domain.WorkflowSummary) string {
	return fmt.Sprintf("%s  %s  (%d nodes, %d edges)", s.ID, s.Name, s.NodeCount, s.EdgeCount)
}

func formatPathEntry(e commands.PathEntry) string {
	path := e.Path
	if path == "" {
		path = "(root)"
	}
	return fmt.Sprintf("%s  %s", path, e.Value)
}

func formatMatch(m commands.NodeMatch) string {
	return fmt.Sprintf("%s  %s  %s  %s", m.WorkflowID, m.NodeID, m.NodeType, m.Path)
}
