// Package mcp exposes the ledger over the Model Context Protocol so an
// assistant can inspect and update the planning system through tools.
package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"kinetic/internal/application/commands"
	"kinetic/internal/domain"
	"kinetic/internal/ports"
)

// RegisterReadTools adds all read-only ledger tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, repo ports.LedgerRepository, index ports.LedgerIndex) {
	s.AddTool(listObjectsTool(), listObjectsHandler(repo))
	s.AddTool(getObjectTool(), getObjectHandler(repo))
	s.AddTool(searchLedgerTool(), searchLedgerHandler(repo, index))
}

// --- list_objects ---

func listObjectsTool() mcp.Tool {
	return mcp.NewTool("list_objects",
		mcp.WithDescription("List ledger objects. Filter by type (AOR, Goal, Relationship, Project, Task, Card) and/or state (Active, Complete)."),
		mcp.WithString("type",
			mcp.Description("Object type to filter by. Omit to list all types."),
		),
		mcp.WithString("state",
			mcp.Description("State to filter by, e.g. Active or Complete. Omit to list all states."),
		),
	)
}

func listObjectsHandler(repo ports.LedgerRepository) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		typeFilter := req.GetString("type", "")
		stateFilter := req.GetString("state", "")

		want := domain.TypeUnknown
		if typeFilter != "" {
			want = domain.ParseObjectType(typeFilter)
			if want == domain.TypeUnknown {
				return toolError(fmt.Errorf("unknown type: %s", typeFilter))
			}
		}

		objects, err := repo.Load()
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		for _, obj := range objects {
			if want != domain.TypeUnknown && obj.Type != want {
				continue
			}
			if stateFilter != "" && !strings.EqualFold(obj.State, stateFilter) {
				continue
			}
			sb.WriteString(formatObject(obj))
			sb.WriteByte('\n')
		}
		if sb.Len() == 0 {
			return mcp.NewToolResultText("No objects."), nil
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- get_object ---

func getObjectTool() mcp.Tool {
	return mcp.NewTool("get_object",
		mcp.WithDescription("Read one ledger object in full by its id (e.g. T12, P3, P3.1)."),
		mcp.WithString("id",
			mcp.Description("Object id"),
			mcp.Required(),
		),
	)
}

func getObjectHandler(repo ports.LedgerRepository) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := req.GetString("id", "")
		if id == "" {
			return toolError(fmt.Errorf("id is required"))
		}

		objects, err := repo.Load()
		if err != nil {
			return toolError(err)
		}
		for _, obj := range objects {
			if obj.ID != id {
				continue
			}
			var sb strings.Builder
			fmt.Fprintf(&sb, "%s  %s  %s\n", obj.ID, obj.Type, obj.DisplayName)
			fmt.Fprintf(&sb, "State: %s\n", obj.State)
			fmt.Fprintf(&sb, "Source: %s\n", obj.SourceLocation)
			if obj.ParentID != "" {
				fmt.Fprintf(&sb, "Parent: %s\n", obj.ParentID)
			}
			if len(obj.ChildIDs) > 0 {
				fmt.Fprintf(&sb, "Children: %s\n", strings.Join(obj.ChildIDs, ", "))
			}
			if len(obj.Tags) > 0 {
				fmt.Fprintf(&sb, "Tags: %s\n", strings.Join(obj.Tags, ", "))
			}
			if len(obj.People) > 0 {
				fmt.Fprintf(&sb, "People: %s\n", strings.Join(obj.People, ", "))
			}
			if obj.Notes != "" {
				fmt.Fprintf(&sb, "Notes:\n%s\n", obj.Notes)
			}
			return mcp.NewToolResultText(sb.String()), nil
		}
		return toolError(fmt.Errorf("no object with id %s", id))
	}
}

// --- search_ledger ---

func searchLedgerTool() mcp.Tool {
	return mcp.NewTool("search_ledger",
		mcp.WithDescription("Search the ledger by keyword over names, tags, people, and notes."),
		mcp.WithString("query",
			mcp.Description("Search query"),
			mcp.Required(),
		),
	)
}

func searchLedgerHandler(repo ports.LedgerRepository, index ports.LedgerIndex) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := req.GetString("query", "")
		if query == "" {
			return toolError(fmt.Errorf("query is required"))
		}

		cmd := &commands.SearchCommand{Ledger: repo, Index: index, Query: query, Refresh: true}
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if len(result.Hits) == 0 {
			return mcp.NewToolResultText("No results found."), nil
		}

		var sb strings.Builder
		for _, hit := range result.Hits {
			fmt.Fprintf(&sb, "%s  %s  %s", hit.ID, hit.Type, hit.DisplayName)
			if hit.Snippet != "" {
				fmt.Fprintf(&sb, "  · %s", hit.Snippet)
			}
			sb.WriteByte('\n')
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func formatObject(obj *domain.LedgerObject) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-6s %-12s %s", obj.ID, obj.Type, obj.DisplayName)
	if obj.IsComplete() {
		sb.WriteString("  [done]")
	}
	if tag := obj.BucketTag(); tag != "" {
		fmt.Fprintf(&sb, "  #%s", tag)
	}
	return sb.String()
}
