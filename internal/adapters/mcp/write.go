package mcp

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"kinetic/internal/application/commands"
	"kinetic/internal/config"
	"kinetic/internal/ports"
)

// WriteDeps carries everything the mutating tools need to run a command.
type WriteDeps struct {
	Ledger     ports.LedgerRepository
	Tombstones ports.TombstoneLog
	Buckets    ports.BucketCatalog
	Docs       ports.DocumentStore
	Index      ports.LedgerIndex
	Config     *config.Config
	Logger     *log.Logger
}

// RegisterWriteTools adds the mutating tools to the MCP server.
func RegisterWriteTools(s *server.MCPServer, deps WriteDeps) {
	s.AddTool(captureTool(), captureHandler(deps))
	s.AddTool(syncTool(), syncHandler(deps))
}

// --- capture ---

func captureTool() mcp.Tool {
	return mcp.NewTool("capture",
		mcp.WithDescription("Append a new unscheduled task to the Coming Up section. The next sync assigns it an id."),
		mcp.WithString("text",
			mcp.Description("Task text, may include #tags and @people"),
			mcp.Required(),
		),
	)
}

func captureHandler(deps WriteDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text := req.GetString("text", "")
		if text == "" {
			return toolError(fmt.Errorf("text is required"))
		}

		cmd := &commands.CaptureCommand{
			Docs:   deps.Docs,
			S3Path: deps.Config.Paths.S3,
			Text:   text,
		}
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- sync ---

func syncTool() mcp.Tool {
	return mcp.NewTool("sync",
		mcp.WithDescription("Run a full reconciliation pass: parse the managed documents, update the ledger, and regenerate the documents."),
		mcp.WithBoolean("dry_run",
			mcp.Description("Reconcile and report without writing anything"),
		),
	)
}

func syncHandler(deps WriteDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := &commands.SyncCommand{
			Ledger:     deps.Ledger,
			Tombstones: deps.Tombstones,
			Buckets:    deps.Buckets,
			Docs:       deps.Docs,
			Index:      deps.Index,
			Config:     deps.Config,
			Logger:     deps.Logger,
			DryRun:     req.GetBool("dry_run", false),
		}
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}
