package main

import (
	"context"
	"flag"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"kinetic/internal/adapters/filesystem"
	"kinetic/internal/adapters/ledgercsv"
	mcpadapter "kinetic/internal/adapters/mcp"
	"kinetic/internal/adapters/sqlite"
	"kinetic/internal/config"
)

func main() {
	rootFlag := flag.String("root", config.Root(), "path to the planning repo")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})

	cfg, err := config.Load(*rootFlag)
	if err != nil {
		logger.Fatal("load config", "err", err)
	}

	repo := ledgercsv.NewLedgerFile(cfg.LedgerPath())
	tombs := ledgercsv.NewTombstoneFile(cfg.TombstonesPath())
	buckets := ledgercsv.NewBucketFile(cfg.BucketsPath())
	docs := filesystem.NewStore(cfg.Root, cfg.Paths.ProjectsDir, cfg.Paths.CardsDir)

	index := sqlite.NewIndex()
	if err := index.Open(cfg.IndexPath()); err != nil {
		logger.Fatal("open index", "err", err)
	}
	defer index.Close()

	mcpServer := server.NewMCPServer(
		"kinetic-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check — returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, repo, index)
	mcpadapter.RegisterWriteTools(mcpServer, mcpadapter.WriteDeps{
		Ledger:     repo,
		Tombstones: tombs,
		Buckets:    buckets,
		Docs:       docs,
		Index:      index,
		Config:     cfg,
		Logger:     logger,
	})

	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Fatal("serve", "err", err)
	}
}
