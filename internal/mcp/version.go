package mcp

import (
	"context"

	"github.com/bobmcallan/paisa-buddy/internal/config"
	"github.com/mark3labs/mcp-go/mcp"
)

func versionTool() mcp.Tool {
	return mcp.NewTool("get_version",
		mcp.WithDescription("Get the Paisa Buddy server version and the virtual currency in play. Use this to verify connectivity."),
	)
}

// version reports build metadata plus the ledger currency and opening cash.
func (d Deps) version(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	info := config.GetVersionInfo()
	out := map[string]string{
		"version":    info.Version,
		"build":      info.Build,
		"git_commit": info.GitCommit,
		"currency":   d.Currency,
	}
	if d.Ledgers != nil {
		out["starting_cash"] = d.Ledgers.StartingCash().String()
	}
	return jsonResult(out), nil
}
