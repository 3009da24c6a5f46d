package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/bobmcallan/paisa-buddy/internal/auth"
	"github.com/bobmcallan/paisa-buddy/internal/ledgers"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/shopspring/decimal"
)

// errorResult creates an MCP error result.
func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}

// jsonResult marshals v as the text content of a successful result.
func jsonResult(v interface{}) *mcp.CallToolResult {
	out, err := json.Marshal(v)
	if err != nil {
		return errorResult("failed to marshal result")
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(string(out))},
	}
}

// workspace resolves the calling user's ledgers from the request context.
func workspace(ctx context.Context, reg *ledgers.Registry) (*ledgers.Workspace, *mcp.CallToolResult) {
	uid, ok := auth.UserFromContext(ctx)
	if !ok {
		return nil, errorResult("no user on this session")
	}
	return reg.Workspace(ctx, uid), nil
}

// decimalArg reads a money argument sent either as a JSON number or a string.
func decimalArg(r mcp.CallToolRequest, name string) (decimal.Decimal, error) {
	v, ok := r.GetArguments()[name]
	if !ok {
		return decimal.Zero, fmt.Errorf("%s is required", name)
	}
	switch t := v.(type) {
	case float64:
		return decimal.NewFromFloat(t), nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(t))
		if err != nil {
			return decimal.Zero, fmt.Errorf("%s must be a number", name)
		}
		return d, nil
	}
	return decimal.Zero, fmt.Errorf("%s must be a number", name)
}

// intArg reads a whole-number argument sent either as a JSON number or a string.
func intArg(r mcp.CallToolRequest, name string) (int64, error) {
	v, ok := r.GetArguments()[name]
	if !ok {
		return 0, fmt.Errorf("%s is required", name)
	}
	switch t := v.(type) {
	case float64:
		if t != float64(int64(t)) {
			return 0, fmt.Errorf("%s must be a whole number", name)
		}
		return int64(t), nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%s must be a whole number", name)
		}
		return n, nil
	}
	return 0, fmt.Errorf("%s must be a whole number", name)
}
