// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tier4/mapvalidator/internal/contract"
)

// NewMCPServer initializes and configures the map validation MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Map Validation Server",
		contract.AppVersion,
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: validate_map ---
	s.AddTool(mcp.NewTool("validate_map",
		mcp.WithDescription("Validate a Lanelet2 map against a requirements document and return the results document."),
		mcp.WithString("map_path", mcp.Description("Path to the Lanelet2 .osm map file."), mcp.Required()),
		mcp.WithString("requirements_path", mcp.Description("Path to a JSON or HCL requirements document. Every check runs in its own requirement when omitted.")),
		mcp.WithString("exclusions_path", mcp.Description("Path to a JSON exclusion list.")),
		mcp.WithString("fail_on", mcp.Description("Lowest severity that fails a check. Defaults to 'warning'."), mcp.Enum("info", "warning", "error")),
	), h.handleValidateMap)

	// --- 2. Tool: list_checks ---
	s.AddTool(mcp.NewTool("list_checks",
		mcp.WithDescription("List the built-in map checks with their descriptions."),
		mcp.WithString("filter", mcp.Description("Regular expression the check names must match.")),
	), h.handleListChecks)

	// --- 3. Tool: explain_issue ---
	s.AddTool(mcp.NewTool("explain_issue",
		mcp.WithDescription("Describe an issue code: its severity, primitive and message template."),
		mcp.WithString("code", mcp.Description("Issue code such as Lane.SpeedLimitValidity-001."), mcp.Required()),
		mcp.WithString("language", mcp.Description("Message language. Defaults to the configured language."), mcp.Enum("en", "ja")),
	), h.handleExplainIssue)

	return s
}

// StartMCPServer starts the map validation MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
