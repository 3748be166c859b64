package mcp_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tier4/mapvalidator/internal/contract"
	mcp_internal "github.com/tier4/mapvalidator/internal/mcp"
	"github.com/tier4/mapvalidator/schema"
)

const testMap = `<osm version="0.6">
  <node id="1" lat="35.0" lon="139.0"><tag k="ele" v="1"/></node>
  <node id="2" lat="35.1" lon="139.0"/>
</osm>`

func baseConfig() *contract.Config {
	return &contract.Config{
		Language:    "en",
		CheckFilter: regexp.MustCompile(contract.DefaultChecks),
		FailOn:      schema.SeverityWarning,
		Workers:     2,
		Output:      schema.JSONOut,
	}
}

func callTool(t *testing.T, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	s := mcp_internal.NewMCPServer(baseConfig(), nil)
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotNil(t, res)
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	return res.Content[0].(mcp.TextContent).Text
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	t.Run("validate_map missing map_path", func(t *testing.T) {
		res := callTool(t, "validate_map", map[string]any{})
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, resultText(t, res), "map_path is required")
	})

	t.Run("validate_map unknown fail_on", func(t *testing.T) {
		mapPath := filepath.Join(t.TempDir(), "map.osm")
		require.NoError(t, os.WriteFile(mapPath, []byte(testMap), 0o644))
		res := callTool(t, "validate_map", map[string]any{"map_path": mapPath, "fail_on": "fatal"})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "invalid fail_on")
	})

	t.Run("list_checks invalid filter", func(t *testing.T) {
		res := callTool(t, "list_checks", map[string]any{"filter": "("})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "invalid filter")
	})

	t.Run("explain_issue unknown code", func(t *testing.T) {
		res := callTool(t, "explain_issue", map[string]any{"code": "Nope-001"})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "unknown issue code")
	})

	t.Run("explain_issue unknown language", func(t *testing.T) {
		res := callTool(t, "explain_issue", map[string]any{"code": "Point.ElevationDeclared-001", "language": "fr"})
		assert.True(t, res.IsError)
	})
}

func TestMCPServerHandlers_ValidateMap(t *testing.T) {
	mapPath := filepath.Join(t.TempDir(), "map.osm")
	require.NoError(t, os.WriteFile(mapPath, []byte(testMap), 0o644))

	res := callTool(t, "validate_map", map[string]any{"map_path": mapPath})
	require.False(t, res.IsError, resultText(t, res))

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &doc))
	assert.Equal(t, false, doc["passed"]) // point 2 has no elevation
	assert.Equal(t, float64(1), doc["warning_count"])
	assert.Len(t, doc["requirements"], 7)

	res = callTool(t, "validate_map", map[string]any{"map_path": mapPath, "fail_on": "error"})
	require.False(t, res.IsError)
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &doc))
	assert.Equal(t, true, doc["passed"])
}

func TestMCPServerHandlers_ListChecks(t *testing.T) {
	res := callTool(t, "list_checks", map[string]any{"filter": `^mapping\.area\.`})
	require.False(t, res.IsError)

	var checks []schema.CheckInfo
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &checks))
	require.Len(t, checks, 1)
	assert.Equal(t, "mapping.area.subtype_tagging", checks[0].Name)
}

func TestMCPServerHandlers_ExplainIssue(t *testing.T) {
	res := callTool(t, "explain_issue", map[string]any{"code": "Lane.SpeedLimitValidity-001", "language": "ja"})
	require.False(t, res.IsError)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &got))
	assert.Equal(t, "Lane.SpeedLimitValidity-001", got["code"])
	assert.Equal(t, "Error", got["severity"])
	assert.Equal(t, "lanelet", got["primitive"])
	assert.Equal(t, "ja", got["language"])
	assert.NotEmpty(t, got["message"])
}
