package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tier4/mapvalidator/core"
	"github.com/tier4/mapvalidator/internal/contract"
	"github.com/tier4/mapvalidator/internal/outwriter"
	"github.com/tier4/mapvalidator/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// issueExplanation is the explain_issue answer.
type issueExplanation struct {
	Code      string             `json:"code"`
	Severity  schema.Severity    `json:"severity"`
	Primitive schema.SubjectKind `json:"primitive"`
	Language  string             `json:"language"`
	Message   string             `json:"message"`
}

func (h *toolHandler) handleValidateMap(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	err := contract.RevalidateDocuments(cfg,
		request.GetString("map_path", ""),
		request.GetString("requirements_path", ""),
		request.GetString("exclusions_path", ""),
		request.GetString("fail_on", ""),
	)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid validation parameters: %v", err)), nil
	}

	result, _, err := core.GetValidationResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("validation failed to run: %v", err)), nil
	}

	doc := outwriter.BuildJSONResults(result.Report, result.Set, result.Info)
	jsonData, _ := json.MarshalIndent(doc, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListChecks(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if f := request.GetString("filter", ""); f != "" {
		re, err := regexp.Compile(f)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid filter: %v", err)), nil
		}
		cfg.CheckFilter = re
	}

	jsonData, _ := json.MarshalIndent(core.ListChecks(cfg), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleExplainIssue(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	code := request.GetString("code", "")
	if code == "" {
		return mcp.NewToolResultError("code is required"), nil
	}
	if lang := request.GetString("language", ""); lang != "" {
		if _, ok := schema.ValidLanguages[lang]; !ok {
			return mcp.NewToolResultError(fmt.Sprintf("invalid language '%s'. must be en, ja", lang)), nil
		}
		cfg.Language = lang
	}

	entry, err := core.ExplainIssue(cfg, code)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	lang := cfg.Language
	if lang == "" {
		lang = contract.DefaultLanguage
	}
	jsonData, _ := json.MarshalIndent(issueExplanation{
		Code:      entry.Code,
		Severity:  entry.Severity,
		Primitive: entry.Subject,
		Language:  lang,
		Message:   entry.Message(lang),
	}, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
