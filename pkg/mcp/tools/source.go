// Package tools provides the MCP tool implementations for the customer
// health analyzer.
package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/logging"
	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/router"
)

// SourceToolDeps contains dependencies for data source tools.
type SourceToolDeps struct {
	Router *router.Router
	Logger *zap.Logger
}

// RegisterSourceTools registers the data source management tools.
func RegisterSourceTools(s *server.MCPServer, deps *SourceToolDeps) {
	registerSetDataSourceTool(s, deps)
	registerSourceStatusTool(s, deps)
	registerDiscoverBasesTool(s, deps)
	registerDiscoverSchemaTool(s, deps)
}

func registerSetDataSourceTool(s *server.MCPServer, deps *SourceToolDeps) {
	tool := mcp.NewTool(
		"set_data_source",
		mcp.WithDescription(
			"Connect to a customer data source. "+
				"Schema-unknown sources (airtable, hubspot, zapier) run automatic discovery to find the customer table and map its columns; "+
				"the static source serves an embedded demo dataset immediately. "+
				"Switching replaces the previous connection entirely. "+
				"Example: set_data_source(source='airtable', base_id='appXXXXXXXXXXXXXX')",
		),
		mcp.WithString(
			"source",
			mcp.Required(),
			mcp.Description("Source kind: static, airtable, hubspot, or zapier"),
		),
		mcp.WithString(
			"base_id",
			mcp.Description("Optional - base/workspace to connect (Airtable only). Defaults to the configured base, else the first accessible one"),
		),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		source, err := req.RequireString("source")
		if err != nil {
			return nil, err
		}
		source = trimString(source)
		if source == "" {
			return NewErrorResult("invalid_parameters", "parameter 'source' cannot be empty"), nil
		}
		baseID := trimString(getOptionalString(req, "base_id"))

		conn, err := deps.Router.SetSource(ctx, source, baseID)
		if err != nil {
			if result := errorResultFor(err); result != nil {
				return result, nil
			}
			deps.Logger.Error("set_data_source failed",
				zap.String("source", source),
				zap.String("error", logging.SanitizeError(err)))
			return nil, err
		}
		return newJSONResult(conn)
	})
}

func registerSourceStatusTool(s *server.MCPServer, deps *SourceToolDeps) {
	tool := mcp.NewTool(
		"get_data_source_status",
		mcp.WithDescription(
			"Report the active data source: connected base and table, resolved field mapping, "+
				"and which source kinds have credentials configured.",
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return newJSONResult(deps.Router.Status())
	})
}

func registerDiscoverBasesTool(s *server.MCPServer, deps *SourceToolDeps) {
	tool := mcp.NewTool(
		"discover_bases",
		mcp.WithDescription(
			"List the bases the configured Airtable token can access. "+
				"Use before set_data_source to pick a base_id. "+
				"Fails for sources without a base concept.",
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		bases, err := deps.Router.DiscoverBases(ctx)
		if err != nil {
			if result := errorResultFor(err); result != nil {
				return result, nil
			}
			return nil, err
		}
		return newJSONResult(bases)
	})
}

func registerDiscoverSchemaTool(s *server.MCPServer, deps *SourceToolDeps) {
	tool := mcp.NewTool(
		"discover_schema",
		mcp.WithDescription(
			"Survey every reachable table on a base and return the evaluated candidates: "+
				"columns seen, resolved field mapping, and suitability score. "+
				"Inspection only; nothing is selected or connected. "+
				"Omit base_id to inspect the active connection's base.",
		),
		mcp.WithString(
			"base_id",
			mcp.Description("Optional - base to inspect instead of the active one"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		baseID := trimString(getOptionalString(req, "base_id"))

		candidates, err := deps.Router.DiscoverSchema(ctx, baseID)
		if err != nil {
			if result := errorResultFor(err); result != nil {
				return result, nil
			}
			return nil, err
		}
		return newJSONResult(candidates)
	})
}
