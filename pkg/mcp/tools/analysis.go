package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/services"
)

// AnalysisToolDeps contains dependencies for scoring and recommendation
// tools.
type AnalysisToolDeps struct {
	Analyzer *services.Analyzer
	Logger   *zap.Logger
}

// RegisterAnalysisTools registers the health scoring and recommendation
// tools.
func RegisterAnalysisTools(s *server.MCPServer, deps *AnalysisToolDeps) {
	registerAnalyzeHealthTool(s, deps)
	registerRecommendationsTool(s, deps)
}

func registerAnalyzeHealthTool(s *server.MCPServer, deps *AnalysisToolDeps) {
	tool := mcp.NewTool(
		"analyze_customer_health",
		mcp.WithDescription(
			"Compute health scores (usage, relationship, support, composite) for one customer, "+
				"or for the whole book when customer_id is omitted. "+
				"Bulk results come back worst-first with a fleet summary. "+
				"Customers with no usage history score 0 on usage and are flagged, never skipped.",
		),
		mcp.WithString(
			"customer_id",
			mcp.Description("Optional - email, customer id, or unique fragment. Omit to analyze every customer"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		key := trimString(getOptionalString(req, "customer_id"))

		report, err := deps.Analyzer.Analyze(ctx, key)
		if err != nil {
			if result := errorResultFor(err); result != nil {
				return result, nil
			}
			deps.Logger.Error("analyze_customer_health failed", zap.Error(err))
			return nil, err
		}
		return newJSONResult(report)
	})
}

func registerRecommendationsTool(s *server.MCPServer, deps *AnalysisToolDeps) {
	tool := mcp.NewTool(
		"get_recommendations",
		mcp.WithDescription(
			"Derive prioritized follow-up actions for one customer from their health scores. "+
				"The plan is rule-based and deterministic; when a text-generation provider is configured, "+
				"reasoning strings are rewritten to be customer-specific, but actions, priorities, "+
				"and timelines never change. An empty list means the customer is healthy.",
		),
		mcp.WithString(
			"customer_id",
			mcp.Required(),
			mcp.Description("Email, customer id, or unique name/company fragment"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		key, err := req.RequireString("customer_id")
		if err != nil {
			return nil, err
		}
		key = trimString(key)
		if key == "" {
			return NewErrorResult("invalid_parameters", "parameter 'customer_id' cannot be empty"), nil
		}

		recs, err := deps.Analyzer.Recommend(ctx, key)
		if err != nil {
			if result := errorResultFor(err); result != nil {
				return result, nil
			}
			deps.Logger.Error("get_recommendations failed", zap.Error(err))
			return nil, err
		}
		return newJSONResult(recs)
	})
}
