package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/services"
)

// CustomerToolDeps contains dependencies for customer lookup tools.
type CustomerToolDeps struct {
	Analyzer *services.Analyzer
	Logger   *zap.Logger
}

// RegisterCustomerTools registers the customer lookup tools.
func RegisterCustomerTools(s *server.MCPServer, deps *CustomerToolDeps) {
	registerListCustomersTool(s, deps)
	registerCustomerDetailsTool(s, deps)
}

func registerListCustomersTool(s *server.MCPServer, deps *CustomerToolDeps) {
	tool := mcp.NewTool(
		"list_customers",
		mcp.WithDescription(
			"List every customer on the active data source, normalized into the canonical "+
				"customer model and sorted by customer id.",
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		customers, err := deps.Analyzer.ListCustomers(ctx)
		if err != nil {
			if result := errorResultFor(err); result != nil {
				return result, nil
			}
			return nil, err
		}
		return newJSONResult(customers)
	})
}

func registerCustomerDetailsTool(s *server.MCPServer, deps *CustomerToolDeps) {
	tool := mcp.NewTool(
		"get_customer_details",
		mcp.WithDescription(
			"Fetch one customer with their usage and support history. "+
				"The key can be an email address, a customer id, or a company/name fragment; "+
				"a fragment matching several customers fails with ambiguous_match rather than guessing. "+
				"Example: get_customer_details(customer_id='john@techcorp.com')",
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

		details, err := deps.Analyzer.GetCustomerDetails(ctx, key)
		if err != nil {
			if result := errorResultFor(err); result != nil {
				return result, nil
			}
			return nil, err
		}
		return newJSONResult(details)
	})
}
