package tools

import (
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/apperrors"
)

// ErrorResponse represents a structured error in tool results. Actionable
// failures come back as successful tool results carrying this shape, so the
// calling agent sees the details instead of a swallowed protocol error.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewErrorResult creates a tool result containing a structured error.
// Use this for recoverable errors the caller can fix (bad source name,
// ambiguous customer key). System failures still return Go errors.
func NewErrorResult(code, message string) *mcp.CallToolResult {
	resp := ErrorResponse{
		Error:   true,
		Code:    code,
		Message: message,
	}
	jsonBytes, _ := json.Marshal(resp)
	result := mcp.NewToolResultText(string(jsonBytes))
	result.IsError = true
	return result
}

// errorResultFor maps sentinel errors onto actionable error results.
// Returns nil for system failures, which the handler surfaces as a Go
// error instead. ErrConnectionUnreachable is deliberately in the second
// group: retries were already exhausted below this layer.
func errorResultFor(err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, apperrors.ErrCustomerNotFound):
		return NewErrorResult("customer_not_found", err.Error())
	case errors.Is(err, apperrors.ErrAmbiguousMatch):
		return NewErrorResult("ambiguous_match", err.Error())
	case errors.Is(err, apperrors.ErrUnknownSource):
		return NewErrorResult("unknown_source", err.Error())
	case errors.Is(err, apperrors.ErrUnsupportedOperation):
		return NewErrorResult("unsupported_operation", err.Error())
	case errors.Is(err, apperrors.ErrNoSuitableTable):
		return NewErrorResult("no_suitable_table", err.Error())
	default:
		return nil
	}
}
