package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/config"
	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/discovery"
	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/models"
	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/router"
	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/services"
)

func newToolServer(t *testing.T) *server.MCPServer {
	t.Helper()

	cfg := &config.Config{
		DefaultSource: "static",
		Discovery: config.DiscoveryConfig{
			ProbeParallelism:    5,
			ProbeTimeoutSeconds: 2,
			SampleSize:          10,
		},
	}
	logger := zap.NewNop()
	rt := router.New(cfg, discovery.NewEngine(cfg.Discovery, logger), logger)
	analyzer := services.NewAnalyzer(rt, nil, logger)

	s := server.NewMCPServer("test", "1.0.0", server.WithToolCapabilities(true))
	RegisterSourceTools(s, &SourceToolDeps{Router: rt, Logger: logger})
	RegisterCustomerTools(s, &CustomerToolDeps{Analyzer: analyzer, Logger: logger})
	RegisterAnalysisTools(s, &AnalysisToolDeps{Analyzer: analyzer, Logger: logger})
	RegisterHealthTool(s, "test-version")
	return s
}

type toolReply struct {
	text    string
	isError bool
	rpcErr  string
}

func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) toolReply {
	t.Helper()

	req, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/call",
		"params":  map[string]any{"name": name, "arguments": args},
	})
	require.NoError(t, err)

	raw := s.HandleMessage(context.Background(), req)
	respBytes, err := json.Marshal(raw)
	require.NoError(t, err)

	var resp struct {
		Result struct {
			IsError bool `json:"isError"`
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"result"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(respBytes, &resp))

	reply := toolReply{isError: resp.Result.IsError}
	if resp.Error != nil {
		reply.rpcErr = resp.Error.Message
	}
	if len(resp.Result.Content) > 0 {
		reply.text = resp.Result.Content[0].Text
	}
	return reply
}

func connectStatic(t *testing.T, s *server.MCPServer) {
	t.Helper()
	reply := callTool(t, s, "set_data_source", map[string]any{"source": "static"})
	require.False(t, reply.isError, reply.text)
	require.Empty(t, reply.rpcErr)
}

func TestToolsList_AllRegistered(t *testing.T) {
	s := newToolServer(t)

	raw := s.HandleMessage(context.Background(),
		[]byte(`{"jsonrpc":"2.0","method":"tools/list","id":1}`))
	respBytes, err := json.Marshal(raw)
	require.NoError(t, err)

	var resp struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(respBytes, &resp))

	names := make(map[string]bool, len(resp.Result.Tools))
	for _, tool := range resp.Result.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{
		"set_data_source",
		"get_data_source_status",
		"discover_bases",
		"discover_schema",
		"list_customers",
		"get_customer_details",
		"analyze_customer_health",
		"get_recommendations",
		"health",
	} {
		assert.True(t, names[want], "tool %s not registered", want)
	}
}

func TestHealthTool(t *testing.T) {
	s := newToolServer(t)
	reply := callTool(t, s, "health", nil)
	require.False(t, reply.isError)

	var health healthResult
	require.NoError(t, json.Unmarshal([]byte(reply.text), &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "test-version", health.Version)
}

func TestSetDataSource_Static(t *testing.T) {
	s := newToolServer(t)
	reply := callTool(t, s, "set_data_source", map[string]any{"source": "static"})
	require.False(t, reply.isError, reply.text)

	var conn models.Connection
	require.NoError(t, json.Unmarshal([]byte(reply.text), &conn))
	assert.Equal(t, models.SourceStatic, conn.Source)
	assert.Equal(t, "Customers", conn.Table)
	assert.NotEmpty(t, conn.Mapping)
}

func TestSetDataSource_UnknownSource(t *testing.T) {
	s := newToolServer(t)
	reply := callTool(t, s, "set_data_source", map[string]any{"source": "salesforce"})
	require.True(t, reply.isError)

	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(reply.text), &errResp))
	assert.Equal(t, "unknown_source", errResp.Code)
}

func TestSetDataSource_EmptySource(t *testing.T) {
	s := newToolServer(t)
	reply := callTool(t, s, "set_data_source", map[string]any{"source": "  "})
	require.True(t, reply.isError)

	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(reply.text), &errResp))
	assert.Equal(t, "invalid_parameters", errResp.Code)
}

func TestDataSourceStatus_BeforeAndAfterConnect(t *testing.T) {
	s := newToolServer(t)

	reply := callTool(t, s, "get_data_source_status", nil)
	require.False(t, reply.isError)

	var status router.Status
	require.NoError(t, json.Unmarshal([]byte(reply.text), &status))
	assert.Empty(t, status.ActiveSource)
	assert.NotEmpty(t, status.Sources)

	connectStatic(t, s)

	reply = callTool(t, s, "get_data_source_status", nil)
	require.NoError(t, json.Unmarshal([]byte(reply.text), &status))
	assert.Equal(t, models.SourceStatic, status.ActiveSource)
	assert.Equal(t, "Customers", status.ConnectedTable)
}

func TestListCustomers(t *testing.T) {
	s := newToolServer(t)
	connectStatic(t, s)

	reply := callTool(t, s, "list_customers", nil)
	require.False(t, reply.isError, reply.text)

	var customers []models.Customer
	require.NoError(t, json.Unmarshal([]byte(reply.text), &customers))
	require.Len(t, customers, 5)
	assert.Equal(t, "CUST001", customers[0].CustomerID)
}

func TestListCustomers_NoSourceConnected(t *testing.T) {
	s := newToolServer(t)

	reply := callTool(t, s, "list_customers", nil)
	require.True(t, reply.isError)

	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(reply.text), &errResp))
	assert.Equal(t, "unknown_source", errResp.Code)
}

func TestGetCustomerDetails_ByEmail(t *testing.T) {
	s := newToolServer(t)
	connectStatic(t, s)

	reply := callTool(t, s, "get_customer_details", map[string]any{"customer_id": "mike@startupxyz.com"})
	require.False(t, reply.isError, reply.text)

	var details services.CustomerDetails
	require.NoError(t, json.Unmarshal([]byte(reply.text), &details))
	assert.Equal(t, "StartupXYZ", details.Customer.Company)
	assert.NotEmpty(t, details.Usage)
	assert.NotEmpty(t, details.Tickets)
}

func TestGetCustomerDetails_NotFound(t *testing.T) {
	s := newToolServer(t)
	connectStatic(t, s)

	reply := callTool(t, s, "get_customer_details", map[string]any{"customer_id": "nobody@example.com"})
	require.True(t, reply.isError)

	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(reply.text), &errResp))
	assert.Equal(t, "customer_not_found", errResp.Code)
}

func TestGetCustomerDetails_Ambiguous(t *testing.T) {
	s := newToolServer(t)
	connectStatic(t, s)

	reply := callTool(t, s, "get_customer_details", map[string]any{"customer_id": "enterprise"})
	require.True(t, reply.isError)

	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(reply.text), &errResp))
	assert.Equal(t, "ambiguous_match", errResp.Code)
}

func TestAnalyzeCustomerHealth_WholeBook(t *testing.T) {
	s := newToolServer(t)
	connectStatic(t, s)

	reply := callTool(t, s, "analyze_customer_health", nil)
	require.False(t, reply.isError, reply.text)

	var report services.AnalysisReport
	require.NoError(t, json.Unmarshal([]byte(reply.text), &report))
	require.Len(t, report.Scores, 5)
	require.NotNil(t, report.Summary)
	assert.Equal(t, 5, report.Summary.Customers)

	for i := 1; i < len(report.Scores); i++ {
		assert.LessOrEqual(t, report.Scores[i-1].Composite, report.Scores[i].Composite)
	}
}

func TestAnalyzeCustomerHealth_SingleCustomer(t *testing.T) {
	s := newToolServer(t)
	connectStatic(t, s)

	reply := callTool(t, s, "analyze_customer_health", map[string]any{"customer_id": "CUST005"})
	require.False(t, reply.isError, reply.text)

	var report services.AnalysisReport
	require.NoError(t, json.Unmarshal([]byte(reply.text), &report))
	require.Len(t, report.Scores, 1)
	assert.Nil(t, report.Summary)
	assert.Contains(t, report.Scores[0].Flags, models.FlagNoUsageData)
}

func TestGetRecommendations_StrugglingCustomer(t *testing.T) {
	s := newToolServer(t)
	connectStatic(t, s)

	reply := callTool(t, s, "get_recommendations", map[string]any{"customer_id": "CUST003"})
	require.False(t, reply.isError, reply.text)

	var recs []models.Recommendation
	require.NoError(t, json.Unmarshal([]byte(reply.text), &recs))
	assert.NotEmpty(t, recs)
	for _, r := range recs {
		assert.NotEmpty(t, r.Action)
		assert.NotEmpty(t, r.Timeline)
		assert.NotEmpty(t, r.Reasoning)
	}
}

func TestGetRecommendations_UnknownCustomer(t *testing.T) {
	s := newToolServer(t)
	connectStatic(t, s)

	reply := callTool(t, s, "get_recommendations", map[string]any{"customer_id": "CUST999"})
	require.True(t, reply.isError)

	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(reply.text), &errResp))
	assert.Equal(t, "customer_not_found", errResp.Code)
}

func TestDiscoverSchema_ActiveStaticSource(t *testing.T) {
	s := newToolServer(t)
	connectStatic(t, s)

	reply := callTool(t, s, "discover_schema", nil)
	require.False(t, reply.isError, reply.text)

	var candidates []models.TableCandidate
	require.NoError(t, json.Unmarshal([]byte(reply.text), &candidates))
	require.NotEmpty(t, candidates)

	tables := make([]string, 0, len(candidates))
	for _, c := range candidates {
		tables = append(tables, c.Table)
	}
	assert.Contains(t, tables, "Customers")
}

func TestDiscoverSchema_NoTargetNoActive(t *testing.T) {
	s := newToolServer(t)

	reply := callTool(t, s, "discover_schema", nil)
	require.True(t, reply.isError)

	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(reply.text), &errResp))
	assert.Equal(t, "unknown_source", errResp.Code)
}
