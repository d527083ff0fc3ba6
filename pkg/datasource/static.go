package datasource

import (
	"context"
	_ "embed"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/apperrors"
	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/config"
	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/models"
)

// Table names served by the static source. The customer table already uses
// canonical column names, so connecting to it needs no discovery pass.
const (
	StaticCustomersTable = "Customers"
	StaticUsageTable     = "Usage"
	StaticSupportTable   = "Support"
)

//go:embed fixtures.yaml
var fixturesYAML []byte

func init() {
	Register(Registration{
		Info: ProviderInfo{
			Kind:              models.SourceStatic,
			DisplayName:       "Static demo data",
			Description:       "Embedded sample dataset with 5 demo customers",
			RequiresDiscovery: false,
		},
		Factory: func(_ *config.Config, _ string, logger *zap.Logger) (Provider, error) {
			return NewStatic(logger)
		},
	})
}

type fixtureFile struct {
	Customers []map[string]any `yaml:"customers"`
	Usage     []map[string]any `yaml:"usage"`
	Support   []map[string]any `yaml:"support"`
}

// StaticProvider serves the embedded demo dataset. It exists so the full
// analysis pipeline can run without any provider credentials.
type StaticProvider struct {
	tables map[string][]models.RawRecord
}

// NewStatic parses the embedded fixtures once per provider instance.
func NewStatic(logger *zap.Logger) (*StaticProvider, error) {
	var f fixtureFile
	if err := yaml.Unmarshal(fixturesYAML, &f); err != nil {
		return nil, fmt.Errorf("parse embedded fixtures: %w", err)
	}

	p := &StaticProvider{
		tables: map[string][]models.RawRecord{
			StaticCustomersTable: toRawRecords(f.Customers),
			StaticUsageTable:     toRawRecords(f.Usage),
			StaticSupportTable:   toRawRecords(f.Support),
		},
	}
	logger.Named("static").Debug("loaded demo dataset",
		zap.Int("customers", len(f.Customers)),
		zap.Int("usage_records", len(f.Usage)),
		zap.Int("support_records", len(f.Support)))
	return p, nil
}

func toRawRecords(rows []map[string]any) []models.RawRecord {
	out := make([]models.RawRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.RawRecord(row))
	}
	return out
}

func (p *StaticProvider) Kind() models.SourceKind { return models.SourceStatic }

// ListTables returns the fixture tables in a fixed order.
func (p *StaticProvider) ListTables(ctx context.Context) ([]string, error) {
	return []string{StaticCustomersTable, StaticUsageTable, StaticSupportTable}, nil
}

// FetchRecords returns up to limit records from a fixture table.
func (p *StaticProvider) FetchRecords(ctx context.Context, table string, limit int) ([]models.RawRecord, error) {
	rows, ok := p.tables[table]
	if !ok {
		return nil, fmt.Errorf("table %q: %w", table, apperrors.ErrTableNotFound)
	}
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	out := make([]models.RawRecord, len(rows))
	copy(out, rows)
	return out, nil
}

// StaticMapping is the canonical field mapping for the fixture customer
// table. The static source installs it directly instead of discovering.
func StaticMapping() models.FieldMapping {
	return models.FieldMapping{
		models.AttrEmail:           "email",
		models.AttrName:            "name",
		models.AttrCompany:         "company_name",
		models.AttrAccountValue:    "account_value",
		models.AttrCustomerID:      "customer_id",
		models.AttrPhone:           "phone",
		models.AttrEngagementScore: "engagement_score",
		models.AttrCustomerType:    "customer_type",
		models.AttrCreatedDate:     "created_date",
		models.AttrLastContact:     "last_contact_date",
	}
}
