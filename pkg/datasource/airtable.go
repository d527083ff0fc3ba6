package datasource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/apperrors"
	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/config"
	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/models"
)

func init() {
	Register(Registration{
		Info: ProviderInfo{
			Kind:              models.SourceAirtable,
			DisplayName:       "Airtable",
			Description:       "Airtable base accessed with a personal access token",
			RequiresDiscovery: true,
		},
		Factory: func(cfg *config.Config, baseID string, logger *zap.Logger) (Provider, error) {
			return NewAirtable(cfg.Airtable, baseID, logger)
		},
		Configured: func(cfg *config.Config) bool {
			return cfg.Airtable.Configured()
		},
	})
}

// AirtableProvider reads records from one Airtable base. Tokens with the
// schema read scope get table enumeration via the metadata API; tokens
// without it fall back to name probing in the discovery engine.
type AirtableProvider struct {
	cfg    config.AirtableConfig
	baseID string
	client *http.Client
	logger *zap.Logger
}

// NewAirtable builds a provider bound to baseID, falling back to the
// configured default base when baseID is empty.
func NewAirtable(cfg config.AirtableConfig, baseID string, logger *zap.Logger) (*AirtableProvider, error) {
	if !cfg.Configured() {
		return nil, fmt.Errorf("airtable is not configured, set AIRTABLE_API_KEY: %w", apperrors.ErrConnectionUnreachable)
	}
	if baseID == "" {
		baseID = cfg.BaseID
	}
	return &AirtableProvider{
		cfg:    cfg,
		baseID: baseID,
		client: newHTTPClient(),
		logger: logger.Named("airtable"),
	}, nil
}

func (p *AirtableProvider) Kind() models.SourceKind { return models.SourceAirtable }

// BaseID returns the base this provider is bound to.
func (p *AirtableProvider) BaseID() string { return p.baseID }

func (p *AirtableProvider) header() http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+p.cfg.APIKey)
	return h
}

// DiscoverBases lists all bases the token can see.
func (p *AirtableProvider) DiscoverBases(ctx context.Context) ([]models.BaseSummary, error) {
	var out struct {
		Bases []struct {
			ID              string `json:"id"`
			Name            string `json:"name"`
			PermissionLevel string `json:"permissionLevel"`
		} `json:"bases"`
	}
	if err := getJSON(ctx, p.client, p.cfg.BaseURL+"/meta/bases", p.header(), &out); err != nil {
		return nil, p.classify("discover bases", err)
	}

	bases := make([]models.BaseSummary, 0, len(out.Bases))
	for _, b := range out.Bases {
		bases = append(bases, models.BaseSummary{
			ID:              b.ID,
			Name:            b.Name,
			PermissionLevel: b.PermissionLevel,
		})
	}
	p.logger.Debug("discovered bases", zap.Int("count", len(bases)))
	return bases, nil
}

// ListTables enumerates tables through the metadata API. Tokens missing the
// schema.bases:read scope get ErrUnsupportedOperation so callers probe
// instead.
func (p *AirtableProvider) ListTables(ctx context.Context) ([]string, error) {
	if p.baseID == "" {
		return nil, fmt.Errorf("no airtable base selected: %w", apperrors.ErrConnectionUnreachable)
	}

	var out struct {
		Tables []struct {
			Name string `json:"name"`
		} `json:"tables"`
	}
	u := fmt.Sprintf("%s/meta/bases/%s/tables", p.cfg.BaseURL, url.PathEscape(p.baseID))
	if err := getJSON(ctx, p.client, u, p.header(), &out); err != nil {
		var he *httpError
		if errors.As(err, &he) && (he.status == http.StatusForbidden || he.status == http.StatusNotFound) {
			return nil, fmt.Errorf("metadata api unavailable for base %s: %w", p.baseID, apperrors.ErrUnsupportedOperation)
		}
		return nil, p.classify("list tables", err)
	}

	names := make([]string, 0, len(out.Tables))
	for _, t := range out.Tables {
		names = append(names, t.Name)
	}
	return names, nil
}

// FetchRecords returns up to limit records from a table, flattening the
// Airtable fields object and carrying the record id alongside.
func (p *AirtableProvider) FetchRecords(ctx context.Context, table string, limit int) ([]models.RawRecord, error) {
	if p.baseID == "" {
		return nil, fmt.Errorf("no airtable base selected: %w", apperrors.ErrConnectionUnreachable)
	}

	var out struct {
		Records []struct {
			ID     string         `json:"id"`
			Fields map[string]any `json:"fields"`
		} `json:"records"`
	}
	u := fmt.Sprintf("%s/%s/%s?maxRecords=%d",
		p.cfg.BaseURL, url.PathEscape(p.baseID), url.PathEscape(table), limit)
	if err := getJSON(ctx, p.client, u, p.header(), &out); err != nil {
		var he *httpError
		// 404 for unknown tables; 422 for TABLE_NOT_FOUND on some bases.
		if errors.As(err, &he) && (he.status == http.StatusNotFound || he.status == http.StatusUnprocessableEntity) {
			return nil, fmt.Errorf("table %q: %w", table, apperrors.ErrTableNotFound)
		}
		return nil, p.classify("fetch records", err)
	}

	records := make([]models.RawRecord, 0, len(out.Records))
	for _, r := range out.Records {
		rec := make(models.RawRecord, len(r.Fields)+1)
		for k, v := range r.Fields {
			rec[k] = v
		}
		rec["record_id"] = r.ID
		records = append(records, rec)
	}
	return records, nil
}

// classify maps auth failures onto the connection sentinel so the tool
// layer reports them uniformly.
func (p *AirtableProvider) classify(op string, err error) error {
	var he *httpError
	if errors.As(err, &he) && (he.status == http.StatusUnauthorized || he.status == http.StatusForbidden) {
		return fmt.Errorf("airtable %s: %s: %w", op, he.Error(), apperrors.ErrConnectionUnreachable)
	}
	return fmt.Errorf("airtable %s: %w", op, err)
}
