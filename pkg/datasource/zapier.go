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
			Kind:              models.SourceZapier,
			DisplayName:       "Zapier Tables",
			Description:       "A single pre-configured Zapier table",
			RequiresDiscovery: true,
		},
		Factory: func(cfg *config.Config, _ string, logger *zap.Logger) (Provider, error) {
			return NewZapier(cfg.Zapier, logger)
		},
		Configured: func(cfg *config.Config) bool {
			return cfg.Zapier.Configured()
		},
	})
}

// ZapierProvider reads records from one Zapier table. Zapier exposes no
// table enumeration for API keys scoped to a single table, so ListTables
// returns just the configured one.
type ZapierProvider struct {
	cfg    config.ZapierConfig
	client *http.Client
	logger *zap.Logger
}

// NewZapier builds a provider for the configured table.
func NewZapier(cfg config.ZapierConfig, logger *zap.Logger) (*ZapierProvider, error) {
	if !cfg.Configured() {
		return nil, fmt.Errorf("zapier is not configured, set ZAPIER_API_KEY and zapier.table_id: %w", apperrors.ErrConnectionUnreachable)
	}
	return &ZapierProvider{
		cfg:    cfg,
		client: newHTTPClient(),
		logger: logger.Named("zapier"),
	}, nil
}

func (p *ZapierProvider) Kind() models.SourceKind { return models.SourceZapier }

func (p *ZapierProvider) header() http.Header {
	h := http.Header{}
	h.Set("X-API-Key", p.cfg.APIKey)
	return h
}

// ListTables returns the single configured table.
func (p *ZapierProvider) ListTables(ctx context.Context) ([]string, error) {
	return []string{p.cfg.TableID}, nil
}

// FetchRecords returns up to limit records from the configured table. Any
// other table name is unknown by definition.
func (p *ZapierProvider) FetchRecords(ctx context.Context, table string, limit int) ([]models.RawRecord, error) {
	if table != p.cfg.TableID {
		return nil, fmt.Errorf("table %q: %w", table, apperrors.ErrTableNotFound)
	}

	var out struct {
		Data []struct {
			ID   string         `json:"id"`
			Data map[string]any `json:"data"`
		} `json:"data"`
	}
	u := fmt.Sprintf("%s/tables/%s/records?limit=%d",
		p.cfg.BaseURL, url.PathEscape(table), limit)
	if err := getJSON(ctx, p.client, u, p.header(), &out); err != nil {
		var he *httpError
		if errors.As(err, &he) {
			switch he.status {
			case http.StatusNotFound:
				return nil, fmt.Errorf("table %q: %w", table, apperrors.ErrTableNotFound)
			case http.StatusUnauthorized, http.StatusForbidden:
				return nil, fmt.Errorf("zapier fetch: %s: %w", he.Error(), apperrors.ErrConnectionUnreachable)
			}
		}
		return nil, fmt.Errorf("zapier fetch: %w", err)
	}

	records := make([]models.RawRecord, 0, len(out.Data))
	for _, r := range out.Data {
		rec := make(models.RawRecord, len(r.Data)+1)
		for k, v := range r.Data {
			rec[k] = v
		}
		rec["record_id"] = r.ID
		records = append(records, rec)
	}
	return records, nil
}
