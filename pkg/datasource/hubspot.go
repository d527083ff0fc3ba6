package datasource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/apperrors"
	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/config"
	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/models"
)

func init() {
	Register(Registration{
		Info: ProviderInfo{
			Kind:              models.SourceHubSpot,
			DisplayName:       "HubSpot",
			Description:       "HubSpot CRM objects accessed with a private app token",
			RequiresDiscovery: true,
		},
		Factory: func(cfg *config.Config, _ string, logger *zap.Logger) (Provider, error) {
			return NewHubSpot(cfg.HubSpot, logger)
		},
		Configured: func(cfg *config.Config) bool {
			return cfg.HubSpot.Configured()
		},
	})
}

// hubspotObjects are the CRM object collections exposed as tables. HubSpot
// has no base concept, so the object set is fixed.
var hubspotObjects = []string{"contacts", "companies", "deals", "tickets"}

// hubspotProperties selects the properties fetched per object. The CRM API
// returns only a minimal default set unless properties are named.
var hubspotProperties = map[string]string{
	"contacts":  "email,firstname,lastname,company,phone,createdate,notes_last_contacted,lifecyclestage",
	"companies": "name,domain,industry,annualrevenue,phone,createdate",
	"deals":     "dealname,amount,dealstage,closedate,createdate",
	"tickets":   "subject,hs_ticket_priority,hs_pipeline_stage,createdate",
}

// HubSpotProvider reads CRM object records. Customer discovery lands on the
// contacts collection in practice; the others exist for schema dumps.
type HubSpotProvider struct {
	cfg    config.HubSpotConfig
	client *http.Client
	logger *zap.Logger
}

// NewHubSpot builds a provider from private app credentials.
func NewHubSpot(cfg config.HubSpotConfig, logger *zap.Logger) (*HubSpotProvider, error) {
	if !cfg.Configured() {
		return nil, fmt.Errorf("hubspot is not configured, set HUBSPOT_ACCESS_TOKEN: %w", apperrors.ErrConnectionUnreachable)
	}
	return &HubSpotProvider{
		cfg:    cfg,
		client: newHTTPClient(),
		logger: logger.Named("hubspot"),
	}, nil
}

func (p *HubSpotProvider) Kind() models.SourceKind { return models.SourceHubSpot }

func (p *HubSpotProvider) header() http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+p.cfg.AccessToken)
	return h
}

// ListTables returns the fixed CRM object collections.
func (p *HubSpotProvider) ListTables(ctx context.Context) ([]string, error) {
	return slices.Clone(hubspotObjects), nil
}

// FetchRecords returns up to limit records from a CRM object collection,
// flattening the properties object and carrying the object id alongside.
func (p *HubSpotProvider) FetchRecords(ctx context.Context, table string, limit int) ([]models.RawRecord, error) {
	object := strings.ToLower(strings.TrimSpace(table))
	if !slices.Contains(hubspotObjects, object) {
		return nil, fmt.Errorf("object %q: %w", table, apperrors.ErrTableNotFound)
	}

	var out struct {
		Results []struct {
			ID         string         `json:"id"`
			Properties map[string]any `json:"properties"`
		} `json:"results"`
	}
	u := fmt.Sprintf("%s/crm/v3/objects/%s?limit=%d&properties=%s",
		p.cfg.BaseURL, object, limit, url.QueryEscape(hubspotProperties[object]))
	if err := getJSON(ctx, p.client, u, p.header(), &out); err != nil {
		var he *httpError
		if errors.As(err, &he) {
			switch he.status {
			case http.StatusNotFound:
				return nil, fmt.Errorf("object %q: %w", table, apperrors.ErrTableNotFound)
			case http.StatusUnauthorized, http.StatusForbidden:
				return nil, fmt.Errorf("hubspot fetch %s: %s: %w", object, he.Error(), apperrors.ErrConnectionUnreachable)
			}
		}
		return nil, fmt.Errorf("hubspot fetch %s: %w", object, err)
	}

	records := make([]models.RawRecord, 0, len(out.Results))
	for _, r := range out.Results {
		rec := make(models.RawRecord, len(r.Properties)+1)
		for k, v := range r.Properties {
			rec[k] = v
		}
		rec["record_id"] = r.ID
		records = append(records, rec)
	}
	return records, nil
}
