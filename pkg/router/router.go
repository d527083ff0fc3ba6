// Package router owns the process-wide active data source. A connection is
// built complete (provider, table, field mapping) and installed in a single
// atomic store, so readers never observe a half-switched source.
package router

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/apperrors"
	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/config"
	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/datasource"
	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/discovery"
	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/models"
	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/retry"
)

// Active couples connection metadata with the provider serving it. The two
// always travel together: a mapping is only ever applied to records from
// the provider it was discovered on.
type Active struct {
	Connection models.Connection
	Provider   datasource.Provider
}

// SourceAvailability reports one registered source kind and whether the
// loaded configuration carries its credentials.
type SourceAvailability struct {
	datasource.ProviderInfo
	Configured bool `json:"configured"`
}

// Status is the full router state for the status surface.
type Status struct {
	ActiveSource   models.SourceKind    `json:"active_source,omitempty"`
	ConnectedBase  string               `json:"connected_base,omitempty"`
	ConnectedTable string               `json:"connected_table,omitempty"`
	FieldMapping   models.FieldMapping  `json:"field_mapping,omitempty"`
	ConnectedAt    *time.Time           `json:"connected_at,omitempty"`
	Sources        []SourceAvailability `json:"sources"`
}

// Router selects and holds the active data source.
type Router struct {
	cfg      *config.Config
	engine   *discovery.Engine
	retryCfg *retry.Config
	logger   *zap.Logger

	// connectMu serializes switches; readers go through the atomic
	// pointer and never block.
	connectMu sync.Mutex
	active    atomic.Pointer[Active]

	now func() time.Time
}

// New creates a router with no active source.
func New(cfg *config.Config, engine *discovery.Engine, logger *zap.Logger) *Router {
	return &Router{
		cfg:      cfg,
		engine:   engine,
		retryCfg: retry.DefaultConfig(),
		logger:   logger.Named("router"),
		now:      time.Now,
	}
}

// SetSource switches the active data source. For schema-unknown sources it
// runs discovery to bind the customer table and field mapping; the static
// source installs its canonical schema directly. The prior connection is
// replaced wholesale, never merged.
func (r *Router) SetSource(ctx context.Context, kind string, baseID string) (models.Connection, error) {
	k, ok := models.ParseSourceKind(kind)
	if !ok || !datasource.IsRegistered(k) {
		return models.Connection{}, fmt.Errorf("source %q: %w", kind, apperrors.ErrUnknownSource)
	}

	r.connectMu.Lock()
	defer r.connectMu.Unlock()

	provider, baseID, err := r.buildProvider(ctx, k, baseID)
	if err != nil {
		return models.Connection{}, err
	}

	conn := models.Connection{
		ID:          uuid.New(),
		Source:      k,
		BaseID:      baseID,
		ConnectedAt: r.now().UTC(),
	}

	if k.TableBacked() {
		candidate, err := r.engine.Discover(ctx, provider)
		if err != nil {
			return models.Connection{}, fmt.Errorf("discover schema on %s: %w", k, err)
		}
		conn.Table = candidate.Table
		conn.Mapping = candidate.Mapping.Clone()
	} else {
		conn.Table = datasource.StaticCustomersTable
		conn.Mapping = datasource.StaticMapping()
	}

	r.active.Store(&Active{Connection: conn, Provider: provider})
	r.logger.Info("data source connected",
		zap.String("source", string(k)),
		zap.String("base", conn.BaseID),
		zap.String("table", conn.Table),
		zap.Int("mapped_fields", len(conn.Mapping)))
	return conn, nil
}

// buildProvider constructs the retry-wrapped provider for a kind, resolving
// the target base when the kind needs one and none was given.
func (r *Router) buildProvider(ctx context.Context, k models.SourceKind, baseID string) (datasource.Provider, string, error) {
	factory := datasource.GetFactory(k)

	provider, err := factory(r.cfg, baseID, r.logger)
	if err != nil {
		return nil, "", fmt.Errorf("create %s provider: %w", k, err)
	}
	wrapped := datasource.WithRetry(provider, r.retryCfg, r.logger)

	if k != models.SourceAirtable {
		return wrapped, baseID, nil
	}

	// Airtable is base-scoped. An explicit base or a configured default
	// wins; otherwise take the first base the token can see.
	if baseID == "" {
		baseID = r.cfg.Airtable.BaseID
	}
	if baseID != "" {
		provider, err = factory(r.cfg, baseID, r.logger)
		if err != nil {
			return nil, "", fmt.Errorf("create %s provider: %w", k, err)
		}
		return datasource.WithRetry(provider, r.retryCfg, r.logger), baseID, nil
	}

	dir, ok := wrapped.(datasource.BaseDirectory)
	if !ok {
		return nil, "", fmt.Errorf("%s cannot enumerate bases: %w", k, apperrors.ErrUnsupportedOperation)
	}
	bases, err := dir.DiscoverBases(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("discover bases on %s: %w", k, err)
	}
	if len(bases) == 0 {
		return nil, "", fmt.Errorf("no accessible bases on %s: %w", k, apperrors.ErrNoSuitableTable)
	}
	baseID = bases[0].ID

	provider, err = factory(r.cfg, baseID, r.logger)
	if err != nil {
		return nil, "", fmt.Errorf("create %s provider: %w", k, err)
	}
	return datasource.WithRetry(provider, r.retryCfg, r.logger), baseID, nil
}

// Snapshot returns the active source, or nil when nothing is connected.
// The returned value is immutable; a later switch installs a new one.
func (r *Router) Snapshot() *Active {
	return r.active.Load()
}

// Status reports the active connection and credential availability of every
// registered source.
func (r *Router) Status() Status {
	infos := datasource.RegisteredProviders()
	sources := make([]SourceAvailability, 0, len(infos))
	for _, info := range infos {
		sources = append(sources, SourceAvailability{
			ProviderInfo: info,
			Configured:   datasource.IsConfigured(info.Kind, r.cfg),
		})
	}

	st := Status{Sources: sources}
	if active := r.active.Load(); active != nil {
		st.ActiveSource = active.Connection.Source
		st.ConnectedBase = active.Connection.BaseID
		st.ConnectedTable = active.Connection.Table
		st.FieldMapping = active.Connection.Mapping.Clone()
		at := active.Connection.ConnectedAt
		st.ConnectedAt = &at
	}
	return st
}

// DiscoverBases enumerates bases on the active provider, or on a transient
// Airtable provider when nothing base-scoped is connected. Sources without
// a base concept fail with ErrUnsupportedOperation.
func (r *Router) DiscoverBases(ctx context.Context) ([]models.BaseSummary, error) {
	if active := r.active.Load(); active != nil {
		if dir, ok := active.Provider.(datasource.BaseDirectory); ok {
			return dir.DiscoverBases(ctx)
		}
		if active.Connection.Source != models.SourceAirtable {
			return nil, fmt.Errorf("source %s has no bases: %w", active.Connection.Source, apperrors.ErrUnsupportedOperation)
		}
	}

	dir, err := r.buildDirectoryProvider()
	if err != nil {
		return nil, err
	}
	return dir.DiscoverBases(ctx)
}

// DiscoverSchema surveys every reachable table and returns the evaluated
// candidates without selecting one. An empty baseID inspects the active
// connection's base.
func (r *Router) DiscoverSchema(ctx context.Context, baseID string) ([]models.TableCandidate, error) {
	active := r.active.Load()
	if active != nil && (baseID == "" || baseID == active.Connection.BaseID) {
		return r.engine.Survey(ctx, active.Provider)
	}
	if baseID == "" {
		return nil, fmt.Errorf("no active source and no base to inspect: %w", apperrors.ErrUnknownSource)
	}

	// Only Airtable addresses tables by base.
	factory := datasource.GetFactory(models.SourceAirtable)
	provider, err := factory(r.cfg, baseID, r.logger)
	if err != nil {
		return nil, fmt.Errorf("create airtable provider: %w", err)
	}
	return r.engine.Survey(ctx, datasource.WithRetry(provider, r.retryCfg, r.logger))
}

func (r *Router) buildDirectoryProvider() (datasource.BaseDirectory, error) {
	factory := datasource.GetFactory(models.SourceAirtable)
	if factory == nil {
		return nil, fmt.Errorf("airtable not registered: %w", apperrors.ErrUnknownSource)
	}
	provider, err := factory(r.cfg, "", r.logger)
	if err != nil {
		return nil, fmt.Errorf("create airtable provider: %w", err)
	}
	dir, ok := datasource.WithRetry(provider, r.retryCfg, r.logger).(datasource.BaseDirectory)
	if !ok {
		return nil, fmt.Errorf("airtable provider cannot enumerate bases: %w", apperrors.ErrUnsupportedOperation)
	}
	return dir, nil
}
