package discovery

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/apperrors"
	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/config"
	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/datasource"
	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/logging"
	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/models"
)

// Engine discovers the most customer-like table on a provider and resolves
// its field mapping. Discovery is recomputed per connection; nothing is
// persisted or learned across runs.
type Engine struct {
	catalog []CatalogEntry
	cfg     config.DiscoveryConfig
	pool    *probePool
	logger  *zap.Logger
}

// NewEngine builds an engine with the canonical catalog.
func NewEngine(cfg config.DiscoveryConfig, logger *zap.Logger) *Engine {
	return &Engine{
		catalog: Catalog(),
		cfg:     cfg,
		pool:    newProbePool(cfg.ProbeParallelism),
		logger:  logger.Named("discovery"),
	}
}

// Discover finds the best customer table on a store. Table names come from
// the provider's own enumeration when it supports one, else from the fixed
// probe list. Fails with ErrNoSuitableTable when no reachable table binds
// email or customer_id.
func (e *Engine) Discover(ctx context.Context, store datasource.TableStore) (models.TableCandidate, error) {
	candidates, err := e.Survey(ctx, store)
	if err != nil {
		return models.TableCandidate{}, err
	}

	best, ok := selectBest(candidates)
	if !ok {
		return models.TableCandidate{}, fmt.Errorf("no candidate table binds email or customer_id: %w", apperrors.ErrNoSuitableTable)
	}
	e.logger.Info("selected customer table",
		zap.String("table", best.Table),
		zap.Float64("score", best.Score),
		zap.Int("mapped_fields", len(best.Mapping)))
	return best, nil
}

// Survey probes every candidate table and returns the evaluated candidates
// in declaration order. Unreachable and empty tables are simply absent.
func (e *Engine) Survey(ctx context.Context, store datasource.TableStore) ([]models.TableCandidate, error) {
	names, err := store.ListTables(ctx)
	switch {
	case errors.Is(err, apperrors.ErrUnsupportedOperation):
		e.logger.Debug("table enumeration unsupported, probing by name")
		names = ProbeNames()
	case err != nil:
		return nil, fmt.Errorf("enumerate tables: %w", err)
	}
	// An enumeration that succeeds but lists nothing is as useless as an
	// unsupported one; probe the common names instead.
	if len(names) == 0 {
		e.logger.Debug("table enumeration returned nothing, probing by name")
		names = ProbeNames()
	}

	items := make([]probeItem[models.TableCandidate], 0, len(names))
	for _, name := range names {
		items = append(items, probeItem[models.TableCandidate]{
			Table: name,
			Execute: func(ctx context.Context) (models.TableCandidate, error) {
				return e.probe(ctx, store, name)
			},
		})
	}
	results := runProbes(ctx, e.pool, items)

	// Re-key by table, then walk the declaration order: completion order is
	// nondeterministic and must never leak into selection.
	byTable := make(map[string]probeResult[models.TableCandidate], len(results))
	for _, r := range results {
		byTable[r.Table] = r
	}

	candidates := make([]models.TableCandidate, 0, len(names))
	for _, name := range names {
		r, ok := byTable[name]
		if !ok {
			continue
		}
		if r.Err != nil {
			if errors.Is(r.Err, apperrors.ErrTableNotFound) {
				continue // probing nonexistent names is expected
			}
			e.logger.Warn("table probe failed",
				zap.String("table", name),
				zap.String("error", logging.SanitizeError(r.Err)))
			continue
		}
		if r.Result.SampleLen == 0 {
			continue // empty tables score 0 and are excluded outright
		}
		candidates = append(candidates, r.Result)
	}
	return candidates, nil
}

// probe samples one table under its own timeout and evaluates it.
func (e *Engine) probe(ctx context.Context, store datasource.TableStore, table string) (models.TableCandidate, error) {
	probeCtx, cancel := context.WithTimeout(ctx, e.cfg.ProbeTimeout())
	defer cancel()

	sample, err := store.FetchRecords(probeCtx, table, e.cfg.SampleSize)
	if err != nil {
		return models.TableCandidate{}, err
	}

	columns := ObservedColumns(sample)
	mapping := ResolveMapping(columns, e.catalog)
	return models.TableCandidate{
		Table:     table,
		Sample:    sample,
		SampleLen: len(sample),
		Columns:   columns,
		Score:     ScoreMapping(mapping, e.catalog),
		NameBonus: NameBonus(table),
		Mapping:   mapping,
	}, nil
}

// selectBest picks the winning viable candidate: highest score, then
// highest name bonus, then earliest declaration order.
func selectBest(candidates []models.TableCandidate) (models.TableCandidate, bool) {
	var best models.TableCandidate
	found := false
	for _, c := range candidates {
		if !c.Viable() {
			continue
		}
		if !found || c.Score > best.Score || (c.Score == best.Score && c.NameBonus > best.NameBonus) {
			best = c
			found = true
		}
	}
	return best, found
}
