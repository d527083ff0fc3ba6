package datasource

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/apperrors"
	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/logging"
	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/models"
	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/retry"
)

// WithRetry wraps a provider so transient transport failures are retried
// with backoff. When retries are exhausted on a transient error, the failure
// surfaces as ErrConnectionUnreachable. Sentinel errors such as
// ErrTableNotFound pass through untouched.
func WithRetry(p Provider, cfg *retry.Config, logger *zap.Logger) Provider {
	rp := &retryingProvider{
		inner:  p,
		cfg:    cfg,
		logger: logger.Named("retry"),
	}
	if dir, ok := p.(BaseDirectory); ok {
		return &retryingDirectoryProvider{retryingProvider: rp, dir: dir}
	}
	return rp
}

type retryingProvider struct {
	inner  Provider
	cfg    *retry.Config
	logger *zap.Logger
}

func (p *retryingProvider) Kind() models.SourceKind { return p.inner.Kind() }

func (p *retryingProvider) ListTables(ctx context.Context) ([]string, error) {
	return wrapFetch(ctx, p, "list tables", func() ([]string, error) {
		return p.inner.ListTables(ctx)
	})
}

func (p *retryingProvider) FetchRecords(ctx context.Context, table string, limit int) ([]models.RawRecord, error) {
	return wrapFetch(ctx, p, "fetch records", func() ([]models.RawRecord, error) {
		return p.inner.FetchRecords(ctx, table, limit)
	})
}

// retryingDirectoryProvider additionally forwards base discovery for
// providers that support it.
type retryingDirectoryProvider struct {
	*retryingProvider
	dir BaseDirectory
}

func (p *retryingDirectoryProvider) DiscoverBases(ctx context.Context) ([]models.BaseSummary, error) {
	return wrapFetch(ctx, p.retryingProvider, "discover bases", func() ([]models.BaseSummary, error) {
		return p.dir.DiscoverBases(ctx)
	})
}

func wrapFetch[T any](ctx context.Context, p *retryingProvider, op string, fn func() (T, error)) (T, error) {
	result, err := retry.DoWithResult(ctx, p.cfg, fn)
	if err == nil {
		return result, nil
	}
	if retry.IsRetryable(err) {
		// Still transient after exhausting retries.
		p.logger.Warn("provider unreachable",
			zap.String("source", string(p.inner.Kind())),
			zap.String("op", op),
			zap.String("error", logging.SanitizeError(err)))
		return result, fmt.Errorf("%s %s: %s: %w", p.inner.Kind(), op, logging.Sanitize(err.Error()), apperrors.ErrConnectionUnreachable)
	}
	return result, err
}
