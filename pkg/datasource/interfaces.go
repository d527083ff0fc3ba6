// Package datasource defines the tabular provider surface the analyzer
// consumes and the registry of available source kinds.
package datasource

import (
	"context"

	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/models"
)

// TableStore is the minimal tabular surface every provider exposes.
type TableStore interface {
	// ListTables enumerates tables in the connected base. Providers that
	// cannot enumerate (missing metadata scope, no such API) return
	// apperrors.ErrUnsupportedOperation so discovery falls back to probing.
	ListTables(ctx context.Context) ([]string, error)

	// FetchRecords returns up to limit raw records from a table, preserving
	// the provider's column names. A missing table returns
	// apperrors.ErrTableNotFound.
	FetchRecords(ctx context.Context, table string, limit int) ([]models.RawRecord, error)
}

// BaseDirectory enumerates bases for providers with a workspace concept.
// Only Airtable implements it; the rest answer ErrUnsupportedOperation
// through the tool layer.
type BaseDirectory interface {
	DiscoverBases(ctx context.Context) ([]models.BaseSummary, error)
}

// Provider couples a source kind with its table surface.
type Provider interface {
	TableStore

	// Kind identifies the source this provider serves.
	Kind() models.SourceKind
}
