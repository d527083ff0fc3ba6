package datasource

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/config"
	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/models"
)

// ProviderInfo describes a registered provider for status output.
type ProviderInfo struct {
	Kind        models.SourceKind `json:"kind"`
	DisplayName string            `json:"display_name"`
	Description string            `json:"description"`

	// RequiresDiscovery is true for schema-unknown sources that need a
	// discovery pass before records can be normalized.
	RequiresDiscovery bool `json:"requires_discovery"`
}

// Factory builds a provider bound to a base. Providers without a base
// concept ignore baseID.
type Factory func(cfg *config.Config, baseID string, logger *zap.Logger) (Provider, error)

// Registration contains info plus the factory for creating the provider.
type Registration struct {
	Info    ProviderInfo
	Factory Factory

	// Configured reports whether the loaded configuration carries the
	// credentials this provider needs.
	Configured func(cfg *config.Config) bool
}

var (
	registryMu sync.RWMutex
	registry   = make(map[models.SourceKind]Registration)
)

// Register is called by each provider's init() function.
// Thread-safe for concurrent init() calls.
func Register(reg Registration) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[reg.Info.Kind] = reg
}

// RegisteredProviders returns info for all registered providers,
// sorted by kind for deterministic status output.
func RegisteredProviders() []ProviderInfo {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]ProviderInfo, 0, len(registry))
	for _, reg := range registry {
		result = append(result, reg.Info)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Kind < result[j].Kind
	})
	return result
}

// GetFactory returns the factory for a source kind.
// Returns nil if the kind is not registered.
func GetFactory(kind models.SourceKind) Factory {
	registryMu.RLock()
	defer registryMu.RUnlock()

	if reg, ok := registry[kind]; ok {
		return reg.Factory
	}
	return nil
}

// IsRegistered checks if a provider kind is available.
func IsRegistered(kind models.SourceKind) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[kind]
	return ok
}

// IsConfigured reports whether a registered kind has credentials in cfg.
func IsConfigured(kind models.SourceKind, cfg *config.Config) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()

	reg, ok := registry[kind]
	if !ok {
		return false
	}
	if reg.Configured == nil {
		return true
	}
	return reg.Configured(cfg)
}
