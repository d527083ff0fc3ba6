package llm

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/config"
)

// NewFromConfig builds the generation client named by the enhancement
// configuration. Callers gate on cfg.Available() first; calling this
// without credentials is an error.
func NewFromConfig(cfg config.EnhancementConfig, logger *zap.Logger) (Client, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIClient(cfg.APIKey, cfg.Model, cfg.BaseURL, logger)
	case "anthropic":
		return NewAnthropicClient(cfg.APIKey, cfg.Model, logger)
	default:
		return nil, fmt.Errorf("unknown enhancement provider %q", cfg.Provider)
	}
}
