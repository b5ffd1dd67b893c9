package generation

import (
	"context"
	"errors"

	appcfg "github.com/jamespheffernan/words-on-phone-server/internal/config"
)

// ErrNoProvider is returned when no enabled provider matches the config.
var ErrNoProvider = errors.New("no enabled generation provider")

// FromConfig resolves the configured provider into a concrete client. It is
// a pure function of the config and is called once per orchestration run,
// never per batch.
func FromConfig(ctx context.Context, cfg appcfg.AIConfig) (Client, error) {
	provider := selectProvider(cfg)
	if provider == nil {
		return nil, ErrNoProvider
	}

	switch normalizeProviderType(provider.Type) {
	case "gemini":
		return newGeminiClient(ctx, *provider)
	case "openai-compatible", "openaicompatible":
		return newCompatClient(*provider)
	default:
		// "openai", "anthropic" and anything unrecognized goes through the
		// jetify language-model path.
		return newPromptClient(*provider)
	}
}

func selectProvider(cfg appcfg.AIConfig) *appcfg.AIProvider {
	if cfg.ActiveProvider != "" {
		for i := range cfg.Providers {
			p := &cfg.Providers[i]
			if p.Enabled && p.ID == cfg.ActiveProvider {
				return p
			}
		}
	}
	for i := range cfg.Providers {
		if cfg.Providers[i].Enabled {
			return &cfg.Providers[i]
		}
	}
	return nil
}
