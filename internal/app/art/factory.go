package art

import (
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/anoadragon453/busty-sub000/internal/infra/config"
)

// NewChainFromConfig creates a provider chain from configuration.
// Returns nil when no providers are configured, which disables art.
func NewChainFromConfig(cfg *config.Config, enabledFor func(submitterID string) bool) (*Chain, error) {
	if len(cfg.Art.Providers) == 0 {
		return nil, nil
	}

	var providers []Provider

	for i, pcfg := range cfg.Art.Providers {
		var (
			provider Provider
			err      error
		)
		switch pcfg.Type {
		case "embedded":
			provider, err = NewEmbeddedProvider(pcfg.Settings)

		default:
			return nil, errors.Newf("unsupported provider type: %s (provider index %d)", pcfg.Type, i)
		}

		if err != nil {
			return nil, errors.Wrapf(err, "failed to create provider (index %d, type %s)", i, pcfg.Type)
		}

		providers = append(providers, provider)
		zlog.Info().Msgf("registered art provider: index=%d type=%s", i+1, pcfg.Type)
	}

	return NewChain(providers, enabledFor), nil
}
