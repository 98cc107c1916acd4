// Package art provides cover art provision strategies for bust sessions.
package art

import (
	"context"

	zlog "github.com/rs/zerolog/log"

	"github.com/anoadragon453/busty-sub000/internal/domain/track"
)

// Provider is the interface for cover art providers. Implementations
// return (nil, nil) when they have no art for a track.
type Provider interface {
	CoverArt(ctx context.Context, t track.Track) ([]byte, error)

	// Name returns the provider name (used in config).
	Name() string
}

// Chain tries providers in order and returns the first art found.
// A per-submitter gate can disable art entirely for users who opted out.
type Chain struct {
	providers  []Provider
	enabledFor func(submitterID string) bool // nil means always enabled
}

// NewChain creates a provider chain.
func NewChain(providers []Provider, enabledFor func(string) bool) *Chain {
	return &Chain{providers: providers, enabledFor: enabledFor}
}

// CoverArt returns art for the track from the first provider that has
// any. Provider failures are logged and the chain moves on.
func (c *Chain) CoverArt(ctx context.Context, t track.Track) ([]byte, error) {
	if c.enabledFor != nil && !c.enabledFor(t.SubmitterID) {
		return nil, nil
	}

	for _, p := range c.providers {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		data, err := p.CoverArt(ctx, t)
		if err != nil {
			zlog.Debug().Err(err).
				Str("provider", p.Name()).
				Str("file", t.AttachmentFilename).
				Msg("art: provider failed, trying next")
			continue
		}
		if len(data) > 0 {
			return data, nil
		}
	}
	return nil, nil
}
