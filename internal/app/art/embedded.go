package art

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/mitchellh/mapstructure"

	"github.com/anoadragon453/busty-sub000/internal/domain/track"
	"github.com/anoadragon453/busty-sub000/internal/infra/media"
)

// Art larger than this is skipped rather than sent downstream.
const defaultMaxArtBytes = 8 << 20

// EmbeddedConfig holds settings for the embedded tag art provider.
type EmbeddedConfig struct {
	MaxBytes int `mapstructure:"max_bytes"`
}

// EmbeddedProvider extracts artwork embedded in the track file's tags.
type EmbeddedProvider struct {
	cfg EmbeddedConfig
}

// NewEmbeddedProvider creates an embedded art provider from a settings map.
func NewEmbeddedProvider(settings map[string]any) (*EmbeddedProvider, error) {
	cfg := EmbeddedConfig{MaxBytes: defaultMaxArtBytes}
	if settings != nil {
		if err := mapstructure.Decode(settings, &cfg); err != nil {
			return nil, errors.Wrap(err, "invalid embedded provider settings")
		}
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = defaultMaxArtBytes
	}
	return &EmbeddedProvider{cfg: cfg}, nil
}

func (p *EmbeddedProvider) Name() string {
	return "embedded"
}

// CoverArt returns the artwork embedded in the track's tags, or nil when
// the file carries none or the art exceeds the size limit.
func (p *EmbeddedProvider) CoverArt(_ context.Context, t track.Track) ([]byte, error) {
	data, err := media.EmbeddedArt(t.LocalPath)
	if err != nil {
		return nil, err
	}
	if len(data) > p.cfg.MaxBytes {
		return nil, nil
	}
	return data, nil
}
