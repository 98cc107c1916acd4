package art

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anoadragon453/busty-sub000/internal/domain/track"
	"github.com/anoadragon453/busty-sub000/internal/infra/config"
)

type stubProvider struct {
	name string
	data []byte
	err  error

	calls int
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) CoverArt(context.Context, track.Track) ([]byte, error) {
	p.calls++
	return p.data, p.err
}

func testTrack(submitterID string) track.Track {
	return track.Track{
		LocalPath:          "/tmp/song.mp3",
		AttachmentFilename: "song.mp3",
		SubmitterID:        submitterID,
	}
}

func TestChain_FirstProviderWithArtWins(t *testing.T) {
	first := &stubProvider{name: "first"}
	second := &stubProvider{name: "second", data: []byte("art")}
	third := &stubProvider{name: "third", data: []byte("unused")}
	chain := NewChain([]Provider{first, second, third}, nil)

	data, err := chain.CoverArt(context.Background(), testTrack("user-1"))
	require.NoError(t, err)

	assert.Equal(t, []byte("art"), data)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
	assert.Zero(t, third.calls, "chain should stop at the first hit")
}

func TestChain_ProviderFailureMovesOn(t *testing.T) {
	failing := &stubProvider{name: "failing", err: assert.AnError}
	backup := &stubProvider{name: "backup", data: []byte("art")}
	chain := NewChain([]Provider{failing, backup}, nil)

	data, err := chain.CoverArt(context.Background(), testTrack("user-1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("art"), data)
}

func TestChain_NoArtAnywhere(t *testing.T) {
	chain := NewChain([]Provider{&stubProvider{name: "empty"}}, nil)

	data, err := chain.CoverArt(context.Background(), testTrack("user-1"))
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestChain_DisabledSubmitterSkipsProviders(t *testing.T) {
	provider := &stubProvider{name: "stub", data: []byte("art")}
	chain := NewChain([]Provider{provider}, func(submitterID string) bool {
		return submitterID != "opted-out"
	})

	data, err := chain.CoverArt(context.Background(), testTrack("opted-out"))
	require.NoError(t, err)
	assert.Nil(t, data)
	assert.Zero(t, provider.calls)

	data, err = chain.CoverArt(context.Background(), testTrack("user-1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("art"), data)
}

func TestChain_CancelledContext(t *testing.T) {
	provider := &stubProvider{name: "stub", data: []byte("art")}
	chain := NewChain([]Provider{provider}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := chain.CoverArt(ctx, testTrack("user-1"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, provider.calls)
}

func TestNewEmbeddedProvider_Settings(t *testing.T) {
	p, err := NewEmbeddedProvider(map[string]any{"max_bytes": 1024})
	require.NoError(t, err)
	assert.Equal(t, 1024, p.cfg.MaxBytes)

	p, err = NewEmbeddedProvider(nil)
	require.NoError(t, err)
	assert.Equal(t, defaultMaxArtBytes, p.cfg.MaxBytes)

	_, err = NewEmbeddedProvider(map[string]any{"max_bytes": "not a number"})
	assert.Error(t, err)
}

func TestNewChainFromConfig(t *testing.T) {
	tests := []struct {
		name      string
		providers []config.ProviderConfig
		wantNil   bool
		wantErr   bool
	}{
		{
			name:    "no providers disables art",
			wantNil: true,
		},
		{
			name:      "embedded provider",
			providers: []config.ProviderConfig{{Type: "embedded"}},
		},
		{
			name:      "unknown provider type",
			providers: []config.ProviderConfig{{Type: "dalle"}},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Art: config.ArtConfig{Providers: tt.providers}}

			chain, err := NewChainFromConfig(cfg, nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, chain)
			} else {
				assert.NotNil(t, chain)
			}
		})
	}
}
