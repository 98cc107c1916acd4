package bust

import (
	"context"
	"time"

	"github.com/anoadragon453/busty-sub000/internal/domain/track"
)

// AudioPlayer is the playback transport boundary.
// The session sequences tracks through it without knowing how audio
// actually reaches listeners.
type AudioPlayer interface {
	// Play plays the file at path, starting offset into the track, and
	// returns when playback finishes naturally, Stop is called, or ctx is
	// cancelled. A stop must not be reported as an error; cancellation is
	// reported as ctx.Err().
	Play(ctx context.Context, path string, offset time.Duration) error

	// Stop stops current playback immediately, causing any pending Play
	// to return. Safe to call when nothing is playing.
	Stop()
}

// Output is the notification boundary for user-visible session output.
type Output interface {
	SendSessionStarted(ctx context.Context, totalTracks, startIndex int) error
	SendCooldownNotice(ctx context.Context) error
	DisplayNowPlaying(ctx context.Context, t track.Track, coverArt []byte) error
	UnpinNowPlaying(ctx context.Context) error
	SendSessionFinished(ctx context.Context, totalDuration time.Duration, completedNaturally bool) error

	// Identity returns the current display identity (e.g. a bot nickname),
	// "" if none. SetIdentity replaces it.
	Identity(ctx context.Context) (string, error)
	SetIdentity(ctx context.Context, identity string) error
}

// ArtProvider supplies cover art for a track.
// Returning (nil, nil) means no art is available; errors are tolerated.
type ArtProvider interface {
	CoverArt(ctx context.Context, t track.Track) ([]byte, error)
}
