package bust

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/anoadragon453/busty-sub000/internal/domain/track"
)

// Errors
var (
	ErrNotListed       = errors.New("session has already been played")
	ErrNoTracks        = errors.New("no tracks to play")
	ErrIndexOutOfRange = errors.New("track index out of range")
)

const (
	defaultIdentityLimit = 32
	defaultArtTimeout    = 20 * time.Second
)

// Config holds session configuration.
type Config struct {
	Cooldown         time.Duration // Pause before each track starts
	IdentityLimit    int           // Max length of the now-playing identity string
	IdentityPrefixes []string      // Prefixes (emoji) randomly chosen for the identity
	ArtTimeout       time.Duration // Budget for fetching cover art per track
}

// Controller owns the authoritative playback state machine for one group.
//
// A controller is created in PhaseListed with an immutable track list,
// moves to PhasePlaying when Play starts sequencing, and ends in
// PhaseFinished when the loop exits. Finished controllers are inert.
type Controller struct {
	mu sync.Mutex

	id     string
	cfg    Config
	tracks []track.Track
	output Output
	art    ArtProvider // optional, nil disables cover art

	phase    Phase
	playback *playbackState // non-nil iff phase == PhasePlaying
}

// New creates a controller in PhaseListed for the given track list.
func New(cfg Config, tracks []track.Track, output Output, art ArtProvider) *Controller {
	if cfg.IdentityLimit <= 0 {
		cfg.IdentityLimit = defaultIdentityLimit
	}
	if cfg.ArtTimeout <= 0 {
		cfg.ArtTimeout = defaultArtTimeout
	}
	return &Controller{
		id:     uuid.New().String(),
		cfg:    cfg,
		tracks: tracks,
		output: output,
		art:    art,
		phase:  PhaseListed,
	}
}

// ID returns the session's unique identifier.
func (c *Controller) ID() string {
	return c.id
}

// Phase returns the current lifecycle phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// IsPlaying reports whether the session is in PhasePlaying.
func (c *Controller) IsPlaying() bool {
	return c.Phase() == PhasePlaying
}

// Tracks returns the session's track list. Callers must not modify it.
func (c *Controller) Tracks() []track.Track {
	return c.tracks
}

// CurrentTrack returns the track at the current playback index, if playing.
func (c *Controller) CurrentTrack() (track.Track, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.playback == nil || c.playback.currentIndex >= len(c.tracks) {
		return track.Track{}, false
	}
	return c.tracks[c.playback.currentIndex], true
}

// TotalDuration sums all known track durations; unknown durations count as zero.
func (c *Controller) TotalDuration() time.Duration {
	var total time.Duration
	for _, t := range c.tracks {
		if t.Duration != nil {
			total += *t.Duration
		}
	}
	return total
}

// Stats derives a statistics snapshot from the track list. Safe in any phase.
func (c *Controller) Stats() Stats {
	return computeStats(c.tracks, c.cfg.Cooldown)
}

// Play sequences the track list through player, starting at startIndex,
// and blocks until the session finishes or is stopped. It may be called
// once per controller, on a session in PhaseListed.
//
// The output's identity is captured before playback and restored on every
// exit path. Cancellation of the in-flight track (via SkipTo, Seek or
// Stop) is an expected outcome: the player is stopped and the index
// advances. A track that fails to play is skipped, never aborting the
// session.
func (c *Controller) Play(ctx context.Context, player AudioPlayer, startIndex int) error {
	c.mu.Lock()
	if c.phase != PhaseListed {
		c.mu.Unlock()
		return ErrNotListed
	}
	if len(c.tracks) == 0 {
		c.mu.Unlock()
		return ErrNoTracks
	}
	if startIndex < 0 || startIndex >= len(c.tracks) {
		c.mu.Unlock()
		return ErrIndexOutOfRange
	}
	c.mu.Unlock()

	// Capture the display identity so it can be restored whatever happens.
	originalIdentity, idErr := c.output.Identity(ctx)
	if idErr != nil {
		zlog.Warn().Err(idErr).Str("session_id", c.id).Msg("bust: could not read identity, restore disabled")
	}
	defer func() {
		if idErr != nil {
			return
		}
		restoreCtx := context.WithoutCancel(ctx)
		if err := c.output.SetIdentity(restoreCtx, originalIdentity); err != nil {
			zlog.Warn().Err(err).Str("session_id", c.id).Msg("bust: failed to restore identity")
		}
	}()

	if err := c.output.SendSessionStarted(ctx, len(c.tracks), startIndex); err != nil {
		return errors.Wrap(err, "failed to announce session start")
	}

	c.mu.Lock()
	c.playback = &playbackState{currentIndex: startIndex}
	c.phase = PhasePlaying
	st := c.playback
	c.mu.Unlock()

	zlog.Info().
		Str("session_id", c.id).
		Int("tracks", len(c.tracks)).
		Int("start_index", startIndex).
		Msg("bust: playback starting")

	for {
		c.mu.Lock()
		if st.stopRequested || st.currentIndex >= len(c.tracks) {
			c.mu.Unlock()
			break
		}
		index := st.currentIndex
		trackCtx, cancel := context.WithCancel(ctx)
		st.cancelTrack = cancel
		c.mu.Unlock()

		err := c.playTrack(trackCtx, player, index)
		cancel()

		switch {
		case err == nil:
		case errors.Is(err, context.Canceled):
			// Skip, seek or stop interrupted the track. Make sure the
			// transport is not left producing audio for it.
			player.Stop()
		default:
			zlog.Error().Err(err).
				Str("session_id", c.id).
				Int("index", index).
				Msg("bust: track playback failed, skipping to next")
		}

		c.mu.Lock()
		st.cancelTrack = nil
		// A cancelled track counts as consumed; SkipTo relies on this
		// increment to land on its target index.
		st.currentIndex++
		if ctx.Err() != nil {
			st.stopRequested = true
		}
		c.mu.Unlock()
	}

	c.mu.Lock()
	completed := !st.stopRequested
	c.phase = PhaseFinished
	c.playback = nil
	c.mu.Unlock()

	finishCtx := context.WithoutCancel(ctx)
	if err := c.output.SendSessionFinished(finishCtx, c.TotalDuration(), completed); err != nil {
		zlog.Warn().Err(err).Str("session_id", c.id).Msg("bust: failed to announce session end")
	}

	if completed {
		zlog.Info().Str("session_id", c.id).Msg("bust: playback completed")
	} else {
		zlog.Info().Str("session_id", c.id).Msg("bust: playback stopped early")
	}
	return nil
}

// playTrack runs the single-track procedure: cooldown notice, cover art
// within the cooldown window, pending-seek consumption, now-playing
// display, transport playback, unpin. It is the per-track cancellable unit.
func (c *Controller) playTrack(ctx context.Context, player AudioPlayer, index int) error {
	t := c.tracks[index]

	if err := c.output.SendCooldownNotice(ctx); err != nil {
		return err
	}

	// Cover art is built inside the cooldown window: time spent here is
	// credited against the configured pause.
	buildStart := time.Now()
	var coverArt []byte
	if c.art != nil {
		artCtx, cancelArt := context.WithTimeout(ctx, c.cfg.ArtTimeout)
		data, err := c.art.CoverArt(artCtx, t)
		cancelArt()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			zlog.Warn().Err(err).Str("file", t.AttachmentFilename).Msg("bust: cover art unavailable")
		} else {
			coverArt = data
		}
	}

	if remaining := c.cfg.Cooldown - time.Since(buildStart); remaining > 0 {
		timer := time.NewTimer(remaining)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}

	c.mu.Lock()
	var offset time.Duration
	if c.playback != nil {
		offset = c.playback.seekOffset
		c.playback.seekOffset = 0
	}
	c.mu.Unlock()

	if err := c.output.DisplayNowPlaying(ctx, t, coverArt); err != nil {
		return err
	}
	c.setNowPlayingIdentity(ctx, t)

	if err := player.Play(ctx, t.LocalPath, offset); err != nil {
		return err
	}

	return c.output.UnpinNowPlaying(ctx)
}

// setNowPlayingIdentity updates the display identity to the current track.
// Identity is cosmetic: failures are logged, never fatal.
func (c *Controller) setNowPlayingIdentity(ctx context.Context, t track.Track) {
	identity := t.FormattedTitle()
	if len(c.cfg.IdentityPrefixes) > 0 {
		identity = c.cfg.IdentityPrefixes[rand.IntN(len(c.cfg.IdentityPrefixes))] + identity
	}
	if runes := []rune(identity); len(runes) > c.cfg.IdentityLimit {
		identity = string(runes[:c.cfg.IdentityLimit-1]) + "…"
	}

	if err := c.output.SetIdentity(ctx, identity); err != nil {
		zlog.Warn().Err(err).Str("session_id", c.id).Msg("bust: failed to set identity")
	}
}

// Skip advances past the current track; the loop's post-attempt
// increment moves playback to the next one. No-op unless playing.
func (c *Controller) Skip() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.playback == nil || c.playback.cancelTrack == nil {
		return
	}
	c.playback.cancelTrack()
}

// SkipTo moves playback to the given 0-based track index. No-op unless
// playing. Skipping to the current index replays the current track from
// the start: the loop's post-attempt increment lands back on it.
func (c *Controller) SkipTo(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Without an in-flight unit to cancel there is no increment to
	// absorb the decrement below, so skipping must wait for the next
	// track to start.
	if c.playback == nil || c.playback.cancelTrack == nil {
		return
	}

	// One before the target; the loop increments after cancellation.
	c.playback.currentIndex = max(0, index-1)
	c.playback.cancelTrack()
}

// Seek restarts the current track at the given offset. No-op unless playing.
func (c *Controller) Seek(offset time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.playback == nil || c.playback.cancelTrack == nil {
		zlog.Warn().Str("session_id", c.id).Msg("bust: no track playing, ignoring seek")
		return
	}

	// Record the offset, then skip to the current index so the track
	// restarts and consumes it.
	c.playback.seekOffset = offset
	c.playback.currentIndex = max(0, c.playback.currentIndex-1)
	c.playback.cancelTrack()
}

// Stop requests playback to stop. The loop exits before attempting any
// further tracks. No-op unless playing.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.playback == nil {
		return
	}

	c.playback.stopRequested = true
	if c.playback.cancelTrack != nil {
		c.playback.cancelTrack()
	}
}
