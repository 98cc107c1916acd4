// Package audio provides a local speaker implementation of the session's
// audio transport.
package audio

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
	zlog "github.com/rs/zerolog/log"

	"github.com/anoadragon453/busty-sub000/internal/infra/media"
)

// Player plays audio files through the system speaker using beep.
// Play blocks until the track ends, Stop is called, or the context is
// cancelled, satisfying the bust.AudioPlayer contract.
type Player struct {
	mu sync.Mutex

	sampleRate  beep.SampleRate
	initialized bool
	stopCurrent func() // Stops the in-flight Play (nil when idle)
}

// NewPlayer creates a player outputting at the standard 44.1kHz rate.
// The speaker device is initialized lazily on first playback.
func NewPlayer() *Player {
	return &Player{sampleRate: beep.SampleRate(44100)}
}

func (p *Player) initSpeaker() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(p.sampleRate, p.sampleRate.N(time.Second/10)); err != nil {
		return errors.Wrap(err, "failed to initialize speaker")
	}
	p.initialized = true
	return nil
}

// Play plays the file at path starting offset into the track and blocks
// until playback completes or is interrupted. An offset at or beyond the
// track's length restarts it from the beginning.
func (p *Player) Play(ctx context.Context, path string, offset time.Duration) error {
	streamer, format, err := media.Open(path)
	if err != nil {
		return err
	}
	defer streamer.Close()

	if offset > 0 {
		total := format.SampleRate.D(streamer.Len())
		if offset >= total {
			zlog.Warn().
				Dur("offset", offset).
				Dur("duration", total).
				Msg("audio: seek offset beyond track length, starting from beginning")
			offset = 0
		} else if err := streamer.Seek(format.SampleRate.N(offset)); err != nil {
			return errors.Wrap(err, "failed to seek")
		}
	}

	if err := p.initSpeaker(); err != nil {
		return err
	}

	done := make(chan struct{})
	var once sync.Once
	finish := func() { once.Do(func() { close(done) }) }

	p.mu.Lock()
	p.stopCurrent = func() {
		speaker.Clear()
		finish()
	}
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.stopCurrent = nil
		p.mu.Unlock()
	}()

	resampled := beep.Resample(4, format.SampleRate, p.sampleRate, streamer)
	speaker.Play(beep.Seq(resampled, beep.Callback(finish)))

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		speaker.Clear()
		return ctx.Err()
	}
}

// Stop stops current playback, causing any pending Play to return.
// Safe to call when nothing is playing.
func (p *Player) Stop() {
	p.mu.Lock()
	stop := p.stopCurrent
	p.mu.Unlock()

	if stop != nil {
		stop()
	}
}
