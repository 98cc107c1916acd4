// Package output renders session notifications to a terminal.
package output

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/anoadragon453/busty-sub000/internal/domain/track"
)

// Console implements the session output boundary on an io.Writer.
// The display identity is held in memory; there is no external profile
// to rename, but sessions still capture and restore it the same way.
type Console struct {
	mu sync.Mutex

	w        io.Writer
	identity string
}

// NewConsole creates a console output with the given starting identity.
func NewConsole(w io.Writer, identity string) *Console {
	return &Console{w: w, identity: identity}
}

func (c *Console) printf(format string, args ...any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := fmt.Fprintf(c.w, format, args...)
	return errors.Wrap(err, "failed to write output")
}

func (c *Console) SendSessionStarted(_ context.Context, totalTracks, startIndex int) error {
	if startIndex > 0 {
		return c.printf("Let's get BUSTY. (resuming at track %d of %d)\n", startIndex+1, totalTracks)
	}
	return c.printf("Let's get BUSTY. (%d tracks)\n", totalTracks)
}

func (c *Console) SendCooldownNotice(_ context.Context) error {
	return c.printf("Chill for a sec, the next track is coming up...\n")
}

func (c *Console) DisplayNowPlaying(_ context.Context, t track.Track, coverArt []byte) error {
	line := fmt.Sprintf("Now playing: %s (submitted by %s)", t.FormattedTitle(), t.SubmitterName)
	if len(coverArt) > 0 {
		line += fmt.Sprintf(" [cover art: %d bytes]", len(coverArt))
	}
	return c.printf("%s\n", line)
}

func (c *Console) UnpinNowPlaying(context.Context) error {
	return nil
}

func (c *Console) SendSessionFinished(_ context.Context, totalDuration time.Duration, completedNaturally bool) error {
	if !completedNaturally {
		return c.printf("Bust stopped.\n")
	}
	return c.printf("That's it everyone, thanks for listening! Total length of all submissions: %s\n",
		totalDuration.Round(time.Second))
}

func (c *Console) Identity(context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.identity, nil
}

func (c *Console) SetIdentity(_ context.Context, identity string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.identity = identity
	return nil
}
