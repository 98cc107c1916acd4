package output

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anoadragon453/busty-sub000/internal/domain/track"
)

func TestConsole_SessionMessages(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, "Busty")
	ctx := context.Background()

	require.NoError(t, c.SendSessionStarted(ctx, 3, 0))
	require.NoError(t, c.SendCooldownNotice(ctx))
	require.NoError(t, c.DisplayNowPlaying(ctx, track.Track{
		AttachmentFilename: "my_song.mp3",
		SubmitterName:      "alice",
	}, nil))
	require.NoError(t, c.SendSessionFinished(ctx, 530*time.Second, true))

	out := buf.String()
	assert.Contains(t, out, "Let's get BUSTY. (3 tracks)")
	assert.Contains(t, out, "next track is coming up")
	assert.Contains(t, out, "Now playing: alice - my song")
	assert.Contains(t, out, "Total length of all submissions: 8m50s")
}

func TestConsole_ResumedSessionMentionsStartIndex(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, "Busty")

	require.NoError(t, c.SendSessionStarted(context.Background(), 5, 2))
	assert.Contains(t, buf.String(), "resuming at track 3 of 5")
}

func TestConsole_StoppedSession(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, "Busty")

	require.NoError(t, c.SendSessionFinished(context.Background(), time.Minute, false))
	assert.Contains(t, buf.String(), "Bust stopped.")
	assert.NotContains(t, buf.String(), "Total length")
}

func TestConsole_CoverArtNoted(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, "Busty")

	require.NoError(t, c.DisplayNowPlaying(context.Background(), track.Track{
		AttachmentFilename: "song.mp3",
		SubmitterName:      "bob",
	}, []byte{1, 2, 3}))
	assert.Contains(t, buf.String(), "[cover art: 3 bytes]")
}

func TestConsole_Identity(t *testing.T) {
	c := NewConsole(&bytes.Buffer{}, "Busty")
	ctx := context.Background()

	id, err := c.Identity(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Busty", id)

	require.NoError(t, c.SetIdentity(ctx, "bc!Busty"))
	id, err = c.Identity(ctx)
	require.NoError(t, err)
	assert.Equal(t, "bc!Busty", id)
}
