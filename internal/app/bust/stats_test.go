package bust

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anoadragon453/busty-sub000/internal/domain/track"
)

func TestStats_Totals(t *testing.T) {
	tracks := []track.Track{
		makeTrack("1.mp3", "111", "Alice", 100*time.Second),
		makeTrack("2.mp3", "111", "Alice", 200*time.Second),
		makeTrack("3.mp3", "111", "Alice", 150*time.Second),
	}

	c := New(Config{Cooldown: 0}, tracks, newMockOutput(), nil)
	stats := c.Stats()

	assert.Equal(t, 3, stats.NumTracks)
	assert.Equal(t, 450*time.Second, stats.TotalDuration)
	// With zero cooldown total bust time equals total track time.
	assert.Equal(t, 450*time.Second, stats.TotalBustTime)
	assert.False(t, stats.HasErrors)

	require.Len(t, stats.Submitters, 1)
	assert.Equal(t, "111", stats.Submitters[0].SubmitterID)
	assert.Equal(t, 450*time.Second, stats.Submitters[0].TotalDuration)
}

func TestStats_CooldownAddsToBustTime(t *testing.T) {
	tracks := []track.Track{
		makeTrack("1.mp3", "111", "Alice", 100*time.Second),
		makeTrack("2.mp3", "222", "Bob", 200*time.Second),
	}

	c := New(Config{Cooldown: 10 * time.Second}, tracks, newMockOutput(), nil)
	stats := c.Stats()

	assert.Equal(t, 300*time.Second, stats.TotalDuration)
	assert.Equal(t, 320*time.Second, stats.TotalBustTime)
}

func TestStats_GroupsBySubmitter(t *testing.T) {
	tracks := []track.Track{
		makeTrack("1.mp3", "111", "Alice", 100*time.Second),
		makeTrack("2.mp3", "222", "Bob", 200*time.Second),
		makeTrack("3.mp3", "111", "Alice", 150*time.Second),
		makeTrack("4.mp3", "222", "Bob", 50*time.Second),
	}

	c := New(Config{}, tracks, newMockOutput(), nil)
	stats := c.Stats()

	require.Len(t, stats.Submitters, 2)

	bySubmitter := make(map[string]SubmitterStat)
	for _, s := range stats.Submitters {
		bySubmitter[s.SubmitterID] = s
	}
	assert.Equal(t, 250*time.Second, bySubmitter["111"].TotalDuration)
	assert.Equal(t, 250*time.Second, bySubmitter["222"].TotalDuration)
}

func TestStats_SortedDescendingWithStableTies(t *testing.T) {
	tracks := []track.Track{
		makeTrack("1.mp3", "111", "Alice", 100*time.Second),
		makeTrack("2.mp3", "222", "Bob", 300*time.Second),
		makeTrack("3.mp3", "333", "Charlie", 100*time.Second),
	}

	c := New(Config{}, tracks, newMockOutput(), nil)
	stats := c.Stats()

	require.Len(t, stats.Submitters, 3)
	assert.Equal(t, "222", stats.Submitters[0].SubmitterID)
	// Alice and Charlie tie; Alice was encountered first.
	assert.Equal(t, "111", stats.Submitters[1].SubmitterID)
	assert.Equal(t, "333", stats.Submitters[2].SubmitterID)
}

func TestStats_UnknownDurationsFlagged(t *testing.T) {
	broken := track.Track{
		LocalPath:          "/fake/broken.mp3",
		AttachmentFilename: "broken.mp3",
		SubmitterID:        "111",
		SubmitterName:      "Alice",
	}
	tracks := []track.Track{
		makeTrack("1.mp3", "111", "Alice", 100*time.Second),
		broken,
	}

	c := New(Config{}, tracks, newMockOutput(), nil)
	stats := c.Stats()

	assert.True(t, stats.HasErrors)
	assert.Equal(t, 100*time.Second, stats.TotalDuration)

	// Submitter totals still add up to the overall total.
	var sum time.Duration
	for _, s := range stats.Submitters {
		sum += s.TotalDuration
	}
	assert.Equal(t, stats.TotalDuration, sum)
}

func TestStats_EmptyTrackList(t *testing.T) {
	c := New(Config{Cooldown: 10 * time.Second}, nil, newMockOutput(), nil)
	stats := c.Stats()

	assert.Equal(t, 0, stats.NumTracks)
	assert.Equal(t, time.Duration(0), stats.TotalBustTime)
	assert.Empty(t, stats.Submitters)
	assert.False(t, stats.HasErrors)
}
