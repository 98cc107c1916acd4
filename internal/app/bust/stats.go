package bust

import (
	"sort"
	"time"

	"github.com/anoadragon453/busty-sub000/internal/domain/track"
)

// SubmitterStat holds the aggregate playback time for one submitter.
type SubmitterStat struct {
	SubmitterID   string
	SubmitterName string
	TotalDuration time.Duration
}

// Stats is a read-only snapshot derived from a session's track list.
type Stats struct {
	NumTracks     int
	TotalDuration time.Duration   // Sum of known track durations
	TotalBustTime time.Duration   // TotalDuration plus cooldown per track
	Submitters    []SubmitterStat // Sorted by duration descending, ties in encounter order
	HasErrors     bool            // True if any track duration was unknown
}

// computeStats derives statistics from a track list and the per-track cooldown.
// Unknown durations count as zero and set HasErrors.
func computeStats(tracks []track.Track, cooldown time.Duration) Stats {
	stats := Stats{NumTracks: len(tracks)}

	durations := make(map[string]time.Duration)
	names := make(map[string]string)
	order := make([]string, 0, len(tracks))

	for _, t := range tracks {
		var d time.Duration
		if t.Duration == nil {
			stats.HasErrors = true
		} else {
			d = *t.Duration
		}
		stats.TotalDuration += d

		if _, seen := durations[t.SubmitterID]; !seen {
			order = append(order, t.SubmitterID)
			names[t.SubmitterID] = t.SubmitterName
		}
		durations[t.SubmitterID] += d
	}

	stats.TotalBustTime = stats.TotalDuration + cooldown*time.Duration(len(tracks))

	stats.Submitters = make([]SubmitterStat, 0, len(order))
	for _, id := range order {
		stats.Submitters = append(stats.Submitters, SubmitterStat{
			SubmitterID:   id,
			SubmitterName: names[id],
			TotalDuration: durations[id],
		})
	}
	sort.SliceStable(stats.Submitters, func(i, j int) bool {
		return stats.Submitters[i].TotalDuration > stats.Submitters[j].TotalDuration
	})

	return stats
}
