// Package bust provides the playback session state machine for one group.
package bust

import (
	"context"
	"time"
)

// Phase represents the lifecycle phase of a bust session.
type Phase int

const (
	PhaseListed   Phase = iota // Tracks listed, nothing playing yet
	PhasePlaying               // Sequencing loop active
	PhaseFinished              // Terminal; session is inert
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseListed:
		return "listed"
	case PhasePlaying:
		return "playing"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// playbackState exists only while the session is in PhasePlaying.
type playbackState struct {
	currentIndex  int                // 0-based index of the track being played
	cancelTrack   context.CancelFunc // Cancels the in-flight per-track unit (nil between tracks)
	stopRequested bool               // Set by Stop; the loop exits on its next iteration
	seekOffset    time.Duration      // Pending seek offset, consumed by the next track to start
}
