// Package track provides the Track domain entity.
package track

import (
	"path/filepath"
	"strings"
	"time"
)

// Track represents a single submitted media item.
// Immutable after construction; a bust session owns its track list read-only.
type Track struct {
	LocalPath          string         // Path to the downloaded file on disk
	AttachmentFilename string         // Filename as originally submitted
	SubmitterID        string         // Submitter identifier
	SubmitterName      string         // Submitter display name
	MessageContent     string         // Free-text message accompanying the submission ("" if none)
	JumpURL            string         // Reference URL back to the original submission
	AttachmentURL      string         // URL of the submitted attachment
	Artist             string         // Artist tag ("" if absent)
	Title              string         // Title tag ("" if absent)
	Duration           *time.Duration // Track length (nil if it could not be determined)
}

// FormattedTitle formats the track as "Artist - Title" using tag data,
// falling back to the submitter name for the artist and a beautified
// filename for the title.
func (t Track) FormattedTitle() string {
	title := t.Title
	if title == "" {
		title = BeautifyFilename(t.AttachmentFilename)
	}

	artist := t.Artist
	if artist == "" {
		artist = t.SubmitterName
	}
	if artist == "" {
		return title
	}
	return artist + " - " + title
}

// BeautifyFilename turns an attachment filename into a readable title.
func BeautifyFilename(filename string) string {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return "Untitled"
	}
	return name
}
