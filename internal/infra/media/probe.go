// Package media provides local audio file probing: decoding, duration
// and tag extraction.
package media

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dhowden/tag"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
	zlog "github.com/rs/zerolog/log"
)

var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Metadata holds what could be extracted from an audio file. Fields are
// zero-valued when extraction fails; probing never errors as a whole.
type Metadata struct {
	Title    string
	Artist   string
	Duration *time.Duration
}

// IsSupported reports whether the file extension is a playable format.
func IsSupported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3", ".wav", ".flac", ".ogg":
		return true
	default:
		return false
	}
}

// Open decodes an audio file into a seekable sample stream.
// The caller owns the returned streamer and must close it.
func Open(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, errors.Wrap(err, "failed to open audio file")
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	case ".ogg":
		streamer, format, err = vorbis.Decode(f)
	default:
		_ = f.Close()
		return nil, beep.Format{}, errors.Wrapf(ErrUnsupportedFormat, "%s", filepath.Ext(path))
	}
	if err != nil {
		_ = f.Close()
		return nil, beep.Format{}, errors.Wrapf(err, "failed to decode %s", filepath.Base(path))
	}
	return streamer, format, nil
}

// Duration returns the playback length of an audio file.
func Duration(path string) (time.Duration, error) {
	streamer, format, err := Open(path)
	if err != nil {
		return 0, err
	}
	defer streamer.Close()

	return format.SampleRate.D(streamer.Len()), nil
}

// Probe extracts tags and duration from an audio file. Failures are
// logged and tolerated; callers get whatever could be read.
func Probe(path string) Metadata {
	var meta Metadata

	if f, err := os.Open(path); err == nil {
		if m, err := tag.ReadFrom(f); err == nil {
			meta.Title = strings.TrimSpace(m.Title())
			meta.Artist = strings.TrimSpace(m.Artist())
		}
		_ = f.Close()
	}

	d, err := Duration(path)
	if err != nil {
		zlog.Warn().Err(err).Str("file", filepath.Base(path)).Msg("media: could not determine duration")
	} else {
		meta.Duration = &d
	}

	return meta
}

// EmbeddedArt returns artwork embedded in the file's tags, or nil if the
// file carries none.
func EmbeddedArt(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open audio file")
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read tags")
	}

	pic := m.Picture()
	if pic == nil || len(pic.Data) == 0 {
		return nil, nil
	}
	return pic.Data, nil
}
