// Package library scans a local directory tree for submitted tracks.
package library

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/anoadragon453/busty-sub000/internal/domain/track"
	"github.com/anoadragon453/busty-sub000/internal/infra/media"
)

// Files dropped directly into the media dir root have no submitter
// directory to attribute them to.
const anonymousSubmitter = "anonymous"

// Scan walks the media directory and builds the track list for a bust.
// Layout: mediaDir/<submitter>/<file> attributes the file to the
// submitter named by the first-level directory. Unsupported files are
// skipped. The result is ordered by path.
func Scan(mediaDir string) ([]track.Track, error) {
	root, err := filepath.Abs(mediaDir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve media dir")
	}

	var tracks []track.Track
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !media.IsSupported(path) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		submitter := anonymousSubmitter
		if parts := strings.Split(rel, string(filepath.Separator)); len(parts) > 1 {
			submitter = parts[0]
		}

		meta := media.Probe(path)
		tracks = append(tracks, track.Track{
			LocalPath:          path,
			AttachmentFilename: filepath.Base(path),
			AttachmentURL:      "file://" + path,
			JumpURL:            "file://" + path,
			SubmitterID:        submitter,
			SubmitterName:      submitter,
			Artist:             meta.Artist,
			Title:              meta.Title,
			Duration:           meta.Duration,
		})
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan media dir")
	}

	sort.Slice(tracks, func(i, j int) bool {
		return tracks[i].LocalPath < tracks[j].LocalPath
	})

	zlog.Info().Int("tracks", len(tracks)).Str("dir", root).Msg("library: scan complete")
	return tracks, nil
}
