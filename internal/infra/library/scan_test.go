package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root string, rel string) {
	t.Helper()

	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("not really audio"), 0644))
}

func TestScan_AttributesSubmittersByDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "alice/track1.mp3")
	writeFile(t, root, "alice/track2.wav")
	writeFile(t, root, "bob/song.flac")

	tracks, err := Scan(root)
	require.NoError(t, err)
	require.Len(t, tracks, 3)

	assert.Equal(t, "alice", tracks[0].SubmitterID)
	assert.Equal(t, "track1.mp3", tracks[0].AttachmentFilename)
	assert.Equal(t, "alice", tracks[1].SubmitterID)
	assert.Equal(t, "bob", tracks[2].SubmitterID)
}

func TestScan_RootFilesAreAnonymous(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "loose.mp3")

	tracks, err := Scan(root)
	require.NoError(t, err)
	require.Len(t, tracks, 1)

	assert.Equal(t, "anonymous", tracks[0].SubmitterID)
	assert.Equal(t, "anonymous", tracks[0].SubmitterName)
}

func TestScan_SkipsUnsupportedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "alice/track.mp3")
	writeFile(t, root, "alice/notes.txt")
	writeFile(t, root, "alice/cover.png")

	tracks, err := Scan(root)
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Equal(t, "track.mp3", tracks[0].AttachmentFilename)
}

func TestScan_OrderedByPath(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "zoe/a.mp3")
	writeFile(t, root, "alice/z.mp3")
	writeFile(t, root, "alice/a.mp3")

	tracks, err := Scan(root)
	require.NoError(t, err)
	require.Len(t, tracks, 3)

	assert.Equal(t, "alice", tracks[0].SubmitterID)
	assert.Equal(t, "a.mp3", tracks[0].AttachmentFilename)
	assert.Equal(t, "z.mp3", tracks[1].AttachmentFilename)
	assert.Equal(t, "zoe", tracks[2].SubmitterID)
}

func TestScan_MissingDir(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestScan_DurationUnknownForUndecodableFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "alice/broken.mp3")

	tracks, err := Scan(root)
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Nil(t, tracks[0].Duration)
}
