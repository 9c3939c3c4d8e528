package space

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lediona/nmslib/object"
)

func TestOpenReadMissingFile(t *testing.T) {
	s, err := NewWordEmbed[float32](EmbedDistL2)
	require.NoError(t, err)

	_, err = s.OpenReadFileHeader(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.txt")
}

func TestReadStateCloseIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vecs.txt")
	require.NoError(t, os.WriteFile(path, []byte("a 1 2\n"), 0o600))

	rs, err := openRead(path)
	require.NoError(t, err)
	require.NoError(t, rs.Close())
	require.NoError(t, rs.Close())
}

func TestWriteStateCloseIdempotent(t *testing.T) {
	ws, err := openWrite(filepath.Join(t.TempDir(), "out.txt.gz"))
	require.NoError(t, err)
	require.NoError(t, ws.writeLine("a 1 2"))
	require.NoError(t, ws.Close())
	require.NoError(t, ws.Close())
}

func TestReadDatasetMaxObjects(t *testing.T) {
	s, err := NewWordEmbed[float32](EmbedDistL2)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "vecs.txt")
	require.NoError(t, os.WriteFile(path, []byte("a 1 2\nb 3 4\nc 5 6\n"), 0o600))

	objs, externIDs, err := ReadDataset[float32](s, path, 2)
	require.NoError(t, err)
	assert.Len(t, objs, 2)
	assert.Equal(t, []string{"a", "b"}, externIDs)
	assert.Equal(t, int32(0), objs[0].ID)
	assert.Equal(t, int32(1), objs[1].ID)
}

func TestReadDatasetBadRecordAborts(t *testing.T) {
	s, err := NewWordEmbed[float32](EmbedDistL2)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "vecs.txt")
	require.NoError(t, os.WriteFile(path, []byte("a 1 2\nb oops 4\nc 5 6\n"), 0o600))

	// A corrupt record aborts the pass; it is never skipped.
	_, _, err = ReadDataset[float32](s, path, 0)
	var fe *ErrFormat
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 2, fe.Line)
}

func TestWriteDatasetExternIDCountMismatch(t *testing.T) {
	s, err := NewWordEmbed[float32](EmbedDistL2)
	require.NoError(t, err)

	obj := embedObj(t, s, 0, "1 2")
	err = WriteDataset[float32](s, []*object.Object{obj}, []string{"a", "b"}, filepath.Join(t.TempDir(), "out.txt"), 0)
	require.Error(t, err)
}

func TestWriteDatasetMaxObjects(t *testing.T) {
	s, err := NewWordEmbed[float32](EmbedDistL2)
	require.NoError(t, err)

	objs := []*object.Object{
		embedObj(t, s, 0, "1 2"),
		embedObj(t, s, 1, "3 4"),
		embedObj(t, s, 2, "5 6"),
	}
	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, WriteDataset[float32](s, objs, []string{"a", "b", "c"}, path, 2))

	back, externIDs, err := ReadDataset[float32](s, path, 0)
	require.NoError(t, err)
	assert.Len(t, back, 2)
	assert.Equal(t, []string{"a", "b"}, externIDs)
}
