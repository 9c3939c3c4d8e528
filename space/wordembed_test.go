package space

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lediona/nmslib/object"
)

func TestWordEmbedDistance(t *testing.T) {
	t.Run("L2", func(t *testing.T) {
		s, err := NewWordEmbed[float32](EmbedDistL2)
		require.NoError(t, err)

		a := embedObj(t, s, 0, "1 0 0")
		b := embedObj(t, s, 1, "0 1 0")

		d, err := s.IndexTimeDistance(a, b)
		require.NoError(t, err)
		assert.InDelta(t, math.Sqrt2, float64(d), 1e-6)

		d, err = s.IndexTimeDistance(a, a)
		require.NoError(t, err)
		assert.InDelta(t, 0, d, 1e-6)
	})

	t.Run("Cosine", func(t *testing.T) {
		s, err := NewWordEmbed[float32](EmbedDistCosine)
		require.NoError(t, err)

		a := embedObj(t, s, 0, "1 0 0")
		b := embedObj(t, s, 1, "0 1 0")

		// Orthogonal vectors sit at distance 1 under the 1-minus-similarity
		// convention.
		d, err := s.IndexTimeDistance(a, b)
		require.NoError(t, err)
		assert.InDelta(t, 1, d, 1e-6)

		d, err = s.IndexTimeDistance(a, a)
		require.NoError(t, err)
		assert.InDelta(t, 0, d, 1e-6)
	})

	t.Run("Float64", func(t *testing.T) {
		s, err := NewWordEmbed[float64](EmbedDistL2)
		require.NoError(t, err)
		a, err := s.CreateObjFromStr(0, object.Unlabeled, "1 0 0", nil)
		require.NoError(t, err)
		b, err := s.CreateObjFromStr(1, object.Unlabeled, "0 1 0", nil)
		require.NoError(t, err)
		d, err := s.IndexTimeDistance(a, b)
		require.NoError(t, err)
		assert.InDelta(t, math.Sqrt2, d, 1e-12)
	})

	t.Run("DimensionMismatch", func(t *testing.T) {
		s, err := NewWordEmbed[float32](EmbedDistL2)
		require.NoError(t, err)

		a := embedObj(t, s, 0, "1 0 0")
		b := embedObj(t, s, 1, "0 1 0 0")

		_, err = s.IndexTimeDistance(a, b)
		var dm *ErrDimensionMismatch
		require.ErrorAs(t, err, &dm)
		assert.Equal(t, 3, dm.Expected)
		assert.Equal(t, 4, dm.Actual)
	})

	t.Run("UnknownMode", func(t *testing.T) {
		_, err := NewWordEmbed[float32](EmbedDistance(99))
		require.Error(t, err)
	})
}

func TestWordEmbedRoundTrip(t *testing.T) {
	s, err := NewWordEmbed[float32](EmbedDistL2)
	require.NoError(t, err)

	obj := embedObj(t, s, 0, "0.1 -2.5 3.3333333 0")

	str, err := s.CreateStrFromObj(obj, "w1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(str, "w1 "))

	back, err := s.CreateObjFromStr(0, object.Unlabeled, strings.TrimPrefix(str, "w1 "), nil)
	require.NoError(t, err)
	// Shortest-round-trip formatting makes this byte-identical, not merely
	// approximately equal.
	assert.Equal(t, obj.Data, back.Data)
	assert.True(t, s.ApproxEqual(obj, back))
}

func TestWordEmbedCreateStrFromObj(t *testing.T) {
	s, err := NewWordEmbed[float32](EmbedDistL2)
	require.NoError(t, err)
	obj := embedObj(t, s, 0, "1 2")

	t.Run("WhitespaceExternID", func(t *testing.T) {
		_, err := s.CreateStrFromObj(obj, "bad id")
		var fe *ErrFormat
		require.ErrorAs(t, err, &fe)
	})

	t.Run("EmptyExternID", func(t *testing.T) {
		str, err := s.CreateStrFromObj(obj, "")
		require.NoError(t, err)
		assert.Equal(t, "1 2", str)
	})
}

func TestWordEmbedCreateObjFromStr(t *testing.T) {
	s, err := NewWordEmbed[float32](EmbedDistL2)
	require.NoError(t, err)

	t.Run("NonNumeric", func(t *testing.T) {
		_, err := s.CreateObjFromStr(0, object.Unlabeled, "1 two 3", nil)
		var fe *ErrFormat
		require.ErrorAs(t, err, &fe)
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := s.CreateObjFromStr(0, object.Unlabeled, "   ", nil)
		var fe *ErrFormat
		require.ErrorAs(t, err, &fe)
	})
}

func TestWordEmbedDataset(t *testing.T) {
	lines := []string{
		"king 1 0 0",
		"queen 0 1 0",
		"jack 0 0 1",
	}

	for _, name := range []string{"vecs.txt", "vecs.txt.gz", "vecs.txt.lz4"} {
		t.Run(name, func(t *testing.T) {
			s, err := NewWordEmbed[float32](EmbedDistL2)
			require.NoError(t, err)

			// Write through the space so compressed outputs exercise the
			// same code path the reader does.
			path := filepath.Join(t.TempDir(), name)
			var objs []*object.Object
			for i, line := range lines {
				_, vec, _ := strings.Cut(line, " ")
				objs = append(objs, embedObj(t, s, int32(i), vec))
			}
			require.NoError(t, WriteDataset[float32](s, objs, []string{"king", "queen", "jack"}, path, 0))

			got, externIDs, err := ReadDataset[float32](s, path, 0)
			require.NoError(t, err)
			require.Len(t, got, 3)
			assert.Equal(t, []string{"king", "queen", "jack"}, externIDs)
			for i := range objs {
				assert.True(t, s.ApproxEqual(objs[i], got[i]), "object %d", i)
			}
		})
	}
}

func TestWordEmbedReadNextObjStr(t *testing.T) {
	s, err := NewWordEmbed[float32](EmbedDistL2)
	require.NoError(t, err)

	write := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "vecs.txt")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		return path
	}

	t.Run("EOF", func(t *testing.T) {
		rs, err := s.OpenReadFileHeader(write(t, "a 1 2\n"))
		require.NoError(t, err)
		defer rs.Close()

		_, _, externID, ok, err := s.ReadNextObjStr(rs)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "a", externID)
		assert.Equal(t, 1, rs.LineNum())

		// Reading past the last record reports no-more-records without an
		// error and leaves the counter alone, repeatedly.
		for i := 0; i < 2; i++ {
			_, _, _, ok, err = s.ReadNextObjStr(rs)
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Equal(t, 1, rs.LineNum())
		}
	})

	t.Run("NoWhitespace", func(t *testing.T) {
		rs, err := s.OpenReadFileHeader(write(t, "justoneword\n"))
		require.NoError(t, err)
		defer rs.Close()

		_, _, _, _, err = s.ReadNextObjStr(rs)
		var fe *ErrFormat
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, 1, fe.Line)
	})

	t.Run("DimDiscovery", func(t *testing.T) {
		rs, err := s.OpenReadFileHeader(write(t, "a 1 2 3\nb 1 2\n"))
		require.NoError(t, err)
		defer rs.Close()

		raw, label, _, ok, err := s.ReadNextObjStr(rs)
		require.NoError(t, err)
		require.True(t, ok)
		_, err = s.CreateObjFromStr(0, label, raw, rs)
		require.NoError(t, err)
		assert.Equal(t, 3, rs.Dim())

		raw, label, _, ok, err = s.ReadNextObjStr(rs)
		require.NoError(t, err)
		require.True(t, ok)
		_, err = s.CreateObjFromStr(1, label, raw, rs)
		var dm *ErrDimensionMismatch
		require.ErrorAs(t, err, &dm)
		assert.Equal(t, 3, dm.Expected)
		assert.Equal(t, 2, dm.Actual)
	})
}

func TestWordEmbedIntrospection(t *testing.T) {
	s, err := NewWordEmbed[float32](EmbedDistL2)
	require.NoError(t, err)
	obj := embedObj(t, s, 0, "1 2 3 4")

	assert.Equal(t, 4, s.GetElemQty(obj))

	dst := make([]float32, 2)
	require.NoError(t, s.CreateDenseVectFromObj(obj, dst))
	assert.Equal(t, []float32{1, 2}, dst)

	tooBig := make([]float32, 5)
	var dm *ErrDimensionMismatch
	require.ErrorAs(t, s.CreateDenseVectFromObj(obj, tooBig), &dm)
}

func TestWordEmbedString(t *testing.T) {
	s, err := NewWordEmbed[float32](EmbedDistL2)
	require.NoError(t, err)
	assert.Equal(t, "word embeddings (float), distance type: l2", s.String())

	c, err := NewWordEmbed[float64](EmbedDistCosine)
	require.NoError(t, err)
	assert.Equal(t, "word embeddings (double), distance type: cosine", c.String())
}
