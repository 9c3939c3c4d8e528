package space

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lediona/nmslib/object"
)

func embedObj(t *testing.T, s *WordEmbedSpace[float32], id int32, vec string) *object.Object {
	t.Helper()
	obj, err := s.CreateObjFromStr(id, object.Unlabeled, vec, nil)
	require.NoError(t, err)
	return obj
}

func TestDistTypeName(t *testing.T) {
	assert.Equal(t, "float", DistTypeName[float32]())
	assert.Equal(t, "double", DistTypeName[float64]())
	assert.Equal(t, "int", DistTypeName[int32]())
}

func TestPhaseInvariant(t *testing.T) {
	s, err := NewWordEmbed[float32](EmbedDistL2)
	require.NoError(t, err)

	a := embedObj(t, s, 0, "1 0 0")
	b := embedObj(t, s, 1, "0 1 0")

	// Index phase: distance computes.
	_, err = s.IndexTimeDistance(a, b)
	require.NoError(t, err)

	// Query phase: public entry point always fails.
	qs := NewQuerySession[float32](s)
	_, err = s.IndexTimeDistance(a, b)
	var pv *ErrPhaseViolation
	require.ErrorAs(t, err, &pv)
	assert.Equal(t, "IndexTimeDistance", pv.Op)

	// The session itself still computes.
	assert.InDelta(t, 1.4142135, qs.Distance(a, b), 1e-5)

	// Closing the session restores the index phase.
	qs.Close()
	_, err = s.IndexTimeDistance(a, b)
	require.NoError(t, err)
}

func TestCloneInvariant(t *testing.T) {
	t.Run("WordEmbed", func(t *testing.T) {
		s, err := NewWordEmbed[float32](EmbedDistCosine)
		require.NoError(t, err)

		a := embedObj(t, s, 0, "1 2 3")
		b := embedObj(t, s, 1, "3 2 1")

		want, err := s.IndexTimeDistance(a, b)
		require.NoError(t, err)

		// Clone taken while the source sits in the query phase must itself
		// be in the index phase.
		NewQuerySession[float32](s)
		clone := s.Clone()
		got, err := clone.IndexTimeDistance(a, b)
		require.NoError(t, err)
		assert.InDelta(t, want, got, 1e-6)

		// The source stays in the query phase.
		_, err = s.IndexTimeDistance(a, b)
		var pv *ErrPhaseViolation
		assert.ErrorAs(t, err, &pv)
	})

	t.Run("Sparse", func(t *testing.T) {
		s, err := NewSparseVector[float64](SparseDistL2, WithStorage(StoragePacked))
		require.NoError(t, err)

		a, err := s.CreateObjFromStr(0, object.Unlabeled, "1 0.5 7 0.25", nil)
		require.NoError(t, err)
		b, err := s.CreateObjFromStr(1, object.Unlabeled, "1 0.25 9 1.0", nil)
		require.NoError(t, err)

		want, err := s.IndexTimeDistance(a, b)
		require.NoError(t, err)

		NewQuerySession[float64](s)
		clone := s.Clone()
		got, err := clone.IndexTimeDistance(a, b)
		require.NoError(t, err)
		assert.InDelta(t, want, got, 1e-12)
		assert.Equal(t, s.String(), clone.String())
	})
}

func TestQuerySessionIndependentClones(t *testing.T) {
	s, err := NewWordEmbed[float32](EmbedDistL2)
	require.NoError(t, err)
	a := embedObj(t, s, 0, "1 0")
	b := embedObj(t, s, 1, "0 1")

	// Two workers, one clone each: flipping one phase flag must not affect
	// the other instance.
	w1 := s.Clone()
	w2 := s.Clone()
	NewQuerySession[float32](w1)

	_, err = w1.IndexTimeDistance(a, b)
	var pv *ErrPhaseViolation
	require.ErrorAs(t, err, &pv)

	_, err = w2.IndexTimeDistance(a, b)
	require.NoError(t, err)
}
