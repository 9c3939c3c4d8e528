// Package nmslib provides the space/object abstraction layer for
// nearest-neighbor search: a pluggable contract that lets arbitrary distance
// functions (metric or non-metric) be combined with arbitrary indexing and
// query algorithms without either side knowing the other's concrete type.
//
// # Spaces
//
// A space binds an object encoding to a distance function. Two concrete
// families ship with the library:
//
//	// Dense word embeddings, L2 or cosine distance.
//	s, _ := space.NewWordEmbed[float32](space.EmbedDistL2)
//
//	// Sparse (id, value) vectors with a sorted-unique id invariant.
//	sp, _ := space.NewSparseVector[float64](space.SparseDistCosine)
//
// # Phase discipline
//
// Every space starts in the index phase. Index algorithms compute distances
// through IndexTimeDistance; once querying begins, a QuerySession is the only
// remaining path to distance computation:
//
//	d, err := s.IndexTimeDistance(a, b) // index phase only
//	qs := space.NewQuerySession[float32](s)
//	d = qs.Distance(q, b)               // query phase
//
// Clone always yields an independent space back in the index phase, which is
// the intended way to hand each concurrent worker its own instance.
//
// # Datasets
//
// Dataset files are line-oriented text, optionally gzip- or lz4-compressed
// (selected by the .gz/.lz4 suffix). The dataset package drives the read and
// write loops, sequentially or with per-worker clones:
//
//	objs, ids, err := dataset.Load(s, "glove.txt.gz")
//	objs, ids, err = dataset.LoadParallel(ctx, s, "glove.txt.gz",
//	    dataset.WithWorkers(8))
package nmslib
