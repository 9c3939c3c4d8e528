package space

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/lediona/nmslib"
	"github.com/lediona/nmslib/internal/simd"
	"github.com/lediona/nmslib/object"
)

// EmbedDistance selects the distance mode of a word-embedding space. The
// mode is fixed at construction and carried by every clone.
type EmbedDistance int

const (
	// EmbedDistL2 is the Euclidean norm of the element-wise difference.
	EmbedDistL2 EmbedDistance = iota
	// EmbedDistCosine is 1 minus the cosine similarity.
	EmbedDistCosine
)

func (d EmbedDistance) String() string {
	switch d {
	case EmbedDistL2:
		return "l2"
	case EmbedDistCosine:
		return "cosine"
	}
	panic(fmt.Sprintf("bug: invalid embed distance code: %d", int(d)))
}

// WordEmbedSpace is a dense vector space over word embeddings. Records are
// lines of the form "externId v1 v2 ... vn"; all records of one dataset must
// share a dimensionality.
type WordEmbedSpace[F Float] struct {
	spaceBase
	dist EmbedDistance
}

// NewWordEmbed creates a word-embedding space with the given distance mode.
func NewWordEmbed[F Float](dist EmbedDistance) (*WordEmbedSpace[F], error) {
	if dist != EmbedDistL2 && dist != EmbedDistCosine {
		return nil, fmt.Errorf("unknown embed distance code: %d", int(dist))
	}
	return &WordEmbedSpace[F]{
		spaceBase: newSpaceBase(),
		dist:      dist,
	}, nil
}

// String implements fmt.Stringer.
func (s *WordEmbedSpace[F]) String() string {
	return fmt.Sprintf("word embeddings (%s), distance type: %s", DistTypeName[F](), s.dist)
}

// Describe logs the space description.
func (s *WordEmbedSpace[F]) Describe(logger *nmslib.Logger) {
	logger.Info("space", "description", s.String())
}

// Clone returns an independent copy carrying the same distance mode, reset
// to the index phase.
func (s *WordEmbedSpace[F]) Clone() Space[F] {
	return &WordEmbedSpace[F]{
		spaceBase: newSpaceBase(),
		dist:      s.dist,
	}
}

// IndexTimeDistance computes the distance between two embeddings. It fails
// with *ErrPhaseViolation outside the index phase and with
// *ErrDimensionMismatch for unequal element counts.
func (s *WordEmbedSpace[F]) IndexTimeDistance(a, b *object.Object) (F, error) {
	if err := s.checkIndexPhase("IndexTimeDistance"); err != nil {
		return 0, err
	}
	na, nb := s.GetElemQty(a), s.GetElemQty(b)
	if na != nb {
		return 0, &ErrDimensionMismatch{Expected: na, Actual: nb}
	}
	if na == 0 {
		return 0, ErrEmptyVector
	}
	return s.hiddenDistance(a, b), nil
}

func (s *WordEmbedSpace[F]) hiddenDistance(a, b *object.Object) F {
	x := denseFromBytes[F](a.Data)
	y := denseFromBytes[F](b.Data)
	if len(x) == 0 || len(x) != len(y) {
		panic(fmt.Sprintf("bug: mismatched embedding operands (%d vs %d elements)", len(x), len(y)))
	}
	switch s.dist {
	case EmbedDistL2:
		return simd.L2Distance(x, y)
	case EmbedDistCosine:
		return 1 - simd.CosineSimilarity(x, y)
	}
	panic(fmt.Sprintf("bug: invalid embed distance code: %d", int(s.dist)))
}

// CreateObjFromStr parses the vector part of a record. The extern id must
// already be stripped off by ReadNextObjStr.
func (s *WordEmbedSpace[F]) CreateObjFromStr(id, label int32, str string, rs *ReadState) (*object.Object, error) {
	vec, err := parseDenseVec[F](str)
	if err != nil {
		return nil, &ErrFormat{Line: lineOf(rs), Text: str, Reason: "bad embedding vector", cause: err}
	}
	if len(vec) == 0 {
		return nil, &ErrFormat{Line: lineOf(rs), Text: str, Reason: "empty embedding vector"}
	}
	if rs != nil {
		if derr := rs.checkDim(len(vec)); derr != nil {
			return nil, fmt.Errorf("line %d: %w", rs.LineNum(), derr)
		}
	}
	return object.New(id, label, denseToBytes(vec)), nil
}

// CreateStrFromObj serializes an embedding. A non-empty externID is
// prepended with a single space; an externID containing whitespace is a
// format error.
func (s *WordEmbedSpace[F]) CreateStrFromObj(obj *object.Object, externID string) (string, error) {
	if strings.IndexFunc(externID, unicode.IsSpace) >= 0 {
		return "", &ErrFormat{Text: externID, Reason: "extern id must not contain whitespace"}
	}
	res := denseStrFromVec(denseFromBytes[F](obj.Data))
	if externID != "" {
		res = externID + " " + res
	}
	return res, nil
}

// OpenReadFileHeader opens the dataset; the format has no header.
func (s *WordEmbedSpace[F]) OpenReadFileHeader(path string) (*ReadState, error) {
	return openRead(path)
}

// OpenWriteFileHeader opens the output; the format has no header.
func (s *WordEmbedSpace[F]) OpenWriteFileHeader(_ []*object.Object, path string) (*WriteState, error) {
	return openWrite(path)
}

// ReadNextObjStr reads a line and splits off the extern id at the first
// whitespace. A line with no whitespace at all is a format error.
func (s *WordEmbedSpace[F]) ReadNextObjStr(rs *ReadState) (string, int32, string, bool, error) {
	line, ok, err := rs.nextLine()
	if err != nil || !ok {
		return "", object.Unlabeled, "", false, err
	}
	pos := strings.IndexFunc(line, unicode.IsSpace)
	if pos < 0 {
		return "", object.Unlabeled, "", false,
			&ErrFormat{Line: rs.LineNum(), Text: line, Reason: "no whitespace between extern id and vector"}
	}
	return line[pos+1:], object.Unlabeled, line[:pos], true, nil
}

// WriteNextObj writes one serialized record and a newline.
func (s *WordEmbedSpace[F]) WriteNextObj(obj *object.Object, externID string, ws *WriteState) error {
	str, err := s.CreateStrFromObj(obj, externID)
	if err != nil {
		return err
	}
	return ws.writeLine(str)
}

// ApproxEqual compares two embeddings element by element with floating
// tolerance. Testing/verification only.
func (s *WordEmbedSpace[F]) ApproxEqual(a, b *object.Object) bool {
	x := denseFromBytes[F](a.Data)
	y := denseFromBytes[F](b.Data)
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if !approxEqualNum(x[i], y[i]) {
			return false
		}
	}
	return true
}

// GetElemQty returns the embedding's element count.
func (s *WordEmbedSpace[F]) GetElemQty(obj *object.Object) int {
	return obj.DataLength() / distValueSize[F]()
}

// CreateDenseVectFromObj copies the first len(dst) elements into dst. It
// fails when len(dst) exceeds the element count.
func (s *WordEmbedSpace[F]) CreateDenseVectFromObj(obj *object.Object, dst []F) error {
	vec := denseFromBytes[F](obj.Data)
	if len(dst) > len(vec) {
		return &ErrDimensionMismatch{Expected: len(vec), Actual: len(dst)}
	}
	copy(dst, vec[:len(dst)])
	return nil
}

func lineOf(rs *ReadState) int {
	if rs == nil {
		return 0
	}
	return rs.LineNum()
}
