package space

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/lediona/nmslib"
	"github.com/lediona/nmslib/internal/simd"
	"github.com/lediona/nmslib/object"
)

// Elem is one sparse vector element. A sparse vector is an ordered sequence
// of elements with strictly increasing ids.
type Elem[F Float] struct {
	ID  uint32
	Val F
}

// SparseDistance selects the distance mode of a sparse vector space.
type SparseDistance int

const (
	// SparseDistL2 is the Euclidean norm of the difference over the union
	// of ids.
	SparseDistL2 SparseDistance = iota
	// SparseDistCosine is 1 minus the cosine similarity over the union of
	// ids.
	SparseDistCosine
)

func (d SparseDistance) String() string {
	switch d {
	case SparseDistL2:
		return "l2"
	case SparseDistCosine:
		return "cosine"
	}
	panic(fmt.Sprintf("bug: invalid sparse distance code: %d", int(d)))
}

// SparseStorage selects the payload layout of a sparse vector space. The two
// layouts are interchangeable: every operation behaves identically on both.
type SparseStorage int

const (
	// StorageInterleaved stores (id, value) records back to back.
	StorageInterleaved SparseStorage = iota
	// StoragePacked stores a count, then all ids, then all values. The
	// contiguous value block suits vectorized consumers.
	StoragePacked
)

func (st SparseStorage) String() string {
	switch st {
	case StorageInterleaved:
		return "interleaved"
	case StoragePacked:
		return "packed"
	}
	panic(fmt.Sprintf("bug: invalid sparse storage code: %d", int(st)))
}

// sparseCodec is the payload layout strategy. Implementations must round-trip
// any sequence of elements exactly.
type sparseCodec[F Float] interface {
	encode(elems []Elem[F]) []byte
	decode(data []byte) []Elem[F]
}

type interleavedCodec[F Float] struct{}

func (interleavedCodec[F]) encode(elems []Elem[F]) []byte {
	size := 4 + distValueSize[F]()
	buf := make([]byte, len(elems)*size)
	for i, e := range elems {
		off := i * size
		binary.LittleEndian.PutUint32(buf[off:], e.ID)
		putFloat(buf[off+4:], e.Val)
	}
	return buf
}

func (interleavedCodec[F]) decode(data []byte) []Elem[F] {
	size := 4 + distValueSize[F]()
	if len(data)%size != 0 {
		panic(fmt.Sprintf("bug: interleaved sparse payload length %d is not a multiple of %d", len(data), size))
	}
	elems := make([]Elem[F], len(data)/size)
	for i := range elems {
		off := i * size
		elems[i].ID = binary.LittleEndian.Uint32(data[off:])
		elems[i].Val = getFloat[F](data[off+4:])
	}
	return elems
}

type packedCodec[F Float] struct{}

func (packedCodec[F]) encode(elems []Elem[F]) []byte {
	vsize := distValueSize[F]()
	buf := make([]byte, 4+len(elems)*(4+vsize))
	binary.LittleEndian.PutUint32(buf, uint32(len(elems)))
	ids := buf[4:]
	vals := buf[4+4*len(elems):]
	for i, e := range elems {
		binary.LittleEndian.PutUint32(ids[4*i:], e.ID)
		putFloat(vals[vsize*i:], e.Val)
	}
	return buf
}

func (packedCodec[F]) decode(data []byte) []Elem[F] {
	if len(data) < 4 {
		panic("bug: truncated packed sparse payload")
	}
	n := int(binary.LittleEndian.Uint32(data))
	vsize := distValueSize[F]()
	if len(data) != 4+n*(4+vsize) {
		panic(fmt.Sprintf("bug: packed sparse payload length %d does not match %d elements", len(data), n))
	}
	ids := data[4:]
	vals := data[4+4*n:]
	elems := make([]Elem[F], n)
	for i := range elems {
		elems[i].ID = binary.LittleEndian.Uint32(ids[4*i:])
		elems[i].Val = getFloat[F](vals[vsize*i:])
	}
	return elems
}

func putFloat[F Float](buf []byte, v F) {
	switch x := any(v).(type) {
	case float32:
		binary.LittleEndian.PutUint32(buf, math.Float32bits(x))
	case float64:
		binary.LittleEndian.PutUint64(buf, math.Float64bits(x))
	}
}

func getFloat[F Float](buf []byte) F {
	var z F
	switch any(z).(type) {
	case float32:
		return F(math.Float32frombits(binary.LittleEndian.Uint32(buf)))
	case float64:
		return F(math.Float64frombits(binary.LittleEndian.Uint64(buf)))
	}
	panic("space: unreachable")
}

// SparseVectorSpace is a sparse vector space over ordered (id, value)
// sequences. Records are lines of "id val id val ..." tokens, optionally
// carrying an embedded "label:<int>" prefix and with ':'/',' accepted as
// separators.
type SparseVectorSpace[F Float] struct {
	spaceBase
	dist    SparseDistance
	storage SparseStorage
	codec   sparseCodec[F]
}

// SparseOption configures a sparse vector space.
type SparseOption func(*sparseOptions)

type sparseOptions struct {
	storage SparseStorage
}

// WithStorage selects the payload layout. The default is StorageInterleaved.
func WithStorage(st SparseStorage) SparseOption {
	return func(o *sparseOptions) {
		o.storage = st
	}
}

// NewSparseVector creates a sparse vector space with the given distance mode.
func NewSparseVector[F Float](dist SparseDistance, opts ...SparseOption) (*SparseVectorSpace[F], error) {
	if dist != SparseDistL2 && dist != SparseDistCosine {
		return nil, fmt.Errorf("unknown sparse distance code: %d", int(dist))
	}
	o := sparseOptions{storage: StorageInterleaved}
	for _, fn := range opts {
		fn(&o)
	}
	s := &SparseVectorSpace[F]{
		spaceBase: newSpaceBase(),
		dist:      dist,
		storage:   o.storage,
	}
	switch o.storage {
	case StorageInterleaved:
		s.codec = interleavedCodec[F]{}
	case StoragePacked:
		s.codec = packedCodec[F]{}
	default:
		return nil, fmt.Errorf("unknown sparse storage code: %d", int(o.storage))
	}
	return s, nil
}

// String implements fmt.Stringer.
func (s *SparseVectorSpace[F]) String() string {
	return fmt.Sprintf("sparse vectors (%s), distance type: %s, storage: %s",
		DistTypeName[F](), s.dist, s.storage)
}

// Describe logs the space description.
func (s *SparseVectorSpace[F]) Describe(logger *nmslib.Logger) {
	logger.Info("space", "description", s.String())
}

// Clone returns an independent copy carrying the same distance mode and
// storage layout, reset to the index phase.
func (s *SparseVectorSpace[F]) Clone() Space[F] {
	clone, err := NewSparseVector[F](s.dist, WithStorage(s.storage))
	if err != nil {
		panic(fmt.Sprintf("bug: cloning a valid sparse space failed: %v", err))
	}
	return clone
}

// ReadSparseVec parses one raw record into an ordered element sequence. The
// embedded label, if any, is extracted first; punctuation is normalized;
// tokens are consumed in (id, value) pairs; the result is sorted by id and
// checked for strict monotonicity. lineNum is used for error context only
// (0 when the record did not come from a file).
func (s *SparseVectorSpace[F]) ReadSparseVec(line string, lineNum int) (int32, []Elem[F], error) {
	label, rest, err := object.ExtractLabel(line)
	if err != nil {
		return object.Unlabeled, nil, &ErrFormat{Line: lineNum, Text: line, Reason: "bad label token", cause: err}
	}
	fields := strings.Fields(object.NormalizePunct(rest))
	if len(fields)%2 != 0 {
		return object.Unlabeled, nil,
			&ErrFormat{Line: lineNum, Text: line, Reason: "odd number of tokens, want (id, value) pairs"}
	}

	elems := make([]Elem[F], 0, len(fields)/2)
	for i := 0; i < len(fields); i += 2 {
		id, err := strconv.ParseUint(fields[i], 10, 32)
		if err != nil {
			return object.Unlabeled, nil,
				&ErrFormat{Line: lineNum, Text: line, Reason: fmt.Sprintf("bad sparse id %q", fields[i]), cause: err}
		}
		val, err := parseDistValue[F](fields[i+1])
		if err != nil {
			return object.Unlabeled, nil,
				&ErrFormat{Line: lineNum, Text: line, Reason: fmt.Sprintf("bad sparse value %q", fields[i+1]), cause: err}
		}
		elems = append(elems, Elem[F]{ID: uint32(id), Val: val})
	}

	sort.SliceStable(elems, func(i, j int) bool { return elems[i].ID < elems[j].ID })

	for i := 1; i < len(elems); i++ {
		prev, curr := elems[i-1], elems[i]
		if curr.ID == prev.ID {
			return object.Unlabeled, nil, &ErrOrderingViolation{
				Line: lineNum, Pos: i,
				PrevID: prev.ID, CurrID: curr.ID,
				PrevVal: formatDistValue(prev.Val), CurrVal: formatDistValue(curr.Val),
				Reason: "repeating id",
			}
		}
		if curr.ID < prev.ID {
			// Unreachable after the sort; kept as an explicit invariant.
			return object.Unlabeled, nil, &ErrOrderingViolation{
				Line: lineNum, Pos: i,
				PrevID: prev.ID, CurrID: curr.ID,
				PrevVal: formatDistValue(prev.Val), CurrVal: formatDistValue(curr.Val),
				Reason: "ids are not sorted",
			}
		}
	}
	return label, elems, nil
}

// CreateObjFromVec builds an object directly from an ordered element
// sequence. The sequence must already satisfy the sorted-unique invariant.
func (s *SparseVectorSpace[F]) CreateObjFromVec(id, label int32, elems []Elem[F]) *object.Object {
	return object.New(id, label, s.codec.encode(elems))
}

// CreateVecFromObj decodes an object back into its ordered element sequence.
func (s *SparseVectorSpace[F]) CreateVecFromObj(obj *object.Object) []Elem[F] {
	return s.codec.decode(obj.Data)
}

// IndexTimeDistance computes the distance between two sparse vectors. It
// fails with *ErrPhaseViolation outside the index phase.
func (s *SparseVectorSpace[F]) IndexTimeDistance(a, b *object.Object) (F, error) {
	if err := s.checkIndexPhase("IndexTimeDistance"); err != nil {
		return 0, err
	}
	return s.hiddenDistance(a, b), nil
}

func (s *SparseVectorSpace[F]) hiddenDistance(a, b *object.Object) F {
	x := s.codec.decode(a.Data)
	y := s.codec.decode(b.Data)
	switch s.dist {
	case SparseDistL2:
		return sparseL2(x, y)
	case SparseDistCosine:
		return sparseCosineDist(x, y)
	}
	panic(fmt.Sprintf("bug: invalid sparse distance code: %d", int(s.dist)))
}

// sparseL2 merge-joins the two sequences and accumulates squared differences
// over the union of ids.
func sparseL2[F Float](x, y []Elem[F]) F {
	var sum F
	i, j := 0, 0
	for i < len(x) && j < len(y) {
		switch {
		case x[i].ID == y[j].ID:
			d := x[i].Val - y[j].Val
			sum += d * d
			i++
			j++
		case x[i].ID < y[j].ID:
			sum += x[i].Val * x[i].Val
			i++
		default:
			sum += y[j].Val * y[j].Val
			j++
		}
	}
	for ; i < len(x); i++ {
		sum += x[i].Val * x[i].Val
	}
	for ; j < len(y); j++ {
		sum += y[j].Val * y[j].Val
	}
	return simd.Sqrt(sum)
}

// sparseCosineDist is 1 minus the cosine similarity; a zero-magnitude
// operand yields 1.
func sparseCosineDist[F Float](x, y []Elem[F]) F {
	var dot, nx, ny F
	i, j := 0, 0
	for i < len(x) && j < len(y) {
		switch {
		case x[i].ID == y[j].ID:
			dot += x[i].Val * y[j].Val
			nx += x[i].Val * x[i].Val
			ny += y[j].Val * y[j].Val
			i++
			j++
		case x[i].ID < y[j].ID:
			nx += x[i].Val * x[i].Val
			i++
		default:
			ny += y[j].Val * y[j].Val
			j++
		}
	}
	for ; i < len(x); i++ {
		nx += x[i].Val * x[i].Val
	}
	for ; j < len(y); j++ {
		ny += y[j].Val * y[j].Val
	}
	if nx == 0 || ny == 0 {
		return 1
	}
	return 1 - dot/(simd.Sqrt(nx)*simd.Sqrt(ny))
}

// CreateObjFromStr parses one raw record, preferring the embedded label over
// the label argument when one is present.
func (s *SparseVectorSpace[F]) CreateObjFromStr(id, label int32, str string, rs *ReadState) (*object.Object, error) {
	embedded, elems, err := s.ReadSparseVec(str, lineOf(rs))
	if err != nil {
		return nil, err
	}
	if embedded != object.Unlabeled {
		label = embedded
	}
	return s.CreateObjFromVec(id, label, elems), nil
}

// CreateStrFromObj renders the stored pairs as "id val" tokens at full
// decimal precision. externID is accepted but ignored: sparse records
// self-describe through their id/value pairs.
func (s *SparseVectorSpace[F]) CreateStrFromObj(obj *object.Object, _ string) (string, error) {
	elems := s.codec.decode(obj.Data)
	var sb strings.Builder
	for i, e := range elems {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.FormatUint(uint64(e.ID), 10))
		sb.WriteByte(' ')
		sb.WriteString(formatDistValue(e.Val))
	}
	return sb.String(), nil
}

// OpenReadFileHeader opens the dataset; the format has no header.
func (s *SparseVectorSpace[F]) OpenReadFileHeader(path string) (*ReadState, error) {
	return openRead(path)
}

// OpenWriteFileHeader opens the output; the format has no header.
func (s *SparseVectorSpace[F]) OpenWriteFileHeader(_ []*object.Object, path string) (*WriteState, error) {
	return openWrite(path)
}

// ReadNextObjStr returns the next raw line verbatim. All structural parsing
// is deferred to CreateObjFromStr.
func (s *SparseVectorSpace[F]) ReadNextObjStr(rs *ReadState) (string, int32, string, bool, error) {
	line, ok, err := rs.nextLine()
	if err != nil || !ok {
		return "", object.Unlabeled, "", false, err
	}
	return line, object.Unlabeled, "", true, nil
}

// WriteNextObj writes one serialized record and a newline.
func (s *SparseVectorSpace[F]) WriteNextObj(obj *object.Object, externID string, ws *WriteState) error {
	str, err := s.CreateStrFromObj(obj, externID)
	if err != nil {
		return err
	}
	return ws.writeLine(str)
}

// ApproxEqual requires exact equality of the two ordered element sequences.
func (s *SparseVectorSpace[F]) ApproxEqual(a, b *object.Object) bool {
	x := s.codec.decode(a.Data)
	y := s.codec.decode(b.Data)
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

// GetElemQty returns 0: sparse vectors have no dense element count.
func (s *SparseVectorSpace[F]) GetElemQty(*object.Object) int { return 0 }

// CreateDenseVectFromObj bucket-projects the sparse vector into dst, summing
// the values of all ids that share a bucket.
func (s *SparseVectorSpace[F]) CreateDenseVectFromObj(obj *object.Object, dst []F) error {
	if len(dst) == 0 {
		return ErrEmptyVector
	}
	for i := range dst {
		dst[i] = 0
	}
	for _, e := range s.codec.decode(obj.Data) {
		dst[int(e.ID)%len(dst)] += e.Val
	}
	return nil
}
