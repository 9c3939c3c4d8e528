// Package space defines the pluggable contract binding an object encoding to
// a distance function, plus the concrete dense word-embedding and sparse
// vector spaces. Index algorithms consume a Space during the index phase;
// query execution obtains distance capability through a QuerySession.
package space

import (
	"fmt"

	"github.com/lediona/nmslib"
	"github.com/lediona/nmslib/object"
)

// DistValue is the set of distance value types a space can be instantiated
// with. The set is closed: every member has a registered display name, so an
// unregistered type fails to compile instead of falling back to a runtime
// type name.
type DistValue interface {
	float32 | float64 | int32
}

// Float restricts instantiation to the real-valued distance types. The
// shipped vector spaces are only instantiated for these, matching the
// numeric kernels underneath.
type Float interface {
	float32 | float64
}

// DistTypeName returns the registered display name for a distance value type.
func DistTypeName[D DistValue]() string {
	var z D
	switch any(z).(type) {
	case float32:
		return "float"
	case float64:
		return "double"
	case int32:
		return "int"
	}
	panic("space: unreachable")
}

// phaseState is the two-state lifecycle of a space instance. There is no
// internal locking: an instance (or clone) is exclusively owned by one
// worker, and Clone exists to hand each worker its own phase state.
type phaseState struct {
	index bool
}

func newPhaseState() phaseState {
	return phaseState{index: true}
}

func (p *phaseState) setIndexPhase() { p.index = true }
func (p *phaseState) setQueryPhase() { p.index = false }
func (p *phaseState) indexPhase() bool {
	return p.index
}

// Space is the capability contract every concrete space implements.
//
// The unexported methods confine implementations to this package and keep the
// hidden distance function out of reach of arbitrary callers: index
// algorithms go through IndexTimeDistance, query execution goes through a
// QuerySession, and nothing else can compute a distance.
type Space[D DistValue] interface {
	fmt.Stringer

	// IndexTimeDistance computes the distance between two objects. It fails
	// with *ErrPhaseViolation while the space is in the query phase and with
	// *ErrDimensionMismatch for unequal-shape dense operands.
	IndexTimeDistance(a, b *object.Object) (D, error)

	// Clone returns an independent, functionally equivalent space. The clone
	// always starts in the index phase regardless of the source's phase.
	Clone() Space[D]

	// CreateObjFromStr parses one record into an Object. When rs carries a
	// previously discovered dimensionality the new record must match it;
	// on the first record the dimensionality is recorded on rs.
	CreateObjFromStr(id, label int32, s string, rs *ReadState) (*object.Object, error)

	// CreateStrFromObj serializes one object. It is the left inverse of
	// CreateObjFromStr up to externID handling.
	CreateStrFromObj(obj *object.Object, externID string) (string, error)

	// OpenReadFileHeader opens a dataset for reading, consuming a header if
	// the format has one, and returns the input session state.
	OpenReadFileHeader(path string) (*ReadState, error)

	// OpenWriteFileHeader opens a dataset for writing, emitting a header if
	// the format has one, and returns the output session state.
	OpenWriteFileHeader(ds []*object.Object, path string) (*WriteState, error)

	// ReadNextObjStr yields the next raw record, advancing the line counter.
	// It returns ok=false with a nil error exactly at end of file.
	ReadNextObjStr(rs *ReadState) (s string, label int32, externID string, ok bool, err error)

	// WriteNextObj writes one serialized record followed by a newline.
	WriteNextObj(obj *object.Object, externID string, ws *WriteState) error

	// ApproxEqual compares two objects with numeric tolerance on floating
	// values. For verification and testing only.
	ApproxEqual(a, b *object.Object) bool

	// GetElemQty returns the dense element count for vector-like spaces and
	// 0 for all others.
	GetElemQty(obj *object.Object) int

	// CreateDenseVectFromObj fills dst from the object. Dense spaces copy
	// the first len(dst) elements and fail when len(dst) exceeds the element
	// count; sparse spaces bucket-project by summing values per bucket.
	CreateDenseVectFromObj(obj *object.Object, dst []D) error

	// Describe logs the space description through the given logger.
	Describe(logger *nmslib.Logger)

	hiddenDistance(a, b *object.Object) D
	phase() *phaseState
}

// spaceBase carries the state shared by all concrete spaces.
type spaceBase struct {
	st phaseState
}

func newSpaceBase() spaceBase {
	return spaceBase{st: newPhaseState()}
}

func (b *spaceBase) phase() *phaseState { return &b.st }

// checkIndexPhase returns the phase-violation error for op when the space
// has left the index phase.
func (b *spaceBase) checkIndexPhase(op string) error {
	if !b.st.indexPhase() {
		return &ErrPhaseViolation{Op: op}
	}
	return nil
}

// QuerySession is the query-serving distance capability. Constructing one
// flips the space into the query phase; from then on the session is the only
// path to distance computation until Close returns the space to the index
// phase. The session must be owned by exactly one query worker.
type QuerySession[D DistValue] struct {
	s Space[D]
}

// NewQuerySession transitions s into the query phase and returns the
// distance capability for it.
func NewQuerySession[D DistValue](s Space[D]) *QuerySession[D] {
	s.phase().setQueryPhase()
	return &QuerySession[D]{s: s}
}

// Distance computes the distance between two objects. Unlike
// IndexTimeDistance it carries no phase check: holding the session is the
// authorization. Mismatched operands are a programming error and panic.
func (q *QuerySession[D]) Distance(a, b *object.Object) D {
	return q.s.hiddenDistance(a, b)
}

// Space returns the space this session was issued for.
func (q *QuerySession[D]) Space() Space[D] { return q.s }

// Close returns the space to the index phase.
func (q *QuerySession[D]) Close() {
	q.s.phase().setIndexPhase()
}
