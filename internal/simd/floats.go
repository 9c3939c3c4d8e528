// Package simd provides the low-level numeric kernels used by dense vector
// spaces. All kernels delegate to viterin/vek, which dispatches to
// AVX2/AVX-512 on x86-64 and falls back to portable loops elsewhere.
package simd

import (
	"math"

	"github.com/viterin/vek"
	"github.com/viterin/vek/vek32"
)

// Float is the set of element types the kernels are instantiated for.
// The set is closed on purpose: every member has an explicit vek backend.
type Float interface {
	float32 | float64
}

// Dot returns the dot product of a and b.
// Assumes equal lengths (caller's responsibility).
func Dot[F Float](a, b []F) F {
	switch x := any(a).(type) {
	case []float32:
		return F(vek32.Dot(x, any(b).([]float32)))
	case []float64:
		return F(vek.Dot(x, any(b).([]float64)))
	}
	panic("simd: unreachable")
}

// L2Distance returns the Euclidean distance between a and b.
// Assumes equal lengths (caller's responsibility).
func L2Distance[F Float](a, b []F) F {
	switch x := any(a).(type) {
	case []float32:
		return F(vek32.Distance(x, any(b).([]float32)))
	case []float64:
		return F(vek.Distance(x, any(b).([]float64)))
	}
	panic("simd: unreachable")
}

// Norm returns the L2 norm of v.
func Norm[F Float](v []F) F {
	return Sqrt(Dot(v, v))
}

// CosineSimilarity returns the cosine of the angle between a and b.
// A zero-magnitude operand yields 0.
func CosineSimilarity[F Float](a, b []F) F {
	na, nb := Norm(a), Norm(b)
	if na == 0 || nb == 0 {
		return 0
	}
	return Dot(a, b) / (na * nb)
}

// Sqrt returns the square root of x.
func Sqrt[F Float](x F) F {
	return F(math.Sqrt(float64(x)))
}
