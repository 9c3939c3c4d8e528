package space

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Dense vector payloads are the raw little-endian element values, exactly as
// wide as the distance value type. Text form is the shortest decimal
// representation that round-trips ('g' with precision -1).

func distValueSize[D DistValue]() int {
	var z D
	switch any(z).(type) {
	case float64:
		return 8
	default: // float32, int32
		return 4
	}
}

func formatDistValue[D DistValue](v D) string {
	switch x := any(v).(type) {
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	}
	panic("space: unreachable")
}

func parseDistValue[D DistValue](tok string) (D, error) {
	var z D
	switch any(z).(type) {
	case float32:
		f, err := strconv.ParseFloat(tok, 32)
		if err != nil {
			return z, err
		}
		return D(f), nil
	case float64:
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return z, err
		}
		return D(f), nil
	case int32:
		n, err := strconv.ParseInt(tok, 10, 32)
		if err != nil {
			return z, err
		}
		return D(n), nil
	}
	panic("space: unreachable")
}

func denseToBytes[D DistValue](vec []D) []byte {
	size := distValueSize[D]()
	buf := make([]byte, len(vec)*size)
	for i, v := range vec {
		off := i * size
		switch x := any(v).(type) {
		case float32:
			binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(x))
		case float64:
			binary.LittleEndian.PutUint64(buf[off:], math.Float64bits(x))
		case int32:
			binary.LittleEndian.PutUint32(buf[off:], uint32(x))
		}
	}
	return buf
}

func denseFromBytes[D DistValue](data []byte) []D {
	size := distValueSize[D]()
	if len(data)%size != 0 {
		panic(fmt.Sprintf("space: payload length %d is not a multiple of the element size %d", len(data), size))
	}
	vec := make([]D, len(data)/size)
	var z D
	for i := range vec {
		off := i * size
		switch any(z).(type) {
		case float32:
			vec[i] = D(math.Float32frombits(binary.LittleEndian.Uint32(data[off:])))
		case float64:
			vec[i] = D(math.Float64frombits(binary.LittleEndian.Uint64(data[off:])))
		case int32:
			vec[i] = D(int32(binary.LittleEndian.Uint32(data[off:])))
		}
	}
	return vec
}

// denseStrFromVec renders vec as single-space-separated decimal text.
func denseStrFromVec[D DistValue](vec []D) string {
	var sb strings.Builder
	for i, v := range vec {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(formatDistValue(v))
	}
	return sb.String()
}

// parseDenseVec tokenizes s on whitespace runs and parses every token as a
// distance value.
func parseDenseVec[D DistValue](s string) ([]D, error) {
	fields := strings.Fields(s)
	vec := make([]D, 0, len(fields))
	for _, tok := range fields {
		v, err := parseDistValue[D](tok)
		if err != nil {
			return nil, fmt.Errorf("non-numeric token %q: %w", tok, err)
		}
		vec = append(vec, v)
	}
	return vec, nil
}

// approxEqualNum compares two values with a relative tolerance scaled to the
// value type's precision. Discrete types compare exactly.
func approxEqualNum[D DistValue](x, y D) bool {
	var eps float64
	switch any(x).(type) {
	case float32:
		eps = 4e-7
	case float64:
		eps = 1e-15
	default:
		return x == y
	}
	fx, fy := float64(x), float64(y)
	diff := math.Abs(fx - fy)
	if diff == 0 {
		return true
	}
	scale := math.Max(math.Max(math.Abs(fx), math.Abs(fy)), 1)
	return diff <= eps*scale
}
