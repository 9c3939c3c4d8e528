// Package object provides the opaque byte-buffer unit being indexed or
// queried. A space interprets the payload bytes according to its own
// encoding; the container itself only tracks id and label bookkeeping.
package object

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Unlabeled marks an object that carries no class label.
const Unlabeled int32 = -1

// LabelPrefix introduces an embedded label token at the start of a record,
// e.g. "label:3 1 0.5 7 0.25".
const LabelPrefix = "label:"

// Object is an immutable byte buffer with an id and a label. Treat it as
// read-only once constructed; spaces hand out decoded views, never the
// buffer itself.
type Object struct {
	ID    int32
	Label int32
	Data  []byte
}

// New creates an Object from an id, a label and a payload.
func New(id, label int32, data []byte) *Object {
	return &Object{ID: id, Label: label, Data: data}
}

// DataLength returns the payload length in bytes.
func (o *Object) DataLength() int {
	return len(o.Data)
}

// String returns a short description for logs and diagnostics.
func (o *Object) String() string {
	return fmt.Sprintf("Object(id=%d label=%d len=%d)", o.ID, o.Label, len(o.Data))
}

// ExtractLabel strips a leading "label:<int>" token from a raw record line.
// It returns the parsed label and the remainder of the line. Lines without
// the prefix come back unchanged with Unlabeled.
func ExtractLabel(line string) (int32, string, error) {
	if !strings.HasPrefix(line, LabelPrefix) {
		return Unlabeled, line, nil
	}
	rest := line[len(LabelPrefix):]
	end := strings.IndexFunc(rest, unicode.IsSpace)
	tok := rest
	if end >= 0 {
		tok = rest[:end]
		rest = rest[end+1:]
	} else {
		rest = ""
	}
	label, err := strconv.ParseInt(tok, 10, 32)
	if err != nil {
		return Unlabeled, line, fmt.Errorf("malformed label token %q: %w", LabelPrefix+tok, err)
	}
	return int32(label), rest, nil
}

// NormalizePunct replaces commas and colons with spaces so that records
// written as "id:val,id:val" tokenize the same way as "id val id val".
func NormalizePunct(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ',' || r == ':' {
			return ' '
		}
		return r
	}, s)
}
