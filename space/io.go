package space

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/pierrec/lz4/v4"

	"github.com/lediona/nmslib/object"
)

// maxLineBytes bounds a single record line. Sparse records can carry many
// thousands of (id, value) pairs.
const maxLineBytes = 64 << 20

// ReadState is the input session for one dataset pass: the open handle, a
// 1-based line counter for error messages and, for vector inputs, the
// dimensionality discovered on the first record. It is exclusively owned by
// one reader loop.
type ReadState struct {
	f      *os.File
	dec    io.Closer // compression reader, when the file has one
	sc     *bufio.Scanner
	line   int
	dim    int
	closed bool
}

// LineNum returns the number of the last line read (1-based, 0 before the
// first read).
func (rs *ReadState) LineNum() int { return rs.line }

// Dim returns the dimensionality discovered so far, 0 if none.
func (rs *ReadState) Dim() int { return rs.dim }

// nextLine yields the next line, advancing the counter. At end of file it
// returns ok=false with a nil error and leaves the counter untouched.
func (rs *ReadState) nextLine() (string, bool, error) {
	if !rs.sc.Scan() {
		if err := rs.sc.Err(); err != nil {
			return "", false, fmt.Errorf("read after line %d: %w", rs.line, err)
		}
		return "", false, nil
	}
	rs.line++
	return rs.sc.Text(), true, nil
}

// checkDim verifies n against the session dimensionality, recording it on
// the first record.
func (rs *ReadState) checkDim(n int) error {
	if rs.dim == 0 {
		rs.dim = n
		return nil
	}
	if rs.dim != n {
		return &ErrDimensionMismatch{Expected: rs.dim, Actual: n}
	}
	return nil
}

// Close releases the session. It is idempotent and safe to defer alongside
// an explicit Close on the happy path.
func (rs *ReadState) Close() error {
	if rs.closed {
		return nil
	}
	rs.closed = true
	var err error
	if rs.dec != nil {
		err = rs.dec.Close()
	}
	if cerr := rs.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// WriteState is the output session for one dataset pass: the open handle and
// its buffered (optionally compressing) writer. Exclusively owned by one
// writer loop.
type WriteState struct {
	f      *os.File
	comp   io.WriteCloser // compression writer, when the path asks for one
	w      *bufio.Writer
	closed bool
}

func (ws *WriteState) writeLine(s string) error {
	if _, err := ws.w.WriteString(s); err != nil {
		return err
	}
	return ws.w.WriteByte('\n')
}

// Close flushes and releases the session. Idempotent.
func (ws *WriteState) Close() error {
	if ws.closed {
		return nil
	}
	ws.closed = true
	err := ws.w.Flush()
	if ws.comp != nil {
		if cerr := ws.comp.Close(); err == nil {
			err = cerr
		}
	}
	if cerr := ws.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// openRead opens a dataset file for reading. Files ending in .gz or .lz4 are
// decompressed transparently.
func openRead(path string) (*ReadState, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open file %s for reading: %w", path, err)
	}

	rs := &ReadState{f: f}
	var r io.Reader = f
	switch filepath.Ext(path) {
	case ".gz":
		zr, err := gzip.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("cannot open gzip stream %s: %w", path, err)
		}
		rs.dec = zr
		r = zr
	case ".lz4":
		r = lz4.NewReader(f)
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	rs.sc = sc
	return rs, nil
}

// openWrite opens a dataset file for writing, truncating any existing file.
// Files ending in .gz or .lz4 are compressed transparently.
func openWrite(path string) (*WriteState, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open file %s for writing: %w", path, err)
	}

	ws := &WriteState{f: f}
	var w io.Writer = f
	switch filepath.Ext(path) {
	case ".gz":
		zw := gzip.NewWriter(f)
		ws.comp = zw
		w = zw
	case ".lz4":
		zw := lz4.NewWriter(f)
		ws.comp = zw
		w = zw
	}
	ws.w = bufio.NewWriter(w)
	return ws, nil
}

// ReadDataset drives one full read pass over a dataset file: open, read
// loop, close. Objects get sequential ids starting at 0. maxObjects bounds
// the number of records read; 0 means unbounded. The session is closed on
// every exit path.
func ReadDataset[D DistValue](s Space[D], path string, maxObjects int) (objs []*object.Object, externIDs []string, err error) {
	rs, err := s.OpenReadFileHeader(path)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if cerr := rs.Close(); err == nil {
			err = cerr
		}
	}()

	var id int32
	for maxObjects <= 0 || len(objs) < maxObjects {
		raw, label, externID, ok, rerr := s.ReadNextObjStr(rs)
		if rerr != nil {
			return nil, nil, rerr
		}
		if !ok {
			break
		}
		obj, perr := s.CreateObjFromStr(id, label, raw, rs)
		if perr != nil {
			return nil, nil, perr
		}
		objs = append(objs, obj)
		externIDs = append(externIDs, externID)
		id++
	}
	return objs, externIDs, nil
}

// WriteDataset drives one full write pass: open, write loop, close.
// externIDs may be nil; otherwise it must be parallel to objs. maxObjects
// bounds the number of records written; 0 means unbounded. The session is
// closed on every exit path.
func WriteDataset[D DistValue](s Space[D], objs []*object.Object, externIDs []string, path string, maxObjects int) (err error) {
	if externIDs != nil && len(externIDs) != len(objs) {
		return fmt.Errorf("extern id count %d does not match object count %d", len(externIDs), len(objs))
	}

	ws, err := s.OpenWriteFileHeader(objs, path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := ws.Close(); err == nil {
			err = cerr
		}
	}()

	for i, obj := range objs {
		if maxObjects > 0 && i >= maxObjects {
			break
		}
		externID := ""
		if externIDs != nil {
			externID = externIDs[i]
		}
		if werr := s.WriteNextObj(obj, externID, ws); werr != nil {
			return werr
		}
	}
	return nil
}
