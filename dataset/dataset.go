// Package dataset drives dataset passes over space-encoded files: the
// sequential read/write loops and a parallel loader that hands each worker
// its own space clone.
package dataset

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/lediona/nmslib"
	"github.com/lediona/nmslib/object"
	"github.com/lediona/nmslib/space"
)

type options struct {
	maxObjects int
	workers    int
	logger     *nmslib.Logger
}

// Option configures a dataset pass.
type Option func(*options)

// WithMaxObjects bounds the number of records read or written. Zero means
// unbounded.
func WithMaxObjects(n int) Option {
	return func(o *options) {
		o.maxObjects = n
	}
}

// WithWorkers sets the parse worker count for LoadParallel. Defaults to
// GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithLogger configures structured logging for the pass.
// Pass nil to disable logging.
func WithLogger(logger *nmslib.Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = nmslib.NoopLogger()
		}
		o.logger = logger
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		logger: nmslib.NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

// Load reads a whole dataset sequentially, returning the objects and their
// extern ids (empty strings for formats without one).
func Load[D space.DistValue](s space.Space[D], path string, optFns ...Option) ([]*object.Object, []string, error) {
	o := applyOptions(optFns)
	objs, externIDs, err := space.ReadDataset(s, path, o.maxObjects)
	o.logger.LogReadDataset(path, len(objs), err)
	return objs, externIDs, err
}

// Write writes a whole dataset sequentially.
func Write[D space.DistValue](s space.Space[D], objs []*object.Object, externIDs []string, path string, optFns ...Option) error {
	o := applyOptions(optFns)
	err := space.WriteDataset(s, objs, externIDs, path, o.maxObjects)
	n := len(objs)
	if o.maxObjects > 0 && o.maxObjects < n {
		n = o.maxObjects
	}
	o.logger.LogWriteDataset(path, n, err)
	return err
}

type rawRecord struct {
	s        string
	label    int32
	externID string
}

// LoadParallel reads raw records sequentially, then parses them with a pool
// of workers, each owning its own clone of s. Output order matches file
// order. Dense dimensionality is verified once all records are parsed, since
// the per-session check is unavailable off the reader goroutine.
func LoadParallel[D space.DistValue](ctx context.Context, s space.Space[D], path string, optFns ...Option) (objs []*object.Object, externIDs []string, err error) {
	o := applyOptions(optFns)
	defer func() {
		o.logger.LogReadDataset(path, len(objs), err)
	}()

	rs, err := s.OpenReadFileHeader(path)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if cerr := rs.Close(); err == nil {
			err = cerr
		}
	}()

	var raw []rawRecord
	for o.maxObjects <= 0 || len(raw) < o.maxObjects {
		str, label, externID, ok, rerr := s.ReadNextObjStr(rs)
		if rerr != nil {
			return nil, nil, rerr
		}
		if !ok {
			break
		}
		raw = append(raw, rawRecord{s: str, label: label, externID: externID})
	}
	if len(raw) == 0 {
		return nil, nil, nil
	}

	workers := o.workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(raw) {
		workers = len(raw)
	}

	parsed := make([]*object.Object, len(raw))
	indexes := make(chan int)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(indexes)
		for i := range raw {
			select {
			case indexes <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})
	for w := 0; w < workers; w++ {
		worker := s.Clone()
		g.Go(func() error {
			for i := range indexes {
				obj, perr := worker.CreateObjFromStr(int32(i), raw[i].label, raw[i].s, nil)
				if perr != nil {
					return fmt.Errorf("record %d: %w", i+1, perr)
				}
				parsed[i] = obj
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	// Cross-record dimensionality check, normally done by the read session.
	if want := s.GetElemQty(parsed[0]); want > 0 {
		for i, obj := range parsed {
			if got := s.GetElemQty(obj); got != want {
				return nil, nil, fmt.Errorf("record %d: %w", i+1, &space.ErrDimensionMismatch{Expected: want, Actual: got})
			}
		}
	}

	externIDs = make([]string, len(raw))
	for i := range raw {
		externIDs[i] = raw[i].externID
	}
	return parsed, externIDs, nil
}
