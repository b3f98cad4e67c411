package sqlcore

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lychee-technology/sqlcore/internal/binder"
	"github.com/lychee-technology/sqlcore/internal/catalog"
	"github.com/lychee-technology/sqlcore/internal/executor/volcano"
	"github.com/lychee-technology/sqlcore/internal/function"
	"github.com/lychee-technology/sqlcore/internal/optimizer/heuristic"
	"github.com/lychee-technology/sqlcore/internal/physical"
	"github.com/lychee-technology/sqlcore/internal/resolver"
	"github.com/lychee-technology/sqlcore/internal/sqlfrontend"
)

// BuiltinTableFunction constructs one of the engine's built-in table
// functions against a session's own catalog. internal/tablefunc's
// SeqTableScan/ReadCSV/SqlrsTables/SqlrsColumns/... all share this shape;
// kept here (rather than importing internal/tablefunc from this package
// directly) so a caller that only needs the core relational pipeline,
// with no CSV/S3/Postgres table functions, can build a Session without
// pulling in database/sql drivers or cloud SDKs it never uses.
type BuiltinTableFunction func(cat *catalog.RootCatalog) *TableFunctionCatalogEntry

// Session is the engine's embeddable entry point: one RootCatalog, one
// Config, one cooperative-cancellation flag, guarding at most one
// in-flight query at a time per §5's active-query lifecycle. Grounded on
// original_source/src/main_entry/client_context.rs's
// ClientContext/ActiveQueryContext split, flattened into a single struct
// since volcano.Context already plays that role at execution time.
type Session struct {
	catalog       *catalog.RootCatalog
	config        *Config
	defaultSchema string
	interrupted   atomic.Bool

	mu        sync.Mutex
	activeGen uint64
}

// NewSession builds a Session with the built-in scalar function catalog
// registered and every builtin passed in wired into the default schema.
// Callers choose which table functions to pull in (e.g. skip ReadCSV if
// they never touch CSV/S3) rather than this constructor hard-wiring all
// of internal/tablefunc.
func NewSession(cfg *Config, builtins ...BuiltinTableFunction) (*Session, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := initLogging(cfg.Logging); err != nil {
		return nil, err
	}
	cat := catalog.NewRootCatalog()
	s := &Session{catalog: cat, config: cfg, defaultSchema: cfg.Catalog.DefaultSchema}

	if _, err := cat.EnsureSchema(s.defaultSchema); err != nil {
		return nil, err
	}
	for _, entry := range function.BuiltinCatalog() {
		if err := cat.RegisterScalarFunction(s.defaultSchema, entry); err != nil {
			return nil, err
		}
	}
	for _, ctor := range builtins {
		entry := ctor(cat)
		if err := cat.RegisterTableFunction(s.defaultSchema, entry); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Catalog exposes the session's catalog for callers that need direct
// DDL/introspection access outside of SQL text (e.g. test fixtures).
func (s *Session) Catalog() *catalog.RootCatalog { return s.catalog }

// Interrupt sets the cooperative-cancellation flag §5 describes; the
// currently streaming query's next Next call fails with Interrupted.
func (s *Session) Interrupt() { s.interrupted.Store(true) }

// Resume clears the interrupted flag ahead of the next query, mirroring
// the "On query completion or error, the active-query state is fully
// reset" lifecycle rule.
func (s *Session) Resume() { s.interrupted.Store(false) }

// QueryResult streams one statement's output batches. It is the "active
// query" of §5: only one QueryResult per Session is ever valid at a
// time. Starting a new Query invalidates any QueryResult from a prior
// Query on the same Session — calling Next on a stale one returns
// InvalidatedQuery rather than silently racing the new query's own
// executor tree over the shared catalog/storage locks.
type QueryResult struct {
	session *Session
	gen     uint64
	exec    volcano.Executor
	types   []LogicalType
}

// ColumnTypes reports the result's output column types. There is no
// column-name tracking below the binder: every plan node past Bind
// identifies its outputs purely by (TableIdx, ColumnIdx) bindings, so a
// caller that wants result labels reads them off the RecordBatch's own
// arrow.Schema field names instead.
func (r *QueryResult) ColumnTypes() []LogicalType { return r.types }

// Next pulls the next batch, per the Executor pull protocol: (batch,
// nil), then eventually (nil, io.EOF). Returns InvalidatedQuery if a
// later Query call on the same Session has superseded this result.
func (r *QueryResult) Next(ctx context.Context) (*RecordBatch, error) {
	r.session.mu.Lock()
	stale := r.gen != r.session.activeGen
	r.session.mu.Unlock()
	if stale {
		return nil, NewInvalidatedQueryError()
	}
	return r.exec.Next(ctx)
}

// Query runs the full prepare pipeline of §4 (parse -> bind -> optimize
// -> resolve -> lower) and returns a QueryResult ready to stream. This is
// the "initial_cleanup -> prepare" half of §5's lifecycle; "stream
// results -> cleanup" is QueryResult.Next plus the generation bump the
// next Query call performs.
func (s *Session) Query(ctx context.Context, sql string) (*QueryResult, error) {
	s.mu.Lock()
	s.activeGen++
	gen := s.activeGen
	s.mu.Unlock()
	s.interrupted.Store(false)

	zap.S().Debugw("preparing query", "sql", sql, "gen", gen)

	stmt, err := sqlfrontend.Parse(sql)
	if err != nil {
		zap.S().Warnw("parse failed", "error", err)
		return nil, err
	}

	b := binder.NewBinder(s.catalog, s.defaultSchema)
	logicalPlan, err := b.Bind(stmt)
	if err != nil {
		zap.S().Warnw("bind failed", "error", err)
		return nil, err
	}

	optimizer := heuristic.NewHepOptimizer(
		heuristic.NewHepProgram([]heuristic.HepInstruction{
			heuristic.InstructionMatchLimit(s.config.Optimizer.DefaultMatchLimit),
			heuristic.InstructionRules(heuristic.DefaultRules()),
		}),
		logicalPlan,
	)
	optimized := optimizer.FindBest()
	resolved := resolver.Resolve(optimized)
	physicalPlan := physical.Generate(resolved)

	ec := &volcano.Context{
		Catalog:       s.catalog,
		Config:        s.config,
		DefaultSchema: s.defaultSchema,
		Interrupted:   &s.interrupted,
	}
	exec, err := volcano.Build(physicalPlan, ec)
	if err != nil {
		zap.S().Warnw("physical build failed", "error", err)
		return nil, err
	}

	return &QueryResult{
		session: s,
		gen:     gen,
		exec:    exec,
		types:   physicalPlan.Types(),
	}, nil
}

// initLogging installs the process-wide zap logger per cfg, mirroring
// cmd/server/main.go's zap.NewProduction + zap.ReplaceGlobals setup.
// Structured false selects zap's human-readable development encoder,
// matching what a REPL or test run wants over JSON lines.
func initLogging(cfg LoggingConfig) error {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return &ConfigError{Field: "logging.level", Message: "invalid zap level: " + err.Error()}
	}
	zapCfg := zap.NewProductionConfig()
	if !cfg.Structured {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	logger, err := zapCfg.Build()
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(logger)
	return nil
}
