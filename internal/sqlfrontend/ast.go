// Package sqlfrontend converts SQL text into the statement/expression
// trees internal/binder consumes. It wraps a third-party SQL grammar
// (see parse.go) so the rest of the engine never touches parser-library
// types directly, matching §6's external SQL surface:
//
//	CREATE TABLE, INSERT, COPY FROM, SELECT, SHOW TABLES, DESCRIBE, EXPLAIN
package sqlfrontend

// Statement is the parsed-and-translated root of one SQL statement.
type Statement interface{ isStatement() }

// ColumnDef is one column of a CREATE TABLE statement.
type ColumnDef struct {
	Name     string
	TypeName string
	Nullable bool
}

// CreateTable is `CREATE TABLE schema.name (col type, ...)`.
type CreateTable struct {
	Schema  string
	Table   string
	Columns []ColumnDef
}

func (*CreateTable) isStatement() {}

// Insert is `INSERT INTO table [(cols)] VALUES (...), ... | SELECT ...`.
type Insert struct {
	Schema  string
	Table   string
	Columns []string // empty means "all columns, in table order"
	Source  Statement
}

func (*Insert) isStatement() {}

// CopyFrom is `COPY table [(cols)] FROM 'file' [WITH (...)]`.
type CopyFrom struct {
	Schema    string
	Table     string
	Columns   []string
	Path      string
	Delimiter string
	HasHeader bool
}

func (*CopyFrom) isStatement() {}

// ShowTables is `SHOW TABLES`.
type ShowTables struct{}

func (*ShowTables) isStatement() {}

// DescribeTable is `DESCRIBE table`.
type DescribeTable struct {
	Table string
}

func (*DescribeTable) isStatement() {}

// ExplainKind distinguishes EXPLAIN from EXPLAIN ANALYZE.
type ExplainKind int

const (
	ExplainPlain ExplainKind = iota
	ExplainAnalyze
)

// Explain is `EXPLAIN [ANALYZE] statement`.
type Explain struct {
	Kind  ExplainKind
	Inner Statement
}

func (*Explain) isStatement() {}

// SelectItem is one projected expression, optionally aliased, or a
// wildcard ("*" or "alias.*").
type SelectItem struct {
	Expr       Expr
	Alias      string
	Wildcard   bool
	WildcardOf string // non-empty for "alias.*"
}

// TableRefKind distinguishes the three relation forms §4.1 binds.
type TableRefKind int

const (
	TableRefBase TableRefKind = iota
	TableRefFunction
	TableRefValues
	TableRefNone // FROM-less SELECT
	// TableRefCrossJoin is a comma-separated FROM list, e.g. `FROM t1, t2`:
	// parsing and binding support cross-product relations, but no ON/USING
	// condition or JOIN keyword is accepted — spec.md's Non-goals allow
	// leaving deeper join planning unimplemented.
	TableRefCrossJoin
)

// TableRef is one FROM-clause relation.
type TableRef struct {
	Kind        TableRefKind
	Schema      string
	Table       string // base table name
	Alias       string
	FuncName    string   // table-function name
	FuncArgs    []Expr   // positional args
	FuncKwArgs  map[string]Expr
	ValuesRows  [][]Expr // VALUES (...), (...)
	Refs        []*TableRef // TableRefCrossJoin members, left to right
}

// Select is a SELECT statement body plus LIMIT/OFFSET.
type Select struct {
	Items      []SelectItem
	From       *TableRef
	Where      Expr
	LimitExpr  Expr
	OffsetExpr Expr
}

func (*Select) isStatement() {}

// Expr is the untyped (pre-bind) expression tree produced by the parser
// adapter; internal/binder walks this to build sqlcore.Expression values.
type Expr interface{ isExpr() }

// Ident is an unqualified or qualified column reference, e.g. `x` or `t.x`.
type Ident struct {
	Qualifier string
	Name      string
}

func (*Ident) isExpr() {}

// LiteralKind tags the Go type stored in Literal.Value.
type LiteralKind int

const (
	LiteralNull LiteralKind = iota
	LiteralInt
	LiteralFloat
	LiteralString
	LiteralBool
)

// Literal is a constant value as written in SQL text.
type Literal struct {
	Kind  LiteralKind
	Int   int64
	Float float64
	Str   string
	Bool  bool
}

func (*Literal) isExpr() {}

// BinaryOp is one of the arithmetic/comparison/conjunction operators §4.1
// recognizes.
type BinaryOp string

const (
	OpAdd BinaryOp = "+"
	OpSub BinaryOp = "-"
	OpMul BinaryOp = "*"
	OpDiv BinaryOp = "/"

	OpEq    BinaryOp = "="
	OpNeq   BinaryOp = "<>"
	OpLt    BinaryOp = "<"
	OpLtEq  BinaryOp = "<="
	OpGt    BinaryOp = ">"
	OpGtEq  BinaryOp = ">="

	OpAnd BinaryOp = "AND"
	OpOr  BinaryOp = "OR"
)

// Binary is a two-operand expression; the binder dispatches on Op to
// decide whether it binds as Function, Comparison, or Conjunction.
type Binary struct {
	Op          BinaryOp
	Left, Right Expr
}

func (*Binary) isExpr() {}
