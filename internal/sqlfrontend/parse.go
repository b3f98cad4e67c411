package sqlfrontend

import (
	"strconv"
	"strings"

	"github.com/blastrain/vitess-sqlparser/sqlparser"

	"github.com/lychee-technology/sqlcore"
)

// Parse translates SQL text into a Statement tree. §6's surface includes
// three statement forms (COPY FROM, SHOW TABLES, DESCRIBE) that aren't
// part of the MySQL grammar the underlying parser implements, so those
// are recognized by keyword sniffing before falling through to the
// library parser for CREATE TABLE / INSERT / SELECT / EXPLAIN.
func Parse(sql string) (Statement, error) {
	trimmed := strings.TrimSpace(sql)
	trimmed = strings.TrimSuffix(trimmed, ";")
	upper := strings.ToUpper(trimmed)

	switch {
	case strings.HasPrefix(upper, "COPY "):
		return parseCopyFrom(trimmed)
	case strings.HasPrefix(upper, "SHOW TABLES"):
		return &ShowTables{}, nil
	case strings.HasPrefix(upper, "DESCRIBE ") || strings.HasPrefix(upper, "DESC "):
		return parseDescribe(trimmed)
	case strings.HasPrefix(upper, "EXPLAIN ANALYZE "):
		inner, err := Parse(trimmed[len("EXPLAIN ANALYZE "):])
		if err != nil {
			return nil, err
		}
		return &Explain{Kind: ExplainAnalyze, Inner: inner}, nil
	case strings.HasPrefix(upper, "EXPLAIN "):
		inner, err := Parse(trimmed[len("EXPLAIN "):])
		if err != nil {
			return nil, err
		}
		return &Explain{Kind: ExplainPlain, Inner: inner}, nil
	}

	stmt, err := sqlparser.Parse(trimmed)
	if err != nil {
		return nil, sqlcore.NewParseError(err.Error())
	}
	return translate(stmt)
}

func translate(stmt sqlparser.Statement) (Statement, error) {
	switch s := stmt.(type) {
	case *sqlparser.DDL:
		return translateDDL(s)
	case *sqlparser.Insert:
		return translateInsert(s)
	case *sqlparser.Select:
		return translateSelect(s)
	default:
		return nil, sqlcore.NewParseError("unsupported statement kind")
	}
}

func translateDDL(ddl *sqlparser.DDL) (Statement, error) {
	if ddl.Action != sqlparser.CreateStr {
		return nil, sqlcore.NewParseError("unsupported DDL action: " + ddl.Action)
	}
	if ddl.TableSpec == nil {
		return nil, sqlcore.NewParseError("CREATE TABLE requires a column list")
	}
	cols := make([]ColumnDef, 0, len(ddl.TableSpec.Columns))
	for _, c := range ddl.TableSpec.Columns {
		cols = append(cols, ColumnDef{
			Name:     c.Name.String(),
			TypeName: c.Type.Type,
			Nullable: !bool(c.Type.NotNull),
		})
	}
	return &CreateTable{
		Schema:  ddl.NewName.Qualifier.String(),
		Table:   ddl.NewName.Name.String(),
		Columns: cols,
	}, nil
}

func translateInsert(ins *sqlparser.Insert) (Statement, error) {
	cols := make([]string, 0, len(ins.Columns))
	for _, c := range ins.Columns {
		cols = append(cols, c.String())
	}

	var source Statement
	switch rows := ins.Rows.(type) {
	case sqlparser.Values:
		valueRows := make([][]Expr, 0, len(rows))
		for _, tuple := range rows {
			row := make([]Expr, 0, len(tuple))
			for _, e := range tuple {
				expr, err := translateExpr(e)
				if err != nil {
					return nil, err
				}
				row = append(row, expr)
			}
			valueRows = append(valueRows, row)
		}
		source = &Select{From: &TableRef{Kind: TableRefValues, ValuesRows: valueRows}}
	case *sqlparser.Select:
		translated, err := translateSelect(rows)
		if err != nil {
			return nil, err
		}
		source = translated
	default:
		return nil, sqlcore.NewParseError("unsupported INSERT source")
	}

	return &Insert{
		Schema:  ins.Table.Qualifier.String(),
		Table:   ins.Table.Name.String(),
		Columns: cols,
		Source:  source,
	}, nil
}

func translateSelect(sel *sqlparser.Select) (*Select, error) {
	items := make([]SelectItem, 0, len(sel.SelectExprs))
	for _, se := range sel.SelectExprs {
		switch e := se.(type) {
		case *sqlparser.StarExpr:
			items = append(items, SelectItem{Wildcard: true, WildcardOf: e.TableName.Name.String()})
		case *sqlparser.AliasedExpr:
			expr, err := translateExpr(e.Expr)
			if err != nil {
				return nil, err
			}
			items = append(items, SelectItem{Expr: expr, Alias: e.As.String()})
		default:
			return nil, sqlcore.NewParseError("unsupported select item")
		}
	}

	from, err := translateFrom(sel.From)
	if err != nil {
		return nil, err
	}

	var where Expr
	if sel.Where != nil {
		where, err = translateExpr(sel.Where.Expr)
		if err != nil {
			return nil, err
		}
	}

	var limitExpr, offsetExpr Expr
	if sel.Limit != nil {
		if sel.Limit.Rowcount != nil {
			limitExpr, err = translateExpr(sel.Limit.Rowcount)
			if err != nil {
				return nil, err
			}
		}
		if sel.Limit.Offset != nil {
			offsetExpr, err = translateExpr(sel.Limit.Offset)
			if err != nil {
				return nil, err
			}
		}
	}

	return &Select{Items: items, From: from, Where: where, LimitExpr: limitExpr, OffsetExpr: offsetExpr}, nil
}

func translateFrom(tables sqlparser.TableExprs) (*TableRef, error) {
	if len(tables) == 0 {
		return &TableRef{Kind: TableRefNone}, nil
	}
	if len(tables) == 1 {
		return translateFromItem(tables[0])
	}
	refs := make([]*TableRef, len(tables))
	for i, t := range tables {
		ref, err := translateFromItem(t)
		if err != nil {
			return nil, err
		}
		refs[i] = ref
	}
	return &TableRef{Kind: TableRefCrossJoin, Refs: refs}, nil
}

// translateFromItem translates one comma-separated FROM element. A
// `JoinTableExpr` (the `JOIN ... ON`/`USING` keyword form) is rejected —
// only the comma cross-product list is supported.
func translateFromItem(t sqlparser.TableExpr) (*TableRef, error) {
	aliased, ok := t.(*sqlparser.AliasedTableExpr)
	if !ok {
		return nil, sqlcore.NewParseError("unsupported FROM clause (joins are parsed but not deep-planned)")
	}
	alias := aliased.As.String()

	switch e := aliased.Expr.(type) {
	case sqlparser.TableName:
		return &TableRef{Kind: TableRefBase, Schema: e.Qualifier.String(), Table: e.Name.String(), Alias: alias}, nil
	default:
		return nil, sqlcore.NewParseError("unsupported table reference")
	}
}

func translateExpr(e sqlparser.Expr) (Expr, error) {
	switch v := e.(type) {
	case *sqlparser.ColName:
		return &Ident{Qualifier: v.Qualifier.Name.String(), Name: v.Name.String()}, nil
	case *sqlparser.SQLVal:
		return translateSQLVal(v)
	case *sqlparser.BinaryExpr:
		left, err := translateExpr(v.Left)
		if err != nil {
			return nil, err
		}
		right, err := translateExpr(v.Right)
		if err != nil {
			return nil, err
		}
		op, err := translateArithOp(v.Operator)
		if err != nil {
			return nil, err
		}
		return &Binary{Op: op, Left: left, Right: right}, nil
	case *sqlparser.ComparisonExpr:
		left, err := translateExpr(v.Left)
		if err != nil {
			return nil, err
		}
		right, err := translateExpr(v.Right)
		if err != nil {
			return nil, err
		}
		op, err := translateCompareOp(v.Operator)
		if err != nil {
			return nil, err
		}
		return &Binary{Op: op, Left: left, Right: right}, nil
	case *sqlparser.AndExpr:
		left, err := translateExpr(v.Left)
		if err != nil {
			return nil, err
		}
		right, err := translateExpr(v.Right)
		if err != nil {
			return nil, err
		}
		return &Binary{Op: OpAnd, Left: left, Right: right}, nil
	case *sqlparser.OrExpr:
		left, err := translateExpr(v.Left)
		if err != nil {
			return nil, err
		}
		right, err := translateExpr(v.Right)
		if err != nil {
			return nil, err
		}
		return &Binary{Op: OpOr, Left: left, Right: right}, nil
	case *sqlparser.ParenExpr:
		return translateExpr(v.Expr)
	case *sqlparser.NullVal:
		return &Literal{Kind: LiteralNull}, nil
	default:
		return nil, sqlcore.NewParseError("unsupported expression")
	}
}

func translateSQLVal(v *sqlparser.SQLVal) (Expr, error) {
	switch v.Type {
	case sqlparser.IntVal:
		n, err := strconv.ParseInt(string(v.Val), 10, 64)
		if err != nil {
			return nil, sqlcore.NewParseError("invalid integer literal: " + string(v.Val))
		}
		return &Literal{Kind: LiteralInt, Int: n}, nil
	case sqlparser.FloatVal:
		f, err := strconv.ParseFloat(string(v.Val), 64)
		if err != nil {
			return nil, sqlcore.NewParseError("invalid float literal: " + string(v.Val))
		}
		return &Literal{Kind: LiteralFloat, Float: f}, nil
	case sqlparser.StrVal:
		return &Literal{Kind: LiteralString, Str: string(v.Val)}, nil
	default:
		return nil, sqlcore.NewParseError("unsupported literal kind")
	}
}

func translateArithOp(op string) (BinaryOp, error) {
	switch op {
	case sqlparser.PlusStr:
		return OpAdd, nil
	case sqlparser.MinusStr:
		return OpSub, nil
	case sqlparser.MultStr:
		return OpMul, nil
	case sqlparser.DivStr:
		return OpDiv, nil
	default:
		return "", sqlcore.NewParseError("unsupported arithmetic operator: " + op)
	}
}

func translateCompareOp(op string) (BinaryOp, error) {
	switch op {
	case sqlparser.EqualStr:
		return OpEq, nil
	case sqlparser.NotEqualStr:
		return OpNeq, nil
	case sqlparser.LessThanStr:
		return OpLt, nil
	case sqlparser.LessEqualStr:
		return OpLtEq, nil
	case sqlparser.GreaterThanStr:
		return OpGt, nil
	case sqlparser.GreaterEqualStr:
		return OpGtEq, nil
	default:
		return "", sqlcore.NewParseError("unsupported comparison operator: " + op)
	}
}

// parseCopyFrom handles `COPY table [(cols)] FROM 'file' [WITH (DELIMITER
// 'x', HEADER bool)]` — syntax the underlying grammar doesn't parse, so
// this is a small hand-written scanner grounded on §6's fixed grammar.
func parseCopyFrom(sql string) (Statement, error) {
	rest := strings.TrimSpace(sql[len("COPY "):])
	openParen := strings.IndexByte(rest, '(')
	fromIdx := indexKeyword(rest, "FROM")
	if fromIdx < 0 {
		return nil, sqlcore.NewParseError("COPY statement missing FROM")
	}

	head := strings.TrimSpace(rest[:fromIdx])
	var table string
	var cols []string
	if openParen >= 0 && openParen < fromIdx {
		table = strings.TrimSpace(head[:openParen])
		closeParen := strings.IndexByte(head, ')')
		if closeParen < 0 {
			return nil, sqlcore.NewParseError("COPY statement missing closing paren")
		}
		colList := head[openParen+1 : closeParen]
		for _, c := range strings.Split(colList, ",") {
			cols = append(cols, strings.TrimSpace(c))
		}
	} else {
		table = head
	}

	after := strings.TrimSpace(rest[fromIdx+len("FROM"):])
	withIdx := indexKeyword(after, "WITH")
	pathPart := after
	var optionsPart string
	if withIdx >= 0 {
		pathPart = strings.TrimSpace(after[:withIdx])
		optionsPart = after[withIdx:]
	}
	path := strings.Trim(pathPart, "'\"")

	delim := ","
	header := true
	if optionsPart != "" {
		if idx := strings.Index(strings.ToUpper(optionsPart), "DELIMITER"); idx >= 0 {
			delim = extractQuoted(optionsPart[idx:])
		}
		if idx := strings.Index(strings.ToUpper(optionsPart), "HEADER"); idx >= 0 {
			end := idx + 20
			if end > len(optionsPart) {
				end = len(optionsPart)
			}
			header = strings.Contains(strings.ToUpper(optionsPart[idx:end]), "TRUE")
		}
	}

	schema, tbl := splitQualified(table)
	return &CopyFrom{Schema: schema, Table: tbl, Columns: cols, Path: path, Delimiter: delim, HasHeader: header}, nil
}

func parseDescribe(sql string) (Statement, error) {
	fields := strings.Fields(sql)
	if len(fields) < 2 {
		return nil, sqlcore.NewParseError("DESCRIBE requires a table name")
	}
	return &DescribeTable{Table: fields[1]}, nil
}

func indexKeyword(s, keyword string) int {
	upper := strings.ToUpper(s)
	return strings.Index(upper, keyword)
}

func extractQuoted(s string) string {
	first := strings.IndexByte(s, '\'')
	if first < 0 {
		return ","
	}
	rest := s[first+1:]
	second := strings.IndexByte(rest, '\'')
	if second < 0 {
		return ","
	}
	return rest[:second]
}

func splitQualified(name string) (schema, table string) {
	name = strings.TrimSpace(name)
	if idx := strings.IndexByte(name, '.'); idx >= 0 {
		return name[:idx], name[idx+1:]
	}
	return "", name
}
