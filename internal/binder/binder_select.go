package binder

import (
	"strings"

	"github.com/lychee-technology/sqlcore"
	"github.com/lychee-technology/sqlcore/internal/logical"
	"github.com/lychee-technology/sqlcore/internal/sqlfrontend"
)

// bindSelect implements §4.1's SELECT-body binding order: star expansion,
// alias map, WHERE (which may reference select-list aliases), projection,
// then LIMIT/OFFSET constant folding.
func (b *Binder) bindSelect(s *sqlfrontend.Select) (logical.Plan, error) {
	var source logical.Plan
	var err error
	switch {
	case s.From == nil || s.From.Kind == sqlfrontend.TableRefNone:
		source, err = b.bindDummyScan()
	default:
		source, err = b.bindTableRef(s.From)
	}
	if err != nil {
		return nil, err
	}

	items, err := b.expandItems(s.Items)
	if err != nil {
		return nil, err
	}

	aliasMap := make(map[string]int, len(items))
	for i, item := range items {
		if item.Alias != "" {
			aliasMap[item.Alias] = i
		}
	}
	eb := newExprBinder(b.ctx, b.functions()).withAliasMap(aliasMap, items)

	var plan logical.Plan = source
	if s.Where != nil {
		pred, err := eb.bind(s.Where)
		if err != nil {
			return nil, err
		}
		if pred.ReturnType() != sqlcore.Boolean {
			pred = sqlcore.NewCast("", pred, sqlcore.Boolean, true)
		}
		plan = logical.NewFilter(pred, plan)
	}

	projExprs := make([]sqlcore.Expression, len(items))
	for i, item := range items {
		expr, err := eb.bind(item.Expr)
		if err != nil {
			return nil, err
		}
		if item.Alias != "" {
			expr = withAlias(expr, item.Alias)
		}
		projExprs[i] = expr
	}
	projTableIdx := b.generateTableIndex()
	plan = logical.NewProjection(projTableIdx, projExprs, plan)

	if s.LimitExpr != nil || s.OffsetExpr != nil {
		plan, err = b.bindLimit(plan, s.LimitExpr, s.OffsetExpr)
		if err != nil {
			return nil, err
		}
	}

	return plan, nil
}

// withAlias rewraps an already-bound expression with a new alias string,
// since exprBase.alias is set at construction and Expression exposes no
// setter (invariant (a) of §3.4: alias is fixed once computed).
func withAlias(e sqlcore.Expression, alias string) sqlcore.Expression {
	switch v := e.(type) {
	case *sqlcore.ColumnRef:
		return sqlcore.NewColumnRef(alias, v.Binding, v.Depth, v.ReturnType())
	case *sqlcore.Constant:
		return sqlcore.NewConstant(alias, v.Value)
	case *sqlcore.Function:
		return sqlcore.NewFunction(alias, v.Function, v.Args, v.ReturnType())
	case *sqlcore.Cast:
		return sqlcore.NewCast(alias, v.Child, v.TargetType, v.TryCast)
	case *sqlcore.Comparison:
		return sqlcore.NewComparison(alias, v.Left, v.Right, v.Function)
	case *sqlcore.Conjunction:
		return sqlcore.NewConjunction(alias, v.Args, v.Kind)
	default:
		return e
	}
}

func (b *Binder) bindLimit(child logical.Plan, limitExpr, offsetExpr sqlfrontend.Expr) (logical.Plan, error) {
	eb := newExprBinder(b.ctx, b.functions())
	var limitVal, offsetVal uint64
	var boundLimit, boundOffset sqlcore.Expression

	if limitExpr != nil {
		bound, err := eb.bind(limitExpr)
		if err != nil {
			return nil, err
		}
		boundLimit = bound
		folded, err := ExecuteScalar(bound)
		if err != nil {
			return nil, sqlcore.NewInternalError("LIMIT must fold to a constant: " + err.Error())
		}
		limitVal, err = folded.AsUint64()
		if err != nil {
			return nil, sqlcore.NewInternalError("LIMIT value is not coercible to u64: " + err.Error())
		}
	} else {
		limitVal = ^uint64(0)
	}

	if offsetExpr != nil {
		bound, err := eb.bind(offsetExpr)
		if err != nil {
			return nil, err
		}
		boundOffset = bound
		folded, err := ExecuteScalar(bound)
		if err != nil {
			return nil, sqlcore.NewInternalError("OFFSET must fold to a constant: " + err.Error())
		}
		offsetVal, err = folded.AsUint64()
		if err != nil {
			return nil, sqlcore.NewInternalError("OFFSET value is not coercible to u64: " + err.Error())
		}
	}

	return logical.NewLimit(limitVal, offsetVal, boundLimit, boundOffset, child), nil
}

// expandItems expands wildcards in select-list order before any other
// binding happens, per §4.1 step 1.
func (b *Binder) expandItems(items []sqlfrontend.SelectItem) ([]sqlfrontend.SelectItem, error) {
	var out []sqlfrontend.SelectItem
	for _, item := range items {
		if !item.Wildcard {
			out = append(out, item)
			continue
		}
		expanded, err := b.ctx.ExpandStar(item.WildcardOf)
		if err != nil {
			return nil, err
		}
		for _, col := range expanded {
			out = append(out, sqlfrontend.SelectItem{Expr: &sqlfrontend.Ident{Qualifier: col.Alias, Name: col.ColumnName}})
		}
	}
	return out, nil
}

func (b *Binder) bindDummyScan() (logical.Plan, error) {
	tableIdx := b.generateTableIndex()
	if err := b.ctx.AddBinding(NewBinding("", tableIdx, nil, nil)); err != nil {
		return nil, err
	}
	return logical.NewDummyScan(tableIdx, nil), nil
}

// bindTableRef resolves base table / table function / VALUES relations,
// including the .csv replacement-scan rewrite of §4.1.
func (b *Binder) bindTableRef(ref *sqlfrontend.TableRef) (logical.Plan, error) {
	switch ref.Kind {
	case sqlfrontend.TableRefBase:
		return b.bindBaseTable(ref)
	case sqlfrontend.TableRefFunction:
		return b.bindTableFunction(ref)
	case sqlfrontend.TableRefValues:
		return b.bindValues(ref)
	case sqlfrontend.TableRefCrossJoin:
		return b.bindCrossJoin(ref)
	default:
		return b.bindDummyScan()
	}
}

// bindCrossJoin binds a comma-separated FROM list left to right, folding
// it into a left-deep tree of logical.CrossJoin nodes. Each member binds
// into the same BindContext before the next is bound, so an unqualified
// column reference later in the SELECT list sees every table in scope at
// once — exactly what makes GetMatchingBinding's existing ambiguity check
// fire across tables instead of only within one.
func (b *Binder) bindCrossJoin(ref *sqlfrontend.TableRef) (logical.Plan, error) {
	if len(ref.Refs) < 2 {
		return nil, sqlcore.NewInternalError("cross join requires at least two table references")
	}
	plan, err := b.bindTableRef(ref.Refs[0])
	if err != nil {
		return nil, err
	}
	for _, member := range ref.Refs[1:] {
		right, err := b.bindTableRef(member)
		if err != nil {
			return nil, err
		}
		plan = logical.NewCrossJoin(plan, right)
	}
	return plan, nil
}

func (b *Binder) bindBaseTable(ref *sqlfrontend.TableRef) (logical.Plan, error) {
	schema := ref.Schema
	if schema == "" {
		schema = b.defaultSchema
	}
	entry, err := b.catalog.GetTable(schema, ref.Table)
	if err != nil {
		if strings.HasSuffix(strings.ToLower(ref.Table), ".csv") {
			stem := strings.TrimSuffix(ref.Table, ".csv")
			rewritten := &sqlfrontend.TableRef{
				Kind:     sqlfrontend.TableRefFunction,
				Alias:    ref.Alias,
				FuncName: "read_csv",
				FuncArgs: []sqlfrontend.Expr{&sqlfrontend.Literal{Kind: sqlfrontend.LiteralString, Str: ref.Table}},
			}
			if rewritten.Alias == "" {
				rewritten.Alias = stem
			}
			return b.bindTableFunction(rewritten)
		}
		return nil, err
	}

	seqScan, err := b.catalog.GetTableFunction(b.defaultSchema, "seq_table_scan")
	if err != nil {
		return nil, err
	}
	names, types, bindData, err := seqScan.Bind([]sqlcore.ScalarValue{sqlcore.NewVarcharScalar(schema + "." + ref.Table)})
	if err != nil {
		return nil, err
	}

	tableIdx := b.generateTableIndex()
	alias := ref.Alias
	if alias == "" {
		alias = ref.Table
	}
	if err := b.ctx.AddBinding(NewBinding(alias, tableIdx, names, types)); err != nil {
		return nil, err
	}
	_ = entry
	return logical.NewGet(tableIdx, seqScan, bindData, types, names), nil
}

func (b *Binder) bindTableFunction(ref *sqlfrontend.TableRef) (logical.Plan, error) {
	fn, err := b.catalog.GetTableFunction(b.defaultSchema, ref.FuncName)
	if err != nil {
		return nil, err
	}
	eb := newExprBinder(b.ctx, b.functions())
	args := make([]sqlcore.ScalarValue, 0, len(ref.FuncArgs))
	for _, a := range ref.FuncArgs {
		bound, err := eb.bind(a)
		if err != nil {
			return nil, err
		}
		v, err := ExecuteScalar(bound)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	names, types, bindData, err := fn.Bind(args)
	if err != nil {
		return nil, err
	}
	tableIdx := b.generateTableIndex()
	alias := ref.Alias
	if alias == "" {
		alias = ref.FuncName
	}
	if err := b.ctx.AddBinding(NewBinding(alias, tableIdx, names, types)); err != nil {
		return nil, err
	}
	return logical.NewGet(tableIdx, fn, bindData, types, names), nil
}

func (b *Binder) bindValues(ref *sqlfrontend.TableRef) (logical.Plan, error) {
	if len(ref.ValuesRows) == 0 {
		return nil, sqlcore.NewBindError(sqlcore.ErrCodeUnsupported, "VALUES requires at least one row")
	}
	eb := newExprBinder(b.ctx, b.functions())
	width := len(ref.ValuesRows[0])
	rows := make([][]sqlcore.Expression, len(ref.ValuesRows))
	exprTypes := make([]sqlcore.LogicalType, width)
	for r, row := range ref.ValuesRows {
		if len(row) != width {
			return nil, sqlcore.NewBindError(sqlcore.ErrCodeUnsupported, "VALUES rows must have matching width")
		}
		bound := make([]sqlcore.Expression, width)
		for c, e := range row {
			expr, err := eb.bind(e)
			if err != nil {
				return nil, err
			}
			bound[c] = expr
			if r == 0 {
				exprTypes[c] = expr.ReturnType()
			} else if expr.ReturnType() != exprTypes[c] {
				common, err := sqlcore.MaxCommonType(exprTypes[c], expr.ReturnType())
				if err != nil {
					return nil, err
				}
				exprTypes[c] = common
			}
		}
		rows[r] = bound
	}
	names := make([]string, width)
	for i := range names {
		names[i] = "column" + itoa(i+1)
	}
	tableIdx := b.generateTableIndex()
	if err := b.ctx.AddBinding(NewBinding(ref.Alias, tableIdx, names, exprTypes)); err != nil {
		return nil, err
	}
	return logical.NewExpressionGet(tableIdx, exprTypes, rows), nil
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

func renderPlan(p logical.Plan) string {
	var sb strings.Builder
	renderPlanNode(&sb, p, 0)
	return sb.String()
}

func renderPlanNode(sb *strings.Builder, p logical.Plan, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(planNodeName(p))
	sb.WriteByte('\n')
	for _, c := range p.Children() {
		renderPlanNode(sb, c, depth+1)
	}
}

func planNodeName(p logical.Plan) string {
	switch p.(type) {
	case *logical.CreateTable:
		return "CreateTable"
	case *logical.Insert:
		return "Insert"
	case *logical.Get:
		return "Get"
	case *logical.ExpressionGet:
		return "ExpressionGet"
	case *logical.Projection:
		return "Projection"
	case *logical.Filter:
		return "Filter"
	case *logical.Limit:
		return "Limit"
	case *logical.DummyScan:
		return "DummyScan"
	case *logical.CrossJoin:
		return "CrossJoin"
	case *logical.Explain:
		return "Explain"
	default:
		return "Unknown"
	}
}
