package function

import (
	"github.com/lychee-technology/sqlcore"
)

// Binder picks the best-matching overload for a call, per §4.3.
type Binder struct{}

func NewBinder() *Binder { return &Binder{} }

// Bind resolves fn's overload against the bound argument expressions'
// return types, wrapping each argument needing a widening in a Cast and
// returning a Function expression with the winning overload's return type.
func (b *Binder) Bind(fn *sqlcore.ScalarFunctionCatalogEntry, args []sqlcore.Expression, alias string) (*sqlcore.Function, error) {
	argTypes := make([]sqlcore.LogicalType, len(args))
	for i, a := range args {
		argTypes[i] = a.ReturnType()
	}

	best, bestCost, err := b.bindFromArguments(fn, argTypes)
	if err != nil {
		return nil, err
	}

	castArgs := make([]sqlcore.Expression, len(args))
	for i, a := range args {
		if a.ReturnType() == best.ArgTypes[i] {
			castArgs[i] = a
			continue
		}
		castArgs[i] = sqlcore.NewCast("", a, best.ArgTypes[i], false)
	}
	_ = bestCost

	return sqlcore.NewFunction(alias, best, castArgs, best.ReturnType), nil
}

// bindFromArguments implements the cost model of §4.3: per-argument cost is
// 0 if types are equal, 1 if from implicitly-casts to the overload's
// parameter type, and the whole overload is rejected (cost -1) if arity
// mismatches or any argument cannot implicitly cast. The winning overload
// is the one with the lowest total cost; a tie among overloads of equal
// best cost is Ambiguous; no surviving overload is NoMatch.
func (b *Binder) bindFromArguments(fn *sqlcore.ScalarFunctionCatalogEntry, argTypes []sqlcore.LogicalType) (*sqlcore.ScalarFunction, int, error) {
	bestCost := -1
	var best *sqlcore.ScalarFunction
	tiedCount := 0

	for _, candidate := range fn.Overload {
		cost, ok := callCost(candidate, argTypes)
		if !ok {
			continue
		}
		switch {
		case best == nil || cost < bestCost:
			best = candidate
			bestCost = cost
			tiedCount = 1
		case cost == bestCost:
			tiedCount++
		}
	}

	if best == nil {
		return nil, 0, sqlcore.NewNoMatchError("no matching overload for function " + fn.Name)
	}
	if tiedCount > 1 {
		return nil, 0, sqlcore.NewAmbiguousError("ambiguous overload for function " + fn.Name)
	}
	return best, bestCost, nil
}

// callCost returns (totalCost, true) if candidate's signature can accept
// argTypes, or (_, false) if rejected.
func callCost(candidate *sqlcore.ScalarFunction, argTypes []sqlcore.LogicalType) (int, bool) {
	if len(candidate.ArgTypes) != len(argTypes) {
		return 0, false
	}
	total := 0
	for i, want := range candidate.ArgTypes {
		got := argTypes[i]
		switch {
		case got == want:
			total += 0
		case sqlcore.CanImplicitCast(got, want):
			total += 1
		default:
			return 0, false
		}
	}
	return total, true
}
