// Package binder implements the Binder and BindContext of §4.1: SQL
// parse-tree statements in, bound logical plans (package
// internal/logical) out. Grounded on
// original_source/src/planner_v2/{mod.rs,binder/*.rs,expression_binder.rs}.
package binder

import (
	"github.com/lychee-technology/sqlcore"
)

// Binding is one named relation in scope: an alias, the table_idx that
// identifies it in ColumnBinding, and its projected (names, types).
type Binding struct {
	Alias   string
	TableIdx int
	Types   []sqlcore.LogicalType
	Names   []string
	nameMap map[string]int
}

func NewBinding(alias string, tableIdx int, names []string, types []sqlcore.LogicalType) *Binding {
	nameMap := make(map[string]int, len(names))
	for i, n := range names {
		nameMap[n] = i
	}
	return &Binding{Alias: alias, TableIdx: tableIdx, Types: types, Names: names, nameMap: nameMap}
}

// ColumnIndex returns the position of name within this binding, or -1.
func (b *Binding) ColumnIndex(name string) int {
	if idx, ok := b.nameMap[name]; ok {
		return idx
	}
	return -1
}

// BindContext holds per-query scope: an insertion-ordered binding list
// plus an alias index, per §4.1.
type BindContext struct {
	bindings []*Binding
	byAlias  map[string]*Binding
}

func NewBindContext() *BindContext {
	return &BindContext{byAlias: make(map[string]*Binding)}
}

// AddBinding registers a new binding; fails Internal if alias is already
// present in this scope.
func (c *BindContext) AddBinding(b *Binding) error {
	if b.Alias != "" {
		if _, exists := c.byAlias[b.Alias]; exists {
			return sqlcore.NewInternalError("duplicate table alias in scope: " + b.Alias)
		}
	}
	c.bindings = append(c.bindings, b)
	if b.Alias != "" {
		c.byAlias[b.Alias] = b
	}
	return nil
}

// GetBinding looks up a binding by alias.
func (c *BindContext) GetBinding(alias string) (*Binding, bool) {
	b, ok := c.byAlias[alias]
	return b, ok
}

// GetMatchingBinding scans every binding in scope for one containing
// columnName, failing Ambiguous if more than one matches and
// ColumnNotFound if none do.
func (c *BindContext) GetMatchingBinding(columnName string) (*Binding, int, error) {
	var found *Binding
	var foundIdx int
	for _, b := range c.bindings {
		if idx := b.ColumnIndex(columnName); idx >= 0 {
			if found != nil {
				return nil, 0, sqlcore.NewAmbiguousError("ambiguous column reference: " + columnName)
			}
			found = b
			foundIdx = idx
		}
	}
	if found == nil {
		return nil, 0, sqlcore.NewColumnNotFoundError("column not found: " + columnName)
	}
	return found, foundIdx, nil
}

// BindColumn produces a ColumnRef for (alias, columnName); alias == ""
// triggers unqualified lookup via GetMatchingBinding.
func (c *BindContext) BindColumn(alias, columnName string) (*sqlcore.ColumnRef, error) {
	if alias == "" {
		b, idx, err := c.GetMatchingBinding(columnName)
		if err != nil {
			return nil, err
		}
		return sqlcore.NewColumnRef(columnName, sqlcore.ColumnBinding{TableIdx: b.TableIdx, ColumnIdx: idx}, 0, b.Types[idx]), nil
	}
	b, ok := c.GetBinding(alias)
	if !ok {
		return nil, sqlcore.NewColumnNotFoundError("unknown table alias: " + alias)
	}
	idx := b.ColumnIndex(columnName)
	if idx < 0 {
		return nil, sqlcore.NewColumnNotFoundError("column not found: " + alias + "." + columnName)
	}
	return sqlcore.NewColumnRef(columnName, sqlcore.ColumnBinding{TableIdx: b.TableIdx, ColumnIdx: idx}, 0, b.Types[idx]), nil
}

// ExpandedColumn is one (alias, columnName) pair produced by star
// expansion, preserving binding insertion order and per-binding column
// order.
type ExpandedColumn struct {
	Alias      string
	ColumnName string
}

// ExpandStar lists every column in scope (optionally restricted to one
// alias, for "alias.*").
func (c *BindContext) ExpandStar(onlyAlias string) ([]ExpandedColumn, error) {
	var out []ExpandedColumn
	if onlyAlias != "" {
		b, ok := c.GetBinding(onlyAlias)
		if !ok {
			return nil, sqlcore.NewColumnNotFoundError("unknown table alias: " + onlyAlias)
		}
		for _, n := range b.Names {
			out = append(out, ExpandedColumn{Alias: onlyAlias, ColumnName: n})
		}
		return out, nil
	}
	for _, b := range c.bindings {
		for _, n := range b.Names {
			out = append(out, ExpandedColumn{Alias: b.Alias, ColumnName: n})
		}
	}
	return out, nil
}
