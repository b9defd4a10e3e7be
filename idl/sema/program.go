// Package sema implements the bottom-up symbol scanner of spec.md §4.2: it
// walks the parser's AST, resolves every type reference against a symbol
// table seeded with the builtin scalar types, reconciles forward
// declarations, folds union case clauses into the deduplicated member
// struct spec.md §3 describes, propagates the containsList/containsString
// flags the code emitters rely on, and assigns per-interface function ids.
package sema

import (
	"erpc/idl/token"
	"erpc/idl/types"
)

// Const is a fully resolved top-level `const` declaration.
type Const struct {
	Name  string
	Type  types.DataType
	Value token.Value
}

// Program is the fully resolved symbol table for one compilation unit,
// ready to hand to idl/codegen.
type Program struct {
	Name       string
	Imports    []string
	Consts     []*Const
	Interfaces []*types.Interface
	// DeclOrder lists every named struct/union/enum/alias in file
	// declaration order, which the emitters use to decide forward
	// declarations and #include/import ordering in generated code.
	DeclOrder []types.DataType
}

// Diagnostic is a sema-stage finding. Fatal diagnostics stop Analyze from
// returning a usable Program; non-fatal ones (duplicate function ids,
// suspicious @length targets) are collected and returned alongside it.
type Diagnostic struct {
	Location token.Location
	Msg      string
	Fatal    bool
}

func (d Diagnostic) Error() string {
	return d.Location.String() + ": " + d.Msg
}
