package sema

import (
	"fmt"

	"erpc/idl/ast"
	"erpc/idl/types"
)

var builtinByName = map[string]types.BuiltinKind{
	"bool": types.Bool,
	"int8": types.I8, "int16": types.I16, "int32": types.I32, "int64": types.I64,
	"uint8": types.U8, "uint16": types.U16, "uint32": types.U32, "uint64": types.U64,
	"float": types.F32, "double": types.F64,
	"string": types.StringT, "ustring": types.UstringT, "binary": types.BinaryT,
}

// internBuiltin returns the shared *Builtin for bk, creating it on first
// use. Builtins are interned the same way named struct/enum/union types
// are already shared via a.syms, so that two type references to the same
// builtin kind (e.g. two union cases each declaring an "i32 v" member)
// compare pointer-equal in Union.AddMemberDeclaration instead of each
// producing a fresh *Builtin that spuriously looks like a conflicting type.
func (a *analyzer) internBuiltin(bk types.BuiltinKind) *types.Builtin {
	if b, ok := a.builtins[bk]; ok {
		return b
	}
	b := types.NewBuiltin(bk)
	a.builtins[bk] = b
	return b
}

// resolveTypeRef walks a KindTypeRef / KindArrayTypeRef / KindListTypeRef
// subtree and returns the DataType it denotes, looking named references up
// in the symbol table built during the placeholder-registration pass.
func (a *analyzer) resolveTypeRef(id ast.ID) (types.DataType, error) {
	n := a.arena.Node(id)
	switch n.Kind {
	case ast.KindListTypeRef:
		elem, err := a.resolveTypeRef(n.Children[0])
		if err != nil {
			return nil, err
		}
		return types.NewList(elem), nil

	case ast.KindArrayTypeRef:
		elem, err := a.resolveTypeRef(n.Children[0])
		if err != nil {
			return nil, err
		}
		count, _ := a.arena.Attr(id, "count")
		return types.NewArray(elem, count.Int), nil

	case ast.KindTypeRef:
		if n.Name == "void" {
			return types.NewVoid(), nil
		}
		if bk, ok := builtinByName[n.Name]; ok {
			return a.internBuiltin(bk), nil
		}
		if dt, ok := a.syms[n.Name]; ok {
			return dt, nil
		}
		return nil, fmt.Errorf("%s: undefined type %q", n.Token.Location, n.Name)
	}
	return nil, fmt.Errorf("%s: expected a type reference", n.Token.Location)
}

// typeContainsList reports whether dt's wire representation embeds a
// variable-length list anywhere in its structure, per spec.md §4.4's
// containsList flag.
func typeContainsList(dt types.DataType) bool {
	switch t := dt.TrueType().(type) {
	case *types.List:
		return true
	case *types.Array:
		return typeContainsList(t.Elem)
	case *types.Struct:
		return t.ContainsList
	case *types.Union:
		return t.Members.ContainsList
	}
	return false
}

// typeContainsString mirrors typeContainsList for string/ustring members.
func typeContainsString(dt types.DataType) bool {
	switch t := dt.TrueType().(type) {
	case *types.Builtin:
		return t.BKind == types.StringT || t.BKind == types.UstringT
	case *types.Array:
		return typeContainsString(t.Elem)
	case *types.List:
		return typeContainsString(t.Elem)
	case *types.Struct:
		return t.ContainsString
	case *types.Union:
		return t.Members.ContainsString
	}
	return false
}

// finalizeStruct computes the aggregate containsList/containsString flags
// for s from its already-populated Members, and records per-member flags
// too (the emitters check both levels: spec.md §4.4).
func finalizeStruct(s *types.Struct) {
	for _, m := range s.Members {
		m.ContainsList = typeContainsList(m.Type)
		m.ContainsString = typeContainsString(m.Type)
		if m.ContainsList {
			s.ContainsList = true
		}
		if m.ContainsString {
			s.ContainsString = true
		}
	}
}
