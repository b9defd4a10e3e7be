package sema

import (
	"fmt"

	"erpc/idl/ast"
	"erpc/idl/types"
)

type analyzer struct {
	arena    *ast.Arena
	syms     map[string]types.DataType
	builtins map[types.BuiltinKind]*types.Builtin
	prog     *Program
	diags    []Diagnostic
}

// Analyze resolves the AST rooted at root into a Program. It returns the
// first fatal diagnostic as an error; non-fatal diagnostics (duplicate
// function ids, an @length target that does not name a sibling member) are
// always returned alongside whatever Program could be built.
func Analyze(arena *ast.Arena, root ast.ID) (*Program, []Diagnostic, error) {
	a := &analyzer{arena: arena, syms: map[string]types.DataType{}, builtins: map[types.BuiltinKind]*types.Builtin{}, prog: &Program{}}
	a.prog.Name = arena.Node(root).Name

	for _, c := range arena.Node(root).Children {
		a.registerPlaceholder(c)
	}
	for _, c := range arena.Node(root).Children {
		if err := a.define(c); err != nil {
			return a.prog, a.diags, err
		}
	}
	for _, d := range a.diags {
		if d.Fatal {
			return a.prog, a.diags, d
		}
	}
	return a.prog, a.diags, nil
}

func (a *analyzer) registerPlaceholder(id ast.ID) {
	n := a.arena.Node(id)
	switch n.Kind {
	case ast.KindStructDecl:
		a.syms[n.Name] = types.NewStruct(n.Name)
	case ast.KindUnionDecl:
		disc, _ := a.arena.Attr(id, "discriminator")
		a.syms[n.Name] = types.NewUnion(n.Name, disc.Str)
	case ast.KindEnumDecl:
		a.syms[n.Name] = types.NewEnum(n.Name)
	case ast.KindTypedef:
		inner := a.arena.Node(n.Children[0])
		switch inner.Kind {
		case ast.KindStructDecl:
			a.syms[n.Name] = types.NewStruct(n.Name)
		case ast.KindUnionDecl:
			disc, _ := a.arena.Attr(n.Children[0], "discriminator")
			a.syms[n.Name] = types.NewUnion(n.Name, disc.Str)
		case ast.KindEnumDecl:
			a.syms[n.Name] = types.NewEnum(n.Name)
		default:
			a.syms[n.Name] = types.NewAlias(n.Name, nil)
		}
	}
}

func (a *analyzer) define(id ast.ID) error {
	n := a.arena.Node(id)
	switch n.Kind {
	case ast.KindImport:
		a.prog.Imports = append(a.prog.Imports, n.Name)
		return nil

	case ast.KindAnnotation:
		return nil // program-level annotation; nothing to resolve

	case ast.KindStructDecl:
		s := a.syms[n.Name].(*types.Struct)
		if err := a.fillStructMembers(s, n.Children); err != nil {
			return err
		}
		a.prog.DeclOrder = append(a.prog.DeclOrder, s)
		return nil

	case ast.KindUnionDecl:
		u := a.syms[n.Name].(*types.Union)
		if err := a.fillUnionCases(u, n.Children); err != nil {
			return err
		}
		a.prog.DeclOrder = append(a.prog.DeclOrder, u)
		return nil

	case ast.KindEnumDecl:
		e := a.syms[n.Name].(*types.Enum)
		a.fillEnumMembers(e, n.Children)
		a.prog.DeclOrder = append(a.prog.DeclOrder, e)
		return nil

	case ast.KindTypedef:
		inner := a.arena.Node(n.Children[0])
		switch inner.Kind {
		case ast.KindStructDecl:
			s := a.syms[n.Name].(*types.Struct)
			if err := a.fillStructMembers(s, inner.Children); err != nil {
				return err
			}
			a.prog.DeclOrder = append(a.prog.DeclOrder, s)
		case ast.KindUnionDecl:
			u := a.syms[n.Name].(*types.Union)
			if err := a.fillUnionCases(u, inner.Children); err != nil {
				return err
			}
			a.prog.DeclOrder = append(a.prog.DeclOrder, u)
		case ast.KindEnumDecl:
			e := a.syms[n.Name].(*types.Enum)
			a.fillEnumMembers(e, inner.Children)
			a.prog.DeclOrder = append(a.prog.DeclOrder, e)
		default:
			target, err := a.resolveTypeRef(n.Children[0])
			if err != nil {
				return err
			}
			al := a.syms[n.Name].(*types.Alias)
			al.Elem = target
			a.prog.DeclOrder = append(a.prog.DeclOrder, al)
		}
		return nil

	case ast.KindConstDecl:
		declType, err := a.resolveTypeRef(n.Children[0])
		if err != nil {
			return err
		}
		v, _ := a.arena.Attr(id, "value")
		if b, ok := declType.(*types.Builtin); ok && b.BKind.IsInt() && v.IsFloat() {
			a.diags = append(a.diags, Diagnostic{Location: n.Token.Location, Msg: fmt.Sprintf("const %s declared as %s but initialized with a float value", n.Name, b.Name())})
		}
		a.prog.Consts = append(a.prog.Consts, &Const{Name: n.Name, Type: declType, Value: v})
		return nil

	case ast.KindInterfaceDecl:
		return a.defineInterface(n)
	}
	return nil
}

func (a *analyzer) fillStructMembers(s *types.Struct, memberIDs []ast.ID) error {
	for _, mid := range memberIDs {
		mn := a.arena.Node(mid)
		dt, err := a.resolveTypeRef(mn.Children[0])
		if err != nil {
			return err
		}
		dirAttr, _ := a.arena.Attr(mid, "dir")
		_, byref := a.arena.Attr(mid, "byref")
		m := &types.StructMember{
			Name:  mn.Name,
			Type:  dt,
			Dir:   parseDirection(dirAttr.Str),
			ByRef: byref,
		}
		for _, achild := range mn.Children[1:] {
			an := a.arena.Node(achild)
			if an.Kind != ast.KindAnnotation {
				continue
			}
			m.Annotations = append(m.Annotations, a.buildAnnotation(achild, an))
		}
		s.Members = append(s.Members, m)
	}
	finalizeStruct(s)
	a.validateLengthAnnotations(s)
	return nil
}

func (a *analyzer) fillUnionCases(u *types.Union, caseIDs []ast.ID) error {
	for _, cid := range caseIDs {
		cn := a.arena.Node(cid)
		var names []string
		for _, mid := range cn.Children {
			mn := a.arena.Node(mid)
			dt, err := a.resolveTypeRef(mn.Children[0])
			if err != nil {
				return err
			}
			if !u.AddMemberDeclaration(mn.Name, dt) {
				a.diags = append(a.diags, Diagnostic{
					Location: mn.Token.Location,
					Msg:      fmt.Sprintf("union %s: member %q redeclared with a conflicting type", u.Name(), mn.Name),
					Fatal:    true,
				})
			}
			names = append(names, mn.Name)
		}
		u.AddCase(cn.Name, names)
	}
	finalizeStruct(u.Members)
	return nil
}

func (a *analyzer) fillEnumMembers(e *types.Enum, memberIDs []ast.ID) {
	for _, mid := range memberIDs {
		mn := a.arena.Node(mid)
		v, has := a.arena.Attr(mid, "value")
		e.Members = append(e.Members, &types.EnumMember{Name: mn.Name, Value: v.Int, HasExplicit: has})
	}
	e.AssignValues()
}

func (a *analyzer) defineInterface(n *ast.Node) error {
	iface := types.NewInterface(n.Name)
	iface.ID = 1
	for _, prev := range a.prog.Interfaces {
		if prev.ID >= iface.ID {
			iface.ID = prev.ID + 1
		}
	}
	for _, fid := range n.Children {
		fn := a.arena.Node(fid)
		if fn.Kind == ast.KindAnnotation && fn.Name == "id" {
			v, _ := a.arena.Attr(fid, "value")
			iface.HasIDOver = true
			iface.ID = int(v.Int)
		}
		if fn.Kind != ast.KindFunctionDecl {
			continue // a leading @annotation on the interface itself
		}
		retType, err := a.resolveTypeRef(fn.Children[0])
		if err != nil {
			return err
		}
		f := &types.Function{Name: fn.Name}
		if retType.Kind() != types.KindVoid {
			f.Return = &types.StructMember{Name: "result", Type: retType, Dir: types.DirReturn}
		}
		if _, ok := a.arena.Attr(fid, "oneway"); ok {
			f.Oneway = true
		}
		f.Params = types.NewStruct(n.Name + "_" + fn.Name + "_params")
		for _, pid := range fn.Children[1:] {
			pn := a.arena.Node(pid)
			switch pn.Kind {
			case ast.KindParam:
				dt, err := a.resolveTypeRef(pn.Children[0])
				if err != nil {
					return err
				}
				dirAttr, _ := a.arena.Attr(pid, "dir")
				_, byref := a.arena.Attr(pid, "byref")
				pm := &types.StructMember{Name: pn.Name, Type: dt, Dir: parseDirection(dirAttr.Str), ByRef: byref}
				for _, achild := range pn.Children[1:] {
					an := a.arena.Node(achild)
					if an.Kind == ast.KindAnnotation {
						pm.Annotations = append(pm.Annotations, a.buildAnnotation(achild, an))
					}
				}
				f.Params.Members = append(f.Params.Members, pm)
			case ast.KindAnnotation:
				if pn.Name == "id" {
					v, _ := a.arena.Attr(pid, "value")
					f.HasIDOver = true
					f.ID = int(v.Int)
				}
				f.Annotations = append(f.Annotations, a.buildAnnotation(pid, pn))
			}
		}
		finalizeStruct(f.Params)
		iface.AddFunction(f)
	}
	for _, dup := range iface.DuplicateFunctionIDs() {
		a.diags = append(a.diags, Diagnostic{Location: n.Token.Location, Msg: fmt.Sprintf("interface %s: duplicate function id %d", iface.Name(), dup)})
	}
	a.prog.Interfaces = append(a.prog.Interfaces, iface)
	return nil
}

func (a *analyzer) buildAnnotation(id ast.ID, n *ast.Node) *types.Annotation {
	lang, _ := a.arena.Attr(id, "lang")
	v, has := a.arena.Attr(id, "value")
	ann := &types.Annotation{Name: n.Name, Lang: lang.Str, HasValue: has}
	if has {
		if v.IsString() {
			ann.Value = v.Str
		} else if v.IsInt() {
			ann.Value = fmt.Sprintf("%d", v.Int)
		} else {
			ann.Value = fmt.Sprintf("%v", v.Float)
		}
	}
	return ann
}

func parseDirection(s string) types.Direction {
	switch s {
	case "out":
		return types.DirOut
	case "inout":
		return types.DirInout
	}
	return types.DirIn
}

// validateLengthAnnotations checks that every @length(name) on a list
// member names a sibling integer-typed member of the same struct, and that
// @max_length carries an integer value, per spec.md §4.2.
func (a *analyzer) validateLengthAnnotations(s *types.Struct) {
	for _, m := range s.Members {
		if m.Type.Kind() != types.KindList {
			continue
		}
		if ann, ok := m.Annotation("length"); ok {
			sibling, found := s.Member(ann.Value)
			if !found {
				a.diags = append(a.diags, Diagnostic{Msg: fmt.Sprintf("struct %s: @length target %q on member %q does not name a sibling member", s.Name(), ann.Value, m.Name)})
				continue
			}
			if b, ok := sibling.Type.(*types.Builtin); !ok || !b.BKind.IsInt() {
				a.diags = append(a.diags, Diagnostic{Msg: fmt.Sprintf("struct %s: @length target %q for member %q is not an integer member", s.Name(), ann.Value, m.Name)})
			}
		}
		if ann, ok := m.Annotation("max_length"); ok {
			if _, err := parseIntAnnotation(ann.Value); err != nil {
				a.diags = append(a.diags, Diagnostic{Msg: fmt.Sprintf("struct %s: @max_length on member %q must be an integer, got %q", s.Name(), m.Name, ann.Value)})
			}
		}
	}
}

func parseIntAnnotation(s string) (int64, error) {
	var v int64
	_, err := fmt.Sscanf(s, "%d", &v)
	return v, err
}
