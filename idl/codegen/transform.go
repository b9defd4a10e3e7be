// Pre-emission transforms required by spec.md before a Program reaches a
// language emitter. Anonymous-alias folding (an alias whose element is an
// anonymous struct/enum takes the alias's name and the alias node itself
// disappears) is already done at the sema stage: Analyze binds a typedef's
// name directly onto the anonymous struct/enum it wraps and never produces
// an Alias node for that case (see sema.Analyze, idl/sema/sema_test.go's
// TestAnalyzeTypedefAnonymousStruct). The one transform left for codegen is
// the binary->list rewrite.
package codegen

import (
	"strconv"

	"erpc/idl/sema"
	"erpc/idl/types"
)

// rewriteBinary walks every struct reachable from prog — top-level structs
// and unions in DeclOrder, plus each interface function's parameter struct
// and return member — and replaces any member typed binary with a list<u8>
// equivalent, per spec.md: a binary carrying @length(x) becomes a
// list<u8> with the same length annotation; a binary without @length is
// wrapped in a synthesized struct holding a single list<u8> member. Both
// forms are marked FromBinary so the transform stays reversible.
func rewriteBinary(prog *sema.Program) {
	synthesized := map[string]bool{}

	rewriteStruct := func(s *types.Struct) {
		for _, m := range s.Members {
			rewriteMember(prog, m, m.Annotation, synthesized)
		}
	}

	for _, dt := range prog.DeclOrder {
		switch t := dt.(type) {
		case *types.Struct:
			rewriteStruct(t)
		case *types.Union:
			rewriteStruct(t.Members)
		}
	}
	for _, iface := range prog.Interfaces {
		for _, fn := range iface.Functions {
			if fn.Params != nil {
				rewriteStruct(fn.Params)
			}
			if fn.Return != nil {
				// A leading @length on a function declaration parses as
				// one of the function's own annotations (parseFunctionDecl
				// attaches it to the function node), not to the return
				// StructMember sema synthesizes — so the return case looks
				// up its @length/@max_length on fn, not fn.Return.
				rewriteMember(prog, fn.Return, fn.Annotation, synthesized)
			}
		}
	}
}

func rewriteMember(prog *sema.Program, m *types.StructMember, annotation func(string) (*types.Annotation, bool), synthesized map[string]bool) {
	b, ok := m.Type.(*types.Builtin)
	if !ok || b.BKind != types.BinaryT {
		return
	}

	if ann, ok := annotation("length"); ok {
		list := types.NewList(types.NewBuiltin(types.U8))
		list.LengthMember = ann.Value
		list.FromBinary = true
		if maxAnn, ok := annotation("max_length"); ok {
			if n, err := strconv.ParseInt(maxAnn.Value, 10, 64); err == nil {
				list.HasMaxLength = true
				list.MaxLength = n
			}
		}
		m.Type = list
		return
	}

	wrapperName := m.Name + "Binary"
	for synthesized[wrapperName] {
		wrapperName += "_"
	}
	synthesized[wrapperName] = true

	wrapper := types.NewStruct(wrapperName)
	wrapper.FromBinary = true
	list := types.NewList(types.NewBuiltin(types.U8))
	list.FromBinary = true
	wrapper.Members = []*types.StructMember{{Name: "data", Type: list}}
	wrapper.ContainsList = true

	m.Type = wrapper
	prog.DeclOrder = append(prog.DeclOrder, wrapper)
}
