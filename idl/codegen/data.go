// BuildData flattens a resolved Program into the tmpl.Map shape the
// embedded per-language templates render against, mirroring how the
// original Generator base class built a cpptempl::data_map from an
// InterfaceDefinition before calling generateOutputFile
// (erpcgen/src/Generator.hpp).
package codegen

import (
	"erpc/idl/sema"
	"erpc/idl/tmpl"
	"erpc/idl/token"
	"erpc/idl/types"
)

// BuildData returns the root template scope for prog rendered in lang:
// programName, crc, consts, structs, enums, interfaces. crc is the
// CRC-16 of the original IDL source text (runtime/wire.ProgramCRC),
// computed by the caller since Program itself doesn't retain source text.
func BuildData(prog *sema.Program, lang Language, crc uint16) *tmpl.Map {
	root := tmpl.NewMap()
	root.Set("programName", tmpl.String(prog.Name))
	root.Set("crc", tmpl.Int(int64(crc)))

	var consts []tmpl.Value
	for _, c := range prog.Consts {
		consts = append(consts, tmpl.MapValue(constData(lang, c)))
	}
	root.Set("consts", tmpl.ListOf(consts...))

	var structs, enums []tmpl.Value
	for _, dt := range prog.DeclOrder {
		switch t := dt.(type) {
		case *types.Struct:
			structs = append(structs, tmpl.MapValue(structData(lang, t)))
		case *types.Union:
			structs = append(structs, tmpl.MapValue(structData(lang, t.Members)))
		case *types.Enum:
			enums = append(enums, tmpl.MapValue(enumData(lang, t)))
		}
	}
	root.Set("structs", tmpl.ListOf(structs...))
	root.Set("enums", tmpl.ListOf(enums...))

	var ifaces []tmpl.Value
	for _, iface := range prog.Interfaces {
		ifaces = append(ifaces, tmpl.MapValue(interfaceData(lang, iface)))
	}
	root.Set("interfaces", tmpl.ListOf(ifaces...))

	return root
}

func constData(lang Language, c *sema.Const) *tmpl.Map {
	m := tmpl.NewMap()
	m.Set("name", tmpl.String(EscapeIdent(lang, c.Name)))
	m.Set("type", tmpl.String(TypeName(lang, c.Type)))
	switch c.Value.Kind {
	case token.IntValue:
		m.Set("value", tmpl.String(formatInt(c.Value.Int)))
	case token.FloatValue:
		m.Set("value", tmpl.String(formatFloat(c.Value.Float)))
	default:
		m.Set("value", tmpl.String(c.Value.Str))
	}
	return m
}

func structData(lang Language, s *types.Struct) *tmpl.Map {
	m := tmpl.NewMap()
	m.Set("name", tmpl.String(EscapeIdent(lang, s.Name())))
	m.Set("fromBinary", tmpl.Bool(s.FromBinary))
	var members []tmpl.Value
	for _, mem := range s.Members {
		members = append(members, tmpl.MapValue(memberData(lang, mem)))
	}
	m.Set("members", tmpl.ListOf(members...))
	return m
}

func memberData(lang Language, mem *types.StructMember) *tmpl.Map {
	m := tmpl.NewMap()
	m.Set("name", tmpl.String(EscapeIdent(lang, mem.Name)))
	m.Set("type", tmpl.String(TypeName(lang, mem.Type)))
	m.Set("byRef", tmpl.Bool(mem.ByRef))
	m.Set("direction", tmpl.String(directionName(mem.Dir)))
	return m
}

func enumData(lang Language, e *types.Enum) *tmpl.Map {
	m := tmpl.NewMap()
	m.Set("name", tmpl.String(EscapeIdent(lang, e.Name())))
	var members []tmpl.Value
	for _, em := range e.Members {
		emm := tmpl.NewMap()
		emm.Set("name", tmpl.String(EscapeIdent(lang, em.Name)))
		emm.Set("value", tmpl.Int(em.Value))
		members = append(members, tmpl.MapValue(emm))
	}
	m.Set("members", tmpl.ListOf(members...))
	return m
}

func interfaceData(lang Language, iface *types.Interface) *tmpl.Map {
	m := tmpl.NewMap()
	m.Set("name", tmpl.String(EscapeIdent(lang, iface.Name())))
	m.Set("id", tmpl.Int(int64(iface.ID)))
	var fns []tmpl.Value
	for _, fn := range iface.Functions {
		fnm := tmpl.NewMap()
		fnm.Set("name", tmpl.String(EscapeIdent(lang, fn.Name)))
		fnm.Set("id", tmpl.Int(int64(fn.ID)))
		fnm.Set("oneway", tmpl.Bool(fn.Oneway))
		var params []tmpl.Value
		for _, p := range fn.Params.Members {
			params = append(params, tmpl.MapValue(memberData(lang, p)))
		}
		fnm.Set("params", tmpl.ListOf(params...))
		if fn.Return != nil {
			fnm.Set("returnType", tmpl.String(TypeName(lang, fn.Return.Type)))
		} else {
			fnm.Set("returnType", tmpl.String(voidName(lang)))
		}
		fns = append(fns, tmpl.MapValue(fnm))
	}
	m.Set("functions", tmpl.ListOf(fns...))
	return m
}

func directionName(d types.Direction) string {
	switch d {
	case types.DirIn:
		return "in"
	case types.DirOut:
		return "out"
	case types.DirInout:
		return "inout"
	case types.DirReturn:
		return "return"
	}
	return "in"
}
