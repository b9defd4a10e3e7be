package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"erpc/idl/types"
)

// TypeName renders dt as a type reference in lang's syntax, escaping any
// identifier that collides with a reserved word.
func TypeName(lang Language, dt types.DataType) string {
	switch t := dt.(type) {
	case *types.Builtin:
		return builtinName(lang, t.BKind)
	case *types.Void:
		return voidName(lang)
	case *types.Alias:
		return EscapeIdent(lang, t.Name())
	case *types.Array:
		return arrayName(lang, t)
	case *types.List:
		return listName(lang, t)
	case *types.Struct, *types.Union, *types.Enum, *types.FunctionType:
		return EscapeIdent(lang, dt.Name())
	}
	return EscapeIdent(lang, dt.Name())
}

func builtinName(lang Language, k types.BuiltinKind) string {
	switch lang {
	case LangC:
		switch k {
		case types.Bool:
			return "bool"
		case types.I8, types.I16, types.I32, types.I64, types.U8, types.U16, types.U32, types.U64:
			return fmt.Sprintf("%sint%d_t", map[bool]string{true: "u", false: ""}[k.IsUnsigned()], k.Width())
		case types.F32:
			return "float"
		case types.F64:
			return "double"
		case types.StringT, types.UstringT:
			return "char *"
		case types.BinaryT:
			return "uint8_t *"
		}
	case LangPython:
		switch k {
		case types.Bool:
			return "bool"
		case types.F32, types.F64:
			return "float"
		case types.StringT, types.UstringT:
			return "str"
		case types.BinaryT:
			return "bytes"
		default:
			return "int"
		}
	case LangRust:
		switch k {
		case types.Bool:
			return "bool"
		case types.I8, types.I16, types.I32, types.I64, types.U8, types.U16, types.U32, types.U64:
			return fmt.Sprintf("%s%d", map[bool]string{true: "u", false: "i"}[k.IsUnsigned()], k.Width())
		case types.F32:
			return "f32"
		case types.F64:
			return "f64"
		case types.StringT, types.UstringT:
			return "String"
		case types.BinaryT:
			return "Vec<u8>"
		}
	}
	return k.String()
}

func voidName(lang Language) string {
	switch lang {
	case LangC:
		return "void"
	case LangPython:
		return "None"
	case LangRust:
		return "()"
	}
	return "void"
}

func arrayName(lang Language, a *types.Array) string {
	elem := TypeName(lang, a.Elem)
	switch lang {
	case LangC:
		return fmt.Sprintf("%s[%d]", elem, a.ElemCount)
	case LangPython:
		return fmt.Sprintf("List[%s]", elem)
	case LangRust:
		return fmt.Sprintf("[%s; %d]", elem, a.ElemCount)
	}
	return elem
}

func listName(lang Language, l *types.List) string {
	elem := TypeName(lang, l.Elem)
	switch lang {
	case LangC:
		return elem + " *"
	case LangPython:
		return fmt.Sprintf("List[%s]", elem)
	case LangRust:
		return fmt.Sprintf("Vec<%s>", elem)
	}
	return elem
}

func formatInt(v int64) string { return strconv.FormatInt(v, 10) }

func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
