package codegen

import (
	"testing"

	"erpc/idl/types"
)

func TestBuildDataListsStructsEnumsAndInterfaces(t *testing.T) {
	prog := mustAnalyze(t, `
		program Shapes;

		const int32 kMax = 10;

		enum Color { kRed, kGreen, kBlue }

		struct Point {
			int32 x;
			int32 y;
		}

		interface Shapes {
			int32 area(in Point p);
		}
	`)
	scope := BuildData(prog, LangC, 0x1234)

	v, ok := scope.Get("programName")
	if !ok || v.AsString() == "" {
		t.Fatalf("expected a non-empty programName")
	}
	structs, ok := scope.Get("structs")
	if !ok || len(structs.List) != 1 {
		t.Fatalf("expected 1 struct, got %+v", structs)
	}
	enums, ok := scope.Get("enums")
	if !ok || len(enums.List) != 1 {
		t.Fatalf("expected 1 enum, got %+v", enums)
	}
	ifaces, ok := scope.Get("interfaces")
	if !ok || len(ifaces.List) != 1 {
		t.Fatalf("expected 1 interface, got %+v", ifaces)
	}
	crc, ok := scope.Get("crc")
	if !ok || crc.AsInt() != 0x1234 {
		t.Fatalf("expected crc 0x1234, got %+v", crc)
	}
}

func TestEscapeIdentAvoidsReservedWords(t *testing.T) {
	if got := EscapeIdent(LangC, "struct"); got != "struct_" {
		t.Fatalf("got %q", got)
	}
	if got := EscapeIdent(LangRust, "type"); got != "r#type" {
		t.Fatalf("got %q", got)
	}
	if got := EscapeIdent(LangPython, "widget"); got != "widget" {
		t.Fatalf("expected non-reserved identifier unchanged, got %q", got)
	}
}

func TestTypeNamePerLanguage(t *testing.T) {
	cases := []struct {
		lang Language
		want string
	}{
		{LangC, "uint32_t"},
		{LangPython, "int"},
		{LangRust, "u32"},
	}
	for _, c := range cases {
		if got := builtinName(c.lang, types.U32); got != c.want {
			t.Fatalf("lang %v: got %q want %q", c.lang, got, c.want)
		}
	}
}
