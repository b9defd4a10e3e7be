package codegen

// Language selects which target emitter Generate renders for, mirroring
// the original erpcgen's CGenerator/PythonGenerator/RustGenerator split
// (erpcgen/src/{C,Python,Rust}Generator.hpp).
type Language int

const (
	LangC Language = iota
	LangPython
	LangRust
)

func (l Language) String() string {
	switch l {
	case LangC:
		return "c"
	case LangPython:
		return "python"
	case LangRust:
		return "rust"
	}
	return "unknown"
}

func (l Language) Extension() string {
	switch l {
	case LangC:
		return ".h"
	case LangPython:
		return ".py"
	case LangRust:
		return ".rs"
	}
	return ".txt"
}

var reservedWords = map[Language]map[string]bool{
	LangC: {
		"auto": true, "break": true, "case": true, "char": true, "const": true,
		"continue": true, "default": true, "do": true, "double": true, "else": true,
		"enum": true, "extern": true, "float": true, "for": true, "goto": true,
		"if": true, "int": true, "long": true, "register": true, "return": true,
		"short": true, "signed": true, "sizeof": true, "static": true, "struct": true,
		"switch": true, "typedef": true, "union": true, "unsigned": true, "void": true,
		"volatile": true, "while": true, "inline": true, "restrict": true,
	},
	LangPython: {
		"False": true, "None": true, "True": true, "and": true, "as": true,
		"assert": true, "async": true, "await": true, "break": true, "class": true,
		"continue": true, "def": true, "del": true, "elif": true, "else": true,
		"except": true, "finally": true, "for": true, "from": true, "global": true,
		"if": true, "import": true, "in": true, "is": true, "lambda": true,
		"nonlocal": true, "not": true, "or": true, "pass": true, "raise": true,
		"return": true, "try": true, "while": true, "with": true, "yield": true,
	},
	LangRust: {
		"as": true, "break": true, "const": true, "continue": true, "crate": true,
		"dyn": true, "else": true, "enum": true, "extern": true, "false": true,
		"fn": true, "for": true, "if": true, "impl": true, "in": true, "let": true,
		"loop": true, "match": true, "mod": true, "move": true, "mut": true,
		"pub": true, "ref": true, "return": true, "self": true, "Self": true,
		"static": true, "struct": true, "super": true, "trait": true, "true": true,
		"type": true, "unsafe": true, "use": true, "where": true, "while": true,
	},
}

// EscapeIdent returns name, or an escaped form that avoids colliding with a
// reserved word of lang: Rust gets its raw-identifier prefix (r#ident); C
// and Python follow the trailing-underscore convention.
func EscapeIdent(lang Language, name string) string {
	if !reservedWords[lang][name] {
		return name
	}
	if lang == LangRust {
		return "r#" + name
	}
	return name + "_"
}
