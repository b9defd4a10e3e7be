// Package token defines the lexical token kinds and source locations shared
// by the eRPC IDL lexer and parser.
package token

import "fmt"

// Kind identifies the lexical class of a Token.
type Kind int

const (
	Invalid Kind = iota
	EOF

	Identifier
	IntegerLiteral
	FloatLiteral
	StringLiteral

	// Keywords
	KwProgram
	KwImport
	KwStruct
	KwUnion
	KwEnum
	KwInterface
	KwType
	KwConst
	KwIn
	KwOut
	KwInout
	KwByref
	KwOneway
	KwVoid
	KwTrue
	KwFalse

	// Punctuation / operators
	LBrace    // {
	RBrace    // }
	LParen    // (
	RParen    // )
	LBracket  // [
	RBracket  // ]
	Semi      // ;
	Comma     // ,
	Colon     // :
	Equals    // =
	Star      // *
	Amp       // &
	At        // @
	Dot       // .
	Plus      // +
	Minus     // -
	Slash     // /
	Percent   // %
	Pipe      // |
	Caret     // ^
	Tilde     // ~
	Shl       // <<
	Shr       // >>
	Lt        // <
	Gt        // >
	Bang      // !
	Question  // ?
)

var keywords = map[string]Kind{
	"program":   KwProgram,
	"import":    KwImport,
	"struct":    KwStruct,
	"union":     KwUnion,
	"enum":      KwEnum,
	"interface": KwInterface,
	"type":      KwType,
	"const":     KwConst,
	"in":        KwIn,
	"out":       KwOut,
	"inout":     KwInout,
	"byref":     KwByref,
	"oneway":    KwOneway,
	"void":      KwVoid,
	"true":      KwTrue,
	"false":     KwFalse,
}

// LookupKeyword returns the keyword Kind for ident, or (Identifier, false) if
// ident is not a reserved word.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	if !ok {
		return Identifier, false
	}
	return k, true
}

// Location is a source position: file name plus 1-based line and column.
type Location struct {
	File   string
	Line   int
	Column int
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// ValueKind tags the boxed literal value carried by some tokens.
type ValueKind int

const (
	NoValue ValueKind = iota
	IntValue
	FloatValue
	StringValue
)

// Value is the boxed literal a token or const expression carries. Integers
// track signedness and a declared width class so later promotion /
// truncation rules (spec.md §4.1) have enough information to apply.
type Value struct {
	Kind     ValueKind
	Int      int64
	Unsigned bool
	Width    int // 8, 16, 32, 64; 0 if not applicable
	Float    float64
	Str      string
}

func MakeInt(v int64, unsigned bool, width int) Value {
	return Value{Kind: IntValue, Int: v, Unsigned: unsigned, Width: width}
}

func MakeFloat(v float64) Value {
	return Value{Kind: FloatValue, Float: v}
}

func MakeString(v string) Value {
	return Value{Kind: StringValue, Str: v}
}

func (v Value) IsInt() bool   { return v.Kind == IntValue }
func (v Value) IsFloat() bool { return v.Kind == FloatValue }
func (v Value) IsString() bool { return v.Kind == StringValue }

// AsFloat returns the value coerced to float64, promoting an integer value.
func (v Value) AsFloat() float64 {
	if v.Kind == FloatValue {
		return v.Float
	}
	return float64(v.Int)
}

// Token is one lexical unit: a kind, the source text, its location, and an
// optional boxed literal value.
type Token struct {
	Kind     Kind
	Text     string
	Location Location
	Value    Value
	HasValue bool
}

func (t Token) String() string {
	return fmt.Sprintf("%v(%q)@%s", t.Kind, t.Text, t.Location)
}
