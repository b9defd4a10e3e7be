package lexer

import (
	"testing"

	"erpc/idl/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(toks))
	for _, t := range toks {
		out = append(out, t.Kind)
	}
	return out
}

func TestTokenizeKeywordsAndIdents(t *testing.T) {
	toks, err := Tokenize("t.erpc", "interface Foo { int32 bar(in int32 x); }")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []token.Kind{
		token.KwInterface, token.Identifier, token.LBrace,
		token.Identifier, token.Identifier, token.LParen,
		token.KwIn, token.Identifier, token.Identifier, token.RParen,
		token.Semi, token.RBrace, token.EOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestTokenizeIntegerLiterals(t *testing.T) {
	cases := []struct {
		src  string
		want int64
	}{
		{"42", 42},
		{"0x2A", 42},
		{"0b101010", 42},
	}
	for _, c := range cases {
		toks, err := Tokenize("t.erpc", c.src)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", c.src, err)
		}
		if toks[0].Kind != token.IntegerLiteral {
			t.Fatalf("%s: expected integer literal, got %v", c.src, toks[0].Kind)
		}
		if toks[0].Value.Int != c.want {
			t.Fatalf("%s: got %d want %d", c.src, toks[0].Value.Int, c.want)
		}
	}
}

func TestTokenizeFloatLiteral(t *testing.T) {
	toks, err := Tokenize("t.erpc", "3.14")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Kind != token.FloatLiteral {
		t.Fatalf("expected float literal, got %v", toks[0].Kind)
	}
	if toks[0].Value.Float != 3.14 {
		t.Fatalf("got %v want 3.14", toks[0].Value.Float)
	}
}

func TestTokenizeStringEscapes(t *testing.T) {
	toks, err := Tokenize("t.erpc", `"hi\n\x41"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Kind != token.StringLiteral {
		t.Fatalf("expected string literal, got %v", toks[0].Kind)
	}
	if toks[0].Value.Str != "hi\nA" {
		t.Fatalf("got %q want %q", toks[0].Value.Str, "hi\nA")
	}
}

func TestTokenizeComments(t *testing.T) {
	toks, err := Tokenize("t.erpc", "// line comment\nconst /* block */ int32 x = 1;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := kinds(toks)
	want := []token.Kind{
		token.KwConst, token.Identifier, token.Identifier, token.Equals,
		token.IntegerLiteral, token.Semi, token.EOF,
	}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
}

func TestTokenizeUnterminatedStringIsError(t *testing.T) {
	_, err := Tokenize("t.erpc", `"unterminated`)
	if err == nil {
		t.Fatalf("expected error for unterminated string")
	}
}

func TestTokenizeShiftOperators(t *testing.T) {
	toks, err := Tokenize("t.erpc", "1 << 2 >> 3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := kinds(toks)
	want := []token.Kind{
		token.IntegerLiteral, token.Shl, token.IntegerLiteral,
		token.Shr, token.IntegerLiteral, token.EOF,
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func BenchmarkTokenize(b *testing.B) {
	src := "interface Foo { int32 bar(in int32 x, out string y); }"
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Tokenize("bench.erpc", src); err != nil {
			b.Fatal(err)
		}
	}
}
