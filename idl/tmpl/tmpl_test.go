package tmpl

import (
	"strings"
	"testing"
)

func render(t *testing.T, src string, scope *Map) string {
	t.Helper()
	nodes, err := Parse(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	out, err := Render(nodes, scope)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	return out
}

func TestInterpolation(t *testing.T) {
	scope := NewMap()
	scope.Set("name", String("Widget"))
	got := render(t, "hello {$name}!", scope)
	if got != "hello Widget!" {
		t.Fatalf("got %q", got)
	}
}

func TestIfElifElse(t *testing.T) {
	tpl := "{% if x == 1 %}one{% elif x == 2 %}two{% else %}other{% endif %}"
	for x, want := range map[int64]string{1: "one", 2: "two", 3: "other"} {
		scope := NewMap()
		scope.Set("x", Int(x))
		if got := render(t, tpl, scope); got != want {
			t.Fatalf("x=%d: got %q want %q", x, got, want)
		}
	}
}

func TestForLoopVariables(t *testing.T) {
	scope := NewMap()
	scope.Set("items", ListOf(String("a"), String("b"), String("c")))
	tpl := "{% for it in items %}{$loop.index}:{$it}{% if not loop.last %},{% endif %}{% endfor %}"
	got := render(t, tpl, scope)
	if got != "1:a,2:b,3:c" {
		t.Fatalf("got %q", got)
	}
}

func TestForLoopFirstLastEven(t *testing.T) {
	scope := NewMap()
	scope.Set("items", ListOf(Int(10), Int(20)))
	tpl := "{% for n in items %}{% if loop.first %}F{% endif %}{% if loop.even %}E{% endif %}{% if loop.last %}L{% endif %}{% endfor %}"
	got := render(t, tpl, scope)
	if got != "FEL" {
		t.Fatalf("got %q", got)
	}
}

func TestDefAndCall(t *testing.T) {
	scope := NewMap()
	tpl := "{% def greet(name) %}Hi {$name}!{% enddef %}{$greet(\"World\")}"
	got := render(t, tpl, scope)
	if got != "Hi World!" {
		t.Fatalf("got %q", got)
	}
}

func TestSetStatement(t *testing.T) {
	scope := NewMap()
	tpl := "{% set total = 2 + 3 %}{$total}"
	got := render(t, tpl, scope)
	if got != "5" {
		t.Fatalf("got %q", got)
	}
}

func TestTrailingGTElidesFollowingNewline(t *testing.T) {
	scope := NewMap()
	scope.Set("x", Int(1))
	tpl := "{% if x == 1 >%}\nyes{% endif %}"
	got := render(t, tpl, scope)
	if got != "yes" {
		t.Fatalf("got %q", got)
	}
}

func TestLeadingGTElidesNewlineWhenEmpty(t *testing.T) {
	scope := NewMap()
	scope.Set("empty", String(""))
	tpl := "before{$>empty}\nafter"
	got := render(t, tpl, scope)
	if got != "beforeafter" {
		t.Fatalf("got %q", got)
	}
}

func TestLeadingGTKeepsNewlineWhenNonEmpty(t *testing.T) {
	scope := NewMap()
	scope.Set("v", String("x"))
	tpl := "before{$>v}\nafter"
	got := render(t, tpl, scope)
	if got != "beforex\nafter" {
		t.Fatalf("got %q", got)
	}
}

func TestCommentOnlyInsideStatementTag(t *testing.T) {
	scope := NewMap()
	scope.Set("v", String("-- not a comment"))
	tpl := "{$v} {% set x = 1 -- trailing comment\n%}{$x}"
	got := render(t, tpl, scope)
	if got != "-- not a comment 1" {
		t.Fatalf("got %q", got)
	}
}

func TestBuiltinFunctions(t *testing.T) {
	scope := NewMap()
	scope.Set("items", ListOf(Int(1), Int(2), Int(3)))
	scope.Set("name", String("widget"))
	cases := map[string]string{
		`{$count(items)}`:      "3",
		`{$empty(items)}`:      "false",
		`{$defined(missing)}`:  "false",
		`{$defined(name)}`:     "true",
		`{$upper(name)}`:       "WIDGET",
		`{$lower("LOUD")}`:     "loud",
		`{$capitalize(name)}`: "Widget",
		`{$str(42)}`:           "42",
		`{$int("x")}`:          "0",
	}
	for tpl, want := range cases {
		if got := render(t, tpl, scope); got != want {
			t.Fatalf("%s: got %q want %q", tpl, got, want)
		}
	}
}

func TestAddIndentIndentsNonEmptyLines(t *testing.T) {
	scope := NewMap()
	scope.Set("body", String("a\n\nb"))
	got := render(t, `{$addIndent("  ", body)}`, scope)
	want := "  a\n\n  b"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestDivisionAndModuloByZeroYieldZero(t *testing.T) {
	scope := NewMap()
	got := render(t, "{$1 / 0} {$1 % 0}", scope)
	if got != "0 0" {
		t.Fatalf("got %q", got)
	}
}

func TestParentScopeFallback(t *testing.T) {
	parent := NewMap()
	parent.Set("shared", String("from-parent"))
	child := NewChildMap(parent)
	child.Set("local", String("from-child"))
	got := render(t, "{$local} {$shared}", child)
	if got != "from-child from-parent" {
		t.Fatalf("got %q", got)
	}
}

func TestConcatOperator(t *testing.T) {
	scope := NewMap()
	scope.Set("a", String("foo"))
	scope.Set("b", String("bar"))
	got := render(t, `{$a & "-" & b}`, scope)
	if got != "foo-bar" {
		t.Fatalf("got %q", got)
	}
}

func TestUndefinedPathRendersEmpty(t *testing.T) {
	scope := NewMap()
	got := render(t, "[{$missing}]", scope)
	if got != "[]" {
		t.Fatalf("got %q", got)
	}
}

func TestNestedMapPathResolution(t *testing.T) {
	inner := NewMap()
	inner.Set("field", String("value"))
	scope := NewMap()
	scope.Set("outer", MapValue(inner))
	got := render(t, "{$outer.field}", scope)
	if got != "value" {
		t.Fatalf("got %q", got)
	}
}

func TestMapSetPathCreatesIntermediateMaps(t *testing.T) {
	m := NewMap()
	ok := m.SetPath([]string{"a", "b", "c"}, Int(7), true)
	if !ok {
		t.Fatalf("expected SetPath to succeed")
	}
	v, ok := m.GetPath([]string{"a", "b", "c"})
	if !ok || v.AsInt() != 7 {
		t.Fatalf("expected nested value 7, got %+v ok=%v", v, ok)
	}
}

func TestMultilineTemplateForLoop(t *testing.T) {
	scope := NewMap()
	scope.Set("lines", ListOf(String("one"), String("two")))
	tpl := "{% for l in lines %}{$l}\n{% endfor %}"
	got := render(t, tpl, scope)
	if !strings.Contains(got, "one\n") || !strings.Contains(got, "two\n") {
		t.Fatalf("got %q", got)
	}
}
