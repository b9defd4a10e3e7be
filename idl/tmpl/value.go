// Package tmpl implements the dynamic-typed template engine of spec.md
// §4.3: every code emitter in idl/codegen drives one instance of this
// engine per output file. It is deliberately not a general scripting
// runtime — spec.md is explicit that DataValue and dotted-path/parent-scope
// lookup are the only semantics worth generalizing.
package tmpl

import "fmt"

// ValueKind tags the DataValue tagged union of spec.md §4.3.
type ValueKind int

const (
	KindUndefined ValueKind = iota
	KindBool
	KindInt
	KindString
	KindList
	KindMap
	KindTemplate
)

// Value is the polymorphic DataValue spec.md §4.3 describes. Only the
// field matching Kind is meaningful.
type Value struct {
	Kind ValueKind
	Bool bool
	Int  int64
	Str  string
	List []Value
	Map  *Map
	Tmpl *Template
}

func Bool(b bool) Value   { return Value{Kind: KindBool, Bool: b} }
func Int(i int64) Value   { return Value{Kind: KindInt, Int: i} }
func String(s string) Value { return Value{Kind: KindString, Str: s} }
func ListOf(vs ...Value) Value { return Value{Kind: KindList, List: vs} }
func MapValue(m *Map) Value { return Value{Kind: KindMap, Map: m} }
func TemplateValue(t *Template) Value { return Value{Kind: KindTemplate, Tmpl: t} }

// Truthy implements the engine's notion of truthiness for `if`/`and`/`or`.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindUndefined:
		return false
	case KindBool:
		return v.Bool
	case KindInt:
		return v.Int != 0
	case KindString:
		return v.Str != ""
	case KindList:
		return len(v.List) > 0
	case KindMap:
		return v.Map != nil && len(v.Map.keys) > 0
	case KindTemplate:
		return v.Tmpl != nil
	}
	return false
}

// AsString renders v the way `{$path}` interpolation and the `str()`
// builtin do.
func (v Value) AsString() string {
	switch v.Kind {
	case KindUndefined:
		return ""
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindInt:
		return fmt.Sprintf("%d", v.Int)
	case KindString:
		return v.Str
	case KindList:
		out := "["
		for i, e := range v.List {
			if i > 0 {
				out += ", "
			}
			out += e.AsString()
		}
		return out + "]"
	case KindMap:
		return v.Map.dump()
	case KindTemplate:
		return "<template>"
	}
	return ""
}

// AsInt coerces v to an integer for arithmetic, per the engine's loose
// numeric coercion (a bool yields 1 or 0; strings, lists and maps have no
// integer meaning and yield 0).
func (v Value) AsInt() int64 {
	switch v.Kind {
	case KindInt:
		return v.Int
	case KindBool:
		if v.Bool {
			return 1
		}
		return 0
	}
	return 0
}

// Map is an insertion-ordered string-keyed map with an optional parent for
// scoped lookups: a miss in the child map falls through to the parent, per
// spec.md §4.3.
type Map struct {
	parent *Map
	keys   []string
	values map[string]Value
}

// NewMap returns an empty Map with no parent (a root scope).
func NewMap() *Map {
	return &Map{values: map[string]Value{}}
}

// NewChildMap returns an empty Map scoped under parent.
func NewChildMap(parent *Map) *Map {
	return &Map{parent: parent, values: map[string]Value{}}
}

// Set stores v under key, appending key to the insertion order only the
// first time it is set.
func (m *Map) Set(key string, v Value) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// Get looks up key in m, falling through to m.parent on a miss.
func (m *Map) Get(key string) (Value, bool) {
	if v, ok := m.values[key]; ok {
		return v, true
	}
	if m.parent != nil {
		return m.parent.Get(key)
	}
	return Value{}, false
}

// GetPath resolves a dotted path (`a.b.c`) against m, stepping through
// nested maps, and falling through parent scopes at the first segment.
func (m *Map) GetPath(path []string) (Value, bool) {
	if len(path) == 0 {
		return Value{}, false
	}
	v, ok := m.Get(path[0])
	if !ok {
		return Value{}, false
	}
	for _, seg := range path[1:] {
		if v.Kind != KindMap {
			return Value{}, false
		}
		v, ok = v.Map.values[seg]
		if !ok {
			return Value{}, false
		}
	}
	return v, true
}

// SetPath assigns v at a dotted path, creating intermediate maps as it
// goes when create is true (the `{% set %}` semantics of spec.md §4.3).
func (m *Map) SetPath(path []string, v Value, create bool) bool {
	if len(path) == 0 {
		return false
	}
	if len(path) == 1 {
		m.Set(path[0], v)
		return true
	}
	next, ok := m.values[path[0]]
	if !ok || next.Kind != KindMap {
		if !create {
			return false
		}
		next = MapValue(NewChildMap(m))
		m.Set(path[0], next)
	}
	return next.Map.SetPath(path[1:], v, create)
}

func (m *Map) dump() string {
	out := "{"
	for i, k := range m.keys {
		if i > 0 {
			out += ", "
		}
		out += k + ": " + m.values[k].AsString()
	}
	return out + "}"
}

// Template is a subtemplate registered with `{% def name(p, q) %}…{%
// enddef %}`, callable as `{$name(args)}`.
type Template struct {
	Params []string
	Body   []Node
}
