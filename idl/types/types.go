// Package types implements the DataType variant family of spec.md §3,
// grounded on erpcgen/src/types/*.hpp from the original eRPC C++ sources:
// each historical C++ subclass of DataType becomes a Go struct satisfying
// the DataType interface, and the old isXxx() virtual-dispatch family
// becomes a Kind() switch plus a handful of narrow helper methods.
package types

// Kind enumerates the DataType variants of spec.md §3.
type Kind int

const (
	KindAlias Kind = iota
	KindArray
	KindBuiltin
	KindEnum
	KindFunctionType
	KindList
	KindStruct
	KindUnion
	KindVoid
)

func (k Kind) String() string {
	switch k {
	case KindAlias:
		return "alias"
	case KindArray:
		return "array"
	case KindBuiltin:
		return "builtin"
	case KindEnum:
		return "enum"
	case KindFunctionType:
		return "function"
	case KindList:
		return "list"
	case KindStruct:
		return "struct"
	case KindUnion:
		return "union"
	case KindVoid:
		return "void"
	}
	return "unknown"
}

// BuiltinKind enumerates the scalar builtin kinds of spec.md §3.
type BuiltinKind int

const (
	Bool BuiltinKind = iota
	I8
	I16
	I32
	I64
	U8
	U16
	U32
	U64
	F32
	F64
	StringT
	UstringT
	BinaryT
)

var builtinNames = map[BuiltinKind]string{
	Bool: "bool", I8: "int8", I16: "int16", I32: "int32", I64: "int64",
	U8: "uint8", U16: "uint16", U32: "uint32", U64: "uint64",
	F32: "float", F64: "double", StringT: "string", UstringT: "ustring", BinaryT: "binary",
}

func (b BuiltinKind) String() string { return builtinNames[b] }

// IsInt reports whether b is one of the signed/unsigned integer kinds.
func (b BuiltinKind) IsInt() bool {
	switch b {
	case I8, I16, I32, I64, U8, U16, U32, U64:
		return true
	}
	return false
}

// IsFloat reports whether b is f32 or f64.
func (b BuiltinKind) IsFloat() bool { return b == F32 || b == F64 }

// IsUnsigned reports whether b is one of the unsigned integer kinds.
func (b BuiltinKind) IsUnsigned() bool {
	switch b {
	case U8, U16, U32, U64:
		return true
	}
	return false
}

// Width returns the bit width of an integer or float kind, or 0.
func (b BuiltinKind) Width() int {
	switch b {
	case I8, U8:
		return 8
	case I16, U16:
		return 16
	case I32, U32, F32:
		return 32
	case I64, U64, F64:
		return 64
	}
	return 0
}

// DataType is the common interface satisfied by every type variant. It
// mirrors the isXxx() predicate family of the original DataType base class
// (erpcgen/src/types/DataType.hpp) as a Kind() switch plus scalar/container
// helpers, rather than one method per variant.
type DataType interface {
	Kind() Kind
	Name() string
	SetName(string)
	// TrueType unwraps Alias chains, mirroring getTrueDataType().
	TrueType() DataType
	IsScalar() bool
}

type base struct {
	name string
}

func (b *base) Name() string     { return b.name }
func (b *base) SetName(n string) { b.name = n }

// Alias is a typedef: a name bound to another DataType.
type Alias struct {
	base
	Elem DataType
}

func NewAlias(name string, elem DataType) *Alias {
	a := &Alias{Elem: elem}
	a.name = name
	return a
}

func (a *Alias) Kind() Kind        { return KindAlias }
func (a *Alias) IsScalar() bool    { return a.Elem != nil && a.Elem.IsScalar() }
func (a *Alias) TrueType() DataType {
	t := a.Elem
	for {
		if al, ok := t.(*Alias); ok {
			t = al.Elem
			continue
		}
		return t
	}
}

// Builtin is one of the scalar/container primitive kinds of spec.md §3.
type Builtin struct {
	base
	BKind BuiltinKind
}

func NewBuiltin(k BuiltinKind) *Builtin {
	b := &Builtin{BKind: k}
	b.name = k.String()
	return b
}

func (b *Builtin) Kind() Kind         { return KindBuiltin }
func (b *Builtin) TrueType() DataType { return b }
func (b *Builtin) IsScalar() bool {
	return b.BKind != StringT && b.BKind != UstringT && b.BKind != BinaryT
}

// Void is the empty/no-value type, used for functions without a return.
type Void struct{ base }

func NewVoid() *Void {
	v := &Void{}
	v.name = "void"
	return v
}

func (v *Void) Kind() Kind         { return KindVoid }
func (v *Void) TrueType() DataType { return v }
func (v *Void) IsScalar() bool     { return false }

// Array is a fixed-length homogeneous container: ElemCount is a
// compile-time constant, unlike List.
type Array struct {
	base
	Elem      DataType
	ElemCount int64
}

func NewArray(elem DataType, count int64) *Array {
	a := &Array{Elem: elem, ElemCount: count}
	return a
}

func (a *Array) Kind() Kind         { return KindArray }
func (a *Array) TrueType() DataType { return a }
func (a *Array) IsScalar() bool     { return false }

// List is a variable-length homogeneous container, optionally carrying a
// @length annotation resolved during semantic analysis (spec.md §3, §4.2).
type List struct {
	base
	Elem DataType
	// LengthMember, when non-empty, is the name of the struct member (or
	// global const) supplying the dynamic element count, per @length.
	LengthMember string
	MaxLength    int64
	HasMaxLength bool
	// FromBinary marks a list<u8> synthesized by the codegen binary->list
	// rewrite (spec.md's binary-to-list pre-emission transform), so the
	// rewrite stays reversible: emitters can tell a genuine list<u8> from
	// a rewritten binary member.
	FromBinary bool
}

func NewList(elem DataType) *List {
	return &List{Elem: elem}
}

func (l *List) Kind() Kind         { return KindList }
func (l *List) TrueType() DataType { return l }
func (l *List) IsScalar() bool     { return false }

// FunctionType represents a callback type (spec.md §3): a parameter/return
// shape against which concrete Function symbols are registered.
type FunctionType struct {
	base
	Params     []*StructMember
	Return     DataType
	Registered []*Function // concrete callbacks, in declaration order (wire index)
}

func NewFunctionType(name string) *FunctionType {
	f := &FunctionType{}
	f.name = name
	return f
}

func (f *FunctionType) Kind() Kind         { return KindFunctionType }
func (f *FunctionType) TrueType() DataType { return f }
func (f *FunctionType) IsScalar() bool     { return false }

// Direction is a struct member's parameter-passing direction.
type Direction int

const (
	DirIn Direction = iota
	DirOut
	DirInout
	DirReturn
)

// Annotation attaches metadata to a symbol (spec.md §4.1 annotation table).
type Annotation struct {
	Name     string
	HasValue bool
	Value    string
	Lang     string // "all", "c", "py", ... per spec.md §4.1
}

// StructMember is one field of a Struct (or of a Union's deduplicated
// member struct).
type StructMember struct {
	Name           string
	Type           DataType
	Dir            Direction
	ByRef          bool
	ContainsList   bool
	ContainsString bool
	Annotations    []*Annotation
}

func (m *StructMember) Annotation(name string) (*Annotation, bool) {
	for _, a := range m.Annotations {
		if a.Name == name {
			return a, true
		}
	}
	return nil, false
}

// Struct owns an ordered member list plus the precomputed containsList /
// containsString flags the code emitters need to decide whether
// deserialization requires heap allocation (spec.md §4.4).
type Struct struct {
	base
	Members        []*StructMember
	ContainsList   bool
	ContainsString bool
	Shared         bool
	External       bool
	// FromBinary marks a struct synthesized to wrap an unlength-annotated
	// binary member (spec.md's binary-to-list pre-emission transform).
	FromBinary bool
}

func NewStruct(name string) *Struct {
	s := &Struct{}
	s.name = name
	return s
}

func (s *Struct) Kind() Kind         { return KindStruct }
func (s *Struct) TrueType() DataType { return s }
func (s *Struct) IsScalar() bool     { return false }

func (s *Struct) Member(name string) (*StructMember, bool) {
	for _, m := range s.Members {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// UnionCase is one case label ("default" is a reserved label meaning the
// no-payload default arm) mapped to the set of member names selected by
// that label, per spec.md §3.
type UnionCase struct {
	Label       string
	MemberNames []string
}

const DefaultCaseLabel = "default"

// Union is a discriminated union, encapsulated or non-encapsulated per
// spec.md §3. Members is the de-duplicated struct of actual wire members;
// Cases maps each case label to the subset of Members it selects.
type Union struct {
	base
	// DiscriminatorName names the discriminator field for an encapsulated
	// union (found in the surrounding struct) or, for a non-encapsulated
	// union, is empty — use DiscriminatorAnnotationRef instead.
	DiscriminatorName          string
	DiscriminatorAnnotationRef string
	DiscriminatorType          DataType
	Cases                      []*UnionCase
	Members                    *Struct
	ParentStruct               *Struct
	Shared                     bool
}

func NewUnion(name, discriminatorName string) *Union {
	u := &Union{DiscriminatorName: discriminatorName}
	u.name = name
	u.Members = NewStruct("(union)")
	return u
}

func (u *Union) Kind() Kind         { return KindUnion }
func (u *Union) TrueType() DataType { return u }
func (u *Union) IsScalar() bool     { return false }

// IsNonEncapsulated reports whether the discriminator comes from an
// @discriminator annotation at the use site rather than a sibling struct
// field, per spec.md §3.
func (u *Union) IsNonEncapsulated() bool { return u.DiscriminatorName == "" }

// AddCase registers a case label against a set of member names, merging
// into an existing case with the same label if one exists.
func (u *Union) AddCase(label string, memberNames []string) {
	for _, c := range u.Cases {
		if c.Label == label {
			c.MemberNames = append(c.MemberNames, memberNames...)
			return
		}
	}
	u.Cases = append(u.Cases, &UnionCase{Label: label, MemberNames: memberNames})
}

// AddMemberDeclaration adds name/dataType to the de-duplicated member
// struct if no member of that name already exists, mirroring
// UnionType::addUnionMemberDeclaration in the original source. It returns
// false if a member with the same name but a conflicting type already
// exists.
func (u *Union) AddMemberDeclaration(name string, dt DataType) bool {
	if existing, ok := u.Members.Member(name); ok {
		return existing.Type == dt
	}
	u.Members.Members = append(u.Members.Members, &StructMember{Name: name, Type: dt})
	return true
}

// EnumMember is one named value of an Enum.
type EnumMember struct {
	Name        string
	Value       int64
	HasExplicit bool
}

// Enum owns an ordered member list; unset values take the previous value+1
// starting at 0, per spec.md §3.
type Enum struct {
	base
	Members []*EnumMember
}

func NewEnum(name string) *Enum {
	e := &Enum{}
	e.name = name
	return e
}

func (e *Enum) Kind() Kind         { return KindEnum }
func (e *Enum) TrueType() DataType { return e }
func (e *Enum) IsScalar() bool     { return true }

// AssignValues fills in members without an explicit value, walking in
// declaration order.
func (e *Enum) AssignValues() {
	var next int64
	for _, m := range e.Members {
		if m.HasExplicit {
			next = m.Value + 1
			continue
		}
		m.Value = next
		next++
	}
}

// Function is one operation of an Interface: spec.md §3 — a unique id, a
// parameter struct, an optional return member, a oneway flag, and a
// back-pointer to its owning interface.
type Function struct {
	Name      string
	ID        int
	HasIDOver bool // true if @id(n) overrode the auto-assigned id
	Params    *Struct
	Return    *StructMember // nil for void
	Oneway    bool
	Interface *Interface
	Annotations []*Annotation
}

func (f *Function) Annotation(name string) (*Annotation, bool) {
	for _, a := range f.Annotations {
		if a.Name == name {
			return a, true
		}
	}
	return nil, false
}

// Interface owns a list of Function symbols and has an id of its own, per
// spec.md §3: idl/sema assigns the next id after the highest one used by an
// earlier interface of the program, unless an @id annotation overrides it.
type Interface struct {
	base
	ID          int
	HasIDOver   bool
	Functions   []*Function
	nextFuncID  int
}

func NewInterface(name string) *Interface {
	i := &Interface{}
	i.name = name
	i.nextFuncID = 1
	return i
}

// AddFunction appends fn, assigning it the next per-interface id unless it
// already carries an @id override. Per spec.md §4.2 and the Open Question
// decision recorded in SPEC_FULL.md, the counter is per-Interface, not a
// process-wide static.
func (i *Interface) AddFunction(fn *Function) {
	if !fn.HasIDOver {
		fn.ID = i.nextFuncID
		i.nextFuncID++
	} else if fn.ID >= i.nextFuncID {
		i.nextFuncID = fn.ID + 1
	}
	fn.Interface = i
	i.Functions = append(i.Functions, fn)
}

// DuplicateFunctionIDs returns the ids that more than one function in i
// shares, for the duplicate-id warning spec.md §4.2 requires.
func (i *Interface) DuplicateFunctionIDs() []int {
	seen := map[int]int{}
	for _, f := range i.Functions {
		seen[f.ID]++
	}
	var dups []int
	for id, n := range seen {
		if n > 1 {
			dups = append(dups, id)
		}
	}
	return dups
}
