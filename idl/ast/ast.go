// Package ast implements the homogeneous AST node defined in spec.md §3.
//
// The original eRPC generator models the tree with raw parent/child
// pointers. Per the Design Notes (spec.md §9), this port stores nodes in a
// single arena (a slice owned by the compilation unit) and represents
// parent/child/interface links as integer ids rather than pointers, which
// sidesteps Go's lack of a raw-pointer-cycle-safe ownership model without
// reaching for anything heavier than a slice and an int.
package ast

import "erpc/idl/token"

// NodeKind distinguishes the syntactic role of a Node. The parser assigns
// one of these to every node it creates; the semantic analyser switches on
// it when walking the tree.
type NodeKind int

const (
	KindInvalid NodeKind = iota
	KindProgram
	KindImport
	KindConstDecl
	KindTypedef
	KindStructDecl
	KindStructMember
	KindUnionDecl
	KindUnionCase
	KindEnumDecl
	KindEnumMember
	KindInterfaceDecl
	KindFunctionDecl
	KindParam
	KindAnnotation
	KindTypeRef
	KindArrayTypeRef
	KindListTypeRef
	KindExpr
	KindIdentList
)

// ID identifies a Node within an Arena: its index in allocation order,
// starting at 0. NoID (-1) never refers to a real node.
type ID int

const NoID ID = -1

// Node is the single node type used for the entire AST, as required by
// spec.md §3: a token, an ordered child list, a weak parent reference, and
// a string-keyed attribute map of boxed Values.
type Node struct {
	Kind       NodeKind
	Token      token.Token
	Children   []ID
	Parent     ID
	Attrs      map[string]token.Value
	Name       string // convenience: the declared identifier, when applicable
}

// Arena owns every Node created while parsing one compilation unit (one
// top-level IDL file; import declarations are recorded as nodes, and the
// imported files are not parsed into it). Its lifetime is the compilation
// unit, per the Design Notes.
type Arena struct {
	nodes []Node
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// New creates a node of the given kind rooted at tok, returning its id. The
// new node has no parent until Attach is called.
func (a *Arena) New(kind NodeKind, tok token.Token) ID {
	id := ID(len(a.nodes))
	a.nodes = append(a.nodes, Node{
		Kind:   kind,
		Token:  tok,
		Parent: NoID,
		Attrs:  make(map[string]token.Value),
	})
	return id
}

// Node dereferences id. It panics on an out-of-range id, which indicates a
// caller bug (a stale or fabricated id), not a recoverable condition.
func (a *Arena) Node(id ID) *Node {
	return &a.nodes[id]
}

// Attach appends child to parent's child list and sets child's parent link.
func (a *Arena) Attach(parent, child ID) {
	a.nodes[child].Parent = parent
	a.nodes[parent].Children = append(a.nodes[parent].Children, child)
}

// Len returns the number of nodes allocated in the arena.
func (a *Arena) Len() int { return len(a.nodes) }

// SetAttr stores a boxed Value under name on node id.
func (a *Arena) SetAttr(id ID, name string, v token.Value) {
	a.nodes[id].Attrs[name] = v
}

// Attr retrieves a boxed Value previously stored with SetAttr.
func (a *Arena) Attr(id ID, name string) (token.Value, bool) {
	v, ok := a.nodes[id].Attrs[name]
	return v, ok
}

// Walk visits id and every descendant in pre-order, depth first, calling fn
// for each: a parent is visited before its children.
func (a *Arena) Walk(id ID, fn func(ID)) {
	fn(id)
	for _, c := range a.nodes[id].Children {
		a.Walk(c, fn)
	}
}

// WalkPost visits every descendant of id before id itself (bottom-up),
// matching the symbol scanner's traversal order in spec.md §4.2.
func (a *Arena) WalkPost(id ID, fn func(ID)) {
	for _, c := range a.nodes[id].Children {
		a.WalkPost(c, fn)
	}
	fn(id)
}
