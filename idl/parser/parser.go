// Package parser implements the one-pass recursive-descent IDL parser of
// spec.md §4.1, producing an *ast.Arena rooted at a KindProgram node. It is
// grounded on the grammar highlights spec.md calls out explicitly (const
// arithmetic evaluated at parse time, nested anonymous struct/union
// typedefs, forward declarations) and on the walk order of
// erpcgen/src/AstWalker.hpp.
package parser

import (
	"fmt"

	"erpc/idl/ast"
	"erpc/idl/lexer"
	"erpc/idl/token"
)

// Error is a parse error tied to a source location, matching the
// file:line:column diagnostic format the generator CLI emits (spec.md §6).
type Error struct {
	Location token.Location
	Msg      string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Location, e.Msg)
}

// ForwardDecl records a `struct Name;`/`union Name;`/`enum Name;` forward
// declaration pending a full definition, per spec.md §4.1's
// forward-declaration table.
type ForwardDecl struct {
	Name     string
	Kind     ast.NodeKind // KindStructDecl, KindUnionDecl, or KindEnumDecl
	Location token.Location
}

// Parser holds the token stream and the arena under construction.
type Parser struct {
	file    string
	toks    []token.Token
	pos     int
	arena   *ast.Arena
	fwd     map[string]*ForwardDecl
	consts  map[string]token.Value // name -> evaluated value, for const-expr resolution
}

// Parse tokenizes and parses src, returning the populated arena and its
// program-node id, or the first error encountered.
func Parse(file, src string) (*ast.Arena, ast.ID, error) {
	toks, err := lexer.Tokenize(file, src)
	if err != nil {
		return nil, ast.NoID, err
	}
	p := &Parser{
		file:   file,
		toks:   toks,
		arena:  ast.NewArena(),
		fwd:    make(map[string]*ForwardDecl),
		consts: make(map[string]token.Value),
	}
	root, err := p.parseProgram()
	if err != nil {
		return nil, ast.NoID, err
	}
	if len(p.fwd) > 0 {
		for _, f := range p.fwd {
			return nil, ast.NoID, &Error{Location: f.Location, Msg: fmt.Sprintf("forward-declared type %q was never defined", f.Name)}
		}
	}
	return p.arena, root, nil
}

func (p *Parser) cur() token.Token  { return p.toks[p.pos] }
func (p *Parser) at(k token.Kind) bool { return p.cur().Kind == k }

func (p *Parser) advance() token.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) expect(k token.Kind, what string) (token.Token, error) {
	if !p.at(k) {
		return token.Token{}, &Error{Location: p.cur().Location, Msg: fmt.Sprintf("expected %s, got %q", what, p.cur().Text)}
	}
	return p.advance(), nil
}

func (p *Parser) parseProgram() (ast.ID, error) {
	first := p.cur()
	root := p.arena.New(ast.KindProgram, first)
	sawProgram := false

	for !p.at(token.EOF) {
		switch {
		case p.at(token.KwProgram):
			if sawProgram {
				return ast.NoID, &Error{Location: p.cur().Location, Msg: "a file may contain at most one program declaration"}
			}
			sawProgram = true
			p.advance()
			name, err := p.expect(token.Identifier, "program name")
			if err != nil {
				return ast.NoID, err
			}
			p.arena.Node(root).Name = name.Text
			if _, err := p.expect(token.Semi, "';'"); err != nil {
				return ast.NoID, err
			}

		case p.at(token.KwImport):
			imp, err := p.parseImport()
			if err != nil {
				return ast.NoID, err
			}
			p.arena.Attach(root, imp)

		case p.at(token.KwConst):
			c, err := p.parseConst()
			if err != nil {
				return ast.NoID, err
			}
			p.arena.Attach(root, c)

		case p.at(token.KwType):
			td, err := p.parseTypedef()
			if err != nil {
				return ast.NoID, err
			}
			p.arena.Attach(root, td)

		case p.at(token.KwStruct):
			s, err := p.parseStructDecl()
			if err != nil {
				return ast.NoID, err
			}
			if s != ast.NoID {
				p.arena.Attach(root, s)
			}

		case p.at(token.KwUnion):
			u, err := p.parseUnionDecl()
			if err != nil {
				return ast.NoID, err
			}
			if u != ast.NoID {
				p.arena.Attach(root, u)
			}

		case p.at(token.KwEnum):
			e, err := p.parseEnumDecl()
			if err != nil {
				return ast.NoID, err
			}
			if e != ast.NoID {
				p.arena.Attach(root, e)
			}

		case p.at(token.KwInterface):
			i, err := p.parseInterfaceDecl()
			if err != nil {
				return ast.NoID, err
			}
			p.arena.Attach(root, i)

		case p.at(token.At):
			// Top-level annotation (e.g. @crc) attaches to the program node.
			ann, err := p.parseAnnotation()
			if err != nil {
				return ast.NoID, err
			}
			p.arena.Attach(root, ann)

		default:
			return ast.NoID, &Error{Location: p.cur().Location, Msg: fmt.Sprintf("unexpected token %q at top level", p.cur().Text)}
		}
	}
	return root, nil
}

func (p *Parser) parseImport() (ast.ID, error) {
	tok := p.advance() // 'import'
	str, err := p.expect(token.StringLiteral, "import path string")
	if err != nil {
		return ast.NoID, err
	}
	if _, err := p.expect(token.Semi, "';'"); err != nil {
		return ast.NoID, err
	}
	n := p.arena.New(ast.KindImport, tok)
	p.arena.Node(n).Name = str.Value.Str
	return n, nil
}

// parseAnnotations consumes zero or more `@name` / `@name(value)` forms,
// optionally followed by `:lang`, and returns their AST node ids.
func (p *Parser) parseAnnotations() ([]ast.ID, error) {
	var out []ast.ID
	for p.at(token.At) {
		a, err := p.parseAnnotation()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (p *Parser) parseAnnotation() (ast.ID, error) {
	at := p.advance() // '@'
	name, err := p.expect(token.Identifier, "annotation name")
	if err != nil {
		return ast.NoID, err
	}
	n := p.arena.New(ast.KindAnnotation, at)
	p.arena.Node(n).Name = name.Text
	p.arena.SetAttr(n, "lang", token.MakeString("all"))

	if p.at(token.LParen) {
		p.advance()
		if !p.at(token.RParen) {
			valTok := p.cur()
			switch valTok.Kind {
			case token.IntegerLiteral, token.FloatLiteral, token.StringLiteral:
				p.advance()
				p.arena.SetAttr(n, "value", valTok.Value)
			case token.Identifier:
				p.advance()
				p.arena.SetAttr(n, "value", token.MakeString(valTok.Text))
			default:
				return ast.NoID, &Error{Location: valTok.Location, Msg: "expected annotation value"}
			}
		}
		if _, err := p.expect(token.RParen, "')'"); err != nil {
			return ast.NoID, err
		}
	}
	if p.at(token.Colon) {
		p.advance()
		lang, err := p.expect(token.Identifier, "language filter")
		if err != nil {
			return ast.NoID, err
		}
		p.arena.SetAttr(n, "lang", token.MakeString(lang.Text))
	}
	return n, nil
}

// parseTypeRef parses a base type name followed by optional `[N]` (array)
// or the base already being `list<T>`, and an optional trailing `*` for a
// pointer/nullable reference.
func (p *Parser) parseTypeRef() (ast.ID, error) {
	if p.at(token.Identifier) && p.cur().Text == "list" {
		listTok := p.advance()
		if _, err := p.expect(token.Lt, "'<'"); err != nil {
			return ast.NoID, err
		}
		elem, err := p.parseTypeRef()
		if err != nil {
			return ast.NoID, err
		}
		if _, err := p.expect(token.Gt, "'>'"); err != nil {
			return ast.NoID, err
		}
		n := p.arena.New(ast.KindListTypeRef, listTok)
		p.arena.Attach(n, elem)
		return p.maybePointer(n)
	}

	if !p.at(token.Identifier) && !p.at(token.KwVoid) {
		return ast.NoID, &Error{Location: p.cur().Location, Msg: fmt.Sprintf("expected type name, got %q", p.cur().Text)}
	}
	nameTok := p.advance()
	n := p.arena.New(ast.KindTypeRef, nameTok)
	p.arena.Node(n).Name = nameTok.Text

	for p.at(token.LBracket) {
		p.advance()
		count, err := p.parseConstExprInt()
		if err != nil {
			return ast.NoID, err
		}
		if _, err := p.expect(token.RBracket, "']'"); err != nil {
			return ast.NoID, err
		}
		arr := p.arena.New(ast.KindArrayTypeRef, nameTok)
		p.arena.SetAttr(arr, "count", token.MakeInt(count, false, 32))
		p.arena.Attach(arr, n)
		n = arr
	}
	return p.maybePointer(n)
}

func (p *Parser) maybePointer(n ast.ID) (ast.ID, error) {
	if p.at(token.Star) {
		p.advance()
		p.arena.SetAttr(n, "pointer", token.MakeInt(1, true, 8))
	}
	return n, nil
}

// parseDirection parses an optional in/out/inout direction keyword,
// defaulting to "in" per convention when absent on a parameter.
func (p *Parser) parseDirection() string {
	switch p.cur().Kind {
	case token.KwIn:
		p.advance()
		return "in"
	case token.KwOut:
		p.advance()
		return "out"
	case token.KwInout:
		p.advance()
		return "inout"
	}
	return "in"
}

func (p *Parser) parseStructDecl() (ast.ID, error) {
	kwTok := p.advance() // 'struct'
	name := ""
	if p.at(token.Identifier) {
		nameTok := p.advance()
		name = nameTok.Text

		if p.at(token.Semi) {
			// Forward declaration.
			p.advance()
			if existing, ok := p.fwd[name]; ok && existing.Kind != ast.KindStructDecl {
				return ast.NoID, &Error{Location: nameTok.Location, Msg: fmt.Sprintf("%q forward-declared with a different kind", name)}
			}
			p.fwd[name] = &ForwardDecl{Name: name, Kind: ast.KindStructDecl, Location: nameTok.Location}
			return ast.NoID, nil
		}
	}

	n := p.arena.New(ast.KindStructDecl, kwTok)
	p.arena.Node(n).Name = name
	delete(p.fwd, name)

	if _, err := p.expect(token.LBrace, "'{'"); err != nil {
		return ast.NoID, err
	}
	for !p.at(token.RBrace) {
		m, err := p.parseStructMember()
		if err != nil {
			return ast.NoID, err
		}
		p.arena.Attach(n, m)
	}
	p.advance() // '}'
	if p.at(token.Semi) {
		p.advance()
	}
	return n, nil
}

func (p *Parser) parseStructMember() (ast.ID, error) {
	anns, err := p.parseAnnotations()
	if err != nil {
		return ast.NoID, err
	}
	dir := p.parseDirection()
	byref := false
	if p.at(token.KwByref) {
		p.advance()
		byref = true
	}
	typeTok := p.cur()
	typeRef, err := p.parseTypeRef()
	if err != nil {
		return ast.NoID, err
	}
	nameTok, err := p.expect(token.Identifier, "member name")
	if err != nil {
		return ast.NoID, err
	}

	n := p.arena.New(ast.KindStructMember, typeTok)
	p.arena.Node(n).Name = nameTok.Text
	p.arena.Attach(n, typeRef)
	p.arena.SetAttr(n, "dir", token.MakeString(dir))
	if byref {
		p.arena.SetAttr(n, "byref", token.MakeInt(1, true, 8))
	}

	if p.at(token.Equals) {
		p.advance()
		v, err := p.parseConstExpr()
		if err != nil {
			return ast.NoID, err
		}
		p.arena.SetAttr(n, "default", v)
	}

	trailing, err := p.parseAnnotations()
	if err != nil {
		return ast.NoID, err
	}
	for _, a := range append(anns, trailing...) {
		p.arena.Attach(n, a)
	}

	if _, err := p.expect(token.Semi, "';'"); err != nil {
		return ast.NoID, err
	}
	return n, nil
}

func (p *Parser) parseUnionDecl() (ast.ID, error) {
	kwTok := p.advance() // 'union'
	name := ""
	if p.at(token.Identifier) {
		nameTok := p.advance()
		name = nameTok.Text
		if p.at(token.Semi) {
			p.advance()
			p.fwd[name] = &ForwardDecl{Name: name, Kind: ast.KindUnionDecl, Location: nameTok.Location}
			return ast.NoID, nil
		}
	}

	discriminator := ""
	if p.at(token.LParen) {
		p.advance()
		d, err := p.expect(token.Identifier, "discriminator name")
		if err != nil {
			return ast.NoID, err
		}
		discriminator = d.Text
		if _, err := p.expect(token.RParen, "')'"); err != nil {
			return ast.NoID, err
		}
	}

	n := p.arena.New(ast.KindUnionDecl, kwTok)
	p.arena.Node(n).Name = name
	p.arena.SetAttr(n, "discriminator", token.MakeString(discriminator))
	delete(p.fwd, name)

	if _, err := p.expect(token.LBrace, "'{'"); err != nil {
		return ast.NoID, err
	}
	for !p.at(token.RBrace) {
		c, err := p.parseUnionCase()
		if err != nil {
			return ast.NoID, err
		}
		p.arena.Attach(n, c)
	}
	p.advance() // '}'
	if p.at(token.Semi) {
		p.advance()
	}
	return n, nil
}

func (p *Parser) parseUnionCase() (ast.ID, error) {
	labelTok, err := p.expect(token.Identifier, "case label")
	if err != nil {
		return ast.NoID, err
	}
	if _, err := p.expect(token.Colon, "':'"); err != nil {
		return ast.NoID, err
	}
	n := p.arena.New(ast.KindUnionCase, labelTok)
	p.arena.Node(n).Name = labelTok.Text

	for {
		typeTok := p.cur()
		typeRef, err := p.parseTypeRef()
		if err != nil {
			return ast.NoID, err
		}
		memberTok, err := p.expect(token.Identifier, "union member name")
		if err != nil {
			return ast.NoID, err
		}
		m := p.arena.New(ast.KindStructMember, typeTok)
		p.arena.Node(m).Name = memberTok.Text
		p.arena.Attach(m, typeRef)
		p.arena.Attach(n, m)
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.Semi, "';'"); err != nil {
		return ast.NoID, err
	}
	return n, nil
}

func (p *Parser) parseEnumDecl() (ast.ID, error) {
	kwTok := p.advance() // 'enum'
	name := ""
	if p.at(token.Identifier) {
		nameTok := p.advance()
		name = nameTok.Text
		if p.at(token.Semi) {
			p.advance()
			p.fwd[name] = &ForwardDecl{Name: name, Kind: ast.KindEnumDecl, Location: nameTok.Location}
			return ast.NoID, nil
		}
	}

	n := p.arena.New(ast.KindEnumDecl, kwTok)
	p.arena.Node(n).Name = name
	delete(p.fwd, name)

	if _, err := p.expect(token.LBrace, "'{'"); err != nil {
		return ast.NoID, err
	}
	for !p.at(token.RBrace) {
		memTok, err := p.expect(token.Identifier, "enum member name")
		if err != nil {
			return ast.NoID, err
		}
		m := p.arena.New(ast.KindEnumMember, memTok)
		p.arena.Node(m).Name = memTok.Text
		if p.at(token.Equals) {
			p.advance()
			v, err := p.parseConstExprInt()
			if err != nil {
				return ast.NoID, err
			}
			p.arena.SetAttr(m, "value", token.MakeInt(v, false, 32))
		}
		p.arena.Attach(n, m)
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.RBrace, "'}'"); err != nil {
		return ast.NoID, err
	}
	if p.at(token.Semi) {
		p.advance()
	}
	return n, nil
}

func (p *Parser) parseTypedef() (ast.ID, error) {
	kwTok := p.advance() // 'type'
	var n ast.ID
	switch {
	case p.at(token.KwStruct):
		inner, err := p.parseStructDecl()
		if err != nil {
			return ast.NoID, err
		}
		n = inner
	case p.at(token.KwUnion):
		inner, err := p.parseUnionDecl()
		if err != nil {
			return ast.NoID, err
		}
		n = inner
	case p.at(token.KwEnum):
		inner, err := p.parseEnumDecl()
		if err != nil {
			return ast.NoID, err
		}
		n = inner
	default:
		ref, err := p.parseTypeRef()
		if err != nil {
			return ast.NoID, err
		}
		n = ref
	}
	aliasNameTok, err := p.expect(token.Identifier, "typedef name")
	if err != nil {
		return ast.NoID, err
	}
	td := p.arena.New(ast.KindTypedef, kwTok)
	p.arena.Node(td).Name = aliasNameTok.Text
	p.arena.Attach(td, n)
	if _, err := p.expect(token.Semi, "';'"); err != nil {
		return ast.NoID, err
	}
	return td, nil
}

func (p *Parser) parseInterfaceDecl() (ast.ID, error) {
	kwTok := p.advance() // 'interface'
	nameTok, err := p.expect(token.Identifier, "interface name")
	if err != nil {
		return ast.NoID, err
	}
	n := p.arena.New(ast.KindInterfaceDecl, kwTok)
	p.arena.Node(n).Name = nameTok.Text

	anns, err := p.parseAnnotations()
	if err != nil {
		return ast.NoID, err
	}
	for _, a := range anns {
		p.arena.Attach(n, a)
	}

	if _, err := p.expect(token.LBrace, "'{'"); err != nil {
		return ast.NoID, err
	}
	for !p.at(token.RBrace) {
		f, err := p.parseFunctionDecl()
		if err != nil {
			return ast.NoID, err
		}
		p.arena.Attach(n, f)
	}
	p.advance() // '}'
	if p.at(token.Semi) {
		p.advance()
	}
	return n, nil
}

func (p *Parser) parseFunctionDecl() (ast.ID, error) {
	anns, err := p.parseAnnotations()
	if err != nil {
		return ast.NoID, err
	}
	oneway := false
	if p.at(token.KwOneway) {
		p.advance()
		oneway = true
	}
	retTok := p.cur()
	retRef, err := p.parseTypeRef()
	if err != nil {
		return ast.NoID, err
	}
	nameTok, err := p.expect(token.Identifier, "function name")
	if err != nil {
		return ast.NoID, err
	}

	n := p.arena.New(ast.KindFunctionDecl, retTok)
	p.arena.Node(n).Name = nameTok.Text
	if oneway {
		p.arena.SetAttr(n, "oneway", token.MakeInt(1, true, 8))
	}
	p.arena.Attach(n, retRef)
	for _, a := range anns {
		p.arena.Attach(n, a)
	}

	if _, err := p.expect(token.LParen, "'('"); err != nil {
		return ast.NoID, err
	}
	for !p.at(token.RParen) {
		pm, err := p.parseParam()
		if err != nil {
			return ast.NoID, err
		}
		p.arena.Attach(n, pm)
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.RParen, "')'"); err != nil {
		return ast.NoID, err
	}

	trailing, err := p.parseAnnotations()
	if err != nil {
		return ast.NoID, err
	}
	for _, a := range trailing {
		p.arena.Attach(n, a)
	}

	if _, err := p.expect(token.Semi, "';'"); err != nil {
		return ast.NoID, err
	}
	return n, nil
}

func (p *Parser) parseParam() (ast.ID, error) {
	anns, err := p.parseAnnotations()
	if err != nil {
		return ast.NoID, err
	}
	dir := p.parseDirection()
	byref := false
	if p.at(token.KwByref) {
		p.advance()
		byref = true
	}
	typeTok := p.cur()
	typeRef, err := p.parseTypeRef()
	if err != nil {
		return ast.NoID, err
	}
	nameTok, err := p.expect(token.Identifier, "parameter name")
	if err != nil {
		return ast.NoID, err
	}
	n := p.arena.New(ast.KindParam, typeTok)
	p.arena.Node(n).Name = nameTok.Text
	p.arena.Attach(n, typeRef)
	p.arena.SetAttr(n, "dir", token.MakeString(dir))
	if byref {
		p.arena.SetAttr(n, "byref", token.MakeInt(1, true, 8))
	}
	if p.at(token.Equals) {
		p.advance()
		v, err := p.parseConstExpr()
		if err != nil {
			return ast.NoID, err
		}
		p.arena.SetAttr(n, "default", v)
	}
	trailing, err := p.parseAnnotations()
	if err != nil {
		return ast.NoID, err
	}
	for _, a := range append(anns, trailing...) {
		p.arena.Attach(n, a)
	}
	return n, nil
}

func (p *Parser) parseConst() (ast.ID, error) {
	kwTok := p.advance() // 'const'
	typeRef, err := p.parseTypeRef()
	if err != nil {
		return ast.NoID, err
	}
	nameTok, err := p.expect(token.Identifier, "const name")
	if err != nil {
		return ast.NoID, err
	}
	if _, err := p.expect(token.Equals, "'='"); err != nil {
		return ast.NoID, err
	}
	v, err := p.parseConstExpr()
	if err != nil {
		return ast.NoID, err
	}
	if _, err := p.expect(token.Semi, "';'"); err != nil {
		return ast.NoID, err
	}
	n := p.arena.New(ast.KindConstDecl, kwTok)
	p.arena.Node(n).Name = nameTok.Text
	p.arena.Attach(n, typeRef)
	p.arena.SetAttr(n, "value", v)
	p.consts[nameTok.Text] = v
	return n, nil
}
