package parser

import (
	"erpc/idl/token"
)

// parseConstExpr parses a constant expression and evaluates it immediately,
// per spec.md §4.1: arithmetic operators promote int to float whenever
// either operand is a float, bitwise/shift operators reject float
// operands outright, and division or modulo by zero evaluates to zero
// rather than failing the parse.
func (p *Parser) parseConstExpr() (token.Value, error) {
	return p.parseBitOr()
}

// parseConstExprInt parses a constant expression and requires it to
// resolve to an integer, for contexts like array bounds and enum values
// that have no meaning as floats.
func (p *Parser) parseConstExprInt() (int64, error) {
	v, err := p.parseConstExpr()
	if err != nil {
		return 0, err
	}
	if !v.IsInt() {
		return 0, &Error{Location: p.cur().Location, Msg: "expected an integer constant expression"}
	}
	return v.Int, nil
}

func (p *Parser) parseBitOr() (token.Value, error) {
	left, err := p.parseBitXor()
	if err != nil {
		return token.Value{}, err
	}
	for p.at(token.Pipe) {
		p.advance()
		right, err := p.parseBitXor()
		if err != nil {
			return token.Value{}, err
		}
		left, err = intBinOp(left, right, p.cur().Location, func(a, b int64) int64 { return a | b })
		if err != nil {
			return token.Value{}, err
		}
	}
	return left, nil
}

func (p *Parser) parseBitXor() (token.Value, error) {
	left, err := p.parseBitAnd()
	if err != nil {
		return token.Value{}, err
	}
	for p.at(token.Caret) {
		p.advance()
		right, err := p.parseBitAnd()
		if err != nil {
			return token.Value{}, err
		}
		left, err = intBinOp(left, right, p.cur().Location, func(a, b int64) int64 { return a ^ b })
		if err != nil {
			return token.Value{}, err
		}
	}
	return left, nil
}

func (p *Parser) parseBitAnd() (token.Value, error) {
	left, err := p.parseShift()
	if err != nil {
		return token.Value{}, err
	}
	for p.at(token.Amp) {
		p.advance()
		right, err := p.parseShift()
		if err != nil {
			return token.Value{}, err
		}
		left, err = intBinOp(left, right, p.cur().Location, func(a, b int64) int64 { return a & b })
		if err != nil {
			return token.Value{}, err
		}
	}
	return left, nil
}

func (p *Parser) parseShift() (token.Value, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return token.Value{}, err
	}
	for p.at(token.Shl) || p.at(token.Shr) {
		isShl := p.at(token.Shl)
		loc := p.cur().Location
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return token.Value{}, err
		}
		if isShl {
			left, err = intBinOp(left, right, loc, func(a, b int64) int64 { return a << uint(b) })
		} else {
			left, err = intBinOp(left, right, loc, func(a, b int64) int64 { return a >> uint(b) })
		}
		if err != nil {
			return token.Value{}, err
		}
	}
	return left, nil
}

func (p *Parser) parseAdditive() (token.Value, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return token.Value{}, err
	}
	for p.at(token.Plus) || p.at(token.Minus) {
		isAdd := p.at(token.Plus)
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return token.Value{}, err
		}
		if isAdd {
			left = numBinOp(left, right, func(a, b int64) int64 { return a + b }, func(a, b float64) float64 { return a + b })
		} else {
			left = numBinOp(left, right, func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b })
		}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (token.Value, error) {
	left, err := p.parseUnary()
	if err != nil {
		return token.Value{}, err
	}
	for p.at(token.Star) || p.at(token.Slash) || p.at(token.Percent) {
		op := p.cur().Kind
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return token.Value{}, err
		}
		switch op {
		case token.Star:
			left = numBinOp(left, right, func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b })
		case token.Slash:
			left = numBinOp(left, right,
				func(a, b int64) int64 {
					if b == 0 {
						return 0
					}
					return a / b
				},
				func(a, b float64) float64 {
					if b == 0 {
						return 0
					}
					return a / b
				})
		case token.Percent:
			if left.IsFloat() || right.IsFloat() {
				return token.Value{}, &Error{Location: p.cur().Location, Msg: "'%' requires integer operands"}
			}
			left, err = intBinOp(left, right, p.cur().Location, func(a, b int64) int64 {
				if b == 0 {
					return 0
				}
				return a % b
			})
			if err != nil {
				return token.Value{}, err
			}
		}
	}
	return left, nil
}

func (p *Parser) parseUnary() (token.Value, error) {
	switch p.cur().Kind {
	case token.Minus:
		p.advance()
		v, err := p.parseUnary()
		if err != nil {
			return token.Value{}, err
		}
		if v.IsFloat() {
			return token.MakeFloat(-v.Float), nil
		}
		return token.MakeInt(-v.Int, false, v.Width), nil
	case token.Tilde:
		p.advance()
		v, err := p.parseUnary()
		if err != nil {
			return token.Value{}, err
		}
		if v.IsFloat() {
			return token.Value{}, &Error{Location: p.cur().Location, Msg: "'~' requires an integer operand"}
		}
		return token.MakeInt(^v.Int, v.Unsigned, v.Width), nil
	case token.Bang:
		p.advance()
		v, err := p.parseUnary()
		if err != nil {
			return token.Value{}, err
		}
		return token.MakeInt(boolToInt(!nonZero(v)), false, 32), nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (token.Value, error) {
	tok := p.cur()
	switch tok.Kind {
	case token.IntegerLiteral, token.FloatLiteral, token.StringLiteral:
		p.advance()
		return tok.Value, nil
	case token.KwTrue:
		p.advance()
		return token.MakeInt(1, false, 32), nil
	case token.KwFalse:
		p.advance()
		return token.MakeInt(0, false, 32), nil
	case token.Identifier:
		p.advance()
		if v, ok := p.consts[tok.Text]; ok {
			return v, nil
		}
		return token.Value{}, &Error{Location: tok.Location, Msg: "undefined constant " + tok.Text + " (forward references to const declarations are not supported)"}
	case token.LParen:
		p.advance()
		v, err := p.parseConstExpr()
		if err != nil {
			return token.Value{}, err
		}
		if _, err := p.expect(token.RParen, "')'"); err != nil {
			return token.Value{}, err
		}
		return v, nil
	}
	return token.Value{}, &Error{Location: tok.Location, Msg: "expected a constant expression, got " + tok.Text}
}

func nonZero(v token.Value) bool {
	if v.IsFloat() {
		return v.Float != 0
	}
	return v.Int != 0
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// numBinOp applies intFn when both operands are integers, otherwise
// promotes both to float64 and applies floatFn (the i32*f64 promotion rule).
func numBinOp(a, b token.Value, intFn func(int64, int64) int64, floatFn func(float64, float64) float64) token.Value {
	if a.IsFloat() || b.IsFloat() {
		return token.MakeFloat(floatFn(a.AsFloat(), b.AsFloat()))
	}
	width := a.Width
	if b.Width > width {
		width = b.Width
	}
	return token.MakeInt(intFn(a.Int, b.Int), a.Unsigned || b.Unsigned, width)
}

// intBinOp applies fn to two integer operands, or reports an error if
// either operand is a float: bitwise and shift operators have no float
// form in the IDL's constant-expression grammar.
func intBinOp(a, b token.Value, loc token.Location, fn func(int64, int64) int64) (token.Value, error) {
	if a.IsFloat() || b.IsFloat() {
		return token.Value{}, &Error{Location: loc, Msg: "bitwise/shift operators require integer operands"}
	}
	width := a.Width
	if b.Width > width {
		width = b.Width
	}
	return token.MakeInt(fn(a.Int, b.Int), a.Unsigned || b.Unsigned, width), nil
}
