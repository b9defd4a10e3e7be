package tmpl

import (
	"fmt"
	"strings"
)

// Render executes a parsed template body against scope and returns the
// rendered output.
func Render(nodes []Node, scope *Map) (string, error) {
	var out strings.Builder
	if err := renderNodes(nodes, scope, &out); err != nil {
		return "", err
	}
	return out.String(), nil
}

func renderNodes(nodes []Node, scope *Map, out *strings.Builder) error {
	pendingTrim := false
	for _, node := range nodes {
		switch n := node.(type) {
		case TextNode:
			text := n.Text
			if pendingTrim {
				text = trimOneLeadingNewline(text)
			}
			pendingTrim = false
			out.WriteString(text)

		case InterpNode:
			v, err := evalExpr(n.Expr, scope)
			if err != nil {
				return err
			}
			s := v.AsString()
			out.WriteString(s)
			pendingTrim = n.TrimLead && s == ""

		case IfNode:
			pendingTrim = false
			matched := false
			for _, b := range n.Branches {
				v, err := evalExpr(b.Cond, scope)
				if err != nil {
					return err
				}
				if v.Truthy() {
					if err := renderNodes(b.Body, scope, out); err != nil {
						return err
					}
					matched = true
					break
				}
			}
			if !matched && n.Else != nil {
				if err := renderNodes(n.Else, scope, out); err != nil {
					return err
				}
			}

		case ForNode:
			pendingTrim = false
			seqVal, err := evalExpr(n.Seq, scope)
			if err != nil {
				return err
			}
			if seqVal.Kind != KindList {
				return fmt.Errorf("for %s: expected a list, got a non-list value", n.Var)
			}
			count := len(seqVal.List)
			for i, item := range seqVal.List {
				child := NewChildMap(scope)
				child.Set(n.Var, item)
				loop := NewMap()
				loop.Set("index", Int(int64(i+1)))
				loop.Set("index0", Int(int64(i)))
				loop.Set("first", Bool(i == 0))
				loop.Set("last", Bool(i == count-1))
				loop.Set("even", Bool(i%2 == 0))
				loop.Set("odd", Bool(i%2 != 0))
				loop.Set("count", Int(int64(count)))
				child.Set("loop", MapValue(loop))
				if err := renderNodes(n.Body, child, out); err != nil {
					return err
				}
			}

		case DefNode:
			pendingTrim = false
			scope.Set(n.Name, TemplateValue(&Template{Params: n.Params, Body: n.Body}))

		case SetNode:
			pendingTrim = false
			v, err := evalExpr(n.Expr, scope)
			if err != nil {
				return err
			}
			if !scope.SetPath(n.Path, v, true) {
				return fmt.Errorf("set: cannot assign path %q", strings.Join(n.Path, "."))
			}
		}
	}
	return nil
}

var builtinFuncs = map[string]bool{
	"count": true, "empty": true, "defined": true, "upper": true,
	"lower": true, "capitalize": true, "str": true, "int": true,
	"addIndent": true, "dump": true,
}

func evalExpr(e Expr, scope *Map) (Value, error) {
	switch x := e.(type) {
	case litInt:
		return Int(x.v), nil
	case litStr:
		return String(x.v), nil
	case pathExpr:
		v, ok := scope.GetPath(x.path)
		if !ok {
			return Value{Kind: KindUndefined}, nil
		}
		return v, nil
	case unExpr:
		v, err := evalExpr(x.x, scope)
		if err != nil {
			return Value{}, err
		}
		if x.op == "-" {
			return Int(-v.AsInt()), nil
		}
		return Value{}, fmt.Errorf("unknown unary operator %q", x.op)
	case notExpr:
		v, err := evalExpr(x.x, scope)
		if err != nil {
			return Value{}, err
		}
		return Bool(!v.Truthy()), nil
	case andExpr:
		l, err := evalExpr(x.l, scope)
		if err != nil {
			return Value{}, err
		}
		if !l.Truthy() {
			return l, nil
		}
		return evalExpr(x.r, scope)
	case orExpr:
		l, err := evalExpr(x.l, scope)
		if err != nil {
			return Value{}, err
		}
		if l.Truthy() {
			return l, nil
		}
		return evalExpr(x.r, scope)
	case binExpr:
		return evalBinExpr(x, scope)
	case callExpr:
		return evalCall(x, scope)
	}
	return Value{}, fmt.Errorf("unsupported expression node %T", e)
}

func evalBinExpr(x binExpr, scope *Map) (Value, error) {
	l, err := evalExpr(x.l, scope)
	if err != nil {
		return Value{}, err
	}
	r, err := evalExpr(x.r, scope)
	if err != nil {
		return Value{}, err
	}
	switch x.op {
	case "&":
		return String(l.AsString() + r.AsString()), nil
	case "==":
		return Bool(valuesEqual(l, r)), nil
	case "!=":
		return Bool(!valuesEqual(l, r)), nil
	case "<", "<=", ">", ">=":
		a, b := l.AsInt(), r.AsInt()
		switch x.op {
		case "<":
			return Bool(a < b), nil
		case "<=":
			return Bool(a <= b), nil
		case ">":
			return Bool(a > b), nil
		default:
			return Bool(a >= b), nil
		}
	case "+":
		return Int(l.AsInt() + r.AsInt()), nil
	case "-":
		return Int(l.AsInt() - r.AsInt()), nil
	case "*":
		return Int(l.AsInt() * r.AsInt()), nil
	case "/":
		b := r.AsInt()
		if b == 0 {
			return Int(0), nil
		}
		return Int(l.AsInt() / b), nil
	case "%":
		b := r.AsInt()
		if b == 0 {
			return Int(0), nil
		}
		return Int(l.AsInt() % b), nil
	}
	return Value{}, fmt.Errorf("unknown binary operator %q", x.op)
}

func valuesEqual(l, r Value) bool {
	if l.Kind != r.Kind {
		if (l.Kind == KindUndefined) != (r.Kind == KindUndefined) {
			return false
		}
	}
	switch l.Kind {
	case KindUndefined:
		return r.Kind == KindUndefined
	case KindBool:
		return l.Bool == r.Bool
	case KindInt:
		return l.Int == r.Int
	case KindString:
		return l.Str == r.Str
	default:
		return l.AsString() == r.AsString()
	}
}

func evalCall(c callExpr, scope *Map) (Value, error) {
	if builtinFuncs[c.name] {
		return evalBuiltin(c, scope)
	}
	v, ok := scope.GetPath([]string{c.name})
	if !ok || v.Kind != KindTemplate {
		return Value{}, fmt.Errorf("call to undefined template or function %q", c.name)
	}
	return callTemplate(v.Tmpl, c.args, scope)
}

func callTemplate(t *Template, args []Expr, scope *Map) (Value, error) {
	child := NewChildMap(scope)
	for i, pname := range t.Params {
		var v Value
		if i < len(args) {
			av, err := evalExpr(args[i], scope)
			if err != nil {
				return Value{}, err
			}
			v = av
		}
		child.Set(pname, v)
	}
	out, err := Render(t.Body, child)
	if err != nil {
		return Value{}, err
	}
	return String(out), nil
}

func evalBuiltin(c callExpr, scope *Map) (Value, error) {
	arg := func(i int) (Value, error) {
		if i >= len(c.args) {
			return Value{Kind: KindUndefined}, nil
		}
		return evalExpr(c.args[i], scope)
	}
	switch c.name {
	case "count":
		v, err := arg(0)
		if err != nil {
			return Value{}, err
		}
		switch v.Kind {
		case KindList:
			return Int(int64(len(v.List))), nil
		case KindString:
			return Int(int64(len(v.Str))), nil
		case KindMap:
			return Int(int64(len(v.Map.keys))), nil
		}
		return Int(0), nil
	case "empty":
		v, err := arg(0)
		if err != nil {
			return Value{}, err
		}
		return Bool(!v.Truthy()), nil
	case "defined":
		v, err := arg(0)
		if err != nil {
			return Value{}, err
		}
		return Bool(v.Kind != KindUndefined), nil
	case "upper":
		v, err := arg(0)
		if err != nil {
			return Value{}, err
		}
		return String(strings.ToUpper(v.AsString())), nil
	case "lower":
		v, err := arg(0)
		if err != nil {
			return Value{}, err
		}
		return String(strings.ToLower(v.AsString())), nil
	case "capitalize":
		v, err := arg(0)
		if err != nil {
			return Value{}, err
		}
		s := v.AsString()
		if s == "" {
			return String(""), nil
		}
		return String(strings.ToUpper(s[:1]) + s[1:]), nil
	case "str":
		v, err := arg(0)
		if err != nil {
			return Value{}, err
		}
		return String(v.AsString()), nil
	case "int":
		v, err := arg(0)
		if err != nil {
			return Value{}, err
		}
		return Int(v.AsInt()), nil
	case "addIndent":
		indentArg, err := arg(0)
		if err != nil {
			return Value{}, err
		}
		body, err := arg(1)
		if err != nil {
			return Value{}, err
		}
		indent := indentArg.AsString()
		lines := strings.Split(body.AsString(), "\n")
		for i, l := range lines {
			if l != "" {
				lines[i] = indent + l
			}
		}
		return String(strings.Join(lines, "\n")), nil
	case "dump":
		v, err := arg(0)
		if err != nil {
			return Value{}, err
		}
		return String(v.AsString()), nil
	}
	return Value{}, fmt.Errorf("unknown builtin function %q", c.name)
}
