package eval

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type node interface{}

type nodeNumber struct{ v float64 }

type nodeIdent struct{ name string }

type nodeUnary struct {
	op byte
	x  node
}

type nodeBinary struct {
	op          byte
	left, right node
}

type nodeCall struct {
	name string
	args []node
}

// Expr is a parsed canonical expression.
type Expr struct {
	root node
	src  string
}

// Source returns the text Expr was parsed from.
func (x *Expr) Source() string { return x.src }

// String prints the tree with minimal parentheses.
func (x *Expr) String() string { return nodeString(x.root, 0) }

// Calls lists the distinct function names used, in first-use order.
func (x *Expr) Calls() []string {
	var out []string
	seen := map[string]bool{}
	walk(x.root, func(n node) {
		if c, ok := n.(nodeCall); ok && !seen[c.name] {
			seen[c.name] = true
			out = append(out, c.name)
		}
	})
	return out
}

func walk(n node, fn func(node)) {
	fn(n)
	switch nn := n.(type) {
	case nodeUnary:
		walk(nn.x, fn)
	case nodeBinary:
		walk(nn.left, fn)
		walk(nn.right, fn)
	case nodeCall:
		for _, a := range nn.args {
			walk(a, fn)
		}
	}
}

// Eval computes the value of the tree. Non-finite results are returned as is;
// callers decide whether they are failures.
func (x *Expr) Eval(env Env) (float64, error) {
	return evalNode(x.root, &env)
}

func evalNode(n node, env *Env) (float64, error) {
	switch nn := n.(type) {
	case nodeNumber:
		return nn.v, nil
	case nodeIdent:
		if v, ok := env.Vars[nn.name]; ok {
			return v, nil
		}
		if v, ok := constants[nn.name]; ok {
			return v, nil
		}
		if _, ok := functions[nn.name]; ok {
			return 0, fmt.Errorf("%w: %s needs arguments", ErrParse, nn.name)
		}
		return 0, fmt.Errorf("%w %q", ErrUnknownName, nn.name)
	case nodeUnary:
		v, err := evalNode(nn.x, env)
		if err != nil {
			return 0, err
		}
		if nn.op == '-' {
			return -v, nil
		}
		return v, nil
	case nodeBinary:
		a, err := evalNode(nn.left, env)
		if err != nil {
			return 0, err
		}
		b, err := evalNode(nn.right, env)
		if err != nil {
			return 0, err
		}
		switch nn.op {
		case '+':
			return a + b, nil
		case '-':
			return a - b, nil
		case '*':
			return a * b, nil
		case '/':
			return a / b, nil
		case '%':
			return math.Mod(a, b), nil
		case '^':
			return math.Pow(a, b), nil
		}
		return 0, fmt.Errorf("%w: operator %c", ErrParse, nn.op)
	case nodeCall:
		fn, ok := functions[nn.name]
		if !ok {
			return 0, fmt.Errorf("%w %q", ErrUnknownName, nn.name)
		}
		if len(nn.args) != fn.arity {
			return 0, fmt.Errorf("%w: %s expects %d argument(s), got %d", ErrArity, nn.name, fn.arity, len(nn.args))
		}
		args := make([]float64, len(nn.args))
		for i, a := range nn.args {
			v, err := evalNode(a, env)
			if err != nil {
				return 0, err
			}
			args[i] = v
		}
		return fn.call(env, args), nil
	}
	return 0, fmt.Errorf("%w: unknown node", ErrParse)
}

func nodeString(n node, parentPrec int) string {
	wrap := func(s string, prec int) string {
		if prec < parentPrec {
			return "(" + s + ")"
		}
		return s
	}
	switch nn := n.(type) {
	case nodeNumber:
		return strconv.FormatFloat(nn.v, 'g', -1, 64)
	case nodeIdent:
		return nn.name
	case nodeUnary:
		return wrap(string(nn.op)+nodeString(nn.x, 3), 3)
	case nodeBinary:
		prec := binPrec(nn.op)
		leftPrec, rightPrec := prec, prec+1
		if nn.op == '^' {
			leftPrec, rightPrec = prec+1, prec-1
		}
		op := string(nn.op)
		if nn.op == '^' {
			op = "**"
		}
		return wrap(nodeString(nn.left, leftPrec)+op+nodeString(nn.right, rightPrec), prec)
	case nodeCall:
		parts := make([]string, len(nn.args))
		for i, a := range nn.args {
			parts[i] = nodeString(a, 0)
		}
		return nn.name + "(" + strings.Join(parts, ",") + ")"
	}
	return "<?>"
}

func binPrec(op byte) int {
	switch op {
	case '+', '-':
		return 1
	case '*', '/', '%':
		return 2
	case '^':
		return 4
	}
	return 0
}
