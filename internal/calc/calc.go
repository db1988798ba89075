// Package calc evaluates the arithmetic expressions accepted by the
// assistant's calculate tool: + - * / %, parentheses, unary minus.
package calc

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Eval evaluates expr and returns its numeric value.
func Eval(expr string) (float64, error) {
	p := &parser{in: strings.ReplaceAll(expr, " ", "")}
	if p.in == "" {
		return 0, fmt.Errorf("empty expression")
	}
	v, err := p.expression()
	if err != nil {
		return 0, err
	}
	if p.pos != len(p.in) {
		return 0, fmt.Errorf("unexpected character %q at position %d", p.in[p.pos], p.pos)
	}
	return v, nil
}

type parser struct {
	in  string
	pos int
}

func (p *parser) peek() (byte, bool) {
	if p.pos >= len(p.in) {
		return 0, false
	}
	return p.in[p.pos], true
}

func (p *parser) expression() (float64, error) {
	v, err := p.term()
	if err != nil {
		return 0, err
	}
	for {
		op, ok := p.peek()
		if !ok || (op != '+' && op != '-') {
			return v, nil
		}
		p.pos++
		rhs, err := p.term()
		if err != nil {
			return 0, err
		}
		if op == '+' {
			v += rhs
		} else {
			v -= rhs
		}
	}
}

func (p *parser) term() (float64, error) {
	v, err := p.factor()
	if err != nil {
		return 0, err
	}
	for {
		op, ok := p.peek()
		if !ok || (op != '*' && op != '/' && op != '%') {
			return v, nil
		}
		p.pos++
		rhs, err := p.factor()
		if err != nil {
			return 0, err
		}
		switch op {
		case '*':
			v *= rhs
		case '/':
			if rhs == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			v /= rhs
		case '%':
			if rhs == 0 {
				return 0, fmt.Errorf("modulo by zero")
			}
			v = math.Mod(v, rhs)
		}
	}
}

func (p *parser) factor() (float64, error) {
	c, ok := p.peek()
	if !ok {
		return 0, fmt.Errorf("unexpected end of expression")
	}

	if c == '-' {
		p.pos++
		v, err := p.factor()
		if err != nil {
			return 0, err
		}
		return -v, nil
	}

	if c == '(' {
		p.pos++
		v, err := p.expression()
		if err != nil {
			return 0, err
		}
		if c, ok := p.peek(); !ok || c != ')' {
			return 0, fmt.Errorf("missing closing parenthesis")
		}
		p.pos++
		return v, nil
	}

	start := p.pos
	for {
		c, ok := p.peek()
		if !ok || !(c >= '0' && c <= '9' || c == '.') {
			break
		}
		p.pos++
	}
	if start == p.pos {
		return 0, fmt.Errorf("expected number at position %d", start)
	}
	v, err := strconv.ParseFloat(p.in[start:p.pos], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", p.in[start:p.pos])
	}
	return v, nil
}
