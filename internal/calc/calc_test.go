package calc

import (
	"strings"
	"testing"
)

func TestEval(t *testing.T) {
	tests := []struct {
		name      string
		expr      string
		want      float64
		wantErr   bool
		errSubstr string
	}{
		{name: "addition", expr: "2+2", want: 4},
		{name: "precedence", expr: "2 + 3 * 4", want: 14},
		{name: "parentheses", expr: "(5 + 3) * 2", want: 16},
		{name: "nested parens", expr: "((1+2)*(3+4))", want: 21},
		{name: "unary minus", expr: "-5 + 2", want: -3},
		{name: "negated group", expr: "-(2+3)*2", want: -10},
		{name: "decimal", expr: "1.5*4", want: 6},
		{name: "modulo", expr: "10 % 3", want: 1},
		{name: "empty", expr: "  ", wantErr: true, errSubstr: "empty expression"},
		{name: "division by zero", expr: "3/0", wantErr: true, errSubstr: "division by zero"},
		{name: "modulo by zero", expr: "3%0", wantErr: true, errSubstr: "modulo by zero"},
		{name: "unbalanced", expr: "(2+2", wantErr: true, errSubstr: "missing closing parenthesis"},
		{name: "trailing garbage", expr: "2+2)", wantErr: true, errSubstr: "unexpected character"},
		{name: "double dot", expr: "1..2", wantErr: true, errSubstr: "invalid number"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Eval(tc.expr)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				if !strings.Contains(err.Error(), tc.errSubstr) {
					t.Fatalf("expected error containing %q, got %q", tc.errSubstr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("Eval(%q) = %v, want %v", tc.expr, got, tc.want)
			}
		})
	}
}
