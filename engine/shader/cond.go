// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package shader

// Cond is a boolean condition used by Shader.If and
// Shader.ElseIf.
type Cond struct {
	text string
}

// String returns the condition text.
func (c Cond) String() string { return c.text }

func checkOp(op string) {
	switch op {
	case "<", "<=", ">", ">=", "==", "!=":
	default:
		panic("shader: invalid comparison operator: " + op)
	}
}

// Compare creates the condition l op r.
// op must be one of <, <=, >, >=, == and !=.
func Compare(l *Var, op string, r *Var) Cond {
	checkOp(op)
	return Cond{l.name + " " + op + " " + r.name}
}

// CompareF creates the condition l op f.
func CompareF(l *Var, op string, f float32) Cond {
	checkOp(op)
	return Cond{l.name + " " + op + " " + Literal(f)}
}

// IsTrue creates a condition from a bool Var.
func IsTrue(v *Var) Cond { return Cond{v.name} }

// And creates the condition c && d.
func (c Cond) And(d Cond) Cond { return Cond{c.text + " && " + d.text} }

// Or creates the condition c || d.
func (c Cond) Or(d Cond) Cond { return Cond{c.text + " || " + d.text} }

// Xor creates the condition c ^^ d.
func (c Cond) Xor(d Cond) Cond { return Cond{c.text + " ^^ " + d.text} }

// Not creates the condition !(c).
func (c Cond) Not() Cond { return Cond{"!(" + c.text + ")"} }
