package parser

import (
	"fmt"
	"strings"

	"github.com/dhamidi/calq/value"
)

// Container is a node of the tree built by a Statement. It is either empty,
// a leaf holding an expression, or an operator applied to as many children
// as the operator's arity.
type Container struct {
	expr     Expression
	op       Operator
	children []*Container
}

func Leaf(expr Expression) *Container {
	if expr == nil {
		return Empty()
	}
	return &Container{expr: expr}
}

func Empty() *Container {
	return &Container{}
}

// Apply builds the application of op to children. The number of children
// must match the operator's arity.
func Apply(op Operator, children ...*Container) *Container {
	if op.Arity() != len(children) {
		panic(fmt.Sprintf("parser: operator %s has arity %d, applied to %d operands", op, op.Arity(), len(children)))
	}
	return &Container{op: op, children: children}
}

func (c *Container) IsEmpty() bool {
	return c == nil || (c.expr == nil && c.op == nil)
}

func (c *Container) IsLeaf() bool {
	return c != nil && c.expr != nil
}

func (c *Container) IsApplied() bool {
	return c != nil && c.op != nil
}

func (c *Container) Expression() Expression {
	if c == nil {
		return nil
	}
	return c.expr
}

func (c *Container) Operator() Operator {
	if c == nil {
		return nil
	}
	return c.op
}

func (c *Container) Children() []*Container {
	if c == nil {
		return nil
	}
	return c.children
}

// WithFirst returns a copy of c whose first child is replaced by first.
func (c *Container) WithFirst(first *Container) *Container {
	children := make([]*Container, len(c.children))
	copy(children, c.children)
	children[0] = first
	return &Container{op: c.op, children: children}
}

// Pos returns the position of the leftmost element of the tree.
func (c *Container) Pos() Span {
	switch {
	case c.IsLeaf():
		return c.expr.Pos()
	case c.IsApplied():
		pos := c.op.Pos()
		if first := c.children[0]; !first.IsEmpty() && before(first.Pos(), pos) {
			return first.Pos()
		}
		return pos
	}
	return Span{}
}

func before(a, b Span) bool {
	return a.Line < b.Line || (a.Line == b.Line && a.Column < b.Column)
}

func (c *Container) Interpret(ctx value.Context) (value.Value, error) {
	switch {
	case c.IsLeaf():
		return c.expr.Interpret(ctx)
	case c.IsApplied():
		return c.op.Apply(ctx, c.children)
	}
	return nil, nil
}

func (c *Container) String() string {
	var b strings.Builder
	c.write(&b)
	return b.String()
}

func (c *Container) write(b *strings.Builder) {
	switch {
	case c.IsLeaf():
		b.WriteString(c.expr.String())
	case c.IsApplied():
		b.WriteByte('(')
		b.WriteString(c.op.String())
		for _, child := range c.children {
			b.WriteByte(' ')
			child.write(b)
		}
		b.WriteByte(')')
	default:
		b.WriteString("()")
	}
}

// Equal reports whether c and other have the same shape and print the same
// elements at every node. Positions are ignored.
func (c *Container) Equal(other *Container) bool {
	if c.IsEmpty() || other.IsEmpty() {
		return c.IsEmpty() == other.IsEmpty()
	}
	if c.IsLeaf() != other.IsLeaf() {
		return false
	}
	if c.IsLeaf() {
		return c.expr.String() == other.expr.String()
	}
	if c.op.String() != other.op.String() || c.op.Arity() != other.op.Arity() {
		return false
	}
	for i := range c.children {
		if !c.children[i].Equal(other.children[i]) {
			return false
		}
	}
	return true
}

// Walk visits the tree in pre-order, descending into the nested trees of
// composite expressions. Returning false from fn skips a node's children.
func (c *Container) Walk(fn func(*Container) bool) {
	if c.IsEmpty() || !fn(c) {
		return
	}
	if c.IsLeaf() {
		if composite, ok := c.expr.(Composite); ok {
			for _, nested := range composite.Containers() {
				nested.Walk(fn)
			}
		}
		return
	}
	for _, child := range c.children {
		child.Walk(fn)
	}
}
