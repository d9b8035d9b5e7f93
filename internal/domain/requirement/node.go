// Package requirement models award requirements as a tagged-union
// expression tree: AND/OR containers over typed leaf conditions.
package requirement

// Op tags a node of the expression tree.
type Op string

// Tree operators.
const (
	OpAnd  Op = "and"
	OpOr   Op = "or"
	OpLeaf Op = "leaf"
)

// Node is one of And, Or or Leaf.
type Node interface {
	Op() Op
	isNode()
}

// And is satisfied when every child is. An empty And is satisfied.
type And struct {
	Children []Node
}

// Or is satisfied when any child is. An empty Or is not.
type Or struct {
	Children []Node
}

// Leaf wraps a single typed condition.
type Leaf struct {
	Spec LeafSpec
}

func (And) Op() Op  { return OpAnd }
func (Or) Op() Op   { return OpOr }
func (Leaf) Op() Op { return OpLeaf }

func (And) isNode()  {}
func (Or) isNode()   {}
func (Leaf) isNode() {}

// Walk visits node and its descendants depth-first, parents before children.
// Returning false from fn skips the children of the visited node.
func Walk(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}
	switch n := node.(type) {
	case And:
		for _, c := range n.Children {
			Walk(c, fn)
		}
	case Or:
		for _, c := range n.Children {
			Walk(c, fn)
		}
	}
}

// Leaves returns every leaf of node in visitation order.
func Leaves(node Node) []Leaf {
	var out []Leaf
	Walk(node, func(n Node) bool {
		if l, ok := n.(Leaf); ok {
			out = append(out, l)
		}
		return true
	})
	return out
}
