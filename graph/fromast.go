package graph

import (
	"strings"

	"github.com/teleivo/bgraph/internal/ast"
)

// nodeNameLabel is the DOT sentinel meaning "use the node's name verbatim".
const nodeNameLabel = `\N`

// FromAST converts a parsed dot graph into the HierarchicalGraph shape the
// layout core consumes. Node and subgraph names are taken from the dot
// source verbatim, quotes included; edges are resolved by name regardless
// of where in the tree they were declared, matching dot's own global edge
// namespace. Edge operands that are themselves subgraphs expand to an edge
// between every node transitively contained in each side, in declaration
// order, the same cross product graphviz's AGraph produces for `A -> {B C}`
// or subgraph-to-subgraph edges.
func FromAST(ag ast.Graph) *Graph {
	g := &Graph{}
	s := &scopeBuilder{}
	s.walk(ag.Stmts)
	g.Label = s.label
	g.Nodes = s.nodes
	g.Subgraphs = s.subgraphs
	g.Edges = s.edges

	return g
}

// scopeBuilder accumulates the nodes, subgraphs, and label declared directly
// within one dot scope (a graph or a subgraph body), plus every edge
// statement found anywhere in or under that scope, since dot's edges are
// resolved in one flat namespace regardless of nesting.
type scopeBuilder struct {
	label     string
	nodes     []Node
	subgraphs []*Subgraph
	edges     []Edge

	nodeIndex map[string]int
}

func (s *scopeBuilder) walk(stmts []ast.Stmt) {
	s.nodeIndex = make(map[string]int)

	for _, stmt := range stmts {
		switch v := stmt.(type) {
		case *ast.NodeStmt:
			s.addNodeStmt(v)
		case *ast.AttrStmt:
			s.addAttrStmt(v)
		case ast.Subgraph:
			s.addSubgraph(v)
		case *ast.EdgeStmt:
			s.addEdgeStmt(v)
		case ast.Attribute:
			// a bare "name=value" statement sets a graph-level default;
			// layout has no use for arbitrary defaults beyond label, which
			// is covered by the "graph [label=...]" attr_stmt form.
		}
	}
}

func (s *scopeBuilder) addNodeStmt(ns *ast.NodeStmt) {
	name := ns.NodeID.ID.Literal
	label := nodeNameLabel
	if v, ok := attrValue(ns.AttrList, "label"); ok {
		label = v
	}

	if idx, ok := s.nodeIndex[name]; ok {
		if label != nodeNameLabel {
			s.nodes[idx].Label = label
		}
		return
	}
	s.nodeIndex[name] = len(s.nodes)
	s.nodes = append(s.nodes, Node{Name: name, Label: label})
}

func (s *scopeBuilder) addAttrStmt(as *ast.AttrStmt) {
	if as.ID.Literal != "graph" {
		return
	}
	if v, ok := attrValue(as.AttrList, "label"); ok {
		s.label = v
	}
}

func (s *scopeBuilder) addSubgraph(sg ast.Subgraph) {
	name := ""
	if sg.ID != nil {
		name = sg.ID.Literal
	}

	child := &scopeBuilder{}
	child.walk(sg.Stmts)

	s.subgraphs = append(s.subgraphs, &Subgraph{
		Name:      name,
		Label:     child.label,
		Subgraphs: child.subgraphs,
		Nodes:     child.nodes,
	})
	s.edges = append(s.edges, child.edges...)
}

func (s *scopeBuilder) addEdgeStmt(es *ast.EdgeStmt) {
	label := ""
	if v, ok := attrValue(es.AttrList, "label"); ok {
		label = v
	}

	left := s.resolveOperand(es.Left)
	for rhs := &es.Right; rhs != nil; rhs = rhs.Next {
		right := s.resolveOperand(rhs.Right)
		for _, from := range left {
			for _, to := range right {
				s.edges = append(s.edges, Edge{From: from, To: to, Label: label})
			}
		}
		left = right
	}
}

// resolveOperand returns the names an edge operand contributes to the cross
// product of endpoints it forms with its neighbor, declaring any node it
// mentions that this scope has not already seen. A NodeID operand is a
// single implicitly-declared node, matching dot's auto-vivification of node
// names first mentioned in an edge; a Subgraph operand is structural like
// any other subgraph statement, so it becomes a real child region and
// contributes every node transitively inside it.
func (s *scopeBuilder) resolveOperand(op ast.EdgeOperand) []string {
	switch v := op.(type) {
	case ast.NodeID:
		name := v.ID.Literal
		s.ensureNode(name)
		return []string{name}
	case ast.Subgraph:
		s.addSubgraph(v)
		return operandNames(v)
	default:
		return nil
	}
}

func (s *scopeBuilder) ensureNode(name string) {
	if _, ok := s.nodeIndex[name]; ok {
		return
	}
	s.nodeIndex[name] = len(s.nodes)
	s.nodes = append(s.nodes, Node{Name: name, Label: nodeNameLabel})
}

// operandNames returns, in declaration order, the name of the single node an
// operand is, or every node transitively contained in an operand that is a
// subgraph, including nodes only ever mentioned as an endpoint of an edge
// statement nested within that subgraph.
func operandNames(op ast.EdgeOperand) []string {
	switch v := op.(type) {
	case ast.NodeID:
		return []string{v.ID.Literal}
	case ast.Subgraph:
		var names []string
		seen := make(map[string]bool)
		add := func(more []string) {
			for _, n := range more {
				if !seen[n] {
					seen[n] = true
					names = append(names, n)
				}
			}
		}
		for _, stmt := range v.Stmts {
			switch s := stmt.(type) {
			case *ast.NodeStmt:
				add([]string{s.NodeID.ID.Literal})
			case ast.Subgraph:
				add(operandNames(s))
			case *ast.EdgeStmt:
				add(operandNames(s.Left))
				for rhs := &s.Right; rhs != nil; rhs = rhs.Next {
					add(operandNames(rhs.Right))
				}
			}
		}
		return names
	default:
		return nil
	}
}

// attrValue returns the last value written for name across an attribute
// list, dot's last-writer-wins rule, with surrounding quotes stripped.
func attrValue(al *ast.AttrList, name string) (string, bool) {
	var value string
	found := false

	for cur := al; cur != nil; cur = cur.Next {
		for a := cur.AList; a != nil; a = a.Next {
			if a.Attribute.Name.Literal == name {
				value = unquote(a.Attribute.Value.Literal)
				found = true
			}
		}
	}

	return value, found
}

func unquote(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}
