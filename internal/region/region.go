// Package region builds the region/node tree the rest of the layout core
// operates on. It consumes a [graph.Graph] and produces a [Tree]: an arena
// of nodes addressed by dense integer index rather than pointers, so that
// the parent/child relationship between a Region and its Nodes never needs
// a weak back-reference.
package region

import (
	"errors"
	"fmt"
	"sort"

	"github.com/teleivo/bgraph/graph"
)

// nodeNameLabel is the DOT sentinel meaning "use the node's name verbatim".
const nodeNameLabel = `\N`

// ErrDuplicateNode is returned when two distinct input nodes would occupy
// the same name within the same Region.
var ErrDuplicateNode = errors.New("duplicate node name in region")

// ErrUnknownEndpoint is returned when an edge references a node name that
// was never declared anywhere in the graph.
var ErrUnknownEndpoint = errors.New("unknown edge endpoint")

// Index addresses a Node within a [Tree]'s arena. The zero Index is the
// Tree's root Region.
type Index int

// noParent marks a Node with no enclosing Region, which is true only of the
// synthetic root.
const noParent Index = -1

// Node is one entry of the tree: a plain node, or, when IsRegion is true, a
// Region that additionally owns children.
type Node struct {
	Name     string
	Label    string
	Parent   Index
	IsRegion bool

	// Children lists this Region's direct children in construction order:
	// its direct nodes in declaration order, followed by its child Regions
	// in alphabetical order by subgraph name. Empty for non-Region nodes.
	Children []Index

	// Next and Prev are indices into Tree.Edges, in the order edges were
	// appended, giving this node's outgoing and incoming edge halves.
	Next []int
	Prev []int
}

// Edge is an ordered (From, To) pair with an optional label. Multi-edges
// between the same pair are distinct entries that, after label resolution,
// share one label (the last non-empty one written for that pair).
type Edge struct {
	From, To Index
	Label    string
}

// Tree is the arena of all Nodes and Edges built from one [graph.Graph].
type Tree struct {
	Nodes []Node
	Edges []Edge
	Root  Index
}

func (t *Tree) Node(i Index) *Node { return &t.Nodes[i] }

// LocalNext returns the edge indices of n's outgoing edges whose other
// endpoint shares n's enclosing Region.
func (t *Tree) LocalNext(n Index) []int { return t.filterByRegion(n, t.Nodes[n].Next, true) }

// LocalPrev returns the edge indices of n's incoming edges whose other
// endpoint shares n's enclosing Region.
func (t *Tree) LocalPrev(n Index) []int { return t.filterByRegion(n, t.Nodes[n].Prev, true) }

// OtherNext returns the edge indices of n's outgoing edges crossing n's
// Region boundary.
func (t *Tree) OtherNext(n Index) []int { return t.filterByRegion(n, t.Nodes[n].Next, false) }

// OtherPrev returns the edge indices of n's incoming edges crossing n's
// Region boundary.
func (t *Tree) OtherPrev(n Index) []int { return t.filterByRegion(n, t.Nodes[n].Prev, false) }

func (t *Tree) filterByRegion(n Index, edges []int, local bool) []int {
	parent := t.Nodes[n].Parent
	var out []int
	for _, ei := range edges {
		e := t.Edges[ei]
		other := e.From
		if e.From == n {
			other = e.To
		}
		sameRegion := t.Nodes[other].Parent == parent
		if sameRegion == local {
			out = append(out, ei)
		}
	}
	return out
}

// Width is max(1, |local_prev|, |local_next|), the number of seats n offers
// along its local (horizontal) sides.
func (t *Tree) Width(n Index) int {
	return max(1, len(t.LocalPrev(n)), len(t.LocalNext(n)))
}

// Height is max(1, |other_prev|, |other_next|), the number of seats n
// offers along its cross-region (vertical) sides.
func (t *Tree) Height(n Index) int {
	return max(1, len(t.OtherPrev(n)), len(t.OtherNext(n)))
}

// Build constructs a region tree from g. Node placement, subgraph ordering,
// label inheritance, and failure modes follow the rules any collaborator
// producing a HierarchicalGraph is expected to have satisfied structurally;
// Build itself performs the direct_nodes set subtraction, the alphabetical
// subgraph traversal, and edge resolution.
func Build(g *graph.Graph) (*Tree, error) {
	t := &Tree{}
	t.Root = t.newRegion(noParent, "", g.Label)

	b := &builder{tree: t, byName: make(map[string]Index), placed: make(map[string]bool)}
	if err := b.populate(t.Root, g.Nodes, g.Subgraphs); err != nil {
		return nil, err
	}
	if err := b.addEdges(g.Edges); err != nil {
		return nil, err
	}
	b.resolveLabels()

	return t, nil
}

func (t *Tree) newRegion(parent Index, name, label string) Index {
	idx := Index(len(t.Nodes))
	t.Nodes = append(t.Nodes, Node{Name: name, Label: label, Parent: parent, IsRegion: true})
	if parent != noParent {
		t.Nodes[parent].Children = append(t.Nodes[parent].Children, idx)
	}
	return idx
}

func (t *Tree) newNode(parent Index, name, label string) Index {
	idx := Index(len(t.Nodes))
	t.Nodes = append(t.Nodes, Node{Name: name, Label: resolveNodeLabel(name, label), Parent: parent})
	t.Nodes[parent].Children = append(t.Nodes[parent].Children, idx)
	return idx
}

func resolveNodeLabel(name, label string) string {
	if label == nodeNameLabel {
		return name
	}
	return label
}

type builder struct {
	tree   *Tree
	byName map[string]Index
	placed map[string]bool
}

// populate places the direct nodes of one scope (the nodes declared there
// minus those owned by a descendant subgraph minus those already placed
// anywhere earlier in the traversal), then recurses into child subgraphs in
// alphabetical order by name.
func (b *builder) populate(region Index, nodes []graph.Node, subgraphs []*graph.Subgraph) error {
	descendant := make(map[string]bool)
	for _, sg := range subgraphs {
		collectNames(sg, descendant)
	}

	seenHere := make(map[string]bool)
	for _, n := range nodes {
		if descendant[n.Name] {
			continue
		}
		if seenHere[n.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateNode, n.Name)
		}
		if b.placed[n.Name] {
			continue
		}
		seenHere[n.Name] = true
		b.placed[n.Name] = true

		idx := b.tree.newNode(region, n.Name, n.Label)
		b.byName[n.Name] = idx
	}

	ordered := append([]*graph.Subgraph(nil), subgraphs...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Name < ordered[j].Name })
	for _, sg := range ordered {
		childRegion := b.tree.newRegion(region, sg.Name, sg.Label)
		if err := b.populate(childRegion, sg.Nodes, sg.Subgraphs); err != nil {
			return err
		}
	}

	return nil
}

// collectNames accumulates every node name declared anywhere within sg,
// including its own nested subgraphs, so an ancestor scope can exclude them
// from its own direct_nodes computation.
func collectNames(sg *graph.Subgraph, into map[string]bool) {
	for _, n := range sg.Nodes {
		into[n.Name] = true
	}
	for _, child := range sg.Subgraphs {
		collectNames(child, into)
	}
}

func (b *builder) addEdges(edges []graph.Edge) error {
	for _, e := range edges {
		from, ok := b.byName[e.From]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownEndpoint, e.From)
		}
		to, ok := b.byName[e.To]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownEndpoint, e.To)
		}

		ei := len(b.tree.Edges)
		b.tree.Edges = append(b.tree.Edges, Edge{From: from, To: to, Label: e.Label})
		b.tree.Nodes[from].Next = append(b.tree.Nodes[from].Next, ei)
		b.tree.Nodes[to].Prev = append(b.tree.Nodes[to].Prev, ei)
	}
	return nil
}

// resolveLabels makes every Edge sharing a (from, to) pair carry the last
// non-empty label written for that pair, per the last-writer-wins rule.
func (b *builder) resolveLabels() {
	type pair struct {
		from, to Index
	}
	final := make(map[pair]string)
	for _, e := range b.tree.Edges {
		if e.Label == "" {
			continue
		}
		final[pair{e.From, e.To}] = e.Label
	}
	for i, e := range b.tree.Edges {
		if l, ok := final[pair{e.From, e.To}]; ok {
			b.tree.Edges[i].Label = l
		}
	}
}
