package grid

import (
	"testing"

	"github.com/teleivo/assertive/assert"
	"github.com/teleivo/assertive/require"
	"github.com/teleivo/bgraph/graph"
	"github.com/teleivo/bgraph/internal/region"
)

func build(t *testing.T, g *graph.Graph) *region.Tree {
	t.Helper()
	tree, err := region.Build(g)
	require.NoErrorf(t, err, "Build()")
	return tree
}

func findByName(tree *region.Tree, name string) region.Index {
	for i := range tree.Nodes {
		if tree.Nodes[i].Name == name {
			return region.Index(i)
		}
	}
	return -1
}

func TestSources(t *testing.T) {
	tests := map[string]struct {
		graph *graph.Graph
		want  []string
	}{
		"empty region has no sources": {
			graph: &graph.Graph{},
			want:  nil,
		},
		"isolated nodes are each their own source": {
			graph: func() *graph.Graph {
				g := &graph.Graph{}
				g.Nodes = append(g.Nodes, graph.Node{Name: "a"}, graph.Node{Name: "b"})
				return g
			}(),
			want: []string{"a", "b"},
		},
		"a chain has one source, the head": {
			graph: func() *graph.Graph {
				g := &graph.Graph{}
				g.Nodes = append(g.Nodes, graph.Node{Name: "a"}, graph.Node{Name: "b"}, graph.Node{Name: "c"})
				g.Edges = append(g.Edges, graph.Edge{From: "a", To: "b"}, graph.Edge{From: "b", To: "c"})
				return g
			}(),
			want: []string{"a"},
		},
		"a cycle with no empty-prev member picks fewest predecessors": {
			graph: func() *graph.Graph {
				g := &graph.Graph{}
				g.Nodes = append(g.Nodes, graph.Node{Name: "a"}, graph.Node{Name: "b"})
				g.Edges = append(g.Edges, graph.Edge{From: "a", To: "b"}, graph.Edge{From: "b", To: "a"})
				return g
			}(),
			want: []string{"a"}, // a has 1 predecessor (b->a) same as b (1, a->b); tie -> alphabetical
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			tree := build(t, test.graph)
			sources := Sources(tree, tree.Root)

			var got []string
			for _, s := range sources {
				got = append(got, tree.Node(s).Name)
			}
			assert.EqualValuesf(t, test.want, got, "Sources()")
		})
	}
}

func TestClassifyChain(t *testing.T) {
	g := &graph.Graph{}
	g.Nodes = append(g.Nodes, graph.Node{Name: "a"}, graph.Node{Name: "b"}, graph.Node{Name: "c"})
	g.Edges = append(g.Edges, graph.Edge{From: "a", To: "b"}, graph.Edge{From: "b", To: "c"})
	tree := build(t, g)

	c, err := Classify(tree, tree.Root)
	require.NoErrorf(t, err, "Classify()")

	for _, et := range c.EdgeTypes {
		assert.EqualValuesf(t, Normal, et, "edge type")
	}

	a, b, cc := findByName(tree, "a"), findByName(tree, "b"), findByName(tree, "c")
	assert.EqualValuesf(t, 0, c.Depths[a], "depth of a")
	assert.EqualValuesf(t, 1, c.Depths[b], "depth of b")
	assert.EqualValuesf(t, 2, c.Depths[cc], "depth of c")
}

func TestClassifyCycle(t *testing.T) {
	g := &graph.Graph{}
	g.Nodes = append(g.Nodes, graph.Node{Name: "a"}, graph.Node{Name: "b"})
	g.Edges = append(g.Edges, graph.Edge{From: "a", To: "b"}, graph.Edge{From: "b", To: "a"})
	tree := build(t, g)

	c, err := Classify(tree, tree.Root)
	require.NoErrorf(t, err, "Classify()")

	a, b := findByName(tree, "a"), findByName(tree, "b")
	assert.EqualValuesf(t, 0, c.Depths[a], "depth of a")
	assert.EqualValuesf(t, 1, c.Depths[b], "depth of b")

	// edge index 0 is a->b (NORMAL), edge index 1 is b->a (BACK)
	assert.EqualValuesf(t, Normal, c.EdgeTypes[0], "a->b classification")
	assert.EqualValuesf(t, Back, c.EdgeTypes[1], "b->a classification")
}
