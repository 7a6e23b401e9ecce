// Package dotset aggregates many independently-parsed dot graphs into one
// [graph.Graph], mirroring a directory of .dot files as nested subgraphs and
// namespacing every name so that files never collide. It operates purely on
// the graph.Graph boundary type: callers supply already-parsed graphs (and
// their path relative to the aggregation root), so this package never
// touches the filesystem or the dot AST itself.
package dotset

import (
	"sort"
	"strings"

	"github.com/teleivo/bgraph/graph"
)

// File is one graph to merge, keyed by its path relative to the
// aggregation root, forward-slash separated (callers normalize OS paths
// before calling Aggregate).
type File struct {
	RelPath string
	Graph   *graph.Graph
}

// Aggregate merges files into a single graph.Graph: one subgraph per path
// segment mirroring each file's directory structure under root, with every
// node, subgraph, and edge endpoint name prefixed "<root>/<relpath>:" so
// identically-named nodes from different files never collide. Files are
// processed in RelPath order for a deterministic result.
func Aggregate(root string, files []File) *graph.Graph {
	g := &graph.Graph{Label: root}

	ordered := append([]File(nil), files...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].RelPath < ordered[j].RelPath })

	for _, f := range ordered {
		leaf := subgraphForPath(g, root, f.RelPath)
		namespace := root + "/" + f.RelPath
		copyInto(leaf, g, f.Graph, namespace)
	}

	return g
}

// subgraphForPath returns the subgraph for f.RelPath's final path segment,
// creating (or reusing) one subgraph per intermediate segment along the
// way, each named after the folder path it represents so that two files
// sharing a directory prefix share that prefix's subgraph.
func subgraphForPath(g *graph.Graph, root, relPath string) *graph.Subgraph {
	var segments []string
	for _, seg := range strings.Split(relPath, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}

	folder := root
	var cur *graph.Subgraph
	for i, seg := range segments {
		folder = folder + "/" + seg
		if i == 0 {
			cur = getOrAddGraphSubgraph(g, folder)
		} else {
			cur = getOrAddSubgraph(cur, folder)
		}
	}

	return cur
}

func getOrAddGraphSubgraph(g *graph.Graph, name string) *graph.Subgraph {
	for _, sg := range g.Subgraphs {
		if sg.Name == name {
			return sg
		}
	}
	sg := g.AddSubgraph(name)
	sg.Label = name
	return sg
}

func getOrAddSubgraph(parent *graph.Subgraph, name string) *graph.Subgraph {
	for _, sg := range parent.Subgraphs {
		if sg.Name == name {
			return sg
		}
	}
	sg := parent.AddSubgraph(name)
	sg.Label = name
	return sg
}

// copyInto copies src's direct nodes and subgraphs into leaf, and its edges
// into g's top-level edge multiset, prefixing every name with namespace.
// namespace stays constant across the whole copy regardless of how deep a
// node or subgraph sits within src: only the file's own path determines the
// prefix, not its internal nesting.
func copyInto(leaf *graph.Subgraph, g *graph.Graph, src *graph.Graph, namespace string) {
	leaf.Label = src.Label
	copyNodes(leaf, src.Nodes, namespace)
	copySubgraphs(leaf, src.Subgraphs, namespace)

	for _, e := range src.Edges {
		g.Edges = append(g.Edges, graph.Edge{
			From:  namespace + ":" + e.From,
			To:    namespace + ":" + e.To,
			Label: e.Label,
		})
	}
}

func copyNodes(dst *graph.Subgraph, nodes []graph.Node, namespace string) {
	for _, n := range nodes {
		dst.Nodes = append(dst.Nodes, graph.Node{Name: namespace + ":" + n.Name, Label: n.Label})
	}
}

func copySubgraphs(dst *graph.Subgraph, subgraphs []*graph.Subgraph, namespace string) {
	for _, sg := range subgraphs {
		child := dst.AddSubgraph(namespace + ":" + sg.Name)
		child.Label = sg.Label
		copyNodes(child, sg.Nodes, namespace)
		copySubgraphs(child, sg.Subgraphs, namespace)
	}
}
