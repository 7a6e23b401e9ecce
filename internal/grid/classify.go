// Package grid computes, for one Region at a time, the edge classification
// and node depths that drive grid placement, and composes the placed
// children into a RowsGrid or PackGrid.
package grid

import (
	"fmt"
	"sort"

	"github.com/teleivo/bgraph/internal/region"
)

// EdgeType classifies one local edge relative to a DFS over its Region.
type EdgeType int

const (
	Normal EdgeType = iota
	Forward
	Cross
	Back
)

func (e EdgeType) String() string {
	switch e {
	case Normal:
		return "normal"
	case Forward:
		return "forward"
	case Cross:
		return "cross"
	case Back:
		return "back"
	default:
		return "unknown"
	}
}

// Classification is the output of classifying one Region's local edges and
// assigning its children's depths.
type Classification struct {
	// EdgeTypes maps a local edge's index in the Tree's edge arena to its
	// classification.
	EdgeTypes map[int]EdgeType
	// Depths maps a child index to its assigned depth.
	Depths map[region.Index]int
}

// Classify computes the edge classification and depth assignment for one
// Region's direct children, per the source selection, DFS, and BFS rules.
func Classify(t *region.Tree, r region.Index) (*Classification, error) {
	sources := Sources(t, r)

	c := &Classification{
		EdgeTypes: make(map[int]EdgeType),
		Depths:    make(map[region.Index]int),
	}

	d := &dfs{
		tree:    t,
		visited: make(map[region.Index]bool),
		start:   make(map[region.Index]int),
		finish:  make(map[region.Index]int),
		types:   c.EdgeTypes,
	}
	for _, src := range sources {
		if d.visited[src] {
			return nil, fmt.Errorf("internal invariant violation: source %q already visited before its own traversal", t.Node(src).Name)
		}
		d.run(src)
	}

	assignDepths(t, sources, c.EdgeTypes, c.Depths)

	return c, nil
}

// Sources selects the DFS roots of one Region's children per §4.2.1:
// undirected connected components over the local edge set, with each
// component's sources being all of its empty-prev members if any exist,
// otherwise the single member with fewest local predecessors, most local
// successors, alphabetically first.
func Sources(t *region.Tree, r region.Index) []region.Index {
	children := t.Node(r).Children

	component := make(map[region.Index]region.Index, len(children))
	for _, c := range children {
		component[c] = c
	}
	find := func(n region.Index) region.Index {
		for component[n] != n {
			n = component[n]
		}
		return n
	}
	union := func(a, b region.Index) {
		ra, rb := find(a), find(b)
		if ra != rb {
			component[ra] = rb
		}
	}
	for _, c := range children {
		for _, ei := range t.LocalNext(c) {
			e := t.Edges[ei]
			union(e.From, e.To)
		}
	}

	groups := make(map[region.Index][]region.Index)
	for _, c := range children {
		root := find(c)
		groups[root] = append(groups[root], c)
	}

	var sources []region.Index
	for _, members := range groups {
		sources = append(sources, selectSources(t, members)...)
	}

	sort.Slice(sources, func(i, j int) bool { return t.Node(sources[i]).Name < t.Node(sources[j]).Name })
	return sources
}

func selectSources(t *region.Tree, members []region.Index) []region.Index {
	var withoutPrev []region.Index
	for _, m := range members {
		if len(t.LocalPrev(m)) == 0 {
			withoutPrev = append(withoutPrev, m)
		}
	}
	if len(withoutPrev) > 0 {
		return withoutPrev
	}

	best := members[0]
	for _, m := range members[1:] {
		if betterSource(t, m, best) {
			best = m
		}
	}
	return []region.Index{best}
}

// betterSource reports whether candidate should replace current as the sole
// source: fewer local predecessors, then more local successors, then
// alphabetically first.
func betterSource(t *region.Tree, candidate, current region.Index) bool {
	cp, kp := len(t.LocalPrev(candidate)), len(t.LocalPrev(current))
	if cp != kp {
		return cp < kp
	}
	cn, kn := len(t.LocalNext(candidate)), len(t.LocalNext(current))
	if cn != kn {
		return cn > kn
	}
	return t.Node(candidate).Name < t.Node(current).Name
}

type dfs struct {
	tree    *region.Tree
	visited map[region.Index]bool
	start   map[region.Index]int
	finish  map[region.Index]int
	clock   int
	types   map[int]EdgeType
}

func (d *dfs) run(u region.Index) {
	d.visited[u] = true
	d.clock++
	d.start[u] = d.clock

	for _, ei := range d.tree.LocalNext(u) {
		e := d.tree.Edges[ei]
		v := e.To
		switch {
		case !d.visited[v]:
			d.types[ei] = Normal
			d.run(v)
		case d.finish[v] == 0:
			d.types[ei] = Back
		case d.start[u] < d.start[v]:
			d.types[ei] = Forward
		default:
			d.types[ei] = Cross
		}
	}

	d.clock++
	d.finish[u] = d.clock
}

// assignDepths runs the predecessor-quorum BFS of §4.2.3.
func assignDepths(t *region.Tree, sources []region.Index, types map[int]EdgeType, depths map[region.Index]int) {
	required := make(map[region.Index]int)

	type item struct {
		n region.Index
		d int
	}
	var queue []item
	seen := make(map[region.Index]int)

	for _, s := range sources {
		depths[s] = 0
		queue = append(queue, item{s, 0})
	}

	// required[v] = number of v's local incoming edges not classified BACK.
	requiredFor := func(v region.Index) int {
		if n, ok := required[v]; ok {
			return n
		}
		n := 0
		for _, ei := range t.LocalPrev(v) {
			if types[ei] != Back {
				n++
			}
		}
		required[v] = n
		return n
	}

	for len(queue) > 0 {
		it := queue[0]
		queue = queue[1:]

		for _, ei := range t.LocalNext(it.n) {
			if types[ei] == Back {
				continue
			}
			e := t.Edges[ei]
			v := e.To

			if it.d+1 > depths[v] {
				depths[v] = it.d + 1
			}
			seen[v]++

			if seen[v] == requiredFor(v) {
				queue = append(queue, item{v, depths[v]})
			}
		}
	}
}
