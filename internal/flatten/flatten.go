// Package flatten walks a placed Grid tree in document order and emits the
// flat Blocks and EdgeEnds that make up a Locations value, per §4.4.
package flatten

import (
	"math"
	"sort"

	"github.com/teleivo/bgraph/internal/assert"
	"github.com/teleivo/bgraph/internal/grid"
	"github.com/teleivo/bgraph/internal/region"
	"github.com/teleivo/bgraph/locations"
)

// Flatten walks root in pre-order, assigning each sub-grid an absolute
// offset, and returns the Locations holding one Block per Node/Region and
// one EdgeEnd per local/other edge half, wired together.
func Flatten(t *region.Tree, root *grid.Grid) *locations.Locations {
	tuples := collectTuples(root)

	maxDepth := 0
	for _, tp := range tuples {
		if tp.Depth > maxDepth {
			maxDepth = tp.Depth
		}
	}
	depthSpread := maxDepth
	if depthSpread == 0 {
		depthSpread = 1
	}

	loc := locations.New()

	positions := make(map[region.Index]position, len(tuples))
	for _, tp := range tuples {
		color := grayscale(tp.Depth, depthSpread)
		blockID := loc.AddBlock(locations.BlockParams{
			X: tp.X, Y: tp.Y,
			Width: tp.Grid.Width(), Height: tp.Grid.Height(),
			Depth: tp.Depth, Color: color,
			Label: labelPtr(t.Node(tp.Node).Label),
		})
		positions[tp.Node] = position{X: tp.X, Y: tp.Y, W: tp.Grid.Width(), H: tp.Grid.Height(), BlockID: blockID}
	}

	eeFrom := make(map[edgeKey][]int)
	eeTo := make(map[edgeKey][]int)

	for _, tp := range tuples {
		n := tp.Node
		pos := positions[n]
		blockID := pos.BlockID

		localNext := sortedByPeer(t.LocalNext(n), peerXOfTo(t, positions))
		for i, ei := range localNext {
			e := t.Edges[ei]
			assert.That(pos.X+i < pos.X+pos.W, "local_next edge end falls outside node %q's footprint", t.Node(n).Name)
			id := loc.AddEdgeEnd(locations.EdgeEndParams{
				X: pos.X + i, Y: pos.Y + pos.H, Direction: locations.Down, IsSource: true,
				BlockID: &blockID, Label: labelPtr(e.Label),
			})
			eeFrom[edgeKey{n, e.To}] = append(eeFrom[edgeKey{n, e.To}], id)
		}

		otherNext := sortedByPeer(t.OtherNext(n), peerYOfTo(t, positions))
		for i, ei := range otherNext {
			e := t.Edges[ei]
			assert.That(pos.Y+i < pos.Y+pos.H, "other_next edge end falls outside node %q's footprint", t.Node(n).Name)
			id := loc.AddEdgeEnd(locations.EdgeEndParams{
				X: pos.X + pos.W, Y: pos.Y + i, Direction: locations.Right, IsSource: true,
				BlockID: &blockID, Label: labelPtr(e.Label),
			})
			eeFrom[edgeKey{n, e.To}] = append(eeFrom[edgeKey{n, e.To}], id)
		}

		localPrev := sortedByPeer(t.LocalPrev(n), peerXOfFrom(t, positions))
		for i, ei := range localPrev {
			e := t.Edges[ei]
			id := loc.AddEdgeEnd(locations.EdgeEndParams{
				X: pos.X + i, Y: pos.Y - 1, Direction: locations.Down, IsSource: false,
				BlockID: &blockID, Label: labelPtr(e.Label),
			})
			eeTo[edgeKey{e.From, n}] = append(eeTo[edgeKey{e.From, n}], id)
		}

		otherPrev := sortedByPeer(t.OtherPrev(n), peerYOfFrom(t, positions))
		for i, ei := range otherPrev {
			e := t.Edges[ei]
			id := loc.AddEdgeEnd(locations.EdgeEndParams{
				X: pos.X - 1, Y: pos.Y + i, Direction: locations.Right, IsSource: false,
				BlockID: &blockID, Label: labelPtr(e.Label),
			})
			eeTo[edgeKey{e.From, n}] = append(eeTo[edgeKey{e.From, n}], id)
		}
	}

	for key, from := range eeFrom {
		to, ok := eeTo[key]
		assert.That(ok, "edge (%q,%q) has source edge ends but no destination edge ends", t.Node(key.from).Name, t.Node(key.to).Name)
		assert.That(len(from) == len(to), "edge (%q,%q) has mismatched source/destination multiplicity", t.Node(key.from).Name, t.Node(key.to).Name)
		for i := range from {
			loc.AddEdge(from[i], to[i])
		}
	}

	return loc
}

type tuple struct {
	Node  region.Index
	Grid  *grid.Grid
	X, Y  int
	Depth int
}

// collectTuples performs the pre-order walk of §4.4, accumulating absolute
// offsets from each ancestor's per-child offset.
func collectTuples(root *grid.Grid) []tuple {
	var out []tuple
	var walk func(g *grid.Grid, x, y, depth int)
	walk = func(g *grid.Grid, x, y, depth int) {
		out = append(out, tuple{Node: g.Node, Grid: g, X: x, Y: y, Depth: depth})
		for _, c := range g.Children {
			walk(c.Grid, x+c.OffsetX, y+c.OffsetY, depth+1)
		}
	}
	walk(root, 0, 0, 0)
	return out
}

type position struct {
	X, Y, W, H int
	BlockID    int
}

type edgeKey struct {
	from, to region.Index
}

func peerXOfTo(t *region.Tree, positions map[region.Index]position) func(ei int) int {
	return func(ei int) int { return positions[t.Edges[ei].To].X }
}

func peerYOfTo(t *region.Tree, positions map[region.Index]position) func(ei int) int {
	return func(ei int) int { return positions[t.Edges[ei].To].Y }
}

func peerXOfFrom(t *region.Tree, positions map[region.Index]position) func(ei int) int {
	return func(ei int) int { return positions[t.Edges[ei].From].X }
}

func peerYOfFrom(t *region.Tree, positions map[region.Index]position) func(ei int) int {
	return func(ei int) int { return positions[t.Edges[ei].From].Y }
}

// grayscale computes the flatten color of §4.4: shallower is lighter,
// deeper is darker, scaled against the deepest block observed.
func grayscale(depth, maxDepth int) locations.Color {
	d := float64(maxDepth)
	shift := 0.2 * d
	val := (float64(depth) + shift) / (d + 2*shift)
	gray := uint8(math.Round(255 * (1 - val)))
	return locations.Color{R: gray, G: gray, B: gray}
}

func labelPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// sortedByPeer returns a stable copy of edges ordered by the peer's absolute
// position, as given by peerPos.
func sortedByPeer(edges []int, peerPos func(ei int) int) []int {
	out := append([]int(nil), edges...)
	sort.SliceStable(out, func(i, j int) bool { return peerPos(out[i]) < peerPos(out[j]) })
	return out
}
