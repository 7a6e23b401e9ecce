package grid

import (
	"sort"

	"github.com/teleivo/bgraph/internal/region"
)

// Kind distinguishes the two Grid composition strategies.
type Kind int

const (
	RowsKind Kind = iota
	PackKind
)

// Padding carries the two non-negative spacing parameters a Grid is
// composed with. The documented default, 2/3, mirrors the padding the
// Python original always passed to place_on_grid.
type Padding struct {
	Outer int
	Inner int
}

// DefaultPadding is the padding a Region is placed with unless the caller
// overrides it.
var DefaultPadding = Padding{Outer: 2, Inner: 3}

// Child is one positioned sub-grid: the Region/Node it represents, its own
// Grid, and its offset within the parent. Offset is the sole property the
// rest of the core (the flattener) depends on; it is already resolved by
// whichever composition (RowsGrid or PackGrid) produced it.
type Child struct {
	Node    region.Index
	Grid    *Grid
	OffsetX int
	OffsetY int
}

// Grid is the tagged variant of §9's design note: one of RowsGrid or
// PackGrid, sharing the fields the flattener needs regardless of which
// composition produced them.
type Grid struct {
	Kind         Kind
	Node         region.Index
	PaddingOuter int
	PaddingInner int
	Children     []Child

	width, height int
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// Place recursively builds the Grid for n: a childless leaf grid sized to
// the node's own width/height if n is not a Region, otherwise a composed
// RowsGrid or PackGrid over n's already-placed children.
func Place(t *region.Tree, n region.Index, padding Padding) (*Grid, error) {
	if !t.Node(n).IsRegion {
		return &Grid{
			Kind:   RowsKind,
			Node:   n,
			width:  t.Width(n),
			height: t.Height(n),
		}, nil
	}

	classification, err := Classify(t, n)
	if err != nil {
		return nil, err
	}

	children := t.Node(n).Children
	childGrids := make(map[region.Index]*Grid, len(children))
	for _, c := range children {
		cg, err := Place(t, c, padding)
		if err != nil {
			return nil, err
		}
		childGrids[c] = cg
	}

	if packable(children, classification.Depths) {
		return composePack(t, n, children, childGrids, padding), nil
	}
	return composeRows(t, n, children, childGrids, classification.Depths, padding), nil
}

// packable reports whether n's children should be composed with PackGrid:
// at least two children, all sharing depth 0 (mutually unconnected).
func packable(children []region.Index, depths map[region.Index]int) bool {
	if len(children) < 2 {
		return false
	}
	for _, c := range children {
		if depths[c] != 0 {
			return false
		}
	}
	return true
}

// composeRows lays out children row by row, y equal to assigned depth, x
// allocated left to right within the row, each row centered horizontally.
func composeRows(t *region.Tree, n region.Index, children []region.Index, childGrids map[region.Index]*Grid, depths map[region.Index]int, padding Padding) *Grid {
	rowOf := make(map[int][]region.Index)
	maxDepth := 0
	for _, c := range children {
		d := depths[c]
		rowOf[d] = append(rowOf[d], c)
		if d > maxDepth {
			maxDepth = d
		}
	}

	rows := make([]int, 0, len(rowOf))
	for d := range rowOf {
		rows = append(rows, d)
	}
	sort.Ints(rows)

	rowWidth := make(map[int]int)
	rowHeight := make(map[int]int)
	maxRowWidth := 0
	for _, d := range rows {
		members := rowOf[d]
		w := 0
		h := 0
		for i, m := range members {
			cg := childGrids[m]
			w += cg.Width()
			if i > 0 {
				w += padding.Inner
			}
			if cg.Height() > h {
				h = cg.Height()
			}
		}
		rowWidth[d] = w
		rowHeight[d] = h
		if w > maxRowWidth {
			maxRowWidth = w
		}
	}

	totalRowHeight := 0
	for i, d := range rows {
		totalRowHeight += rowHeight[d]
		if i > 0 {
			totalRowHeight += padding.Inner
		}
	}

	width := t.Width(n)
	height := t.Height(n)
	if len(rows) > 0 {
		width = max(width, padding.Outer*2+maxRowWidth)
		height = max(height, padding.Outer*2+totalRowHeight)
	}

	g := &Grid{Kind: RowsKind, Node: n, PaddingOuter: padding.Outer, PaddingInner: padding.Inner, width: width, height: height}

	y := padding.Outer
	for _, d := range rows {
		members := rowOf[d]
		rw := rowWidth[d]
		leftOffset := (width - rw) / 2

		x := leftOffset
		for _, m := range members {
			cg := childGrids[m]
			g.Children = append(g.Children, Child{Node: m, Grid: cg, OffsetX: x, OffsetY: y})
			x += cg.Width() + padding.Inner
		}
		y += rowHeight[d] + padding.Inner
	}

	return g
}
