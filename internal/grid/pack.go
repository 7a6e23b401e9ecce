package grid

import "github.com/teleivo/bgraph/internal/region"

// rect and placement are the opaque collaborator's vocabulary: a
// non-rotating, maximally-filling packer only needs to answer "do these
// rectangles fit in this bin, and where".
type rect struct {
	w, h int
}

type placement struct {
	x, y int
}

// composePack packs n's children as rectangles sized (width+padding_inner,
// height+padding_inner), per §4.3's PackGrid composition.
func composePack(t *region.Tree, n region.Index, children []region.Index, childGrids map[region.Index]*Grid, padding Padding) *Grid {
	rects := make([]rect, len(children))
	for i, c := range children {
		cg := childGrids[c]
		rects[i] = rect{w: cg.Width() + padding.Inner, h: cg.Height() + padding.Inner}
	}

	packedW, packedH, placements := packRectangles(rects)

	width := max(t.Width(n), packedW+2*padding.Outer)
	height := max(t.Height(n), packedH+2*padding.Outer)

	g := &Grid{Kind: PackKind, Node: n, PaddingOuter: padding.Outer, PaddingInner: padding.Inner, width: width, height: height}
	for i, c := range children {
		p := placements[i]
		g.Children = append(g.Children, Child{
			Node:    c,
			Grid:    childGrids[c],
			OffsetX: p.x + padding.Outer,
			OffsetY: p.y + padding.Outer,
		})
	}
	return g
}

// shelfPack is the opaque packer itself: a shelf (next-fit, left to right,
// wrap to a new shelf below) packer. It never rotates rectangles and
// reports failure rather than overflow the bin.
func shelfPack(binW, binH int, rects []rect) ([]placement, bool) {
	placements := make([]placement, len(rects))
	x, y, shelfHeight := 0, 0, 0

	for i, r := range rects {
		if r.w > binW || r.h > binH {
			return nil, false
		}
		if x+r.w > binW {
			y += shelfHeight
			x = 0
			shelfHeight = 0
		}
		if y+r.h > binH {
			return nil, false
		}

		placements[i] = placement{x: x, y: y}
		x += r.w
		if r.h > shelfHeight {
			shelfHeight = r.h
		}
	}

	return placements, true
}

// packRectangles is the §4.3 driver loop: a square bound doubling search,
// then a binary search for the minimal fitting square, then independent
// binary searches that shrink width (height fixed) and height (width
// fixed), keeping whichever produces the smaller area.
func packRectangles(rects []rect) (width, height int, placements []placement) {
	if len(rects) == 0 {
		return 0, 0, nil
	}

	maxSide := 1
	for _, r := range rects {
		maxSide = max(maxSide, r.w, r.h)
	}

	fit := func(w, h int) ([]placement, bool) { return shelfPack(w, h, rects) }

	upper := maxSide
	squarePlacements, ok := fit(upper, upper)
	lower := 0
	if !ok {
		lower = upper
		upper *= 2
		for {
			squarePlacements, ok = fit(upper, upper)
			if ok {
				break
			}
			lower = upper
			upper *= 2
		}
	}
	for upper-lower > 1 {
		mid := (lower + upper) / 2
		if p, ok := fit(mid, mid); ok {
			upper = mid
			squarePlacements = p
		} else {
			lower = mid
		}
	}
	squareSide := upper

	wSide, wPlacements := binarySearchDim(fit, true, squareSide, 0, squareSide)
	hSide, hPlacements := binarySearchDim(fit, false, squareSide, 0, squareSide)

	width, height, placements = squareSide, squareSide, squarePlacements
	bestArea := squareSide * squareSide
	if area := wSide * squareSide; area < bestArea {
		width, height, placements, bestArea = wSide, squareSide, wPlacements, area
	}
	if area := squareSide * hSide; area < bestArea {
		width, height, placements = squareSide, hSide, hPlacements
	}

	return width, height, placements
}

// binarySearchDim finds the smallest value of the free dimension (width
// when fixedIsHeight is true, height when false) for which fit still
// succeeds with the other dimension held at fixed, searching between a
// known non-fit lower bound and a known-fit upper bound.
func binarySearchDim(fit func(w, h int) ([]placement, bool), fixedIsHeight bool, fixed, lowerNonFit, upperFit int) (int, []placement) {
	lower, upper := lowerNonFit, upperFit
	var best []placement

	for upper-lower > 1 {
		mid := (lower + upper) / 2
		var p []placement
		var ok bool
		if fixedIsHeight {
			p, ok = fit(mid, fixed)
		} else {
			p, ok = fit(fixed, mid)
		}
		if ok {
			upper = mid
			best = p
		} else {
			lower = mid
		}
	}

	if best == nil {
		if fixedIsHeight {
			best, _ = fit(upper, fixed)
		} else {
			best, _ = fit(fixed, upper)
		}
	}

	return upper, best
}
