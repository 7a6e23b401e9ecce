// Package bgraph converts a hierarchical directed graph into a flat,
// two-dimensional block graph layout: a set of positioned rectangular
// blocks and directional edge endpoints on an integer grid.
package bgraph

import (
	"fmt"

	"github.com/teleivo/bgraph/graph"
	"github.com/teleivo/bgraph/internal/flatten"
	"github.com/teleivo/bgraph/internal/grid"
	"github.com/teleivo/bgraph/internal/region"
	"github.com/teleivo/bgraph/locations"
)

// Kind distinguishes the two fatal failure modes a Convert can report:
// malformed input from the caller's graph, or an internal invariant
// violation in the layout core itself.
type Kind int

const (
	// KindMalformedInput marks a failure caused by the input graph: an
	// unknown edge endpoint, or a duplicate node name within one Region.
	KindMalformedInput Kind = iota
	// KindInternal marks a failure that indicates a bug in the layout core
	// rather than a problem with the input.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindMalformedInput:
		return "malformed input"
	case KindInternal:
		return "internal invariant violation"
	default:
		return "unknown"
	}
}

// Error is the single reported error value Convert returns: a Kind plus a
// human-readable context string, wrapping the underlying error so callers
// can still errors.Is/errors.As against it.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Convert lays out g: it builds the region tree, classifies and depths its
// edges, composes a Grid over it with the given padding, and flattens the
// result into a Locations. padding is the one piece of external
// configuration layout takes; callers with no preference should pass
// grid.DefaultPadding.
//
// Convert returns a consistent Locations or a non-nil *Error; it never
// returns a partial result.
func Convert(g *graph.Graph, padding grid.Padding) (*locations.Locations, error) {
	tree, err := region.Build(g)
	if err != nil {
		return nil, &Error{Kind: KindMalformedInput, Err: err}
	}

	root, err := grid.Place(tree, tree.Root, padding)
	if err != nil {
		return nil, &Error{Kind: KindInternal, Err: err}
	}

	return flatten.Flatten(tree, root), nil
}
