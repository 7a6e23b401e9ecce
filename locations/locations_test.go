package locations

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/teleivo/assertive/assert"
	"github.com/teleivo/assertive/require"
)

func TestAddBlockDefaults(t *testing.T) {
	l := New()
	id := l.AddBlock(BlockParams{X: 0, Y: 0})

	b := l.Block(id)
	assert.EqualValuesf(t, 1, b.Width, "default width")
	assert.EqualValuesf(t, 1, b.Height, "default height")
}

func TestAddEdgeEndBoundToBlock(t *testing.T) {
	l := New()
	blockID := l.AddBlock(BlockParams{X: 0, Y: 0})
	edgeEndID := l.AddEdgeEnd(EdgeEndParams{X: 0, Y: 1, Direction: Down, BlockID: &blockID})

	b := l.Block(blockID)
	assert.EqualValuesf(t, []int{edgeEndID}, b.EdgeEnds(), "block edge ends")

	ee := l.EdgeEnd(edgeEndID)
	require.Truef(t, ee.BlockID != nil, "edge end should be bound to a block")
	assert.EqualValuesf(t, blockID, *ee.BlockID, "bound block id")
}

func TestAddEdgeMarksSourceAndCrossLinksPeers(t *testing.T) {
	l := New()
	src := l.AddEdgeEnd(EdgeEndParams{X: 0, Y: 1, Direction: Down})
	dst := l.AddEdgeEnd(EdgeEndParams{X: 0, Y: 2, Direction: Down})

	l.AddEdge(src, dst)

	assert.Truef(t, l.EdgeEnd(src).IsSource, "source edge end should be marked IsSource")
	assert.Falsef(t, l.EdgeEnd(dst).IsSource, "destination edge end should not be marked IsSource")
	assert.EqualValuesf(t, []int{dst}, l.EdgeEnd(src).Peers(), "source peers")
	assert.EqualValuesf(t, []int{src}, l.EdgeEnd(dst).Peers(), "destination peers")
}

func TestDelBlockUnbindsEdgeEnds(t *testing.T) {
	l := New()
	blockID := l.AddBlock(BlockParams{})
	edgeEndID := l.AddEdgeEnd(EdgeEndParams{BlockID: &blockID})

	l.DelBlock(blockID)

	assert.Truef(t, l.EdgeEnd(edgeEndID).BlockID == nil, "edge end should be unbound after its block is deleted")
}

func TestWidthHeight(t *testing.T) {
	l := New()
	l.AddBlock(BlockParams{X: 2, Y: 3, Width: 4, Height: 5})
	l.AddEdgeEnd(EdgeEndParams{X: 10, Y: 1})

	assert.EqualValuesf(t, 11, l.Width(), "Width()")
	assert.EqualValuesf(t, 8, l.Height(), "Height()")
}

func TestColorPack(t *testing.T) {
	c := Color{R: 0x10, G: 0x20, B: 0x30}
	assert.EqualValuesf(t, 0x102030, c.Pack(), "Pack()")
}

func TestMarshalJSONShape(t *testing.T) {
	l := New()
	blockID := l.AddBlock(BlockParams{X: 0, Y: 0, Width: 1, Height: 1})
	src := l.AddEdgeEnd(EdgeEndParams{X: 0, Y: 1, Direction: Down, BlockID: &blockID})
	dst := l.AddEdgeEnd(EdgeEndParams{X: 0, Y: 2, Direction: Down})
	l.AddEdge(src, dst)

	data, err := json.Marshal(l)
	require.NoErrorf(t, err, "Marshal()")

	var got map[string]any
	require.NoErrorf(t, json.Unmarshal(data, &got), "Unmarshal()")

	want := map[string]any{
		"width":            float64(1),
		"height":           float64(3),
		"bgColor":          float64(DefaultBackground.Pack()),
		"highlightBgColor": float64(DefaultHighlightBackground.Pack()),
		"highlightFgColor": float64(DefaultHighlightForeground.Pack()),
		"blocks": []any{
			map[string]any{
				"id": float64(0), "x": float64(0), "y": float64(0),
				"width": float64(1), "height": float64(1), "depth": float64(0),
				"color": float64(0), "edgeEnds": []any{float64(src)},
			},
		},
		"edgeEnds": []any{
			map[string]any{
				"id": float64(src), "x": float64(0), "y": float64(1), "color": float64(0),
				"direction": float64(Down), "isSource": true, "block": float64(blockID),
				"edgeEnds": []any{float64(dst)},
			},
			map[string]any{
				"id": float64(dst), "x": float64(0), "y": float64(2), "color": float64(0),
				"direction": float64(Down), "isSource": false, "block": nil,
				"edgeEnds": []any{float64(src)},
			},
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Marshal() mismatch (-want +got):\n%s", diff)
	}
}
