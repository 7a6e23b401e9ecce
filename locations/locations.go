// Package locations is the write-mostly, dense-id output container: it owns
// every Block and EdgeEnd the flattener produces and exposes the JSON shape
// downstream consumers (a renderer, a CLI) read.
package locations

import (
	"encoding/json"
	"sort"

	"github.com/teleivo/bgraph/internal/assert"
)

// Color is an RGB triple, packed for JSON as (R<<16)|(G<<8)|B.
type Color struct {
	R, G, B uint8
}

// Pack returns the int24-packed representation of c.
func (c Color) Pack() int {
	return int(c.R)<<16 | int(c.G)<<8 | int(c.B)
}

// Default colors, carried over from the Python original's Locations
// constructor defaults: white background, white highlight background,
// black highlight foreground.
var (
	DefaultBackground          = Color{R: 255, G: 255, B: 255}
	DefaultHighlightBackground = Color{R: 255, G: 255, B: 255}
	DefaultHighlightForeground = Color{R: 0, G: 0, B: 0}
)

// Direction is the facing of an EdgeEnd.
type Direction int

const (
	Up    Direction = 1
	Right Direction = 2
	Down  Direction = 3
	Left  Direction = 4
)

// Block is a positioned rectangle: one Region or Node in the flattened
// output.
type Block struct {
	ID            int
	X, Y          int
	Width, Height int
	Depth         int
	Color         Color
	Label         *string

	edgeEnds []int
}

// EdgeEnds returns the ids of EdgeEnds currently bound to this Block, in the
// order they were bound.
func (b *Block) EdgeEnds() []int { return append([]int(nil), b.edgeEnds...) }

// EdgeEnd is one half of a directed edge: a positioned, directional point
// bound to the Block it sits against, cross-referenced with its peer
// EdgeEnd(s) once AddEdge links them.
type EdgeEnd struct {
	ID        int
	X, Y      int
	Color     Color
	Direction Direction
	IsSource  bool
	BlockID   *int
	Label     *string

	peers []int
}

// Peers returns the ids of EdgeEnds cross-referenced with this one.
func (e *EdgeEnd) Peers() []int { return append([]int(nil), e.peers...) }

// BlockParams are the fields AddBlock accepts; fields left at their zero
// value take the documented defaults (Width=1, Height=1). Color is stored
// as given, so a zero Color is black.
type BlockParams struct {
	X, Y          int
	Width, Height int
	Depth         int
	Color         Color
	Label         *string
}

// EdgeEndParams are the fields AddEdgeEnd accepts. If BlockID is non-nil the
// new EdgeEnd is bound to that Block immediately, as AssignEdgeToBlock
// would.
type EdgeEndParams struct {
	X, Y      int
	Color     Color
	Direction Direction
	IsSource  bool
	BlockID   *int
	Label     *string
}

// Locations owns all Blocks and EdgeEnds produced by one layout run.
type Locations struct {
	BGColor          Color
	HighlightBGColor Color
	HighlightFGColor Color

	blocks        map[int]*Block
	edgeEnds      map[int]*EdgeEnd
	nextBlockID   int
	nextEdgeEndID int
}

// New returns an empty Locations with the documented default colors.
func New() *Locations {
	return &Locations{
		BGColor:          DefaultBackground,
		HighlightBGColor: DefaultHighlightBackground,
		HighlightFGColor: DefaultHighlightForeground,
		blocks:           make(map[int]*Block),
		edgeEnds:         make(map[int]*EdgeEnd),
	}
}

// AddBlock creates a new Block and returns its id.
func (l *Locations) AddBlock(p BlockParams) int {
	width := p.Width
	if width == 0 {
		width = 1
	}
	height := p.Height
	if height == 0 {
		height = 1
	}
	assert.That(p.X >= 0 && p.Y >= 0, "block coordinates must be non-negative, got (%d,%d)", p.X, p.Y)
	assert.That(width >= 1 && height >= 1, "block size must be at least 1x1, got %dx%d", width, height)

	id := l.nextBlockID
	l.nextBlockID++
	l.blocks[id] = &Block{ID: id, X: p.X, Y: p.Y, Width: width, Height: height, Depth: p.Depth, Color: p.Color, Label: p.Label}
	return id
}

// AddEdgeEnd creates a new EdgeEnd and returns its id, binding it to
// p.BlockID when non-nil.
func (l *Locations) AddEdgeEnd(p EdgeEndParams) int {
	assert.That(p.X >= 0 && p.Y >= 0, "edge end coordinates must be non-negative, got (%d,%d)", p.X, p.Y)

	id := l.nextEdgeEndID
	l.nextEdgeEndID++
	l.edgeEnds[id] = &EdgeEnd{ID: id, X: p.X, Y: p.Y, Color: p.Color, Direction: p.Direction, IsSource: p.IsSource, Label: p.Label}
	if p.BlockID != nil {
		l.AssignEdgeToBlock(id, *p.BlockID)
	}
	return id
}

// AssignEdgeToBlock binds an existing EdgeEnd to an existing Block.
func (l *Locations) AssignEdgeToBlock(edgeEndID, blockID int) {
	ee := l.mustEdgeEnd(edgeEndID)
	b := l.mustBlock(blockID)
	ee.BlockID = &blockID
	b.edgeEnds = append(b.edgeEnds, edgeEndID)
}

// AddEdge links two EdgeEnds as the two halves of one directed edge: from is
// marked the source, and the two are cross-referenced as peers. to must not
// already be marked as a source edge end; violating that is an internal
// invariant violation, not a reportable input error.
func (l *Locations) AddEdge(fromEdgeEndID, toEdgeEndID int) {
	from := l.mustEdgeEnd(fromEdgeEndID)
	to := l.mustEdgeEnd(toEdgeEndID)

	from.peers = append(from.peers, toEdgeEndID)
	to.peers = append(to.peers, fromEdgeEndID)
	from.IsSource = true
	assert.That(!to.IsSource, "edge end %d is already marked as a source", toEdgeEndID)
}

// Width is the maximum horizontal extent over all Blocks and EdgeEnds.
func (l *Locations) Width() int {
	max := 0
	for _, b := range l.blocks {
		if x := b.X + b.Width; x > max {
			max = x
		}
	}
	for _, e := range l.edgeEnds {
		if x := e.X + 1; x > max {
			max = x
		}
	}
	return max
}

// Height is the maximum vertical extent over all Blocks and EdgeEnds.
func (l *Locations) Height() int {
	max := 0
	for _, b := range l.blocks {
		if y := b.Y + b.Height; y > max {
			max = y
		}
	}
	for _, e := range l.edgeEnds {
		if y := e.Y + 1; y > max {
			max = y
		}
	}
	return max
}

// Block looks up a Block by id.
func (l *Locations) Block(id int) *Block { return l.mustBlock(id) }

// EdgeEnd looks up an EdgeEnd by id.
func (l *Locations) EdgeEnd(id int) *EdgeEnd { return l.mustEdgeEnd(id) }

func (l *Locations) mustBlock(id int) *Block {
	b, ok := l.blocks[id]
	assert.That(ok, "locations does not contain block with id=%d", id)
	return b
}

func (l *Locations) mustEdgeEnd(id int) *EdgeEnd {
	e, ok := l.edgeEnds[id]
	assert.That(ok, "locations does not contain edge end with id=%d", id)
	return e
}

// IterBlocks returns all Blocks in ascending id order.
func (l *Locations) IterBlocks() []*Block {
	ids := make([]int, 0, len(l.blocks))
	for id := range l.blocks {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]*Block, len(ids))
	for i, id := range ids {
		out[i] = l.blocks[id]
	}
	return out
}

// IterEdgeEnds returns all EdgeEnds in ascending id order.
func (l *Locations) IterEdgeEnds() []*EdgeEnd {
	ids := make([]int, 0, len(l.edgeEnds))
	for id := range l.edgeEnds {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]*EdgeEnd, len(ids))
	for i, id := range ids {
		out[i] = l.edgeEnds[id]
	}
	return out
}

// DelBlock removes a Block, unbinding every EdgeEnd that was assigned to it.
func (l *Locations) DelBlock(id int) {
	b := l.mustBlock(id)
	for _, eeID := range b.edgeEnds {
		l.edgeEnds[eeID].BlockID = nil
	}
	delete(l.blocks, id)
}

// DelEdgeEnd removes an EdgeEnd, unbinding it from its Block and from every
// peer EdgeEnd that referenced it.
func (l *Locations) DelEdgeEnd(id int) {
	e := l.mustEdgeEnd(id)
	if e.BlockID != nil {
		b := l.blocks[*e.BlockID]
		b.edgeEnds = removeInt(b.edgeEnds, id)
	}
	for _, peerID := range e.peers {
		peer := l.edgeEnds[peerID]
		peer.peers = removeInt(peer.peers, id)
	}
	delete(l.edgeEnds, id)
}

// DelEdge severs the peer link between two EdgeEnds without deleting either.
func (l *Locations) DelEdge(fromEdgeEndID, toEdgeEndID int) {
	from := l.mustEdgeEnd(fromEdgeEndID)
	to := l.mustEdgeEnd(toEdgeEndID)
	from.peers = removeInt(from.peers, toEdgeEndID)
	to.peers = removeInt(to.peers, fromEdgeEndID)
}

func removeInt(s []int, v int) []int {
	out := s[:0]
	for _, x := range s {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

type jsonLocations struct {
	Width            int           `json:"width"`
	Height           int           `json:"height"`
	BGColor          int           `json:"bgColor"`
	HighlightBGColor int           `json:"highlightBgColor"`
	HighlightFGColor int           `json:"highlightFgColor"`
	Blocks           []jsonBlock   `json:"blocks"`
	EdgeEnds         []jsonEdgeEnd `json:"edgeEnds"`
}

type jsonBlock struct {
	ID       int     `json:"id"`
	X        int     `json:"x"`
	Y        int     `json:"y"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Depth    int     `json:"depth"`
	Color    int     `json:"color"`
	EdgeEnds []int   `json:"edgeEnds"`
	Label    *string `json:"label,omitempty"`
}

type jsonEdgeEnd struct {
	ID        int     `json:"id"`
	X         int     `json:"x"`
	Y         int     `json:"y"`
	Color     int     `json:"color"`
	Direction int     `json:"direction"`
	IsSource  bool    `json:"isSource"`
	Block     *int    `json:"block"`
	EdgeEnds  []int   `json:"edgeEnds"`
	Label     *string `json:"label,omitempty"`
}

// MarshalJSON renders the exact output shape normative for downstream
// consumers: ascending-id arrays, int24-packed colors, 1..4 directions.
func (l *Locations) MarshalJSON() ([]byte, error) {
	out := jsonLocations{
		Width:            l.Width(),
		Height:           l.Height(),
		BGColor:          l.BGColor.Pack(),
		HighlightBGColor: l.HighlightBGColor.Pack(),
		HighlightFGColor: l.HighlightFGColor.Pack(),
	}
	for _, b := range l.IterBlocks() {
		out.Blocks = append(out.Blocks, jsonBlock{
			ID: b.ID, X: b.X, Y: b.Y, Width: b.Width, Height: b.Height,
			Depth: b.Depth, Color: b.Color.Pack(), EdgeEnds: b.EdgeEnds(), Label: b.Label,
		})
	}
	for _, e := range l.IterEdgeEnds() {
		out.EdgeEnds = append(out.EdgeEnds, jsonEdgeEnd{
			ID: e.ID, X: e.X, Y: e.Y, Color: e.Color.Pack(), Direction: int(e.Direction),
			IsSource: e.IsSource, Block: e.BlockID, EdgeEnds: e.Peers(), Label: e.Label,
		})
	}
	return json.Marshal(out)
}
