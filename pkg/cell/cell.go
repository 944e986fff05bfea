package cell

import (
	"encoding/base64"
	"errors"
	"fmt"
	"github.com/tonkeeper/tongo/boc"
)

const (
	MaxCellBits  = 1023
	MaxCellRefs  = 4
	MaxCellDepth = 1024

	// MaxTreeCells bounds the size of a tree decoded by FromBoc after shared cells are expanded.
	MaxTreeCells = 4096
)

// Cell is a node of a cell tree. Every cell has at most one parent,
// so a cell graph built through AddChild never contains cycles.
type Cell struct {
	bits   *BitBuffer
	refs   []*Cell
	parent *Cell
}

func NewCell() *Cell {
	return &Cell{bits: NewBitBuffer(MaxCellBits)}
}

func (c *Cell) Bits() *BitBuffer {
	return c.bits
}

func (c *Cell) RefsCount() int {
	return len(c.refs)
}

// Ref returns the i-th child or nil.
func (c *Cell) Ref(i int) *Cell {
	if i < 0 || i >= len(c.refs) {
		return nil
	}
	return c.refs[i]
}

// AddChild transfers ownership of child to c.
func (c *Cell) AddChild(child *Cell) error {
	if child == nil {
		return errors.New("nil child cell")
	}
	if c.bits.Frozen() {
		return ErrFrozen
	}
	if len(c.refs) >= MaxCellRefs {
		return fmt.Errorf("%w: limit is %d", ErrTooManyReferences, MaxCellRefs)
	}
	if child.parent != nil {
		return ErrAlreadyAttached
	}
	for p := c; p != nil; p = p.parent {
		if p == child {
			return ErrCycle
		}
	}
	child.parent = c
	c.refs = append(c.refs, child)
	return nil
}

// Depth is 0 for a leaf cell.
func (c *Cell) Depth() int {
	depth := 0
	for _, ref := range c.refs {
		if d := ref.Depth() + 1; d > depth {
			depth = d
		}
	}
	return depth
}

func (c *Cell) freeze() {
	c.bits.Freeze()
	for _, ref := range c.refs {
		ref.freeze()
	}
}

// Serialize encodes the tree rooted at c as a bag of cells.
// The tree can not be modified afterwards.
func (c *Cell) Serialize() ([]byte, error) {
	tc, err := c.toBoc(0)
	if err != nil {
		return nil, err
	}
	c.freeze()
	return tc.ToBoc()
}

func (c *Cell) SerializeBase64() (string, error) {
	b, err := c.Serialize()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// Hash returns the representation hash of the tree rooted at c.
func (c *Cell) Hash() ([]byte, error) {
	tc, err := c.toBoc(0)
	if err != nil {
		return nil, err
	}
	return tc.Hash()
}

func (c *Cell) toBoc(depth int) (*boc.Cell, error) {
	if depth > MaxCellDepth {
		return nil, ErrDepthExceeded
	}
	tc := boc.NewCellWithBits(c.bits.bits.Copy())
	for _, ref := range c.refs {
		r, err := ref.toBoc(depth + 1)
		if err != nil {
			return nil, err
		}
		if err := tc.AddRef(r); err != nil {
			return nil, err
		}
	}
	return tc, nil
}

// FromBoc decodes the first root of a bag of cells.
// Sub-cells shared inside the bag are copied, the result is always a tree
// of at most MaxTreeCells cells.
func FromBoc(data []byte) (*Cell, error) {
	roots, err := boc.DeserializeBoc(data)
	if err != nil {
		return nil, fmt.Errorf("deserialize boc: %w", err)
	}
	if len(roots) == 0 {
		return nil, errors.New("boc without root cells")
	}
	budget := MaxTreeCells
	return fromBoc(roots[0], 0, &budget)
}

func FromBocBase64(s string) (*Cell, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	return FromBoc(data)
}

func fromBoc(tc *boc.Cell, depth int, budget *int) (*Cell, error) {
	if depth > MaxCellDepth {
		return nil, ErrDepthExceeded
	}
	if *budget <= 0 {
		return nil, fmt.Errorf("%w: limit is %d", ErrTooManyCells, MaxTreeCells)
	}
	*budget--
	c := NewCell()
	if err := c.bits.writeBits(tc.RawBitString()); err != nil {
		return nil, err
	}
	for _, ref := range tc.Refs() {
		child, err := fromBoc(ref, depth+1, budget)
		if err != nil {
			return nil, err
		}
		if err := c.AddChild(child); err != nil {
			return nil, err
		}
	}
	return c, nil
}
