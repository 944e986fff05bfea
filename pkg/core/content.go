package core

import (
	"fmt"
	"github.com/txsociety/tonbridge/pkg/cell"
	"golang.org/x/text/encoding/unicode"
)

// DecodeOffchainURI reads a snake-encoded off-chain content cell:
// the prefix byte followed by the URI spread over the chain of first references.
func DecodeOffchainURI(c *cell.Cell) (string, error) {
	head := c.Bits().Bytes()
	if len(head) == 0 || head[0] != OffchainContentPrefix {
		return "", ErrInvalidContentPrefix
	}
	var data []byte
	for cur := c; cur != nil; cur = cur.Ref(0) {
		data = append(data, cur.Bits().Bytes()...)
	}
	uri, err := unicode.UTF8BOM.NewDecoder().Bytes(data[1:])
	if err != nil {
		return "", fmt.Errorf("decode uri: %w", err)
	}
	return string(uri), nil
}

// EncodeOffchainURI builds the snake chain read by DecodeOffchainURI.
func EncodeOffchainURI(uri string) (*cell.Cell, error) {
	data := append([]byte{OffchainContentPrefix}, uri...)
	root := cell.NewCell()
	cur := root
	for {
		n := min(len(data), cell.MaxCellBits/8)
		if err := cur.Bits().WriteBytes(data[:n]); err != nil {
			return nil, err
		}
		data = data[n:]
		if len(data) == 0 {
			return root, nil
		}
		next := cell.NewCell()
		if err := cur.AddChild(next); err != nil {
			return nil, err
		}
		cur = next
	}
}
