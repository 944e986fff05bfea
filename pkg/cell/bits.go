package cell

import (
	"fmt"
	"github.com/tonkeeper/tongo/boc"
	"github.com/tonkeeper/tongo/tlb"
	"github.com/tonkeeper/tongo/ton"
	"math"
	"math/big"
)

// AddressBits is the size of a standard internal address: tag, anycast flag, workchain and hash.
const AddressBits = 2 + 1 + 8 + 256

// maxCoinsBytes is the largest length a VarUInteger 16 length prefix can hold.
const maxCoinsBytes = 15

// BitBuffer is an append-only bit string with a fixed capacity.
// Bits are stored most significant first.
type BitBuffer struct {
	bits   boc.BitString
	frozen bool
}

func NewBitBuffer(capacity int) *BitBuffer {
	if capacity < 0 {
		capacity = 0
	}
	return &BitBuffer{bits: boc.NewBitString(capacity)}
}

func (b *BitBuffer) Len() int {
	return b.bits.GetWriteCursor()
}

func (b *BitBuffer) Capacity() int {
	return b.bits.GetWriteCursor() + b.bits.BitsAvailableForWrite()
}

func (b *BitBuffer) Available() int {
	return b.bits.BitsAvailableForWrite()
}

// Freeze makes every following write fail with ErrFrozen.
func (b *BitBuffer) Freeze() {
	b.frozen = true
}

func (b *BitBuffer) Frozen() bool {
	return b.frozen
}

func (b *BitBuffer) reserve(bits int) error {
	if b.frozen {
		return ErrFrozen
	}
	if bits < 0 || bits > b.Available() {
		return fmt.Errorf("%w: need %d bits, %d available", ErrCapacityExceeded, bits, b.Available())
	}
	return nil
}

func (b *BitBuffer) WriteBit(v bool) error {
	if err := b.reserve(1); err != nil {
		return err
	}
	return b.bits.WriteBit(v)
}

func (b *BitBuffer) WriteUint(v *big.Int, width int) error {
	if v.Sign() < 0 {
		return fmt.Errorf("%w: %v", ErrNegativeValue, v)
	}
	if width < 0 || v.BitLen() > width {
		return fmt.Errorf("%w: %v does not fit in %d bits", ErrCapacityExceeded, v, width)
	}
	if err := b.reserve(width); err != nil {
		return err
	}
	if width == 0 {
		return nil
	}
	return b.bits.WriteBigUint(v, width)
}

func (b *BitBuffer) WriteUint64(v uint64, width int) error {
	return b.WriteUint(new(big.Int).SetUint64(v), width)
}

// WriteInt writes v as a two's complement integer of the given width.
func (b *BitBuffer) WriteInt(v *big.Int, width int) error {
	if width <= 0 {
		if width == 0 && v.Sign() == 0 {
			return b.reserve(0)
		}
		return fmt.Errorf("%w: %v does not fit in %d bits", ErrCapacityExceeded, v, width)
	}
	limit := new(big.Int).Lsh(big.NewInt(1), uint(width-1))
	if v.Cmp(limit) >= 0 || v.Cmp(new(big.Int).Neg(limit)) < 0 {
		return fmt.Errorf("%w: %v does not fit in %d signed bits", ErrCapacityExceeded, v, width)
	}
	if err := b.reserve(width); err != nil {
		return err
	}
	return b.bits.WriteBigInt(v, width)
}

func (b *BitBuffer) WriteInt64(v int64, width int) error {
	return b.WriteInt(big.NewInt(v), width)
}

// WriteCoins writes v as VarUInteger 16: a 4-bit byte length followed by the magnitude.
// Zero is written as a single zero length.
func (b *BitBuffer) WriteCoins(v *big.Int) error {
	if v.Sign() < 0 {
		return fmt.Errorf("%w: %v", ErrNegativeValue, v)
	}
	if l := (v.BitLen() + 7) / 8; l > maxCoinsBytes {
		return fmt.Errorf("%w: coins amount %v needs %d bytes", ErrCapacityExceeded, v, l)
	}
	return b.writeTlb(tlb.VarUInteger16(*v))
}

// WriteAddress writes a standard internal address (addr_std without anycast).
// Nil and the zero account are written as addr_none.
func (b *BitBuffer) WriteAddress(a *ton.AccountID) error {
	if a != nil && a.Workchain == 0 && a.Address == [32]byte{} {
		a = nil
	}
	if a != nil && (a.Workchain < math.MinInt8 || a.Workchain > math.MaxInt8) {
		return fmt.Errorf("%w: workchain %d does not fit in 8 bits", ErrCapacityExceeded, a.Workchain)
	}
	return b.writeTlb(a.ToMsgAddress())
}

// writeTlb encodes v into a scratch cell and appends the resulting bits, all or nothing.
func (b *BitBuffer) writeTlb(v any) error {
	if b.frozen {
		return ErrFrozen
	}
	scratch := boc.NewCell()
	if err := tlb.Marshal(scratch, v); err != nil {
		return err
	}
	return b.writeBits(scratch.RawBitString())
}

func (b *BitBuffer) WriteBytes(p []byte) error {
	if err := b.reserve(8 * len(p)); err != nil {
		return err
	}
	return b.bits.WriteBytes(p)
}

func (b *BitBuffer) writeBits(s boc.BitString) error {
	if err := b.reserve(s.GetWriteCursor()); err != nil {
		return err
	}
	return b.bits.WriteBitString(s)
}

func (b *BitBuffer) checkRange(cursor, width int) error {
	if cursor < 0 || width < 0 || cursor+width > b.Len() {
		return fmt.Errorf("%w: bits [%d, %d) of %d", ErrOutOfBounds, cursor, cursor+width, b.Len())
	}
	return nil
}

// reader returns an independent reader positioned at cursor.
func (b *BitBuffer) reader(cursor int) (boc.BitString, error) {
	r := b.bits.Copy()
	if err := r.Skip(cursor); err != nil {
		return boc.BitString{}, err
	}
	return r, nil
}

func (b *BitBuffer) ReadBit(cursor int) (bool, error) {
	if err := b.checkRange(cursor, 1); err != nil {
		return false, err
	}
	r, err := b.reader(cursor)
	if err != nil {
		return false, err
	}
	return r.ReadBit()
}

// ReadUint decodes width bits starting at cursor as an unsigned integer.
// The buffer is not modified.
func (b *BitBuffer) ReadUint(cursor, width int) (*big.Int, error) {
	if err := b.checkRange(cursor, width); err != nil {
		return nil, err
	}
	r, err := b.reader(cursor)
	if err != nil {
		return nil, err
	}
	// ReadBigUint only handles whole bytes, the leading remainder is read separately.
	head := width % 8
	lead, err := r.ReadUint(head)
	if err != nil {
		return nil, err
	}
	tail, err := r.ReadBigUint(width - head)
	if err != nil {
		return nil, err
	}
	res := new(big.Int).SetUint64(lead)
	res.Lsh(res, uint(width-head))
	return res.Or(res, tail), nil
}

func (b *BitBuffer) ReadUint64(cursor, width int) (uint64, error) {
	if width > 64 {
		return 0, fmt.Errorf("%w: %d bits do not fit in uint64", ErrCapacityExceeded, width)
	}
	v, err := b.ReadUint(cursor, width)
	if err != nil {
		return 0, err
	}
	return v.Uint64(), nil
}

// ReadInt decodes width bits starting at cursor as a two's complement integer.
func (b *BitBuffer) ReadInt(cursor, width int) (*big.Int, error) {
	v, err := b.ReadUint(cursor, width)
	if err != nil {
		return nil, err
	}
	if width > 0 && v.Bit(width-1) == 1 {
		v.Sub(v, new(big.Int).Lsh(big.NewInt(1), uint(width)))
	}
	return v, nil
}

// Bytes returns a copy of the bytes holding the written bits.
// Unused low bits of the last byte are zero.
func (b *BitBuffer) Bytes() []byte {
	res := make([]byte, (b.Len()+7)/8)
	copy(res, b.bits.Buffer())
	return res
}

// String prints the buffer in Fift hex, with a trailing "_" when the length is not a multiple of 4.
func (b *BitBuffer) String() string {
	return b.bits.ToFiftHex()
}
