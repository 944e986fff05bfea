// Package legacyhash implements the keccak256 variant used by early web3 tooling
// for "0x"-prefixed strings. It is not a conformant hex decoder and must stay that way:
// multisig query ids already committed on chain were computed with it.
//
// When the input starts with "0x", the remainder is cut into consecutive two-character
// pairs and every pair is read like JavaScript parseInt(pair, 16):
//
//   - leading hex digits are used and the rest of the pair is ignored ("d_" is 0x0d);
//   - a pair without a leading hex digit ("_0", "x7", "0x") still occupies its byte slot,
//     with the value zero;
//   - an odd trailing character forms a one-character pair.
//
// Any other input is hashed as its UTF-8 bytes.
package legacyhash

import (
	"errors"
	"fmt"
	"golang.org/x/crypto/sha3"
	"strings"
)

// ErrNegativeByte is returned for pairs like "-1". The historical routine ORed such
// values into neighbouring bytes; that path is never taken for well-formed query strings.
var ErrNegativeByte = errors.New("negative byte value")

func Keccak256(s string) ([32]byte, error) {
	var res [32]byte
	msg, err := Message(s)
	if err != nil {
		return res, err
	}
	h := sha3.NewLegacyKeccak256()
	h.Write(msg)
	copy(res[:], h.Sum(nil))
	return res, nil
}

// Message returns the bytes absorbed by Keccak256 for s.
func Message(s string) ([]byte, error) {
	if !strings.HasPrefix(s, "0x") {
		return []byte(s), nil
	}
	s = s[2:]
	msg := make([]byte, 0, (len(s)+1)/2)
	for i := 0; i < len(s); i += 2 {
		pair := s[i:min(i+2, len(s))]
		v, ok := parseInt16(pair)
		if !ok {
			msg = append(msg, 0)
			continue
		}
		if v < 0 {
			return nil, fmt.Errorf("%w: pair %q at offset %d", ErrNegativeByte, pair, i+2)
		}
		msg = append(msg, byte(v))
	}
	return msg, nil
}

// parseInt16 follows parseInt(s, 16); ok is false where parseInt yields NaN.
func parseInt16(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\n\v\f\r")
	neg := false
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	v, n := 0, 0
	for ; n < len(s); n++ {
		d := hexDigit(s[n])
		if d < 0 {
			break
		}
		v = v*16 + d
	}
	if n == 0 {
		return 0, false
	}
	if neg {
		v = -v
	}
	return v, true
}

func hexDigit(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}
