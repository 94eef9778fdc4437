package codec

import (
	"errors"
	"fmt"
)

// L85 is a lexicographically-sortable base85 variant, ported from the
// teacher's datalog/codec/l85.go. It is not used for index keys here (the
// fixed/order-preserving binary encoding above does that job), but it gives
// the CLI (cmd/triplectl) a human-readable rendering for opaque byte/uuid
// values, the same role it played as the teacher's Identity display form.

const l85Alphabet = "!$%&()+,-./" +
	"0123456789:;<=>@" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ[]_`" +
	"abcdefghijklmnopqrstuvwxyz{}"

var (
	l85Decode [256]byte

	// ErrInvalidL85Character indicates an invalid character in L85 input.
	ErrInvalidL85Character = errors.New("invalid L85 character")
)

func init() {
	for i := range l85Decode {
		l85Decode[i] = 0
	}
	for i, c := range l85Alphabet {
		l85Decode[byte(c)] = byte(i + 1)
	}
}

// EncodeL85 encodes bytes into the L85 display alphabet.
func EncodeL85(src []byte) string {
	if len(src) == 0 {
		return ""
	}

	result := make([]byte, 0, len(src)*5/4+5)

	for i := 0; i+4 <= len(src); i += 4 {
		v := uint32(src[i])<<24 | uint32(src[i+1])<<16 |
			uint32(src[i+2])<<8 | uint32(src[i+3])

		chars := [5]byte{}
		for j := 4; j >= 0; j-- {
			chars[j] = l85Alphabet[v%85]
			v /= 85
		}
		result = append(result, chars[:]...)
	}

	remainder := len(src) % 4
	if remainder > 0 {
		padded := [4]byte{}
		copy(padded[:], src[len(src)-remainder:])

		v := uint32(padded[0])<<24 | uint32(padded[1])<<16 |
			uint32(padded[2])<<8 | uint32(padded[3])

		chars := [5]byte{}
		for j := 4; j >= 0; j-- {
			chars[j] = l85Alphabet[v%85]
			v /= 85
		}
		result = append(result, chars[:remainder+1]...)
	}

	return string(result)
}

// DecodeL85 is the inverse of EncodeL85.
func DecodeL85(src string) ([]byte, error) {
	if len(src) == 0 {
		return []byte{}, nil
	}

	for i, c := range src {
		if c >= 256 || l85Decode[byte(c)] == 0 {
			return nil, fmt.Errorf("%w at position %d: %c", ErrInvalidL85Character, i, c)
		}
	}

	result := make([]byte, 0, len(src)*4/5+4)

	for i := 0; i+5 <= len(src); i += 5 {
		v := uint32(0)
		for j := 0; j < 5; j++ {
			v = v*85 + uint32(l85Decode[src[i+j]]-1)
		}
		result = append(result, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
	}

	remainder := len(src) % 5
	if remainder > 0 {
		numBytes := remainder - 1
		if numBytes <= 0 {
			return nil, errors.New("invalid L85 encoding: incomplete group")
		}

		padded := src[len(src)-remainder:]
		for len(padded) < 5 {
			padded += string(l85Alphabet[len(l85Alphabet)-1])
		}

		v := uint32(0)
		for j := 0; j < 5; j++ {
			v = v*85 + uint32(l85Decode[padded[j]]-1)
		}

		bytes := [4]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
		result = append(result, bytes[:numBytes]...)
	}

	return result, nil
}

// DisplayBytes renders raw bytes (a TypeBytes value, or a UUID's bytes) in
// the L85 alphabet for compact, sortable terminal output.
func DisplayBytes(b []byte) string {
	return EncodeL85(b)
}
