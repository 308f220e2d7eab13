// Package codec maps fixed-size byte blocks to non-negative integers and back,
// and implements the padding protocol that lets inputs of arbitrary length be
// cut into such blocks.
//
// A block is read as a base-256 number with the first byte being the most
// significant one, so "ABCD" (65 66 67 68) encodes to
// 65*256^3 + 66*256^2 + 67*256 + 68 = 1094861636.
//
// Padding appends k copies of the byte k, where k is the number of bytes
// missing from the last block. Whenever padding was applied, the fixed
// 10-byte [Sentinel] 0,1,...,9 is appended after the last transformed block.
// The sentinel is a plain byte pattern and is not bound to the content: a
// ciphertext that ends in these ten bytes by accident is read as padded.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"
)

// Number of distinct values a single byte can take.
const AlphabetSize = 256

// Length of the padding indication block.
const SentinelLength = 10

// Largest block size whose pad count still fits into a single byte.
const MaxBlockSize = AlphabetSize

var ErrBlockTooLarge = errors.New("codec: value does not fit into block")

var sentinel = func() []byte {
	s := make([]byte, SentinelLength)
	for i := range s {
		s[i] = byte(i)
	}
	return s
}()

// Sentinel returns a copy of the padding indication block.
func Sentinel() []byte {
	return append([]byte(nil), sentinel...)
}

// HasSentinel reports whether data ends with the padding indication block.
func HasSentinel(data []byte) bool {
	return len(data) >= SentinelLength && bytes.Equal(data[len(data)-SentinelLength:], sentinel)
}

// MinimumModulus returns 256^blockSize, the smallest modulus that can hold every
// possible block of blockSize bytes.
func MinimumModulus(blockSize int) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), uint(8*blockSize))
}

// EncodeBlock interprets block as a big-endian base-256 number.
func EncodeBlock(block []byte) *big.Int {
	return new(big.Int).SetBytes(block)
}

// DecodeBlock is the inverse of [EncodeBlock]. It writes code into exactly
// blockSize bytes, most significant byte first. Codes that need more than
// blockSize bytes are rejected with [ErrBlockTooLarge] instead of being truncated.
func DecodeBlock(code *big.Int, blockSize int) ([]byte, error) {
	if blockSize < 0 {
		return nil, fmt.Errorf("codec: negative block size %d", blockSize)
	}
	if code.Sign() < 0 {
		return nil, fmt.Errorf("codec: can't decode negative value %v", code)
	}
	if code.BitLen() > 8*blockSize {
		return nil, fmt.Errorf("%w: %v needs %d bytes, block has %d",
			ErrBlockTooLarge, code, (code.BitLen()+7)/8, blockSize)
	}

	return code.FillBytes(make([]byte, blockSize)), nil
}

// PadLength returns the number of bytes needed to fill up the last block
// of a message with length bytes.
func PadLength(length, blockSize int) int {
	return (blockSize - length%blockSize) % blockSize
}

// Pad returns data followed by PadLength copies of the byte PadLength.
// The returned slice never aliases data. The second return value is the
// number of bytes appended.
func Pad(data []byte, blockSize int) ([]byte, int) {
	n := PadLength(len(data), blockSize)

	out := make([]byte, len(data), len(data)+n)
	copy(out, data)
	for i := 0; i < n; i++ {
		out = append(out, byte(n))
	}

	return out, n
}

// Unpad removes the padding from a decrypted buffer. The amount is
// read from the last byte and must be between 1 and blockSize-1.
func Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, errors.New("codec: can't remove padding from empty buffer")
	}

	n := int(data[len(data)-1])
	if n == 0 || n >= blockSize || n > len(data) {
		return nil, fmt.Errorf("codec: invalid pad length %d for block size %d", n, blockSize)
	}

	return data[:len(data)-n], nil
}
