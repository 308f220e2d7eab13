package blockrsa

import (
	"fmt"
	"math/big"
)

// ModulusTooSmallError is returned if the modulus can't hold every block
// value, i.e. Modulus < Minimum = 256^BlockSize.
type ModulusTooSmallError struct {
	Modulus   *big.Int
	BlockSize int
	Minimum   *big.Int
}

func (e *ModulusTooSmallError) Error() string {
	return fmt.Sprintf("blockrsa: the modulus %v is not big enough to support a block size of %d, it must be at least 256^%d which is %v",
		e.Modulus, e.BlockSize, e.BlockSize, e.Minimum)
}

// MalformedCiphertextError is returned for ciphertexts that can't have
// been produced by [Encrypt] with the same block size.
type MalformedCiphertextError struct {
	Length    int
	BlockSize int
	Padded    bool
	Reason    string
}

func (e *MalformedCiphertextError) Error() string {
	return fmt.Sprintf("blockrsa: malformed ciphertext of %d bytes (block size %d, padded: %v): %s",
		e.Length, e.BlockSize, e.Padded, e.Reason)
}

// BlockOverflowError is returned if a transformed block needs more than
// BlockSize bytes. This happens when the modulus exceeds 256^BlockSize and
// the result of the exponentiation lands above that value.
type BlockOverflowError struct {
	Index     int
	Value     *big.Int
	BlockSize int
}

func (e *BlockOverflowError) Error() string {
	return fmt.Sprintf("blockrsa: block #%d transformed to %v which does not fit into %d bytes",
		e.Index, e.Value, e.BlockSize)
}
