// Package blockrsa is the front-end of the modular block cipher and should be
// the way external packages encrypt and decrypt.
//
// A message is cut into blocks of a fixed size, each block is read as a
// number x (see [codec.EncodeBlock]) and transformed to x^k mod n, where k is
// the exponent of the operation and n the modulus. Encryption and decryption
// are the same transformation with paired exponents e and d, for which
// (e * d) mod phi(n) = 1 holds.
//
// Messages whose length is not a multiple of the block size are padded.
// Padding is signalled by the trailing [codec.Sentinel], see package codec
// for the details and weaknesses of that scheme.
//
// This is a teaching cipher with toy moduli and provides no security.
package blockrsa

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/wokdav/modrsa/blockrsa/codec"
	"github.com/wokdav/modrsa/blockrsa/numtheory"
	"github.com/wokdav/modrsa/logging"
)

// Validate checks the parameters of an operation before any block is touched.
// The block size must be between 1 and [codec.MaxBlockSize], the exponent
// non-negative and the modulus at least 256^blockSize.
func Validate(exponent, modulus *big.Int, blockSize int) error {
	if blockSize < 1 || blockSize > codec.MaxBlockSize {
		return fmt.Errorf("blockrsa: block size must be between 1 and %d, got %d", codec.MaxBlockSize, blockSize)
	}
	if exponent == nil || modulus == nil {
		return errors.New("blockrsa: exponent and modulus must be set")
	}
	if exponent.Sign() < 0 {
		return fmt.Errorf("blockrsa: exponent must not be negative, got %v", exponent)
	}

	minimum := codec.MinimumModulus(blockSize)
	if modulus.Cmp(minimum) < 0 {
		return &ModulusTooSmallError{
			Modulus:   new(big.Int).Set(modulus),
			BlockSize: blockSize,
			Minimum:   minimum,
		}
	}

	return nil
}

// Transforms every block of data in order, data must be block-aligned.
// Block values are below 256^blockSize and thus below the validated modulus.
func transform(data []byte, exponent, modulus *big.Int, blockSize int) ([]byte, error) {
	out := make([]byte, 0, len(data))

	for i := 0; i < len(data); i += blockSize {
		index := i / blockSize
		code := codec.EncodeBlock(data[i : i+blockSize])

		result, err := numtheory.FastModExp(code, exponent, modulus)
		if err != nil {
			return nil, err
		}

		block, err := codec.DecodeBlock(result, blockSize)
		if errors.Is(err, codec.ErrBlockTooLarge) {
			return nil, &BlockOverflowError{Index: index, Value: result, BlockSize: blockSize}
		} else if err != nil {
			return nil, err
		}

		if logging.Enabled(logging.LevelDebug) {
			logging.Debugf("blockrsa: block #%d: %v -> %v", index, code, result)
		}
		out = append(out, block...)
	}

	return out, nil
}

// Encrypt pads plaintext to a multiple of blockSize, transforms it block by
// block with the given exponent and modulus and appends the padding sentinel
// if padding was necessary. The plaintext is not modified.
//
// The ciphertext has the length of the padded plaintext, plus the length
// of the sentinel if padding was applied.
func Encrypt(plaintext []byte, exponent, modulus *big.Int, blockSize int) ([]byte, error) {
	err := Validate(exponent, modulus, blockSize)
	if err != nil {
		return nil, err
	}

	padded, padLength := codec.Pad(plaintext, blockSize)
	logging.Debugf("blockrsa: encrypting %d bytes in %d blocks, %d pad bytes",
		len(plaintext), len(padded)/blockSize, padLength)

	out, err := transform(padded, exponent, modulus, blockSize)
	if err != nil {
		return nil, err
	}

	if padLength > 0 {
		out = append(out, codec.Sentinel()...)
	}

	return out, nil
}

// Decrypt reverses [Encrypt] when called with the paired exponent.
// A trailing sentinel is detected before any block is decoded, the bytes in
// front of it must then be a multiple of blockSize. The padding amount is
// read from the last decrypted byte.
func Decrypt(ciphertext []byte, exponent, modulus *big.Int, blockSize int) ([]byte, error) {
	err := Validate(exponent, modulus, blockSize)
	if err != nil {
		return nil, err
	}

	body := ciphertext
	padded := codec.HasSentinel(ciphertext)
	if padded {
		body = ciphertext[:len(ciphertext)-codec.SentinelLength]
	}

	if len(body)%blockSize != 0 {
		return nil, &MalformedCiphertextError{
			Length:    len(ciphertext),
			BlockSize: blockSize,
			Padded:    padded,
			Reason:    fmt.Sprintf("%d bytes of blocks are not a multiple of the block size", len(body)),
		}
	}

	logging.Debugf("blockrsa: decrypting %d blocks, padding detected: %v", len(body)/blockSize, padded)

	out, err := transform(body, exponent, modulus, blockSize)
	if err != nil {
		return nil, err
	}

	if !padded {
		return out, nil
	}

	out, err = codec.Unpad(out, blockSize)
	if err != nil {
		return nil, &MalformedCiphertextError{
			Length:    len(ciphertext),
			BlockSize: blockSize,
			Padded:    padded,
			Reason:    err.Error(),
		}
	}

	return out, nil
}
