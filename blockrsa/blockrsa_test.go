package blockrsa

import (
	"bytes"
	"encoding/hex"
	"errors"
	"math/big"
	"testing"

	"github.com/wokdav/modrsa/blockrsa/codec"
	"github.com/wokdav/modrsa/blockrsa/keys"
)

func b(x int64) *big.Int {
	return big.NewInt(x)
}

type keyPair struct {
	e, d, n   *big.Int
	blockSize int
}

// Moduli of the form 256^k + 1 keep the single value above 256^k - 1
// fixed for odd exponents, so every message survives the round trip.
var roundTripKeys = map[string]keyPair{
	"257 / 1":         {b(3), b(171), b(257), 1},
	"65537 / 2":       {b(3), b(43691), b(65537), 2},
	"641*6700417 / 4": {b(13), b(2309066437), b(4294967297), 4},
	"involutary 257":  {b(127), b(127), b(257), 1},
}

func allBytes() []byte {
	out := make([]byte, 256)
	for i := range out {
		out[i] = byte(i)
	}
	return out
}

var roundTripMessages = map[string][]byte{
	"empty":      {},
	"single":     []byte("x"),
	"two":        []byte("AB"),
	"four":       []byte("ABCD"),
	"five":       []byte("ABCDE"),
	"all bytes":  allBytes(),
	"high bytes": bytes.Repeat([]byte{0xff}, 9),
	"zero bytes": make([]byte, 7),
	"sentence":   []byte("The quick brown fox jumps over the lazy dog."),
}

func TestRoundTrip(t *testing.T) {
	for keyName, key := range roundTripKeys {
		for msgName, msg := range roundTripMessages {
			t.Run(keyName+"/"+msgName, func(t *testing.T) {
				ciphertext, err := Encrypt(msg, key.e, key.n, key.blockSize)
				if err != nil {
					t.Fatalf("can't encrypt: %v", err)
				}

				plaintext, err := Decrypt(ciphertext, key.d, key.n, key.blockSize)
				if err != nil {
					t.Fatalf("can't decrypt: %v", err)
				}

				if !bytes.Equal(plaintext, msg) {
					t.Fatalf("round trip failed: expected %v, got %v", msg, plaintext)
				}
			})
		}
	}
}

func TestRoundTripDerivedKey(t *testing.T) {
	derived, err := keys.DerivePrivateKey(b(13), b(65537), b(65539))
	if err != nil {
		t.Fatalf("can't derive key: %v", err)
	}

	// checked to stay below 256^4 for this key
	messages := []string{"ABCD", "ABCDE", "Hello, World!", "The quick brown fox"}
	for _, msg := range messages {
		ciphertext, err := Encrypt([]byte(msg), derived.Public.Exponent, derived.Modulus, 4)
		if err != nil {
			t.Fatalf("can't encrypt '%s': %v", msg, err)
		}

		plaintext, err := Decrypt(ciphertext, derived.Private.Exponent, derived.Modulus, 4)
		if err != nil {
			t.Fatalf("can't decrypt '%s': %v", msg, err)
		}

		if string(plaintext) != msg {
			t.Errorf("expected '%s', got '%s'", msg, plaintext)
		}
	}
}

func TestKnownCiphertexts(t *testing.T) {
	tests := map[string]struct {
		plaintext string
		key       keyPair
		want      string
	}{
		"aligned": {"ABCD", keyPair{b(13), nil, b(4295229443), 4}, "44454c4d"},
		"padded":  {"ABCDE", keyPair{b(13), nil, b(4295229443), 4}, "44454c4d164832d400010203040506070809"},
		"bytes":   {"hi", keyPair{b(3), nil, b(257), 1}, "e861"},
		"short":   {"h", keyPair{b(3), nil, b(65537), 2}, "ca6b00010203040506070809"},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := Encrypt([]byte(test.plaintext), test.key.e, test.key.n, test.key.blockSize)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if hex.EncodeToString(got) != test.want {
				t.Errorf("expected %s, got %x", test.want, got)
			}
		})
	}
}

func TestPaddingBoundary(t *testing.T) {
	key := roundTripKeys["641*6700417 / 4"]

	for length := 0; length <= 13; length++ {
		msg := bytes.Repeat([]byte{'z'}, length)
		ciphertext, err := Encrypt(msg, key.e, key.n, key.blockSize)
		if err != nil {
			t.Fatalf("can't encrypt %d bytes: %v", length, err)
		}

		if length%key.blockSize == 0 {
			if len(ciphertext) != length {
				t.Errorf("%d bytes: expected ciphertext of same length, got %d", length, len(ciphertext))
			}
			if length > 0 && codec.HasSentinel(ciphertext) {
				t.Errorf("%d bytes: unexpected sentinel", length)
			}
			continue
		}

		roundUp := (length + key.blockSize - 1) / key.blockSize * key.blockSize
		if len(ciphertext) != roundUp+codec.SentinelLength {
			t.Errorf("%d bytes: expected ciphertext length %d, got %d", length, roundUp+codec.SentinelLength, len(ciphertext))
		}
		if !codec.HasSentinel(ciphertext) {
			t.Errorf("%d bytes: sentinel missing", length)
		}
	}
}

func TestEncryptKeepsPlaintext(t *testing.T) {
	msg := []byte("ABCDE")
	key := roundTripKeys["641*6700417 / 4"]

	_, err := Encrypt(msg[:5:5], key.e, key.n, key.blockSize)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(msg) != "ABCDE" {
		t.Fatalf("plaintext was modified: %q", msg)
	}
}

func TestModulusTooSmall(t *testing.T) {
	for _, op := range []func([]byte, *big.Int, *big.Int, int) ([]byte, error){Encrypt, Decrypt} {
		_, err := op([]byte("ABCD"), b(3), b(1000), 2)

		var tooSmall *ModulusTooSmallError
		if !errors.As(err, &tooSmall) {
			t.Fatalf("expected ModulusTooSmallError, got %v", err)
		}
		if tooSmall.Minimum.Int64() != 65536 || tooSmall.Modulus.Int64() != 1000 || tooSmall.BlockSize != 2 {
			t.Errorf("unexpected error content: %+v", tooSmall)
		}
	}

	// exactly 256^blocksize is accepted
	if err := Validate(b(3), b(256), 1); err != nil {
		t.Errorf("unexpected error for modulus 256: %v", err)
	}
}

func TestInvalidParameters(t *testing.T) {
	tests := map[string]keyPair{
		"zero block size":     {b(3), nil, b(257), 0},
		"negative block size": {b(3), nil, b(257), -1},
		"huge block size":     {b(3), nil, codec.MinimumModulus(257), 257},
		"negative exponent":   {b(-3), nil, b(257), 1},
		"nil modulus":         {b(3), nil, nil, 1},
	}

	for name, key := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Encrypt([]byte("x"), key.e, key.n, key.blockSize); err == nil {
				t.Errorf("expected encryption to fail")
			}
			if _, err := Decrypt([]byte("x"), key.e, key.n, key.blockSize); err == nil {
				t.Errorf("expected decryption to fail")
			}
		})
	}
}

func TestBlockOverflow(t *testing.T) {
	// 65^17 mod 3233 = 2790, which needs two bytes
	_, err := Encrypt([]byte("A"), b(17), b(3233), 1)

	var overflow *BlockOverflowError
	if !errors.As(err, &overflow) {
		t.Fatalf("expected BlockOverflowError, got %v", err)
	}
	if overflow.Index != 0 || overflow.Value.Int64() != 2790 {
		t.Errorf("unexpected error content: %+v", overflow)
	}
}

func TestMalformedCiphertext(t *testing.T) {
	key := roundTripKeys["641*6700417 / 4"]

	tests := map[string][]byte{
		"unaligned":        []byte("ABCDE"),
		"unaligned padded": append([]byte("ABC"), codec.Sentinel()...),
		"sentinel only":    codec.Sentinel(),
	}

	for name, ciphertext := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decrypt(ciphertext, key.d, key.n, key.blockSize)
			var malformed *MalformedCiphertextError
			if !errors.As(err, &malformed) {
				t.Fatalf("expected MalformedCiphertextError, got %v", err)
			}
			if malformed.Length != len(ciphertext) {
				t.Errorf("expected length %d, got %d", len(ciphertext), malformed.Length)
			}
		})
	}
}

func TestSentinelCollision(t *testing.T) {
	// with exponent 1 the ciphertext equals the plaintext, so a message
	// ending in 0..9 is mistaken for a padded one
	msg := append([]byte("abcdef"), codec.Sentinel()...)

	ciphertext, err := Encrypt(msg, b(1), b(257), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(ciphertext, msg) {
		t.Fatalf("expected identity transformation, got %v", ciphertext)
	}

	_, err = Decrypt(ciphertext, b(1), b(257), 1)
	var malformed *MalformedCiphertextError
	if !errors.As(err, &malformed) || !malformed.Padded {
		t.Fatalf("expected the trailing bytes to be read as sentinel, got %v", err)
	}
}

func TestInvolutaryKey(t *testing.T) {
	involutary, err := keys.IsInvolutary(b(127), b(257))
	if err != nil || !involutary {
		t.Fatalf("expected 127 to be involutary modulo 257 (err: %v)", err)
	}

	msg := []byte("hello")
	once, err := Encrypt(msg, b(127), b(257), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bytes.Equal(once, msg) {
		t.Fatalf("single encryption must change the message")
	}

	twice, err := Encrypt(once, b(127), b(257), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(twice, msg) {
		t.Fatalf("expected double encryption to restore '%s', got %q", msg, twice)
	}
}

func TestTrivialKey(t *testing.T) {
	if !keys.IsTrivial(b(1), b(257)) {
		t.Fatalf("expected exponent 1 to be trivial")
	}

	msg := []byte("identity")
	ciphertext, err := Encrypt(msg, b(1), b(257), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(ciphertext, msg) {
		t.Fatalf("expected trivial key to keep the message, got %q", ciphertext)
	}
}
