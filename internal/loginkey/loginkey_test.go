package loginkey

import (
	"bytes"
	"math/big"
	"strings"
	"testing"
)

// teaDecryptBlock is the complementary decryption routine. The protocol
// never needs it; it exists only to test that the round function is its
// own inverse under the matching 32-round decrypt.
func teaDecryptBlock(a, b uint32, k [4]uint32) (uint32, uint32) {
	rounds := uint32(teaRounds)
	sum := teaDelta * rounds
	for i := 0; i < teaRounds; i++ {
		b -= ((a << 4) + k[2]) ^ (a + sum) ^ ((a >> 5) + k[3])
		a -= ((b << 4) + k[0]) ^ (b + sum) ^ ((b >> 5) + k[1])
		sum -= teaDelta
	}
	return a, b
}

func TestTeaRoundTripIsInverse(t *testing.T) {
	z, ok := new(big.Int).SetString("0123456789ABCDEFFEDCBA987654321000112233445566778899AABBCCDDEEFF", 16)
	if !ok {
		t.Fatal("failed to parse constant")
	}
	k := teaSubkeys(z)

	a0, b0 := uint32(0), uint32(0)
	ea, eb := teaEncryptBlock(a0, b0, k)
	da, db := teaDecryptBlock(ea, eb, k)
	if da != a0 || db != b0 {
		t.Fatalf("decrypt(encrypt(0,0)) = (%#x,%#x), want (%#x,%#x)", da, db, a0, b0)
	}
}

func TestBswap32(t *testing.T) {
	if got := bswap32(0x01020304); got != 0x04030201 {
		t.Fatalf("bswap32(0x01020304) = %#x, want 0x04030201", got)
	}
}

func TestTeaSubkeysDerivation(t *testing.T) {
	// Z whose first 32 hex chars are a known pattern; verify chunking and
	// byte-swap, not an external ciphertext.
	zHex := "0123456789ABCDEFFEDCBA9876543210" + strings.Repeat("0", 256-32)
	z, ok := new(big.Int).SetString(zHex, 16)
	if !ok {
		t.Fatal("failed to parse test Z")
	}
	k := teaSubkeys(z)
	want := [4]uint32{
		bswap32(0x01234567),
		bswap32(0x89abcdef),
		bswap32(0xfedcba98),
		bswap32(0x76543210),
	}
	if k != want {
		t.Fatalf("teaSubkeys = %#v, want %#v", k, want)
	}
}

func TestGenerateShape(t *testing.T) {
	// x = 1: X = G^1 mod P = 5.
	xb := make([]byte, exponentBytes)
	xb[len(xb)-1] = 1
	prefix := bytes.Repeat([]byte{0x42}, prefixBytes)
	src := bytes.NewReader(append(append([]byte{}, xb...), prefix...))

	key, err := Generate(src, []byte("AAAA"), []byte("u"), []byte("p"))
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if !strings.HasPrefix(key, "5-") {
		t.Fatalf("key = %q, want prefix %q", key, "5-")
	}
	hexPart := strings.TrimPrefix(key, "5-")
	if len(hexPart)%16 != 0 {
		t.Fatalf("hex part length = %d, want a multiple of 16", len(hexPart))
	}
	for _, c := range hexPart {
		if !strings.ContainsRune("0123456789abcdef", c) {
			t.Fatalf("hex part contains non-hex rune %q in %q", c, hexPart)
		}
	}
}

func TestGenerateDeterministicForSameInputs(t *testing.T) {
	xb := make([]byte, exponentBytes)
	xb[0] = 7
	prefix := bytes.Repeat([]byte{0x11}, prefixBytes)
	seedInput := append(append([]byte{}, xb...), prefix...)

	k1, err := Generate(bytes.NewReader(seedInput), []byte("SEED"), []byte("alice"), []byte("hunter2"))
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	k2, err := Generate(bytes.NewReader(seedInput), []byte("SEED"), []byte("alice"), []byte("hunter2"))
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if k1 != k2 {
		t.Fatalf("Generate not deterministic for identical randomness: %q != %q", k1, k2)
	}
}

func TestBuildChallengePadsToMultipleOfEight(t *testing.T) {
	plain := buildChallenge(make([]byte, prefixBytes), []byte("AAAA"), []byte("u"), []byte("p"))
	if len(plain)%8 != 0 {
		t.Fatalf("challenge plaintext length = %d, want multiple of 8", len(plain))
	}
}
