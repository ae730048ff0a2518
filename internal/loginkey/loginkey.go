// Package loginkey builds the Anarchy Online chat login key: a
// Diffie-Hellman exchange against the server's fixed public value, feeding
// a Tiny Encryption Algorithm key that encrypts a padded credential
// challenge in a chained mode. The construction must match the reference
// implementation bit-for-bit, including its ntohl/htonl byte-swap
// idiosyncrasy in the subkey derivation and ciphertext formatting; any
// deviation produces a login key the server rejects.
package loginkey

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"
)

// Server-chosen Diffie-Hellman parameters (spec.md §4.4). G generates the
// group defined by the 1024-bit prime P; Y is the server's public value.
var (
	dhP = mustBig("ECA2E8C85D863DCDC26A429A71A9815AD052F6139669DD659F98AE159D313D13C6BF2838E10A69B6478B64A24BD054BA8248E8FA778703B418408249440B2C1EDD28853E240D8A7E49540B76D120D3B1AD2878B1B99490EB4A2A5E84CAA8A91CECBDB1AA7C816E8BE343246F80C637ABC653B893FD91686CF8D32D6CFE5F2A6F")
	dhG = big.NewInt(5)
	dhY = mustBig("9C32CC23D559CA90FC31BE72DF817D0E124769E809F936BC14360FF4BED758F260A0D596584EACBBC2B88BDD410416163E11DBF62173393FBC0C6FEFB2D855F1A03DEC8E9F105BBAD91B3437D8EB73FE2F44159597AA4053CF788D2F9D7012FB8D7C4CE3876F7D6CD5D0C31754F4CD96166708641958DE54A6DEF5657B9F2E92")
)

func mustBig(hexStr string) *big.Int {
	v, ok := new(big.Int).SetString(hexStr, 16)
	if !ok {
		panic("loginkey: invalid Diffie-Hellman constant " + hexStr)
	}
	return v
}

const teaDelta uint32 = 0x9E3779B9
const teaRounds = 32

// exponentBytes is the width of the random exponent x, uniform in
// [0, 2^256).
const exponentBytes = 32

// prefixBytes is the width of the random nonce prepended to the challenge
// plaintext.
const prefixBytes = 8

// Generate builds the login key token "hex(X)-hex(ciphertext)" for the
// given server seed, username and password. randSource supplies the random
// exponent x (exponentBytes bytes) followed by the challenge prefix nonce
// (prefixBytes bytes); callers normally pass crypto/rand.Reader, and tests
// may supply a deterministic stream to reproduce known-answer vectors.
func Generate(randSource io.Reader, seed, username, password []byte) (string, error) {
	if randSource == nil {
		randSource = rand.Reader
	}

	xb := make([]byte, exponentBytes)
	if _, err := io.ReadFull(randSource, xb); err != nil {
		return "", fmt.Errorf("loginkey: reading random exponent: %w", err)
	}
	x := new(big.Int).SetBytes(xb)

	X := new(big.Int).Exp(dhG, x, dhP)
	Z := new(big.Int).Exp(dhY, x, dhP)

	k := teaSubkeys(Z)

	prefix := make([]byte, prefixBytes)
	if _, err := io.ReadFull(randSource, prefix); err != nil {
		return "", fmt.Errorf("loginkey: reading random prefix: %w", err)
	}

	plain := buildChallenge(prefix, seed, username, password)

	cipherHex, err := teaEncryptChained(plain, k)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%x-%s", X, cipherHex), nil
}

// buildChallenge assembles prefix || u32_be(len(challenge)) || challenge
// || padding, where challenge is username|seed|password and padding is
// spaces up to the next multiple of 8 bytes.
func buildChallenge(prefix, seed, username, password []byte) []byte {
	challenge := make([]byte, 0, len(username)+1+len(seed)+1+len(password))
	challenge = append(challenge, username...)
	challenge = append(challenge, '|')
	challenge = append(challenge, seed...)
	challenge = append(challenge, '|')
	challenge = append(challenge, password...)

	plain := make([]byte, 0, prefixBytes+4+len(challenge)+7)
	plain = append(plain, prefix...)
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(challenge)))
	plain = append(plain, lenBuf[:]...)
	plain = append(plain, challenge...)
	for len(plain)%8 != 0 {
		plain = append(plain, ' ')
	}
	return plain
}

// teaSubkeys derives the four 32-bit TEA subkeys from the shared secret Z:
// take the high-order 128 bits of Z as a hex string, split it into four
// 8-character chunks, parse each as a big-endian unsigned integer, then
// apply an ntohl-style byte swap to each.
func teaSubkeys(z *big.Int) [4]uint32 {
	zHex := fmt.Sprintf("%0256x", z)
	kHex := zHex[:32]

	var k [4]uint32
	for i := 0; i < 4; i++ {
		chunk := kHex[i*8 : i*8+8]
		v, err := strconv.ParseUint(chunk, 16, 32)
		if err != nil {
			panic("loginkey: malformed subkey chunk " + chunk)
		}
		k[i] = bswap32(uint32(v))
	}
	return k
}

func bswap32(v uint32) uint32 {
	return v<<24 | (v&0x0000FF00)<<8 | (v&0x00FF0000)>>8 | v>>24
}

// teaEncryptChained processes plain as a stream of little-endian 32-bit
// words, two per TEA block, chaining each block's raw output into the XOR
// of the next block's input (CBC-like). Each block's output is rendered as
// 16 lowercase hex characters after an htonl-style byte swap.
func teaEncryptChained(plain []byte, k [4]uint32) (string, error) {
	if len(plain)%8 != 0 {
		return "", fmt.Errorf("loginkey: plaintext length %d is not a multiple of 8", len(plain))
	}

	var sb strings.Builder
	var r0prev, r1prev uint32
	for i := 0; i < len(plain); i += 8 {
		w0 := binary.LittleEndian.Uint32(plain[i : i+4])
		w1 := binary.LittleEndian.Uint32(plain[i+4 : i+8])

		c0 := w0 ^ r0prev
		c1 := w1 ^ r1prev

		r0, r1 := teaEncryptBlock(c0, c1, k)

		fmt.Fprintf(&sb, "%08x%08x", bswap32(r0), bswap32(r1))

		r0prev, r1prev = r0, r1
	}
	return sb.String(), nil
}

// teaEncryptBlock runs the standard 32-round TEA round function over one
// 64-bit block. All arithmetic wraps at 32 bits.
func teaEncryptBlock(a, b uint32, k [4]uint32) (uint32, uint32) {
	var sum uint32
	for i := 0; i < teaRounds; i++ {
		sum += teaDelta
		a += ((b << 4) + k[0]) ^ (b + sum) ^ ((b >> 5) + k[1])
		b += ((a << 4) + k[2]) ^ (a + sum) ^ ((a >> 5) + k[3])
	}
	return a, b
}
