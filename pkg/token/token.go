package token

import (
	cryptorand "crypto/rand"
	"crypto/sha512"
	"encoding/base32"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"math/rand/v2"
	"time"
)

const (
	seedLength       = 32
	tokenLength      = 32
	shortTokenLength = 4
)

// ErrEntropyUnavailable is returned when the OS entropy source cannot be read.
var ErrEntropyUnavailable = errors.New("token: os entropy source unavailable")

// crockford is the base32 alphabet used for human-typable short tokens.
// It omits I, L, O and U to avoid transcription mistakes.
var crockford = base32.NewEncoding("0123456789ABCDEFGHJKMNPQRSTVWXYZ").WithPadding(base32.NoPadding)

// Generate returns a fresh session token as an unpadded URL-safe base64 string.
//
// The seed buffer is built by XOR-folding three sources on top of each other:
// the secret bytes (wrapping around the buffer), 32 bytes of OS entropy, and
// the native-endian bytes of the current unix timestamp replicated across the
// buffer at a fixed stride. An empty secret is a supported degraded mode; the
// entropy and timestamp mixing still make the output unpredictable.
func Generate(secret string) (string, error) {
	var seed [seedLength]byte

	for i := 0; i < len(secret); i++ {
		seed[i%seedLength] ^= secret[i]
	}

	var entropy [seedLength]byte
	if _, err := cryptorand.Read(entropy[:]); err != nil {
		return "", errors.Join(ErrEntropyUnavailable, err)
	}
	for i, b := range entropy {
		seed[i%seedLength] ^= b
	}

	var ts [8]byte
	binary.NativeEndian.PutUint64(ts[:], uint64(time.Now().Unix()))
	for i, b := range ts {
		for offset := 0; offset < seedLength/len(ts); offset++ {
			seed[offset*len(ts)+i%seedLength] ^= b
		}
	}

	rng := rand.NewChaCha8(seed)
	var out [tokenLength]byte
	// ChaCha8.Read never fails and always fills the buffer.
	_, _ = rng.Read(out[:])

	return base64.RawURLEncoding.EncodeToString(out[:]), nil
}

// Digest returns the one-way SHA-512 digest of a token, encoded with the same
// URL-safe unpadded base64 alphabet as the token itself. It is used only as a
// storage and lookup key; it is never reversed.
func Digest(token string) string {
	sum := sha512.Sum512([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// GenerateShort returns a 4-byte token in Crockford base32.
//
// This is deliberately weak and only suitable for low-risk one-time
// credentials, such as the bootstrap password of the infradmin account.
// It must never be used for session tokens.
func GenerateShort() (string, error) {
	var bytes [shortTokenLength]byte
	if _, err := cryptorand.Read(bytes[:]); err != nil {
		return "", errors.Join(ErrEntropyUnavailable, err)
	}
	return crockford.EncodeToString(bytes[:]), nil
}
