package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters following the OWASP baseline.
const (
	argonMemory  = 64 * 1024
	argonTime    = 3
	argonThreads = 4
	argonKeyLen  = 32
	argonSaltLen = 16
)

// Hash derives an argon2id digest of password under a fresh random salt and
// returns it as a PHC-format string:
//
//	$argon2id$v=19$m=65536,t=3,p=4$<salt>$<digest>
func Hash(password string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", errors.Join(ErrSaltGeneration, err)
	}

	digest := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(digest),
	), nil
}

// Verify reports whether candidate reproduces the digest in encoded.
// Malformed stored hashes fail with ErrHashParse; a clean mismatch
// returns (false, nil). The comparison is constant time.
func Verify(candidate, encoded string) (bool, error) {
	params, err := parsePHC(encoded)
	if err != nil {
		return false, err
	}

	derived := argon2.IDKey([]byte(candidate), params.salt, params.time, params.memory, params.threads, params.keyLen)
	return subtle.ConstantTimeCompare(params.digest, derived) == 1, nil
}

type phcParams struct {
	salt    []byte
	digest  []byte
	memory  uint32
	time    uint32
	threads uint8
	keyLen  uint32
}

func parsePHC(encoded string) (phcParams, error) {
	var p phcParams

	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return p, fmt.Errorf("%w: expected 6 segments, got %d", ErrHashParse, len(parts))
	}
	if parts[1] != "argon2id" {
		return p, fmt.Errorf("%w: unsupported algorithm %q", ErrHashParse, parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return p, fmt.Errorf("%w: bad version segment", ErrHashParse)
	}
	if version != argon2.Version {
		return p, fmt.Errorf("%w: unsupported argon2 version %d", ErrHashParse, version)
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads); err != nil {
		return p, fmt.Errorf("%w: bad parameter segment", ErrHashParse)
	}

	var err error
	if p.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return p, fmt.Errorf("%w: bad salt encoding", ErrHashParse)
	}
	if p.digest, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return p, fmt.Errorf("%w: bad digest encoding", ErrHashParse)
	}
	p.keyLen = uint32(len(p.digest))

	return p, nil
}
