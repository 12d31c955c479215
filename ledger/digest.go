// Package ledger implements the Chainseal hash-chain protocol: the digest
// primitive, domain separation tags, the canonical seal and leaf encoders,
// and chain replay.
//
// Everything in this package is a pure function of its inputs. The byte
// layouts mirror the on-chain program exactly; they are a conformance
// surface, not an implementation detail. See testdata/vectors for the
// pinned reference vectors.
package ledger

import (
	"encoding/hex"
	"fmt"
)

// DigestSize is the size of a chain digest in bytes.
const DigestSize = 32

// Digest is the 32-byte cumulative chain state after N events.
type Digest [DigestSize]byte

// ZeroDigest is the canonical value of an empty chain.
var ZeroDigest = Digest{}

// String returns the lowercase hex encoding of the digest.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// IsZero reports whether the digest is the empty-chain value.
func (d Digest) IsZero() bool {
	return d == ZeroDigest
}

// SetBytes copies b into the digest. b must be exactly DigestSize bytes.
func (d *Digest) SetBytes(b []byte) error {
	if len(b) != DigestSize {
		return newError(KindParse, "LEDGER-PARSE-001",
			fmt.Sprintf("digest must be %d bytes, got %d", DigestSize, len(b)))
	}
	copy(d[:], b)
	return nil
}

// ParseDigest decodes a digest from its hex representation.
func ParseDigest(s string) (Digest, error) {
	var d Digest
	if len(s) != DigestSize*2 {
		return d, newError(KindParse, "LEDGER-PARSE-002",
			fmt.Sprintf("digest hex must be %d characters, got %d", DigestSize*2, len(s)))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return d, wrapError(KindParse, "LEDGER-PARSE-003", "invalid digest hex", err)
	}
	copy(d[:], b)
	return d, nil
}

// MarshalText implements encoding.TextMarshaler (hex).
func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler (hex).
func (d *Digest) UnmarshalText(text []byte) error {
	parsed, err := ParseDigest(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
