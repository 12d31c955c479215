package ledger

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// Seal validation limits. Lengths are byte counts, never code points.
const (
	// MaxSealValue bounds |Value|; the on-chain program rejects larger
	// magnitudes before sealing.
	MaxSealValue = 1_000_000_000_000_000_000

	MaxSealDecimals = 6
	MaxSealScore    = 100

	MaxSealTagBytes      = 32
	MaxSealEndpointBytes = 256
	MaxSealURIBytes      = 512
)

// SealParams is the mutable content of a feedback record.
//
// Score and FileHash are genuinely optional: an absent score is not a score
// of zero, and the two cases seal differently.
type SealParams struct {
	Value    int64
	Decimals uint8
	Score    *uint8
	Tag1     string
	Tag2     string
	Endpoint string
	URI      string
	FileHash *[32]byte
}

// Validate checks the seal parameters against the program's limits.
// Out-of-range input is rejected, never coerced.
func (p *SealParams) Validate() error {
	if p.Value > MaxSealValue || p.Value < -MaxSealValue {
		return newError(KindValidation, "SEAL-VAL-001",
			fmt.Sprintf("value %d out of range (max magnitude %d)", p.Value, int64(MaxSealValue)))
	}
	if p.Decimals > MaxSealDecimals {
		return newError(KindValidation, "SEAL-VAL-002",
			fmt.Sprintf("decimals %d out of range (max %d)", p.Decimals, MaxSealDecimals))
	}
	if p.Score != nil && *p.Score > MaxSealScore {
		return newError(KindValidation, "SEAL-VAL-003",
			fmt.Sprintf("score %d out of range (max %d)", *p.Score, MaxSealScore))
	}
	if len(p.Tag1) > MaxSealTagBytes {
		return newError(KindValidation, "SEAL-VAL-004",
			fmt.Sprintf("tag1 is %d bytes (max %d)", len(p.Tag1), MaxSealTagBytes))
	}
	if len(p.Tag2) > MaxSealTagBytes {
		return newError(KindValidation, "SEAL-VAL-005",
			fmt.Sprintf("tag2 is %d bytes (max %d)", len(p.Tag2), MaxSealTagBytes))
	}
	if len(p.Endpoint) > MaxSealEndpointBytes {
		return newError(KindValidation, "SEAL-VAL-006",
			fmt.Sprintf("endpoint is %d bytes (max %d)", len(p.Endpoint), MaxSealEndpointBytes))
	}
	if p.URI == "" {
		return newError(KindValidation, "SEAL-VAL-007", "uri is required")
	}
	if len(p.URI) > MaxSealURIBytes {
		return newError(KindValidation, "SEAL-VAL-008",
			fmt.Sprintf("uri is %d bytes (max %d)", len(p.URI), MaxSealURIBytes))
	}
	return nil
}

// EncodeSeal returns the canonical seal preimage:
//
//	fbk:seal ‖ value:i64 ‖ decimals:u8 ‖ opt(score:u8)
//	         ‖ str(tag1) ‖ str(tag2) ‖ str(endpoint) ‖ str(uri)
//	         ‖ opt(fileHash:32B)
//
// Integers are little-endian. Strings carry a u32 byte-length prefix.
// Optionals are a 0/1 presence byte followed by the payload only when
// present. Parameters are validated first; non-canonical input never
// produces bytes.
func EncodeSeal(p SealParams) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	size := len(sealTag) + 8 + 1 + 1 + 1
	if p.Score != nil {
		size++
	}
	if p.FileHash != nil {
		size += 32
	}
	for _, s := range []string{p.Tag1, p.Tag2, p.Endpoint, p.URI} {
		size += 4 + len(s)
	}

	buf := make([]byte, 0, size)
	buf = append(buf, sealTag...)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(p.Value))
	buf = append(buf, p.Decimals)
	if p.Score != nil {
		buf = append(buf, 1, *p.Score)
	} else {
		buf = append(buf, 0)
	}
	for _, s := range []string{p.Tag1, p.Tag2, p.Endpoint, p.URI} {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(s)))
		buf = append(buf, s...)
	}
	if p.FileHash != nil {
		buf = append(buf, 1)
		buf = append(buf, p.FileHash[:]...)
	} else {
		buf = append(buf, 0)
	}
	return buf, nil
}

// SealHash returns the position-independent content fingerprint of a
// feedback record: SHA-256 over the canonical seal encoding.
func SealHash(p SealParams) (Digest, error) {
	b, err := EncodeSeal(p)
	if err != nil {
		return Digest{}, err
	}
	return Digest(sha256.Sum256(b)), nil
}
