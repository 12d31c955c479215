// Package content cross-checks feedback record content against its
// fingerprints: the seal hash over the record's mutable fields, and the
// content-addressed identity carried by ipfs:// URIs.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"

	"github.com/chainseal/chainseal-go/ledger"
)

var (
	// ErrNoContent means the record carries no seal payload to re-derive
	// the fingerprint from.
	ErrNoContent = errors.New("content: record has no seal payload")

	// ErrSealMismatch means the re-derived seal hash disagrees with the
	// record's committed one.
	ErrSealMismatch = errors.New("content: seal hash mismatch")

	// ErrFileHashMismatch means an ipfs:// URI's CID disagrees with the
	// record's file hash.
	ErrFileHashMismatch = errors.New("content: uri cid does not match file hash")
)

// VerifyFeedback re-derives the record's seal hash from its content and
// compares it byte-for-byte, then cross-checks the URI against the file
// hash. A record without a seal payload cannot be verified and fails with
// ErrNoContent.
func VerifyFeedback(ev *ledger.FeedbackEvent) error {
	if ev.Seal == nil {
		return ErrNoContent
	}
	got, err := ledger.SealHash(*ev.Seal)
	if err != nil {
		return fmt.Errorf("content: reseal: %w", err)
	}
	if got != ev.SealHash {
		return fmt.Errorf("%w: computed %s, committed %s", ErrSealMismatch, got, ev.SealHash)
	}
	return CheckURI(ev.Seal.URI, ev.Seal.FileHash)
}

// CheckURI cross-checks an ipfs:// URI against a file hash.
//
// Only CIDv1 with a sha2-256 multihash is comparable to the 32-byte file
// hash; other URI schemes, CIDv0 (whose hash covers the DAG node rather than
// the raw bytes), and unparseable suffixes are not checkable and pass. A nil
// file hash is likewise not checkable.
func CheckURI(uri string, fileHash *[32]byte) error {
	if fileHash == nil {
		return nil
	}
	rest, ok := strings.CutPrefix(uri, "ipfs://")
	if !ok {
		return nil
	}
	id, err := cid.Decode(rest)
	if err != nil || !id.Defined() || id.Version() != 1 {
		return nil
	}
	decoded, err := multihash.Decode(id.Hash())
	if err != nil || decoded.Code != multihash.SHA2_256 {
		return nil
	}
	if !bytes.Equal(decoded.Digest, fileHash[:]) {
		return fmt.Errorf("%w: cid %s", ErrFileHashMismatch, id)
	}
	return nil
}
