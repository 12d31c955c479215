package ledger

import (
	"crypto/sha256"
	"encoding/binary"
	"hash"
)

// FeedbackLeaf derives the per-event hash input of a feedback event:
//
//	SHA-256(fbk:leaf ‖ asset ‖ client ‖ index:u64 ‖ sealHash ‖ slot:u64)
//
// This is the only leaf with an embedded domain tag. The redundancy with the
// feedback chain tag is deliberate defense in depth and is committed into
// every on-chain feedback digest.
func FeedbackLeaf(asset, client [32]byte, index uint64, sealHash Digest, slot uint64) Digest {
	h := sha256.New()
	h.Write([]byte(feedbackLeafTag))
	h.Write(asset[:])
	h.Write(client[:])
	writeUint64(h, index)
	h.Write(sealHash[:])
	writeUint64(h, slot)
	return sum(h)
}

// ResponseLeaf derives the per-event hash input of a response event:
//
//	SHA-256(asset ‖ client ‖ feedbackIndex:u64 ‖ responder ‖ contentHash ‖ slot:u64)
//
// No tag is embedded here: response and revoke leaves are separated from each
// other only by the chain tag at the chaining step. The asymmetry with
// FeedbackLeaf is part of the deployed scheme and must not be corrected.
func ResponseLeaf(asset, client [32]byte, feedbackIndex uint64, responder [32]byte, contentHash Digest, slot uint64) Digest {
	h := sha256.New()
	h.Write(asset[:])
	h.Write(client[:])
	writeUint64(h, feedbackIndex)
	h.Write(responder[:])
	h.Write(contentHash[:])
	writeUint64(h, slot)
	return sum(h)
}

// RevokeLeaf derives the per-event hash input of a revocation:
//
//	SHA-256(asset ‖ client ‖ feedbackIndex:u64 ‖ slot:u64)
//
// Untagged, like ResponseLeaf.
func RevokeLeaf(asset, client [32]byte, feedbackIndex uint64, slot uint64) Digest {
	h := sha256.New()
	h.Write(asset[:])
	h.Write(client[:])
	writeUint64(h, feedbackIndex)
	writeUint64(h, slot)
	return sum(h)
}

func writeUint64(h hash.Hash, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	h.Write(b[:])
}

func sum(h hash.Hash) Digest {
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}
