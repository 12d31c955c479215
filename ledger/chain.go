package ledger

import "crypto/sha256"

// ChainHash advances a chain by one event:
//
//	SHA-256(prev ‖ tag(kind) ‖ leaf)
//
// The function is identical for all three chains; the chain tag guarantees
// that a leaf routed to the wrong chain produces a detectably wrong digest
// instead of silently validating. kind must be one of the three chain kinds.
func ChainHash(prev Digest, kind Kind, leaf Digest) Digest {
	h := sha256.New()
	h.Write(prev[:])
	h.Write(kind.Tag())
	h.Write(leaf[:])
	return sum(h)
}
