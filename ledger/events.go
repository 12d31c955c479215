package ledger

// FeedbackEvent is one entry of an agent's feedback chain as reported by the
// indexer.
//
// StoredDigest, when present, is the indexer's claimed running digest after
// this event; replay compares it byte-for-byte to localize tampering. Seal,
// when present, carries the record's content for fingerprint re-derivation;
// replay never consults it.
type FeedbackEvent struct {
	Asset  [32]byte
	Client [32]byte
	// Index is unique and strictly increasing per (asset, client).
	Index    uint64
	SealHash Digest
	Slot     uint64

	StoredDigest *Digest
	Seal         *SealParams
}

// Leaf returns the event's chain leaf.
func (e *FeedbackEvent) Leaf() Digest {
	return FeedbackLeaf(e.Asset, e.Client, e.Index, e.SealHash, e.Slot)
}

// ResponseEvent is one entry of an agent's response chain. It references an
// existing feedback record by index.
type ResponseEvent struct {
	Asset         [32]byte
	Client        [32]byte
	FeedbackIndex uint64
	Responder     [32]byte
	ContentHash   Digest
	Slot          uint64

	StoredDigest *Digest
}

// Leaf returns the event's chain leaf.
func (e *ResponseEvent) Leaf() Digest {
	return ResponseLeaf(e.Asset, e.Client, e.FeedbackIndex, e.Responder, e.ContentHash, e.Slot)
}

// RevokeEvent is one entry of an agent's revocation chain.
type RevokeEvent struct {
	Asset         [32]byte
	Client        [32]byte
	FeedbackIndex uint64
	Slot          uint64

	StoredDigest *Digest
}

// Leaf returns the event's chain leaf.
func (e *RevokeEvent) Leaf() Digest {
	return RevokeLeaf(e.Asset, e.Client, e.FeedbackIndex, e.Slot)
}
