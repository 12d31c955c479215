package ledger

// State is a resumable chain checkpoint: the running digest after Count
// events. The zero State (ZeroDigest, 0) is genesis.
type State struct {
	Digest Digest `json:"digest"`
	Count  uint64 `json:"count"`
}

// Genesis returns the empty-chain state.
func Genesis() State {
	return State{Digest: ZeroDigest, Count: 0}
}

// Heads carries an agent's three chain heads.
type Heads struct {
	Feedback State `json:"feedback"`
	Response State `json:"response"`
	Revoke   State `json:"revoke"`
}

// For returns the head of the given chain. Unknown kinds return the zero
// state.
func (h *Heads) For(kind Kind) State {
	switch kind {
	case KindFeedback:
		return h.Feedback
	case KindResponse:
		return h.Response
	case KindRevoke:
		return h.Revoke
	}
	return State{}
}
