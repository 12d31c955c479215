package ledger

// ReplayResult is the outcome of folding an ordered event list into a chain
// digest.
//
// A stored-digest mismatch is an expected, actionable outcome, not an error:
// Valid is false and the Mismatch fields pin the exact divergence point.
// FinalDigest/Count then hold the verified progress up to (excluding) the
// mismatching event.
type ReplayResult struct {
	FinalDigest Digest `json:"finalDigest"`
	Count       uint64 `json:"count"`
	Valid       bool   `json:"valid"`

	// MismatchAt is the absolute chain index of the first event whose
	// stored digest disagreed with the computed one.
	MismatchAt       uint64 `json:"mismatchAt,omitempty"`
	MismatchExpected Digest `json:"mismatchExpected,omitempty"`
	MismatchComputed Digest `json:"mismatchComputed,omitempty"`
}

// ReplayFeedback folds ordered feedback events into a final digest, starting
// from the given checkpoint. Pass Genesis() to replay from the empty chain.
//
// Replay composes: folding events[0:n] from genesis equals folding
// events[k:n] from the checkpoint produced by events[0:k], for any k. That
// is what makes checkpoint resumption sound.
func ReplayFeedback(events []FeedbackEvent, from State) ReplayResult {
	return replay(KindFeedback, from, len(events),
		func(i int) Digest { return events[i].Leaf() },
		func(i int) *Digest { return events[i].StoredDigest })
}

// ReplayResponse folds ordered response events. See ReplayFeedback.
func ReplayResponse(events []ResponseEvent, from State) ReplayResult {
	return replay(KindResponse, from, len(events),
		func(i int) Digest { return events[i].Leaf() },
		func(i int) *Digest { return events[i].StoredDigest })
}

// ReplayRevoke folds ordered revocation events. See ReplayFeedback.
func ReplayRevoke(events []RevokeEvent, from State) ReplayResult {
	return replay(KindRevoke, from, len(events),
		func(i int) Digest { return events[i].Leaf() },
		func(i int) *Digest { return events[i].StoredDigest })
}

func replay(kind Kind, from State, n int, leaf func(int) Digest, stored func(int) *Digest) ReplayResult {
	cur := from.Digest
	count := from.Count
	for i := 0; i < n; i++ {
		next := ChainHash(cur, kind, leaf(i))
		if want := stored(i); want != nil && *want != next {
			return ReplayResult{
				FinalDigest:      cur,
				Count:            count,
				Valid:            false,
				MismatchAt:       from.Count + uint64(i),
				MismatchExpected: *want,
				MismatchComputed: next,
			}
		}
		cur = next
		count++
	}
	return ReplayResult{FinalDigest: cur, Count: count, Valid: true}
}
