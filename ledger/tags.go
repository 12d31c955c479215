package ledger

// Kind identifies one of the three independent event chains.
type Kind string

const (
	KindFeedback Kind = "feedback"
	KindResponse Kind = "response"
	KindRevoke   Kind = "revoke"
)

// Domain separation tags. These byte strings are committed into every
// on-chain digest and can never change.
//
// The revoke tag is 6 bytes where the others are 8. That asymmetry is part
// of the deployed program's digests; padding or otherwise harmonizing it
// would break every existing chain.
//
// These are the constants of the deployment this module targets. The exact
// encoding they produce is pinned by testdata/vectors/vectors.json,
// regenerated with internal/tools/vectorgen only after a deliberate protocol
// revision.
const (
	tagFeedback = "feedback"
	tagResponse = "response"
	tagRevoke   = "revoke"

	// sealTag prefixes the canonical seal encoding.
	sealTag = "fbk:seal"

	// feedbackLeafTag prefixes the feedback leaf. It is the only leaf type
	// with an embedded tag; response and revoke leaves are separated from
	// each other solely by the chain tag at the chaining step.
	feedbackLeafTag = "fbk:leaf"
)

// Kinds lists the three chains in their canonical order.
func Kinds() []Kind {
	return []Kind{KindFeedback, KindResponse, KindRevoke}
}

// Valid reports whether k names one of the three chains.
func (k Kind) Valid() bool {
	switch k {
	case KindFeedback, KindResponse, KindRevoke:
		return true
	}
	return false
}

// Tag returns the chain's domain separation tag, or nil for an unknown kind.
func (k Kind) Tag() []byte {
	switch k {
	case KindFeedback:
		return []byte(tagFeedback)
	case KindResponse:
		return []byte(tagResponse)
	case KindRevoke:
		return []byte(tagRevoke)
	}
	return nil
}
