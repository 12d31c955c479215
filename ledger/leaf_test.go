package ledger

import "testing"

func fill32(b byte) [32]byte {
	var out [32]byte
	for i := range out {
		out[i] = b
	}
	return out
}

func TestFeedbackLeaf_Sensitivity(t *testing.T) {
	asset := fill32(0xAA)
	client := fill32(0xBB)
	seal := Digest(fill32(0x11))

	base := FeedbackLeaf(asset, client, 0, seal, 12345)

	if got := FeedbackLeaf(asset, client, 0, seal, 12345); got != base {
		t.Fatalf("identical inputs produced different leaves")
	}
	if got := FeedbackLeaf(asset, client, 1, seal, 12345); got == base {
		t.Fatalf("index change did not change the leaf")
	}
	if got := FeedbackLeaf(asset, client, 0, seal, 12346); got == base {
		t.Fatalf("slot change did not change the leaf")
	}
	if got := FeedbackLeaf(asset, client, 0, Digest(fill32(0x12)), 12345); got == base {
		t.Fatalf("seal hash change did not change the leaf")
	}
	if got := FeedbackLeaf(client, asset, 0, seal, 12345); got == base {
		t.Fatalf("swapping asset/client did not change the leaf")
	}
}

func TestResponseAndRevokeLeaves_Distinct(t *testing.T) {
	asset := fill32(0xAA)
	client := fill32(0xBB)

	resp := ResponseLeaf(asset, client, 3, fill32(0xCC), Digest(fill32(0xDD)), 777)
	rev := RevokeLeaf(asset, client, 3, 777)
	if resp == rev {
		t.Fatalf("response and revoke leaves collided")
	}

	if got := ResponseLeaf(asset, client, 3, fill32(0xCE), Digest(fill32(0xDD)), 777); got == resp {
		t.Fatalf("responder change did not change the response leaf")
	}
	if got := RevokeLeaf(asset, client, 4, 777); got == rev {
		t.Fatalf("feedback index change did not change the revoke leaf")
	}
}

func TestChainHash_DomainSeparation(t *testing.T) {
	leaf := Digest(fill32(0x42))

	fb := ChainHash(ZeroDigest, KindFeedback, leaf)
	rs := ChainHash(ZeroDigest, KindResponse, leaf)
	rv := ChainHash(ZeroDigest, KindRevoke, leaf)

	if fb == rs || fb == rv || rs == rv {
		t.Fatalf("chain tags failed to separate identical leaves: %s %s %s", fb, rs, rv)
	}

	// Prior digest participates.
	if got := ChainHash(fb, KindFeedback, leaf); got == fb {
		t.Fatalf("chaining a second event did not move the digest")
	}
}

func TestEventLeafMethods(t *testing.T) {
	asset := fill32(0xAA)
	client := fill32(0xBB)

	fe := FeedbackEvent{Asset: asset, Client: client, Index: 2, SealHash: Digest(fill32(0x01)), Slot: 50}
	if fe.Leaf() != FeedbackLeaf(asset, client, 2, Digest(fill32(0x01)), 50) {
		t.Fatalf("FeedbackEvent.Leaf disagrees with FeedbackLeaf")
	}

	re := ResponseEvent{Asset: asset, Client: client, FeedbackIndex: 2, Responder: fill32(0xCC), ContentHash: Digest(fill32(0x02)), Slot: 51}
	if re.Leaf() != ResponseLeaf(asset, client, 2, fill32(0xCC), Digest(fill32(0x02)), 51) {
		t.Fatalf("ResponseEvent.Leaf disagrees with ResponseLeaf")
	}

	ve := RevokeEvent{Asset: asset, Client: client, FeedbackIndex: 2, Slot: 52}
	if ve.Leaf() != RevokeLeaf(asset, client, 2, 52) {
		t.Fatalf("RevokeEvent.Leaf disagrees with RevokeLeaf")
	}
}
