package content

import (
	"encoding/hex"
	"errors"
	"testing"

	"github.com/chainseal/chainseal-go/ledger"
)

// CIDv1 (raw, sha2-256) of the bytes "chainseal content test".
const (
	testCID      = "bafkreihb5d2vunfiz4ouyuyccg4qmtiwsqxgnmjupp3nv62plh2l5crifa"
	testFileHash = "e1e8f55a34a8cf1d4c530211b9064d16942e66b1347bf6dafb4f59f4be8a2828"
)

func mustFileHash(t *testing.T, s string) *[32]byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != 32 {
		t.Fatalf("bad file hash fixture %q", s)
	}
	var out [32]byte
	copy(out[:], b)
	return &out
}

func sealedEvent(t *testing.T, seal ledger.SealParams) *ledger.FeedbackEvent {
	t.Helper()
	h, err := ledger.SealHash(seal)
	if err != nil {
		t.Fatalf("SealHash: %v", err)
	}
	return &ledger.FeedbackEvent{
		Index:    0,
		SealHash: h,
		Slot:     100,
		Seal:     &seal,
	}
}

func TestVerifyFeedback_Intact(t *testing.T) {
	ev := sealedEvent(t, ledger.SealParams{Value: 42, URI: "https://example.com/report"})
	if err := VerifyFeedback(ev); err != nil {
		t.Fatalf("intact record failed: %v", err)
	}
}

func TestVerifyFeedback_ModifiedContent(t *testing.T) {
	ev := sealedEvent(t, ledger.SealParams{Value: 42, URI: "https://example.com/report"})
	ev.Seal.Value = 43

	err := VerifyFeedback(ev)
	if !errors.Is(err, ErrSealMismatch) {
		t.Fatalf("modified content: got %v, want ErrSealMismatch", err)
	}
}

func TestVerifyFeedback_NoPayload(t *testing.T) {
	ev := sealedEvent(t, ledger.SealParams{Value: 42, URI: "https://example.com/report"})
	ev.Seal = nil

	if err := VerifyFeedback(ev); !errors.Is(err, ErrNoContent) {
		t.Fatalf("got %v, want ErrNoContent", err)
	}
}

func TestCheckURI_MatchingCID(t *testing.T) {
	if err := CheckURI("ipfs://"+testCID, mustFileHash(t, testFileHash)); err != nil {
		t.Fatalf("matching cid rejected: %v", err)
	}
}

func TestCheckURI_MismatchedCID(t *testing.T) {
	wrong := mustFileHash(t, testFileHash)
	wrong[0] ^= 0xFF
	err := CheckURI("ipfs://"+testCID, wrong)
	if !errors.Is(err, ErrFileHashMismatch) {
		t.Fatalf("got %v, want ErrFileHashMismatch", err)
	}
}

func TestCheckURI_NotCheckable(t *testing.T) {
	fh := mustFileHash(t, testFileHash)
	cases := []struct {
		name string
		uri  string
		fh   *[32]byte
	}{
		{"no file hash", "ipfs://" + testCID, nil},
		{"https uri", "https://example.com/report.json", fh},
		{"cidv0", "ipfs://QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG", fh},
		{"garbage suffix", "ipfs://QmTest123", fh},
		{"empty uri", "", fh},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := CheckURI(tc.uri, tc.fh); err != nil {
				t.Fatalf("uncheckable uri rejected: %v", err)
			}
		})
	}
}

func TestVerifyFeedback_URICrossCheck(t *testing.T) {
	fh := mustFileHash(t, testFileHash)
	ev := sealedEvent(t, ledger.SealParams{Value: 7, URI: "ipfs://" + testCID, FileHash: fh})
	if err := VerifyFeedback(ev); err != nil {
		t.Fatalf("consistent uri/file hash failed: %v", err)
	}

	bad := *fh
	bad[0] ^= 0x01
	ev2 := sealedEvent(t, ledger.SealParams{Value: 7, URI: "ipfs://" + testCID, FileHash: &bad})
	if err := VerifyFeedback(ev2); !errors.Is(err, ErrFileHashMismatch) {
		t.Fatalf("got %v, want ErrFileHashMismatch", err)
	}
}
