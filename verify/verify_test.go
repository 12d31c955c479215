package verify

import (
	"context"
	"fmt"
	"testing"

	"github.com/chainseal/chainseal-go/ledger"
)

// ----- fake sources -----

type fakeOnChain struct {
	heads *ledger.Heads
	err   error
}

func (f *fakeOnChain) AgentHeads(ctx context.Context, agent string) (*ledger.Heads, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.heads, nil
}

type fakeIndex struct {
	heads       ledger.Heads
	checkpoints map[ledger.Kind]*ledger.State

	feedback  []ledger.FeedbackEvent
	responses []ledger.ResponseEvent
	revokes   []ledger.RevokeEvent

	// missing suppresses point lookups for kind/index pairs.
	missing map[string]bool

	summaryErr    error
	eventsErr     error
	lookupErr     error
	checkpointErr error
}

func missKey(kind ledger.Kind, index uint64) string {
	return fmt.Sprintf("%s/%d", kind, index)
}

func (f *fakeIndex) Summary(ctx context.Context, agent string) (*ledger.Heads, error) {
	if f.summaryErr != nil {
		return nil, f.summaryErr
	}
	heads := f.heads
	return &heads, nil
}

func (f *fakeIndex) LatestCheckpoint(ctx context.Context, agent string, kind ledger.Kind) (*ledger.State, error) {
	if f.checkpointErr != nil {
		return nil, f.checkpointErr
	}
	cp, ok := f.checkpoints[kind]
	if !ok || cp == nil {
		return nil, ErrNoCheckpoint
	}
	return cp, nil
}

func page[T any](events []T, offset, limit uint64) []T {
	if offset >= uint64(len(events)) {
		return nil
	}
	end := offset + limit
	if end > uint64(len(events)) {
		end = uint64(len(events))
	}
	return events[offset:end]
}

func (f *fakeIndex) FeedbackEvents(ctx context.Context, agent string, offset, limit uint64) ([]ledger.FeedbackEvent, error) {
	if f.eventsErr != nil {
		return nil, f.eventsErr
	}
	return page(f.feedback, offset, limit), nil
}

func (f *fakeIndex) ResponseEvents(ctx context.Context, agent string, offset, limit uint64) ([]ledger.ResponseEvent, error) {
	if f.eventsErr != nil {
		return nil, f.eventsErr
	}
	return page(f.responses, offset, limit), nil
}

func (f *fakeIndex) RevokeEvents(ctx context.Context, agent string, offset, limit uint64) ([]ledger.RevokeEvent, error) {
	if f.eventsErr != nil {
		return nil, f.eventsErr
	}
	return page(f.revokes, offset, limit), nil
}

func (f *fakeIndex) FeedbackAt(ctx context.Context, agent string, index uint64) (*ledger.FeedbackEvent, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	if f.missing[missKey(ledger.KindFeedback, index)] || index >= uint64(len(f.feedback)) {
		return nil, ErrNotFound
	}
	ev := f.feedback[index]
	return &ev, nil
}

func (f *fakeIndex) ResponseAt(ctx context.Context, agent string, index uint64) (*ledger.ResponseEvent, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	if f.missing[missKey(ledger.KindResponse, index)] || index >= uint64(len(f.responses)) {
		return nil, ErrNotFound
	}
	ev := f.responses[index]
	return &ev, nil
}

func (f *fakeIndex) RevokeAt(ctx context.Context, agent string, index uint64) (*ledger.RevokeEvent, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	if f.missing[missKey(ledger.KindRevoke, index)] || index >= uint64(len(f.revokes)) {
		return nil, ErrNotFound
	}
	ev := f.revokes[index]
	return &ev, nil
}

// ----- fixture builders -----

func fill32(b byte) [32]byte {
	var out [32]byte
	for i := range out {
		out[i] = b
	}
	return out
}

func u8(v uint8) *uint8 { return &v }

// feedbackChain builds n annotated feedback events with real seal payloads
// and returns them with the resulting head state.
func feedbackChain(t *testing.T, n int) ([]ledger.FeedbackEvent, ledger.State) {
	t.Helper()
	asset := fill32(0xAA)
	client := fill32(0xBB)

	events := make([]ledger.FeedbackEvent, 0, n)
	state := ledger.Genesis()
	for i := 0; i < n; i++ {
		seal := ledger.SealParams{
			Value:    int64(9000 + i),
			Decimals: 2,
			Score:    u8(uint8(80 + i%20)),
			Tag1:     "uptime",
			Tag2:     "day",
			URI:      fmt.Sprintf("https://reports.example.com/%d", i),
		}
		sealHash, err := ledger.SealHash(seal)
		if err != nil {
			t.Fatalf("SealHash: %v", err)
		}
		ev := ledger.FeedbackEvent{
			Asset:    asset,
			Client:   client,
			Index:    uint64(i),
			SealHash: sealHash,
			Slot:     uint64(5000 + i),
			Seal:     &seal,
		}
		next := ledger.ChainHash(state.Digest, ledger.KindFeedback, ev.Leaf())
		stored := next
		ev.StoredDigest = &stored
		events = append(events, ev)
		state = ledger.State{Digest: next, Count: state.Count + 1}
	}
	return events, state
}

func headsFor(feedback ledger.State) *ledger.Heads {
	return &ledger.Heads{Feedback: feedback}
}

func chainByKind(t *testing.T, r *Report, kind ledger.Kind) *ChainReport {
	t.Helper()
	for i := range r.Chains {
		if r.Chains[i].Kind == kind {
			return &r.Chains[i]
		}
	}
	t.Fatalf("report has no %s chain", kind)
	return nil
}
