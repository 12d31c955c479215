package verify

import (
	"context"
	"errors"
	"fmt"

	"github.com/chainseal/chainseal-go/ledger"
)

// DefaultPageSize is the event page size used by full verification.
const DefaultPageSize = 256

// FullOptions tunes exhaustive verification.
type FullOptions struct {
	// Resume starts replay from the indexer's latest stored checkpoint
	// instead of genesis. A checkpoint claiming more events than the chain
	// has committed is a reorg suspicion and fails the chain with
	// StatusError; recovery semantics are deliberately unspecified.
	Resume bool

	// PageSize is the event page size; zero means DefaultPageSize.
	PageSize uint64
}

func (o FullOptions) pageSize() uint64 {
	if o.PageSize == 0 {
		return DefaultPageSize
	}
	return o.PageSize
}

// Full performs exhaustive verification: the complete event history of each
// chain (optionally resumed from a checkpoint) is replayed and the final
// digest and count are compared byte-for-byte against the on-chain head.
//
// Status per chain: I/O failure → error; replay mismatch, digest divergence
// at equal counts, or more indexed events than committed → corrupted; a
// consistent prefix shorter than the on-chain count → syncing; full
// agreement → valid. Full verification is the authority of record.
func (v *Verifier) Full(ctx context.Context, agent string, opts FullOptions) *Report {
	onChain, indexed, err := v.fetchViews(ctx, agent)
	if err != nil {
		return errorReport(agent, "full", err)
	}

	report := &Report{Agent: agent, Mode: "full"}
	for _, kind := range ledger.Kinds() {
		report.Chains = append(report.Chains, v.fullChain(ctx, agent, kind, onChain.For(kind), indexed.For(kind), opts))
	}
	report.Status = aggregate(report.Chains)
	return report
}

func (v *Verifier) fullChain(ctx context.Context, agent string, kind ledger.Kind, oc, ix ledger.State, opts FullOptions) ChainReport {
	cr := ChainReport{Kind: kind, OnChain: oc, Indexed: ix, Lag: int64(oc.Count) - int64(ix.Count)}

	start := ledger.Genesis()
	if opts.Resume {
		cp, err := v.Index.LatestCheckpoint(ctx, agent, kind)
		switch {
		case errors.Is(err, ErrNoCheckpoint):
			// Replay from genesis.
		case err != nil:
			cr.Status = StatusError
			cr.Err = err.Error()
			return cr
		case cp.Count > oc.Count:
			cr.Status = StatusError
			cr.Err = fmt.Sprintf("checkpoint count %d exceeds on-chain count %d (possible reorg)", cp.Count, oc.Count)
			return cr
		default:
			start = *cp
		}
	}

	res, err := v.replayChain(ctx, agent, kind, start, opts.pageSize(), oc.Count)
	if err != nil {
		cr.Status = StatusError
		cr.Err = err.Error()
		return cr
	}
	cr.Replay = &res
	cr.Lag = int64(oc.Count) - int64(res.Count)

	switch {
	case !res.Valid:
		cr.Status = StatusCorrupted
	case res.Count > oc.Count:
		// The indexer holds more events than the chain committed.
		cr.Status = StatusCorrupted
	case res.Count < oc.Count:
		cr.Status = StatusSyncing
	case res.FinalDigest != oc.Digest:
		cr.Status = StatusCorrupted
	default:
		cr.Match = true
		cr.Status = StatusValid
	}
	return cr
}

// replayChain pages through a chain's events in index order and folds them
// from the starting checkpoint.
//
// Paging stops on a short page, a stored-digest mismatch, or as soon as the
// replayed count exceeds onChainCount: anything past the committed count is
// already an overclaim, and an indexer that keeps serving well-formed pages
// must not be able to keep the verifier fetching forever.
func (v *Verifier) replayChain(ctx context.Context, agent string, kind ledger.Kind, start ledger.State, pageSize, onChainCount uint64) (ledger.ReplayResult, error) {
	state := start
	for {
		res, n, err := v.replayPage(ctx, agent, kind, state, pageSize)
		if err != nil {
			return ledger.ReplayResult{}, err
		}
		if !res.Valid || res.Count > onChainCount {
			return res, nil
		}
		state = ledger.State{Digest: res.FinalDigest, Count: res.Count}
		if n < int(pageSize) {
			return res, nil
		}
	}
}

func (v *Verifier) replayPage(ctx context.Context, agent string, kind ledger.Kind, from ledger.State, limit uint64) (ledger.ReplayResult, int, error) {
	switch kind {
	case ledger.KindFeedback:
		events, err := v.Index.FeedbackEvents(ctx, agent, from.Count, limit)
		if err != nil {
			return ledger.ReplayResult{}, 0, err
		}
		return ledger.ReplayFeedback(events, from), len(events), nil
	case ledger.KindResponse:
		events, err := v.Index.ResponseEvents(ctx, agent, from.Count, limit)
		if err != nil {
			return ledger.ReplayResult{}, 0, err
		}
		return ledger.ReplayResponse(events, from), len(events), nil
	default:
		events, err := v.Index.RevokeEvents(ctx, agent, from.Count, limit)
		if err != nil {
			return ledger.ReplayResult{}, 0, err
		}
		return ledger.ReplayRevoke(events, from), len(events), nil
	}
}
