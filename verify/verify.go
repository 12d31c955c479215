// Package verify implements integrity verification of indexer-reported event
// history against an agent's on-chain chain commitments.
//
// Two modes are offered. Deep verification is probabilistic and cheap: it
// compares the two summary views and spot-checks a small sample of records.
// Full verification is exhaustive and authoritative: it replays the entire
// history (optionally from a checkpoint) and compares the final digest to the
// on-chain head. Deep exists to make routine checks cheap; Full is the
// authority of record.
//
// Verification has no side effects. All I/O happens through the two source
// interfaces; any transport failure yields StatusError, never a partial or
// misleading verdict.
package verify

import (
	"context"
	"sync"

	"github.com/chainseal/chainseal-go/ledger"
)

// OnChainSource reads an agent's authoritative chain heads from the registry
// program.
type OnChainSource interface {
	// AgentHeads returns the agent's three (digest, count) heads, or
	// ErrAgentNotFound when the agent has no registry account.
	AgentHeads(ctx context.Context, agent string) (*ledger.Heads, error)
}

// IndexSource reads event history and summaries from the indexing service.
//
// Event lists are ordered by chain index, non-decreasing, and paged with
// (offset, limit). Point lookups return ErrNotFound for absent records and
// LatestCheckpoint returns ErrNoCheckpoint when nothing is stored.
type IndexSource interface {
	Summary(ctx context.Context, agent string) (*ledger.Heads, error)
	LatestCheckpoint(ctx context.Context, agent string, kind ledger.Kind) (*ledger.State, error)

	FeedbackEvents(ctx context.Context, agent string, offset, limit uint64) ([]ledger.FeedbackEvent, error)
	ResponseEvents(ctx context.Context, agent string, offset, limit uint64) ([]ledger.ResponseEvent, error)
	RevokeEvents(ctx context.Context, agent string, offset, limit uint64) ([]ledger.RevokeEvent, error)

	FeedbackAt(ctx context.Context, agent string, index uint64) (*ledger.FeedbackEvent, error)
	ResponseAt(ctx context.Context, agent string, index uint64) (*ledger.ResponseEvent, error)
	RevokeAt(ctx context.Context, agent string, index uint64) (*ledger.RevokeEvent, error)
}

// Verifier orchestrates integrity verification over the two collaborators.
type Verifier struct {
	OnChain OnChainSource
	Index   IndexSource
}

// New returns a Verifier over the given sources.
func New(onChain OnChainSource, index IndexSource) *Verifier {
	return &Verifier{OnChain: onChain, Index: index}
}

// fetchViews issues the on-chain and indexer summary reads concurrently and
// joins them, minimizing the window in which the two views could represent
// different points in time.
func (v *Verifier) fetchViews(ctx context.Context, agent string) (onChain, indexed *ledger.Heads, err error) {
	var wg sync.WaitGroup
	var chainErr, indexErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		onChain, chainErr = v.OnChain.AgentHeads(ctx, agent)
	}()
	go func() {
		defer wg.Done()
		indexed, indexErr = v.Index.Summary(ctx, agent)
	}()
	wg.Wait()

	if chainErr != nil {
		return nil, nil, chainErr
	}
	if indexErr != nil {
		return nil, nil, indexErr
	}
	return onChain, indexed, nil
}

// aggregate folds per-chain statuses into the report's overall status.
func aggregate(chains []ChainReport) Status {
	overall := StatusValid
	for _, c := range chains {
		if worse(c.Status, overall) {
			overall = c.Status
		}
	}
	return overall
}
