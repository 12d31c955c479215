// Package store persists verified chain checkpoints so later full
// verifications can resume from a known-good state instead of replaying
// from genesis.
package store

import (
	"context"
	"errors"

	"github.com/chainseal/chainseal-go/ledger"
)

var (
	// ErrNoCheckpoint is returned when no checkpoint exists for the
	// requested (agent, chain) pair.
	ErrNoCheckpoint = errors.New("store: no checkpoint")
)

func IsNoCheckpoint(err error) bool { return errors.Is(err, ErrNoCheckpoint) }

// Store holds one checkpoint per (agent, chain). A checkpoint must only be
// saved after a full verification reported the state valid.
type Store interface {
	Save(ctx context.Context, agent string, kind ledger.Kind, state ledger.State) error
	Load(ctx context.Context, agent string, kind ledger.Kind) (*ledger.State, error)
	Clear(ctx context.Context, agent string) error
}
