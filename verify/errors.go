package verify

import "errors"

var (
	// ErrAgentNotFound is returned by an OnChainSource when the agent has no
	// registry account. Verification surfaces it as StatusError, never as an
	// empty "valid" result.
	ErrAgentNotFound = errors.New("verify: agent not found on-chain")

	// ErrNotFound is returned by IndexSource point lookups for an absent
	// record.
	ErrNotFound = errors.New("verify: record not found")

	// ErrNoCheckpoint is returned by IndexSource.LatestCheckpoint when the
	// indexer has no stored checkpoint for the chain.
	ErrNoCheckpoint = errors.New("verify: no checkpoint")
)

// IsNotFound reports whether err is a point-lookup miss.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
