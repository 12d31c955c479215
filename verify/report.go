package verify

import "github.com/chainseal/chainseal-go/ledger"

// Status is the overall verdict of a verification run.
//
// StatusError means the check could not be carried out; StatusCorrupted means
// the check ran and proved divergence. The two are never conflated: "could
// not check" must stay distinguishable from "checked and wrong".
type Status string

const (
	StatusValid     Status = "valid"
	StatusSyncing   Status = "syncing"
	StatusCorrupted Status = "corrupted"
	StatusError     Status = "error"
)

// worse reports whether a outranks b in the error > corrupted > syncing >
// valid escalation order.
func worse(a, b Status) bool {
	return rank(a) > rank(b)
}

func rank(s Status) int {
	switch s {
	case StatusError:
		return 3
	case StatusCorrupted:
		return 2
	case StatusSyncing:
		return 1
	default:
		return 0
	}
}

// ChainReport is the per-chain portion of a verification report.
type ChainReport struct {
	Kind ledger.Kind `json:"kind"`

	OnChain ledger.State `json:"onChain"`
	Indexed ledger.State `json:"indexed"`

	// Lag is onChain.Count - indexed.Count. Negative lag (the indexer
	// claims more history than the chain committed) is a hard consistency
	// fault and is reported as-is, never clamped.
	Lag int64 `json:"lag"`

	// Match reports digest and count agreement between the two views
	// (deep) or between replay and the on-chain head (full).
	Match bool `json:"match"`

	Status Status `json:"status"`

	// Deep verification only.
	SpotChecksPassed bool     `json:"spotChecksPassed"`
	MissingItems     int      `json:"missingItems"`
	SampledIndices   []uint64 `json:"sampledIndices,omitempty"`

	// Full verification only.
	Replay *ledger.ReplayResult `json:"replay,omitempty"`

	Err string `json:"err,omitempty"`
}

// Report is the outcome of one verification call.
type Report struct {
	Agent  string        `json:"agent"`
	Mode   string        `json:"mode"` // "deep" or "full"
	Status Status        `json:"status"`
	Chains []ChainReport `json:"chains,omitempty"`
	Err    string        `json:"err,omitempty"`
}

func errorReport(agent, mode string, err error) *Report {
	return &Report{Agent: agent, Mode: mode, Status: StatusError, Err: err.Error()}
}
