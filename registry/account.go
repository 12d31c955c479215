package registry

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/chainseal/chainseal-go/ledger"
)

// anchorAccountDiscriminator derives the 8-byte Anchor account tag.
func anchorAccountDiscriminator(name string) [8]byte {
	sum := sha256.Sum256([]byte("account:" + name))
	var out [8]byte
	copy(out[:], sum[:8])
	return out
}

var agentAccountDiscriminator = anchorAccountDiscriminator("AgentAccount")

// ChainHead is one chain's rolling digest and event count as stored on chain.
type ChainHead struct {
	Digest [32]byte
	Count  uint64
}

// State converts the raw account field to the verifier's representation.
func (h ChainHead) State() ledger.State {
	return ledger.State{Digest: ledger.Digest(h.Digest), Count: h.Count}
}

// AgentAccount is the Borsh layout of an agent's registry account.
type AgentAccount struct {
	Agent     solana.PublicKey
	Authority solana.PublicKey
	Feedback  ChainHead
	Response  ChainHead
	Revoke    ChainHead
	Bump      uint8
}

// Heads returns the three chain heads in the verifier's representation.
func (a *AgentAccount) Heads() *ledger.Heads {
	return &ledger.Heads{
		Feedback: a.Feedback.State(),
		Response: a.Response.State(),
		Revoke:   a.Revoke.State(),
	}
}

// DecodeAgentAccount parses raw account data, checking the Anchor
// discriminator before handing the rest to the Borsh decoder.
func DecodeAgentAccount(data []byte) (*AgentAccount, error) {
	if len(data) < len(agentAccountDiscriminator) {
		return nil, fmt.Errorf("registry: account data too short (%d bytes)", len(data))
	}
	if !bytes.Equal(data[:8], agentAccountDiscriminator[:]) {
		return nil, fmt.Errorf("registry: not an AgentAccount (discriminator %x)", data[:8])
	}
	var acct AgentAccount
	if err := bin.NewBorshDecoder(data[8:]).Decode(&acct); err != nil {
		return nil, fmt.Errorf("registry: decoding AgentAccount: %w", err)
	}
	return &acct, nil
}
