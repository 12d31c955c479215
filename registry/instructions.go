package registry

import (
	"crypto/sha256"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/chainseal/chainseal-go/ledger"
)

// anchorInstructionDiscriminator derives the 8-byte Anchor method tag.
func anchorInstructionDiscriminator(name string) [8]byte {
	sum := sha256.Sum256([]byte("global:" + name))
	var out [8]byte
	copy(out[:], sum[:8])
	return out
}

var (
	discRegisterAgent  = anchorInstructionDiscriminator("register_agent")
	discGiveFeedback   = anchorInstructionDiscriminator("give_feedback")
	discRespond        = anchorInstructionDiscriminator("respond_to_feedback")
	discRevokeFeedback = anchorInstructionDiscriminator("revoke_feedback")
)

// giveFeedbackArgs is the Borsh argument layout of give_feedback.
type giveFeedbackArgs struct {
	Asset    solana.PublicKey
	SealHash [32]byte
	URI      string
}

type respondArgs struct {
	Asset         solana.PublicKey
	Client        solana.PublicKey
	FeedbackIndex uint64
	ContentHash   [32]byte
}

type revokeArgs struct {
	Asset         solana.PublicKey
	FeedbackIndex uint64
}

func encodeInstruction(disc [8]byte, args interface{}) ([]byte, error) {
	data, err := bin.MarshalBorsh(args)
	if err != nil {
		return nil, fmt.Errorf("registry: encoding instruction args: %w", err)
	}
	return append(disc[:], data...), nil
}

func instruction(program solana.PublicKey, accounts solana.AccountMetaSlice, data []byte) solana.Instruction {
	return solana.NewInstruction(program, accounts, data)
}

// RegisterAgent builds the instruction that creates an agent's registry
// account. The payer funds the PDA allocation.
func (c *Client) RegisterAgent(agent, payer solana.PublicKey) (solana.Instruction, error) {
	addr, _, err := AgentAccountAddress(agent, c.program)
	if err != nil {
		return nil, err
	}
	data, err := encodeInstruction(discRegisterAgent, struct{}{})
	if err != nil {
		return nil, err
	}
	accounts := solana.AccountMetaSlice{
		solana.Meta(addr).WRITE(),
		solana.Meta(agent),
		solana.Meta(payer).WRITE().SIGNER(),
		solana.Meta(solana.SystemProgramID),
	}
	return instruction(c.program, accounts, data), nil
}

// GiveFeedback builds the instruction appending a feedback event to the
// agent's chain. The seal hash must be the canonical hash of the off-chain
// payload; the program stores only the hash and URI.
func (c *Client) GiveFeedback(agent, asset, client solana.PublicKey, seal ledger.SealParams) (solana.Instruction, error) {
	if err := seal.Validate(); err != nil {
		return nil, err
	}
	sealHash, err := ledger.SealHash(seal)
	if err != nil {
		return nil, err
	}
	addr, _, err := AgentAccountAddress(agent, c.program)
	if err != nil {
		return nil, err
	}
	data, err := encodeInstruction(discGiveFeedback, giveFeedbackArgs{
		Asset:    asset,
		SealHash: sealHash,
		URI:      seal.URI,
	})
	if err != nil {
		return nil, err
	}
	accounts := solana.AccountMetaSlice{
		solana.Meta(addr).WRITE(),
		solana.Meta(agent),
		solana.Meta(client).WRITE().SIGNER(),
	}
	return instruction(c.program, accounts, data), nil
}

// RespondToFeedback builds the agent's reply instruction for a prior
// feedback event.
func (c *Client) RespondToFeedback(agent, asset, client solana.PublicKey, feedbackIndex uint64, contentHash [32]byte) (solana.Instruction, error) {
	addr, _, err := AgentAccountAddress(agent, c.program)
	if err != nil {
		return nil, err
	}
	data, err := encodeInstruction(discRespond, respondArgs{
		Asset:         asset,
		Client:        client,
		FeedbackIndex: feedbackIndex,
		ContentHash:   contentHash,
	})
	if err != nil {
		return nil, err
	}
	accounts := solana.AccountMetaSlice{
		solana.Meta(addr).WRITE(),
		solana.Meta(agent).WRITE().SIGNER(),
	}
	return instruction(c.program, accounts, data), nil
}

// RevokeFeedback builds the instruction marking a prior feedback event
// revoked by its author.
func (c *Client) RevokeFeedback(agent, asset, client solana.PublicKey, feedbackIndex uint64) (solana.Instruction, error) {
	addr, _, err := AgentAccountAddress(agent, c.program)
	if err != nil {
		return nil, err
	}
	data, err := encodeInstruction(discRevokeFeedback, revokeArgs{
		Asset:         asset,
		FeedbackIndex: feedbackIndex,
	})
	if err != nil {
		return nil, err
	}
	accounts := solana.AccountMetaSlice{
		solana.Meta(addr).WRITE(),
		solana.Meta(client).WRITE().SIGNER(),
	}
	return instruction(c.program, accounts, data), nil
}
