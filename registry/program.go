// Package registry reads agent accounts from the on-chain feedback
// registry program and exposes their chain heads to the verifier.
package registry

import (
	"github.com/gagliardetto/solana-go"
)

// ProgramID is the deployed feedback registry program.
var ProgramID = solana.MustPublicKeyFromBase58("13WtkhLhazqejJRdWjkZZo4gWkBFYJEQBU31L46cEcuo")

// agentSeed prefixes every agent account PDA derivation.
var agentSeed = []byte("agent")

// AgentAccountAddress derives the PDA holding the given agent's chain heads.
func AgentAccountAddress(agent solana.PublicKey, program solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{agentSeed, agent.Bytes()}, program)
}
