package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/chainseal/chainseal-go/ledger"
	"github.com/chainseal/chainseal-go/verify"
)

// RPCClient is the slice of the Solana RPC surface the registry needs.
type RPCClient interface {
	GetAccountInfo(ctx context.Context, account solana.PublicKey) (*rpc.GetAccountInfoResult, error)
}

// Client reads agent registry accounts over Solana RPC. It satisfies the
// verifier's on-chain source.
type Client struct {
	rpc     RPCClient
	program solana.PublicKey
}

// NewClient returns a registry reader for the given program. A zero program
// key selects the default deployment.
func NewClient(rpcClient RPCClient, program solana.PublicKey) *Client {
	if program.IsZero() {
		program = ProgramID
	}
	return &Client{rpc: rpcClient, program: program}
}

// Account fetches and decodes the agent's registry account.
func (c *Client) Account(ctx context.Context, agent solana.PublicKey) (*AgentAccount, error) {
	addr, _, err := AgentAccountAddress(agent, c.program)
	if err != nil {
		return nil, fmt.Errorf("registry: deriving account for %s: %w", agent, err)
	}
	res, err := c.rpc.GetAccountInfo(ctx, addr)
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, verify.ErrAgentNotFound
		}
		return nil, fmt.Errorf("registry: fetching account %s: %w", addr, err)
	}
	if res == nil || res.Value == nil {
		return nil, verify.ErrAgentNotFound
	}
	return DecodeAgentAccount(res.Value.Data.GetBinary())
}

// AgentHeads implements verify.OnChainSource.
func (c *Client) AgentHeads(ctx context.Context, agent string) (*ledger.Heads, error) {
	key, err := solana.PublicKeyFromBase58(agent)
	if err != nil {
		return nil, fmt.Errorf("registry: invalid agent key %q: %w", agent, err)
	}
	acct, err := c.Account(ctx, key)
	if err != nil {
		return nil, err
	}
	return acct.Heads(), nil
}
