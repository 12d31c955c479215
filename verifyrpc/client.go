package verifyrpc

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/chainseal/chainseal-go/verify"
)

// Client calls a remote Verify service.
type Client struct {
	cc     *grpc.ClientConn
	client VerifyClient

	// Timeout applies per RPC when non-zero.
	Timeout time.Duration
}

type DialOptions struct {
	// Timeout applies to the initial dial when non-zero.
	Timeout time.Duration

	// MaxMsgBytes sets both send/recv max sizes when non-zero. Full
	// verification reports over long histories can be large.
	MaxMsgBytes int
}

func Dial(target string, opts DialOptions) (*Client, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
	if opts.MaxMsgBytes > 0 {
		dialOpts = append(dialOpts,
			grpc.WithDefaultCallOptions(
				grpc.MaxCallRecvMsgSize(opts.MaxMsgBytes),
				grpc.MaxCallSendMsgSize(opts.MaxMsgBytes),
			),
		)
	}

	ctx := context.Background()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	cc, err := grpc.DialContext(ctx, target, dialOpts...)
	if err != nil {
		return nil, err
	}
	return &Client{cc: cc, client: NewVerifyClient(cc), Timeout: 0}, nil
}

func (c *Client) Close() error {
	if c == nil || c.cc == nil {
		return nil
	}
	return c.cc.Close()
}

// Deep runs deep verification for the agent on the remote service.
func (c *Client) Deep(ctx context.Context, agent string) (*verify.Report, error) {
	return c.call(ctx, agent, c.client.Deep)
}

// Full runs full verification for the agent on the remote service.
func (c *Client) Full(ctx context.Context, agent string) (*verify.Report, error) {
	return c.call(ctx, agent, c.client.Full)
}

type rpcFunc func(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)

func (c *Client) call(ctx context.Context, agent string, fn rpcFunc) (*verify.Report, error) {
	if c == nil || c.client == nil {
		return nil, fmt.Errorf("verifyrpc: client is not connected")
	}
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	reply, err := fn(ctx, wrapperspb.String(agent))
	if err != nil {
		return nil, err
	}
	var report verify.Report
	if err := json.Unmarshal(reply.GetValue(), &report); err != nil {
		return nil, fmt.Errorf("verifyrpc: decoding report: %w", err)
	}
	return &report, nil
}
