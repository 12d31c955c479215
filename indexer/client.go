// Package indexer is a client for the off-chain indexing service. The
// indexer mirrors on-chain events into queryable history; this client maps
// its REST surface onto the verifier's index source interface.
package indexer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/chainseal/chainseal-go/ledger"
	"github.com/chainseal/chainseal-go/verify"
)

const defaultTimeout = 15 * time.Second

// Client talks to one indexer deployment. All requests are idempotent GETs
// and are retried with exponential backoff on transient failures.
type Client struct {
	base string
	http *http.Client

	// MaxElapsed bounds the total retry window per request.
	MaxElapsed time.Duration
}

// New returns a client for the indexer at base (e.g. "https://idx.example.com").
func New(base string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{base: base, http: httpClient, MaxElapsed: 30 * time.Second}
}

// notFoundError marks a 404 so callers can map it per endpoint.
type notFoundError struct{ path string }

func (e *notFoundError) Error() string { return "indexer: " + e.path + ": not found" }

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")

		res, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer res.Body.Close()

		switch {
		case res.StatusCode == http.StatusOK:
			if err := json.NewDecoder(res.Body).Decode(out); err != nil {
				return backoff.Permanent(fmt.Errorf("indexer: decoding %s: %w", path, err))
			}
			return nil
		case res.StatusCode == http.StatusNotFound:
			io.Copy(io.Discard, res.Body)
			return backoff.Permanent(&notFoundError{path: path})
		case res.StatusCode >= 500:
			io.Copy(io.Discard, res.Body)
			return fmt.Errorf("indexer: %s: %s", path, res.Status)
		default:
			io.Copy(io.Discard, res.Body)
			return backoff.Permanent(fmt.Errorf("indexer: %s: %s", path, res.Status))
		}
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = c.MaxElapsed
	return backoff.Retry(op, backoff.WithContext(b, ctx))
}

func agentPath(agent, suffix string) string {
	return "/v1/agents/" + url.PathEscape(agent) + suffix
}

// Summary implements verify.IndexSource.
func (c *Client) Summary(ctx context.Context, agent string) (*ledger.Heads, error) {
	var w wireSummary
	if err := c.getJSON(ctx, agentPath(agent, "/summary"), &w); err != nil {
		return nil, err
	}
	return &ledger.Heads{
		Feedback: w.Feedback.state(),
		Response: w.Response.state(),
		Revoke:   w.Revoke.state(),
	}, nil
}

// LatestCheckpoint implements verify.IndexSource. A 404 means the indexer
// holds no checkpoint for the chain yet.
func (c *Client) LatestCheckpoint(ctx context.Context, agent string, kind ledger.Kind) (*ledger.State, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("indexer: unknown chain kind %q", kind)
	}
	path := agentPath(agent, "/checkpoints/latest?chain="+url.QueryEscape(string(kind)))
	var w wireState
	if err := c.getJSON(ctx, path, &w); err != nil {
		var nf *notFoundError
		if errors.As(err, &nf) {
			return nil, verify.ErrNoCheckpoint
		}
		return nil, err
	}
	st := w.state()
	return &st, nil
}

func pageQuery(offset, limit uint64) string {
	return fmt.Sprintf("?offset=%d&limit=%d", offset, limit)
}

// FeedbackEvents implements verify.IndexSource.
func (c *Client) FeedbackEvents(ctx context.Context, agent string, offset, limit uint64) ([]ledger.FeedbackEvent, error) {
	var ws []wireFeedback
	if err := c.getJSON(ctx, agentPath(agent, "/feedback"+pageQuery(offset, limit)), &ws); err != nil {
		return nil, err
	}
	out := make([]ledger.FeedbackEvent, 0, len(ws))
	for i := range ws {
		ev, err := ws[i].event()
		if err != nil {
			return nil, err
		}
		out = append(out, *ev)
	}
	return out, nil
}

// ResponseEvents implements verify.IndexSource.
func (c *Client) ResponseEvents(ctx context.Context, agent string, offset, limit uint64) ([]ledger.ResponseEvent, error) {
	var ws []wireResponse
	if err := c.getJSON(ctx, agentPath(agent, "/responses"+pageQuery(offset, limit)), &ws); err != nil {
		return nil, err
	}
	out := make([]ledger.ResponseEvent, 0, len(ws))
	for i := range ws {
		ev, err := ws[i].event()
		if err != nil {
			return nil, err
		}
		out = append(out, *ev)
	}
	return out, nil
}

// RevokeEvents implements verify.IndexSource.
func (c *Client) RevokeEvents(ctx context.Context, agent string, offset, limit uint64) ([]ledger.RevokeEvent, error) {
	var ws []wireRevoke
	if err := c.getJSON(ctx, agentPath(agent, "/revocations"+pageQuery(offset, limit)), &ws); err != nil {
		return nil, err
	}
	out := make([]ledger.RevokeEvent, 0, len(ws))
	for i := range ws {
		ev, err := ws[i].event()
		if err != nil {
			return nil, err
		}
		out = append(out, *ev)
	}
	return out, nil
}

// FeedbackAt implements verify.IndexSource.
func (c *Client) FeedbackAt(ctx context.Context, agent string, index uint64) (*ledger.FeedbackEvent, error) {
	var w wireFeedback
	err := c.getJSON(ctx, agentPath(agent, fmt.Sprintf("/feedback/%d", index)), &w)
	if err != nil {
		return nil, mapPointLookup(err)
	}
	return w.event()
}

// ResponseAt implements verify.IndexSource.
func (c *Client) ResponseAt(ctx context.Context, agent string, index uint64) (*ledger.ResponseEvent, error) {
	var w wireResponse
	err := c.getJSON(ctx, agentPath(agent, fmt.Sprintf("/responses/%d", index)), &w)
	if err != nil {
		return nil, mapPointLookup(err)
	}
	return w.event()
}

// RevokeAt implements verify.IndexSource.
func (c *Client) RevokeAt(ctx context.Context, agent string, index uint64) (*ledger.RevokeEvent, error) {
	var w wireRevoke
	err := c.getJSON(ctx, agentPath(agent, fmt.Sprintf("/revocations/%d", index)), &w)
	if err != nil {
		return nil, mapPointLookup(err)
	}
	return w.event()
}

func mapPointLookup(err error) error {
	var nf *notFoundError
	if errors.As(err, &nf) {
		return verify.ErrNotFound
	}
	return err
}
