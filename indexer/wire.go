package indexer

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/chainseal/chainseal-go/ledger"
)

// Wire documents use hex for digests and base58 for account identities,
// matching what the indexer serves.

type wireState struct {
	Digest ledger.Digest `json:"digest"`
	Count  uint64        `json:"count"`
}

func (w wireState) state() ledger.State {
	return ledger.State{Digest: w.Digest, Count: w.Count}
}

type wireSummary struct {
	Agent    string    `json:"agent"`
	Feedback wireState `json:"feedback"`
	Response wireState `json:"response"`
	Revoke   wireState `json:"revoke"`
}

type wireSeal struct {
	Value    int64          `json:"value"`
	Decimals uint8          `json:"decimals"`
	Score    *uint8         `json:"score,omitempty"`
	Tag1     string         `json:"tag1,omitempty"`
	Tag2     string         `json:"tag2,omitempty"`
	Endpoint string         `json:"endpoint,omitempty"`
	URI      string         `json:"uri"`
	FileHash *ledger.Digest `json:"fileHash,omitempty"`
}

func (w *wireSeal) params() *ledger.SealParams {
	if w == nil {
		return nil
	}
	p := &ledger.SealParams{
		Value:    w.Value,
		Decimals: w.Decimals,
		Score:    w.Score,
		Tag1:     w.Tag1,
		Tag2:     w.Tag2,
		Endpoint: w.Endpoint,
		URI:      w.URI,
	}
	if w.FileHash != nil {
		fh := [32]byte(*w.FileHash)
		p.FileHash = &fh
	}
	return p
}

func identity(field, s string) ([32]byte, error) {
	key, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		return [32]byte{}, fmt.Errorf("indexer: bad %s identity %q: %w", field, s, err)
	}
	return key, nil
}

type wireFeedback struct {
	Asset    string         `json:"asset"`
	Client   string         `json:"client"`
	Index    uint64         `json:"index"`
	SealHash ledger.Digest  `json:"sealHash"`
	Slot     uint64         `json:"slot"`
	Digest   *ledger.Digest `json:"digest,omitempty"`
	Seal     *wireSeal      `json:"seal,omitempty"`
}

func (w *wireFeedback) event() (*ledger.FeedbackEvent, error) {
	asset, err := identity("asset", w.Asset)
	if err != nil {
		return nil, err
	}
	client, err := identity("client", w.Client)
	if err != nil {
		return nil, err
	}
	return &ledger.FeedbackEvent{
		Asset:        asset,
		Client:       client,
		Index:        w.Index,
		SealHash:     w.SealHash,
		Slot:         w.Slot,
		StoredDigest: w.Digest,
		Seal:         w.Seal.params(),
	}, nil
}

type wireResponse struct {
	Asset         string         `json:"asset"`
	Client        string         `json:"client"`
	FeedbackIndex uint64         `json:"feedbackIndex"`
	Responder     string         `json:"responder"`
	ContentHash   ledger.Digest  `json:"contentHash"`
	Slot          uint64         `json:"slot"`
	Digest        *ledger.Digest `json:"digest,omitempty"`
}

func (w *wireResponse) event() (*ledger.ResponseEvent, error) {
	asset, err := identity("asset", w.Asset)
	if err != nil {
		return nil, err
	}
	client, err := identity("client", w.Client)
	if err != nil {
		return nil, err
	}
	responder, err := identity("responder", w.Responder)
	if err != nil {
		return nil, err
	}
	return &ledger.ResponseEvent{
		Asset:         asset,
		Client:        client,
		FeedbackIndex: w.FeedbackIndex,
		Responder:     responder,
		ContentHash:   w.ContentHash,
		Slot:          w.Slot,
		StoredDigest:  w.Digest,
	}, nil
}

type wireRevoke struct {
	Asset         string         `json:"asset"`
	Client        string         `json:"client"`
	FeedbackIndex uint64         `json:"feedbackIndex"`
	Slot          uint64         `json:"slot"`
	Digest        *ledger.Digest `json:"digest,omitempty"`
}

func (w *wireRevoke) event() (*ledger.RevokeEvent, error) {
	asset, err := identity("asset", w.Asset)
	if err != nil {
		return nil, err
	}
	client, err := identity("client", w.Client)
	if err != nil {
		return nil, err
	}
	return &ledger.RevokeEvent{
		Asset:         asset,
		Client:        client,
		FeedbackIndex: w.FeedbackIndex,
		Slot:          w.Slot,
		StoredDigest:  w.Digest,
	}, nil
}
