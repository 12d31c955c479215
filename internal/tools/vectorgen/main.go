// Command vectorgen regenerates testdata/vectors/vectors.json from the
// ledger package. The file is committed; regeneration exists so the vectors
// can be rebuilt if the representative parameter sets ever change.
package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/chainseal/chainseal-go/ledger"
)

type sealVector struct {
	Name     string         `json:"name"`
	Value    int64          `json:"value"`
	Decimals uint8          `json:"decimals"`
	Score    *uint8         `json:"score"`
	Tag1     string         `json:"tag1"`
	Tag2     string         `json:"tag2"`
	Endpoint string         `json:"endpoint"`
	URI      string         `json:"uri"`
	FileHash *ledger.Digest `json:"fileHash"`
	Hash     ledger.Digest  `json:"hash"`
}

type feedbackLeafVector struct {
	Asset    string        `json:"asset"`
	Client   string        `json:"client"`
	Index    uint64        `json:"index"`
	SealHash ledger.Digest `json:"sealHash"`
	Slot     uint64        `json:"slot"`
	Leaf     ledger.Digest `json:"leaf"`
}

type responseLeafVector struct {
	Asset         string        `json:"asset"`
	Client        string        `json:"client"`
	FeedbackIndex uint64        `json:"feedbackIndex"`
	Responder     string        `json:"responder"`
	ContentHash   ledger.Digest `json:"contentHash"`
	Slot          uint64        `json:"slot"`
	Leaf          ledger.Digest `json:"leaf"`
}

type revokeLeafVector struct {
	Asset         string        `json:"asset"`
	Client        string        `json:"client"`
	FeedbackIndex uint64        `json:"feedbackIndex"`
	Slot          uint64        `json:"slot"`
	Leaf          ledger.Digest `json:"leaf"`
}

type chainStepVector struct {
	Chain ledger.Kind   `json:"chain"`
	Prev  ledger.Digest `json:"prev"`
	Leaf  ledger.Digest `json:"leaf"`
	Next  ledger.Digest `json:"next"`
}

type vectorFile struct {
	Seal         []sealVector       `json:"seal"`
	FeedbackLeaf feedbackLeafVector `json:"feedbackLeaf"`
	ResponseLeaf responseLeafVector `json:"responseLeaf"`
	RevokeLeaf   revokeLeafVector   `json:"revokeLeaf"`
	ChainSteps   []chainStepVector  `json:"chainSteps"`
}

func fill32(b byte) [32]byte {
	var out [32]byte
	for i := range out {
		out[i] = b
	}
	return out
}

func u8(v uint8) *uint8 { return &v }

func mustSealHash(p ledger.SealParams) ledger.Digest {
	h, err := ledger.SealHash(p)
	if err != nil {
		panic(err)
	}
	return h
}

func main() {
	base := ledger.SealParams{
		Value:    9977,
		Decimals: 2,
		Tag1:     "uptime",
		Tag2:     "day",
		URI:      "ipfs://QmTest123",
	}
	scoreZero := base
	scoreZero.Score = u8(0)
	withFile := base
	fh := [32]byte{}
	for i := range fh {
		fh[i] = byte(i)
	}
	withFile.FileHash = &fh
	negative := ledger.SealParams{
		Value:    -42,
		Score:    u8(100),
		Endpoint: "https://api.example.com",
		URI:      "https://example.com/report.json",
	}

	seals := []struct {
		name   string
		params ledger.SealParams
	}{
		{"basic", base},
		{"score_zero", scoreZero},
		{"file_hash", withFile},
		{"negative_value", negative},
	}

	var file vectorFile
	for _, s := range seals {
		v := sealVector{
			Name:     s.name,
			Value:    s.params.Value,
			Decimals: s.params.Decimals,
			Score:    s.params.Score,
			Tag1:     s.params.Tag1,
			Tag2:     s.params.Tag2,
			Endpoint: s.params.Endpoint,
			URI:      s.params.URI,
			Hash:     mustSealHash(s.params),
		}
		if s.params.FileHash != nil {
			d := ledger.Digest(*s.params.FileHash)
			v.FileHash = &d
		}
		file.Seal = append(file.Seal, v)
	}

	asset := fill32(0xAA)
	client := fill32(0xBB)
	responder := fill32(0xCC)
	contentHash := ledger.Digest(fill32(0xDD))

	fbLeaf := ledger.FeedbackLeaf(asset, client, 0, file.Seal[0].Hash, 12345)
	file.FeedbackLeaf = feedbackLeafVector{
		Asset:    hex.EncodeToString(asset[:]),
		Client:   hex.EncodeToString(client[:]),
		Index:    0,
		SealHash: file.Seal[0].Hash,
		Slot:     12345,
		Leaf:     fbLeaf,
	}

	respLeaf := ledger.ResponseLeaf(asset, client, 0, responder, contentHash, 12346)
	file.ResponseLeaf = responseLeafVector{
		Asset:         hex.EncodeToString(asset[:]),
		Client:        hex.EncodeToString(client[:]),
		FeedbackIndex: 0,
		Responder:     hex.EncodeToString(responder[:]),
		ContentHash:   contentHash,
		Slot:          12346,
		Leaf:          respLeaf,
	}

	rvLeaf := ledger.RevokeLeaf(asset, client, 0, 12347)
	file.RevokeLeaf = revokeLeafVector{
		Asset:         hex.EncodeToString(asset[:]),
		Client:        hex.EncodeToString(client[:]),
		FeedbackIndex: 0,
		Slot:          12347,
		Leaf:          rvLeaf,
	}

	leaves := map[ledger.Kind]ledger.Digest{
		ledger.KindFeedback: fbLeaf,
		ledger.KindResponse: respLeaf,
		ledger.KindRevoke:   rvLeaf,
	}
	for _, kind := range ledger.Kinds() {
		leaf := leaves[kind]
		file.ChainSteps = append(file.ChainSteps, chainStepVector{
			Chain: kind,
			Prev:  ledger.ZeroDigest,
			Leaf:  leaf,
			Next:  ledger.ChainHash(ledger.ZeroDigest, kind, leaf),
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(file); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
