package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"

	"github.com/chainseal/chainseal-go/indexer"
	"github.com/chainseal/chainseal-go/ledger"
	"github.com/chainseal/chainseal-go/registry"
	"github.com/chainseal/chainseal-go/store"
	"github.com/chainseal/chainseal-go/verify"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// config carries endpoint settings; flags override the environment.
type config struct {
	RPCURL     string `env:"CHAINSEAL_RPC_URL" envDefault:"https://api.mainnet-beta.solana.com"`
	IndexerURL string `env:"CHAINSEAL_INDEXER_URL" envDefault:"http://127.0.0.1:8080"`
	ProgramID  string `env:"CHAINSEAL_PROGRAM_ID"`
	StoreDir   string `env:"CHAINSEAL_STORE_DIR"`
}

func loadConfig(errOut io.Writer) (config, bool) {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintf(errOut, "config: %v\n", err)
		return cfg, false
	}
	if cfg.StoreDir == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			cfg.StoreDir = home + "/.chainseal/checkpoints"
		} else {
			cfg.StoreDir = ".chainseal-checkpoints"
		}
	}
	return cfg, true
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "seal-hash":
		return cmdSealHash(args[1:], out, errOut)
	case "leaf":
		return cmdLeaf(args[1:], out, errOut)
	case "replay":
		return cmdReplay(args[1:], out, errOut)
	case "verify-deep":
		return cmdVerifyDeep(args[1:], out, errOut)
	case "verify-full":
		return cmdVerifyFull(args[1:], out, errOut)
	case "checkpoint":
		return cmdCheckpoint(args[1:], out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "chainseal: feedback registry integrity tool")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  chainseal seal-hash [<params.json>]")
	fmt.Fprintln(w, "  chainseal leaf feedback --asset <key> --client <key> --index <n> --seal-hash <hex32> --slot <n>")
	fmt.Fprintln(w, "  chainseal leaf response --asset <key> --client <key> --index <n> --responder <key> --content-hash <hex32> --slot <n>")
	fmt.Fprintln(w, "  chainseal leaf revoke --asset <key> --client <key> --index <n> --slot <n>")
	fmt.Fprintln(w, "  chainseal replay --chain <feedback|response|revoke> [--from-digest <hex32> --from-count <n>] <events.jsonl>")
	fmt.Fprintln(w, "  chainseal verify-deep --agent <key> [--content] [--samples <n>]")
	fmt.Fprintln(w, "  chainseal verify-full --agent <key> [--resume] [--page <n>]")
	fmt.Fprintln(w, "  chainseal checkpoint show --agent <key>")
	fmt.Fprintln(w, "  chainseal checkpoint clear --agent <key>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - seal-hash reads JSON seal params from the file or stdin")
	fmt.Fprintln(w, "  - endpoints come from CHAINSEAL_RPC_URL / CHAINSEAL_INDEXER_URL / CHAINSEAL_PROGRAM_ID")
	fmt.Fprintln(w, "  - verify-full records checkpoints under CHAINSEAL_STORE_DIR after a valid run")
	fmt.Fprintln(w, "  - reports are JSON on stdout; exit 0 valid, 1 otherwise")
}

// sealDoc is the CLI's JSON shape for seal parameters.
type sealDoc struct {
	Value    int64          `json:"value"`
	Decimals uint8          `json:"decimals"`
	Score    *uint8         `json:"score,omitempty"`
	Tag1     string         `json:"tag1,omitempty"`
	Tag2     string         `json:"tag2,omitempty"`
	Endpoint string         `json:"endpoint,omitempty"`
	URI      string         `json:"uri"`
	FileHash *ledger.Digest `json:"fileHash,omitempty"`
}

func (d *sealDoc) params() ledger.SealParams {
	p := ledger.SealParams{
		Value:    d.Value,
		Decimals: d.Decimals,
		Score:    d.Score,
		Tag1:     d.Tag1,
		Tag2:     d.Tag2,
		Endpoint: d.Endpoint,
		URI:      d.URI,
	}
	if d.FileHash != nil {
		fh := [32]byte(*d.FileHash)
		p.FileHash = &fh
	}
	return p
}

func cmdSealHash(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("seal-hash", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	var r io.Reader = os.Stdin
	if fs.NArg() == 1 {
		f, err := os.Open(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(errOut, "read params: %v\n", err)
			return 1
		}
		defer f.Close()
		r = f
	} else if fs.NArg() > 1 {
		fmt.Fprintln(errOut, "usage: chainseal seal-hash [<params.json>]")
		return 2
	}

	var doc sealDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		fmt.Fprintf(errOut, "parse params: %v\n", err)
		return 1
	}
	h, err := ledger.SealHash(doc.params())
	if err != nil {
		fmt.Fprintf(errOut, "seal: %v\n", err)
		return 1
	}
	fmt.Fprintln(out, h)
	return 0
}

func parseKey(errOut io.Writer, name, s string) (solana.PublicKey, bool) {
	key, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		fmt.Fprintf(errOut, "--%s: %v\n", name, err)
		return solana.PublicKey{}, false
	}
	return key, true
}

func parseDigest(errOut io.Writer, name, s string) (ledger.Digest, bool) {
	d, err := ledger.ParseDigest(s)
	if err != nil {
		fmt.Fprintf(errOut, "--%s: %v\n", name, err)
		return ledger.Digest{}, false
	}
	return d, true
}

func cmdLeaf(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "usage: chainseal leaf <feedback|response|revoke> ...")
		return 2
	}

	fs := flag.NewFlagSet("leaf "+args[0], flag.ContinueOnError)
	fs.SetOutput(errOut)
	asset := fs.String("asset", "", "asset public key (base58)")
	client := fs.String("client", "", "client public key (base58)")
	index := fs.Uint64("index", 0, "feedback index")
	slot := fs.Uint64("slot", 0, "slot of the event")
	sealHash := fs.String("seal-hash", "", "seal hash (hex, feedback only)")
	responder := fs.String("responder", "", "responder public key (base58, response only)")
	contentHash := fs.String("content-hash", "", "response content hash (hex, response only)")
	if err := fs.Parse(args[1:]); err != nil {
		return 2
	}
	if *asset == "" || *client == "" {
		fmt.Fprintln(errOut, "--asset and --client are required")
		return 2
	}
	assetKey, ok := parseKey(errOut, "asset", *asset)
	if !ok {
		return 2
	}
	clientKey, ok := parseKey(errOut, "client", *client)
	if !ok {
		return 2
	}

	var leaf ledger.Digest
	switch args[0] {
	case "feedback":
		h, ok := parseDigest(errOut, "seal-hash", *sealHash)
		if !ok {
			return 2
		}
		leaf = ledger.FeedbackLeaf(assetKey, clientKey, *index, h, *slot)
	case "response":
		responderKey, ok := parseKey(errOut, "responder", *responder)
		if !ok {
			return 2
		}
		h, ok := parseDigest(errOut, "content-hash", *contentHash)
		if !ok {
			return 2
		}
		leaf = ledger.ResponseLeaf(assetKey, clientKey, *index, responderKey, h, *slot)
	case "revoke":
		leaf = ledger.RevokeLeaf(assetKey, clientKey, *index, *slot)
	default:
		fmt.Fprintf(errOut, "unknown leaf kind: %s\n", args[0])
		return 2
	}
	fmt.Fprintln(out, leaf)
	return 0
}

// eventDoc is one JSONL record for replay. Identities are base58, digests
// hex; only the fields for the chosen chain kind are consulted.
type eventDoc struct {
	Asset         string         `json:"asset"`
	Client        string         `json:"client"`
	Index         uint64         `json:"index"`
	FeedbackIndex uint64         `json:"feedbackIndex"`
	SealHash      ledger.Digest  `json:"sealHash"`
	Responder     string         `json:"responder"`
	ContentHash   ledger.Digest  `json:"contentHash"`
	Slot          uint64         `json:"slot"`
	Digest        *ledger.Digest `json:"digest,omitempty"`
}

func (d *eventDoc) keys(errOut io.Writer) (asset, client solana.PublicKey, ok bool) {
	asset, ok = parseKey(errOut, "asset", d.Asset)
	if !ok {
		return
	}
	client, ok = parseKey(errOut, "client", d.Client)
	return
}

func cmdReplay(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("replay", flag.ContinueOnError)
	fs.SetOutput(errOut)
	chain := fs.String("chain", "feedback", "chain kind: feedback, response or revoke")
	fromDigest := fs.String("from-digest", "", "checkpoint digest (hex)")
	fromCount := fs.Uint64("from-count", 0, "checkpoint event count")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: chainseal replay --chain <kind> [--from-digest <hex32> --from-count <n>] <events.jsonl>")
		return 2
	}
	kind := ledger.Kind(*chain)
	if !kind.Valid() {
		fmt.Fprintf(errOut, "unknown chain kind: %s\n", *chain)
		return 2
	}

	from := ledger.Genesis()
	if *fromDigest != "" {
		d, ok := parseDigest(errOut, "from-digest", *fromDigest)
		if !ok {
			return 2
		}
		from = ledger.State{Digest: d, Count: *fromCount}
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read events: %v\n", err)
		return 1
	}
	defer f.Close()

	var docs []eventDoc
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var doc eventDoc
		if err := json.Unmarshal(line, &doc); err != nil {
			fmt.Fprintf(errOut, "parse event %d: %v\n", len(docs), err)
			return 1
		}
		docs = append(docs, doc)
	}
	if err := sc.Err(); err != nil {
		fmt.Fprintf(errOut, "read events: %v\n", err)
		return 1
	}

	var result ledger.ReplayResult
	switch kind {
	case ledger.KindFeedback:
		events := make([]ledger.FeedbackEvent, 0, len(docs))
		for i := range docs {
			asset, client, ok := docs[i].keys(errOut)
			if !ok {
				return 1
			}
			events = append(events, ledger.FeedbackEvent{
				Asset: asset, Client: client,
				Index: docs[i].Index, SealHash: docs[i].SealHash,
				Slot: docs[i].Slot, StoredDigest: docs[i].Digest,
			})
		}
		result = ledger.ReplayFeedback(events, from)
	case ledger.KindResponse:
		events := make([]ledger.ResponseEvent, 0, len(docs))
		for i := range docs {
			asset, client, ok := docs[i].keys(errOut)
			if !ok {
				return 1
			}
			responder, ok := parseKey(errOut, "responder", docs[i].Responder)
			if !ok {
				return 1
			}
			events = append(events, ledger.ResponseEvent{
				Asset: asset, Client: client,
				FeedbackIndex: docs[i].FeedbackIndex, Responder: responder,
				ContentHash: docs[i].ContentHash,
				Slot:        docs[i].Slot, StoredDigest: docs[i].Digest,
			})
		}
		result = ledger.ReplayResponse(events, from)
	case ledger.KindRevoke:
		events := make([]ledger.RevokeEvent, 0, len(docs))
		for i := range docs {
			asset, client, ok := docs[i].keys(errOut)
			if !ok {
				return 1
			}
			events = append(events, ledger.RevokeEvent{
				Asset: asset, Client: client,
				FeedbackIndex: docs[i].FeedbackIndex,
				Slot:          docs[i].Slot, StoredDigest: docs[i].Digest,
			})
		}
		result = ledger.ReplayRevoke(events, from)
	}

	printJSON(out, result)
	if !result.Valid {
		return 1
	}
	return 0
}

func newVerifier(errOut io.Writer, cfg config) (*verify.Verifier, bool) {
	program := solana.PublicKey{}
	if cfg.ProgramID != "" {
		var ok bool
		program, ok = parseKey(errOut, "program", cfg.ProgramID)
		if !ok {
			return nil, false
		}
	}
	onChain := registry.NewClient(solanarpc.New(cfg.RPCURL), program)
	index := indexer.New(cfg.IndexerURL, nil)
	return verify.New(onChain, index), true
}

func printJSON(out io.Writer, v interface{}) {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func reportExit(out io.Writer, r *verify.Report) int {
	printJSON(out, r)
	if r.Status != verify.StatusValid {
		return 1
	}
	return 0
}

func cmdVerifyDeep(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("verify-deep", flag.ContinueOnError)
	fs.SetOutput(errOut)
	agent := fs.String("agent", "", "agent public key (base58)")
	content := fs.Bool("content", false, "re-derive content fingerprints for sampled records")
	samples := fs.Int("samples", 0, "extra interior samples beyond the boundaries")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *agent == "" {
		fmt.Fprintln(errOut, "--agent is required")
		return 2
	}
	cfg, ok := loadConfig(errOut)
	if !ok {
		return 2
	}
	v, ok := newVerifier(errOut, cfg)
	if !ok {
		return 2
	}

	r := v.Deep(context.Background(), *agent, verify.DeepOptions{
		ExtraSamples:  *samples,
		VerifyContent: *content,
	})
	return reportExit(out, r)
}

func cmdVerifyFull(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("verify-full", flag.ContinueOnError)
	fs.SetOutput(errOut)
	agent := fs.String("agent", "", "agent public key (base58)")
	resume := fs.Bool("resume", false, "resume from the indexer's latest checkpoint")
	page := fs.Uint64("page", 0, "events per fetch")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *agent == "" {
		fmt.Fprintln(errOut, "--agent is required")
		return 2
	}
	cfg, ok := loadConfig(errOut)
	if !ok {
		return 2
	}
	v, ok := newVerifier(errOut, cfg)
	if !ok {
		return 2
	}

	r := v.Full(context.Background(), *agent, verify.FullOptions{
		Resume:   *resume,
		PageSize: *page,
	})

	if r.Status == verify.StatusValid {
		if err := saveCheckpoints(cfg, *agent, r); err != nil {
			fmt.Fprintf(errOut, "checkpoint: %v\n", err)
		}
	}
	return reportExit(out, r)
}

// saveCheckpoints records each chain's replayed head after a valid full run.
func saveCheckpoints(cfg config, agent string, r *verify.Report) error {
	s, err := store.NewFS(cfg.StoreDir)
	if err != nil {
		return err
	}
	ctx := context.Background()
	for _, c := range r.Chains {
		if c.Status != verify.StatusValid || c.Replay == nil {
			continue
		}
		state := ledger.State{Digest: c.Replay.FinalDigest, Count: c.Replay.Count}
		if err := s.Save(ctx, agent, c.Kind, state); err != nil {
			return err
		}
	}
	return nil
}

func cmdCheckpoint(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "usage: chainseal checkpoint <show|clear> --agent <key>")
		return 2
	}
	sub := args[0]
	fs := flag.NewFlagSet("checkpoint "+sub, flag.ContinueOnError)
	fs.SetOutput(errOut)
	agent := fs.String("agent", "", "agent public key (base58)")
	if err := fs.Parse(args[1:]); err != nil {
		return 2
	}
	if *agent == "" {
		fmt.Fprintln(errOut, "--agent is required")
		return 2
	}
	cfg, ok := loadConfig(errOut)
	if !ok {
		return 2
	}
	s, err := store.NewFS(cfg.StoreDir)
	if err != nil {
		fmt.Fprintf(errOut, "store: %v\n", err)
		return 1
	}
	ctx := context.Background()

	switch sub {
	case "show":
		shown := map[string]ledger.State{}
		for _, kind := range ledger.Kinds() {
			st, err := s.Load(ctx, *agent, kind)
			if store.IsNoCheckpoint(err) {
				continue
			}
			if err != nil {
				fmt.Fprintf(errOut, "load %s: %v\n", kind, err)
				return 1
			}
			shown[string(kind)] = *st
		}
		printJSON(out, shown)
		return 0
	case "clear":
		if err := s.Clear(ctx, *agent); err != nil {
			fmt.Fprintf(errOut, "clear: %v\n", err)
			return 1
		}
		fmt.Fprintln(out, "OK")
		return 0
	default:
		fmt.Fprintf(errOut, "unknown checkpoint subcommand: %s\n", sub)
		return 2
	}
}

