package main

import (
	"flag"
	"fmt"
	"net"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"google.golang.org/grpc"

	"github.com/chainseal/chainseal-go/indexer"
	"github.com/chainseal/chainseal-go/registry"
	"github.com/chainseal/chainseal-go/verify"
	"github.com/chainseal/chainseal-go/verifyrpc"
)

type config struct {
	RPCURL     string `env:"CHAINSEAL_RPC_URL" envDefault:"https://api.mainnet-beta.solana.com"`
	IndexerURL string `env:"CHAINSEAL_INDEXER_URL" envDefault:"http://127.0.0.1:8080"`
	ProgramID  string `env:"CHAINSEAL_PROGRAM_ID"`
}

func main() {
	fs := flag.NewFlagSet("chainseal-verifyd", flag.ExitOnError)
	listen := fs.String("listen", "127.0.0.1:7788", "listen address")
	rpcURL := fs.String("rpc-url", "", "Solana RPC endpoint (overrides CHAINSEAL_RPC_URL)")
	indexerURL := fs.String("indexer-url", "", "indexer endpoint (overrides CHAINSEAL_INDEXER_URL)")
	programID := fs.String("program", "", "registry program id (overrides CHAINSEAL_PROGRAM_ID)")
	content := fs.Bool("content", false, "re-derive content fingerprints during deep verification")
	resume := fs.Bool("resume", false, "resume full verification from indexer checkpoints")

	_ = fs.Parse(os.Args[1:])

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *rpcURL != "" {
		cfg.RPCURL = *rpcURL
	}
	if *indexerURL != "" {
		cfg.IndexerURL = *indexerURL
	}
	if *programID != "" {
		cfg.ProgramID = *programID
	}

	program := solana.PublicKey{}
	if cfg.ProgramID != "" {
		var err error
		program, err = solana.PublicKeyFromBase58(cfg.ProgramID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "program id: %v\n", err)
			os.Exit(2)
		}
	}

	verifier := verify.New(
		registry.NewClient(solanarpc.New(cfg.RPCURL), program),
		indexer.New(cfg.IndexerURL, nil),
	)

	lis, err := net.Listen("tcp", *listen)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer lis.Close()

	s := grpc.NewServer()
	verifyrpc.RegisterVerifyServer(s, &verifyrpc.Server{
		Verifier:    verifier,
		DeepOptions: verify.DeepOptions{VerifyContent: *content},
		FullOptions: verify.FullOptions{Resume: *resume},
	})

	fmt.Fprintf(os.Stderr, "chainseal-verifyd listening on %s (rpc=%s indexer=%s)\n",
		lis.Addr().String(), cfg.RPCURL, cfg.IndexerURL)
	if err := s.Serve(lis); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
