// Copyright 2025 Prism Protocol
//
// prismctl is a minimal driver over the campaign compiler and the
// read-only catalog API, grounded on the teacher's flag-based CLI
// entrypoints (liteclient/cmd/test-devnet/main.go). It has two
// subcommands: "compile" turns an in-process fixture campaign into a
// populated catalog database, and "serve" exposes that catalog over
// HTTP. A real deployment would replace the fixture with CSV/RPC
// ingestion, which is explicitly out of scope (spec.md §1).
package main

import (
	"context"
	"crypto/rand"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prism-protocol/prism/pkg/catalog"
	"github.com/prism-protocol/prism/pkg/compiler"
	"github.com/prism-protocol/prism/pkg/config"
	"github.com/prism-protocol/prism/pkg/httpapi"
	"github.com/prism-protocol/prism/pkg/logging"
	"github.com/shopspring/decimal"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "compile":
		runCompile(os.Args[2:])
	case "serve":
		runServe(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: prismctl <compile|serve> [flags]")
	fmt.Fprintln(os.Stderr, "  compile  build a fixture campaign and write it to the catalog")
	fmt.Fprintln(os.Stderr, "  serve    expose a compiled catalog over the read-only HTTP API")
}

func runCompile(args []string) {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	var (
		dsn          = fs.String("catalog-dsn", "", "catalog sqlite DSN (overrides PRISM_CATALOG_DSN)")
		budget       = fs.String("budget", "1000000", "total campaign budget in human units")
		mintDecimals = fs.Int("mint-decimals", 9, "mint decimal precision")
		claimantsPer = fs.Int("claimants-per-vault", 20000, "claimants packed per vault")
		treeVersion  = fs.String("tree-version", "v0", "merkle tree construction: v0 or v1")
		cohortCount  = fs.Int("cohorts", 2, "number of fixture cohorts to generate")
		claimants    = fs.Int("claimants", 10, "number of fixture claimants per cohort")
	)
	fs.Parse(args)

	logger := logging.New(logging.DefaultConfig())

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *dsn != "" {
		cfg.CatalogDSN = *dsn
	}

	totalBudget, err := decimal.NewFromString(*budget)
	if err != nil {
		logger.Error("invalid budget", "budget", *budget, "error", err)
		os.Exit(1)
	}

	in := fixtureInput(totalBudget, int32(*mintDecimals), *claimantsPer, compiler.TreeVersion(*treeVersion), *cohortCount, *claimants)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	compiled, err := compiler.New(logger.Logger, compiler.WithWorkerConcurrency(cfg.WorkerConcurrency)).Compile(ctx, in)
	if err != nil {
		logger.Error("compilation failed", "error", err)
		os.Exit(1)
	}

	client, err := catalog.NewClient(ctx, cfg.CatalogDSN, catalog.WithLogger(logger.Logger))
	if err != nil {
		logger.Error("failed to open catalog", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	repos := catalog.NewRepositories(client)
	if err := repos.WriteCompiledCampaign(ctx, *compiled); err != nil {
		logger.Error("failed to write catalog", "error", err)
		os.Exit(1)
	}

	logger.Info("campaign compiled",
		"campaign", compiled.Campaign.Address,
		"cohorts", len(compiled.Cohorts),
		"fingerprint", compiled.Campaign.Fingerprint,
	)
}

func runServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	var (
		dsn        = fs.String("catalog-dsn", "", "catalog sqlite DSN (overrides PRISM_CATALOG_DSN)")
		listenAddr = fs.String("listen", "", "HTTP listen address (overrides PRISM_LISTEN_ADDR)")
	)
	fs.Parse(args)

	logger := logging.New(logging.DefaultConfig())

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *dsn != "" {
		cfg.CatalogDSN = *dsn
	}
	if *listenAddr != "" {
		cfg.ListenAddr = *listenAddr
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	client, err := catalog.NewClient(ctx, cfg.CatalogDSN, catalog.WithLogger(logger.Logger))
	if err != nil {
		logger.Error("failed to open catalog", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	repos := catalog.NewRepositories(client)
	handlers := httpapi.New(repos, logger.Logger)

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: handlers.Mux(),
	}

	go func() {
		logger.Info("catalog API listening", "addr", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down catalog API")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

// fixtureInput builds an illustrative, deterministic-shape compiler
// Input. Claimant addresses are random since no real wallet addresses
// are available outside of a CSV/RPC ingestion path (out of scope).
func fixtureInput(totalBudget decimal.Decimal, mintDecimals int32, claimantsPerVault int, treeVersion compiler.TreeVersion, cohortCount, claimantsPerCohort int) compiler.Input {
	var admin, mint [32]byte
	randomBytes(admin[:])
	randomBytes(mint[:])

	in := compiler.Input{
		TotalBudget:       totalBudget,
		MintDecimals:      mintDecimals,
		Mint:              mint,
		Admin:             admin,
		ClaimantsPerVault: claimantsPerVault,
		TreeVersion:       treeVersion,
	}

	sharePerCohort := decimal.NewFromInt(100).Div(decimal.NewFromInt(int64(cohortCount)))
	var allocatedShare decimal.Decimal
	for i := 0; i < cohortCount; i++ {
		name := fmt.Sprintf("cohort-%02d", i)
		share := sharePerCohort
		if i == cohortCount-1 {
			share = decimal.NewFromInt(100).Sub(allocatedShare)
		}
		allocatedShare = allocatedShare.Add(share)
		in.CohortRows = append(in.CohortRows, compiler.CohortShareRow{CohortName: name, SharePercentage: share})

		for j := 0; j < claimantsPerCohort; j++ {
			var claimant [32]byte
			randomBytes(claimant[:])
			in.CampaignRows = append(in.CampaignRows, compiler.ClaimantRow{
				CohortName:   name,
				Claimant:     claimant,
				Entitlements: uint64(1 + j),
			})
		}
	}

	return in
}

func randomBytes(dst []byte) {
	if _, err := rand.Read(dst); err != nil {
		panic(fmt.Sprintf("prismctl: failed to read random bytes: %v", err))
	}
}
