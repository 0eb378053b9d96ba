// Package main runs a single investigation from the command line and
// prints the result as JSON or a Markdown report.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Ticoworld/veritas/internal/domain"
	"github.com/Ticoworld/veritas/internal/evidence"
	"github.com/Ticoworld/veritas/internal/investigator"
	"github.com/Ticoworld/veritas/internal/judgment"
	"github.com/Ticoworld/veritas/internal/reporting"
	"github.com/Ticoworld/veritas/internal/solana"
	"github.com/Ticoworld/veritas/internal/storage/memory"
)

func main() {
	// Parse flags
	rpcEndpoint := flag.String("rpc-endpoint", os.Getenv("SOLANA_RPC_ENDPOINT"), "Solana RPC HTTP endpoint")
	geminiKey := flag.String("gemini-api-key", os.Getenv("GEMINI_API_KEY"), "Gemini API key")
	geminiModel := flag.String("gemini-model", judgment.DefaultModel, "Gemini model name")
	screenshotKey := flag.String("screenshot-key", os.Getenv("SCREENSHOT_API_KEY"), "Hosted screenshot API access key")
	quick := flag.Bool("quick", false, "Numeric-only quick scan (no AI call)")
	format := flag.String("format", "json", "Output format: json or markdown")
	timeout := flag.Duration("timeout", 60*time.Second, "Overall investigation timeout")
	verbose := flag.Bool("verbose", false, "Verbose phase logging")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: investigate [flags] <mint-address>")
		flag.PrintDefaults()
		os.Exit(1)
	}
	mint := flag.Arg(0)

	// Validate flags
	if *rpcEndpoint == "" {
		fmt.Fprintln(os.Stderr, "Error: --rpc-endpoint is required")
		os.Exit(1)
	}
	if *format != "json" && *format != "markdown" {
		fmt.Fprintf(os.Stderr, "Error: unknown format %q\n", *format)
		os.Exit(1)
	}
	if !*quick && *geminiKey == "" {
		fmt.Fprintln(os.Stderr, "Error: --gemini-api-key is required (use --quick for the numeric-only scan)")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	opts := investigator.Options{
		Ledger:    solana.NewHTTPClient(*rpcEndpoint),
		Market:    evidence.NewMarketClient(evidence.DefaultMarketEndpoint, nil),
		Audit:     evidence.NewAuditClient(evidence.DefaultAuditEndpoint, nil),
		Offenders: memory.NewOffenderStore(),
		Logger:    log.New(os.Stderr, "", log.LstdFlags),
		Verbose:   *verbose,
	}

	if !*quick {
		engine, err := judgment.NewGeminiEngine(ctx, *geminiKey, *geminiModel)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating reasoning engine: %v\n", err)
			os.Exit(1)
		}
		opts.Engine = engine

		providers := []evidence.Capturer{evidence.NewChromeCapturer()}
		if *screenshotKey != "" {
			providers = append([]evidence.Capturer{
				evidence.NewAPICapturer(evidence.DefaultScreenshotEndpoint, *screenshotKey, nil),
			}, providers...)
		}
		opts.Capturer = evidence.NewChainCapturer(providers...)
	}

	inv := investigator.New(opts)

	var (
		result *domain.InvestigationResult
		err    error
	)
	if *quick {
		result, err = inv.QuickScan(ctx, mint)
	} else {
		result, err = inv.Investigate(ctx, mint)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Investigation failed: %v\n", err)
		os.Exit(1)
	}

	// Keep the output readable; the raw screenshot stays out of it.
	if result.Visual != nil {
		visual := *result.Visual
		visual.Image = nil
		result.Visual = &visual
	}

	if *format == "markdown" {
		fmt.Print(reporting.RenderMarkdown(result))
		return
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding result: %v\n", err)
		os.Exit(1)
	}
}
