// Package main provides the searchbridge MCP server. It exposes a single
// `search` tool over stdio that drives a headless browser against a search
// engine's web UI, authenticated by a session-token URL.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/searchbridge/pkg/bridge"
	"github.com/entrhq/searchbridge/pkg/config"
	"github.com/entrhq/searchbridge/pkg/logging"
	"github.com/entrhq/searchbridge/pkg/runloop"
)

const version = "0.1.0"

// cliOptions holds the command line configuration
type cliOptions struct {
	ConfigPath  string
	Token       string
	AuthURL     string
	Headed      bool
	SkipInstall bool
	ShowVersion bool
}

func main() {
	opts := parseFlags()

	if opts.ShowVersion {
		fmt.Printf("searchbridge v%s\n", version)
		return
	}

	if err := run(opts); err != nil {
		log.Fatalf("searchbridge: %v", err)
	}
}

// parseFlags parses command line flags and environment variables
func parseFlags() *cliOptions {
	opts := &cliOptions{}

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to config file (default: ~/.searchbridge/config.yaml)")
	flag.StringVar(&opts.Token, "token", "", "Session token (or set SESSION_TOKEN env var)")
	flag.StringVar(&opts.AuthURL, "auth-url", "", "Full authentication URL, overrides token-based construction")
	flag.BoolVar(&opts.Headed, "headed", false, "Run the browser with a visible window (debugging)")
	flag.BoolVar(&opts.SkipInstall, "skip-install", false, "Skip the Playwright browser install check at startup")
	flag.BoolVar(&opts.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "searchbridge - browser-backed web search over MCP\n\n")
		fmt.Fprintf(os.Stderr, "Usage: searchbridge [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  SESSION_TOKEN               Search session token\n")
		fmt.Fprintf(os.Stderr, "  SEARCHBRIDGE_HOST           Search host (default: kagi.com)\n")
		fmt.Fprintf(os.Stderr, "  SEARCHBRIDGE_AUTH_URL       Full authentication URL\n")
		fmt.Fprintf(os.Stderr, "  SEARCHBRIDGE_BLOCKED_DOMAINS  Comma-separated host glob patterns to drop\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  SESSION_TOKEN=... searchbridge\n")
		fmt.Fprintf(os.Stderr, "  searchbridge -auth-url 'https://kagi.com/search?token=...'\n")
	}

	flag.Parse()
	return opts
}

func run(opts *cliOptions) error {
	logger, logErr := logging.NewLogger("main")
	if logErr != nil {
		// The fallback logger is already active; just note it
		logger.Warnf("File logging unavailable: %v", logErr)
	}
	defer logger.Close()

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// CLI flags override config file and environment
	if opts.Token != "" {
		cfg.SessionToken = opts.Token
	}
	if opts.AuthURL != "" {
		cfg.AuthURL = opts.AuthURL
	}
	if opts.Headed {
		cfg.Headless = false
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	if !opts.SkipInstall {
		// Ensure browser binaries exist before the first tool call needs
		// them. Output is discarded: stdout belongs to the MCP transport.
		installOpts := &playwright.RunOptions{
			Verbose: false,
			Stdout:  io.Discard,
			Stderr:  io.Discard,
		}
		if err := playwright.Install(installOpts); err != nil {
			return fmt.Errorf("failed to install playwright browsers: %w", err)
		}
	}

	loop := runloop.New()
	br, err := bridge.New(cfg, loop)
	if err != nil {
		loop.Stop()
		return fmt.Errorf("failed to create bridge: %w", err)
	}

	// Cleanup runs exactly once, on normal exit or termination signal
	defer br.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Infof("Received signal %v, shutting down", sig)
		cancel()
	}()

	logger.Infof("searchbridge v%s starting (run %s)", version, logging.GetRunID())

	if err := br.Serve(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
