// Package cmd implements the CLI commands for penpipe using Cobra.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/penpipe/core"
	"github.com/gaurav-prasanna/penpipe/core/pen"
	"github.com/gaurav-prasanna/penpipe/mcpserver"
	"github.com/gaurav-prasanna/penpipe/telemetry"
)

// Exit codes, one per error kind.
const (
	ExitCodeError            = 1
	ExitCodeInvalidReference = 2
	ExitCodeUpstream         = 3
	ExitCodeExtraction       = 4
)

// Global flag variables.
var (
	flagBaseURL   string
	flagOEmbedURL string
	flagUserAgent string
	flagTimeout   time.Duration
	flagLogLevel  string
	flagTrace     bool
)

// Per-run state, set up in PersistentPreRunE.
var (
	logger        *slog.Logger
	traceShutdown func(context.Context) error
)

var rootCmd = &cobra.Command{
	Use:   "penpipe",
	Short: "penpipe: ingest CodePen pens over MCP or from the command line",
	Long: `penpipe retrieves public data about CodePen pens: oEmbed metadata, embed HTML
and the full source scraped from the pen page.

Run "penpipe serve" to expose the get_pen_metadata, get_pen and
get_pen_embed_html tools to an MCP client over stdio, or use the
subcommands directly.

Every flag below can also be set through the environment (PENPIPE_BASE_URL,
PENPIPE_OEMBED_URL, PENPIPE_USER_AGENT, PENPIPE_TIMEOUT, PENPIPE_LOG_LEVEL),
including from a .env file in the working directory.`,
	Version:            mcpserver.Version,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	// A missing .env file is fine.
	_ = godotenv.Load()

	timeout := core.DefaultTimeout
	if v, ok := os.LookupEnv("PENPIPE_TIMEOUT"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			timeout = d
		}
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagBaseURL, "base-url", getEnv("PENPIPE_BASE_URL", core.DefaultBaseURL), "CodePen root URL")
	pf.StringVar(&flagOEmbedURL, "oembed-url", getEnv("PENPIPE_OEMBED_URL", core.DefaultOEmbedURL), "oEmbed endpoint")
	pf.StringVar(&flagUserAgent, "user-agent", getEnv("PENPIPE_USER_AGENT", core.DefaultUserAgent), "User-Agent sent on page fetches")
	pf.DurationVar(&flagTimeout, "timeout", timeout, "Per-request timeout (0 disables it)")
	pf.StringVar(&flagLogLevel, "log-level", getEnv("PENPIPE_LOG_LEVEL", "info"), "Log level: debug, info, warn or error")
	pf.BoolVar(&flagTrace, "trace", false, "Print OpenTelemetry spans to stderr")
}

// Execute runs the root command and exits with a code for the error kind.
// SIGINT and SIGTERM cancel the command's context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, core.ErrInvalidReference):
		return ExitCodeInvalidReference
	case errors.Is(err, core.ErrUpstream):
		return ExitCodeUpstream
	case errors.Is(err, core.ErrExtraction):
		return ExitCodeExtraction
	default:
		return ExitCodeError
	}
}

func setup(cmd *cobra.Command, _ []string) error {
	level, err := telemetry.ParseLevel(flagLogLevel)
	if err != nil {
		return err
	}
	logger = telemetry.NewLogger(level, cmd.ErrOrStderr())

	traceShutdown = nil
	if flagTrace {
		shutdown, err := telemetry.InitTracer(cmd.Context(), mcpserver.Version, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		traceShutdown = shutdown
	}
	return nil
}

func teardown(cmd *cobra.Command, _ []string) error {
	if traceShutdown == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return traceShutdown(ctx)
}

// config builds the core configuration from the global flags.
func config() core.Config {
	return core.Config{
		BaseURL:   flagBaseURL,
		OEmbedURL: flagOEmbedURL,
		UserAgent: flagUserAgent,
		Timeout:   flagTimeout,
	}
}

func newClient() *pen.Client {
	return pen.New(config())
}

func newServer() *mcpserver.Server {
	return mcpserver.New(newClient(), logger)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
