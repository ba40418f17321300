package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"handle-analyzer/analysis"
	"handle-analyzer/cmd/internal/logger"
	"handle-analyzer/config"
	"handle-analyzer/conformance"
	"handle-analyzer/grok"
)

var errScenariosFailed = errors.New("conformance scenarios failed")

type options struct {
	run       string
	delay     time.Duration
	configDir string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "conformance",
		Short: "Run the X handle analysis conformance suite against the live provider",
		Long: `Calls the provider with fixed scenarios and checks each returned document for
schema completeness, score bounds, token usage and run-to-run stability.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.run, "run", "", "regular expression selecting scenarios by name")
	cmd.Flags().DurationVar(&opts.delay, "delay", 0, "pause between the two consistency calls (default from config)")
	cmd.Flags().StringVar(&opts.configDir, "config", "", "directory containing config.yaml and .env")
	return cmd
}

func run(ctx context.Context, opts *options) error {
	dir := opts.configDir
	if dir == "" {
		dir = config.GetBasePath()
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.Logging.Level, "handle-analyzer-conformance")

	apiKey := cfg.ProviderAPIKey()
	if apiKey == "" {
		return fmt.Errorf("%s environment variable not set", cfg.Provider.APIKeyEnv)
	}

	var filter *regexp.Regexp
	if opts.run != "" {
		if filter, err = regexp.Compile(opts.run); err != nil {
			return fmt.Errorf("invalid --run pattern: %w", err)
		}
	}
	delay := cfg.Conformance.Delay
	if opts.delay > 0 {
		delay = opts.delay
	}

	settings, err := cfg.AnalysisSettings()
	if err != nil {
		return err
	}
	builder, err := analysis.NewPayloadBuilder(settings)
	if err != nil {
		return err
	}
	client, err := grok.New(grok.Config{
		BaseURL:  cfg.Provider.BaseURL,
		ChatPath: cfg.Provider.ChatPath,
		APIKey:   apiKey,
	}, &http.Client{Timeout: cfg.Provider.Timeout})
	if err != nil {
		return err
	}

	runner := &conformance.Runner{
		Analyzer: conformance.NewProviderAnalyzer(client, builder),
		Delay:    delay,
		Filter:   filter,
		Logger:   logger.Log,
	}
	report := runner.Run(ctx)
	if err := report.Write(os.Stdout); err != nil {
		return err
	}
	if report.Failed() {
		return errScenariosFailed
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errScenariosFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		stop()
		os.Exit(1)
	}
}
