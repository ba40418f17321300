//go:build live

package conformance

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"handle-analyzer/analysis"
	"handle-analyzer/config"
	"handle-analyzer/grok"
)

// go test -tags live ./conformance -run 'TestLive/consistency'
func TestMain(m *testing.M) {
	cfg, err := config.Load(config.GetBasePath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.ProviderAPIKey() == "" {
		fmt.Fprintf(os.Stderr, "%s environment variable not set\n", cfg.Provider.APIKeyEnv)
		os.Exit(1)
	}
	os.Exit(m.Run())
}

func TestLive(t *testing.T) {
	cfg, err := config.Load(config.GetBasePath())
	require.NoError(t, err)

	settings, err := cfg.AnalysisSettings()
	require.NoError(t, err)
	builder, err := analysis.NewPayloadBuilder(settings)
	require.NoError(t, err)

	client, err := grok.New(grok.Config{
		BaseURL:  cfg.Provider.BaseURL,
		ChatPath: cfg.Provider.ChatPath,
		APIKey:   cfg.ProviderAPIKey(),
	}, &http.Client{Timeout: cfg.Provider.Timeout})
	require.NoError(t, err)

	analyzer := NewProviderAnalyzer(client, builder)
	for _, sc := range DefaultScenarios() {
		t.Run(sc.Name, func(t *testing.T) {
			r := &Runner{Analyzer: analyzer, Delay: cfg.Conformance.Delay, Scenarios: []Scenario{sc}}

			ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.Provider.Timeout+time.Minute)
			defer cancel()

			report := r.Run(ctx)
			require.Len(t, report.Results, 1)
			res := report.Results[0]
			if res.Err != nil {
				t.Fatalf("%s: %v", sc.Name, res.Err)
			}
			for _, f := range res.Failures {
				t.Error(f)
			}
		})
	}
}
