package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marcus/resume-pilot/internal/config"
	"github.com/marcus/resume-pilot/internal/llm"
	"github.com/marcus/resume-pilot/internal/pipeline"
	"github.com/marcus/resume-pilot/internal/rendering"
	"github.com/marcus/resume-pilot/internal/session"
)

// Flags shared by every pipeline-touching subcommand.
var (
	globalConfigPath string
	globalOutputDir  string
	globalVerbose    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&globalConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	rootCmd.PersistentFlags().StringVar(&globalOutputDir, "output-dir", "", "Base directory for session directories")
	rootCmd.PersistentFlags().BoolVarP(&globalVerbose, "verbose", "v", false, "Print detailed progress information")
}

// loadCLIConfig resolves the effective configuration: config file if given,
// then flag overrides, then defaults for whatever is still unset.
func loadCLIConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg config.Config
	if globalConfigPath != "" {
		loaded, err := config.LoadConfig(globalConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
		if globalVerbose {
			fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", globalConfigPath)
		}
	}

	if cmd.Flags().Changed("output-dir") {
		cfg.OutputBaseDir = globalOutputDir
	}
	if globalVerbose {
		cfg.Verbose = true
	}

	merged := cfg.MergeWithDefaults(config.Defaults())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// newRunner wires the store, the LLM client, and the PDF engine for the
// effective configuration. The caller must Close the returned client.
func newRunner(ctx context.Context, cfg *config.Config) (*pipeline.Runner, llm.Client, error) {
	client, err := llm.NewClient(ctx, cfg, cfg.APIKey())
	if err != nil {
		return nil, nil, err
	}
	store := session.NewStore(cfg.OutputBaseDir)
	runner := pipeline.NewRunner(cfg, store, client, rendering.NewChromeEngine(), os.Stdout)
	return runner, client, nil
}

// openSessionArg resolves the --session flag against the configured store.
func openSessionArg(cfg *config.Config, id string) (*session.Session, error) {
	store := session.NewStore(cfg.OutputBaseDir)
	return store.Open(id)
}
