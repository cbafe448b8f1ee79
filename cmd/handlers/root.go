/*
Copyright © 2025 Your Name

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package handlers

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"trendscout/internal/agent"
	"trendscout/internal/config"
	"trendscout/internal/enrich"
	"trendscout/internal/intent"
	"trendscout/internal/llm"
	"trendscout/internal/logger"
	"trendscout/internal/pipeline"
	"trendscout/internal/scoring"
	"trendscout/internal/search"
	"trendscout/internal/store"
)

var cfgFile string

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "trendscout",
		Short: "Trendscout finds and scores trending e-commerce products.",
		Long: `Trendscout is a conversational product research assistant. It searches
product catalogs, enriches candidates with pricing and competition data,
scores them for e-commerce viability, and answers follow-up questions.`,
	}

	// Initialize configuration
	cobra.OnInitialize(initConfig)

	// Add persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.trendscout.yaml)")

	// Add subcommands
	rootCmd.AddCommand(NewChatCmd())
	rootCmd.AddCommand(NewRecommendCmd())
	rootCmd.AddCommand(NewProductCmd())
	rootCmd.AddCommand(NewHistoryCmd())
	rootCmd.AddCommand(NewProductsCmd())
	rootCmd.AddCommand(NewIdeasCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	if cfg.App.Debug {
		logger.SetLevel("debug")
	} else if cfg.App.LogLevel != "" {
		logger.SetLevel(cfg.App.LogLevel)
	}
}

// buildPipeline assembles the recommendation pipeline from the loaded
// configuration. The LLM client is shared with the caller for routing
// and chat replies.
func buildPipeline(llmClient *llm.Client) *pipeline.Pipeline {
	cfg := config.Get()

	return pipeline.New(
		intent.NewExtractor(llmClient),
		search.NewChainFromConfig(cfg),
		enrich.NewEnricher(search.NewMarketDetailFetcher(cfg.Market), cfg.Scoring.WholesaleRatio),
		scoring.NewEngine(cfg.Scoring),
		cfg.Search,
	)
}

// buildAgent assembles the full conversational agent, including the
// persistence layer.
func buildAgent() (*agent.Agent, *store.Store, error) {
	llmClient, err := llm.NewClient(config.GetGeminiModel())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	st, err := store.NewStore(config.GetStore().Directory)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}

	return agent.New(llmClient, buildPipeline(llmClient), st), st, nil
}
