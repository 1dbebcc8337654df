package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hyunwkim/dailytodo/internal/config"
	"github.com/hyunwkim/dailytodo/internal/services/insight"
)

// NewCheckAICmd creates the check-ai command, which verifies the generation
// API key with a minimal live request.
func NewCheckAICmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "check-ai",
		Short: "Verify the configured generation API key",
		Long:  "Sends a minimal request to the generation provider to confirm the API key works.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if !cfg.AIConfigured() {
				return fmt.Errorf("no generation API key configured (set OPENAI_API_KEY)")
			}

			provider := insight.NewOpenAIProvider(cfg.OpenAIKey, cfg.AIBaseURL, cfg.AIModel, zap.NewNop(), false)

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := provider.Probe(ctx); err != nil {
				return fmt.Errorf("generation API check failed: %w", err)
			}

			fmt.Printf("Generation API key verified (model %s).\n", provider.Model())
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Path to YAML config file (optional)")
	return cmd
}
