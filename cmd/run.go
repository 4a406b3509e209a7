package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/edumind/edumind/internal/app"
	"github.com/edumind/edumind/internal/chat"
	"github.com/edumind/edumind/internal/gateway"
	"github.com/edumind/edumind/internal/llm"
	"github.com/edumind/edumind/internal/profile"
	"github.com/edumind/edumind/internal/store"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	kv, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer kv.Close()

	session := profile.NewSession(kv)
	session.Load()

	provider := buildProvider(ctx, llm.NewLog(kv))

	return app.Run(app.Deps{
		KV:          kv,
		Session:     session,
		Gateway:     gateway.New(provider, gateway.DefaultConfig()),
		ChatManager: chat.NewManager(kv),
	})
}

// buildProvider resolves the LLM provider from EDUMIND_* env vars, then
// the standard API key env vars. With no key set the app still starts;
// AI calls fail with setup guidance instead.
func buildProvider(ctx context.Context, log *llm.Log) llm.Provider {
	cfg := llm.ConfigFromEnv()
	if cfg.Validate() != nil {
		if discovered, ok := llm.DiscoverConfig(); ok {
			cfg = discovered
		}
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "AI features will be unavailable.")
		return llm.NewUnconfiguredProvider()
	}

	provider, err := llm.NewProvider(ctx, cfg, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider failed to initialize:", err)
		fmt.Fprintln(os.Stderr, "AI features will be unavailable.")
		return llm.NewUnconfiguredProvider()
	}
	return provider
}
