package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/edumind/edumind/internal/llm"
	"github.com/edumind/edumind/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect logged LLM requests",
}

// loadRecords opens the store and reads the rolling request log.
func loadRecords(cmd *cobra.Command) ([]llm.CallRecord, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	kv, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer kv.Close()

	return llm.NewLog(kv).Records()
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		records, err := loadRecords(cmd)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No LLM requests logged.")
			return nil
		}

		// Header. The # column is the argument to `llm view`.
		fmt.Printf("%-4s  %-19s  %-14s  %-28s  %-6s  %-6s  %-7s  %s\n",
			"#", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")
		fmt.Println(strings.Repeat("─", 100))

		shown := 0
		for i, rec := range records {
			if purpose != "" && rec.Purpose != purpose {
				continue
			}
			if shown >= limit {
				break
			}
			ok := "✓"
			if !rec.Success {
				ok = "✗"
			}
			model := rec.Model
			if len(model) > 28 {
				model = model[:28]
			}
			fmt.Printf("%-4d  %-19s  %-14s  %-28s  %-6d  %-6d  %-7d  %s\n",
				i+1,
				rec.Timestamp.Local().Format("2006-01-02 15:04:05"),
				rec.Purpose,
				model,
				rec.InputTokens,
				rec.OutputTokens,
				rec.LatencyMs,
				ok,
			)
			shown++
		}
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <n>",
	Short: "View full request/response for a logged LLM request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid number %q: %w", args[0], err)
		}

		records, err := loadRecords(cmd)
		if err != nil {
			return err
		}
		if n < 1 || n > len(records) {
			return fmt.Errorf("request %d not found (%d logged)", n, len(records))
		}
		rec := records[n-1]

		sep := strings.Repeat("─", 60)

		fmt.Printf("Time:      %s\n", rec.Timestamp.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("Model:     %s\n", rec.Model)
		fmt.Printf("Purpose:   %s\n", rec.Purpose)
		fmt.Printf("Tokens:    %d in / %d out\n", rec.InputTokens, rec.OutputTokens)
		fmt.Printf("Latency:   %dms\n", rec.LatencyMs)
		fmt.Printf("Success:   %v\n", rec.Success)
		if rec.ErrorMessage != "" {
			fmt.Printf("Error:     %s\n", rec.ErrorMessage)
		}

		fmt.Println()
		fmt.Println(sep)
		fmt.Println("REQUEST")
		fmt.Println(sep)
		if rec.RequestBody != "" {
			fmt.Println(rec.RequestBody)
		} else {
			fmt.Println("(not captured)")
		}

		fmt.Println(sep)
		fmt.Println("RESPONSE")
		fmt.Println(sep)
		if rec.ResponseBody != "" {
			fmt.Println(rec.ResponseBody)
		} else {
			fmt.Println("(not captured)")
		}

		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated LLM token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := loadRecords(cmd)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No LLM usage recorded yet.")
			return nil
		}

		type usage struct {
			calls     int
			inTokens  int
			outTokens int
			latencyMs int64
		}

		byPurpose := map[string]*usage{}
		byModel := map[string]*usage{}
		add := func(m map[string]*usage, key string, rec llm.CallRecord) {
			u := m[key]
			if u == nil {
				u = &usage{}
				m[key] = u
			}
			u.calls++
			u.inTokens += rec.InputTokens
			u.outTokens += rec.OutputTokens
			u.latencyMs += rec.LatencyMs
		}
		for _, rec := range records {
			add(byPurpose, rec.Purpose, rec)
			add(byModel, rec.Model, rec)
		}

		// Usage by purpose.
		fmt.Println("Usage by Purpose")
		fmt.Println(strings.Repeat("─", 72))
		fmt.Printf("%-16s  %6s  %10s  %10s  %10s  %8s\n",
			"Purpose", "Calls", "Input", "Output", "Total", "Avg Ms")
		fmt.Println(strings.Repeat("─", 72))

		var totalCalls, totalIn, totalOut int
		for _, purpose := range sortedKeys(byPurpose) {
			u := byPurpose[purpose]
			fmt.Printf("%-16s  %6d  %10d  %10d  %10d  %8d\n",
				purpose, u.calls, u.inTokens, u.outTokens,
				u.inTokens+u.outTokens, u.latencyMs/int64(u.calls))
			totalCalls += u.calls
			totalIn += u.inTokens
			totalOut += u.outTokens
		}

		fmt.Println(strings.Repeat("─", 72))
		fmt.Printf("%-16s  %6d  %10d  %10d  %10d\n",
			"TOTAL", totalCalls, totalIn, totalOut, totalIn+totalOut)

		// Cost by model.
		fmt.Println()
		fmt.Println("Estimated Cost (USD)")
		fmt.Println(strings.Repeat("─", 72))
		fmt.Printf("%-32s  %6s  %10s  %10s  %10s\n",
			"Model", "Calls", "Input", "Output", "Cost")
		fmt.Println(strings.Repeat("─", 72))

		var totalCost float64
		var unknownModels []string
		for _, model := range sortedKeys(byModel) {
			u := byModel[model]
			cost := llm.LookupCost(model)
			if cost == nil {
				unknownModels = append(unknownModels, model)
				fmt.Printf("%-32s  %6d  %10d  %10d  %10s\n",
					truncate(model, 32), u.calls, u.inTokens, u.outTokens, "?")
				continue
			}
			c := cost.Cost(u.inTokens, u.outTokens)
			totalCost += c
			fmt.Printf("%-32s  %6d  %10d  %10d  %9s\n",
				truncate(model, 32), u.calls, u.inTokens, u.outTokens, formatCost(c))
		}

		fmt.Println(strings.Repeat("─", 72))
		label := "TOTAL"
		if len(unknownModels) > 0 {
			label = "TOTAL (partial)"
		}
		fmt.Printf("%-32s  %6s  %10s  %10s  %9s\n",
			label, "", "", "", formatCost(totalCost))

		if len(unknownModels) > 0 {
			fmt.Printf("\nPricing unavailable for: %s\n", strings.Join(unknownModels, ", "))
		}

		return nil
	},
}

var llmConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved LLM provider configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := llm.ConfigFromEnv()
		if cfg.Validate() != nil {
			if discovered, ok := llm.DiscoverConfig(); ok {
				cfg = discovered
			}
		}

		fmt.Printf("Provider:   %s\n", cfg.Provider)
		switch cfg.Provider {
		case "anthropic":
			fmt.Printf("Model:      %s\n", cfg.Anthropic.Model)
			fmt.Printf("API key:    %s\n", maskKey(cfg.Anthropic.APIKey))
		case "openai":
			fmt.Printf("Model:      %s\n", cfg.OpenAI.Model)
			fmt.Printf("API key:    %s\n", maskKey(cfg.OpenAI.APIKey))
			if cfg.OpenAI.BaseURL != "" {
				fmt.Printf("Base URL:   %s\n", cfg.OpenAI.BaseURL)
			}
		case "gemini":
			fmt.Printf("Model:      %s\n", cfg.Gemini.Model)
			fmt.Printf("API key:    %s\n", maskKey(cfg.Gemini.APIKey))
		case "openrouter":
			fmt.Printf("Model:      %s\n", cfg.OpenRouter.Model)
			fmt.Printf("API key:    %s\n", maskKey(cfg.OpenRouter.APIKey))
		}
		fmt.Printf("Timeout:    %s\n", cfg.Timeout)
		fmt.Printf("Retries:    %d\n", cfg.Retry.MaxAttempts)

		if err := cfg.Validate(); err != nil {
			fmt.Printf("\nStatus:     not usable — %v\n", err)
		} else {
			fmt.Println("\nStatus:     ready")
		}
		return nil
	},
}

var llmProbeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Send a one-shot test request to the configured provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := llm.ConfigFromEnv()
		if cfg.Validate() != nil {
			if discovered, ok := llm.DiscoverConfig(); ok {
				cfg = discovered
			}
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		kv, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer kv.Close()

		ctx := llm.WithPurpose(cmd.Context(), "probe")
		provider, err := llm.NewProvider(ctx, cfg, llm.NewLog(kv))
		if err != nil {
			return fmt.Errorf("initialize provider: %w", err)
		}

		fmt.Printf("Probing %s (%s)...\n", cfg.Provider, provider.ModelID())
		resp, err := provider.Generate(ctx, llm.Request{
			Messages: []llm.Message{
				{Role: llm.RoleUser, Content: "Reply with the single word: OK"},
			},
			MaxTokens: 16,
		})
		if err != nil {
			return fmt.Errorf("probe failed: %w", err)
		}

		fmt.Printf("Response:  %s\n", strings.TrimSpace(string(resp.Content)))
		fmt.Printf("Tokens:    %d in / %d out\n", resp.Usage.InputTokens, resp.Usage.OutputTokens)
		return nil
	},
}

// maskKey hides all but the last 4 characters of an API key.
func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. quiz-gen, doubt-solving)")

	llmCmd.AddCommand(llmConfigCmd)
	llmCmd.AddCommand(llmProbeCmd)
	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
