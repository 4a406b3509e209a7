package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/edumind/edumind/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete stored data",
	Long:  "Delete the stored user profile and/or module histories. By default nothing is deleted; pick --user, --history, or --all.",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetBool("user")
		history, _ := cmd.Flags().GetBool("history")
		all, _ := cmd.Flags().GetBool("all")
		yes, _ := cmd.Flags().GetBool("yes")

		if all {
			user = true
			history = true
		}
		if !user && !history {
			return fmt.Errorf("nothing selected; use --user, --history, or --all")
		}

		var keys []string
		if user {
			keys = append(keys, store.KeyCurrentUser)
		}
		if history {
			keys = append(keys,
				store.KeyCurrentChat,
				store.KeyChatHistory,
				store.KeyQuizHistory,
				store.KeySummaryHistory,
				store.KeyPlanHistory,
				store.KeyLLMLog,
			)
		}

		if !yes && !confirm(fmt.Sprintf("Delete %d stored record(s)? [y/N] ", len(keys))) {
			fmt.Println("Aborted.")
			return nil
		}

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		kv, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer kv.Close()

		for _, key := range keys {
			if err := kv.Delete(key); err != nil {
				return fmt.Errorf("delete %s: %w", key, err)
			}
		}

		fmt.Println("Done.")
		return nil
	},
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func init() {
	resetCmd.Flags().Bool("user", false, "Delete the stored user profile")
	resetCmd.Flags().Bool("history", false, "Delete chat, quiz, summary, and plan histories")
	resetCmd.Flags().Bool("all", false, "Delete everything")
	resetCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
