package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"igrelay/pkg/config"
	"igrelay/pkg/logger"
	"igrelay/pkg/state"
)

// accountsCmd represents the accounts command
var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Inspect and toggle monitored accounts",
	Long: `Inspect and toggle the accounts in the state file.

Accounts are added by editing the state file directly; these commands
list them and flip the enabled flag without hand-editing JSON.`,
}

// accountsListCmd represents the accounts list command
var accountsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured accounts",
	Run:   runAccountsList,
}

// accountsEnableCmd represents the accounts enable command
var accountsEnableCmd = &cobra.Command{
	Use:   "enable <account-id>",
	Short: "Enable an account for sync",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setAccountEnabled(args[0], true)
	},
}

// accountsDisableCmd represents the accounts disable command
var accountsDisableCmd = &cobra.Command{
	Use:   "disable <account-id>",
	Short: "Exclude an account from sync",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setAccountEnabled(args[0], false)
	},
}

func init() {
	rootCmd.AddCommand(accountsCmd)
	accountsCmd.AddCommand(accountsListCmd)
	accountsCmd.AddCommand(accountsEnableCmd)
	accountsCmd.AddCommand(accountsDisableCmd)
}

// openStore loads the state store using the normal config resolution
func openStore() *state.Store {
	cfg, err := config.Load(configFile, flagOverrides())
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load configuration:", err)
		os.Exit(1)
	}

	store, err := state.Load(&cfg.State, logger.GetLogger())
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load state:", err)
		os.Exit(1)
	}
	return store
}

func runAccountsList(cmd *cobra.Command, args []string) {
	store := openStore()

	accounts := store.Accounts()
	if len(accounts) == 0 {
		fmt.Println("No accounts configured. Add them to the state file.")
		return
	}

	for _, account := range accounts {
		status := "disabled"
		if account.Enabled {
			status = "enabled"
		}

		fmt.Printf("%s  %s  [%s]\n", account.ID, account.Name, status)
		fmt.Printf("    chat: %s\n", account.ChatID)
		if account.LastProcessedPostID != "" {
			fmt.Printf("    last processed post: %s\n", account.LastProcessedPostID)
		}
		if cursor, ok := store.Cursor(account.ID); ok {
			fmt.Printf("    cursor: %s\n", cursor.Format("2006-01-02 15:04:05 MST"))
		} else {
			fmt.Printf("    cursor: never observed\n")
		}
	}
}

func setAccountEnabled(accountID string, enabled bool) {
	store := openStore()

	if !store.SetEnabled(accountID, enabled) {
		// Distinguish "unknown account" from "already in that state"
		for _, account := range store.Accounts() {
			if account.ID == accountID {
				fmt.Printf("Account %s is already %s\n", accountID, stateWord(enabled))
				return
			}
		}
		fmt.Fprintln(os.Stderr, "account not found:", accountID)
		os.Exit(1)
	}

	if err := store.Save(); err != nil {
		fmt.Fprintln(os.Stderr, "failed to save state:", err)
		os.Exit(1)
	}

	fmt.Printf("Account %s %s\n", accountID, stateWord(enabled))
}

func stateWord(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}
