package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"igrelay/pkg/auth"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the Telegram bot token",
	Long: `Manage the stored Telegram bot token.

The token is stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables (IGRELAY_BOT_TOKEN, TELEGRAM_BOT_TOKEN)

Never share your token or config files!`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store the bot token securely",
	Long: `Store the Telegram bot token in the system keychain or an encrypted
file. You will be prompted for the token; obtain one from @BotFather.`,
	Example: `  igrelay auth login`,
	Run:     runLogin,
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored bot token",
	Run:   runLogout,
}

// showCmd represents the auth show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored bot token (masked)",
	Run:   runShow,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(showCmd)
}

func runLogin(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize credential manager:", err)
		os.Exit(1)
	}

	fmt.Print("Bot token (input hidden): ")
	token, err := readPassword()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to read token:", err)
		os.Exit(1)
	}

	token = strings.TrimSpace(token)
	if token == "" {
		fmt.Fprintln(os.Stderr, "token is required")
		os.Exit(1)
	}

	cred := &auth.Credential{
		Name:  auth.DefaultCredentialName,
		Token: token,
	}
	if err := manager.Store(cred); err != nil {
		fmt.Fprintln(os.Stderr, "failed to store token:", err)
		os.Exit(1)
	}

	fmt.Println("Token stored:", auth.MaskToken(token))
}

func runLogout(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize credential manager:", err)
		os.Exit(1)
	}

	if err := manager.Delete(auth.DefaultCredentialName); err != nil {
		fmt.Fprintln(os.Stderr, "failed to remove token:", err)
		os.Exit(1)
	}

	fmt.Println("Token removed")
}

func runShow(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize credential manager:", err)
		os.Exit(1)
	}

	cred, err := manager.Retrieve(auth.DefaultCredentialName)
	if err != nil {
		fmt.Fprintln(os.Stderr, "no stored token: run 'igrelay auth login'")
		os.Exit(1)
	}

	fmt.Println("Token:", auth.MaskToken(cred.Token))
	if !cred.LastModified.IsZero() {
		fmt.Println("Last modified:", cred.LastModified.Format("2006-01-02 15:04:05"))
	}
}

// readPassword reads a line from stdin without echoing when possible
func readPassword() (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		password, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err == nil {
			return string(password), nil
		}
	}

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
