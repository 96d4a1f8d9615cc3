package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	// Version information, overridden at build time
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	stateFile  string
	cursorFile string
	healthAddr string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "igrelay",
	Short: "Relay new Instagram Business posts to Telegram chats",
	Long: `igrelay polls a set of Instagram Business accounts through the Meta
Graph API and forwards each new post (photo, video, or album) to a
configured Telegram chat, delivering every post at most once.

Progress is tracked per account in a JSON state file, so restarts
resume from the last delivered post instead of re-sending history.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is .igrelay.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&stateFile, "state-file", "", "path to the state file")
	rootCmd.PersistentFlags().StringVar(&cursorFile, "cursor-file", "", "path to the cursor file")
	rootCmd.PersistentFlags().StringVar(&healthAddr, "health-addr", "", "listen address for the liveness endpoint")

	rootCmd.SetVersionTemplate(`igrelay {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// flagOverrides collects the persistent flags that were actually set
func flagOverrides() map[string]interface{} {
	flags := make(map[string]interface{})
	if stateFile != "" {
		flags["state-file"] = stateFile
	}
	if cursorFile != "" {
		flags["cursor-file"] = cursorFile
	}
	if healthAddr != "" {
		flags["health-addr"] = healthAddr
	}
	if logLevel != "" {
		flags["log-level"] = logLevel
	}
	return flags
}
