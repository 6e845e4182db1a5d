package cli

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// anonymous marks commands that do not need a client id
const anonymous = "anonymous"

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "chirpy",
		Short: "CLI tool for the Chirpy Games API",
		Long: `chirpy is a CLI tool for playing Chirpy Games: Fall of the Firewall
through the game server's JSON API.

A client id is requested from the server on first use and cached, so the
session carries over between invocations.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			stdout = cmd.OutOrStdout()

			// Load client id from file if not provided via flag/env
			if err := cfg.LoadClientID(); err != nil {
				return err
			}

			// Create HTTP client
			client = NewClient(cfg.ServerURL, cfg.ClientID)

			if cfg.ClientID == "" && cmd.Annotations[anonymous] == "" {
				return issueClientID()
			}
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: CHIRPY_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.ClientID, "client-id", cfg.ClientID, "Client id (env: CHIRPY_CLIENT_ID)")
	rootCmd.PersistentFlags().StringVar(&cfg.ClientFile, "client-file", cfg.ClientFile, "Client id file path (env: CHIRPY_CLIENT_FILE)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newSessionCmd())
	rootCmd.AddCommand(newLocalCmd())
	rootCmd.AddCommand(newGithubCmd())
	rootCmd.AddCommand(newTestCmd())
	rootCmd.AddCommand(newPasswordCmd())
	rootCmd.AddCommand(newOfflineCmd())
	rootCmd.AddCommand(newPlusCmd())
	rootCmd.AddCommand(newRewardCmd())
	rootCmd.AddCommand(newShopCmd())
	rootCmd.AddCommand(newInventoryCmd())
	rootCmd.AddCommand(newMapCmd())
	rootCmd.AddCommand(newBattleCmd())
	rootCmd.AddCommand(newFriendsCmd())
	rootCmd.AddCommand(newSaveCmd())
	rootCmd.AddCommand(newDownloadCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// issueClientID asks the server for a client id and caches it
func issueClientID() error {
	var result ClientResult
	if err := client.Post("/api/v1/clients", nil, &result); err != nil {
		return fmt.Errorf("failed to obtain client id: %w", err)
	}
	if _, err := uuid.Parse(result.ClientID); err != nil {
		return fmt.Errorf("server issued an invalid client id %q: %w", result.ClientID, err)
	}

	if err := cfg.SaveClientID(result.ClientID); err != nil {
		return fmt.Errorf("failed to save client id: %w", err)
	}
	client.SetClientID(result.ClientID)

	if cfg.Verbose {
		fmt.Fprintf(os.Stderr, "Using new client id %s\n", result.ClientID)
	}
	return nil
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
