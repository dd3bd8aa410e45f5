// Package cli provides the command-line client for the Luna server.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lunawell/luna/internal/client"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	serverURL string

	// REST client shared by all commands.
	api *client.Client
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "luna",
	Short: "Companion chat client",
	Long: `Luna is a supportive AI companion for sensitive topics.

Chat with the assistant, browse past conversations, and look up curated
support resources served by a running luna-server.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		api = client.New(serverURL)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "server URL (default $LUNA_SERVER_URL or http://localhost:5000)")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(resourcesCmd)
	rootCmd.AddCommand(statsCmd)
}

// exitWithError prints an error message and exits with code 1.
func exitWithError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
