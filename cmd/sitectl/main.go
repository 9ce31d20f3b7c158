// Command sitectl is the operator tool for the site: it inspects the visitor
// counter, checks the mail relay and simulates visits against a running site.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"hemkey/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "sitectl",
	Short: "Operate the Hemkey site backend",
	Long: `Operator commands for the Hemkey site backend.

Configuration is read from the environment, .env.local and .env, exactly as
the server reads it.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load(".env.local")
		_ = godotenv.Load()
		cfg = config.Load()
	},
}

func init() {
	rootCmd.AddCommand(counterCmd)
	rootCmd.AddCommand(smtpCmd)
	rootCmd.AddCommand(visitCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
