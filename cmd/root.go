package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "uploads",
	Short: "Multipart upload API in front of object storage",
	Long: `uploads lets browser clients upload large files straight to S3-compatible
object storage. It opens multipart uploads, presigns part URLs, lists stored
parts, and completes or aborts uploads. File bytes never pass through it.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (default ./config.yaml)")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
