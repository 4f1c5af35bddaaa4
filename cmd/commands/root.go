package commands

// Root command for Cobra CLI

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "idigbio-live-charts",
	Short: "iDigBio Live Charts - chart generator for recordset statistics",
	Long: `iDigBio Live Charts fetches occurrence-record statistics for one iDigBio
recordset and renders usage and ingestion charts into a version-controlled
output directory.`,
	Version: "1.0.0",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(updateCmd)
}
