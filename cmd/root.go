package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	BuildTime = ""
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "washreport",
	Short: "Car wash incident report form",
	Long: `washreport serves the incident report wizard used by store staff
and files each confirmed report as a Trello card.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd, previewCmd, versionCmd)
}

// GetRootCmd returns the root command (for tests)
func GetRootCmd() *cobra.Command {
	return rootCmd
}
