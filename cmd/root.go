package cmd

import "github.com/spf13/cobra"

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "petitionmap",
	Short: "Choropleth hexmap of UK parliament petition signatures",
	Long: `petitionmap joins live UK parliament petition signatures onto a
constituency hex grid, ranks constituencies by signatures per head of
population and renders the result as an interactive map and bar chart.
It can serve the map over HTTP, render SVGs offline, or answer questions
for AI agents via MCP.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".petitionmap.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
