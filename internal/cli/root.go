package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "palimpsest",
	Short: "Affective text overlay for a live camera feed",
	Long: "Palimpsest watches a face, reads its emotion and writes fading fragments of text " +
		"over the video. The longer it watches, the more it speaks and the less it stares.",
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(presetsCmd)
}
