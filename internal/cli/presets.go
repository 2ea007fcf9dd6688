package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/teslashibe/go-palimpsest/internal/config"
)

var presetsCmd = &cobra.Command{
	Use:   "presets [name]",
	Short: "List presets, or print one as YAML",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPresets,
}

func runPresets(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		for _, name := range config.PresetNames() {
			fmt.Fprintf(out, "%-8s %s\n", name, config.PresetDescription(name))
		}
		return nil
	}

	cfg, err := config.GetPreset(args[0])
	if err != nil {
		return err
	}
	data, err := cfg.Marshal()
	if err != nil {
		return fmt.Errorf("marshal preset: %w", err)
	}
	_, err = out.Write(data)
	return err
}
