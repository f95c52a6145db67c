package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/devpipe/internal/app"
)

func (c *CLI) newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [targets...]",
		Short: "Print the resolved configuration of targets",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cachePath, _ := cmd.Flags().GetString("cache")
			format, _ := cmd.Flags().GetString("format")

			return c.app.Show(cmd.Context(), app.ShowOptions{
				CachePath: cachePath,
				Targets:   args,
				Format:    format,
				Out:       cmd.OutOrStdout(),
			})
		},
	}
	cmd.Flags().String("cache", "", "Build cache or build directory (default: search upwards)")
	cmd.Flags().String("format", app.FormatText, "Output format: text or yaml")
	return cmd
}
