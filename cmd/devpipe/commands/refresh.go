package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/devpipe/internal/app"
)

func (c *CLI) newRefreshCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Rebuild the build cache if its inputs changed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cachePath, _ := cmd.Flags().GetString("cache")
			force, _ := cmd.Flags().GetBool("force")

			_, err := c.app.Refresh(cmd.Context(), app.RefreshOptions{
				CachePath: cachePath,
				Force:     force,
			})
			return err
		},
	}
	cmd.Flags().String("cache", "", "Build cache or build directory (default: search upwards)")
	cmd.Flags().BoolP("force", "f", false, "Rebuild even if the cache is up to date")
	return cmd
}
