package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/devpipe/internal/app"
	"go.trai.ch/devpipe/internal/core/domain"
)

func (c *CLI) newConfigureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Resolve the project configuration into a build directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			config, _ := cmd.Flags().GetString("config")
			profiles, _ := cmd.Flags().GetString("profile")
			overrides, _ := cmd.Flags().GetStringSlice("override")
			buildDir, _ := cmd.Flags().GetString("build-dir")
			basename, _ := cmd.Flags().GetString("build-dir-basename")

			_, err := c.app.Configure(cmd.Context(), app.ConfigureOptions{
				ConfigPath:       config,
				Profiles:         profiles,
				Overrides:        overrides,
				BuildDir:         buildDir,
				BuildDirBasename: basename,
			})
			return err
		},
	}
	cmd.Flags().StringP("config", "c", domain.ConfigFileName, "Project configuration file")
	cmd.Flags().StringP("profile", "p", "", "Comma-separated profiles to apply")
	cmd.Flags().StringSliceP("override", "o", nil, "Override namespaces to apply, in order")
	cmd.Flags().StringP("build-dir", "b", "", "Build directory (default <basename> or <basename>-<profile>)")
	cmd.Flags().String("build-dir-basename", app.DefaultBuildDirBasename, "Basename of the derived build directory")
	cmd.MarkFlagsMutuallyExclusive("build-dir", "build-dir-basename")
	return cmd
}
