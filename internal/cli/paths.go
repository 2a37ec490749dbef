package cli

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-invoicegen/internal/config"
)

func (a *App) pathsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "List the locations data files are loaded from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			paths, err := config.ResolvePaths(a.lookupEnv)
			if err != nil {
				return err
			}
			locations := append(dataLocations(paths), namedPath{name: "settings", path: paths.SettingsFile()})
			printDataPaths(cmd.OutOrStdout(), "Data files will be loaded from the following locations:", locations)
			return nil
		},
	}
}
