package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the path of every known template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, app, closeApp, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp()

			refs, err := app.TemplateSvc.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, ref := range refs {
				fmt.Fprintln(cmd.OutOrStdout(), ref.PathInfo)
			}
			return nil
		},
	}
}
