package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newCustomizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customize",
		Short: "Manage template overrides stored in the database",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "put <path> <file>",
		Short: "Override a template, e.g. put /addressbook/templates/default/edit.xet ./edit.xet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := os.ReadFile(filepath.Clean(args[1]))
			if err != nil {
				return err
			}
			_, app, closeApp, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp()

			_, err = app.CustomizationSvc.Save(cmd.Context(), args[0], body)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <path>",
		Short: "Remove an override so the shipped template is served again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, app, closeApp, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp()

			return app.CustomizationSvc.Delete(cmd.Context(), args[0])
		},
	})

	return cmd
}
