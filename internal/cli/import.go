package cli

import (
	"fmt"
	"os"

	"github.com/juju/clock"
	"github.com/spf13/cobra"

	menusvc "restaurant-ordering/internal/microservices/menu/service"
	"restaurant-ordering/internal/repository"
)

func newImportMenuCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import-menu <file.csv>",
		Short: "Replace the menu with the rows of a CSV file",
		Long:  "The CSV needs the columns category, item_name and price; description is optional.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			ctx := cmd.Context()
			store, err := repository.Open(ctx, cfg.Storage, cfg.Database, clock.WallClock)
			if err != nil {
				return err
			}
			defer store.Close()

			svc := menusvc.NewMenuService(store.MenuRepo, menusvc.DeletePolicy(cfg.Menu.CategoryDelete), nil)
			m, err := svc.ImportCSV(ctx, f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d items in %d categories\n", len(m.Items), len(m.Categories))
			return nil
		},
	}
}
