package cli

import (
	"fmt"

	"github.com/juju/clock"
	"github.com/spf13/cobra"

	"restaurant-ordering/internal/app"
	"restaurant-ordering/internal/common/logger"
	bestsellersvc "restaurant-ordering/internal/microservices/bestseller/service"
	"restaurant-ordering/internal/repository"
)

func newBestsellerCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bestseller",
		Short: "Bestseller maintenance",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "update",
		Short: "Recompute bestsellers from completed orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			store, err := repository.Open(ctx, cfg.Storage, cfg.Database, clock.WallClock)
			if err != nil {
				return err
			}
			defer store.Close()

			pub, closeMQ, err := app.OpenPublisher(cfg.RabbitMQ)
			if err != nil {
				return err
			}
			defer closeMQ()

			res, err := bestsellersvc.NewBestsellerService(store.Repository, pub, clock.WallClock).Recompute(ctx)
			if err != nil {
				logger.New("bestseller-cli").Error("update_failed", err, nil)
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Processed %d order items\n", res.Processed)
			for i, e := range res.TopItems {
				fmt.Fprintf(out, "%d. %s (%s): %d\n", i+1, e.Name, e.Category, e.Quantity)
			}
			return nil
		},
	})
	return cmd
}
