package cli

import (
	"github.com/spf13/cobra"

	"restaurant-ordering/internal/app"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			return app.Run(cmd.Context(), cfg)
		},
	}
	cmd.Flags().String("addr", "", "listen address (default :3001)")
	cmd.Flags().Bool("watch", false, "recompute bestsellers when completed orders change on disk")
	_ = opts.v.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = opts.v.BindPFlag("bestseller.watch", cmd.Flags().Lookup("watch"))
	return cmd
}
