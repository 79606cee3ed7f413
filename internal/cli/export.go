package cli

import (
	"fmt"
	"io"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/spf13/cobra"

	"restaurant-ordering/internal/config"
	"restaurant-ordering/internal/events"
	"restaurant-ordering/internal/export"
	bestsellersvc "restaurant-ordering/internal/microservices/bestseller/service"
	salessvc "restaurant-ordering/internal/microservices/sales/service"
	"restaurant-ordering/internal/repository"
)

type exportOptions struct {
	output string
	toS3   bool
}

func newExportCommand(opts *rootOptions) *cobra.Command {
	eo := &exportOptions{}
	cmd := &cobra.Command{
		Use:       "export <sales|bestseller>",
		Short:     "Write a report to a local file or S3",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"sales", "bestseller"},
		RunE: func(cmd *cobra.Command, args []string) error {
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

			factory, err := eo.factory(cmd, cfg.Export)
			if err != nil {
				return err
			}

			var (
				path   string
				render func(io.Writer) error
			)
			switch args[0] {
			case "sales":
				s, err := salessvc.NewSalesService(store.OrderRepo, clock.WallClock).Summary(ctx)
				if err != nil {
					return err
				}
				path = eo.path("sales.json")
				render = func(w io.Writer) error { return export.WriteSalesJSON(w, s) }
			case "bestseller":
				data, err := bestsellersvc.NewBestsellerService(store.Repository, events.Nop{}, clock.WallClock).Get(ctx)
				if err != nil {
					return err
				}
				path = eo.path("bestseller.csv")
				render = func(w io.Writer) error { return export.WriteBestsellerCSV(w, data) }
			}

			if err := export.Write(ctx, factory, path, render); err != nil {
				return err
			}
			dest := path
			if eo.toS3 {
				dest = fmt.Sprintf("s3://%s/%s", cfg.Export.S3Bucket, path)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s report to %s\n", args[0], dest)
			return nil
		},
	}
	cmd.Flags().StringVarP(&eo.output, "output", "o", "", "destination path or object key")
	cmd.Flags().BoolVar(&eo.toS3, "s3", false, "upload to export.s3_bucket instead of writing a local file")
	return cmd
}

func (eo *exportOptions) path(def string) string {
	if eo.output != "" {
		return eo.output
	}
	return def
}

func (eo *exportOptions) factory(cmd *cobra.Command, cfg config.ExportConfig) (export.WriterFactory, error) {
	if !eo.toS3 {
		return export.NewFileWriterFactory("."), nil
	}
	if cfg.S3Bucket == "" {
		return nil, errors.New("export.s3_bucket must be set to use --s3")
	}
	return export.NewS3WriterFactory(cmd.Context(), cfg.S3Region, cfg.S3Bucket)
}
