package cli

import (
	"github.com/juju/errors"
	"github.com/spf13/cobra"

	"restaurant-ordering/internal/connections/rabbitmq"
	"restaurant-ordering/internal/microservices/notificator"
)

func newNotifyCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "notify",
		Short: "Log order lifecycle notifications from RabbitMQ",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if !cfg.RabbitMQ.Enabled {
				return errors.New("rabbitmq.enabled is false; nothing to subscribe to")
			}
			client, err := rabbitmq.Dial(cfg.RabbitMQ)
			if err != nil {
				return errors.Annotate(err, "connect rabbitmq")
			}
			defer client.Close()
			if err := client.Ping(); err != nil {
				return err
			}
			return notificator.Start(cmd.Context(), client)
		},
	}
}
