package notificator

import (
	"context"

	"restaurant-ordering/internal/connections/rabbitmq"
	"restaurant-ordering/internal/microservices/notificator/service"
)

// Start declares the topology and blocks consuming notifications.
func Start(ctx context.Context, rmqClient *rabbitmq.Client) error {
	if err := rmqClient.DeclareTopology(); err != nil {
		return err
	}
	return service.New(rmqClient).NotificatorService.Notify(ctx)
}
