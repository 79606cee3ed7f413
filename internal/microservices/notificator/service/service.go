package service

type Service struct {
	NotificatorService *NotificatorService
}

func New(rmq Consumer) *Service {
	return &Service{NotificatorService: NewNotificatorService(rmq)}
}
