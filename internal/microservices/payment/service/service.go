package service

import (
	"restaurant-ordering/internal/config"
)

type Service struct {
	PaymentService PaymentServiceInterface
}

func New(cfg config.PaymentConfig) *Service {
	return &Service{
		PaymentService: NewPaymentService(cfg, nil),
	}
}
