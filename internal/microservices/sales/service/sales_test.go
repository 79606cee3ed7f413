package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"restaurant-ordering/internal/domain"
)

func TestSummarize(t *testing.T) {
	now := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	orders := []domain.Order{
		{CustomerName: "Ana", OrderType: domain.OrderTypeDineIn, Price: decimal.NewFromInt(240), Items: domain.OrderItems{{Name: "Adobo", Quantity: 2}}},
		{CustomerName: "ana ", OrderType: domain.OrderTypePickUp, Price: decimal.NewFromInt(100), Items: domain.OrderItems{{Name: "Coke", Quantity: 1}, {ID: "4", Quantity: 3}}},
		{CustomerName: "Ben", OrderType: domain.OrderTypeDineIn, Price: decimal.NewFromInt(60), Items: domain.OrderItems{{Name: "Lumpia", Quantity: 1}}},
	}

	s := Summarize(orders, now)
	assert.True(t, s.TotalSales.Equal(decimal.NewFromInt(400)))
	assert.Equal(t, 3, s.TotalOrders)
	assert.Equal(t, 7, s.ItemsSold)
	assert.Equal(t, 2, s.UniqueCustomers)
	assert.True(t, s.AverageOrderValue.Equal(decimal.RequireFromString("133.33")), s.AverageOrderValue.String())
	assert.Equal(t, map[string]int{domain.OrderTypeDineIn: 2, domain.OrderTypePickUp: 1}, s.ByOrderType)
	assert.Equal(t, now, s.GeneratedAt)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, time.Time{})
	assert.True(t, s.TotalSales.IsZero())
	assert.True(t, s.AverageOrderValue.IsZero())
	assert.Equal(t, 0, s.UniqueCustomers)
	assert.NotNil(t, s.ByOrderType)
}
