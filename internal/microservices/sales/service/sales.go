package service

import (
	"context"
	"strings"
	"time"

	"github.com/juju/clock"
	"github.com/shopspring/decimal"

	"restaurant-ordering/internal/domain"
	"restaurant-ordering/internal/repository"
)

// Summary aggregates completed orders.
type Summary struct {
	TotalSales        decimal.Decimal `json:"totalSales"`
	TotalOrders       int             `json:"totalOrders"`
	ItemsSold         int             `json:"itemsSold"`
	UniqueCustomers   int             `json:"uniqueCustomers"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
	ByOrderType       map[string]int  `json:"byOrderType"`
	GeneratedAt       time.Time       `json:"generatedAt"`
}

type SalesServiceInterface interface {
	Summary(ctx context.Context) (Summary, error)
}

type SalesService struct {
	orders repository.OrderRepositoryInterface
	clock  clock.Clock
}

func NewSalesService(orders repository.OrderRepositoryInterface, clk clock.Clock) SalesServiceInterface {
	if clk == nil {
		clk = clock.WallClock
	}
	return &SalesService{orders: orders, clock: clk}
}

func (ss *SalesService) Summary(ctx context.Context) (Summary, error) {
	completed, err := ss.orders.CompletedOrders(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(completed, ss.clock.Now().UTC()), nil
}

// Summarize is the pure part of Summary.
func Summarize(orders []domain.Order, now time.Time) Summary {
	s := Summary{
		TotalSales:        decimal.Zero,
		AverageOrderValue: decimal.Zero,
		ByOrderType:       map[string]int{},
		GeneratedAt:       now,
	}
	customers := map[string]struct{}{}
	for _, o := range orders {
		s.TotalOrders++
		s.TotalSales = s.TotalSales.Add(o.Price)
		s.ByOrderType[o.OrderType]++
		for _, it := range o.Items {
			s.ItemsSold += it.Quantity
		}
		if name := strings.ToLower(strings.TrimSpace(o.CustomerName)); name != "" {
			customers[name] = struct{}{}
		}
	}
	s.UniqueCustomers = len(customers)
	if s.TotalOrders > 0 {
		s.AverageOrderValue = s.TotalSales.Div(decimal.NewFromInt(int64(s.TotalOrders))).Round(2)
	}
	return s
}
