// Package app wires the services into one HTTP API.
package app

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/juju/clock"

	"restaurant-ordering/internal/common/httpx"
	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/config"
	"restaurant-ordering/internal/connections/rabbitmq"
	"restaurant-ordering/internal/events"
	"restaurant-ordering/internal/microservices/bestseller"
	bestsellersvc "restaurant-ordering/internal/microservices/bestseller/service"
	"restaurant-ordering/internal/microservices/menu"
	menusvc "restaurant-ordering/internal/microservices/menu/service"
	"restaurant-ordering/internal/microservices/order"
	ordersvc "restaurant-ordering/internal/microservices/order/service"
	"restaurant-ordering/internal/microservices/payment"
	"restaurant-ordering/internal/microservices/sales"
	salessvc "restaurant-ordering/internal/microservices/sales/service"
	"restaurant-ordering/internal/repository"
)

type Deps struct {
	Repo           *repository.Repository
	Events         events.Publisher
	Clock          clock.Clock
	Payment        config.PaymentConfig
	CategoryDelete menusvc.DeletePolicy
	CORSOrigins    []string
}

// App holds the wired services and the router serving them.
type App struct {
	Router      http.Handler
	Menu        *menusvc.Service
	Orders      *ordersvc.Service
	Bestsellers *bestsellersvc.Service
	Sales       *salessvc.Service
}

func New(d Deps) *App {
	if d.Events == nil {
		d.Events = events.Nop{}
	}
	if d.Clock == nil {
		d.Clock = clock.WallClock
	}

	bestSvc, bestH := bestseller.New(d.Repo, d.Events, d.Clock)
	menuSvc, menuH := menu.New(d.Repo, d.CategoryDelete, bestSvc.BestsellerService)
	orderSvc, orderH := order.New(d.Repo, bestSvc.BestsellerService, d.Events, d.Clock)
	salesSvc, salesH := sales.New(d.Repo, d.Clock)
	payH := payment.New(d.Payment)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(logger.New("http")))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteProblem(w, http.StatusNotFound, "not_found", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteProblem(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	menu.Routes(r, menuH)
	order.Routes(r, orderH)
	bestseller.Routes(r, bestH)
	payment.Routes(r, payH)
	sales.Routes(r, salesH)

	return &App{Router: r, Menu: menuSvc, Orders: orderSvc, Bestsellers: bestSvc, Sales: salesSvc}
}

// OpenPublisher connects to RabbitMQ when it is enabled. The returned func
// releases the connection.
func OpenPublisher(cfg config.RabbitMQConfig) (events.Publisher, func(), error) {
	if !cfg.Enabled {
		return events.Nop{}, func() {}, nil
	}
	client, err := rabbitmq.Dial(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := client.DeclareTopology(); err != nil {
		client.Close()
		return nil, nil, err
	}
	return events.NewAMQPPublisher(client), client.Close, nil
}

// Run serves the API until ctx is done.
func Run(ctx context.Context, cfg *config.Config) error {
	lg := logger.New("restaurant-api")
	clk := clock.WallClock

	store, err := repository.Open(ctx, cfg.Storage, cfg.Database, clk)
	if err != nil {
		lg.Error("storage_open_failed", err, map[string]any{"backend": cfg.Storage.Backend})
		return err
	}
	defer store.Close()

	pub, closeMQ, err := OpenPublisher(cfg.RabbitMQ)
	if err != nil {
		lg.Error("rabbitmq_connect_failed", err, map[string]any{"host": cfg.RabbitMQ.Host})
		return err
	}
	defer closeMQ()

	a := New(Deps{
		Repo:           store.Repository,
		Events:         pub,
		Clock:          clk,
		Payment:        cfg.Payment,
		CategoryDelete: menusvc.DeletePolicy(cfg.Menu.CategoryDelete),
		CORSOrigins:    cfg.Server.CORSOrigins,
	})

	if cfg.Bestseller.Watch && store.DataDir != "" {
		go func() {
			if err := bestseller.Watch(ctx, store.DataDir, cfg.Bestseller.Debounce, a.Bestsellers, clk); err != nil {
				lg.Error("watcher_stopped", err, nil)
			}
		}()
	}

	lg.Info("service_started", map[string]any{
		"addr":     cfg.Server.Addr,
		"backend":  cfg.Storage.Backend,
		"rabbitmq": cfg.RabbitMQ.Enabled,
		"watch":    cfg.Bestseller.Watch,
	})
	srv := httpx.New(cfg.Server.Addr, a.Router, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)
	if err := srv.Run(ctx); err != nil {
		lg.Error("server_failed", err, nil)
		return err
	}
	lg.Info("service_stopped", nil)
	return nil
}
