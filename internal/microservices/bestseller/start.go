package bestseller

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/juju/clock"

	"restaurant-ordering/internal/events"
	"restaurant-ordering/internal/microservices/bestseller/handlers"
	"restaurant-ordering/internal/microservices/bestseller/service"
	"restaurant-ordering/internal/repository"
	"restaurant-ordering/internal/repository/jsonfile"
)

func New(repo *repository.Repository, pub events.Publisher, clk clock.Clock) (*service.Service, *handlers.Handler) {
	svc := service.New(repo, pub, clk)
	return svc, handlers.New(svc)
}

func Routes(r chi.Router, h *handlers.Handler) {
	bh := h.BestsellerHandler

	r.Get("/api/bestseller", bh.Get)
	r.Post("/api/bestseller", bh.Save)
	r.Post("/api/bestseller/save", bh.Save)
	r.Post("/api/bestseller/update", bh.Update)
	r.Get("/api/bestseller/check/{itemId}", bh.Check)
}

// Watch recomputes whenever the completed orders file in dataDir changes.
// It blocks until ctx is done.
func Watch(ctx context.Context, dataDir string, debounce time.Duration, svc *service.Service, clk clock.Clock) error {
	return service.NewWatcher(dataDir, jsonfile.CompletedOrdersFile, debounce, svc.BestsellerService, clk).Run(ctx)
}
