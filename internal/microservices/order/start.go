package order

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/juju/clock"

	"restaurant-ordering/internal/common/httpx"
	"restaurant-ordering/internal/events"
	"restaurant-ordering/internal/microservices/order/handlers"
	"restaurant-ordering/internal/microservices/order/service"
	"restaurant-ordering/internal/repository"
)

func New(repo *repository.Repository, rc service.Recomputer, pub events.Publisher, clk clock.Clock) (*service.Service, *handlers.Handler) {
	svc := service.New(repo, rc, pub, clk)
	return svc, handlers.New(svc)
}

func Routes(r chi.Router, h *handlers.Handler) {
	oh := h.OrderHandler

	r.Post("/api/orders", oh.AddOrder)
	r.Get("/api/orders", oh.ListOrders)
	r.Post("/api/orders/mark-paid", oh.MarkPaid)
	r.Post("/api/orders/mark-unpaid", oh.MarkUnpaid)
	r.Post("/api/orders/complete", oh.Complete)
	r.Delete("/api/orders/cancel", oh.Cancel)
	r.Delete("/api/orders/delete-completed", oh.DeleteCompleted)
	r.Post("/api/orders/delete-completed", oh.DeleteCompleted)
	r.Get("/api/orders/delete-completed", methodNotAllowed)
	r.Get("/api/orders/{id}", oh.GetOrder)
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Allow", "DELETE, POST")
	httpx.WriteProblem(w, http.StatusMethodNotAllowed, "method_not_allowed", "use DELETE or POST to delete a completed order")
}
