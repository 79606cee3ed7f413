package menu

import (
	"github.com/go-chi/chi/v5"

	"restaurant-ordering/internal/microservices/menu/handlers"
	"restaurant-ordering/internal/microservices/menu/service"
	"restaurant-ordering/internal/repository"
)

func New(repo *repository.Repository, policy service.DeletePolicy, rc service.Recomputer) (*service.Service, *handlers.Handler) {
	svc := service.New(repo, policy, rc)
	return svc, handlers.New(svc)
}

func Routes(r chi.Router, h *handlers.Handler) {
	mh := h.MenuHandler

	r.Get("/api/menu", mh.GetMenu)
	r.Post("/api/menu", mh.ReplaceMenu)
	r.Post("/api/menu/update", mh.UpdateMenu)

	r.Post("/api/menu/items", mh.AddItem)
	r.Put("/api/menu/items/reorder", mh.ReorderItems)
	r.Put("/api/menu/items/{id}", mh.UpdateItem)
	r.Delete("/api/menu/items/{id}", mh.DeleteItem)

	r.Post("/api/menu/categories", mh.AddCategory)
	r.Put("/api/menu/categories/reorder", mh.ReorderCategories)
	r.Put("/api/menu/categories/{id}", mh.UpdateCategory)
	r.Delete("/api/menu/categories/{id}", mh.DeleteCategory)
}
