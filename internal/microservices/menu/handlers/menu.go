package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"restaurant-ordering/internal/common/httpx"
	"restaurant-ordering/internal/domain"
	"restaurant-ordering/internal/microservices/menu/service"
)

type MenuHandler struct {
	service service.MenuServiceInterface
}

func NewMenuHandler(s service.MenuServiceInterface) *MenuHandler {
	return &MenuHandler{service: s}
}

func (mh *MenuHandler) GetMenu(w http.ResponseWriter, r *http.Request) {
	m, err := mh.service.Get(r.Context())
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, m)
}

func (mh *MenuHandler) ReplaceMenu(w http.ResponseWriter, r *http.Request) {
	var req domain.ReplaceMenuRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	m, err := mh.service.Replace(r.Context(), req)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, m)
}

func (mh *MenuHandler) UpdateMenu(w http.ResponseWriter, r *http.Request) {
	var m domain.Menu
	if err := httpx.DecodeJSON(w, r, &m); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if _, err := mh.service.ReplaceAll(r.Context(), m); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, domain.SuccessResponse{Success: true, Message: "Menu updated successfully"})
}

func (mh *MenuHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var in domain.MenuItemInput
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	it, err := mh.service.AddItem(r.Context(), in)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, it)
}

func (mh *MenuHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var p domain.MenuItemPatch
	if err := httpx.DecodeJSON(w, r, &p); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	it, err := mh.service.UpdateItem(r.Context(), chi.URLParam(r, "id"), p)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, it)
}

func (mh *MenuHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := mh.service.DeleteItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, domain.SuccessResponse{Success: true})
}

func (mh *MenuHandler) ReorderItems(w http.ResponseWriter, r *http.Request) {
	var req domain.ReorderItemsRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	m, err := mh.service.ReorderItems(r.Context(), req)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, m)
}

func (mh *MenuHandler) AddCategory(w http.ResponseWriter, r *http.Request) {
	var in domain.CategoryInput
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	c, err := mh.service.AddCategory(r.Context(), in)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, c)
}

// categoryUpdateBody accepts both {category: {name, order}} and a flat
// {name, order}.
type categoryUpdateBody struct {
	Category *domain.CategoryPatch `json:"category"`
	domain.CategoryPatch
}

func (mh *MenuHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var body categoryUpdateBody
	if err := httpx.DecodeJSON(w, r, &body); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	p := body.CategoryPatch
	if body.Category != nil {
		p.Name, p.Order = body.Category.Name, body.Category.Order
	}
	c, err := mh.service.UpdateCategory(r.Context(), chi.URLParam(r, "id"), p)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, c)
}

func (mh *MenuHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := mh.service.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, domain.SuccessResponse{Success: true})
}

func (mh *MenuHandler) ReorderCategories(w http.ResponseWriter, r *http.Request) {
	var req domain.ReorderCategoriesRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	m, err := mh.service.ReorderCategories(r.Context(), req)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, m)
}
