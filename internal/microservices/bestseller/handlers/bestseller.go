package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"restaurant-ordering/internal/common/httpx"
	"restaurant-ordering/internal/domain"
	"restaurant-ordering/internal/microservices/bestseller/service"
)

type BestsellerHandler struct {
	service service.BestsellerServiceInterface
}

func NewBestsellerHandler(s service.BestsellerServiceInterface) *BestsellerHandler {
	return &BestsellerHandler{service: s}
}

func (bh *BestsellerHandler) Get(w http.ResponseWriter, r *http.Request) {
	data, err := bh.service.Get(r.Context())
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, data)
}

func (bh *BestsellerHandler) Save(w http.ResponseWriter, r *http.Request) {
	var data domain.BestsellerData
	if err := httpx.DecodeJSON(w, r, &data); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if err := bh.service.Save(r.Context(), data); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, domain.SuccessResponse{Success: true, Message: "Bestseller data saved successfully"})
}

func (bh *BestsellerHandler) Update(w http.ResponseWriter, r *http.Request) {
	res, err := bh.service.Recompute(r.Context())
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	top := make([]domain.TopItem, 0, len(res.TopItems))
	for _, e := range res.TopItems {
		top = append(top, domain.TopItem{Name: e.Name, Quantity: e.Quantity, Category: e.Category})
	}
	httpx.WriteJSON(w, http.StatusOK, domain.BestsellerUpdateResponse{
		Success:  true,
		Message:  "Bestsellers updated successfully",
		TopItems: top,
	})
}

func (bh *BestsellerHandler) Check(w http.ResponseWriter, r *http.Request) {
	ok, err := bh.service.Check(r.Context(), chi.URLParam(r, "itemId"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"isBestseller": ok})
}
