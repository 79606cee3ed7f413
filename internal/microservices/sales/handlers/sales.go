package handlers

import (
	"net/http"

	"restaurant-ordering/internal/common/httpx"
	"restaurant-ordering/internal/microservices/sales/service"
)

type SalesHandler struct {
	service service.SalesServiceInterface
}

func NewSalesHandler(s service.SalesServiceInterface) *SalesHandler {
	return &SalesHandler{service: s}
}

func (sh *SalesHandler) Summary(w http.ResponseWriter, r *http.Request) {
	s, err := sh.service.Summary(r.Context())
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, s)
}
