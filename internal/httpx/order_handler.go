package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mbeecher/beerworks/internal/domain"
	"github.com/mbeecher/beerworks/internal/orders"
)

type OrderHandler struct {
	Svc *orders.Service
}

func (h *OrderHandler) Register(r *chi.Mux) {
	r.Get(OrderPath, h.list)
	r.Post(OrderPath, h.create)
	r.Get(OrderPath+"/{beerOrderId}", h.get)
	r.Put(OrderPath+"/{beerOrderId}", h.update)
	r.Delete(OrderPath+"/{beerOrderId}", h.delete)
}

func (h *OrderHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.Svc.List(r.Context(), atoi(q.Get("pageNumber")), atoi(q.Get("pageSize")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *OrderHandler) get(w http.ResponseWriter, r *http.Request) {
	o, err := h.Svc.GetByID(r.Context(), chi.URLParam(r, "beerOrderId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrderHandler) create(w http.ResponseWriter, r *http.Request) {
	var req orders.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if err := validateLinesCreate(req); err != nil {
		writeError(w, err)
		return
	}
	saved, err := h.Svc.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Location", OrderPath+"/"+saved.ID)
	writeJSON(w, http.StatusCreated, saved)
}

func (h *OrderHandler) update(w http.ResponseWriter, r *http.Request) {
	var req orders.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if err := validateLinesUpdate(req); err != nil {
		writeError(w, err)
		return
	}
	saved, err := h.Svc.Update(r.Context(), chi.URLParam(r, "beerOrderId"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *OrderHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.DeleteByID(r.Context(), chi.URLParam(r, "beerOrderId")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Shape validation happens here at the boundary; the services assume
// requests that reach them are well-formed and only enforce referential
// and business invariants.
func validateLinesCreate(req orders.CreateRequest) error {
	if req.CustomerID == "" {
		return &domain.ValidationError{Field: "customer_id", Reason: "is required"}
	}
	for _, l := range req.Lines {
		if l.BeerID == "" {
			return &domain.ValidationError{Field: "beer_id", Reason: "is required"}
		}
		if l.OrderQuantity < 1 {
			return &domain.ValidationError{Field: "order_quantity", Reason: "must be at least 1"}
		}
	}
	return nil
}

func validateLinesUpdate(req orders.UpdateRequest) error {
	if req.CustomerID == "" {
		return &domain.ValidationError{Field: "customer_id", Reason: "is required"}
	}
	for _, l := range req.Lines {
		if l.BeerID == "" {
			return &domain.ValidationError{Field: "beer_id", Reason: "is required"}
		}
		if l.OrderQuantity < 1 {
			return &domain.ValidationError{Field: "order_quantity", Reason: "must be at least 1"}
		}
		if l.QuantityAllocated < 0 {
			return &domain.ValidationError{Field: "quantity_allocated", Reason: "must not be negative"}
		}
	}
	return nil
}
