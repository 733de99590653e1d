package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mbeecher/beerworks/internal/customers"
	"github.com/mbeecher/beerworks/internal/domain"
)

type CustomerHandler struct {
	Svc *customers.Service
}

func (h *CustomerHandler) Register(r *chi.Mux) {
	r.Get(CustomerPath, h.list)
	r.Post(CustomerPath, h.create)
	r.Get(CustomerPath+"/{customerId}", h.get)
	r.Put(CustomerPath+"/{customerId}", h.update)
	r.Patch(CustomerPath+"/{customerId}", h.patch)
	r.Delete(CustomerPath+"/{customerId}", h.delete)
}

func (h *CustomerHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.Svc.List(r.Context(), atoi(q.Get("pageNumber")), atoi(q.Get("pageSize")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *CustomerHandler) get(w http.ResponseWriter, r *http.Request) {
	c, err := h.Svc.GetByID(r.Context(), chi.URLParam(r, "customerId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CustomerHandler) create(w http.ResponseWriter, r *http.Request) {
	var c domain.Customer
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	saved, err := h.Svc.Create(r.Context(), c)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Location", CustomerPath+"/"+saved.ID)
	writeJSON(w, http.StatusCreated, saved)
}

func (h *CustomerHandler) update(w http.ResponseWriter, r *http.Request) {
	var c domain.Customer
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	saved, err := h.Svc.Update(r.Context(), chi.URLParam(r, "customerId"), c)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *CustomerHandler) patch(w http.ResponseWriter, r *http.Request) {
	var p customers.Patch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	saved, err := h.Svc.PatchByID(r.Context(), chi.URLParam(r, "customerId"), p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *CustomerHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.DeleteByID(r.Context(), chi.URLParam(r, "customerId")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
