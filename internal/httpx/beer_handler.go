package httpx

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mbeecher/beerworks/internal/beers"
	"github.com/mbeecher/beerworks/internal/domain"
)

type BeerHandler struct {
	Svc *beers.Service
}

func (h *BeerHandler) Register(r *chi.Mux) {
	r.Get(BeerPath, h.list)
	r.Post(BeerPath, h.create)
	r.Get(BeerPath+"/{beerId}", h.get)
	r.Put(BeerPath+"/{beerId}", h.update)
	r.Patch(BeerPath+"/{beerId}", h.patch)
	r.Delete(BeerPath+"/{beerId}", h.delete)
}

func (h *BeerHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	showInventory := true
	if v := q.Get("showInventory"); v != "" {
		showInventory, _ = strconv.ParseBool(v)
	}
	page, err := h.Svc.List(r.Context(), beers.ListParams{
		Name:          q.Get("beerName"),
		Style:         domain.ParseStyle(q.Get("beerStyle")),
		ShowInventory: showInventory,
		PageNumber:    atoi(q.Get("pageNumber")),
		PageSize:      atoi(q.Get("pageSize")),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *BeerHandler) get(w http.ResponseWriter, r *http.Request) {
	b, err := h.Svc.GetByID(r.Context(), chi.URLParam(r, "beerId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *BeerHandler) create(w http.ResponseWriter, r *http.Request) {
	var b domain.Beer
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	saved, err := h.Svc.Create(r.Context(), b, principal(r))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Location", BeerPath+"/"+saved.ID)
	writeJSON(w, http.StatusCreated, saved)
}

func (h *BeerHandler) update(w http.ResponseWriter, r *http.Request) {
	var b domain.Beer
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	saved, err := h.Svc.Update(r.Context(), chi.URLParam(r, "beerId"), b, principal(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *BeerHandler) patch(w http.ResponseWriter, r *http.Request) {
	var p beers.Patch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	saved, err := h.Svc.PatchByID(r.Context(), chi.URLParam(r, "beerId"), p, principal(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *BeerHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.DeleteByID(r.Context(), chi.URLParam(r, "beerId"), principal(r)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
