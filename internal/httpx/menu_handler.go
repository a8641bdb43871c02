package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bekzodm/oshxona/internal/menu"
	"github.com/bekzodm/oshxona/internal/orders"
)

type MenuHandler struct {
	Repo *menu.Repo
}

// MenuItem is a product plus how many units can currently be ordered.
type MenuItem struct {
	menu.Product
	Available int `json:"available"`
}

type ingredientReq struct {
	Name          string    `json:"name"`
	StockQuantity float64   `json:"stock_quantity"`
	Unit          menu.Unit `json:"unit"`
}

type linkReq struct {
	QuantityNeeded float64 `json:"quantity_needed"`
}

func (h *MenuHandler) Register(r *chi.Mux, auth *Auth) {
	r.Get("/menu", h.getMenu)

	r.Group(func(r chi.Router) {
		r.Use(auth.Require(orders.RoleAdmin))
		r.Get("/admin/ingredients", h.listIngredients)
		r.Post("/admin/ingredients", h.createIngredient)
		r.Put("/admin/ingredients/{id}", h.updateIngredient)
		r.Delete("/admin/ingredients/{id}", h.deleteIngredient)

		r.Post("/admin/products", h.createProduct)
		r.Put("/admin/products/{id}", h.updateProduct)
		r.Delete("/admin/products/{id}", h.deleteProduct)

		r.Put("/admin/products/{id}/recipe/{ingredientID}", h.upsertLink)
		r.Delete("/admin/products/{id}/recipe/{ingredientID}", h.deleteLink)
	})
}

func (h *MenuHandler) getMenu(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	products, ingredients, links, err := h.Repo.Catalog(ctx)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]MenuItem, 0, len(products))
	for _, p := range products {
		out = append(out, MenuItem{
			Product:   p,
			Available: menu.AvailableUnits(p.ID, products, ingredients, links),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *MenuHandler) listIngredients(w http.ResponseWriter, r *http.Request) {
	ings, err := h.Repo.ListIngredients(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ings)
}

func (h *MenuHandler) createIngredient(w http.ResponseWriter, r *http.Request) {
	var req ingredientReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errBody("invalid json"))
		return
	}
	ing, err := h.Repo.CreateIngredient(r.Context(), req.Name, req.StockQuantity, req.Unit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ing)
}

func (h *MenuHandler) updateIngredient(w http.ResponseWriter, r *http.Request) {
	var req ingredientReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errBody("invalid json"))
		return
	}
	if err := h.Repo.UpdateIngredient(r.Context(), chi.URLParam(r, "id"), req.Name, req.StockQuantity, req.Unit); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MenuHandler) deleteIngredient(w http.ResponseWriter, r *http.Request) {
	if err := h.Repo.DeleteIngredient(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MenuHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var p menu.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, errBody("invalid json"))
		return
	}
	created, err := h.Repo.CreateProduct(r.Context(), p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *MenuHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var p menu.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, errBody("invalid json"))
		return
	}
	p.ID = chi.URLParam(r, "id")
	if err := h.Repo.UpdateProduct(r.Context(), p); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MenuHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.Repo.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MenuHandler) upsertLink(w http.ResponseWriter, r *http.Request) {
	var req linkReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errBody("invalid json"))
		return
	}
	link := menu.RecipeLink{
		ProductID:      chi.URLParam(r, "id"),
		IngredientID:   chi.URLParam(r, "ingredientID"),
		QuantityNeeded: req.QuantityNeeded,
	}
	if err := h.Repo.UpsertLink(r.Context(), link); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MenuHandler) deleteLink(w http.ResponseWriter, r *http.Request) {
	if err := h.Repo.DeleteLink(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "ingredientID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
