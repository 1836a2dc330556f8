package api

import (
	"net/http"

	"foodgram/internal/httputil"
	"foodgram/internal/logging"
	"foodgram/internal/paging"
	"foodgram/internal/recipe"
)

func (h *Handler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	p, err := h.page(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	f, err := recipe.ParseFilter(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	items, total, err := h.Recipes.List(r.Context(), viewer(r), f, p)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, paging.NewEnvelope(requestURL(r), p, total, items))
}

func (h *Handler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	d, err := h.Recipes.Get(r.Context(), viewer(r), id)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	var in recipe.Input
	if err := httputil.DecodeJSON(w, r, &in); err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	d, err := h.Recipes.Create(r.Context(), viewer(r), in)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	h.Metrics.RecipesCreated.Inc()
	httputil.WriteJSON(w, http.StatusCreated, d)
}

// UpdateRecipe applies a PATCH. Only the author may change a recipe.
func (h *Handler) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	var in recipe.Input
	if err := httputil.DecodeJSON(w, r, &in); err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	d, err := h.Recipes.Update(r.Context(), viewer(r), id, in)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	if err := h.Recipes.Delete(r.Context(), viewer(r), id); err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	noContent(w)
}

// markHandler serves POST (add) and DELETE (remove) on a favorite or
// shopping cart sub-resource.
func (h *Handler) markHandler(m recipe.Mark, add bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			httputil.WriteError(w, r, err)
			return
		}
		if !add {
			if err := h.Recipes.RemoveMark(r.Context(), m, viewer(r), id); err != nil {
				httputil.WriteError(w, r, err)
				return
			}
			noContent(w)
			return
		}

		short, err := h.Recipes.AddMark(r.Context(), m, viewer(r), id)
		if err != nil {
			httputil.WriteError(w, r, err)
			return
		}
		httputil.WriteJSON(w, http.StatusCreated, short)
	}
}

// DownloadShoppingCart sends the aggregated cart as a text attachment.
func (h *Handler) DownloadShoppingCart(w http.ResponseWriter, r *http.Request) {
	list, err := h.Shopping.Build(r.Context(), viewer(r))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	body := list.Render()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", list.ContentDisposition())
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		logging.Error().Err(err).Msg("Failed to write shopping list")
		return
	}
	h.Metrics.ShoppingListsSaved.Inc()
}
