// Package api exposes the HTTP interface of the recipe service.
package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"foodgram/internal/auth"
	"foodgram/internal/config"
	"foodgram/internal/database"
	"foodgram/internal/ingredient"
	"foodgram/internal/metrics"
	"foodgram/internal/recipe"
	"foodgram/internal/shopping"
	"foodgram/internal/subscription"
	"foodgram/internal/tag"
	"foodgram/internal/user"
)

// Deps are the services the handlers dispatch to.
type Deps struct {
	Config        *config.Config
	DB            *database.DB
	Users         *user.Service
	Tags          *tag.Repository
	Ingredients   *ingredient.Repository
	Recipes       *recipe.Service
	Shopping      *shopping.Service
	Subscriptions *subscription.Service
	Tokens        *auth.TokenManager
	Policy        *auth.Policy
	Metrics       *metrics.Metrics
}

// Handler implements the API endpoints.
type Handler struct {
	Deps
}

// NewRouter builds the full route tree.
func NewRouter(d Deps) http.Handler {
	h := &Handler{Deps: d}
	cfg := d.Config

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(accessLog)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.API.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(d.Metrics.Instrument)

	r.Get("/health", h.Health)
	r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())

	if prefix := strings.TrimSuffix(cfg.Media.URL, "/"); strings.HasPrefix(prefix, "/") && prefix != "" {
		fs := http.StripPrefix(prefix+"/", http.FileServer(filesOnly{fs: http.Dir(cfg.Media.Dir)}))
		r.Method(http.MethodGet, prefix+"/*", fs)
	}

	r.Route("/api", func(r chi.Router) {
		if cfg.API.RateLimitRequests > 0 {
			r.Use(httprate.LimitByIP(cfg.API.RateLimitRequests, cfg.API.RateLimitWindow))
		}
		r.Use(auth.Authenticate(d.Tokens, d.Users))
		r.Use(d.Policy.Middleware)

		r.Post("/auth/token/login/", h.Login)
		r.Post("/auth/token/logout/", h.Logout)

		r.Get("/tags/", h.ListTags)
		r.Get("/tags/{id}/", h.GetTag)
		r.Get("/ingredients/", h.ListIngredients)
		r.Get("/ingredients/{id}/", h.GetIngredient)

		r.Route("/recipes", func(r chi.Router) {
			r.Get("/", h.ListRecipes)
			r.Post("/", h.CreateRecipe)
			r.Get("/download_shopping_cart/", h.DownloadShoppingCart)
			r.Get("/{id}/", h.GetRecipe)
			r.Patch("/{id}/", h.UpdateRecipe)
			r.Delete("/{id}/", h.DeleteRecipe)
			r.Post("/{id}/favorite/", h.markHandler(recipe.Favorite, true))
			r.Delete("/{id}/favorite/", h.markHandler(recipe.Favorite, false))
			r.Post("/{id}/shopping_cart/", h.markHandler(recipe.ShoppingCart, true))
			r.Delete("/{id}/shopping_cart/", h.markHandler(recipe.ShoppingCart, false))
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.ListUsers)
			r.Post("/", h.Register)
			r.Get("/me/", h.Me)
			r.Post("/set_password/", h.SetPassword)
			r.Get("/subscriptions/", h.ListSubscriptions)
			r.Get("/{id}/", h.GetUser)
			r.Post("/{id}/subscribe/", h.Subscribe)
			r.Delete("/{id}/subscribe/", h.Unsubscribe)
		})
	})

	return r
}
