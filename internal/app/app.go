// Package app wires the services together and runs provisioning tasks.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"

	"foodgram/internal/api"
	"foodgram/internal/auth"
	"foodgram/internal/config"
	"foodgram/internal/database"
	"foodgram/internal/ingredient"
	"foodgram/internal/logging"
	"foodgram/internal/metrics"
	"foodgram/internal/recipe"
	"foodgram/internal/shopping"
	"foodgram/internal/storage"
	"foodgram/internal/subscription"
	"foodgram/internal/tag"
	"foodgram/internal/user"
)

// App holds the application's dependencies.
type App struct {
	cfg *config.Config
	db  *database.DB

	images        *storage.ImageStore
	users         *user.Service
	tags          *tag.Repository
	ingredients   *ingredient.Repository
	recipes       *recipe.Service
	shopping      *shopping.Service
	subscriptions *subscription.Service
	tokens        *auth.TokenManager
	policy        *auth.Policy
	metrics       *metrics.Metrics
}

// New opens the database at cfg.Database.Path and builds every service.
func New(cfg *config.Config) (*App, error) {
	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	a, err := NewWithDB(cfg, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return a, nil
}

// NewWithDB builds the services on an already open database.
func NewWithDB(cfg *config.Config, db *database.DB) (*App, error) {
	images, err := storage.NewImageStore(cfg.Media.Dir, cfg.Media.URL)
	if err != nil {
		return nil, err
	}
	policy, err := auth.NewPolicy()
	if err != nil {
		return nil, err
	}

	userRepo := user.NewRepository(db.SQL)
	limits := recipe.Limits{
		MinCookingTime: cfg.Recipes.MinCookingTime,
		MaxCookingTime: cfg.Recipes.MaxCookingTime,
		MinAmount:      cfg.Recipes.MinAmount,
		MaxAmount:      cfg.Recipes.MaxAmount,
	}
	recipes := recipe.NewService(db, userRepo, images, limits)

	return &App{
		cfg:           cfg,
		db:            db,
		images:        images,
		users:         user.NewService(userRepo),
		tags:          tag.NewRepository(db.SQL),
		ingredients:   ingredient.NewRepository(db.SQL),
		recipes:       recipes,
		shopping:      shopping.NewService(shopping.NewRepository(db.SQL), userRepo),
		subscriptions: subscription.NewService(userRepo, recipes),
		tokens:        auth.NewTokenManager(cfg.Auth.SecretKey, cfg.Auth.TokenTTL),
		policy:        policy,
		metrics:       metrics.New(),
	}, nil
}

// Handler returns the HTTP route tree.
func (a *App) Handler() http.Handler {
	return api.NewRouter(api.Deps{
		Config:        a.cfg,
		DB:            a.db,
		Users:         a.users,
		Tags:          a.tags,
		Ingredients:   a.ingredients,
		Recipes:       a.recipes,
		Shopping:      a.shopping,
		Subscriptions: a.subscriptions,
		Tokens:        a.tokens,
		Policy:        a.policy,
		Metrics:       a.metrics,
	})
}

// ImportIngredients loads the ingredient catalog from a JSON seed file.
// Existing entries are skipped.
func (a *App) ImportIngredients(ctx context.Context, path string) (int, error) {
	items, err := ingredient.LoadSeed(path)
	if err != nil {
		return 0, err
	}

	var added int
	err = a.db.InTx(ctx, func(tx *sqlx.Tx) error {
		added, err = a.ingredients.WithTx(tx).Import(ctx, items)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to import ingredients: %w", err)
	}
	logging.Info().Int("added", added).Int("total", len(items)).Str("file", path).Msg("Ingredients imported")
	return added, nil
}

// ImportTags loads tags from a JSON seed file. Existing tags are skipped.
func (a *App) ImportTags(ctx context.Context, path string) (int, error) {
	tags, err := tag.LoadSeed(path)
	if err != nil {
		return 0, err
	}

	var added int
	err = a.db.InTx(ctx, func(tx *sqlx.Tx) error {
		added, err = a.tags.WithTx(tx).Import(ctx, tags)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to import tags: %w", err)
	}
	logging.Info().Int("added", added).Int("total", len(tags)).Str("file", path).Msg("Tags imported")
	return added, nil
}

// Health returns the runtime snapshot served at /health.
func (a *App) Health(ctx context.Context) metrics.SysHealth {
	return metrics.GetSysHealth(a.cfg.Media.Dir, a.db.Ping(ctx))
}

// Close releases the database.
func (a *App) Close() error {
	return a.db.Close()
}
