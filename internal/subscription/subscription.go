// Package subscription manages users following recipe authors.
package subscription

import (
	"context"
	"strconv"

	"foodgram/internal/apperr"
	"foodgram/internal/paging"
	"foodgram/internal/recipe"
	"foodgram/internal/user"
)

// Author is a followed user together with a preview of their recipes.
type Author struct {
	user.Profile
	Recipes      []recipe.Short `json:"recipes"`
	RecipesCount int            `json:"recipes_count"`
}

// RecipeSource lists the recipes of an author.
type RecipeSource interface {
	AuthorRecipes(ctx context.Context, authorID int64, limit int) ([]recipe.Short, int, error)
}

// Service handles follow/unfollow and the subscriptions listing.
type Service struct {
	users   *user.Repository
	recipes RecipeSource
}

// NewService creates a new subscription service.
func NewService(users *user.Repository, recipes RecipeSource) *Service {
	return &Service{users: users, recipes: recipes}
}

// Subscribe makes userID follow authorID and returns the author with up
// to recipesLimit recipes (all of them when recipesLimit is 0).
func (s *Service) Subscribe(ctx context.Context, userID, authorID int64, recipesLimit int) (*Author, error) {
	ok, err := s.users.Exists(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound("User not found.")
	}
	if userID == authorID {
		return nil, apperr.Rejected("You cannot subscribe to yourself")
	}

	subscribed, err := s.users.IsSubscribed(ctx, userID, authorID)
	if err != nil {
		return nil, err
	}
	if subscribed {
		return nil, apperr.Rejected("You are already subscribed to this author")
	}
	if err := s.users.Subscribe(ctx, userID, authorID); err != nil {
		return nil, err
	}

	p, err := s.users.Profile(ctx, userID, authorID)
	if err != nil {
		return nil, err
	}
	return s.author(ctx, *p, recipesLimit)
}

// Unsubscribe removes the follow row.
func (s *Service) Unsubscribe(ctx context.Context, userID, authorID int64) error {
	ok, err := s.users.Exists(ctx, authorID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("User not found.")
	}
	removed, err := s.users.Unsubscribe(ctx, userID, authorID)
	if err != nil {
		return err
	}
	if !removed {
		return apperr.MissingAssociation("You are not subscribed to this author")
	}
	return nil
}

// List returns one page of the authors userID follows and their total.
func (s *Service) List(ctx context.Context, userID int64, p paging.Page, recipesLimit int) ([]Author, int, error) {
	total, err := s.users.CountSubscriptions(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	profiles, err := s.users.SubscribedAuthors(ctx, userID, p.Limit, p.Offset())
	if err != nil {
		return nil, 0, err
	}

	authors := make([]Author, 0, len(profiles))
	for _, prof := range profiles {
		a, err := s.author(ctx, prof, recipesLimit)
		if err != nil {
			return nil, 0, err
		}
		authors = append(authors, *a)
	}
	return authors, total, nil
}

func (s *Service) author(ctx context.Context, p user.Profile, recipesLimit int) (*Author, error) {
	recipes, count, err := s.recipes.AuthorRecipes(ctx, p.ID, recipesLimit)
	if err != nil {
		return nil, err
	}
	if recipes == nil {
		recipes = []recipe.Short{}
	}
	return &Author{Profile: p, Recipes: recipes, RecipesCount: count}, nil
}

// ParseRecipesLimit reads the recipes_limit query parameter. An empty
// value means no limit.
func ParseRecipesLimit(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, apperr.Invalid("recipes_limit", "A positive integer is required.")
	}
	return n, nil
}
