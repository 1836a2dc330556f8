package recipe

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"foodgram/internal/apperr"
	"foodgram/internal/database"
	"foodgram/internal/logging"
	"foodgram/internal/paging"
	"foodgram/internal/tag"
	"foodgram/internal/user"
)

// ImageStore persists uploaded recipe images.
type ImageStore interface {
	// Save decodes a base64 data URI and returns the stored path.
	Save(dataURI string) (string, error)
	Remove(path string) error
	URL(path string) string
}

// Service implements recipe operations.
type Service struct {
	db      *database.DB
	recipes *Repository
	users   *user.Repository
	images  ImageStore
	limits  Limits
}

// NewService creates a new recipe service.
func NewService(db *database.DB, users *user.Repository, images ImageStore, limits Limits) *Service {
	return &Service{
		db:      db,
		recipes: NewRepository(db.SQL),
		users:   users,
		images:  images,
		limits:  limits,
	}
}

// Create publishes a recipe by authorID. The recipe row, its ingredient
// lines and its tags are written in one transaction.
func (s *Service) Create(ctx context.Context, authorID int64, in Input) (*Detail, error) {
	if err := validateInput(in, s.limits, true); err != nil {
		return nil, err
	}
	image, err := s.images.Save(*in.Image)
	if err != nil {
		return nil, err
	}

	rec := &Recipe{
		AuthorID:    authorID,
		Name:        strings.TrimSpace(*in.Name),
		Image:       image,
		Text:        *in.Text,
		CookingTime: *in.CookingTime,
	}
	err = s.db.InTx(ctx, func(tx *sqlx.Tx) error {
		repo := s.recipes.WithTx(tx)
		if err := s.checkReferences(ctx, repo, in); err != nil {
			return err
		}
		if err := repo.Insert(ctx, rec); err != nil {
			return nameConflict(err)
		}
		if err := repo.ReplaceIngredients(ctx, rec.ID, in.Ingredients); err != nil {
			return err
		}
		return repo.ReplaceTags(ctx, rec.ID, in.Tags)
	})
	if err != nil {
		s.removeImage(image)
		return nil, err
	}

	logging.Info().Int64("recipe_id", rec.ID).Int64("author_id", authorID).Msg("Recipe created")
	return s.Get(ctx, authorID, rec.ID)
}

// Update replaces the tags and ingredients of a recipe and any scalar
// fields present in in. Only the author may update.
func (s *Service) Update(ctx context.Context, viewerID, id int64, in Input) (*Detail, error) {
	rec, err := s.recipes.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.AuthorID != viewerID {
		return nil, apperr.Forbidden("You do not have permission to perform this action.")
	}
	if err := validateInput(in, s.limits, false); err != nil {
		return nil, err
	}

	updated := *rec
	if in.Name != nil {
		updated.Name = strings.TrimSpace(*in.Name)
	}
	if in.Text != nil {
		updated.Text = *in.Text
	}
	if in.CookingTime != nil {
		updated.CookingTime = *in.CookingTime
	}
	if in.Image != nil {
		if updated.Image, err = s.images.Save(*in.Image); err != nil {
			return nil, err
		}
	}

	err = s.db.InTx(ctx, func(tx *sqlx.Tx) error {
		repo := s.recipes.WithTx(tx)
		if err := s.checkReferences(ctx, repo, in); err != nil {
			return err
		}
		if err := repo.Update(ctx, &updated); err != nil {
			return nameConflict(err)
		}
		if err := repo.ReplaceIngredients(ctx, id, in.Ingredients); err != nil {
			return err
		}
		return repo.ReplaceTags(ctx, id, in.Tags)
	})
	if err != nil {
		if updated.Image != rec.Image {
			s.removeImage(updated.Image)
		}
		return nil, err
	}
	if updated.Image != rec.Image {
		s.removeImage(rec.Image)
	}
	return s.Get(ctx, viewerID, id)
}

// Delete removes a recipe. Only the author may delete.
func (s *Service) Delete(ctx context.Context, viewerID, id int64) error {
	rec, err := s.recipes.GetRecipe(ctx, id)
	if err != nil {
		return err
	}
	if rec.AuthorID != viewerID {
		return apperr.Forbidden("You do not have permission to perform this action.")
	}
	if err := s.recipes.Delete(ctx, id); err != nil {
		return err
	}
	s.removeImage(rec.Image)
	return nil
}

// Get returns recipe id as seen by viewerID (0 for anonymous).
func (s *Service) Get(ctx context.Context, viewerID, id int64) (*Detail, error) {
	row, err := s.recipes.getForViewer(ctx, viewerID, id)
	if err != nil {
		return nil, err
	}
	details, err := s.compose(ctx, viewerID, []viewerRow{*row})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// List returns one page of recipes matching f, newest first, and the
// total number of matches.
func (s *Service) List(ctx context.Context, viewerID int64, f Filter, p paging.Page) ([]Detail, int, error) {
	total, err := s.recipes.Count(ctx, viewerID, f)
	if err != nil {
		return nil, 0, err
	}
	rows, err := s.recipes.listForViewer(ctx, viewerID, f, p.Limit, p.Offset())
	if err != nil {
		return nil, 0, err
	}
	details, err := s.compose(ctx, viewerID, rows)
	if err != nil {
		return nil, 0, err
	}
	return details, total, nil
}

// AddMark puts recipeID into the viewer's m set and returns its compact
// projection.
func (s *Service) AddMark(ctx context.Context, m Mark, viewerID, recipeID int64) (*Short, error) {
	rec, err := s.recipes.GetRecipe(ctx, recipeID)
	if apperr.KindOf(err) == apperr.KindNotFound {
		return nil, apperr.Rejected("Recipe does not exist")
	}
	if err != nil {
		return nil, err
	}

	exists, err := s.recipes.HasMark(ctx, m, viewerID, recipeID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Rejected(m.duplicate)
	}
	if err := s.recipes.AddMark(ctx, m, viewerID, recipeID); err != nil {
		// A concurrent request won the insert.
		if database.IsUniqueViolation(err) {
			return nil, apperr.Rejected(m.duplicate)
		}
		return nil, err
	}
	return s.short(rec), nil
}

// RemoveMark takes recipeID out of the viewer's m set.
func (s *Service) RemoveMark(ctx context.Context, m Mark, viewerID, recipeID int64) error {
	if _, err := s.recipes.GetRecipe(ctx, recipeID); err != nil {
		return err
	}
	removed, err := s.recipes.RemoveMark(ctx, m, viewerID, recipeID)
	if err != nil {
		return err
	}
	if !removed {
		return apperr.MissingAssociation(m.missing)
	}
	return nil
}

// AuthorRecipes returns the newest recipes of authorID, at most limit of
// them when limit > 0, together with the author's total recipe count.
func (s *Service) AuthorRecipes(ctx context.Context, authorID int64, limit int) ([]Short, int, error) {
	items, err := s.recipes.ShortByAuthor(ctx, authorID, limit)
	if err != nil {
		return nil, 0, err
	}
	for i := range items {
		items[i].Image = s.images.URL(items[i].Image)
	}
	total, err := s.recipes.CountByAuthor(ctx, authorID)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Service) short(rec *Recipe) *Short {
	return &Short{
		ID:          rec.ID,
		Name:        rec.Name,
		Image:       s.images.URL(rec.Image),
		CookingTime: rec.CookingTime,
	}
}

// checkReferences reports tag and ingredient ids missing from the catalog.
func (s *Service) checkReferences(ctx context.Context, repo *Repository, in Input) error {
	fields := apperr.FieldErrors{}

	missingTags, err := repo.MissingTags(ctx, in.Tags)
	if err != nil {
		return err
	}
	for _, id := range missingTags {
		fields.Add("tags", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id))
	}

	ids := make([]int64, len(in.Ingredients))
	for i, item := range in.Ingredients {
		ids[i] = item.ID
	}
	missingIngredients, err := repo.MissingIngredients(ctx, ids)
	if err != nil {
		return err
	}
	for _, id := range missingIngredients {
		fields.Add("ingredients", fmt.Sprintf("Ingredient %d does not exist.", id))
	}
	return fields.Err()
}

func (s *Service) compose(ctx context.Context, viewerID int64, rows []viewerRow) ([]Detail, error) {
	if len(rows) == 0 {
		return []Detail{}, nil
	}
	ids := make([]int64, len(rows))
	authorIDs := make([]int64, 0, len(rows))
	seenAuthor := map[int64]bool{}
	for i, row := range rows {
		ids[i] = row.ID
		if !seenAuthor[row.AuthorID] {
			seenAuthor[row.AuthorID] = true
			authorIDs = append(authorIDs, row.AuthorID)
		}
	}

	tags, err := s.recipes.Tags(ctx, ids)
	if err != nil {
		return nil, err
	}
	ingredients, err := s.recipes.Ingredients(ctx, ids)
	if err != nil {
		return nil, err
	}
	authors, err := s.users.Profiles(ctx, viewerID, authorIDs)
	if err != nil {
		return nil, err
	}

	details := make([]Detail, len(rows))
	for i, row := range rows {
		d := Detail{
			ID:               row.ID,
			Tags:             tags[row.ID],
			Author:           authors[row.AuthorID],
			Ingredients:      ingredients[row.ID],
			IsFavorited:      row.IsFavorited,
			IsInShoppingCart: row.IsInShoppingCart,
			Name:             row.Name,
			Image:            s.images.URL(row.Image),
			Text:             row.Text,
			CookingTime:      row.CookingTime,
		}
		if d.Tags == nil {
			d.Tags = []tag.Tag{}
		}
		if d.Ingredients == nil {
			d.Ingredients = []IngredientAmount{}
		}
		details[i] = d
	}
	return details, nil
}

func (s *Service) removeImage(path string) {
	if err := s.images.Remove(path); err != nil {
		logging.Warn().Err(err).Str("image", path).Msg("Failed to remove recipe image")
	}
}

func nameConflict(err error) error {
	if database.IsUniqueViolation(err) {
		return apperr.Invalid("name", "You already have a recipe with this name.")
	}
	return err
}
