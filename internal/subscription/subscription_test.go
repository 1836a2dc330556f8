package subscription

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgram/internal/apperr"
	"foodgram/internal/database"
	"foodgram/internal/paging"
	"foodgram/internal/recipe"
	"foodgram/internal/user"
)

type fakeRecipes struct {
	byAuthor map[int64][]recipe.Short
}

func (f *fakeRecipes) AuthorRecipes(_ context.Context, authorID int64, limit int) ([]recipe.Short, int, error) {
	all := f.byAuthor[authorID]
	if limit > 0 && limit < len(all) {
		return all[:limit], len(all), nil
	}
	return all, len(all), nil
}

func setup(t *testing.T) (*Service, []int64) {
	t.Helper()
	ctx := context.Background()
	db, err := database.NewInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	users := user.NewRepository(db.SQL)
	var ids []int64
	for _, name := range []string{"reader", "chef", "baker"} {
		u := &user.User{Email: name + "@example.com", Username: name, FirstName: name, LastName: "X", PasswordHash: "x"}
		require.NoError(t, users.Create(ctx, u))
		ids = append(ids, u.ID)
	}

	recipes := &fakeRecipes{byAuthor: map[int64][]recipe.Short{
		ids[1]: {
			{ID: 3, Name: "Soup", Image: "/media/3.png", CookingTime: 30},
			{ID: 2, Name: "Stew", Image: "/media/2.png", CookingTime: 90},
			{ID: 1, Name: "Salad", Image: "/media/1.png", CookingTime: 5},
		},
	}}
	return NewService(users, recipes), ids
}

func TestService_Subscribe(t *testing.T) {
	ctx := context.Background()
	svc, ids := setup(t)
	reader, chef := ids[0], ids[1]

	t.Run("Success", func(t *testing.T) {
		a, err := svc.Subscribe(ctx, reader, chef, 2)
		require.NoError(t, err)
		assert.Equal(t, chef, a.ID)
		assert.True(t, a.IsSubscribed)
		assert.Len(t, a.Recipes, 2)
		assert.Equal(t, 3, a.RecipesCount)
	})

	t.Run("Duplicate", func(t *testing.T) {
		_, err := svc.Subscribe(ctx, reader, chef, 0)
		require.Error(t, err)
		assert.Equal(t, map[string]any{"errors": "You are already subscribed to this author"}, err.(*apperr.Error).Body())
	})

	t.Run("Self", func(t *testing.T) {
		_, err := svc.Subscribe(ctx, reader, reader, 0)
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("UnknownAuthor", func(t *testing.T) {
		_, err := svc.Subscribe(ctx, reader, 999, 0)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})
}

func TestService_ListAndUnsubscribe(t *testing.T) {
	ctx := context.Background()
	svc, ids := setup(t)
	reader, chef, baker := ids[0], ids[1], ids[2]

	_, err := svc.Subscribe(ctx, reader, chef, 0)
	require.NoError(t, err)
	_, err = svc.Subscribe(ctx, reader, baker, 0)
	require.NoError(t, err)

	authors, total, err := svc.List(ctx, reader, paging.Page{Number: 1, Limit: 1}, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, authors, 1)
	assert.Equal(t, chef, authors[0].ID)
	assert.Len(t, authors[0].Recipes, 1)

	authors, _, err = svc.List(ctx, reader, paging.Page{Number: 2, Limit: 1}, 0)
	require.NoError(t, err)
	require.Len(t, authors, 1)
	assert.Equal(t, baker, authors[0].ID)
	assert.NotNil(t, authors[0].Recipes)
	assert.Empty(t, authors[0].Recipes)

	require.NoError(t, svc.Unsubscribe(ctx, reader, chef))
	err = svc.Unsubscribe(ctx, reader, chef)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, map[string]any{"errors": "You are not subscribed to this author"}, err.(*apperr.Error).Body())
}

func TestParseRecipesLimit(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{"3", 3, false},
		{"0", 0, true},
		{"-1", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseRecipesLimit(tt.raw)
			if tt.wantErr {
				assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
