package recipe

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgram/internal/apperr"
)

func TestParseFilter(t *testing.T) {
	cases := []struct {
		name   string
		query  string
		want   Filter
		fields []string
	}{
		{"Empty", "", Filter{}, nil},
		{"Author", "author=7", Filter{AuthorID: 7}, nil},
		{"AuthorNotNumeric", "author=abc", Filter{}, []string{"author"}},
		{"AuthorZero", "author=0", Filter{}, []string{"author"}},
		{"RepeatedTags", "tags=lunch&tags=dinner&tags=lunch&tags=", Filter{Tags: []string{"lunch", "dinner"}}, nil},
		{"CartTrue", "is_in_shopping_cart=true", Filter{IsInShoppingCart: true}, nil},
		{"CartZero", "is_in_shopping_cart=0", Filter{}, nil},
		{"FavoritedOne", "is_favorited=1&author=2", Filter{AuthorID: 2, IsFavorited: true}, nil},
		{"FavoritedUpperCase", "is_favorited=TRUE", Filter{IsFavorited: true}, nil},
		{"BadFlags", "is_favorited=maybe&is_in_shopping_cart=2", Filter{}, []string{"is_favorited", "is_in_shopping_cart"}},
		{"ErrorsCollected", "author=x&is_favorited=yes", Filter{}, []string{"author", "is_favorited"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := url.ParseQuery(tc.query)
			require.NoError(t, err)

			got, err := ParseFilter(q)
			if tc.fields == nil {
				require.NoError(t, err)
				assert.Equal(t, tc.want, got)
				return
			}

			var appErr *apperr.Error
			require.True(t, errors.As(err, &appErr), "expected *apperr.Error, got %v", err)
			assert.Equal(t, apperr.KindValidation, appErr.Kind)
			assert.Len(t, appErr.Fields, len(tc.fields))
			for _, f := range tc.fields {
				assert.Contains(t, appErr.Fields, f)
			}
			assert.Equal(t, Filter{}, got)
		})
	}
}

func TestFilterWhere(t *testing.T) {
	t.Run("NoConditions", func(t *testing.T) {
		clause, args := Filter{IsFavorited: true}.where(0)
		assert.Empty(t, clause, "mark flags are ignored for anonymous viewers")
		assert.Nil(t, args)
	})

	t.Run("Combined", func(t *testing.T) {
		f := Filter{AuthorID: 3, Tags: []string{"lunch"}, IsInShoppingCart: true}
		clause, args := f.where(9)
		assert.Contains(t, clause, "r.author_id = ?")
		assert.Contains(t, clause, "t.slug IN (?)")
		assert.Contains(t, clause, "shopping_cart")
		assert.NotContains(t, clause, "favorites")
		assert.Equal(t, []any{int64(3), []string{"lunch"}, int64(9)}, args)
	})
}
