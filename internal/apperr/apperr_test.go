package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"Validation", Invalid("tags", "required"), http.StatusBadRequest},
		{"Rejected", Rejected("duplicate"), http.StatusBadRequest},
		{"NotFound", NotFound("no recipe"), http.StatusNotFound},
		{"MissingAssociation", MissingAssociation("not in cart"), http.StatusNotFound},
		{"Unauthorized", Unauthorized("no token"), http.StatusUnauthorized},
		{"Forbidden", Forbidden("not the author"), http.StatusForbidden},
		{"Wrapped", fmt.Errorf("failed to save: %w", NotFound("gone")), http.StatusNotFound},
		{"Plain", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Status(tc.err))
		})
	}
}

func TestFieldErrors(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		assert.NoError(t, FieldErrors{}.Err())
	})

	t.Run("Collects", func(t *testing.T) {
		fe := FieldErrors{}
		fe.Add("tags", "Select at least one tag.")
		fe.Add("ingredients", "Duplicate ingredient.")
		fe.Add("ingredients", "Amount must be positive.")

		err := fe.Err()
		require.Error(t, err)
		assert.Equal(t, KindValidation, KindOf(err))

		var appErr *Error
		require.True(t, errors.As(err, &appErr))
		assert.Len(t, appErr.Fields["ingredients"], 2)
		assert.Equal(t, "ingredients: Duplicate ingredient.; Amount must be positive., tags: Select at least one tag.", err.Error())
	})
}

func TestBody(t *testing.T) {
	assert.Equal(t, map[string]any{"detail": "Not found."}, NotFound("Not found.").Body())
	assert.Equal(t, map[string]any{"errors": "already"}, Rejected("already").Body())
	assert.Equal(t, map[string]any{"name": []string{"too long"}}, Invalid("name", "too long").Body())
}
