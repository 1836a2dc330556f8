package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgram/internal/apperr"
)

type signup struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Username string `json:"username" validate:"required,max=150,username"`
	Password string `json:"password" validate:"required,min=8,maxbytes=72,notnumeric"`
}

type order struct {
	Items []item `json:"items" validate:"required,dive"`
}

type item struct {
	ID     int64 `json:"id" validate:"required"`
	Amount int   `json:"amount" validate:"min=1"`
}

func fields(t *testing.T, err error) map[string][]string {
	t.Helper()
	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr), "expected *apperr.Error, got %T", err)
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
	return appErr.Fields
}

func TestValidateStruct(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		err := ValidateStruct(signup{Email: "cook@example.com", Username: "cook.1", Password: "s3cret-pass"})
		assert.NoError(t, err)
	})

	t.Run("JSONFieldNames", func(t *testing.T) {
		got := fields(t, ValidateStruct(signup{Email: "nope", Username: "me", Password: "12345678"}))
		assert.Equal(t, []string{"Enter a valid email address."}, got["email"])
		assert.Contains(t, got, "username")
		assert.Equal(t, []string{"This password is entirely numeric."}, got["password"])
	})

	t.Run("Required", func(t *testing.T) {
		got := fields(t, ValidateStruct(signup{}))
		assert.Equal(t, []string{"This field is required."}, got["email"])
		assert.Equal(t, []string{"This field is required."}, got["username"])
		assert.Equal(t, []string{"This field is required."}, got["password"])
	})

	t.Run("MaxBytes", func(t *testing.T) {
		// 40 two-byte runes: short in characters, long in bytes.
		got := fields(t, ValidateStruct(signup{Email: "cook@example.com", Username: "cook", Password: strings.Repeat("ж", 40)}))
		assert.Equal(t, []string{"Ensure this field has no more than 72 bytes."}, got["password"])

		err := ValidateStruct(signup{Email: "cook@example.com", Username: "cook", Password: strings.Repeat("a", 72)})
		assert.NoError(t, err)
	})

	t.Run("NestedReportedOnParent", func(t *testing.T) {
		got := fields(t, ValidateStruct(order{Items: []item{{ID: 1, Amount: 0}}}))
		assert.Equal(t, []string{"Ensure this value is greater than or equal to 1."}, got["items"])
	})
}
