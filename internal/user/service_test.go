package user

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgram/internal/apperr"
	"foodgram/internal/database"
	"foodgram/internal/paging"
)

func newTestService(t *testing.T) (*Service, *Repository) {
	t.Helper()
	db, err := database.NewInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewRepository(db.SQL)
	return NewService(repo), repo
}

func registration(email, username string) RegisterInput {
	return RegisterInput{
		Email:     email,
		Username:  username,
		FirstName: "Ivan",
		LastName:  "Petrov",
		Password:  "secret-pass-1",
	}
}

func fieldsOf(t *testing.T, err error) map[string][]string {
	t.Helper()
	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr), "expected *apperr.Error, got %v", err)
	return appErr.Fields
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)

	t.Run("Success", func(t *testing.T) {
		u, err := svc.Register(ctx, registration("ivan@example.com", "ivan"))
		require.NoError(t, err)
		assert.NotZero(t, u.ID)
		assert.NotEqual(t, "secret-pass-1", u.PasswordHash)

		stored, err := repo.GetByEmail(ctx, "ivan@example.com")
		require.NoError(t, err)
		assert.Equal(t, "ivan", stored.Username)
	})

	t.Run("DuplicateEmailAndUsername", func(t *testing.T) {
		_, err := svc.Register(ctx, registration("ivan@example.com", "ivan"))
		fields := fieldsOf(t, err)
		assert.Contains(t, fields, "email")
		assert.Contains(t, fields, "username")
	})

	t.Run("InvalidPayload", func(t *testing.T) {
		in := registration("not-an-email", "me")
		in.Password = "12345678"
		_, e := svc.Register(ctx, in)
		fields := fieldsOf(t, e)
		assert.Contains(t, fields, "email")
		assert.Contains(t, fields, "username")
		assert.Contains(t, fields, "password")
	})

	t.Run("PasswordOverBcryptLimit", func(t *testing.T) {
		in := registration("long@example.com", "long")
		in.Password = strings.Repeat("p", 100)
		_, e := svc.Register(ctx, in)
		assert.Equal(t, map[string][]string{
			"password": {"Ensure this field has no more than 72 bytes."},
		}, fieldsOf(t, e))
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	_, e := svc.Register(ctx, registration("chef@example.com", "chef"))
	require.NoError(t, e)

	t.Run("Success", func(t *testing.T) {
		u, e := svc.Authenticate(ctx, Credentials{Email: "chef@example.com", Password: "secret-pass-1"})
		require.NoError(t, e)
		assert.Equal(t, "chef", u.Username)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		_, e := svc.Authenticate(ctx, Credentials{Email: "chef@example.com", Password: "nope-nope"})
		assert.Contains(t, fieldsOf(t, e), "non_field_errors")
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		_, e := svc.Authenticate(ctx, Credentials{Email: "ghost@example.com", Password: "secret-pass-1"})
		assert.Contains(t, fieldsOf(t, e), "non_field_errors")
	})
}

func TestSetPassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	u, e := svc.Register(ctx, registration("chef@example.com", "chef"))
	require.NoError(t, e)

	t.Run("WrongCurrent", func(t *testing.T) {
		e := svc.SetPassword(ctx, u.ID, PasswordChange{NewPassword: "brand-new-pass", CurrentPassword: "wrong"})
		assert.Contains(t, fieldsOf(t, e), "current_password")
	})

	t.Run("NewPasswordOverBcryptLimit", func(t *testing.T) {
		e := svc.SetPassword(ctx, u.ID, PasswordChange{NewPassword: strings.Repeat("n", 73), CurrentPassword: "secret-pass-1"})
		assert.Equal(t, map[string][]string{
			"new_password": {"Ensure this field has no more than 72 bytes."},
		}, fieldsOf(t, e))
	})

	t.Run("Success", func(t *testing.T) {
		e := svc.SetPassword(ctx, u.ID, PasswordChange{NewPassword: "brand-new-pass", CurrentPassword: "secret-pass-1"})
		require.NoError(t, e)

		_, e = svc.Authenticate(ctx, Credentials{Email: "chef@example.com", Password: "brand-new-pass"})
		assert.NoError(t, e)
	})
}

func TestProfiles(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)
	reader, e := svc.Register(ctx, registration("reader@example.com", "reader"))
	require.NoError(t, e)
	author, e := svc.Register(ctx, registration("author@example.com", "author"))
	require.NoError(t, e)
	require.NoError(t, repo.Subscribe(ctx, reader.ID, author.ID))

	t.Run("SubscribeConstraints", func(t *testing.T) {
		e := repo.Subscribe(ctx, reader.ID, author.ID)
		require.Error(t, e)
		assert.Equal(t, "You are already subscribed to this author", e.Error())
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(e))

		e = repo.Subscribe(ctx, reader.ID, reader.ID)
		require.Error(t, e)
		assert.Equal(t, "You cannot subscribe to yourself", e.Error())
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(e))
	})

	t.Run("IsSubscribedForViewer", func(t *testing.T) {
		p, e := svc.Profile(ctx, reader.ID, author.ID)
		require.NoError(t, e)
		assert.True(t, p.IsSubscribed)
	})

	t.Run("AnonymousNeverSubscribed", func(t *testing.T) {
		p, e := svc.Profile(ctx, 0, author.ID)
		require.NoError(t, e)
		assert.False(t, p.IsSubscribed)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, e := svc.Profile(ctx, 0, 999)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(e))
	})

	t.Run("List", func(t *testing.T) {
		profiles, total, e := svc.List(ctx, reader.ID, paging.Page{Number: 1, Limit: 1})
		require.NoError(t, e)
		assert.Equal(t, 2, total)
		require.Len(t, profiles, 1)
		assert.Equal(t, reader.ID, profiles[0].ID)
	})

	t.Run("DeleteCascadesSubscriptions", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, author.ID))
		n, e := repo.CountSubscriptions(ctx, reader.ID)
		require.NoError(t, e)
		assert.Equal(t, 0, n)
	})
}
