package app

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgram/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Server:   config.ServerConfig{Port: "0"},
		Database: config.DatabaseConfig{Path: filepath.Join(dir, "db", "foodgram.db")},
		Media:    config.MediaConfig{Dir: filepath.Join(dir, "media"), URL: "/media/"},
		Auth:     config.AuthConfig{SecretKey: "acceptance", TokenTTL: time.Hour},
		API:      config.APIConfig{PageSize: 6, MaxPageSize: 100, CORSOrigins: []string{"*"}},
		Recipes:  config.RecipeLimits{MinCookingTime: 1, MaxCookingTime: 32000, MinAmount: 1, MaxAmount: 32000},
	}
}

func writeJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestImports(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	a, err := New(cfg)
	require.NoError(t, err)
	defer a.Close()

	dir := t.TempDir()
	ingredients := filepath.Join(dir, "ingredients.json")
	writeJSON(t, ingredients, []map[string]string{
		{"name": "flour", "measurement_unit": "g"},
		{"name": "milk", "measurement_unit": "ml"},
		{"name": "flour", "measurement_unit": "kg"},
	})
	tags := filepath.Join(dir, "tags.json")
	writeJSON(t, tags, []map[string]string{
		{"name": "Breakfast", "color": "#E26C2D", "slug": "breakfast"},
	})

	added, err := a.ImportIngredients(ctx, ingredients)
	require.NoError(t, err)
	assert.Equal(t, 3, added)
	added, err = a.ImportIngredients(ctx, ingredients)
	require.NoError(t, err)
	assert.Equal(t, 0, added, "second import must skip existing rows")

	added, err = a.ImportTags(ctx, tags)
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	writeJSON(t, tags, []map[string]string{{"name": "Bad", "color": "red", "slug": "bad"}})
	_, err = a.ImportTags(ctx, tags)
	assert.Error(t, err)

	_, err = a.ImportIngredients(ctx, filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	assert.Equal(t, "ok", a.Health(ctx).Status)
}

// TestFullWorkflow drives a real HTTP server from registration to the
// shopping list download.
func TestFullWorkflow(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	a, err := New(cfg)
	require.NoError(t, err)
	defer a.Close()

	dir := t.TempDir()
	writeJSON(t, filepath.Join(dir, "i.json"), []map[string]string{{"name": "egg", "measurement_unit": "pcs"}})
	writeJSON(t, filepath.Join(dir, "t.json"), []map[string]string{{"name": "Breakfast", "color": "#E26C2D", "slug": "breakfast"}})
	_, err = a.ImportIngredients(ctx, filepath.Join(dir, "i.json"))
	require.NoError(t, err)
	_, err = a.ImportTags(ctx, filepath.Join(dir, "t.json"))
	require.NoError(t, err)

	srv := httptest.NewServer(a.Handler())
	defer srv.Close()

	call := func(method, path, token string, body any) (int, []byte) {
		t.Helper()
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		req, err := http.NewRequest(method, srv.URL+path, &buf)
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := srv.Client().Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		data, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, data
	}

	status, _ := call(http.MethodPost, "/api/users/", "", map[string]string{
		"email": "cook@example.com", "username": "cook", "first_name": "Sam", "last_name": "Cook", "password": "omelette-42",
	})
	require.Equal(t, http.StatusCreated, status)

	status, body := call(http.MethodPost, "/api/auth/token/login/", "", map[string]string{
		"email": "cook@example.com", "password": "omelette-42",
	})
	require.Equal(t, http.StatusOK, status)
	var tok struct {
		AuthToken string `json:"auth_token"`
	}
	require.NoError(t, json.Unmarshal(body, &tok))

	status, body = call(http.MethodPost, "/api/recipes/", tok.AuthToken, map[string]any{
		"ingredients":  []map[string]int{{"id": 1, "amount": 3}},
		"tags":         []int{1},
		"image":        "data:image/png;base64,iVBORw0KGgo=",
		"name":         "Omelette",
		"text":         "Whisk and fry.",
		"cooking_time": 10,
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	var created struct {
		ID    int64  `json:"id"`
		Image string `json:"image"`
	}
	require.NoError(t, json.Unmarshal(body, &created))

	status, _ = call(http.MethodGet, created.Image, "", nil)
	assert.Equal(t, http.StatusOK, status, "uploaded image is served from the media URL")

	for _, dir := range []string{"/media/", "/media/recipes/", "/media/recipes/images/"} {
		status, body = call(http.MethodGet, dir, "", nil)
		assert.Equal(t, http.StatusNotFound, status, "%s must not list its contents", dir)
		assert.NotContains(t, string(body), ".png")
	}

	status, _ = call(http.MethodPost, "/api/recipes/1/shopping_cart/", tok.AuthToken, nil)
	require.Equal(t, http.StatusCreated, status)

	status, body = call(http.MethodGet, "/api/recipes/download_shopping_cart/", tok.AuthToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Shopping list (Sam Cook)\n\negg - 3 pcs\n", string(body))

	status, body = call(http.MethodGet, "/api/recipes/?tags=breakfast&author=1", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"count":1`)

	status, _ = call(http.MethodGet, "/api/recipes/?is_favorited=maybe", tok.AuthToken, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}
