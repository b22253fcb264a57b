package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/foodshare/backend/internal/api"
	"github.com/foodshare/backend/internal/server"
	"github.com/foodshare/backend/internal/service"
	"github.com/foodshare/backend/internal/testutil"
)

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewTestDB(t)

	authService := service.NewAuthService(db, "test-secret")
	recipeService := service.NewRecipeService(db, nil)
	membershipService := service.NewMembershipService(db)
	shoppingService := service.NewShoppingListService(db, service.NewPDFRenderer())
	followService := service.NewFollowService(db)

	router := server.NewRouter(zerolog.Nop(), server.Handlers{
		Auth:    api.NewAuthHandler(authService),
		Recipes: api.NewRecipeHandler(recipeService, membershipService, shoppingService, followService, authService, nil),
		Catalog: api.NewCatalogHandler(db),
		Users:   api.NewUserHandler(followService, authService),
	})

	return &testEnv{db: db, router: router}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var payload *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		payload = bytes.NewBuffer(raw)
	} else {
		payload = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, payload)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// register creates an account through the API and returns its token.
func (e *testEnv) register(t *testing.T, username string) string {
	t.Helper()

	w := e.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":      fmt.Sprintf("%s@example.com", username),
		"username":   username,
		"first_name": "Test",
		"last_name":  "User",
		"password":   "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}
