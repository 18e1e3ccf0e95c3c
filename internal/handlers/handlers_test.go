package handlers_test

import (
	. "github.com/claycraft/shop/internal/handlers"

	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/claycraft/shop/internal/models"
	httpserver "github.com/claycraft/shop/internal/transport/http"
)

type testEnv struct {
	db   *gorm.DB
	echo *echo.Echo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A pooled :memory: connection is a database of its own; pin the pool.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.ProductImage{},
		&models.Order{},
		&models.OrderItem{},
		&models.User{},
	))

	e := echo.New()
	e.Validator = httpserver.NewValidator()

	return &testEnv{db: db, echo: e}
}

func (env *testEnv) jsonContext(t *testing.T, method, target string, body any) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return env.echo.NewContext(req, rec), rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func dataAsMap(t *testing.T, resp Response) map[string]any {
	t.Helper()

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok, "response data is not an object: %T", resp.Data)
	return data
}

func (env *testEnv) seedCategory(t *testing.T, name, slug string) models.Category {
	t.Helper()

	category := models.Category{Name: name, Slug: slug, IsActive: true}
	require.NoError(t, env.db.Create(&category).Error)
	return category
}

func (env *testEnv) seedProduct(t *testing.T, categoryID uint, name string, priceInPaise int64, stock int) models.Product {
	t.Helper()

	product := models.Product{
		Name:         name,
		Slug:         fmt.Sprintf("%s-%d", GenerateSlug(name), time.Now().UnixNano()),
		Description:  "hand-thrown stoneware",
		PriceInPaise: priceInPaise,
		Stock:        stock,
		IsActive:     true,
		CategoryID:   categoryID,
	}
	require.NoError(t, env.db.Create(&product).Error)
	return product
}

func requireHTTPError(t *testing.T, err error, wantCode int) *echo.HTTPError {
	t.Helper()

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, wantCode, httpErr.Code)
	return httpErr
}
