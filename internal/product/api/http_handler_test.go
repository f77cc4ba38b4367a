package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/pos-forecast-engine/internal/product/domain"
	"github.com/ridloal/pos-forecast-engine/internal/product/repository"
	"github.com/ridloal/pos-forecast-engine/internal/product/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (*gin.Engine, *repository.MemoryProductRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repo := repository.NewMemoryProductRepository()
	r := gin.New()
	NewProductHandler(service.NewProductService(repo, 10)).RegisterRoutes(r.Group("/api/v1"))
	return r, repo
}

func TestProductHandler_CreateAndGet(t *testing.T) {
	router, _ := setupRouter(t)

	w := httptest.NewRecorder()
	body := `{"name":"Cotton Polo Shirt","category":"Polo Shirts","price":"34.99","stock":40}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var created domain.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.True(t, decimal.RequireFromString("34.99").Equal(created.Price))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products/"+created.ID, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products/unknown", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductHandler_CreateRejectsBadPrice(t *testing.T) {
	router, _ := setupRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewBufferString(`{"name":"Scarf","price":"0","stock":3}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductHandler_ListLowStock(t *testing.T) {
	router, repo := setupRouter(t)
	ctx := context.Background()
	require.NoError(t, repo.CreateProduct(ctx, &domain.Product{Name: "Wool Winter Coat", Price: decimal.NewFromInt(199), Stock: 4}))
	require.NoError(t, repo.CreateProduct(ctx, &domain.Product{Name: "Classic White T-Shirt", Price: decimal.NewFromInt(19), Stock: 50}))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products/low-stock", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var got []domain.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Wool Winter Coat", got[0].Name)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products/low-stock?threshold=-1", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductHandler_Update(t *testing.T) {
	router, repo := setupRouter(t)
	ctx := context.Background()
	p := &domain.Product{Name: "Blue Denim Jeans", Category: "Jeans", Price: decimal.RequireFromString("79.99"), Stock: 30}
	require.NoError(t, repo.CreateProduct(ctx, p))

	put := func(id, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/v1/products/"+id, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("Updates price and stock", func(t *testing.T) {
		w := put(p.ID, `{"name":"Blue Denim Jeans","category":"Jeans","price":"69.99","stock":28}`)
		require.Equal(t, http.StatusOK, w.Code)

		got, err := repo.GetProductByID(ctx, p.ID)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("69.99").Equal(got.Price))
		assert.Equal(t, 28, got.Stock)
		assert.Equal(t, p.CreatedAt, got.CreatedAt)
	})

	t.Run("Rejects invalid values", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, put(p.ID, `{"name":"Blue Denim Jeans","price":"0","stock":1}`).Code)
		assert.Equal(t, http.StatusBadRequest, put(p.ID, `{"name":"Blue Denim Jeans","price":"10.001","stock":1}`).Code)
		assert.Equal(t, http.StatusBadRequest, put(p.ID, `{"name":"Blue Denim Jeans","price":"10","stock":-2}`).Code)

		got, err := repo.GetProductByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 28, got.Stock)
	})

	t.Run("Unknown product", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, put("unknown", `{"name":"Scarf","price":"5","stock":1}`).Code)
	})
}

func TestProductHandler_FilterAndCategories(t *testing.T) {
	router, repo := setupRouter(t)
	ctx := context.Background()
	require.NoError(t, repo.CreateProduct(ctx, &domain.Product{Name: "Blue Denim Jeans", Category: "Jeans", Price: decimal.NewFromInt(79), Stock: 30}))
	require.NoError(t, repo.CreateProduct(ctx, &domain.Product{Name: "Black Skinny Jeans", Category: "Jeans", Price: decimal.NewFromInt(69), Stock: 20}))
	require.NoError(t, repo.CreateProduct(ctx, &domain.Product{Name: "Denim Jacket", Category: "Jackets", Price: decimal.NewFromInt(89), Stock: 10}))

	list := func(url string) []domain.Product {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
		require.Equal(t, http.StatusOK, w.Code)
		var got []domain.Product
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		return got
	}

	assert.Len(t, list("/api/v1/products"), 3)
	assert.Len(t, list("/api/v1/products?category=jeans"), 2)
	assert.Len(t, list("/api/v1/products?search=DENIM"), 2)
	got := list("/api/v1/products?category=Jeans&search=denim")
	require.Len(t, got, 1)
	assert.Equal(t, "Blue Denim Jeans", got[0].Name)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products/categories", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var categories []string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &categories))
	assert.Equal(t, []string{"Jackets", "Jeans"}, categories)
}
