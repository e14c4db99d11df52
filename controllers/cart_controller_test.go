package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"backend/entity"
	"backend/middlewares"
	"backend/repository"
	"backend/services"
	"backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret"

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	burger entity.Menu
	pizza  entity.Menu
}

func setupRouter(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entity.Restaurant{}, &entity.MenuCategory{}, &entity.Menu{},
		&entity.CartSnapshot{},
	))

	env := &testEnv{db: db}

	bistro := entity.Restaurant{Name: "Blue Bistro", PrimaryColor: "#1a2b3c"}
	require.NoError(t, db.Create(&bistro).Error)
	corner := entity.Restaurant{Name: "Corner Pizza"}
	require.NoError(t, db.Create(&corner).Error)

	env.burger = entity.Menu{Name: "House Burger", PriceCents: 1000, RestaurantID: bistro.ID}
	require.NoError(t, db.Create(&env.burger).Error)
	env.pizza = entity.Menu{Name: "Margherita", PriceCents: 1200, RestaurantID: corner.ID}
	require.NoError(t, db.Create(&env.pizza).Error)

	cartSvc := services.NewCartService(
		repository.NewCartSnapshotRepository(db),
		repository.NewMenuRepository(db),
		repository.NewRestaurantRepository(db),
	)
	ctrl := NewCartController(cartSvc)

	r := gin.New()
	g := r.Group("/cart", middlewares.AuthMiddleware(testSecret))
	g.GET("", ctrl.Get)
	g.DELETE("", ctrl.Clear)
	g.POST("/items", ctrl.Add)
	g.DELETE("/items", ctrl.RemoveItem)
	g.PATCH("/items/qty", ctrl.UpdateQty)
	g.PATCH("/items/remark", ctrl.SetLineRemark)
	g.PATCH("/scenario", ctrl.SetScenario)
	g.PATCH("/target-time", ctrl.SetTargetTime)
	g.PATCH("/remark", ctrl.SetOrderRemark)
	env.router = r

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any, userID uint) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	token, err := utils.GenerateToken(userID, "customer", testSecret, time.Hour)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out struct {
		OK   bool           `json:"ok"`
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.True(t, out.OK)
	return out.Data
}

func TestCartEndpointsRequireAuth(t *testing.T) {
	env := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAddAndReadCart(t *testing.T) {
	env := setupRouter(t)

	w := env.do(t, http.MethodPost, "/cart/items", gin.H{"menuId": env.burger.ID, "qty": 2}, 1)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodGet, "/cart", nil, 1)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, float64(2), data["count"])
	assert.Equal(t, float64(2000), data["subtotalCents"])
	assert.Equal(t, "takeaway", data["scenario"])
}

func TestAddFromSecondRestaurantIs409(t *testing.T) {
	env := setupRouter(t)

	w := env.do(t, http.MethodPost, "/cart/items", gin.H{"menuId": env.burger.ID, "qty": 1}, 1)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodPost, "/cart/items", gin.H{"menuId": env.pizza.ID, "qty": 1}, 1)
	assert.Equal(t, http.StatusConflict, w.Code)

	// existing cart is untouched
	w = env.do(t, http.MethodGet, "/cart", nil, 1)
	data := decodeData(t, w)
	assert.Equal(t, float64(1), data["count"])
}

func TestUnknownMenuIs404(t *testing.T) {
	env := setupRouter(t)
	w := env.do(t, http.MethodPost, "/cart/items", gin.H{"menuId": 999, "qty": 1}, 1)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestScenarioAndTargetTimeFlow(t *testing.T) {
	env := setupRouter(t)

	w := env.do(t, http.MethodPatch, "/cart/target-time", gin.H{"type": "scheduled", "input": "2024-01-01T10:00"}, 1)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "scheduled", data["targetTimeType"])
	assert.Equal(t, "2024-01-01T10:00", data["targetTimeInput"])
	assert.Equal(t, true, data["hasValidTargetTime"])

	// back to asap: the input is gone
	w = env.do(t, http.MethodPatch, "/cart/target-time", gin.H{"type": "asap"}, 1)
	data = decodeData(t, w)
	assert.Equal(t, "asap", data["targetTimeType"])
	assert.Nil(t, data["targetTimeInput"])

	// unknown scenario is ignored, state stays
	w = env.do(t, http.MethodPatch, "/cart/scenario", gin.H{"scenario": "drive-through"}, 1)
	data = decodeData(t, w)
	assert.Equal(t, "takeaway", data["scenario"])
}

func TestClearCart(t *testing.T) {
	env := setupRouter(t)

	w := env.do(t, http.MethodPost, "/cart/items", gin.H{"menuId": env.burger.ID, "qty": 3}, 1)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodDelete, "/cart", nil, 1)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, float64(0), data["count"])
	assert.Nil(t, data["restaurant"])
}

func TestCartsAreScopedPerUser(t *testing.T) {
	env := setupRouter(t)

	w := env.do(t, http.MethodPost, "/cart/items", gin.H{"menuId": env.burger.ID, "qty": 1}, 1)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodGet, "/cart", nil, 2)
	data := decodeData(t, w)
	assert.Equal(t, float64(0), data["count"])

	w = env.do(t, http.MethodPost, "/cart/items", gin.H{"menuId": env.pizza.ID, "qty": 1}, 2)
	assert.Equal(t, http.StatusCreated, w.Code)
}
