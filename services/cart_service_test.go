package services

import (
	"testing"

	"backend/entity"
	"backend/pkg/cart"
	"backend/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixture struct {
	db         *gorm.DB
	restaurant entity.Restaurant
	other      entity.Restaurant
	lunch      entity.MenuCategory
	burger     entity.Menu
	salad      entity.Menu
	pizza      entity.Menu
}

func setupDB(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entity.User{},
		&entity.Restaurant{}, &entity.MenuCategory{}, &entity.Menu{},
		&entity.OrderStatus{}, &entity.Order{}, &entity.OrderItem{},
		&entity.CartSnapshot{},
	))

	f := &fixture{db: db}
	f.restaurant = entity.Restaurant{Name: "Blue Bistro", PrimaryColor: "#1a2b3c"}
	require.NoError(t, db.Create(&f.restaurant).Error)
	f.other = entity.Restaurant{Name: "Corner Pizza"}
	require.NoError(t, db.Create(&f.other).Error)

	f.lunch = entity.MenuCategory{Name: "Lunch", RestaurantID: f.restaurant.ID}
	require.NoError(t, db.Create(&f.lunch).Error)

	discounted := int64(500)
	f.burger = entity.Menu{
		Name: "House Burger", PriceCents: 1000, RestaurantID: f.restaurant.ID,
		Categories: []entity.MenuCategory{f.lunch},
	}
	require.NoError(t, db.Create(&f.burger).Error)
	f.salad = entity.Menu{
		Name: "Garden Salad", PriceCents: 800, DiscountedPriceCents: &discounted,
		RestaurantID: f.restaurant.ID,
	}
	require.NoError(t, db.Create(&f.salad).Error)
	f.pizza = entity.Menu{Name: "Margherita", PriceCents: 1200, RestaurantID: f.other.ID}
	require.NoError(t, db.Create(&f.pizza).Error)

	for _, name := range []string{"Pending", "Preparing", "Ready", "Completed", "Cancelled"} {
		require.NoError(t, db.Create(&entity.OrderStatus{StatusName: name}).Error)
	}

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return f
}

func newCartService(f *fixture) *CartService {
	return NewCartService(
		repository.NewCartSnapshotRepository(f.db),
		repository.NewMenuRepository(f.db),
		repository.NewRestaurantRepository(f.db),
	)
}

func TestAddResolvesMenuAndRestaurant(t *testing.T) {
	f := setupDB(t)
	svc := newCartService(f)

	view, err := svc.Add(1, &AddToCartIn{MenuID: f.burger.ID, Qty: 2})
	require.NoError(t, err)

	require.Len(t, view.Lines, 1)
	assert.Equal(t, "House Burger", view.Lines[0].Name)
	assert.Equal(t, 2, view.Count)
	assert.Equal(t, int64(2000), view.SubtotalCents)
	require.NotNil(t, view.Restaurant)
	assert.Equal(t, f.restaurant.ID, view.Restaurant.ID)
	assert.Equal(t, "Blue Bistro", *view.Restaurant.Name)
	assert.Equal(t, "#1a2b3c", *view.Restaurant.PrimaryColor)
}

func TestAddWithCategoryLabelsTheLine(t *testing.T) {
	f := setupDB(t)
	svc := newCartService(f)

	view, err := svc.Add(1, &AddToCartIn{MenuID: f.burger.ID, CategoryID: &f.lunch.ID, Qty: 1})
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	require.NotNil(t, view.Lines[0].Category)
	assert.Equal(t, "Lunch", *view.Lines[0].Category.Label)

	// a category the menu is not listed under is rejected
	_, err = svc.Add(1, &AddToCartIn{MenuID: f.salad.ID, CategoryID: &f.lunch.ID, Qty: 1})
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestAddAcrossRestaurantsConflicts(t *testing.T) {
	f := setupDB(t)
	svc := newCartService(f)

	_, err := svc.Add(1, &AddToCartIn{MenuID: f.burger.ID, Qty: 1})
	require.NoError(t, err)

	_, err = svc.Add(1, &AddToCartIn{MenuID: f.pizza.ID, Qty: 1})
	assert.ErrorIs(t, err, cart.ErrDifferentRestaurant)

	// cart unchanged
	view := svc.Get(1)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, f.restaurant.ID, view.Restaurant.ID)

	// a different user is unaffected
	_, err = svc.Add(2, &AddToCartIn{MenuID: f.pizza.ID, Qty: 1})
	require.NoError(t, err)
}

func TestAddUnavailableMenu(t *testing.T) {
	f := setupDB(t)
	require.NoError(t, f.db.Model(&entity.Menu{}).Where("id = ?", f.burger.ID).Update("available", false).Error)
	svc := newCartService(f)

	_, err := svc.Add(1, &AddToCartIn{MenuID: f.burger.ID, Qty: 1})
	assert.ErrorIs(t, err, ErrMenuNotAvailable)
}

func TestCartPersistsAcrossServiceRestarts(t *testing.T) {
	f := setupDB(t)
	svc := newCartService(f)

	_, err := svc.Add(7, &AddToCartIn{MenuID: f.burger.ID, Qty: 2})
	require.NoError(t, err)
	svc.SetScenario(7, "delivery")
	svc.SetOrderRemark(7, "ring twice")

	// snapshot row exists under the fixed key
	var row entity.CartSnapshot
	require.NoError(t, f.db.Where("key = ?", "cart:7").First(&row).Error)
	assert.NotEmpty(t, row.Data)

	// a fresh service (new process) restores the same state
	restarted := newCartService(f)
	view := restarted.Get(7)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 2, view.Lines[0].Quantity)
	assert.Equal(t, cart.ScenarioDelivery, view.Scenario)
	require.NotNil(t, view.OrderRemark)
	assert.Equal(t, "ring twice", *view.OrderRemark)
}

func TestClearRemovesSnapshotRow(t *testing.T) {
	f := setupDB(t)
	svc := newCartService(f)

	_, err := svc.Add(7, &AddToCartIn{MenuID: f.burger.ID, Qty: 1})
	require.NoError(t, err)
	svc.Clear(7)

	var count int64
	require.NoError(t, f.db.Model(&entity.CartSnapshot{}).Where("key = ?", "cart:7").Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdateQtyAndRemoveThroughService(t *testing.T) {
	f := setupDB(t)
	svc := newCartService(f)

	_, err := svc.Add(1, &AddToCartIn{MenuID: f.burger.ID, Qty: 1})
	require.NoError(t, err)

	view := svc.UpdateQty(1, f.burger.ID, 0, nil)
	assert.Equal(t, 1, view.Lines[0].Quantity) // floored, not removed

	view = svc.RemoveItem(1, f.burger.ID, nil)
	assert.Empty(t, view.Lines)
	assert.Nil(t, view.Restaurant)
}
