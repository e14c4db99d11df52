package services

import (
	"errors"
	"fmt"
	"sync"

	"backend/pkg/cart"
	"backend/repository"
)

// ErrMenuNotAvailable is returned when a menu exists but cannot be ordered.
var ErrMenuNotAvailable = errors.New("menu not available")

// ErrInvalidCategory is returned when the category does not belong to the menu.
var ErrInvalidCategory = errors.New("invalid category for this menu")

// CartService owns one cart.Cart per user, restored lazily from the snapshot
// store, and resolves menu/category/restaurant rows into the cart's types.
type CartService struct {
	mu    sync.Mutex
	carts map[uint]*cart.Cart
	store cart.Store

	menuRepo       *repository.MenuRepository
	restaurantRepo *repository.RestaurantRepository
}

func NewCartService(store cart.Store, mr *repository.MenuRepository, rr *repository.RestaurantRepository) *CartService {
	return &CartService{
		carts:          make(map[uint]*cart.Cart),
		store:          store,
		menuRepo:       mr,
		restaurantRepo: rr,
	}
}

func cartKey(userID uint) string { return fmt.Sprintf("cart:%d", userID) }

// CartFor returns the user's cart, constructing (and restoring) it on first
// access.
func (s *CartService) CartFor(userID uint) *cart.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.carts[userID]; ok {
		return c
	}
	c := cart.New(s.store, cartKey(userID))
	s.carts[userID] = c
	return c
}

type AddToCartIn struct {
	MenuID     uint    `json:"menuId" binding:"required"`
	CategoryID *uint   `json:"categoryId"`
	Qty        float64 `json:"qty"`
}

// Add resolves the menu row plus its category and restaurant context, then
// puts the line on the user's cart. cart.ErrDifferentRestaurant passes
// through untouched for the controller to map.
func (s *CartService) Add(userID uint, in *AddToCartIn) (*CartView, error) {
	m, err := s.menuRepo.FindByID(in.MenuID)
	if err != nil {
		return nil, err
	}
	if !m.Available {
		return nil, ErrMenuNotAvailable
	}

	var category *cart.CategorySelection
	if in.CategoryID != nil {
		ok, err := s.menuRepo.CategoryBelongsToMenu(m.ID, *in.CategoryID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrInvalidCategory
		}
		cat, err := s.menuRepo.FindCategory(*in.CategoryID)
		if err != nil {
			return nil, err
		}
		category = &cart.CategorySelection{ID: in.CategoryID, Label: &cat.Name}
	}

	item := cart.MenuItem{
		ID:                   m.ID,
		RestaurantID:         m.RestaurantID,
		PriceCents:           m.PriceCents,
		DiscountedPriceCents: m.DiscountedPriceCents,
		Name:                 m.Name,
	}

	var restaurant *cart.Restaurant
	if rest, err := s.restaurantRepo.FindByID(m.RestaurantID); err == nil {
		restaurant = &cart.Restaurant{ID: rest.ID, Name: &rest.Name, PrimaryColor: &rest.PrimaryColor}
	}

	c := s.CartFor(userID)
	if err := c.Add(item, category, restaurant, in.Qty); err != nil {
		return nil, err
	}
	return s.viewOf(c), nil
}

func (s *CartService) Get(userID uint) *CartView {
	return s.viewOf(s.CartFor(userID))
}

func (s *CartService) UpdateQty(userID, menuID uint, qty int, categoryID *uint) *CartView {
	c := s.CartFor(userID)
	c.ChangeQty(menuID, qty, selection(categoryID))
	return s.viewOf(c)
}

func (s *CartService) RemoveItem(userID, menuID uint, categoryID *uint) *CartView {
	c := s.CartFor(userID)
	c.Remove(menuID, selection(categoryID))
	return s.viewOf(c)
}

func (s *CartService) SetScenario(userID uint, value string) *CartView {
	c := s.CartFor(userID)
	c.SetScenario(cart.Scenario(value))
	return s.viewOf(c)
}

func (s *CartService) SetTargetTime(userID uint, timeType string, input *string) *CartView {
	c := s.CartFor(userID)
	c.SetTargetTimeType(cart.TargetTimeType(timeType))
	if input != nil {
		c.SetTargetTimeInput(*input)
	}
	return s.viewOf(c)
}

func (s *CartService) SetOrderRemark(userID uint, remark string) *CartView {
	c := s.CartFor(userID)
	c.SetOrderRemark(remark)
	return s.viewOf(c)
}

func (s *CartService) SetLineRemark(userID, menuID uint, remark string, categoryID *uint) *CartView {
	c := s.CartFor(userID)
	c.SetLineRemark(menuID, remark, selection(categoryID))
	return s.viewOf(c)
}

// Clear resets the cart; called by checkout and logout.
func (s *CartService) Clear(userID uint) {
	s.CartFor(userID).Clear()
}

func selection(categoryID *uint) *cart.CategorySelection {
	if categoryID == nil {
		return nil
	}
	return &cart.CategorySelection{ID: categoryID}
}

// CartView is the read model the storefront renders.
type CartView struct {
	Lines              []CartLineView   `json:"lines"`
	Count              int              `json:"count"`
	SubtotalCents      int64            `json:"subtotalCents"`
	Scenario           cart.Scenario    `json:"scenario"`
	TargetTimeType     cart.TargetTimeType `json:"targetTimeType"`
	TargetTimeInput    *string          `json:"targetTimeInput"`
	OrderRemark        *string          `json:"orderRemark"`
	Restaurant         *cart.Restaurant `json:"restaurant"`
	RequiresTargetTime bool             `json:"requiresTargetTime"`
	HasValidTargetTime bool             `json:"hasValidTargetTime"`
}

type CartLineView struct {
	MenuID         uint                    `json:"menuId"`
	Name           string                  `json:"name"`
	Quantity       int                     `json:"quantity"`
	UnitPriceCents int64                   `json:"unitPriceCents"`
	TotalCents     int64                   `json:"totalCents"`
	Category       *cart.CategorySelection `json:"category"`
	Remark         *string                 `json:"remark"`
}

func (s *CartService) viewOf(c *cart.Cart) *CartView {
	lines := c.Lines()
	out := &CartView{
		Lines:              make([]CartLineView, 0, len(lines)),
		Count:              c.Count(),
		SubtotalCents:      c.SubtotalCents(),
		Scenario:           c.Scenario(),
		TargetTimeType:     c.TargetTimeType(),
		TargetTimeInput:    c.TargetTimeInput(),
		OrderRemark:        c.OrderRemark(),
		Restaurant:         c.Restaurant(),
		RequiresTargetTime: c.RequiresTargetTime(),
		HasValidTargetTime: c.HasValidTargetTime(),
	}
	for _, l := range lines {
		out.Lines = append(out.Lines, CartLineView{
			MenuID:         l.Item.ID,
			Name:           l.Item.Name,
			Quantity:       l.Quantity,
			UnitPriceCents: l.Item.EffectivePriceCents(),
			TotalCents:     l.TotalCents(),
			Category:       l.Category,
			Remark:         l.Remark,
		})
	}
	return out
}
