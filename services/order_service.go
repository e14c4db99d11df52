package services

import (
	"errors"

	"backend/entity"
	"backend/repository"

	"gorm.io/gorm"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrTargetTimeMissing = errors.New("scheduled order needs a valid target time")
)

const initialOrderStatus = "Pending"

// OrderService turns a composed cart into order rows and manages the order
// lifecycle afterwards.
type OrderService struct {
	DB        *gorm.DB
	orderRepo *repository.OrderRepository
	cartSvc   *CartService
}

func NewOrderService(db *gorm.DB, or *repository.OrderRepository, cs *CartService) *OrderService {
	return &OrderService{DB: db, orderRepo: or, cartSvc: cs}
}

// Checkout snapshots the user's cart into an order and clears the cart.
// Prices are frozen at the effective cents of checkout time.
func (s *OrderService) Checkout(userID uint) (*entity.Order, error) {
	c := s.cartSvc.CartFor(userID)

	lines := c.Lines()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	if !c.HasValidTargetTime() {
		return nil, ErrTargetTimeMissing
	}

	restaurant := c.Restaurant()
	if restaurant == nil {
		return nil, ErrEmptyCart
	}

	status, err := s.orderRepo.StatusByName(initialOrderStatus)
	if err != nil {
		return nil, err
	}

	order := &entity.Order{
		UserID:         userID,
		RestaurantID:   restaurant.ID,
		Scenario:       string(c.Scenario()),
		TargetTimeType: string(c.TargetTimeType()),
		TargetTime:     c.TargetTime(),
		SubtotalCents:  c.SubtotalCents(),
		OrderStatusID:  status.ID,
	}
	if remark := c.OrderRemark(); remark != nil {
		order.Remark = *remark
	}
	for _, l := range lines {
		item := entity.OrderItem{
			MenuID:         l.Item.ID,
			Qty:            l.Quantity,
			UnitPriceCents: l.Item.EffectivePriceCents(),
			TotalCents:     l.TotalCents(),
		}
		if l.Category != nil {
			item.CategoryID = l.Category.ID
			if l.Category.Label != nil {
				item.CategoryLabel = *l.Category.Label
			}
		}
		if l.Remark != nil {
			item.Remark = *l.Remark
		}
		order.Items = append(order.Items, item)
	}

	if err := s.DB.Transaction(func(tx *gorm.DB) error {
		return s.orderRepo.Create(tx, order)
	}); err != nil {
		return nil, err
	}

	s.cartSvc.Clear(userID)
	order.OrderStatus = *status
	return order, nil
}

func (s *OrderService) Detail(orderID uint) (*entity.Order, error) {
	return s.orderRepo.FindByID(orderID)
}

func (s *OrderService) ListForUser(userID uint) ([]entity.Order, error) {
	return s.orderRepo.ListByUser(userID)
}

func (s *OrderService) ListForRestaurant(restaurantID uint) ([]entity.Order, error) {
	return s.orderRepo.ListByRestaurant(restaurantID)
}

// UpdateStatus moves an order to the named status and returns the updated row.
func (s *OrderService) UpdateStatus(orderID uint, statusName string) (*entity.Order, error) {
	status, err := s.orderRepo.StatusByName(statusName)
	if err != nil {
		return nil, errors.New("unknown status")
	}
	if err := s.orderRepo.UpdateStatus(orderID, status.ID); err != nil {
		return nil, err
	}
	return s.orderRepo.FindByID(orderID)
}
