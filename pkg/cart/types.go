package cart

import (
	"strings"
)

// Scenario is the fulfilment mode of the order being composed.
type Scenario string

const (
	ScenarioTakeaway Scenario = "takeaway"
	ScenarioDelivery Scenario = "delivery"
	ScenarioEatIn    Scenario = "eatin"
)

func (s Scenario) Valid() bool {
	switch s {
	case ScenarioTakeaway, ScenarioDelivery, ScenarioEatIn:
		return true
	}
	return false
}

// TargetTimeType states whether the order is for right now or a scheduled slot.
type TargetTimeType string

const (
	TargetTimeASAP      TargetTimeType = "asap"
	TargetTimeScheduled TargetTimeType = "scheduled"
)

func (t TargetTimeType) Valid() bool {
	return t == TargetTimeASAP || t == TargetTimeScheduled
}

// MenuItem is the slice of a menu row the cart needs: identity, owning
// restaurant and pricing in cents.
type MenuItem struct {
	ID                   uint   `json:"id"`
	RestaurantID         uint   `json:"restaurant_id"`
	PriceCents           int64  `json:"price_cents"`
	DiscountedPriceCents *int64 `json:"discounted_price_cents,omitempty"`
	Name                 string `json:"name,omitempty"`
}

// EffectivePriceCents prefers a non-negative discounted price over the list price.
func (m MenuItem) EffectivePriceCents() int64 {
	if m.DiscountedPriceCents != nil && *m.DiscountedPriceCents >= 0 {
		return *m.DiscountedPriceCents
	}
	return m.PriceCents
}

// CategorySelection records which menu category/variant a line was ordered
// under, e.g. the lunch vs dinner tier of the same dish.
type CategorySelection struct {
	ID    *uint   `json:"id"`
	Label *string `json:"label,omitempty"`
}

func (c *CategorySelection) normalize() *CategorySelection {
	if c == nil {
		return nil
	}
	out := &CategorySelection{}
	if c.ID != nil {
		id := *c.ID
		out.ID = &id
	}
	out.Label = trimToNil(stringOrEmpty(c.Label))
	return out
}

// key is the merge identity of a selection: the category id, or nil for none.
func (c *CategorySelection) key() *uint {
	if c == nil {
		return nil
	}
	return c.ID
}

func sameCategoryKey(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Restaurant is the descriptor of the single restaurant the cart is scoped to.
type Restaurant struct {
	ID           uint    `json:"id"`
	Name         *string `json:"name,omitempty"`
	PrimaryColor *string `json:"primaryColor,omitempty"`
}

func (r *Restaurant) normalize() *Restaurant {
	if r == nil {
		return nil
	}
	out := &Restaurant{ID: r.ID}
	out.Name = trimToNil(stringOrEmpty(r.Name))
	if color := trimToNil(stringOrEmpty(r.PrimaryColor)); color != nil && validHexColor(*color) {
		out.PrimaryColor = color
	}
	return out
}

// validHexColor accepts 3- or 6-digit hex codes, with or without a leading '#'.
func validHexColor(s string) bool {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 3 && len(s) != 6 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// Line is one orderable entry: menu item + category variant + quantity +
// optional free-text remark.
type Line struct {
	Item     MenuItem           `json:"item"`
	Quantity int                `json:"quantity"`
	Category *CategorySelection `json:"category,omitempty"`
	Remark   *string            `json:"remark,omitempty"`
}

// TotalCents is the line subtotal at the item's effective price.
func (l *Line) TotalCents() int64 {
	return l.Item.EffectivePriceCents() * int64(l.Quantity)
}

func (l *Line) matches(itemID uint, categoryKey *uint) bool {
	return l.Item.ID == itemID && sameCategoryKey(l.Category.key(), categoryKey)
}

func trimToNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func sameOptionalString(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
