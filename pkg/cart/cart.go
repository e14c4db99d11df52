// Package cart holds the in-progress order composition for a single user:
// normalized lines scoped to one restaurant, fulfilment scenario, target time
// and remarks, with derived totals and a best-effort snapshot persisted after
// every mutation.
package cart

import (
	"encoding/json"
	"errors"
	"math"
	"sync"
	"time"
)

// ErrDifferentRestaurant is returned by Add when the cart already holds lines
// from another restaurant. The caller must Clear first.
var ErrDifferentRestaurant = errors.New("cart has another restaurant")

var targetTimeLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04",
}

// Cart is the order-composition state container. All mutators are synchronous;
// each one writes the full snapshot to the store before returning. Store
// failures are swallowed and the cart keeps operating in memory.
type Cart struct {
	mu    sync.Mutex
	store Store
	key   string

	lines           []*Line
	scenario        Scenario
	targetTimeType  TargetTimeType
	targetTimeInput *string
	orderRemark     *string
	restaurant      *Restaurant
}

// New builds a cart at its defaults and, when a store is given, restores the
// snapshot persisted under key. A missing or unreadable snapshot is ignored.
func New(store Store, key string) *Cart {
	c := &Cart{
		store:          store,
		key:            key,
		scenario:       ScenarioTakeaway,
		targetTimeType: TargetTimeASAP,
	}
	if store != nil {
		if data, err := store.Load(key); err == nil && len(data) > 0 {
			c.apply(decodeSnapshot(data))
		}
	}
	return c
}

// Add puts quantity units of item on the cart, merging with an existing line
// that has the same (item, category) identity. quantity is permissive:
// non-finite or non-positive values coerce to 1, fractions truncate toward
// zero. Fails only when the cart is already scoped to another restaurant.
func (c *Cart) Add(item MenuItem, category *CategorySelection, restaurant *Restaurant, quantity float64) error {
	qty := normalizeQuantity(quantity)
	cat := category.normalize()
	rest := resolveRestaurant(item, restaurant)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.restaurant != nil && c.restaurant.ID != rest.ID {
		return ErrDifferentRestaurant
	}
	c.mergeRestaurantLocked(rest)

	for _, l := range c.lines {
		if l.matches(item.ID, cat.key()) {
			l.Quantity += qty
			// backfill a label the earlier add did not carry
			if l.Category != nil && l.Category.Label == nil && cat != nil && cat.Label != nil {
				l.Category.Label = cat.Label
			}
			c.persistLocked()
			return nil
		}
	}

	c.lines = append(c.lines, &Line{Item: item, Quantity: qty, Category: cat})
	c.persistLocked()
	return nil
}

// Remove deletes the line matching (itemID, category). Once the last line is
// gone the restaurant association is released so any restaurant can be added
// next.
func (c *Cart) Remove(itemID uint, category *CategorySelection) {
	key := category.normalize().key()

	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.lines[:0]
	for _, l := range c.lines {
		if !l.matches(itemID, key) {
			kept = append(kept, l)
		}
	}
	if len(kept) == len(c.lines) {
		return
	}
	c.lines = kept
	if len(c.lines) == 0 {
		c.restaurant = nil
	}
	c.persistLocked()
}

// ChangeQty sets the matching line's quantity to max(1, qty). It never removes
// a line; removal goes through Remove.
func (c *Cart) ChangeQty(itemID uint, qty int, category *CategorySelection) {
	key := category.normalize().key()
	if qty < 1 {
		qty = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, l := range c.lines {
		if l.matches(itemID, key) {
			if l.Quantity != qty {
				l.Quantity = qty
				c.persistLocked()
			}
			return
		}
	}
}

// SetScenario updates the fulfilment mode. Unknown values are ignored.
func (c *Cart) SetScenario(v Scenario) {
	if !v.Valid() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.scenario == v {
		return
	}
	c.scenario = v
	c.persistLocked()
}

// SetTargetTimeType switches between asap and scheduled. Switching to asap
// drops any stored input, it no longer applies.
func (c *Cart) SetTargetTimeType(v TargetTimeType) {
	if !v.Valid() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.targetTimeType == v {
		return
	}
	c.targetTimeType = v
	if v == TargetTimeASAP {
		c.targetTimeInput = nil
	}
	c.persistLocked()
}

// SetTargetTimeInput stores the requested fulfilment time as entered. The
// value is trimmed; an empty string clears it.
func (c *Cart) SetTargetTimeInput(value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	normalized := trimToNil(value)
	if sameOptionalString(c.targetTimeInput, normalized) {
		return
	}
	c.targetTimeInput = normalized
	c.persistLocked()
}

// SetOrderRemark attaches a free-text note to the whole order.
func (c *Cart) SetOrderRemark(value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	normalized := trimToNil(value)
	if sameOptionalString(c.orderRemark, normalized) {
		return
	}
	c.orderRemark = normalized
	c.persistLocked()
}

// SetLineRemark attaches a note to the matching line. When the normalized
// remark equals what the line already carries nothing changes, including the
// line reference itself.
func (c *Cart) SetLineRemark(itemID uint, remark string, category *CategorySelection) {
	key := category.normalize().key()
	normalized := trimToNil(remark)

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, l := range c.lines {
		if l.matches(itemID, key) {
			if sameOptionalString(l.Remark, normalized) {
				return
			}
			l.Remark = normalized
			c.persistLocked()
			return
		}
	}
}

// Clear resets every piece of state to its default and removes the persisted
// snapshot.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
	c.scenario = ScenarioTakeaway
	c.targetTimeType = TargetTimeASAP
	c.targetTimeInput = nil
	c.orderRemark = nil
	c.restaurant = nil
	c.persistLocked()
}

// Lines returns the current lines. The slice is a copy; the *Line values are
// the live ones so callers observe merges in place.
func (c *Cart) Lines() []*Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Count is the sum of line quantities.
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// SubtotalCents sums effective price times quantity over all lines.
func (c *Cart) SubtotalCents() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total int64
	for _, l := range c.lines {
		total += l.TotalCents()
	}
	return total
}

func (c *Cart) Scenario() Scenario {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scenario
}

func (c *Cart) TargetTimeType() TargetTimeType {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.targetTimeType
}

func (c *Cart) TargetTimeInput() *string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.targetTimeInput
}

func (c *Cart) OrderRemark() *string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.orderRemark
}

// Restaurant returns a copy of the restaurant descriptor, or nil for an
// unscoped cart.
func (c *Cart) Restaurant() *Restaurant {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.restaurant == nil {
		return nil
	}
	out := *c.restaurant
	return &out
}

// TargetTime parses the stored input as a local datetime. Missing or
// unparseable input yields nil, never an error.
func (c *Cart) TargetTime() *time.Time {
	c.mu.Lock()
	input := c.targetTimeInput
	c.mu.Unlock()
	if input == nil {
		return nil
	}
	for _, layout := range targetTimeLayouts {
		if t, err := time.ParseInLocation(layout, *input, time.Local); err == nil {
			return &t
		}
	}
	return nil
}

// RequiresTargetTime reports whether a concrete fulfilment time must be set.
func (c *Cart) RequiresTargetTime() bool {
	return c.TargetTimeType() == TargetTimeScheduled
}

// HasValidTargetTime is false only for a scheduled order without a parseable
// time.
func (c *Cart) HasValidTargetTime() bool {
	return !c.RequiresTargetTime() || c.TargetTime() != nil
}

// mergeRestaurantLocked sets or refreshes the restaurant descriptor, keeping
// stale name/color only when the new descriptor does not carry them.
func (c *Cart) mergeRestaurantLocked(rest *Restaurant) {
	if c.restaurant == nil {
		c.restaurant = rest
		return
	}
	if rest.Name != nil {
		c.restaurant.Name = rest.Name
	}
	if rest.PrimaryColor != nil {
		c.restaurant.PrimaryColor = rest.PrimaryColor
	}
}

// isDefaultLocked reports whether the cart equals its freshly-constructed
// state, in which case no snapshot should remain stored.
func (c *Cart) isDefaultLocked() bool {
	return len(c.lines) == 0 &&
		c.scenario == ScenarioTakeaway &&
		c.targetTimeType == TargetTimeASAP &&
		c.targetTimeInput == nil &&
		c.orderRemark == nil &&
		c.restaurant == nil
}

// persistLocked writes the snapshot (or deletes it for the default state).
// Errors are swallowed: persistence is best effort.
func (c *Cart) persistLocked() {
	if c.store == nil {
		return
	}
	if c.isDefaultLocked() {
		_ = c.store.Delete(c.key)
		return
	}
	data, err := json.Marshal(c.snapshotLocked())
	if err != nil {
		return
	}
	_ = c.store.Save(c.key, data)
}

func resolveRestaurant(item MenuItem, restaurant *Restaurant) *Restaurant {
	if restaurant != nil && restaurant.ID != 0 {
		return restaurant.normalize()
	}
	return &Restaurant{ID: item.RestaurantID}
}

func normalizeQuantity(q float64) int {
	if math.IsNaN(q) || math.IsInf(q, 0) || q <= 0 {
		return 1
	}
	n := int(q) // truncate toward zero
	if n < 1 {
		return 1
	}
	return n
}
