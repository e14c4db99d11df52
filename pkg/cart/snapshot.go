package cart

import (
	"encoding/json"
	"math"
)

// Snapshot is the persisted shape of the full cart state. There is no schema
// version; unknown or missing fields default silently on restore.
type Snapshot struct {
	Lines           []*Line        `json:"lines"`
	Scenario        Scenario       `json:"scenario"`
	TargetTimeType  TargetTimeType `json:"targetTimeType"`
	TargetTimeInput *string        `json:"targetTimeInput"`
	Restaurant      *Restaurant    `json:"restaurant"`
	OrderRemark     *string        `json:"orderRemark"`
}

func (c *Cart) snapshotLocked() *Snapshot {
	return &Snapshot{
		Lines:           c.lines,
		Scenario:        c.scenario,
		TargetTimeType:  c.targetTimeType,
		TargetTimeInput: c.targetTimeInput,
		Restaurant:      c.restaurant,
		OrderRemark:     c.orderRemark,
	}
}

// Snapshot returns a deep copy of the current state in its persisted shape.
func (c *Cart) Snapshot() *Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, err := json.Marshal(c.snapshotLocked())
	if err != nil {
		return &Snapshot{Scenario: c.scenario, TargetTimeType: c.targetTimeType}
	}
	return decodeSnapshot(data)
}

func (c *Cart) apply(s *Snapshot) {
	if s == nil {
		return
	}
	c.lines = s.Lines
	c.scenario = s.Scenario
	c.targetTimeType = s.TargetTimeType
	c.targetTimeInput = s.TargetTimeInput
	c.orderRemark = s.OrderRemark
	c.restaurant = s.Restaurant
	if c.targetTimeType == TargetTimeASAP {
		c.targetTimeInput = nil
	}
	if len(c.lines) == 0 {
		c.restaurant = nil
	}
}

// Loosely-typed mirror of Snapshot used to restore persisted state without
// trusting it: numbers decode as float64 and are checked for finiteness,
// arrays and objects stay raw until each element validates. Anything
// malformed is dropped, never surfaced as an error.
type rawSnapshot struct {
	Lines           json.RawMessage `json:"lines"`
	Scenario        json.RawMessage `json:"scenario"`
	TargetTimeType  json.RawMessage `json:"targetTimeType"`
	TargetTimeInput json.RawMessage `json:"targetTimeInput"`
	Restaurant      json.RawMessage `json:"restaurant"`
	OrderRemark     json.RawMessage `json:"orderRemark"`
}

type rawLine struct {
	Item     *rawItem     `json:"item"`
	Quantity *float64     `json:"quantity"`
	Category *rawCategory `json:"category"`
	Remark   *string      `json:"remark"`
}

type rawItem struct {
	ID                   *float64 `json:"id"`
	RestaurantID         *float64 `json:"restaurant_id"`
	PriceCents           *float64 `json:"price_cents"`
	DiscountedPriceCents *float64 `json:"discounted_price_cents"`
	Name                 string   `json:"name"`
}

type rawCategory struct {
	ID    *float64 `json:"id"`
	Label *string  `json:"label"`
}

type rawRestaurant struct {
	ID           *float64 `json:"id"`
	Name         *string  `json:"name"`
	PrimaryColor *string  `json:"primaryColor"`
}

func decodeSnapshot(data []byte) *Snapshot {
	out := &Snapshot{Scenario: ScenarioTakeaway, TargetTimeType: TargetTimeASAP}

	var raw rawSnapshot
	if err := json.Unmarshal(data, &raw); err != nil {
		return out
	}

	if v, ok := decodeString(raw.Scenario); ok {
		if s := Scenario(v); s.Valid() {
			out.Scenario = s
		}
	}
	if v, ok := decodeString(raw.TargetTimeType); ok {
		if t := TargetTimeType(v); t.Valid() {
			out.TargetTimeType = t
		}
	}
	if v, ok := decodeString(raw.TargetTimeInput); ok {
		out.TargetTimeInput = trimToNil(v)
	}
	if v, ok := decodeString(raw.OrderRemark); ok {
		out.OrderRemark = trimToNil(v)
	}
	out.Restaurant = decodeRestaurant(raw.Restaurant)
	out.Lines = decodeLines(raw.Lines)
	return out
}

func decodeLines(data json.RawMessage) []*Line {
	if len(data) == 0 {
		return nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil
	}
	lines := make([]*Line, 0, len(elems))
	for _, e := range elems {
		if l := decodeLine(e); l != nil {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		return nil
	}
	return lines
}

func decodeLine(data json.RawMessage) *Line {
	var raw rawLine
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	if raw.Item == nil {
		return nil
	}
	id, ok := finiteID(raw.Item.ID)
	if !ok {
		return nil
	}
	restaurantID, ok := finiteID(raw.Item.RestaurantID)
	if !ok {
		restaurantID = 0
	}
	price, ok := finiteCents(raw.Item.PriceCents)
	if !ok {
		return nil
	}
	item := MenuItem{
		ID:           id,
		RestaurantID: restaurantID,
		PriceCents:   price,
		Name:         raw.Item.Name,
	}
	if discounted, ok := finiteCents(raw.Item.DiscountedPriceCents); ok {
		item.DiscountedPriceCents = &discounted
	}

	qty := 1
	if raw.Quantity != nil && isFinite(*raw.Quantity) {
		qty = normalizeQuantity(*raw.Quantity)
	}

	line := &Line{Item: item, Quantity: qty}
	if raw.Category != nil {
		cat := &CategorySelection{}
		if catID, ok := finiteID(raw.Category.ID); ok {
			cat.ID = &catID
		}
		if raw.Category.Label != nil {
			cat.Label = trimToNil(*raw.Category.Label)
		}
		line.Category = cat
	}
	if raw.Remark != nil {
		line.Remark = trimToNil(*raw.Remark)
	}
	return line
}

func decodeRestaurant(data json.RawMessage) *Restaurant {
	if len(data) == 0 {
		return nil
	}
	var raw rawRestaurant
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	id, ok := finiteID(raw.ID)
	if !ok {
		return nil
	}
	return (&Restaurant{ID: id, Name: raw.Name, PrimaryColor: raw.PrimaryColor}).normalize()
}

func decodeString(data json.RawMessage) (string, bool) {
	if len(data) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", false
	}
	return s, true
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func finiteID(f *float64) (uint, bool) {
	if f == nil || !isFinite(*f) || *f <= 0 {
		return 0, false
	}
	return uint(*f), true
}

func finiteCents(f *float64) (int64, bool) {
	if f == nil || !isFinite(*f) {
		return 0, false
	}
	return int64(*f), true
}
