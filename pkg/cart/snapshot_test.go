package cart

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failStore errors on every operation; the cart must shrug it off.
type failStore struct{}

func (failStore) Load(string) ([]byte, error)  { return nil, errors.New("storage unavailable") }
func (failStore) Save(string, []byte) error    { return errors.New("storage unavailable") }
func (failStore) Delete(string) error          { return errors.New("storage unavailable") }

func TestSnapshotRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	const key = "cart:42"

	c := New(store, key)
	require.NoError(t, c.Add(burger(), &CategorySelection{ID: uintPtr(5), Label: strPtr("Lunch")}, &Restaurant{ID: 10, Name: strPtr("Blue Bistro"), PrimaryColor: strPtr("#1a2b3c")}, 2))
	require.NoError(t, c.Add(salad(), nil, nil, 1))
	c.SetScenario(ScenarioDelivery)
	c.SetTargetTimeType(TargetTimeScheduled)
	c.SetTargetTimeInput("2024-01-01T10:00")
	c.SetOrderRemark("ring twice")
	c.SetLineRemark(2, "dressing on the side", nil)

	restored := New(store, key)

	assert.Equal(t, c.Scenario(), restored.Scenario())
	assert.Equal(t, c.TargetTimeType(), restored.TargetTimeType())
	assert.Equal(t, c.TargetTimeInput(), restored.TargetTimeInput())
	assert.Equal(t, c.OrderRemark(), restored.OrderRemark())
	assert.Equal(t, c.Restaurant(), restored.Restaurant())
	require.Equal(t, len(c.Lines()), len(restored.Lines()))
	for i, want := range c.Lines() {
		assert.Equal(t, *want, *restored.Lines()[i])
	}
	assert.Equal(t, c.SubtotalCents(), restored.SubtotalCents())
}

func TestDefaultStateDeletesStoredKey(t *testing.T) {
	store := NewMemoryStore()
	const key = "cart:42"

	c := New(store, key)
	require.NoError(t, c.Add(burger(), nil, nil, 1))
	assert.True(t, store.Has(key))

	c.Clear()
	assert.False(t, store.Has(key))

	// removing the last line also lands on the default state
	require.NoError(t, c.Add(burger(), nil, nil, 1))
	assert.True(t, store.Has(key))
	c.Remove(1, nil)
	assert.False(t, store.Has(key))
}

func TestRestoreIgnoresCorruptSnapshot(t *testing.T) {
	store := NewMemoryStore()
	const key = "cart:42"
	require.NoError(t, store.Save(key, []byte("{not json")))

	c := New(store, key)
	assert.Zero(t, c.Count())
	assert.Equal(t, ScenarioTakeaway, c.Scenario())
	assert.Nil(t, c.Restaurant())
}

func TestRestoreIsDefensivePerField(t *testing.T) {
	store := NewMemoryStore()
	const key = "cart:42"

	// lines is not an array, scenario is unknown, restaurant id is a string,
	// remark carries the wrong type; every field falls back independently.
	blob := `{
		"lines": {"item": 1},
		"scenario": "drive-through",
		"targetTimeType": "scheduled",
		"targetTimeInput": "2024-01-01T10:00",
		"restaurant": {"id": "ten"},
		"orderRemark": 12
	}`
	require.NoError(t, store.Save(key, []byte(blob)))

	c := New(store, key)
	assert.Empty(t, c.Lines())
	assert.Equal(t, ScenarioTakeaway, c.Scenario())
	assert.Equal(t, TargetTimeScheduled, c.TargetTimeType())
	require.NotNil(t, c.TargetTimeInput())
	assert.Equal(t, "2024-01-01T10:00", *c.TargetTimeInput())
	assert.Nil(t, c.Restaurant())
	assert.Nil(t, c.OrderRemark())
}

func TestRestoreSkipsMalformedLines(t *testing.T) {
	store := NewMemoryStore()
	const key = "cart:42"

	blob := `{
		"lines": [
			{"item": {"id": 1, "restaurant_id": 10, "price_cents": 1000}, "quantity": 2},
			{"item": {"id": "x"}, "quantity": 1},
			{"quantity": 3},
			{"item": {"id": 2, "restaurant_id": 10, "price_cents": 800, "discounted_price_cents": 500}}
		],
		"restaurant": {"id": 10, "name": "Blue Bistro"}
	}`
	require.NoError(t, store.Save(key, []byte(blob)))

	c := New(store, key)
	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, uint(1), lines[0].Item.ID)
	assert.Equal(t, 2, lines[0].Quantity)
	// missing quantity defaults to 1
	assert.Equal(t, uint(2), lines[1].Item.ID)
	assert.Equal(t, 1, lines[1].Quantity)
	assert.Equal(t, int64(2500), c.SubtotalCents())
}

func TestRestoreClearsInputForASAP(t *testing.T) {
	store := NewMemoryStore()
	const key = "cart:42"
	blob := `{"lines":[{"item":{"id":1,"restaurant_id":10,"price_cents":1000},"quantity":1}],"targetTimeType":"asap","targetTimeInput":"2024-01-01T10:00"}`
	require.NoError(t, store.Save(key, []byte(blob)))

	c := New(store, key)
	assert.Nil(t, c.TargetTimeInput())
	assert.True(t, c.HasValidTargetTime())
}

func TestCartSurvivesFailingStore(t *testing.T) {
	c := New(failStore{}, "cart:42")
	require.NoError(t, c.Add(burger(), nil, nil, 2))
	assert.Equal(t, 2, c.Count())
	assert.Equal(t, int64(2000), c.SubtotalCents())
	c.Clear()
	assert.Zero(t, c.Count())
}

func TestSnapshotAccessorDeepCopies(t *testing.T) {
	c := New(nil, "")
	require.NoError(t, c.Add(burger(), nil, nil, 1))

	snap := c.Snapshot()
	require.Len(t, snap.Lines, 1)
	snap.Lines[0].Quantity = 99

	assert.Equal(t, 1, c.Lines()[0].Quantity)
}
