package domain

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderItemsDecodeLegacyShapes(t *testing.T) {
	var items OrderItems
	err := json.Unmarshal([]byte(`[
		"Adobo",
		{"name": "Sinigang", "quantity": 3},
		{"id": "42", "quantity": 2},
		{"id": 7},
		{"name": "Lumpia", "quantity": 0},
		{"name": "Halo-halo", "quantity": "4"},
		{"quantity": 9},
		12,
		null,
		""
	]`), &items)
	require.NoError(t, err)

	assert.Equal(t, OrderItems{
		{Name: "Adobo", Quantity: 1},
		{Name: "Sinigang", Quantity: 3},
		{ID: "42", Quantity: 2},
		{ID: "7", Quantity: 1},
		{Name: "Lumpia", Quantity: 1},
		{Name: "Halo-halo", Quantity: 4},
	}, items)
}

func TestOrderItemsClampHugeQuantities(t *testing.T) {
	var items OrderItems
	require.NoError(t, json.Unmarshal([]byte(`[
		{"name": "Adobo", "quantity": 9e18},
		{"name": "Sinigang", "quantity": "9223372036854775807"},
		{"name": "Lumpia", "quantity": -9e18}
	]`), &items))
	require.Len(t, items, 3)
	assert.Equal(t, math.MaxInt32, items[0].Quantity)
	assert.Equal(t, math.MaxInt32, items[1].Quantity)
	assert.Equal(t, 1, items[2].Quantity)
}

func TestOrderItemsNonArray(t *testing.T) {
	var o Order
	require.NoError(t, json.Unmarshal([]byte(`{"id":"ORD001","items":"Adobo"}`), &o))
	assert.Empty(t, o.Items)

	require.NoError(t, json.Unmarshal([]byte(`{"id":"ORD002"}`), &o))
	assert.Nil(t, o.Items)
}

func TestOrdinalAcceptsStrings(t *testing.T) {
	var it MenuItem
	require.NoError(t, json.Unmarshal([]byte(`{"id":"1","itemOrder":"3","categoryOrder":"beef"}`), &it))
	assert.Equal(t, Ordinal(3), it.ItemOrder)
	assert.Equal(t, Ordinal(0), it.CategoryOrder)

	require.NoError(t, json.Unmarshal([]byte(`{"id":"1","itemOrder":5}`), &it))
	assert.Equal(t, Ordinal(5), it.ItemOrder)
}

func TestOrderCloneIsDeep(t *testing.T) {
	table := "4"
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	o := Order{ID: "ORD001", Table: &table, Items: OrderItems{{Name: "Adobo", Quantity: 2}}}
	o.MarkPaid(now)

	c := o.Clone()
	c.Items[0].Quantity = 9
	*c.Table = "5"
	*c.PaidAt = now.Add(time.Hour)

	assert.Equal(t, 2, o.Items[0].Quantity)
	assert.Equal(t, "4", *o.Table)
	assert.True(t, o.PaidAt.Equal(now))
}

func TestPaymentRoundTrip(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	o := Order{ID: "ORD001", Items: OrderItems{{Name: "Adobo", Quantity: 2}}}
	before, err := json.Marshal(o)
	require.NoError(t, err)

	o.MarkPaid(now)
	assert.True(t, o.IsPaid)
	assert.Equal(t, StatusPaid, o.Status)

	o.ClearPayment()
	after, err := json.Marshal(o)
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
}

func TestPriceMarshalsAsNumber(t *testing.T) {
	b, err := json.Marshal(MenuItem{ID: "1", Name: "Adobo", Price: decimal.RequireFromString("120.50")})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"price":120.5`)
}

func TestLinkCategories(t *testing.T) {
	m := Menu{
		Categories: []Category{{ID: "c1", Name: "BEEF", Order: 2}},
		Items: []MenuItem{
			{ID: "i1", Category: "BEEF"},
			{ID: "i2", Category: "GONE"},
		},
	}
	m.LinkCategories()
	assert.Equal(t, "c1", m.Items[0].CategoryID)
	assert.Equal(t, Ordinal(2), m.Items[0].CategoryOrder)
	assert.Empty(t, m.Items[1].CategoryID)
}
