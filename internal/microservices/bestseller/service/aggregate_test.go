package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-ordering/internal/domain"
)

func testMenu() domain.Menu {
	return domain.Menu{Items: []domain.MenuItem{
		{ID: "1", Name: "Adobo", Category: "Mains"},
		{ID: "2", Name: "Sinigang", Category: "Soups"},
		{ID: "3", Name: "Coke", Category: domain.DrinksCategory},
		{ID: "4", Name: "Lumpia", Category: "Starters"},
		{ID: "5", Name: "Pancit", Category: "Noodles"},
		{ID: "6", Name: "Leche Flan", Category: "Desserts"},
		{ID: "7", Name: "Halo-Halo", Category: "Desserts"},
	}}
}

func TestAggregateAcceptsEveryItemShape(t *testing.T) {
	var orders []domain.Order
	raw := `[
		{"id": "ORD001", "items": [{"name": "Adobo", "quantity": 2}]},
		{"id": "ORD002", "items": [{"id": "1", "quantity": 3}]},
		{"id": "ORD003", "items": ["Adobo", "Unknown", {"id": "99", "quantity": 4}]}
	]`
	require.NoError(t, json.Unmarshal([]byte(raw), &orders))

	entries, processed := Aggregate(testMenu(), orders)
	require.Len(t, entries, 7)
	assert.Equal(t, "Adobo", entries[0].Name)
	assert.Equal(t, 6, entries[0].Quantity)
	assert.Equal(t, 3, processed)

	// zero counts keep menu order
	assert.Equal(t, "Sinigang", entries[1].Name)
	assert.Equal(t, 0, entries[1].Quantity)
}

func TestAggregateNamePrecedesID(t *testing.T) {
	orders := []domain.Order{{Items: domain.OrderItems{{ID: "2", Name: "Adobo", Quantity: 1}}}}
	entries, _ := Aggregate(testMenu(), orders)
	assert.Equal(t, "Adobo", entries[0].Name)
	assert.Equal(t, 1, entries[0].Quantity)
}

func TestTopSkipsDrinksAndUnsold(t *testing.T) {
	orders := []domain.Order{{Items: domain.OrderItems{
		{Name: "Coke", Quantity: 50},
		{Name: "Adobo", Quantity: 5},
		{Name: "Lumpia", Quantity: 2},
	}}}
	entries, _ := Aggregate(testMenu(), orders)
	top := Top(entries, TopCount)
	require.Len(t, top, 2)
	assert.Equal(t, "Adobo", top[0].Name)
	assert.Equal(t, "Lumpia", top[1].Name)

	orders[0].Items = append(orders[0].Items,
		domain.OrderItem{Name: "Sinigang", Quantity: 1},
		domain.OrderItem{Name: "Pancit", Quantity: 1},
		domain.OrderItem{Name: "Leche Flan", Quantity: 1},
		domain.OrderItem{Name: "Halo-Halo", Quantity: 1},
	)
	entries, _ = Aggregate(testMenu(), orders)
	assert.Len(t, Top(entries, TopCount), 5)
}

func TestFlag(t *testing.T) {
	m := testMenu()
	m.Items[2].IsBestseller = true
	Flag(&m, []domain.BestsellerEntry{{ID: "1"}, {ID: "4"}})
	for _, it := range m.Items {
		assert.Equal(t, it.ID == "1" || it.ID == "4", it.IsBestseller, it.Name)
	}
}

func TestTopSkipsImportedLowercaseDrinks(t *testing.T) {
	entries := []domain.BestsellerEntry{
		{ID: "c", Name: "Coke", Category: "drinks", Quantity: 9},
		{ID: "a", Name: "Adobo", Category: "mains", Quantity: 1},
	}
	top := Top(entries, TopCount)
	require.Len(t, top, 1)
	assert.Equal(t, "a", top[0].ID)
}

func TestAggregateHugeQuantitiesKeepRanking(t *testing.T) {
	var orders []domain.Order
	require.NoError(t, json.Unmarshal([]byte(`[
		{"id": "ORD001", "items": [{"name": "Adobo", "quantity": 9e18}]},
		{"id": "ORD002", "items": [{"name": "Adobo", "quantity": 9e18}, {"name": "Lumpia", "quantity": 1}]}
	]`), &orders))

	entries, _ := Aggregate(testMenu(), orders)
	assert.Equal(t, "Adobo", entries[0].Name)
	assert.Positive(t, entries[0].Quantity)
	assert.Equal(t, "Lumpia", entries[1].Name)
}
