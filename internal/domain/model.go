package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices travel as plain JSON numbers, matching the stored menu files.
	decimal.MarshalJSONWithoutQuotes = true
}

const (
	OrderTypeDineIn = "dine-in"
	OrderTypePickUp = "pick-up"

	StatusPaid = "paid"

	// Items of this category never receive the bestseller tag.
	DrinksCategory = "Drinks"
)

type Stage string

const (
	StageOpen      Stage = "open"
	StagePaid      Stage = "paid"
	StageCompleted Stage = "completed"
)

// Stages lists the lifecycle stages from least to most advanced.
var Stages = []Stage{StageOpen, StagePaid, StageCompleted}

// Rank orders stages along the lifecycle; unknown stages rank lowest.
func (s Stage) Rank() int {
	switch s {
	case StageOpen:
		return 1
	case StagePaid:
		return 2
	case StageCompleted:
		return 3
	}
	return 0
}

type MenuItem struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Category      string          `json:"category"`
	CategoryID    string          `json:"categoryId,omitempty"`
	Description   string          `json:"description,omitempty"`
	Image         string          `json:"image,omitempty"`
	IsAvailable   bool            `json:"isAvailable"`
	ItemOrder     Ordinal         `json:"itemOrder"`
	CategoryOrder Ordinal         `json:"categoryOrder"`
	IsBestseller  bool            `json:"isBestseller"`
}

type Category struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Order Ordinal `json:"order"`
}

type Menu struct {
	Items       []MenuItem `json:"items"`
	Categories  []Category `json:"categories"`
	LastUpdated time.Time  `json:"lastUpdated"`
}

// CategoryByName returns the index of the named category or -1.
func (m *Menu) CategoryByName(name string) int {
	for i := range m.Categories {
		if m.Categories[i].Name == name {
			return i
		}
	}
	return -1
}

func (m *Menu) CategoryByID(id string) int {
	for i := range m.Categories {
		if m.Categories[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *Menu) ItemByID(id string) int {
	for i := range m.Items {
		if m.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// InCategory reports whether the item belongs to c, by id when the item
// carries one and by name for records written before category ids existed.
func (it *MenuItem) InCategory(c Category) bool {
	if it.CategoryID != "" {
		return it.CategoryID == c.ID
	}
	return it.Category == c.Name
}

// LinkCategories fills missing category ids and orders from category names.
func (m *Menu) LinkCategories() {
	for i := range m.Items {
		it := &m.Items[i]
		idx := -1
		if it.CategoryID != "" {
			idx = m.CategoryByID(it.CategoryID)
		}
		if idx < 0 {
			idx = m.CategoryByName(it.Category)
		}
		if idx < 0 {
			continue
		}
		it.CategoryID = m.Categories[idx].ID
		it.Category = m.Categories[idx].Name
		it.CategoryOrder = m.Categories[idx].Order
	}
}

type Order struct {
	ID                   string          `json:"id"`
	OrderType            string          `json:"orderType"`
	CustomerName         string          `json:"customerName"`
	Table                *string         `json:"table,omitempty"`
	ContactNumber        *string         `json:"contactNumber,omitempty"`
	TimeOfOrder          time.Time       `json:"timeOfOrder"`
	Price                decimal.Decimal `json:"price"`
	Items                OrderItems      `json:"items"`
	AdditionalInfo       string          `json:"additionalInfo,omitempty"`
	PaymentMethod        string          `json:"paymentMethod,omitempty"`
	GCashReferenceNumber string          `json:"gcashReferenceNumber,omitempty"`

	IsPaid bool       `json:"isPaid,omitempty"`
	Status string     `json:"status,omitempty"`
	PaidAt *time.Time `json:"paidAt,omitempty"`

	TimeCompleted *time.Time `json:"timeCompleted,omitempty"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
}

// Clone returns a copy that shares no slices or pointers with o.
func (o Order) Clone() Order {
	c := o
	c.Items = append(OrderItems(nil), o.Items...)
	c.Table = cloneString(o.Table)
	c.ContactNumber = cloneString(o.ContactNumber)
	c.PaidAt = cloneTime(o.PaidAt)
	c.TimeCompleted = cloneTime(o.TimeCompleted)
	c.CompletedAt = cloneTime(o.CompletedAt)
	return c
}

func (o *Order) MarkPaid(at time.Time) {
	o.IsPaid = true
	o.Status = StatusPaid
	o.PaidAt = &at
}

// ClearPayment drops the fields MarkPaid added.
func (o *Order) ClearPayment() {
	o.IsPaid = false
	o.Status = ""
	o.PaidAt = nil
}

func (o *Order) MarkCompleted(at time.Time) {
	done := at
	o.TimeCompleted = &at
	o.CompletedAt = &done
}

type OrderItem struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	Quantity int    `json:"quantity"`
}

// Collections is the full order book, one slice per stage.
type Collections struct {
	Orders          []Order `json:"orders"`
	PaidOrders      []Order `json:"paidOrders"`
	CompletedOrders []Order `json:"completedOrders"`
}

func (c *Collections) Stage(s Stage) []Order {
	switch s {
	case StageOpen:
		return c.Orders
	case StagePaid:
		return c.PaidOrders
	case StageCompleted:
		return c.CompletedOrders
	}
	return nil
}

// Contains reports whether id is present in any stage.
func (c *Collections) Contains(id string) bool {
	for _, s := range Stages {
		for _, o := range c.Stage(s) {
			if o.ID == id {
				return true
			}
		}
	}
	return false
}

type BestsellerEntry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Category string `json:"category,omitempty"`
}

type BestsellerData struct {
	Items       []BestsellerEntry `json:"items"`
	LastUpdated time.Time         `json:"lastUpdated"`
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
