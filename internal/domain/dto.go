package domain

import "github.com/shopspring/decimal"

type CreateOrderRequest struct {
	OrderType            string          `json:"orderType" validate:"required,oneof=dine-in pick-up"`
	CustomerName         string          `json:"customerName" validate:"required"`
	Table                *string         `json:"table,omitempty"`
	ContactNumber        *string         `json:"contactNumber,omitempty"`
	Price                decimal.Decimal `json:"price"`
	Items                OrderItems      `json:"items" validate:"required,min=1"`
	AdditionalInfo       string          `json:"additionalInfo,omitempty"`
	PaymentMethod        string          `json:"paymentMethod,omitempty"`
	GCashReferenceNumber string          `json:"gcashReferenceNumber,omitempty"`
}

// OrderIDRequest is the body of every lifecycle transition.
type OrderIDRequest struct {
	OrderID string `json:"orderId"`
}

type OrderActionResponse struct {
	Message string `json:"message"`
	Order   *Order `json:"order,omitempty"`
}

type OrderView struct {
	Order Order `json:"order"`
	Stage Stage `json:"stage"`
}

type MenuItemInput struct {
	Name        string          `json:"name" validate:"required"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category" validate:"required"`
	Description string          `json:"description,omitempty"`
	Image       string          `json:"image,omitempty"`
	IsAvailable *bool           `json:"isAvailable,omitempty"`
}

// MenuItemPatch only touches the fields that are set.
type MenuItemPatch struct {
	Name        *string          `json:"name,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Description *string          `json:"description,omitempty"`
	Image       *string          `json:"image,omitempty"`
	IsAvailable *bool            `json:"isAvailable,omitempty"`
	ItemOrder   *int             `json:"itemOrder,omitempty"`
}

type CategoryInput struct {
	Name string `json:"name" validate:"required"`
}

type CategoryPatch struct {
	Name  *string `json:"name,omitempty"`
	Order *int    `json:"order,omitempty"`
	// OldCategoryName lets older clients name the items to rewrite.
	OldCategoryName string `json:"oldCategoryName,omitempty"`
}

// ReplaceMenuRequest replaces only the parts that are present.
type ReplaceMenuRequest struct {
	Items      []MenuItem `json:"items"`
	Categories []Category `json:"categories"`
}

type ReorderItemsRequest struct {
	Category string   `json:"category" validate:"required"`
	IDs      []string `json:"ids" validate:"required"`
}

type ReorderCategoriesRequest struct {
	IDs []string `json:"ids" validate:"required"`
}

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type TopItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Category string `json:"category"`
}

type BestsellerUpdateResponse struct {
	Success  bool      `json:"success"`
	Message  string    `json:"message"`
	TopItems []TopItem `json:"topItems"`
}
