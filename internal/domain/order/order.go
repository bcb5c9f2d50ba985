package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the fulfillment status of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusConfirmed OrderStatus = "CONFIRMED"
	StatusShipping  OrderStatus = "SHIPPING"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// Order is one entry in the append-only order log. Once delivered it is
// immutable for reporting purposes: revenue and sales figures are always
// reproducible against the frozen delivered state.
type Order struct {
	ID           uuid.UUID       `json:"id"`
	CustomerName string          `json:"customer_name"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Status       OrderStatus     `json:"status"`
	Items        []LineItem      `json:"items"`
	CreatedAt    time.Time       `json:"created_at"`
}

// LineItem is a single ordered product. ProductName is the join key to the
// catalog; it is not a stable identifier and breaks under renames, which the
// storefront accepts for compatibility with existing order documents.
type LineItem struct {
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// IsDelivered reports whether this order counts toward revenue and sales
// rankings. Only the delivered status does; every other status is excluded.
func (o *Order) IsDelivered() bool {
	return o.Status == StatusDelivered
}
