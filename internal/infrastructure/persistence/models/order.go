package models

import (
	"github.com/bookstore/backend/internal/domain/order"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order domain entity.
type OrderModel struct {
	BaseModel
	CustomerName string            `gorm:"type:varchar(200);not null"`
	TotalAmount  decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	Status       order.OrderStatus `gorm:"type:varchar(20);not null;index:idx_orders_status_created_at,priority:1"`
	Items        []OrderItemModel  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel is the persistence model for an order line item.
// ProductName is kept denormalized: it is the join key the ranking
// queries group on, matching the order documents as placed.
type OrderItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null;index"`
	Quantity    int64           `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain Order entity.
func (m *OrderModel) ToDomain() *order.Order {
	items := make([]order.LineItem, len(m.Items))
	for i, it := range m.Items {
		items[i] = order.LineItem{
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		}
	}
	return &order.Order{
		ID:           m.ID,
		CustomerName: m.CustomerName,
		TotalAmount:  m.TotalAmount,
		Status:       m.Status,
		Items:        items,
		CreatedAt:    m.CreatedAt,
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order entity.
func OrderModelFromDomain(o *order.Order) *OrderModel {
	m := &OrderModel{
		CustomerName: o.CustomerName,
		TotalAmount:  o.TotalAmount,
		Status:       o.Status,
	}
	m.ID = o.ID
	m.CreatedAt = o.CreatedAt
	m.UpdatedAt = o.CreatedAt
	m.Items = make([]OrderItemModel, len(o.Items))
	for i, it := range o.Items {
		m.Items[i] = OrderItemModel{
			ID:          uuid.New(),
			OrderID:     o.ID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		}
	}
	return m
}
