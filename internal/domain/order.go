package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pendiente"
	OrderStatusPaid      OrderStatus = "pagada"
	OrderStatusShipped   OrderStatus = "enviada"
	OrderStatusDelivered OrderStatus = "entregada"
	OrderStatusCancelled OrderStatus = "cancelada"
)

// Order is the persisted order header. Immutable once created except for
// status transitions; created atomically with its items.
type Order struct {
	ID              int64
	UserID          int64
	Status          OrderStatus
	Subtotal        decimal.Decimal
	TaxAmount       decimal.Decimal
	ShippingAmount  decimal.Decimal
	Total           decimal.Decimal
	PaymentMethod   string
	ShippingName    string
	ShippingAddress string
	City            string
	PostalCode      string
	Phone           string
	Country         string
	CouponCode      string
	CreatedAt       time.Time
	Items           []OrderItem
}

// OrderItem is a frozen line of an order. UnitPriceAtPurchase is the
// discounted price at order time and is never recomputed from the live
// product.
type OrderItem struct {
	OrderID             int64
	ProductID           int64
	Quantity            int32
	UnitPriceAtPurchase decimal.Decimal
	Category            string
}
