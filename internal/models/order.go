package models

import (
	"time"

	"gorm.io/gorm"
)

type OrderType string

const (
	OrderPickup   OrderType = "pickup"
	OrderDelivery OrderType = "delivery"
)

// Order is the pending, per-call aggregate. Total is derived from Items by Recalculate.
type Order struct {
	CallID          string      `json:"callId"`
	Items           []OrderItem `json:"items"`
	Total           float64     `json:"total"`
	CustomerName    string      `json:"customerName,omitempty"`
	PickupTime      string      `json:"pickupTime,omitempty"`
	OrderType       OrderType   `json:"orderType,omitempty"`
	DeliveryAddress string      `json:"deliveryAddress,omitempty"`
	PhoneNumber     string      `json:"phoneNumber,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

func NewOrder(callID string, now time.Time) *Order {
	return &Order{
		CallID:    callID,
		Items:     []OrderItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (o *Order) Recalculate() {
	total := 0.0
	for _, item := range o.Items {
		total += item.LineTotal()
	}
	o.Total = total
}

func (o *Order) IsEmpty() bool {
	return len(o.Items) == 0
}

// Clone returns a deep copy so stores never share item slices with callers.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	cp := *o
	cp.Items = make([]OrderItem, len(o.Items))
	copy(cp.Items, o.Items)
	return &cp
}

// ConfirmedOrder is a finalized order as archived after confirm_order
type ConfirmedOrder struct {
	ID              uint                 `json:"id" gorm:"primaryKey"`
	OrderNumber     string               `json:"order_number" gorm:"unique;not null"`
	CallID          string               `json:"call_id" gorm:"index;not null"`
	Platform        string               `json:"platform" gorm:"not null"`
	CustomerName    string               `json:"customer_name" gorm:"not null"`
	CustomerPhone   string               `json:"customer_phone"`
	OrderType       string               `json:"order_type" gorm:"default:'pickup'"`
	DeliveryAddress string               `json:"delivery_address" gorm:"type:text"`
	ReadyIn         string               `json:"ready_in"`
	TotalAmount     float64              `json:"total_amount" gorm:"not null"`
	Items           []ConfirmedOrderItem `json:"items" gorm:"foreignKey:ConfirmedOrderID"`
	ConfirmedAt     time.Time            `json:"confirmed_at" gorm:"not null"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
	DeletedAt       gorm.DeletedAt       `json:"deleted_at" gorm:"index"`
}

// NewConfirmedOrder snapshots a finalized pending order into its archived form.
func NewConfirmedOrder(orderNumber, platform, readyIn string, o *Order, at time.Time) ConfirmedOrder {
	items := make([]ConfirmedOrderItem, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, ConfirmedOrderItem{
			MenuItemID: item.MenuItemID,
			ItemName:   item.Name,
			Quantity:   item.Quantity,
			UnitPrice:  item.Price,
			TotalPrice: item.LineTotal(),
			Notes:      item.Notes,
		})
	}

	orderType := o.OrderType
	if orderType == "" {
		orderType = OrderPickup
	}

	return ConfirmedOrder{
		OrderNumber:     orderNumber,
		CallID:          o.CallID,
		Platform:        platform,
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.PhoneNumber,
		OrderType:       string(orderType),
		DeliveryAddress: o.DeliveryAddress,
		ReadyIn:         readyIn,
		TotalAmount:     o.Total,
		Items:           items,
		ConfirmedAt:     at,
	}
}
