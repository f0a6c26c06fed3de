package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderItem is a line of a pending order. Name and Price are snapshots taken when the item was added.
type OrderItem struct {
	MenuItemID string  `json:"menuItemId"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	Price      float64 `json:"price"`
	Notes      string  `json:"notes,omitempty"`
}

func (i OrderItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

// ConfirmedOrderItem is the archived form of an OrderItem
type ConfirmedOrderItem struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	ConfirmedOrderID uint           `json:"confirmed_order_id" gorm:"not null;index"`
	MenuItemID       string         `json:"menu_item_id" gorm:"not null"`
	ItemName         string         `json:"item_name" gorm:"not null"`
	Quantity         int            `json:"quantity" gorm:"not null"`
	UnitPrice        float64        `json:"unit_price" gorm:"not null"`
	TotalPrice       float64        `json:"total_price" gorm:"not null"`
	Notes            string         `json:"notes" gorm:"type:text"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}
