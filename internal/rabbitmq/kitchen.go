package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"phone_orders/internal/models"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const KitchenExchange = "orders_topic"

type Publisher interface {
	Publish(ctx context.Context, exchange, key string, msg amqp.Publishing) error
}

type TicketItem struct {
	MenuItemID string  `json:"menu_item_id"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	Notes      string  `json:"notes,omitempty"`
}

// KitchenTicket is the message body consumed by the kitchen.
type KitchenTicket struct {
	OrderNumber     string       `json:"order_number"`
	Platform        string       `json:"platform"`
	CustomerName    string       `json:"customer_name"`
	CustomerPhone   string       `json:"customer_phone,omitempty"`
	OrderType       string       `json:"order_type"`
	DeliveryAddress string       `json:"delivery_address,omitempty"`
	ReadyIn         string       `json:"ready_in"`
	TotalAmount     float64      `json:"total_amount"`
	Items           []TicketItem `json:"items"`
	ConfirmedAt     time.Time    `json:"confirmed_at"`
}

func NewKitchenTicket(order models.ConfirmedOrder) KitchenTicket {
	items := make([]TicketItem, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, TicketItem{
			MenuItemID: it.MenuItemID,
			Name:       it.ItemName,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			Notes:      it.Notes,
		})
	}
	return KitchenTicket{
		OrderNumber:     order.OrderNumber,
		Platform:        order.Platform,
		CustomerName:    order.CustomerName,
		CustomerPhone:   order.CustomerPhone,
		OrderType:       order.OrderType,
		DeliveryAddress: order.DeliveryAddress,
		ReadyIn:         order.ReadyIn,
		TotalAmount:     order.TotalAmount,
		Items:           items,
		ConfirmedAt:     order.ConfirmedAt,
	}
}

type KitchenPublisher struct {
	pub      Publisher
	exchange string
	newID    func() string
}

func NewKitchenPublisher(pub Publisher, exchange string) *KitchenPublisher {
	if exchange == "" {
		exchange = KitchenExchange
	}
	return &KitchenPublisher{pub: pub, exchange: exchange, newID: uuid.NewString}
}

// RoutingKey is kitchen.<order_type>, so pickup and delivery can be bound separately.
func RoutingKey(orderType string) string {
	if orderType == "" {
		orderType = string(models.OrderPickup)
	}
	return "kitchen." + orderType
}

func (p *KitchenPublisher) PublishConfirmed(ctx context.Context, order models.ConfirmedOrder) error {
	body, err := json.Marshal(NewKitchenTicket(order))
	if err != nil {
		return fmt.Errorf("marshal kitchen ticket: %w", err)
	}

	msg := amqp.Publishing{
		DeliveryMode:  amqp.Persistent,
		ContentType:   "application/json",
		MessageId:     p.newID(),
		CorrelationId: order.OrderNumber,
		Timestamp:     order.ConfirmedAt,
		Headers: amqp.Table{
			"platform":   order.Platform,
			"order_type": order.OrderType,
		},
		Body: body,
	}
	if err := p.pub.Publish(ctx, p.exchange, RoutingKey(order.OrderType), msg); err != nil {
		return fmt.Errorf("publish kitchen ticket %s: %w", order.OrderNumber, err)
	}
	return nil
}
