package services

import (
	"context"

	"phone_orders/internal/models"
)

// KitchenPublisher forwards confirmed orders to the kitchen.
type KitchenPublisher interface {
	PublishConfirmed(ctx context.Context, order models.ConfirmedOrder) error
}

// OrderArchive persists confirmed orders.
type OrderArchive interface {
	Create(ctx context.Context, order *models.ConfirmedOrder) error
}

type noopKitchenPublisher struct{}

func (noopKitchenPublisher) PublishConfirmed(context.Context, models.ConfirmedOrder) error {
	return nil
}

type noopOrderArchive struct{}

func (noopOrderArchive) Create(context.Context, *models.ConfirmedOrder) error {
	return nil
}
