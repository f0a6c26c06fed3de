package repository

import (
	"context"
	"errors"

	"phone_orders/internal/models"

	"gorm.io/gorm"
)

type ConfirmedOrderRepository interface {
	Create(ctx context.Context, order *models.ConfirmedOrder) error
	GetByOrderNumber(ctx context.Context, orderNumber string) (*models.ConfirmedOrder, error)
	List(ctx context.Context, limit int) ([]models.ConfirmedOrder, error)
}

type confirmedOrderRepository struct {
	db *gorm.DB
}

func NewConfirmedOrderRepository(db *gorm.DB) ConfirmedOrderRepository {
	return &confirmedOrderRepository{db: db}
}

// Create inserts the order together with its items.
func (r *confirmedOrderRepository) Create(ctx context.Context, order *models.ConfirmedOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *confirmedOrderRepository) GetByOrderNumber(ctx context.Context, orderNumber string) (*models.ConfirmedOrder, error) {
	var order models.ConfirmedOrder
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("order_number = ?", orderNumber).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *confirmedOrderRepository) List(ctx context.Context, limit int) ([]models.ConfirmedOrder, error) {
	if limit <= 0 {
		limit = 50
	}
	var orders []models.ConfirmedOrder
	err := r.db.WithContext(ctx).
		Preload("Items").
		Order("confirmed_at DESC").
		Limit(limit).
		Find(&orders).Error
	return orders, err
}
