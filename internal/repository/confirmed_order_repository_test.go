package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"phone_orders/internal/migrations"
	"phone_orders/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newArchive(t *testing.T) ConfirmedOrderRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "archive.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, migrations.RunMigrations(db, false))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewConfirmedOrderRepository(db)
}

func archived(number string, at time.Time) *models.ConfirmedOrder {
	o := models.NewOrder("call-"+number, at)
	o.CustomerName = "Alex"
	o.Items = append(o.Items,
		models.OrderItem{MenuItemID: "meal-4", Name: "Doner Kebab Meal", Quantity: 2, Price: 13.5},
		models.OrderItem{MenuItemID: "meal-7", Name: "Doner Wrap Meal", Quantity: 1, Price: 11, Notes: "no onion"},
	)
	o.Recalculate()
	c := models.NewConfirmedOrder(number, "retell", "20 minutes", o, at)
	return &c
}

func TestConfirmedOrderCreateAndGet(t *testing.T) {
	repo := newArchive(t)
	ctx := context.Background()
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	order := archived("ORD-1", at)
	require.NoError(t, repo.Create(ctx, order))
	assert.NotZero(t, order.ID)

	got, err := repo.GetByOrderNumber(ctx, "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, "Alex", got.CustomerName)
	assert.Equal(t, "pickup", got.OrderType)
	assert.InDelta(t, 38.0, got.TotalAmount, 1e-9)
	require.Len(t, got.Items, 2)
	assert.Equal(t, got.ID, got.Items[0].ConfirmedOrderID)
	assert.ElementsMatch(t, []string{"Doner Kebab Meal", "Doner Wrap Meal"}, []string{got.Items[0].ItemName, got.Items[1].ItemName})
}

func TestConfirmedOrderGetMissing(t *testing.T) {
	repo := newArchive(t)

	_, err := repo.GetByOrderNumber(context.Background(), "ORD-404")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestConfirmedOrderNumbersAreUnique(t *testing.T) {
	repo := newArchive(t)
	ctx := context.Background()
	at := time.Now().UTC()

	require.NoError(t, repo.Create(ctx, archived("ORD-1", at)))
	assert.Error(t, repo.Create(ctx, archived("ORD-1", at)))
}

func TestConfirmedOrderListNewestFirst(t *testing.T) {
	repo := newArchive(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for i, number := range []string{"ORD-1", "ORD-2", "ORD-3"} {
		require.NoError(t, repo.Create(ctx, archived(number, base.Add(time.Duration(i)*time.Minute))))
	}

	orders, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "ORD-3", orders[0].OrderNumber)
	assert.Equal(t, "ORD-2", orders[1].OrderNumber)
	assert.Len(t, orders[0].Items, 2)

	all, err := repo.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
