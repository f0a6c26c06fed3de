package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"phone_orders/internal/menu"
	"phone_orders/internal/models"
	"phone_orders/internal/repository"

	"github.com/rs/zerolog/log"
)

const (
	defaultLargeQuantityThreshold = 10
	defaultPickupReadyIn          = "20 minutes"
	defaultDeliveryReadyIn        = "45 minutes"
	sideEffectTimeout             = 5 * time.Second
)

type OrderService interface {
	GetMenu(ctx context.Context) MenuResult
	AddItem(ctx context.Context, callID string, req AddItemRequest) (AddItemResult, error)
	RemoveItem(ctx context.Context, callID, itemName string) (RemoveItemResult, error)
	GetTotal(ctx context.Context, callID string) (TotalResult, error)
	Confirm(ctx context.Context, callID string, req ConfirmRequest) (ConfirmResult, error)
	// Discard drops any pending order for the call and reports whether one existed.
	Discard(ctx context.Context, callID string) (bool, error)
	SweepAbandoned(ctx context.Context) (int, error)
	RunJanitor(ctx context.Context, interval time.Duration) error
}

type OrderConfig struct {
	Platform               string
	LargeQuantityThreshold int
	// IdleTTL is how long an untouched pending order survives the janitor. Zero disables sweeping.
	IdleTTL         time.Duration
	PickupReadyIn   string
	DeliveryReadyIn string
	Now             func() time.Time
}

type AddItemRequest struct {
	Item     string
	Quantity int
	Notes    string
}

type ConfirmRequest struct {
	CustomerName    string
	PickupTime      string
	OrderType       string
	DeliveryAddress string
	PhoneNumber     string
}

type MenuResult struct {
	Menu  string            `json:"menu"`
	Items []models.MenuItem `json:"items"`
}

type AddItemResult struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	CurrentTotal string `json:"currentTotal,omitempty"`
	ItemCount    int    `json:"itemCount,omitempty"`
}

type RemoveItemResult struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	CurrentTotal string `json:"currentTotal"`
	ItemCount    int    `json:"itemCount"`
}

type TotalResult struct {
	Message string             `json:"message,omitempty"`
	Summary string             `json:"summary,omitempty"`
	Items   []models.OrderItem `json:"items"`
	Total   string             `json:"total"`
}

type ConfirmResult struct {
	Success         bool   `json:"success"`
	Message         string `json:"message"`
	OrderID         string `json:"orderId,omitempty"`
	CustomerName    string `json:"customerName,omitempty"`
	OrderType       string `json:"orderType,omitempty"`
	PickupTime      string `json:"pickupTime,omitempty"`
	DeliveryAddress string `json:"deliveryAddress,omitempty"`
	Total           string `json:"total,omitempty"`
}

type orderService struct {
	catalog *menu.Catalog
	store   repository.OrderStore
	archive OrderArchive
	kitchen KitchenPublisher
	cfg     OrderConfig
	locks   *callLocker
	ids     *orderIDGenerator
}

// NewOrderService builds the order core. archive and kitchen may be nil.
func NewOrderService(catalog *menu.Catalog, store repository.OrderStore, archive OrderArchive, kitchen KitchenPublisher, cfg OrderConfig) OrderService {
	if archive == nil {
		archive = noopOrderArchive{}
	}
	if kitchen == nil {
		kitchen = noopKitchenPublisher{}
	}
	if cfg.LargeQuantityThreshold <= 0 {
		cfg.LargeQuantityThreshold = defaultLargeQuantityThreshold
	}
	if cfg.PickupReadyIn == "" {
		cfg.PickupReadyIn = defaultPickupReadyIn
	}
	if cfg.DeliveryReadyIn == "" {
		cfg.DeliveryReadyIn = defaultDeliveryReadyIn
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &orderService{
		catalog: catalog,
		store:   store,
		archive: archive,
		kitchen: kitchen,
		cfg:     cfg,
		locks:   newCallLocker(),
		ids:     newOrderIDGenerator(cfg.Now),
	}
}

func (s *orderService) GetMenu(context.Context) MenuResult {
	return MenuResult{
		Menu:  s.catalog.Format(),
		Items: s.catalog.Items(),
	}
}

func (s *orderService) AddItem(ctx context.Context, callID string, req AddItemRequest) (AddItemResult, error) {
	quantity := req.Quantity
	if quantity < 1 {
		quantity = 1
	}

	if quantity > s.cfg.LargeQuantityThreshold {
		log.Warn().
			Str("call_id", callID).
			Str("item", req.Item).
			Int("quantity", quantity).
			Msg("large quantity requested")
	}

	menuItem, ok := s.catalog.Lookup(req.Item)
	if !ok {
		return AddItemResult{
			Success: false,
			Message: fmt.Sprintf("Sorry, I couldn't find \"%s\" on our menu. Would you like to try a different item?", req.Item),
		}, nil
	}

	unlock := s.locks.Lock(callID)
	defer unlock()

	order, err := s.loadOrNew(ctx, callID)
	if err != nil {
		return AddItemResult{}, err
	}

	order.Items = append(order.Items, models.OrderItem{
		MenuItemID: menuItem.ID,
		Name:       menuItem.Name,
		Quantity:   quantity,
		Price:      menuItem.Price,
		Notes:      strings.TrimSpace(req.Notes),
	})
	order.Recalculate()
	order.UpdatedAt = s.cfg.Now()

	if err := s.store.Save(ctx, order); err != nil {
		return AddItemResult{}, fmt.Errorf("add item: %w", err)
	}

	return AddItemResult{
		Success:      true,
		Message:      fmt.Sprintf("Added %d %s to your order.", quantity, menuItem.Name),
		CurrentTotal: menu.FormatAmount(order.Total),
		ItemCount:    len(order.Items),
	}, nil
}

func (s *orderService) RemoveItem(ctx context.Context, callID, itemName string) (RemoveItemResult, error) {
	unlock := s.locks.Lock(callID)
	defer unlock()

	order, err := s.load(ctx, callID)
	if err != nil {
		return RemoveItemResult{}, err
	}
	if order == nil {
		return RemoveItemResult{
			Success:      false,
			Message:      fmt.Sprintf("I couldn't find \"%s\" in your order.", itemName),
			CurrentTotal: menu.FormatAmount(0),
		}, nil
	}

	idx := findOrderLine(order.Items, itemName)
	if idx < 0 {
		return RemoveItemResult{
			Success:      false,
			Message:      fmt.Sprintf("I couldn't find \"%s\" in your order.", itemName),
			CurrentTotal: menu.FormatAmount(order.Total),
			ItemCount:    len(order.Items),
		}, nil
	}

	removed := order.Items[idx]
	order.Items = append(order.Items[:idx], order.Items[idx+1:]...)
	order.Recalculate()
	order.UpdatedAt = s.cfg.Now()

	if err := s.store.Save(ctx, order); err != nil {
		return RemoveItemResult{}, fmt.Errorf("remove item: %w", err)
	}

	return RemoveItemResult{
		Success:      true,
		Message:      fmt.Sprintf("Removed %d %s from your order.", removed.Quantity, removed.Name),
		CurrentTotal: menu.FormatAmount(order.Total),
		ItemCount:    len(order.Items),
	}, nil
}

// findOrderLine prefers an exact name match, then falls back to the catalog matching rule.
func findOrderLine(items []models.OrderItem, itemName string) int {
	q := strings.ToLower(strings.TrimSpace(itemName))
	if q == "" {
		return -1
	}
	for i, item := range items {
		if strings.ToLower(item.Name) == q {
			return i
		}
	}
	for i, item := range items {
		if menu.Matches(models.MenuItem{Name: item.Name}, q) {
			return i
		}
	}
	return -1
}

func (s *orderService) GetTotal(ctx context.Context, callID string) (TotalResult, error) {
	unlock := s.locks.Lock(callID)
	defer unlock()

	order, err := s.load(ctx, callID)
	if err != nil {
		return TotalResult{}, err
	}
	if order == nil || order.IsEmpty() {
		return TotalResult{
			Message: "You haven't added anything to your order yet.",
			Items:   []models.OrderItem{},
			Total:   menu.FormatAmount(0),
		}, nil
	}

	return TotalResult{
		Summary: s.summarize(order),
		Items:   order.Items,
		Total:   menu.FormatAmount(order.Total),
	}, nil
}

func (s *orderService) summarize(order *models.Order) string {
	lines := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		line := fmt.Sprintf("%dx %s - %s", item.Quantity, item.Name, s.catalog.FormatMoney(item.LineTotal()))
		if item.Notes != "" {
			line += fmt.Sprintf(" (%s)", item.Notes)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, ", ")
}

func (s *orderService) Confirm(ctx context.Context, callID string, req ConfirmRequest) (ConfirmResult, error) {
	unlock := s.locks.Lock(callID)

	order, err := s.load(ctx, callID)
	if err != nil {
		unlock()
		return ConfirmResult{}, err
	}
	if order == nil || order.IsEmpty() {
		unlock()
		return ConfirmResult{
			Success: false,
			Message: "There's nothing in your order to confirm. Would you like to add something?",
		}, nil
	}

	orderType := parseOrderType(req.OrderType)
	address := strings.TrimSpace(req.DeliveryAddress)
	if orderType == models.OrderDelivery && address == "" {
		unlock()
		return ConfirmResult{
			Success: false,
			Message: "I'll need a delivery address before I can place a delivery order. Where should we deliver to?",
		}, nil
	}

	readyIn := strings.TrimSpace(req.PickupTime)
	if readyIn == "" {
		readyIn = s.cfg.PickupReadyIn
		if orderType == models.OrderDelivery {
			readyIn = s.cfg.DeliveryReadyIn
		}
	}

	order.CustomerName = strings.TrimSpace(req.CustomerName)
	order.PickupTime = readyIn
	order.OrderType = orderType
	order.DeliveryAddress = address
	order.PhoneNumber = strings.TrimSpace(req.PhoneNumber)

	orderID := s.ids.Next()
	confirmedAt := s.cfg.Now()

	if _, err := s.store.Delete(ctx, callID); err != nil {
		unlock()
		return ConfirmResult{}, fmt.Errorf("confirm order: %w", err)
	}
	unlock()

	confirmed := models.NewConfirmedOrder(orderID, s.cfg.Platform, readyIn, order, confirmedAt)
	log.Info().
		Str("call_id", callID).
		Str("order_id", orderID).
		Str("customer", order.CustomerName).
		Str("order_type", string(orderType)).
		Int("items", len(order.Items)).
		Float64("total", order.Total).
		Msg("order confirmed")
	s.recordConfirmed(ctx, &confirmed)

	total := menu.FormatAmount(order.Total)
	message := fmt.Sprintf("Your order has been confirmed. Order number %s. Total is %s. ", orderID, s.catalog.FormatMoney(order.Total))
	if orderType == models.OrderDelivery {
		message += fmt.Sprintf("It will be delivered to %s in about %s.", address, readyIn)
	} else {
		message += fmt.Sprintf("It will be ready for pickup in %s.", readyIn)
	}

	return ConfirmResult{
		Success:         true,
		Message:         message,
		OrderID:         orderID,
		CustomerName:    order.CustomerName,
		OrderType:       string(orderType),
		PickupTime:      readyIn,
		DeliveryAddress: address,
		Total:           total,
	}, nil
}

// recordConfirmed archives and publishes a confirmed order. The caller has already
// been told the order is placed, so failures are logged rather than returned.
func (s *orderService) recordConfirmed(ctx context.Context, confirmed *models.ConfirmedOrder) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()

	if err := s.archive.Create(ctx, confirmed); err != nil {
		log.Error().Err(err).Str("order_id", confirmed.OrderNumber).Msg("failed to archive confirmed order")
	}
	if err := s.kitchen.PublishConfirmed(ctx, *confirmed); err != nil {
		log.Error().Err(err).Str("order_id", confirmed.OrderNumber).Msg("failed to publish kitchen ticket")
	}
}

func parseOrderType(raw string) models.OrderType {
	if strings.EqualFold(strings.TrimSpace(raw), string(models.OrderDelivery)) {
		return models.OrderDelivery
	}
	return models.OrderPickup
}

func (s *orderService) Discard(ctx context.Context, callID string) (bool, error) {
	unlock := s.locks.Lock(callID)
	defer unlock()

	order, err := s.load(ctx, callID)
	if err != nil {
		return false, err
	}
	if order == nil {
		return false, nil
	}

	if _, err := s.store.Delete(ctx, callID); err != nil {
		return false, fmt.Errorf("discard order: %w", err)
	}
	if !order.IsEmpty() {
		log.Info().
			Str("call_id", callID).
			Int("items", len(order.Items)).
			Float64("total", order.Total).
			Msg("discarded unconfirmed order")
	}
	return true, nil
}

func (s *orderService) SweepAbandoned(ctx context.Context) (int, error) {
	if s.cfg.IdleTTL <= 0 {
		return 0, nil
	}
	removed, err := s.store.Sweep(ctx, s.cfg.Now().Add(-s.cfg.IdleTTL))
	if err != nil {
		return 0, fmt.Errorf("sweep abandoned orders: %w", err)
	}
	if removed > 0 {
		log.Info().Int("removed", removed).Msg("swept abandoned orders")
	}
	return removed, nil
}

// RunJanitor sweeps abandoned orders every interval until ctx is cancelled.
func (s *orderService) RunJanitor(ctx context.Context, interval time.Duration) error {
	if s.cfg.IdleTTL <= 0 || interval <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := s.SweepAbandoned(ctx); err != nil {
				log.Error().Err(err).Msg("janitor sweep failed")
			}
		}
	}
}

func (s *orderService) load(ctx context.Context, callID string) (*models.Order, error) {
	order, err := s.store.Get(ctx, callID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load order: %w", err)
	}
	return order, nil
}

func (s *orderService) loadOrNew(ctx context.Context, callID string) (*models.Order, error) {
	order, err := s.load(ctx, callID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		order = models.NewOrder(callID, s.cfg.Now())
	}
	return order, nil
}
