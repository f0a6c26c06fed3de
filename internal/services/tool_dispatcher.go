package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	ToolGetMenu         = "get_menu"
	ToolAddToOrder      = "add_to_order"
	ToolRemoveFromOrder = "remove_from_order"
	ToolGetOrderTotal   = "get_order_total"
	ToolConfirmOrder    = "confirm_order"
)

const internalFailureMessage = "Sorry, something went wrong on our side. Please try again."

// ToolInvocation is one function call issued by a voice platform, already
// stripped of its vendor envelope.
type ToolInvocation struct {
	ID     string
	CallID string
	Tool   string
	Args   map[string]any
}

// ToolError is returned in place of a result when a tool cannot run.
type ToolError struct {
	Error string `json:"error"`
}

type ToolDispatcher struct {
	orders OrderService
}

func NewToolDispatcher(orders OrderService) *ToolDispatcher {
	return &ToolDispatcher{orders: orders}
}

// Dispatch runs a single tool and always returns a JSON-serializable value.
func (d *ToolDispatcher) Dispatch(ctx context.Context, inv ToolInvocation) (result any) {
	logger := log.With().Str("call_id", inv.CallID).Str("tool", inv.Tool).Logger()

	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("tool execution panicked")
			result = ToolError{Error: internalFailureMessage}
		}
	}()

	logger.Info().Interface("args", inv.Args).Msg("tool called")

	var err error
	switch inv.Tool {
	case ToolGetMenu:
		result = d.orders.GetMenu(ctx)
	case ToolAddToOrder:
		result, err = d.orders.AddItem(ctx, inv.CallID, AddItemRequest{
			Item:     StringArg(inv.Args, "item"),
			Quantity: IntArg(inv.Args, "quantity"),
			Notes:    StringArg(inv.Args, "notes"),
		})
	case ToolRemoveFromOrder:
		result, err = d.orders.RemoveItem(ctx, inv.CallID, StringArg(inv.Args, "item"))
	case ToolGetOrderTotal:
		result, err = d.orders.GetTotal(ctx, inv.CallID)
	case ToolConfirmOrder:
		result, err = d.orders.Confirm(ctx, inv.CallID, ConfirmRequest{
			CustomerName:    StringArg(inv.Args, "customer_name"),
			PickupTime:      StringArg(inv.Args, "pickup_time"),
			OrderType:       StringArg(inv.Args, "order_type"),
			DeliveryAddress: StringArg(inv.Args, "delivery_address"),
			PhoneNumber:     StringArg(inv.Args, "phone_number"),
		})
	default:
		logger.Warn().Msg("unknown tool")
		return ToolError{Error: fmt.Sprintf("Unknown function: %s", inv.Tool)}
	}

	if err != nil {
		logger.Error().Err(err).Msg("tool execution failed")
		return ToolError{Error: internalFailureMessage}
	}
	return result
}

func StringArg(args map[string]any, key string) string {
	switch v := args[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case nil:
		return ""
	case fmt.Stringer:
		return strings.TrimSpace(v.String())
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// IntArg accepts JSON numbers, numeric strings, and Go integers. Anything else yields 0.
func IntArg(args map[string]any, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(math.Round(v))
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return int(math.Round(f))
		}
	case int:
		return v
	case int64:
		return int(v)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return int(math.Round(f))
		}
	}
	return 0
}
