package agent

// Tool names as exposed to the voice platforms. They must match the
// dispatcher's switch in the services package.
const (
	ToolGetMenu         = "get_menu"
	ToolAddToOrder      = "add_to_order"
	ToolRemoveFromOrder = "remove_from_order"
	ToolGetOrderTotal   = "get_order_total"
	ToolConfirmOrder    = "confirm_order"
)

type Property struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Enum        []string `json:"enum,omitempty"`
}

// Parameters is a JSON-schema object. Properties is always non-nil so that
// parameterless tools serialize as {"type":"object","properties":{}}.
type Parameters struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required,omitempty"`
}

type ToolDefinition struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Parameters  Parameters `json:"parameters"`
}

func noParameters() Parameters {
	return Parameters{Type: "object", Properties: map[string]Property{}}
}

// Tools returns the tool catalog every provisioner renders into its platform's document.
func Tools() []ToolDefinition {
	return []ToolDefinition{
		{
			Name:        ToolGetMenu,
			Description: "Get the restaurant menu with all available items and prices. Call this when the customer asks what's available or about a specific item.",
			Parameters:  noParameters(),
		},
		{
			Name:        ToolAddToOrder,
			Description: "Add an item to the customer's order. Use this each time the customer wants to order something.",
			Parameters: Parameters{
				Type: "object",
				Properties: map[string]Property{
					"item":     {Type: "string", Description: "The name of the menu item to add"},
					"quantity": {Type: "number", Description: "How many of this item (default 1)"},
					"notes":    {Type: "string", Description: "Special instructions or modifications"},
				},
				Required: []string{"item", "quantity"},
			},
		},
		{
			Name:        ToolRemoveFromOrder,
			Description: "Remove an item from the customer's order. Use this when the customer changes their mind about something they already ordered.",
			Parameters: Parameters{
				Type: "object",
				Properties: map[string]Property{
					"item": {Type: "string", Description: "The name of the item to remove"},
				},
				Required: []string{"item"},
			},
		},
		{
			Name:        ToolGetOrderTotal,
			Description: "Get the current order summary showing all items and the total price. Use this when the customer asks for their total or wants to review their order.",
			Parameters:  noParameters(),
		},
		{
			Name:        ToolConfirmOrder,
			Description: "Finalize and confirm the order. Use this only after the customer has confirmed they're ready to place the order.",
			Parameters: Parameters{
				Type: "object",
				Properties: map[string]Property{
					"customer_name":    {Type: "string", Description: "The customer's name for the order"},
					"pickup_time":      {Type: "string", Description: "When the customer wants to pick up (optional)"},
					"order_type":       {Type: "string", Description: "Whether the order is for pickup or delivery (default pickup)", Enum: []string{"pickup", "delivery"}},
					"delivery_address": {Type: "string", Description: "Where to deliver the order, required for delivery"},
					"phone_number":     {Type: "string", Description: "A callback number for the order (optional)"},
				},
				Required: []string{"customer_name"},
			},
		},
	}
}
