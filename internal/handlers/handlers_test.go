package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"phone_orders/internal/agent"
	"phone_orders/internal/config"
	"phone_orders/internal/menu"
	"phone_orders/internal/models"
	"phone_orders/internal/repository"
	"phone_orders/internal/services"
	"phone_orders/pkg/telnyx"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeCalls struct {
	mu       sync.Mutex
	answered []string
	started  []telnyx.StartAIAssistantRequest
	err      error
	panics   bool
}

func (f *fakeCalls) AnswerCall(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panics {
		panic("boom")
	}
	f.answered = append(f.answered, id)
	return f.err
}

func (f *fakeCalls) StartAIAssistant(_ context.Context, _ string, req telnyx.StartAIAssistantRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = append(f.started, req)
	return f.err
}

type fixture struct {
	engine *gin.Engine
	store  repository.OrderStore
	calls  *fakeCalls
}

func newFixture(t *testing.T, platform config.Platform) *fixture {
	t.Helper()
	store := repository.NewMemoryOrderStore()
	orders := services.NewOrderService(menu.NewCatalog(menu.DefaultItems(), "€"), store, nil, nil, services.OrderConfig{Platform: string(platform)})
	calls := &fakeCalls{}
	profile := config.Profile{RestaurantName: "Burgo", WebsiteURL: "burgo.ie"}

	tools := NewToolHandler(AdapterFor(platform), services.NewToolDispatcher(orders))
	r := Router{
		Platform: platform,
		Tools:    tools,
		Health:   NewHealthHandler(string(platform)),
		Retell:   NewRetellHandler(orders, profile),
		Vapi:     NewVapiHandler(tools, orders),
		Telnyx: NewTelnyxHandler(calls, orders, config.TelnyxConfig{
			AssistantID:        "assistant-1",
			Voice:              "Telnyx.KokoroTTS.af_sarah",
			TranscriptionModel: "distil-whisper/distil-large-v2",
		}, agent.Profile{RestaurantName: "Burgo", WebsiteURL: "burgo.ie", CallTimeLimitMinute: 1}),
	}
	return &fixture{engine: r.Engine(), store: store, calls: calls}
}

func (f *fixture) post(t *testing.T, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var raw []byte
	switch b := body.(type) {
	case string:
		raw = []byte(b)
	default:
		var err error
		raw, err = json.Marshal(b)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	out := map[string]any{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (f *fixture) pending(t *testing.T, callID string) bool {
	t.Helper()
	_, err := f.store.Get(context.Background(), callID)
	if errors.Is(err, repository.ErrOrderNotFound) {
		return false
	}
	require.NoError(t, err)
	return true
}

func retellBody(callID string, args map[string]any) map[string]any {
	return map[string]any{"args": args, "call": map[string]any{"call_id": callID}}
}

func TestHealth(t *testing.T) {
	f := newFixture(t, config.PlatformVapi)
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"status": "ok", "platform": "vapi"}, decode(t, w))
}

func TestRetellOrderScenario(t *testing.T) {
	f := newFixture(t, config.PlatformRetell)

	w := f.post(t, "/tools/add_to_order", retellBody("call-1", map[string]any{"item": "doner kebab", "quantity": 2}))
	require.Equal(t, http.StatusOK, w.Code)
	added := decode(t, w)
	assert.Equal(t, true, added["success"])
	assert.Equal(t, "27.00", added["currentTotal"])

	total := decode(t, f.post(t, "/tools/get_order_total", retellBody("call-1", nil)))
	assert.Contains(t, total["summary"], "2x Doner Kebab Meal")
	assert.Equal(t, "27.00", total["total"])

	confirmed := decode(t, f.post(t, "/tools/confirm_order", retellBody("call-1", map[string]any{"customer_name": "Alex"})))
	assert.Equal(t, true, confirmed["success"])
	assert.Regexp(t, `^ORD-\d+$`, confirmed["orderId"])
	assert.False(t, f.pending(t, "call-1"))

	after := decode(t, f.post(t, "/tools/get_order_total", retellBody("call-1", nil)))
	assert.Equal(t, "You haven't added anything to your order yet.", after["message"])
}

func TestRetellRejectsBadBodies(t *testing.T) {
	f := newFixture(t, config.PlatformRetell)

	tests := map[string]struct {
		body string
		want string
	}{
		"not json":        {body: `{`, want: "Invalid request format"},
		"missing call id": {body: `{"args":{"item":"chicken wrap"}}`, want: "Missing call id"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			w := f.post(t, "/tools/add_to_order", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tc.want, decode(t, w)["error"])
		})
	}
}

func TestRetellUnknownToolIsStructured(t *testing.T) {
	f := newFixture(t, config.PlatformRetell)

	w := f.post(t, "/tools/make_coffee", retellBody("call-1", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"error": "Unknown function: make_coffee"}, decode(t, w))
}

func TestRetellInbound(t *testing.T) {
	f := newFixture(t, config.PlatformRetell)

	w := f.post(t, "/webhook/inbound", map[string]any{
		"event":        "call_inbound",
		"call_inbound": map[string]any{"from_number": "+353100", "to_number": "+353200"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"call_inbound":{"dynamic_variables":{"restaurant_name":"Burgo","website_url":"burgo.ie"}}}`, w.Body.String())
}

func TestRetellInboundAcksUnreadableBody(t *testing.T) {
	f := newFixture(t, config.PlatformRetell)

	w := f.post(t, "/webhook/inbound", `{"event":`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"received": true}, decode(t, w))
}

func TestLifecycleRoutesAreAcknowledgedOnPanic(t *testing.T) {
	assert.ElementsMatch(t,
		[]string{"/webhook/inbound", "/webhook/retell", "/webhook/vapi", "/webhooks/call"},
		lifecycleRoutes)

	engine := gin.New()
	engine.Use(Recovery(lifecycleRoutes...))
	engine.POST(routeRetellInbound, func(*gin.Context) { panic("inbound") })

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, routeRetellInbound, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"received":true}`, w.Body.String())
}

func TestRetellCallEndedEvicts(t *testing.T) {
	for _, event := range []string{"call_ended", "call_analyzed"} {
		t.Run(event, func(t *testing.T) {
			f := newFixture(t, config.PlatformRetell)
			f.post(t, "/tools/add_to_order", retellBody("call-1", map[string]any{"item": "chicken wrap"}))
			require.True(t, f.pending(t, "call-1"))

			w := f.post(t, "/webhook/retell", map[string]any{"event": event, "call": map[string]any{"call_id": "call-1"}})
			assert.Equal(t, http.StatusOK, w.Code)
			assert.False(t, f.pending(t, "call-1"))
		})
	}
}

func vapiToolCalls(callID string, calls ...map[string]any) map[string]any {
	return map[string]any{"message": map[string]any{
		"type":         "tool-calls",
		"call":         map[string]any{"id": callID},
		"toolCallList": calls,
	}}
}

func vapiCall(id, name string, args any) map[string]any {
	return map[string]any{"id": id, "type": "function", "function": map[string]any{"name": name, "arguments": args}}
}

func TestVapiRendersOneResultPerToolCall(t *testing.T) {
	f := newFixture(t, config.PlatformVapi)

	w := f.post(t, "/webhook/vapi", vapiToolCalls("call-1",
		vapiCall("tc-1", "add_to_order", map[string]any{"item": "doner kebab", "quantity": 2}),
		vapiCall("tc-2", "get_order_total", `{}`),
		vapiCall("tc-3", "sing_a_song", nil),
	))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Results []VapiToolResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 3)
	assert.Equal(t, []string{"tc-1", "tc-2", "tc-3"}, []string{resp.Results[0].ToolCallID, resp.Results[1].ToolCallID, resp.Results[2].ToolCallID})

	var total services.TotalResult
	require.NoError(t, json.Unmarshal([]byte(resp.Results[1].Result), &total))
	assert.Equal(t, "27.00", total.Total)
	assert.JSONEq(t, `{"error":"Unknown function: sing_a_song"}`, resp.Results[2].Result)
}

func TestVapiArgumentsAsString(t *testing.T) {
	f := newFixture(t, config.PlatformVapi)

	w := f.post(t, "/webhook/vapi", vapiToolCalls("call-1", vapiCall("tc-1", "add_to_order", `{"item":"chicken wrap","quantity":"3"}`)))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Results []VapiToolResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	var added services.AddItemResult
	require.NoError(t, json.Unmarshal([]byte(resp.Results[0].Result), &added))
	assert.True(t, added.Success, added.Message)
	assert.Contains(t, added.Message, "Added 3 ")
}

func TestVapiMissingToolCalls(t *testing.T) {
	f := newFixture(t, config.PlatformVapi)

	w := f.post(t, "/webhook/vapi", vapiToolCalls("call-1"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing tool calls", decode(t, w)["error"])
}

func TestVapiLifecycleEvicts(t *testing.T) {
	tests := map[string]map[string]any{
		"status ended":       {"type": "status-update", "status": "ended", "call": map[string]any{"id": "call-1"}},
		"call status ended":  {"type": "status-update", "call": map[string]any{"id": "call-1", "status": "ended"}},
		"end of call report": {"type": "end-of-call-report", "call": map[string]any{"id": "call-1"}},
	}
	for name, msg := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, config.PlatformVapi)
			f.post(t, "/webhook/vapi", vapiToolCalls("call-1", vapiCall("tc-1", "add_to_order", map[string]any{"item": "chicken wrap"})))
			require.True(t, f.pending(t, "call-1"))

			w := f.post(t, "/webhook/vapi", map[string]any{"message": msg})
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, map[string]any{"received": true}, decode(t, w))
			assert.False(t, f.pending(t, "call-1"))
		})
	}
}

func TestVapiOtherMessagesAcknowledged(t *testing.T) {
	f := newFixture(t, config.PlatformVapi)
	f.post(t, "/webhook/vapi", vapiToolCalls("call-1", vapiCall("tc-1", "add_to_order", map[string]any{"item": "chicken wrap"})))

	w := f.post(t, "/webhook/vapi", map[string]any{"message": map[string]any{
		"type": "status-update", "status": "in-progress", "call": map[string]any{"id": "call-1"},
	}})
	assert.Equal(t, map[string]any{"received": true}, decode(t, w))
	assert.True(t, f.pending(t, "call-1"))
}

func TestTelnyxToolCallIDPrecedence(t *testing.T) {
	tests := map[string]struct {
		body map[string]any
		want string
	}{
		"conversation id wins": {body: map[string]any{"conversation_id": "conv-1", "call_control_id": "cc-1"}, want: "conv-1"},
		"call control id":      {body: map[string]any{"call_control_id": "cc-1"}, want: "cc-1"},
		"call id":              {body: map[string]any{"call_id": "c-1"}, want: "c-1"},
		"unknown":              {body: map[string]any{}, want: "unknown"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			tc.body["item"] = "chicken wrap"
			raw, err := json.Marshal(tc.body)
			require.NoError(t, err)

			invs, err := TelnyxAdapter{}.ParseToolInvocations("add_to_order", raw)
			require.NoError(t, err)
			require.Len(t, invs, 1)
			assert.Equal(t, tc.want, invs[0].CallID)
			assert.Equal(t, "chicken wrap", invs[0].Args["item"])
		})
	}
}

func TestTelnyxToolRoute(t *testing.T) {
	f := newFixture(t, config.PlatformTelnyx)

	w := f.post(t, "/tools/add_to_order", map[string]any{"conversation_id": "conv-1", "item": "doner kebab", "quantity": 11})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["success"])
	assert.True(t, f.pending(t, "conv-1"))

	menuResp := decode(t, f.post(t, "/tools/get_menu", map[string]any{}))
	assert.Contains(t, menuResp["menu"], "Doner Kebab Meal")
}

func TestTelnyxLifecycle(t *testing.T) {
	f := newFixture(t, config.PlatformTelnyx)
	event := func(eventType string, payload map[string]any) map[string]any {
		return map[string]any{"data": map[string]any{"event_type": eventType, "payload": payload}}
	}

	w := f.post(t, "/webhooks/call", event("call.initiated", map[string]any{"call_control_id": "cc-1", "direction": "incoming", "from": "+353100"}))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"cc-1"}, f.calls.answered)

	f.post(t, "/webhooks/call", event("call.initiated", map[string]any{"call_control_id": "cc-2", "direction": "outgoing"}))
	assert.Len(t, f.calls.answered, 1)

	f.post(t, "/webhooks/call", event("call.answered", map[string]any{"call_control_id": "cc-1"}))
	require.Len(t, f.calls.started, 1)
	started := f.calls.started[0]
	assert.Equal(t, "assistant-1", started.Assistant.ID)
	assert.Contains(t, started.Assistant.Instructions, "assistant for Burgo.")
	assert.Equal(t, "Telnyx.KokoroTTS.af_sarah", started.Voice)
	assert.True(t, started.InterruptionSettings.Enable)
	assert.Equal(t, "distil-whisper/distil-large-v2", started.Transcription.Model)
	assert.Contains(t, started.Greeting, "Thanks for calling Burgo!")

	f.post(t, "/tools/add_to_order", map[string]any{"call_control_id": "cc-1", "item": "chicken wrap"})
	require.True(t, f.pending(t, "cc-1"))
	w = f.post(t, "/webhooks/call", event("call.hangup", map[string]any{"call_control_id": "cc-1"}))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, f.pending(t, "cc-1"))

	f.post(t, "/tools/add_to_order", map[string]any{"call_control_id": "cc-3", "item": "chicken wrap"})
	f.post(t, "/webhooks/call", event("call.ai_gather.ended", map[string]any{
		"call_control_id": "cc-3",
		"message_history": []map[string]any{{"role": "assistant", "content": "hi"}, {"role": "user", "content": "a cola"}},
	}))
	assert.False(t, f.pending(t, "cc-3"))
}

func TestTelnyxLifecycleFailuresStillAnswer200(t *testing.T) {
	f := newFixture(t, config.PlatformTelnyx)
	body := map[string]any{"data": map[string]any{"event_type": "call.initiated", "payload": map[string]any{"call_control_id": "cc-1", "direction": "incoming"}}}

	f.calls.err = errors.New("telnyx down")
	assert.Equal(t, http.StatusOK, f.post(t, "/webhooks/call", body).Code)

	f.calls.err = nil
	f.calls.panics = true
	assert.Equal(t, http.StatusOK, f.post(t, "/webhooks/call", body).Code)

	assert.Equal(t, http.StatusOK, f.post(t, "/webhooks/call", `not json`).Code)
}

func TestRecovery(t *testing.T) {
	engine := gin.New()
	engine.Use(Recovery("/ack"))
	engine.POST("/ack", func(*gin.Context) { panic("lifecycle") })
	engine.POST("/other", func(*gin.Context) { panic("tool") })

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/ack", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"received":true}`, w.Body.String())

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/other", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

type fakeArchive struct {
	orders []models.ConfirmedOrder
	limit  int
}

func (a *fakeArchive) GetByOrderNumber(_ context.Context, n string) (*models.ConfirmedOrder, error) {
	for i := range a.orders {
		if a.orders[i].OrderNumber == n {
			return &a.orders[i], nil
		}
	}
	return nil, repository.ErrOrderNotFound
}

func (a *fakeArchive) List(_ context.Context, limit int) ([]models.ConfirmedOrder, error) {
	a.limit = limit
	return a.orders, nil
}

func TestAdminRoutes(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	archive := &fakeArchive{orders: []models.ConfirmedOrder{{OrderNumber: "ORD-1", CustomerName: "Alex", TotalAmount: 27}}}
	r := Router{
		Platform: config.PlatformRetell,
		Health:   NewHealthHandler("retell"),
		Tools:    NewToolHandler(RetellAdapter{}, nil),
		Retell:   NewRetellHandler(nil, config.Profile{}),
		Admin:    NewAdminHandler(archive, string(hash)),
	}
	engine := r.Engine()

	get := func(path, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusUnauthorized, get("/admin/orders", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get("/admin/orders", "wrong").Code)

	w := get("/admin/orders?limit=5", "s3cret")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["count"])
	assert.Equal(t, 5, archive.limit)

	assert.Equal(t, http.StatusBadRequest, get("/admin/orders?limit=zero", "s3cret").Code)

	w = get("/admin/orders/ORD-1", "s3cret")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Alex", decode(t, w)["customer_name"])

	assert.Equal(t, http.StatusNotFound, get("/admin/orders/ORD-404", "s3cret").Code)
}
