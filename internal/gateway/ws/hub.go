package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/coder/websocket"

	"github.com/dohr-michael/banner/internal/composer"
	"github.com/dohr-michael/banner/internal/config"
	"github.com/dohr-michael/banner/internal/entitystore"
	"github.com/dohr-michael/banner/internal/events"
	"github.com/dohr-michael/banner/internal/rendersync"
)

// Controller is the operation surface the hub dispatches host requests to.
type Controller interface {
	ChatSwitched(hostCtx composer.Context, messages []rendersync.Message)
	MessageAdded(m rendersync.Message)
	SettingsChanged(s config.Settings) (config.Settings, error)
	LayoutState(display composer.ChatDisplay, themeVars map[string]string)
	SaveBanner(e entitystore.Entity, banner string, source *string) bool
	ClearBanner(e entitystore.Entity) bool
	DeleteCustomImage(e entitystore.Entity) bool
	SaveColors(e entitystore.Entity, accent, quote string) bool
	State() composer.RenderState
	RenderOps() []rendersync.Op
}

// Client represents a connected WebSocket client.
type Client struct {
	conn *websocket.Conn
	send chan []byte
	hub  *Hub
}

// Hub manages WebSocket clients and bridges them to the event bus.
type Hub struct {
	mu          sync.RWMutex
	clients     map[*Client]struct{}
	bus         *events.Bus
	ctrl        Controller
	unsubscribe func()
}

// NewHub creates a new WebSocket hub connected to an event bus.
func NewHub(bus *events.Bus, ctrl Controller) *Hub {
	h := &Hub{
		clients: make(map[*Client]struct{}),
		bus:     bus,
		ctrl:    ctrl,
	}

	// Subscribe to all events and bridge to WS clients
	h.unsubscribe = bus.Subscribe(func(e events.Event) {
		frame, err := NewEventFrame(string(e.Type), e)
		if err != nil {
			slog.Error("marshal event frame", "error", err)
			return
		}
		data, err := MarshalFrame(frame)
		if err != nil {
			slog.Error("marshal frame", "error", err)
			return
		}
		h.broadcast(data)
	})

	return h
}

// broadcast sends data to all connected clients.
func (h *Hub) broadcast(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// Client too slow, skip
		}
	}
}

// register adds a client to the hub.
func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
	slog.Info("ws client connected", "clients", len(h.clients))
}

// unregister removes a client from the hub.
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		slog.Info("ws client disconnected", "clients", len(h.clients))
	}
}

// ServeWS handles a WebSocket upgrade and manages the client lifecycle.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow any origin, the gateway is local-only
	})
	if err != nil {
		slog.Error("ws accept", "error", err)
		return
	}

	client := &Client{
		conn: conn,
		send: make(chan []byte, 256),
		hub:  h,
	}

	h.register(client)

	ctx := r.Context()
	go client.writePump(ctx)
	client.readPump(ctx)
}

// readPump reads frames from the WS connection and dispatches them.
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				slog.Debug("ws read closed", "status", websocket.CloseStatus(err))
			} else {
				slog.Debug("ws read error", "error", err)
			}
			return
		}

		frame, err := UnmarshalFrame(data)
		if err != nil {
			slog.Error("ws unmarshal frame", "error", err)
			continue
		}

		c.handleFrame(ctx, frame)
	}
}

// handleFrame processes an incoming WS frame.
func (c *Client) handleFrame(ctx context.Context, frame Frame) {
	switch frame.Type {
	case FrameTypeRequest:
		c.handleRequest(ctx, frame)
	default:
		slog.Debug("ws unknown frame type", "type", frame.Type)
	}
}

// entityParams is the shared entity addressing every write method carries.
type entityParams struct {
	Kind     string `json:"kind"`
	Identity string `json:"identity"`
}

func (p entityParams) entity() (entitystore.Entity, bool) {
	switch entitystore.Kind(p.Kind) {
	case entitystore.KindCharacter:
		return entitystore.Character(p.Identity), p.Identity != ""
	case entitystore.KindPersona:
		return entitystore.Persona(p.Identity), p.Identity != ""
	}
	return entitystore.Entity{}, false
}

// handleRequest processes a request frame (method dispatch).
func (c *Client) handleRequest(ctx context.Context, frame Frame) {
	switch Method(frame.Method) {
	case MethodChatSwitched:
		var params struct {
			Context  composer.Context     `json:"context"`
			Messages []rendersync.Message `json:"messages"`
		}
		if err := json.Unmarshal(frame.Params, &params); err != nil {
			c.sendError(ctx, frame.ID, "invalid params")
			return
		}
		c.hub.ctrl.ChatSwitched(params.Context, params.Messages)
		c.sendOK(ctx, frame.ID, map[string]string{"status": "accepted"})

	case MethodMessageAdded:
		var params struct {
			Message rendersync.Message `json:"message"`
		}
		if err := json.Unmarshal(frame.Params, &params); err != nil {
			c.sendError(ctx, frame.ID, "invalid params")
			return
		}
		c.hub.ctrl.MessageAdded(params.Message)
		c.sendOK(ctx, frame.ID, map[string]string{"status": "accepted"})

	case MethodSettingsChanged:
		var params struct {
			Settings config.Settings `json:"settings"`
		}
		if err := json.Unmarshal(frame.Params, &params); err != nil {
			c.sendError(ctx, frame.ID, "invalid params")
			return
		}
		stored, err := c.hub.ctrl.SettingsChanged(params.Settings)
		if err != nil {
			c.sendError(ctx, frame.ID, err.Error())
			return
		}
		c.sendOK(ctx, frame.ID, map[string]any{"settings": stored})

	case MethodLayoutState:
		var params struct {
			ChatDisplay composer.ChatDisplay `json:"chat_display"`
			ThemeVars   map[string]string    `json:"theme_vars"`
		}
		if err := json.Unmarshal(frame.Params, &params); err != nil {
			c.sendError(ctx, frame.ID, "invalid params")
			return
		}
		c.hub.ctrl.LayoutState(params.ChatDisplay, params.ThemeVars)
		c.sendOK(ctx, frame.ID, map[string]string{"status": "accepted"})

	case MethodSaveBanner:
		var params struct {
			entityParams
			Banner string  `json:"banner"`
			Source *string `json:"source,omitempty"`
		}
		if err := json.Unmarshal(frame.Params, &params); err != nil {
			c.sendError(ctx, frame.ID, "invalid params")
			return
		}
		e, ok := params.entity()
		if !ok {
			c.sendError(ctx, frame.ID, "invalid entity")
			return
		}
		c.sendWriteResult(ctx, frame.ID, c.hub.ctrl.SaveBanner(e, params.Banner, params.Source))

	case MethodClearBanner, MethodDeleteCustomImage:
		var params entityParams
		if err := json.Unmarshal(frame.Params, &params); err != nil {
			c.sendError(ctx, frame.ID, "invalid params")
			return
		}
		e, ok := params.entity()
		if !ok {
			c.sendError(ctx, frame.ID, "invalid entity")
			return
		}
		if Method(frame.Method) == MethodClearBanner {
			c.sendWriteResult(ctx, frame.ID, c.hub.ctrl.ClearBanner(e))
		} else {
			c.sendWriteResult(ctx, frame.ID, c.hub.ctrl.DeleteCustomImage(e))
		}

	case MethodSaveColors:
		var params struct {
			entityParams
			Accent string `json:"accent"`
			Quote  string `json:"quote"`
		}
		if err := json.Unmarshal(frame.Params, &params); err != nil {
			c.sendError(ctx, frame.ID, "invalid params")
			return
		}
		e, ok := params.entity()
		if !ok {
			c.sendError(ctx, frame.ID, "invalid entity")
			return
		}
		c.sendWriteResult(ctx, frame.ID, c.hub.ctrl.SaveColors(e, params.Accent, params.Quote))

	case MethodGetStylesheet:
		c.sendOK(ctx, frame.ID, c.hub.ctrl.State())

	case MethodGetRenderOps:
		c.sendOK(ctx, frame.ID, map[string]any{"ops": c.hub.ctrl.RenderOps()})

	default:
		c.sendError(ctx, frame.ID, "unknown method: "+frame.Method)
	}
}

// sendWriteResult reports a store write outcome. A failed write is a valid
// response, not a protocol error: the degradation notice goes out separately
// over the bus.
func (c *Client) sendWriteResult(ctx context.Context, id string, ok bool) {
	c.sendOK(ctx, id, map[string]bool{"saved": ok})
}

// writePump writes queued messages to the WS connection.
func (c *Client) writePump(ctx context.Context) {
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) sendOK(ctx context.Context, id string, payload any) {
	f, err := NewResponseFrame(id, true, payload, "")
	if err != nil {
		return
	}
	data, err := MarshalFrame(f)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (c *Client) sendError(ctx context.Context, id string, errMsg string) {
	f, err := NewResponseFrame(id, false, nil, errMsg)
	if err != nil {
		return
	}
	data, err := MarshalFrame(f)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// Close shuts down the hub and all client connections.
func (h *Hub) Close() {
	if h.unsubscribe != nil {
		h.unsubscribe()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.conn.Close(websocket.StatusGoingAway, "server shutdown")
		delete(h.clients, c)
	}
}
