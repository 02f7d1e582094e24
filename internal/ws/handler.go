package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strings"

	"job-board/internal/ratelimit"
	"job-board/internal/ui"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gorilla/websocket"
)

type SearchRequest struct {
	Query    string `json:"query"`
	Location string `json:"location"`
}

type StateEvent struct {
	State ui.State `json:"state"`
	HTML  string   `json:"html"`
}

// SearcherFactory binds a searcher to the rate-limit key of one connection.
type SearcherFactory func(clientKey string) ui.Searcher

type Handler struct {
	hub         *Hub
	renderer    *ui.Renderer
	searcherFor SearcherFactory
	upgrader    websocket.Upgrader
	logger      *log.Logger
}

func NewHandler(hub *Hub, renderer *ui.Renderer, searcherFor SearcherFactory, allowedOrigins []string, logger *log.Logger) *Handler {
	return &Handler{
		hub:         hub,
		renderer:    renderer,
		searcherFor: searcherFor,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(allowedOrigins),
		},
		logger: logger,
	}
}

func (h *Handler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get(ui.DefaultSocketPath, h.HandleSearchWS)
}

func (h *Handler) HandleSearchWS(c fiber.Ctx) error {
	if h == nil || h.hub == nil || h.renderer == nil || h.searcherFor == nil {
		return fiber.ErrServiceUnavailable
	}

	clientKey := ratelimit.ClientKey(c.Get(fiber.HeaderXForwardedFor))

	fiberHandler := adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			if h.logger != nil {
				h.logger.Printf("WS upgrade error | error=%v", err)
			}
			return
		}

		client := NewClient(h.hub, conn, clientKey)
		h.attachSession(client)
		h.hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	})

	return fiberHandler(c)
}

// attachSession wires a fresh ui.Session to the client. Each inbound request
// cancels the previous in-flight search.
func (h *Handler) attachSession(client *Client) {
	connCtx, cancelConn := context.WithCancel(context.Background())
	sess := ui.NewSession(h.searcherFor(client.key), func(v ui.View) {
		h.push(client, v)
	})

	cancelPrev := func() {}
	client.onClose = cancelConn
	client.onMessage = func(message []byte) {
		var req SearchRequest
		if err := json.Unmarshal(message, &req); err != nil {
			if h.logger != nil {
				h.logger.Printf("WS bad message | id=%s error=%v", client.id, err)
			}
			return
		}

		cancelPrev()
		ctx, cancel := context.WithCancel(connCtx)
		cancelPrev = cancel
		go func() {
			defer cancel()
			v := sess.Submit(ctx, req.Query, req.Location)
			if h.logger != nil {
				h.logger.Printf("WS search settled | id=%s state=%s", client.id, v.State)
			}
		}()
	}
}

func (h *Handler) push(client *Client, v ui.View) {
	html, err := h.renderer.Results(v)
	if err != nil {
		if h.logger != nil {
			h.logger.Printf("WS render error | id=%s state=%s error=%v", client.id, v.State, err)
		}
		return
	}
	b, err := json.Marshal(StateEvent{State: v.State, HTML: string(html)})
	if err != nil {
		return
	}
	if !client.Send(b) && h.logger != nil {
		h.logger.Printf("WS send dropped | id=%s state=%s", client.id, v.State)
	}
}

// checkOrigin admits same-host pages plus any configured front-end origins.
func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || strings.EqualFold(a, origin) {
				return true
			}
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return strings.EqualFold(u.Host, r.Host)
	}
}
