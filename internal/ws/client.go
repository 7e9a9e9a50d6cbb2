package ws

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/pesanmeja/api/internal/auth"
	"github.com/pesanmeja/api/internal/pubsub"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // table topics are gated by the session token
	},
}

// Client binds one WebSocket connection to one broker subscription. Events
// flow broker -> subscription channel -> socket; the read side exists only to
// detect disconnects.
type Client struct {
	broker *pubsub.Broker
	sub    *pubsub.Subscription
	conn   *websocket.Conn
	log    *zap.Logger
}

// ReadPump waits for the peer to disconnect, then tears down the
// subscription. Runs in a per-connection goroutine.
func (c *Client) ReadPump() {
	defer func() {
		c.broker.Unsubscribe(c.sub)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn("websocket read error", zap.Error(err), zap.String("topic", c.sub.Topic()))
			}
			break
		}
	}
}

// WritePump forwards subscription events to the socket, preserving the order
// they were published in. Runs in a per-connection goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case evt, ok := <-c.sub.Events():
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Unsubscribed; tell the peer we're done.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			message, err := json.Marshal(evt)
			if err != nil {
				c.log.Error("marshal event", zap.Error(err))
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeOrders handles the staff console stream.
// Endpoint: WS /ws/orders
func ServeOrders(broker *pubsub.Broker, log *zap.Logger, w http.ResponseWriter, r *http.Request) {
	serve(broker, log, pubsub.TopicOrders, w, r)
}

// ServeTable handles an ordering client's stream for its own table. The
// session token must carry the table number in the URL.
// Endpoint: WS /ws/tables/{tableNumber}/orders?token=JWT
func ServeTable(broker *pubsub.Broker, jwtSecret string, log *zap.Logger, w http.ResponseWriter, r *http.Request) {
	tableNumber, err := strconv.Atoi(chi.URLParam(r, "tableNumber"))
	if err != nil || tableNumber <= 0 {
		http.Error(w, "invalid table number", http.StatusBadRequest)
		return
	}

	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	claims, err := auth.ValidateToken(jwtSecret, tokenStr)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}
	if claims.TableNumber != tableNumber {
		http.Error(w, "table access denied", http.StatusForbidden)
		return
	}

	serve(broker, log, pubsub.TableTopic(tableNumber), w, r)
}

func serve(broker *pubsub.Broker, log *zap.Logger, topic string, w http.ResponseWriter, r *http.Request) {
	// Subscribe before the upgrade completes so events published right after
	// the handshake are not missed.
	sub := broker.Subscribe(topic)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		broker.Unsubscribe(sub)
		log.Warn("websocket upgrade error", zap.Error(err))
		return
	}

	client := &Client{
		broker: broker,
		sub:    sub,
		conn:   conn,
		log:    log,
	}

	go client.WritePump()
	go client.ReadPump()
}
