package ws_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/pesanmeja/api/internal/auth"
	"github.com/pesanmeja/api/internal/pubsub"
	"github.com/pesanmeja/api/internal/ws"
)

const testSecret = "test-secret"

func newServer(broker *pubsub.Broker) *httptest.Server {
	r := chi.NewRouter()
	r.Get("/ws/orders", func(w http.ResponseWriter, req *http.Request) {
		ws.ServeOrders(broker, zap.NewNop(), w, req)
	})
	r.Get("/ws/tables/{tableNumber}/orders", func(w http.ResponseWriter, req *http.Request) {
		ws.ServeTable(broker, testSecret, zap.NewNop(), w, req)
	})
	return httptest.NewServer(r)
}

func wsURL(srv *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + path
}

func readEvent(t *testing.T, conn *websocket.Conn) pubsub.Event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read message: %v", err)
	}
	var evt pubsub.Event
	if err := json.Unmarshal(message, &evt); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	return evt
}

func waitForSubscribers(t *testing.T, broker *pubsub.Broker, topic string, evt pubsub.Event, conn *websocket.Conn) pubsub.Event {
	t.Helper()
	// Subscription happens during the upgrade; publish after the handshake
	// has completed on our side.
	broker.Publish(topic, evt)
	return readEvent(t, conn)
}

func TestServeOrders_ReceivesPublishedEvents(t *testing.T) {
	broker := pubsub.NewBroker(zap.NewNop())
	srv := newServer(broker)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/orders"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	got := waitForSubscribers(t, broker, pubsub.TopicOrders,
		pubsub.Event{Type: "order.created", Payload: json.RawMessage(`{"tableNumber":4}`)}, conn)
	if got.Type != "order.created" {
		t.Errorf("type: got %q", got.Type)
	}

	// Ordering is preserved across consecutive publishes.
	broker.Publish(pubsub.TopicOrders, pubsub.Event{Type: "order.updated", Payload: json.RawMessage(`1`)})
	broker.Publish(pubsub.TopicOrders, pubsub.Event{Type: "order.updated", Payload: json.RawMessage(`2`)})
	first := readEvent(t, conn)
	second := readEvent(t, conn)
	if string(first.Payload) != "1" || string(second.Payload) != "2" {
		t.Errorf("order: got %s then %s", first.Payload, second.Payload)
	}
}

func TestServeTable_RequiresToken(t *testing.T) {
	broker := pubsub.NewBroker(zap.NewNop())
	srv := newServer(broker)
	defer srv.Close()

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/tables/3/orders"), nil)
	if err == nil {
		t.Fatal("dial must fail without a token")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status: got %v, want %d", resp, http.StatusUnauthorized)
	}
}

func TestServeTable_RejectsOtherTablesToken(t *testing.T) {
	broker := pubsub.NewBroker(zap.NewNop())
	srv := newServer(broker)
	defer srv.Close()

	token, _, err := auth.GenerateTableToken(testSecret, 5)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/tables/3/orders?token="+token), nil)
	if err == nil {
		t.Fatal("dial must fail with a token for another table")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("status: got %v, want %d", resp, http.StatusForbidden)
	}
}

func TestServeTable_DeliversOwnTableOnly(t *testing.T) {
	broker := pubsub.NewBroker(zap.NewNop())
	srv := newServer(broker)
	defer srv.Close()

	token, _, err := auth.GenerateTableToken(testSecret, 3)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/tables/3/orders?token="+token), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// An event for another table must not arrive.
	broker.Publish(pubsub.TableTopic(9), pubsub.Event{Type: "order.updated", Payload: json.RawMessage(`{}`)})
	got := waitForSubscribers(t, broker, pubsub.TableTopic(3),
		pubsub.Event{Type: "order.created", Payload: json.RawMessage(`{"tableNumber":3}`)}, conn)
	if got.Type != "order.created" {
		t.Errorf("type: got %q", got.Type)
	}
}

func TestUnsubscribeClosesConnection(t *testing.T) {
	broker := pubsub.NewBroker(zap.NewNop())
	srv := newServer(broker)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/orders"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	// Receive one event to know the server side is fully wired.
	waitForSubscribers(t, broker, pubsub.TopicOrders,
		pubsub.Event{Type: "order.created", Payload: json.RawMessage(`{}`)}, conn)

	conn.Close()

	// Give the read pump a moment to notice the disconnect, then make sure
	// publishing to the now-dead subscription neither panics nor blocks.
	time.Sleep(100 * time.Millisecond)
	done := make(chan struct{})
	go func() {
		broker.Publish(pubsub.TopicOrders, pubsub.Event{Type: "order.updated", Payload: json.RawMessage(`{}`)})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked after client disconnect")
	}
}
