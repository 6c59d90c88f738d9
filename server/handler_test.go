package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/alimasry/go-html-editor/store"
)

func setupTestServer(t *testing.T) (*httptest.Server, *Hub) {
	t.Helper()
	hub := NewHub(consoles(store.NewMemoryStore()), nil)
	server := httptest.NewServer(NewHandler(hub))
	t.Cleanup(func() {
		hub.Close()
		server.Close()
	})
	return server, hub
}

func wsURL(base string) string {
	return "ws" + strings.TrimPrefix(base, "http") + "/ws"
}

func wsConnect(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readWsMsg(t *testing.T, conn *websocket.Conn) ServerMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg ServerMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return msg
}

func exec(t *testing.T, conn *websocket.Conn, line string) ServerMessage {
	t.Helper()
	if err := conn.WriteJSON(ClientMessage{Type: MsgExec, Line: line}); err != nil {
		t.Fatal(err)
	}
	return readWsMsg(t, conn)
}

func TestHandler_WebSocketConsole(t *testing.T) {
	server, _ := setupTestServer(t)
	conn := wsConnect(t, wsURL(server.URL))

	welcome := readWsMsg(t, conn)
	if welcome.Type != MsgWelcome || welcome.ClientID == "" {
		t.Fatalf("expected welcome with client id, got %+v", welcome)
	}

	exec(t, conn, "load page.html")
	exec(t, conn, "append h1 title-1 body Hello")
	msg := exec(t, conn, "print-indent")
	if msg.Type != MsgOutput || !strings.Contains(msg.Output, `<h1 id="title-1">Hello</h1>`) {
		t.Errorf("unexpected print-indent reply: %+v", msg)
	}

	msg = exec(t, conn, "exit")
	if !msg.Quit {
		t.Errorf("exit reply should set quit: %+v", msg)
	}
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	if _, _, err := conn.ReadMessage(); !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Errorf("expected normal close after exit, got %v", err)
	}
}

func TestHandler_BadMessages(t *testing.T) {
	server, _ := setupTestServer(t)
	conn := wsConnect(t, wsURL(server.URL))
	readWsMsg(t, conn)

	conn.WriteMessage(websocket.TextMessage, []byte("{not json"))
	if msg := readWsMsg(t, conn); msg.Type != MsgError || msg.Message != "invalid message format" {
		t.Errorf("unexpected reply: %+v", msg)
	}

	conn.WriteJSON(ClientMessage{Type: "join"})
	if msg := readWsMsg(t, conn); msg.Type != MsgError || msg.Message != "unknown message type: join" {
		t.Errorf("unexpected reply: %+v", msg)
	}
}

func TestHandler_ClientIDsAreUnique(t *testing.T) {
	server, _ := setupTestServer(t)
	a := readWsMsg(t, wsConnect(t, wsURL(server.URL)))
	b := readWsMsg(t, wsConnect(t, wsURL(server.URL)))
	if a.ClientID == b.ClientID {
		t.Errorf("both clients got id %q", a.ClientID)
	}
}

func TestHandler_Healthz(t *testing.T) {
	server, _ := setupTestServer(t)
	resp, err := http.Get(server.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	st := store.NewMemoryStore()
	hub := NewHub(consoles(st), nil)

	runCtx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- Serve(runCtx, ln, hub) }()

	conn := wsConnect(t, wsURL("http://"+ln.Addr().String()))
	readWsMsg(t, conn)
	exec(t, conn, "load a.html")

	cancel()
	select {
	case err := <-errc:
		if err != nil {
			t.Fatalf("Serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
	if _, err := st.LoadState(ctx()); err != nil {
		t.Errorf("shutdown should save the open session: %v", err)
	}
}
