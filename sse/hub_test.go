package sse

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kbukum/opgate/dispatch"
)

func recv(t *testing.T, c *Client) Frame {
	t.Helper()
	select {
	case f := <-c.Frames():
		return f
	case <-time.After(time.Second):
		t.Fatalf("client %s received nothing", c.ID())
		return Frame{}
	}
}

func expectNone(t *testing.T, c *Client) {
	t.Helper()
	select {
	case f := <-c.Frames():
		t.Errorf("client %s should not have received %q", c.ID(), f.Data)
	case <-time.After(20 * time.Millisecond):
	}
}

func waitClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for h.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, got %d", n, h.ClientCount())
		}
		time.Sleep(time.Millisecond)
	}
}

func TestClient_NewClient(t *testing.T) {
	client := NewClient("records:abc123")

	if client.ID() != "records:abc123" {
		t.Errorf("expected ID 'records:abc123', got '%s'", client.ID())
	}
	if client.Frames() == nil {
		t.Error("expected frame channel to be set")
	}
}

func TestClient_Send_Success(t *testing.T) {
	client := NewClient("records:abc123")

	if !client.Send(Frame{Event: EventTypeRecord, Data: []byte("test message")}) {
		t.Error("expected send to succeed")
	}

	select {
	case f := <-client.Frames():
		if f.Event != EventTypeRecord || string(f.Data) != "test message" {
			t.Errorf("unexpected frame %+v", f)
		}
	default:
		t.Error("expected frame in channel")
	}
}

func TestClient_Send_BufferFull(t *testing.T) {
	client := NewClient("records:abc123", WithBuffer(4))

	for i := 0; i < 4; i++ {
		client.Send(Frame{Data: []byte("msg")})
	}
	if client.Send(Frame{Data: []byte("overflow")}) {
		t.Error("expected send to fail when buffer is full")
	}
}

func TestClient_CloseTwice(t *testing.T) {
	client := NewClient("records:abc123")
	client.Close()
	client.Close()

	if _, open := <-client.Frames(); open {
		t.Error("expected channel to be closed")
	}
}

func TestClient_Metadata(t *testing.T) {
	client := NewClient("records:abc",
		WithRequestID("req-1"),
		WithRemoteAddr("10.0.0.1:5000"),
		WithMetadata("env", "prod"),
	)

	if client.GetMetadata("request_id") != "req-1" {
		t.Errorf("request_id = %q", client.GetMetadata("request_id"))
	}
	if client.GetMetadata("remote_addr") != "10.0.0.1:5000" {
		t.Errorf("remote_addr = %q", client.GetMetadata("remote_addr"))
	}
	if len(client.Metadata()) != 3 {
		t.Errorf("expected 3 metadata entries, got %d", len(client.Metadata()))
	}
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := NewClient("records:abc123")
	hub.Register(client)
	waitClients(t, hub, 1)

	if hub.Client("records:abc123") != client {
		t.Error("expected to find registered client")
	}
	if hub.Client("nonexistent") != nil {
		t.Error("expected nil for unregistered client")
	}

	hub.Unregister(client)
	waitClients(t, hub, 0)

	if _, open := <-client.Frames(); open {
		t.Error("unregister should close the client")
	}
}

func TestHub_ClientIDs(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	hub.Register(NewClient("records:abc"))
	hub.Register(NewClient("records:xyz"))
	waitClients(t, hub, 2)

	ids := map[string]bool{}
	for _, id := range hub.ClientIDs() {
		ids[id] = true
	}
	if !ids["records:abc"] || !ids["records:xyz"] {
		t.Errorf("ClientIDs() = %v", hub.ClientIDs())
	}
}

func TestHub_Broadcast_ExactMatch(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client1 := NewClient("records:abc123")
	client2 := NewClient("records:xyz789")
	hub.Register(client1)
	hub.Register(client2)
	waitClients(t, hub, 2)

	hub.Broadcast("records:abc123", EventTypeRecord, []byte("message for abc"))

	if f := recv(t, client1); string(f.Data) != "message for abc" {
		t.Errorf("expected 'message for abc', got '%s'", f.Data)
	}
	expectNone(t, client2)
}

func TestHub_Broadcast_Wildcard(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client1 := NewClient("records:abc")
	client2 := NewClient("records:xyz")
	client3 := NewClient("status:abc")
	hub.Register(client1)
	hub.Register(client2)
	hub.Register(client3)
	waitClients(t, hub, 3)

	hub.Broadcast(RecordPattern, EventTypeRecord, []byte("record"))

	for _, c := range []*Client{client1, client2} {
		if f := recv(t, c); f.Event != EventTypeRecord || string(f.Data) != "record" {
			t.Errorf("%s: unexpected frame %+v", c.ID(), f)
		}
	}
	expectNone(t, client3)
}

func TestHub_ConcurrentOperations(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	var wg sync.WaitGroup
	clients := make([]*Client, 10)

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			clients[idx] = NewClient("records:client-" + string(rune('a'+idx)))
			hub.Register(clients[idx])
		}(i)
	}
	wg.Wait()
	waitClients(t, hub, 10)

	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.Broadcast(RecordPattern, EventTypeRecord, []byte("concurrent message"))
		}()
	}
	wg.Wait()

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			hub.Unregister(clients[idx])
		}(i)
	}
	wg.Wait()
	waitClients(t, hub, 0)
}

func TestHub_Stop(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := NewClient("records:abc")
	hub.Register(client)
	waitClients(t, hub, 1)

	hub.Stop()
	if _, open := <-client.Frames(); open {
		t.Error("stop should close every client")
	}

	// Double stop should be safe
	hub.Stop()

	// Operations after stop must not block.
	late := NewClient("records:late")
	hub.Register(late)
	if _, open := <-late.Frames(); open {
		t.Error("a client registered after stop should be closed")
	}
	hub.Unregister(late)
	hub.Broadcast(RecordPattern, EventTypeRecord, []byte("dropped"))
}

func TestRecordSink(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := NewClient(RecordClientID())
	hub.Register(client)
	waitClients(t, hub, 1)

	sink := NewRecordSink(hub)
	sink.Write(dispatch.LogRecord{
		ID:        "r1",
		Operator:  "withLatestFrom",
		Pipeline:  "withLatestFrom",
		Before:    4,
		After:     dispatch.Pair{Value: 4.0, Latest: "BRLG"},
		Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})

	f := recv(t, client)
	if f.Event != EventTypeRecord {
		t.Errorf("event = %q", f.Event)
	}
	var got map[string]any
	if err := json.Unmarshal(f.Data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["id"] != "r1" || got["operator"] != "withLatestFrom" || got["before"] != 4.0 {
		t.Errorf("unexpected payload %v", got)
	}
	pair, ok := got["after"].([]any)
	if !ok || len(pair) != 2 || pair[1] != "BRLG" {
		t.Errorf("after = %v", got["after"])
	}
}

func TestRecordClientID(t *testing.T) {
	a, b := RecordClientID(), RecordClientID()
	if !strings.HasPrefix(a, RecordTopic+":") || a == b {
		t.Errorf("ids %q %q", a, b)
	}
}

func TestComponent_Lifecycle(t *testing.T) {
	comp := NewComponent("/api/logs")

	if comp.Name() != "sse" {
		t.Errorf("expected name 'sse', got %q", comp.Name())
	}

	ctx := context.Background()
	if err := comp.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	health := comp.Health(ctx)
	if health.Status != "healthy" {
		t.Errorf("expected status 'healthy', got %q", health.Status)
	}
	if !strings.Contains(health.Message, "0 clients") {
		t.Errorf("expected '0 clients' in message, got %q", health.Message)
	}

	comp.Hub().Register(NewClient("records:client-1"))
	waitClients(t, comp.Hub(), 1)
	if health := comp.Health(ctx); !strings.Contains(health.Message, "1 clients") {
		t.Errorf("expected '1 clients' in message, got %q", health.Message)
	}

	if err := comp.Stop(ctx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
}

func TestComponent_Describe(t *testing.T) {
	desc := NewComponent("/api/logs").Describe()
	if desc.Name != "SSE Hub" || desc.Type != "sse" {
		t.Errorf("unexpected description %+v", desc)
	}
	if !strings.Contains(desc.Details, "/api/logs") {
		t.Errorf("expected path in details, got %q", desc.Details)
	}
}

func TestServeSSE_StreamsFrames(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeSSE(hub, w, r, "records:client-1", WithRequestID("req-1"))
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, http.NoBody)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	if resp.Header.Get("Content-Type") != "text/event-stream" {
		t.Errorf("expected Content-Type 'text/event-stream', got %q", resp.Header.Get("Content-Type"))
	}
	if resp.Header.Get("Cache-Control") != "no-cache" {
		t.Errorf("expected Cache-Control 'no-cache', got %q", resp.Header.Get("Cache-Control"))
	}

	reader := bufio.NewReader(resp.Body)
	readEvent := func() (string, string) {
		var event, data string
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			line = strings.TrimRight(line, "\n")
			switch {
			case line == "":
				return event, data
			case strings.HasPrefix(line, "event: "):
				event = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				data = strings.TrimPrefix(line, "data: ")
			}
		}
	}

	event, data := readEvent()
	if event != EventTypeConnected || !strings.Contains(data, "records:client-1") || !strings.Contains(data, "req-1") {
		t.Errorf("connected frame: event=%q data=%q", event, data)
	}

	waitClients(t, hub, 1)
	hub.Broadcast(RecordPattern, EventTypeRecord, []byte(`{"id":"r1"}`))

	event, data = readEvent()
	if event != EventTypeRecord || data != `{"id":"r1"}` {
		t.Errorf("record frame: event=%q data=%q", event, data)
	}
}
