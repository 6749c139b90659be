package mirror

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"glyphboard/internal/editor"
	"glyphboard/internal/geometry"
	"glyphboard/internal/scene"
)

func testFrame() editor.Frame {
	return editor.Frame{
		Arrows: []*scene.Arrow{
			scene.NewArrow(geometry.Pt(0, 0), geometry.Pt(100, 0), false, scene.Black),
		},
		Symbols: []*scene.Symbol{
			scene.NewSymbol(geometry.Pt(50, 50), []scene.Path{
				{Points: []geometry.Point{geometry.Pt(-5, 0), geometry.Pt(5, 0)}, Color: scene.Black, Width: 2},
			}),
		},
		Mode:      editor.ModeDraw,
		CanUndo:   true,
		Scale:     2,
		BoundKeys: []rune{'k', 'a'},
	}
}

func TestBuildPayloadMapsFrame(t *testing.T) {
	f := testFrame()
	f.PromptOpen = true

	p := BuildPayload(f)

	if len(p.Arrows) != 1 || len(p.Symbols) != 1 {
		t.Fatalf("payload has %d arrows, %d symbols, want 1 and 1", len(p.Arrows), len(p.Symbols))
	}
	if p.Mode != "draw" {
		t.Errorf("Mode = %q, want %q", p.Mode, "draw")
	}
	if !p.Prompt || !p.CanUndo || p.CanRedo {
		t.Errorf("flags = prompt %v undo %v redo %v, want true true false", p.Prompt, p.CanUndo, p.CanRedo)
	}
	if p.Scale != 2 {
		t.Errorf("Scale = %v, want 2", p.Scale)
	}
	if p.Stroke != nil {
		t.Error("Stroke must be omitted when no stroke is active")
	}
	if len(p.BoundKeys) != 2 || p.BoundKeys[0] != "a" || p.BoundKeys[1] != "k" {
		t.Errorf("BoundKeys = %v, want sorted [a k]", p.BoundKeys)
	}
}

func TestBuildPayloadIncludesActiveStroke(t *testing.T) {
	f := testFrame()
	f.Stroke = scene.Path{
		Points: []geometry.Point{geometry.Pt(10, 10), geometry.Pt(20, 20)},
		Color:  scene.Black,
		Width:  2,
	}

	p := BuildPayload(f)

	if p.Stroke == nil {
		t.Fatal("active stroke missing from payload")
	}
	if len(p.Stroke.Points) != 2 {
		t.Errorf("stroke has %d points, want 2", len(p.Stroke.Points))
	}
}

func TestPayloadEncodeOmitsEmptyStroke(t *testing.T) {
	data, err := BuildPayload(testFrame()).Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("payload is not a JSON object: %v", err)
	}
	if _, ok := raw["stroke"]; ok {
		t.Error("encoded payload must not carry an empty stroke")
	}
	for _, field := range []string{"arrows", "symbols", "mode", "canUndo", "canRedo", "scale"} {
		if _, ok := raw[field]; !ok {
			t.Errorf("encoded payload missing %q", field)
		}
	}
}

func startTestServer(t *testing.T) *Server {
	t.Helper()
	s := New(Config{Listen: "127.0.0.1:0"})
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func dialMirror(t *testing.T, s *Server) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws://"+s.Addr()+"/ws", nil)
	if err != nil {
		t.Fatalf("dial mirror: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readPayload(t *testing.T, conn *websocket.Conn) Payload {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read payload: %v", err)
	}
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	return p
}

func waitForClients(t *testing.T, s *Server, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for s.Clients() != want {
		if time.Now().After(deadline) {
			t.Fatalf("Clients = %d, want %d", s.Clients(), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestServerPublishReachesClient(t *testing.T) {
	s := startTestServer(t)
	conn := dialMirror(t, s)
	waitForClients(t, s, 1)

	if err := s.Publish(BuildPayload(testFrame())); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	p := readPayload(t, conn)
	if p.Mode != "draw" || len(p.Arrows) != 1 {
		t.Errorf("client saw mode %q with %d arrows, want draw with 1", p.Mode, len(p.Arrows))
	}

	stats := s.Stats()
	if stats.Published != 1 {
		t.Errorf("Published = %d, want 1", stats.Published)
	}
}

func TestLateJoinerReceivesLatestFrame(t *testing.T) {
	s := startTestServer(t)

	if err := s.Publish(BuildPayload(testFrame())); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	// Connect after the publish; the hub replays the retained frame.
	conn := dialMirror(t, s)
	p := readPayload(t, conn)
	if len(p.Arrows) != 1 {
		t.Errorf("late joiner saw %d arrows, want 1", len(p.Arrows))
	}
}

func TestClientDisconnectUpdatesCount(t *testing.T) {
	s := startTestServer(t)
	conn := dialMirror(t, s)
	waitForClients(t, s, 1)

	conn.Close()
	waitForClients(t, s, 0)
}

func TestInfoEndpoint(t *testing.T) {
	s := startTestServer(t)

	resp, err := http.Get("http://" + s.Addr() + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	var info struct {
		Service string `json:"service"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		t.Fatalf("decode info: %v", err)
	}
	if info.Service != "glyphboard-mirror" {
		t.Errorf("service = %q, want glyphboard-mirror", info.Service)
	}
}

func TestPublishAfterCloseFails(t *testing.T) {
	s := New(Config{Listen: "127.0.0.1:0"})
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if err := s.Publish(BuildPayload(testFrame())); !errors.Is(err, ErrServerClosed) {
		t.Errorf("Publish after close = %v, want ErrServerClosed", err)
	}
	// Close is idempotent.
	if err := s.Close(); err != nil {
		t.Errorf("second Close = %v, want nil", err)
	}
}
