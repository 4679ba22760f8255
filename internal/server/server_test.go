package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"

	"KickRelay/internal/apperr"
	"KickRelay/internal/model"
)

type fakeGame struct {
	mu        sync.Mutex
	snap      model.Snapshot
	kicks     []model.Move
	kickErr   error
	listeners []func(model.Snapshot)
	// onSnapshot, when set, runs once inside the next Snapshot call.
	onSnapshot func()
}

func (g *fakeGame) Kick(move model.Move) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.kickErr != nil {
		return g.kickErr
	}
	g.kicks = append(g.kicks, move)
	g.snap.GameState = model.StateKicking
	return nil
}

func (g *fakeGame) Snapshot() model.Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.onSnapshot != nil {
		g.onSnapshot()
		g.onSnapshot = nil
	}
	return g.snap
}

func (g *fakeGame) Subscribe(fn func(model.Snapshot)) func() {
	g.mu.Lock()
	g.listeners = append(g.listeners, fn)
	g.mu.Unlock()
	return func() {}
}

func (g *fakeGame) emit(s model.Snapshot) {
	g.mu.Lock()
	g.snap = s
	ls := append(([]func(model.Snapshot))(nil), g.listeners...)
	g.mu.Unlock()
	for _, fn := range ls {
		fn(s)
	}
}

func newTestServer(t *testing.T, g *fakeGame, secret string) *httptest.Server {
	t.Helper()
	s := New(g, nil, secret)
	s.Hub().Start()
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		s.Hub().Close()
		ts.Close()
	})
	return ts
}

func TestHealthAndSnapshot(t *testing.T) {
	g := &fakeGame{snap: model.Snapshot{GameState: model.StateIdle, FeeDisplay: "0.01 MON", Level: 3}}
	ts := newTestServer(t, g, "")

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d", resp.StatusCode)
	}

	resp, err = http.Get(ts.URL + "/api/snapshot")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	defer resp.Body.Close()
	var snap model.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.FeeDisplay != "0.01 MON" || snap.Level != 3 {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestKickEndpoint(t *testing.T) {
	g := &fakeGame{}
	ts := newTestServer(t, g, "")

	resp, err := http.Post(ts.URL+"/api/kick", "application/json", strings.NewReader(`{"move":"right"}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if len(g.kicks) != 1 || g.kicks[0] != model.MoveRight {
		t.Errorf("kicks = %v", g.kicks)
	}

	resp, err = http.Post(ts.URL+"/api/kick", "application/json", strings.NewReader(`{"move":"up"}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad move status = %d", resp.StatusCode)
	}
}

func TestKickEndpointMapsErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{apperr.New(apperr.CodeKickInProgress, "busy"), http.StatusConflict},
		{apperr.New(apperr.CodeNetworkMismatch, "wrong chain"), http.StatusConflict},
		{apperr.New(apperr.CodePrecondition, "Game fee not loaded. Check your network connection."), http.StatusPreconditionFailed},
	}
	for _, tt := range tests {
		g := &fakeGame{kickErr: tt.err}
		ts := newTestServer(t, g, "")

		resp, err := http.Post(ts.URL+"/api/kick", "application/json", strings.NewReader(`{"move":"left"}`))
		if err != nil {
			t.Fatalf("post: %v", err)
		}
		var body ErrorResponse
		json.NewDecoder(resp.Body).Decode(&body)
		resp.Body.Close()

		if resp.StatusCode != tt.status {
			t.Errorf("%v: status = %d, want %d", tt.err, resp.StatusCode, tt.status)
		}
		if body.Code != string(apperr.CodeOf(tt.err)) || body.Message != apperr.UserMessage(tt.err) {
			t.Errorf("body = %+v", body)
		}
	}
}

func TestKickRequiresToken(t *testing.T) {
	const secret = "test-secret"
	g := &fakeGame{}
	ts := newTestServer(t, g, secret)

	post := func(token string) int {
		req, _ := http.NewRequest(http.MethodPost, ts.URL+"/api/kick", strings.NewReader(`{"move":"center"}`))
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("post: %v", err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}

	if code := post(""); code != http.StatusUnauthorized {
		t.Errorf("no token: status %d", code)
	}

	bad, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "x"}).SignedString([]byte("other"))
	if code := post(bad); code != http.StatusUnauthorized {
		t.Errorf("wrong key: status %d", code)
	}

	good, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "player",
		"exp": time.Now().Add(time.Minute).Unix(),
	}).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	if code := post(good); code != http.StatusAccepted {
		t.Errorf("valid token: status %d", code)
	}
	if len(g.kicks) != 1 {
		t.Errorf("kicks = %v", g.kicks)
	}
}

func TestWebsocketStreamsSnapshots(t *testing.T) {
	g := &fakeGame{snap: model.Snapshot{GameState: model.StateIdle}}
	ts := newTestServer(t, g, "")

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read initial: %v", err)
	}
	if msg.Type != "snapshot" || msg.Data.GameState != model.StateIdle {
		t.Errorf("initial message = %+v", msg)
	}

	g.emit(model.Snapshot{GameState: model.StateProcessing})
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read update: %v", err)
	}
	if msg.Data.GameState != model.StateProcessing {
		t.Errorf("update = %+v", msg)
	}
}

func TestWebsocketKeepsPublishDuringConnect(t *testing.T) {
	g := &fakeGame{snap: model.Snapshot{GameState: model.StateIdle}}
	ts := newTestServer(t, g, "")
	published := make(chan struct{})
	g.onSnapshot = func() {
		go func() {
			g.emit(model.Snapshot{GameState: model.StateKicking})
			close(published)
		}()
	}

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var states []model.GameState
	for len(states) < 2 {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read after %v: %v", states, err)
		}
		states = append(states, msg.Data.GameState)
	}
	<-published
	if states[1] != model.StateKicking {
		t.Errorf("frames = %v, want the publish made while connecting last", states)
	}
}
