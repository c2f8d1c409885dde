package gateway

import (
	"bytes"
	"log"
	"net"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/daffawrdhn/ladder-snake/pkg/game"
	"github.com/daffawrdhn/ladder-snake/pkg/gateway/handlers"
	"github.com/daffawrdhn/ladder-snake/pkg/manager"
	"github.com/daffawrdhn/ladder-snake/pkg/structs"
	fws "github.com/fasthttp/websocket"
	"github.com/goccy/go-json"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func startTestServer(t *testing.T, cfg game.Config) (*Server, string) {
	t.Helper()

	s := Initialize([]string{"*"}, cfg)
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use("/", s.Upgrader)
	app.Get("/", websocket.New(s.Handler))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go app.Listener(ln)
	t.Cleanup(func() { app.Shutdown() })

	return s, "ws://" + ln.Addr().String() + "/"
}

type wsClient struct {
	t    *testing.T
	conn *fws.Conn
}

func dial(t *testing.T, url string) *wsClient {
	t.Helper()
	var conn *fws.Conn
	var err error
	for i := 0; i < 20; i++ {
		conn, _, err = fws.DefaultDialer.Dial(url, nil)
		if err == nil {
			break
		}
		time.Sleep(25 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return &wsClient{t: t, conn: conn}
}

func (c *wsClient) send(v map[string]any) {
	c.t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		c.t.Fatalf("marshal: %v", err)
	}
	if err := c.conn.WriteMessage(fws.TextMessage, raw); err != nil {
		c.t.Fatalf("write: %v", err)
	}
}

// expect reads frames until one carries the wanted type, skipping
// everything else (lobby nudges and the like arrive interleaved).
func (c *wsClient) expect(msgtype string) map[string]any {
	c.t.Helper()
	c.conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			c.t.Fatalf("waiting for %q: %v", msgtype, err)
		}
		var msg map[string]any
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.t.Fatalf("decode: %v", err)
		}
		if msg["type"] == msgtype {
			return msg
		}
	}
}

// expectNone asserts no frame of the given type arrives within the window.
func (c *wsClient) expectNone(msgtype string, window time.Duration) {
	c.t.Helper()
	c.conn.SetReadDeadline(time.Now().Add(window))
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return // deadline hit: nothing arrived
		}
		var msg map[string]any
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}
		if msg["type"] == msgtype {
			c.t.Fatalf("unexpected %q: %v", msgtype, msg)
		}
	}
}

func (c *wsClient) join(nickname string) string {
	c.t.Helper()
	c.send(map[string]any{"type": "set_nickname", "nickname": nickname})
	c.expect("nickname_changed")
	list := c.expect("lobby_list")
	return list["me"].(string)
}

func quietMatchConfig() game.Config {
	return game.Config{TurnTimeout: time.Hour, ChaosInterval: time.Hour}
}

func TestNicknameAndLobbyRoundTrip(t *testing.T) {
	_, url := startTestServer(t, quietMatchConfig())

	alice := dial(t, url)
	aliceID := alice.join("alice")
	if aliceID == "" {
		t.Fatal("empty connection id in lobby_list.me")
	}

	bob := dial(t, url)
	bobID := bob.join("bob")

	// Alice sees the updated two-player roster with herself tagged.
	list := alice.expect("lobby_list")
	if list["me"] != aliceID {
		t.Fatalf("me = %v, want %v", list["me"], aliceID)
	}
	players := list["players"].([]any)
	if len(players) != 2 {
		t.Fatalf("roster size %d", len(players))
	}
	ids := map[string]bool{}
	for _, p := range players {
		ids[p.(map[string]any)["id"].(string)] = true
	}
	if !ids[aliceID] || !ids[bobID] {
		t.Fatalf("roster %v missing a player", ids)
	}
}

func TestDuplicateNicknameRejected(t *testing.T) {
	_, url := startTestServer(t, quietMatchConfig())

	alice := dial(t, url)
	alice.join("alice")

	imposter := dial(t, url)
	imposter.send(map[string]any{"type": "set_nickname", "nickname": "ALICE"})
	errMsg := imposter.expect("error")
	if errMsg["message"] == "" {
		t.Fatal("error carries no message")
	}
	imposter.expectNone("nickname_changed", 200*time.Millisecond)
}

func TestInviteAcceptRunsMatch(t *testing.T) {
	_, url := startTestServer(t, quietMatchConfig())

	alice := dial(t, url)
	aliceID := alice.join("alice")
	bob := dial(t, url)
	bobID := bob.join("bob")

	alice.send(map[string]any{"type": "send_invite", "targets": []string{bobID}})

	invite := bob.expect("invite_received")
	if invite["hostId"] != aliceID || invite["hostName"] != "alice" {
		t.Fatalf("invite_received %v", invite)
	}

	status := alice.expect("invite_status")
	if status["canStart"] != false {
		t.Fatalf("fresh invite canStart %v", status["canStart"])
	}

	bob.send(map[string]any{"type": "accept_invite", "hostId": aliceID})

	// Single target accepted: the match auto-starts for both.
	aliceStart := alice.expect("game_start")
	bobStart := bob.expect("game_start")

	board := aliceStart["board"].(map[string]any)
	if len(board["snakes"].(map[string]any)) != 5 || len(board["ladders"].(map[string]any)) != 5 {
		t.Fatalf("board %v", board)
	}

	initiative := aliceStart["initiative"].(map[string]any)
	if len(initiative) != 2 {
		t.Fatalf("initiative for %d players", len(initiative))
	}

	// The first turn goes to the best initiative total (order is authoritative
	// in players[0]).
	turnOrder := aliceStart["players"].([]any)
	first := turnOrder[0].(string)
	best := initiative[first].(map[string]any)["total"].(float64)
	for pid, entry := range initiative {
		if total := entry.(map[string]any)["total"].(float64); total > best {
			t.Fatalf("turn order head %s (%v) beaten by %s (%v)", first, best, pid, total)
		}
	}

	aliceTurn := alice.expect("turn_change")
	if aliceTurn["player"] != first {
		t.Fatalf("turn_change names %v, want %v", aliceTurn["player"], first)
	}
	bob.expect("turn_change")

	// Map the current player id back to a connection via the nicknames.
	nicknames := bobStart["nicknames"].(map[string]any)
	roller, waiter := alice, bob
	if nicknames[first] == "bob" {
		roller, waiter = bob, alice
	}

	roller.send(map[string]any{"type": "roll_dice"})

	for _, c := range []*wsClient{roller, waiter} {
		roll := c.expect("dice_roll")
		if roll["player"] != first {
			t.Fatalf("dice_roll player %v, want %v", roll["player"], first)
		}
		value := roll["roll"].(float64)
		if value < 1 || value > 6 {
			t.Fatalf("roll %v out of range", value)
		}
		pos := roll["newPosition"].(float64)
		if pos < 1 || pos > 100 {
			t.Fatalf("newPosition %v out of range", pos)
		}
		next := c.expect("turn_change")
		if next["player"] == first {
			t.Fatal("turn did not pass to the other player")
		}
	}

	// The out-of-turn player is rejected without state damage.
	roller.send(map[string]any{"type": "roll_dice"})
	rejection := roller.expect("error")
	if rejection["message"] != "Not your turn!" {
		t.Fatalf("rejection %v", rejection)
	}
}

func TestDeclineOnlyInviteNeverStarts(t *testing.T) {
	_, url := startTestServer(t, quietMatchConfig())

	alice := dial(t, url)
	aliceID := alice.join("alice")
	bob := dial(t, url)
	bobID := bob.join("bob")

	alice.send(map[string]any{"type": "send_invite", "targets": []string{bobID}})
	bob.expect("invite_received")
	bob.send(map[string]any{"type": "decline_invite", "hostId": aliceID})

	status := alice.expect("invite_status")
	entries := status["statuses"].([]any)
	if len(entries) != 1 || entries[0].(map[string]any)["status"] != "declined" {
		t.Fatalf("statuses %v", entries)
	}
	alice.expectNone("game_start", 300*time.Millisecond)
}

func TestCancelInviteNotifiesTargets(t *testing.T) {
	_, url := startTestServer(t, quietMatchConfig())

	alice := dial(t, url)
	alice.join("alice")
	bob := dial(t, url)
	bobID := bob.join("bob")

	alice.send(map[string]any{"type": "send_invite", "targets": []string{bobID}})
	bob.expect("invite_received")

	alice.send(map[string]any{"type": "cancel_invite"})
	bob.expect("invite_cancelled")
	alice.expect("invite_cancelled")
}

func TestDisconnectAbortsRunningMatch(t *testing.T) {
	_, url := startTestServer(t, quietMatchConfig())

	alice := dial(t, url)
	aliceID := alice.join("alice")
	bob := dial(t, url)
	bobID := bob.join("bob")

	alice.send(map[string]any{"type": "send_invite", "targets": []string{bobID}})
	bob.expect("invite_received")
	bob.send(map[string]any{"type": "accept_invite", "hostId": aliceID})
	alice.expect("game_start")
	bob.expect("game_start")

	alice.conn.Close()

	left := bob.expect("player_left")
	if left["message"] == "" {
		t.Fatal("player_left carries no message")
	}
}

func TestConcurrentStartCreatesOneRoom(t *testing.T) {
	s, url := startTestServer(t, quietMatchConfig())

	alice := dial(t, url)
	aliceID := alice.join("alice")
	bob := dial(t, url)
	bobID := bob.join("bob")
	carol := dial(t, url)
	carolID := carol.join("carol")

	alice.send(map[string]any{"type": "send_invite", "targets": []string{bobID, carolID}})
	bob.expect("invite_received")
	carol.expect("invite_received")

	// Bob accepts; carol stays undecided so nothing auto-starts yet.
	bob.send(map[string]any{"type": "accept_invite", "hostId": aliceID})
	for {
		status := alice.expect("invite_status")
		if status["canStart"] == true {
			break
		}
	}

	// Two racing start attempts for the same invite, the way the host's
	// start_game can collide with the final target's auto-start on another
	// reader goroutine. Exactly one may produce a room.
	store := (*structs.Server)(s)
	barrier := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-barrier
			handlers.StartMatch(store, aliceID)
		}()
	}
	close(barrier)
	wg.Wait()

	alice.expect("game_start")
	bob.expect("game_start")
	alice.expectNone("game_start", 300*time.Millisecond)
	bob.expectNone("game_start", 300*time.Millisecond)
	carol.expectNone("game_start", 300*time.Millisecond)

	store.Rooms.Mutex.RLock()
	rooms := len(store.Rooms.Rooms)
	store.Rooms.Mutex.RUnlock()
	if rooms != 1 {
		t.Fatalf("%d rooms created from one invite", rooms)
	}
}

func TestAcceptAfterCommitDoesNotRebind(t *testing.T) {
	s, url := startTestServer(t, quietMatchConfig())

	alice := dial(t, url)
	aliceID := alice.join("alice")
	bob := dial(t, url)
	bobID := bob.join("bob")
	carol := dial(t, url)
	carolID := carol.join("carol")

	// Two rival invites for carol.
	alice.send(map[string]any{"type": "send_invite", "targets": []string{carolID}})
	first := carol.expect("invite_received")
	if first["hostId"] != aliceID {
		t.Fatalf("first invite from %v, want %v", first["hostId"], aliceID)
	}
	bob.send(map[string]any{"type": "send_invite", "targets": []string{carolID}})
	second := carol.expect("invite_received")
	if second["hostId"] != bobID {
		t.Fatalf("second invite from %v, want %v", second["hostId"], bobID)
	}

	// Carol accepts alice's and is committed to that match.
	carol.send(map[string]any{"type": "accept_invite", "hostId": aliceID})
	alice.expect("game_start")
	carol.expect("game_start")

	// Accepting bob's invite afterwards must not bind carol to a second
	// room; bob's start is abandoned instead.
	carol.send(map[string]any{"type": "accept_invite", "hostId": bobID})
	cancelled := bob.expect("invite_cancelled")
	if cancelled["reason"] != "Not enough players connected." {
		t.Fatalf("cancellation reason %v", cancelled["reason"])
	}
	bob.expectNone("game_start", 300*time.Millisecond)
	carol.expectNone("game_start", 300*time.Millisecond)

	store := (*structs.Server)(s)
	store.Rooms.Mutex.RLock()
	rooms := len(store.Rooms.Rooms)
	firstRoom := store.Rooms.Membership[carolID]
	store.Rooms.Mutex.RUnlock()
	if rooms != 1 {
		t.Fatalf("%d rooms live, want 1", rooms)
	}
	if manager.RoomOf(store, carolID) == nil || firstRoom == "" {
		t.Fatal("carol lost her original room binding")
	}
}

func TestNormalCloseIsQuiet(t *testing.T) {
	_, url := startTestServer(t, quietMatchConfig())

	var buf lockedBuffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	client := dial(t, url)
	client.join("quitter")

	deadline := time.Now().Add(time.Second)
	client.conn.WriteControl(fws.CloseMessage,
		fws.FormatCloseMessage(fws.CloseNormalClosure, ""), deadline)
	time.Sleep(200 * time.Millisecond)

	if logged := buf.String(); strings.Contains(logged, "receive error") {
		t.Fatalf("clean close was logged as an error:\n%s", logged)
	}
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestMalformedMessagesAreDropped(t *testing.T) {
	_, url := startTestServer(t, quietMatchConfig())

	client := dial(t, url)
	if err := client.conn.WriteMessage(fws.TextMessage, []byte("{not json")); err != nil {
		t.Fatalf("write: %v", err)
	}
	client.send(map[string]any{"type": "no_such_type"})

	// The connection survives both and keeps working.
	client.join("survivor")
}
