package game

import (
	"log"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/daffawrdhn/ladder-snake/pkg/protocol"
)

// Seat binds one committed player to a room: the transport-level connection
// id, the stable in-game player id, the nickname snapshot taken at start
// time and a fire-and-forget send function.
type Seat struct {
	ConnID   string
	PlayerID string
	Nickname string
	Send     func(v any) error
}

// Room runs one match. Every entry point (player action, turn timeout,
// chaos tick, disconnect) takes the room mutex for the full
// stop-timer / mutate / broadcast sequence, so no two mutations of the
// underlying state can interleave.
type Room struct {
	ID string

	mu         sync.Mutex
	cfg        Config
	state      *State
	seats      []*Seat
	seatByConn map[string]*Seat
	initiative map[string]protocol.Initiative
	rng        *rand.Rand

	turnTimer   *time.Timer
	turnSeq     uint64
	chaosTicker *time.Ticker
	done        chan struct{}
	closed      bool

	onClose func(roomID string)
}

// NewRoom builds a room from its seats and rolls initiative, but does not
// broadcast or arm timers until Start is called. Callers register the room
// in their lookup tables between NewRoom and Start so that no player action
// can arrive for an unknown room. A nil rng selects a self-seeded one.
// onClose is invoked once, after the room has shut down for any reason.
func NewRoom(id string, seats []*Seat, cfg Config, rng *rand.Rand, onClose func(roomID string)) *Room {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	r := &Room{
		ID:         id,
		cfg:        cfg,
		seats:      seats,
		seatByConn: make(map[string]*Seat, len(seats)),
		rng:        rng,
		done:       make(chan struct{}),
		onClose:    onClose,
	}

	playerIDs := make([]string, 0, len(seats))
	for _, seat := range seats {
		r.seatByConn[seat.ConnID] = seat
		playerIDs = append(playerIDs, seat.PlayerID)
	}
	r.state = NewState(playerIDs, rng)

	// Initiative: 3d6 per player, turn order descending by total. The sort
	// is stable so ties keep the original join order.
	r.initiative = make(map[string]protocol.Initiative, len(playerIDs))
	for _, id := range playerIDs {
		rolls := []int{r.rng.IntN(6) + 1, r.rng.IntN(6) + 1, r.rng.IntN(6) + 1}
		r.initiative[id] = protocol.Initiative{
			Rolls: rolls,
			Total: rolls[0] + rolls[1] + rolls[2],
		}
	}
	order := append([]string(nil), playerIDs...)
	sort.SliceStable(order, func(i, j int) bool {
		return r.initiative[order[i]].Total > r.initiative[order[j]].Total
	})
	r.state.SetTurnOrder(order)

	return r
}

// Start announces the match and arms both timers.
func (r *Room) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	nicknames := make(map[string]string, len(r.seats))
	for _, seat := range r.seats {
		nicknames[seat.PlayerID] = seat.Nickname
	}

	r.broadcastLocked(&protocol.GameStart{
		Type:      protocol.TypeGameStart,
		RoomID:    r.ID,
		Players:   append([]string(nil), r.state.TurnOrder...),
		Nicknames: nicknames,
		Colors:    r.state.Colors,
		Board: protocol.Board{
			Snakes:  r.state.Snakes,
			Ladders: r.state.Ladders,
		},
		Initiative: r.initiative,
	})

	r.broadcastTurnLocked()

	r.chaosTicker = time.NewTicker(r.cfg.ChaosInterval)
	go r.chaosLoop()
}

// State exposes the match state for tests.
func (r *Room) State() *State {
	return r.state
}

// Close tears the room down without any broadcast.
func (r *Room) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closeLocked()
}

// HandleRoll resolves a roll_dice action from the given connection. Actions
// from anyone but the current player are rejected with an error notice and
// leave the state untouched.
func (r *Room) HandleRoll(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	seat, ok := r.seatByConn[connID]
	if !ok {
		return
	}
	if seat.PlayerID != r.state.CurrentPlayer() {
		if err := seat.Send(&protocol.ErrorMessage{
			Type:    protocol.TypeError,
			Message: "Not your turn!",
		}); err != nil {
			log.Printf("Send turn rejection to %s error: %s", seat.PlayerID, err)
		}
		return
	}

	r.stopTurnTimerLocked()

	roll := r.state.RollDice()
	newPos := r.state.MovePlayer(seat.PlayerID, roll)

	r.broadcastLocked(&protocol.DiceRoll{
		Type:        protocol.TypeDiceRoll,
		Player:      seat.PlayerID,
		Roll:        roll,
		NewPosition: newPos,
		Snakes:      r.state.Snakes,
		Ladders:     r.state.Ladders,
	})

	r.afterMoveLocked()
}

// handleTurnTimeout fires when the current player produced no valid action
// within the turn window. The seq guard makes a stale callback (cancelled
// concurrently with the timer firing) a no-op.
func (r *Room) handleTurnTimeout(seq uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || seq != r.turnSeq {
		return
	}

	playerID := r.state.CurrentPlayer()
	log.Printf("Turn timeout for room %s (player %s)", r.ID, playerID)

	roll := r.rng.IntN(6) + 1
	moveAmount := roll
	penalty := false
	if roll > 3 {
		moveAmount = max(1, roll-2)
		penalty = true
	}

	newPos := r.state.MovePlayer(playerID, moveAmount)

	r.broadcastLocked(&protocol.DiceRoll{
		Type:        protocol.TypeDiceRoll,
		Player:      playerID,
		Roll:        roll,
		MoveAmount:  moveAmount,
		Penalty:     penalty,
		Auto:        true,
		NewPosition: newPos,
		Snakes:      r.state.Snakes,
		Ladders:     r.state.Ladders,
	})

	r.afterMoveLocked()
}

// handleChaos regenerates the board and applies forced moves to players
// whose settled position became a snake or ladder source under the new
// layout.
func (r *Room) handleChaos() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}

	r.state.Regenerate()

	forced := make([]protocol.ForcedMove, 0)
	for _, playerID := range r.state.TurnOrder {
		if effect := r.state.CheckPositionEffect(playerID); effect != nil {
			forced = append(forced, protocol.ForcedMove{
				Player:      playerID,
				NewPosition: effect.NewPos,
				Effect:      effect.Kind,
			})
		}
	}

	r.broadcastLocked(&protocol.BoardUpdate{
		Type:    protocol.TypeBoardUpdate,
		Message: "Chaos Mode! Board Shuffled!",
		Board: protocol.Board{
			Snakes:  r.state.Snakes,
			Ladders: r.state.Ladders,
		},
		Players:     r.state.Positions,
		ForcedMoves: forced,
	})

	if r.state.Winner != "" {
		r.finishLocked()
	}
}

// HandleDisconnect aborts the match when a committed player's connection
// drops. Remaining players are notified and the room is discarded.
func (r *Room) HandleDisconnect(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	leaver, ok := r.seatByConn[connID]
	if !ok {
		return
	}

	for _, seat := range r.seats {
		if seat == leaver {
			continue
		}
		if err := seat.Send(&protocol.PlayerLeft{
			Type:    protocol.TypePlayerLeft,
			Message: "A player disconnected. Game Over.",
		}); err != nil {
			log.Printf("Send player_left to %s error: %s", seat.PlayerID, err)
		}
	}

	r.closeLocked()
}

func (r *Room) afterMoveLocked() {
	if r.state.Winner != "" {
		r.finishLocked()
		return
	}
	r.state.NextTurn()
	r.broadcastTurnLocked()
}

func (r *Room) finishLocked() {
	r.broadcastLocked(&protocol.GameOver{
		Type:   protocol.TypeGameOver,
		Winner: r.state.Winner,
	})
	r.closeLocked()
}

func (r *Room) closeLocked() {
	if r.closed {
		return
	}
	r.closed = true
	r.stopTurnTimerLocked()
	if r.chaosTicker != nil {
		r.chaosTicker.Stop()
	}
	close(r.done)
	if r.onClose != nil {
		r.onClose(r.ID)
	}
}

func (r *Room) broadcastTurnLocked() {
	r.broadcastLocked(&protocol.TurnChange{
		Type:    protocol.TypeTurnChange,
		Player:  r.state.CurrentPlayer(),
		Timeout: int(r.cfg.TurnTimeout.Seconds()),
	})
	r.armTurnTimerLocked()
}

func (r *Room) armTurnTimerLocked() {
	r.stopTurnTimerLocked()
	seq := r.turnSeq
	r.turnTimer = time.AfterFunc(r.cfg.TurnTimeout, func() {
		r.handleTurnTimeout(seq)
	})
}

// stopTurnTimerLocked cancels the pending turn timer. Stop is best-effort:
// the callback may already be blocked on the room mutex, so the sequence
// bump is what actually invalidates it.
func (r *Room) stopTurnTimerLocked() {
	r.turnSeq++
	if r.turnTimer != nil {
		r.turnTimer.Stop()
		r.turnTimer = nil
	}
}

func (r *Room) chaosLoop() {
	for {
		select {
		case <-r.done:
			return
		case <-r.chaosTicker.C:
			r.handleChaos()
		}
	}
}

func (r *Room) broadcastLocked(v any) {
	for _, seat := range r.seats {
		if err := seat.Send(v); err != nil {
			log.Printf("Broadcast to %s in room %s error: %s", seat.PlayerID, r.ID, err)
		}
	}
}
