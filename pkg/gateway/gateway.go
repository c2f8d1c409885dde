package gateway

import (
	"log"
	"sync"

	"github.com/daffawrdhn/ladder-snake/pkg/game"
	"github.com/daffawrdhn/ladder-snake/pkg/gateway/handlers"
	"github.com/daffawrdhn/ladder-snake/pkg/gateway/origin"
	"github.com/daffawrdhn/ladder-snake/pkg/gateway/session"
	"github.com/daffawrdhn/ladder-snake/pkg/protocol"
	"github.com/daffawrdhn/ladder-snake/pkg/structs"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

type Server structs.Server

// Initialize builds the process-wide coordinator: every registry (sessions,
// waiting pool, invites, rooms) lives here and is torn down only with the
// process.
func Initialize(allowedorigins []string, cfg game.Config) *Server {
	return &Server{
		AllowedOrigins:  origin.Compile(allowedorigins),
		Mux:             &sync.RWMutex{},
		Sessions:        &structs.SessionStore{Clients: make(map[string]*structs.Client)},
		Lobby:           &structs.LobbyStore{Waiting: make(map[string]*structs.Client)},
		Invites:         &structs.InviteStore{Invites: make(map[string]*structs.PendingInvite)},
		Rooms:           &structs.RoomStore{Rooms: make(map[string]*game.Room), Membership: make(map[string]string)},
		MatchConfig:     cfg,
		PacketValidator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// AuthorizedOrigins checks if the incoming request's origin is allowed to
// connect to the server.
func (s *Server) AuthorizedOrigins(r *fasthttp.Request) bool {
	result := s.AllowedOrigins.Allows(string(r.Header.Peek("Origin")))
	if !result {
		log.Printf("Origin %s was rejected during connect", r.Header.Peek("Origin"))
	}
	return result
}

// Upgrader checks if the client requested a websocket upgrade, and if so,
// sets a local variable to true. If the client did not request a websocket
// upgrade, this middleware will return ErrUpgradeRequired. If the client
// is not allowed to connect, this middleware will return ErrForbidden.
func (s *Server) Upgrader(c *fiber.Ctx) error {
	if !s.AuthorizedOrigins(c.Request()) {
		return fiber.ErrForbidden
	}

	if websocket.IsWebSocketUpgrade(c) {
		c.Locals("allowed", true)
		return c.Next()
	}

	return fiber.ErrUpgradeRequired
}

// Handler owns one websocket connection: it opens a session, reads every
// inbound frame, decodes and validates the envelope, and dispatches by
// message type. Undecodable or unknown messages are dropped without a
// reply. Packets from one connection are handled in arrival order.
func (srv *Server) Handler(conn *websocket.Conn) {
	s := (*structs.Server)(srv)

	client := session.Open(s, conn)
	defer session.Close(s, client)

	for {
		_, rawpacket, err := conn.ReadMessage()
		if err != nil {
			if !(websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) || websocket.IsUnexpectedCloseError(err)) {
				log.Printf("WebSocket receive error for %s: %s", client.ID, err)
			}
			return
		}

		var packet *protocol.Packet
		if err := json.Unmarshal(rawpacket, &packet); err != nil || packet == nil {
			continue
		}
		if err := s.PacketValidator.Struct(packet); err != nil {
			continue
		}

		execute_packet(s, client, packet.Type, rawpacket)
	}
}

func execute_packet(s *structs.Server, client *structs.Client, msgtype string, rawpacket []byte) {
	// Handle message types accordingly.
	switch msgtype {

	// Keep connection alive
	case protocol.TypeKeepalive:
		client.Mux.Lock()
		err := client.Conn.WriteMessage(websocket.TextMessage, rawpacket)
		client.Mux.Unlock()
		if err != nil {
			log.Printf("Echo keepalive to %s error: %s", client.ID, err)
		}

	// Registers or changes the nickname and joins the waiting pool.
	case protocol.TypeSetNickname:
		handlers.SET_NICKNAME(s, client, rawpacket)

	// Re-enters the waiting pool, e.g. after a finished match.
	case protocol.TypeRequestLobby:
		handlers.REQUEST_LOBBY(s, client)

	// Opens an invite to a set of waiting players.
	case protocol.TypeSendInvite:
		handlers.SEND_INVITE(s, client, rawpacket)

	// Records an invite acceptance, possibly auto-starting the match.
	case protocol.TypeAcceptInvite:
		handlers.ACCEPT_INVITE(s, client, rawpacket)

	// Records an invite decline, possibly auto-starting the match.
	case protocol.TypeDeclineInvite:
		handlers.DECLINE_INVITE(s, client, rawpacket)

	// Host forces an early start with whoever accepted so far.
	case protocol.TypeStartGame:
		handlers.START_GAME(s, client)

	// Host withdraws the pending invite.
	case protocol.TypeCancelInvite:
		handlers.CANCEL_INVITE(s, client)

	// In-match dice roll, routed to the owning room.
	case protocol.TypeRollDice:
		handlers.ROLL_DICE(s, client)

	default:
		// Unknown type: treated like a malformed message and dropped.
	}
}
