package structs

import (
	"strconv"
	"sync"

	"github.com/gofiber/contrib/websocket"
)

type Client struct {
	Conn     *websocket.Conn
	ID       string // connection ULID, assigned at open
	Seq      uint64 // process-lifetime connection counter
	Nickname string // guarded by the owning SessionStore mutex
	Mux      *sync.RWMutex // To prevent concurrent writes to the websocket connection
}

// PlayerID derives the stable in-game label for this connection. Rooms deal
// in these instead of raw connection ids.
func (c *Client) PlayerID() string {
	return "Player_" + strconv.FormatUint(c.Seq, 10)
}
