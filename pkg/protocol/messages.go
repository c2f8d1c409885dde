package protocol

// Server to client messages. Every struct carries its own type discriminator
// so the whole value can be handed to the websocket writer as-is.

type LobbyPlayer struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
}

type LobbyUpdate struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type LobbyList struct {
	Type    string        `json:"type"`
	Players []LobbyPlayer `json:"players"`
	Me      string        `json:"me"`
}

type InviteReceived struct {
	Type     string `json:"type"`
	HostID   string `json:"hostId"`
	HostName string `json:"hostName"`
}

type InviteTargetStatus struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
	Status   string `json:"status"`
}

type InviteStatus struct {
	Type     string               `json:"type"`
	Statuses []InviteTargetStatus `json:"statuses"`
	CanStart bool                 `json:"canStart"`
}

type InviteCancelled struct {
	Type   string `json:"type"`
	Reason string `json:"reason,omitempty"`
}

type NicknameChanged struct {
	Type     string `json:"type"`
	Nickname string `json:"nickname"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type Board struct {
	Snakes  map[int]int `json:"snakes"`
	Ladders map[int]int `json:"ladders"`
}

type Initiative struct {
	Rolls []int `json:"rolls"`
	Total int   `json:"total"`
}

type GameStart struct {
	Type       string                `json:"type"`
	RoomID     string                `json:"roomId"`
	Players    []string              `json:"players"`
	Nicknames  map[string]string     `json:"nicknames"`
	Colors     map[string]string     `json:"colors"`
	Board      Board                 `json:"board"`
	Initiative map[string]Initiative `json:"initiative"`
}

type TurnChange struct {
	Type    string `json:"type"`
	Player  string `json:"player"`
	Timeout int    `json:"timeout"`
}

type DiceRoll struct {
	Type        string      `json:"type"`
	Player      string      `json:"player"`
	Roll        int         `json:"roll"`
	MoveAmount  int         `json:"moveAmount,omitempty"`
	Penalty     bool        `json:"penalty,omitempty"`
	Auto        bool        `json:"auto,omitempty"`
	NewPosition int         `json:"newPosition"`
	Snakes      map[int]int `json:"snakes"`
	Ladders     map[int]int `json:"ladders"`
}

type ForcedMove struct {
	Player      string `json:"player"`
	NewPosition int    `json:"newPosition"`
	Effect      string `json:"effect"`
}

type BoardUpdate struct {
	Type        string         `json:"type"`
	Message     string         `json:"message"`
	Board       Board          `json:"board"`
	Players     map[string]int `json:"players"`
	ForcedMoves []ForcedMove   `json:"forcedMoves"`
}

type GameOver struct {
	Type   string `json:"type"`
	Winner string `json:"winner"`
}

type PlayerLeft struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
