package protocol

// Inbound message types.
const (
	TypeKeepalive     = "keepalive"
	TypeSetNickname   = "set_nickname"
	TypeRequestLobby  = "request_lobby"
	TypeSendInvite    = "send_invite"
	TypeAcceptInvite  = "accept_invite"
	TypeDeclineInvite = "decline_invite"
	TypeStartGame     = "start_game"
	TypeCancelInvite  = "cancel_invite"
	TypeRollDice      = "roll_dice"
)

// Outbound message types.
const (
	TypeLobbyUpdate     = "lobby_update"
	TypeLobbyList       = "lobby_list"
	TypeInviteReceived  = "invite_received"
	TypeInviteStatus    = "invite_status"
	TypeInviteCancelled = "invite_cancelled"
	TypeNicknameChanged = "nickname_changed"
	TypeError           = "error"
	TypeGameStart       = "game_start"
	TypeTurnChange      = "turn_change"
	TypeDiceRoll        = "dice_roll"
	TypeBoardUpdate     = "board_update"
	TypeGameOver        = "game_over"
	TypePlayerLeft      = "player_left"
)

// Invite target decision states.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusDeclined = "declined"
)

// Declare the envelope format for all client packets. The type field selects
// the handler; the remaining fields are read by re-decoding the raw packet
// into the matching per-type struct.
type Packet struct {
	Type string `json:"type" validate:"required" label:"type"`
}

type SetNicknamePacket struct {
	Type     string `json:"type" validate:"required" label:"type"`
	Nickname string `json:"nickname" validate:"required,max=12" label:"nickname"`
}

type SendInvitePacket struct {
	Type    string   `json:"type" validate:"required" label:"type"`
	Targets []string `json:"targets" validate:"required,min=1,dive,required" label:"targets"`
}

// InviteRefPacket covers accept_invite and decline_invite, both of which
// name the inviting host.
type InviteRefPacket struct {
	Type   string `json:"type" validate:"required" label:"type"`
	HostID string `json:"hostId" validate:"required" label:"hostId"`
}
