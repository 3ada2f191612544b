package websocket

type OutgoingMessage struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// IncomingMessage 客户端发来的消息；From/Session 由服务端根据令牌填写
type IncomingMessage struct {
	From    string      `json:"from"`
	Session string      `json:"session"`
	Event   string      `json:"event"`
	Data    interface{} `json:"data"`
}

// 推送事件名
const (
	EventStateChanged   = "state_changed"
	EventPlayerJoined   = "player_joined"
	EventGameStarted    = "game_started"
	EventGameFinished   = "game_finished"
	EventActionRejected = "action_rejected"
	EventChat           = "chat"
)
