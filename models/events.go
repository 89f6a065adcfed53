package models

// ActionType 定義客戶端可透過 WebSocket 發送的動作種類
type ActionType string

const (
	ActionJoinRoom     ActionType = "joinRoom"
	ActionLeaveRoom    ActionType = "leaveRoom"
	ActionReady        ActionType = "ready"
	ActionSendMessage  ActionType = "sendMessage"
	ActionSubmitAnswer ActionType = "submitAnswer"
)

// ClientAction 代表一個客戶端動作 (帶標籤的聯合型別，於邊界驗證後才分派)
type ClientAction struct {
	Action ActionType `json:"action"`
	RoomID string     `json:"roomId,omitempty"`
	Text   string     `json:"text,omitempty"`   // sendMessage 用
	Ready  bool       `json:"ready,omitempty"`  // ready 用
	Answer string     `json:"answer,omitempty"` // submitAnswer 用
}

// 對外廣播的事件名稱目錄
const (
	EventRoomUpdate     = "roomUpdate"     // 單一房間的完整快照
	EventRoomListUpdate = "roomListUpdate" // 大廳可見的所有房間
	EventRoomDeleted    = "roomDeleted"
	EventNewQuestion    = "newQuestion"
	EventGameStarted    = "gameStarted"
	EventGameOver       = "gameOver"
	EventNewMessage     = "newMessage"
	EventAnswerResult   = "answerResult"
	EventError          = "error"
)

// Event 是 WebSocket 外送訊息的統一信封
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

// NewQuestionPayload 新題目事件的內容 (不含正解)
type NewQuestionPayload struct {
	Question    string   `json:"question"`
	Choices     []string `json:"choices"`
	Round       int      `json:"round"`
	TotalRounds int      `json:"totalRounds"`
}

// GameStartedPayload 遊戲開始事件的內容
type GameStartedPayload struct {
	RoomID string `json:"roomId"`
}

// GameOverPayload 遊戲結束事件的內容，帶最終分數
type GameOverPayload struct {
	TotalScores map[string]int `json:"totalScores"`
}

// RoomDeletedPayload 房間刪除事件的內容
type RoomDeletedPayload struct {
	RoomID string `json:"roomId"`
}

// AnswerResultPayload 答題結果，只回給提交者本人。
// totalScore 不能 omitempty：第五位之後答對的人累計可能是 0 分，
// 欄位消失會讓前端分不出「答對但 0 分」和「答錯」
type AnswerResultPayload struct {
	Correct         bool `json:"correct"`
	AlreadyAnswered bool `json:"alreadyAnswered,omitempty"`
	TotalScore      int  `json:"totalScore"`
}

// ErrorPayload 錯誤事件的內容，只回給發生錯誤的客戶端
type ErrorPayload struct {
	Message string `json:"message"`
}
