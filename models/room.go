package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoomStatus 定義房間的生命週期狀態
type RoomStatus string

const (
	RoomStatusLobby   RoomStatus = "lobby"   // 等待中，可加入、收集準備狀態
	RoomStatusPlaying RoomStatus = "playing" // 遊戲進行中，禁止加入
	// RoomStatusClosed 終止狀態。伺服器端在沒人時直接刪除文件並廣播
	// roomDeleted，所以這個狀態不會被寫入，僅保留給客戶端的狀態字彙
	RoomStatusClosed RoomStatus = "closed"
)

const (
	// MaxParticipants 每個房間的人數上限
	MaxParticipants = 4

	// TotalRounds 一場遊戲的固定回合數
	TotalRounds = 10

	// MaxRoomNameLength 房間名稱長度上限
	MaxRoomNameLength = 30
)

// DifficultyLevels 難度等級常數 (對應日語檢定的級別)
var DifficultyLevels = []string{
	"JLPT N1", "JLPT N2", "JLPT N3", "JLPT N4", "JLPT N5",
	"JPT 550", "JPT 650", "JPT 750", "JPT 850", "JPT 950",
	"BJT J4", "BJT J3", "BJT J2", "BJT J1", "BJT J1+",
}

// IsValidDifficulty 檢查難度是否在允許的等級列表中
func IsValidDifficulty(difficulty string) bool {
	for _, level := range DifficultyLevels {
		if level == difficulty {
			return true
		}
	}
	return false
}

// Message 代表房間內的一條聊天訊息
type Message struct {
	Sender    string    `bson:"sender" json:"sender"`
	Text      string    `bson:"text" json:"text"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// Room 代表一個測驗房間 (單一遊戲會話的聚合根)
type Room struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"-"` // MongoDB 的唯一 ID，不對外暴露
	RoomID     string             `bson:"roomId" json:"roomId"`   // 對外的房間識別碼 (uuid)
	Name       string             `bson:"name" json:"name"`
	Difficulty string             `bson:"difficulty" json:"difficulty"`
	Status     RoomStatus         `bson:"status" json:"status"`

	// 參與者與準備狀態，readyStatus 的鍵永遠是 participants 的子集
	Participants []string        `bson:"participants" json:"participants"`
	ReadyStatus  map[string]bool `bson:"readyStatus" json:"readyStatus"`

	MaxParticipants int `bson:"maxParticipants" json:"maxParticipants"`

	// 回合進度，currentRound 為 1-based
	CurrentRound int `bson:"currentRound" json:"currentRound"`
	TotalRounds  int `bson:"totalRounds" json:"totalRounds"`

	// 當前題目。答案絕對不能序列化到 JSON，否則會直接洩題給前端
	CurrentQuestion string   `bson:"currentQuestion" json:"currentQuestion,omitempty"`
	CurrentChoices  []string `bson:"currentChoices" json:"currentChoices,omitempty"`
	CurrentAnswer   string   `bson:"currentAnswer" json:"-"`

	// 本回合已答對的使用者，順序即提交順序，每回合重置
	AnsweredUsers []string `bson:"answeredUsers" json:"answeredUsers"`

	// 累計分數，跨回合保留，只在遊戲初始化時重置
	TotalScores map[string]int `bson:"totalScores" json:"totalScores"`

	Messages []Message `bson:"messages" json:"messages"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// IsFull 房間是否已滿
func (r *Room) IsFull() bool {
	return len(r.Participants) >= r.MaxParticipants
}

// HasParticipant 使用者是否已在房間內
func (r *Room) HasParticipant(userID string) bool {
	for _, id := range r.Participants {
		if id == userID {
			return true
		}
	}
	return false
}

// AllReady 是否所有參與者都已按下準備 (空房間視為未準備)
func (r *Room) AllReady() bool {
	if len(r.Participants) == 0 {
		return false
	}
	for _, id := range r.Participants {
		if !r.ReadyStatus[id] {
			return false
		}
	}
	return true
}

// HasAnswered 使用者本回合是否已經答對過
func (r *Room) HasAnswered(userID string) bool {
	for _, id := range r.AnsweredUsers {
		if id == userID {
			return true
		}
	}
	return false
}
