package game

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"go-quiz/backend/models"

	"github.com/google/uuid"
)

// 驗證類錯誤：呈報給呼叫端，不改變任何狀態
var (
	ErrNameRequired      = errors.New("room name is required")
	ErrNameTooLong       = errors.New("room name is too long")
	ErrInvalidDifficulty = errors.New("invalid difficulty level")
	ErrRoomFull          = errors.New("room is full")
	ErrRoomNotLobby      = errors.New("game already started in this room")
	ErrTextRequired      = errors.New("message text is required")
)

// RoomStore 房間儲存的介面，由 database.RoomStore 實作。
// 所有變更操作都回傳更新後的快照，呼叫端直接拿來廣播
type RoomStore interface {
	Insert(ctx context.Context, room *models.Room) error
	FindByID(ctx context.Context, roomID string) (*models.Room, error)
	All(ctx context.Context) ([]models.Room, error)
	ByParticipant(ctx context.Context, userID string) ([]models.Room, error)
	Delete(ctx context.Context, roomID string) error
	AddParticipant(ctx context.Context, roomID, userID string) (*models.Room, error)
	RemoveParticipant(ctx context.Context, roomID, userID string) (*models.Room, error)
	SetReady(ctx context.Context, roomID, userID string, ready bool) (*models.Room, error)
	SetStatus(ctx context.Context, roomID string, from, to models.RoomStatus) (*models.Room, error)
	InitGame(ctx context.Context, roomID string, totalRounds int) (*models.Room, error)
	SetQuestion(ctx context.Context, roomID, prompt, answer string, choices []string) (*models.Room, error)
	AdvanceRound(ctx context.Context, roomID string) (*models.Room, error)
	FinishGame(ctx context.Context, roomID string) (*models.Room, error)
	RecordAnswer(ctx context.Context, roomID, userID string, points int) (*models.Room, error)
	AppendMessage(ctx context.Context, roomID string, message models.Message) (*models.Room, error)
}

// QuestionProvider 出題者的介面，由 quiz.Provider 實作
type QuestionProvider interface {
	Draw(ctx context.Context, roomID, difficulty string) (*models.Question, error)
}

// Broadcaster 廣播通道的介面，由 websocket.Hub 實作。
// ToRoom 發給房間頻道，ToLobby 發給所有連線 (大廳頻道)
type Broadcaster interface {
	ToRoom(roomID string, event models.Event)
	ToLobby(event models.Event)
}

// Service 負責房間的成員管理與狀態機：加入/離開/準備/刪除，
// 以及 lobby→playing 的轉換。每個房間有自己的互斥鎖，
// 保證同一房間的事件一次處理一件，不同房間互不影響
type Service struct {
	store       RoomStore
	broadcaster Broadcaster
	scheduler   *Scheduler
	locks       *lockTable
}

// NewService 建立 Service 與其內部的回合排程器
func NewService(store RoomStore, provider QuestionProvider, broadcaster Broadcaster) *Service {
	locks := newLockTable()
	return &Service{
		store:       store,
		broadcaster: broadcaster,
		scheduler:   newScheduler(store, provider, broadcaster, locks),
		locks:       locks,
	}
}

// Shutdown 停止所有房間的回合排程 (伺服器關閉時呼叫)
func (s *Service) Shutdown() {
	s.scheduler.StopAll()
}

// CreateRoom 建立新房間，建立者自動成為第一位參與者
func (s *Service) CreateRoom(ctx context.Context, userID, name, difficulty string) (*models.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if len([]rune(name)) > models.MaxRoomNameLength {
		return nil, ErrNameTooLong
	}
	if !models.IsValidDifficulty(difficulty) {
		return nil, ErrInvalidDifficulty
	}

	room := &models.Room{
		RoomID:          uuid.NewString(),
		Name:            name,
		Difficulty:      difficulty,
		Status:          models.RoomStatusLobby,
		Participants:    []string{userID},
		ReadyStatus:     map[string]bool{},
		MaxParticipants: models.MaxParticipants,
		TotalRounds:     models.TotalRounds,
		AnsweredUsers:   []string{},
		TotalScores:     map[string]int{},
		Messages:        []models.Message{},
	}

	if err := s.store.Insert(ctx, room); err != nil {
		return nil, err
	}

	s.broadcastRoomList(ctx)
	return room, nil
}

// ListRooms 大廳可見的所有房間快照
func (s *Service) ListRooms(ctx context.Context) ([]models.Room, error) {
	return s.store.All(ctx)
}

// GetRoom 單一房間快照
func (s *Service) GetRoom(ctx context.Context, roomID string) (*models.Room, error) {
	return s.store.FindByID(ctx, roomID)
}

// JoinRoom 使用者加入房間。房間不存在、已滿、或已開始遊戲都會被拒絕；
// 已在房間內的使用者重複加入視為成功且無副作用 ($addToSet 保證冪等)
func (s *Service) JoinRoom(ctx context.Context, roomID, userID string) (*models.Room, error) {
	unlock := s.locks.lock(roomID)
	defer unlock()

	room, err := s.store.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.Status != models.RoomStatusLobby {
		return nil, ErrRoomNotLobby
	}
	if room.IsFull() && !room.HasParticipant(userID) {
		return nil, ErrRoomFull
	}

	updated, err := s.store.AddParticipant(ctx, roomID, userID)
	if err != nil {
		return nil, err
	}

	s.broadcaster.ToRoom(roomID, models.Event{Event: models.EventRoomUpdate, Data: updated})
	s.broadcastRoomList(ctx)
	return updated, nil
}

// LeaveRoom 使用者離開房間。若離開後房間沒有任何參與者，立刻刪除房間
func (s *Service) LeaveRoom(ctx context.Context, roomID, userID string) error {
	unlock := s.locks.lock(roomID)
	defer unlock()
	return s.leaveLocked(ctx, roomID, userID)
}

// leaveLocked 實際的離開邏輯，呼叫端必須已持有該房間的鎖
func (s *Service) leaveLocked(ctx context.Context, roomID, userID string) error {
	updated, err := s.store.RemoveParticipant(ctx, roomID, userID)
	if err != nil {
		return err
	}

	if len(updated.Participants) == 0 {
		// 沒人了就刪房，同時取消任何還在跑的回合計時
		s.deleteRoomLocked(ctx, roomID)
	} else {
		s.broadcaster.ToRoom(roomID, models.Event{Event: models.EventRoomUpdate, Data: updated})
	}

	s.broadcastRoomList(ctx)
	return nil
}

// deleteRoomLocked 刪除房間並廣播刪除通知，呼叫端必須已持有該房間的鎖
func (s *Service) deleteRoomLocked(ctx context.Context, roomID string) {
	s.scheduler.Stop(roomID)
	if err := s.store.Delete(ctx, roomID); err != nil {
		log.Printf("Error deleting room %s: %v", roomID, err)
	}
	s.locks.forget(roomID)
	s.broadcaster.ToLobby(models.Event{
		Event: models.EventRoomDeleted,
		Data:  models.RoomDeletedPayload{RoomID: roomID},
	})
}

// Disconnect 連線中斷時的清理路徑：把使用者從他參加中的所有房間移除。
// 房間在處理途中消失視為已清理完成，不是錯誤
func (s *Service) Disconnect(ctx context.Context, userID string) {
	rooms, err := s.store.ByParticipant(ctx, userID)
	if err != nil {
		log.Printf("Error finding rooms for disconnected user %s: %v", userID, err)
		return
	}

	for _, room := range rooms {
		unlock := s.locks.lock(room.RoomID)
		if err := s.leaveLocked(ctx, room.RoomID, userID); err != nil && !errors.Is(err, models.ErrRoomNotFound) {
			log.Printf("Error removing user %s from room %s on disconnect: %v", userID, room.RoomID, err)
		}
		unlock()
	}
}

// SetReady 更新使用者的準備狀態。每次更新後重新檢查「所有人都已準備」，
// 條件成立且房間仍在 lobby 時，以 CAS 轉換到 playing 並啟動回合排程；
// CAS 保證同時多個準備事件也只會開始一場遊戲
func (s *Service) SetReady(ctx context.Context, roomID, userID string, ready bool) (*models.Room, error) {
	unlock := s.locks.lock(roomID)

	updated, err := s.store.SetReady(ctx, roomID, userID, ready)
	if err != nil {
		unlock()
		return nil, err
	}

	s.broadcaster.ToRoom(roomID, models.Event{Event: models.EventRoomUpdate, Data: updated})

	if updated.Status != models.RoomStatusLobby || !updated.AllReady() {
		unlock()
		return updated, nil
	}

	started, err := s.store.SetStatus(ctx, roomID, models.RoomStatusLobby, models.RoomStatusPlaying)
	if err != nil {
		unlock()
		if errors.Is(err, models.ErrRoomNotFound) {
			// CAS 沒成立：別的事件已經把遊戲開起來了
			return updated, nil
		}
		return nil, err
	}

	s.broadcaster.ToRoom(roomID, models.Event{Event: models.EventRoomUpdate, Data: started})
	s.broadcaster.ToRoom(roomID, models.Event{
		Event: models.EventGameStarted,
		Data:  models.GameStartedPayload{RoomID: roomID},
	})
	s.broadcastRoomList(ctx)
	unlock()

	// 排程器的遊戲初始化自己會拿房間鎖，必須先放掉這裡的鎖再啟動
	s.scheduler.Start(roomID)
	return started, nil
}

// SendMessage 附加一條聊天訊息並廣播給房間內所有人
func (s *Service) SendMessage(ctx context.Context, roomID, userID, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrTextRequired
	}

	message := models.Message{
		Sender:    userID,
		Text:      text,
		Timestamp: time.Now(),
	}

	if _, err := s.store.AppendMessage(ctx, roomID, message); err != nil {
		return err
	}

	s.broadcaster.ToRoom(roomID, models.Event{Event: models.EventNewMessage, Data: message})
	return nil
}

// broadcastRoomList 把最新的房間列表廣播到大廳頻道
func (s *Service) broadcastRoomList(ctx context.Context) {
	rooms, err := s.store.All(ctx)
	if err != nil {
		log.Printf("Error loading room list for broadcast: %v", err)
		return
	}
	s.broadcaster.ToLobby(models.Event{Event: models.EventRoomListUpdate, Data: rooms})
}

// lockTable 房間鎖表：同一房間的事件序列化處理，不做跨房間鎖定
type lockTable struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[string]*sync.Mutex)}
}

// lock 鎖住指定房間，回傳解鎖函數
func (t *lockTable) lock(roomID string) func() {
	t.mu.Lock()
	m, ok := t.locks[roomID]
	if !ok {
		m = &sync.Mutex{}
		t.locks[roomID] = m
	}
	t.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// forget 房間刪除後移除它的鎖
func (t *lockTable) forget(roomID string) {
	t.mu.Lock()
	delete(t.locks, roomID)
	t.mu.Unlock()
}
