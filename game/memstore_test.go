package game

import (
	"context"
	"sync"
	"time"

	"go-quiz/backend/models"
)

// memStore 測試用的記憶體版 RoomStore。
// 跟 Mongo 版一樣：變更操作回傳更新「後」的快照，且回傳的是副本，
// 避免測試拿到的快照跟內部狀態互相干擾
type memStore struct {
	mu    sync.Mutex
	rooms map[string]*models.Room
}

func newMemStore() *memStore {
	return &memStore{rooms: make(map[string]*models.Room)}
}

// snapshot 回傳房間的深拷貝
func snapshot(room *models.Room) *models.Room {
	copied := *room
	copied.Participants = append([]string(nil), room.Participants...)
	copied.AnsweredUsers = append([]string(nil), room.AnsweredUsers...)
	copied.CurrentChoices = append([]string(nil), room.CurrentChoices...)
	copied.Messages = append([]models.Message(nil), room.Messages...)
	copied.ReadyStatus = make(map[string]bool, len(room.ReadyStatus))
	for k, v := range room.ReadyStatus {
		copied.ReadyStatus[k] = v
	}
	copied.TotalScores = make(map[string]int, len(room.TotalScores))
	for k, v := range room.TotalScores {
		copied.TotalScores[k] = v
	}
	return &copied
}

func (s *memStore) get(roomID string) (*models.Room, error) {
	room, ok := s.rooms[roomID]
	if !ok {
		return nil, models.ErrRoomNotFound
	}
	return room, nil
}

func (s *memStore) Insert(_ context.Context, room *models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	room.CreatedAt = time.Now()
	room.UpdatedAt = room.CreatedAt
	s.rooms[room.RoomID] = snapshot(room)
	return nil
}

func (s *memStore) FindByID(_ context.Context, roomID string) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, err := s.get(roomID)
	if err != nil {
		return nil, err
	}
	return snapshot(room), nil
}

func (s *memStore) All(_ context.Context) ([]models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rooms := make([]models.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		rooms = append(rooms, *snapshot(room))
	}
	return rooms, nil
}

func (s *memStore) ByParticipant(_ context.Context, userID string) ([]models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var rooms []models.Room
	for _, room := range s.rooms {
		if room.HasParticipant(userID) {
			rooms = append(rooms, *snapshot(room))
		}
	}
	return rooms, nil
}

func (s *memStore) Delete(_ context.Context, roomID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, roomID)
	return nil
}

func (s *memStore) AddParticipant(_ context.Context, roomID, userID string) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, err := s.get(roomID)
	if err != nil {
		return nil, err
	}
	if !room.HasParticipant(userID) {
		room.Participants = append(room.Participants, userID)
	}
	return snapshot(room), nil
}

func (s *memStore) RemoveParticipant(_ context.Context, roomID, userID string) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, err := s.get(roomID)
	if err != nil {
		return nil, err
	}
	participants := room.Participants[:0]
	for _, id := range room.Participants {
		if id != userID {
			participants = append(participants, id)
		}
	}
	room.Participants = participants
	answered := room.AnsweredUsers[:0]
	for _, id := range room.AnsweredUsers {
		if id != userID {
			answered = append(answered, id)
		}
	}
	room.AnsweredUsers = answered
	delete(room.ReadyStatus, userID)
	return snapshot(room), nil
}

func (s *memStore) SetReady(_ context.Context, roomID, userID string, ready bool) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, err := s.get(roomID)
	if err != nil {
		return nil, err
	}
	if !room.HasParticipant(userID) {
		return nil, models.ErrRoomNotFound
	}
	if room.ReadyStatus == nil {
		room.ReadyStatus = map[string]bool{}
	}
	room.ReadyStatus[userID] = ready
	return snapshot(room), nil
}

func (s *memStore) SetStatus(_ context.Context, roomID string, from, to models.RoomStatus) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, err := s.get(roomID)
	if err != nil {
		return nil, err
	}
	if room.Status != from {
		// CAS 不成立，跟 Mongo 的 filtered update 一樣回報查無文件
		return nil, models.ErrRoomNotFound
	}
	room.Status = to
	return snapshot(room), nil
}

func (s *memStore) InitGame(_ context.Context, roomID string, totalRounds int) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, err := s.get(roomID)
	if err != nil {
		return nil, err
	}
	room.CurrentRound = 1
	room.TotalRounds = totalRounds
	room.TotalScores = map[string]int{}
	room.AnsweredUsers = []string{}
	return snapshot(room), nil
}

func (s *memStore) SetQuestion(_ context.Context, roomID, prompt, answer string, choices []string) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, err := s.get(roomID)
	if err != nil {
		return nil, err
	}
	room.CurrentQuestion = prompt
	room.CurrentAnswer = answer
	room.CurrentChoices = append([]string(nil), choices...)
	room.AnsweredUsers = []string{}
	return snapshot(room), nil
}

func (s *memStore) AdvanceRound(_ context.Context, roomID string) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, err := s.get(roomID)
	if err != nil {
		return nil, err
	}
	room.CurrentRound++
	room.CurrentQuestion = ""
	room.CurrentAnswer = ""
	room.CurrentChoices = nil
	room.AnsweredUsers = []string{}
	return snapshot(room), nil
}

func (s *memStore) FinishGame(_ context.Context, roomID string) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, err := s.get(roomID)
	if err != nil {
		return nil, err
	}
	room.Status = models.RoomStatusLobby
	room.ReadyStatus = map[string]bool{}
	room.CurrentQuestion = ""
	room.CurrentAnswer = ""
	room.CurrentChoices = nil
	room.AnsweredUsers = []string{}
	return snapshot(room), nil
}

func (s *memStore) RecordAnswer(_ context.Context, roomID, userID string, points int) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, err := s.get(roomID)
	if err != nil {
		return nil, err
	}
	room.AnsweredUsers = append(room.AnsweredUsers, userID)
	if room.TotalScores == nil {
		room.TotalScores = map[string]int{}
	}
	room.TotalScores[userID] += points
	return snapshot(room), nil
}

func (s *memStore) AppendMessage(_ context.Context, roomID string, message models.Message) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, err := s.get(roomID)
	if err != nil {
		return nil, err
	}
	room.Messages = append(room.Messages, message)
	return snapshot(room), nil
}
