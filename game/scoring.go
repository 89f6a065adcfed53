package game

import (
	"context"
	"strings"

	"go-quiz/backend/models"
)

// scoreTable 依答對順位給分：第 1 名 100、第 2 名 70、第 3 名 50、
// 第 4 名 30，之後一律 0 分
var scoreTable = []int{100, 70, 50, 30}

// PointsForOrder 依 0-based 順位查分數表
func PointsForOrder(order int) int {
	if order >= 0 && order < len(scoreTable) {
		return scoreTable[order]
	}
	return 0
}

// AnswerResult 一次答題的結果
type AnswerResult struct {
	Correct         bool
	AlreadyAnswered bool
	TotalScore      int
}

// SubmitAnswer 處理答題。比對時只忽略前後空白，不做其他正規化
// (片假名/平假名視為不同答案)。同一回合重複提交是冪等的成功，不是錯誤。
// 回合何時結束由排程器決定，所以在計時器到期前晚到的正確答案照樣計分
func (s *Service) SubmitAnswer(ctx context.Context, roomID, userID, answer string) (*AnswerResult, error) {
	unlock := s.locks.lock(roomID)
	defer unlock()

	room, err := s.store.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	// 沒在遊戲中或沒有進行中的題目，一律視為答錯且不改變任何狀態
	if room.Status != models.RoomStatusPlaying || room.CurrentQuestion == "" {
		return &AnswerResult{Correct: false}, nil
	}
	if !room.HasParticipant(userID) {
		return &AnswerResult{Correct: false}, nil
	}

	// 冪等：已答對過的人再提交，不加分也不報錯
	if room.HasAnswered(userID) {
		return &AnswerResult{
			Correct:         true,
			AlreadyAnswered: true,
			TotalScore:      room.TotalScores[userID],
		}, nil
	}

	if strings.TrimSpace(answer) != strings.TrimSpace(room.CurrentAnswer) {
		return &AnswerResult{Correct: false}, nil
	}

	points := PointsForOrder(len(room.AnsweredUsers))
	updated, err := s.store.RecordAnswer(ctx, roomID, userID, points)
	if err != nil {
		return nil, err
	}

	s.broadcaster.ToRoom(roomID, models.Event{Event: models.EventRoomUpdate, Data: updated})

	return &AnswerResult{
		Correct:    true,
		TotalScore: updated.TotalScores[userID],
	}, nil
}
