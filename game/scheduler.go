package game

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"go-quiz/backend/models"
)

// RoundWindow 每一回合的作答時間
const RoundWindow = 10 * time.Second

// Scheduler 驅動每個房間的出題節奏，與客戶端請求無關。
// 每個進行中的房間有一個自己的 goroutine 持有計時器 (不共用任何計時器表)，
// 啟動新的 runner 前一定先關掉同房間的舊 runner，
// 所以一個房間任何時刻最多只有一個活著的計時器
type Scheduler struct {
	store       RoomStore
	provider    QuestionProvider
	broadcaster Broadcaster
	locks       *lockTable
	roundWindow time.Duration

	mu      sync.Mutex
	runners map[string]chan struct{}
}

func newScheduler(store RoomStore, provider QuestionProvider, broadcaster Broadcaster, locks *lockTable) *Scheduler {
	return &Scheduler{
		store:       store,
		provider:    provider,
		broadcaster: broadcaster,
		locks:       locks,
		roundWindow: RoundWindow,
		runners:     make(map[string]chan struct{}),
	}
}

// Start 為房間啟動一場遊戲：先做遊戲初始化 (回合歸一、分數清空)，
// 再開一個 runner goroutine 跑回合循環
func (sch *Scheduler) Start(roomID string) {
	stop := sch.replaceRunner(roomID)

	ctx := context.Background()
	unlock := sch.locks.lock(roomID)
	_, err := sch.store.InitGame(ctx, roomID, models.TotalRounds)
	unlock()
	if err != nil {
		log.Printf("Error initializing game for room %s: %v", roomID, err)
		sch.release(roomID, stop)
		return
	}

	go sch.run(roomID, stop)
}

// Stop 取消房間的回合計時 (刪除房間時同步呼叫)
func (sch *Scheduler) Stop(roomID string) {
	sch.mu.Lock()
	defer sch.mu.Unlock()
	if stop, ok := sch.runners[roomID]; ok {
		close(stop)
		delete(sch.runners, roomID)
	}
}

// StopAll 伺服器關閉時取消所有房間的計時
func (sch *Scheduler) StopAll() {
	sch.mu.Lock()
	defer sch.mu.Unlock()
	for roomID, stop := range sch.runners {
		close(stop)
		delete(sch.runners, roomID)
	}
}

// replaceRunner 登記新的 stop channel，舊的 runner (若有) 先關掉
func (sch *Scheduler) replaceRunner(roomID string) chan struct{} {
	sch.mu.Lock()
	defer sch.mu.Unlock()
	if old, ok := sch.runners[roomID]; ok {
		close(old)
	}
	stop := make(chan struct{})
	sch.runners[roomID] = stop
	return stop
}

// release runner 結束時把自己從登記表移除 (只移除還屬於自己的項目)
func (sch *Scheduler) release(roomID string, stop chan struct{}) {
	sch.mu.Lock()
	defer sch.mu.Unlock()
	if current, ok := sch.runners[roomID]; ok && current == stop {
		delete(sch.runners, roomID)
	}
}

// run 回合循環：出題 → 等回合窗口 → 推進回合，直到回合數用完或被取消
func (sch *Scheduler) run(roomID string, stop chan struct{}) {
	defer sch.release(roomID, stop)

	for {
		if !sch.startNewQuestion(roomID) {
			return
		}

		timer := time.NewTimer(sch.roundWindow)
		select {
		case <-timer.C:
			if !sch.advanceRound(roomID) {
				return
			}
		case <-stop:
			timer.Stop()
			return
		}
	}
}

// startNewQuestion 出下一題。回傳 false 表示循環該結束
// (遊戲結束、房間已刪除、或發生錯誤)。
// 房間查不到時安靜退出，不重新武裝計時器 —— 刪除房間是預期情況
func (sch *Scheduler) startNewQuestion(roomID string) bool {
	ctx := context.Background()
	unlock := sch.locks.lock(roomID)
	defer unlock()

	room, err := sch.store.FindByID(ctx, roomID)
	if err != nil {
		if !errors.Is(err, models.ErrRoomNotFound) {
			log.Printf("Error loading room %s in scheduler: %v", roomID, err)
		}
		return false
	}
	if room.Status != models.RoomStatusPlaying {
		// 房間已被重置，這個 runner 已經過時了
		return false
	}

	// 回合數用完：結束遊戲，發最終分數，回到 lobby，不再武裝計時器
	if room.CurrentRound > room.TotalRounds {
		sch.finishGame(ctx, roomID, room.TotalScores)
		return false
	}

	question, err := sch.provider.Draw(ctx, roomID, room.Difficulty)
	if err != nil {
		// 出題失敗不能讓其他房間跟著倒：記錄後提前結束這場遊戲
		log.Printf("Error drawing question for room %s: %v", roomID, err)
		sch.finishGame(ctx, roomID, room.TotalScores)
		return false
	}

	updated, err := sch.store.SetQuestion(ctx, roomID, question.Prompt, question.Answer, question.Choices)
	if err != nil {
		if !errors.Is(err, models.ErrRoomNotFound) {
			log.Printf("Error storing question for room %s: %v", roomID, err)
		}
		return false
	}

	sch.broadcaster.ToRoom(roomID, models.Event{
		Event: models.EventNewQuestion,
		Data: models.NewQuestionPayload{
			Question:    question.Prompt,
			Choices:     question.Choices,
			Round:       updated.CurrentRound,
			TotalRounds: updated.TotalRounds,
		},
	})
	return true
}

// advanceRound 回合計時到期，推進到下一回合
func (sch *Scheduler) advanceRound(roomID string) bool {
	ctx := context.Background()
	unlock := sch.locks.lock(roomID)
	defer unlock()

	if _, err := sch.store.AdvanceRound(ctx, roomID); err != nil {
		if !errors.Is(err, models.ErrRoomNotFound) {
			log.Printf("Error advancing round for room %s: %v", roomID, err)
		}
		return false
	}
	return true
}

// finishGame 結束遊戲：廣播最終分數、回到 lobby、清空準備狀態
func (sch *Scheduler) finishGame(ctx context.Context, roomID string, totalScores map[string]int) {
	if totalScores == nil {
		totalScores = map[string]int{}
	}

	finished, err := sch.store.FinishGame(ctx, roomID)
	if err != nil {
		if !errors.Is(err, models.ErrRoomNotFound) {
			log.Printf("Error finishing game for room %s: %v", roomID, err)
		}
		return
	}

	sch.broadcaster.ToRoom(roomID, models.Event{
		Event: models.EventGameOver,
		Data:  models.GameOverPayload{TotalScores: totalScores},
	})
	sch.broadcaster.ToRoom(roomID, models.Event{Event: models.EventRoomUpdate, Data: finished})

	rooms, err := sch.store.All(ctx)
	if err != nil {
		log.Printf("Error loading room list after game over: %v", err)
		return
	}
	sch.broadcaster.ToLobby(models.Event{Event: models.EventRoomListUpdate, Data: rooms})
}
