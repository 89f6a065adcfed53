package database

import (
	"context"
	"time"

	"go-quiz/backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RoomStore 是房間文件的儲存轉接層，所有變更都用單次 FindOneAndUpdate
// 並回傳更新「後」的快照，讓呼叫端可以直接廣播，不需要再重新查詢
type RoomStore struct {
	collection *mongo.Collection
}

// NewRoomStore 建立 RoomStore，集合由外部注入以便測試
func NewRoomStore(collection *mongo.Collection) *RoomStore {
	return &RoomStore{collection: collection}
}

// after 統一的 FindOneAndUpdate 選項：回傳更新後的文件
func after() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}

// findOneAndUpdate 執行更新並把 mongo.ErrNoDocuments 轉譯為領域錯誤
func (s *RoomStore) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*models.Room, error) {
	var room models.Room
	err := s.collection.FindOneAndUpdate(ctx, filter, update, after()).Decode(&room)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

// Insert 插入一個新房間
func (s *RoomStore) Insert(ctx context.Context, room *models.Room) error {
	room.CreatedAt = time.Now()
	room.UpdatedAt = room.CreatedAt
	result, err := s.collection.InsertOne(ctx, room)
	if err != nil {
		return err
	}
	room.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID 以 roomId 查詢單一房間
func (s *RoomStore) FindByID(ctx context.Context, roomID string) (*models.Room, error) {
	var room models.Room
	err := s.collection.FindOne(ctx, bson.M{"roomId": roomID}).Decode(&room)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

// All 查詢所有房間 (大廳列表用)，按建立時間排序
func (s *RoomStore) All(ctx context.Context) ([]models.Room, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := s.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rooms []models.Room
	if err = cursor.All(ctx, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// ByParticipant 查詢某使用者參加中的所有房間 (斷線清理用)
func (s *RoomStore) ByParticipant(ctx context.Context, userID string) ([]models.Room, error) {
	cursor, err := s.collection.Find(ctx, bson.M{"participants": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rooms []models.Room
	if err = cursor.All(ctx, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// Delete 刪除房間。房間已不存在不算錯誤 (刪除路徑把消失視為預期情況)
func (s *RoomStore) Delete(ctx context.Context, roomID string) error {
	_, err := s.collection.DeleteOne(ctx, bson.M{"roomId": roomID})
	return err
}

// AddParticipant 把使用者加入參與者列表 ($addToSet 保證不重複)
func (s *RoomStore) AddParticipant(ctx context.Context, roomID, userID string) (*models.Room, error) {
	return s.findOneAndUpdate(ctx,
		bson.M{"roomId": roomID},
		bson.M{
			"$addToSet": bson.M{"participants": userID},
			"$set":      bson.M{"updatedAt": time.Now()},
		},
	)
}

// RemoveParticipant 把使用者移出參與者列表，並一併清掉他的準備狀態
// 與本回合的答題紀錄 (answeredUsers 必須永遠是 participants 的子集，
// 留下的話他還會佔著一個給分順位)
func (s *RoomStore) RemoveParticipant(ctx context.Context, roomID, userID string) (*models.Room, error) {
	return s.findOneAndUpdate(ctx,
		bson.M{"roomId": roomID},
		bson.M{
			"$pull":  bson.M{"participants": userID, "answeredUsers": userID},
			"$unset": bson.M{"readyStatus." + userID: ""},
			"$set":   bson.M{"updatedAt": time.Now()},
		},
	)
}

// SetReady 更新單一使用者的準備狀態
func (s *RoomStore) SetReady(ctx context.Context, roomID, userID string, ready bool) (*models.Room, error) {
	return s.findOneAndUpdate(ctx,
		bson.M{"roomId": roomID, "participants": userID},
		bson.M{"$set": bson.M{
			"readyStatus." + userID: ready,
			"updatedAt":             time.Now(),
		}},
	)
}

// SetStatus 以 CAS 的方式轉換狀態：只有當前狀態等於 from 時才會更新，
// 保證 lobby→playing 這種轉換在並發下最多觸發一次
func (s *RoomStore) SetStatus(ctx context.Context, roomID string, from, to models.RoomStatus) (*models.Room, error) {
	return s.findOneAndUpdate(ctx,
		bson.M{"roomId": roomID, "status": from},
		bson.M{"$set": bson.M{
			"status":    to,
			"updatedAt": time.Now(),
		}},
	)
}

// InitGame 遊戲初始化：回合歸一、分數與答題紀錄清空
func (s *RoomStore) InitGame(ctx context.Context, roomID string, totalRounds int) (*models.Room, error) {
	return s.findOneAndUpdate(ctx,
		bson.M{"roomId": roomID},
		bson.M{"$set": bson.M{
			"currentRound":  1,
			"totalRounds":   totalRounds,
			"totalScores":   bson.M{},
			"answeredUsers": []string{},
			"updatedAt":     time.Now(),
		}},
	)
}

// SetQuestion 寫入本回合的題目並重置答題紀錄
func (s *RoomStore) SetQuestion(ctx context.Context, roomID, prompt, answer string, choices []string) (*models.Room, error) {
	return s.findOneAndUpdate(ctx,
		bson.M{"roomId": roomID},
		bson.M{"$set": bson.M{
			"currentQuestion": prompt,
			"currentAnswer":   answer,
			"currentChoices":  choices,
			"answeredUsers":   []string{},
			"updatedAt":       time.Now(),
		}},
	)
}

// AdvanceRound 回合計時到期後推進到下一回合
func (s *RoomStore) AdvanceRound(ctx context.Context, roomID string) (*models.Room, error) {
	return s.findOneAndUpdate(ctx,
		bson.M{"roomId": roomID},
		bson.M{
			"$inc": bson.M{"currentRound": 1},
			"$set": bson.M{
				"currentQuestion": "",
				"currentAnswer":   "",
				"currentChoices":  []string{},
				"answeredUsers":   []string{},
				"updatedAt":       time.Now(),
			},
		},
	)
}

// FinishGame 遊戲結束：回到 lobby 狀態並清空準備狀態，
// totalScores 保留給 gameOver 事件使用
func (s *RoomStore) FinishGame(ctx context.Context, roomID string) (*models.Room, error) {
	return s.findOneAndUpdate(ctx,
		bson.M{"roomId": roomID},
		bson.M{"$set": bson.M{
			"status":          models.RoomStatusLobby,
			"readyStatus":     bson.M{},
			"currentQuestion": "",
			"currentAnswer":   "",
			"currentChoices":  []string{},
			"answeredUsers":   []string{},
			"updatedAt":       time.Now(),
		}},
	)
}

// RecordAnswer 記錄一次答對：附加到 answeredUsers 並累加分數
func (s *RoomStore) RecordAnswer(ctx context.Context, roomID, userID string, points int) (*models.Room, error) {
	return s.findOneAndUpdate(ctx,
		bson.M{"roomId": roomID},
		bson.M{
			"$push": bson.M{"answeredUsers": userID},
			"$inc":  bson.M{"totalScores." + userID: points},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
}

// AppendMessage 附加一條聊天訊息到房間的訊息日誌
func (s *RoomStore) AppendMessage(ctx context.Context, roomID string, message models.Message) (*models.Room, error) {
	return s.findOneAndUpdate(ctx,
		bson.M{"roomId": roomID},
		bson.M{
			"$push": bson.M{"messages": message},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
}
