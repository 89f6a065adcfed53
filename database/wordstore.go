package database

import (
	"context"
	"errors"

	"go-quiz/backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNoWordAvailable 該難度下已無可出題的單字
var ErrNoWordAvailable = errors.New("no word available for level")

// WordStore 是題庫 (words 集合) 的查詢層
type WordStore struct {
	collection *mongo.Collection
}

// NewWordStore 建立 WordStore
func NewWordStore(collection *mongo.Collection) *WordStore {
	return &WordStore{collection: collection}
}

// Sample 隨機抽出一個指定難度的單字，並排除已出過的題目
func (s *WordStore) Sample(ctx context.Context, level string, excludeIDs []primitive.ObjectID) (*models.Word, error) {
	match := bson.M{"word_level": level}
	if len(excludeIDs) > 0 {
		match["_id"] = bson.M{"$nin": excludeIDs}
	}

	// $sample 讓 MongoDB 端做隨機抽樣，不用把整個題庫撈回來
	pipeline := []bson.M{
		{"$match": match},
		{"$sample": bson.M{"size": 1}},
	}

	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var words []models.Word
	if err = cursor.All(ctx, &words); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, ErrNoWordAvailable
	}
	return &words[0], nil
}
