package quiz

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"time"

	"go-quiz/backend/database"
	"go-quiz/backend/models"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// servedTTL 已出題紀錄的保存時間，一場遊戲綽綽有餘
const servedTTL = 30 * time.Minute

// WordSampler 題庫抽樣的介面，由 database.WordStore 實作
type WordSampler interface {
	Sample(ctx context.Context, level string, excludeIDs []primitive.ObjectID) (*models.Word, error)
}

// Provider 為房間出題。用 Redis 記住每個房間已出過的單字，
// 避免同一場遊戲重複出題；題庫抽完了就清掉紀錄重新來過。
// Redis 不可用時自動退化成純隨機抽樣
type Provider struct {
	words WordSampler
	rdb   *redis.Client
}

// NewProvider 建立 Provider
func NewProvider(words WordSampler, rdb *redis.Client) *Provider {
	return &Provider{words: words, rdb: rdb}
}

// servedKey 房間已出題集合的 Redis 鍵
func servedKey(roomID string) string {
	return "quiz:served:" + roomID
}

// Draw 為房間抽出一道指定難度的題目
func (p *Provider) Draw(ctx context.Context, roomID, difficulty string) (*models.Question, error) {
	exclude := p.servedIDs(ctx, roomID)

	word, err := p.words.Sample(ctx, difficulty, exclude)
	if errors.Is(err, database.ErrNoWordAvailable) && len(exclude) > 0 {
		// 題庫抽完了：清掉已出題紀錄，允許重複後再抽一次
		p.clearServed(ctx, roomID)
		word, err = p.words.Sample(ctx, difficulty, nil)
	}
	if err != nil {
		return nil, err
	}

	p.markServed(ctx, roomID, word.ID)

	return &models.Question{
		WordID:  word.ID,
		Prompt:  word.Meaning,
		Answer:  word.Word,
		Choices: shuffleChoices(word.Word, word.Quiz),
	}, nil
}

// servedIDs 讀出房間已出過的單字 ID，Redis 出錯時回傳空集合
func (p *Provider) servedIDs(ctx context.Context, roomID string) []primitive.ObjectID {
	if p.rdb == nil {
		return nil
	}

	members, err := p.rdb.SMembers(ctx, servedKey(roomID)).Result()
	if err != nil {
		log.Printf("Warning: failed to read served words for room %s: %v", roomID, err)
		return nil
	}

	ids := make([]primitive.ObjectID, 0, len(members))
	for _, member := range members {
		id, err := primitive.ObjectIDFromHex(member)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// markServed 記錄房間出過這個單字
func (p *Provider) markServed(ctx context.Context, roomID string, wordID primitive.ObjectID) {
	if p.rdb == nil {
		return
	}

	key := servedKey(roomID)
	if err := p.rdb.SAdd(ctx, key, wordID.Hex()).Err(); err != nil {
		log.Printf("Warning: failed to mark served word for room %s: %v", roomID, err)
		return
	}
	p.rdb.Expire(ctx, key, servedTTL)
}

// clearServed 清空房間的已出題紀錄
func (p *Provider) clearServed(ctx context.Context, roomID string) {
	if p.rdb == nil {
		return
	}
	if err := p.rdb.Del(ctx, servedKey(roomID)).Err(); err != nil {
		log.Printf("Warning: failed to clear served words for room %s: %v", roomID, err)
	}
}

// shuffleChoices 把正解混入干擾項並洗牌 (Fisher–Yates)
func shuffleChoices(answer string, decoys []string) []string {
	choices := make([]string, 0, len(decoys)+1)
	choices = append(choices, answer)
	for _, decoy := range decoys {
		if decoy != answer {
			choices = append(choices, decoy)
		}
	}

	rand.Shuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	})
	return choices
}
