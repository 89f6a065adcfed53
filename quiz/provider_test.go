package quiz

import (
	"context"
	"testing"

	"go-quiz/backend/database"
	"go-quiz/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeSampler 固定回傳同一個單字的題庫樁
type fakeSampler struct {
	word      *models.Word
	err       error
	lastLevel string
}

func (f *fakeSampler) Sample(ctx context.Context, level string, excludeIDs []primitive.ObjectID) (*models.Word, error) {
	f.lastLevel = level
	if f.err != nil {
		return nil, f.err
	}
	return f.word, nil
}

func TestDrawBuildsQuestionFromWord(t *testing.T) {
	word := &models.Word{
		ID:       primitive.NewObjectID(),
		Word:     "ねこ",
		Meaning:  "貓",
		Furigana: "ねこ",
		Level:    "JLPT N5",
		Quiz:     []string{"いぬ", "とり", "さかな"},
	}
	provider := NewProvider(&fakeSampler{word: word}, nil)

	question, err := provider.Draw(context.Background(), "room-1", "JLPT N5")
	require.NoError(t, err, "抽題不應該返回錯誤")

	// 題面是語意、正解是單字本身
	assert.Equal(t, word.ID, question.WordID)
	assert.Equal(t, "貓", question.Prompt, "題面應該是單字的語意")
	assert.Equal(t, "ねこ", question.Answer, "正解應該是單字本身")

	// 選項必須包含正解與所有干擾項
	assert.Len(t, question.Choices, 4)
	assert.Contains(t, question.Choices, "ねこ", "選項中必須有正解")
	for _, decoy := range word.Quiz {
		assert.Contains(t, question.Choices, decoy, "選項中必須有干擾項")
	}
}

func TestDrawPassesDifficultyToSampler(t *testing.T) {
	sampler := &fakeSampler{word: &models.Word{ID: primitive.NewObjectID(), Word: "犬", Meaning: "狗"}}
	provider := NewProvider(sampler, nil)

	_, err := provider.Draw(context.Background(), "room-1", "JPT 850")
	require.NoError(t, err)
	assert.Equal(t, "JPT 850", sampler.lastLevel, "抽樣時應該帶上房間的難度等級")
}

func TestDrawPropagatesEmptyPool(t *testing.T) {
	// 題庫一開始就是空的（沒有任何已出題紀錄可清）：錯誤直接往上傳
	provider := NewProvider(&fakeSampler{err: database.ErrNoWordAvailable}, nil)

	_, err := provider.Draw(context.Background(), "room-1", "JLPT N1")
	assert.ErrorIs(t, err, database.ErrNoWordAvailable, "空題庫的錯誤應該原樣傳回呼叫端")
}

func TestShuffleChoicesDropsDecoyEqualToAnswer(t *testing.T) {
	// 干擾項裡混進了正解：不能出現兩個一樣的選項
	choices := shuffleChoices("ねこ", []string{"いぬ", "ねこ", "とり"})

	assert.Len(t, choices, 3, "與正解重複的干擾項應該被剔除")
	count := 0
	for _, c := range choices {
		if c == "ねこ" {
			count++
		}
	}
	assert.Equal(t, 1, count, "正解在選項中只能出現一次")
}

func TestShuffleChoicesWithNoDecoys(t *testing.T) {
	choices := shuffleChoices("ねこ", nil)
	assert.Equal(t, []string{"ねこ"}, choices, "沒有干擾項時選項只剩正解")
}
