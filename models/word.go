package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Word 代表題庫中的一個單字文件
type Word struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Word     string             `bson:"word" json:"word"`                       // 日文單字 (即正解)
	Meaning  string             `bson:"word_meaning" json:"wordMeaning"`        // 單字意思 (作為題目顯示)
	Furigana string             `bson:"word_furigana" json:"wordFurigana"`      // 假名讀音
	Level    string             `bson:"word_level" json:"wordLevel"`            // 難度等級
	Quiz     []string           `bson:"word_quiz" json:"wordQuiz"`              // 干擾選項列表
}

// Question 代表出給房間的一道題
type Question struct {
	WordID  primitive.ObjectID // 來源單字，用於避免同場遊戲重複出題
	Prompt  string             // 題目 (顯示單字意思)
	Answer  string             // 正解 (日文單字)
	Choices []string           // 已洗牌的選項，包含正解與干擾項
}
