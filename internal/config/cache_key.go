package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// UserMissedQuestionsKey returns the key holding a user's latest missed-question set
func (r *CacheKeyStruct) UserMissedQuestionsKey(userID int) string {
	return fmt.Sprintf("user:%d:missed_questions", userID)
}

// UserStartLimitKey returns the per-minute session start counter for a user
func (r *CacheKeyStruct) UserStartLimitKey(userID int, minute int64) string {
	return fmt.Sprintf("user:%d:quiz_starts:%d", userID, minute)
}

// HardQuestionRankingKey returns the sorted set counting misses per question
func (r *CacheKeyStruct) HardQuestionRankingKey() string {
	return "stats:hard_questions"
}

// HardQuestionMember returns the ranking member for one stored question
func (r *CacheKeyStruct) HardQuestionMember(yearID, questionNumber int) string {
	return fmt.Sprintf("%d-%d", yearID, questionNumber)
}

var CacheKey = NewCacheKeyStruct()
