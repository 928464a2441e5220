package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"QUIZ_TIME_LIMIT_SECONDS", "PASS_CATEGORY_FLOOR", "PASS_OVERALL_FLOOR", "QUIZ_SHUFFLE_CHOICES", "ALLOWED_ORIGINS"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, time.Hour, cfg.QuizTimeLimit)
	assert.Equal(t, 0.5, cfg.PassCategoryFloor)
	assert.Equal(t, 0.7, cfg.PassOverallFloor)
	assert.False(t, cfg.ShuffleChoices)
	assert.Nil(t, cfg.AllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("QUIZ_TIME_LIMIT_SECONDS", "90")
	t.Setenv("PASS_CATEGORY_FLOOR", "0.6")
	t.Setenv("PASS_OVERALL_FLOOR", "1.5")
	t.Setenv("QUIZ_SHUFFLE_CHOICES", "true")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg := Load()
	assert.Equal(t, 90*time.Second, cfg.QuizTimeLimit)
	assert.Equal(t, 0.6, cfg.PassCategoryFloor)
	assert.Equal(t, 0.7, cfg.PassOverallFloor, "out-of-range floors fall back")
	assert.True(t, cfg.ShuffleChoices)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "user:7:missed_questions", CacheKey.UserMissedQuestionsKey(7))
	assert.Equal(t, "user:7:quiz_starts:42", CacheKey.UserStartLimitKey(7, 42))
	assert.Equal(t, "201601-22", CacheKey.HardQuestionMember(201601, 22))
}
