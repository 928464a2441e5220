package repository

import (
	"context"
	"strconv"
	"strings"

	"github.com/kakomon/kakomon-backend/internal/config"
	"github.com/kakomon/kakomon-backend/internal/model"
	"github.com/kakomon/kakomon-backend/internal/quiz"
	"github.com/redis/go-redis/v9"
)

// RankingRepository counts misses per stored question in a Redis sorted set.
type RankingRepository struct {
	rdb *redis.Client
}

// NewRankingRepository creates a new RankingRepository.
func NewRankingRepository(rdb *redis.Client) *RankingRepository {
	return &RankingRepository{rdb: rdb}
}

// RecordMisses increments the miss counter of every given question.
func (r *RankingRepository) RecordMisses(ctx context.Context, missed []model.Question) error {
	if len(missed) == 0 {
		return nil
	}
	key := config.CacheKey.HardQuestionRankingKey()
	pipe := r.rdb.Pipeline()
	for _, q := range missed {
		pipe.ZIncrBy(ctx, key, 1, config.CacheKey.HardQuestionMember(q.YearID, q.QuestionNumber))
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Top returns the n most-missed questions, most missed first.
func (r *RankingRepository) Top(ctx context.Context, n int) ([]model.HardQuestion, error) {
	entries, err := r.rdb.ZRevRangeWithScores(ctx, config.CacheKey.HardQuestionRankingKey(), 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}

	out := make([]model.HardQuestion, 0, len(entries))
	for _, e := range entries {
		member, ok := e.Member.(string)
		if !ok {
			continue
		}
		yearID, number, ok := parseRankingMember(member)
		if !ok {
			continue
		}
		out = append(out, model.HardQuestion{
			YearID:         yearID,
			YearLabel:      quiz.FormatYearLabel(yearID),
			QuestionNumber: number,
			Misses:         int64(e.Score),
		})
	}
	return out, nil
}

func parseRankingMember(member string) (yearID, number int, ok bool) {
	y, n, found := strings.Cut(member, "-")
	if !found {
		return 0, 0, false
	}
	yearID, err := strconv.Atoi(y)
	if err != nil {
		return 0, 0, false
	}
	number, err = strconv.Atoi(n)
	if err != nil {
		return 0, 0, false
	}
	return yearID, number, true
}
