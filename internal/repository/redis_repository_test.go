package repository

import (
	"context"
	"testing"

	"github.com/kakomon/kakomon-backend/internal/model"
	"github.com/kakomon/kakomon-backend/internal/testhelper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissedRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("needs a Redis container")
	}
	rdb := testhelper.NewRedisClient(t, testhelper.NewRedisContainer(t))
	repo := NewMissedRepository(rdb)
	ctx := context.Background()

	got, err := repo.Load(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)

	missed := []model.Question{
		{YearID: 201601, QuestionNumber: 3, Choices: []string{"a", "b"}, CorrectIndex: 1},
		{YearID: 201602, QuestionNumber: 50, Choices: []string{"x"}, ReadingRoot: 49},
	}
	require.NoError(t, repo.Store(ctx, 1, missed))

	got, err = repo.Load(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, missed, got)

	require.NoError(t, repo.Store(ctx, 1, nil))
	got, err = repo.Load(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got, "an empty set removes the key")
}

func TestRankingRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("needs a Redis container")
	}
	rdb := testhelper.NewRedisClient(t, testhelper.NewRedisContainer(t))
	repo := NewRankingRepository(rdb)
	ctx := context.Background()

	q := func(year, n int) model.Question { return model.Question{YearID: year, QuestionNumber: n} }
	require.NoError(t, repo.RecordMisses(ctx, []model.Question{q(201601, 5), q(201601, 7)}))
	require.NoError(t, repo.RecordMisses(ctx, []model.Question{q(201601, 5)}))
	require.NoError(t, repo.RecordMisses(ctx, nil))

	top, err := repo.Top(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []model.HardQuestion{
		{YearID: 201601, YearLabel: "2016前期", QuestionNumber: 5, Misses: 2},
	}, top)

	top, err = repo.Top(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, top, 2)
}

func TestParseRankingMember(t *testing.T) {
	y, n, ok := parseRankingMember("201602-41")
	assert.True(t, ok)
	assert.Equal(t, 201602, y)
	assert.Equal(t, 41, n)

	for _, bad := range []string{"", "201602", "x-1", "201602-"} {
		_, _, ok := parseRankingMember(bad)
		assert.False(t, ok, bad)
	}
}
