package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kakomon/kakomon-backend/internal/config"
	"github.com/kakomon/kakomon-backend/internal/middleware"
	"github.com/kakomon/kakomon-backend/internal/model"
	"github.com/kakomon/kakomon-backend/internal/response"
	"github.com/kakomon/kakomon-backend/internal/service"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memScores filters stored history the way the scores table does.
type memScores struct {
	entries []model.ScoreHistoryEntry
}

func (m memScores) ListYears(context.Context) ([]model.ExamYear, error) { return nil, nil }

func (m memScores) Top(context.Context, int) ([]model.HardQuestion, error) { return nil, nil }

func (m memScores) ListByUser(_ context.Context, _ int, yearID *int, limit int) ([]model.ScoreHistoryEntry, error) {
	var out []model.ScoreHistoryEntry
	for _, e := range m.entries {
		if yearID != nil && e.YearID != *yearID {
			continue
		}
		out = append(out, e)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func newStatsRouter(t *testing.T, scores memScores) (*gin.Engine, string) {
	t.Helper()

	auth := service.NewAuthService(&config.Config{JWTSecret: "test", JWTExpiry: time.Hour})
	sh := NewStatsHandler(service.NewStatsService(scores, scores, scores), zerolog.Nop())

	r := gin.New()
	r.Use(response.RequestIDMiddleware())
	r.GET("/api/v1/scores/me", middleware.RequireUserJWT(auth), sh.MyScores)

	token, err := auth.GenerateToken(5)
	require.NoError(t, err)
	return r, token
}

func TestStatsHandler_MyScores(t *testing.T) {
	r, token := newStatsRouter(t, memScores{entries: []model.ScoreHistoryEntry{
		{ID: 4, YearID: 201602, Pass: true},
		{ID: 3, YearID: 201601, Pass: true},
		{ID: 2, YearID: 201601},
		{ID: 1, YearID: 0, Pass: true},
	}})

	tests := []struct {
		name     string
		query    string
		code     int
		attempts int
		passes   int
		rate     float64
		errCode  response.ErrCode
	}{
		{name: "all years", query: "", code: http.StatusOK, attempts: 4, passes: 3, rate: 75},
		{name: "one year", query: "?year_id=201601", code: http.StatusOK, attempts: 2, passes: 1, rate: 50},
		{name: "mixed sessions", query: "?year_id=0", code: http.StatusOK, attempts: 1, passes: 1, rate: 100},
		{name: "year without scores", query: "?year_id=209901", code: http.StatusOK},
		{name: "non-numeric year", query: "?year_id=abc", code: http.StatusBadRequest, errCode: response.ErrInvalidID},
		{name: "negative year", query: "?year_id=-1", code: http.StatusBadRequest, errCode: response.ErrInvalidID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/scores/me"+tt.query, nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, tt.code, w.Code)
			var env envelope
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
			if tt.errCode != "" {
				require.NotNil(t, env.Error)
				assert.Equal(t, tt.errCode, env.Error.Code)
				return
			}

			var history model.ScoreHistory
			require.NoError(t, json.Unmarshal(env.Data, &history))
			assert.Len(t, history.Scores, tt.attempts)
			assert.Equal(t, tt.attempts, history.Attempts)
			assert.Equal(t, tt.passes, history.Passes)
			assert.Equal(t, tt.rate, history.PassRate)
		})
	}
}
