package model

import "time"

// CategoryScore is the correct/total tally for one category.
type CategoryScore struct {
	Category string `json:"category"`
	Correct  int    `json:"correct"`
	Total    int    `json:"total"`
}

// ScoreRecord is written once per graded session and never read back by the engine.
type ScoreRecord struct {
	UserID     int             `json:"user_id"`
	YearID     int             `json:"year_id"`
	Score      int             `json:"score"`
	Total      int             `json:"total"`
	Percent    float64         `json:"percent"`
	Categories []CategoryScore `json:"categories"`
	Pass       bool            `json:"pass"`
	GradedAt   time.Time       `json:"graded_at"`
}

// ScoreHistoryEntry is a stored score row as shown in the user's history.
type ScoreHistoryEntry struct {
	ID         int64           `json:"id"`
	YearID     int             `json:"year_id"`
	YearLabel  string          `json:"year_label"`
	Score      int             `json:"score"`
	Total      int             `json:"total"`
	Percent    float64         `json:"percent"`
	Categories []CategoryScore `json:"categories"`
	Pass       bool            `json:"pass"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ScoreHistory is a user's recent scores with a pass summary over them.
type ScoreHistory struct {
	YearID   *int                `json:"year_id,omitempty"`
	Scores   []ScoreHistoryEntry `json:"scores"`
	Attempts int                 `json:"attempts"`
	Passes   int                 `json:"passes"`
	// PassRate is the percentage of attempts passed, one decimal place.
	PassRate float64 `json:"pass_rate"`
}

// HardQuestion is one entry of the most-missed ranking.
type HardQuestion struct {
	YearID         int    `json:"year_id"`
	YearLabel      string `json:"year_label"`
	QuestionNumber int    `json:"question_number"`
	Misses         int64  `json:"misses"`
}
