package model

// UnclassifiedCategory is the category bucket for questions stored without one.
const UnclassifiedCategory = "未分類"

// QuestionRow is a question as stored in the questions table.
// Choice columns are positional and nullable; CorrectChoice is 1-based.
type QuestionRow struct {
	ID             int64   `json:"id"`
	YearID         int     `json:"year_id" binding:"required,min=1"`
	QuestionNumber int     `json:"question_number" binding:"required,min=1,max=60"`
	Category       *string `json:"category"`
	QuestionText   *string `json:"question_text"`
	Choice1        *string `json:"choice1"`
	Choice2        *string `json:"choice2"`
	Choice3        *string `json:"choice3"`
	Choice4        *string `json:"choice4"`
	Choice5        *string `json:"choice5"`
	Choice6        *string `json:"choice6"`
	Choice7        *string `json:"choice7"`
	Choice8        *string `json:"choice8"`
	Choice9        *string `json:"choice9"`
	CorrectChoice  *int    `json:"correct_choice" binding:"omitempty,min=1,max=9"`
	Explanation    *string `json:"explanation"`
	ImagePath      *string `json:"image_path"`
}

// Choices returns the nine positional choice columns in order.
func (r *QuestionRow) Choices() [9]*string {
	return [9]*string{
		r.Choice1, r.Choice2, r.Choice3, r.Choice4, r.Choice5,
		r.Choice6, r.Choice7, r.Choice8, r.Choice9,
	}
}

// Question is the canonical in-memory shape used by the quiz engine.
// It is also the element type of the persisted missed-question set.
type Question struct {
	ID             int64    `json:"id"`
	YearID         int      `json:"year_id"`
	QuestionNumber int      `json:"question_number"`
	Category       string   `json:"category"`
	RawText        string   `json:"raw_text"`
	Prompt         string   `json:"prompt"`
	ReadingRoot    int      `json:"reading_root,omitempty"`
	ReadingPassage string   `json:"reading_passage,omitempty"`
	Choices        []string `json:"choices"`
	CorrectIndex   int      `json:"correct_index"`
	Explanation    string   `json:"explanation,omitempty"`
	Image          string   `json:"image,omitempty"`
}

// QuestionForUser is the student-facing view of a session question (no answer key).
type QuestionForUser struct {
	Index          int      `json:"index"`
	YearID         int      `json:"year_id"`
	YearLabel      string   `json:"year_label"`
	QuestionNumber int      `json:"question_number"`
	GroupID        int      `json:"group_id"`
	Category       string   `json:"category"`
	Prompt         string   `json:"prompt"`
	ReadingPassage string   `json:"reading_passage,omitempty"`
	Choices        []string `json:"choices"`
	Image          string   `json:"image,omitempty"`
}

// ExamYear is a stored exam year with its display label.
type ExamYear struct {
	YearID        int    `json:"year_id"`
	Label         string `json:"label"`
	QuestionCount int    `json:"question_count"`
}
