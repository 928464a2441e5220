package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrTokenRequired ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid  ErrCode = "TOKEN_INVALID"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Session start (empty states) ──────────────────────────────────
	ErrInvalidYears   ErrCode = "INVALID_YEARS"
	ErrNoUsableYears  ErrCode = "NO_USABLE_YEARS"
	ErrNothingToRetry ErrCode = "NOTHING_TO_RETRY"
	ErrNoQuestions    ErrCode = "NO_QUESTIONS"
	ErrLoadFailed     ErrCode = "LOAD_FAILED"

	// ─── Session state ─────────────────────────────────────────────────
	ErrNoActiveSession    ErrCode = "NO_ACTIVE_SESSION"
	ErrSessionGraded      ErrCode = "SESSION_GRADED"
	ErrSessionNotGraded   ErrCode = "SESSION_NOT_GRADED"
	ErrQuestionOutOfRange ErrCode = "QUESTION_OUT_OF_RANGE"
	ErrChoiceOutOfRange   ErrCode = "CHOICE_OUT_OF_RANGE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns the user-facing message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrTokenRequired:
		return "認証トークンが必要です。"
	case ErrTokenInvalid:
		return "認証トークンが無効です。"

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "入力内容に誤りがあります。"
	case ErrInvalidID:
		return "IDの形式が正しくありません。"
	case ErrInvalidPayload:
		return "リクエストの形式が正しくありません。"

	// ─── Session start (empty states) ──────────────────────────────────
	case ErrInvalidYears:
		return "年度指定が正しくありません。"
	case ErrNoUsableYears:
		return "有効な年度の問題が見つかりません。"
	case ErrNothingToRetry:
		return "間違えた問題がありません"
	case ErrNoQuestions:
		return "問題が用意できませんでした。"
	case ErrLoadFailed:
		return "読み込みエラーが発生しました。"

	// ─── Session state ─────────────────────────────────────────────────
	case ErrNoActiveSession:
		return "進行中の試験がありません。"
	case ErrSessionGraded:
		return "この試験はすでに採点されています。"
	case ErrSessionNotGraded:
		return "この試験はまだ採点されていません。"
	case ErrQuestionOutOfRange:
		return "問題番号が範囲外です。"
	case ErrChoiceOutOfRange:
		return "選択肢が範囲外です。"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "リクエストが多すぎます。しばらくしてから再度お試しください。"

	// ─── Server ────────────────────────────────────────────────────────
	case ErrNotFound:
		return "リソースが見つかりません。"
	case ErrInternal:
		return "サーバー内部でエラーが発生しました。"
	default:
		return "予期しないエラーが発生しました。"
	}
}
