package errors

import "fmt"

func (d Definition) Error() string {
	return d.Message
}

// Definition 表示业务错误码及默认信息。
type Definition struct {
	Code    string
	Message string
}

// 认证相关错误。
var (
	Unauthorized  = Definition{Code: "UNAUTHORIZED", Message: "Unauthorized"}
	InvalidUserID = Definition{Code: "INVALID_USER_ID", Message: "Invalid user ID format"}
	TokenExpired  = Definition{Code: "TOKEN_EXPIRED", Message: "Token expired"}
)

// 习惯模块错误。
var (
	HabitNotFound         = Definition{Code: "HABIT_NOT_FOUND", Message: "Habit not found"}
	HabitFrequencyInvalid = Definition{Code: "HABIT_FREQUENCY_INVALID", Message: "Habit frequency invalid"}
	CompletionDateInvalid = Definition{Code: "COMPLETION_DATE_INVALID", Message: "Completion date invalid"}
	CompletionInFuture    = Definition{Code: "COMPLETION_IN_FUTURE", Message: "Completion date is in the future"}
)

// 提醒模块错误。
var (
	ReminderPeriodInvalid = Definition{Code: "REMINDER_PERIOD_INVALID", Message: "Reminder period invalid"}
)

// 趋势分析模块错误。
var (
	TrendPeriodInvalid = Definition{Code: "TREND_PERIOD_INVALID", Message: "Trend period invalid"}
)

// 恢复计划模块错误。
var (
	RecoverySessionNotFound = Definition{Code: "RECOVERY_SESSION_NOT_FOUND", Message: "Recovery session not found"}
	RecoveryStepOutOfRange  = Definition{Code: "RECOVERY_STEP_OUT_OF_RANGE", Message: "Recovery step out of range"}
	RecoveryOutcomeInvalid  = Definition{Code: "RECOVERY_OUTCOME_INVALID", Message: "Recovery outcome invalid"}
)

// 徽章模块错误。
var (
	BadgeNotFound = Definition{Code: "BADGE_NOT_FOUND", Message: "Badge not found"}
)

// 通用错误。
var (
	TooManyRequests = Definition{Code: "TOO_MANY_REQUESTS", Message: "Too many requests, please retry later"}
)

// Lookup 提供错误码查询能力。
var Lookup = map[string]Definition{
	Unauthorized.Code:            Unauthorized,
	InvalidUserID.Code:           InvalidUserID,
	TokenExpired.Code:            TokenExpired,
	HabitNotFound.Code:           HabitNotFound,
	HabitFrequencyInvalid.Code:   HabitFrequencyInvalid,
	CompletionDateInvalid.Code:   CompletionDateInvalid,
	CompletionInFuture.Code:      CompletionInFuture,
	ReminderPeriodInvalid.Code:   ReminderPeriodInvalid,
	TrendPeriodInvalid.Code:      TrendPeriodInvalid,
	RecoverySessionNotFound.Code: RecoverySessionNotFound,
	RecoveryStepOutOfRange.Code:  RecoveryStepOutOfRange,
	RecoveryOutcomeInvalid.Code:  RecoveryOutcomeInvalid,
	BadgeNotFound.Code:           BadgeNotFound,
	TooManyRequests.Code:         TooManyRequests,
}

// Get 根据错误码返回 Definition，若不存在则返回空 Definition。
func Get(code string) Definition {
	if def, ok := Lookup[code]; ok {
		return def
	}
	return Definition{Code: code, Message: "Unexpected error"}
}

var ErrTokenGeneratorNotInitialized = Definition{Code: "TOKEN_GENERATOR_NOT_INITIALIZED", Message: "Token generator not initialized"}

// SkipMessageError 表示消息已被处理过，消费者应直接 Ack 跳过而不是重试。
type SkipMessageError struct {
	Reason string
}

func (e *SkipMessageError) Error() string {
	return fmt.Sprintf("skip message: %s", e.Reason)
}
