package utils

import (
	"time"
)

const DateLayout = "2006-01-02"

// ParseTime 解析时间字符串（格式：HH:MM:SS）并应用到指定日期
func ParseTime(timeStr string, date time.Time) (time.Time, error) {
	if timeStr == "" {
		return date, nil
	}

	parsedTime, err := time.Parse("15:04:05", timeStr)
	if err != nil {
		return date, err
	}

	return time.Date(
		date.Year(),
		date.Month(),
		date.Day(),
		parsedTime.Hour(),
		parsedTime.Minute(),
		parsedTime.Second(),
		0,
		date.Location(),
	), nil
}

// DateKey 返回日期部分的标准字符串 "2006-01-02"
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate 解析 "2006-01-02" 格式的日期，返回当地时区当天零点
func ParseDate(dateStr string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DateLayout, dateStr, loc)
}

// StartOfDay 返回所在日的零点
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek 返回所在周的周一零点
func StartOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7 // 周日按一周的第 7 天处理
	}
	return day.AddDate(0, 0, -(weekday - 1))
}

// DaysBetween 返回两个时间之间的整日历天数（b 之前的 a 为正）
func DaysBetween(a, b time.Time) int {
	da := StartOfDay(a)
	db := StartOfDay(b)
	return int(db.Sub(da).Hours() / 24)
}

// DaysRemainingInWeek 返回包含今天在内、本周剩余的天数（1~7）
func DaysRemainingInWeek(t time.Time) int {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return 7 - weekday + 1
}

// NextWeekday 返回 now 之后（不含当天已过时刻的处理由调用方负责）最近一个指定星期几的日期
func NextWeekday(now time.Time, target time.Weekday) time.Time {
	day := StartOfDay(now)
	offset := (int(target) - int(day.Weekday()) + 7) % 7
	return day.AddDate(0, 0, offset)
}
