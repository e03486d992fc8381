package service

import (
	"context"
	"sync"
	"time"

	"HabitPulse/internal/engine/pattern"
	"HabitPulse/internal/engine/trend"
	"HabitPulse/internal/model"
	"HabitPulse/internal/repository"
	"HabitPulse/utils"
)

type InsightService struct{}

var (
	insightService *InsightService
	insightOnce    sync.Once
)

func Insight() *InsightService {
	insightOnce.Do(func() {
		insightService = &InsightService{}
	})

	return insightService
}

// GetTrend 计算习惯在指定窗口的完成趋势
func (s *InsightService) GetTrend(ctx context.Context, userID, habitID int64, period string) (*model.TrendData, error) {
	p, err := ValidateTrendPeriod(period)
	if err != nil {
		return nil, err
	}

	habit, err := Habit().GetHabit(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}

	progress, err := repository.GetOrCreateProgress(ctx, habit.PublicID, userID)
	if err != nil {
		return nil, err
	}

	data := trend.Calculate(habit.PublicID, progress.CompletionDates, p, time.Now())
	return &data, nil
}

// GetPattern 从完成历史归纳时段偏好与一致性
func (s *InsightService) GetPattern(ctx context.Context, userID, habitID int64) (*model.PatternSummary, error) {
	habit, err := Habit().GetHabit(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}

	progress, err := repository.GetOrCreateProgress(ctx, habit.PublicID, userID)
	if err != nil {
		return nil, err
	}

	summary := pattern.Analyze(completionTimes(progress))
	return &summary, nil
}

// completionTimes 将进度快照还原为完成时间点列表
func completionTimes(progress *model.HabitProgress) []time.Time {
	loc := time.Local
	times := make([]time.Time, 0, len(progress.CompletionDates))
	for _, d := range progress.CompletionDates {
		day, err := utils.ParseDate(d, loc)
		if err != nil {
			continue
		}
		hour := 9
		if progress.CompletionHours != nil {
			if v, ok := progress.CompletionHours[d]; ok {
				if f, ok := v.(float64); ok {
					hour = int(f)
				}
			}
		}
		times = append(times, day.Add(time.Duration(hour)*time.Hour))
	}
	return times
}
